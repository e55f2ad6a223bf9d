package console_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/sugoroku/internal/frontend/console"
	"github.com/cory-johannsen/sugoroku/internal/frontend/render"
	"github.com/cory-johannsen/sugoroku/internal/game/board"
	"github.com/cory-johannsen/sugoroku/internal/game/checkpoint"
	"github.com/cory-johannsen/sugoroku/internal/game/dice"
	"github.com/cory-johannsen/sugoroku/internal/game/session"
	"github.com/cory-johannsen/sugoroku/internal/game/trophy"
	"github.com/cory-johannsen/sugoroku/internal/replay"
)

func newDriver(t *testing.T, seed uint64, opts session.Options) (*console.Driver, *session.Controller) {
	t.Helper()
	deps := session.Deps{
		Board:  board.Default(),
		Source: dice.NewSeededSource(seed),
		Store:  trophy.NewMemoryStore(),
		Logger: zap.NewNop(),
	}
	c, err := session.NewController(context.Background(), deps, opts)
	require.NoError(t, err)
	t.Cleanup(c.Close)
	d, err := console.NewDriver(c, render.Plain{}, zap.NewNop())
	require.NoError(t, err)
	return d, c
}

// script is a LineIO that answers reads from a fixed list, then repeats
// fallback up to limit more times before reporting EOF.
type script struct {
	inputs   []string
	fallback string
	limit    int
	out      []string
}

func (s *script) ReadLine() (string, error) {
	if len(s.inputs) > 0 {
		in := s.inputs[0]
		s.inputs = s.inputs[1:]
		return in, nil
	}
	if s.limit <= 0 {
		return "", io.EOF
	}
	s.limit--
	return s.fallback, nil
}

func (s *script) WriteLine(text string) error {
	s.out = append(s.out, text)
	return nil
}

func (s *script) WritePrompt(string) error { return nil }

func TestPlay_RunsToGameOver(t *testing.T) {
	d, c := newDriver(t, 7, session.Options{ComputerPlayers: 2})
	term := &script{limit: 10000}
	require.NoError(t, console.Play(context.Background(), d, term))
	assert.True(t, d.Done())
	require.True(t, c.Done())
	assert.Contains(t, term.out, c.Next().Message)
}

func TestPlay_QuitAbandons(t *testing.T) {
	d, c := newDriver(t, 7, session.Options{ComputerPlayers: 1})
	term := &script{inputs: []string{"quit"}}
	require.NoError(t, console.Play(context.Background(), d, term))
	assert.Equal(t, console.MsgAbandoned, term.out[len(term.out)-1])
	assert.True(t, c.Done())
}

func TestPlay_InputErrorStops(t *testing.T) {
	d, _ := newDriver(t, 7, session.Options{})
	err := console.Play(context.Background(), d, &script{})
	assert.ErrorIs(t, err, io.EOF)
}

func TestPlay_CancelledContext(t *testing.T) {
	d, _ := newDriver(t, 7, session.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := console.Play(ctx, d, &script{limit: 10})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCommand_InformationalCommandsDoNotResume(t *testing.T) {
	d, _ := newDriver(t, 7, session.Options{ComputerPlayers: 1})
	_, done := d.Advance()
	require.False(t, done)

	for _, cmd := range []string{"help", "status", "save", "replay", "bogus", "load"} {
		out, resume := d.Command(cmd)
		assert.False(t, resume, cmd)
		assert.NotEmpty(t, out, cmd)
	}
	for _, cmd := range []string{"", "  ", "roll", "R"} {
		_, resume := d.Command(cmd)
		assert.True(t, resume, "%q", cmd)
	}
}

func TestCommand_ReplayCodeMatchesHistory(t *testing.T) {
	d, c := newDriver(t, 3, session.Options{ComputerPlayers: 1})
	_, _ = d.Advance()
	d.Command("")
	_, _ = d.Advance()

	out, _ := d.Command("replay")
	require.Len(t, out, 2)
	history, err := replay.Decode(out[1])
	require.NoError(t, err)
	assert.Equal(t, c.State().DiceHistory, history)
	assert.NotEmpty(t, history)
}

func TestCommand_LoadAppliesAtNextTurnEnd(t *testing.T) {
	d, c := newDriver(t, 11, session.Options{})
	_, done := d.Advance()
	require.False(t, done)

	out, _ := d.Command("save")
	require.Len(t, out, 2)
	tok := out[1]

	d.Command("")
	_, done = d.Advance()
	require.False(t, done)
	require.NotEmpty(t, c.State().DiceHistory)

	out, resume := d.Command("load " + tok)
	assert.False(t, resume)
	assert.Equal(t, []string{console.MsgLoadQueued}, out)

	lines, _ := d.Advance()
	assert.Contains(t, lines, console.MsgLoaded)
	assert.Empty(t, c.State().DiceHistory)
	assert.Equal(t, 0, c.State().Human().Position)
}

func TestCommand_LoadRejectsBadToken(t *testing.T) {
	d, _ := newDriver(t, 7, session.Options{})
	_, _ = d.Advance()
	out, resume := d.Command("load not-a-token")
	assert.False(t, resume)
	require.Len(t, out, 1)
	assert.True(t, strings.HasPrefix(out[0], console.MsgLoadFailed))

	tok, err := checkpoint.Pack([]byte("version: 99\n"))
	require.NoError(t, err)
	out, _ = d.Command("load " + tok)
	assert.True(t, strings.HasPrefix(out[0], console.MsgLoadFailed))
}

func TestParseStart(t *testing.T) {
	opts, err := console.ParseStart("", 3)
	require.NoError(t, err)
	assert.Equal(t, 3, opts.ComputerPlayers)
	assert.Nil(t, opts.Replay)

	code, err := replay.Encode([]int{1, 2, 3})
	require.NoError(t, err)
	opts, err = console.ParseStart("replay "+code, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, opts.Replay)

	_, err = console.ParseStart("replay !!", 1)
	assert.ErrorIs(t, err, replay.ErrMalformed)
	_, err = console.ParseStart("dance", 1)
	assert.Error(t, err)
}
