package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/cory-johannsen/sugoroku/internal/frontend/console"
	"github.com/cory-johannsen/sugoroku/internal/frontend/render"
	"github.com/cory-johannsen/sugoroku/internal/game/board"
	"github.com/cory-johannsen/sugoroku/internal/game/dice"
	"github.com/cory-johannsen/sugoroku/internal/game/session"
	"github.com/cory-johannsen/sugoroku/internal/game/state"
	"github.com/cory-johannsen/sugoroku/internal/game/trophy"
)

func starter(t *testing.T) StartFunc {
	deps := session.Deps{
		Board:  board.Default(),
		Source: dice.NewSeededSource(21),
		Store:  trophy.NewMemoryStore(),
		Logger: zap.NewNop(),
	}
	return func(opts session.Options) (*session.Controller, error) {
		c, err := session.NewController(context.Background(), deps, opts)
		if err == nil {
			t.Cleanup(c.Close)
		}
		return c, err
	}
}

func press(t *testing.T, m tea.Model, text string) tea.Model {
	t.Helper()
	mm := m.(model)
	mm.input.SetValue(text)
	next, _ := mm.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return next
}

func newTestModel(t *testing.T, start StartFunc) tea.Model {
	m := NewModel(start, 1, zap.NewNop())
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return m
}

func TestEnterStartsGameAndPausesForRoll(t *testing.T) {
	m := press(t, newTestModel(t, starter(t)), "")
	mm := m.(model)
	require.Equal(t, screenPlaying, mm.screen)
	require.NotEmpty(t, mm.lines)
	assert.Contains(t, mm.View(), state.HumanName)
	assert.Contains(t, mm.View(), "CP1")
}

func TestCommandsAppendOutput(t *testing.T) {
	m := press(t, newTestModel(t, starter(t)), "")
	before := len(m.(model).lines)

	m = press(t, m, "help")
	mm := m.(model)
	assert.Equal(t, before+len(console.HelpLines), len(mm.lines))

	m = press(t, m, "quit")
	mm = m.(model)
	assert.Equal(t, screenOver, mm.screen)
	assert.Contains(t, mm.lines[len(mm.lines)-1], console.MsgAbandoned)

	_, cmd := m.(model).Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestBadStartLineStaysOnStartScreen(t *testing.T) {
	m := press(t, newTestModel(t, starter(t)), "dance")
	mm := m.(model)
	assert.Equal(t, screenStart, mm.screen)
	assert.Len(t, mm.lines, 1)
}

func TestPaletteColorsRoles(t *testing.T) {
	assert.Equal(t, "平凡", DefaultPalette.Apply(render.RolePlain, "平凡"))
	assert.Contains(t, DefaultPalette.Apply(render.RoleTitle, "見出し"), "見出し")
}

func TestStartFailureShowsError(t *testing.T) {
	m := press(t, newTestModel(t, func(session.Options) (*session.Controller, error) {
		return nil, errors.New("store offline")
	}), "")
	mm := m.(model)
	assert.Equal(t, screenError, mm.screen)
	assert.Contains(t, mm.View(), "store offline")
}

func TestPlayToGameOver(t *testing.T) {
	m := press(t, newTestModel(t, starter(t)), "")
	for i := 0; i < 5000 && m.(model).screen == screenPlaying; i++ {
		m = press(t, m, "")
	}
	assert.Equal(t, screenOver, m.(model).screen)
}

func TestEscQuits(t *testing.T) {
	m := press(t, newTestModel(t, starter(t)), "")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
	assert.True(t, m.(model).ctrl.Done())
}
