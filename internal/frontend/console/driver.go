// Package console drives a session from a line-oriented terminal: it paces
// logs until the human has to roll and interprets the commands typed at the
// roll prompt.
package console

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/cory-johannsen/sugoroku/internal/frontend/render"
	"github.com/cory-johannsen/sugoroku/internal/game/checkpoint"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/session"
	"github.com/cory-johannsen/sugoroku/internal/replay"
)

// Prompt is shown while the driver waits for the human.
const Prompt = "> "

// Messages shown by the driver.
const (
	MsgLoadQueued   = "ターン終了時に読み込みます。"
	MsgLoaded       = "セーブデータを読み込みました。"
	MsgLoadFailed   = "読み込みに失敗しました: "
	MsgSaveCode     = "セーブコード:"
	MsgReplayCode   = "リプレイコード:"
	MsgUnknown      = "不明なコマンドです。help で一覧を表示します。"
	MsgAbandoned    = "ゲームを中断しました。"
	MsgBadStartLine = "Enter で新しいゲーム、replay <コード> でリプレイを再生します。"
)

// HelpLines lists the commands accepted at the roll prompt.
var HelpLines = []string{
	"Enter / roll   サイコロを振る",
	"status         全員の状況を表示",
	"save           直前のターン終了時点のセーブコードを表示",
	"load <コード>  ターン終了時にセーブコードを読み込む",
	"replay         ここまでのリプレイコードを表示",
	"help           このヘルプ",
	"quit           ゲームを中断",
}

// Driver paces one session for a single human.
//
// A Driver is not safe for concurrent use.
type Driver struct {
	c      *session.Controller
	style  render.Style
	logger *zap.Logger

	// boundary is the snapshot taken at the most recent turn end.
	boundary []byte
	pending  []byte
	quit     bool
	done     bool
}

// NewDriver wraps c. The opening state is the first save point.
//
// Precondition: c, style, and logger are non-nil; c has not been advanced.
func NewDriver(c *session.Controller, style render.Style, logger *zap.Logger) (*Driver, error) {
	boundary, err := checkpoint.Encode(c.State())
	if err != nil {
		return nil, fmt.Errorf("console: initial snapshot: %w", err)
	}
	return &Driver{
		c:        c,
		style:    style,
		logger:   logger.With(zap.String("session", c.ID())),
		boundary: boundary,
	}, nil
}

// Done reports whether the game is over or was abandoned.
func (d *Driver) Done() bool { return d.done }

// Advance pulls logs until the human must roll or the game ends, and
// returns them rendered.
//
// Postcondition: if done is false the last log pulled waits for input.
func (d *Driver) Advance() (lines []string, done bool) {
	if d.done {
		return nil, true
	}
	if d.quit {
		d.c.Close()
		d.done = true
		return []string{d.style.Apply(render.RoleTitle, MsgAbandoned)}, true
	}
	for {
		step := d.c.Next()
		if step.Done {
			d.done = true
			return append(lines, render.Summary(step.Message, d.c.State().Trophies, d.style)...), true
		}
		lines = append(lines, render.Line(step.Log, d.style))
		if step.Log.Kind == narration.KindTurnEnd && d.c.Loadable() {
			lines = append(lines, d.atBoundary()...)
		}
		if render.WaitsForInput(step.Log) {
			return lines, false
		}
	}
}

func (d *Driver) atBoundary() []string {
	if d.pending != nil {
		data := d.pending
		d.pending = nil
		if err := d.c.Load(data); err != nil {
			d.logger.Warn("queued load failed", zap.Error(err))
			return []string{d.style.Apply(render.RoleNegative, MsgLoadFailed+err.Error())}
		}
		d.boundary = data
		out := []string{d.style.Apply(render.RoleTitle, MsgLoaded)}
		return append(out, render.Standings(d.c.State(), d.style)...)
	}
	snap, err := checkpoint.Encode(d.c.State())
	if err != nil {
		d.logger.Error("snapshot at turn end", zap.Error(err))
		return nil
	}
	d.boundary = snap
	return nil
}

// Command interprets one line typed at the roll prompt. resume reports
// whether the driver should Advance.
func (d *Driver) Command(line string) (out []string, resume bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, true
	}
	d.logger.Debug("command", zap.String("verb", fields[0]))
	switch strings.ToLower(fields[0]) {
	case "roll", "r":
		return nil, true
	case "quit", "exit":
		d.quit = true
		return nil, true
	case "help", "?":
		return HelpLines, false
	case "status":
		return render.Standings(d.c.State(), d.style), false
	case "save":
		tok, err := checkpoint.Pack(d.boundary)
		if err != nil {
			return d.failure(err), false
		}
		return []string{MsgSaveCode, tok}, false
	case "load":
		if len(fields) != 2 {
			return []string{"load <コード>"}, false
		}
		return d.queueLoad(fields[1]), false
	case "replay":
		code, err := d.c.ReplayCode()
		if err != nil {
			return d.failure(err), false
		}
		return []string{MsgReplayCode, code}, false
	default:
		return []string{MsgUnknown}, false
	}
}

func (d *Driver) queueLoad(tok string) []string {
	data, err := checkpoint.Unpack(tok)
	if err == nil {
		_, err = checkpoint.Decode(data)
	}
	if err != nil {
		return []string{d.style.Apply(render.RoleNegative, MsgLoadFailed+err.Error())}
	}
	d.pending = data
	return []string{MsgLoadQueued}
}

func (d *Driver) failure(err error) []string {
	d.logger.Warn("command failed", zap.Error(err))
	return []string{d.style.Apply(render.RoleNegative, err.Error())}
}

// ParseStart reads the line typed before a game starts: empty for a new
// game, or "replay <code>" to reproduce a recorded one.
func ParseStart(line string, computerPlayers int) (session.Options, error) {
	opts := session.Options{ComputerPlayers: computerPlayers}
	fields := strings.Fields(line)
	switch {
	case len(fields) == 0:
		return opts, nil
	case len(fields) == 2 && strings.EqualFold(fields[0], "replay"):
		history, err := replay.Decode(fields[1])
		if err != nil {
			return opts, err
		}
		opts.Replay = history
		return opts, nil
	default:
		return opts, errors.New(MsgBadStartLine)
	}
}

// LineIO is a line-oriented terminal such as a telnet connection.
type LineIO interface {
	ReadLine() (string, error)
	WriteLine(text string) error
	WritePrompt(prompt string) error
}

// Play runs d over rw until the game ends, the human quits, ctx is
// cancelled, or rw fails.
func Play(ctx context.Context, d *Driver, rw LineIO) error {
	for {
		lines, done := d.Advance()
		if err := writeAll(rw, lines); err != nil {
			return err
		}
		if done {
			return nil
		}
		for resume := false; !resume; {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := rw.WritePrompt(Prompt); err != nil {
				return err
			}
			in, err := rw.ReadLine()
			if err != nil {
				return err
			}
			var out []string
			out, resume = d.Command(in)
			if err := writeAll(rw, out); err != nil {
				return err
			}
		}
	}
}

func writeAll(rw LineIO, lines []string) error {
	for _, l := range lines {
		if err := rw.WriteLine(l); err != nil {
			return err
		}
	}
	return nil
}
