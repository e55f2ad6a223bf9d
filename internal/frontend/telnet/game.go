package telnet

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/cory-johannsen/sugoroku/internal/frontend/console"
	"github.com/cory-johannsen/sugoroku/internal/frontend/render"
	"github.com/cory-johannsen/sugoroku/internal/game/session"
)

// Title is the first line every client sees.
const Title = "すごろく"

// GameHandler plays one game per connection.
type GameHandler struct {
	sessions        *session.Manager
	computerPlayers int
	logger          *zap.Logger
}

// NewGameHandler creates a handler whose games are registered with sessions.
//
// Precondition: sessions and logger are non-nil; computerPlayers >= 0.
func NewGameHandler(sessions *session.Manager, computerPlayers int, logger *zap.Logger) *GameHandler {
	return &GameHandler{sessions: sessions, computerPlayers: computerPlayers, logger: logger}
}

// HandleSession implements SessionHandler.
func (h *GameHandler) HandleSession(ctx context.Context, conn *Conn) error {
	style := ANSI{}
	for _, l := range []string{style.Apply(render.RoleTitle, Title), console.MsgBadStartLine} {
		if err := conn.WriteLine(l); err != nil {
			return err
		}
	}

	var opts session.Options
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := conn.WritePrompt(console.Prompt); err != nil {
			return err
		}
		line, err := conn.ReadLine()
		if err != nil {
			return err
		}
		if opts, err = console.ParseStart(line, h.computerPlayers); err == nil {
			break
		}
		if err := conn.WriteLine(style.Apply(render.RoleNegative, err.Error())); err != nil {
			return err
		}
	}

	c, err := h.sessions.Start(ctx, opts)
	if err != nil {
		_ = conn.WriteLine(style.Apply(render.RoleNegative, "ゲームを開始できませんでした。"))
		return fmt.Errorf("starting game: %w", err)
	}
	defer func() { _ = h.sessions.Remove(c.ID()) }()

	logger := h.logger.With(zap.String("session", c.ID()), zap.String("remote_addr", conn.RemoteAddr().String()))
	d, err := console.NewDriver(c, style, logger)
	if err != nil {
		return err
	}
	if err := conn.WriteLine("help でコマンド一覧を表示します。"); err != nil {
		return err
	}
	return console.Play(ctx, d, conn)
}
