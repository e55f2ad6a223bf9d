package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/sugoroku/internal/config"
	"github.com/cory-johannsen/sugoroku/internal/frontend/render"
	"github.com/cory-johannsen/sugoroku/internal/game/checkpoint"
	"github.com/cory-johannsen/sugoroku/internal/game/narration"
	"github.com/cory-johannsen/sugoroku/internal/game/session"
	"github.com/cory-johannsen/sugoroku/internal/replay"
)

var (
	errNoGame      = errors.New("no game in progress")
	errGameStarted = errors.New("a game is already in progress")
)

// client is one connection. Only the read loop touches the controller;
// only the write pump touches the socket's writer.
type client struct {
	srv    *Server
	conn   *websocket.Conn
	out    *session.Outbox
	base   *zap.Logger
	logger *zap.Logger

	ctrl     *session.Controller
	boundary []byte
	pending  []byte
}

func newClient(s *Server, conn *websocket.Conn) *client {
	addr := conn.RemoteAddr().String()
	logger := s.logger.With(zap.String("remote_addr", addr))
	return &client{
		srv:    s,
		conn:   conn,
		out:    session.NewOutbox(addr, outboxSize),
		base:   logger,
		logger: logger,
	}
}

func (c *client) run(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	written := make(chan struct{})
	go func() {
		defer close(written)
		c.writePump(ctx)
	}()
	go func() {
		<-ctx.Done()
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	defer func() {
		c.endGame()
		c.out.Close()
		<-written
		_ = c.conn.Close()
		c.logger.Info("websocket client disconnected")
	}()

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) && ctx.Err() == nil {
				c.logger.Debug("websocket read", zap.Error(err))
			}
			return
		}
		var m Message
		if err := json.Unmarshal(data, &m); err != nil {
			c.fail(fmt.Errorf("malformed message: %w", err))
			continue
		}
		if err := c.handle(ctx, m); err != nil {
			c.fail(err)
		}
		if c.out.IsClosed() {
			return
		}
	}
}

func (c *client) writePump(ctx context.Context) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case frame, ok := <-c.out.Frames():
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, frame); err != nil {
				c.logger.Debug("websocket write", zap.Error(err))
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// send queues a frame. A full outbox means the peer stopped reading, so
// the connection is dropped.
func (c *client) send(typ string, payload any) {
	frame, err := encode(typ, payload)
	if err != nil {
		c.logger.Error("encoding frame", zap.String("type", typ), zap.Error(err))
		return
	}
	if err := c.out.Push(frame); err != nil {
		c.logger.Warn("dropping slow client", zap.Error(err))
		c.out.Close()
	}
}

func (c *client) fail(err error) {
	c.send(TypeError, ErrorPayload{Message: err.Error()})
}

func (c *client) handle(ctx context.Context, m Message) error {
	switch m.Type {
	case TypeStart:
		return c.start(ctx, m.Payload)
	case TypeNext:
		if c.ctrl == nil {
			return errNoGame
		}
		c.advance()
		return nil
	case TypeSave:
		if c.ctrl == nil {
			return errNoGame
		}
		tok, err := checkpoint.Pack(c.boundary)
		if err != nil {
			return err
		}
		c.send(TypeCheckpoint, TokenPayload{Token: tok})
		return nil
	case TypeLoad:
		if c.ctrl == nil {
			return errNoGame
		}
		return c.queueLoad(m.Payload)
	case TypeReplay:
		if c.ctrl == nil {
			return errNoGame
		}
		code, err := c.ctrl.ReplayCode()
		if err != nil {
			return err
		}
		c.send(TypeReplayCode, TokenPayload{Token: code})
		return nil
	default:
		return fmt.Errorf("unknown message type %q", m.Type)
	}
}

func (c *client) start(ctx context.Context, raw json.RawMessage) error {
	if c.ctrl != nil {
		return errGameStarted
	}
	var p StartPayload
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &p); err != nil {
			return fmt.Errorf("malformed start payload: %w", err)
		}
	}
	opts := session.Options{ComputerPlayers: c.srv.computerPlayers}
	if p.ComputerPlayers != nil {
		if *p.ComputerPlayers < 0 || *p.ComputerPlayers > config.MaxComputerPlayers {
			return fmt.Errorf("computer_players must be between 0 and %d", config.MaxComputerPlayers)
		}
		opts.ComputerPlayers = *p.ComputerPlayers
	}
	if p.Replay != "" {
		history, err := replay.Decode(p.Replay)
		if err != nil {
			return err
		}
		opts.Replay = history
	}

	ctrl, err := c.srv.sessions.Start(ctx, opts)
	if err != nil {
		return err
	}
	boundary, err := checkpoint.Encode(ctrl.State())
	if err != nil {
		_ = c.srv.sessions.Remove(ctrl.ID())
		return err
	}
	c.ctrl, c.boundary, c.pending = ctrl, boundary, nil
	c.logger = c.base.With(zap.String("session", ctrl.ID()))
	c.advance()
	return nil
}

func (c *client) queueLoad(raw json.RawMessage) error {
	var p TokenPayload
	if err := json.Unmarshal(raw, &p); err != nil {
		return fmt.Errorf("malformed load payload: %w", err)
	}
	data, err := checkpoint.Unpack(p.Token)
	if err != nil {
		return err
	}
	if _, err := checkpoint.Decode(data); err != nil {
		return err
	}
	c.pending = data
	c.send(TypeLoadQueued, nil)
	return nil
}

// advance streams logs until the human must roll or the game ends.
func (c *client) advance() {
	for !c.out.IsClosed() {
		step := c.ctrl.Next()
		if step.Done {
			c.send(TypeGameOver, GameOverPayload{Message: step.Message, Trophies: trophies(c.ctrl.State().Trophies)})
			c.endGame()
			return
		}
		frame, err := logFrame(step.Log)
		if err != nil {
			c.logger.Error("encoding log", zap.Error(err))
			continue
		}
		if err := c.out.Push(frame); err != nil {
			c.logger.Warn("dropping slow client", zap.Error(err))
			c.out.Close()
			return
		}
		if step.Log.Kind == narration.KindTurnEnd && c.ctrl.Loadable() {
			c.atBoundary()
		}
		if render.WaitsForInput(step.Log) {
			c.send(TypeAwait, nil)
			return
		}
	}
}

func (c *client) atBoundary() {
	if c.pending != nil {
		data := c.pending
		c.pending = nil
		if err := c.ctrl.Load(data); err != nil {
			c.fail(err)
			return
		}
		c.boundary = data
		c.send(TypeLoaded, nil)
		return
	}
	snap, err := checkpoint.Encode(c.ctrl.State())
	if err != nil {
		c.logger.Error("snapshot at turn end", zap.Error(err))
		return
	}
	c.boundary = snap
}

func (c *client) endGame() {
	if c.ctrl == nil {
		return
	}
	_ = c.srv.sessions.Remove(c.ctrl.ID())
	c.ctrl = nil
	c.boundary, c.pending = nil, nil
	c.logger = c.base
}
