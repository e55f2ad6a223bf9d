package ws

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/cory-johannsen/sugoroku/internal/config"
	"github.com/cory-johannsen/sugoroku/internal/game/session"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = pongWait * 9 / 10
	maxMessageSize = 8192
	outboxSize     = 256
	shutdownWait   = 5 * time.Second
)

// Path is where the upgrade handler is mounted.
const Path = "/ws"

// Server accepts WebSocket connections and plays one game per connection.
type Server struct {
	cfg             config.WebSocketConfig
	sessions        *session.Manager
	computerPlayers int
	logger          *zap.Logger
	upgrader        websocket.Upgrader

	// ctx is cancelled by Stop and bounds every game.
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	httpSrv  *http.Server
	listener net.Listener
	stopped  bool
	conns    sync.WaitGroup
}

// NewServer creates a server.
//
// Precondition: sessions and logger are non-nil; computerPlayers >= 0.
func NewServer(cfg config.WebSocketConfig, sessions *session.Manager, computerPlayers int, logger *zap.Logger) *Server {
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		ctx:             ctx,
		cancel:          cancel,
		cfg:             cfg,
		sessions:        sessions,
		computerPlayers: computerPlayers,
		logger:          logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(*http.Request) bool { return true },
		},
	}
}

// Handler returns the HTTP handler serving Path.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Path, s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = fmt.Fprintf(w, "ok %d\n", s.sessions.Count())
	})
	return mux
}

// ListenAndServe serves until Stop is called.
//
// Postcondition: returns nil after Stop.
func (s *Server) ListenAndServe() error {
	listener, err := net.Listen("tcp", s.cfg.Addr())
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.Addr(), err)
	}
	srv := &http.Server{Handler: s.Handler(), ReadHeaderTimeout: 10 * time.Second}

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		listener.Close()
		return nil
	}
	s.httpSrv = srv
	s.listener = listener
	s.mu.Unlock()

	s.logger.Info("websocket server listening", zap.String("addr", listener.Addr().String()))
	if err := srv.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Addr returns the bound address, or "" before ListenAndServe has bound.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// Stop shuts the HTTP server down, closes every game connection, and waits
// for their goroutines.
func (s *Server) Stop() {
	s.mu.Lock()
	s.stopped = true
	srv := s.httpSrv
	s.mu.Unlock()

	// Upgraded connections are not tracked by Shutdown; each client
	// closes its socket when ctx ends.
	s.cancel()
	if srv != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownWait)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			s.logger.Warn("websocket shutdown", zap.Error(err))
		}
	}
	s.conns.Wait()
	s.logger.Info("websocket server stopped")
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		http.Error(w, "shutting down", http.StatusServiceUnavailable)
		return
	}
	s.conns.Add(1)
	s.mu.Unlock()
	defer s.conns.Done()

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("websocket upgrade failed", zap.Error(err))
		return
	}
	s.logger.Info("websocket client connected", zap.String("remote_addr", conn.RemoteAddr().String()))

	newClient(s, conn).run(s.ctx)
}
