// Package server exposes the game engine over WebSocket. Clients send
// JSON envelopes; every accepted action is answered with a fresh state
// snapshot for each subscriber of the game.
package server

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ashtagame/ashta-server-go/internal/config"
)

// Server owns the HTTP listener and the hub.
type Server struct {
	cfg    config.ServerConfig
	hub    *Hub
	logger *zap.Logger
	http   *http.Server
}

// New builds the server around an already wired hub.
func New(cfg config.ServerConfig, hub *Hub, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{cfg: cfg, hub: hub, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.serveWS)
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	s.http = &http.Server{Addr: cfg.Address, Handler: mux}
	return s
}

// Start runs the hub and the HTTP listener until the context is
// cancelled, then shuts the listener down gracefully.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("websocket server listening", zap.String("address", s.cfg.Address))
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return s.http.Shutdown(shutdownCtx)
}

func (s *Server) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := &Client{
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		remote: r.RemoteAddr,
	}
	s.hub.register <- client

	pongWait := s.cfg.PingInterval * 2
	if pongWait <= 0 {
		pongWait = time.Minute
	}
	pingInterval := s.cfg.PingInterval
	if pingInterval <= 0 {
		pingInterval = 30 * time.Second
	}
	go client.writePump(pingInterval)
	go client.readPump(s.hub, s.cfg.ReadLimit, pongWait)
}
