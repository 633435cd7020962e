package spectator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"golang.org/x/sync/errgroup"

	"github.com/udisondev/matchday/internal/config"
	"github.com/udisondev/matchday/internal/game"
)

// Source provides the snapshots to stream.
type Source interface {
	Snapshot() game.Snapshot
}

// Server serves /ws (a snapshot stream) and /snapshot (a single JSON copy).
type Server struct {
	src      Source
	hub      *Hub
	cfg      config.SpectatorConfig
	upgrader websocket.Upgrader
}

// NewServer creates a spectator server for src.
func NewServer(src Source, cfg config.SpectatorConfig) *Server {
	return &Server{
		src: src,
		hub: NewHub(),
		cfg: cfg,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			// Read-only feed, any page may watch.
			CheckOrigin: func(*http.Request) bool { return true },
		},
	}
}

// Hub returns the server's hub.
func (s *Server) Hub() *Hub { return s.hub }

// Handler returns the HTTP routes.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", s.serveWs)
	mux.HandleFunc("GET /snapshot", s.serveSnapshot)
	return mux
}

func (s *Server) serveWs(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Debug("spectator upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	c := newClient(s.hub, conn)
	// New spectators get the current state without waiting for a change.
	if payload, err := json.Marshal(s.src.Snapshot()); err == nil {
		c.send <- payload
	}
	if !s.hub.add(c) {
		conn.Close()
		return
	}
	go c.writePump()
	go c.readPump()
}

func (s *Server) serveSnapshot(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.src.Snapshot()); err != nil {
		slog.Warn("encoding snapshot", "error", err)
	}
}

// Publish broadcasts a snapshot every interval until ctx is canceled.
// Unchanged snapshots are skipped.
func (s *Server) Publish(ctx context.Context) error {
	ticker := time.NewTicker(s.cfg.Interval)
	defer ticker.Stop()

	var last []byte
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			payload, err := json.Marshal(s.src.Snapshot())
			if err != nil {
				return fmt.Errorf("encoding snapshot: %w", err)
			}
			if string(payload) == string(last) {
				continue
			}
			if !s.hub.Broadcast(ctx, payload) {
				return nil
			}
			last = payload
		}
	}
}

// Run listens on the configured address and serves until ctx is canceled.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.BindAddress)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.cfg.BindAddress, err)
	}
	return s.Serve(ctx, ln)
}

// Serve runs the hub, the publisher and the HTTP server on ln.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.hub.Run(gctx)
		return nil
	})
	g.Go(func() error {
		return s.Publish(gctx)
	})
	g.Go(func() error {
		slog.Info("spectator listening", "address", ln.Addr().String(), "interval", s.cfg.Interval)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("spectator server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
