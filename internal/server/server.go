// Package server streams a running world to remote viewers over WebSocket.
// Viewers receive one JSON Frame per tick and steer the scene by sending
// automation actions, e.g. {"op":"toggle_black_hole"} or
// {"op":"cursor","x":1,"y":5,"z":0}.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/san-kum/gravballs/internal/automation"
	"github.com/san-kum/gravballs/internal/sim"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultFPS = 30

	writeWait       = time.Second
	shutdownTimeout = 2 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

type Server struct {
	sim *sim.Simulator
	fps int
	log *zap.Logger
	hub *hub

	mu   sync.Mutex // guards sim, seq and last
	seq  uint64
	last []byte
}

func New(s *sim.Simulator, fps int, log *zap.Logger) *Server {
	if fps <= 0 {
		fps = DefaultFPS
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{sim: s, fps: fps, log: log, hub: newHub()}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.handleWS)
	mux.HandleFunc("/frame", s.handleFrame)
	mux.HandleFunc("/ops", s.handleOps)
	return mux
}

// Clients is the number of connected viewers.
func (s *Server) Clients() int { return s.hub.count() }

// Tick advances the world by one frame interval and broadcasts the frame.
// Only one goroutine may tick at a time.
func (s *Server) Tick() {
	s.mu.Lock()
	st := s.sim.Advance(1 / float64(s.fps))
	s.seq++
	data, err := json.Marshal(buildFrame(s.seq, s.sim, st.Collisions, st.Consumed))
	if err == nil {
		s.last = data
	}
	s.mu.Unlock()

	if err != nil {
		s.log.Error("encode frame", zap.Error(err))
		return
	}
	s.hub.broadcast(data, s.log)
}

// Apply runs one viewer action between ticks.
func (s *Server) Apply(a automation.Action) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return automation.Apply(s.sim, a)
}

// Run ticks at the configured rate until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(s.fps))
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Tick()
		}
	}
}

// ListenAndServe serves on addr and ticks the world until ctx is canceled,
// then disconnects every viewer and shuts the listener down.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.log.Info("serving", zap.String("addr", addr), zap.Int("fps", s.fps))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error { return s.Run(ctx) })
	g.Go(func() error {
		<-ctx.Done()
		s.hub.closeAll()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Warn("websocket upgrade failed", zap.String("addr", r.RemoteAddr), zap.Error(err))
		return
	}

	c := &client{conn: conn, addr: r.RemoteAddr}
	s.hub.add(c)
	s.log.Info("viewer connected", zap.String("addr", c.addr), zap.Int("clients", s.hub.count()))
	defer func() {
		s.hub.remove(c)
		_ = conn.Close()
		s.log.Info("viewer disconnected", zap.String("addr", c.addr), zap.Int("clients", s.hub.count()))
	}()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var a automation.Action
		if err := json.Unmarshal(msg, &a); err != nil {
			s.log.Warn("malformed action", zap.String("addr", c.addr), zap.Error(err))
			continue
		}
		if err := s.Apply(a); err != nil {
			s.log.Warn("rejected action", zap.String("addr", c.addr), zap.String("op", a.Op), zap.Error(err))
		}
	}
}

// handleFrame serves the most recent frame for polling clients.
func (s *Server) handleFrame(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data := s.last
	s.mu.Unlock()

	if data == nil {
		http.Error(w, "no frame yet", http.StatusServiceUnavailable)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	_, _ = w.Write(data)
}

func (s *Server) handleOps(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(automation.Ops())
}
