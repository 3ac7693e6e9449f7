package playback

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	hclog "github.com/hashicorp/go-hclog"
)

// Server streams registered videos over HTTP with range support.
type Server struct {
	registry *Registry
	logger   hclog.Logger
	http     *http.Server
}

func NewServer(registry *Registry, logger hclog.Logger) *Server {
	return &Server{registry: registry, logger: logger}
}

func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get(mediaRoute+"{token}", s.serveMedia)
	r.Head(mediaRoute+"{token}", s.serveMedia)
	return r
}

func (s *Server) serveMedia(w http.ResponseWriter, r *http.Request) {
	e, ok := s.registry.lookup(chi.URLParam(r, "token"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	file, err := os.Open(e.path)
	if err != nil {
		s.logger.Warn("open registered video", "path", e.path, "error", err)
		http.NotFound(w, r)
		return
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		http.Error(w, "stat video", http.StatusInternalServerError)
		return
	}
	http.ServeContent(w, r, e.name, info.ModTime(), file)
}

// Start listens on addr and points the registry at the bound address. It
// returns once the listener is ready.
func (s *Server) Start(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", fmt.Errorf("listen playback: %w", err)
	}
	base := "http://" + ln.Addr().String()
	s.registry.SetBase(base)
	s.http = &http.Server{Handler: s.Routes(), ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("playback server stopped", "error", err)
		}
	}()
	s.logger.Debug("playback server listening", "base", base)
	return base, nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
