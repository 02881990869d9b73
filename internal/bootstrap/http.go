package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/lavictoria/club-api/internal/config"
)

// Server owns the HTTP listener lifecycle.
type Server struct {
	cfg    *config.Config
	server *http.Server
}

func New(cfg *config.Config, handler http.Handler) *Server {
	return &Server{
		cfg: cfg,
		server: &http.Server{
			Addr:           fmt.Sprintf(":%d", cfg.App.Port),
			Handler:        handler,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			IdleTimeout:    cfg.Server.IdleTimeout,
			MaxHeaderBytes: 1 << 20,
		},
	}
}

func (s *Server) Port() int {
	return s.cfg.App.Port
}

// Start blocks until the listener stops. Returns http.ErrServerClosed after Shutdown.
func (s *Server) Start() error {
	slog.Info("Starting HTTP server",
		"port", s.cfg.App.Port,
		"env", s.cfg.App.Env,
		"read_timeout", s.cfg.Server.ReadTimeout,
		"write_timeout", s.cfg.Server.WriteTimeout,
	)

	return s.server.ListenAndServe()
}

// Shutdown stops accepting requests and waits for in-flight ones. Hijacked websocket
// connections are not tracked; close them separately.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	return s.server.Shutdown(ctx)
}
