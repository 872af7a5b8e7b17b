package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/JaimeStill/jurispanel/internal/config"
	"github.com/JaimeStill/jurispanel/internal/infrastructure"
	"github.com/JaimeStill/jurispanel/pkg/lifecycle"
)

// Server owns the shared infrastructure, the mounted modules and the
// listener that fronts them.
type Server struct {
	infra    *infrastructure.Infrastructure
	modules  *Modules
	listener *listener
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	modules, err := NewModules(infra, cfg)
	if err != nil {
		return nil, err
	}

	router := buildRouter(infra, cfg)
	modules.Mount(router)

	return &Server{
		infra:    infra,
		modules:  modules,
		listener: newListener(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start launches subsystems and begins accepting connections. Readiness is
// logged once every startup hook has returned.
func (s *Server) Start() error {
	if err := s.infra.Start(); err != nil {
		return err
	}
	if err := s.listener.start(s.infra.Lifecycle); err != nil {
		return err
	}

	go func() {
		s.infra.Lifecycle.WaitForStartup()
		s.infra.Logger.Info("ready", "subsystems_ready", s.infra.Ready())
	}()
	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("shutdown requested", "timeout", timeout)
	return s.infra.Lifecycle.Shutdown(timeout)
}

type listener struct {
	srv    *http.Server
	logger *slog.Logger
	drain  time.Duration
}

func newListener(cfg *config.ServerConfig, handler http.Handler, logger *slog.Logger) *listener {
	return &listener{
		srv: &http.Server{
			Addr:         cfg.Addr(),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeoutDuration(),
			WriteTimeout: cfg.WriteTimeoutDuration(),
		},
		logger: logger.With("system", "http"),
		drain:  cfg.ShutdownTimeoutDuration(),
	}
}

// start binds synchronously so a busy port fails Start instead of being
// logged from a goroutine.
func (l *listener) start(lc *lifecycle.Coordinator) error {
	ln, err := net.Listen("tcp", l.srv.Addr)
	if err != nil {
		return err
	}
	l.logger.Info("listening", "addr", ln.Addr().String())

	go func() {
		if err := l.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.logger.Error("serve failed", "error", err)
		}
	}()

	lc.OnShutdown(func() {
		<-lc.Context().Done()

		ctx, cancel := context.WithTimeout(context.Background(), l.drain)
		defer cancel()

		if err := l.srv.Shutdown(ctx); err != nil {
			l.logger.Error("drain incomplete", "error", err)
			return
		}
		l.logger.Info("stopped")
	})
	return nil
}
