// Package database opens the PostgreSQL pool used by the session and audit
// repositories and ties its ping and close to the application lifecycle.
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/JaimeStill/jurispanel/pkg/lifecycle"
)

type System interface {
	Connection() *sql.DB
	// Start pings on startup and closes the pool on shutdown.
	Start(lc *lifecycle.Coordinator) error
	Ready() bool
}

type pool struct {
	db      *sql.DB
	logger  *slog.Logger
	timeout time.Duration
	ready   atomic.Bool
}

// New configures the pool without dialing. The first connection is made by
// the startup ping.
func New(cfg *Config, logger *slog.Logger) (System, error) {
	db, err := sql.Open("pgx", cfg.Dsn())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetimeDuration())

	return &pool{
		db:      db,
		logger:  logger.With("system", "database", "host", cfg.Host, "name", cfg.Name),
		timeout: cfg.ConnTimeoutDuration(),
	}, nil
}

func (p *pool) Connection() *sql.DB { return p.db }

func (p *pool) Ready() bool { return p.ready.Load() }

func (p *pool) Start(lc *lifecycle.Coordinator) error {
	lc.OnStartup(func() { p.ping(lc.Context()) })

	lc.OnShutdown(func() {
		<-lc.Context().Done()
		p.ready.Store(false)
		if err := p.db.Close(); err != nil {
			p.logger.Error("close failed", "error", err)
			return
		}
		p.logger.Info("pool closed")
	})

	return nil
}

func (p *pool) ping(ctx context.Context) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	start := time.Now()
	if err := p.db.PingContext(ctx); err != nil {
		p.logger.Error("ping failed", "error", err)
		return
	}

	p.ready.Store(true)
	p.logger.Info("connected", "elapsed", time.Since(start))
}
