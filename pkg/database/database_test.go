package database_test

import (
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/JaimeStill/jurispanel/pkg/database"
)

func validConfig() database.Config {
	return database.Config{Name: "jurispanel", User: "jurispanel"}
}

func TestFinalizeDefaults(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Finalize(nil); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	tests := []struct {
		name     string
		got      any
		expected any
	}{
		{"host", cfg.Host, "localhost"},
		{"port", cfg.Port, 5432},
		{"ssl_mode", cfg.SSLMode, "disable"},
		{"max_open_conns", cfg.MaxOpenConns, 25},
		{"max_idle_conns", cfg.MaxIdleConns, 5},
		{"conn_max_lifetime", cfg.ConnMaxLifetime, "15m"},
		{"conn_timeout", cfg.ConnTimeout, "5s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("got %v, want %v", tt.got, tt.expected)
			}
		})
	}
}

func TestFinalizeEnvOverrides(t *testing.T) {
	t.Setenv("JP_DB_HOST", "pg.internal")
	t.Setenv("JP_DB_PORT", "6543")
	t.Setenv("JP_DB_PORT_BAD", "not-a-number")
	t.Setenv("JP_DB_TIMEOUT", "2s")

	cfg := validConfig()
	env := &database.Env{Host: "JP_DB_HOST", Port: "JP_DB_PORT", ConnTimeout: "JP_DB_TIMEOUT"}
	if err := cfg.Finalize(env); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}

	if cfg.Host != "pg.internal" || cfg.Port != 6543 {
		t.Errorf("host/port = %s:%d", cfg.Host, cfg.Port)
	}
	if cfg.ConnTimeoutDuration() != 2*time.Second {
		t.Errorf("conn timeout = %v", cfg.ConnTimeoutDuration())
	}

	bad := validConfig()
	if err := bad.Finalize(&database.Env{Port: "JP_DB_PORT_BAD"}); err != nil {
		t.Fatalf("unparseable port should be ignored: %v", err)
	}
	if bad.Port != 5432 {
		t.Errorf("port = %d, want default", bad.Port)
	}
}

func TestFinalizeValidation(t *testing.T) {
	tests := []struct {
		name string
		cfg  database.Config
	}{
		{"missing name", database.Config{User: "u"}},
		{"missing user", database.Config{Name: "n"}},
		{"bad lifetime", database.Config{Name: "n", User: "u", ConnMaxLifetime: "forever"}},
		{"bad timeout", database.Config{Name: "n", User: "u", ConnTimeout: "soon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Finalize(nil); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestMerge(t *testing.T) {
	cfg := validConfig()
	cfg.Host = "localhost"
	cfg.Port = 5432

	cfg.Merge(&database.Config{Host: "db", MaxOpenConns: 4})

	if cfg.Host != "db" || cfg.MaxOpenConns != 4 {
		t.Errorf("merge did not apply overlay: %+v", cfg)
	}
	if cfg.Port != 5432 || cfg.Name != "jurispanel" {
		t.Errorf("merge overwrote with zero values: %+v", cfg)
	}
}

func TestDsn(t *testing.T) {
	cfg := database.Config{
		Host: "localhost", Port: 5432, Name: "jurispanel",
		User: "u", Password: "p", SSLMode: "disable",
	}
	want := "host=localhost port=5432 dbname=jurispanel user=u password=p sslmode=disable"
	if got := cfg.Dsn(); got != want {
		t.Errorf("Dsn() = %q, want %q", got, want)
	}
}

func TestNew(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Finalize(nil); err != nil {
		t.Fatal(err)
	}
	cfg.MaxOpenConns = 42

	sys, err := database.New(&cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	conn := sys.Connection()
	defer conn.Close()

	if sys.Ready() {
		t.Error("system should not be ready before Start")
	}
	if got := conn.Stats().MaxOpenConnections; got != 42 {
		t.Errorf("MaxOpenConnections = %d, want 42", got)
	}
}
