package infrastructure_test

import (
	"io"
	"log/slog"
	"testing"

	"github.com/JaimeStill/jurispanel/internal/config"
	"github.com/JaimeStill/jurispanel/internal/infrastructure"
	"github.com/JaimeStill/jurispanel/pkg/database"
	"github.com/JaimeStill/jurispanel/pkg/kv"
	"github.com/JaimeStill/jurispanel/pkg/storage"
)

func localConfig(t *testing.T) *config.Config {
	return &config.Config{
		Store:   config.StoreConfig{Backend: config.StoreKV},
		Storage: storage.Config{Backend: storage.BackendFilesystem, Root: t.TempDir()},
		KV:      kv.Config{Backend: kv.BackendMemory},
		Metrics: config.MetricsConfig{Namespace: "jurispanel_test"},
		Version: "0.1.0",
	}
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewLocal(t *testing.T) {
	infra, err := infrastructure.NewWithLogger(localConfig(t), discardLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if infra.Lifecycle == nil || infra.Logger == nil || infra.Storage == nil || infra.KV == nil || infra.Metrics == nil {
		t.Fatalf("missing subsystem: %+v", infra)
	}
	if infra.Database != nil {
		t.Error("database should not be created for the kv store backend")
	}

	if err := infra.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if infra.Ready() {
		t.Error("should not be ready before startup completes")
	}

	infra.Lifecycle.WaitForStartup()
	if !infra.Ready() {
		t.Error("should be ready after startup")
	}
}

func TestNewPostgres(t *testing.T) {
	cfg := localConfig(t)
	cfg.Store.Backend = config.StorePostgres
	cfg.Database = database.Config{
		Host: "localhost", Port: 5432, Name: "jurispanel", User: "jurispanel",
		SSLMode: "disable", MaxOpenConns: 5, MaxIdleConns: 1,
		ConnMaxLifetime: "15m", ConnTimeout: "1s",
	}

	infra, err := infrastructure.NewWithLogger(cfg, discardLogger())
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if infra.Database == nil {
		t.Fatal("database should be created for the postgres store backend")
	}
	infra.Database.Connection().Close()
}

func TestNewInvalidStorage(t *testing.T) {
	cfg := localConfig(t)
	cfg.Storage = storage.Config{Backend: storage.BackendAzure, ContainerName: "documents", ConnectionString: "not-a-connection-string"}

	if _, err := infrastructure.NewWithLogger(cfg, discardLogger()); err == nil {
		t.Fatal("expected error for invalid storage connection string")
	}
}

func TestNewInvalidKV(t *testing.T) {
	cfg := localConfig(t)
	cfg.KV.Backend = "etcd"

	if _, err := infrastructure.NewWithLogger(cfg, discardLogger()); err == nil {
		t.Fatal("expected error for unknown kv backend")
	}
}
