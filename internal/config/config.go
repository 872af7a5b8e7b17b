package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/jurispanel/pkg/database"
	"github.com/JaimeStill/jurispanel/pkg/kv"
	"github.com/JaimeStill/jurispanel/pkg/storage"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvJurispanelEnv             = "JURISPANEL_ENV"
	EnvJurispanelShutdownTimeout = "JURISPANEL_SHUTDOWN_TIMEOUT"
	EnvJurispanelVersion         = "JURISPANEL_VERSION"
)

var databaseEnv = &database.Env{
	Host:            "JURISPANEL_DB_HOST",
	Port:            "JURISPANEL_DB_PORT",
	Name:            "JURISPANEL_DB_NAME",
	User:            "JURISPANEL_DB_USER",
	Password:        "JURISPANEL_DB_PASSWORD",
	SSLMode:         "JURISPANEL_DB_SSL_MODE",
	MaxOpenConns:    "JURISPANEL_DB_MAX_OPEN_CONNS",
	MaxIdleConns:    "JURISPANEL_DB_MAX_IDLE_CONNS",
	ConnMaxLifetime: "JURISPANEL_DB_CONN_MAX_LIFETIME",
	ConnTimeout:     "JURISPANEL_DB_CONN_TIMEOUT",
}

var storageEnv = &storage.Env{
	Backend:          "JURISPANEL_STORAGE_BACKEND",
	Root:             "JURISPANEL_STORAGE_ROOT",
	ContainerName:    "JURISPANEL_STORAGE_CONTAINER_NAME",
	ConnectionString: "JURISPANEL_STORAGE_CONNECTION_STRING",
	AccountURL:       "JURISPANEL_STORAGE_ACCOUNT_URL",
	Bucket:           "JURISPANEL_STORAGE_BUCKET",
	Region:           "JURISPANEL_STORAGE_REGION",
	Endpoint:         "JURISPANEL_STORAGE_ENDPOINT",
	AccessKey:        "JURISPANEL_STORAGE_ACCESS_KEY",
	SecretKey:        "JURISPANEL_STORAGE_SECRET_KEY",
}

var kvEnv = &kv.Env{
	Backend:       "JURISPANEL_KV_BACKEND",
	Path:          "JURISPANEL_KV_PATH",
	Namespace:     "JURISPANEL_KV_NAMESPACE",
	RedisAddr:     "JURISPANEL_KV_REDIS_ADDR",
	RedisPassword: "JURISPANEL_KV_REDIS_PASSWORD",
	RedisDB:       "JURISPANEL_KV_REDIS_DB",
}

// Config is the root configuration for the JurisPanel service.
type Config struct {
	Server          ServerConfig    `toml:"server"`
	Database        database.Config `toml:"database"`
	Storage         storage.Config  `toml:"storage"`
	KV              kv.Config       `toml:"kv"`
	Gateway         GatewayConfig   `toml:"gateway"`
	Store           StoreConfig     `toml:"store"`
	API             APIConfig       `toml:"api"`
	Metrics         MetricsConfig   `toml:"metrics"`
	ShutdownTimeout string          `toml:"shutdown_timeout"`
	Version         string          `toml:"version"`
}

// Env names the active overlay. It is read from JURISPANEL_ENV and
// defaults to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvJurispanelEnv); env != "" {
		return env
	}
	return "local"
}

func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Load layers config.toml, then config.<env>.toml, then environment
// variables over built-in defaults. Either file may be absent.
func Load() (*Config, error) {
	cfg, err := readFile(BaseConfigFile)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = &Config{}
	}

	if env := os.Getenv(EnvJurispanelEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		overlay, err := readFile(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		if overlay != nil {
			cfg.Merge(overlay)
		}
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}
	return cfg, nil
}

func (c *Config) Merge(overlay *Config) {
	mergeString(&c.ShutdownTimeout, overlay.ShutdownTimeout)
	mergeString(&c.Version, overlay.Version)
	c.Server.Merge(&overlay.Server)
	c.Database.Merge(&overlay.Database)
	c.Storage.Merge(&overlay.Storage)
	c.KV.Merge(&overlay.KV)
	c.Gateway.Merge(&overlay.Gateway)
	c.Store.Merge(&overlay.Store)
	c.API.Merge(&overlay.API)
	c.Metrics.Merge(&overlay.Metrics)
}

// finalize runs each section in order. The database section is only
// required when sessions live in postgres.
func (c *Config) finalize() error {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	envString(&c.ShutdownTimeout, EnvJurispanelShutdownTimeout)
	envString(&c.Version, EnvJurispanelVersion)

	if _, err := parseDuration("shutdown_timeout", c.ShutdownTimeout); err != nil {
		return err
	}

	steps := []struct {
		name string
		run  func() error
	}{
		{"server", c.Server.Finalize},
		{"store", c.Store.Finalize},
		{"database", func() error {
			if c.Store.Backend != StorePostgres {
				return nil
			}
			return c.Database.Finalize(databaseEnv)
		}},
		{"storage", func() error { return c.Storage.Finalize(storageEnv) }},
		{"kv", func() error { return c.KV.Finalize(kvEnv) }},
		{"gateway", c.Gateway.Finalize},
		{"api", c.API.Finalize},
		{"metrics", c.Metrics.Finalize},
	}
	for _, step := range steps {
		if err := step.run(); err != nil {
			return fmt.Errorf("%s: %w", step.name, err)
		}
	}
	return nil
}

// readFile returns nil without error when path does not exist.
func readFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}
