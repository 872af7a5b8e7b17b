package kv

import (
	"fmt"
	"os"
	"strconv"
)

// Backend names accepted by Config.Backend.
const (
	BackendMemory = "memory"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
)

// Config selects and parameterizes the key-value backend.
type Config struct {
	Backend       string `toml:"backend"`
	Path          string `toml:"path"`
	Namespace     string `toml:"namespace"`
	RedisAddr     string `toml:"redis_addr"`
	RedisPassword string `toml:"redis_password"`
	RedisDB       int    `toml:"redis_db"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Backend       string
	Path          string
	Namespace     string
	RedisAddr     string
	RedisPassword string
	RedisDB       string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *Config) Merge(overlay *Config) {
	if overlay.Backend != "" {
		c.Backend = overlay.Backend
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
	if overlay.Namespace != "" {
		c.Namespace = overlay.Namespace
	}
	if overlay.RedisAddr != "" {
		c.RedisAddr = overlay.RedisAddr
	}
	if overlay.RedisPassword != "" {
		c.RedisPassword = overlay.RedisPassword
	}
	if overlay.RedisDB != 0 {
		c.RedisDB = overlay.RedisDB
	}
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendSQLite
	}
	if c.Path == "" {
		c.Path = "jurispanel.db"
	}
	if c.Namespace == "" {
		c.Namespace = "jurispanel"
	}
	if c.RedisAddr == "" {
		c.RedisAddr = "localhost:6379"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Backend != "" {
		if v := os.Getenv(env.Backend); v != "" {
			c.Backend = v
		}
	}
	if env.Path != "" {
		if v := os.Getenv(env.Path); v != "" {
			c.Path = v
		}
	}
	if env.Namespace != "" {
		if v := os.Getenv(env.Namespace); v != "" {
			c.Namespace = v
		}
	}
	if env.RedisAddr != "" {
		if v := os.Getenv(env.RedisAddr); v != "" {
			c.RedisAddr = v
		}
	}
	if env.RedisPassword != "" {
		if v := os.Getenv(env.RedisPassword); v != "" {
			c.RedisPassword = v
		}
	}
	if env.RedisDB != "" {
		if v := os.Getenv(env.RedisDB); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				c.RedisDB = n
			}
		}
	}
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendMemory, BackendSQLite, BackendRedis:
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	if c.RedisDB < 0 {
		return fmt.Errorf("invalid redis_db: %d", c.RedisDB)
	}
	return nil
}
