package storage

import (
	"fmt"
	"os"
)

// Backend names accepted by Config.Backend.
const (
	BackendFilesystem = "filesystem"
	BackendAzure      = "azure"
	BackendS3         = "s3"
)

// Config selects the blob backend and holds the parameters for each.
type Config struct {
	Backend string `toml:"backend"`

	// filesystem
	Root string `toml:"root"`

	// azure: ConnectionString, or AccountURL with DefaultAzureCredential
	ContainerName    string `toml:"container_name"`
	ConnectionString string `toml:"connection_string"`
	AccountURL       string `toml:"account_url"`

	// s3
	Bucket    string `toml:"bucket"`
	Region    string `toml:"region"`
	Endpoint  string `toml:"endpoint"`
	AccessKey string `toml:"access_key"`
	SecretKey string `toml:"secret_key"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Backend          string
	Root             string
	ContainerName    string
	ConnectionString string
	AccountURL       string
	Bucket           string
	Region           string
	Endpoint         string
	AccessKey        string
	SecretKey        string
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
	merge := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}

	merge(&c.Backend, overlay.Backend)
	merge(&c.Root, overlay.Root)
	merge(&c.ContainerName, overlay.ContainerName)
	merge(&c.ConnectionString, overlay.ConnectionString)
	merge(&c.AccountURL, overlay.AccountURL)
	merge(&c.Bucket, overlay.Bucket)
	merge(&c.Region, overlay.Region)
	merge(&c.Endpoint, overlay.Endpoint)
	merge(&c.AccessKey, overlay.AccessKey)
	merge(&c.SecretKey, overlay.SecretKey)
}

func (c *Config) loadDefaults() {
	if c.Backend == "" {
		c.Backend = BackendFilesystem
	}
	if c.Root == "" {
		c.Root = "data"
	}
	if c.ContainerName == "" {
		c.ContainerName = "documents"
	}
	if c.Region == "" {
		c.Region = "us-east-1"
	}
}

func (c *Config) loadEnv(env *Env) {
	load := func(dst *string, name string) {
		if name == "" {
			return
		}
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}

	load(&c.Backend, env.Backend)
	load(&c.Root, env.Root)
	load(&c.ContainerName, env.ContainerName)
	load(&c.ConnectionString, env.ConnectionString)
	load(&c.AccountURL, env.AccountURL)
	load(&c.Bucket, env.Bucket)
	load(&c.Region, env.Region)
	load(&c.Endpoint, env.Endpoint)
	load(&c.AccessKey, env.AccessKey)
	load(&c.SecretKey, env.SecretKey)
}

func (c *Config) validate() error {
	switch c.Backend {
	case BackendFilesystem:
		if c.Root == "" {
			return fmt.Errorf("root required")
		}
	case BackendAzure:
		if c.ContainerName == "" {
			return fmt.Errorf("container_name required")
		}
		if c.ConnectionString == "" && c.AccountURL == "" {
			return fmt.Errorf("connection_string or account_url required")
		}
	case BackendS3:
		if c.Bucket == "" {
			return fmt.Errorf("bucket required")
		}
	default:
		return fmt.Errorf("unknown backend %q", c.Backend)
	}
	return nil
}
