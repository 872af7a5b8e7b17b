package config

import (
	"fmt"

	"github.com/JaimeStill/jurispanel/pkg/formatting"
	"github.com/JaimeStill/jurispanel/pkg/middleware"
	"github.com/JaimeStill/jurispanel/pkg/pagination"
)

const (
	EnvAPIBasePath      = "JURISPANEL_API_BASE_PATH"
	EnvAPIMaxUploadSize = "JURISPANEL_API_MAX_UPLOAD_SIZE"

	defaultMaxUploadSize = "50MB"
)

var corsEnv = &middleware.CORSEnv{
	Enabled:          "JURISPANEL_CORS_ENABLED",
	Origins:          "JURISPANEL_CORS_ORIGINS",
	AllowedMethods:   "JURISPANEL_CORS_ALLOWED_METHODS",
	AllowedHeaders:   "JURISPANEL_CORS_ALLOWED_HEADERS",
	AllowCredentials: "JURISPANEL_CORS_ALLOW_CREDENTIALS",
	MaxAge:           "JURISPANEL_CORS_MAX_AGE",
}

var paginationEnv = &pagination.ConfigEnv{
	DefaultPageSize: "JURISPANEL_PAGINATION_DEFAULT_PAGE_SIZE",
	MaxPageSize:     "JURISPANEL_PAGINATION_MAX_PAGE_SIZE",
}

// APIConfig covers the /api module: its mount point, the upload ceiling for
// pauta documents, CORS and session list paging.
type APIConfig struct {
	BasePath      string                `toml:"base_path"`
	MaxUploadSize string                `toml:"max_upload_size"`
	CORS          middleware.CORSConfig `toml:"cors"`
	Pagination    pagination.Config     `toml:"pagination"`
}

// MaxUploadSizeBytes is validated by Finalize, so the error is unreachable
// on a finalized config.
func (c *APIConfig) MaxUploadSizeBytes() int64 {
	n, _ := formatting.ParseBytes(c.MaxUploadSize)
	return n
}

func (c *APIConfig) Finalize() error {
	if c.BasePath == "" {
		c.BasePath = "/api"
	}
	if c.MaxUploadSize == "" {
		c.MaxUploadSize = defaultMaxUploadSize
	}
	envString(&c.BasePath, EnvAPIBasePath)
	envString(&c.MaxUploadSize, EnvAPIMaxUploadSize)

	if n, err := formatting.ParseBytes(c.MaxUploadSize); err != nil || n <= 0 {
		return fmt.Errorf("invalid max_upload_size %q", c.MaxUploadSize)
	}
	if err := c.CORS.Finalize(corsEnv); err != nil {
		return fmt.Errorf("cors: %w", err)
	}
	if err := c.Pagination.Finalize(paginationEnv); err != nil {
		return fmt.Errorf("pagination: %w", err)
	}
	return nil
}

func (c *APIConfig) Merge(overlay *APIConfig) {
	mergeString(&c.BasePath, overlay.BasePath)
	mergeString(&c.MaxUploadSize, overlay.MaxUploadSize)
	c.CORS.Merge(&overlay.CORS)
	c.Pagination.Merge(&overlay.Pagination)
}
