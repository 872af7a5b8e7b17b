package config

import (
	"fmt"
	"os"
	"strconv"
)

// Provider names accepted by GatewayConfig.Active.
const (
	ProviderGoogle    = "google"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

const (
	EnvGatewayActive      = "JURISPANEL_GATEWAY_ACTIVE"
	EnvGatewayTemperature = "JURISPANEL_GATEWAY_TEMPERATURE"
)

// ProviderConfig holds the credential, model, and endpoint for one model provider.
type ProviderConfig struct {
	Key     string `toml:"key"`
	Model   string `toml:"model"`
	BaseURL string `toml:"base_url"`
}

// ProviderEnv maps provider fields to environment variable names.
type ProviderEnv struct {
	Key     string
	Model   string
	BaseURL string
}

func (c *ProviderConfig) merge(overlay *ProviderConfig) {
	if overlay.Key != "" {
		c.Key = overlay.Key
	}
	if overlay.Model != "" {
		c.Model = overlay.Model
	}
	if overlay.BaseURL != "" {
		c.BaseURL = overlay.BaseURL
	}
}

func (c *ProviderConfig) loadEnv(env ProviderEnv) {
	if v := os.Getenv(env.Key); v != "" {
		c.Key = v
	}
	if v := os.Getenv(env.Model); v != "" {
		c.Model = v
	}
	if v := os.Getenv(env.BaseURL); v != "" {
		c.BaseURL = v
	}
}

var providerEnvs = map[string]ProviderEnv{
	ProviderGoogle: {
		Key:     "JURISPANEL_GOOGLE_API_KEY",
		Model:   "JURISPANEL_GOOGLE_MODEL",
		BaseURL: "JURISPANEL_GOOGLE_BASE_URL",
	},
	ProviderOpenAI: {
		Key:     "JURISPANEL_OPENAI_API_KEY",
		Model:   "JURISPANEL_OPENAI_MODEL",
		BaseURL: "JURISPANEL_OPENAI_BASE_URL",
	},
	ProviderAnthropic: {
		Key:     "JURISPANEL_ANTHROPIC_API_KEY",
		Model:   "JURISPANEL_ANTHROPIC_MODEL",
		BaseURL: "JURISPANEL_ANTHROPIC_BASE_URL",
	},
}

// GatewayConfig seeds the model gateway settings. Values persisted through
// the settings API take precedence once saved.
type GatewayConfig struct {
	Active      string         `toml:"active"`
	Temperature *float64       `toml:"temperature"`
	Google      ProviderConfig `toml:"google"`
	OpenAI      ProviderConfig `toml:"openai"`
	Anthropic   ProviderConfig `toml:"anthropic"`
}

// TemperatureValue returns the configured temperature.
func (c *GatewayConfig) TemperatureValue() float64 {
	if c.Temperature == nil {
		return 0.2
	}
	return *c.Temperature
}

// Provider returns the provider config by name.
func (c *GatewayConfig) Provider(name string) *ProviderConfig {
	switch name {
	case ProviderGoogle:
		return &c.Google
	case ProviderOpenAI:
		return &c.OpenAI
	case ProviderAnthropic:
		return &c.Anthropic
	}
	return nil
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *GatewayConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *GatewayConfig) Merge(overlay *GatewayConfig) {
	if overlay.Active != "" {
		c.Active = overlay.Active
	}
	if overlay.Temperature != nil {
		t := *overlay.Temperature
		c.Temperature = &t
	}
	c.Google.merge(&overlay.Google)
	c.OpenAI.merge(&overlay.OpenAI)
	c.Anthropic.merge(&overlay.Anthropic)
}

func (c *GatewayConfig) loadDefaults() {
	if c.Active == "" {
		c.Active = ProviderGoogle
	}
	if c.Temperature == nil {
		t := 0.2
		c.Temperature = &t
	}
	if c.Google.Model == "" {
		c.Google.Model = "gemini-2.5-flash"
	}
	if c.OpenAI.Model == "" {
		c.OpenAI.Model = "gpt-4o"
	}
	if c.OpenAI.BaseURL == "" {
		c.OpenAI.BaseURL = "https://api.openai.com/v1"
	}
	if c.Anthropic.Model == "" {
		c.Anthropic.Model = "claude-3-5-sonnet-20240620"
	}
	if c.Anthropic.BaseURL == "" {
		c.Anthropic.BaseURL = "https://api.anthropic.com/v1"
	}
}

func (c *GatewayConfig) loadEnv() {
	if v := os.Getenv(EnvGatewayActive); v != "" {
		c.Active = v
	}
	if v := os.Getenv(EnvGatewayTemperature); v != "" {
		if t, err := strconv.ParseFloat(v, 64); err == nil {
			c.Temperature = &t
		}
	}
	for name, env := range providerEnvs {
		c.Provider(name).loadEnv(env)
	}
}

func (c *GatewayConfig) validate() error {
	if c.Provider(c.Active) == nil {
		return fmt.Errorf("unknown active provider %q", c.Active)
	}
	if t := *c.Temperature; t < 0 || t > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %v", t)
	}
	return nil
}
