// Package settings persists the reviewer's model provider choices and
// resolves them into gateway options.
package settings

import (
	"slices"
)

// Settings is the stored AI configuration.
type Settings struct {
	ActiveProvider string                    `json:"active_provider"`
	Temperature    float64                   `json:"temperature"`
	Configs        map[string]ProviderConfig `json:"configs"`
}

// ProviderConfig is the stored configuration of one provider. An empty Key
// falls back to the key supplied by configuration or environment.
type ProviderConfig struct {
	Key   string `json:"key,omitempty"`
	Model string `json:"model"`
}

// View is the client-facing form of Settings; keys are never echoed.
type View struct {
	ActiveProvider string                  `json:"active_provider"`
	Temperature    float64                 `json:"temperature"`
	Providers      map[string]ProviderView `json:"providers"`
}

// ProviderView reports a provider's label, model, and whether a key is available.
type ProviderView struct {
	Label  string `json:"label"`
	Model  string `json:"model"`
	HasKey bool   `json:"has_key"`
}

// Update is a partial change to Settings. Nil fields are left untouched.
type Update struct {
	ActiveProvider *string                   `json:"active_provider,omitempty"`
	Temperature    *float64                  `json:"temperature,omitempty"`
	Providers      map[string]ProviderUpdate `json:"providers,omitempty"`
}

// ProviderUpdate changes one provider's key or model.
type ProviderUpdate struct {
	Key   *string `json:"key,omitempty"`
	Model *string `json:"model,omitempty"`
}

// Model is one catalogue entry.
type Model struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Provider describes a supported provider and its known models.
type Provider struct {
	Name   string  `json:"name"`
	Label  string  `json:"label"`
	Models []Model `json:"models"`
}

var catalogue = []Provider{
	{
		Name:  "google",
		Label: "Google",
		Models: []Model{
			{ID: "gemini-2.5-flash", Name: "Gemini 2.5 Flash"},
			{ID: "gemini-3-pro-preview", Name: "Gemini 3 Pro Preview"},
			{ID: "gemini-2.0-flash-lite-preview-02-05", Name: "Gemini 2.0 Flash Lite"},
		},
	},
	{
		Name:  "openai",
		Label: "OpenAI",
		Models: []Model{
			{ID: "gpt-4o", Name: "GPT-4o"},
			{ID: "gpt-4o-mini", Name: "GPT-4o Mini"},
			{ID: "o1-preview", Name: "o1 Preview"},
			{ID: "o1-mini", Name: "o1 Mini"},
			{ID: "gpt-4-turbo", Name: "GPT-4 Turbo"},
		},
	},
	{
		Name:  "anthropic",
		Label: "Anthropic",
		Models: []Model{
			{ID: "claude-3-5-sonnet-20240620", Name: "Claude 3.5 Sonnet"},
			{ID: "claude-3-opus-20240229", Name: "Claude 3 Opus"},
			{ID: "claude-3-haiku-20240307", Name: "Claude 3 Haiku"},
		},
	},
}

// Catalogue returns the supported providers and their known models.
func Catalogue() []Provider {
	out := slices.Clone(catalogue)
	for i := range out {
		out[i].Models = slices.Clone(out[i].Models)
	}
	return out
}

func known(provider string) bool {
	return slices.ContainsFunc(catalogue, func(p Provider) bool { return p.Name == provider })
}
