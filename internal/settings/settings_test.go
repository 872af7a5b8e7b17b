package settings_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/JaimeStill/jurispanel/internal/config"
	"github.com/JaimeStill/jurispanel/internal/settings"
	"github.com/JaimeStill/jurispanel/pkg/kv"
	"github.com/JaimeStill/jurispanel/pkg/routes"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func ptr[T any](v T) *T { return &v }

func seed(t *testing.T) *config.GatewayConfig {
	t.Helper()
	for _, name := range []string{
		config.EnvGatewayActive, config.EnvGatewayTemperature,
		"JURISPANEL_GOOGLE_API_KEY", "JURISPANEL_OPENAI_API_KEY", "JURISPANEL_ANTHROPIC_API_KEY",
		"JURISPANEL_GOOGLE_MODEL", "JURISPANEL_OPENAI_MODEL", "JURISPANEL_ANTHROPIC_MODEL",
	} {
		t.Setenv(name, "")
	}

	cfg := &config.GatewayConfig{}
	cfg.Google.Key = "env-google-key"
	if err := cfg.Finalize(); err != nil {
		t.Fatalf("Finalize: %v", err)
	}
	return cfg
}

func TestDefaults(t *testing.T) {
	sys := settings.New(kv.NewMemory(), seed(t), discardLogger())

	v, err := sys.Get(context.Background())
	if err != nil {
		t.Fatalf("Get: %v", err)
	}

	if v.ActiveProvider != "google" || v.Temperature != 0.2 {
		t.Errorf("active=%s temperature=%v", v.ActiveProvider, v.Temperature)
	}

	want := map[string]settings.ProviderView{
		"google":    {Label: "Google", Model: "gemini-2.5-flash", HasKey: true},
		"openai":    {Label: "OpenAI", Model: "gpt-4o", HasKey: false},
		"anthropic": {Label: "Anthropic", Model: "claude-3-5-sonnet-20240620", HasKey: false},
	}
	for name, pv := range want {
		if v.Providers[name] != pv {
			t.Errorf("%s = %+v, want %+v", name, v.Providers[name], pv)
		}
	}
}

func TestUpdate(t *testing.T) {
	tests := []struct {
		name    string
		update  settings.Update
		wantErr error
	}{
		{"unknown active", settings.Update{ActiveProvider: ptr("mistral")}, settings.ErrUnknownProvider},
		{"negative temperature", settings.Update{Temperature: ptr(-0.1)}, settings.ErrInvalidTemperature},
		{"temperature above two", settings.Update{Temperature: ptr(2.5)}, settings.ErrInvalidTemperature},
		{"unknown provider config", settings.Update{Providers: map[string]settings.ProviderUpdate{"mistral": {Key: ptr("k")}}}, settings.ErrUnknownProvider},
		{"blank model", settings.Update{Providers: map[string]settings.ProviderUpdate{"openai": {Model: ptr(" ")}}}, settings.ErrInvalidModel},
		{"boundary temperature", settings.Update{Temperature: ptr(2.0)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sys := settings.New(kv.NewMemory(), seed(t), discardLogger())
			_, err := sys.Update(context.Background(), tt.update)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestActiveResolution(t *testing.T) {
	cfg := seed(t)
	sys := settings.New(kv.NewMemory(), cfg, discardLogger())
	ctx := context.Background()

	name, opts, err := sys.Active(ctx)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if name != "google" || opts.Key != "env-google-key" || opts.Model != "gemini-2.5-flash" || opts.Temperature != 0.2 {
		t.Errorf("google = %s %+v", name, opts)
	}

	if _, err := sys.Update(ctx, settings.Update{
		Temperature: ptr(0.7),
		Providers: map[string]settings.ProviderUpdate{
			"openai": {Key: ptr(" sk-stored "), Model: ptr("gpt-4o-mini")},
		},
	}); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if _, err := sys.Activate(ctx, "openai"); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	name, opts, err = sys.Active(ctx)
	if err != nil {
		t.Fatalf("Active: %v", err)
	}
	if name != "openai" || opts.Key != "sk-stored" || opts.Model != "gpt-4o-mini" || opts.Temperature != 0.7 {
		t.Errorf("openai = %s %+v", name, opts)
	}
	if opts.BaseURL != cfg.OpenAI.BaseURL {
		t.Errorf("base url = %s, want %s", opts.BaseURL, cfg.OpenAI.BaseURL)
	}

	v, err := sys.RemoveKey(ctx, "openai")
	if err != nil {
		t.Fatalf("RemoveKey: %v", err)
	}
	if v.Providers["openai"].HasKey {
		t.Errorf("openai still reports a key")
	}
}

func TestPersistence(t *testing.T) {
	store := kv.NewMemory()
	ctx := context.Background()

	first := settings.New(store, seed(t), discardLogger())
	if _, err := first.Activate(ctx, "anthropic"); err != nil {
		t.Fatalf("Activate: %v", err)
	}

	second := settings.New(store, seed(t), discardLogger())
	v, err := second.Get(ctx)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if v.ActiveProvider != "anthropic" {
		t.Errorf("active = %s, want anthropic", v.ActiveProvider)
	}
}

func TestHandler(t *testing.T) {
	sys := settings.New(kv.NewMemory(), seed(t), discardLogger())
	mux := http.NewServeMux()
	routes.Register(mux, sys.Handler().Routes())

	tests := []struct {
		name   string
		method string
		url    string
		body   string
		want   int
	}{
		{"get", http.MethodGet, "/settings", "", http.StatusOK},
		{"models", http.MethodGet, "/settings/models", "", http.StatusOK},
		{"update", http.MethodPut, "/settings", `{"providers":{"openai":{"key":"sk-secret"}}}`, http.StatusOK},
		{"bad body", http.MethodPut, "/settings", `{`, http.StatusBadRequest},
		{"bad temperature", http.MethodPut, "/settings", `{"temperature":3}`, http.StatusBadRequest},
		{"activate", http.MethodPost, "/settings/providers/openai/activate", "", http.StatusOK},
		{"activate unknown", http.MethodPost, "/settings/providers/mistral/activate", "", http.StatusBadRequest},
		{"remove key", http.MethodDelete, "/settings/providers/openai/key", "", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			mux.ServeHTTP(rec, httptest.NewRequest(tt.method, tt.url, strings.NewReader(tt.body)))
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
			if strings.Contains(rec.Body.String(), "sk-secret") {
				t.Errorf("response echoed a key: %s", rec.Body.String())
			}
		})
	}

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/settings/models", nil))

	var catalogue []settings.Provider
	if err := json.Unmarshal(rec.Body.Bytes(), &catalogue); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(catalogue) != 3 || len(catalogue[1].Models) != 5 {
		t.Errorf("catalogue = %+v", catalogue)
	}
}
