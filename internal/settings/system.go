package settings

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/JaimeStill/jurispanel/internal/config"
	"github.com/JaimeStill/jurispanel/internal/gateway"
	"github.com/JaimeStill/jurispanel/pkg/kv"
)

const settingsKey = "settings"

// System reads and changes the stored settings. It also resolves the active
// provider for the gateway.
type System interface {
	gateway.SettingsSource

	Handler() *Handler

	Get(ctx context.Context) (*View, error)
	Update(ctx context.Context, u Update) (*View, error)
	Activate(ctx context.Context, provider string) (*View, error)
	RemoveKey(ctx context.Context, provider string) (*View, error)
}

type store struct {
	mu     sync.Mutex
	kv     kv.Store
	seed   *config.GatewayConfig
	logger *slog.Logger
}

// New creates the settings system. seed supplies defaults for the first
// read and fallback keys and endpoints for every call.
func New(s kv.Store, seed *config.GatewayConfig, logger *slog.Logger) System {
	return &store{
		kv:     s,
		seed:   seed,
		logger: logger.With("system", "settings"),
	}
}

func (s *store) Handler() *Handler {
	return NewHandler(s, s.logger)
}

func (s *store) defaults() Settings {
	st := Settings{
		ActiveProvider: s.seed.Active,
		Temperature:    s.seed.TemperatureValue(),
		Configs:        make(map[string]ProviderConfig, len(catalogue)),
	}
	for _, p := range catalogue {
		cfg := ProviderConfig{}
		if seed := s.seed.Provider(p.Name); seed != nil {
			cfg.Model = seed.Model
		}
		if cfg.Model == "" {
			cfg.Model = p.Models[0].ID
		}
		st.Configs[p.Name] = cfg
	}
	return st
}

func (s *store) load(ctx context.Context) (Settings, error) {
	st, err := kv.GetJSON[Settings](ctx, s.kv, settingsKey)
	if errors.Is(err, kv.ErrNotFound) {
		return s.defaults(), nil
	}
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}

	defaults := s.defaults()
	if st.Configs == nil {
		st.Configs = make(map[string]ProviderConfig)
	}
	for name, cfg := range defaults.Configs {
		if _, ok := st.Configs[name]; !ok {
			st.Configs[name] = cfg
		}
	}
	if !known(st.ActiveProvider) {
		st.ActiveProvider = defaults.ActiveProvider
	}
	return st, nil
}

func (s *store) save(ctx context.Context, st Settings) error {
	if err := kv.SetJSON(ctx, s.kv, settingsKey, st); err != nil {
		return fmt.Errorf("save settings: %w", err)
	}
	return nil
}

func (s *store) key(st Settings, provider string) string {
	if k := st.Configs[provider].Key; k != "" {
		return k
	}
	if seed := s.seed.Provider(provider); seed != nil {
		return seed.Key
	}
	return ""
}

func (s *store) view(st Settings) *View {
	v := &View{
		ActiveProvider: st.ActiveProvider,
		Temperature:    st.Temperature,
		Providers:      make(map[string]ProviderView, len(st.Configs)),
	}
	for _, p := range catalogue {
		v.Providers[p.Name] = ProviderView{
			Label:  p.Label,
			Model:  st.Configs[p.Name].Model,
			HasKey: s.key(st, p.Name) != "",
		}
	}
	return v
}

func (s *store) Get(ctx context.Context) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return s.view(st), nil
}

func (s *store) Update(ctx context.Context, u Update) (*View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx)
	if err != nil {
		return nil, err
	}

	if u.ActiveProvider != nil {
		if !known(*u.ActiveProvider) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, *u.ActiveProvider)
		}
		st.ActiveProvider = *u.ActiveProvider
	}

	if u.Temperature != nil {
		if *u.Temperature < 0 || *u.Temperature > 2 {
			return nil, ErrInvalidTemperature
		}
		st.Temperature = *u.Temperature
	}

	for name, pu := range u.Providers {
		if !known(name) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownProvider, name)
		}
		cfg := st.Configs[name]
		if pu.Key != nil {
			cfg.Key = strings.TrimSpace(*pu.Key)
		}
		if pu.Model != nil {
			model := strings.TrimSpace(*pu.Model)
			if model == "" {
				return nil, ErrInvalidModel
			}
			cfg.Model = model
		}
		st.Configs[name] = cfg
	}

	if err := s.save(ctx, st); err != nil {
		return nil, err
	}

	s.logger.Info("settings updated", "active", st.ActiveProvider, "temperature", st.Temperature)
	return s.view(st), nil
}

func (s *store) Activate(ctx context.Context, provider string) (*View, error) {
	return s.Update(ctx, Update{ActiveProvider: &provider})
}

func (s *store) RemoveKey(ctx context.Context, provider string) (*View, error) {
	empty := ""
	return s.Update(ctx, Update{Providers: map[string]ProviderUpdate{provider: {Key: &empty}}})
}

// Active resolves the active provider into gateway options.
func (s *store) Active(ctx context.Context) (string, gateway.Options, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, err := s.load(ctx)
	if err != nil {
		return "", gateway.Options{}, err
	}

	name := st.ActiveProvider
	opts := gateway.Options{
		Key:         s.key(st, name),
		Model:       st.Configs[name].Model,
		Temperature: st.Temperature,
	}
	if seed := s.seed.Provider(name); seed != nil {
		opts.BaseURL = seed.BaseURL
	}
	return name, opts, nil
}
