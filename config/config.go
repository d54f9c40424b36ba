package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"formpost/logging"
)

var log *logrus.Logger

func init() {
	log = logging.GetLogger()
}

// Store holds the loaded configuration. Form lookups go through the store on
// every call so a watched config file can change endpoints at runtime.
type Store struct {
	v        *viper.Viper
	mutex    sync.RWMutex
	cfg      *Config
	onReload []func(Config)
}

// newViper returns a viper instance with the defaults and FORMPOST_*
// environment overrides applied.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetDefault("base_url", "")
	v.SetDefault("color", ColorAuto)
	v.SetDefault("timeout", "0s")
	v.SetDefault("forms", []FormConfig{})

	v.SetEnvPrefix("FORMPOST")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// LoadEnv builds the configuration from defaults and environment overrides
// alone, for runs without a config file.
func LoadEnv() (*Store, error) {
	configuration, err := decode(newViper())
	if err != nil {
		return nil, err
	}
	return &Store{cfg: configuration}, nil
}

// LoadConfig reads the config file, parses it, and validates the result.
func LoadConfig(configFile string) (*Store, error) {
	v := newViper()
	v.SetConfigFile(configFile)
	v.SetConfigType("yaml")

	// Read in the config file
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	configuration, err := decode(v)
	if err != nil {
		return nil, err
	}

	log.Debugf("Loaded %d form(s) from %s", len(configuration.Forms), configFile)
	return &Store{v: v, cfg: configuration}, nil
}

// NewStore wraps an already built configuration.
func NewStore(configuration Config) (*Store, error) {
	if configuration.Color == "" {
		configuration.Color = ColorAuto
	}
	if err := validate(&configuration); err != nil {
		return nil, err
	}
	return &Store{cfg: &configuration}, nil
}

func decode(v *viper.Viper) (*Config, error) {
	var configuration Config
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := validate(&configuration); err != nil {
		return nil, err
	}
	return &configuration, nil
}

func validate(c *Config) error {
	if c.BaseURL != "" {
		u, err := url.Parse(c.BaseURL)
		if err != nil {
			return fmt.Errorf("invalid base_url: %w", err)
		}
		if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return fmt.Errorf("base_url must be an absolute http(s) URL, got %q", c.BaseURL)
		}
	}

	switch c.Color {
	case ColorAuto, ColorAlways, ColorNever:
	default:
		return fmt.Errorf("invalid color mode %q", c.Color)
	}

	if c.Timeout < 0 {
		return errors.New("timeout cannot be negative")
	}

	seen := make(map[string]struct{}, len(c.Forms))
	for i, form := range c.Forms {
		if form.Name == "" {
			return fmt.Errorf("form #%d has no name", i+1)
		}
		if _, dup := seen[form.Name]; dup {
			return fmt.Errorf("duplicate form name %q", form.Name)
		}
		seen[form.Name] = struct{}{}
		if form.MaxInFlight < 0 {
			return fmt.Errorf("form %q: max_in_flight cannot be negative", form.Name)
		}
	}
	return nil
}

// Config returns a copy of the current configuration.
func (s *Store) Config() Config {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	c := *s.cfg
	c.Forms = append([]FormConfig(nil), s.cfg.Forms...)
	return c
}

// Form returns the named form. An empty name selects the first form.
func (s *Store) Form(name string) (FormConfig, bool) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return findForm(s.cfg.Forms, name)
}

// Endpoint returns the endpoint currently configured for the named form.
// An unknown form has no endpoint.
func (s *Store) Endpoint(name string) string {
	form, ok := s.Form(name)
	if !ok {
		return ""
	}
	return form.Endpoint
}

// Watch reloads the configuration whenever the config file changes. A reload
// that fails validation is logged and the previous configuration is kept.
func (s *Store) Watch() {
	if s.v == nil {
		return
	}
	s.v.OnConfigChange(func(e fsnotify.Event) {
		configuration, err := decode(s.v)
		if err != nil {
			log.Errorf("Ignoring config change in %s: %v", e.Name, err)
			return
		}
		s.mutex.Lock()
		s.cfg = configuration
		hooks := append(([]func(Config))(nil), s.onReload...)
		s.mutex.Unlock()
		log.Infof("Reloaded config from %s", e.Name)

		for _, fn := range hooks {
			fn(s.Config())
		}
	})
	s.v.WatchConfig()
}

// OnReload registers fn to run with the new configuration after each
// successful reload.
func (s *Store) OnReload(fn func(Config)) {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.onReload = append(s.onReload, fn)
}

func findForm(forms []FormConfig, name string) (FormConfig, bool) {
	if len(forms) == 0 {
		return FormConfig{}, false
	}
	if name == "" {
		return forms[0], true
	}
	for _, form := range forms {
		if form.Name == name {
			return form, true
		}
	}
	return FormConfig{}, false
}
