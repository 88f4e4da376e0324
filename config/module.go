// Package config loads application configuration and exposes it as the
// "config" capability.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/charmbracelet/log"
	"github.com/mitchellh/mapstructure"

	"github.com/kendraSO/site/core/module"
)

// Module provides the config capability.
type Module struct {
	host    module.Host
	files   []string
	environ map[string]string
	cfg     *Config
}

// New returns a config module reading .env and the process environment.
func New(host module.Host) *Module {
	return &Module{host: host}
}

// NewFromMap returns a config module reading only the given values. It is
// meant for tests and embedded use.
func NewFromMap(values map[string]string) func(module.Host) *Module {
	return func(host module.Host) *Module {
		environ := make(map[string]string, len(values))
		for k, v := range values {
			environ[k] = v
		}
		return &Module{host: host, environ: environ}
	}
}

// NewFromFiles returns a config module reading the given .env files instead
// of ./.env. The process environment still wins.
func NewFromFiles(files ...string) func(module.Host) *Module {
	return func(host module.Host) *Module {
		return &Module{host: host, files: files}
	}
}

func (m *Module) Provides() []module.Capability { return []module.Capability{module.CapConfig} }
func (m *Module) Depends() []module.Capability  { return nil }

// Init reads and validates the configuration and applies the default time
// zone to the host.
func (m *Module) Init(_ context.Context) error {
	if m.environ == nil {
		environ, err := LoadEnv(m.files...)
		if err != nil {
			return fmt.Errorf("load env: %w", err)
		}
		m.environ = environ
	}
	cfg, err := Parse(m.environ)
	if err != nil {
		return err
	}
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return fmt.Errorf("config: APP_TIMEZONE: %w", err)
	}
	m.host.SetLocation(loc)

	logger := m.host.Logger()
	if lvl, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(lvl)
	}
	logger.Debug("configuration loaded", "app", cfg.AppName, "env", cfg.Env, "timezone", loc.String())
	m.cfg = cfg
	return nil
}

// Config returns the parsed configuration. It is nil before Init.
func (m *Module) Config() *Config {
	return m.cfg
}

// Get returns a raw configuration value.
func (m *Module) Get(key string) (string, bool) {
	v, ok := m.environ[key]
	return v, ok
}

// Section decodes every value whose key starts with prefix into out. Keys are
// matched with the prefix removed and lower-cased, so ANALYTICS_GOOGLE_ACCOUNT
// fills a field tagged `mapstructure:"google_account"` for prefix "ANALYTICS_".
func (m *Module) Section(prefix string, out any) error {
	raw := make(map[string]any)
	for k, v := range m.environ {
		if name, ok := strings.CutPrefix(k, prefix); ok && name != "" {
			raw[strings.ToLower(name)] = v
		}
	}
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(raw); err != nil {
		return fmt.Errorf("config: section %s: %w", strings.TrimSuffix(prefix, "_"), err)
	}
	return nil
}
