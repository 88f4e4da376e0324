package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kendraSO/site/config"
	"github.com/kendraSO/site/core/module"
)

const pingTimeout = 2 * time.Second

// Module provides the cache capability.
type Module struct {
	host    module.Host
	store   Store
	backend string
}

// NewModule returns the cache module.
func NewModule(host module.Host) *Module {
	return &Module{host: host}
}

func (m *Module) Provides() []module.Capability { return []module.Capability{module.CapCache} }
func (m *Module) Depends() []module.Capability  { return []module.Capability{module.CapConfig} }

// Init connects to Redis when configured. An unreachable server is logged and
// the module falls back to memory.
func (m *Module) Init(ctx context.Context) error {
	cfgModule, err := module.Lookup[*config.Module](m.host, module.CapConfig)
	if err != nil {
		return err
	}
	cfg := cfgModule.Config()
	logger := m.host.Logger()

	if cfg.Redis.Enabled() {
		store := NewRedis(redis.NewClient(cfg.Redis.Options()), cfg.AppName+":")
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		err := store.Ping(pingCtx)
		cancel()
		if err == nil {
			m.store, m.backend = store, "redis"
			logger.Info("cache connected", "backend", m.backend, "addr", cfg.Redis.Addr)
			return nil
		}
		_ = store.Close()
		logger.Warn("redis unavailable, using memory cache", "addr", cfg.Redis.Addr, "err", err)
	}
	m.store, m.backend = NewMemory(), "memory"
	logger.Debug("cache ready", "backend", m.backend)
	return nil
}

// Store returns the active backend. It is nil before Init.
func (m *Module) Store() Store {
	return m.store
}

// Backend returns "redis" or "memory".
func (m *Module) Backend() string {
	return m.backend
}

// Close releases the Redis client, if any.
func (m *Module) Close() error {
	if r, ok := m.store.(*Redis); ok {
		return r.Close()
	}
	return nil
}
