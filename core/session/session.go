// Package session provides the session capability: per-visitor values kept in
// the cache store and keyed by a uuid carried in a signed cookie.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/kendraSO/site/config"
	"github.com/kendraSO/site/core/cache"
	"github.com/kendraSO/site/core/cookie"
	"github.com/kendraSO/site/core/module"
)

const keyPrefix = "session"

// Module provides the session capability.
type Module struct {
	host    module.Host
	store   cache.Store
	cookies *cookie.Module
	name    string
	ttl     time.Duration
}

// New returns the session module.
func New(host module.Host) *Module {
	return &Module{host: host}
}

func (m *Module) Provides() []module.Capability { return []module.Capability{module.CapSession} }
func (m *Module) Depends() []module.Capability {
	return []module.Capability{module.CapCache, module.CapCookie, module.CapConfig}
}

func (m *Module) Init(_ context.Context) error {
	cfgModule, err := module.Lookup[*config.Module](m.host, module.CapConfig)
	if err != nil {
		return err
	}
	cacheModule, err := module.Lookup[*cache.Module](m.host, module.CapCache)
	if err != nil {
		return err
	}
	cookies, err := module.Lookup[*cookie.Module](m.host, module.CapCookie)
	if err != nil {
		return err
	}
	cfg := cfgModule.Config().Session
	m.store = cacheModule.Store()
	m.cookies = cookies
	m.name = cfg.CookieName
	m.ttl = cfg.TTL
	m.host.Logger().Debug("sessions ready", "cookie", m.name, "ttl", m.ttl)
	return nil
}

// Session is the value set of one visitor.
type Session struct {
	ID     string
	Values map[string]json.RawMessage
	isNew  bool
}

// IsNew reports whether the session was created by this request.
func (s *Session) IsNew() bool {
	return s.isNew
}

// Put stores v under key.
func (s *Session) Put(key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("session: encode %s: %w", key, err)
	}
	s.Values[key] = b
	return nil
}

// Value decodes the value under key into out and reports whether it was set.
func (s *Session) Value(key string, out any) (bool, error) {
	raw, ok := s.Values[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, out)
}

// Forget removes key.
func (s *Session) Forget(key string) {
	delete(s.Values, key)
}

func (m *Module) storeKey(id string) string {
	return cache.Key(keyPrefix, id)
}

// Load returns the session of r. A missing, tampered or expired session
// cookie yields a new empty session with a fresh id.
func (m *Module) Load(ctx context.Context, r *http.Request) (*Session, error) {
	id, err := m.cookies.Get(r, m.name)
	switch {
	case err == nil:
	case errors.Is(err, http.ErrNoCookie), errors.Is(err, cookie.ErrInvalidCookie):
		return m.fresh(), nil
	default:
		return nil, err
	}
	if _, err := uuid.Parse(id); err != nil {
		return m.fresh(), nil
	}

	raw, ok, err := m.store.Get(ctx, m.storeKey(id))
	if err != nil {
		return nil, fmt.Errorf("session: load: %w", err)
	}
	if !ok {
		return m.fresh(), nil
	}
	s := &Session{ID: id}
	if err := json.Unmarshal(raw, &s.Values); err != nil {
		return nil, fmt.Errorf("session: decode: %w", err)
	}
	if s.Values == nil {
		s.Values = make(map[string]json.RawMessage)
	}
	return s, nil
}

func (m *Module) fresh() *Session {
	return &Session{
		ID:     uuid.NewString(),
		Values: make(map[string]json.RawMessage),
		isNew:  true,
	}
}

// Save writes s to the store and refreshes the session cookie.
func (m *Module) Save(ctx context.Context, w http.ResponseWriter, s *Session) error {
	raw, err := json.Marshal(s.Values)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := m.store.Set(ctx, m.storeKey(s.ID), raw, m.ttl, keyPrefix); err != nil {
		return fmt.Errorf("session: save: %w", err)
	}
	m.cookies.Set(w, m.name, s.ID, m.ttl)
	s.isNew = false
	return nil
}

// Destroy removes s from the store and expires the cookie.
func (m *Module) Destroy(ctx context.Context, w http.ResponseWriter, s *Session) error {
	if err := m.store.Delete(ctx, m.storeKey(s.ID)); err != nil {
		return fmt.Errorf("session: destroy: %w", err)
	}
	m.cookies.Delete(w, m.name)
	return nil
}
