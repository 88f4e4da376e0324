// Package cookie provides the cookie capability: HMAC-signed cookie values.
package cookie

import (
	"context"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/kendraSO/site/config"
	"github.com/kendraSO/site/core/module"
)

// ErrInvalidCookie is returned for values whose signature does not match.
var ErrInvalidCookie = errors.New("cookie: invalid signature")

// Module provides the cookie capability.
type Module struct {
	host   module.Host
	secret []byte
	domain string
	secure bool
}

// New returns the cookie module.
func New(host module.Host) *Module {
	return &Module{host: host}
}

func (m *Module) Provides() []module.Capability { return []module.Capability{module.CapCookie} }
func (m *Module) Depends() []module.Capability  { return []module.Capability{module.CapConfig} }

// Init reads COOKIE_SECRET. Without one a random secret is generated, so
// cookies do not survive a restart.
func (m *Module) Init(_ context.Context) error {
	cfgModule, err := module.Lookup[*config.Module](m.host, module.CapConfig)
	if err != nil {
		return err
	}
	cfg := cfgModule.Config().Cookie
	m.domain = cfg.Domain
	m.secure = cfg.Secure
	if cfg.Secret != "" {
		m.secret = []byte(cfg.Secret)
		return nil
	}
	m.secret = make([]byte, 32)
	if _, err := rand.Read(m.secret); err != nil {
		return err
	}
	m.host.Logger().Warn("COOKIE_SECRET not set, using a random secret")
	return nil
}

func (m *Module) sign(name, value string) string {
	mac := hmac.New(sha256.New, m.secret)
	mac.Write([]byte(name))
	mac.Write([]byte{0})
	mac.Write([]byte(value))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Encode returns value with its signature appended. The signature covers the
// cookie name, so a value cannot be replayed under another name.
func (m *Module) Encode(name, value string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(value)) + "." + m.sign(name, value)
}

// Decode verifies an encoded value and returns the original.
func (m *Module) Decode(name, encoded string) (string, error) {
	payload, sig, ok := strings.Cut(encoded, ".")
	if !ok {
		return "", ErrInvalidCookie
	}
	raw, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", ErrInvalidCookie
	}
	value := string(raw)
	if !hmac.Equal([]byte(sig), []byte(m.sign(name, value))) {
		return "", ErrInvalidCookie
	}
	return value, nil
}

// Set writes a signed cookie. A zero maxAge makes a session cookie.
func (m *Module) Set(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	c := &http.Cookie{
		Name:     name,
		Value:    m.Encode(name, value),
		Path:     "/",
		Domain:   m.domain,
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	if maxAge > 0 {
		c.MaxAge = int(maxAge / time.Second)
		c.Expires = time.Now().Add(maxAge)
	}
	http.SetCookie(w, c)
}

// Get returns the verified value of the named cookie. A missing cookie
// returns http.ErrNoCookie.
func (m *Module) Get(r *http.Request, name string) (string, error) {
	c, err := r.Cookie(name)
	if err != nil {
		return "", err
	}
	return m.Decode(name, c.Value)
}

// Delete expires the named cookie.
func (m *Module) Delete(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Domain:   m.domain,
		Secure:   m.secure,
		HttpOnly: true,
		MaxAge:   -1,
		Expires:  time.Unix(0, 0),
	})
}
