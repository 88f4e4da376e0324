package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration read from the environment.
type Config struct {
	AppName  string `env:"APP_NAME" envDefault:"site"`
	Env      string `env:"APP_ENV" envDefault:"development"`
	TimeZone string `env:"APP_TIMEZONE" envDefault:"UTC"`
	Debug    bool   `env:"DEBUG"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Database Database
	Redis    Redis
	Search   Search
	HTTP     HTTP
	Cookie   Cookie
	Session  Session
	Cron     Cron
}

// Session configures the session module.
type Session struct {
	CookieName string        `env:"SESSION_COOKIE" envDefault:"site_session"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// Cookie configures signed cookies.
type Cookie struct {
	Secret string `env:"COOKIE_SECRET"`
	Domain string `env:"COOKIE_DOMAIN"`
	Secure bool   `env:"COOKIE_SECURE"`
}

// Search configures the elasticsearch client. No addresses disables search.
type Search struct {
	Addresses []string `env:"ELASTICSEARCH_ADDRESSES" envSeparator:","`
	Username  string   `env:"ELASTICSEARCH_USERNAME"`
	Password  string   `env:"ELASTICSEARCH_PASSWORD"`
}

// Parse reads Config from environ, or from the process environment when
// environ is nil.
func Parse(environ map[string]string) (*Config, error) {
	var cfg Config
	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(&cfg, opts); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values the struct tags cannot.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverMySQL, DriverSQLite:
	default:
		return fmt.Errorf("config: unknown DB_DRIVER %q", c.Database.Driver)
	}
	switch c.HTTP.AuthType {
	case AuthBasic, AuthKey, AuthNone:
	default:
		return fmt.Errorf("config: unknown AUTH_TYPE %q", c.HTTP.AuthType)
	}
	if c.Session.TTL <= 0 {
		return fmt.Errorf("config: SESSION_TTL must be positive, got %s", c.Session.TTL)
	}
	return nil
}
