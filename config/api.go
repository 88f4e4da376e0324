package config

// Auth types for the /api group.
const (
	AuthBasic = "basic"
	AuthKey   = "key"
	AuthNone  = "none"
)

// HTTP configures the echo server and its auth middleware.
type HTTP struct {
	Port     string `env:"PORT" envDefault:"8080"`
	AuthType string `env:"AUTH_TYPE" envDefault:"basic"`
	APIKey   string `env:"API_KEY"`
	APIUser  string `env:"API_USER"`
	APIPass  string `env:"API_PASS"`
}

// AuthSkipperPaths returns the /api paths reachable without authentication.
func AuthSkipperPaths() []string {
	return []string{"/api/health", "/api/modules"}
}
