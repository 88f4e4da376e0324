package api

import (
	"crypto/subtle"
	"slices"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kendraSO/site/config"
)

// AuthMiddleware returns the /api auth middleware for cfg.AuthType. Paths in
// config.AuthSkipperPaths are always public.
func AuthMiddleware(cfg config.HTTP) echo.MiddlewareFunc {
	skipper := buildSkipper(config.AuthSkipperPaths())
	switch cfg.AuthType {
	case config.AuthKey:
		return keyAuth(cfg.APIKey, skipper)
	case config.AuthNone:
		return func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	default:
		return basicAuth(cfg.APIUser, cfg.APIPass, skipper)
	}
}

func buildSkipper(skipPaths []string) middleware.Skipper {
	return func(c echo.Context) bool {
		return slices.Contains(skipPaths, c.Path())
	}
}

func equal(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

func basicAuth(user, pass string, skipper middleware.Skipper) echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Validator: func(username, password string, c echo.Context) (bool, error) {
			if user == "" {
				return false, nil
			}
			return equal(username, user) && equal(password, pass), nil
		},
		Skipper: skipper,
	})
}

func keyAuth(apiKey string, skipper middleware.Skipper) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		Validator: func(key string, c echo.Context) (bool, error) {
			return apiKey != "" && equal(key, apiKey), nil
		},
		Skipper: skipper,
	})
}
