// Package api provides the http capability: an echo server with the public
// and /api routes registered by other packages at init time.
package api

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/kendraSO/site/config"
	"github.com/kendraSO/site/core/module"
)

// Module provides the http capability.
type Module struct {
	host module.Host
	echo *echo.Echo
	cfg  config.HTTP
}

// NewModule returns the http module.
func NewModule(host module.Host) *Module {
	return &Module{host: host}
}

func (m *Module) Provides() []module.Capability { return []module.Capability{module.CapHTTP} }
func (m *Module) Depends() []module.Capability  { return []module.Capability{module.CapConfig} }

// Init builds the echo instance and applies the route registries. The server
// is started by Start.
func (m *Module) Init(_ context.Context) error {
	cfgModule, err := module.Lookup[*config.Module](m.host, module.CapConfig)
	if err != nil {
		return err
	}
	m.cfg = cfgModule.Config().HTTP
	logger := m.host.Logger().WithPrefix("http")

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogError:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			if v.Error != nil {
				logger.Error("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency, "err", v.Error)
				return nil
			}
			logger.Info("request", "method", v.Method, "uri", v.URI, "status", v.Status, "latency", v.Latency)
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.Gzip())
	e.Use(middleware.Decompress())
	e.Use(requestDuration)

	e.GET("/health", m.health)

	g := e.Group("/api", AuthMiddleware(m.cfg))
	g.GET("/health", m.health)
	g.GET("/modules", m.modules)
	ApplyModules(g, m.host)
	ApplyRoutes(e, m.host)

	m.echo = e
	logger.Debug("routes ready", "routes", len(e.Routes()), "auth", m.cfg.AuthType)
	return nil
}

func requestDuration(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		c.Response().Before(func() {
			c.Response().Header().Set("X-Request-Duration-ms", strconv.FormatInt(time.Since(start).Milliseconds(), 10))
		})
		return next(c)
	}
}

func (m *Module) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok", "app": m.host.ID()})
}

// modules lists the registered modules in registration order.
func (m *Module) modules(c echo.Context) error {
	return c.JSON(http.StatusOK, m.host.Registered())
}

// Echo returns the echo instance. It is nil before Init.
func (m *Module) Echo() *echo.Echo {
	return m.echo
}

// Addr returns the listen address built from PORT.
func (m *Module) Addr() string {
	return ":" + m.cfg.Port
}

// Start serves on addr until Shutdown. A clean shutdown returns nil.
func (m *Module) Start(addr string) error {
	m.host.Logger().Info("server running", "addr", addr)
	if err := m.echo.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (m *Module) Shutdown(ctx context.Context) error {
	return m.echo.Shutdown(ctx)
}
