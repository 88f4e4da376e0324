// Package checks serves /api/checks: live health checks of the backends the
// application was booted with, run in parallel.
package checks

import (
	"context"
	"net/http"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/labstack/echo/v4"
	"golang.org/x/sync/errgroup"

	"github.com/kendraSO/site/api"
	"github.com/kendraSO/site/core/cache"
	"github.com/kendraSO/site/core/db"
	"github.com/kendraSO/site/core/module"
	"github.com/kendraSO/site/core/search"
)

const checkTimeout = 3 * time.Second

func init() {
	api.RegisterModule(RegisterCheckRoutes)
}

// Result is the outcome of one check.
type Result struct {
	Name       string `json:"name"`
	OK         bool   `json:"ok"`
	Error      string `json:"error,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

// Check probes one backend.
type Check struct {
	Name string
	Run  func(ctx context.Context) error
}

// Checks returns the checks applicable to host: one per present capability.
func Checks(host module.Host) []Check {
	var out []Check
	if m, err := module.Lookup[*db.Module](host, module.CapDatabase); err == nil {
		out = append(out, Check{Name: "database", Run: func(ctx context.Context) error {
			sqlDB, err := m.DB().DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		}})
	}
	if m, err := module.Lookup[*cache.Module](host, module.CapCache); err == nil {
		out = append(out, Check{Name: "cache", Run: func(ctx context.Context) error {
			key := cache.Key("checks", host.ID())
			if err := m.Store().Set(ctx, key, []byte("ok"), time.Minute); err != nil {
				return err
			}
			return m.Store().Delete(ctx, key)
		}})
	}
	if m, err := module.Lookup[*search.Module](host, module.CapSearch); err == nil && m.Enabled() {
		out = append(out, Check{Name: "search", Run: m.Ping})
	}
	return out
}

// Run executes checks in parallel and returns the results sorted by name.
func Run(ctx context.Context, checks []Check) []Result {
	results := make([]Result, 0, len(checks))
	var mu sync.Mutex

	eg, ctx := errgroup.WithContext(ctx)
	for _, check := range checks {
		eg.Go(func() error {
			start := time.Now()
			cctx, cancel := context.WithTimeout(ctx, checkTimeout)
			defer cancel()
			err := check.Run(cctx)
			r := Result{Name: check.Name, OK: err == nil, DurationMS: time.Since(start).Milliseconds()}
			if err != nil {
				r.Error = err.Error()
			}
			mu.Lock()
			results = append(results, r)
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()
	sort.Slice(results, func(i, k int) bool { return results[i].Name < results[k].Name })
	return results
}

// RegisterCheckRoutes sets up GET /api/checks.
func RegisterCheckRoutes(apiGroup *echo.Group, host module.Host) {
	apiGroup.GET("/checks", func(c echo.Context) error {
		start := time.Now()
		results := Run(c.Request().Context(), Checks(host))

		status := http.StatusOK
		for _, r := range results {
			if !r.OK {
				status = http.StatusServiceUnavailable
			}
		}
		c.Response().Header().Set("X-Checks-Duration-ms", strconv.FormatInt(time.Since(start).Milliseconds(), 10))
		return c.JSON(status, echo.Map{"app": host.ID(), "checks": results})
	})
}
