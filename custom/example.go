// Package custom holds project extensions. Everything here registers itself
// in init(), before the registries are applied and locked.
package custom

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/spf13/cobra"

	"github.com/kendraSO/site/api"
	"github.com/kendraSO/site/cmd"
	"github.com/kendraSO/site/core/cache"
	"github.com/kendraSO/site/core/module"
	"github.com/kendraSO/site/cron"
	"github.com/kendraSO/site/graphql"
)

func init() {
	// GraphQL extension
	graphql.RegisterExtension("ping", func(ctx context.Context, host module.Host, args map[string]any) (any, error) {
		return map[string]string{"pong": "ok", "app": host.ID()}, nil
	})

	// CLI command
	cmd.Register(&cobra.Command{
		Use:   "custom:hello",
		Short: "Custom command example",
		Run: func(c *cobra.Command, args []string) {
			c.Println("Hello from custom command")
		},
	})

	// Cron job
	cron.Register("customping", "@every 1m", Ping)

	// HTTP route
	api.RegisterGET("/custom/ping", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"pong": "ok"})
	})
}

// Ping records the time of its last run in the cache.
func Ping(ctx context.Context, host module.Host, args ...string) error {
	cacheModule, err := module.Lookup[*cache.Module](host, module.CapCache)
	if err != nil {
		return err
	}
	now := time.Now().In(host.Location()).Format(time.RFC3339)
	host.Logger().Info("custom cron: ping", "at", now, "args", args)
	return cacheModule.Store().Set(ctx, cache.Key("custom", "ping"), []byte(now), 0)
}
