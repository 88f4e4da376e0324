// Package cmd is the command line of the site binary.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kendraSO/site/app"
	"github.com/kendraSO/site/config"
	"github.com/kendraSO/site/core/module"
)

const appID = "site"

var (
	logLevel string
	envFiles []string
)

var rootCmd = &cobra.Command{
	Use:           appID,
	Short:         "Site application: web server, cron worker and module tools",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "read configuration from these .env files instead of ./.env")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level until LOG_LEVEL is read (debug, info, warn, error)")
}

// Execute applies registered commands and runs the root command. Errors are
// printed and exit with status 1.
func Execute() {
	Apply()
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func newApp(kind app.Kind, opts ...app.Option) *app.Application {
	base := []app.Option{app.WithLogLevel(logLevel)}
	if len(envFiles) > 0 {
		base = append(base, app.WithModule(module.Bind("config", config.NewFromFiles(envFiles...))))
	}
	return app.New(appID, kind, append(base, opts...)...)
}
