package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kendraSO/site/api"
	"github.com/kendraSO/site/app"
	"github.com/kendraSO/site/core/module"
)

const shutdownTimeout = 10 * time.Second

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Bootstrap the web application and serve HTTP until interrupted",
	RunE: func(c *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		printBanner(c.OutOrStdout(), appID)
		a := newApp(app.Web)
		if err := a.Bootstrap(ctx); err != nil {
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				a.Logger().Error("close", "err", err)
			}
		}()

		httpModule, err := module.Lookup[*api.Module](a, module.CapHTTP)
		if err != nil {
			return err
		}
		addr := serveAddr
		if addr == "" {
			addr = httpModule.Addr()
		}

		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			return httpModule.Start(addr)
		})
		g.Go(func() error {
			<-gctx.Done()
			a.Logger().Info("shutting down", "kind", a.Kind().Name)
			sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return httpModule.Shutdown(sctx)
		})
		return g.Wait()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :$PORT)")
	rootCmd.AddCommand(serveCmd)
}
