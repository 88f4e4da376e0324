package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kendraSO/site/app"
	"github.com/kendraSO/site/core/module"
	"github.com/kendraSO/site/cron"
)

var jobName string

var cronStartCmd = &cobra.Command{
	Use:   "cron:start [args...]",
	Short: "Start the cron scheduler or run a single job by name",
	RunE: func(c *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(c.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a := newApp(app.Worker)
		if err := a.Bootstrap(ctx); err != nil {
			return err
		}
		defer func() {
			if err := a.Close(); err != nil {
				a.Logger().Error("close", "err", err)
			}
		}()

		scheduler, err := module.Lookup[*cron.Module](a, module.CapCron)
		if err != nil {
			return err
		}
		if jobName != "" {
			return scheduler.Run(ctx, jobName, args...)
		}

		scheduler.Start()
		a.Logger().Info("cron scheduler started, press Ctrl+C to exit")
		<-ctx.Done()
		<-scheduler.Stop().Done()
		return nil
	},
}

func init() {
	cronStartCmd.Flags().StringVarP(&jobName, "job", "j", "", "Run a single cron job by name and exit")
	rootCmd.AddCommand(cronStartCmd)
}
