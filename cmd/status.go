package cmd

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/kendraSO/site/app"
	"github.com/kendraSO/site/core/db"
	"github.com/kendraSO/site/core/module"
)

var modulesStatusCmd = &cobra.Command{
	Use:   "modules:status",
	Short: "Print the modules each application registered at its last startup",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		a := newApp(app.Console,
			app.WithOutput(c.ErrOrStderr()),
			app.WithModule(module.Bind("database", db.New)),
		)
		if err := a.Bootstrap(c.Context()); err != nil {
			return err
		}
		defer func() { _ = a.Close() }()

		dbModule, err := module.Lookup[*db.Module](a, module.CapDatabase)
		if err != nil {
			return err
		}
		out := c.OutOrStdout()
		if !dbModule.DB().Migrator().HasTable(&db.ModuleStatus{}) {
			fmt.Fprintln(out, "no module status recorded")
			return nil
		}
		rows, err := db.List(c.Context(), dbModule)
		if err != nil {
			return err
		}
		for _, row := range rows {
			provides, err := row.Capabilities()
			if err != nil {
				return fmt.Errorf("module %s: %w", row.ID, err)
			}
			fmt.Fprintf(out, "%-8s %2d  %-10s %s  %s\n",
				row.App, row.Position+1, row.ID,
				row.BootedAt.Format(time.RFC3339),
				strings.Join(module.Strings(provides), ","))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(modulesStatusCmd)
}
