package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kendraSO/site/app"
)

var listKind string

var modulesListCmd = &cobra.Command{
	Use:   "modules:list",
	Short: "Print the modules of an application kind in initialization order",
	Args:  cobra.NoArgs,
	RunE: func(c *cobra.Command, args []string) error {
		kind, ok := app.Kinds[listKind]
		if !ok {
			names := make([]string, 0, len(app.Kinds))
			for name := range app.Kinds {
				names = append(names, name)
			}
			sort.Strings(names)
			return fmt.Errorf("unknown kind %q (want one of %s)", listKind, strings.Join(names, ", "))
		}
		order, err := newApp(kind, app.WithOutput(c.ErrOrStderr())).Plan()
		if err != nil {
			return err
		}
		out := c.OutOrStdout()
		for i, id := range order {
			fmt.Fprintf(out, "%2d  %s\n", i+1, id)
		}
		return nil
	},
}

func init() {
	modulesListCmd.Flags().StringVarP(&listKind, "kind", "k", app.Web.Name, "application kind (web, worker, console)")
	rootCmd.AddCommand(modulesListCmd)
}
