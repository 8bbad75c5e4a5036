package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newFactoriesCmd(cc *cliContext) *cobra.Command {
	return &cobra.Command{
		Use:   "factories",
		Short: "List configured factories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "NAME\tSHAPE\tCOMMAND\tDIR")
			for _, name := range cc.cfg.FactoryNames() {
				f, err := cc.cfg.Factory(name)
				if err != nil {
					return fmt.Errorf("factory %s: %w", name, err)
				}
				dir := f.Dir()
				if dir == "" {
					dir = "-"
				}
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", name, f.Shape().Name, f.Command(), dir)
			}
			return tw.Flush()
		},
	}
}
