package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/kbukum/pipekit/process"
	"github.com/kbukum/pipekit/validation"
)

func newExecCmd(cc *cliContext) *cobra.Command {
	var shape string
	cmd := &cobra.Command{
		Use:   "exec NAME [args...]",
		Short: "Run a configured factory with extra arguments",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			v := validation.New()
			v.Required("factory", args[0])
			v.OneOf("shape", strings.ToLower(shape), shapeNames())
			if err := v.Error(); err != nil {
				return err
			}
			f, err := cc.cfg.Factory(args[0])
			if err != nil {
				return err
			}
			if shape != "" {
				s, err := process.ParseShape(shape)
				if err != nil {
					return err
				}
				f = f.WithShape(s)
			}

			p, err := f.ExecWith(args[1:], process.WithSpawnOptions(process.NewProcessGroup()))
			if err != nil {
				return err
			}
			return finish(pump(cmd.Context(), p, streamsOf(cmd)))
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().StringVar(&shape, "shape", "", "Override the factory's stream shape")
	return cmd
}
