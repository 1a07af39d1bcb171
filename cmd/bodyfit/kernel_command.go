package main

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"bodyfit/internal/loss"
)

func newKernelCommand(ctx *commandContext) *cobra.Command {
	var rho float64

	cmd := &cobra.Command{
		Use:   "kernel <residual>...",
		Short: "Evaluate the Geman-McClure kernel on residuals",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := ctx.ensure()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("rho") {
				rho = cfg.Fitting.Rho
			}
			g, err := loss.NewGMoF(rho)
			if err != nil {
				return err
			}

			rows := make([][]string, 0, len(args))
			for _, arg := range args {
				r, err := strconv.ParseFloat(arg, 64)
				if err != nil {
					return errors.Wrapf(err, "residual %q", arg)
				}
				rows = append(rows, []string{arg, formatFloat(g.Apply(r)), formatFloat(g.Derivative(r))})
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "GMoF(%s)\n", g)
			fmt.Fprintln(out, renderTable([]string{"Residual", "Value", "Gradient"}, rows))
			return nil
		},
	}

	cmd.Flags().Float64Var(&rho, "rho", 100, "Kernel scale")
	return cmd
}
