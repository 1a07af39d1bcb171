package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bodyfit/internal/calib"
)

func newCalibCommand(ctx *commandContext) *cobra.Command {
	var photoscan bool

	cmd := &cobra.Command{
		Use:   "calib <file>",
		Short: "Print the cameras in a calibration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.ensure()
			if err != nil {
				return err
			}
			invert := cfg.Fitting.Photoscan
			if cmd.Flags().Changed("photoscan") {
				invert = photoscan
			}

			poses, intrinsics, err := calib.Parse(args[0])
			if err != nil {
				return err
			}
			logger.Debugw("parsed calibration", "file", args[0], "poses", len(poses), "intrinsics", len(intrinsics))

			translations, rotations, err := calib.Extract(poses, invert)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			rows := make([][]string, 0, len(intrinsics)*3)
			for i, k := range intrinsics {
				for r := 0; r < 3; r++ {
					label := ""
					if r == 0 {
						label = strconv.Itoa(i)
					}
					rows = append(rows, []string{label, formatRow(k, r)})
				}
			}
			fmt.Fprintln(out, "Intrinsics")
			fmt.Fprintln(out, renderTable([]string{"#", "K"}, rows))

			rows = rows[:0]
			for i, t := range translations {
				for r := 0; r < 3; r++ {
					label, tv := "", ""
					if r == 0 {
						label = strconv.Itoa(i)
					}
					switch r {
					case 0:
						tv = formatFloat(t.X)
					case 1:
						tv = formatFloat(t.Y)
					case 2:
						tv = formatFloat(t.Z)
					}
					rows = append(rows, []string{label, formatRow(rotations[i], r), tv})
				}
			}
			fmt.Fprintf(out, "Cameras (inverted: %t)\n", invert)
			fmt.Fprintln(out, renderTable([]string{"#", "R", "t"}, rows))
			return nil
		},
	}

	cmd.Flags().BoolVar(&photoscan, "photoscan", false, "Invert poses before extraction (photoscan export convention)")
	return cmd
}
