package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"bodyfit/internal/joints"
)

func newJointsCommand(ctx *commandContext) *cobra.Command {
	var modelType, poseFormat string

	cmd := &cobra.Command{
		Use:   "joints",
		Short: "Print the model-to-annotation joint map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, err := ctx.ensure()
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("model") {
				modelType = cfg.Fitting.ModelType
			}
			if !cmd.Flags().Changed("format") {
				poseFormat = cfg.Fitting.PoseFormat
			}

			index, err := joints.BuildIndex(modelType, poseFormat)
			if err != nil {
				return err
			}

			rows := make([][]string, len(index))
			for i, j := range index {
				rows[i] = []string{strconv.Itoa(i), strconv.Itoa(j)}
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s -> %s\n", modelType, poseFormat)
			fmt.Fprintln(out, renderTable([]string{"Target", "Model joint"}, rows))
			return nil
		},
	}

	cmd.Flags().StringVar(&modelType, "model", joints.ModelSMPL, "Body model type")
	cmd.Flags().StringVar(&poseFormat, "format", joints.FormatCOCO17, "Annotation pose format")
	return cmd
}
