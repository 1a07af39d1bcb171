package main

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"bodyfit/internal/calib"
	"bodyfit/internal/mesh"
	"bodyfit/internal/overlay"
	"bodyfit/internal/results"
)

func newOverlayCommand(ctx *commandContext) *cobra.Command {
	var calibPath, meshPath, outDir string
	var photoscan bool

	cmd := &cobra.Command{
		Use:   "overlay --calib <file> --mesh <obj> <image>...",
		Short: "Draw a saved mesh onto each camera's image",
		Long: "Projects the mesh through each calibrated camera and draws its faces\n" +
			"onto the matching image. Images are given in camera order; each output\n" +
			"is named after the directory holding its source image.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := ctx.ensure()
			if err != nil {
				return err
			}
			invert := cfg.Fitting.Photoscan
			if cmd.Flags().Changed("photoscan") {
				invert = photoscan
			}

			poses, intrinsics, err := calib.Parse(calibPath)
			if err != nil {
				return err
			}
			cams, err := calib.Cameras(poses, intrinsics, invert)
			if err != nil {
				return err
			}
			if len(cams) < len(args) {
				return errors.Errorf("%d images but only %d cameras", len(args), len(cams))
			}

			vertices, faces, err := mesh.Load(meshPath)
			if err != nil {
				return err
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return errors.Wrap(err, "create output directory")
			}

			renderer := overlay.Renderer{}
			for i, imgPath := range args {
				if err := cmd.Context().Err(); err != nil {
					return err
				}
				name, err := results.ViewName(imgPath)
				if err != nil {
					return err
				}
				view := results.View{
					ImagePath: imgPath,
					OutPath:   filepath.Join(outDir, name+".jpg"),
					Faces:     faces,
					Vertices:  cams[i].Project(vertices),
				}
				if err := renderer.Render(view); err != nil {
					return err
				}
				logger.Infow("wrote overlay", "view", name, "path", view.OutPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&calibPath, "calib", "", "Calibration file")
	cmd.Flags().StringVar(&meshPath, "mesh", "", "OBJ mesh to draw")
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "Output directory")
	cmd.Flags().BoolVar(&photoscan, "photoscan", false, "Invert poses before extraction (photoscan export convention)")
	_ = cmd.MarkFlagRequired("calib")
	_ = cmd.MarkFlagRequired("mesh")
	return cmd
}
