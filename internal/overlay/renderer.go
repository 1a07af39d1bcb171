// Package overlay draws projected fits onto the source camera images.
package overlay

import (
	"image"
	"image/color"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"bodyfit/internal/results"
	"bodyfit/pkg/colorutil"
	"bodyfit/pkg/geometry"
)

// ErrImageRead is returned when a source image cannot be decoded.
var ErrImageRead = errors.New("failed to read image")

const (
	edgeThickness  = 1
	jointRadius    = 3
	jointThickness = 10
)

// Renderer draws mesh edges, predicted joints and ground-truth joints with
// OpenCV.
type Renderer struct{}

var _ results.Renderer = Renderer{}

// Render loads v.ImagePath, draws the overlay and writes v.OutPath.
func (Renderer) Render(v results.View) error {
	img := gocv.IMRead(v.ImagePath, gocv.IMReadColor)
	defer img.Close()
	if img.Empty() {
		return errors.Wrapf(ErrImageRead, "%s", v.ImagePath)
	}

	if err := drawFaces(&img, v.Faces, geometry.TruncateAll(v.Vertices)); err != nil {
		return err
	}
	drawJoints(&img, geometry.TruncateAll(v.Joints), colorutil.Predicted)
	drawJoints(&img, geometry.TruncateAll(v.Keypoints), colorutil.GroundTruth)

	if ok := gocv.IMWrite(v.OutPath, img); !ok {
		return errors.Errorf("failed to write image %s", v.OutPath)
	}
	return nil
}

func drawFaces(img *gocv.Mat, faces [][3]int, verts []geometry.PointInt) error {
	polys := make([][]image.Point, 0, len(faces))
	for i, f := range faces {
		poly := make([]image.Point, 0, len(f))
		for _, idx := range f {
			if idx < 0 || idx >= len(verts) {
				return errors.Errorf("face %d references vertex %d of %d", i, idx, len(verts))
			}
			poly = append(poly, verts[idx].ImagePoint())
		}
		polys = append(polys, poly)
	}
	if len(polys) == 0 {
		return nil
	}

	pv := gocv.NewPointsVectorFromPoints(polys)
	defer pv.Close()
	gocv.Polylines(img, pv, true, colorutil.MeshEdge, edgeThickness)
	return nil
}

func drawJoints(img *gocv.Mat, joints []geometry.PointInt, c color.RGBA) {
	for _, p := range joints {
		gocv.Circle(img, p.ImagePoint(), jointRadius, c, jointThickness)
	}
}
