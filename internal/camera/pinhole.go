// Package camera projects 3D points into pixel space for a calibrated view.
package camera

import (
	"github.com/golang/geo/r3"
	"gonum.org/v1/gonum/mat"

	"bodyfit/pkg/geometry"
)

// Pinhole is a calibrated pinhole camera: world points are moved into the
// camera frame by Rotation and Translation, then projected through the 3x3
// Intrinsics matrix.
type Pinhole struct {
	Rotation    *mat.Dense
	Translation r3.Vector
	Intrinsics  *mat.Dense
}

// NewPinhole creates a camera from its extrinsics and intrinsics.
func NewPinhole(rotation *mat.Dense, translation r3.Vector, intrinsics *mat.Dense) *Pinhole {
	return &Pinhole{
		Rotation:    rotation,
		Translation: translation,
		Intrinsics:  intrinsics,
	}
}

// ProjectionMatrix returns K·[R|t].
func (c *Pinhole) ProjectionMatrix() *mat.Dense {
	var ext mat.Dense
	t := mat.NewDense(3, 1, []float64{c.Translation.X, c.Translation.Y, c.Translation.Z})
	ext.Augment(c.Rotation, t)

	var proj mat.Dense
	proj.Mul(c.Intrinsics, &ext)
	return &proj
}

// Project maps world points to pixel coordinates. Points on the camera plane
// (z == 0) project to +/-Inf or NaN, as the division is left unguarded.
func (c *Pinhole) Project(points []r3.Vector) []geometry.Point2D {
	proj := c.ProjectionMatrix()
	out := make([]geometry.Point2D, len(points))

	hom := mat.NewVecDense(4, nil)
	var img mat.VecDense
	for i, p := range points {
		hom.SetVec(0, p.X)
		hom.SetVec(1, p.Y)
		hom.SetVec(2, p.Z)
		hom.SetVec(3, 1)
		img.MulVec(proj, hom)

		z := img.AtVec(2)
		out[i] = geometry.NewPoint2D(img.AtVec(0)/z, img.AtVec(1)/z)
	}
	return out
}
