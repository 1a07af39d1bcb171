// Package geometry provides the 2D pixel types shared by projection and overlay code.
package geometry

import "image"

// Point2D is a projected image location in sub-pixel units.
type Point2D struct {
	X, Y float64
}

// NewPoint2D returns the point (x, y).
func NewPoint2D(x, y float64) Point2D {
	return Point2D{X: x, Y: y}
}

// Truncate converts to integer pixel coordinates, rounding toward zero.
func (p Point2D) Truncate() PointInt {
	return PointInt{X: int(p.X), Y: int(p.Y)}
}

// PointInt is a pixel index, as passed to drawing calls.
type PointInt struct {
	X, Y int
}

// ImagePoint converts to an image.Point for drawing calls.
func (p PointInt) ImagePoint() image.Point {
	return image.Pt(p.X, p.Y)
}

// TruncateAll truncates every point to pixel coordinates.
func TruncateAll(points []Point2D) []PointInt {
	out := make([]PointInt, len(points))
	for i, p := range points {
		out[i] = p.Truncate()
	}
	return out
}
