// Package colorutil provides the colors used for fit overlays.
package colorutil

import (
	"image/color"
)

// Overlay colors. gocv converts these to BGR scalars when drawing.
var (
	White = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	Red   = color.RGBA{R: 255, G: 0, B: 0, A: 255}
	Green = color.RGBA{R: 0, G: 255, B: 0, A: 255}
)

// Roles map each overlay element to its color.
var (
	MeshEdge    = White
	Predicted   = Red
	GroundTruth = Green
)
