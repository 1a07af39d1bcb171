// Package results persists the outcome of a body-model fit: the parameter
// record, optional overlay images for every camera view, and an optional
// OBJ mesh.
//
// The body model, pose decoder, cameras, renderer and mesh exporter are
// supplied by the fitting driver through Settings.
package results

import (
	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"bodyfit/pkg/geometry"
)

// Keys of a Result.
const (
	KeyPoseEmbedding = "pose_embedding"
	KeyBodyPose      = "body_pose"
	KeyGlobalOrient  = "global_orient"
	KeyPose          = "pose"
)

// ErrMissingField is returned when a Result lacks a key the options need.
var ErrMissingField = errors.New("result is missing a required field")

// Result maps parameter names to flat parameter vectors.
type Result map[string][]float64

// ModelOutput is a forward pass of the body model.
type ModelOutput struct {
	Vertices []r3.Vector
	Joints   []r3.Vector
}

// BodyModel is a fitted parametric body model.
type BodyModel interface {
	Faces() [][3]int
	GlobalOrient() []float64
	BodyPose() []float64
	Forward(bodyPose []float64) (*ModelOutput, error)
}

// PoseDecoder turns a pose embedding into an axis-angle body pose.
type PoseDecoder interface {
	Decode(embedding []float64) ([]float64, error)
}

// Camera projects world points to pixels for one view.
type Camera interface {
	Project(points []r3.Vector) []geometry.Point2D
}

// View is everything needed to draw one overlay image.
type View struct {
	ImagePath string
	OutPath   string
	Faces     [][3]int
	Vertices  []geometry.Point2D
	Joints    []geometry.Point2D
	Keypoints []geometry.Point2D
}

// Renderer draws a View and writes it to View.OutPath.
type Renderer interface {
	Render(v View) error
}

// MeshExporter writes a mesh to path.
type MeshExporter interface {
	Export(path string, vertices []r3.Vector, faces [][3]int) error
}

// Settings holds output folders and the fitting collaborators. Decoder,
// Cameras, Renderer and Mesh are only needed by the options that use them.
type Settings struct {
	ResultFolder string
	ImageFolder  string
	MeshFolder   string

	Model    BodyModel
	Decoder  PoseDecoder
	Cameras  []Camera
	Renderer Renderer
	Mesh     MeshExporter

	Logger *zap.SugaredLogger
}

// Input identifies the fitted frame and carries its per-view data.
// ImagePaths, Cameras and Keypoints are indexed by view.
type Input struct {
	Serial     string
	Frame      string
	ImagePaths []string
	Keypoints  [][]geometry.Point2D
}

// Options selects what Save does.
type Options struct {
	UseDecoder bool
	SaveMeshes bool
	SaveImages bool
	ModelType  string
}
