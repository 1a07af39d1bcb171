package calib

import (
	"math"

	"github.com/golang/geo/r3"
	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"

	"bodyfit/internal/camera"
)

var (
	// ErrSingularPose is returned when a pose must be inverted but has no inverse.
	ErrSingularPose = errors.New("camera pose is singular")

	// ErrMismatchedCameras is returned when pose and intrinsic counts differ.
	ErrMismatchedCameras = errors.New("pose and intrinsic counts differ")
)

// Extract splits each 4x4 pose into its translation column and 3x3 rotation
// block. With invert set, each pose is inverted first; this is the convention
// used by photoscan exports, which store camera-to-world transforms.
func Extract(poses []*mat.Dense, invert bool) ([]r3.Vector, []*mat.Dense, error) {
	translations := make([]r3.Vector, 0, len(poses))
	rotations := make([]*mat.Dense, 0, len(poses))

	for i, pose := range poses {
		if r, c := pose.Dims(); r != poseCols || c != poseCols {
			return nil, nil, errors.Errorf("pose %d: expected 4x4, got %dx%d", i, r, c)
		}

		cam := pose
		if invert {
			inv, err := invertPose(pose)
			if err != nil {
				return nil, nil, errors.Wrapf(err, "pose %d", i)
			}
			cam = inv
		}

		translations = append(translations, r3.Vector{
			X: cam.At(0, 3),
			Y: cam.At(1, 3),
			Z: cam.At(2, 3),
		})
		rotations = append(rotations, mat.DenseCopyOf(cam.Slice(0, 3, 0, 3)))
	}
	return translations, rotations, nil
}

// invertPose inverts a pose, accepting ill-conditioned results the way
// numpy does and rejecting only exact singularity.
func invertPose(pose *mat.Dense) (*mat.Dense, error) {
	var inv mat.Dense
	err := inv.Inverse(pose)
	if err == nil {
		return &inv, nil
	}
	var cond mat.Condition
	if errors.As(err, &cond) && !math.IsInf(float64(cond), 1) {
		return &inv, nil
	}
	return nil, ErrSingularPose
}

// Cameras pairs every extracted pose with its intrinsics.
func Cameras(poses, intrinsics []*mat.Dense, invert bool) ([]*camera.Pinhole, error) {
	if len(poses) != len(intrinsics) {
		return nil, errors.Wrapf(ErrMismatchedCameras, "%d poses, %d intrinsics", len(poses), len(intrinsics))
	}
	translations, rotations, err := Extract(poses, invert)
	if err != nil {
		return nil, err
	}

	cams := make([]*camera.Pinhole, len(poses))
	for i := range poses {
		cams[i] = camera.NewPinhole(rotations[i], translations[i], intrinsics[i])
	}
	return cams, nil
}
