// Package cameras implements pinhole camera models and the generation of
// one world-space ray per image pixel.
package cameras

import (
	"math"

	"github.com/taigrr/raybundle/pkg/math3d"
	"github.com/taigrr/raybundle/pkg/rays"
)

// Camera is the capability set shared by every camera model.
type Camera interface {
	// Model returns the camera variant.
	Model() Model

	// NumIntrinsicsParams returns the length of the intrinsics vector.
	NumIntrinsicsParams() int

	// Intrinsics returns the intrinsics vector in the model's layout.
	Intrinsics() []float64

	// ImageHeight returns round(2*cy). The principal point is assumed to sit
	// at the image centre; this does not hold for calibrated cameras with an
	// off-centre principal point.
	ImageHeight() int

	// ImageWidth returns round(2*cx), under the same assumption.
	ImageWidth() int

	// CameraToWorld returns the camera pose.
	CameraToWorld() math3d.Pose

	// GenerateRays returns one ray per entry of the equally sized batches.
	GenerateRays(intrinsics [][]float64, poses []math3d.Pose, coords []Coord) (*rays.RayBundle, error)
}

// Option configures a camera at construction.
type Option func(*base)

// WithCameraToWorld sets the camera pose. The default is the identity pose.
func WithCameraToWorld(pose math3d.Pose) Option {
	return func(b *base) {
		b.pose = pose
	}
}

// base holds the state every model shares.
type base struct {
	pose math3d.Pose
}

func newBase(opts []Option) base {
	b := base{pose: math3d.IdentityPose()}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

// CameraToWorld returns the camera pose.
func (b base) CameraToWorld() math3d.Pose {
	return b.pose
}

// imageExtent derives an image dimension from a principal point coordinate.
func imageExtent(c float64) int {
	return max(int(math.Round(2*c)), 0)
}
