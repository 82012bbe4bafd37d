package cameras

import (
	"github.com/taigrr/raybundle/pkg/math3d"
	"github.com/taigrr/raybundle/pkg/rays"
)

// PinholeCamera has independent horizontal and vertical focal lengths.
type PinholeCamera struct {
	base

	Cx, Cy float64 // principal point, pixels
	Fx, Fy float64 // focal lengths, pixels
}

// NewPinholeCamera creates a pinhole camera.
func NewPinholeCamera(cx, cy, fx, fy float64, opts ...Option) *PinholeCamera {
	return &PinholeCamera{
		base: newBase(opts),
		Cx:   cx,
		Cy:   cy,
		Fx:   fx,
		Fy:   fy,
	}
}

// Model returns ModelPinhole.
func (c *PinholeCamera) Model() Model { return ModelPinhole }

// NumIntrinsicsParams returns the length of the intrinsics vector.
func (c *PinholeCamera) NumIntrinsicsParams() int { return ModelPinhole.NumIntrinsicsParams() }

// Intrinsics returns [cx, cy, fx, fy].
func (c *PinholeCamera) Intrinsics() []float64 {
	return []float64{c.Cx, c.Cy, c.Fx, c.Fy}
}

// IntrinsicsMatrix returns the 3x3 calibration matrix K.
func (c *PinholeCamera) IntrinsicsMatrix() [3][3]float64 {
	return [3][3]float64{
		{c.Fx, 0, c.Cx},
		{0, c.Fy, c.Cy},
		{0, 0, 1},
	}
}

// ImageHeight returns round(2cy) in pixels.
func (c *PinholeCamera) ImageHeight() int { return imageExtent(c.Cy) }

// ImageWidth returns round(2cx) in pixels.
func (c *PinholeCamera) ImageWidth() int { return imageExtent(c.Cx) }

// ImageCoords returns the pixel grid of this camera's image.
func (c *PinholeCamera) ImageCoords(pixelOffset float64) [][]Coord {
	return ImageCoords(c.ImageHeight(), c.ImageWidth(), pixelOffset)
}

// GenerateRays generates one ray per coordinate. See Model.GenerateRays.
func (c *PinholeCamera) GenerateRays(intrinsics [][]float64, poses []math3d.Pose, coords []Coord) (*rays.RayBundle, error) {
	return ModelPinhole.GenerateRays(intrinsics, poses, coords)
}

// SimplePinholeCamera shares one focal length between both image axes.
type SimplePinholeCamera struct {
	base

	Cx, Cy float64 // principal point, pixels
	F      float64 // focal length, pixels
}

// NewSimplePinholeCamera creates a simple pinhole camera.
func NewSimplePinholeCamera(cx, cy, f float64, opts ...Option) *SimplePinholeCamera {
	return &SimplePinholeCamera{
		base: newBase(opts),
		Cx:   cx,
		Cy:   cy,
		F:    f,
	}
}

// Model returns ModelSimplePinhole.
func (c *SimplePinholeCamera) Model() Model { return ModelSimplePinhole }

// NumIntrinsicsParams returns the length of the intrinsics vector.
func (c *SimplePinholeCamera) NumIntrinsicsParams() int {
	return ModelSimplePinhole.NumIntrinsicsParams()
}

// Intrinsics returns [cx, cy, f]. The focal length is stored once; ray
// generation reads slot 2 for both fx and fy.
func (c *SimplePinholeCamera) Intrinsics() []float64 {
	return []float64{c.Cx, c.Cy, c.F}
}

// IntrinsicsMatrix returns the 3x3 calibration matrix K.
func (c *SimplePinholeCamera) IntrinsicsMatrix() [3][3]float64 {
	return [3][3]float64{
		{c.F, 0, c.Cx},
		{0, c.F, c.Cy},
		{0, 0, 1},
	}
}

// ImageHeight returns round(2cy) in pixels.
func (c *SimplePinholeCamera) ImageHeight() int { return imageExtent(c.Cy) }

// ImageWidth returns round(2cx) in pixels.
func (c *SimplePinholeCamera) ImageWidth() int { return imageExtent(c.Cx) }

// ImageCoords returns the pixel grid of this camera's image.
func (c *SimplePinholeCamera) ImageCoords(pixelOffset float64) [][]Coord {
	return ImageCoords(c.ImageHeight(), c.ImageWidth(), pixelOffset)
}

// GenerateRays generates one ray per coordinate. See Model.GenerateRays.
func (c *SimplePinholeCamera) GenerateRays(intrinsics [][]float64, poses []math3d.Pose, coords []Coord) (*rays.RayBundle, error) {
	return ModelSimplePinhole.GenerateRays(intrinsics, poses, coords)
}
