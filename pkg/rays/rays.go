// Package rays holds the ray containers produced by camera models: a flat,
// row-major RayBundle and its image-shaped CameraRayBundle view.
package rays

import (
	"errors"
	"fmt"

	"github.com/taigrr/raybundle/pkg/math3d"
)

var (
	// ErrLengthMismatch is returned when origins and directions differ in length.
	ErrLengthMismatch = errors.New("rays: origins and directions length mismatch")
	// ErrShape is returned when a bundle cannot be reshaped to the requested grid.
	ErrShape = errors.New("rays: bundle does not match requested shape")
)

// Ray is a half-line with a world-space origin and unit direction.
type Ray struct {
	Origin    math3d.Vec3
	Direction math3d.Vec3
}

// At returns the point at distance t along the ray.
func (r Ray) At(t float64) math3d.Vec3 {
	return r.Origin.Add(r.Direction.Scale(t))
}

// RayBundle is a flat, ordered collection of rays.
// Origins[i] and Directions[i] describe ray i.
type RayBundle struct {
	Origins    []math3d.Vec3
	Directions []math3d.Vec3
}

// NewRayBundle wraps parallel origin and direction slices without copying.
func NewRayBundle(origins, directions []math3d.Vec3) (*RayBundle, error) {
	if len(origins) != len(directions) {
		return nil, fmt.Errorf("%w: %d origins, %d directions", ErrLengthMismatch, len(origins), len(directions))
	}
	return &RayBundle{Origins: origins, Directions: directions}, nil
}

// Len returns the number of rays.
func (b *RayBundle) Len() int {
	return len(b.Origins)
}

// Ray returns ray i.
func (b *RayBundle) Ray(i int) Ray {
	return Ray{Origin: b.Origins[i], Direction: b.Directions[i]}
}

// Slice returns rays [start, end) sharing storage with b, for consumers that
// process a bundle in chunks.
func (b *RayBundle) Slice(start, end int) *RayBundle {
	return &RayBundle{
		Origins:    b.Origins[start:end:end],
		Directions: b.Directions[start:end:end],
	}
}

// ToCameraRayBundle reshapes the bundle to a height x width grid in
// row-major pixel order. The storage is shared, not copied.
func (b *RayBundle) ToCameraRayBundle(height, width int) (*CameraRayBundle, error) {
	if height < 0 || width < 0 || height*width != b.Len() {
		return nil, fmt.Errorf("%w: %d rays into %dx%d", ErrShape, b.Len(), height, width)
	}
	return &CameraRayBundle{
		Height:     height,
		Width:      width,
		Origins:    b.Origins,
		Directions: b.Directions,
	}, nil
}

// CameraRayBundle holds one ray per pixel of a camera image.
// Ray (y, x) is stored at index y*Width+x.
type CameraRayBundle struct {
	Height     int
	Width      int
	Origins    []math3d.Vec3
	Directions []math3d.Vec3
}

// Shape returns (height, width).
func (c *CameraRayBundle) Shape() (height, width int) {
	return c.Height, c.Width
}

// At returns the ray through pixel (y, x).
func (c *CameraRayBundle) At(y, x int) Ray {
	i := y*c.Width + x
	return Ray{Origin: c.Origins[i], Direction: c.Directions[i]}
}

// Row returns the rays of image row y.
func (c *CameraRayBundle) Row(y int) *RayBundle {
	start := y * c.Width
	return &RayBundle{
		Origins:    c.Origins[start : start+c.Width : start+c.Width],
		Directions: c.Directions[start : start+c.Width : start+c.Width],
	}
}

// Flatten returns the flat row-major view of the bundle.
func (c *CameraRayBundle) Flatten() *RayBundle {
	return &RayBundle{Origins: c.Origins, Directions: c.Directions}
}
