package cameras

import (
	"fmt"

	"github.com/taigrr/raybundle/pkg/math3d"
	"github.com/taigrr/raybundle/pkg/rays"
)

// GenerateCameraRays returns the ray through the centre of every pixel of
// cam's image, shaped (ImageHeight, ImageWidth) in row-major order.
//
// The camera's single intrinsics vector and pose are broadcast to
// num_rays = height*width entries before calling cam.GenerateRays:
//
//	intrinsics [num_rays][NumIntrinsicsParams]  every row views cam.Intrinsics()
//	poses      [num_rays]Pose                   every entry copies cam.CameraToWorld()
//	coords     [num_rays]Coord                  ImageCoords flattened row-major
//
// Either the complete bundle is returned or an error.
func GenerateCameraRays(cam Camera) (*rays.CameraRayBundle, error) {
	height, width := cam.ImageHeight(), cam.ImageWidth()
	numRays := height * width

	k := cam.Intrinsics()
	pose := cam.CameraToWorld()

	// Rows share k's backing array; GenerateRays only reads them.
	intrinsics := make([][]float64, numRays)
	poses := make([]math3d.Pose, numRays)
	for i := range numRays {
		intrinsics[i] = k
		poses[i] = pose
	}

	coords := FlattenCoords(ImageCoords(height, width, DefaultPixelOffset))

	bundle, err := cam.GenerateRays(intrinsics, poses, coords)
	if err != nil {
		return nil, fmt.Errorf("generate %s rays: %w", cam.Model(), err)
	}

	return bundle.ToCameraRayBundle(height, width)
}
