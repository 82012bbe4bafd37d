package cameras

import (
	"fmt"
	"math"
	"runtime"

	"github.com/taigrr/raybundle/pkg/math3d"
	"github.com/taigrr/raybundle/pkg/rays"
	"golang.org/x/sync/errgroup"
)

// chunkSize is the number of rays a single goroutine generates. Batches no
// larger than this run on the calling goroutine.
const chunkSize = 16384

// GenerateRays maps every (intrinsics, pose, coord) triple to a world-space
// ray using the inverse pinhole projection:
//
//	d = R · ((x-cx)/fx, -(y-cy)/fy, -1)
//	ray = (t, d/|d|)
//
// where R and t are the rotation block and translation column of the pose.
// The camera looks down its -Z axis and image rows grow downwards, hence the
// sign flips. The three batches must have equal length and every intrinsics
// vector must match the model's layout. Output order matches input order.
func (m Model) GenerateRays(intrinsics [][]float64, poses []math3d.Pose, coords []Coord) (*rays.RayBundle, error) {
	s, err := m.layout()
	if err != nil {
		return nil, err
	}

	n := len(coords)
	if len(intrinsics) != n || len(poses) != n {
		return nil, fmt.Errorf("%w: %d intrinsics, %d poses, %d coords",
			ErrShapeMismatch, len(intrinsics), len(poses), n)
	}

	origins := make([]math3d.Vec3, n)
	directions := make([]math3d.Vec3, n)

	// Each call writes only [start, end), so chunks never share an index.
	fill := func(start, end int) error {
		for i := start; i < end; i++ {
			k := intrinsics[i]
			if len(k) != s.params {
				return fmt.Errorf("%w: ray %d has %d intrinsics, %s takes %d",
					ErrShapeMismatch, i, len(k), m, s.params)
			}
			o, d, err := pinholeRay(k[0], k[1], k[s.fx], k[s.fy], poses[i], coords[i])
			if err != nil {
				return fmt.Errorf("ray %d at (%g, %g): %w", i, coords[i].Y, coords[i].X, err)
			}
			origins[i] = o
			directions[i] = d
		}
		return nil
	}

	if n <= chunkSize {
		if err := fill(0, n); err != nil {
			return nil, err
		}
	} else {
		var g errgroup.Group
		g.SetLimit(runtime.GOMAXPROCS(0))
		for start := 0; start < n; start += chunkSize {
			end := min(start+chunkSize, n)
			g.Go(func() error {
				return fill(start, end)
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	}

	return rays.NewRayBundle(origins, directions)
}

func pinholeRay(cx, cy, fx, fy float64, pose math3d.Pose, c Coord) (origin, direction math3d.Vec3, err error) {
	d := pose.Rotate(math3d.V3(
		(c.X-cx)/fx,
		-(c.Y-cy)/fy,
		-1,
	))

	l := d.Len()
	if !d.IsFinite() || l == 0 || math.IsInf(l, 0) {
		return math3d.Vec3{}, math3d.Vec3{}, ErrDegenerateDirection
	}

	return pose.Translation(), math3d.V3(d.X/l, d.Y/l, d.Z/l), nil
}
