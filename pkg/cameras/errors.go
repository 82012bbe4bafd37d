package cameras

import "errors"

var (
	// ErrUnsupportedModel is returned when an intrinsics parameter count or
	// model value matches no camera variant.
	ErrUnsupportedModel = errors.New("cameras: unsupported camera model")

	// ErrShapeMismatch is returned when the intrinsics, pose and coordinate
	// batches disagree in length, or an intrinsics vector has the wrong size.
	ErrShapeMismatch = errors.New("cameras: batch shape mismatch")

	// ErrDegenerateDirection is returned when a ray direction has zero or
	// non-finite length before normalization.
	ErrDegenerateDirection = errors.New("cameras: degenerate ray direction")
)
