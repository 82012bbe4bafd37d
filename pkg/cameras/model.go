package cameras

import (
	"fmt"

	"github.com/taigrr/raybundle/pkg/math3d"
)

// Model identifies a camera variant. Every variant shares the same pinhole
// projection and differs only in which intrinsics slots hold the focal
// lengths.
type Model int

const (
	// ModelSimplePinhole has one focal length: [cx, cy, f].
	ModelSimplePinhole Model = iota + 1
	// ModelPinhole has independent focal lengths: [cx, cy, fx, fy].
	ModelPinhole
)

// modelLayout is the per-variant layout of the intrinsics vector.
type modelLayout struct {
	name   string
	params int
	fx, fy int // focal length slots
}

var modelLayouts = map[Model]modelLayout{
	ModelSimplePinhole: {name: "simple_pinhole", params: 3, fx: 2, fy: 2},
	ModelPinhole:       {name: "pinhole", params: 4, fx: 2, fy: 3},
}

// CameraModel returns the variant whose intrinsics vector has
// numIntrinsicsParams entries: 3 selects SimplePinhole, 4 selects Pinhole.
func CameraModel(numIntrinsicsParams int) (Model, error) {
	switch numIntrinsicsParams {
	case 3:
		return ModelSimplePinhole, nil
	case 4:
		return ModelPinhole, nil
	}
	return 0, fmt.Errorf("%w: %d intrinsics parameters", ErrUnsupportedModel, numIntrinsicsParams)
}

func (m Model) layout() (modelLayout, error) {
	s, ok := modelLayouts[m]
	if !ok {
		return modelLayout{}, fmt.Errorf("%w: model %d", ErrUnsupportedModel, int(m))
	}
	return s, nil
}

// String returns the model name.
func (m Model) String() string {
	if s, ok := modelLayouts[m]; ok {
		return s.name
	}
	return fmt.Sprintf("Model(%d)", int(m))
}

// NumIntrinsicsParams returns the length of the model's intrinsics vector,
// or 0 for an unknown model.
func (m Model) NumIntrinsicsParams() int {
	return modelLayouts[m].params
}

// FocalSlots returns the intrinsics indices read as fx and fy.
func (m Model) FocalSlots() (fx, fy int) {
	s := modelLayouts[m]
	return s.fx, s.fy
}

// NewCamera builds a camera of this model from a raw intrinsics vector in the
// model's layout.
func (m Model) NewCamera(intrinsics []float64, pose math3d.Pose) (Camera, error) {
	s, err := m.layout()
	if err != nil {
		return nil, err
	}
	if len(intrinsics) != s.params {
		return nil, fmt.Errorf("%w: %s takes %d intrinsics, got %d", ErrShapeMismatch, m, s.params, len(intrinsics))
	}

	k := intrinsics
	switch m {
	case ModelSimplePinhole:
		return NewSimplePinholeCamera(k[0], k[1], k[2], WithCameraToWorld(pose)), nil
	default:
		return NewPinholeCamera(k[0], k[1], k[2], k[3], WithCameraToWorld(pose)), nil
	}
}
