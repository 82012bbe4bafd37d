package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/taigrr/raybundle/pkg/cameras"
	"github.com/taigrr/raybundle/pkg/math3d"
)

// ErrOffCentre is returned when a recorded principal point does not sit at
// the image centre. Cameras derive their image size from the principal point
// (2cx by 2cy), so such a file cannot be represented without changing the
// image size.
var ErrOffCentre = errors.New("principal point is not at the image centre")

// TransformsFile is the NeRF / instant-ngp "transforms.json" dataset layout.
// Only the fields describing cameras are decoded.
type TransformsFile struct {
	CameraAngleX *float64 `json:"camera_angle_x,omitempty"`
	FlX          *float64 `json:"fl_x,omitempty"`
	FlY          *float64 `json:"fl_y,omitempty"`
	Cx           *float64 `json:"cx,omitempty"`
	Cy           *float64 `json:"cy,omitempty"`
	W            *float64 `json:"w,omitempty"`
	H            *float64 `json:"h,omitempty"`
	Frames       []Frame  `json:"frames"`
}

// Frame is one posed image of the dataset.
type Frame struct {
	FilePath string `json:"file_path"`
	// TransformMatrix is the row-major 4x4 camera-to-world matrix.
	TransformMatrix [4][4]float64 `json:"transform_matrix"`
}

// LoadTransforms reads a transforms.json file and returns one view per frame.
// width and height give the image size when the file does not record it
// (the original Blender datasets leave it to the image files).
func LoadTransforms(path string, width, height int) ([]View, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read transforms: %w", err)
	}

	var tf TransformsFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	views, err := tf.Views(width, height)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return views, nil
}

// Intrinsics returns the shared intrinsics vector of every frame. A recorded
// cx or cy must place the principal point at the image centre. Both fl_x
// and fl_y give the 4-parameter layout; a single focal length, from fl_x or
// camera_angle_x, gives the 3-parameter one.
func (tf *TransformsFile) Intrinsics(width, height int) ([]float64, error) {
	w, h := float64(width), float64(height)
	if tf.W != nil {
		w = *tf.W
	}
	if tf.H != nil {
		h = *tf.H
	}
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("image size unknown: %vx%v", w, h)
	}

	cx, cy := w/2, h/2
	if tf.Cx != nil {
		cx = *tf.Cx
	}
	if tf.Cy != nil {
		cy = *tf.Cy
	}
	if math.Round(2*cx) != math.Round(w) || math.Round(2*cy) != math.Round(h) {
		return nil, fmt.Errorf("%w: cx=%v cy=%v for a %vx%v image", ErrOffCentre, cx, cy, w, h)
	}

	switch {
	case tf.FlX != nil && tf.FlY != nil:
		return []float64{cx, cy, *tf.FlX, *tf.FlY}, nil
	case tf.FlX != nil:
		return []float64{cx, cy, *tf.FlX}, nil
	case tf.CameraAngleX != nil:
		angle := *tf.CameraAngleX
		if angle <= 0 || angle >= math.Pi {
			return nil, fmt.Errorf("camera_angle_x %v out of range (0, pi)", angle)
		}
		return []float64{cx, cy, 0.5 * w / math.Tan(angle/2)}, nil
	}
	return nil, fmt.Errorf("no focal length: need fl_x or camera_angle_x")
}

// Views builds a camera per frame, picking the model from the number of
// intrinsics parameters.
func (tf *TransformsFile) Views(width, height int) ([]View, error) {
	k, err := tf.Intrinsics(width, height)
	if err != nil {
		return nil, err
	}

	model, err := cameras.CameraModel(len(k))
	if err != nil {
		return nil, err
	}

	views := make([]View, 0, len(tf.Frames))
	for i, fr := range tf.Frames {
		var pose math3d.Pose
		for row := range 3 {
			pose[row] = fr.TransformMatrix[row]
		}

		cam, err := model.NewCamera(k, pose)
		if err != nil {
			return nil, fmt.Errorf("frame %d: %w", i, err)
		}

		name := fr.FilePath
		if name == "" {
			name = fmt.Sprintf("frame%d", i)
		}
		views = append(views, View{Name: name, Camera: cam})
	}
	return views, nil
}
