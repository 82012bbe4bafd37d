package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/raybundle/pkg/cameras"
	"github.com/taigrr/raybundle/pkg/math3d"
)

const blenderTransforms = `{
  "camera_angle_x": 0.9272952180016122,
  "frames": [
    {"file_path": "./train/r_0", "transform_matrix": [
      [1, 0, 0, 0], [0, 1, 0, 0], [0, 0, 1, 4], [0, 0, 0, 1]]},
    {"file_path": "./train/r_1", "transform_matrix": [
      [0, 0, 1, 4], [0, 1, 0, 0], [-1, 0, 0, 0], [0, 0, 0, 1]]}
  ]
}`

const ngpTransforms = `{
  "fl_x": 500, "fl_y": 520, "cx": 320, "cy": 240, "w": 640, "h": 480,
  "frames": [
    {"file_path": "images/0001.png", "transform_matrix": [
      [1, 0, 0, 1], [0, 1, 0, 2], [0, 0, 1, 3], [0, 0, 0, 1]]}
  ]
}`

func TestLoadTransformsBlender(t *testing.T) {
	views, err := LoadTransforms(writeFile(t, "transforms.json", blenderTransforms), 800, 800)
	if err != nil {
		t.Fatalf("LoadTransforms: %v", err)
	}
	if len(views) != 2 {
		t.Fatalf("got %d views, want 2", len(views))
	}

	cam, ok := views[0].Camera.(*cameras.SimplePinholeCamera)
	if !ok {
		t.Fatalf("camera type = %T, want *SimplePinholeCamera", views[0].Camera)
	}
	// tan(angle/2) = 0.5, so f = 0.5*800/0.5
	if math.Abs(cam.F-800) > 1e-9 {
		t.Errorf("f = %v, want 800", cam.F)
	}
	if cam.ImageWidth() != 800 || cam.ImageHeight() != 800 {
		t.Errorf("size = %dx%d, want 800x800", cam.ImageWidth(), cam.ImageHeight())
	}
	if views[0].Name != "./train/r_0" {
		t.Errorf("name = %q", views[0].Name)
	}

	// Second frame sits on +X looking back at the origin.
	pose := views[1].Camera.CameraToWorld()
	if got := pose.Translation(); got != math3d.V3(4, 0, 0) {
		t.Errorf("origin = %v, want (4, 0, 0)", got)
	}
	if got := pose.Rotate(math3d.Forward()); !got.ApproxEqual(math3d.V3(-1, 0, 0), 1e-12) {
		t.Errorf("forward = %v, want (-1, 0, 0)", got)
	}
}

func TestLoadTransformsInstantNGP(t *testing.T) {
	views, err := LoadTransforms(writeFile(t, "transforms.json", ngpTransforms), 0, 0)
	if err != nil {
		t.Fatalf("LoadTransforms: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d views, want 1", len(views))
	}

	cam, ok := views[0].Camera.(*cameras.PinholeCamera)
	if !ok {
		t.Fatalf("camera type = %T, want *PinholeCamera", views[0].Camera)
	}
	if cam.Fx != 500 || cam.Fy != 520 || cam.Cx != 320 || cam.Cy != 240 {
		t.Errorf("intrinsics = %v", cam.Intrinsics())
	}
	if got := cam.CameraToWorld().Translation(); got != math3d.V3(1, 2, 3) {
		t.Errorf("origin = %v, want (1, 2, 3)", got)
	}
}

func TestTransformsIntrinsics(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name    string
		tf      TransformsFile
		w, h    int
		want    []float64
		wantErr bool
	}{
		{"single focal", TransformsFile{FlX: f(100)}, 64, 48, []float64{32, 24, 100}, false},
		{"two focals", TransformsFile{FlX: f(100), FlY: f(90)}, 64, 48, []float64{32, 24, 100, 90}, false},
		{"file size wins", TransformsFile{FlX: f(10), W: f(20), H: f(10)}, 64, 48, []float64{10, 5, 10}, false},
		{"no size", TransformsFile{FlX: f(10)}, 0, 0, nil, true},
		{"no focal", TransformsFile{}, 64, 48, nil, true},
		{"bad angle", TransformsFile{CameraAngleX: f(4)}, 64, 48, nil, true},
		{"centred cx cy", TransformsFile{FlX: f(10), Cx: f(32), Cy: f(24)}, 64, 48, []float64{32, 24, 10}, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := tc.tf.Intrinsics(tc.w, tc.h)
			if tc.wantErr {
				if err == nil {
					t.Errorf("expected error, got %v", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Intrinsics: %v", err)
			}
			if len(got) != len(tc.want) {
				t.Fatalf("got %v, want %v", got, tc.want)
			}
			for i := range got {
				if math.Abs(got[i]-tc.want[i]) > 1e-12 {
					t.Errorf("got %v, want %v", got, tc.want)
				}
			}
		})
	}
}

func TestLoadTransformsErrors(t *testing.T) {
	if _, err := LoadTransforms("/nonexistent/transforms.json", 10, 10); err == nil {
		t.Error("expected error for missing file")
	}
	if _, err := LoadTransforms(writeFile(t, "bad.json", "{not json"), 10, 10); err == nil {
		t.Error("expected error for malformed JSON")
	}
}

func TestTransformsOffCentrePrincipalPoint(t *testing.T) {
	f := func(v float64) *float64 { return &v }

	tests := []struct {
		name string
		tf   TransformsFile
	}{
		{"cx and cy", TransformsFile{W: f(800), H: f(800), Cx: f(403.7), Cy: f(396.2), FlX: f(1100)}},
		{"cx only", TransformsFile{W: f(640), H: f(480), Cx: f(330), FlX: f(500)}},
		{"cy only", TransformsFile{W: f(640), H: f(480), Cy: f(230), FlX: f(500), FlY: f(500)}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			views, err := tc.tf.Views(0, 0)
			if !errors.Is(err, ErrOffCentre) {
				t.Errorf("error = %v, want ErrOffCentre (views %d)", err, len(views))
			}
		})
	}
}

func TestLoadTransformsOffCentre(t *testing.T) {
	const offCentre = `{
  "fl_x": 1100, "cx": 403.7, "cy": 396.2, "w": 800, "h": 800,
  "frames": [{"file_path": "a.png", "transform_matrix": [
    [1, 0, 0, 0], [0, 1, 0, 0], [0, 0, 1, 0], [0, 0, 0, 1]]}]
}`
	_, err := LoadTransforms(writeFile(t, "transforms.json", offCentre), 0, 0)
	if !errors.Is(err, ErrOffCentre) {
		t.Errorf("error = %v, want ErrOffCentre", err)
	}
}
