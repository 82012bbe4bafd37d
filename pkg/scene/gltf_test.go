package scene

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/taigrr/raybundle/pkg/cameras"
	"github.com/taigrr/raybundle/pkg/math3d"
)

// yfov = 2*atan(0.5), so the focal length equals the image height.
const testScene = `{
  "asset": {"version": "2.0"},
  "scene": 0,
  "scenes": [{"nodes": [0, 2, 3]}],
  "nodes": [
    {"name": "rig", "translation": [0, 0, 5], "children": [1]},
    {"name": "front", "camera": 0},
    {"name": "side", "camera": 1, "translation": [3, 0, 0],
     "rotation": [0, 0.7071067811865476, 0, 0.7071067811865476], "scale": [2, 2, 2]},
    {"name": "top", "camera": 2}
  ],
  "cameras": [
    {"name": "main", "type": "perspective",
     "perspective": {"yfov": 0.9272952180016122, "aspectRatio": 1.5, "znear": 0.1}},
    {"type": "perspective", "perspective": {"yfov": 0.9272952180016122, "znear": 0.1}},
    {"type": "orthographic", "orthographic": {"xmag": 1, "ymag": 1, "zfar": 10, "znear": 0.1}}
  ]
}`

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoadGLTFInvalidPath(t *testing.T) {
	_, err := LoadGLTF("/nonexistent/path.glb")
	if err == nil {
		t.Error("Expected error for nonexistent file")
	}
}

func TestGLTFLoaderCreation(t *testing.T) {
	loader := NewGLTFLoader()
	if loader == nil {
		t.Fatal("NewGLTFLoader returned nil")
	}
	if loader.ImageHeight != 480 {
		t.Errorf("ImageHeight = %d, want 480", loader.ImageHeight)
	}
	if math.Abs(loader.DefaultAspectRatio-4.0/3.0) > 1e-12 {
		t.Errorf("DefaultAspectRatio = %v, want 4/3", loader.DefaultAspectRatio)
	}
}

func TestLoadGLTFCameras(t *testing.T) {
	views, err := LoadGLTF(writeFile(t, "scene.gltf", testScene))
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}

	if len(views) != 2 {
		t.Fatalf("got %d views, want 2 (orthographic skipped)", len(views))
	}

	tests := []struct {
		name          string
		width, height int
		f             float64
		origin        math3d.Vec3
		forward       math3d.Vec3
	}{
		{"main", 720, 480, 480, math3d.V3(0, 0, 5), math3d.V3(0, 0, -1)},
		{"side", 640, 480, 480, math3d.V3(3, 0, 0), math3d.V3(-1, 0, 0)},
	}

	for i, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := views[i]
			if v.Name != tc.name {
				t.Errorf("name = %q, want %q", v.Name, tc.name)
			}

			cam, ok := v.Camera.(*cameras.SimplePinholeCamera)
			if !ok {
				t.Fatalf("camera type = %T, want *SimplePinholeCamera", v.Camera)
			}
			if cam.ImageWidth() != tc.width || cam.ImageHeight() != tc.height {
				t.Errorf("size = %dx%d, want %dx%d", cam.ImageWidth(), cam.ImageHeight(), tc.width, tc.height)
			}
			if math.Abs(cam.F-tc.f) > 1e-9 {
				t.Errorf("f = %v, want %v", cam.F, tc.f)
			}

			pose := cam.CameraToWorld()
			if got := pose.Translation(); !got.ApproxEqual(tc.origin, 1e-9) {
				t.Errorf("origin = %v, want %v", got, tc.origin)
			}
			if got := pose.Rotate(math3d.Forward()); !got.ApproxEqual(tc.forward, 1e-9) {
				t.Errorf("forward = %v, want %v", got, tc.forward)
			}
			if l := pose.Rotate(math3d.V3(1, 0, 0)).Len(); math.Abs(l-1) > 1e-9 {
				t.Errorf("rotation column length = %v, want 1 (scale removed)", l)
			}
		})
	}
}

func TestGLTFViewsGenerateRays(t *testing.T) {
	loader := &GLTFLoader{ImageHeight: 9, DefaultAspectRatio: 1}
	views, err := loader.Load(writeFile(t, "scene.gltf", testScene))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	bundle, err := cameras.GenerateCameraRays(views[1].Camera)
	if err != nil {
		t.Fatalf("GenerateCameraRays: %v", err)
	}
	if bundle.Height != 9 || bundle.Width != 9 {
		t.Fatalf("shape = %dx%d, want 9x9", bundle.Height, bundle.Width)
	}
	if d := bundle.At(4, 4).Direction; !d.ApproxEqual(math3d.V3(-1, 0, 0), 1e-9) {
		t.Errorf("centre ray = %v, want (-1, 0, 0)", d)
	}
}

func TestGLTFLoaderRejectsBadInput(t *testing.T) {
	badFov := `{"asset": {"version": "2.0"},
	  "nodes": [{"camera": 0}],
	  "cameras": [{"type": "perspective", "perspective": {"yfov": 0, "znear": 0.1}}]}`
	if _, err := LoadGLTF(writeFile(t, "fov.gltf", badFov)); err == nil {
		t.Error("expected error for zero yfov")
	}

	badRef := `{"asset": {"version": "2.0"},
	  "nodes": [{"camera": 3}],
	  "cameras": []}`
	if _, err := LoadGLTF(writeFile(t, "ref.gltf", badRef)); err == nil {
		t.Error("expected error for dangling camera index")
	}

	loader := &GLTFLoader{ImageHeight: 0}
	if _, err := loader.Load(writeFile(t, "scene.gltf", testScene)); err == nil {
		t.Error("expected error for zero image height")
	}
}

func TestGLTFWithoutScenesUsesRootNodes(t *testing.T) {
	doc := `{"asset": {"version": "2.0"},
	  "nodes": [
	    {"name": "child", "camera": 0},
	    {"name": "parent", "translation": [0, 1, 0], "children": [0]}
	  ],
	  "cameras": [{"type": "perspective", "perspective": {"yfov": 1, "znear": 0.1}}]}`

	views, err := LoadGLTF(writeFile(t, "roots.gltf", doc))
	if err != nil {
		t.Fatalf("LoadGLTF: %v", err)
	}
	if len(views) != 1 {
		t.Fatalf("got %d views, want 1", len(views))
	}
	if views[0].Name != "child" {
		t.Errorf("name = %q, want child", views[0].Name)
	}
	if got := views[0].Camera.CameraToWorld().Translation(); !got.ApproxEqual(math3d.V3(0, 1, 0), 1e-12) {
		t.Errorf("origin = %v, want (0, 1, 0)", got)
	}
}
