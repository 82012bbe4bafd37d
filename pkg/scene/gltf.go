// Package scene loads camera parameters from scene and dataset descriptions
// and turns them into cameras ready for ray generation.
package scene

import (
	"fmt"
	"math"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/raybundle/pkg/cameras"
	"github.com/taigrr/raybundle/pkg/math3d"
)

// View is a named camera found in a scene.
type View struct {
	Name   string
	Camera cameras.Camera
}

// GLTFLoader extracts perspective cameras from GLTF/GLB files.
type GLTFLoader struct {
	// ImageHeight is the pixel height given to every camera. glTF stores
	// only a field of view, so the resolution comes from the caller.
	ImageHeight int

	// DefaultAspectRatio is used when a camera leaves aspectRatio unset.
	DefaultAspectRatio float64
}

// NewGLTFLoader creates a loader producing 640x480 images for cameras
// without an aspect ratio.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		ImageHeight:        480,
		DefaultAspectRatio: 4.0 / 3.0,
	}
}

// LoadGLTF loads every perspective camera of a GLTF or GLB file.
func LoadGLTF(path string) ([]View, error) {
	return NewGLTFLoader().Load(path)
}

// Load opens a GLTF or GLB file and returns its perspective cameras.
func (l *GLTFLoader) Load(path string) ([]View, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	views, err := l.Views(doc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return views, nil
}

// Views walks the document's scene graph and returns one view per node that
// references a perspective camera, in depth-first order. Orthographic
// cameras are skipped.
func (l *GLTFLoader) Views(doc *gltf.Document) ([]View, error) {
	if l.ImageHeight <= 0 {
		return nil, fmt.Errorf("image height must be positive, got %d", l.ImageHeight)
	}

	var views []View
	visiting := make(map[int]bool)

	var visit func(idx int, parent math3d.Mat4) error
	visit = func(idx int, parent math3d.Mat4) error {
		if idx < 0 || idx >= len(doc.Nodes) {
			return fmt.Errorf("node index %d out of range", idx)
		}
		if visiting[idx] {
			return fmt.Errorf("node %d is part of a cycle", idx)
		}
		visiting[idx] = true
		defer delete(visiting, idx)

		node := doc.Nodes[idx]
		world := parent.Mul(localTransform(node))

		if node.Camera != nil {
			view, ok, err := l.view(doc, node, world)
			if err != nil {
				return fmt.Errorf("node %d (%q): %w", idx, node.Name, err)
			}
			if ok {
				views = append(views, view)
			}
		}

		for _, child := range node.Children {
			if err := visit(child, world); err != nil {
				return err
			}
		}
		return nil
	}

	for _, root := range rootNodes(doc) {
		if err := visit(root, math3d.Identity()); err != nil {
			return nil, err
		}
	}

	return views, nil
}

// view converts the camera attached to node. ok is false for cameras that
// are not perspective.
func (l *GLTFLoader) view(doc *gltf.Document, node *gltf.Node, world math3d.Mat4) (View, bool, error) {
	idx := *node.Camera
	if idx < 0 || idx >= len(doc.Cameras) {
		return View{}, false, fmt.Errorf("camera index %d out of range", idx)
	}

	cam := doc.Cameras[idx]
	if cam.Perspective == nil {
		return View{}, false, nil
	}

	p := cam.Perspective
	if p.Yfov <= 0 || p.Yfov >= math.Pi {
		return View{}, false, fmt.Errorf("camera %d: yfov %v out of range (0, pi)", idx, p.Yfov)
	}

	aspect := l.DefaultAspectRatio
	if p.AspectRatio != nil && *p.AspectRatio > 0 {
		aspect = *p.AspectRatio
	}

	height := float64(l.ImageHeight)
	width := math.Round(height * aspect)
	cx, cy := width/2, height/2
	f := cy / math.Tan(p.Yfov/2)

	// glTF cameras look down -Z with +Y up, the same convention the ray
	// generator uses, so the node's world transform is the pose as-is once
	// any node scale is removed.
	pose := math3d.PoseFromMat4(world).Orthonormalized()

	name := cam.Name
	if name == "" {
		name = node.Name
	}
	if name == "" {
		name = fmt.Sprintf("camera%d", idx)
	}

	return View{
		Name:   name,
		Camera: cameras.NewSimplePinholeCamera(cx, cy, f, cameras.WithCameraToWorld(pose)),
	}, true, nil
}

// localTransform returns the node's transform relative to its parent. An
// explicit matrix wins over translation/rotation/scale.
func localTransform(n *gltf.Node) math3d.Mat4 {
	m := math3d.Mat4(n.Matrix)
	if m != (math3d.Mat4{}) && m != math3d.Identity() {
		return m
	}

	rotation := n.Rotation
	if rotation == ([4]float64{}) {
		rotation = [4]float64{0, 0, 0, 1}
	}
	scale := n.Scale
	if scale == ([3]float64{}) {
		scale = [3]float64{1, 1, 1}
	}

	return math3d.TRS(
		math3d.V3(n.Translation[0], n.Translation[1], n.Translation[2]),
		rotation,
		math3d.V3(scale[0], scale[1], scale[2]),
	)
}

// rootNodes returns the roots of the default scene, the first scene, or, for
// documents without scenes, every node that is nobody's child.
func rootNodes(doc *gltf.Document) []int {
	if doc.Scene != nil && *doc.Scene >= 0 && *doc.Scene < len(doc.Scenes) {
		return doc.Scenes[*doc.Scene].Nodes
	}
	if len(doc.Scenes) > 0 {
		return doc.Scenes[0].Nodes
	}

	isChild := make(map[int]bool)
	for _, n := range doc.Nodes {
		for _, c := range n.Children {
			isChild[c] = true
		}
	}
	var roots []int
	for i := range doc.Nodes {
		if !isChild[i] {
			roots = append(roots, i)
		}
	}
	return roots
}
