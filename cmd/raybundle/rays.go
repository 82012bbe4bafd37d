package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"github.com/taigrr/raybundle/pkg/cameras"
	"github.com/taigrr/raybundle/pkg/math3d"
	"github.com/taigrr/raybundle/pkg/rays"
	"github.com/taigrr/raybundle/pkg/render"
	"github.com/taigrr/raybundle/pkg/scene"
)

type raysOptions struct {
	intrinsics string
	eye        string
	target     string
	gltfPath   string
	transforms string
	width      int
	height     int
	pngPath    string
}

func newRaysCmd() *cobra.Command {
	var opts raysOptions

	cmd := &cobra.Command{
		Use:   "rays",
		Short: "Generate and summarise the ray bundle of one or more cameras",
		Example: `  raybundle rays --intrinsics 320,240,500
  raybundle rays --intrinsics 320,240,500,520 --eye 0,0,5 --target 0,0,0 --png rays.png
  raybundle rays --gltf scene.glb --height 360
  raybundle rays --transforms transforms_train.json --width 800 --height 800`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			views, err := opts.views()
			if err != nil {
				return err
			}
			if len(views) == 0 {
				return fmt.Errorf("no perspective cameras found")
			}

			for i, v := range views {
				bundle, err := cameras.GenerateCameraRays(v.Camera)
				if err != nil {
					return fmt.Errorf("view %q: %w", v.Name, err)
				}
				summarize(cmd.OutOrStdout(), v, bundle)

				if opts.pngPath != "" {
					path := pngPathFor(opts.pngPath, i, len(views))
					fb := render.NewFramebuffer(bundle.Width, bundle.Height)
					fb.DrawRays(bundle)
					if err := fb.SavePNG(path); err != nil {
						return fmt.Errorf("save png: %w", err)
					}
					fmt.Fprintf(cmd.ErrOrStderr(), "Wrote %s\n", path)
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.intrinsics, "intrinsics", "", "Comma-separated cx,cy,f or cx,cy,fx,fy in pixels")
	f.StringVar(&opts.eye, "eye", "0,0,0", "Camera position (x,y,z) for --intrinsics")
	f.StringVar(&opts.target, "target", "0,0,-1", "Point the camera looks at (x,y,z) for --intrinsics")
	f.StringVar(&opts.gltfPath, "gltf", "", "Load perspective cameras from a GLTF/GLB file")
	f.StringVar(&opts.transforms, "transforms", "", "Load cameras from a NeRF transforms.json file")
	f.IntVar(&opts.width, "width", 0, "Image width for --transforms files that omit it")
	f.IntVar(&opts.height, "height", 480, "Image height for --gltf, or for --transforms files that omit it")
	f.StringVar(&opts.pngPath, "png", "", "Write a direction-coloured PNG of each bundle")
	cmd.MarkFlagsMutuallyExclusive("intrinsics", "gltf", "transforms")
	cmd.MarkFlagsOneRequired("intrinsics", "gltf", "transforms")

	return cmd
}

// views resolves the cameras selected by the flags.
func (o *raysOptions) views() ([]scene.View, error) {
	switch {
	case o.gltfPath != "":
		loader := scene.NewGLTFLoader()
		loader.ImageHeight = o.height
		return loader.Load(o.gltfPath)
	case o.transforms != "":
		return scene.LoadTransforms(o.transforms, o.width, o.height)
	}

	k, err := parseFloats(o.intrinsics)
	if err != nil {
		return nil, fmt.Errorf("parse --intrinsics: %w", err)
	}
	eye, err := parseVec3(o.eye)
	if err != nil {
		return nil, fmt.Errorf("parse --eye: %w", err)
	}
	target, err := parseVec3(o.target)
	if err != nil {
		return nil, fmt.Errorf("parse --target: %w", err)
	}
	if eye.Distance(target) == 0 {
		return nil, fmt.Errorf("--eye and --target must differ, both are %s", formatVec(eye))
	}

	model, err := cameras.CameraModel(len(k))
	if err != nil {
		return nil, err
	}
	cam, err := model.NewCamera(k, math3d.LookAtPose(eye, target, math3d.Up()))
	if err != nil {
		return nil, err
	}
	return []scene.View{{Name: model.String(), Camera: cam}}, nil
}

func summarize(w io.Writer, v scene.View, b *rays.CameraRayBundle) {
	fmt.Fprintf(w, "%s: %s %dx%d (%d rays)\n", v.Name, v.Camera.Model(), b.Width, b.Height, b.Width*b.Height)
	if b.Width == 0 || b.Height == 0 {
		return
	}

	fmt.Fprintf(w, "  origin        %s\n", formatVec(b.At(0, 0).Origin))
	fmt.Fprintf(w, "  centre        %s\n", formatVec(b.At(b.Height/2, b.Width/2).Direction))
	fmt.Fprintf(w, "  top-left      %s\n", formatVec(b.At(0, 0).Direction))
	fmt.Fprintf(w, "  bottom-right  %s\n", formatVec(b.At(b.Height-1, b.Width-1).Direction))
}

func formatVec(v math3d.Vec3) string {
	return fmt.Sprintf("(%+.4f, %+.4f, %+.4f)", v.X, v.Y, v.Z)
}

// pngPathFor numbers the output file when several views are written.
func pngPathFor(path string, i, n int) string {
	if n <= 1 {
		return path
	}
	ext := filepath.Ext(path)
	return fmt.Sprintf("%s_%03d%s", strings.TrimSuffix(path, ext), i, ext)
}

func parseFloats(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func parseVec3(s string) (math3d.Vec3, error) {
	v, err := parseFloats(s)
	if err != nil {
		return math3d.Vec3{}, err
	}
	if len(v) != 3 {
		return math3d.Vec3{}, fmt.Errorf("expected x,y,z, got %d values", len(v))
	}
	return math3d.V3(v[0], v[1], v[2]), nil
}
