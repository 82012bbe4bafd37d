package main

import (
	"context"
	"fmt"
	"math"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/spf13/cobra"
	"github.com/taigrr/raybundle/pkg/cameras"
	"github.com/taigrr/raybundle/pkg/math3d"
	"github.com/taigrr/raybundle/pkg/render"
)

const nudgeStep = math.Pi / 12

func newPreviewCmd() *cobra.Command {
	var (
		fovDeg   float64
		distance float64
		fps      int
	)

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Orbit a camera in the terminal, colouring each pixel by its ray direction",
		Long: `Orbit a simple pinhole camera around the origin. Every frame the camera's
full ray bundle is regenerated and each pixel is coloured by its direction
(x, y, z mapped to red, green, blue).

Controls:
  W/S/A/D, arrows  - Orbit
  R                - Reset
  Esc, Q, Ctrl+C   - Quit`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if fovDeg <= 0 || fovDeg >= 180 {
				return fmt.Errorf("--fov must be in (0, 180), got %v", fovDeg)
			}
			if fps <= 0 {
				return fmt.Errorf("--fps must be positive, got %d", fps)
			}
			return runPreview(cmd.Context(), fovDeg*math.Pi/180, distance, fps)
		},
	}

	f := cmd.Flags()
	f.Float64Var(&fovDeg, "fov", 60, "Vertical field of view in degrees")
	f.Float64Var(&distance, "distance", 5, "Orbit radius")
	f.IntVar(&fps, "fps", 30, "Target FPS")

	return cmd
}

// previewCamera fits a simple pinhole camera to a framebuffer of the given
// size with vertical field of view fovY.
func previewCamera(width, height int, fovY float64, pose math3d.Pose) *cameras.SimplePinholeCamera {
	cx, cy := float64(width)/2, float64(height)/2
	f := cy / math.Tan(fovY/2)
	return cameras.NewSimplePinholeCamera(cx, cy, f, cameras.WithCameraToWorld(pose))
}

func runPreview(ctx context.Context, fovY, distance float64, fps int) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	if err := term.Resize(width, height); err != nil {
		return fmt.Errorf("resize terminal: %w", err)
	}

	cleanup := func() {
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	// Half-block cells give two framebuffer rows per terminal row.
	fb := render.NewFramebuffer(width, height*2)
	orbit := NewOrbit(fps, distance)

	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-term.Events():
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				if err := term.Resize(width, height); err != nil {
					return fmt.Errorf("resize terminal: %w", err)
				}
				fb = render.NewFramebuffer(width, height*2)

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("esc", "q", "ctrl+c"):
					return nil
				case ev.MatchString("r"):
					orbit.Reset()
				case ev.MatchString("a", "left"):
					orbit.Nudge(-nudgeStep, 0)
				case ev.MatchString("d", "right"):
					orbit.Nudge(nudgeStep, 0)
				case ev.MatchString("w", "up"):
					orbit.Nudge(0, nudgeStep)
				case ev.MatchString("s", "down"):
					orbit.Nudge(0, -nudgeStep)
				}
			}

		case <-ticker.C:
			orbit.Update()

			cam := previewCamera(fb.Width, fb.Height, fovY, orbit.Pose())
			bundle, err := cameras.GenerateCameraRays(cam)
			if err != nil {
				return fmt.Errorf("generate rays: %w", err)
			}

			fb.DrawRays(bundle)
			fb.Draw(term, uv.Rect(0, 0, width, height))
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}
		}
	}
}
