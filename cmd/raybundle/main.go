// raybundle - pinhole camera ray generation
// Generate the world-space ray through every pixel of a pinhole camera,
// from command-line intrinsics or from the cameras of a glTF scene or a
// NeRF transforms.json dataset.
//
// Commands:
//
//	rays     - Summarise (and optionally export as PNG) a camera's ray bundle
//	preview  - Orbit a camera in the terminal, colouring pixels by ray direction
package main

import (
	"context"
	"os"
	"syscall"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "raybundle",
		Short: "Generate per-pixel rays for pinhole cameras",
		Long: `raybundle computes the origin and unit direction of the ray through
every pixel of a pinhole camera with known intrinsics and pose.`,
	}
	root.AddCommand(newRaysCmd(), newPreviewCmd())
	return root
}

func main() {
	if err := fang.Execute(
		context.Background(),
		newRootCmd(),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	); err != nil {
		os.Exit(1)
	}
}
