// Package render visualises ray bundles: ray directions become colours in a
// framebuffer that can be saved as PNG or drawn to the terminal.
package render

import (
	"image"
	"image/color"
	"image/png"
	"math"
	"os"

	"github.com/taigrr/raybundle/pkg/math3d"
	"github.com/taigrr/raybundle/pkg/rays"
)

// Framebuffer is a 2D array of pixels that can be rendered to the terminal.
// We use double vertical resolution by using half-block characters (▀▄).
type Framebuffer struct {
	Width  int          // Width in "pixels" (same as terminal columns)
	Height int          // Height in "pixels" (2x terminal rows due to half-blocks)
	Pixels []color.RGBA // Row-major pixel data
}

// NewFramebuffer creates a new framebuffer with the given dimensions.
// Height should be 2x the desired terminal rows for half-block rendering.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// DirectionColor maps a unit direction to a colour, normal-map style:
// each component in [-1, 1] becomes a channel in [0, 255].
func DirectionColor(d math3d.Vec3) color.RGBA {
	channel := func(v float64) uint8 {
		v = math.Max(-1, math.Min(1, v))
		return uint8(math.Round((v + 1) * 0.5 * 255))
	}
	return color.RGBA{channel(d.X), channel(d.Y), channel(d.Z), 255}
}

// DrawRays colours every framebuffer pixel by the direction of the nearest
// ray in b, stretching the bundle over the whole framebuffer.
func (fb *Framebuffer) DrawRays(b *rays.CameraRayBundle) {
	if b.Width == 0 || b.Height == 0 {
		return
	}
	for y := range fb.Height {
		by := min(y*b.Height/fb.Height, b.Height-1)
		for x := range fb.Width {
			bx := min(x*b.Width/fb.Width, b.Width-1)
			fb.Pixels[y*fb.Width+x] = DirectionColor(b.At(by, bx).Direction)
		}
	}
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}
