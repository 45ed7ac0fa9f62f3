// Package snapshot renders a region of a simulated world to a PNG file for
// offline inspection. It has no bearing on simulation state; it only reads
// particle colors back out.
package snapshot

import (
	"fmt"
	"image"
	"image/png"
	"os"

	"golang.org/x/image/draw"

	"sandcore/gridmath"
	"sandcore/particle"
)

// Source is the minimal world surface a snapshot needs.
type Source interface {
	GetParticle(pos gridmath.Vec) particle.Particle
}

// Scale is the nearest-neighbor upscale factor applied to the rendered
// image: one simulation cell is a single pixel, which is too small to read
// at any useful bounds, so every cell is blown up into a Scale x Scale
// block before being written out.
const Scale = 4

// Render paints every cell in bounds into an *image.RGBA, one Scale x Scale
// block per cell, using particle.ColorFor for the per-cell color.
func Render(src Source, bounds gridmath.Bounds) *image.RGBA {
	w, h := int(bounds.Width()), int(bounds.Height())
	cellImg := image.NewRGBA(image.Rect(0, 0, w, h))

	for y := 0; y < h; y++ {
		worldY := bounds.Min.Y + int32(y)
		for x := 0; x < w; x++ {
			worldX := bounds.Min.X + int32(x)
			p := src.GetParticle(gridmath.Vec{X: worldX, Y: worldY})
			// Flip Y: simulation Y grows upward, image Y grows downward.
			cellImg.Set(x, h-1-y, particle.ColorFor(p.Type))
		}
	}

	out := image.NewRGBA(image.Rect(0, 0, w*Scale, h*Scale))
	draw.NearestNeighbor.Scale(out, out.Bounds(), cellImg, cellImg.Bounds(), draw.Over, nil)
	return out
}

// WritePNG renders bounds and writes the result to path as a PNG file.
func WritePNG(src Source, bounds gridmath.Bounds, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("snapshot: create %s: %w", path, err)
	}
	defer f.Close()

	img := Render(src, bounds)
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("snapshot: encode %s: %w", path, err)
	}
	return nil
}
