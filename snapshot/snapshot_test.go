package snapshot

import (
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"sandcore/gridmath"
	"sandcore/particle"
)

type stubSource struct{ stoneAt gridmath.Vec }

func (s stubSource) GetParticle(pos gridmath.Vec) particle.Particle {
	if pos == s.stoneAt {
		return particle.New(particle.Stone)
	}
	return particle.New(particle.Air)
}

func TestRenderScalesEachCellToABlock(t *testing.T) {
	bounds := gridmath.NewBoundsFromCorner(gridmath.Vec{}, gridmath.Vec{X: 4, Y: 4})
	img := Render(stubSource{}, bounds)

	want := 4 * Scale
	if b := img.Bounds(); b.Dx() != want || b.Dy() != want {
		t.Fatalf("Render size = %dx%d, want %dx%d", b.Dx(), b.Dy(), want, want)
	}
}

func TestRenderPlacesStoneColorAtItsCell(t *testing.T) {
	bounds := gridmath.NewBoundsFromCorner(gridmath.Vec{}, gridmath.Vec{X: 4, Y: 4})
	img := Render(stubSource{stoneAt: gridmath.Vec{X: 2, Y: 2}}, bounds)

	// World (2,2) with Y flipped lands at image row h-1-2 = 1, column 2;
	// scaled up by Scale, sample the middle of that block.
	px := img.At(2*Scale+Scale/2, 1*Scale+Scale/2)
	r, g, b, a := px.RGBA()
	wantR, wantG, wantB, wantA := particle.ColorFor(particle.Stone).RGBA()
	if r != wantR || g != wantG || b != wantB || a != wantA {
		t.Fatalf("pixel at placed Stone cell = %v, want Stone's color", px)
	}
}

func TestWritePNGProducesDecodableFile(t *testing.T) {
	bounds := gridmath.NewBoundsFromCorner(gridmath.Vec{}, gridmath.Vec{X: 8, Y: 8})
	path := filepath.Join(t.TempDir(), "out.png")

	if err := WritePNG(stubSource{}, bounds, path); err != nil {
		t.Fatalf("WritePNG returned an error: %v", err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("failed to open written PNG: %v", err)
	}
	defer f.Close()

	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("failed to decode written PNG: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 8*Scale || b.Dy() != 8*Scale {
		t.Fatalf("decoded PNG size = %dx%d, want %dx%d", b.Dx(), b.Dy(), 8*Scale, 8*Scale)
	}
}
