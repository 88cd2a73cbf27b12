package propagate

import (
	"image"
	"image/color"
	"testing"

	"github.com/isuzumi2025-cell/MEKIKI-sub002/model"
)

// makePatternPage draws a flat page with identical textured patches at the
// given top-left positions.
func makePatternPage(w, h, patchSize int, positions ...image.Point) *image.Gray {
	img := image.NewGray(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetGray(x, y, color.Gray{Y: 30})
		}
	}
	for _, pos := range positions {
		for ly := 0; ly < patchSize; ly++ {
			for lx := 0; lx < patchSize; lx++ {
				v := uint8(50 + (lx*31+ly*17)%180)
				img.SetGray(pos.X+lx, pos.Y+ly, color.Gray{Y: v})
			}
		}
	}
	return img
}

func TestVisualSearch_FindsRepeatedPatch(t *testing.T) {
	p := New()

	// Two identical 40px patches; the template covers the first one.
	page := Page{
		Image: makePatternPage(200, 100, 40, image.Pt(16, 16), image.Pt(120, 16)),
	}
	tmpl := makeTemplate("", 16, 16, 56, 56)

	candidates := p.visualSearch(tmpl, page)
	if len(candidates) == 0 {
		t.Fatal("Expected the repeated patch to be found")
	}

	want := model.Rect{X1: 120, Y1: 16, X2: 160, Y2: 56}
	found := false
	for _, c := range candidates {
		if c.Provenance != ProvenanceVisual {
			t.Errorf("Expected visual provenance, got %q", c.Provenance)
		}
		if c.Rect == want {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a hit at %+v, got %+v", want, candidates)
	}
}

func TestVisualSearch_NoImage(t *testing.T) {
	p := New()
	tmpl := makeTemplate("", 0, 0, 40, 40)

	if got := p.visualSearch(tmpl, Page{}); got != nil {
		t.Errorf("Expected no candidates without an image, got %+v", got)
	}
}

func TestVisualSearch_TemplateLargerThanPage(t *testing.T) {
	p := New()
	page := Page{Image: makePatternPage(50, 50, 10, image.Pt(5, 5))}
	tmpl := makeTemplate("", 0, 0, 45, 45)

	// Only the template's own position fits; it is excluded, so no hits
	// and no panic.
	candidates := p.visualSearch(tmpl, page)
	for _, c := range candidates {
		if c.Rect.IoU(tmpl.Rect) > 0.5 {
			t.Errorf("Template's own position leaked into candidates: %+v", c)
		}
	}
}
