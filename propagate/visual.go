package propagate

import (
	"github.com/isuzumi2025-cell/MEKIKI-sub002/imagesim"
	"github.com/isuzumi2025-cell/MEKIKI-sub002/model"
)

// visualSearch slide-matches the template's pixels against the page image,
// walking the similarity ladder from strict to relaxed and stopping at the
// first rung that yields hits. Pages without an image are skipped.
func (p *Propagator) visualSearch(tmpl model.TemplateRegion, page Page) []Candidate {
	if page.Image == nil {
		return nil
	}
	patch := imagesim.CropGray(page.Image, tmpl.Rect)
	if patch == nil {
		return nil
	}

	bounds := page.Image.Bounds()
	tw, th := patch.Bounds().Dx(), patch.Bounds().Dy()
	maxX := bounds.Max.X - tw
	maxY := bounds.Max.Y - th
	if maxX < bounds.Min.X || maxY < bounds.Min.Y {
		return nil
	}

	for _, threshold := range p.config.VisualThresholds {
		var hits []Candidate
		for y := bounds.Min.Y; y <= maxY; y += p.config.VisualStride {
			for x := bounds.Min.X; x <= maxX; x += p.config.VisualStride {
				rect := model.Rect{X1: x, Y1: y, X2: x + tw, Y2: y + th}
				if rect.IoU(tmpl.Rect) > 0.5 {
					continue
				}
				window := imagesim.CropGray(page.Image, rect)
				if window == nil {
					continue
				}
				if imagesim.SSIMGray(patch, window) >= threshold {
					hits = append(hits, Candidate{Rect: rect, Provenance: ProvenanceVisual})
				}
			}
		}
		if len(hits) > 0 {
			return hits
		}
	}
	return nil
}
