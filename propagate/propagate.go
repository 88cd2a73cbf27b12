// Package propagate generalizes one reviewer-confirmed region into further
// detections on the same page. Given a template region, it searches the
// page's glyphs, blocks, and (optionally) pixels for structurally similar
// areas — repeated layout items such as a grid of product cards — and
// returns deduplicated candidate rectangles for the caller to promote into
// new regions.
package propagate

import (
	"fmt"
	"image"
	"sort"
	"strings"
	"unicode"

	"github.com/isuzumi2025-cell/MEKIKI-sub002/model"
	"github.com/isuzumi2025-cell/MEKIKI-sub002/textsim"
)

// Provenance records which search strategy produced a candidate.
type Provenance string

// The four candidate sources.
const (
	ProvenanceAnchor    Provenance = "anchor"
	ProvenanceVisual    Provenance = "visual"
	ProvenanceCluster   Provenance = "cluster"
	ProvenanceSubAnchor Provenance = "sub-anchor"
)

// Candidate is one proposed region rectangle with its provenance.
type Candidate struct {
	Rect       model.Rect
	Provenance Provenance
}

// Page is the search pool for one propagation request: the raw glyphs and
// clustered blocks of the template's own page, plus its source image if
// one is available. Image may be nil; the visual search is skipped then.
type Page struct {
	Glyphs []model.RawGlyph
	Blocks []model.Block
	Image  image.Image
}

// Config holds the propagation tolerances.
type Config struct {
	// ShortTextLen is the text length below which the template's literal
	// text is used as the anchor instead of a derived header pattern
	// (default: 15).
	ShortTextLen int

	// AnchorMargin expands the projected template window around an anchor
	// hit (default: 10).
	AnchorMargin int

	// VisualThresholds is the descending similarity ladder for the visual
	// slide-match; the search stops at the first rung that yields hits
	// (default: 0.85, 0.75, 0.65).
	VisualThresholds []float64

	// VisualStride is the slide step in pixels (default: 8).
	VisualStride int

	// SizeTolerance is the maximum relative width/height difference for a
	// block to count as a cluster match (default: 0.25).
	SizeTolerance float64

	// ColumnWidthTolerance is the tight width tolerance that activates the
	// column rule (default: 0.1).
	ColumnWidthTolerance float64

	// ColumnHeightTolerance is the relaxed height tolerance under the
	// column rule, for variable-length items in a fixed-width column
	// (default: 0.75).
	ColumnHeightTolerance float64

	// SubAnchorCount is how many of the largest blocks inside the template
	// are used as sub-anchors (default: 3).
	SubAnchorCount int

	// NMSOverlap is the maximum intersection-over-own-area a candidate may
	// have with any already-kept candidate (default: 0.8).
	NMSOverlap float64
}

// DefaultConfig returns the standard propagation tolerances.
func DefaultConfig() Config {
	return Config{
		ShortTextLen:          15,
		AnchorMargin:          10,
		VisualThresholds:      []float64{0.85, 0.75, 0.65},
		VisualStride:          8,
		SizeTolerance:         0.25,
		ColumnWidthTolerance:  0.1,
		ColumnHeightTolerance: 0.75,
		SubAnchorCount:        3,
		NMSOverlap:            0.8,
	}
}

// Validate rejects tolerances the searches cannot work with.
func (c Config) Validate() error {
	if c.NMSOverlap < 0 || c.NMSOverlap > 1 {
		return &model.ConfigError{Field: "NMSOverlap", Reason: "must be in [0,1]"}
	}
	for _, th := range c.VisualThresholds {
		if th < 0 || th > 1 {
			return &model.ConfigError{Field: "VisualThresholds", Reason: "thresholds must be in [0,1]"}
		}
	}
	if c.VisualStride <= 0 {
		return &model.ConfigError{Field: "VisualStride", Reason: "must be positive"}
	}
	if c.SizeTolerance < 0 || c.ColumnWidthTolerance < 0 || c.ColumnHeightTolerance < 0 {
		return &model.ConfigError{Field: "SizeTolerance", Reason: "tolerances must be non-negative"}
	}
	return nil
}

// Propagator searches a page for repetitions of a confirmed template.
type Propagator struct {
	config Config
}

// New creates a propagator with default tolerances.
func New() *Propagator {
	return &Propagator{config: DefaultConfig()}
}

// NewWithConfig creates a propagator with custom tolerances.
func NewWithConfig(config Config) *Propagator {
	return &Propagator{config: config}
}

// Propagate runs every applicable search strategy for the template against
// its own page and returns the deduplicated candidates. A page without an
// image simply skips the visual search; a template without inner blocks
// skips the sub-anchor search. Candidates covering the template itself are
// dropped.
func (p *Propagator) Propagate(tmpl model.TemplateRegion, page Page) ([]Candidate, error) {
	if err := p.config.Validate(); err != nil {
		return nil, err
	}
	if !tmpl.Rect.IsWellFormed() || tmpl.Rect.IsEmpty() {
		return nil, &model.InputError{
			Op:     "propagate",
			Reason: fmt.Sprintf("template rect %+v is degenerate", tmpl.Rect),
		}
	}

	var candidates []Candidate
	candidates = append(candidates, p.anchorSearch(tmpl, page)...)
	candidates = append(candidates, p.visualSearch(tmpl, page)...)
	candidates = append(candidates, p.clusterSearch(tmpl, page)...)
	candidates = append(candidates, p.subAnchorSearch(tmpl, page)...)

	// Discard re-detections of the template itself.
	kept := candidates[:0]
	for _, c := range candidates {
		if c.Rect.IoU(tmpl.Rect) <= 0.8 {
			kept = append(kept, c)
		}
	}

	return p.suppress(kept), nil
}

// anchorPattern derives the text anchor for a template: the leading run of
// letters and digits, or the literal text when it is short.
func (p *Propagator) anchorPattern(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}
	runes := []rune(trimmed)
	if len(runes) < p.config.ShortTextLen {
		return textsim.Normalize(trimmed)
	}

	var head []rune
	for _, r := range runes {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			if len(head) > 0 {
				break
			}
			continue
		}
		head = append(head, r)
	}
	return textsim.Normalize(string(head))
}

// anchorSearch finds glyphs matching the template's header pattern and
// projects the template window at each hit, collecting the glyphs whose
// centers fall inside it.
func (p *Propagator) anchorSearch(tmpl model.TemplateRegion, page Page) []Candidate {
	anchor := p.anchorPattern(tmpl.Text)
	if anchor == "" {
		return nil
	}

	var out []Candidate
	for _, g := range page.Glyphs {
		if tmpl.Rect.Contains(g.Rect.Center()) {
			continue
		}
		norm := textsim.Normalize(g.Text)
		if norm == "" || !strings.HasPrefix(norm, anchor) && !strings.HasPrefix(anchor, norm) {
			continue
		}

		window := model.Rect{
			X1: g.Rect.X1,
			Y1: g.Rect.Y1,
			X2: g.Rect.X1 + tmpl.Rect.Width(),
			Y2: g.Rect.Y1 + tmpl.Rect.Height(),
		}.Expand(p.config.AnchorMargin)

		region, n := collectGlyphs(page.Glyphs, window)
		if n == 0 {
			continue
		}
		out = append(out, Candidate{Rect: region, Provenance: ProvenanceAnchor})
	}
	return out
}

// collectGlyphs unions the rects of all glyphs whose centers fall inside
// the window, returning the union and the glyph count.
func collectGlyphs(glyphs []model.RawGlyph, window model.Rect) (model.Rect, int) {
	var region model.Rect
	n := 0
	for _, g := range glyphs {
		if !window.Contains(g.Rect.Center()) {
			continue
		}
		if n == 0 {
			region = g.Rect
		} else {
			region = region.Union(g.Rect)
		}
		n++
	}
	return region, n
}

// clusterSearch compares every block on the page to the template by size.
// The column rule tolerates a much larger height difference when the width
// matches closely, which handles variable-length list items under a
// fixed-width column.
func (p *Propagator) clusterSearch(tmpl model.TemplateRegion, page Page) []Candidate {
	tw, th := tmpl.Rect.Width(), tmpl.Rect.Height()
	if tw <= 0 || th <= 0 {
		return nil
	}

	var out []Candidate
	for _, b := range page.Blocks {
		if b.Rect.IoU(tmpl.Rect) > 0.5 {
			continue
		}
		wDiff := relDiff(b.Rect.Width(), tw)
		hDiff := relDiff(b.Rect.Height(), th)

		match := wDiff <= p.config.SizeTolerance && hDiff <= p.config.SizeTolerance
		columnMatch := wDiff <= p.config.ColumnWidthTolerance && hDiff <= p.config.ColumnHeightTolerance
		if !match && !columnMatch {
			continue
		}
		out = append(out, Candidate{Rect: b.Rect, Provenance: ProvenanceCluster})
	}
	return out
}

// subAnchorSearch takes the largest blocks strictly inside the template (a
// photo, a price, a title), finds similarly sized blocks elsewhere, and
// reconstructs the full candidate by re-applying the sub-anchor's offset
// from the template's top-left corner. This recovers instances whose
// dominant anchor is missing, such as a card without its photo.
func (p *Propagator) subAnchorSearch(tmpl model.TemplateRegion, page Page) []Candidate {
	var inner []model.Block
	for _, b := range page.Blocks {
		if b.Rect.X1 >= tmpl.Rect.X1 && b.Rect.Y1 >= tmpl.Rect.Y1 &&
			b.Rect.X2 <= tmpl.Rect.X2 && b.Rect.Y2 <= tmpl.Rect.Y2 {
			inner = append(inner, b)
		}
	}
	if len(inner) == 0 {
		return nil
	}
	sort.SliceStable(inner, func(i, j int) bool {
		return inner[i].Rect.Area() > inner[j].Rect.Area()
	})
	if len(inner) > p.config.SubAnchorCount {
		inner = inner[:p.config.SubAnchorCount]
	}

	var out []Candidate
	for _, sub := range inner {
		offX := sub.Rect.X1 - tmpl.Rect.X1
		offY := sub.Rect.Y1 - tmpl.Rect.Y1
		for _, b := range page.Blocks {
			if b.Rect == sub.Rect {
				continue
			}
			if relDiff(b.Rect.Width(), sub.Rect.Width()) > p.config.SizeTolerance ||
				relDiff(b.Rect.Height(), sub.Rect.Height()) > p.config.SizeTolerance {
				continue
			}
			rect := model.Rect{
				X1: b.Rect.X1 - offX,
				Y1: b.Rect.Y1 - offY,
				X2: b.Rect.X1 - offX + tmpl.Rect.Width(),
				Y2: b.Rect.Y1 - offY + tmpl.Rect.Height(),
			}
			out = append(out, Candidate{Rect: rect, Provenance: ProvenanceSubAnchor})
		}
	}
	return out
}

// suppress deduplicates candidates with a non-maximum-suppression pass:
// scan in top-y order and keep a candidate only when its overlap with every
// kept candidate, measured against its own area, stays under the limit.
// The limit favors recall: partial overlap survives, near-duplicates do not.
func (p *Propagator) suppress(candidates []Candidate) []Candidate {
	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Rect.Y1 != candidates[j].Rect.Y1 {
			return candidates[i].Rect.Y1 < candidates[j].Rect.Y1
		}
		return candidates[i].Rect.X1 < candidates[j].Rect.X1
	})

	var kept []Candidate
	for _, c := range candidates {
		own := c.Rect.Area()
		if own == 0 {
			continue
		}
		duplicate := false
		for _, k := range kept {
			if float64(c.Rect.IntersectionArea(k.Rect))/float64(own) > p.config.NMSOverlap {
				duplicate = true
				break
			}
		}
		if !duplicate {
			kept = append(kept, c)
		}
	}
	return kept
}

// relDiff returns |a-b| relative to the larger magnitude, or 0 when both
// are zero.
func relDiff(a, b int) float64 {
	larger := a
	if b > larger {
		larger = b
	}
	if larger == 0 {
		return 0
	}
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return float64(diff) / float64(larger)
}
