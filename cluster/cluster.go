package cluster

import (
	"fmt"
	"math"
	"sort"

	"github.com/isuzumi2025-cell/MEKIKI-sub002/model"
)

// Config holds clustering tolerances. All distances are in source-image
// pixels.
type Config struct {
	// AlignmentOverlap is the minimum box overlap ratio for two blocks to
	// count as horizontally aligned (default: 0.6).
	AlignmentOverlap float64

	// LeftEdgeTolerance is the alternative alignment test: blocks whose
	// left edges differ by less than this many pixels are aligned
	// (default: 30).
	LeftEdgeTolerance int

	// VerticalGapFactor scales the larger of the two blocks' font sizes
	// into the maximum vertical gap for a merge (default: 2.5).
	VerticalGapFactor float64

	// VerticalGapFloor is the minimum vertical-gap allowance in pixels,
	// so small fonts still merge across line spacing (default: 50).
	VerticalGapFloor int

	// MaxFontRatio bounds how much larger the absorbing block's font may
	// be than the absorbed block's (default: 2.5).
	MaxFontRatio float64

	// MaxInverseFontRatio bounds the opposite direction (default: 2.0).
	MaxInverseFontRatio float64

	// HorizontalGap is the maximum horizontal gap between blocks that may
	// merge (default: 15).
	HorizontalGap int

	// OrphanAreaRatio marks a block as an orphan when its area is below
	// this fraction of the mean block area (default: 0.10).
	OrphanAreaRatio float64

	// OrphanTextLen marks a block as an orphan when its combined text is
	// shorter than this many runes (default: 3).
	OrphanTextLen int

	// OrphanReclaimDistance is the maximum Manhattan edge distance at
	// which an orphan is absorbed into the nearest non-orphan block
	// (default: 200).
	OrphanReclaimDistance int

	// RowBucket is the height in pixels of the reading rows used for the
	// final output sort (default: 60).
	RowBucket int
}

// DefaultConfig returns the clustering tolerances tuned for 1x-scale page
// screenshots.
func DefaultConfig() Config {
	return Config{
		AlignmentOverlap:      0.6,
		LeftEdgeTolerance:     30,
		VerticalGapFactor:     2.5,
		VerticalGapFloor:      50,
		MaxFontRatio:          2.5,
		MaxInverseFontRatio:   2.0,
		HorizontalGap:         15,
		OrphanAreaRatio:       0.10,
		OrphanTextLen:         3,
		OrphanReclaimDistance: 200,
		RowBucket:             60,
	}
}

// Validate checks the tolerances for values the merge loop cannot work with.
func (c Config) Validate() error {
	if c.AlignmentOverlap < 0 || c.AlignmentOverlap > 1 {
		return &model.ConfigError{Field: "AlignmentOverlap", Reason: "must be in [0,1]"}
	}
	if c.VerticalGapFactor <= 0 {
		return &model.ConfigError{Field: "VerticalGapFactor", Reason: "must be positive"}
	}
	if c.MaxFontRatio <= 0 || c.MaxInverseFontRatio <= 0 {
		return &model.ConfigError{Field: "MaxFontRatio", Reason: "font ratio bounds must be positive"}
	}
	if c.OrphanAreaRatio < 0 || c.OrphanAreaRatio > 1 {
		return &model.ConfigError{Field: "OrphanAreaRatio", Reason: "must be in [0,1]"}
	}
	if c.RowBucket <= 0 {
		return &model.ConfigError{Field: "RowBucket", Reason: "must be positive"}
	}
	return nil
}

// Clusterer groups raw glyphs into paragraph blocks.
type Clusterer struct {
	config Config
}

// New creates a clusterer with default tolerances.
func New() *Clusterer {
	return &Clusterer{config: DefaultConfig()}
}

// NewWithConfig creates a clusterer with custom tolerances.
func NewWithConfig(config Config) *Clusterer {
	return &Clusterer{config: config}
}

// Cluster groups the glyphs of one page side into paragraph blocks.
// An empty glyph list yields an empty block list, not an error; a glyph
// with a malformed rectangle is rejected with an InputError before any
// work is done.
func (c *Clusterer) Cluster(glyphs []model.RawGlyph) ([]model.Block, error) {
	if err := c.config.Validate(); err != nil {
		return nil, err
	}
	for i, g := range glyphs {
		if !g.Rect.IsWellFormed() {
			return nil, &model.InputError{
				Op:     "cluster",
				Reason: fmt.Sprintf("glyph %d has reversed corners %+v", i, g.Rect),
			}
		}
	}
	if len(glyphs) == 0 {
		return nil, nil
	}

	// Seed one block per glyph, top to bottom.
	sorted := make([]model.RawGlyph, len(glyphs))
	copy(sorted, glyphs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Rect.Y1 < sorted[j].Rect.Y1
	})
	blocks := make([]model.Block, 0, len(sorted))
	for _, g := range sorted {
		blocks = append(blocks, model.NewBlock(g))
	}

	blocks = c.mergeToFixedPoint(blocks)
	blocks = c.absorbOrphans(blocks)
	c.sortReadingOrder(blocks)
	return blocks, nil
}

// mergeToFixedPoint repeatedly scans all block pairs and merges until a
// full pass produces no merge.
func (c *Clusterer) mergeToFixedPoint(blocks []model.Block) []model.Block {
	for {
		merged := false
		for i := 0; i < len(blocks); i++ {
			for j := i + 1; j < len(blocks); j++ {
				if !c.canMerge(blocks[i], blocks[j]) {
					continue
				}
				blocks[i] = blocks[i].Absorb(blocks[j])
				blocks = append(blocks[:j], blocks[j+1:]...)
				j--
				merged = true
			}
		}
		if !merged {
			return blocks
		}
	}
}

// canMerge reports whether block b may be absorbed into block a. All four
// conditions must hold: horizontal alignment, bounded vertical gap,
// bounded font-size ratio, and bounded horizontal gap.
func (c *Clusterer) canMerge(a, b model.Block) bool {
	aligned := a.Rect.OverlapRatio(b.Rect) > c.config.AlignmentOverlap ||
		abs(a.Rect.X1-b.Rect.X1) < c.config.LeftEdgeTolerance
	if !aligned {
		return false
	}

	maxFont := math.Max(a.FontSize, b.FontSize)
	gapLimit := math.Max(c.config.VerticalGapFactor*maxFont, float64(c.config.VerticalGapFloor))
	if float64(a.Rect.VerticalGap(b.Rect)) > gapLimit {
		return false
	}

	if a.FontSize > c.config.MaxFontRatio*b.FontSize {
		return false
	}
	if b.FontSize > c.config.MaxInverseFontRatio*a.FontSize {
		return false
	}

	return a.Rect.HorizontalGap(b.Rect) <= c.config.HorizontalGap
}

// absorbOrphans reassigns blocks that are too small or too short to stand
// alone into the nearest sufficiently large block.
func (c *Clusterer) absorbOrphans(blocks []model.Block) []model.Block {
	if len(blocks) < 2 {
		return blocks
	}

	areaSum := 0
	for _, b := range blocks {
		areaSum += b.Rect.Area()
	}
	meanArea := float64(areaSum) / float64(len(blocks))

	isOrphan := func(b model.Block) bool {
		return float64(b.Rect.Area()) < c.config.OrphanAreaRatio*meanArea ||
			b.TextLen() < c.config.OrphanTextLen
	}

	var keepers []model.Block
	var orphans []model.Block
	for _, b := range blocks {
		if isOrphan(b) {
			orphans = append(orphans, b)
		} else {
			keepers = append(keepers, b)
		}
	}
	if len(keepers) == 0 {
		return blocks
	}

	// Orphans only ever merge into a non-orphan block; a standalone orphan
	// must not become an absorption target for later orphans.
	var standalone []model.Block
	for _, o := range orphans {
		best := -1
		bestDist := 0
		for i, k := range keepers {
			d := o.Rect.EdgeDistance(k.Rect)
			if best == -1 || d < bestDist {
				best = i
				bestDist = d
			}
		}
		if bestDist < c.config.OrphanReclaimDistance {
			keepers[best] = keepers[best].Absorb(o)
		} else {
			standalone = append(standalone, o)
		}
	}
	return append(keepers, standalone...)
}

// sortReadingOrder orders the blocks by 60px-tall reading rows, then left
// to right within a row.
func (c *Clusterer) sortReadingOrder(blocks []model.Block) {
	bucket := float64(c.config.RowBucket)
	row := func(b model.Block) int {
		return int(math.Round(float64(b.Rect.Y1)/bucket)) * c.config.RowBucket
	}
	sort.SliceStable(blocks, func(i, j int) bool {
		ri, rj := row(blocks[i]), row(blocks[j])
		if ri != rj {
			return ri < rj
		}
		return blocks[i].Rect.X1 < blocks[j].Rect.X1
	})
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
