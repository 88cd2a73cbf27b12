// Package mekiki compares two renderings of the same document — typically
// a captured web page and a captured PDF or image page — and verifies that
// their text content matches region by region.
//
// Basic usage:
//
//	result, err := mekiki.Compare(
//	    mekiki.PageInput{Side: model.SideLeft, Glyphs: leftGlyphs, Image: leftImage},
//	    mekiki.PageInput{Side: model.SideRight, Glyphs: rightGlyphs, Image: rightImage},
//	).Run(ctx)
//	if err != nil {
//	    // handle error
//	}
//	for _, pair := range result.Pairs {
//	    fmt.Println(pair.LeftID, pair.RightID, pair.Score, pair.Tier)
//	}
//
// With options:
//
//	result, err := mekiki.Compare(left, right).
//	    Weights(fusion.TextWeights()).
//	    Thresholds(0.6, 0.35).
//	    Workers(4).
//	    Run(ctx)
//
// For advanced use cases, the lower-level cluster, fusion, match and
// propagate packages are also available.
package mekiki

import (
	"context"
	"fmt"
	"image"

	"github.com/isuzumi2025-cell/MEKIKI-sub002/cluster"
	"github.com/isuzumi2025-cell/MEKIKI-sub002/fusion"
	"github.com/isuzumi2025-cell/MEKIKI-sub002/match"
	"github.com/isuzumi2025-cell/MEKIKI-sub002/model"
	"github.com/isuzumi2025-cell/MEKIKI-sub002/propagate"
)

// PageInput carries one side's inputs: the raw OCR glyphs of one page and,
// optionally, the decoded source image. A missing image degrades matching
// to the text, layout and syntax signals.
type PageInput struct {
	Side   model.Side
	Page   int
	Glyphs []model.RawGlyph
	Image  image.Image
}

// Result is the complete outcome of a comparison run: the region lists of
// both sides (with their match fields set), the accepted pairs, and the
// region IDs that stayed unmatched on each side. All IDs are stable for
// the run and suitable for export and for round-tripping manual
// corrections into a future run as pinned overrides.
type Result struct {
	Left  []*model.Region
	Right []*model.Region
	Pairs []model.SyncPair

	UnmatchedLeft  []string
	UnmatchedRight []string

	// LeftBlocks and RightBlocks are the intermediate clusters behind the
	// regions; template propagation searches them.
	LeftBlocks  []model.Block
	RightBlocks []model.Block
}

// Comparer provides a fluent interface for configuring and running one
// comparison. Each configuration method returns a new Comparer instance,
// making it safe for concurrent use and allowing method chaining.
type Comparer struct {
	left, right PageInput
	options     CompareOptions
}

// Compare creates a Comparer for two page inputs with default
// configuration.
func Compare(left, right PageInput) *Comparer {
	if left.Side == "" {
		left.Side = model.SideLeft
	}
	if right.Side == "" {
		right.Side = model.SideRight
	}
	return &Comparer{left: left, right: right, options: defaultOptions()}
}

// clone creates a copy of the Comparer with deep-copied options, so each
// chain method returns an independent instance.
func (c *Comparer) clone() *Comparer {
	return &Comparer{left: c.left, right: c.right, options: c.options.clone()}
}

// Clustering overrides the block-clustering tolerances.
func (c *Comparer) Clustering(config cluster.Config) *Comparer {
	nc := c.clone()
	nc.options.clusterConfig = config
	return nc
}

// Weights overrides the fusion weight vector.
func (c *Comparer) Weights(w fusion.Weights) *Comparer {
	nc := c.clone()
	nc.options.weights = w
	return nc
}

// ScoreFloor overrides the minimum fused score a candidate pair must reach
// to stay in the candidate set.
func (c *Comparer) ScoreFloor(floor float64) *Comparer {
	nc := c.clone()
	nc.options.matchConfig.ScoreFloor = floor
	return nc
}

// Thresholds overrides the high and low confidence-tier thresholds.
func (c *Comparer) Thresholds(high, low float64) *Comparer {
	nc := c.clone()
	nc.options.matchConfig.HighThreshold = high
	nc.options.matchConfig.LowThreshold = low
	return nc
}

// Workers sets the number of parallel scoring shards.
func (c *Comparer) Workers(n int) *Comparer {
	nc := c.clone()
	nc.options.matchConfig.Workers = n
	return nc
}

// Pinned supplies reviewer-confirmed pairs that must survive the run
// unchanged; their regions are never re-assigned.
func (c *Comparer) Pinned(pairs ...model.SyncPair) *Comparer {
	nc := c.clone()
	nc.options.matchConfig.Pinned = append(nc.options.matchConfig.Pinned, pairs...)
	return nc
}

// OnProgress injects a progress observer for the matching run.
func (c *Comparer) OnProgress(f match.ProgressFunc) *Comparer {
	nc := c.clone()
	nc.options.matchConfig.OnProgress = f
	return nc
}

// Propagation overrides the template-propagation tolerances used by
// ExpandTemplate.
func (c *Comparer) Propagation(config propagate.Config) *Comparer {
	nc := c.clone()
	nc.options.propagateConfig = config
	return nc
}

// Run clusters both sides into regions, scores every candidate pair, and
// resolves the one-to-one assignment. A side with no detected text yields
// a valid result with an empty pair list, never an error.
func (c *Comparer) Run(ctx context.Context) (*Result, error) {
	clusterer := cluster.NewWithConfig(c.options.clusterConfig)

	leftBlocks, err := clusterer.Cluster(c.left.Glyphs)
	if err != nil {
		return nil, fmt.Errorf("clustering left page: %w", err)
	}
	rightBlocks, err := clusterer.Cluster(c.right.Glyphs)
	if err != nil {
		return nil, fmt.Errorf("clustering right page: %w", err)
	}

	left := regionsFromBlocks(c.left, leftBlocks)
	right := regionsFromBlocks(c.right, rightBlocks)

	scorer, err := fusion.NewComposite(c.options.weights, c.left.Image, c.right.Image)
	if err != nil {
		return nil, err
	}

	matcher := match.NewWithConfig(scorer, c.options.matchConfig)
	matched, err := matcher.Match(ctx, left, right)
	if err != nil {
		return nil, err
	}

	return &Result{
		Left:           left,
		Right:          right,
		Pairs:          matched.Pairs,
		UnmatchedLeft:  matched.UnmatchedLeft,
		UnmatchedRight: matched.UnmatchedRight,
		LeftBlocks:     leftBlocks,
		RightBlocks:    rightBlocks,
	}, nil
}

// ExpandTemplate generalizes a reviewer-confirmed region into further
// candidate regions on the same side's page. The returned regions carry
// IDs namespaced by the template's ID, so expansions of different
// templates can be merged into one region list for a re-run without
// colliding.
func (c *Comparer) ExpandTemplate(tmpl model.TemplateRegion, result *Result) ([]*model.Region, error) {
	input, blocks := c.left, result.LeftBlocks
	if tmpl.Side == model.SideRight {
		input, blocks = c.right, result.RightBlocks
	}

	prop := propagate.NewWithConfig(c.options.propagateConfig)
	candidates, err := prop.Propagate(tmpl, propagate.Page{
		Glyphs: input.Glyphs,
		Blocks: blocks,
		Image:  input.Image,
	})
	if err != nil {
		return nil, err
	}

	base := tmpl.ID
	if base == "" {
		base = sidePrefix(tmpl.Side)
	}
	regions := make([]*model.Region, 0, len(candidates))
	for i, cand := range candidates {
		text := textInRect(input.Glyphs, cand.Rect)
		regions = append(regions, &model.Region{
			ID:   fmt.Sprintf("%s-P%03d", base, i+1),
			Side: tmpl.Side,
			Page: input.Page,
			Text: text,
			Rect: cand.Rect,
		})
	}
	return regions, nil
}

// regionsFromBlocks promotes clustered blocks into regions with stable,
// side-prefixed sequential IDs.
func regionsFromBlocks(input PageInput, blocks []model.Block) []*model.Region {
	regions := make([]*model.Region, 0, len(blocks))
	for i, b := range blocks {
		regions = append(regions, &model.Region{
			ID:   fmt.Sprintf("%s-%03d", sidePrefix(input.Side), i+1),
			Side: input.Side,
			Page: input.Page,
			Text: b.Text(),
			Rect: b.Rect,
		})
	}
	return regions
}

// textInRect collects the text of all glyphs whose centers fall inside the
// rect, in the glyphs' given order.
func textInRect(glyphs []model.RawGlyph, rect model.Rect) string {
	b := model.Block{}
	for _, g := range glyphs {
		if rect.Contains(g.Rect.Center()) {
			b.Glyphs = append(b.Glyphs, g)
		}
	}
	return b.Text()
}

func sidePrefix(side model.Side) string {
	if side == model.SideRight {
		return "R"
	}
	return "L"
}
