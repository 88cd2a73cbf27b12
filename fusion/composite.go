package fusion

import (
	"image"

	"github.com/isuzumi2025-cell/MEKIKI-sub002/imagesim"
	"github.com/isuzumi2025-cell/MEKIKI-sub002/model"
	"github.com/isuzumi2025-cell/MEKIKI-sub002/signature"
	"github.com/isuzumi2025-cell/MEKIKI-sub002/textsim"
)

// Composite computes the four similarity signals for a candidate pair and
// fuses them. The side images are optional; when either is missing the
// image signal is marked unavailable, never scored as zero.
type Composite struct {
	scorer   *Scorer
	leftImg  image.Image
	rightImg image.Image
}

// NewComposite creates a composite pair scorer. Either or both images may
// be nil.
func NewComposite(weights Weights, leftImg, rightImg image.Image) (*Composite, error) {
	scorer, err := NewScorer(weights)
	if err != nil {
		return nil, err
	}
	return &Composite{scorer: scorer, leftImg: leftImg, rightImg: rightImg}, nil
}

// Score evaluates one left/right candidate pair, returning the fused score
// and the per-signal breakdown behind it.
func (c *Composite) Score(left, right model.RectText) (float64, model.Breakdown) {
	var b model.Breakdown

	lt, rt := left.Content(), right.Content()
	if lt != "" && rt != "" {
		b.Text = model.Signal{Score: textsim.Similarity(lt, rt), Available: true}
	}

	lr, rr := left.Bounds(), right.Bounds()
	if !lr.IsEmpty() && !rr.IsEmpty() {
		b.Layout = model.Signal{
			Score:     signature.LayoutSimilarity(signature.LayoutOf(lr), signature.LayoutOf(rr)),
			Available: true,
		}
	}

	ls, rs := signature.SyntaxOf(lt), signature.SyntaxOf(rt)
	if len(ls.Tags) > 0 || len(rs.Tags) > 0 {
		b.Syntax = model.Signal{Score: signature.SyntaxSimilarity(ls, rs), Available: true}
	}

	if c.leftImg != nil && c.rightImg != nil {
		b.Image = model.Signal{
			Score:     imagesim.Compare(c.leftImg, lr, c.rightImg, rr),
			Available: true,
		}
	}

	return c.scorer.Fuse(b), b
}
