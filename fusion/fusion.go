// Package fusion combines the text, layout, syntax and image similarity
// signals into one weighted score per candidate region pair. Signals are
// optional: an unavailable signal simply drops out of the weighted sum,
// so matching degrades gracefully when, for example, no source image was
// supplied.
package fusion

import (
	"github.com/isuzumi2025-cell/MEKIKI-sub002/model"
)

// Weights is the fusion weight vector for the four canonical signals.
type Weights struct {
	Text   float64
	Layout float64
	Syntax float64
	Image  float64
}

// TextWeights returns the profile tuned for plain text-similarity
// comparison, where spatial agreement carries more weight than structural
// tags.
func TextWeights() Weights {
	return Weights{Text: 0.40, Layout: 0.30, Syntax: 0.10, Image: 0.20}
}

// DocumentWeights returns the profile tuned for full document alignment,
// where structural tags matter more.
func DocumentWeights() Weights {
	return Weights{Text: 0.40, Layout: 0.25, Syntax: 0.15, Image: 0.20}
}

// Sum returns the total of the four weights.
func (w Weights) Sum() float64 {
	return w.Text + w.Layout + w.Syntax + w.Image
}

// Validate rejects out-of-range or all-zero weight vectors.
func (w Weights) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"Text", w.Text}, {"Layout", w.Layout}, {"Syntax", w.Syntax}, {"Image", w.Image},
	} {
		if f.value < 0 || f.value > 1 {
			return &model.ConfigError{Field: "Weights." + f.name, Reason: "must be in [0,1]"}
		}
	}
	if w.Sum() == 0 {
		return &model.ConfigError{Field: "Weights", Reason: "weight vector sums to zero"}
	}
	return nil
}

// Scorer fuses per-signal scores under a fixed weight vector.
type Scorer struct {
	weights Weights
}

// NewScorer creates a fusion scorer, validating the weight vector.
func NewScorer(weights Weights) (*Scorer, error) {
	if err := weights.Validate(); err != nil {
		return nil, err
	}
	return &Scorer{weights: weights}, nil
}

// Weights returns the scorer's weight vector.
func (s *Scorer) Weights() Weights { return s.weights }

// Fuse combines the available signals of a breakdown into one score in
// [0,1]: the plain weighted sum over the available signals. A missing
// signal contributes nothing, so a pair missing a signal can never
// outscore a fully scored pair with the same per-signal quality.
func (s *Scorer) Fuse(b model.Breakdown) float64 {
	type part struct {
		sig    model.Signal
		weight float64
	}
	parts := []part{
		{b.Text, s.weights.Text},
		{b.Layout, s.weights.Layout},
		{b.Syntax, s.weights.Syntax},
		{b.Image, s.weights.Image},
	}

	weighted, available := 0.0, 0.0
	for _, p := range parts {
		if !p.sig.Available {
			continue
		}
		weighted += p.sig.Score * p.weight
		available += p.weight
	}
	if available == 0 {
		return 0
	}

	fused := weighted
	if fused > 1 {
		return 1
	}
	if fused < 0 {
		return 0
	}
	return fused
}
