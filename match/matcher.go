package match

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/isuzumi2025-cell/MEKIKI-sub002/model"
)

// Phase identifies a stage of a matching run.
type Phase string

// The phases of a matching run, in order.
const (
	PhaseIdle            Phase = "idle"
	PhaseScoringPairs    Phase = "scoring_pairs"
	PhaseSorting         Phase = "sorting"
	PhaseGreedyAssigning Phase = "greedy_assigning"
	PhaseDone            Phase = "done"
)

// ProgressEvent reports matching progress to an injected observer.
type ProgressEvent struct {
	Phase Phase

	// Done and Total count candidate pairs during PhaseScoringPairs and
	// accepted pairs at PhaseDone; both are 0 for other phases.
	Done  int
	Total int
}

// ProgressFunc receives progress events. Implementations must be fast and
// must not retain the event past the call.
type ProgressFunc func(ProgressEvent)

// Scorer scores one left/right candidate pair. fusion.Composite is the
// standard implementation.
type Scorer interface {
	Score(left, right model.RectText) (float64, model.Breakdown)
}

// Config holds the matching thresholds and run options.
type Config struct {
	// ScoreFloor discards candidate pairs fusing below it (default: 0.1).
	ScoreFloor float64

	// HighThreshold is the minimum score for the "high" confidence tier
	// (default: 0.5).
	HighThreshold float64

	// LowThreshold is the minimum score for the "medium" confidence tier;
	// accepted pairs below it are "low" (default: 0.3).
	LowThreshold float64

	// Workers is the number of scoring shards; values below 2 score
	// single-threaded (default: 1).
	Workers int

	// BatchSize is the number of pairs scored between cancellation checks
	// (default: 256).
	BatchSize int

	// Pinned carries reviewer-overridden pairs that are placed into the
	// result as-is; their regions are never re-assigned.
	Pinned []model.SyncPair

	// OnProgress observes run progress; nil means no reporting.
	OnProgress ProgressFunc
}

// DefaultConfig returns the standard matching thresholds.
func DefaultConfig() Config {
	return Config{
		ScoreFloor:    0.1,
		HighThreshold: 0.5,
		LowThreshold:  0.3,
		Workers:       1,
		BatchSize:     256,
	}
}

// Validate rejects thresholds outside [0,1] or in the wrong order.
func (c Config) Validate() error {
	for _, f := range []struct {
		name  string
		value float64
	}{
		{"ScoreFloor", c.ScoreFloor},
		{"HighThreshold", c.HighThreshold},
		{"LowThreshold", c.LowThreshold},
	} {
		if f.value < 0 || f.value > 1 {
			return &model.ConfigError{Field: f.name, Reason: "must be in [0,1]"}
		}
	}
	if c.LowThreshold > c.HighThreshold {
		return &model.ConfigError{Field: "LowThreshold", Reason: "must not exceed HighThreshold"}
	}
	return nil
}

// Result is the complete outcome of one matching run. It is assembled
// fully before being returned; callers never observe a partial run.
type Result struct {
	// Pairs are the accepted correspondences, pinned pairs first, then
	// greedy acceptances in score order.
	Pairs []model.SyncPair

	// UnmatchedLeft and UnmatchedRight list the region IDs left without a
	// correspondence on each side.
	UnmatchedLeft  []string
	UnmatchedRight []string
}

// Matcher resolves region correspondences using an injected pair scorer.
type Matcher struct {
	scorer Scorer
	config Config
}

// New creates a matcher with default thresholds.
func New(scorer Scorer) *Matcher {
	return NewWithConfig(scorer, DefaultConfig())
}

// NewWithConfig creates a matcher with custom thresholds.
func NewWithConfig(scorer Scorer, config Config) *Matcher {
	return &Matcher{scorer: scorer, config: config}
}

// candidate is one scored left/right pair.
type candidate struct {
	leftIdx  int
	rightIdx int
	score    float64
	brk      model.Breakdown
}

// Match scores every left/right pair, resolves a one-to-one assignment,
// and mutates each matched region's Match field. An empty side yields an
// empty pair list, not an error. The context is checked between scoring
// batches so a stale run can be aborted.
func (m *Matcher) Match(ctx context.Context, left, right []*model.Region) (*Result, error) {
	if err := m.config.Validate(); err != nil {
		return nil, err
	}
	if err := validateRegions(left, right); err != nil {
		return nil, err
	}

	m.report(ProgressEvent{Phase: PhaseIdle})

	// Reset match fields so each run mutates them exactly once.
	for _, r := range left {
		r.Match = nil
	}
	for _, r := range right {
		r.Match = nil
	}

	leftByID := indexByID(left)
	rightByID := indexByID(right)

	usedLeft := make(map[int]bool)
	usedRight := make(map[int]bool)
	result := &Result{}

	// Pinned overrides enter the result first and lock their regions.
	for _, p := range m.config.Pinned {
		li, ok := leftByID[p.LeftID]
		if !ok {
			return nil, &model.InputError{Op: "match", Reason: fmt.Sprintf("pinned pair references unknown left region %q", p.LeftID)}
		}
		ri, ok := rightByID[p.RightID]
		if !ok {
			return nil, &model.InputError{Op: "match", Reason: fmt.Sprintf("pinned pair references unknown right region %q", p.RightID)}
		}
		if usedLeft[li] || usedRight[ri] {
			return nil, &model.InputError{Op: "match", Reason: fmt.Sprintf("pinned pairs reuse region %q/%q", p.LeftID, p.RightID)}
		}
		usedLeft[li] = true
		usedRight[ri] = true

		p.Pinned = true
		if p.Tier == "" {
			p.Tier = m.tierFor(p.Score)
		}
		result.Pairs = append(result.Pairs, p)
		m.assign(left[li], right[ri], p)
	}

	// ScoringPairs.
	m.report(ProgressEvent{Phase: PhaseScoringPairs, Total: len(left) * len(right)})
	candidates, err := m.scorePairs(ctx, left, right, usedLeft, usedRight)
	if err != nil {
		return nil, err
	}

	// Sorting: score descending, ties by (left id, right id) so equal
	// scores resolve identically on every run.
	m.report(ProgressEvent{Phase: PhaseSorting})
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.score != b.score {
			return a.score > b.score
		}
		if left[a.leftIdx].ID != left[b.leftIdx].ID {
			return left[a.leftIdx].ID < left[b.leftIdx].ID
		}
		return right[a.rightIdx].ID < right[b.rightIdx].ID
	})

	// GreedyAssigning.
	m.report(ProgressEvent{Phase: PhaseGreedyAssigning})
	for _, c := range candidates {
		if usedLeft[c.leftIdx] || usedRight[c.rightIdx] {
			continue
		}
		usedLeft[c.leftIdx] = true
		usedRight[c.rightIdx] = true

		pair := model.SyncPair{
			LeftID:    left[c.leftIdx].ID,
			RightID:   right[c.rightIdx].ID,
			Score:     c.score,
			Breakdown: c.brk,
			Tier:      m.tierFor(c.score),
		}
		result.Pairs = append(result.Pairs, pair)
		m.assign(left[c.leftIdx], right[c.rightIdx], pair)
	}

	for i, r := range left {
		if !usedLeft[i] {
			result.UnmatchedLeft = append(result.UnmatchedLeft, r.ID)
		}
	}
	for i, r := range right {
		if !usedRight[i] {
			result.UnmatchedRight = append(result.UnmatchedRight, r.ID)
		}
	}

	m.report(ProgressEvent{Phase: PhaseDone, Done: len(result.Pairs), Total: len(result.Pairs)})
	return result, nil
}

// scorePairs evaluates every unpinned left/right pair, sharding the left
// side across workers. The context is checked between batches so a caller
// can abort a stale run; no partial result escapes on cancellation.
func (m *Matcher) scorePairs(ctx context.Context, left, right []*model.Region, usedLeft, usedRight map[int]bool) ([]candidate, error) {
	batch := m.config.BatchSize
	if batch <= 0 {
		batch = 256
	}

	score := func(ctx context.Context, leftIdx []int) ([]candidate, error) {
		var out []candidate
		n := 0
		for _, li := range leftIdx {
			if usedLeft[li] {
				continue
			}
			for ri := range right {
				if usedRight[ri] {
					continue
				}
				if n%batch == 0 {
					if err := ctx.Err(); err != nil {
						return nil, fmt.Errorf("scoring pairs: %w", err)
					}
				}
				n++
				s, brk := m.scorer.Score(left[li], right[ri])
				if s < m.config.ScoreFloor {
					continue
				}
				out = append(out, candidate{leftIdx: li, rightIdx: ri, score: s, brk: brk})
			}
		}
		return out, nil
	}

	workers := m.config.Workers
	if workers < 2 || len(left) < 2 {
		all := make([]int, len(left))
		for i := range left {
			all[i] = i
		}
		return score(ctx, all)
	}
	if workers > len(left) {
		workers = len(left)
	}

	shards := make([][]candidate, workers)
	errs := make([]error, workers)
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			var idx []int
			for li := w; li < len(left); li += workers {
				idx = append(idx, li)
			}
			shards[w], errs[w] = score(ctx, idx)
		}(w)
	}
	wg.Wait()

	var merged []candidate
	for w := 0; w < workers; w++ {
		if errs[w] != nil {
			return nil, errs[w]
		}
		merged = append(merged, shards[w]...)
	}
	return merged, nil
}

// assign records the correspondence on both regions.
func (m *Matcher) assign(l, r *model.Region, pair model.SyncPair) {
	l.Match = &model.MatchInfo{RegionID: r.ID, Score: pair.Score, Tier: pair.Tier}
	r.Match = &model.MatchInfo{RegionID: l.ID, Score: pair.Score, Tier: pair.Tier}
}

// tierFor maps a fused score to its confidence tier.
func (m *Matcher) tierFor(score float64) model.Tier {
	switch {
	case score >= m.config.HighThreshold:
		return model.TierHigh
	case score >= m.config.LowThreshold:
		return model.TierMedium
	default:
		return model.TierLow
	}
}

func (m *Matcher) report(e ProgressEvent) {
	if m.config.OnProgress != nil {
		m.config.OnProgress(e)
	}
}

// validateRegions fails fast on nil regions, malformed rectangles, and
// duplicate IDs across both sides.
func validateRegions(left, right []*model.Region) error {
	seen := make(map[string]bool, len(left)+len(right))
	check := func(side model.Side, regions []*model.Region) error {
		for i, r := range regions {
			if r == nil {
				return &model.InputError{Op: "match", Reason: fmt.Sprintf("%s region %d is nil", side, i)}
			}
			if !r.Rect.IsWellFormed() {
				return &model.InputError{Op: "match", Reason: fmt.Sprintf("%s region %q has reversed corners %+v", side, r.ID, r.Rect)}
			}
			if seen[r.ID] {
				return &model.InputError{Op: "match", Reason: fmt.Sprintf("duplicate region id %q", r.ID)}
			}
			seen[r.ID] = true
		}
		return nil
	}
	if err := check(model.SideLeft, left); err != nil {
		return err
	}
	return check(model.SideRight, right)
}

func indexByID(regions []*model.Region) map[string]int {
	idx := make(map[string]int, len(regions))
	for i, r := range regions {
		idx[r.ID] = i
	}
	return idx
}
