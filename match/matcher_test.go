package match

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/isuzumi2025-cell/MEKIKI-sub002/model"
)

// stubScorer scores pairs from a fixed table keyed by "leftText|rightText",
// defaulting to 0.
type stubScorer struct {
	scores map[string]float64
}

func (s *stubScorer) Score(left, right model.RectText) (float64, model.Breakdown) {
	score := s.scores[left.Content()+"|"+right.Content()]
	return score, model.Breakdown{Text: model.Signal{Score: score, Available: true}}
}

// makeRegion creates a test region with a valid 100x20 rect.
func makeRegion(id string, side model.Side, text string) *model.Region {
	return &model.Region{
		ID:   id,
		Side: side,
		Text: text,
		Rect: model.Rect{X1: 0, Y1: 0, X2: 100, Y2: 20},
	}
}

func TestMatcher_EmptyInputs(t *testing.T) {
	m := New(&stubScorer{})

	res, err := m.Match(context.Background(), nil, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Pairs) != 0 {
		t.Errorf("Expected 0 pairs, got %d", len(res.Pairs))
	}

	left := []*model.Region{makeRegion("L1", model.SideLeft, "a")}
	res, err = m.Match(context.Background(), left, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Pairs) != 0 {
		t.Errorf("Expected 0 pairs for empty right side, got %d", len(res.Pairs))
	}
	if !reflect.DeepEqual(res.UnmatchedLeft, []string{"L1"}) {
		t.Errorf("Expected L1 unmatched, got %v", res.UnmatchedLeft)
	}
}

func TestMatcher_GreedyAssignment(t *testing.T) {
	scorer := &stubScorer{scores: map[string]float64{
		"a|x": 0.9, "a|y": 0.6,
		"b|x": 0.7, "b|y": 0.5,
	}}
	m := New(scorer)

	left := []*model.Region{
		makeRegion("L1", model.SideLeft, "a"),
		makeRegion("L2", model.SideLeft, "b"),
	}
	right := []*model.Region{
		makeRegion("R1", model.SideRight, "x"),
		makeRegion("R2", model.SideRight, "y"),
	}

	res, err := m.Match(context.Background(), left, right)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Pairs) != 2 {
		t.Fatalf("Expected 2 pairs, got %d", len(res.Pairs))
	}

	// Greedy takes a|x (0.9) first, blocking b|x, so b pairs with y.
	if res.Pairs[0].LeftID != "L1" || res.Pairs[0].RightID != "R1" {
		t.Errorf("Expected L1-R1 first, got %s-%s", res.Pairs[0].LeftID, res.Pairs[0].RightID)
	}
	if res.Pairs[1].LeftID != "L2" || res.Pairs[1].RightID != "R2" {
		t.Errorf("Expected L2-R2 second, got %s-%s", res.Pairs[1].LeftID, res.Pairs[1].RightID)
	}

	// Match fields were mutated on the regions.
	if left[0].Match == nil || left[0].Match.RegionID != "R1" {
		t.Errorf("Expected L1 matched to R1, got %+v", left[0].Match)
	}
	if right[1].Match == nil || right[1].Match.RegionID != "L2" {
		t.Errorf("Expected R2 matched to L2, got %+v", right[1].Match)
	}
}

func TestMatcher_Uniqueness(t *testing.T) {
	scorer := &stubScorer{scores: map[string]float64{
		"a|x": 0.9, "b|x": 0.8, "c|x": 0.7,
	}}
	m := New(scorer)

	left := []*model.Region{
		makeRegion("L1", model.SideLeft, "a"),
		makeRegion("L2", model.SideLeft, "b"),
		makeRegion("L3", model.SideLeft, "c"),
	}
	right := []*model.Region{makeRegion("R1", model.SideRight, "x")}

	res, err := m.Match(context.Background(), left, right)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Pairs) != 1 {
		t.Fatalf("Expected 1 pair, got %d", len(res.Pairs))
	}

	seenLeft := map[string]bool{}
	seenRight := map[string]bool{}
	for _, p := range res.Pairs {
		if seenLeft[p.LeftID] || seenRight[p.RightID] {
			t.Errorf("Region reused in pair %s-%s", p.LeftID, p.RightID)
		}
		seenLeft[p.LeftID] = true
		seenRight[p.RightID] = true
	}
	if len(res.UnmatchedLeft) != 2 {
		t.Errorf("Expected 2 unmatched left regions, got %v", res.UnmatchedLeft)
	}
}

func TestMatcher_DeterministicTieBreak(t *testing.T) {
	// Two candidate pairs with exactly equal scores: ids decide.
	scorer := &stubScorer{scores: map[string]float64{
		"a|x": 0.5, "a|y": 0.5,
		"b|x": 0.5, "b|y": 0.5,
	}}
	m := New(scorer)

	run := func() *Result {
		left := []*model.Region{
			makeRegion("L1", model.SideLeft, "a"),
			makeRegion("L2", model.SideLeft, "b"),
		}
		right := []*model.Region{
			makeRegion("R1", model.SideRight, "x"),
			makeRegion("R2", model.SideRight, "y"),
		}
		res, err := m.Match(context.Background(), left, right)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		return res
	}

	first := run()
	for i := 0; i < 5; i++ {
		again := run()
		if !reflect.DeepEqual(first.Pairs, again.Pairs) {
			t.Fatalf("Non-deterministic pair ordering: %+v vs %+v", first.Pairs, again.Pairs)
		}
	}
	if first.Pairs[0].LeftID != "L1" || first.Pairs[0].RightID != "R1" {
		t.Errorf("Expected tie broken toward L1-R1, got %s-%s",
			first.Pairs[0].LeftID, first.Pairs[0].RightID)
	}
}

func TestMatcher_ParallelScoringMatchesSerial(t *testing.T) {
	scorer := &stubScorer{scores: map[string]float64{}}
	left := make([]*model.Region, 0, 12)
	right := make([]*model.Region, 0, 12)
	for i := 0; i < 12; i++ {
		l := makeRegion(regionID("L", i), model.SideLeft, regionID("l", i))
		r := makeRegion(regionID("R", i), model.SideRight, regionID("r", i))
		left = append(left, l)
		right = append(right, r)
		scorer.scores[l.Text+"|"+r.Text] = 0.2 + float64(i)*0.05
	}

	serial, err := New(scorer).Match(context.Background(), left, right)
	if err != nil {
		t.Fatalf("Serial run failed: %v", err)
	}

	cfg := DefaultConfig()
	cfg.Workers = 4
	parallel, err := NewWithConfig(scorer, cfg).Match(context.Background(), left, right)
	if err != nil {
		t.Fatalf("Parallel run failed: %v", err)
	}

	if !reflect.DeepEqual(serial.Pairs, parallel.Pairs) {
		t.Errorf("Parallel scoring changed the result:\nserial   %+v\nparallel %+v",
			serial.Pairs, parallel.Pairs)
	}
}

func TestMatcher_ScoreFloor(t *testing.T) {
	scorer := &stubScorer{scores: map[string]float64{"a|x": 0.05}}
	m := New(scorer)

	left := []*model.Region{makeRegion("L1", model.SideLeft, "a")}
	right := []*model.Region{makeRegion("R1", model.SideRight, "x")}

	res, err := m.Match(context.Background(), left, right)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Pairs) != 0 {
		t.Errorf("Expected no pairs below the score floor, got %d", len(res.Pairs))
	}
	if left[0].Match != nil {
		t.Error("Expected unmatched region to keep a nil Match field")
	}
}

func TestMatcher_ConfidenceTiers(t *testing.T) {
	scorer := &stubScorer{scores: map[string]float64{
		"a|x": 0.8, "b|y": 0.35, "c|z": 0.15,
	}}
	m := New(scorer)

	left := []*model.Region{
		makeRegion("L1", model.SideLeft, "a"),
		makeRegion("L2", model.SideLeft, "b"),
		makeRegion("L3", model.SideLeft, "c"),
	}
	right := []*model.Region{
		makeRegion("R1", model.SideRight, "x"),
		makeRegion("R2", model.SideRight, "y"),
		makeRegion("R3", model.SideRight, "z"),
	}

	res, err := m.Match(context.Background(), left, right)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	tiers := map[string]model.Tier{}
	for _, p := range res.Pairs {
		tiers[p.LeftID] = p.Tier
	}
	if tiers["L1"] != model.TierHigh {
		t.Errorf("Expected L1 high, got %q", tiers["L1"])
	}
	if tiers["L2"] != model.TierMedium {
		t.Errorf("Expected L2 medium, got %q", tiers["L2"])
	}
	if tiers["L3"] != model.TierLow {
		t.Errorf("Expected L3 low, got %q", tiers["L3"])
	}
}

func TestMatcher_PinnedPairs(t *testing.T) {
	// Scores favor a|x, but the reviewer pinned L1 to R2.
	scorer := &stubScorer{scores: map[string]float64{
		"a|x": 0.9, "b|x": 0.4,
	}}
	cfg := DefaultConfig()
	cfg.Pinned = []model.SyncPair{{LeftID: "L1", RightID: "R2", Score: 1.0}}
	m := NewWithConfig(scorer, cfg)

	left := []*model.Region{
		makeRegion("L1", model.SideLeft, "a"),
		makeRegion("L2", model.SideLeft, "b"),
	}
	right := []*model.Region{
		makeRegion("R1", model.SideRight, "x"),
		makeRegion("R2", model.SideRight, "y"),
	}

	res, err := m.Match(context.Background(), left, right)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(res.Pairs) != 2 {
		t.Fatalf("Expected 2 pairs, got %d", len(res.Pairs))
	}
	if !res.Pairs[0].Pinned || res.Pairs[0].LeftID != "L1" || res.Pairs[0].RightID != "R2" {
		t.Errorf("Expected pinned L1-R2 first, got %+v", res.Pairs[0])
	}
	// L1 and R2 are locked, so greedy can only take b|x.
	if res.Pairs[1].LeftID != "L2" || res.Pairs[1].RightID != "R1" {
		t.Errorf("Expected L2-R1 from greedy, got %s-%s",
			res.Pairs[1].LeftID, res.Pairs[1].RightID)
	}
}

func TestMatcher_PinnedUnknownRegion(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Pinned = []model.SyncPair{{LeftID: "nope", RightID: "R1", Score: 1.0}}
	m := NewWithConfig(&stubScorer{}, cfg)

	left := []*model.Region{makeRegion("L1", model.SideLeft, "a")}
	right := []*model.Region{makeRegion("R1", model.SideRight, "x")}

	_, err := m.Match(context.Background(), left, right)
	var ie *model.InputError
	if !errors.As(err, &ie) {
		t.Fatalf("Expected InputError, got %v", err)
	}
}

func TestMatcher_Cancellation(t *testing.T) {
	scorer := &stubScorer{scores: map[string]float64{}}
	cfg := DefaultConfig()
	cfg.BatchSize = 1
	m := NewWithConfig(scorer, cfg)

	left := []*model.Region{makeRegion("L1", model.SideLeft, "a")}
	right := []*model.Region{makeRegion("R1", model.SideRight, "x")}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.Match(ctx, left, right)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Expected context.Canceled, got %v", err)
	}
}

func TestMatcher_DuplicateIDs(t *testing.T) {
	m := New(&stubScorer{})

	left := []*model.Region{
		makeRegion("dup", model.SideLeft, "a"),
		makeRegion("dup", model.SideLeft, "b"),
	}

	_, err := m.Match(context.Background(), left, nil)
	var ie *model.InputError
	if !errors.As(err, &ie) {
		t.Fatalf("Expected InputError for duplicate ids, got %v", err)
	}
}

func TestMatcher_InvalidThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.HighThreshold = 1.5
	m := NewWithConfig(&stubScorer{}, cfg)

	_, err := m.Match(context.Background(), nil, nil)
	var ce *model.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("Expected ConfigError, got %v", err)
	}
}

func TestMatcher_ProgressPhases(t *testing.T) {
	var phases []Phase
	cfg := DefaultConfig()
	cfg.OnProgress = func(e ProgressEvent) { phases = append(phases, e.Phase) }
	scorer := &stubScorer{scores: map[string]float64{"a|x": 0.9}}
	m := NewWithConfig(scorer, cfg)

	left := []*model.Region{makeRegion("L1", model.SideLeft, "a")}
	right := []*model.Region{makeRegion("R1", model.SideRight, "x")}

	if _, err := m.Match(context.Background(), left, right); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := []Phase{PhaseIdle, PhaseScoringPairs, PhaseSorting, PhaseGreedyAssigning, PhaseDone}
	if !reflect.DeepEqual(phases, want) {
		t.Errorf("Expected phases %v, got %v", want, phases)
	}
}

func regionID(prefix string, n int) string {
	return prefix + string(rune('A'+n))
}
