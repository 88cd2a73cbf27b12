package model

// Side identifies which document rendering a region belongs to.
type Side string

// The two sides of a comparison run.
const (
	SideLeft  Side = "left"
	SideRight Side = "right"
)

// Tier classifies the confidence of an accepted match.
type Tier string

// Confidence tiers, ordered from most to least confident.
const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierLow    Tier = "low"
)

// Region is a paragraph-level, matchable unit of text on one side of a
// comparison. Regions are created once per page per side; the matcher
// mutates the Match field exactly once per matching run. Regions are never
// deleted, only re-scored, and their IDs are never reused within a run.
type Region struct {
	// ID uniquely and stably identifies the region within one run.
	ID string

	// Side tags which rendering the region came from.
	Side Side

	// Page is the page number the region was detected on.
	Page int

	// Text is the region's concatenated paragraph text.
	Text string

	// Rect is the region's bounding box in source-image pixels.
	Rect Rect

	// Match holds the result of the most recent matching run, or nil if
	// the region is unmatched.
	Match *MatchInfo
}

// MatchInfo records a region's side of an accepted correspondence.
type MatchInfo struct {
	// RegionID is the ID of the matched region on the other side.
	RegionID string

	// Score is the fused similarity score in [0,1].
	Score float64

	// Tier is the confidence tier derived from the score.
	Tier Tier
}

// Bounds returns the region's bounding box.
func (r *Region) Bounds() Rect { return r.Rect }

// Content returns the region's text.
func (r *Region) Content() string { return r.Text }

// TemplateRegion is a Region a human reviewer has explicitly confirmed.
// It seeds template propagation; otherwise it behaves like a normal Region.
type TemplateRegion struct {
	Region
}

// Signal is one similarity signal's contribution to a fused score.
// A signal whose required inputs were missing for a pair is recorded as
// unavailable rather than as a zero score.
type Signal struct {
	Score     float64
	Available bool
}

// Breakdown records the per-signal scores behind one fused score.
type Breakdown struct {
	Text   Signal
	Layout Signal
	Syntax Signal
	Image  Signal
}

// SyncPair is an accepted one-to-one correspondence between a left and a
// right region. At most one SyncPair in a result may reference a given
// left or right region ID. SyncPairs are read-only after creation.
type SyncPair struct {
	// LeftID and RightID name the paired regions.
	LeftID  string
	RightID string

	// Score is the fused similarity score in [0,1].
	Score float64

	// Breakdown carries the per-signal scores behind Score.
	Breakdown Breakdown

	// Tier is the confidence tier derived from Score.
	Tier Tier

	// Pinned marks a pair supplied as a manual override by the reviewer;
	// pinned pairs are never re-assigned by the matcher.
	Pinned bool
}
