package cluster

import (
	"testing"

	"github.com/isuzumi2025-cell/MEKIKI-sub002/model"
)

func TestNeedsChunking(t *testing.T) {
	cases := []struct {
		name          string
		width, height int
		want          bool
	}{
		{"normal page", 1200, 2000, false},
		{"tall aspect", 800, 4800, true},
		{"exceeds working height", 1200, 9000, true},
		{"degenerate", 0, 9000, false},
	}
	for _, c := range cases {
		if got := NeedsChunking(c.width, c.height); got != c.want {
			t.Errorf("%s: NeedsChunking(%d, %d) = %v, want %v",
				c.name, c.width, c.height, got, c.want)
		}
	}
}

func TestClusterChunked_MatchesWholePageRun(t *testing.T) {
	c := New()

	// A tall page: a paragraph near the top, a tiny orphan near it, and a
	// second paragraph far down the page.
	whole := []model.RawGlyph{
		makeGlyph("top paragraph first line", 0, 100, 400, 120),
		makeGlyph("top paragraph second line", 0, 130, 400, 150),
		makeGlyph("fn", 50, 220, 80, 232),
		makeGlyph("bottom paragraph far below", 0, 6100, 400, 6120),
	}

	wholeBlocks, err := c.Cluster(whole)
	if err != nil {
		t.Fatalf("Whole-page run failed: %v", err)
	}

	// The same page OCR'd as two 6000px chunks with chunk-local y
	// coordinates.
	chunks := []Chunk{
		{
			OffsetY: 0,
			Glyphs: []model.RawGlyph{
				makeGlyph("top paragraph first line", 0, 100, 400, 120),
				makeGlyph("top paragraph second line", 0, 130, 400, 150),
				makeGlyph("fn", 50, 220, 80, 232),
			},
		},
		{
			OffsetY: 6000,
			Glyphs: []model.RawGlyph{
				makeGlyph("bottom paragraph far below", 0, 100, 400, 120),
			},
		},
	}

	chunkedBlocks, err := c.ClusterChunked(chunks)
	if err != nil {
		t.Fatalf("Chunked run failed: %v", err)
	}

	if len(chunkedBlocks) != len(wholeBlocks) {
		t.Fatalf("Expected %d blocks from chunked run, got %d",
			len(wholeBlocks), len(chunkedBlocks))
	}
	for i := range wholeBlocks {
		if chunkedBlocks[i].Text() != wholeBlocks[i].Text() {
			t.Errorf("Block %d text mismatch: chunked %q, whole %q",
				i, chunkedBlocks[i].Text(), wholeBlocks[i].Text())
		}
		if chunkedBlocks[i].Rect != wholeBlocks[i].Rect {
			t.Errorf("Block %d rect mismatch: chunked %+v, whole %+v",
				i, chunkedBlocks[i].Rect, wholeBlocks[i].Rect)
		}
	}
}

func TestClusterChunked_NegativeOffset(t *testing.T) {
	c := New()

	_, err := c.ClusterChunked([]Chunk{{OffsetY: -10}})
	if err == nil {
		t.Fatal("Expected error for negative chunk offset")
	}
}
