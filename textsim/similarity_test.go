package textsim

import (
	"math"
	"testing"
)

func TestNormalize_FullWidthPhone(t *testing.T) {
	left := Normalize("TEL 03-1234-5678")
	right := Normalize("ＴＥＬ：０３－１２３４－５６７８")

	if left != right {
		t.Errorf("Expected both phone renderings to normalize identically, got %q and %q", left, right)
	}
}

func TestNormalize_KatakanaFoldsToHiragana(t *testing.T) {
	if got := Normalize("カタカナ"); got != "かたかな" {
		t.Errorf("Expected katakana to fold to hiragana, got %q", got)
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	samples := []string{
		"",
		"Hello, World!",
		"ＴＥＬ：０３－１２３４－５６７８",
		"★☆★彡",
		"　全角　スペース　",
		"カタカナとひらがな",
		"¥1,980（税込）",
	}
	for _, s := range samples {
		once := Normalize(s)
		twice := Normalize(once)
		if once != twice {
			t.Errorf("Normalize not idempotent for %q: %q != %q", s, once, twice)
		}
	}
}

func TestNormalize_DecorationOnlyBecomesEmpty(t *testing.T) {
	if got := Normalize("★☆★"); got != "" {
		t.Errorf("Expected decoration-only string to normalize to empty, got %q", got)
	}
}

func TestSimilarity_IdenticalAfterFolding(t *testing.T) {
	got := Similarity("TEL 03-1234-5678", "ＴＥＬ：０３－１２３４－５６７８")
	if got != 1.0 {
		t.Errorf("Expected similarity 1.0, got %f", got)
	}
}

func TestSimilarity_IdenticalDecorationOnlyStrings(t *testing.T) {
	if got := Similarity("!!!", "!!!"); got != 1.0 {
		t.Errorf("Expected identical decoration strings to score 1.0, got %f", got)
	}
	if got := Similarity("★☆★", "★☆★"); got != 1.0 {
		t.Errorf("Expected identical decoration strings to score 1.0, got %f", got)
	}
	if got := Similarity("", ""); got != 0 {
		t.Errorf("Expected 0 for two empty strings, got %f", got)
	}
}

func TestSimilarity_EmptyInputs(t *testing.T) {
	if got := Similarity("", "anything"); got != 0 {
		t.Errorf("Expected 0 for empty left, got %f", got)
	}
	if got := Similarity("something", ""); got != 0 {
		t.Errorf("Expected 0 for empty right, got %f", got)
	}
	if got := Similarity("★★★", "text"); got != 0 {
		t.Errorf("Expected 0 when one side normalizes to empty, got %f", got)
	}
}

func TestSimilarity_Bounds(t *testing.T) {
	pairs := [][2]string{
		{"completely different", "nothing alike here at all 12345"},
		{"short", "a much longer string with many words in it"},
		{"same same", "same same but different"},
		{"東京都港区芝公園４丁目", "東京都港区芝公園4丁目"},
	}
	for _, p := range pairs {
		got := Similarity(p[0], p[1])
		if got < 0 || got > 1 || math.IsNaN(got) {
			t.Errorf("Similarity(%q, %q) = %f, out of [0,1]", p[0], p[1], got)
		}
	}
}

func TestSimilarity_CloseStringsScoreHigh(t *testing.T) {
	high := Similarity("limited summer offer 50% off", "limited summer offer 50% off today")
	low := Similarity("limited summer offer 50% off", "company privacy policy page")
	if high <= low {
		t.Errorf("Expected near-identical strings (%f) to outscore unrelated ones (%f)", high, low)
	}
	if high < 0.6 {
		t.Errorf("Expected high similarity for near-identical strings, got %f", high)
	}
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"kitten", "sitting", 3},
		{"same", "same", 0},
	}
	for _, c := range cases {
		if got := levenshtein([]rune(c.a), []rune(c.b)); got != c.want {
			t.Errorf("levenshtein(%q, %q) = %d, want %d", c.a, c.b, got, c.want)
		}
	}
}
