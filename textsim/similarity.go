package textsim

import "strings"

// Weights of the three sub-scores combined by Similarity.
const (
	editWeight   = 0.4
	tokenWeight  = 0.3
	bigramWeight = 0.3
)

// Similarity scores how alike two strings are, in [0,1]. Identical raw
// inputs score 1 outright, even decoration-only strings that normalize to
// nothing. Otherwise both inputs are normalized; identical normalized
// forms score 1 and an empty side scores 0. The remaining cases score a
// weighted sum of an edit-distance ratio, a Jaccard index over whitespace
// tokens, and a Jaccard index over character bigrams.
func Similarity(a, b string) float64 {
	if a == b && a != "" {
		return 1
	}
	na, nb := Normalize(a), Normalize(b)
	if na == "" || nb == "" {
		return 0
	}
	if na == nb {
		return 1
	}
	return editWeight*editRatio(na, nb) +
		tokenWeight*jaccard(tokenSet(na), tokenSet(nb)) +
		bigramWeight*jaccard(bigramSet(na), bigramSet(nb))
}

// editRatio converts Levenshtein distance into a similarity in [0,1].
func editRatio(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	if longer == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longer)
}

// levenshtein computes the edit distance between two rune slices using the
// two-row dynamic program.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}
	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = prev[j] + 1
			if curr[j-1]+1 < curr[j] {
				curr[j] = curr[j-1] + 1
			}
			if prev[j-1]+cost < curr[j] {
				curr[j] = prev[j-1] + cost
			}
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, tok := range strings.Fields(s) {
		set[tok] = struct{}{}
	}
	return set
}

func bigramSet(s string) map[string]struct{} {
	runes := []rune(s)
	set := make(map[string]struct{})
	for i := 0; i+1 < len(runes); i++ {
		set[string(runes[i:i+2])] = struct{}{}
	}
	return set
}

// jaccard computes |a ∩ b| / |a ∪ b| over two sets, or 0 when both are empty.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	inter := 0
	for k := range a {
		if _, ok := b[k]; ok {
			inter++
		}
	}
	union := len(a) + len(b) - inter
	if union == 0 {
		return 0
	}
	return float64(inter) / float64(union)
}
