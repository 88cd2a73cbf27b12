package signature

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Tag labels a structural text pattern found in a region.
type Tag string

// The recognized structural patterns, in matcher declaration order.
const (
	TagPostal      Tag = "postal"
	TagAddress     Tag = "address"
	TagPhone       Tag = "phone"
	TagPrice       Tag = "price"
	TagProperNoun  Tag = "proper_noun"
	TagPersonName  Tag = "person_name"
	TagOffer       Tag = "offer"
	TagCopy        Tag = "copy"
	TagGimmick     Tag = "gimmick"
	TagDescription Tag = "description"
	TagDecoration  Tag = "decoration"
	TagUnknown     Tag = "unknown"
)

// Syntax records the structural patterns matched in a region's text.
type Syntax struct {
	// Tags is the set of matched pattern tags.
	Tags map[Tag]bool

	// Scores holds the hit strength (0.5 or 1) per matched tag.
	Scores map[Tag]float64

	// Dominant is the strongest matched tag, or TagUnknown when nothing
	// matched. Ties go to the earlier matcher in declaration order.
	Dominant Tag

	// Confidence is the score of the dominant tag.
	Confidence float64
}

// matcher scores one structural pattern against folded text, returning
// 0 (no hit), 0.5 (weak hit) or 1 (strong hit).
type matcher struct {
	tag   Tag
	score func(s string) float64
}

var (
	postalRe    = regexp.MustCompile(`〒\s*\d{3}-?\d{4}`)
	postalBare  = regexp.MustCompile(`\b\d{3}-\d{4}\b`)
	addressRe   = regexp.MustCompile(`[都道府県市区町村]|丁目|番地|号室?`)
	phoneRe     = regexp.MustCompile(`(?i)(tel|fax|電話|☎|フリーダイヤル)[\s.:]*[\d(]`)
	phoneBare   = regexp.MustCompile(`\b0\d{1,4}-\d{1,4}-\d{3,4}\b`)
	priceRe     = regexp.MustCompile(`(?i)[¥￥$]\s*[\d,]+|[\d,]+\s*円|\d+\s*%\s*(off|引)`)
	priceWeakRe = regexp.MustCompile(`(?i)税込|税抜|price|割引`)
	personRe    = regexp.MustCompile(`(?i)(様|さん|氏|先生)$|社長|代表|店長|(mr|ms|dr)\.\s`)
	offerRe     = regexp.MustCompile(`(?i)キャンペーン|セール|限定|無料|特典|プレゼント|新発売|\b(sale|offer|free|campaign|new)\b`)
	sentenceRe  = regexp.MustCompile(`[。.!?！？]`)
)

// matchers is the fixed, ordered pattern table. Order matters: dominant-tag
// ties resolve to the earlier entry.
var matchers = []matcher{
	{TagPostal, scorePostal},
	{TagAddress, scoreAddress},
	{TagPhone, scorePhone},
	{TagPrice, scorePrice},
	{TagProperNoun, scoreProperNoun},
	{TagPersonName, scorePersonName},
	{TagOffer, scoreOffer},
	{TagCopy, scoreCopy},
	{TagGimmick, scoreGimmick},
	{TagDescription, scoreDescription},
	{TagDecoration, scoreDecoration},
}

// SyntaxOf runs the pattern table against a region's text. Matching happens
// on a width-folded copy so full-width OCR text hits the same patterns as
// half-width text; case is preserved for the capitalization heuristics.
func SyntaxOf(text string) Syntax {
	folded := width.Fold.String(norm.NFKC.String(text))

	sig := Syntax{
		Tags:     make(map[Tag]bool),
		Scores:   make(map[Tag]float64),
		Dominant: TagUnknown,
	}
	for _, m := range matchers {
		score := m.score(folded)
		if score <= 0 {
			continue
		}
		sig.Tags[m.tag] = true
		sig.Scores[m.tag] = score
		if score > sig.Confidence {
			sig.Confidence = score
			sig.Dominant = m.tag
		}
	}
	return sig
}

// SyntaxSimilarity scores tag-set agreement between two signatures: the
// Jaccard index over matched tags, boosted by 1.3 (capped at 1) when the
// dominant tags agree and are not unknown.
func SyntaxSimilarity(a, b Syntax) float64 {
	if len(a.Tags) == 0 && len(b.Tags) == 0 {
		return 0
	}
	inter := 0
	for tag := range a.Tags {
		if b.Tags[tag] {
			inter++
		}
	}
	union := len(a.Tags) + len(b.Tags) - inter
	if union == 0 {
		return 0
	}
	score := float64(inter) / float64(union)
	if a.Dominant != TagUnknown && a.Dominant == b.Dominant {
		score *= 1.3
		if score > 1 {
			score = 1
		}
	}
	return score
}

func scorePostal(s string) float64 {
	if postalRe.MatchString(s) {
		return 1
	}
	if postalBare.MatchString(s) {
		return 0.5
	}
	return 0
}

func scoreAddress(s string) float64 {
	hits := len(addressRe.FindAllString(s, -1))
	switch {
	case hits >= 2:
		return 1
	case hits == 1:
		return 0.5
	}
	return 0
}

func scorePhone(s string) float64 {
	if phoneRe.MatchString(s) {
		return 1
	}
	if phoneBare.MatchString(s) {
		return 0.5
	}
	return 0
}

func scorePrice(s string) float64 {
	if priceRe.MatchString(s) {
		return 1
	}
	if priceWeakRe.MatchString(s) {
		return 0.5
	}
	return 0
}

// scoreProperNoun flags short runs of capitals or katakana with no
// sentence punctuation, typical of brand and product names.
func scoreProperNoun(s string) float64 {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) == 0 || len(runes) > 30 || sentenceRe.MatchString(s) {
		return 0
	}
	letters, capsOrKana := 0, 0
	for _, r := range runes {
		if unicode.IsLetter(r) {
			letters++
			if unicode.In(r, unicode.Katakana) || unicode.IsUpper(r) {
				capsOrKana++
			}
		}
	}
	if letters == 0 {
		return 0
	}
	ratio := float64(capsOrKana) / float64(letters)
	switch {
	case ratio >= 0.8:
		return 1
	case ratio >= 0.5:
		return 0.5
	}
	return 0
}

func scorePersonName(s string) float64 {
	if personRe.MatchString(strings.TrimSpace(s)) {
		return 1
	}
	return 0
}

func scoreOffer(s string) float64 {
	hits := len(offerRe.FindAllString(s, -1))
	switch {
	case hits >= 2:
		return 1
	case hits == 1:
		return 0.5
	}
	return 0
}

// scoreCopy flags short punchy headline lines.
func scoreCopy(s string) float64 {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) == 0 || len(runes) > 20 {
		return 0
	}
	if strings.ContainsAny(s, "!?！？") {
		return 1
	}
	if len(runes) <= 12 {
		return 0.5
	}
	return 0
}

// scoreGimmick flags decorative attention-grabbing devices mixed into text.
func scoreGimmick(s string) float64 {
	if strings.Contains(s, "!!") || strings.Contains(s, "！！") {
		return 1
	}
	if strings.ContainsAny(s, "★☆♪↓↑→←※") {
		return 0.5
	}
	return 0
}

func scoreDescription(s string) float64 {
	runes := []rune(strings.TrimSpace(s))
	if len(runes) < 40 {
		return 0
	}
	if sentenceRe.MatchString(s) {
		return 1
	}
	return 0.5
}

// scoreDecoration flags runs consisting only of punctuation and symbol
// glyphs, such as separator rules.
func scoreDecoration(s string) float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0
	}
	for _, r := range trimmed {
		if !unicode.IsPunct(r) && !unicode.IsSymbol(r) && !unicode.IsSpace(r) {
			return 0
		}
	}
	return 1
}
