// Package hocr loads OCR output in the hOCR format (OCR results embedded
// in HTML) into raw glyphs for the matching engine. Word elements carry
// their bounding box and confidence in the title attribute:
//
//	<span class="ocrx_word" title="bbox 60 32 118 54; x_wconf 93">TEL</span>
package hocr

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"github.com/isuzumi2025-cell/MEKIKI-sub002/model"
)

// ParseFile reads an hOCR file and returns its word glyphs.
func ParseFile(filename string) ([]model.RawGlyph, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return Parse(f)
}

// Parse reads hOCR markup and returns one RawGlyph per ocrx_word element.
// Words without a parseable bbox are skipped; confidences are folded from
// x_wconf percentages into [0,1].
func Parse(r io.Reader) ([]model.RawGlyph, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parsing hOCR: %w", err)
	}

	var glyphs []model.RawGlyph
	var walk func(n *html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && hasClass(n, "ocrx_word") {
			if g, ok := wordGlyph(n); ok {
				glyphs = append(glyphs, g)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(doc)
	return glyphs, nil
}

// wordGlyph converts one ocrx_word element into a glyph.
func wordGlyph(n *html.Node) (model.RawGlyph, bool) {
	text := strings.TrimSpace(textContent(n))
	if text == "" {
		return model.RawGlyph{}, false
	}

	rect, conf, ok := parseTitle(attr(n, "title"))
	if !ok {
		return model.RawGlyph{}, false
	}
	return model.RawGlyph{Text: text, Rect: rect, Confidence: conf}, true
}

// parseTitle extracts the bbox and optional x_wconf from an hOCR title
// attribute value such as "bbox 60 32 118 54; x_wconf 93".
func parseTitle(title string) (model.Rect, float64, bool) {
	var rect model.Rect
	conf := 0.0
	haveBox := false

	for _, prop := range strings.Split(title, ";") {
		fields := strings.Fields(strings.TrimSpace(prop))
		if len(fields) == 0 {
			continue
		}
		switch fields[0] {
		case "bbox":
			if len(fields) != 5 {
				continue
			}
			coords := make([]int, 4)
			ok := true
			for i, f := range fields[1:] {
				v, err := strconv.Atoi(f)
				if err != nil {
					ok = false
					break
				}
				coords[i] = v
			}
			if !ok {
				continue
			}
			rect = model.NewRect(coords[0], coords[1], coords[2], coords[3])
			haveBox = true
		case "x_wconf":
			if len(fields) != 2 {
				continue
			}
			if v, err := strconv.ParseFloat(fields[1], 64); err == nil {
				conf = v / 100
			}
		}
	}
	return rect, conf, haveBox
}

// hasClass reports whether the node's class attribute contains the given
// class name.
func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

// attr returns the value of the named attribute, or "".
func attr(n *html.Node, name string) string {
	for _, a := range n.Attr {
		if a.Key == name {
			return a.Val
		}
	}
	return ""
}

// textContent recursively extracts the text content of a node.
func textContent(n *html.Node) string {
	if n.Type == html.TextNode {
		return n.Data
	}
	var sb strings.Builder
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		sb.WriteString(textContent(c))
	}
	return sb.String()
}
