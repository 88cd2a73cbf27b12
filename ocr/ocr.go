//go:build ocr

// Package ocr produces raw glyphs for the matching engine from page
// screenshots, wrapping the Tesseract OCR engine via gosseract. It
// requires Tesseract to be installed on the system. On macOS, install via:
//
//	brew install tesseract
//
// On Ubuntu/Debian:
//
//	apt-get install tesseract-ocr
//
// Hosts with a different OCR collaborator can skip this package entirely
// and supply []model.RawGlyph from their own source (see package hocr for
// an hOCR-based alternative).
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/isuzumi2025-cell/MEKIKI-sub002/model"
)

// Client wraps Tesseract for OCR operations.
type Client struct {
	client *gosseract.Client
}

// New creates a new OCR client.
// The client should be closed when no longer needed to release resources.
func New() (*Client, error) {
	return &Client{client: gosseract.NewClient()}, nil
}

// Close releases OCR resources.
func (c *Client) Close() error {
	if c == nil || c.client == nil {
		return nil
	}
	return c.client.Close()
}

// RecognizeGlyphs performs word-level OCR on image data (PNG, TIFF, JPEG,
// etc.) and returns one RawGlyph per recognized word, with boxes in image
// pixels and confidences folded into [0,1].
func (c *Client) RecognizeGlyphs(imageData []byte) ([]model.RawGlyph, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return nil, fmt.Errorf("failed to set image: %w", err)
	}

	boxes, err := c.client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return nil, fmt.Errorf("OCR failed: %w", err)
	}

	glyphs := make([]model.RawGlyph, 0, len(boxes))
	for _, box := range boxes {
		text := strings.TrimSpace(box.Word)
		if text == "" {
			continue
		}
		glyphs = append(glyphs, model.RawGlyph{
			Text: text,
			Rect: model.NewRect(box.Box.Min.X, box.Box.Min.Y, box.Box.Max.X, box.Box.Max.Y),
			// Tesseract reports confidence as a percentage.
			Confidence: box.Confidence / 100,
		})
	}
	return glyphs, nil
}

// RecognizeImage performs OCR on image data and returns the recognized
// text with leading/trailing whitespace trimmed.
func (c *Client) RecognizeImage(imageData []byte) (string, error) {
	if err := c.client.SetImageFromBytes(imageData); err != nil {
		return "", fmt.Errorf("failed to set image: %w", err)
	}

	text, err := c.client.Text()
	if err != nil {
		return "", fmt.Errorf("OCR failed: %w", err)
	}
	return strings.TrimSpace(text), nil
}

// SetLanguage sets the language(s) for OCR recognition.
// Multiple languages can be specified as a "+" separated string
// (e.g., "jpn+eng"). Default is "eng" (English).
func (c *Client) SetLanguage(lang string) error {
	return c.client.SetLanguage(lang)
}

// SetPageSegMode sets the page segmentation mode.
// This affects how Tesseract analyzes the page layout.
// See gosseract.PageSegMode constants for available modes.
func (c *Client) SetPageSegMode(mode gosseract.PageSegMode) error {
	return c.client.SetPageSegMode(mode)
}
