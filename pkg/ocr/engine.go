// Package ocr wraps the Tesseract engine behind a small interface with
// selectable recognition modes, plus the image preprocessing applied before
// recognition.
package ocr

import (
	"fmt"
	"strings"

	"github.com/otiai10/gosseract/v2"
)

// Mode selects the page-segmentation strategy for a recognition pass.
type Mode int

const (
	// ModeUniformBlock assumes a single uniform block of text. Works best
	// on dense study material and clean scans.
	ModeUniformBlock Mode = iota
	// ModeAuto lets the engine segment the page itself. Better for mixed
	// layouts (columns, figures, tables).
	ModeAuto
)

// Engine runs one recognition pass over an image file.
type Engine interface {
	Recognize(imagePath string, mode Mode) (string, error)
}

// TesseractEngine is the production Engine backed by gosseract.
type TesseractEngine struct {
	Language string
}

func NewTesseractEngine(language string) *TesseractEngine {
	if language == "" {
		language = "eng"
	}
	return &TesseractEngine{Language: language}
}

func (e *TesseractEngine) Recognize(imagePath string, mode Mode) (string, error) {
	client := gosseract.NewClient()
	defer client.Close()

	if err := client.SetLanguage(e.Language); err != nil {
		return "", fmt.Errorf("set language: %w", err)
	}
	psm := gosseract.PSM_SINGLE_BLOCK
	if mode == ModeAuto {
		psm = gosseract.PSM_AUTO
	}
	if err := client.SetPageSegMode(psm); err != nil {
		return "", fmt.Errorf("set page segmentation mode: %w", err)
	}
	if err := client.SetImage(imagePath); err != nil {
		return "", fmt.Errorf("set image: %w", err)
	}

	text, err := client.Text()
	if err != nil {
		return "", fmt.Errorf("recognize: %w", err)
	}
	return strings.TrimSpace(text), nil
}
