package extract

import (
	"context"
	"fmt"
	"strings"

	"ai-studyprep-be/pkg/ocr"
	"ai-studyprep-be/pkg/pdf"
)

// rawRetryThreshold is the per-page yield below which the raw page image is
// re-read without preprocessing. Aggressive binarization occasionally eats
// faint scans; the raw pass recovers those.
const rawRetryThreshold = 50

// OCRStrategy rasterizes the page range and runs each page through
// tesseract in two segmentation modes, keeping the longest result.
type OCRStrategy struct {
	engine ocr.Engine
	dpi    int
}

func NewOCRStrategy(engine ocr.Engine, dpi int) *OCRStrategy {
	return &OCRStrategy{engine: engine, dpi: dpi}
}

func (s *OCRStrategy) Name() string { return "ocr" }

func (s *OCRStrategy) Extract(ctx context.Context, req Request) (string, error) {
	rasterizer := pdf.NewRasterizer(s.dpi)
	defer rasterizer.Cleanup()

	images, err := rasterizer.Render(ctx, req.PDFPath, req.StartPage, req.EndPage)
	if err != nil {
		return "", fmt.Errorf("ocr render pages %d-%d: %w", req.StartPage, req.EndPage, err)
	}

	var pages []string
	for _, page := range images {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		text, err := s.recognizePage(page.Path)
		if err != nil {
			return "", err
		}
		if text != "" {
			pages = append(pages, text)
		}
	}

	joined := strings.TrimSpace(strings.Join(pages, "\n\n"))
	if joined == "" {
		return "", fmt.Errorf("ocr produced no text for pages %d-%d", req.StartPage, req.EndPage)
	}
	return joined, nil
}

// recognizePage tries the preprocessed image in both segmentation modes and
// keeps the longest answer. A short best answer triggers one more pass over
// the untouched render.
func (s *OCRStrategy) recognizePage(imagePath string) (string, error) {
	processed, err := ocr.Preprocess(imagePath)
	if err != nil {
		// Preprocessing failure is not fatal, the raw image still reads.
		processed = imagePath
	} else {
		defer ocr.RemoveProcessed(processed)
	}

	best := ""
	var lastErr error
	for _, mode := range []ocr.Mode{ocr.ModeUniformBlock, ocr.ModeAuto} {
		text, err := s.engine.Recognize(processed, mode)
		if err != nil {
			lastErr = err
			continue
		}
		if text = strings.TrimSpace(text); len(text) > len(best) {
			best = text
		}
	}

	if len(best) < rawRetryThreshold && processed != imagePath {
		if text, err := s.engine.Recognize(imagePath, ocr.ModeAuto); err == nil {
			if text = strings.TrimSpace(text); len(text) > len(best) {
				best = text
			}
		}
	}

	if best == "" && lastErr != nil {
		return "", fmt.Errorf("ocr recognize: %w", lastErr)
	}
	return best, nil
}
