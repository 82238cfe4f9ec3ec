package extract

import (
	"context"
	"strings"

	"ai-studyprep-be/pkg/pdf"
)

// DirectStrategy reads the embedded text layer of the PDF. It is the
// cheapest route and handles every digitally-authored document.
type DirectStrategy struct {
	cache *FileCache
}

func NewDirectStrategy(cache *FileCache) *DirectStrategy {
	return &DirectStrategy{cache: cache}
}

func (s *DirectStrategy) Name() string { return "direct" }

func (s *DirectStrategy) Extract(ctx context.Context, req Request) (string, error) {
	if s.cache != nil {
		if text, ok := s.cache.GetText(req.PDFPath, req.StartPage, req.EndPage); ok {
			return text, nil
		}
	}

	text, err := pdf.ExtractText(req.PDFPath, req.StartPage, req.EndPage)
	if err != nil {
		return "", err
	}
	text = strings.TrimSpace(text)

	if s.cache != nil {
		s.cache.SetText(req.SessionId, req.PDFPath, req.StartPage, req.EndPage, text)
	}
	return text, nil
}
