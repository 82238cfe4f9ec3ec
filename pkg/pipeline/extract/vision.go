package extract

import (
	"context"
	"fmt"
	"os"
	"strings"

	"ai-studyprep-be/pkg/llm"
	"ai-studyprep-be/pkg/pdf"
)

const visionPrompt = `Transcribe all text visible in these document pages.
Preserve headings, lists and question numbering. Output plain text only,
with no commentary and no markdown fences. If a page is blank, skip it.`

// VisionStrategy is the last extraction resort: rasterized pages are sent
// to a multimodal model which transcribes them. Slow and metered, so the
// selector only routes here when direct text and OCR both came up empty.
type VisionStrategy struct {
	provider llm.VisionProvider
	dpi      int
}

func NewVisionStrategy(provider llm.VisionProvider, dpi int) *VisionStrategy {
	return &VisionStrategy{provider: provider, dpi: dpi}
}

func (s *VisionStrategy) Name() string { return "ai_vision" }

func (s *VisionStrategy) Extract(ctx context.Context, req Request) (string, error) {
	rasterizer := pdf.NewRasterizer(s.dpi)
	defer rasterizer.Cleanup()

	images, err := rasterizer.Render(ctx, req.PDFPath, req.StartPage, req.EndPage)
	if err != nil {
		return "", fmt.Errorf("vision render pages %d-%d: %w", req.StartPage, req.EndPage, err)
	}

	media := make([]llm.Media, 0, len(images))
	for _, page := range images {
		data, err := os.ReadFile(page.Path)
		if err != nil {
			return "", fmt.Errorf("read page image %d: %w", page.PageNumber, err)
		}
		media = append(media, llm.Media{MIMEType: "image/png", Data: data})
	}

	text, err := s.provider.GenerateWithMedia(ctx, visionPrompt, media, llm.WithTemperature(0.1))
	if err != nil {
		return "", err
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("vision transcription empty for pages %d-%d", req.StartPage, req.EndPage)
	}
	return text, nil
}
