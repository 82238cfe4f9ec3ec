package pdf

import (
	"context"
	"fmt"
	"image/png"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
)

// PageImage is one rasterized page on disk.
type PageImage struct {
	PageNumber int
	Path       string
}

// Rasterizer converts page ranges to images for OCR and AI-vision. Each
// Render call gets its own temp directory; Cleanup must run on both the
// success and failure paths.
type Rasterizer struct {
	DPI     int
	tempDir string
}

func NewRasterizer(dpi int) *Rasterizer {
	if dpi <= 0 {
		dpi = 300
	}
	return &Rasterizer{DPI: dpi}
}

// Render rasterizes pages [startPage, endPage] (1-indexed, inclusive) of
// the document at path to PNG files and returns them in page order.
func (r *Rasterizer) Render(ctx context.Context, path string, startPage, endPage int) ([]PageImage, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	defer doc.Close()

	numPages := doc.NumPage()
	if numPages == 0 {
		return nil, fmt.Errorf("document has no pages")
	}
	if startPage < 1 {
		startPage = 1
	}
	if endPage > numPages {
		endPage = numPages
	}

	tempDir, err := os.MkdirTemp("", "studyprep-pages-*")
	if err != nil {
		return nil, fmt.Errorf("create temp directory: %w", err)
	}
	r.tempDir = tempDir

	images := make([]PageImage, 0, endPage-startPage+1)
	for pageNum := startPage; pageNum <= endPage; pageNum++ {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		// go-fitz pages are 0-indexed
		img, err := doc.ImageDPI(pageNum-1, float64(r.DPI))
		if err != nil {
			return nil, fmt.Errorf("rasterize page %d: %w", pageNum, err)
		}

		outputPath := filepath.Join(tempDir, fmt.Sprintf("page_%03d.png", pageNum))
		outputFile, err := os.Create(outputPath)
		if err != nil {
			return nil, fmt.Errorf("create image file for page %d: %w", pageNum, err)
		}
		err = png.Encode(outputFile, img)
		outputFile.Close()
		if err != nil {
			return nil, fmt.Errorf("encode page %d: %w", pageNum, err)
		}

		images = append(images, PageImage{PageNumber: pageNum, Path: outputPath})
	}

	return images, nil
}

// Cleanup removes the temp directory of the last Render call.
func (r *Rasterizer) Cleanup() error {
	if r.tempDir == "" {
		return nil
	}
	err := os.RemoveAll(r.tempDir)
	r.tempDir = ""
	return err
}
