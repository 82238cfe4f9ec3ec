package extract

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ai-studyprep-be/pkg/ocr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeOCREngine answers by image variant and segmentation mode, recording
// every pass so tests can assert the selection order.
type fakeOCREngine struct {
	processedUniform string
	processedAuto    string
	raw              string
	err              error
	calls            []string
}

func (f *fakeOCREngine) Recognize(imagePath string, mode ocr.Mode) (string, error) {
	variant := "raw"
	if strings.HasSuffix(imagePath, "_processed.png") {
		variant = "processed"
	}
	f.calls = append(f.calls, fmt.Sprintf("%s/%d", variant, mode))
	if f.err != nil {
		return "", f.err
	}
	switch {
	case variant == "processed" && mode == ocr.ModeUniformBlock:
		return f.processedUniform, nil
	case variant == "processed" && mode == ocr.ModeAuto:
		return f.processedAuto, nil
	default:
		return f.raw, nil
	}
}

// writePageImage drops a small blank PNG on disk so preprocessing has a
// real image to work on.
func writePageImage(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "page_001.png")
	img := image.NewGray(image.Rect(0, 0, 24, 24))
	for i := range img.Pix {
		img.Pix[i] = 255
	}
	file, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(file, img))
	require.NoError(t, file.Close())
	return path
}

func TestRecognizePageKeepsLongestMode(t *testing.T) {
	long := strings.Repeat("photosynthesis fixes carbon ", 4)
	engine := &fakeOCREngine{processedUniform: "short answer", processedAuto: long}
	strategy := NewOCRStrategy(engine, 300)

	text, err := strategy.recognizePage(writePageImage(t))
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(long), text)

	// Both segmentation modes ran on the preprocessed image; the yield was
	// good enough that the raw image was never consulted.
	assert.Contains(t, engine.calls, fmt.Sprintf("processed/%d", ocr.ModeUniformBlock))
	assert.Contains(t, engine.calls, fmt.Sprintf("processed/%d", ocr.ModeAuto))
	assert.NotContains(t, engine.calls, fmt.Sprintf("raw/%d", ocr.ModeAuto))
}

func TestRecognizePageRetriesRawImageOnLowYield(t *testing.T) {
	long := strings.Repeat("faint scan recovered ", 4)
	engine := &fakeOCREngine{processedUniform: "a", processedAuto: "bb", raw: long}
	strategy := NewOCRStrategy(engine, 300)

	text, err := strategy.recognizePage(writePageImage(t))
	require.NoError(t, err)
	assert.Equal(t, strings.TrimSpace(long), text)
	assert.Contains(t, engine.calls, fmt.Sprintf("raw/%d", ocr.ModeAuto))
}

func TestRecognizePageSkipsRetryWithoutPreprocessedImage(t *testing.T) {
	// A missing file fails preprocessing, so recognition runs on the raw
	// path alone and a short answer stands without a duplicate pass.
	engine := &fakeOCREngine{raw: "tiny"}
	strategy := NewOCRStrategy(engine, 300)

	text, err := strategy.recognizePage(filepath.Join(t.TempDir(), "missing.png"))
	require.NoError(t, err)
	assert.Equal(t, "tiny", text)
	assert.Len(t, engine.calls, 2)
}

func TestRecognizePageReportsErrorWhenEveryPassFails(t *testing.T) {
	engine := &fakeOCREngine{err: errors.New("tesseract crashed")}
	strategy := NewOCRStrategy(engine, 300)

	_, err := strategy.recognizePage(writePageImage(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tesseract crashed")
}
