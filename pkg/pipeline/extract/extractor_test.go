package extract

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

type fakeStrategy struct {
	name  string
	text  string
	err   error
	calls int
}

func (f *fakeStrategy) Name() string { return f.name }

func (f *fakeStrategy) Extract(ctx context.Context, req Request) (string, error) {
	f.calls++
	return f.text, f.err
}

// seedDirect puts text into the cache under the request's key so the direct
// strategy resolves without touching the filesystem.
func seedDirect(cache *FileCache, req Request, text string) {
	cache.SetText(req.SessionId, req.PDFPath, req.StartPage, req.EndPage, text)
}

func testRequest() Request {
	return Request{SessionId: "sess-1", PDFPath: "/nonexistent/doc.pdf", StartPage: 1, EndPage: 3}
}

func TestSelectorAcceptsSufficientDirectText(t *testing.T) {
	cache := NewFileCache(time.Minute)
	req := testRequest()
	text := strings.Repeat("lecture notes ", 20)
	seedDirect(cache, req, text)

	selector := NewSelector(NewDirectStrategy(cache), true, true, PreferOCR)
	sel := selector.Select(context.Background(), req)

	assert.Equal(t, DecisionDirect, sel.Decision)
	assert.Equal(t, text, sel.ProbeText)
}

func TestSelectorRoutesShortTextToOCR(t *testing.T) {
	cache := NewFileCache(time.Minute)
	req := testRequest()
	seedDirect(cache, req, "just a header")

	selector := NewSelector(NewDirectStrategy(cache), true, true, PreferOCR)
	sel := selector.Select(context.Background(), req)

	assert.Equal(t, DecisionOCR, sel.Decision)
}

func TestSelectorRoutesToVisionWithoutOCR(t *testing.T) {
	cache := NewFileCache(time.Minute)
	req := testRequest()
	seedDirect(cache, req, "")

	selector := NewSelector(NewDirectStrategy(cache), false, true, PreferOCR)
	assert.Equal(t, DecisionAIVision, selector.Select(context.Background(), req).Decision)
}

func TestSelectorHonorsConfiguredVisionPreference(t *testing.T) {
	cache := NewFileCache(time.Minute)
	req := testRequest()
	seedDirect(cache, req, "just a header")

	selector := NewSelector(NewDirectStrategy(cache), true, true, PreferAIVision)
	assert.Equal(t, DecisionAIVision, selector.Select(context.Background(), req).Decision)

	// Direct text still wins over the preference when it yields enough.
	seedDirect(cache, req, strings.Repeat("lecture notes ", 20))
	assert.Equal(t, DecisionDirect, selector.Select(context.Background(), req).Decision)
}

func TestSelectorVisionPreferenceFallsBackToOCR(t *testing.T) {
	cache := NewFileCache(time.Minute)
	req := testRequest()
	seedDirect(cache, req, "")

	selector := NewSelector(NewDirectStrategy(cache), true, false, PreferAIVision)
	assert.Equal(t, DecisionOCR, selector.Select(context.Background(), req).Decision)
}

func TestParsePreference(t *testing.T) {
	assert.Equal(t, PreferAIVision, ParsePreference("ai"))
	assert.Equal(t, PreferOCR, ParsePreference("ocr"))
	assert.Equal(t, PreferOCR, ParsePreference(""))
}

func TestSelectorFailsWithoutAnyRoute(t *testing.T) {
	cache := NewFileCache(time.Minute)
	req := testRequest()
	seedDirect(cache, req, "")

	selector := NewSelector(NewDirectStrategy(cache), false, false, PreferOCR)
	assert.Equal(t, DecisionFail, selector.Select(context.Background(), req).Decision)
}

func TestExtractorServesDirectFromProbe(t *testing.T) {
	cache := NewFileCache(time.Minute)
	req := testRequest()
	text := strings.Repeat("chapter one content ", 10)
	seedDirect(cache, req, text)

	ocr := &fakeStrategy{name: "ocr", text: "unused"}
	extractor := NewExtractor(cache, ocr, nil, PreferOCR, nopLogger{})

	result, err := extractor.Extract(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, DecisionDirect, result.Decision)
	assert.Equal(t, text, result.Text)
	assert.Zero(t, ocr.calls)
}

func TestExtractorFallsBackFromOCRToVision(t *testing.T) {
	cache := NewFileCache(time.Minute)
	req := testRequest()
	seedDirect(cache, req, "scan artifact")

	ocr := &fakeStrategy{name: "ocr", err: errors.New("tesseract could not read page")}
	vision := &fakeStrategy{name: "ai_vision", text: "transcribed by model"}
	extractor := NewExtractor(cache, ocr, vision, PreferOCR, nopLogger{})

	result, err := extractor.Extract(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, DecisionAIVision, result.Decision)
	assert.True(t, result.UsedFallback)
	assert.Equal(t, "transcribed by model", result.Text)
	assert.Equal(t, 1, ocr.calls)
}

func TestExtractorReportsOCRErrorWithoutVision(t *testing.T) {
	cache := NewFileCache(time.Minute)
	req := testRequest()
	seedDirect(cache, req, "scan artifact")

	ocrErr := errors.New("tesseract could not read page")
	extractor := NewExtractor(cache, &fakeStrategy{name: "ocr", err: ocrErr}, nil, PreferOCR, nopLogger{})

	_, err := extractor.Extract(context.Background(), req)
	require.Error(t, err)
	assert.ErrorIs(t, err, ocrErr)
}

func TestExtractorFailsWhenNoStrategyApplies(t *testing.T) {
	cache := NewFileCache(time.Minute)
	req := testRequest()
	seedDirect(cache, req, "")

	extractor := NewExtractor(cache, nil, nil, PreferOCR, nopLogger{})

	_, err := extractor.Extract(context.Background(), req)
	require.Error(t, err)
}

func TestFileCacheSessionCleanup(t *testing.T) {
	cache := NewFileCache(time.Minute)
	req := testRequest()
	seedDirect(cache, req, "cached text")
	cache.SetPageCount(req.SessionId, req.PDFPath, 12)

	text, ok := cache.GetText(req.PDFPath, req.StartPage, req.EndPage)
	require.True(t, ok)
	assert.Equal(t, "cached text", text)
	pages, ok := cache.GetPageCount(req.PDFPath)
	require.True(t, ok)
	assert.Equal(t, 12, pages)

	cache.EndSession(req.SessionId)

	_, ok = cache.GetText(req.PDFPath, req.StartPage, req.EndPage)
	assert.False(t, ok)
	_, ok = cache.GetPageCount(req.PDFPath)
	assert.False(t, ok)
}
