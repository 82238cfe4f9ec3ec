package recovery

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyTaggedErrors(t *testing.T) {
	cases := []struct {
		kind   Kind
		action Action
	}{
		{KindQuota, ActionRetryLater},
		{KindAuth, ActionContactSupport},
		{KindSafety, ActionSkip},
		{KindTransient, ActionRetry},
		{KindOCR, ActionFallbackAI},
		{KindMalformed, ActionRetry},
		{KindUnknown, ActionRetry},
	}
	for _, tc := range cases {
		err := Tag(tc.kind, "stage", errors.New("boom"))
		d := Classify(err, "generation")
		assert.Equal(t, tc.action, d.Action, "kind=%s", tc.kind)
		assert.NotEmpty(t, d.UserMessage)
		assert.Contains(t, d.TechnicalDetails, "boom")
	}
}

func TestClassifyWrappedTaggedError(t *testing.T) {
	inner := Tag(KindQuota, "gemini", errors.New("429 too many requests"))
	wrapped := fmt.Errorf("generate questions: %w", inner)

	d := Classify(wrapped, "question_generation")
	assert.Equal(t, ActionRetryLater, d.Action)
	assert.Greater(t, d.Backoff.Seconds(), 0.0)
}

func TestClassifySubstringHeuristics(t *testing.T) {
	cases := []struct {
		msg    string
		action Action
	}{
		{"googleapi: Error 429: Quota exceeded", ActionRetryLater},
		{"401 unauthorized: invalid api key", ActionContactSupport},
		{"response blocked by safety settings", ActionSkip},
		{"dial tcp: i/o timeout", ActionRetry},
		{"something completely different", ActionRetry},
	}
	for _, tc := range cases {
		d := Classify(errors.New(tc.msg), "generation")
		assert.Equal(t, tc.action, d.Action, "msg=%q", tc.msg)
	}
}

func TestClassifyOCRContextAlwaysFallsBack(t *testing.T) {
	// Even a generic error is routed to AI when it came from the OCR stage.
	d := Classify(errors.New("exit status 1"), "ocr_extraction")
	assert.Equal(t, ActionFallbackAI, d.Action)
}

func TestClassifyUserMessageNeverRaw(t *testing.T) {
	raw := errors.New("pq: deadlock detected at 0xdeadbeef")
	d := Classify(raw, "aggregation")
	assert.NotContains(t, d.UserMessage, "0xdeadbeef")
	assert.Contains(t, d.TechnicalDetails, "0xdeadbeef")
}

func TestShouldRetry(t *testing.T) {
	assert.True(t, ShouldRetry(ActionRetry, 1, 3))
	assert.True(t, ShouldRetry(ActionRetryLater, 2, 3))
	assert.False(t, ShouldRetry(ActionRetry, 3, 3))
	assert.False(t, ShouldRetry(ActionSkip, 0, 3))
	assert.False(t, ShouldRetry(ActionContactSupport, 0, 3))
	assert.False(t, ShouldRetry(ActionFallbackAI, 0, 3))
}

func TestTaggedErrorUnwrap(t *testing.T) {
	sentinel := errors.New("sentinel")
	err := Tag(KindTransient, "extract", sentinel)
	assert.ErrorIs(t, err, sentinel)
	assert.Contains(t, err.Error(), "sentinel")
}
