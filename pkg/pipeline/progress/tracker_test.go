package progress

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collectSink(out *[]Snapshot) Sink {
	return SinkFunc(func(s Snapshot) { *out = append(*out, s) })
}

func TestOverallProgressMonotone(t *testing.T) {
	var published []Snapshot
	tr := NewTracker(uuid.New(), 12, collectSink(&published))

	steps := []struct {
		step Step
		pct  int
	}{
		{StepUploadComplete, 100},
		{StepFileAnalysis, 50},
		{StepFileAnalysis, 100},
		{StepOCRProcessing, 30},
		{StepOCRProcessing, 90},
		{StepAIProcessing, 10},
		// stale partial update for an earlier step must not regress
		{StepOCRProcessing, 40},
		{StepGeneratingQuestions, 100},
		{StepGeneratingMockTests, 100},
		{StepGeneratingMnemonics, 100},
		{StepGeneratingCheatSheet, 100},
		{StepGeneratingNotes, 100},
		{StepFinalizing, 100},
	}
	last := 0
	for _, s := range steps {
		snap := tr.Update(s.step, s.pct, "")
		require.GreaterOrEqual(t, snap.OverallPct, last, "step=%s pct=%d", s.step, s.pct)
		require.LessOrEqual(t, snap.OverallPct, 100)
		last = snap.OverallPct
	}
	assert.Len(t, published, len(steps))
}

func TestCompleteReachesHundred(t *testing.T) {
	tr := NewTracker(uuid.New(), 3)
	tr.Update(StepUploadComplete, 100, "")
	snap := tr.Complete("All study material is ready")

	assert.Equal(t, 100, snap.OverallPct)
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Equal(t, StepCompleted, snap.Step)
	assert.Equal(t, 0, snap.ETASeconds)
}

func TestStepWeights(t *testing.T) {
	tr := NewTracker(uuid.New(), 1)

	// upload_complete fully done contributes exactly its weight.
	snap := tr.Update(StepUploadComplete, 100, "")
	assert.Equal(t, 5, snap.OverallPct)

	// halfway through file_analysis adds half of its 10 points.
	snap = tr.Update(StepFileAnalysis, 50, "")
	assert.Equal(t, 10, snap.OverallPct)
}

func TestETANeverBelowMinimum(t *testing.T) {
	tr := NewTracker(uuid.New(), 1)
	snap := tr.Update(StepFinalizing, 99, "")
	assert.GreaterOrEqual(t, snap.ETASeconds, 10)
}

func TestETAScalesWithPages(t *testing.T) {
	small := NewTracker(uuid.New(), 2)
	large := NewTracker(uuid.New(), 60)

	snapSmall := small.Update(StepFileAnalysis, 0, "")
	snapLarge := large.Update(StepFileAnalysis, 0, "")
	assert.Greater(t, snapLarge.ETASeconds, snapSmall.ETASeconds)
}

func TestFailCarriesClassifiedMessage(t *testing.T) {
	var published []Snapshot
	tr := NewTracker(uuid.New(), 4, collectSink(&published))
	tr.Update(StepOCRProcessing, 50, "")

	snap := tr.Fail("The AI service is busy right now.")
	assert.Equal(t, StatusFailed, snap.Status)
	assert.Equal(t, StepFailed, snap.Step)
	assert.Equal(t, "The AI service is busy right now.", snap.Message)
	// overall keeps its last value, it never jumps to 100 on failure
	assert.Less(t, snap.OverallPct, 100)
	require.NotEmpty(t, published)
	assert.Equal(t, StatusFailed, published[len(published)-1].Status)
}

func TestUpdatePages(t *testing.T) {
	tr := NewTracker(uuid.New(), 10)
	snap := tr.UpdatePages(StepOCRProcessing, 5, "5 of 10 pages")
	assert.Equal(t, 50, snap.StepPct)
	assert.Equal(t, 5, snap.PagesProcessed)
	assert.Equal(t, 10, snap.TotalPages)
}
