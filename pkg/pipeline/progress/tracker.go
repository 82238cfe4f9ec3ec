// Package progress implements the weighted-step progress state machine for
// one processing session. Extraction and generation code only push updates
// through a Tracker; they never read or mutate session progress directly.
package progress

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// Step enumerates the ordered pipeline stages.
type Step string

const (
	StepUploadComplete       Step = "upload_complete"
	StepFileAnalysis         Step = "file_analysis"
	StepOCRProcessing        Step = "ocr_processing"
	StepAIProcessing         Step = "ai_processing"
	StepGeneratingQuestions  Step = "generating_questions"
	StepGeneratingMockTests  Step = "generating_mock_tests"
	StepGeneratingMnemonics  Step = "generating_mnemonics"
	StepGeneratingCheatSheet Step = "generating_cheat_sheets"
	StepGeneratingNotes      Step = "generating_notes"
	StepFinalizing           Step = "finalizing"
	StepCompleted            Step = "completed"
	StepFailed               Step = "failed"
)

// Status is the session terminal status.
type Status string

const (
	StatusPending    Status = "pending"
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

type stepInfo struct {
	step Step
	// relative weight toward overall percentage; weights sum to 100
	weight int
	// rough seconds of work per document page, used for the ETA estimate
	perPageSeconds float64
}

// Ordered stage table. completed carries zero weight: reaching it means 100.
var stepTable = []stepInfo{
	{StepUploadComplete, 5, 0.5},
	{StepFileAnalysis, 10, 1},
	{StepOCRProcessing, 15, 8},
	{StepAIProcessing, 10, 4},
	{StepGeneratingQuestions, 20, 6},
	{StepGeneratingMockTests, 15, 2},
	{StepGeneratingMnemonics, 10, 2},
	{StepGeneratingCheatSheet, 10, 2},
	{StepGeneratingNotes, 5, 1},
	{StepFinalizing, 5, 0.5},
	{StepCompleted, 0, 0},
}

const minimumETASeconds = 10

func stepIndex(step Step) int {
	for i, info := range stepTable {
		if info.step == step {
			return i
		}
	}
	return -1
}

// Snapshot is one published progress state.
type Snapshot struct {
	SessionId      uuid.UUID `json:"session_id"`
	Step           Step      `json:"step"`
	StepPct        int       `json:"step_pct"`
	OverallPct     int       `json:"overall_pct"`
	ETASeconds     int       `json:"eta_seconds"`
	Message        string    `json:"message,omitempty"`
	Status         Status    `json:"status"`
	PagesProcessed int       `json:"pages_processed,omitempty"`
	TotalPages     int       `json:"total_pages,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Sink receives every published snapshot. Implemented by the session store
// writer and the websocket fan-out.
type Sink interface {
	Publish(snapshot Snapshot)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(Snapshot)

func (f SinkFunc) Publish(s Snapshot) { f(s) }

// Tracker drives progress for a single session. Safe for concurrent use,
// though a session's pipeline publishes updates sequentially.
type Tracker struct {
	mu sync.Mutex

	sessionId      uuid.UUID
	totalPages     int
	pagesProcessed int
	currentIdx     int
	stepPct        int
	lastOverall    int
	status         Status
	sinks          []Sink
}

// NewTracker creates a tracker for one session run. totalPages scales the
// ETA estimate; pass 1 for topic-only sessions.
func NewTracker(sessionId uuid.UUID, totalPages int, sinks ...Sink) *Tracker {
	if totalPages < 1 {
		totalPages = 1
	}
	return &Tracker{
		sessionId:  sessionId,
		totalPages: totalPages,
		currentIdx: -1,
		status:     StatusPending,
		sinks:      sinks,
	}
}

// Update records progress within a step and publishes a snapshot.
// Overall percentage is monotonically non-decreasing: a stale update for an
// earlier step after a later step has started can never regress the value,
// because each step's contribution is only counted once its floor is known.
func (t *Tracker) Update(step Step, stepPct int, message string) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	idx := stepIndex(step)
	if idx > t.currentIdx {
		t.currentIdx = idx
	}
	if stepPct < 0 {
		stepPct = 0
	}
	if stepPct > 100 {
		stepPct = 100
	}
	t.stepPct = stepPct
	if t.status == StatusPending {
		t.status = StatusProcessing
	}
	if step == StepCompleted {
		t.status = StatusCompleted
	}

	return t.publishLocked(step, stepPct, message)
}

// UpdatePages records per-page progress for page-driven steps.
func (t *Tracker) UpdatePages(step Step, pagesProcessed int, message string) Snapshot {
	t.mu.Lock()
	t.pagesProcessed = pagesProcessed
	t.mu.Unlock()

	pct := 0
	if t.totalPages > 0 {
		pct = pagesProcessed * 100 / t.totalPages
	}
	return t.Update(step, pct, message)
}

// Complete marks the session finished and publishes the terminal snapshot.
func (t *Tracker) Complete(message string) Snapshot {
	return t.Update(StepCompleted, 100, message)
}

// Fail marks the session failed. userMessage must come from the error
// classifier, never from a raw error string.
func (t *Tracker) Fail(userMessage string) Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.status = StatusFailed
	snapshot := Snapshot{
		SessionId:      t.sessionId,
		Step:           StepFailed,
		StepPct:        t.stepPct,
		OverallPct:     t.lastOverall,
		Message:        userMessage,
		Status:         StatusFailed,
		PagesProcessed: t.pagesProcessed,
		TotalPages:     t.totalPages,
		UpdatedAt:      time.Now(),
	}
	for _, sink := range t.sinks {
		sink.Publish(snapshot)
	}
	return snapshot
}

func (t *Tracker) publishLocked(step Step, stepPct int, message string) Snapshot {
	overall := t.overallLocked()
	if overall < t.lastOverall {
		overall = t.lastOverall
	}
	t.lastOverall = overall

	snapshot := Snapshot{
		SessionId:      t.sessionId,
		Step:           step,
		StepPct:        stepPct,
		OverallPct:     overall,
		ETASeconds:     t.etaLocked(),
		Message:        message,
		Status:         t.status,
		PagesProcessed: t.pagesProcessed,
		TotalPages:     t.totalPages,
		UpdatedAt:      time.Now(),
	}
	for _, sink := range t.sinks {
		sink.Publish(snapshot)
	}
	return snapshot
}

// overallLocked sums the weights of fully-completed prior steps plus the
// weighted fraction of the current one, capped at 100.
func (t *Tracker) overallLocked() int {
	if t.currentIdx < 0 {
		return 0
	}
	total := 0
	for i := 0; i < t.currentIdx && i < len(stepTable); i++ {
		total += stepTable[i].weight
	}
	if t.currentIdx < len(stepTable) {
		total += stepTable[t.currentIdx].weight * t.stepPct / 100
	}
	if total > 100 {
		total = 100
	}
	return total
}

// etaLocked estimates remaining seconds: the unfinished share of the
// current step plus the full weight of every following step, scaled by the
// page count. Never reports less than the fixed minimum so the UI never
// shows zero while work remains.
func (t *Tracker) etaLocked() int {
	if t.status == StatusCompleted {
		return 0
	}
	if t.currentIdx < 0 {
		return minimumETASeconds
	}
	pages := float64(t.totalPages)
	remaining := 0.0
	if t.currentIdx < len(stepTable) {
		current := stepTable[t.currentIdx]
		remaining += current.perPageSeconds * pages * float64(100-t.stepPct) / 100
	}
	for i := t.currentIdx + 1; i < len(stepTable); i++ {
		remaining += stepTable[i].perPageSeconds * pages
	}
	eta := int(remaining)
	if eta < minimumETASeconds {
		eta = minimumETASeconds
	}
	return eta
}
