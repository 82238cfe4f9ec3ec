package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ai-studyprep-be/internal/constant"
	"ai-studyprep-be/internal/entity"
	"ai-studyprep-be/internal/repository/contract"
	"ai-studyprep-be/internal/repository/specification"
	"ai-studyprep-be/internal/repository/unitofwork"
	"ai-studyprep-be/pkg/events"
	"ai-studyprep-be/pkg/llm"
	"ai-studyprep-be/pkg/pipeline/aggregate"
	"ai-studyprep-be/pkg/pipeline/extract"
	"ai-studyprep-be/pkg/pipeline/generate"
	"ai-studyprep-be/pkg/pipeline/progress"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }

// fakeStore is the shared in-memory backing for every fake repository.
type fakeStore struct {
	session   *entity.StudySession
	progress  []map[string]interface{}
	questions []*entity.Question
	mnemonics []*entity.Mnemonic
	sheets    []*entity.CheatSheet
	note      *entity.Note
	mockTest  *entity.MockTest
}

type fakeUow struct{ store *fakeStore }

func (u *fakeUow) Begin(ctx context.Context) error { return nil }
func (u *fakeUow) Commit() error                   { return nil }
func (u *fakeUow) Rollback() error                 { return nil }

func (u *fakeUow) StudySessionRepository() contract.StudySessionRepository {
	return &fakeSessionRepo{store: u.store}
}
func (u *fakeUow) QuestionRepository() contract.QuestionRepository {
	return &fakeQuestionRepo{store: u.store}
}
func (u *fakeUow) MnemonicRepository() contract.MnemonicRepository {
	return &fakeMnemonicRepo{store: u.store}
}
func (u *fakeUow) CheatSheetRepository() contract.CheatSheetRepository {
	return &fakeCheatSheetRepo{store: u.store}
}
func (u *fakeUow) NoteRepository() contract.NoteRepository {
	return &fakeNoteRepo{store: u.store}
}
func (u *fakeUow) MockTestRepository() contract.MockTestRepository {
	return &fakeMockTestRepo{store: u.store}
}

type fakeFactory struct{ store *fakeStore }

func (f *fakeFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return &fakeUow{store: f.store}
}

type fakeSessionRepo struct{ store *fakeStore }

func (r *fakeSessionRepo) Create(ctx context.Context, s *entity.StudySession) error {
	r.store.session = s
	return nil
}
func (r *fakeSessionRepo) Update(ctx context.Context, s *entity.StudySession) error {
	r.store.session = s
	return nil
}
func (r *fakeSessionRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeSessionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.StudySession, error) {
	return r.store.session, nil
}
func (r *fakeSessionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.StudySession, error) {
	if r.store.session == nil {
		return nil, nil
	}
	return []*entity.StudySession{r.store.session}, nil
}
func (r *fakeSessionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return 0, nil
}
func (r *fakeSessionRepo) UpdateProgress(ctx context.Context, id uuid.UUID, fields map[string]interface{}) error {
	r.store.progress = append(r.store.progress, fields)
	return nil
}

type fakeQuestionRepo struct{ store *fakeStore }

func (r *fakeQuestionRepo) Create(ctx context.Context, q *entity.Question) error {
	r.store.questions = append(r.store.questions, q)
	return nil
}
func (r *fakeQuestionRepo) CreateBatch(ctx context.Context, qs []*entity.Question) error {
	r.store.questions = append(r.store.questions, qs...)
	return nil
}
func (r *fakeQuestionRepo) Delete(ctx context.Context, id uuid.UUID) error { return nil }
func (r *fakeQuestionRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Question, error) {
	return nil, nil
}
func (r *fakeQuestionRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Question, error) {
	return r.store.questions, nil
}
func (r *fakeQuestionRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.questions)), nil
}

type fakeMnemonicRepo struct{ store *fakeStore }

func (r *fakeMnemonicRepo) CreateBatch(ctx context.Context, ms []*entity.Mnemonic) error {
	r.store.mnemonics = append(r.store.mnemonics, ms...)
	return nil
}
func (r *fakeMnemonicRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.Mnemonic, error) {
	return r.store.mnemonics, nil
}
func (r *fakeMnemonicRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.mnemonics)), nil
}

type fakeCheatSheetRepo struct{ store *fakeStore }

func (r *fakeCheatSheetRepo) CreateBatch(ctx context.Context, cs []*entity.CheatSheet) error {
	r.store.sheets = append(r.store.sheets, cs...)
	return nil
}
func (r *fakeCheatSheetRepo) FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.CheatSheet, error) {
	return r.store.sheets, nil
}
func (r *fakeCheatSheetRepo) Count(ctx context.Context, specs ...specification.Specification) (int64, error) {
	return int64(len(r.store.sheets)), nil
}

type fakeNoteRepo struct{ store *fakeStore }

func (r *fakeNoteRepo) Create(ctx context.Context, n *entity.Note) error {
	r.store.note = n
	return nil
}
func (r *fakeNoteRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.Note, error) {
	return r.store.note, nil
}

type fakeMockTestRepo struct{ store *fakeStore }

func (r *fakeMockTestRepo) Create(ctx context.Context, t *entity.MockTest) error {
	r.store.mockTest = t
	return nil
}
func (r *fakeMockTestRepo) FindOne(ctx context.Context, specs ...specification.Specification) (*entity.MockTest, error) {
	return r.store.mockTest, nil
}

// fakeEventPub records published bus events.
type fakeEventPub struct{ published []events.Event }

func (f *fakeEventPub) Publish(ctx context.Context, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

// fakeDelivery records pushed progress snapshots.
type fakeDelivery struct{ snapshots []progress.Snapshot }

func (f *fakeDelivery) SendProgressSnapshot(userID uuid.UUID, snap progress.Snapshot) {
	f.snapshots = append(f.snapshots, snap)
}

// fakeProvider answers each generation prompt by a distinctive fragment.
type fakeProvider struct{}

func (f *fakeProvider) Chat(ctx context.Context, history []llm.Message, opts ...llm.Option) (string, error) {
	return "", nil
}

func (f *fakeProvider) Generate(ctx context.Context, prompt string, opts ...llm.Option) (string, error) {
	switch {
	case strings.Contains(prompt, "document classifier"):
		return "STUDY_NOTES", nil
	case strings.Contains(prompt, "Mix difficulties"):
		return `[
			{"question": "What produces ATP?", "options": ["Nucleus", "Mitochondria", "Ribosome", "Golgi body"], "correct_index": 1, "explanation": "Oxidative phosphorylation.", "difficulty": "easy", "topic": "Cell biology"},
			{"question": "Which phase fixes carbon?", "options": ["Light reactions", "Calvin cycle", "Glycolysis", "Fermentation"], "correct_index": 1, "explanation": "The Calvin cycle fixes CO2.", "difficulty": "medium", "topic": "Photosynthesis"}
		]`, nil
	case strings.Contains(prompt, "memorable mnemonics"):
		return `[{"topic": "Krebs cycle", "mnemonic": "Citrate Is Krebs' Starting Substrate", "explanation": "First letters track the intermediates.", "key_terms": ["citrate"]}]`, nil
	case strings.Contains(prompt, "cheat-sheet key points"):
		return `["Mitochondria. Site of ATP synthesis.", "Calvin cycle. Fixes carbon into sugar."]`, nil
	case strings.Contains(prompt, "most important concepts"):
		return `["mitochondria", "calvin cycle"]`, nil
	default:
		return "[]", nil
	}
}

func newTestProcessingService(store *fakeStore, cache *extract.FileCache, eventPub *fakeEventPub, delivery *fakeDelivery, localDir string) IProcessingService {
	log := nopLogger{}
	extractor := extract.NewExtractor(cache, nil, nil, extract.PreferOCR, log)
	orchestrator := generate.NewOrchestrator(&fakeProvider{}, log)
	aggregator := aggregate.NewAggregator(log)

	return NewProcessingService(
		&fakeFactory{store: store},
		extractor,
		cache,
		orchestrator,
		aggregator,
		nil,
		eventPub,
		delivery,
		log,
		localDir,
	)
}

func TestProcessDocumentSessionEndToEnd(t *testing.T) {
	sessionId := uuid.New()
	userId := uuid.New()
	localDir := t.TempDir()
	session := &entity.StudySession{
		Id:               sessionId,
		UserId:           userId,
		Name:             "Biology Finals",
		SourceKind:       constant.SourceKindDocument,
		OriginalFilename: "notes.pdf",
		PageCount:        4,
		Status:           constant.SessionStatusPending,
		NotifyEmail:      true,
		Email:            "student@example.com",
		CreatedAt:        time.Now(),
	}
	store := &fakeStore{session: session}

	// Seed the direct-text probe so extraction resolves in memory. Four
	// pages plan as a single batch covering pages 1 through 4.
	cache := extract.NewFileCache(time.Minute)
	docPath := filepath.Join(localDir, sessionId.String(), "notes.pdf")
	cache.SetText(sessionId.String(), docPath, 1, 4, strings.Repeat("The mitochondria synthesize ATP. ", 10))

	eventPub := &fakeEventPub{}
	delivery := &fakeDelivery{}
	svc := newTestProcessingService(store, cache, eventPub, delivery, localDir)

	err := svc.Process(context.Background(), sessionId)
	require.NoError(t, err)

	assert.Equal(t, constant.SessionStatusCompleted, store.session.Status)
	assert.Equal(t, constant.ProcessingModeText, store.session.ProcessingMode)
	assert.Len(t, store.questions, 2)
	assert.Len(t, store.mnemonics, 1)
	assert.Equal(t, len(store.questions), store.session.QuestionCount)

	require.NotNil(t, store.note)
	require.NotNil(t, store.mockTest)
	assert.Contains(t, store.note.Title, "Biology Finals")

	// Every persisted question belongs to the session and its owner.
	for _, q := range store.questions {
		assert.Equal(t, sessionId, q.SessionId)
		assert.Equal(t, userId, q.UserId)
	}

	require.NotEmpty(t, eventPub.published)
	last := eventPub.published[len(eventPub.published)-1]
	assert.Equal(t, events.TypeSessionCompleted, last.EventType())
	assert.Equal(t, "student@example.com", last.Payload()["email"])

	// Progress reached the terminal snapshot and never regressed.
	require.NotEmpty(t, delivery.snapshots)
	final := delivery.snapshots[len(delivery.snapshots)-1]
	assert.Equal(t, progress.StatusCompleted, final.Status)
	assert.Equal(t, 100, final.OverallPct)
	prev := 0
	for _, snap := range delivery.snapshots {
		assert.GreaterOrEqual(t, snap.OverallPct, prev)
		prev = snap.OverallPct
	}
}

func TestProcessDocumentSessionWithUnreadablePageCount(t *testing.T) {
	sessionId := uuid.New()
	localDir := t.TempDir()
	session := &entity.StudySession{
		Id:               sessionId,
		UserId:           uuid.New(),
		Name:             "Scanned Handout",
		SourceKind:       constant.SourceKindDocument,
		OriginalFilename: "handout.pdf",
		Status:           constant.SessionStatusPending,
		CreatedAt:        time.Now(),
	}
	store := &fakeStore{session: session}

	original := pageCounter
	pageCounter = func(string) (int, error) {
		return 0, errors.New("corrupt xref table")
	}
	defer func() { pageCounter = original }()

	// Unknown page count degrades to a single batch on page 1; readable
	// text there still carries the session to completion.
	cache := extract.NewFileCache(time.Minute)
	docPath := filepath.Join(localDir, sessionId.String(), "handout.pdf")
	cache.SetText(sessionId.String(), docPath, 1, 1, strings.Repeat("The mitochondria synthesize ATP. ", 10))

	delivery := &fakeDelivery{}
	svc := newTestProcessingService(store, cache, &fakeEventPub{}, delivery, localDir)

	require.NoError(t, svc.Process(context.Background(), sessionId))

	assert.Equal(t, constant.SessionStatusCompleted, store.session.Status)
	assert.NotEmpty(t, store.questions)
	final := delivery.snapshots[len(delivery.snapshots)-1]
	assert.Equal(t, progress.StatusCompleted, final.Status)
}

func TestProcessTopicSessionSkipsExtraction(t *testing.T) {
	sessionId := uuid.New()
	session := &entity.StudySession{
		Id:         sessionId,
		UserId:     uuid.New(),
		Name:       "Krebs Cycle Crash Course",
		SourceKind: constant.SourceKindTopic,
		Topic:      "The Krebs cycle",
		PageCount:  1,
		Status:     constant.SessionStatusPending,
		CreatedAt:  time.Now(),
	}
	store := &fakeStore{session: session}
	cache := extract.NewFileCache(time.Minute)
	eventPub := &fakeEventPub{}
	svc := newTestProcessingService(store, cache, eventPub, &fakeDelivery{}, t.TempDir())

	err := svc.Process(context.Background(), sessionId)
	require.NoError(t, err)

	assert.Equal(t, constant.SessionStatusCompleted, store.session.Status)
	assert.Equal(t, constant.ProcessingModeAI, store.session.ProcessingMode)
	assert.NotEmpty(t, store.questions)
}

func TestProcessFailsWhenNoTextExtractable(t *testing.T) {
	sessionId := uuid.New()
	session := &entity.StudySession{
		Id:               sessionId,
		UserId:           uuid.New(),
		Name:             "Scanned Handout",
		SourceKind:       constant.SourceKindDocument,
		OriginalFilename: "scan.pdf",
		PageCount:        2,
		Status:           constant.SessionStatusPending,
		Email:            "student@example.com",
		NotifyEmail:      true,
		CreatedAt:        time.Now(),
	}
	store := &fakeStore{session: session}

	// No cached text, no OCR, no vision: extraction has nowhere to go.
	cache := extract.NewFileCache(time.Minute)
	localDir := t.TempDir()
	docPath := filepath.Join(localDir, sessionId.String(), "scan.pdf")
	cache.SetText(sessionId.String(), docPath, 1, 2, "")

	eventPub := &fakeEventPub{}
	delivery := &fakeDelivery{}
	svc := newTestProcessingService(store, cache, eventPub, delivery, localDir)

	err := svc.Process(context.Background(), sessionId)
	require.Error(t, err)

	// The tracker's failed snapshot reached both sinks.
	require.NotEmpty(t, delivery.snapshots)
	final := delivery.snapshots[len(delivery.snapshots)-1]
	assert.Equal(t, progress.StatusFailed, final.Status)
	assert.NotEmpty(t, final.Message)
	// User-facing message, not a raw error string.
	assert.NotContains(t, final.Message, "batches")

	require.NotEmpty(t, eventPub.published)
	assert.Equal(t, events.TypeSessionFailed, eventPub.published[len(eventPub.published)-1].EventType())

	require.NotEmpty(t, store.progress)
	lastProgress := store.progress[len(store.progress)-1]
	assert.Equal(t, string(progress.StatusFailed), lastProgress["status"])
}

func TestProcessSkipsAlreadyCompletedSession(t *testing.T) {
	sessionId := uuid.New()
	store := &fakeStore{session: &entity.StudySession{
		Id:     sessionId,
		Status: constant.SessionStatusCompleted,
	}}
	svc := newTestProcessingService(store, extract.NewFileCache(time.Minute), &fakeEventPub{}, &fakeDelivery{}, t.TempDir())

	err := svc.Process(context.Background(), sessionId)
	require.NoError(t, err)
	assert.Empty(t, store.progress)
}
