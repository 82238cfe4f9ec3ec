package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"ai-studyprep-be/internal/constant"
	"ai-studyprep-be/internal/entity"
	"ai-studyprep-be/internal/pkg/logger"
	"ai-studyprep-be/internal/repository/specification"
	"ai-studyprep-be/internal/repository/unitofwork"
	"ai-studyprep-be/pkg/events"
	"ai-studyprep-be/pkg/pdf"
	"ai-studyprep-be/pkg/pipeline/aggregate"
	"ai-studyprep-be/pkg/pipeline/batch"
	"ai-studyprep-be/pkg/pipeline/extract"
	"ai-studyprep-be/pkg/pipeline/generate"
	"ai-studyprep-be/pkg/pipeline/progress"
	"ai-studyprep-be/pkg/pipeline/recovery"
	"ai-studyprep-be/pkg/storage"

	"github.com/google/uuid"
)

// EventPublisher abstracts the NATS publisher so processing keeps working
// when the event bus is down.
type EventPublisher interface {
	Publish(ctx context.Context, event events.Event) error
}

// ProgressDelivery pushes progress snapshots to connected clients.
// Implemented by the WebSocket Hub.
type ProgressDelivery interface {
	SendProgressSnapshot(userID uuid.UUID, snapshot progress.Snapshot)
}

type IProcessingService interface {
	Process(ctx context.Context, sessionId uuid.UUID) error
}

type processingService struct {
	uowFactory   unitofwork.RepositoryFactory
	extractor    *extract.Extractor
	fileCache    *extract.FileCache
	orchestrator *generate.Orchestrator
	aggregator   *aggregate.Aggregator
	objectStore  storage.ObjectStore
	eventPub     EventPublisher
	delivery     ProgressDelivery
	logger       logger.ILogger
	localDir     string
}

func NewProcessingService(
	uowFactory unitofwork.RepositoryFactory,
	extractor *extract.Extractor,
	fileCache *extract.FileCache,
	orchestrator *generate.Orchestrator,
	aggregator *aggregate.Aggregator,
	objectStore storage.ObjectStore,
	eventPub EventPublisher,
	delivery ProgressDelivery,
	log logger.ILogger,
	localDir string,
) IProcessingService {
	return &processingService{
		uowFactory:   uowFactory,
		extractor:    extractor,
		fileCache:    fileCache,
		orchestrator: orchestrator,
		aggregator:   aggregator,
		objectStore:  objectStore,
		eventPub:     eventPub,
		delivery:     delivery,
		logger:       log,
		localDir:     localDir,
	}
}

// batchText pairs a planned batch with whatever text extraction produced
// for it. Batches that failed extraction carry an empty string.
type batchText struct {
	batch *batch.Batch
	text  string
}

func (s *processingService) Process(ctx context.Context, sessionId uuid.UUID) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.StudySessionRepository().FindOne(ctx, specification.ByID{ID: sessionId})
	if err != nil {
		return err
	}
	if session == nil {
		return fmt.Errorf("session %s not found", sessionId)
	}
	if session.Status == constant.SessionStatusCompleted {
		s.logger.Warn("ProcessingService", "Session already completed, skipping", map[string]interface{}{"session_id": sessionId})
		return nil
	}

	tracker := progress.NewTracker(session.Id, session.PageCount,
		s.storeSink(session.Id),
		s.deliverySink(session.UserId),
	)
	tracker.Update(progress.StepUploadComplete, 100, "Upload received")

	defer s.fileCache.EndSession(session.Id.String())

	var texts []batchText
	var mode string
	if session.SourceKind == constant.SourceKindTopic {
		texts, mode = s.topicBatch(session)
	} else {
		texts, mode, err = s.extractDocument(ctx, session, tracker)
		if err != nil {
			return s.fail(ctx, session, tracker, err, "extraction")
		}
	}

	usable := make([]batchText, 0, len(texts))
	for _, bt := range texts {
		if bt.text != "" {
			usable = append(usable, bt)
		}
	}
	if len(usable) == 0 {
		err := fmt.Errorf("no readable text in any of %d batches", len(texts))
		return s.failWith(ctx, session, tracker, err,
			"We could not read any text from this document. Try uploading a clearer copy.")
	}

	docType, err := s.orchestrator.ClassifyDocument(ctx, usable[0].text)
	if err != nil {
		// Classification already defaulted internally; only a dead provider
		// reaches here, and generation would hit the same wall.
		return s.fail(ctx, session, tracker, err, "generation")
	}

	contents := make([]generate.BatchContent, 0, len(usable))
	for i, bt := range usable {
		if ctx.Err() != nil {
			return s.fail(ctx, session, tracker, ctx.Err(), "generation")
		}
		tracker.Update(progress.StepGeneratingQuestions, i*100/len(usable),
			fmt.Sprintf("Generating content for section %d of %d", i+1, len(usable)))
		contents = append(contents, s.orchestrator.Generate(ctx, bt.batch.Id.String(), bt.text, docType))
	}
	tracker.Update(progress.StepGeneratingQuestions, 100, "Question generation complete")

	tracker.Update(progress.StepGeneratingMockTests, 50, "Assembling mock test")
	tracker.Update(progress.StepGeneratingMnemonics, 50, "Collecting mnemonics")
	tracker.Update(progress.StepGeneratingCheatSheet, 50, "Compiling cheat sheets")
	tracker.Update(progress.StepGeneratingNotes, 50, "Writing study notes")
	result := s.aggregator.Aggregate(session.Name, contents)

	tracker.Update(progress.StepFinalizing, 0, "Saving your study materials")
	if err := s.persist(ctx, session, mode, result); err != nil {
		return s.fail(ctx, session, tracker, err, "persistence")
	}
	tracker.Complete("Your study materials are ready")

	s.publishCompleted(ctx, session, result)
	return nil
}

// topicBatch synthesizes the single batch a topic-only session generates
// from. There is no document, so extraction is skipped entirely.
func (s *processingService) topicBatch(session *entity.StudySession) ([]batchText, string) {
	plan := batch.Plan(session.Id, 1)
	text := fmt.Sprintf("Study topic: %s\n\nGenerate study material covering this topic for the session %q.",
		session.Topic, session.Name)
	return []batchText{{batch: plan[0], text: text}}, constant.ProcessingModeAI
}

func (s *processingService) extractDocument(ctx context.Context, session *entity.StudySession, tracker *progress.Tracker) ([]batchText, string, error) {
	path, cleanup, err := s.resolveDocument(ctx, session)
	if err != nil {
		return nil, "", err
	}
	defer cleanup()

	tracker.Update(progress.StepFileAnalysis, 50, "Analyzing document")

	pageCount := session.PageCount
	if pageCount == 0 {
		if pageCount, err = pdfPageCount(s.fileCache, session.Id.String(), path); err != nil {
			// An unreadable page count degrades to a single page-1 batch
			// rather than failing the session; direct text may still work.
			s.logger.Warn("ProcessingService", "Page count unavailable, using single batch", map[string]interface{}{
				"session_id": session.Id,
				"error":      err.Error(),
			})
			pageCount = 1
		}
	}
	batches := batch.Plan(session.Id, pageCount)
	tracker.Update(progress.StepFileAnalysis, 100,
		fmt.Sprintf("Document split into %d sections", len(batches)))

	texts := make([]batchText, 0, len(batches))
	mode := ""
	pagesDone := 0
	for _, b := range batches {
		if ctx.Err() != nil {
			return nil, "", ctx.Err()
		}

		res, err := s.extractor.Extract(ctx, extract.Request{
			SessionId: session.Id.String(),
			PDFPath:   path,
			StartPage: b.StartPage,
			EndPage:   b.EndPage,
		})
		if err != nil {
			// One unreadable section never sinks the session. Log and move on;
			// the zero-usable-text check below catches the total failure case.
			decision := recovery.Classify(err, "batch_extraction")
			s.logger.Warn("ProcessingService", "Batch extraction failed", map[string]interface{}{
				"session_id": session.Id,
				"pages":      []int{b.StartPage, b.EndPage},
				"action":     string(decision.Action),
				"error":      decision.TechnicalDetails,
			})
			texts = append(texts, batchText{batch: b})
		} else {
			texts = append(texts, batchText{batch: b, text: res.Text})
			mode = widerMode(mode, modeFor(res))
		}

		pagesDone += b.PageCount()
		step := progress.StepOCRProcessing
		if mode == constant.ProcessingModeAI {
			step = progress.StepAIProcessing
		}
		tracker.UpdatePages(step, pagesDone,
			fmt.Sprintf("Read %d of %d pages", pagesDone, pageCount))
	}

	if mode == "" {
		mode = constant.ProcessingModeText
	}
	return texts, mode, nil
}

// resolveDocument returns a local path for the session's PDF, downloading
// it from object storage first when the session carries a storage key.
func (s *processingService) resolveDocument(ctx context.Context, session *entity.StudySession) (string, func(), error) {
	if session.StorageKey == nil {
		path := filepath.Join(s.localDir, session.Id.String(), session.OriginalFilename)
		return path, func() {}, nil
	}

	tmpPath := filepath.Join(os.TempDir(), fmt.Sprintf("session-%s.pdf", session.Id))
	path, err := s.objectStore.Download(ctx, *session.StorageKey, tmpPath)
	if err != nil {
		return "", nil, recovery.Tag(recovery.KindTransient, "document_download", err)
	}
	return path, func() { os.Remove(path) }, nil
}

func modeFor(res extract.Result) string {
	if res.UsedFallback || res.Decision == extract.DecisionAIVision {
		return constant.ProcessingModeAI
	}
	if res.Decision == extract.DecisionOCR {
		return constant.ProcessingModeOCR
	}
	return constant.ProcessingModeText
}

// widerMode keeps the most involved processing mode seen across batches.
func widerMode(a, b string) string {
	rank := map[string]int{constant.ProcessingModeText: 1, constant.ProcessingModeOCR: 2, constant.ProcessingModeAI: 3}
	if rank[b] > rank[a] {
		return b
	}
	return a
}

// persist writes every artifact of a finished session in one transaction.
func (s *processingService) persist(ctx context.Context, session *entity.StudySession, mode string, result aggregate.Result) error {
	now := time.Now()
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.Begin(ctx); err != nil {
		return err
	}
	defer uow.Rollback()

	questions := make([]*entity.Question, 0, len(result.Questions))
	for _, q := range result.Questions {
		questions = append(questions, &entity.Question{
			Id:           uuid.MustParse(q.Id),
			SessionId:    session.Id,
			UserId:       session.UserId,
			Text:         q.Text,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
			Difficulty:   q.Difficulty,
			Topic:        q.Topic,
			Source:       q.Source,
			CreatedAt:    now,
		})
	}
	if err := uow.QuestionRepository().CreateBatch(ctx, questions); err != nil {
		return err
	}

	mnemonics := make([]*entity.Mnemonic, 0, len(result.Mnemonics))
	for _, m := range result.Mnemonics {
		mnemonics = append(mnemonics, &entity.Mnemonic{
			Id:          uuid.MustParse(m.Id),
			SessionId:   session.Id,
			UserId:      session.UserId,
			Topic:       m.Topic,
			Text:        m.Text,
			Explanation: m.Explanation,
			KeyTerms:    m.KeyTerms,
			CreatedAt:   now,
		})
	}
	if err := uow.MnemonicRepository().CreateBatch(ctx, mnemonics); err != nil {
		return err
	}

	sheets := make([]*entity.CheatSheet, 0, len(result.CheatSheets))
	for _, sheet := range result.CheatSheets {
		sheets = append(sheets, &entity.CheatSheet{
			Id:             uuid.MustParse(sheet.Id),
			SessionId:      session.Id,
			UserId:         session.UserId,
			Title:          sheet.Title,
			KeyPoints:      sheet.KeyPoints,
			HighYieldFacts: sheet.HighYieldFacts,
			QuickReference: sheet.QuickReference,
			CreatedAt:      now,
		})
	}
	if err := uow.CheatSheetRepository().CreateBatch(ctx, sheets); err != nil {
		return err
	}

	note := &entity.Note{
		Id:                   uuid.MustParse(result.Note.Id),
		SessionId:            session.Id,
		UserId:               session.UserId,
		Title:                result.Note.Title,
		Content:              result.Note.Content,
		ImportantQuestionIds: parseIds(result.Note.ImportantQuestionIds),
		MnemonicIds:          parseIds(result.Note.MnemonicIds),
		SummaryPoints:        result.Note.SummaryPoints,
		CreatedAt:            now,
	}
	if err := uow.NoteRepository().Create(ctx, note); err != nil {
		return err
	}

	if result.MockTest != nil {
		test := &entity.MockTest{
			Id:              uuid.MustParse(result.MockTest.Id),
			SessionId:       session.Id,
			UserId:          session.UserId,
			Title:           result.MockTest.Title,
			QuestionIds:     parseIds(result.MockTest.QuestionIds),
			DurationMinutes: result.MockTest.DurationMinutes,
			TotalMarks:      result.MockTest.TotalMarks,
		}
		test.CreatedAt = now
		if err := uow.MockTestRepository().Create(ctx, test); err != nil {
			return err
		}
	}

	session.Status = constant.SessionStatusCompleted
	session.ProcessingMode = mode
	session.QuestionCount = len(questions)
	session.MnemonicCount = len(mnemonics)
	session.CheatSheetCount = len(sheets)
	session.UpdatedAt = &now
	if err := uow.StudySessionRepository().Update(ctx, session); err != nil {
		return err
	}

	return uow.Commit()
}

func parseIds(ids []string) []uuid.UUID {
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		parsed, err := uuid.Parse(id)
		if err != nil {
			continue
		}
		out = append(out, parsed)
	}
	return out
}

// fail classifies the error, records the failed state, and notifies
// listeners. The stored message is always the classifier's user-facing
// text, never the raw error.
func (s *processingService) fail(ctx context.Context, session *entity.StudySession, tracker *progress.Tracker, err error, phase string) error {
	decision := recovery.Classify(err, phase)
	s.logger.Error("ProcessingService", "Session processing failed", map[string]interface{}{
		"session_id": session.Id,
		"action":     string(decision.Action),
		"details":    decision.TechnicalDetails,
	})
	return s.failWith(ctx, session, tracker, err, decision.UserMessage)
}

// failWith records the failed state with an explicit user-facing message,
// for terminal conditions the classifier has no good vocabulary for.
func (s *processingService) failWith(ctx context.Context, session *entity.StudySession, tracker *progress.Tracker, err error, userMessage string) error {
	tracker.Fail(userMessage)

	if s.eventPub != nil {
		event := events.NewSessionFailed(session.Id.String(), session.UserId.String(), session.Name, session.Email, session.NotifyEmail, userMessage)
		if pubErr := s.eventPub.Publish(ctx, event); pubErr != nil {
			s.logger.Warn("ProcessingService", "Failed to publish failure event", map[string]interface{}{"error": pubErr.Error()})
		}
	}
	return err
}

func (s *processingService) publishCompleted(ctx context.Context, session *entity.StudySession, result aggregate.Result) {
	if s.eventPub == nil {
		return
	}
	counts := map[string]int{
		"questions":    len(result.Questions),
		"mnemonics":    len(result.Mnemonics),
		"cheat_sheets": len(result.CheatSheets),
	}
	event := events.NewSessionCompleted(session.Id.String(), session.UserId.String(), session.Name, session.Email, session.NotifyEmail, counts)
	if err := s.eventPub.Publish(ctx, event); err != nil {
		s.logger.Warn("ProcessingService", "Failed to publish completion event", map[string]interface{}{"error": err.Error()})
	}
}

// storeSink persists every snapshot to the session row. It deliberately
// uses a fresh background-scoped unit of work so a cancelled pipeline
// context can still record the failed state.
func (s *processingService) storeSink(sessionId uuid.UUID) progress.Sink {
	return progress.SinkFunc(func(snap progress.Snapshot) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		uow := s.uowFactory.NewUnitOfWork(ctx)
		err := uow.StudySessionRepository().UpdateProgress(ctx, sessionId, map[string]interface{}{
			"status":       string(snap.Status),
			"current_step": string(snap.Step),
			"step_pct":     snap.StepPct,
			"overall_pct":  snap.OverallPct,
			"eta_seconds":  snap.ETASeconds,
			"step_message": snap.Message,
			"updated_at":   snap.UpdatedAt,
		})
		if err != nil {
			s.logger.Warn("ProcessingService", "Failed to persist progress", map[string]interface{}{
				"session_id": sessionId,
				"error":      err.Error(),
			})
		}
	})
}

func (s *processingService) deliverySink(userId uuid.UUID) progress.Sink {
	return progress.SinkFunc(func(snap progress.Snapshot) {
		if s.delivery != nil {
			s.delivery.SendProgressSnapshot(userId, snap)
		}
	})
}

// pageCounter is swappable in tests, where no real PDF backs the session.
var pageCounter = pdf.PageCount

func pdfPageCount(cache *extract.FileCache, sessionId, path string) (int, error) {
	if count, ok := cache.GetPageCount(path); ok {
		return count, nil
	}
	count, err := pageCounter(path)
	if err != nil {
		return 0, err
	}
	cache.SetPageCount(sessionId, path, count)
	return count, nil
}
