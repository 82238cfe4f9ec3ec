package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"ai-studyprep-be/internal/constant"
	"ai-studyprep-be/internal/dto"
	"ai-studyprep-be/internal/entity"
	"ai-studyprep-be/internal/repository/specification"
	"ai-studyprep-be/internal/repository/unitofwork"
	"ai-studyprep-be/pkg/pdf"
	"ai-studyprep-be/pkg/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ISessionService interface {
	CreateFromDocument(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentSessionRequest, localPath, originalFilename string) (*dto.CreateSessionResponse, error)
	CreateFromTopic(ctx context.Context, userId uuid.UUID, req *dto.CreateTopicSessionRequest) (*dto.CreateSessionResponse, error)
	GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionResponse, error)
	Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowSessionResponse, error)
	Progress(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SessionProgressResponse, error)
	Questions(ctx context.Context, userId uuid.UUID, id uuid.UUID, difficulty string) ([]*dto.QuestionResponse, error)
	Mnemonics(ctx context.Context, userId uuid.UUID, id uuid.UUID) ([]*dto.MnemonicResponse, error)
	CheatSheets(ctx context.Context, userId uuid.UUID, id uuid.UUID) ([]*dto.CheatSheetResponse, error)
	Note(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error)
	MockTest(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.MockTestResponse, error)
}

type sessionService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
	objectStore      storage.ObjectStore
}

func NewSessionService(
	uowFactory unitofwork.RepositoryFactory,
	publisherService IPublisherService,
	objectStore storage.ObjectStore,
) ISessionService {
	return &sessionService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
		objectStore:      objectStore,
	}
}

func (s *sessionService) CreateFromDocument(ctx context.Context, userId uuid.UUID, req *dto.CreateDocumentSessionRequest, localPath, originalFilename string) (*dto.CreateSessionResponse, error) {
	if !strings.HasSuffix(strings.ToLower(originalFilename), ".pdf") {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Only PDF documents are supported")
	}

	pageCount, err := pdf.PageCount(localPath)
	if err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "The uploaded file could not be read as a PDF")
	}

	sessionId := uuid.New()
	uploaded, err := s.objectStore.Upload(ctx, localPath, sessionId.String(), originalFilename)
	if err != nil {
		return nil, fmt.Errorf("store upload: %w", err)
	}

	session := &entity.StudySession{
		Id:               sessionId,
		UserId:           userId,
		Name:             req.Name,
		SourceKind:       constant.SourceKindDocument,
		OriginalFilename: originalFilename,
		StorageKey:       uploaded.StorageKey,
		PageCount:        pageCount,
		Status:           constant.SessionStatusPending,
		NotifyEmail:      req.NotifyEmail,
		Email:            req.Email,
		CreatedAt:        time.Now(),
	}

	if err := s.createAndEnqueue(ctx, session); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: session.Id, Status: session.Status}, nil
}

func (s *sessionService) CreateFromTopic(ctx context.Context, userId uuid.UUID, req *dto.CreateTopicSessionRequest) (*dto.CreateSessionResponse, error) {
	session := &entity.StudySession{
		Id:          uuid.New(),
		UserId:      userId,
		Name:        req.Name,
		SourceKind:  constant.SourceKindTopic,
		Topic:       req.Topic,
		PageCount:   1, // topic sessions have no document; keeps ETA math sane
		Status:      constant.SessionStatusPending,
		NotifyEmail: req.NotifyEmail,
		Email:       req.Email,
		CreatedAt:   time.Now(),
	}

	if err := s.createAndEnqueue(ctx, session); err != nil {
		return nil, err
	}

	return &dto.CreateSessionResponse{Id: session.Id, Status: session.Status}, nil
}

func (s *sessionService) createAndEnqueue(ctx context.Context, session *entity.StudySession) error {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	if err := uow.StudySessionRepository().Create(ctx, session); err != nil {
		return err
	}

	payload, err := json.Marshal(dto.PublishProcessSessionMessage{SessionId: session.Id})
	if err != nil {
		return err
	}
	return s.publisherService.Publish(ctx, payload)
}

func (s *sessionService) GetAll(ctx context.Context, userId uuid.UUID) ([]*dto.GetAllSessionResponse, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)

	sessions, err := uow.StudySessionRepository().FindAll(ctx,
		specification.ByUserId{UserId: userId},
		specification.OrderBy{Field: "created_at", Desc: true},
	)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.GetAllSessionResponse, 0, len(sessions))
	for _, session := range sessions {
		item := &dto.GetAllSessionResponse{
			Id:         session.Id,
			Name:       session.Name,
			SourceKind: session.SourceKind,
			Status:     session.Status,
			OverallPct: session.OverallPct,
			PageCount:  session.PageCount,
			CreatedAt:  session.CreatedAt,
		}
		if session.Status == constant.SessionStatusCompleted {
			item.CompletedAt = session.UpdatedAt
		}
		result = append(result, item)
	}
	return result, nil
}

func (s *sessionService) Show(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.ShowSessionResponse, error) {
	session, err := s.findOwnedSession(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	return &dto.ShowSessionResponse{
		Id:               session.Id,
		Name:             session.Name,
		SourceKind:       session.SourceKind,
		Topic:            session.Topic,
		OriginalFilename: session.OriginalFilename,
		PageCount:        session.PageCount,
		ProcessingMode:   session.ProcessingMode,
		Status:           session.Status,
		QuestionCount:    session.QuestionCount,
		MnemonicCount:    session.MnemonicCount,
		CheatSheetCount:  session.CheatSheetCount,
		CreatedAt:        session.CreatedAt,
		UpdatedAt:        session.UpdatedAt,
	}, nil
}

func (s *sessionService) Progress(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.SessionProgressResponse, error) {
	session, err := s.findOwnedSession(ctx, userId, id)
	if err != nil {
		return nil, err
	}

	return &dto.SessionProgressResponse{
		SessionId:  session.Id,
		Status:     session.Status,
		Step:       session.CurrentStep,
		StepPct:    session.StepPct,
		OverallPct: session.OverallPct,
		EtaSeconds: session.EtaSeconds,
		Message:    session.StepMessage,
	}, nil
}

func (s *sessionService) Questions(ctx context.Context, userId uuid.UUID, id uuid.UUID, difficulty string) ([]*dto.QuestionResponse, error) {
	if _, err := s.findOwnedSession(ctx, userId, id); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	specs := []specification.Specification{
		specification.BySessionId{SessionId: id},
		specification.OrderBy{Field: "created_at"},
	}
	if difficulty != "" {
		specs = append(specs, specification.ByDifficulty{Difficulty: difficulty})
	}

	questions, err := uow.QuestionRepository().FindAll(ctx, specs...)
	if err != nil {
		return nil, err
	}

	result := make([]*dto.QuestionResponse, 0, len(questions))
	for _, q := range questions {
		result = append(result, &dto.QuestionResponse{
			Id:           q.Id,
			Text:         q.Text,
			Options:      q.Options,
			CorrectIndex: q.CorrectIndex,
			Explanation:  q.Explanation,
			Difficulty:   q.Difficulty,
			Topic:        q.Topic,
			Source:       q.Source,
		})
	}
	return result, nil
}

func (s *sessionService) Mnemonics(ctx context.Context, userId uuid.UUID, id uuid.UUID) ([]*dto.MnemonicResponse, error) {
	if _, err := s.findOwnedSession(ctx, userId, id); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	mnemonics, err := uow.MnemonicRepository().FindAll(ctx, specification.BySessionId{SessionId: id})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.MnemonicResponse, 0, len(mnemonics))
	for _, m := range mnemonics {
		result = append(result, &dto.MnemonicResponse{
			Id:          m.Id,
			Topic:       m.Topic,
			Text:        m.Text,
			Explanation: m.Explanation,
			KeyTerms:    m.KeyTerms,
		})
	}
	return result, nil
}

func (s *sessionService) CheatSheets(ctx context.Context, userId uuid.UUID, id uuid.UUID) ([]*dto.CheatSheetResponse, error) {
	if _, err := s.findOwnedSession(ctx, userId, id); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	sheets, err := uow.CheatSheetRepository().FindAll(ctx, specification.BySessionId{SessionId: id})
	if err != nil {
		return nil, err
	}

	result := make([]*dto.CheatSheetResponse, 0, len(sheets))
	for _, sheet := range sheets {
		result = append(result, &dto.CheatSheetResponse{
			Id:             sheet.Id,
			Title:          sheet.Title,
			KeyPoints:      sheet.KeyPoints,
			HighYieldFacts: sheet.HighYieldFacts,
			QuickReference: sheet.QuickReference,
		})
	}
	return result, nil
}

func (s *sessionService) Note(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.NoteResponse, error) {
	if _, err := s.findOwnedSession(ctx, userId, id); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	note, err := uow.NoteRepository().FindOne(ctx, specification.BySessionId{SessionId: id})
	if err != nil {
		return nil, err
	}
	if note == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Note not found")
	}

	return &dto.NoteResponse{
		Id:                   note.Id,
		Title:                note.Title,
		Content:              note.Content,
		ImportantQuestionIds: note.ImportantQuestionIds,
		MnemonicIds:          note.MnemonicIds,
		SummaryPoints:        note.SummaryPoints,
	}, nil
}

func (s *sessionService) MockTest(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*dto.MockTestResponse, error) {
	if _, err := s.findOwnedSession(ctx, userId, id); err != nil {
		return nil, err
	}

	uow := s.uowFactory.NewUnitOfWork(ctx)
	test, err := uow.MockTestRepository().FindOne(ctx, specification.BySessionId{SessionId: id})
	if err != nil {
		return nil, err
	}
	if test == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Mock test not found")
	}

	return &dto.MockTestResponse{
		Id:              test.Id,
		Title:           test.Title,
		QuestionIds:     test.QuestionIds,
		DurationMinutes: test.DurationMinutes,
		TotalMarks:      test.TotalMarks,
	}, nil
}

func (s *sessionService) findOwnedSession(ctx context.Context, userId uuid.UUID, id uuid.UUID) (*entity.StudySession, error) {
	uow := s.uowFactory.NewUnitOfWork(ctx)
	session, err := uow.StudySessionRepository().FindOne(ctx,
		specification.ByID{ID: id},
		specification.ByUserId{UserId: userId},
	)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, fiber.NewError(fiber.StatusNotFound, "Session not found")
	}
	return session, nil
}
