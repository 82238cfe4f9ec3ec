package mapper

import (
	"time"

	"ai-studyprep-be/internal/entity"
	"ai-studyprep-be/internal/model"
)

type SessionMapper struct{}

func NewSessionMapper() *SessionMapper {
	return &SessionMapper{}
}

func (m *SessionMapper) ToEntity(s *model.StudySession) *entity.StudySession {
	if s == nil {
		return nil
	}

	var updatedAt *time.Time
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		updatedAt = &t
	}

	return &entity.StudySession{
		Id:               s.Id,
		UserId:           s.UserId,
		Name:             s.Name,
		SourceKind:       s.SourceKind,
		Topic:            s.Topic,
		OriginalFilename: s.OriginalFilename,
		StorageKey:       s.StorageKey,
		PageCount:        s.PageCount,
		ProcessingMode:   s.ProcessingMode,
		Status:           s.Status,
		CurrentStep:      s.CurrentStep,
		StepPct:          s.StepPct,
		OverallPct:       s.OverallPct,
		EtaSeconds:       s.EtaSeconds,
		StepMessage:      s.StepMessage,
		NotifyEmail:      s.NotifyEmail,
		Email:            s.Email,
		QuestionCount:    s.QuestionCount,
		MnemonicCount:    s.MnemonicCount,
		CheatSheetCount:  s.CheatSheetCount,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *SessionMapper) ToModel(s *entity.StudySession) *model.StudySession {
	if s == nil {
		return nil
	}

	var updatedAt time.Time
	if s.UpdatedAt != nil {
		updatedAt = *s.UpdatedAt
	}

	return &model.StudySession{
		Id:               s.Id,
		UserId:           s.UserId,
		Name:             s.Name,
		SourceKind:       s.SourceKind,
		Topic:            s.Topic,
		OriginalFilename: s.OriginalFilename,
		StorageKey:       s.StorageKey,
		PageCount:        s.PageCount,
		ProcessingMode:   s.ProcessingMode,
		Status:           s.Status,
		CurrentStep:      s.CurrentStep,
		StepPct:          s.StepPct,
		OverallPct:       s.OverallPct,
		EtaSeconds:       s.EtaSeconds,
		StepMessage:      s.StepMessage,
		NotifyEmail:      s.NotifyEmail,
		Email:            s.Email,
		QuestionCount:    s.QuestionCount,
		MnemonicCount:    s.MnemonicCount,
		CheatSheetCount:  s.CheatSheetCount,
		CreatedAt:        s.CreatedAt,
		UpdatedAt:        updatedAt,
	}
}

func (m *SessionMapper) ToEntities(sessions []*model.StudySession) []*entity.StudySession {
	entities := make([]*entity.StudySession, len(sessions))
	for i, s := range sessions {
		entities[i] = m.ToEntity(s)
	}
	return entities
}
