package mapper

import (
	"ai-studyprep-be/internal/entity"
	"ai-studyprep-be/internal/model"

	"github.com/google/uuid"
)

type ArtifactMapper struct{}

func NewArtifactMapper() *ArtifactMapper {
	return &ArtifactMapper{}
}

func (m *ArtifactMapper) MnemonicToEntity(mn *model.Mnemonic) *entity.Mnemonic {
	if mn == nil {
		return nil
	}

	var keyTerms []string
	fromJSON(mn.KeyTerms, &keyTerms)

	return &entity.Mnemonic{
		Id:          mn.Id,
		SessionId:   mn.SessionId,
		UserId:      mn.UserId,
		Topic:       mn.Topic,
		Text:        mn.Text,
		Explanation: mn.Explanation,
		KeyTerms:    keyTerms,
		CreatedAt:   mn.CreatedAt,
	}
}

func (m *ArtifactMapper) MnemonicToModel(mn *entity.Mnemonic) *model.Mnemonic {
	if mn == nil {
		return nil
	}

	return &model.Mnemonic{
		Id:          mn.Id,
		SessionId:   mn.SessionId,
		UserId:      mn.UserId,
		Topic:       mn.Topic,
		Text:        mn.Text,
		Explanation: mn.Explanation,
		KeyTerms:    toJSON(mn.KeyTerms),
		CreatedAt:   mn.CreatedAt,
	}
}

func (m *ArtifactMapper) MnemonicsToEntities(mnemonics []*model.Mnemonic) []*entity.Mnemonic {
	entities := make([]*entity.Mnemonic, len(mnemonics))
	for i, mn := range mnemonics {
		entities[i] = m.MnemonicToEntity(mn)
	}
	return entities
}

func (m *ArtifactMapper) CheatSheetToEntity(cs *model.CheatSheet) *entity.CheatSheet {
	if cs == nil {
		return nil
	}

	var keyPoints, facts []string
	quickRef := map[string]string{}
	fromJSON(cs.KeyPoints, &keyPoints)
	fromJSON(cs.HighYieldFacts, &facts)
	fromJSON(cs.QuickReference, &quickRef)

	return &entity.CheatSheet{
		Id:             cs.Id,
		SessionId:      cs.SessionId,
		UserId:         cs.UserId,
		Title:          cs.Title,
		KeyPoints:      keyPoints,
		HighYieldFacts: facts,
		QuickReference: quickRef,
		CreatedAt:      cs.CreatedAt,
	}
}

func (m *ArtifactMapper) CheatSheetToModel(cs *entity.CheatSheet) *model.CheatSheet {
	if cs == nil {
		return nil
	}

	return &model.CheatSheet{
		Id:             cs.Id,
		SessionId:      cs.SessionId,
		UserId:         cs.UserId,
		Title:          cs.Title,
		KeyPoints:      toJSON(cs.KeyPoints),
		HighYieldFacts: toJSON(cs.HighYieldFacts),
		QuickReference: toJSON(cs.QuickReference),
		CreatedAt:      cs.CreatedAt,
	}
}

func (m *ArtifactMapper) CheatSheetsToEntities(sheets []*model.CheatSheet) []*entity.CheatSheet {
	entities := make([]*entity.CheatSheet, len(sheets))
	for i, cs := range sheets {
		entities[i] = m.CheatSheetToEntity(cs)
	}
	return entities
}

func (m *ArtifactMapper) NoteToEntity(n *model.Note) *entity.Note {
	if n == nil {
		return nil
	}

	var questionIds, mnemonicIds []uuid.UUID
	var summary []string
	fromJSON(n.ImportantQuestionIds, &questionIds)
	fromJSON(n.MnemonicIds, &mnemonicIds)
	fromJSON(n.SummaryPoints, &summary)

	return &entity.Note{
		Id:                   n.Id,
		SessionId:            n.SessionId,
		UserId:               n.UserId,
		Title:                n.Title,
		Content:              n.Content,
		ImportantQuestionIds: questionIds,
		MnemonicIds:          mnemonicIds,
		SummaryPoints:        summary,
		CreatedAt:            n.CreatedAt,
	}
}

func (m *ArtifactMapper) NoteToModel(n *entity.Note) *model.Note {
	if n == nil {
		return nil
	}

	return &model.Note{
		Id:                   n.Id,
		SessionId:            n.SessionId,
		UserId:               n.UserId,
		Title:                n.Title,
		Content:              n.Content,
		ImportantQuestionIds: toJSON(n.ImportantQuestionIds),
		MnemonicIds:          toJSON(n.MnemonicIds),
		SummaryPoints:        toJSON(n.SummaryPoints),
		CreatedAt:            n.CreatedAt,
	}
}

func (m *ArtifactMapper) MockTestToEntity(t *model.MockTest) *entity.MockTest {
	if t == nil {
		return nil
	}

	var questionIds []uuid.UUID
	fromJSON(t.QuestionIds, &questionIds)

	return &entity.MockTest{
		Id:              t.Id,
		SessionId:       t.SessionId,
		UserId:          t.UserId,
		Title:           t.Title,
		QuestionIds:     questionIds,
		DurationMinutes: t.DurationMinutes,
		TotalMarks:      t.TotalMarks,
		CreatedAt:       t.CreatedAt,
	}
}

func (m *ArtifactMapper) MockTestToModel(t *entity.MockTest) *model.MockTest {
	if t == nil {
		return nil
	}

	return &model.MockTest{
		Id:              t.Id,
		SessionId:       t.SessionId,
		UserId:          t.UserId,
		Title:           t.Title,
		QuestionIds:     toJSON(t.QuestionIds),
		DurationMinutes: t.DurationMinutes,
		TotalMarks:      t.TotalMarks,
		CreatedAt:       t.CreatedAt,
	}
}
