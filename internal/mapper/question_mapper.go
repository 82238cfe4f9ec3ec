package mapper

import (
	"ai-studyprep-be/internal/entity"
	"ai-studyprep-be/internal/model"
)

type QuestionMapper struct{}

func NewQuestionMapper() *QuestionMapper {
	return &QuestionMapper{}
}

func (m *QuestionMapper) ToEntity(q *model.Question) *entity.Question {
	if q == nil {
		return nil
	}

	var options []string
	fromJSON(q.Options, &options)

	return &entity.Question{
		Id:           q.Id,
		SessionId:    q.SessionId,
		UserId:       q.UserId,
		Text:         q.Text,
		Options:      options,
		CorrectIndex: q.CorrectIndex,
		Explanation:  q.Explanation,
		Difficulty:   q.Difficulty,
		Topic:        q.Topic,
		Source:       q.Source,
		CreatedAt:    q.CreatedAt,
	}
}

func (m *QuestionMapper) ToModel(q *entity.Question) *model.Question {
	if q == nil {
		return nil
	}

	return &model.Question{
		Id:           q.Id,
		SessionId:    q.SessionId,
		UserId:       q.UserId,
		Text:         q.Text,
		Options:      toJSON(q.Options),
		CorrectIndex: q.CorrectIndex,
		Explanation:  q.Explanation,
		Difficulty:   q.Difficulty,
		Topic:        q.Topic,
		Source:       q.Source,
		CreatedAt:    q.CreatedAt,
	}
}

func (m *QuestionMapper) ToEntities(questions []*model.Question) []*entity.Question {
	entities := make([]*entity.Question, len(questions))
	for i, q := range questions {
		entities[i] = m.ToEntity(q)
	}
	return entities
}

func (m *QuestionMapper) ToModels(questions []*entity.Question) []*model.Question {
	models := make([]*model.Question, len(questions))
	for i, q := range questions {
		models[i] = m.ToModel(q)
	}
	return models
}
