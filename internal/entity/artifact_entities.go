package entity

import (
	"time"

	"github.com/google/uuid"
)

type Mnemonic struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId   uuid.UUID `gorm:"type:uuid;index"`
	UserId      uuid.UUID `gorm:"type:uuid;index"`
	Topic       string
	Text        string
	Explanation string
	KeyTerms    []string
	CreatedAt   time.Time
}

type CheatSheet struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId      uuid.UUID `gorm:"type:uuid;index"`
	UserId         uuid.UUID `gorm:"type:uuid;index"`
	Title          string
	KeyPoints      []string
	HighYieldFacts []string
	QuickReference map[string]string
	CreatedAt      time.Time
}

type Note struct {
	Id                   uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId            uuid.UUID `gorm:"type:uuid;index"`
	UserId               uuid.UUID `gorm:"type:uuid;index"`
	Title                string
	Content              string
	ImportantQuestionIds []uuid.UUID
	MnemonicIds          []uuid.UUID
	SummaryPoints        []string
	CreatedAt            time.Time
}

type MockTest struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId       uuid.UUID `gorm:"type:uuid;index"`
	UserId          uuid.UUID `gorm:"type:uuid;index"`
	Title           string
	QuestionIds     []uuid.UUID
	DurationMinutes int
	TotalMarks      int
	CreatedAt       time.Time
}
