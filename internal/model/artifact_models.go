package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Mnemonic struct {
	Id          uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId   uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId      uuid.UUID `gorm:"type:uuid;not null;index"`
	Topic       string    `gorm:"type:varchar(255);not null"`
	Text        string    `gorm:"type:text;not null"`
	Explanation string    `gorm:"type:text"`
	KeyTerms    datatypes.JSON
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Mnemonic) TableName() string {
	return "mnemonics"
}

type CheatSheet struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId      uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId         uuid.UUID `gorm:"type:uuid;not null;index"`
	Title          string    `gorm:"type:varchar(255);not null"`
	KeyPoints      datatypes.JSON
	HighYieldFacts datatypes.JSON
	QuickReference datatypes.JSON
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

func (CheatSheet) TableName() string {
	return "cheat_sheets"
}

type Note struct {
	Id                   uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId            uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId               uuid.UUID `gorm:"type:uuid;not null;index"`
	Title                string    `gorm:"type:varchar(255);not null"`
	Content              string    `gorm:"type:text"`
	ImportantQuestionIds datatypes.JSON
	MnemonicIds          datatypes.JSON
	SummaryPoints        datatypes.JSON
	CreatedAt            time.Time `gorm:"autoCreateTime"`
}

func (Note) TableName() string {
	return "notes"
}

type MockTest struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId       uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId          uuid.UUID `gorm:"type:uuid;not null;index"`
	Title           string    `gorm:"type:varchar(255);not null"`
	QuestionIds     datatypes.JSON
	DurationMinutes int
	TotalMarks      int
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (MockTest) TableName() string {
	return "mock_tests"
}
