package model

import (
	"time"

	"github.com/google/uuid"
)

type StudySession struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	UserId           uuid.UUID `gorm:"type:uuid;not null;index"`
	Name             string    `gorm:"type:varchar(255);not null"`
	SourceKind       string    `gorm:"type:varchar(20);not null"`
	Topic            string    `gorm:"type:text"`
	OriginalFilename string    `gorm:"type:varchar(255)"`
	StorageKey       *string   `gorm:"type:varchar(512)"`
	PageCount        int
	ProcessingMode   string `gorm:"type:varchar(10)"`
	Status           string `gorm:"type:varchar(20);not null;default:'pending';index"`
	CurrentStep      string `gorm:"type:varchar(40)"`
	StepPct          int
	OverallPct       int
	EtaSeconds       int
	StepMessage      string `gorm:"type:text"`
	NotifyEmail      bool
	Email            string `gorm:"type:varchar(255)"`
	QuestionCount    int
	MnemonicCount    int
	CheatSheetCount  int
	CreatedAt        time.Time `gorm:"autoCreateTime"`
	UpdatedAt        time.Time `gorm:"autoUpdateTime"`
}

func (StudySession) TableName() string {
	return "study_sessions"
}
