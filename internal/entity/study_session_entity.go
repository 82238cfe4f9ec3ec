package entity

import (
	"time"

	"github.com/google/uuid"
)

type StudySession struct {
	Id               uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId           uuid.UUID `gorm:"type:uuid;index"`
	Name             string
	SourceKind       string // document | topic
	Topic            string
	OriginalFilename string
	StorageKey       *string // nil in local-filesystem mode
	PageCount        int
	ProcessingMode   string // text | ocr | ai
	Status           string // pending | processing | completed | failed
	CurrentStep      string
	StepPct          int
	OverallPct       int
	EtaSeconds       int
	StepMessage      string
	NotifyEmail      bool
	Email            string
	QuestionCount    int
	MnemonicCount    int
	CheatSheetCount  int
	CreatedAt        time.Time
	UpdatedAt        *time.Time
}
