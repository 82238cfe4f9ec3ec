package entity

import (
	"time"

	"github.com/google/uuid"
)

type Question struct {
	Id           uuid.UUID `gorm:"type:uuid;primaryKey"`
	SessionId    uuid.UUID `gorm:"type:uuid;index"`
	UserId       uuid.UUID `gorm:"type:uuid;index"`
	Text         string
	Options      []string // always exactly 4, ordered
	CorrectIndex int
	Explanation  string
	Difficulty   string // easy | medium | hard
	Topic        string
	Source       string // extracted | generated | fallback
	CreatedAt    time.Time
}
