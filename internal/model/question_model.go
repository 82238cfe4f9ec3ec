package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Question struct {
	Id           uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId    uuid.UUID      `gorm:"type:uuid;not null;index"`
	UserId       uuid.UUID      `gorm:"type:uuid;not null;index"`
	Text         string         `gorm:"type:text;not null"`
	Options      datatypes.JSON `gorm:"not null"`
	CorrectIndex int
	Explanation  string    `gorm:"type:text"`
	Difficulty   string    `gorm:"type:varchar(10);index"`
	Topic        string    `gorm:"type:varchar(255)"`
	Source       string    `gorm:"type:varchar(20)"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
}

func (Question) TableName() string {
	return "questions"
}
