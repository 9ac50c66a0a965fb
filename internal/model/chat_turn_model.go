package model

import (
	"time"

	"github.com/google/uuid"
)

// ChatTurn rows are append-only. Seq is a bigserial that fixes insertion
// order even when two turns land in the same timestamp tick.
type ChatTurn struct {
	Id              uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SessionId       string    `gorm:"type:varchar(64);not null;index"`
	Role            string    `gorm:"type:varchar(50);not null"`
	Content         string    `gorm:"type:text;not null"`
	EnhancedContent *string   `gorm:"type:text"`
	Seq             int64     `gorm:"autoIncrement;uniqueIndex"`
	CreatedAt       time.Time `gorm:"autoCreateTime"`
}

func (ChatTurn) TableName() string {
	return "chat_turns"
}
