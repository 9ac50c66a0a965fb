package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
)

type SemanticCacheEntry struct {
	Id             uuid.UUID       `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Query          string          `gorm:"type:text;not null"`
	Original       string          `gorm:"type:text"`
	Response       string          `gorm:"type:text;not null"`
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"`
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
}

func (SemanticCacheEntry) TableName() string {
	return "semantic_cache_entries"
}
