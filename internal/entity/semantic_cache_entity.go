package entity

import (
	"time"

	"github.com/google/uuid"
)

// SemanticCacheEntry is a previously answered query with its embedding.
type SemanticCacheEntry struct {
	Id             uuid.UUID
	Query          string
	Original       string
	Response       string
	EmbeddingValue []float32
	CreatedAt      time.Time
}
