package entity

import (
	"time"

	"github.com/google/uuid"
)

// ProductEmbedding is one indexed chunk of a product variant's text,
// denormalized with the metadata the retriever returns to the agent.
type ProductEmbedding struct {
	Id             uuid.UUID
	VariantId      uuid.UUID
	Title          string
	Document       string
	Brand          string
	Category       string
	Tags           []string
	Price          float64
	EmbeddingValue []float32
	ChunkIndex     int
	CreatedAt      time.Time
}
