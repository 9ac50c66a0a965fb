package contract

import (
	"context"

	"catalog-chat-be/internal/entity"
)

// ScoredCacheEntry wraps SemanticCacheEntry with its cosine similarity
// against the probe vector.
type ScoredCacheEntry struct {
	Entry      *entity.SemanticCacheEntry
	Similarity float64
}

type SemanticCacheRepository interface {
	Create(ctx context.Context, entry *entity.SemanticCacheEntry) error
	// FindNearest returns the single closest entry to the probe vector,
	// or nil when the cache is empty.
	FindNearest(ctx context.Context, embedding []float32) (*ScoredCacheEntry, error)
}
