package contract

import (
	"context"

	"catalog-chat-be/internal/entity"
	"catalog-chat-be/internal/repository/specification"

	"github.com/google/uuid"
)

// ScoredProductEmbedding wraps ProductEmbedding with its cosine
// similarity against the query vector (1.0 = identical).
type ScoredProductEmbedding struct {
	Embedding  *entity.ProductEmbedding
	Similarity float64
}

// RankedProductEmbedding wraps ProductEmbedding with its full-text
// rank against the query terms. Rank is only comparable within one
// result set.
type RankedProductEmbedding struct {
	Embedding *entity.ProductEmbedding
	Rank      float64
}

type ProductEmbeddingRepository interface {
	Create(ctx context.Context, embedding *entity.ProductEmbedding) error
	CreateBulk(ctx context.Context, embeddings []*entity.ProductEmbedding) error
	DeleteByVariantId(ctx context.Context, variantId uuid.UUID) error
	FindAll(ctx context.Context, specs ...specification.Specification) ([]*entity.ProductEmbedding, error)
	Count(ctx context.Context, specs ...specification.Specification) (int64, error)
	// Advanced
	SearchSimilarWithScore(ctx context.Context, embedding []float32, limit int) ([]*ScoredProductEmbedding, error)
	SearchKeywordWithRank(ctx context.Context, text string, limit int) ([]*RankedProductEmbedding, error)
}
