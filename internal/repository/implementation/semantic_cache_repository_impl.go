package implementation

import (
	"context"

	"catalog-chat-be/internal/entity"
	"catalog-chat-be/internal/mapper"
	"catalog-chat-be/internal/model"
	"catalog-chat-be/internal/repository/contract"

	"github.com/pgvector/pgvector-go"
	"gorm.io/gorm"
)

type SemanticCacheRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.SemanticCacheMapper
}

func NewSemanticCacheRepository(db *gorm.DB) contract.SemanticCacheRepository {
	return &SemanticCacheRepositoryImpl{
		db:     db,
		mapper: mapper.NewSemanticCacheMapper(),
	}
}

func (r *SemanticCacheRepositoryImpl) Create(ctx context.Context, entry *entity.SemanticCacheEntry) error {
	m := r.mapper.ToModel(entry)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*entry = *r.mapper.ToEntity(m)
	return nil
}

func (r *SemanticCacheRepositoryImpl) FindNearest(ctx context.Context, embedding []float32) (*contract.ScoredCacheEntry, error) {
	type result struct {
		model.SemanticCacheEntry
		Similarity float64
	}
	var results []result

	queryVector := pgvector.NewVector(embedding)

	err := r.db.WithContext(ctx).
		Table("semantic_cache_entries").
		Select("semantic_cache_entries.*, 1 - (embedding_value <=> ?) as similarity", queryVector).
		Order("similarity DESC").
		Limit(1).
		Scan(&results).Error

	if err != nil {
		return nil, err
	}
	if len(results) == 0 {
		return nil, nil
	}

	return &contract.ScoredCacheEntry{
		Entry:      r.mapper.ToEntity(&results[0].SemanticCacheEntry),
		Similarity: results[0].Similarity,
	}, nil
}
