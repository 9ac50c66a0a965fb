package mapper

import (
	"catalog-chat-be/internal/entity"
	"catalog-chat-be/internal/model"

	"github.com/pgvector/pgvector-go"
)

type SemanticCacheMapper struct{}

func NewSemanticCacheMapper() *SemanticCacheMapper {
	return &SemanticCacheMapper{}
}

func (m *SemanticCacheMapper) ToEntity(e *model.SemanticCacheEntry) *entity.SemanticCacheEntry {
	if e == nil {
		return nil
	}

	return &entity.SemanticCacheEntry{
		Id:             e.Id,
		Query:          e.Query,
		Original:       e.Original,
		Response:       e.Response,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		CreatedAt:      e.CreatedAt,
	}
}

func (m *SemanticCacheMapper) ToModel(e *entity.SemanticCacheEntry) *model.SemanticCacheEntry {
	if e == nil {
		return nil
	}

	return &model.SemanticCacheEntry{
		Id:             e.Id,
		Query:          e.Query,
		Original:       e.Original,
		Response:       e.Response,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		CreatedAt:      e.CreatedAt,
	}
}
