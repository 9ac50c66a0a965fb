package mapper

import (
	"encoding/json"

	"catalog-chat-be/internal/entity"
	"catalog-chat-be/internal/model"

	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
)

type ProductEmbeddingMapper struct{}

func NewProductEmbeddingMapper() *ProductEmbeddingMapper {
	return &ProductEmbeddingMapper{}
}

func (m *ProductEmbeddingMapper) ToEntity(e *model.ProductEmbedding) *entity.ProductEmbedding {
	if e == nil {
		return nil
	}

	var tags []string
	if len(e.Tags) > 0 {
		// Rows written by this service always hold a JSON string array;
		// anything else is treated as no tags.
		_ = json.Unmarshal(e.Tags, &tags)
	}

	return &entity.ProductEmbedding{
		Id:             e.Id,
		VariantId:      e.VariantId,
		Title:          e.Title,
		Document:       e.Document,
		Brand:          e.Brand,
		Category:       e.Category,
		Tags:           tags,
		Price:          e.Price,
		EmbeddingValue: e.EmbeddingValue.Slice(),
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *ProductEmbeddingMapper) ToModel(e *entity.ProductEmbedding) *model.ProductEmbedding {
	if e == nil {
		return nil
	}

	var tags datatypes.JSON
	if len(e.Tags) > 0 {
		raw, err := json.Marshal(e.Tags)
		if err == nil {
			tags = datatypes.JSON(raw)
		}
	}

	return &model.ProductEmbedding{
		Id:             e.Id,
		VariantId:      e.VariantId,
		Title:          e.Title,
		Document:       e.Document,
		Brand:          e.Brand,
		Category:       e.Category,
		Tags:           tags,
		Price:          e.Price,
		EmbeddingValue: pgvector.NewVector(e.EmbeddingValue),
		ChunkIndex:     e.ChunkIndex,
		CreatedAt:      e.CreatedAt,
	}
}

func (m *ProductEmbeddingMapper) ToModels(embeddings []*entity.ProductEmbedding) []*model.ProductEmbedding {
	models := make([]*model.ProductEmbedding, len(embeddings))
	for i, e := range embeddings {
		models[i] = m.ToModel(e)
	}
	return models
}
