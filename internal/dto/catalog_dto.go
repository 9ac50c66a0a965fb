package dto

import (
	"github.com/google/uuid"
)

type CreateVariantRequest struct {
	Name        string         `json:"name" validate:"required"`
	Sku         string         `json:"sku" validate:"required"`
	Description string         `json:"description"`
	Price       float64        `json:"price" validate:"required,gt=0"`
	Stock       int            `json:"stock" validate:"gte=0"`
	Specs       map[string]any `json:"specs"`
	BrandId     uuid.UUID      `json:"brand_id" validate:"required"`
	CategoryId  uuid.UUID      `json:"category_id" validate:"required"`
	TagIds      []uuid.UUID    `json:"tag_ids"`
}

type CreateVariantResponse struct {
	Id uuid.UUID `json:"id"`
}

type UpdateVariantRequest struct {
	Id          uuid.UUID
	Name        string         `json:"name" validate:"required"`
	Description string         `json:"description"`
	Price       float64        `json:"price" validate:"required,gt=0"`
	Stock       int            `json:"stock" validate:"gte=0"`
	Specs       map[string]any `json:"specs"`
}

type UpdateVariantResponse struct {
	Id uuid.UUID `json:"id"`
}

// PublishEmbedVariantMessage is the payload carried on the embedding
// pipeline topic when a variant needs (re)indexing.
type PublishEmbedVariantMessage struct {
	VariantId uuid.UUID `json:"variant_id"`
}
