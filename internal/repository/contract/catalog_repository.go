package contract

import (
	"context"

	"catalog-chat-be/internal/entity"

	"github.com/google/uuid"
)

type CatalogRepository interface {
	// Name listings feed the keyword classifier vocabulary.
	BrandNames(ctx context.Context) ([]string, error)
	CategoryNames(ctx context.Context) ([]string, error)
	TagNames(ctx context.Context) ([]string, error)

	FindVariant(ctx context.Context, id uuid.UUID) (*entity.ProductVariant, error)
	FindTags(ctx context.Context, ids []uuid.UUID) ([]entity.Tag, error)
	CreateVariant(ctx context.Context, variant *entity.ProductVariant) error
	UpdateVariant(ctx context.Context, variant *entity.ProductVariant) error
}
