package unitofwork

import (
	"context"

	"catalog-chat-be/internal/repository/contract"
)

type UnitOfWork interface {
	Begin(ctx context.Context) error
	Commit() error
	Rollback() error

	ChatTurnRepository() contract.ChatTurnRepository
	ProductEmbeddingRepository() contract.ProductEmbeddingRepository
	SemanticCacheRepository() contract.SemanticCacheRepository
	CatalogRepository() contract.CatalogRepository
}
