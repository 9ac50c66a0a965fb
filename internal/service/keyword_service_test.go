package service

import (
	"context"
	"errors"
	"testing"

	"catalog-chat-be/internal/entity"
	"catalog-chat-be/internal/repository/contract"
	"catalog-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeCatalogRepo struct {
	brands     []string
	categories []string
	tags       []string
	err        error
}

func (f *fakeCatalogRepo) BrandNames(ctx context.Context) ([]string, error) {
	return f.brands, f.err
}

func (f *fakeCatalogRepo) CategoryNames(ctx context.Context) ([]string, error) {
	return f.categories, f.err
}

func (f *fakeCatalogRepo) TagNames(ctx context.Context) ([]string, error) {
	return f.tags, f.err
}

func (f *fakeCatalogRepo) FindVariant(ctx context.Context, id uuid.UUID) (*entity.ProductVariant, error) {
	return nil, nil
}

func (f *fakeCatalogRepo) FindTags(ctx context.Context, ids []uuid.UUID) ([]entity.Tag, error) {
	return nil, nil
}

func (f *fakeCatalogRepo) CreateVariant(ctx context.Context, variant *entity.ProductVariant) error {
	return nil
}

func (f *fakeCatalogRepo) UpdateVariant(ctx context.Context, variant *entity.ProductVariant) error {
	return nil
}

type fakeUow struct {
	catalog contract.CatalogRepository
}

func (f *fakeUow) Begin(ctx context.Context) error { return nil }
func (f *fakeUow) Commit() error                   { return nil }
func (f *fakeUow) Rollback() error                 { return nil }

func (f *fakeUow) ChatTurnRepository() contract.ChatTurnRepository               { return nil }
func (f *fakeUow) ProductEmbeddingRepository() contract.ProductEmbeddingRepository { return nil }
func (f *fakeUow) SemanticCacheRepository() contract.SemanticCacheRepository     { return nil }
func (f *fakeUow) CatalogRepository() contract.CatalogRepository                 { return f.catalog }

type fakeUowFactory struct {
	uow unitofwork.UnitOfWork
}

func (f *fakeUowFactory) NewUnitOfWork(ctx context.Context) unitofwork.UnitOfWork {
	return f.uow
}

type noopLogger struct{}

func (noopLogger) Debug(module, message string, details map[string]interface{}) {}
func (noopLogger) Info(module, message string, details map[string]interface{})  {}
func (noopLogger) Warn(module, message string, details map[string]interface{})  {}
func (noopLogger) Error(module, message string, details map[string]interface{}) {}
func (noopLogger) Sync() error                                                  { return nil }

func newKeywordServiceWithRepo(repo contract.CatalogRepository) IKeywordService {
	factory := &fakeUowFactory{uow: &fakeUow{catalog: repo}}
	// nil redis client: the service reads straight from the repository.
	return NewKeywordService(factory, nil, noopLogger{})
}

func TestKeywordsMergesSortsAndDedupes(t *testing.T) {
	svc := newKeywordServiceWithRepo(&fakeCatalogRepo{
		brands:     []string{"Voltix", "Aurora"},
		categories: []string{"Headphones", "aurora"}, // dup of brand, different case
		tags:       []string{"wireless", "Headphones", " "},
	})

	keywords, err := svc.Keywords(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"Aurora", "Headphones", "Voltix", "wireless"}, keywords)
}

func TestKeywordsPropagatesRepositoryError(t *testing.T) {
	svc := newKeywordServiceWithRepo(&fakeCatalogRepo{err: errors.New("db down")})

	_, err := svc.Keywords(context.Background())
	assert.Error(t, err)
}

func TestKeywordsEmptyCatalog(t *testing.T) {
	svc := newKeywordServiceWithRepo(&fakeCatalogRepo{})

	keywords, err := svc.Keywords(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, keywords)
}
