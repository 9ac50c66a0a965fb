package implementation

import (
	"context"
	"errors"

	"catalog-chat-be/internal/entity"
	"catalog-chat-be/internal/mapper"
	"catalog-chat-be/internal/model"
	"catalog-chat-be/internal/repository/contract"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CatalogRepositoryImpl struct {
	db     *gorm.DB
	mapper *mapper.CatalogMapper
}

func NewCatalogRepository(db *gorm.DB) contract.CatalogRepository {
	return &CatalogRepositoryImpl{
		db:     db,
		mapper: mapper.NewCatalogMapper(),
	}
}

func (r *CatalogRepositoryImpl) BrandNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&model.Brand{}).Order("name ASC").Pluck("name", &names).Error
	return names, err
}

func (r *CatalogRepositoryImpl) CategoryNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&model.Category{}).Order("name ASC").Pluck("name", &names).Error
	return names, err
}

func (r *CatalogRepositoryImpl) TagNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&model.Tag{}).Order("name ASC").Pluck("name", &names).Error
	return names, err
}

func (r *CatalogRepositoryImpl) FindVariant(ctx context.Context, id uuid.UUID) (*entity.ProductVariant, error) {
	var m model.ProductVariant
	err := r.db.WithContext(ctx).
		Preload("Brand").
		Preload("Category").
		Preload("Tags").
		First(&m, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return r.mapper.VariantToEntity(&m), nil
}

func (r *CatalogRepositoryImpl) FindTags(ctx context.Context, ids []uuid.UUID) ([]entity.Tag, error) {
	if len(ids) == 0 {
		return []entity.Tag{}, nil
	}
	var models []model.Tag
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&models).Error; err != nil {
		return nil, err
	}
	tags := make([]entity.Tag, len(models))
	for i, m := range models {
		tags[i] = *r.mapper.TagToEntity(&m)
	}
	return tags, nil
}

func (r *CatalogRepositoryImpl) CreateVariant(ctx context.Context, variant *entity.ProductVariant) error {
	m := r.mapper.VariantToModel(variant)
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return err
	}
	*variant = *r.mapper.VariantToEntity(m)
	return nil
}

func (r *CatalogRepositoryImpl) UpdateVariant(ctx context.Context, variant *entity.ProductVariant) error {
	m := r.mapper.VariantToModel(variant)
	if err := r.db.WithContext(ctx).Save(m).Error; err != nil {
		return err
	}
	*variant = *r.mapper.VariantToEntity(m)
	return nil
}
