package mapper

import (
	"encoding/json"
	"time"

	"catalog-chat-be/internal/entity"
	"catalog-chat-be/internal/model"

	"gorm.io/datatypes"
)

type CatalogMapper struct{}

func NewCatalogMapper() *CatalogMapper {
	return &CatalogMapper{}
}

func (m *CatalogMapper) BrandToEntity(e *model.Brand) *entity.Brand {
	if e == nil {
		return nil
	}

	return &entity.Brand{
		Id:          e.Id,
		Name:        e.Name,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   nonZeroTime(e.UpdatedAt),
	}
}

func (m *CatalogMapper) CategoryToEntity(e *model.Category) *entity.Category {
	if e == nil {
		return nil
	}

	return &entity.Category{
		Id:          e.Id,
		Name:        e.Name,
		Description: e.Description,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   nonZeroTime(e.UpdatedAt),
	}
}

func (m *CatalogMapper) TagToEntity(e *model.Tag) *entity.Tag {
	if e == nil {
		return nil
	}

	return &entity.Tag{
		Id:   e.Id,
		Name: e.Name,
	}
}

func (m *CatalogMapper) VariantToEntity(e *model.ProductVariant) *entity.ProductVariant {
	if e == nil {
		return nil
	}

	var specs map[string]any
	if len(e.Specs) > 0 {
		_ = json.Unmarshal(e.Specs, &specs)
	}

	tags := make([]entity.Tag, len(e.Tags))
	for i, t := range e.Tags {
		tags[i] = *m.TagToEntity(&t)
	}

	return &entity.ProductVariant{
		Id:          e.Id,
		Name:        e.Name,
		Sku:         e.Sku,
		Description: e.Description,
		Price:       e.Price,
		Stock:       e.Stock,
		Specs:       specs,
		BrandId:     e.BrandId,
		CategoryId:  e.CategoryId,
		Brand:       m.BrandToEntity(e.Brand),
		Category:    m.CategoryToEntity(e.Category),
		Tags:        tags,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   nonZeroTime(e.UpdatedAt),
	}
}

func (m *CatalogMapper) VariantToModel(e *entity.ProductVariant) *model.ProductVariant {
	if e == nil {
		return nil
	}

	var specs datatypes.JSON
	if len(e.Specs) > 0 {
		raw, err := json.Marshal(e.Specs)
		if err == nil {
			specs = datatypes.JSON(raw)
		}
	}

	tags := make([]model.Tag, len(e.Tags))
	for i, t := range e.Tags {
		tags[i] = model.Tag{Id: t.Id, Name: t.Name}
	}

	out := &model.ProductVariant{
		Id:          e.Id,
		Name:        e.Name,
		Sku:         e.Sku,
		Description: e.Description,
		Price:       e.Price,
		Stock:       e.Stock,
		Specs:       specs,
		BrandId:     e.BrandId,
		CategoryId:  e.CategoryId,
		Tags:        tags,
		CreatedAt:   e.CreatedAt,
	}
	if e.UpdatedAt != nil {
		out.UpdatedAt = *e.UpdatedAt
	}
	return out
}

func nonZeroTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
