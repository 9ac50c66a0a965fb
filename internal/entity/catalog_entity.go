package entity

import (
	"time"

	"github.com/google/uuid"
)

type Brand struct {
	Id          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type Category struct {
	Id          uuid.UUID
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}

type Tag struct {
	Id   uuid.UUID
	Name string
}

// ProductVariant is one sellable catalog item. Specs is a free-form
// nested document (color, storage, display, ...) flattened into readable
// lines when the variant is indexed.
type ProductVariant struct {
	Id          uuid.UUID
	Name        string
	Sku         string
	Description string
	Price       float64
	Stock       int
	Specs       map[string]any
	BrandId     uuid.UUID
	CategoryId  uuid.UUID
	Brand       *Brand
	Category    *Category
	Tags        []Tag
	CreatedAt   time.Time
	UpdatedAt   *time.Time
}
