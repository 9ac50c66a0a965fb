package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"catalog-chat-be/internal/dto"
	"catalog-chat-be/internal/entity"
	"catalog-chat-be/internal/repository/unitofwork"

	"github.com/google/uuid"
)

type ICatalogService interface {
	CreateVariant(ctx context.Context, req *dto.CreateVariantRequest) (*dto.CreateVariantResponse, error)
	UpdateVariant(ctx context.Context, req *dto.UpdateVariantRequest) (*dto.UpdateVariantResponse, error)
	ReindexVariant(ctx context.Context, id uuid.UUID) error
}

type catalogService struct {
	uowFactory       unitofwork.RepositoryFactory
	publisherService IPublisherService
}

func NewCatalogService(uowFactory unitofwork.RepositoryFactory, publisherService IPublisherService) ICatalogService {
	return &catalogService{
		uowFactory:       uowFactory,
		publisherService: publisherService,
	}
}

func (c *catalogService) CreateVariant(ctx context.Context, req *dto.CreateVariantRequest) (*dto.CreateVariantResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	tags, err := uow.CatalogRepository().FindTags(ctx, req.TagIds)
	if err != nil {
		return nil, err
	}

	variant := entity.ProductVariant{
		Id:          uuid.New(),
		Name:        req.Name,
		Sku:         req.Sku,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Specs:       req.Specs,
		BrandId:     req.BrandId,
		CategoryId:  req.CategoryId,
		Tags:        tags,
		CreatedAt:   time.Now(),
	}

	if err := uow.CatalogRepository().CreateVariant(ctx, &variant); err != nil {
		return nil, err
	}

	if err := c.publishEmbed(ctx, variant.Id); err != nil {
		return nil, err
	}

	return &dto.CreateVariantResponse{Id: variant.Id}, nil
}

func (c *catalogService) UpdateVariant(ctx context.Context, req *dto.UpdateVariantRequest) (*dto.UpdateVariantResponse, error) {
	uow := c.uowFactory.NewUnitOfWork(ctx)

	variant, err := uow.CatalogRepository().FindVariant(ctx, req.Id)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return nil, fmt.Errorf("variant not found: %s", req.Id)
	}

	variant.Name = req.Name
	variant.Description = req.Description
	variant.Price = req.Price
	variant.Stock = req.Stock
	if req.Specs != nil {
		variant.Specs = req.Specs
	}

	if err := uow.CatalogRepository().UpdateVariant(ctx, variant); err != nil {
		return nil, err
	}

	if err := c.publishEmbed(ctx, variant.Id); err != nil {
		return nil, err
	}

	return &dto.UpdateVariantResponse{Id: variant.Id}, nil
}

func (c *catalogService) ReindexVariant(ctx context.Context, id uuid.UUID) error {
	uow := c.uowFactory.NewUnitOfWork(ctx)
	variant, err := uow.CatalogRepository().FindVariant(ctx, id)
	if err != nil {
		return err
	}
	if variant == nil {
		return fmt.Errorf("variant not found: %s", id)
	}
	return c.publishEmbed(ctx, id)
}

func (c *catalogService) publishEmbed(ctx context.Context, variantId uuid.UUID) error {
	payload := dto.PublishEmbedVariantMessage{
		VariantId: variantId,
	}
	payloadJson, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	return c.publisherService.Publish(ctx, payloadJson)
}
