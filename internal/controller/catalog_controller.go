package controller

import (
	"catalog-chat-be/internal/dto"
	"catalog-chat-be/internal/pkg/serverutils"
	"catalog-chat-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ICatalogController interface {
	RegisterRoutes(r fiber.Router)
	CreateVariant(ctx *fiber.Ctx) error
	UpdateVariant(ctx *fiber.Ctx) error
	ReindexVariant(ctx *fiber.Ctx) error
}

type catalogController struct {
	catalogService service.ICatalogService
}

func NewCatalogController(catalogService service.ICatalogService) ICatalogController {
	return &catalogController{
		catalogService: catalogService,
	}
}

func (c *catalogController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/catalog/v1")
	h.Post("variants", c.CreateVariant)
	h.Put("variants/:id", c.UpdateVariant)
	h.Post("variants/:id/reindex", c.ReindexVariant)
}

func (c *catalogController) CreateVariant(ctx *fiber.Ctx) error {
	var req dto.CreateVariantRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.catalogService.CreateVariant(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create variant", res))
}

func (c *catalogController) UpdateVariant(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid variant id")
	}

	var req dto.UpdateVariantRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}
	req.Id = id

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.catalogService.UpdateVariant(ctx.UserContext(), &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update variant", res))
}

func (c *catalogController) ReindexVariant(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid variant id")
	}

	if err := c.catalogService.ReindexVariant(ctx.UserContext(), id); err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success queue variant reindex", fiber.Map{"id": id}))
}
