package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wearvirtually/wearvirtually-api/internal/dto"
	"github.com/wearvirtually/wearvirtually-api/internal/service"
	"github.com/wearvirtually/wearvirtually-api/internal/utils"
)

// CatalogHandler wires product catalog endpoints.
type CatalogHandler struct {
	service service.CatalogService
	logger  zerolog.Logger
}

// NewCatalogHandler creates a catalog handler instance.
func NewCatalogHandler(service service.CatalogService, logger zerolog.Logger) *CatalogHandler {
	return &CatalogHandler{
		service: service,
		logger:  logger.With().Str("component", "catalog_handler").Logger(),
	}
}

// Register binds catalog routes under the provided router group.
func (h *CatalogHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Get("/:id", h.get)
}

func (h *CatalogHandler) create(c *fiber.Ctx) error {
	shopID := participantIDFromContext(c)
	if shopID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	var payload dto.ProductCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	product, err := h.service.CreateProduct(requestContext(c), shopID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "shop not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("create product failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create product")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "product created", product)
}

func (h *CatalogHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	query := dto.ProductListQuery{
		ShopID:   c.Query("shop_id"),
		Category: c.Query("category"),
		Limit:    limit,
		Offset:   offset,
	}

	products, err := h.service.ListProducts(requestContext(c), query)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("list products failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list products")
	}

	return utils.SendSuccess(c, "products", products)
}

func (h *CatalogHandler) get(c *fiber.Ctx) error {
	product, err := h.service.GetProduct(requestContext(c), c.Params("id"))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "product not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("get product failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load product")
	}

	return utils.SendSuccess(c, "product", product)
}
