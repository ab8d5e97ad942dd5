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

// OrderHandler wires checkout and fulfilment endpoints.
type OrderHandler struct {
	service service.OrderService
	logger  zerolog.Logger
}

// NewOrderHandler creates an order handler instance.
func NewOrderHandler(service service.OrderService, logger zerolog.Logger) *OrderHandler {
	return &OrderHandler{
		service: service,
		logger:  logger.With().Str("component", "order_handler").Logger(),
	}
}

// Register binds order routes under the provided router group.
func (h *OrderHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.listForUser)
	router.Get("/shop", h.listForShop)
	router.Patch("/:id/status", h.updateStatus)
}

func (h *OrderHandler) create(c *fiber.Ctx) error {
	userID := participantIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	var payload dto.OrderCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.service.Create(requestContext(c), userID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "product not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("create order failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to create order")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "order created", order)
}

func (h *OrderHandler) listForUser(c *fiber.Ctx) error {
	userID := participantIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	orders, err := h.service.ListForUser(requestContext(c), userID, limit, offset)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("list orders failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list orders")
	}

	return utils.SendSuccess(c, "orders", orders)
}

func (h *OrderHandler) listForShop(c *fiber.Ctx) error {
	shopID := participantIDFromContext(c)
	if shopID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	orders, err := h.service.ListForShop(requestContext(c), shopID, limit, offset)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("list shop orders failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list orders")
	}

	return utils.SendSuccess(c, "orders", orders)
}

func (h *OrderHandler) updateStatus(c *fiber.Ctx) error {
	shopID := participantIDFromContext(c)
	if shopID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	var payload dto.OrderStatusUpdateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	order, err := h.service.UpdateStatus(requestContext(c), shopID, c.Params("id"), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrOrderForbidden):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "order not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("update order status failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to update order")
		}
	}

	return utils.SendSuccess(c, "order updated", order)
}
