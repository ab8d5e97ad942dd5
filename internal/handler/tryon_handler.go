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

// TryOnHandler wires virtual try-on endpoints.
type TryOnHandler struct {
	service service.TryOnService
	logger  zerolog.Logger
}

// NewTryOnHandler creates a try-on handler instance.
func NewTryOnHandler(service service.TryOnService, logger zerolog.Logger) *TryOnHandler {
	return &TryOnHandler{
		service: service,
		logger:  logger.With().Str("component", "tryon_handler").Logger(),
	}
}

// Register binds try-on routes under the provided router group.
func (h *TryOnHandler) Register(router fiber.Router) {
	router.Post("", h.tryOn)
	router.Get("/history", h.history)
}

func (h *TryOnHandler) tryOn(c *fiber.Ctx) error {
	userID := participantIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	var payload dto.TryOnRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	result, err := h.service.TryOn(requestContext(c), userID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "product not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("try-on render failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to render try-on")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "try-on rendered", result)
}

func (h *TryOnHandler) history(c *fiber.Ctx) error {
	userID := participantIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	results, err := h.service.History(requestContext(c), userID, limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("try-on history failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load try-on history")
	}

	return utils.SendSuccess(c, "try-on history", results)
}
