package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wearvirtually/wearvirtually-api/internal/service"
	"github.com/wearvirtually/wearvirtually-api/internal/utils"
)

// NotificationHandler exposes the durable notification inbox.
type NotificationHandler struct {
	service service.NotificationService
	logger  zerolog.Logger
}

// NewNotificationHandler creates a notification handler instance.
func NewNotificationHandler(service service.NotificationService, logger zerolog.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: service,
		logger:  logger.With().Str("component", "notification_handler").Logger(),
	}
}

// Register binds notification routes under the provided router group.
func (h *NotificationHandler) Register(router fiber.Router) {
	router.Get("", h.list)
	router.Get("/unread-count", h.unreadCount)
	router.Post("/:id/read", h.markRead)
	router.Post("/read-all", h.markAllRead)
	router.Delete("/:id", h.delete)
}

func (h *NotificationHandler) list(c *fiber.Ctx) error {
	recipientID := participantIDFromContext(c)
	if recipientID == "" {
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

	notifications, err := h.service.List(requestContext(c), recipientID, limit, offset)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("list notifications failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list notifications")
	}

	return utils.SendSuccess(c, "notifications", notifications)
}

func (h *NotificationHandler) unreadCount(c *fiber.Ctx) error {
	recipientID := participantIDFromContext(c)
	if recipientID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	count, err := h.service.UnreadCount(requestContext(c), recipientID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("unread count failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to count notifications")
	}

	return utils.SendSuccess(c, "unread count", fiber.Map{"unread": count})
}

func (h *NotificationHandler) markRead(c *fiber.Ctx) error {
	recipientID := participantIDFromContext(c)
	if recipientID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	notification, err := h.service.MarkRead(requestContext(c), uint(id), recipientID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "notification not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("mark notification read failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to mark notification read")
	}

	return utils.SendSuccess(c, "notification marked read", notification)
}

func (h *NotificationHandler) markAllRead(c *fiber.Ctx) error {
	recipientID := participantIDFromContext(c)
	if recipientID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	updated, err := h.service.MarkAllRead(requestContext(c), recipientID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("mark all notifications read failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to mark notifications read")
	}

	return utils.SendSuccess(c, "notifications marked read", fiber.Map{"updated": updated})
}

func (h *NotificationHandler) delete(c *fiber.Ctx) error {
	recipientID := participantIDFromContext(c)
	if recipientID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid notification id")
	}

	if err := h.service.Delete(requestContext(c), uint(id), recipientID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "notification not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("delete notification failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to delete notification")
	}

	return utils.SendSuccess(c, "notification deleted", nil)
}
