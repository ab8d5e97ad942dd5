package handler

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wearvirtually/wearvirtually-api/internal/dto"
	"github.com/wearvirtually/wearvirtually-api/internal/service"
	"github.com/wearvirtually/wearvirtually-api/internal/utils"
)

// FriendHandler wires friendship endpoints.
type FriendHandler struct {
	service service.FriendService
	logger  zerolog.Logger
}

// NewFriendHandler creates a friend handler instance.
func NewFriendHandler(service service.FriendService, logger zerolog.Logger) *FriendHandler {
	return &FriendHandler{
		service: service,
		logger:  logger.With().Str("component", "friend_handler").Logger(),
	}
}

// Register binds friendship routes under the provided router group.
func (h *FriendHandler) Register(router fiber.Router) {
	router.Post("/requests", h.sendRequest)
	router.Post("/requests/:id/accept", h.accept)
	router.Get("", h.list)
}

func (h *FriendHandler) sendRequest(c *fiber.Ctx) error {
	requesterID := participantIDFromContext(c)
	if requesterID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	var payload dto.FriendRequestCreate
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	friendship, err := h.service.SendRequest(requestContext(c), requesterID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrFriendshipExists):
			return utils.SendError(c, fiber.StatusConflict, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "user not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("send friend request failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to send friend request")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "friend request sent", friendship)
}

func (h *FriendHandler) accept(c *fiber.Ctx) error {
	userID := participantIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid friendship id")
	}

	friendship, err := h.service.Accept(requestContext(c), userID, uint(id))
	if err != nil {
		switch {
		case errors.Is(err, service.ErrFriendshipForbidden):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "friend request not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("accept friend request failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to accept friend request")
		}
	}

	return utils.SendSuccess(c, "friend request accepted", friendship)
}

func (h *FriendHandler) list(c *fiber.Ctx) error {
	userID := participantIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	friends, err := h.service.ListFriends(requestContext(c), userID, limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("list friends failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list friends")
	}

	return utils.SendSuccess(c, "friends", friends)
}
