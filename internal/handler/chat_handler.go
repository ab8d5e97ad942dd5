package handler

import (
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wearvirtually/wearvirtually-api/internal/dto"
	"github.com/wearvirtually/wearvirtually-api/internal/service"
	"github.com/wearvirtually/wearvirtually-api/internal/utils"
)

// ChatHandler wires direct-message endpoints.
type ChatHandler struct {
	service   service.ChatService
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewChatHandler creates a chat handler instance.
func NewChatHandler(service service.ChatService, validator *validator.Validate, logger zerolog.Logger) *ChatHandler {
	return &ChatHandler{
		service:   service,
		validator: validator,
		logger:    logger.With().Str("component", "chat_handler").Logger(),
	}
}

// Register binds chat routes under the provided router group.
func (h *ChatHandler) Register(router fiber.Router) {
	router.Post("/conversations", h.openConversation)
	router.Get("/conversations", h.listConversations)
	router.Post("/messages", h.sendMessage)
	router.Get("/messages", h.history)
	router.Post("/conversations/:id/read", h.markRead)
}

func (h *ChatHandler) openConversation(c *fiber.Ctx) error {
	participantID := participantIDFromContext(c)
	if participantID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	var payload struct {
		PeerID string `json:"peer_id"`
	}
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}
	if strings.TrimSpace(payload.PeerID) == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "peer_id required")
	}

	conversation, err := h.service.OpenConversation(requestContext(c), participantID, payload.PeerID)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("open conversation failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to open conversation")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "conversation ready", conversation)
}

func (h *ChatHandler) listConversations(c *fiber.Ctx) error {
	participantID := participantIDFromContext(c)
	if participantID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	conversations, err := h.service.ListConversations(requestContext(c), participantID, limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("list conversations failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list conversations")
	}

	return utils.SendSuccess(c, "conversations", conversations)
}

func (h *ChatHandler) sendMessage(c *fiber.Ctx) error {
	senderID := participantIDFromContext(c)
	if senderID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	var payload dto.ChatSendRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	message, err := h.service.SendMessage(requestContext(c), senderID, payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, service.ErrChatNotParticipant):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "conversation not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("send message failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to send message")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "message sent", message)
}

func (h *ChatHandler) history(c *fiber.Ctx) error {
	conversationID := c.Query("conversation_id")
	if conversationID == "" {
		return utils.SendError(c, fiber.StatusBadRequest, "conversation_id required")
	}

	var beforePtr *time.Time
	if before := c.Query("before"); before != "" {
		parsed, err := time.Parse(time.RFC3339, before)
		if err != nil {
			return utils.SendError(c, fiber.StatusBadRequest, "invalid before timestamp")
		}
		beforePtr = &parsed
	}

	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	query := dto.ChatHistoryQuery{
		ConversationID: conversationID,
		Before:         beforePtr,
		Limit:          limit,
	}
	if err := h.validator.Struct(query); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, err.Error())
	}

	messages, err := h.service.History(requestContext(c), query)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("chat history failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to load history")
	}

	return utils.SendSuccess(c, "chat history", messages)
}

func (h *ChatHandler) markRead(c *fiber.Ctx) error {
	participantID := participantIDFromContext(c)
	if participantID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	conversationID := c.Params("id")
	if err := h.service.MarkConversationRead(requestContext(c), conversationID, participantID); err != nil {
		switch {
		case errors.Is(err, service.ErrChatNotParticipant):
			return utils.SendError(c, fiber.StatusForbidden, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "conversation not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("mark conversation read failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to mark conversation read")
		}
	}

	return utils.SendSuccess(c, "conversation marked read", nil)
}
