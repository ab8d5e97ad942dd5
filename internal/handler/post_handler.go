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

// PostHandler wires the social feed endpoints.
type PostHandler struct {
	service service.PostService
	logger  zerolog.Logger
}

// NewPostHandler creates a post handler instance.
func NewPostHandler(service service.PostService, logger zerolog.Logger) *PostHandler {
	return &PostHandler{
		service: service,
		logger:  logger.With().Str("component", "post_handler").Logger(),
	}
}

// Register binds post routes under the provided router group.
func (h *PostHandler) Register(router fiber.Router) {
	router.Post("", h.create)
	router.Get("", h.list)
	router.Post("/:id/like", h.like)
	router.Post("/:id/comments", h.comment)
	router.Get("/:id/comments", h.listComments)
}

func (h *PostHandler) create(c *fiber.Ctx) error {
	authorID := participantIDFromContext(c)
	if authorID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	var payload dto.PostCreateRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	post, err := h.service.Create(requestContext(c), authorID, payload)
	if err != nil {
		if isValidationError(err) {
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("create post failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to create post")
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "post created", post)
}

func (h *PostHandler) list(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}
	offset, err := parseQueryInt(c, "offset")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid offset")
	}

	posts, err := h.service.List(requestContext(c), c.Query("author_id"), limit, offset)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("list posts failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list posts")
	}

	return utils.SendSuccess(c, "posts", posts)
}

func (h *PostHandler) like(c *fiber.Ctx) error {
	userID := participantIDFromContext(c)
	if userID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	if err := h.service.Like(requestContext(c), userID, c.Params("id")); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return utils.SendError(c, fiber.StatusNotFound, "post not found")
		}
		requestLogger(h.logger, c).Error().Err(err).Msg("like post failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to like post")
	}

	return utils.SendSuccess(c, "post liked", nil)
}

func (h *PostHandler) comment(c *fiber.Ctx) error {
	authorID := participantIDFromContext(c)
	if authorID == "" {
		return utils.SendError(c, fiber.StatusUnauthorized, "participant identity missing")
	}

	var payload dto.PostCommentRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid request body")
	}

	comment, err := h.service.Comment(requestContext(c), authorID, c.Params("id"), payload)
	if err != nil {
		switch {
		case isValidationError(err):
			return utils.SendError(c, fiber.StatusBadRequest, err.Error())
		case errors.Is(err, gorm.ErrRecordNotFound):
			return utils.SendError(c, fiber.StatusNotFound, "post not found")
		default:
			requestLogger(h.logger, c).Error().Err(err).Msg("comment on post failed")
			return utils.SendError(c, fiber.StatusInternalServerError, "failed to add comment")
		}
	}

	return utils.SendSuccessWithStatus(c, fiber.StatusCreated, "comment added", comment)
}

func (h *PostHandler) listComments(c *fiber.Ctx) error {
	limit, err := parseQueryInt(c, "limit")
	if err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid limit")
	}

	comments, err := h.service.ListComments(requestContext(c), c.Params("id"), limit)
	if err != nil {
		requestLogger(h.logger, c).Error().Err(err).Msg("list comments failed")
		return utils.SendError(c, fiber.StatusInternalServerError, "failed to list comments")
	}

	return utils.SendSuccess(c, "comments", comments)
}
