package handler

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/wearvirtually/wearvirtually-api/internal/middleware"
	"github.com/wearvirtually/wearvirtually-api/internal/models"
	"github.com/wearvirtually/wearvirtually-api/internal/service"
)

func parseQueryInt(c *fiber.Ctx, key string) (int, error) {
	value := strings.TrimSpace(c.Query(key))
	if value == "" {
		return 0, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, err
	}
	return parsed, nil
}

func participantIDFromContext(c *fiber.Ctx) string {
	if v := c.Locals("participant_id"); v != nil {
		if id, ok := v.(string); ok {
			return strings.TrimSpace(id)
		}
	}
	return ""
}

func participantFromContext(c *fiber.Ctx) service.Recipient {
	recipient := service.Recipient{ID: participantIDFromContext(c)}
	if v := c.Locals("participant_kind"); v != nil {
		if kind, ok := v.(string); ok {
			switch strings.TrimSpace(kind) {
			case "shop":
				recipient.Kind = models.ParticipantShop
			case "user":
				recipient.Kind = models.ParticipantUser
			}
		}
	}
	return recipient
}

func requestContext(c *fiber.Ctx) context.Context {
	ctx := c.UserContext()
	if ctx == nil {
		ctx = context.Background()
	}
	return middleware.ContextWithCorrelation(ctx, middleware.GetCorrelationID(c))
}

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func isValidationError(err error) bool {
	var validationErrors validator.ValidationErrors
	return errors.As(err, &validationErrors)
}
