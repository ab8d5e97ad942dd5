package contract_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/stretchr/testify/require"

	"github.com/wearvirtually/wearvirtually-api/internal/dto"
	"github.com/wearvirtually/wearvirtually-api/internal/handler"
	"github.com/wearvirtually/wearvirtually-api/internal/service"
)

type stubNotificationService struct {
	notifications []dto.NotificationResponse
}

func (s stubNotificationService) Notify(context.Context, service.NotificationInput) (dto.NotificationResponse, error) {
	return dto.NotificationResponse{}, nil
}

func (s stubNotificationService) ResolveRecipient(context.Context, string) service.Recipient {
	return service.Recipient{}
}

func (s stubNotificationService) List(context.Context, string, int, int) ([]dto.NotificationResponse, error) {
	return s.notifications, nil
}

func (s stubNotificationService) UnreadCount(context.Context, string) (int64, error) {
	return int64(len(s.notifications)), nil
}

func (s stubNotificationService) MarkRead(context.Context, uint, string) (dto.NotificationResponse, error) {
	return dto.NotificationResponse{}, nil
}

func (s stubNotificationService) MarkAllRead(context.Context, string) (int64, error) {
	return int64(len(s.notifications)), nil
}

func (s stubNotificationService) Delete(context.Context, uint, string) error {
	return nil
}

func TestNotificationListContract(t *testing.T) {
	schemaPath, err := filepath.Abs(filepath.Join("..", "contracts", "notifications.schema.json"))
	require.NoError(t, err)

	compiler := jsonschema.NewCompiler()
	schema, err := compiler.Compile("file://" + schemaPath)
	require.NoError(t, err)

	now := time.Now().UTC()
	svc := stubNotificationService{
		notifications: []dto.NotificationResponse{
			{
				ID:            1,
				RecipientID:   "user_1",
				RecipientKind: "user",
				SenderID:      "user_2",
				SenderKind:    "user",
				Type:          "friend_request",
				RelatedID:     "user_2",
				Text:          "sent you a friend request",
				Read:          false,
				CreatedAt:     now,
			},
			{
				ID:            2,
				RecipientID:   "user_1",
				RecipientKind: "user",
				Type:          "order_status",
				RelatedID:     "order_7",
				Text:          "your order has shipped",
				Read:          true,
				CreatedAt:     now.Add(-time.Hour),
			},
		},
	}

	h := handler.NewNotificationHandler(svc, zerolog.Nop())

	app := fiber.New()
	group := app.Group("/api/v1/notifications", func(c *fiber.Ctx) error {
		c.Locals("participant_id", "user_1")
		c.Locals("participant_kind", "user")
		return c.Next()
	})
	h.Register(group)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/notifications", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()

	var payload interface{}
	require.NoError(t, json.Unmarshal(body, &payload))
	require.NoError(t, schema.Validate(payload))
}
