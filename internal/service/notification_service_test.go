package service

import (
	"context"
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/wearvirtually/wearvirtually-api/internal/dto"
	"github.com/wearvirtually/wearvirtually-api/internal/models"
)

func newNotificationFixture(online bool) (NotificationService, *fakeNotificationRepo, *fakeRealtime, *fakeUserRepo, *fakeShopRepo) {
	repo := &fakeNotificationRepo{}
	realtime := &fakeRealtime{online: online}
	users := &fakeUserRepo{users: map[string]models.User{"user_1": {ID: "user_1"}}}
	shops := &fakeShopRepo{shops: map[string]models.Shop{"shop_42": {ID: "shop_42"}}}
	validate := validator.New(validator.WithRequiredStructEnabled())

	svc := NewNotificationService(repo, users, shops, realtime, nil, "wearvirtually", validate, zerolog.Nop())
	return svc, repo, realtime, users, shops
}

func TestNotifyPersistsThenEmits(t *testing.T) {
	svc, repo, realtime, _, _ := newNotificationFixture(true)

	response, err := svc.Notify(context.Background(), NotificationInput{
		Recipient: Recipient{Kind: models.ParticipantUser, ID: "user_1"},
		Sender:    Recipient{Kind: models.ParticipantUser, ID: "user_2"},
		Type:      models.NotificationFriendRequest,
		RelatedID: "user_2",
		Text:      "sent you a friend request",
	})
	require.NoError(t, err)
	require.NotZero(t, response.ID)
	require.Equal(t, "user_1", response.RecipientID)
	require.False(t, response.Read)

	require.Len(t, repo.notifications, 1)

	emits := realtime.emitted()
	require.Len(t, emits, 1)
	require.Equal(t, "user_1", emits[0].ParticipantID)
	require.Equal(t, dto.EventNotificationNew, emits[0].Event)

	payload, ok := emits[0].Payload.(dto.NotificationEventPayload)
	require.True(t, ok)
	require.Equal(t, response.ID, payload.Notification.ID)
	require.Equal(t, int64(1), payload.Unread)
}

func TestNotifySucceedsWhenRecipientOffline(t *testing.T) {
	svc, repo, realtime, _, _ := newNotificationFixture(false)

	response, err := svc.Notify(context.Background(), NotificationInput{
		Recipient: Recipient{Kind: models.ParticipantShop, ID: "shop_42"},
		Sender:    Recipient{Kind: models.ParticipantUser, ID: "user_1"},
		Type:      models.NotificationNewOrder,
		RelatedID: "order_1",
		Text:      "New order WV-1 received",
	})
	require.NoError(t, err)
	require.NotZero(t, response.ID)

	// The durable record exists even though no socket accepted the emit.
	require.Len(t, repo.notifications, 1)
	require.Len(t, realtime.emitted(), 1)
}

func TestNotifyFailsWhenPersistenceFails(t *testing.T) {
	svc, repo, realtime, _, _ := newNotificationFixture(true)
	repo.failCreate = errors.New("db down")

	_, err := svc.Notify(context.Background(), NotificationInput{
		Recipient: Recipient{Kind: models.ParticipantUser, ID: "user_1"},
		Type:      models.NotificationSystem,
		Text:      "hello",
	})
	require.Error(t, err)
	require.Empty(t, realtime.emitted())
}

func TestNotifyRejectsEmptyRecipient(t *testing.T) {
	svc, _, _, _, _ := newNotificationFixture(true)

	_, err := svc.Notify(context.Background(), NotificationInput{
		Recipient: Recipient{Kind: models.ParticipantUser, ID: "   "},
		Type:      models.NotificationSystem,
		Text:      "hello",
	})
	require.Error(t, err)
}

func TestNotifyRejectsUnknownType(t *testing.T) {
	svc, _, _, _, _ := newNotificationFixture(true)

	_, err := svc.Notify(context.Background(), NotificationInput{
		Recipient: Recipient{Kind: models.ParticipantUser, ID: "user_1"},
		Type:      "telepathy",
		Text:      "hello",
	})
	require.Error(t, err)
}

func TestNotifySanitizesText(t *testing.T) {
	svc, repo, _, _, _ := newNotificationFixture(true)

	response, err := svc.Notify(context.Background(), NotificationInput{
		Recipient: Recipient{Kind: models.ParticipantUser, ID: "user_1"},
		Type:      models.NotificationMessage,
		Text:      `<script>alert("x")</script>new message`,
	})
	require.NoError(t, err)
	require.Equal(t, "new message", response.Text)
	require.Equal(t, "new message", repo.notifications[0].Text)
}

func TestNotifyResolvesMissingKindByProbe(t *testing.T) {
	svc, repo, _, _, _ := newNotificationFixture(true)

	_, err := svc.Notify(context.Background(), NotificationInput{
		Recipient: Recipient{ID: "shop_42"},
		Type:      models.NotificationNewOrder,
		Text:      "New order received",
	})
	require.NoError(t, err)
	require.Equal(t, string(models.ParticipantShop), repo.notifications[0].RecipientKind)
}

func TestResolveRecipientDefaultsToUser(t *testing.T) {
	svc, _, _, _, _ := newNotificationFixture(true)

	recipient := svc.ResolveRecipient(context.Background(), "ghost_99")
	require.Equal(t, models.ParticipantUser, recipient.Kind)
	require.Equal(t, "ghost_99", recipient.ID)
}

func TestResolveRecipientFindsShopAndUser(t *testing.T) {
	svc, _, _, _, _ := newNotificationFixture(true)

	require.Equal(t, models.ParticipantShop, svc.ResolveRecipient(context.Background(), "shop_42").Kind)
	require.Equal(t, models.ParticipantUser, svc.ResolveRecipient(context.Background(), "user_1").Kind)
}

func TestUnreadCountTracksReads(t *testing.T) {
	svc, _, _, _, _ := newNotificationFixture(false)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := svc.Notify(ctx, NotificationInput{
			Recipient: Recipient{Kind: models.ParticipantUser, ID: "user_1"},
			Type:      models.NotificationMessage,
			Text:      "new message",
		})
		require.NoError(t, err)
	}

	count, err := svc.UnreadCount(ctx, "user_1")
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	_, err = svc.MarkRead(ctx, 1, "user_1")
	require.NoError(t, err)

	count, err = svc.UnreadCount(ctx, "user_1")
	require.NoError(t, err)
	require.Equal(t, int64(2), count)

	updated, err := svc.MarkAllRead(ctx, "user_1")
	require.NoError(t, err)
	require.Equal(t, int64(2), updated)

	count, err = svc.UnreadCount(ctx, "user_1")
	require.NoError(t, err)
	require.Zero(t, count)
}

func TestMarkReadScopedToRecipient(t *testing.T) {
	svc, _, _, _, _ := newNotificationFixture(false)
	ctx := context.Background()

	_, err := svc.Notify(ctx, NotificationInput{
		Recipient: Recipient{Kind: models.ParticipantUser, ID: "user_1"},
		Type:      models.NotificationMessage,
		Text:      "new message",
	})
	require.NoError(t, err)

	_, err = svc.MarkRead(ctx, 1, "user_other")
	require.Error(t, err)
}
