package repository

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/wearvirtually/wearvirtually-api/internal/models"
)

func seedNotifications(t *testing.T, repo NotificationRepository, recipientID string, count int) []models.Notification {
	t.Helper()

	out := make([]models.Notification, 0, count)
	for i := 0; i < count; i++ {
		notification := models.Notification{
			RecipientID:   recipientID,
			RecipientKind: string(models.ParticipantUser),
			Type:          models.NotificationMessage,
			Text:          "new message",
		}
		require.NoError(t, repo.Create(context.Background(), &notification))
		out = append(out, notification)
	}
	return out
}

func TestCountUnreadIgnoresReadRows(t *testing.T) {
	repo := NewNotificationRepository(newTestDB(t))
	ctx := context.Background()

	seeded := seedNotifications(t, repo, "user_1", 3)

	count, err := repo.CountUnread(ctx, "user_1")
	require.NoError(t, err)
	require.Equal(t, int64(3), count)

	_, err = repo.MarkRead(ctx, seeded[0].ID, "user_1")
	require.NoError(t, err)

	count, err = repo.CountUnread(ctx, "user_1")
	require.NoError(t, err)
	require.Equal(t, int64(2), count)
}

func TestMarkReadRequiresMatchingRecipient(t *testing.T) {
	repo := NewNotificationRepository(newTestDB(t))
	ctx := context.Background()

	seeded := seedNotifications(t, repo, "user_1", 1)

	_, err := repo.MarkRead(ctx, seeded[0].ID, "user_other")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	marked, err := repo.MarkRead(ctx, seeded[0].ID, "user_1")
	require.NoError(t, err)
	require.True(t, marked.Read)
}

func TestMarkAllReadReportsUpdatedRows(t *testing.T) {
	repo := NewNotificationRepository(newTestDB(t))
	ctx := context.Background()

	seedNotifications(t, repo, "user_1", 2)
	seedNotifications(t, repo, "user_other", 1)

	updated, err := repo.MarkAllRead(ctx, "user_1")
	require.NoError(t, err)
	require.Equal(t, int64(2), updated)

	// A second pass has nothing left to update.
	updated, err = repo.MarkAllRead(ctx, "user_1")
	require.NoError(t, err)
	require.Zero(t, updated)

	count, err := repo.CountUnread(ctx, "user_other")
	require.NoError(t, err)
	require.Equal(t, int64(1), count)
}

func TestDeleteScopedToRecipient(t *testing.T) {
	repo := NewNotificationRepository(newTestDB(t))
	ctx := context.Background()

	seeded := seedNotifications(t, repo, "user_1", 1)

	require.NoError(t, repo.Delete(ctx, seeded[0].ID, "user_other"))
	listed, err := repo.ListByRecipient(ctx, "user_1", 10, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)

	require.NoError(t, repo.Delete(ctx, seeded[0].ID, "user_1"))
	listed, err = repo.ListByRecipient(ctx, "user_1", 10, 0)
	require.NoError(t, err)
	require.Empty(t, listed)
}
