package service

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/wearvirtually/wearvirtually-api/internal/dto"
	"github.com/wearvirtually/wearvirtually-api/internal/models"
)

func newChatFixture(t *testing.T, online bool) (ChatService, *fakeConversationRepo, *fakeRealtime, *miniredis.Miniredis) {
	t.Helper()

	redisServer := miniredis.RunT(t)
	redisClient := redis.NewClient(&redis.Options{Addr: redisServer.Addr()})

	repo := &fakeConversationRepo{}
	realtime := &fakeRealtime{online: online}
	validate := validator.New(validator.WithRequiredStructEnabled())

	svc := NewChatService(repo, realtime, redisClient, "wearvirtually", validate, zerolog.Nop())
	return svc, repo, realtime, redisServer
}

func seedConversation(repo *fakeConversationRepo) models.Conversation {
	conversation := models.Conversation{
		ID:           "conv_abc",
		ParticipantA: "user_1",
		ParticipantB: "user_2",
	}
	repo.put(conversation)
	return conversation
}

func TestSendMessagePersistsAndBumpsUnread(t *testing.T) {
	svc, repo, _, _ := newChatFixture(t, true)
	seedConversation(repo)

	response, err := svc.SendMessage(context.Background(), "user_1", dto.ChatSendRequest{
		ConversationID: "conv_abc",
		Content:        "hello there",
	})
	require.NoError(t, err)
	require.Equal(t, "conv_abc", response.ConversationID)
	require.Equal(t, "user_1", response.SenderID)
	require.Equal(t, "text", response.Type)

	require.Len(t, repo.messages, 1)

	unread, err := repo.UnreadCount(context.Background(), "conv_abc", "user_2")
	require.NoError(t, err)
	require.Equal(t, int64(1), unread)

	// The sender's own counter is untouched.
	unread, err = repo.UnreadCount(context.Background(), "conv_abc", "user_1")
	require.NoError(t, err)
	require.Zero(t, unread)
}

func TestSendMessageEmitsBothAliases(t *testing.T) {
	svc, repo, realtime, _ := newChatFixture(t, true)
	seedConversation(repo)

	_, err := svc.SendMessage(context.Background(), "user_1", dto.ChatSendRequest{
		ConversationID: "conv_abc",
		Content:        "hello there",
	})
	require.NoError(t, err)

	emits := realtime.emitted()
	require.Len(t, emits, 2)
	require.Equal(t, dto.EventMessageNew, emits[0].Event)
	require.Equal(t, dto.EventNewMessage, emits[1].Event)
	for _, emit := range emits {
		require.Equal(t, "user_2", emit.ParticipantID)
		payload, ok := emit.Payload.(dto.MessageEventPayload)
		require.True(t, ok)
		require.Equal(t, int64(1), payload.Unread)
	}
}

func TestSendMessageSucceedsWhenRecipientOffline(t *testing.T) {
	svc, repo, _, _ := newChatFixture(t, false)
	seedConversation(repo)

	_, err := svc.SendMessage(context.Background(), "user_1", dto.ChatSendRequest{
		ConversationID: "conv_abc",
		Content:        "are you there?",
	})
	require.NoError(t, err)

	require.Len(t, repo.messages, 1)
	unread, err := repo.UnreadCount(context.Background(), "conv_abc", "user_2")
	require.NoError(t, err)
	require.Equal(t, int64(1), unread)
}

func TestSendMessageRejectsNonParticipant(t *testing.T) {
	svc, repo, realtime, _ := newChatFixture(t, true)
	seedConversation(repo)

	_, err := svc.SendMessage(context.Background(), "user_intruder", dto.ChatSendRequest{
		ConversationID: "conv_abc",
		Content:        "let me in",
	})
	require.ErrorIs(t, err, ErrChatNotParticipant)
	require.Empty(t, repo.messages)
	require.Empty(t, realtime.emitted())
}

func TestSendMessageSanitizesContent(t *testing.T) {
	svc, repo, _, _ := newChatFixture(t, true)
	seedConversation(repo)

	response, err := svc.SendMessage(context.Background(), "user_1", dto.ChatSendRequest{
		ConversationID: "conv_abc",
		Content:        `hi<script>alert("x")</script>`,
	})
	require.NoError(t, err)
	require.Equal(t, "hi", response.Content)
	require.Equal(t, "hi", repo.messages[0].Content)
}

func TestSendMessageRejectsScriptOnlyContent(t *testing.T) {
	svc, repo, _, _ := newChatFixture(t, true)
	seedConversation(repo)

	_, err := svc.SendMessage(context.Background(), "user_1", dto.ChatSendRequest{
		ConversationID: "conv_abc",
		Content:        `<script>alert("x")</script>`,
	})
	require.Error(t, err)
}

func TestSendMessageCachesLastMessage(t *testing.T) {
	svc, repo, _, redisServer := newChatFixture(t, true)
	seedConversation(repo)

	_, err := svc.SendMessage(context.Background(), "user_1", dto.ChatSendRequest{
		ConversationID: "conv_abc",
		Content:        "cached line",
	})
	require.NoError(t, err)

	cached, err := redisServer.Get("wearvirtually:chat:last:conv_abc")
	require.NoError(t, err)
	require.Contains(t, cached, "cached line")
}

func TestMarkConversationReadResetsCounter(t *testing.T) {
	svc, repo, _, _ := newChatFixture(t, true)
	seedConversation(repo)

	_, err := svc.SendMessage(context.Background(), "user_1", dto.ChatSendRequest{
		ConversationID: "conv_abc",
		Content:        "unread line",
	})
	require.NoError(t, err)

	require.NoError(t, svc.MarkConversationRead(context.Background(), "conv_abc", "user_2"))

	unread, err := repo.UnreadCount(context.Background(), "conv_abc", "user_2")
	require.NoError(t, err)
	require.Zero(t, unread)
}

func TestMarkConversationReadRejectsNonParticipant(t *testing.T) {
	svc, repo, _, _ := newChatFixture(t, true)
	seedConversation(repo)

	err := svc.MarkConversationRead(context.Background(), "conv_abc", "user_intruder")
	require.ErrorIs(t, err, ErrChatNotParticipant)
}

func TestOpenConversationIsIdempotent(t *testing.T) {
	svc, _, _, _ := newChatFixture(t, true)
	ctx := context.Background()

	first, err := svc.OpenConversation(ctx, "user_1", "user_2")
	require.NoError(t, err)

	second, err := svc.OpenConversation(ctx, "user_2", "user_1")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
}

func TestOpenConversationRequiresDistinctParticipants(t *testing.T) {
	svc, _, _, _ := newChatFixture(t, true)

	_, err := svc.OpenConversation(context.Background(), "user_1", "user_1")
	require.Error(t, err)

	_, err = svc.OpenConversation(context.Background(), "user_1", "")
	require.Error(t, err)
}
