package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wearvirtually/wearvirtually-api/internal/dto"
	"github.com/wearvirtually/wearvirtually-api/internal/models"
	"github.com/wearvirtually/wearvirtually-api/internal/observability"
	"github.com/wearvirtually/wearvirtually-api/internal/repository"
)

const chatRedisTTL = 30 * time.Minute

// ErrChatNotParticipant indicates the sender does not belong to the conversation.
var ErrChatNotParticipant = errors.New("sender is not a conversation participant")

// ChatService persists conversations and messages and pushes live updates.
// The unread counter stored on the conversation is authoritative; the emits
// merely hint connected clients to refresh.
type ChatService interface {
	OpenConversation(ctx context.Context, initiatorID, peerID string) (dto.ConversationResponse, error)
	ListConversations(ctx context.Context, participantID string, limit int) ([]dto.ConversationResponse, error)
	SendMessage(ctx context.Context, senderID string, payload dto.ChatSendRequest) (dto.MessageResponse, error)
	History(ctx context.Context, query dto.ChatHistoryQuery) ([]dto.MessageResponse, error)
	MarkConversationRead(ctx context.Context, conversationID, participantID string) error
}

type chatService struct {
	repo       repository.ConversationRepository
	realtime   RealtimeService
	redis      *redis.Client
	redisCache string
	validator  *validator.Validate
	logger     zerolog.Logger
	tracer     trace.Tracer
	sanitizer  *bluemonday.Policy
}

// NewChatService creates a chat service instance.
func NewChatService(repo repository.ConversationRepository, realtime RealtimeService, redisClient *redis.Client, cacheBase string, validate *validator.Validate, logger zerolog.Logger) ChatService {
	sanitizer := bluemonday.UGCPolicy()
	sanitizer.AllowElements("br")

	cachePrefix := ""
	if cacheBase != "" {
		cachePrefix = cacheBase + ":chat:last"
	}

	return &chatService{
		repo:       repo,
		realtime:   realtime,
		redis:      redisClient,
		redisCache: cachePrefix,
		validator:  validate,
		logger:     logger.With().Str("component", "chat_service").Logger(),
		tracer:     otel.Tracer("github.com/wearvirtually/wearvirtually-api/internal/service/chat"),
		sanitizer:  sanitizer,
	}
}

func (s *chatService) OpenConversation(ctx context.Context, initiatorID, peerID string) (dto.ConversationResponse, error) {
	initiatorID = strings.TrimSpace(initiatorID)
	peerID = strings.TrimSpace(peerID)
	if initiatorID == "" || peerID == "" || initiatorID == peerID {
		return dto.ConversationResponse{}, errors.New("two distinct participants are required")
	}

	conversation, err := s.repo.FindOrCreate(ctx, initiatorID, peerID)
	if err != nil {
		return dto.ConversationResponse{}, err
	}

	unread, err := s.repo.UnreadCount(ctx, conversation.ID, initiatorID)
	if err != nil {
		return dto.ConversationResponse{}, err
	}

	return dto.NewConversationResponse(conversation, unread), nil
}

func (s *chatService) ListConversations(ctx context.Context, participantID string, limit int) ([]dto.ConversationResponse, error) {
	if strings.TrimSpace(participantID) == "" {
		return nil, errors.New("participant id is required")
	}

	conversations, err := s.repo.ListByParticipant(ctx, participantID, limit)
	if err != nil {
		return nil, err
	}

	unread, err := s.repo.UnreadCountsByParticipant(ctx, participantID)
	if err != nil {
		return nil, err
	}

	out := make([]dto.ConversationResponse, 0, len(conversations))
	for _, conversation := range conversations {
		out = append(out, dto.NewConversationResponse(conversation, unread[conversation.ID]))
	}
	return out, nil
}

// SendMessage persists the message and bumps the recipient's unread counter
// before any emit. Both message event aliases are pushed so older mobile
// builds keep working.
func (s *chatService) SendMessage(ctx context.Context, senderID string, payload dto.ChatSendRequest) (dto.MessageResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.MessageResponse{}, err
	}

	conversation, err := s.repo.FindByID(ctx, payload.ConversationID)
	if err != nil {
		return dto.MessageResponse{}, err
	}

	recipientID, err := conversationPeer(conversation, senderID)
	if err != nil {
		return dto.MessageResponse{}, err
	}

	clean := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if clean == "" {
		return dto.MessageResponse{}, fmt.Errorf("message content empty after sanitization")
	}

	messageType := payload.Type
	if messageType == "" {
		messageType = "text"
	}

	spanCtx, span := s.tracer.Start(ctx, "chat.send", trace.WithAttributes(
		attribute.String("chat.conversation_id", conversation.ID),
		attribute.String("chat.sender_id", senderID),
		attribute.String("chat.type", messageType),
	))
	defer span.End()

	model := models.Message{
		ConversationID: conversation.ID,
		SenderID:       senderID,
		Content:        clean,
		Type:           messageType,
	}

	if err := s.repo.SaveMessage(spanCtx, &model); err != nil {
		span.RecordError(err)
		return dto.MessageResponse{}, err
	}

	unread, err := s.repo.IncrementUnread(spanCtx, conversation.ID, recipientID)
	if err != nil {
		span.RecordError(err)
		return dto.MessageResponse{}, err
	}

	response := dto.NewMessageResponse(model)
	s.cacheLastMessage(spanCtx, response)

	event := dto.MessageEventPayload{Message: response, Unread: unread}
	s.realtime.EmitToParticipant(recipientID, dto.EventMessageNew, event)
	s.realtime.EmitToParticipant(recipientID, dto.EventNewMessage, event)

	observability.ChatMessagesSent().WithLabelValues(messageType).Inc()

	return response, nil
}

func (s *chatService) History(ctx context.Context, query dto.ChatHistoryQuery) ([]dto.MessageResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}

	before := time.Time{}
	if query.Before != nil {
		before = *query.Before
	}

	messages, err := s.repo.ListMessages(ctx, query.ConversationID, before, query.Limit)
	if err != nil {
		return nil, err
	}

	return dto.NewMessageResponseSlice(messages), nil
}

// MarkConversationRead zeroes the caller's unread counter. Driven only by an
// explicit client action, never by socket delivery.
func (s *chatService) MarkConversationRead(ctx context.Context, conversationID, participantID string) error {
	conversation, err := s.repo.FindByID(ctx, conversationID)
	if err != nil {
		return err
	}
	if _, err := conversationPeer(conversation, participantID); err != nil {
		return err
	}

	return s.repo.ResetUnread(ctx, conversationID, participantID)
}

func conversationPeer(conversation models.Conversation, participantID string) (string, error) {
	switch participantID {
	case conversation.ParticipantA:
		return conversation.ParticipantB, nil
	case conversation.ParticipantB:
		return conversation.ParticipantA, nil
	default:
		return "", ErrChatNotParticipant
	}
}

func (s *chatService) cacheLastMessage(ctx context.Context, message dto.MessageResponse) {
	if s.redis == nil || s.redisCache == "" {
		return
	}

	payload, err := json.Marshal(message)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal chat message for cache")
		return
	}

	key := fmt.Sprintf("%s:%s", s.redisCache, message.ConversationID)
	if err := s.redis.Set(ctx, key, payload, chatRedisTTL).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to cache chat message")
	}
}
