package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wearvirtually/wearvirtually-api/internal/dto"
	"github.com/wearvirtually/wearvirtually-api/internal/models"
	"github.com/wearvirtually/wearvirtually-api/internal/observability"
	"github.com/wearvirtually/wearvirtually-api/internal/repository"
)

// Recipient identifies a notification target together with the collection it
// lives in. Handlers that loaded the recipient themselves pass the kind
// explicitly instead of relying on the probe fallback.
type Recipient struct {
	Kind models.ParticipantKind
	ID   string
}

// NotificationInput describes a notifiable domain event.
type NotificationInput struct {
	Recipient Recipient `validate:"required"`
	Sender    Recipient
	Type      string `validate:"required,oneof=friend_request friend_accept message like comment system order_status new_order"`
	RelatedID string `validate:"omitempty,max=64"`
	Text      string `validate:"required,min=1,max=2000"`
}

// NotificationService is the write-time bridge between domain actions and the
// realtime router. Notify persists the durable record first; the live emit is
// best-effort and its failure never reaches the caller.
type NotificationService interface {
	Notify(ctx context.Context, input NotificationInput) (dto.NotificationResponse, error)
	ResolveRecipient(ctx context.Context, id string) Recipient
	List(ctx context.Context, recipientID string, limit, offset int) ([]dto.NotificationResponse, error)
	UnreadCount(ctx context.Context, recipientID string) (int64, error)
	MarkRead(ctx context.Context, id uint, recipientID string) (dto.NotificationResponse, error)
	MarkAllRead(ctx context.Context, recipientID string) (int64, error)
	Delete(ctx context.Context, id uint, recipientID string) error
}

type notificationService struct {
	repo        repository.NotificationRepository
	users       repository.UserRepository
	shops       repository.ShopRepository
	realtime    RealtimeService
	nats        *nats.Conn
	natsSubject string
	validator   *validator.Validate
	logger      zerolog.Logger
	tracer      trace.Tracer
	sanitizer   *bluemonday.Policy
}

type notificationOutboundEvent struct {
	Notification dto.NotificationResponse `json:"notification"`
	SentAt       time.Time                `json:"sent_at"`
}

// NewNotificationService constructs the notification façade. The NATS
// connection is optional; when present, every persisted notification is also
// published for external consumers such as the email worker.
func NewNotificationService(
	repo repository.NotificationRepository,
	users repository.UserRepository,
	shops repository.ShopRepository,
	realtime RealtimeService,
	natsConn *nats.Conn,
	subjectBase string,
	validate *validator.Validate,
	logger zerolog.Logger,
) NotificationService {
	subject := ""
	if subjectBase != "" {
		subject = strings.ReplaceAll(subjectBase, ":", ".") + ".notifications"
	}

	return &notificationService{
		repo:        repo,
		users:       users,
		shops:       shops,
		realtime:    realtime,
		nats:        natsConn,
		natsSubject: subject,
		validator:   validate,
		logger:      logger.With().Str("component", "notification_service").Logger(),
		tracer:      otel.Tracer("github.com/wearvirtually/wearvirtually-api/internal/service/notification"),
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

// Notify persists the notification record, then attempts a live push. The
// durable write failing fails the call; anything after it only logs.
func (s *notificationService) Notify(ctx context.Context, input NotificationInput) (dto.NotificationResponse, error) {
	if err := s.validator.Struct(input); err != nil {
		return dto.NotificationResponse{}, err
	}

	if strings.TrimSpace(input.Recipient.ID) == "" {
		return dto.NotificationResponse{}, errors.New("notification recipient id is required")
	}

	if input.Recipient.Kind == "" {
		input.Recipient = s.ResolveRecipient(ctx, input.Recipient.ID)
	}

	cleanText := strings.TrimSpace(s.sanitizer.Sanitize(input.Text))
	if cleanText == "" {
		return dto.NotificationResponse{}, errors.New("notification text empty after sanitization")
	}

	attrs := []attribute.KeyValue{
		attribute.String("notification.recipient_id", input.Recipient.ID),
		attribute.String("notification.recipient_kind", string(input.Recipient.Kind)),
		attribute.String("notification.type", input.Type),
	}

	spanCtx, span := s.tracer.Start(ctx, "notifications.notify", trace.WithAttributes(attrs...))
	defer span.End()

	model := models.Notification{
		RecipientID:   input.Recipient.ID,
		RecipientKind: string(input.Recipient.Kind),
		SenderID:      input.Sender.ID,
		SenderKind:    string(input.Sender.Kind),
		Type:          input.Type,
		RelatedID:     input.RelatedID,
		Text:          cleanText,
	}

	if err := s.repo.Create(spanCtx, &model); err != nil {
		span.RecordError(err)
		return dto.NotificationResponse{}, err
	}

	response := dto.NewNotificationResponse(model)
	s.deliver(spanCtx, response)

	observability.NotificationsPublishedTotal().WithLabelValues(response.Type).Inc()

	return response, nil
}

// deliver pushes the persisted record over the socket layer and mirrors it to
// NATS. Both are best-effort.
func (s *notificationService) deliver(ctx context.Context, notification dto.NotificationResponse) {
	unread, err := s.repo.CountUnread(ctx, notification.RecipientID)
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to recompute unread count for emit")
	}

	s.realtime.EmitToParticipant(notification.RecipientID, dto.EventNotificationNew, dto.NotificationEventPayload{
		Notification: notification,
		Unread:       unread,
	})

	if s.nats == nil || s.natsSubject == "" {
		return
	}

	payload, err := json.Marshal(notificationOutboundEvent{Notification: notification, SentAt: time.Now().UTC()})
	if err != nil {
		s.logger.Warn().Err(err).Msg("failed to marshal outbound notification event")
		return
	}
	if err := s.nats.Publish(s.natsSubject, payload); err != nil {
		s.logger.Warn().Err(err).Msg("failed to publish notification to nats")
	}
}

// ResolveRecipient probes both actor collections to discover which one an id
// belongs to. Fallback for call sites that only hold a bare id string; when
// neither collection matches, the recipient is treated as a user.
func (s *notificationService) ResolveRecipient(ctx context.Context, id string) Recipient {
	if s.shops != nil {
		if ok, err := s.shops.Exists(ctx, id); err == nil && ok {
			return Recipient{Kind: models.ParticipantShop, ID: id}
		}
	}
	if s.users != nil {
		if ok, err := s.users.Exists(ctx, id); err == nil && ok {
			return Recipient{Kind: models.ParticipantUser, ID: id}
		}
	}

	s.logger.Warn().Str("participant_id", id).Msg("recipient kind unresolved, defaulting to user")
	return Recipient{Kind: models.ParticipantUser, ID: id}
}

func (s *notificationService) List(ctx context.Context, recipientID string, limit, offset int) ([]dto.NotificationResponse, error) {
	if strings.TrimSpace(recipientID) == "" {
		return nil, errors.New("recipient id is required")
	}

	notifications, err := s.repo.ListByRecipient(ctx, recipientID, limit, offset)
	if err != nil {
		return nil, err
	}

	return dto.NewNotificationResponseSlice(notifications), nil
}

func (s *notificationService) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	if strings.TrimSpace(recipientID) == "" {
		return 0, errors.New("recipient id is required")
	}
	return s.repo.CountUnread(ctx, recipientID)
}

func (s *notificationService) MarkRead(ctx context.Context, id uint, recipientID string) (dto.NotificationResponse, error) {
	spanCtx, span := s.tracer.Start(ctx, "notifications.mark_read", trace.WithAttributes(
		attribute.String("notification.recipient_id", recipientID),
	))
	defer span.End()

	notification, err := s.repo.MarkRead(spanCtx, id, recipientID)
	if err != nil {
		span.RecordError(err)
		return dto.NotificationResponse{}, err
	}

	return dto.NewNotificationResponse(notification), nil
}

func (s *notificationService) MarkAllRead(ctx context.Context, recipientID string) (int64, error) {
	if strings.TrimSpace(recipientID) == "" {
		return 0, errors.New("recipient id is required")
	}
	return s.repo.MarkAllRead(ctx, recipientID)
}

func (s *notificationService) Delete(ctx context.Context, id uint, recipientID string) error {
	return s.repo.Delete(ctx, id, recipientID)
}
