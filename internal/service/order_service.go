package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wearvirtually/wearvirtually-api/internal/dto"
	"github.com/wearvirtually/wearvirtually-api/internal/models"
	"github.com/wearvirtually/wearvirtually-api/internal/observability"
	"github.com/wearvirtually/wearvirtually-api/internal/repository"
)

// ErrOrderForbidden indicates the caller does not own the order side required
// for the operation.
var ErrOrderForbidden = errors.New("order does not belong to caller")

// OrderService places orders and drives status transitions. Every durable
// write is followed by a best-effort notification; a dead socket never fails
// an order.
type OrderService interface {
	Create(ctx context.Context, userID string, payload dto.OrderCreateRequest) (dto.OrderResponse, error)
	UpdateStatus(ctx context.Context, shopID, orderID string, payload dto.OrderStatusUpdateRequest) (dto.OrderResponse, error)
	ListForUser(ctx context.Context, userID string, limit, offset int) ([]dto.OrderResponse, error)
	ListForShop(ctx context.Context, shopID string, limit, offset int) ([]dto.OrderResponse, error)
}

type orderService struct {
	orders        repository.OrderRepository
	products      repository.ProductRepository
	notifications NotificationService
	realtime      RealtimeService
	validator     *validator.Validate
	logger        zerolog.Logger
	tracer        trace.Tracer
}

// NewOrderService constructs an order service instance.
func NewOrderService(orders repository.OrderRepository, products repository.ProductRepository, notifications NotificationService, realtime RealtimeService, validate *validator.Validate, logger zerolog.Logger) OrderService {
	return &orderService{
		orders:        orders,
		products:      products,
		notifications: notifications,
		realtime:      realtime,
		validator:     validate,
		logger:        logger.With().Str("component", "order_service").Logger(),
		tracer:        otel.Tracer("github.com/wearvirtually/wearvirtually-api/internal/service/order"),
	}
}

func (s *orderService) Create(ctx context.Context, userID string, payload dto.OrderCreateRequest) (dto.OrderResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return dto.OrderResponse{}, errors.New("user id is required")
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.OrderResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "orders.create", trace.WithAttributes(
		attribute.String("order.user_id", userID),
		attribute.String("order.shop_id", payload.ShopID),
	))
	defer span.End()

	items := make([]models.OrderItem, 0, len(payload.Items))
	total := int64(0)
	for _, line := range payload.Items {
		product, err := s.products.FindByID(spanCtx, line.ProductID)
		if err != nil {
			span.RecordError(err)
			return dto.OrderResponse{}, fmt.Errorf("product %s: %w", line.ProductID, err)
		}
		if product.ShopID != payload.ShopID {
			return dto.OrderResponse{}, fmt.Errorf("product %s does not belong to shop %s", line.ProductID, payload.ShopID)
		}
		items = append(items, models.OrderItem{
			ProductID:  product.ID,
			Quantity:   line.Quantity,
			PriceCents: product.PriceCents,
		})
		total += product.PriceCents * int64(line.Quantity)
	}

	order := models.Order{
		ID:          "order_" + uuid.NewString(),
		OrderNumber: newOrderNumber(),
		UserID:      userID,
		ShopID:      payload.ShopID,
		TotalCents:  total,
		Status:      models.OrderPending,
		Items:       items,
	}

	if err := s.orders.Create(spanCtx, &order); err != nil {
		span.RecordError(err)
		return dto.OrderResponse{}, err
	}

	s.notifyShop(spanCtx, order)
	observability.OrdersCreatedTotal().Inc()

	return dto.NewOrderResponse(order), nil
}

// notifyShop records the durable notification and pushes the live new_order
// event. Failures here degrade to warnings; the order has already been placed.
func (s *orderService) notifyShop(ctx context.Context, order models.Order) {
	_, err := s.notifications.Notify(ctx, NotificationInput{
		Recipient: Recipient{Kind: models.ParticipantShop, ID: order.ShopID},
		Sender:    Recipient{Kind: models.ParticipantUser, ID: order.UserID},
		Type:      models.NotificationNewOrder,
		RelatedID: order.ID,
		Text:      fmt.Sprintf("New order %s received", order.OrderNumber),
	})
	if err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("failed to notify shop of new order")
	}

	s.realtime.EmitToParticipant(order.ShopID, dto.EventNewOrder, dto.OrderEventPayload{
		Order: dto.NewOrderSummary(order),
	})
}

func (s *orderService) UpdateStatus(ctx context.Context, shopID, orderID string, payload dto.OrderStatusUpdateRequest) (dto.OrderResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.OrderResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "orders.update_status", trace.WithAttributes(
		attribute.String("order.id", orderID),
		attribute.String("order.status", payload.Status),
	))
	defer span.End()

	existing, err := s.orders.FindByID(spanCtx, orderID)
	if err != nil {
		span.RecordError(err)
		return dto.OrderResponse{}, err
	}
	if existing.ShopID != shopID {
		return dto.OrderResponse{}, ErrOrderForbidden
	}

	order, err := s.orders.UpdateStatus(spanCtx, orderID, payload.Status)
	if err != nil {
		span.RecordError(err)
		return dto.OrderResponse{}, err
	}

	if _, err := s.notifications.Notify(spanCtx, NotificationInput{
		Recipient: Recipient{Kind: models.ParticipantUser, ID: order.UserID},
		Sender:    Recipient{Kind: models.ParticipantShop, ID: order.ShopID},
		Type:      models.NotificationOrderStatus,
		RelatedID: order.ID,
		Text:      fmt.Sprintf("Order %s is now %s", order.OrderNumber, order.Status),
	}); err != nil {
		s.logger.Warn().Err(err).Str("order_id", order.ID).Msg("failed to notify buyer of status change")
	}

	return dto.NewOrderResponse(order), nil
}

func (s *orderService) ListForUser(ctx context.Context, userID string, limit, offset int) ([]dto.OrderResponse, error) {
	orders, err := s.orders.ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewOrderResponseSlice(orders), nil
}

func (s *orderService) ListForShop(ctx context.Context, shopID string, limit, offset int) ([]dto.OrderResponse, error) {
	orders, err := s.orders.ListByShop(ctx, shopID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewOrderResponseSlice(orders), nil
}

func newOrderNumber() string {
	return fmt.Sprintf("WV-%d-%s", time.Now().UTC().Unix(), strings.ToUpper(uuid.NewString()[:8]))
}
