package dto

import (
	"time"

	"github.com/wearvirtually/wearvirtually-api/internal/models"
)

// OrderItemRequest is a single product line in an order creation request.
type OrderItemRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	Quantity  int    `json:"quantity" validate:"required,min=1,max=99"`
}

// OrderCreateRequest is the payload to place an order.
type OrderCreateRequest struct {
	ShopID string             `json:"shop_id" validate:"required,max=64"`
	Items  []OrderItemRequest `json:"items" validate:"required,min=1,dive"`
}

// OrderStatusUpdateRequest transitions an order to a new status.
type OrderStatusUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=pending paid shipped delivered cancelled"`
}

// OrderItemResponse is the serialized order line.
type OrderItemResponse struct {
	ProductID  string `json:"product_id"`
	Quantity   int    `json:"quantity"`
	PriceCents int64  `json:"price_cents"`
}

// OrderResponse is the serialized representation of an order.
type OrderResponse struct {
	ID          string              `json:"id"`
	OrderNumber string              `json:"order_number"`
	UserID      string              `json:"user_id"`
	ShopID      string              `json:"shop_id"`
	TotalCents  int64               `json:"total_cents"`
	Status      string              `json:"status"`
	Items       []OrderItemResponse `json:"items"`
	CreatedAt   time.Time           `json:"created_at"`
}

// NewOrderResponse converts an order model into a DTO.
func NewOrderResponse(order models.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ProductID:  item.ProductID,
			Quantity:   item.Quantity,
			PriceCents: item.PriceCents,
		})
	}

	return OrderResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		UserID:      order.UserID,
		ShopID:      order.ShopID,
		TotalCents:  order.TotalCents,
		Status:      order.Status,
		Items:       items,
		CreatedAt:   order.CreatedAt,
	}
}

// NewOrderResponseSlice converts orders into DTOs.
func NewOrderResponseSlice(orders []models.Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		out = append(out, NewOrderResponse(order))
	}
	return out
}

// NewOrderSummary builds the trimmed shape used on realtime events.
func NewOrderSummary(order models.Order) OrderSummary {
	return OrderSummary{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		TotalCents:  order.TotalCents,
		Status:      order.Status,
	}
}
