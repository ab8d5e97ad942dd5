package models

import "time"

// Order status values.
const (
	OrderPending   = "pending"
	OrderPaid      = "paid"
	OrderShipped   = "shipped"
	OrderDelivered = "delivered"
	OrderCancelled = "cancelled"
)

// Order represents a purchase placed by a user against a shop.
type Order struct {
	ID          string      `gorm:"primaryKey;size:64" json:"id"`
	OrderNumber string      `gorm:"size:32;uniqueIndex" json:"order_number"`
	UserID      string      `gorm:"size:64;index" json:"user_id"`
	ShopID      string      `gorm:"size:64;index" json:"shop_id"`
	TotalCents  int64       `gorm:"not null" json:"total_cents"`
	Status      string      `gorm:"size:16;default:pending" json:"status"`
	Items       []OrderItem `json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"`
}

// OrderItem is a single product line within an order.
type OrderItem struct {
	ID         uint   `gorm:"primaryKey" json:"id"`
	OrderID    string `gorm:"size:64;index;not null" json:"order_id"`
	ProductID  string `gorm:"size:64;index" json:"product_id"`
	Quantity   int    `gorm:"not null;default:1" json:"quantity"`
	PriceCents int64  `gorm:"not null" json:"price_cents"`
}
