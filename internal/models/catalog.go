package models

import (
	"time"

	"gorm.io/datatypes"
)

// Product represents a garment published by a shop.
type Product struct {
	ID          string            `gorm:"primaryKey;size:64" json:"id"`
	ShopID      string            `gorm:"size:64;index" json:"shop_id"`
	Name        string            `gorm:"size:255;not null" json:"name"`
	Description string            `gorm:"type:text" json:"description"`
	Category    string            `gorm:"size:64;index" json:"category"`
	PriceCents  int64             `gorm:"not null" json:"price_cents"`
	ImageURL    string            `gorm:"size:512" json:"image_url"`
	Attributes  datatypes.JSONMap `gorm:"type:json" json:"attributes"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
}

// TryOnResult stores the outcome of a virtual try-on render.
type TryOnResult struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    string    `gorm:"size:64;index" json:"user_id"`
	ProductID string    `gorm:"size:64;index" json:"product_id"`
	ImageURL  string    `gorm:"size:512" json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}
