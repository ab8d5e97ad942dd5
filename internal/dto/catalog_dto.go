package dto

import (
	"time"

	"github.com/wearvirtually/wearvirtually-api/internal/models"
)

// ProductCreateRequest is the payload to publish a garment.
type ProductCreateRequest struct {
	Name        string            `json:"name" validate:"required,min=2,max=255"`
	Description string            `json:"description" validate:"omitempty,max=5000"`
	Category    string            `json:"category" validate:"omitempty,max=64"`
	PriceCents  int64             `json:"price_cents" validate:"required,min=1"`
	ImageURL    string            `json:"image_url" validate:"omitempty,url,max=512"`
	Attributes  map[string]string `json:"attributes" validate:"omitempty,max=32"`
}

// ProductListQuery filters catalog listings.
type ProductListQuery struct {
	ShopID   string `query:"shop_id" validate:"omitempty,max=64"`
	Category string `query:"category" validate:"omitempty,max=64"`
	Limit    int    `query:"limit" validate:"omitempty,min=1,max=100"`
	Offset   int    `query:"offset" validate:"omitempty,min=0"`
}

// ProductResponse is the serialized representation of a product.
type ProductResponse struct {
	ID          string            `json:"id"`
	ShopID      string            `json:"shop_id"`
	Name        string            `json:"name"`
	Description string            `json:"description,omitempty"`
	Category    string            `json:"category,omitempty"`
	PriceCents  int64             `json:"price_cents"`
	ImageURL    string            `json:"image_url,omitempty"`
	Attributes  map[string]string `json:"attributes,omitempty"`
	CreatedAt   time.Time         `json:"created_at"`
}

// NewProductResponse converts a product model into a DTO.
func NewProductResponse(model models.Product) ProductResponse {
	response := ProductResponse{
		ID:          model.ID,
		ShopID:      model.ShopID,
		Name:        model.Name,
		Description: model.Description,
		Category:    model.Category,
		PriceCents:  model.PriceCents,
		ImageURL:    model.ImageURL,
		CreatedAt:   model.CreatedAt,
	}
	if model.Attributes != nil {
		response.Attributes = make(map[string]string)
		for key, value := range model.Attributes {
			if str, ok := value.(string); ok {
				response.Attributes[key] = str
			}
		}
	}
	return response
}

// NewProductResponseSlice converts products into DTOs.
func NewProductResponseSlice(items []models.Product) []ProductResponse {
	out := make([]ProductResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewProductResponse(item))
	}
	return out
}

// TryOnRequest asks for a virtual try-on render of a garment.
type TryOnRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64"`
	PhotoURL  string `json:"photo_url" validate:"required,url,max=512"`
}

// TryOnResponse carries the rendered try-on image.
type TryOnResponse struct {
	ID        uint      `json:"id"`
	UserID    string    `json:"user_id"`
	ProductID string    `json:"product_id"`
	ImageURL  string    `json:"image_url"`
	CreatedAt time.Time `json:"created_at"`
}

// NewTryOnResponse converts a try-on result model into a DTO.
func NewTryOnResponse(model models.TryOnResult) TryOnResponse {
	return TryOnResponse{
		ID:        model.ID,
		UserID:    model.UserID,
		ProductID: model.ProductID,
		ImageURL:  model.ImageURL,
		CreatedAt: model.CreatedAt,
	}
}
