package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/wearvirtually/wearvirtually-api/internal/models"
)

// OrderRepository persists orders and their line items.
type OrderRepository interface {
	Create(ctx context.Context, order *models.Order) error
	FindByID(ctx context.Context, id string) (models.Order, error)
	UpdateStatus(ctx context.Context, id, status string) (models.Order, error)
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Order, error)
	ListByShop(ctx context.Context, shopID string, limit, offset int) ([]models.Order, error)
}

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository constructs an order repository backed by GORM.
func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepository{db: db}
}

func (r *orderRepository) Create(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Create(order).Error
}

func (r *orderRepository) FindByID(ctx context.Context, id string) (models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&order, "id = ?", id).Error; err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id, status string) (models.Order, error) {
	order, err := r.FindByID(ctx, id)
	if err != nil {
		return models.Order{}, err
	}

	order.Status = status
	if err := r.db.WithContext(ctx).Save(&order).Error; err != nil {
		return models.Order{}, err
	}
	return order, nil
}

func (r *orderRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]models.Order, error) {
	return r.list(ctx, "user_id = ?", userID, limit, offset)
}

func (r *orderRepository) ListByShop(ctx context.Context, shopID string, limit, offset int) ([]models.Order, error) {
	return r.list(ctx, "shop_id = ?", shopID, limit, offset)
}

func (r *orderRepository) list(ctx context.Context, condition, value string, limit, offset int) ([]models.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var orders []models.Order
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where(condition, value).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&orders).Error; err != nil {
		return nil, err
	}
	return orders, nil
}
