package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/wearvirtually/wearvirtually-api/internal/models"
)

// ProductFilter narrows catalog listings.
type ProductFilter struct {
	ShopID   string
	Category string
	Limit    int
	Offset   int
}

// ProductRepository persists garments published by shops.
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	FindByID(ctx context.Context, id string) (models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository constructs a product repository backed by GORM.
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *productRepository) FindByID(ctx context.Context, id string) (models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return models.Product{}, err
	}
	return product, nil
}

func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	limit := filter.Limit
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	query := r.db.WithContext(ctx).Model(&models.Product{})
	if filter.ShopID != "" {
		query = query.Where("shop_id = ?", filter.ShopID)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}

	var products []models.Product
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// TryOnRepository stores virtual try-on render results.
type TryOnRepository interface {
	Create(ctx context.Context, result *models.TryOnResult) error
	ListByUser(ctx context.Context, userID string, limit int) ([]models.TryOnResult, error)
}

type tryOnRepository struct {
	db *gorm.DB
}

// NewTryOnRepository constructs a try-on repository backed by GORM.
func NewTryOnRepository(db *gorm.DB) TryOnRepository {
	return &tryOnRepository{db: db}
}

func (r *tryOnRepository) Create(ctx context.Context, result *models.TryOnResult) error {
	return r.db.WithContext(ctx).Create(result).Error
}

func (r *tryOnRepository) ListByUser(ctx context.Context, userID string, limit int) ([]models.TryOnResult, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var results []models.TryOnResult
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
