package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"gorm.io/datatypes"

	"github.com/wearvirtually/wearvirtually-api/internal/dto"
	"github.com/wearvirtually/wearvirtually-api/internal/models"
	"github.com/wearvirtually/wearvirtually-api/internal/repository"
)

// CatalogService manages garments published by shops.
type CatalogService interface {
	CreateProduct(ctx context.Context, shopID string, payload dto.ProductCreateRequest) (dto.ProductResponse, error)
	GetProduct(ctx context.Context, id string) (dto.ProductResponse, error)
	ListProducts(ctx context.Context, query dto.ProductListQuery) ([]dto.ProductResponse, error)
}

type catalogService struct {
	products  repository.ProductRepository
	shops     repository.ShopRepository
	validator *validator.Validate
	logger    zerolog.Logger
}

// NewCatalogService constructs a catalog service instance.
func NewCatalogService(products repository.ProductRepository, shops repository.ShopRepository, validate *validator.Validate, logger zerolog.Logger) CatalogService {
	return &catalogService{
		products:  products,
		shops:     shops,
		validator: validate,
		logger:    logger.With().Str("component", "catalog_service").Logger(),
	}
}

func (s *catalogService) CreateProduct(ctx context.Context, shopID string, payload dto.ProductCreateRequest) (dto.ProductResponse, error) {
	if strings.TrimSpace(shopID) == "" {
		return dto.ProductResponse{}, errors.New("shop id is required")
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.ProductResponse{}, err
	}

	if _, err := s.shops.FindByID(ctx, shopID); err != nil {
		return dto.ProductResponse{}, err
	}

	product := models.Product{
		ID:          "prod_" + uuid.NewString(),
		ShopID:      shopID,
		Name:        strings.TrimSpace(payload.Name),
		Description: payload.Description,
		Category:    payload.Category,
		PriceCents:  payload.PriceCents,
		ImageURL:    payload.ImageURL,
	}
	if len(payload.Attributes) > 0 {
		attributes := datatypes.JSONMap{}
		for key, value := range payload.Attributes {
			attributes[key] = value
		}
		product.Attributes = attributes
	}

	if err := s.products.Create(ctx, &product); err != nil {
		return dto.ProductResponse{}, err
	}

	return dto.NewProductResponse(product), nil
}

func (s *catalogService) GetProduct(ctx context.Context, id string) (dto.ProductResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return dto.ProductResponse{}, err
	}
	return dto.NewProductResponse(product), nil
}

func (s *catalogService) ListProducts(ctx context.Context, query dto.ProductListQuery) ([]dto.ProductResponse, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, err
	}

	products, err := s.products.List(ctx, repository.ProductFilter{
		ShopID:   query.ShopID,
		Category: query.Category,
		Limit:    query.Limit,
		Offset:   query.Offset,
	})
	if err != nil {
		return nil, err
	}

	return dto.NewProductResponseSlice(products), nil
}
