package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/wearvirtually/wearvirtually-api/internal/dto"
	"github.com/wearvirtually/wearvirtually-api/internal/models"
	"github.com/wearvirtually/wearvirtually-api/internal/repository"
	"github.com/wearvirtually/wearvirtually-api/pkg/imagegen"
)

// TryOnRenderer abstracts the external image-generation API.
type TryOnRenderer interface {
	Render(ctx context.Context, input imagegen.RenderInput) ([]byte, error)
}

// TryOnService renders virtual try-on composites and stores the results.
type TryOnService interface {
	TryOn(ctx context.Context, userID string, payload dto.TryOnRequest) (dto.TryOnResponse, error)
	History(ctx context.Context, userID string, limit int) ([]dto.TryOnResponse, error)
}

type tryOnService struct {
	repo      repository.TryOnRepository
	products  repository.ProductRepository
	renderer  TryOnRenderer
	storage   FileStorage
	validator *validator.Validate
	logger    zerolog.Logger
	tracer    trace.Tracer
}

// NewTryOnService constructs a try-on service instance.
func NewTryOnService(repo repository.TryOnRepository, products repository.ProductRepository, renderer TryOnRenderer, storage FileStorage, validate *validator.Validate, logger zerolog.Logger) TryOnService {
	return &tryOnService{
		repo:      repo,
		products:  products,
		renderer:  renderer,
		storage:   storage,
		validator: validate,
		logger:    logger.With().Str("component", "tryon_service").Logger(),
		tracer:    otel.Tracer("github.com/wearvirtually/wearvirtually-api/internal/service/tryon"),
	}
}

func (s *tryOnService) TryOn(ctx context.Context, userID string, payload dto.TryOnRequest) (dto.TryOnResponse, error) {
	if strings.TrimSpace(userID) == "" {
		return dto.TryOnResponse{}, errors.New("user id is required")
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.TryOnResponse{}, err
	}

	spanCtx, span := s.tracer.Start(ctx, "tryon.render", trace.WithAttributes(
		attribute.String("tryon.user_id", userID),
		attribute.String("tryon.product_id", payload.ProductID),
	))
	defer span.End()

	product, err := s.products.FindByID(spanCtx, payload.ProductID)
	if err != nil {
		span.RecordError(err)
		return dto.TryOnResponse{}, fmt.Errorf("product: %w", err)
	}

	rendered, err := s.renderer.Render(spanCtx, imagegen.RenderInput{
		PersonPhotoURL: payload.PhotoURL,
		GarmentName:    product.Name,
		GarmentDesc:    product.Description,
		GarmentImage:   product.ImageURL,
	})
	if err != nil {
		span.RecordError(err)
		return dto.TryOnResponse{}, err
	}

	name := fmt.Sprintf("tryon-%s-%s.png", userID, product.ID)
	url, err := s.storage.Upload(spanCtx, name, bytes.NewReader(rendered))
	if err != nil {
		span.RecordError(err)
		return dto.TryOnResponse{}, fmt.Errorf("store render: %w", err)
	}

	result := models.TryOnResult{
		UserID:    userID,
		ProductID: product.ID,
		ImageURL:  url,
	}
	if err := s.repo.Create(spanCtx, &result); err != nil {
		span.RecordError(err)
		return dto.TryOnResponse{}, err
	}

	return dto.NewTryOnResponse(result), nil
}

func (s *tryOnService) History(ctx context.Context, userID string, limit int) ([]dto.TryOnResponse, error) {
	results, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.TryOnResponse, 0, len(results))
	for _, result := range results {
		out = append(out, dto.NewTryOnResponse(result))
	}
	return out, nil
}
