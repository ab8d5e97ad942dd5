package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/wearvirtually/wearvirtually-api/internal/models"
)

// MediaRepository persists metadata about uploaded media assets.
type MediaRepository interface {
	Create(ctx context.Context, asset *models.MediaAsset) error
}

type mediaRepository struct {
	db *gorm.DB
}

// NewMediaRepository constructs a repository for media assets.
func NewMediaRepository(db *gorm.DB) MediaRepository {
	return &mediaRepository{db: db}
}

func (r *mediaRepository) Create(ctx context.Context, asset *models.MediaAsset) error {
	return r.db.WithContext(ctx).Create(asset).Error
}
