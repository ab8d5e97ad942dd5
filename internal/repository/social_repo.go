package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/wearvirtually/wearvirtually-api/internal/models"
)

// FriendshipRepository persists friendship edges between users.
type FriendshipRepository interface {
	Create(ctx context.Context, friendship *models.Friendship) error
	FindByID(ctx context.Context, id uint) (models.Friendship, error)
	FindPair(ctx context.Context, userA, userB string) (models.Friendship, error)
	UpdateStatus(ctx context.Context, id uint, status string) (models.Friendship, error)
	ListForUser(ctx context.Context, userID, status string, limit int) ([]models.Friendship, error)
}

type friendshipRepository struct {
	db *gorm.DB
}

// NewFriendshipRepository constructs a friendship repository backed by GORM.
func NewFriendshipRepository(db *gorm.DB) FriendshipRepository {
	return &friendshipRepository{db: db}
}

func (r *friendshipRepository) Create(ctx context.Context, friendship *models.Friendship) error {
	return r.db.WithContext(ctx).Create(friendship).Error
}

func (r *friendshipRepository) FindByID(ctx context.Context, id uint) (models.Friendship, error) {
	var friendship models.Friendship
	if err := r.db.WithContext(ctx).First(&friendship, id).Error; err != nil {
		return models.Friendship{}, err
	}
	return friendship, nil
}

func (r *friendshipRepository) FindPair(ctx context.Context, userA, userB string) (models.Friendship, error) {
	var friendship models.Friendship
	err := r.db.WithContext(ctx).
		Where("(requester_id = ? AND addressee_id = ?) OR (requester_id = ? AND addressee_id = ?)",
			userA, userB, userB, userA).
		First(&friendship).Error
	if err != nil {
		return models.Friendship{}, err
	}
	return friendship, nil
}

func (r *friendshipRepository) UpdateStatus(ctx context.Context, id uint, status string) (models.Friendship, error) {
	friendship, err := r.FindByID(ctx, id)
	if err != nil {
		return models.Friendship{}, err
	}

	friendship.Status = status
	if err := r.db.WithContext(ctx).Save(&friendship).Error; err != nil {
		return models.Friendship{}, err
	}
	return friendship, nil
}

func (r *friendshipRepository) ListForUser(ctx context.Context, userID, status string, limit int) ([]models.Friendship, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	query := r.db.WithContext(ctx).
		Where("requester_id = ? OR addressee_id = ?", userID, userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	var friendships []models.Friendship
	if err := query.Order("created_at DESC").Limit(limit).Find(&friendships).Error; err != nil {
		return nil, err
	}
	return friendships, nil
}

// PostRepository persists posts, likes and comments.
type PostRepository interface {
	CreatePost(ctx context.Context, post *models.Post) error
	FindPostByID(ctx context.Context, id string) (models.Post, error)
	ListPosts(ctx context.Context, authorID string, limit, offset int) ([]models.Post, error)
	CreateLike(ctx context.Context, like *models.PostLike) error
	CreateComment(ctx context.Context, comment *models.PostComment) error
	ListComments(ctx context.Context, postID string, limit int) ([]models.PostComment, error)
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository constructs a post repository backed by GORM.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) CreatePost(ctx context.Context, post *models.Post) error {
	return r.db.WithContext(ctx).Create(post).Error
}

func (r *postRepository) FindPostByID(ctx context.Context, id string) (models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		return models.Post{}, err
	}
	return post, nil
}

func (r *postRepository) ListPosts(ctx context.Context, authorID string, limit, offset int) ([]models.Post, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := r.db.WithContext(ctx).Model(&models.Post{})
	if authorID != "" {
		query = query.Where("author_id = ?", authorID)
	}

	var posts []models.Post
	if err := query.Order("created_at DESC").Offset(offset).Limit(limit).Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (r *postRepository) CreateLike(ctx context.Context, like *models.PostLike) error {
	return r.db.WithContext(ctx).Create(like).Error
}

func (r *postRepository) CreateComment(ctx context.Context, comment *models.PostComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *postRepository) ListComments(ctx context.Context, postID string, limit int) ([]models.PostComment, error) {
	if limit <= 0 || limit > 200 {
		limit = 100
	}

	var comments []models.PostComment
	if err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC").
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}
