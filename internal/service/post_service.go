package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/wearvirtually/wearvirtually-api/internal/dto"
	"github.com/wearvirtually/wearvirtually-api/internal/models"
	"github.com/wearvirtually/wearvirtually-api/internal/repository"
)

// PostService manages user content and the like/comment notifications it triggers.
type PostService interface {
	Create(ctx context.Context, authorID string, payload dto.PostCreateRequest) (dto.PostResponse, error)
	List(ctx context.Context, authorID string, limit, offset int) ([]dto.PostResponse, error)
	Like(ctx context.Context, userID, postID string) error
	Comment(ctx context.Context, authorID, postID string, payload dto.PostCommentRequest) (dto.CommentResponse, error)
	ListComments(ctx context.Context, postID string, limit int) ([]dto.CommentResponse, error)
}

type postService struct {
	repo          repository.PostRepository
	notifications NotificationService
	validator     *validator.Validate
	logger        zerolog.Logger
	sanitizer     *bluemonday.Policy
}

// NewPostService constructs a post service instance.
func NewPostService(repo repository.PostRepository, notifications NotificationService, validate *validator.Validate, logger zerolog.Logger) PostService {
	return &postService{
		repo:          repo,
		notifications: notifications,
		validator:     validate,
		logger:        logger.With().Str("component", "post_service").Logger(),
		sanitizer:     bluemonday.UGCPolicy(),
	}
}

func (s *postService) Create(ctx context.Context, authorID string, payload dto.PostCreateRequest) (dto.PostResponse, error) {
	if strings.TrimSpace(authorID) == "" {
		return dto.PostResponse{}, errors.New("author id is required")
	}
	if err := s.validator.Struct(payload); err != nil {
		return dto.PostResponse{}, err
	}

	caption := strings.TrimSpace(s.sanitizer.Sanitize(payload.Caption))
	if caption == "" {
		return dto.PostResponse{}, errors.New("caption empty after sanitization")
	}

	post := models.Post{
		ID:        "post_" + uuid.NewString(),
		AuthorID:  authorID,
		Caption:   caption,
		ImageURL:  payload.ImageURL,
		ProductID: payload.ProductID,
	}
	if err := s.repo.CreatePost(ctx, &post); err != nil {
		return dto.PostResponse{}, err
	}

	return dto.NewPostResponse(post), nil
}

func (s *postService) List(ctx context.Context, authorID string, limit, offset int) ([]dto.PostResponse, error) {
	posts, err := s.repo.ListPosts(ctx, authorID, limit, offset)
	if err != nil {
		return nil, err
	}
	return dto.NewPostResponseSlice(posts), nil
}

func (s *postService) Like(ctx context.Context, userID, postID string) error {
	post, err := s.repo.FindPostByID(ctx, postID)
	if err != nil {
		return err
	}

	if err := s.repo.CreateLike(ctx, &models.PostLike{PostID: postID, UserID: userID}); err != nil {
		return err
	}

	if post.AuthorID == userID {
		return nil
	}

	if _, err := s.notifications.Notify(ctx, NotificationInput{
		Recipient: Recipient{Kind: models.ParticipantUser, ID: post.AuthorID},
		Sender:    Recipient{Kind: models.ParticipantUser, ID: userID},
		Type:      models.NotificationLike,
		RelatedID: post.ID,
		Text:      "Someone liked your post",
	}); err != nil {
		s.logger.Warn().Err(err).Str("post_id", post.ID).Msg("failed to notify like")
	}

	return nil
}

func (s *postService) Comment(ctx context.Context, authorID, postID string, payload dto.PostCommentRequest) (dto.CommentResponse, error) {
	if err := s.validator.Struct(payload); err != nil {
		return dto.CommentResponse{}, err
	}

	post, err := s.repo.FindPostByID(ctx, postID)
	if err != nil {
		return dto.CommentResponse{}, err
	}

	content := strings.TrimSpace(s.sanitizer.Sanitize(payload.Content))
	if content == "" {
		return dto.CommentResponse{}, errors.New("comment empty after sanitization")
	}

	comment := models.PostComment{
		PostID:   postID,
		AuthorID: authorID,
		Content:  content,
	}
	if err := s.repo.CreateComment(ctx, &comment); err != nil {
		return dto.CommentResponse{}, err
	}

	if post.AuthorID != authorID {
		if _, err := s.notifications.Notify(ctx, NotificationInput{
			Recipient: Recipient{Kind: models.ParticipantUser, ID: post.AuthorID},
			Sender:    Recipient{Kind: models.ParticipantUser, ID: authorID},
			Type:      models.NotificationComment,
			RelatedID: post.ID,
			Text:      "Someone commented on your post",
		}); err != nil {
			s.logger.Warn().Err(err).Str("post_id", post.ID).Msg("failed to notify comment")
		}
	}

	return dto.NewCommentResponse(comment), nil
}

func (s *postService) ListComments(ctx context.Context, postID string, limit int) ([]dto.CommentResponse, error) {
	comments, err := s.repo.ListComments(ctx, postID, limit)
	if err != nil {
		return nil, err
	}

	out := make([]dto.CommentResponse, 0, len(comments))
	for _, comment := range comments {
		out = append(out, dto.NewCommentResponse(comment))
	}
	return out, nil
}
