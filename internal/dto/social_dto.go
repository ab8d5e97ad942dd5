package dto

import (
	"time"

	"github.com/wearvirtually/wearvirtually-api/internal/models"
)

// FriendRequestCreate is the payload to send a friend request.
type FriendRequestCreate struct {
	AddresseeID string `json:"addressee_id" validate:"required,max=64"`
}

// FriendshipResponse describes a friendship edge.
type FriendshipResponse struct {
	ID          uint      `json:"id"`
	RequesterID string    `json:"requester_id"`
	AddresseeID string    `json:"addressee_id"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewFriendshipResponse converts a friendship model to a DTO.
func NewFriendshipResponse(model models.Friendship) FriendshipResponse {
	return FriendshipResponse{
		ID:          model.ID,
		RequesterID: model.RequesterID,
		AddresseeID: model.AddresseeID,
		Status:      model.Status,
		CreatedAt:   model.CreatedAt,
	}
}

// PostCreateRequest is the payload to publish a post.
type PostCreateRequest struct {
	Caption   string `json:"caption" validate:"required,min=1,max=2000"`
	ImageURL  string `json:"image_url" validate:"omitempty,url,max=512"`
	ProductID string `json:"product_id" validate:"omitempty,max=64"`
}

// PostCommentRequest is the payload to comment on a post.
type PostCommentRequest struct {
	Content string `json:"content" validate:"required,min=1,max=2000"`
}

// PostResponse is the serialized representation of a post.
type PostResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Caption   string    `json:"caption"`
	ImageURL  string    `json:"image_url,omitempty"`
	ProductID string    `json:"product_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// NewPostResponse converts a post model to a DTO.
func NewPostResponse(model models.Post) PostResponse {
	return PostResponse{
		ID:        model.ID,
		AuthorID:  model.AuthorID,
		Caption:   model.Caption,
		ImageURL:  model.ImageURL,
		ProductID: model.ProductID,
		CreatedAt: model.CreatedAt,
	}
}

// NewPostResponseSlice converts posts into DTOs.
func NewPostResponseSlice(items []models.Post) []PostResponse {
	out := make([]PostResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewPostResponse(item))
	}
	return out
}

// CommentResponse is the serialized representation of a post comment.
type CommentResponse struct {
	ID        uint      `json:"id"`
	PostID    string    `json:"post_id"`
	AuthorID  string    `json:"author_id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCommentResponse converts a comment model to a DTO.
func NewCommentResponse(model models.PostComment) CommentResponse {
	return CommentResponse{
		ID:        model.ID,
		PostID:    model.PostID,
		AuthorID:  model.AuthorID,
		Content:   model.Content,
		CreatedAt: model.CreatedAt,
	}
}
