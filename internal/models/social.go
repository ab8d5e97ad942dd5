package models

import "time"

// Post is user-generated content, optionally referencing a garment.
type Post struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	AuthorID  string    `gorm:"size:64;index" json:"author_id"`
	Caption   string    `gorm:"type:text" json:"caption"`
	ImageURL  string    `gorm:"size:512" json:"image_url"`
	ProductID string    `gorm:"size:64;index" json:"product_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostLike records a single like; one per user per post.
type PostLike struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    string    `gorm:"size:64;uniqueIndex:idx_like_once" json:"post_id"`
	UserID    string    `gorm:"size:64;uniqueIndex:idx_like_once" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// PostComment is a comment left on a post.
type PostComment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    string    `gorm:"size:64;index" json:"post_id"`
	AuthorID  string    `gorm:"size:64;index" json:"author_id"`
	Content   string    `gorm:"type:text" json:"content"`
	CreatedAt time.Time `json:"created_at"`
}
