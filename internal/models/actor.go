package models

import "time"

// ParticipantKind discriminates the two actor collections sharing the
// realtime delivery surface.
type ParticipantKind string

const (
	ParticipantUser ParticipantKind = "user"
	ParticipantShop ParticipantKind = "shop"
)

// User represents a shopper/social account.
type User struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Username  string    `gorm:"size:64;uniqueIndex" json:"username"`
	Email     string    `gorm:"size:128;uniqueIndex" json:"email"`
	FullName  string    `gorm:"size:128" json:"full_name"`
	AvatarURL string    `gorm:"size:512" json:"avatar_url"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Shop represents a merchant account publishing garments.
type Shop struct {
	ID        string    `gorm:"primaryKey;size:64" json:"id"`
	Name      string    `gorm:"size:128;index" json:"name"`
	Email     string    `gorm:"size:128;uniqueIndex" json:"email"`
	LogoURL   string    `gorm:"size:512" json:"logo_url"`
	OwnerID   string    `gorm:"size:64;index" json:"owner_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Friendship links two users once a request is accepted.
type Friendship struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	RequesterID string    `gorm:"size:64;index:idx_friendship_pair" json:"requester_id"`
	AddresseeID string    `gorm:"size:64;index:idx_friendship_pair" json:"addressee_id"`
	Status      string    `gorm:"size:16;default:pending" json:"status"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Friendship status values.
const (
	FriendshipPending  = "pending"
	FriendshipAccepted = "accepted"
)
