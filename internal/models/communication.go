package models

import "time"

// Conversation groups messages between two participants.
type Conversation struct {
	ID            string    `gorm:"primaryKey;size:64" json:"id"`
	ParticipantA  string    `gorm:"size:64;index" json:"participant_a"`
	ParticipantB  string    `gorm:"size:64;index" json:"participant_b"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// ConversationUnread is one participant's durable unread counter for a
// conversation. It is the source of truth for unread state, never the socket
// layer, and is only ever changed by single atomic statements so concurrent
// sends cannot lose an increment. A missing row reads as zero.
type ConversationUnread struct {
	ConversationID string    `gorm:"primaryKey;size:64" json:"conversation_id"`
	ParticipantID  string    `gorm:"primaryKey;size:64" json:"participant_id"`
	Count          int64     `gorm:"not null;default:0" json:"count"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Message is a single chat payload within a conversation.
type Message struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	ConversationID string    `gorm:"size:64;index" json:"conversation_id"`
	SenderID       string    `gorm:"size:64;index" json:"sender_id"`
	Content        string    `gorm:"type:text" json:"content"`
	Type           string    `gorm:"size:32;default:text" json:"type"`
	CreatedAt      time.Time `json:"created_at"`
}

// Notification event types.
const (
	NotificationFriendRequest = "friend_request"
	NotificationFriendAccept  = "friend_accept"
	NotificationMessage       = "message"
	NotificationLike          = "like"
	NotificationComment       = "comment"
	NotificationSystem        = "system"
	NotificationOrderStatus   = "order_status"
	NotificationNewOrder      = "new_order"
)

// Notification is the durable record of a notifiable domain event. Losing the
// live socket emit must never lose this row; it is written before any
// delivery attempt.
type Notification struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	RecipientID   string    `gorm:"size:64;index" json:"recipient_id"`
	RecipientKind string    `gorm:"size:16;not null" json:"recipient_kind"`
	SenderID      string    `gorm:"size:64" json:"sender_id"`
	SenderKind    string    `gorm:"size:16" json:"sender_kind"`
	Type          string    `gorm:"size:32;index" json:"type"`
	RelatedID     string    `gorm:"size:64" json:"related_id"`
	Text          string    `gorm:"type:text" json:"text"`
	Read          bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}
