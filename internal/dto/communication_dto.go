package dto

import (
	"time"

	"github.com/wearvirtually/wearvirtually-api/internal/models"
)

// ChatSendRequest is the payload for posting a message into a conversation.
type ChatSendRequest struct {
	ConversationID string `json:"conversation_id" validate:"required,min=3,max=64"`
	Content        string `json:"content" validate:"required,min=1,max=4000"`
	Type           string `json:"type" validate:"omitempty,oneof=text image system"`
}

// ChatHistoryQuery filters message history retrieval.
type ChatHistoryQuery struct {
	ConversationID string     `query:"conversation_id" validate:"required,min=3,max=64"`
	Before         *time.Time `query:"before"`
	Limit          int        `query:"limit" validate:"omitempty,min=1,max=100"`
}

// MessageResponse is the serialized representation of a chat message.
type MessageResponse struct {
	ID             uint      `json:"id"`
	ConversationID string    `json:"conversation_id"`
	SenderID       string    `json:"sender_id"`
	Content        string    `json:"content"`
	Type           string    `json:"type"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewMessageResponse converts a model into a DTO.
func NewMessageResponse(message models.Message) MessageResponse {
	return MessageResponse{
		ID:             message.ID,
		ConversationID: message.ConversationID,
		SenderID:       message.SenderID,
		Content:        message.Content,
		Type:           message.Type,
		CreatedAt:      message.CreatedAt,
	}
}

// NewMessageResponseSlice converts a slice of models into DTOs.
func NewMessageResponseSlice(messages []models.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(messages))
	for _, message := range messages {
		out = append(out, NewMessageResponse(message))
	}
	return out
}

// ConversationResponse describes a conversation including the caller's unread count.
type ConversationResponse struct {
	ID            string    `json:"id"`
	ParticipantA  string    `json:"participant_a"`
	ParticipantB  string    `json:"participant_b"`
	Unread        int64     `json:"unread"`
	LastMessageAt time.Time `json:"last_message_at"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewConversationResponse converts a conversation model, carrying the
// viewer's unread counter alongside it.
func NewConversationResponse(conversation models.Conversation, unread int64) ConversationResponse {
	return ConversationResponse{
		ID:            conversation.ID,
		ParticipantA:  conversation.ParticipantA,
		ParticipantB:  conversation.ParticipantB,
		Unread:        unread,
		LastMessageAt: conversation.LastMessageAt,
		CreatedAt:     conversation.CreatedAt,
	}
}

// NotificationResponse represents notification data returned to clients.
type NotificationResponse struct {
	ID            uint      `json:"id"`
	RecipientID   string    `json:"recipient_id"`
	RecipientKind string    `json:"recipient_kind"`
	SenderID      string    `json:"sender_id,omitempty"`
	SenderKind    string    `json:"sender_kind,omitempty"`
	Type          string    `json:"type"`
	RelatedID     string    `json:"related_id,omitempty"`
	Text          string    `json:"text"`
	Read          bool      `json:"read"`
	CreatedAt     time.Time `json:"created_at"`
}

// NewNotificationResponse converts a notification model to DTO.
func NewNotificationResponse(model models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:            model.ID,
		RecipientID:   model.RecipientID,
		RecipientKind: model.RecipientKind,
		SenderID:      model.SenderID,
		SenderKind:    model.SenderKind,
		Type:          model.Type,
		RelatedID:     model.RelatedID,
		Text:          model.Text,
		Read:          model.Read,
		CreatedAt:     model.CreatedAt,
	}
}

// NewNotificationResponseSlice converts a slice to DTOs.
func NewNotificationResponseSlice(items []models.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, item := range items {
		out = append(out, NewNotificationResponse(item))
	}
	return out
}
