package dto

// Realtime event names exchanged over the websocket. message:new and
// new_message carry the same payload; older mobile builds only listen for
// the second form.
const (
	EventNotificationNew   = "notification:new"
	EventNewOrder          = "new_order"
	EventMessageNew        = "message:new"
	EventNewMessage        = "new_message"
	EventUserTyping        = "user_typing"
	EventUserStoppedTyping = "user_stopped_typing"
)

// Client frame types accepted on the websocket.
const (
	FrameJoin              = "join"
	FrameTyping            = "typing"
	FrameStoppedTyping     = "stopped_typing"
	FrameJoinConversation  = "join_conversation"
	FrameLeaveConversation = "leave_conversation"
)

// RealtimeClientFrame is the envelope read from client websocket connections.
// Wire field names are camelCase to match the mobile client.
type RealtimeClientFrame struct {
	Event          string `json:"event" validate:"required,oneof=join typing stopped_typing join_conversation leave_conversation"`
	ParticipantID  string `json:"participantId,omitempty"`
	ConversationID string `json:"conversationId,omitempty"`
	UserID         string `json:"userId,omitempty"`
}

// RealtimeEvent is the envelope written to client websocket connections.
type RealtimeEvent struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data"`
}

// TypingPayload is the body of user_typing / user_stopped_typing events.
type TypingPayload struct {
	UserID         string `json:"userId"`
	ConversationID string `json:"conversationId"`
}

// OrderEventPayload is the body of the new_order event pushed to a shop.
type OrderEventPayload struct {
	Order OrderSummary `json:"order"`
}

// OrderSummary is the trimmed order shape carried on realtime events.
type OrderSummary struct {
	ID          string `json:"_id"`
	OrderNumber string `json:"orderNumber"`
	TotalCents  int64  `json:"total"`
	Status      string `json:"status"`
}

// NotificationEventPayload is the body of notification:new events. Unread is
// recomputed from the durable store at emit time.
type NotificationEventPayload struct {
	Notification NotificationResponse `json:"notification"`
	Unread       int64                `json:"unread"`
}

// MessageEventPayload is the body of message:new / new_message events.
type MessageEventPayload struct {
	Message MessageResponse `json:"message"`
	Unread  int64           `json:"unread"`
}
