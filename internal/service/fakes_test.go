package service

import (
	"context"
	"sync"
	"time"

	"github.com/gofiber/websocket/v2"
	"gorm.io/gorm"

	"github.com/wearvirtually/wearvirtually-api/internal/dto"
	"github.com/wearvirtually/wearvirtually-api/internal/models"
	"github.com/wearvirtually/wearvirtually-api/internal/repository"
)

// recordedEmit captures a single EmitToParticipant call.
type recordedEmit struct {
	ParticipantID string
	Event         string
	Payload       interface{}
}

// fakeRealtime lets tests control delivery outcome and inspect emits.
type fakeRealtime struct {
	mu     sync.Mutex
	online bool
	emits  []recordedEmit
}

func (f *fakeRealtime) ServeConnection(_ *websocket.Conn, _ RealtimeConnectionOptions) {}

func (f *fakeRealtime) EmitToParticipant(participantID, event string, payload interface{}) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.emits = append(f.emits, recordedEmit{ParticipantID: participantID, Event: event, Payload: payload})
	return f.online
}

func (f *fakeRealtime) BroadcastTyping(string, string)        {}
func (f *fakeRealtime) BroadcastStoppedTyping(string, string) {}
func (f *fakeRealtime) MembersOf(string) int                  { return 0 }

func (f *fakeRealtime) emitted() []recordedEmit {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedEmit, len(f.emits))
	copy(out, f.emits)
	return out
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	nextID        uint
	notifications []models.Notification
	failCreate    error
}

func (f *fakeNotificationRepo) Create(_ context.Context, notification *models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failCreate != nil {
		return f.failCreate
	}
	f.nextID++
	notification.ID = f.nextID
	notification.CreatedAt = time.Now().UTC()
	f.notifications = append(f.notifications, *notification)
	return nil
}

func (f *fakeNotificationRepo) ListByRecipient(_ context.Context, recipientID string, _, _ int) ([]models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Notification
	for _, n := range f.notifications {
		if n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out, nil
}

func (f *fakeNotificationRepo) CountUnread(_ context.Context, recipientID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := int64(0)
	for _, n := range f.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (f *fakeNotificationRepo) MarkRead(_ context.Context, id uint, recipientID string) (models.Notification, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			f.notifications[i].Read = true
			return f.notifications[i], nil
		}
	}
	return models.Notification{}, gorm.ErrRecordNotFound
}

func (f *fakeNotificationRepo) MarkAllRead(_ context.Context, recipientID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	updated := int64(0)
	for i, n := range f.notifications {
		if n.RecipientID == recipientID && !n.Read {
			f.notifications[i].Read = true
			updated++
		}
	}
	return updated, nil
}

func (f *fakeNotificationRepo) Delete(_ context.Context, id uint, recipientID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, n := range f.notifications {
		if n.ID == id && n.RecipientID == recipientID {
			f.notifications = append(f.notifications[:i], f.notifications[i+1:]...)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type fakeUserRepo struct {
	users map[string]models.User
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	if f.users == nil {
		f.users = map[string]models.User{}
	}
	f.users[user.ID] = *user
	return nil
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (models.User, error) {
	if user, ok := f.users[id]; ok {
		return user, nil
	}
	return models.User{}, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.users[id]
	return ok, nil
}

type fakeShopRepo struct {
	shops map[string]models.Shop
}

func (f *fakeShopRepo) Create(_ context.Context, shop *models.Shop) error {
	if f.shops == nil {
		f.shops = map[string]models.Shop{}
	}
	f.shops[shop.ID] = *shop
	return nil
}

func (f *fakeShopRepo) FindByID(_ context.Context, id string) (models.Shop, error) {
	if shop, ok := f.shops[id]; ok {
		return shop, nil
	}
	return models.Shop{}, gorm.ErrRecordNotFound
}

func (f *fakeShopRepo) Exists(_ context.Context, id string) (bool, error) {
	_, ok := f.shops[id]
	return ok, nil
}

type fakeConversationRepo struct {
	mu            sync.Mutex
	conversations map[string]models.Conversation
	unread        map[string]int64
	messages      []models.Message
	nextMessageID uint
	failIncrement error
}

func unreadKey(conversationID, participantID string) string {
	return conversationID + "/" + participantID
}

func (f *fakeConversationRepo) put(conversation models.Conversation) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.conversations == nil {
		f.conversations = map[string]models.Conversation{}
	}
	f.conversations[conversation.ID] = conversation
}

func (f *fakeConversationRepo) FindOrCreate(_ context.Context, participantA, participantB string) (models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.conversations {
		if (c.ParticipantA == participantA && c.ParticipantB == participantB) ||
			(c.ParticipantA == participantB && c.ParticipantB == participantA) {
			return c, nil
		}
	}
	if f.conversations == nil {
		f.conversations = map[string]models.Conversation{}
	}
	conversation := models.Conversation{
		ID:           "conv_" + participantA + "_" + participantB,
		ParticipantA: participantA,
		ParticipantB: participantB,
	}
	f.conversations[conversation.ID] = conversation
	return conversation, nil
}

func (f *fakeConversationRepo) FindByID(_ context.Context, id string) (models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if c, ok := f.conversations[id]; ok {
		return c, nil
	}
	return models.Conversation{}, gorm.ErrRecordNotFound
}

func (f *fakeConversationRepo) ListByParticipant(_ context.Context, participantID string, _ int) ([]models.Conversation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Conversation
	for _, c := range f.conversations {
		if c.ParticipantA == participantID || c.ParticipantB == participantID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeConversationRepo) SaveMessage(_ context.Context, message *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextMessageID++
	message.ID = f.nextMessageID
	message.CreatedAt = time.Now().UTC()
	f.messages = append(f.messages, *message)
	return nil
}

func (f *fakeConversationRepo) ListMessages(_ context.Context, conversationID string, _ time.Time, _ int) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Message
	for _, m := range f.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeConversationRepo) IncrementUnread(_ context.Context, conversationID, participantID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIncrement != nil {
		return 0, f.failIncrement
	}
	c, ok := f.conversations[conversationID]
	if !ok {
		return 0, gorm.ErrRecordNotFound
	}
	if f.unread == nil {
		f.unread = map[string]int64{}
	}
	f.unread[unreadKey(conversationID, participantID)]++
	c.LastMessageAt = time.Now().UTC()
	f.conversations[conversationID] = c
	return f.unread[unreadKey(conversationID, participantID)], nil
}

func (f *fakeConversationRepo) ResetUnread(_ context.Context, conversationID, participantID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.conversations[conversationID]; !ok {
		return gorm.ErrRecordNotFound
	}
	if f.unread == nil {
		f.unread = map[string]int64{}
	}
	f.unread[unreadKey(conversationID, participantID)] = 0
	return nil
}

func (f *fakeConversationRepo) UnreadCount(_ context.Context, conversationID, participantID string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.conversations[conversationID]; !ok {
		return 0, gorm.ErrRecordNotFound
	}
	return f.unread[unreadKey(conversationID, participantID)], nil
}

func (f *fakeConversationRepo) UnreadCountsByParticipant(_ context.Context, participantID string) (map[string]int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := map[string]int64{}
	for id := range f.conversations {
		if count, ok := f.unread[unreadKey(id, participantID)]; ok {
			out[id] = count
		}
	}
	return out, nil
}

type fakeOrderRepo struct {
	mu     sync.Mutex
	orders map[string]models.Order
}

func (f *fakeOrderRepo) Create(_ context.Context, order *models.Order) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.orders == nil {
		f.orders = map[string]models.Order{}
	}
	order.CreatedAt = time.Now().UTC()
	f.orders[order.ID] = *order
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, id string) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if order, ok := f.orders[id]; ok {
		return order, nil
	}
	return models.Order{}, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, id, status string) (models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	order, ok := f.orders[id]
	if !ok {
		return models.Order{}, gorm.ErrRecordNotFound
	}
	order.Status = status
	f.orders[id] = order
	return order, nil
}

func (f *fakeOrderRepo) ListByUser(_ context.Context, userID string, _, _ int) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, order := range f.orders {
		if order.UserID == userID {
			out = append(out, order)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) ListByShop(_ context.Context, shopID string, _, _ int) ([]models.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Order
	for _, order := range f.orders {
		if order.ShopID == shopID {
			out = append(out, order)
		}
	}
	return out, nil
}

type fakeProductRepo struct {
	products map[string]models.Product
}

func (f *fakeProductRepo) Create(_ context.Context, product *models.Product) error {
	if f.products == nil {
		f.products = map[string]models.Product{}
	}
	f.products[product.ID] = *product
	return nil
}

func (f *fakeProductRepo) FindByID(_ context.Context, id string) (models.Product, error) {
	if product, ok := f.products[id]; ok {
		return product, nil
	}
	return models.Product{}, gorm.ErrRecordNotFound
}

func (f *fakeProductRepo) List(_ context.Context, filter repository.ProductFilter) ([]models.Product, error) {
	var out []models.Product
	for _, product := range f.products {
		if filter.ShopID != "" && product.ShopID != filter.ShopID {
			continue
		}
		if filter.Category != "" && product.Category != filter.Category {
			continue
		}
		out = append(out, product)
	}
	return out, nil
}

// stubNotifier records Notify calls; the realtime push path is exercised via
// fakeRealtime in the notification tests instead.
type stubNotifier struct {
	mu     sync.Mutex
	inputs []NotificationInput
	fail   error
}

func (s *stubNotifier) Notify(_ context.Context, input NotificationInput) (dto.NotificationResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return dto.NotificationResponse{}, s.fail
	}
	s.inputs = append(s.inputs, input)
	return dto.NotificationResponse{
		ID:            uint(len(s.inputs)),
		RecipientID:   input.Recipient.ID,
		RecipientKind: string(input.Recipient.Kind),
		Type:          input.Type,
		Text:          input.Text,
	}, nil
}

func (s *stubNotifier) ResolveRecipient(_ context.Context, id string) Recipient {
	return Recipient{Kind: models.ParticipantUser, ID: id}
}

func (s *stubNotifier) List(context.Context, string, int, int) ([]dto.NotificationResponse, error) {
	return nil, nil
}

func (s *stubNotifier) UnreadCount(context.Context, string) (int64, error) { return 0, nil }

func (s *stubNotifier) MarkRead(context.Context, uint, string) (dto.NotificationResponse, error) {
	return dto.NotificationResponse{}, nil
}

func (s *stubNotifier) MarkAllRead(context.Context, string) (int64, error) { return 0, nil }

func (s *stubNotifier) Delete(context.Context, uint, string) error { return nil }

func (s *stubNotifier) notified() []NotificationInput {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]NotificationInput, len(s.inputs))
	copy(out, s.inputs)
	return out
}
