package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/wearvirtually/wearvirtually-api/internal/models"
)

// ConversationRepository persists conversations, their messages and the
// per-participant unread counters. The counters stored here are the durable
// source of truth for unread state; socket delivery never mutates them.
type ConversationRepository interface {
	FindOrCreate(ctx context.Context, participantA, participantB string) (models.Conversation, error)
	FindByID(ctx context.Context, id string) (models.Conversation, error)
	ListByParticipant(ctx context.Context, participantID string, limit int) ([]models.Conversation, error)
	SaveMessage(ctx context.Context, message *models.Message) error
	ListMessages(ctx context.Context, conversationID string, before time.Time, limit int) ([]models.Message, error)
	IncrementUnread(ctx context.Context, conversationID, participantID string) (int64, error)
	ResetUnread(ctx context.Context, conversationID, participantID string) error
	UnreadCount(ctx context.Context, conversationID, participantID string) (int64, error)
	UnreadCountsByParticipant(ctx context.Context, participantID string) (map[string]int64, error)
}

type conversationRepository struct {
	db *gorm.DB
}

// NewConversationRepository constructs a conversation repository backed by GORM.
func NewConversationRepository(db *gorm.DB) ConversationRepository {
	return &conversationRepository{db: db}
}

func (r *conversationRepository) FindOrCreate(ctx context.Context, participantA, participantB string) (models.Conversation, error) {
	var conversation models.Conversation
	err := r.db.WithContext(ctx).
		Where("(participant_a = ? AND participant_b = ?) OR (participant_a = ? AND participant_b = ?)",
			participantA, participantB, participantB, participantA).
		First(&conversation).Error
	if err == nil {
		return conversation, nil
	}
	if err != gorm.ErrRecordNotFound {
		return models.Conversation{}, err
	}

	conversation = models.Conversation{
		ID:           "conv_" + uuid.NewString(),
		ParticipantA: participantA,
		ParticipantB: participantB,
	}
	if err := r.db.WithContext(ctx).Create(&conversation).Error; err != nil {
		return models.Conversation{}, err
	}
	return conversation, nil
}

func (r *conversationRepository) FindByID(ctx context.Context, id string) (models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.WithContext(ctx).First(&conversation, "id = ?", id).Error; err != nil {
		return models.Conversation{}, err
	}
	return conversation, nil
}

func (r *conversationRepository) ListByParticipant(ctx context.Context, participantID string, limit int) ([]models.Conversation, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	var conversations []models.Conversation
	if err := r.db.WithContext(ctx).
		Where("participant_a = ? OR participant_b = ?", participantID, participantID).
		Order("last_message_at DESC").
		Limit(limit).
		Find(&conversations).Error; err != nil {
		return nil, err
	}
	return conversations, nil
}

func (r *conversationRepository) SaveMessage(ctx context.Context, message *models.Message) error {
	return r.db.WithContext(ctx).Create(message).Error
}

func (r *conversationRepository) ListMessages(ctx context.Context, conversationID string, before time.Time, limit int) ([]models.Message, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}

	query := r.db.WithContext(ctx).Where("conversation_id = ?", conversationID)
	if !before.IsZero() {
		query = query.Where("created_at < ?", before)
	}

	var messages []models.Message
	if err := query.Order("created_at DESC").Limit(limit).Find(&messages).Error; err != nil {
		return nil, err
	}

	// Reverse to chronological order for clients.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}

	return messages, nil
}

// IncrementUnread bumps the participant's counter and stamps the conversation
// activity time, returning the new count. The bump is a single upsert
// statement (`count = count + 1` on conflict) so concurrent sends into the
// same conversation serialize at the database instead of racing a
// read-modify-write.
func (r *conversationRepository) IncrementUnread(ctx context.Context, conversationID, participantID string) (int64, error) {
	now := time.Now().UTC()

	var count int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		stamp := tx.Model(&models.Conversation{}).
			Where("id = ?", conversationID).
			Update("last_message_at", now)
		if stamp.Error != nil {
			return stamp.Error
		}
		if stamp.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}

		if err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "conversation_id"}, {Name: "participant_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"count":      gorm.Expr("count + 1"),
				"updated_at": now,
			}),
		}).Create(&models.ConversationUnread{
			ConversationID: conversationID,
			ParticipantID:  participantID,
			Count:          1,
			UpdatedAt:      now,
		}).Error; err != nil {
			return err
		}

		return tx.Model(&models.ConversationUnread{}).
			Where("conversation_id = ? AND participant_id = ?", conversationID, participantID).
			Select("count").
			Scan(&count).Error
	})
	if err != nil {
		return 0, err
	}
	return count, nil
}

func (r *conversationRepository) ResetUnread(ctx context.Context, conversationID, participantID string) error {
	if err := r.db.WithContext(ctx).
		Select("id").
		First(&models.Conversation{}, "id = ?", conversationID).Error; err != nil {
		return err
	}

	return r.db.WithContext(ctx).
		Model(&models.ConversationUnread{}).
		Where("conversation_id = ? AND participant_id = ?", conversationID, participantID).
		Update("count", 0).Error
}

func (r *conversationRepository) UnreadCount(ctx context.Context, conversationID, participantID string) (int64, error) {
	var row models.ConversationUnread
	err := r.db.WithContext(ctx).
		First(&row, "conversation_id = ? AND participant_id = ?", conversationID, participantID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return row.Count, nil
}

// UnreadCountsByParticipant returns the participant's unread counters keyed by
// conversation id, for conversation listings.
func (r *conversationRepository) UnreadCountsByParticipant(ctx context.Context, participantID string) (map[string]int64, error) {
	var rows []models.ConversationUnread
	if err := r.db.WithContext(ctx).
		Where("participant_id = ?", participantID).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.ConversationID] = row.Count
	}
	return out, nil
}
