package repositories

import (
	"context"

	"github.com/anonto42/review-site/backend/internal/models"
	"gorm.io/gorm"
)

// MessageRepository stores the append-only log of direct messages
type MessageRepository interface {
	AppendMessage(ctx context.Context, message *models.DirectMessage) error
	ListByConversation(ctx context.Context, conversationID uint) ([]models.DirectMessage, error)
	MarkRead(ctx context.Context, conversationID, readerID uint) (int64, error)
	CountUnread(ctx context.Context, conversationIDs []uint, readerID uint) (int64, error)
}

type postgresMessageRepository struct {
	db *gorm.DB
}

func NewPostgresMessageRepository(db *gorm.DB) MessageRepository {
	return &postgresMessageRepository{db: db}
}

func (r *postgresMessageRepository) AppendMessage(ctx context.Context, message *models.DirectMessage) error {
	return r.db.WithContext(ctx).Create(message).Error
}

// ListByConversation returns the thread oldest first
func (r *postgresMessageRepository) ListByConversation(ctx context.Context, conversationID uint) ([]models.DirectMessage, error) {
	var messages []models.DirectMessage
	err := r.db.WithContext(ctx).
		Where("conversation_id = ?", conversationID).
		Order("created_at ASC").Order("id ASC").
		Find(&messages).Error
	return messages, err
}

// MarkRead flags the messages readerID received in the conversation as read
func (r *postgresMessageRepository) MarkRead(ctx context.Context, conversationID, readerID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.DirectMessage{}).
		Where("conversation_id = ? AND sender_id <> ? AND is_read = ?", conversationID, readerID, false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

// CountUnread counts unread messages sent to readerID across the given conversations
func (r *postgresMessageRepository) CountUnread(ctx context.Context, conversationIDs []uint, readerID uint) (int64, error) {
	if len(conversationIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.WithContext(ctx).Model(&models.DirectMessage{}).
		Where("conversation_id IN ? AND sender_id <> ? AND is_read = ?", conversationIDs, readerID, false).
		Count(&count).Error
	return count, err
}
