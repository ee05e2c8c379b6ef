package repositories

import (
	"context"
	"time"

	"github.com/anonto42/review-site/backend/internal/models"
	"gorm.io/gorm"
)

// ConversationRepository defines the interface for conversation data operations
type ConversationRepository interface {
	FindByPair(ctx context.Context, userA, userB uint) (*models.Conversation, error)
	CreateConversation(ctx context.Context, conversation *models.Conversation) error
	GetConversationByID(ctx context.Context, id uint) (*models.Conversation, error)
	ListForUser(ctx context.Context, userID uint) ([]models.Conversation, error)
	IDsForUser(ctx context.Context, userID uint) ([]uint, error)
	Touch(ctx context.Context, id uint, at time.Time) error
}

type postgresConversationRepository struct {
	db *gorm.DB
}

func NewPostgresConversationRepository(db *gorm.DB) ConversationRepository {
	return &postgresConversationRepository{db: db}
}

// FindByPair looks the conversation up in either argument order; nil when absent
func (r *postgresConversationRepository) FindByPair(ctx context.Context, userA, userB uint) (*models.Conversation, error) {
	low, high := models.NormalizePair(userA, userB)
	var conversations []models.Conversation
	err := r.db.WithContext(ctx).
		Where("user_low_id = ? AND user_high_id = ?", low, high).
		Limit(1).Find(&conversations).Error
	if err != nil || len(conversations) == 0 {
		return nil, err
	}
	return &conversations[0], nil
}

// CreateConversation normalizes the pair before inserting
func (r *postgresConversationRepository) CreateConversation(ctx context.Context, conversation *models.Conversation) error {
	conversation.UserLowID, conversation.UserHighID = models.NormalizePair(conversation.UserLowID, conversation.UserHighID)
	return r.db.WithContext(ctx).Create(conversation).Error
}

func (r *postgresConversationRepository) GetConversationByID(ctx context.Context, id uint) (*models.Conversation, error) {
	var conversation models.Conversation
	if err := r.db.WithContext(ctx).First(&conversation, id).Error; err != nil {
		return nil, err
	}
	return &conversation, nil
}

// ListForUser returns the user's conversations, most recent activity first
func (r *postgresConversationRepository) ListForUser(ctx context.Context, userID uint) ([]models.Conversation, error) {
	var conversations []models.Conversation
	err := r.db.WithContext(ctx).
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Order("updated_at DESC").Order("id DESC").
		Find(&conversations).Error
	return conversations, err
}

func (r *postgresConversationRepository) IDsForUser(ctx context.Context, userID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Conversation{}).
		Where("user_low_id = ? OR user_high_id = ?", userID, userID).
		Pluck("id", &ids).Error
	return ids, err
}

func (r *postgresConversationRepository) Touch(ctx context.Context, id uint, at time.Time) error {
	return r.db.WithContext(ctx).Model(&models.Conversation{}).Where("id = ?", id).Update("updated_at", at).Error
}
