package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Conversation is the container of a direct-message thread between exactly two users.
// The pair is stored normalized so (A,B) and (B,A) hit the same unique index.
type Conversation struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	UserLowID  uint      `json:"-" gorm:"index;uniqueIndex:idx_conversation_pair"`
	UserHighID uint      `json:"-" gorm:"index;uniqueIndex:idx_conversation_pair"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" gorm:"index"`
}

// NormalizePair orders two user ids so the smaller one comes first.
func NormalizePair(a, b uint) (uint, uint) {
	if a > b {
		return b, a
	}
	return a, b
}

func (c *Conversation) HasParticipant(userID uint) bool {
	return c.UserLowID == userID || c.UserHighID == userID
}

// OtherParticipant returns the participant that is not userID.
func (c *Conversation) OtherParticipant(userID uint) uint {
	if c.UserLowID == userID {
		return c.UserHighID
	}
	return c.UserLowID
}

// DirectMessage is one message of a conversation. IDs are UUIDv7 so they sort by creation
// time in both the relational and the Mongo message store.
type DirectMessage struct {
	ID             string    `json:"id" gorm:"primaryKey;size:36" bson:"_id"`
	ConversationID uint      `json:"conversation_id" gorm:"index;not null" bson:"conversation_id"`
	SenderID       uint      `json:"sender_id" gorm:"index;not null" bson:"sender_id"`
	Content        string    `json:"content" gorm:"type:text;not null" bson:"content"`
	IsRead         bool      `json:"is_read" gorm:"default:false;index" bson:"is_read"`
	CreatedAt      time.Time `json:"created_at" gorm:"index" bson:"created_at"`
}

func (DirectMessage) TableName() string {
	return "direct_messages"
}

// BeforeCreate assigns the id when the caller did not.
func (m *DirectMessage) BeforeCreate(tx *gorm.DB) error {
	return m.EnsureID()
}

func (m *DirectMessage) EnsureID() error {
	if m.ID != "" {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	m.ID = id.String()
	return nil
}

type SendMessageRequest struct {
	Content string `json:"content" form:"content" validate:"required,max=2000"`
}
