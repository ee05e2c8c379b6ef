package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/repositories"
)

// ConversationView is one inbox entry.
type ConversationView struct {
	models.Conversation
	With models.UserCompact `json:"with"`
}

// Thread is an opened conversation with its messages oldest first.
type Thread struct {
	Conversation models.Conversation    `json:"conversation"`
	With         models.UserCompact     `json:"with"`
	Messages     []models.DirectMessage `json:"messages"`
}

// MessagingService manages two-party conversations and their message log.
type MessagingService struct {
	repos *repositories.Repositories
	hub   Broadcaster
}

// NewMessagingService creates a MessagingService. hub may be nil.
func NewMessagingService(repos *repositories.Repositories, hub Broadcaster) *MessagingService {
	return &MessagingService{repos: repos, hub: hub}
}

// GetOrCreateConversation returns the conversation between a and b, creating it on
// first contact. (a, b) and (b, a) resolve to the same conversation.
func (s *MessagingService) GetOrCreateConversation(ctx context.Context, a, b uint) (*models.Conversation, error) {
	if a == b {
		return nil, &OperationError{Message: "You cannot message yourself"}
	}
	exists, err := s.repos.Users.Exists(ctx, b)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}

	conv, err := s.repos.Conversations.FindByPair(ctx, a, b)
	if err != nil {
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	if conv != nil {
		return conv, nil
	}

	conv = &models.Conversation{UserLowID: a, UserHighID: b}
	err = s.repos.Conversations.CreateConversation(ctx, conv)
	if err == nil {
		return conv, nil
	}
	if !repositories.IsUniqueViolation(err) {
		return nil, fmt.Errorf("create conversation: %w", err)
	}
	conv, err = s.repos.Conversations.FindByPair(ctx, a, b)
	if err != nil {
		return nil, fmt.Errorf("find conversation: %w", err)
	}
	if conv == nil {
		return nil, fmt.Errorf("conversation vanished after conflict")
	}
	return conv, nil
}

func (s *MessagingService) participantConversation(ctx context.Context, conversationID, userID uint) (*models.Conversation, error) {
	conv, err := s.repos.Conversations.GetConversationByID(ctx, conversationID)
	if err != nil {
		return nil, lookupError("conversation", err)
	}
	if !conv.HasParticipant(userID) {
		return nil, ErrPermissionDenied
	}
	return conv, nil
}

// PostMessage appends a message from sender and pushes it to the other participant.
func (s *MessagingService) PostMessage(ctx context.Context, conversationID, senderID uint, content string) (*models.DirectMessage, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, invalidField("content", "must not be empty")
	}
	conv, err := s.participantConversation(ctx, conversationID, senderID)
	if err != nil {
		return nil, err
	}

	msg := &models.DirectMessage{
		ConversationID: conv.ID,
		SenderID:       senderID,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	// Append last: an external message store is not rolled back with the transaction.
	err = s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Conversations.Touch(ctx, conv.ID, msg.CreatedAt); err != nil {
			return err
		}
		return tx.Messages.AppendMessage(ctx, msg)
	})
	if err != nil {
		return nil, fmt.Errorf("post message: %w", err)
	}

	if s.hub != nil {
		s.hub.BroadcastToUser(conv.OtherParticipant(senderID), Event{Type: EventMessage, Data: msg})
	}
	return msg, nil
}

// ListMessages returns every message of the conversation oldest first.
func (s *MessagingService) ListMessages(ctx context.Context, conversationID uint) ([]models.DirectMessage, error) {
	messages, err := s.repos.Messages.ListByConversation(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return messages, nil
}

// OpenThread returns the conversation for a participant and marks what it received as read.
func (s *MessagingService) OpenThread(ctx context.Context, conversationID, readerID uint) (*Thread, error) {
	conv, err := s.participantConversation(ctx, conversationID, readerID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repos.Messages.MarkRead(ctx, conv.ID, readerID); err != nil {
		return nil, fmt.Errorf("mark messages read: %w", err)
	}
	messages, err := s.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}
	other, err := s.repos.Users.GetUserByID(ctx, conv.OtherParticipant(readerID))
	if err != nil {
		return nil, lookupError("user", err)
	}
	return &Thread{Conversation: *conv, With: other.ToCompact(), Messages: messages}, nil
}

// MarkRead flags the messages reader received in the conversation as read.
func (s *MessagingService) MarkRead(ctx context.Context, conversationID, readerID uint) (int64, error) {
	conv, err := s.participantConversation(ctx, conversationID, readerID)
	if err != nil {
		return 0, err
	}
	n, err := s.repos.Messages.MarkRead(ctx, conv.ID, readerID)
	if err != nil {
		return 0, fmt.Errorf("mark messages read: %w", err)
	}
	return n, nil
}

// Conversations lists the user's inbox, most recent activity first.
func (s *MessagingService) Conversations(ctx context.Context, userID uint) ([]ConversationView, error) {
	convs, err := s.repos.Conversations.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list conversations: %w", err)
	}
	others := make([]uint, len(convs))
	for i := range convs {
		others[i] = convs[i].OtherParticipant(userID)
	}
	users, err := compactUsers(ctx, s.repos, others)
	if err != nil {
		return nil, err
	}
	views := make([]ConversationView, len(convs))
	for i, c := range convs {
		views[i] = ConversationView{Conversation: c, With: users[others[i]]}
	}
	return views, nil
}

// UnreadMessages counts unread messages addressed to the user across all conversations.
func (s *MessagingService) UnreadMessages(ctx context.Context, userID uint) (int64, error) {
	ids, err := s.repos.Conversations.IDsForUser(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("list conversations: %w", err)
	}
	n, err := s.repos.Messages.CountUnread(ctx, ids, userID)
	if err != nil {
		return 0, fmt.Errorf("count unread messages: %w", err)
	}
	return n, nil
}
