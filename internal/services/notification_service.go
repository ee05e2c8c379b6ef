package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/repositories"
	"go.uber.org/zap"
)

// NotificationView is a notification with its actor resolved.
type NotificationView struct {
	models.Notification
	Actor models.UserCompact `json:"actor"`
}

// NotificationService owns the per-recipient notification log.
type NotificationService struct {
	repos  *repositories.Repositories
	hub    Broadcaster
	push   Pusher
	logger *zap.SugaredLogger
}

// NewNotificationService creates a NotificationService. hub and push may be nil.
func NewNotificationService(repos *repositories.Repositories, hub Broadcaster, push Pusher, logger *zap.SugaredLogger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &NotificationService{repos: repos, hub: hub, push: push, logger: logger}
}

// Notify appends an unread notification through tx. Call Deliver once tx has committed.
func (s *NotificationService) Notify(ctx context.Context, tx *repositories.Repositories, recipientID, actorID uint, kind, message string) (*models.Notification, error) {
	n := &models.Notification{
		Kind:        kind,
		ActorID:     actorID,
		RecipientID: recipientID,
		Message:     message,
	}
	if err := tx.Notifications.CreateNotification(ctx, n); err != nil {
		return nil, fmt.Errorf("create notification: %w", err)
	}
	return n, nil
}

// Deliver fans a committed notification out to websocket clients and the recipient's
// device. Failures are logged only.
func (s *NotificationService) Deliver(ctx context.Context, n *models.Notification) {
	if n == nil {
		return
	}
	if s.hub != nil {
		s.hub.BroadcastToUser(n.RecipientID, Event{Type: EventNotification, Data: n})
	}
	if s.push == nil {
		return
	}
	recipient, err := s.repos.Users.GetUserByID(ctx, n.RecipientID)
	if err != nil {
		s.logger.Warnw("push skipped, recipient lookup failed", "recipient_id", n.RecipientID, "error", err)
		return
	}
	if recipient.DeviceToken == "" {
		return
	}
	data := map[string]string{
		"type":            n.Kind,
		"notification_id": strconv.FormatUint(uint64(n.ID), 10),
		"actor_id":        strconv.FormatUint(uint64(n.ActorID), 10),
	}
	if err := s.push.Send(ctx, recipient.DeviceToken, "New "+n.Kind, n.Message, data); err != nil {
		s.logger.Warnw("push delivery failed", "recipient_id", n.RecipientID, "error", err)
	}
}

// ListAndClear returns the unread notifications newest first and removes exactly those
// rows in the same transaction. Rows created after the read are left alone.
func (s *NotificationService) ListAndClear(ctx context.Context, recipientID uint) ([]NotificationView, int64, error) {
	var (
		list    []models.Notification
		cleared int64
	)
	err := s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		var err error
		list, err = tx.Notifications.ListUnread(ctx, recipientID)
		if err != nil {
			return err
		}
		ids := make([]uint, len(list))
		for i, n := range list {
			ids[i] = n.ID
		}
		if _, err = tx.Notifications.MarkAsRead(ctx, ids); err != nil {
			return err
		}
		cleared, err = tx.Notifications.DeleteByIDs(ctx, ids)
		return err
	})
	if err != nil {
		return nil, 0, fmt.Errorf("clear notifications: %w", err)
	}

	actorIDs := make([]uint, 0, len(list))
	for _, n := range list {
		actorIDs = append(actorIDs, n.ActorID)
	}
	actors, err := compactUsers(ctx, s.repos, actorIDs)
	if err != nil {
		return nil, 0, err
	}

	views := make([]NotificationView, len(list))
	for i, n := range list {
		n.IsRead = true
		views[i] = NotificationView{Notification: n, Actor: actors[n.ActorID]}
	}
	return views, cleared, nil
}

// UnreadCount counts the recipient's unread notifications without touching them.
func (s *NotificationService) UnreadCount(ctx context.Context, recipientID uint) (int64, error) {
	count, err := s.repos.Notifications.GetUnreadCount(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("count notifications: %w", err)
	}
	return count, nil
}

// compactUsers loads the public projection of the given users keyed by id.
func compactUsers(ctx context.Context, repos *repositories.Repositories, ids []uint) (map[uint]models.UserCompact, error) {
	out := make(map[uint]models.UserCompact, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	users, err := repos.Users.GetUsersByIDs(ctx, uniqueIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	for i := range users {
		out[users[i].ID] = users[i].ToCompact()
	}
	return out, nil
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]struct{}, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
