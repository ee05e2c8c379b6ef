package services

import (
	"context"
	"fmt"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/repositories"
)

const (
	ReactionAdded   = "added"
	ReactionRemoved = "removed"
	ReactionUpdated = "updated"
)

// ReactionResult carries the toggle outcome and the review's counts afterwards.
type ReactionResult struct {
	Action string                `json:"action"`
	Counts models.ReactionCounts `json:"reaction_counts"`
}

// ReactionService keeps at most one reaction per (review, user).
type ReactionService struct {
	repos         *repositories.Repositories
	notifications *NotificationService
}

func NewReactionService(repos *repositories.Repositories, notifications *NotificationService) *ReactionService {
	return &ReactionService{repos: repos, notifications: notifications}
}

// React adds, removes or switches the user's reaction on a review. The review author
// is notified when a reaction is added or switched by someone else.
func (s *ReactionService) React(ctx context.Context, reviewID, userID uint, kind models.ReactionKind) (*ReactionResult, error) {
	if !kind.Valid() {
		return nil, invalidField("kind", "must be one of good, bad, question")
	}
	review, err := s.repos.Reviews.GetReviewByID(ctx, reviewID)
	if err != nil {
		return nil, lookupError("review", err)
	}
	actor, err := s.repos.Users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, lookupError("user", err)
	}

	var (
		result  *ReactionResult
		created *models.Notification
	)
	err = retryOnConflict(func() error {
		created = nil
		return s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
			existing, err := tx.Reactions.FindReaction(ctx, reviewID, userID)
			if err != nil {
				return err
			}

			var action string
			switch {
			case existing == nil:
				err = tx.Reactions.CreateReaction(ctx, &models.Reaction{ReviewID: reviewID, UserID: userID, Kind: kind})
				action = ReactionAdded
			case existing.Kind == kind:
				err = tx.Reactions.DeleteReaction(ctx, existing.ID)
				action = ReactionRemoved
			default:
				err = tx.Reactions.UpdateKind(ctx, existing.ID, kind)
				action = ReactionUpdated
			}
			if err != nil {
				return err
			}

			if action != ReactionRemoved && review.UserID != userID {
				msg := fmt.Sprintf("%s reacted %s to your review", actor.Name, kind)
				created, err = s.notifications.Notify(ctx, tx, review.UserID, userID, models.NotificationReaction, msg)
				if err != nil {
					return err
				}
			}

			counts, err := tx.Reactions.Counts(ctx, reviewID)
			if err != nil {
				return err
			}
			result = &ReactionResult{Action: action, Counts: counts}
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("toggle reaction: %w", err)
	}
	s.notifications.Deliver(ctx, created)
	return result, nil
}

// CountsFor returns per-kind totals for many reviews with one query.
func (s *ReactionService) CountsFor(ctx context.Context, reviewIDs []uint) (map[uint]models.ReactionCounts, error) {
	counts, err := s.repos.Reactions.CountsFor(ctx, reviewIDs)
	if err != nil {
		return nil, fmt.Errorf("count reactions: %w", err)
	}
	return counts, nil
}
