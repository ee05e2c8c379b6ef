package services

import (
	"context"
	"fmt"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/ratings"
	"github.com/anonto42/review-site/backend/internal/repositories"
)

type ReviewService struct {
	repos         *repositories.Repositories
	notifications *NotificationService
}

func NewReviewService(repos *repositories.Repositories, notifications *NotificationService) *ReviewService {
	return &ReviewService{repos: repos, notifications: notifications}
}

// Create posts a review and notifies the store creator unless they wrote it.
func (s *ReviewService) Create(ctx context.Context, storeID, authorID uint, rating int, comment string) (*models.Review, error) {
	if !ratings.Valid(rating) {
		return nil, invalidField("rating", fmt.Sprintf("must be between %d and %d", ratings.Min, ratings.Max))
	}
	store, err := s.repos.Stores.GetStoreByID(ctx, storeID)
	if err != nil {
		return nil, lookupError("store", err)
	}
	author, err := s.repos.Users.GetUserByID(ctx, authorID)
	if err != nil {
		return nil, lookupError("user", err)
	}

	review := &models.Review{StoreID: store.ID, UserID: authorID, Rating: rating, Comment: comment}
	var created *models.Notification
	err = s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Reviews.CreateReview(ctx, review); err != nil {
			return err
		}
		if store.CreatedByID == authorID {
			return nil
		}
		level, _ := ratings.LevelOf(rating)
		msg := fmt.Sprintf("%s reviewed %s %s", author.Name, store.Name, level.Emoji)
		created, err = s.notifications.Notify(ctx, tx, store.CreatedByID, authorID, models.NotificationReview, msg)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create review: %w", err)
	}
	s.notifications.Deliver(ctx, created)
	return review, nil
}

// Delete removes a review and its reactions. Only the author may do it.
func (s *ReviewService) Delete(ctx context.Context, reviewID, actorID uint) (*models.Review, error) {
	review, err := s.repos.Reviews.GetReviewByID(ctx, reviewID)
	if err != nil {
		return nil, lookupError("review", err)
	}
	if review.UserID != actorID {
		return nil, ErrPermissionDenied
	}
	err = s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Reactions.DeleteByReviews(ctx, []uint{review.ID}); err != nil {
			return err
		}
		return tx.Reviews.DeleteReview(ctx, review.ID)
	})
	if err != nil {
		return nil, fmt.Errorf("delete review: %w", err)
	}
	return review, nil
}
