package services

import (
	"context"
	"fmt"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/repositories"
)

const (
	FollowCreated = "created"
	FollowRemoved = "removed"
)

// FollowResult is the state of an edge right after a toggle.
type FollowResult struct {
	Action         string `json:"action"`
	FollowersCount int64  `json:"followers_count"`
	IsFollowing    bool   `json:"is_following"`
	IsFriend       bool   `json:"is_friend"`
}

// SocialGraphService manages directed follow edges.
type SocialGraphService struct {
	repos         *repositories.Repositories
	notifications *NotificationService
}

func NewSocialGraphService(repos *repositories.Repositories, notifications *NotificationService) *SocialGraphService {
	return &SocialGraphService{repos: repos, notifications: notifications}
}

// Follow toggles the edge actor -> target. Creating the edge notifies target in the
// same transaction; an insert that loses a race replays the toggle.
func (s *SocialGraphService) Follow(ctx context.Context, actorID, targetID uint) (*FollowResult, error) {
	if actorID == targetID {
		return nil, &OperationError{Message: "You cannot follow yourself"}
	}
	if _, err := s.repos.Users.GetUserByID(ctx, targetID); err != nil {
		return nil, lookupError("user", err)
	}
	actor, err := s.repos.Users.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, lookupError("user", err)
	}

	var (
		result  *FollowResult
		created *models.Notification
	)
	err = retryOnConflict(func() error {
		created = nil
		return s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
			removed, err := tx.Follows.DeleteFollow(ctx, actorID, targetID)
			if err != nil {
				return err
			}
			action := FollowRemoved
			if removed == 0 {
				if err := tx.Follows.CreateFollow(ctx, &models.Follow{FollowerID: actorID, FollowingID: targetID}); err != nil {
					return err
				}
				created, err = s.notifications.Notify(ctx, tx, targetID, actorID, models.NotificationFollow, actor.Name+" started following you")
				if err != nil {
					return err
				}
				action = FollowCreated
			}
			result, err = edgeState(ctx, tx, actorID, targetID)
			if err != nil {
				return err
			}
			result.Action = action
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("toggle follow: %w", err)
	}
	s.notifications.Deliver(ctx, created)
	return result, nil
}

func edgeState(ctx context.Context, repos *repositories.Repositories, actorID, targetID uint) (*FollowResult, error) {
	followers, err := repos.Follows.GetFollowersCount(ctx, targetID)
	if err != nil {
		return nil, err
	}
	following, err := repos.Follows.IsFollowing(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	back, err := repos.Follows.IsFollowing(ctx, targetID, actorID)
	if err != nil {
		return nil, err
	}
	return &FollowResult{FollowersCount: followers, IsFollowing: following, IsFriend: following && back}, nil
}

func (s *SocialGraphService) IsFollowing(ctx context.Context, followerID, followingID uint) (bool, error) {
	if followerID == 0 || followingID == 0 {
		return false, nil
	}
	ok, err := s.repos.Follows.IsFollowing(ctx, followerID, followingID)
	if err != nil {
		return false, fmt.Errorf("check follow: %w", err)
	}
	return ok, nil
}

// IsFriend reports whether a and b follow each other.
func (s *SocialGraphService) IsFriend(ctx context.Context, a, b uint) (bool, error) {
	ab, err := s.IsFollowing(ctx, a, b)
	if err != nil || !ab {
		return false, err
	}
	return s.IsFollowing(ctx, b, a)
}

func (s *SocialGraphService) FollowersCount(ctx context.Context, userID uint) (int64, error) {
	n, err := s.repos.Follows.GetFollowersCount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count followers: %w", err)
	}
	return n, nil
}

func (s *SocialGraphService) FollowingCount(ctx context.Context, userID uint) (int64, error) {
	n, err := s.repos.Follows.GetFollowingCount(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("count following: %w", err)
	}
	return n, nil
}

func (s *SocialGraphService) Followers(ctx context.Context, userID uint) ([]models.UserCompact, error) {
	return s.userList(ctx, userID, s.repos.Follows.GetFollowers)
}

func (s *SocialGraphService) Following(ctx context.Context, userID uint) ([]models.UserCompact, error) {
	return s.userList(ctx, userID, s.repos.Follows.GetFollowing)
}

func (s *SocialGraphService) Friends(ctx context.Context, userID uint) ([]models.UserCompact, error) {
	return s.userList(ctx, userID, s.repos.Follows.GetFriends)
}

func (s *SocialGraphService) userList(ctx context.Context, userID uint, load func(context.Context, uint) ([]models.User, error)) ([]models.UserCompact, error) {
	exists, err := s.repos.Users.Exists(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("user %w", ErrNotFound)
	}
	users, err := load(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	out := make([]models.UserCompact, len(users))
	for i := range users {
		out[i] = users[i].ToCompact()
	}
	return out, nil
}
