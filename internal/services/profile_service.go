package services

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/repositories"
	"github.com/anonto42/review-site/backend/pkg/media"
)

// Profile is a user's public page as seen by a viewer.
type Profile struct {
	ID             uint           `json:"id"`
	Name           string         `json:"name"`
	Bio            string         `json:"bio"`
	Email          string         `json:"email,omitempty"`
	AvatarURL      string         `json:"avatar_url,omitempty"`
	JoinedAt       time.Time      `json:"joined_at"`
	FollowersCount int64          `json:"followers_count"`
	FollowingCount int64          `json:"following_count"`
	ReviewCount    int64          `json:"review_count"`
	IsSelf         bool           `json:"is_self"`
	IsFollowing    bool           `json:"is_following"`
	IsFriend       bool           `json:"is_friend"`
	Stores         []StoreSummary `json:"stores"`
}

type ProfileService struct {
	repos  *repositories.Repositories
	graph  *SocialGraphService
	stores *StoreService
}

func NewProfileService(repos *repositories.Repositories, graph *SocialGraphService, stores *StoreService) *ProfileService {
	return &ProfileService{repos: repos, graph: graph, stores: stores}
}

// Get builds the profile of userID. viewerID may be 0 for anonymous readers.
func (s *ProfileService) Get(ctx context.Context, userID, viewerID uint) (*Profile, error) {
	user, err := s.repos.Users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, lookupError("user", err)
	}
	p := &Profile{
		ID:        user.ID,
		Name:      user.Name,
		Bio:       user.Bio,
		AvatarURL: user.AvatarURL(),
		JoinedAt:  user.CreatedAt,
		IsSelf:    viewerID == userID,
	}
	if p.IsSelf {
		p.Email = user.Email
	}

	if p.FollowersCount, err = s.graph.FollowersCount(ctx, userID); err != nil {
		return nil, err
	}
	if p.FollowingCount, err = s.graph.FollowingCount(ctx, userID); err != nil {
		return nil, err
	}
	if p.ReviewCount, err = s.repos.Reviews.CountByUser(ctx, userID); err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}
	if viewerID != 0 && !p.IsSelf {
		if p.IsFollowing, err = s.graph.IsFollowing(ctx, viewerID, userID); err != nil {
			return nil, err
		}
		if p.IsFriend, err = s.graph.IsFriend(ctx, viewerID, userID); err != nil {
			return nil, err
		}
	}
	if p.Stores, err = s.stores.ListByCreator(ctx, userID); err != nil {
		return nil, err
	}
	return p, nil
}

// Update changes the display name (when given) and the bio.
func (s *ProfileService) Update(ctx context.Context, userID uint, req models.UpdateProfileRequest) (*models.User, error) {
	fields := map[string]interface{}{"bio": strings.TrimSpace(req.Bio)}
	if name := strings.TrimSpace(req.Name); name != "" {
		fields["name"] = name
	}
	if err := s.repos.Users.UpdateFields(ctx, userID, fields); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	user, err := s.repos.Users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, lookupError("user", err)
	}
	return user, nil
}

// SetAvatar normalizes an uploaded image into the avatar box and stores it inline.
func (s *ProfileService) SetAvatar(ctx context.Context, userID uint, upload io.Reader) (string, error) {
	encoded, err := media.DecodeAndNormalize(upload, media.AvatarBox)
	if err != nil {
		return "", imageError(err)
	}
	if err := s.repos.Users.UpdateFields(ctx, userID, map[string]interface{}{"avatar": encoded}); err != nil {
		return "", fmt.Errorf("save avatar: %w", err)
	}
	return media.DataURL(encoded), nil
}

// SetDeviceToken registers the FCM token push notifications go to.
func (s *ProfileService) SetDeviceToken(ctx context.Context, userID uint, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return invalidField("token", "is required")
	}
	if err := s.repos.Users.UpdateFields(ctx, userID, map[string]interface{}{"device_token": token}); err != nil {
		return fmt.Errorf("save device token: %w", err)
	}
	return nil
}
