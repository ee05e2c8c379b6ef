package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/ratings"
	"github.com/anonto42/review-site/backend/internal/repositories"
	"github.com/anonto42/review-site/backend/pkg/media"
)

// StoreSummary is a store as shown in lists.
type StoreSummary struct {
	models.Store
	ImageURL    string           `json:"image_url,omitempty"`
	ReviewCount int64            `json:"review_count"`
	TopRatings  []ratings.Bucket `json:"top_ratings"`
}

// ReviewView is a review with its author, rating label and reaction state.
type ReviewView struct {
	models.Review
	Level      ratings.Level         `json:"level"`
	Author     models.UserCompact    `json:"author"`
	Reactions  models.ReactionCounts `json:"reaction_counts"`
	MyReaction models.ReactionKind   `json:"my_reaction,omitempty"`
}

// StoreDetail is the full store page.
type StoreDetail struct {
	models.Store
	ImageURL string             `json:"image_url,omitempty"`
	Creator  models.UserCompact `json:"creator"`
	Ratings  ratings.Summary    `json:"ratings"`
	Reviews  []ReviewView       `json:"reviews"`
	CanEdit  bool               `json:"can_edit"`
}

type StoreService struct {
	repos *repositories.Repositories
}

func NewStoreService(repos *repositories.Repositories) *StoreService {
	return &StoreService{repos: repos}
}

// List returns stores newest first, each with its review count and top three ratings.
func (s *StoreService) List(ctx context.Context, filter models.StoreFilter) ([]StoreSummary, error) {
	stores, err := s.repos.Stores.ListStores(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return s.summarize(ctx, stores)
}

// ListByCreator returns the stores a user registered, newest first.
func (s *StoreService) ListByCreator(ctx context.Context, userID uint) ([]StoreSummary, error) {
	stores, err := s.repos.Stores.ListStoresByCreator(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list stores: %w", err)
	}
	return s.summarize(ctx, stores)
}

func (s *StoreService) summarize(ctx context.Context, stores []models.Store) ([]StoreSummary, error) {
	ids := make([]uint, len(stores))
	for i := range stores {
		ids[i] = stores[i].ID
	}
	grouped, err := s.repos.Reviews.RatingCountsFor(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("count ratings: %w", err)
	}

	out := make([]StoreSummary, len(stores))
	for i := range stores {
		counts := grouped[stores[i].ID]
		var total int64
		for _, n := range counts {
			total += n
		}
		out[i] = StoreSummary{
			Store:       stores[i],
			ImageURL:    stores[i].DataURL(),
			ReviewCount: total,
			TopRatings:  ratings.FromCounts(counts, ratings.ListTop),
		}
	}
	return out, nil
}

// Get returns the store page. viewerID may be 0 for anonymous readers.
func (s *StoreService) Get(ctx context.Context, id, viewerID uint) (*StoreDetail, error) {
	store, err := s.repos.Stores.GetStoreByID(ctx, id)
	if err != nil {
		return nil, lookupError("store", err)
	}
	counts, err := s.repos.Reviews.RatingCounts(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("count ratings: %w", err)
	}
	reviews, err := s.repos.Reviews.ListByStore(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	reviewIDs := make([]uint, len(reviews))
	userIDs := []uint{store.CreatedByID}
	for i, r := range reviews {
		reviewIDs[i] = r.ID
		userIDs = append(userIDs, r.UserID)
	}
	reactions, err := s.repos.Reactions.CountsFor(ctx, reviewIDs)
	if err != nil {
		return nil, fmt.Errorf("count reactions: %w", err)
	}
	mine, err := s.repos.Reactions.KindsByUser(ctx, reviewIDs, viewerID)
	if err != nil {
		return nil, fmt.Errorf("load own reactions: %w", err)
	}
	users, err := compactUsers(ctx, s.repos, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]ReviewView, len(reviews))
	for i, r := range reviews {
		level, _ := ratings.LevelOf(r.Rating)
		views[i] = ReviewView{
			Review:     r,
			Level:      level,
			Author:     users[r.UserID],
			Reactions:  reactions[r.ID],
			MyReaction: mine[r.ID],
		}
	}

	return &StoreDetail{
		Store:    *store,
		ImageURL: store.DataURL(),
		Creator:  users[store.CreatedByID],
		Ratings:  ratings.Summarize(counts),
		Reviews:  views,
		CanEdit:  viewerID != 0 && viewerID == store.CreatedByID,
	}, nil
}

func (s *StoreService) resolveTags(ctx context.Context, ids []uint) ([]models.Tag, error) {
	ids = uniqueIDs(ids)
	tags, err := s.repos.Tags.GetTagsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load tags: %w", err)
	}
	if len(tags) != len(ids) {
		return nil, invalidField("tag_ids", "unknown tag")
	}
	return tags, nil
}

// Create registers a store owned by creatorID.
func (s *StoreService) Create(ctx context.Context, creatorID uint, req models.StoreRequest) (*models.Store, error) {
	if err := checkStoreRequest(req); err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, req.TagIDs)
	if err != nil {
		return nil, err
	}
	store := &models.Store{
		Name:        strings.TrimSpace(req.Name),
		Address:     strings.TrimSpace(req.Address),
		Comment:     req.Comment,
		Website:     req.Website,
		CreatedByID: creatorID,
		Tags:        tags,
	}
	if err := s.repos.Stores.CreateStore(ctx, store); err != nil {
		return nil, fmt.Errorf("create store: %w", err)
	}
	return store, nil
}

func checkStoreRequest(req models.StoreRequest) error {
	if strings.TrimSpace(req.Name) == "" {
		return invalidField("name", "is required")
	}
	if strings.TrimSpace(req.Address) == "" {
		return invalidField("address", "is required")
	}
	return nil
}

// ownedStore loads a store and checks that actorID created it.
func (s *StoreService) ownedStore(ctx context.Context, id, actorID uint) (*models.Store, error) {
	store, err := s.repos.Stores.GetStoreByID(ctx, id)
	if err != nil {
		return nil, lookupError("store", err)
	}
	if store.CreatedByID != actorID {
		return nil, ErrPermissionDenied
	}
	return store, nil
}

// Update rewrites the store's fields and tags. Only the creator may do it.
func (s *StoreService) Update(ctx context.Context, id, actorID uint, req models.StoreRequest) (*models.Store, error) {
	if err := checkStoreRequest(req); err != nil {
		return nil, err
	}
	store, err := s.ownedStore(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	tags, err := s.resolveTags(ctx, req.TagIDs)
	if err != nil {
		return nil, err
	}

	store.Name = strings.TrimSpace(req.Name)
	store.Address = strings.TrimSpace(req.Address)
	store.Comment = req.Comment
	store.Website = req.Website
	err = s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		if err := tx.Stores.UpdateStore(ctx, store); err != nil {
			return err
		}
		return tx.Stores.ReplaceTags(ctx, store, tags)
	})
	if err != nil {
		return nil, fmt.Errorf("update store: %w", err)
	}
	return store, nil
}

// Delete removes the store with its reviews, their reactions and its tag links.
func (s *StoreService) Delete(ctx context.Context, id, actorID uint) error {
	store, err := s.ownedStore(ctx, id, actorID)
	if err != nil {
		return err
	}
	err = s.repos.Transaction(ctx, func(tx *repositories.Repositories) error {
		reviewIDs, err := tx.Reviews.IDsByStore(ctx, store.ID)
		if err != nil {
			return err
		}
		if err := tx.Reactions.DeleteByReviews(ctx, reviewIDs); err != nil {
			return err
		}
		if err := tx.Reviews.DeleteByStore(ctx, store.ID); err != nil {
			return err
		}
		return tx.Stores.DeleteStore(ctx, store)
	})
	if err != nil {
		return fmt.Errorf("delete store: %w", err)
	}
	return nil
}

// SetImage normalizes an uploaded image into the store box and stores it inline.
func (s *StoreService) SetImage(ctx context.Context, id, actorID uint, upload io.Reader) (*models.Store, error) {
	store, err := s.ownedStore(ctx, id, actorID)
	if err != nil {
		return nil, err
	}
	encoded, err := media.DecodeAndNormalize(upload, media.StoreImageBox)
	if err != nil {
		return nil, imageError(err)
	}
	if err := s.repos.Stores.SetImage(ctx, store.ID, encoded); err != nil {
		return nil, fmt.Errorf("save store image: %w", err)
	}
	store.Image = encoded
	return store, nil
}

func imageError(err error) error {
	if errors.Is(err, media.ErrUndecodable) {
		return invalidField("image", "is not a supported image")
	}
	return fmt.Errorf("normalize image: %w", err)
}
