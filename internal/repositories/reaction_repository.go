package repositories

import (
	"context"

	"github.com/anonto42/review-site/backend/internal/models"
	"gorm.io/gorm"
)

// ReactionRepository defines the interface for reaction data operations
type ReactionRepository interface {
	FindReaction(ctx context.Context, reviewID, userID uint) (*models.Reaction, error)
	CreateReaction(ctx context.Context, reaction *models.Reaction) error
	UpdateKind(ctx context.Context, id uint, kind models.ReactionKind) error
	DeleteReaction(ctx context.Context, id uint) error
	DeleteByReviews(ctx context.Context, reviewIDs []uint) error
	Counts(ctx context.Context, reviewID uint) (models.ReactionCounts, error)
	CountsFor(ctx context.Context, reviewIDs []uint) (map[uint]models.ReactionCounts, error)
	KindsByUser(ctx context.Context, reviewIDs []uint, userID uint) (map[uint]models.ReactionKind, error)
}

type postgresReactionRepository struct {
	db *gorm.DB
}

func NewPostgresReactionRepository(db *gorm.DB) ReactionRepository {
	return &postgresReactionRepository{db: db}
}

// FindReaction returns the user's reaction on a review, or nil when there is none
func (r *postgresReactionRepository) FindReaction(ctx context.Context, reviewID, userID uint) (*models.Reaction, error) {
	var reactions []models.Reaction
	err := r.db.WithContext(ctx).
		Where("review_id = ? AND user_id = ?", reviewID, userID).
		Limit(1).Find(&reactions).Error
	if err != nil || len(reactions) == 0 {
		return nil, err
	}
	return &reactions[0], nil
}

func (r *postgresReactionRepository) CreateReaction(ctx context.Context, reaction *models.Reaction) error {
	return r.db.WithContext(ctx).Create(reaction).Error
}

func (r *postgresReactionRepository) UpdateKind(ctx context.Context, id uint, kind models.ReactionKind) error {
	return r.db.WithContext(ctx).Model(&models.Reaction{}).Where("id = ?", id).Update("kind", kind).Error
}

func (r *postgresReactionRepository) DeleteReaction(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Reaction{}, id).Error
}

func (r *postgresReactionRepository) DeleteByReviews(ctx context.Context, reviewIDs []uint) error {
	if len(reviewIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("review_id IN ?", reviewIDs).Delete(&models.Reaction{}).Error
}

type reactionCountRow struct {
	ReviewID uint
	Kind     models.ReactionKind
	Count    int64
}

// Counts returns the per-kind totals of one review
func (r *postgresReactionRepository) Counts(ctx context.Context, reviewID uint) (models.ReactionCounts, error) {
	grouped, err := r.CountsFor(ctx, []uint{reviewID})
	if err != nil {
		return models.ReactionCounts{}, err
	}
	return grouped[reviewID], nil
}

// CountsFor returns review -> per-kind totals with a single grouped query
func (r *postgresReactionRepository) CountsFor(ctx context.Context, reviewIDs []uint) (map[uint]models.ReactionCounts, error) {
	out := make(map[uint]models.ReactionCounts, len(reviewIDs))
	if len(reviewIDs) == 0 {
		return out, nil
	}
	var rows []reactionCountRow
	err := r.db.WithContext(ctx).Model(&models.Reaction{}).
		Select("review_id, kind, COUNT(*) AS count").
		Where("review_id IN ?", reviewIDs).
		Group("review_id, kind").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		counts := out[row.ReviewID]
		counts.Add(row.Kind, row.Count)
		out[row.ReviewID] = counts
	}
	return out, nil
}

// KindsByUser returns review -> the kind userID picked, for the reviews it reacted to
func (r *postgresReactionRepository) KindsByUser(ctx context.Context, reviewIDs []uint, userID uint) (map[uint]models.ReactionKind, error) {
	out := make(map[uint]models.ReactionKind)
	if len(reviewIDs) == 0 || userID == 0 {
		return out, nil
	}
	var reactions []models.Reaction
	err := r.db.WithContext(ctx).
		Where("review_id IN ? AND user_id = ?", reviewIDs, userID).
		Find(&reactions).Error
	if err != nil {
		return nil, err
	}
	for _, reaction := range reactions {
		out[reaction.ReviewID] = reaction.Kind
	}
	return out, nil
}
