package repositories

import (
	"context"

	"github.com/anonto42/review-site/backend/internal/models"
	"gorm.io/gorm"
)

// ReviewRepository defines the interface for review data operations
type ReviewRepository interface {
	CreateReview(ctx context.Context, review *models.Review) error
	GetReviewByID(ctx context.Context, id uint) (*models.Review, error)
	ListByStore(ctx context.Context, storeID uint) ([]models.Review, error)
	IDsByStore(ctx context.Context, storeID uint) ([]uint, error)
	CountByUser(ctx context.Context, userID uint) (int64, error)
	RatingCounts(ctx context.Context, storeID uint) (map[int]int64, error)
	RatingCountsFor(ctx context.Context, storeIDs []uint) (map[uint]map[int]int64, error)
	DeleteReview(ctx context.Context, id uint) error
	DeleteByStore(ctx context.Context, storeID uint) error
}

type postgresReviewRepository struct {
	db *gorm.DB
}

func NewPostgresReviewRepository(db *gorm.DB) ReviewRepository {
	return &postgresReviewRepository{db: db}
}

func (r *postgresReviewRepository) CreateReview(ctx context.Context, review *models.Review) error {
	return r.db.WithContext(ctx).Create(review).Error
}

func (r *postgresReviewRepository) GetReviewByID(ctx context.Context, id uint) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListByStore returns the reviews of a store newest first
func (r *postgresReviewRepository) ListByStore(ctx context.Context, storeID uint) ([]models.Review, error) {
	var reviews []models.Review
	err := r.db.WithContext(ctx).Where("store_id = ?", storeID).
		Order("created_at DESC").Order("id DESC").
		Find(&reviews).Error
	return reviews, err
}

func (r *postgresReviewRepository) IDsByStore(ctx context.Context, storeID uint) ([]uint, error) {
	var ids []uint
	err := r.db.WithContext(ctx).Model(&models.Review{}).Where("store_id = ?", storeID).Pluck("id", &ids).Error
	return ids, err
}

func (r *postgresReviewRepository) CountByUser(ctx context.Context, userID uint) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Review{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

type ratingCountRow struct {
	StoreID uint
	Rating  int
	Count   int64
}

// RatingCounts returns rating -> number of reviews for one store
func (r *postgresReviewRepository) RatingCounts(ctx context.Context, storeID uint) (map[int]int64, error) {
	grouped, err := r.RatingCountsFor(ctx, []uint{storeID})
	if err != nil {
		return nil, err
	}
	if counts, ok := grouped[storeID]; ok {
		return counts, nil
	}
	return map[int]int64{}, nil
}

// RatingCountsFor returns store -> rating -> count with a single grouped query.
// Stores without reviews are absent from the map.
func (r *postgresReviewRepository) RatingCountsFor(ctx context.Context, storeIDs []uint) (map[uint]map[int]int64, error) {
	out := make(map[uint]map[int]int64, len(storeIDs))
	if len(storeIDs) == 0 {
		return out, nil
	}
	var rows []ratingCountRow
	err := r.db.WithContext(ctx).Model(&models.Review{}).
		Select("store_id, rating, COUNT(*) AS count").
		Where("store_id IN ?", storeIDs).
		Group("store_id, rating").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		if out[row.StoreID] == nil {
			out[row.StoreID] = make(map[int]int64)
		}
		out[row.StoreID][row.Rating] = row.Count
	}
	return out, nil
}

func (r *postgresReviewRepository) DeleteReview(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Delete(&models.Review{}, id).Error
}

func (r *postgresReviewRepository) DeleteByStore(ctx context.Context, storeID uint) error {
	return r.db.WithContext(ctx).Where("store_id = ?", storeID).Delete(&models.Review{}).Error
}
