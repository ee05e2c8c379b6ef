package repositories

import (
	"context"
	"strings"

	"github.com/anonto42/review-site/backend/internal/models"
	"gorm.io/gorm"
)

// StoreRepository defines the interface for store data operations
type StoreRepository interface {
	CreateStore(ctx context.Context, store *models.Store) error
	GetStoreByID(ctx context.Context, id uint) (*models.Store, error)
	ListStores(ctx context.Context, filter models.StoreFilter) ([]models.Store, error)
	ListStoresByCreator(ctx context.Context, userID uint) ([]models.Store, error)
	UpdateStore(ctx context.Context, store *models.Store) error
	ReplaceTags(ctx context.Context, store *models.Store, tags []models.Tag) error
	SetImage(ctx context.Context, id uint, image string) error
	DeleteStore(ctx context.Context, store *models.Store) error
}

type postgresStoreRepository struct {
	db *gorm.DB
}

// NewPostgresStoreRepository creates a gorm-backed StoreRepository
func NewPostgresStoreRepository(db *gorm.DB) StoreRepository {
	return &postgresStoreRepository{db: db}
}

// CreateStore inserts the store and links store.Tags
func (r *postgresStoreRepository) CreateStore(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Create(store).Error
}

func (r *postgresStoreRepository) GetStoreByID(ctx context.Context, id uint) (*models.Store, error) {
	var store models.Store
	if err := r.db.WithContext(ctx).Preload("Tags").First(&store, id).Error; err != nil {
		return nil, err
	}
	return &store, nil
}

// ListStores returns stores newest first, narrowed by tag and a case-insensitive
// substring of name or address
func (r *postgresStoreRepository) ListStores(ctx context.Context, filter models.StoreFilter) ([]models.Store, error) {
	var stores []models.Store
	q := r.db.WithContext(ctx).Preload("Tags")
	if filter.TagID != 0 {
		q = q.Where("id IN (?)",
			r.db.Table("store_tags").Select("store_id").Where("tag_id = ?", filter.TagID),
		)
	}
	if term := strings.TrimSpace(filter.Query); term != "" {
		like := "%" + strings.ToLower(term) + "%"
		q = q.Where("(LOWER(name) LIKE ? OR LOWER(address) LIKE ?)", like, like)
	}
	err := q.Order("created_at DESC").Order("id DESC").Find(&stores).Error
	return stores, err
}

func (r *postgresStoreRepository) ListStoresByCreator(ctx context.Context, userID uint) ([]models.Store, error) {
	var stores []models.Store
	err := r.db.WithContext(ctx).Preload("Tags").
		Where("created_by_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&stores).Error
	return stores, err
}

// UpdateStore saves the scalar columns; tags are changed through ReplaceTags
func (r *postgresStoreRepository) UpdateStore(ctx context.Context, store *models.Store) error {
	return r.db.WithContext(ctx).Omit("Tags").Save(store).Error
}

func (r *postgresStoreRepository) ReplaceTags(ctx context.Context, store *models.Store, tags []models.Tag) error {
	if err := r.db.WithContext(ctx).Model(store).Association("Tags").Replace(tags); err != nil {
		return err
	}
	store.Tags = tags
	return nil
}

func (r *postgresStoreRepository) SetImage(ctx context.Context, id uint, image string) error {
	return r.db.WithContext(ctx).Model(&models.Store{}).Where("id = ?", id).Update("image", image).Error
}

// DeleteStore removes the tag links and the store row. Reviews are removed by the caller.
func (r *postgresStoreRepository) DeleteStore(ctx context.Context, store *models.Store) error {
	if err := r.db.WithContext(ctx).Model(store).Association("Tags").Clear(); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Store{}, store.ID).Error
}
