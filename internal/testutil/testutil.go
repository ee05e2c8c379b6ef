// Package testutil provides an in-memory database and fixtures for package tests.
package testutil

import (
	"fmt"
	"testing"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with every table migrated.
// The pool is limited to one connection, so code running inside a transaction must
// only use the transaction handle.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, repositories.AutoMigrate(db))
	return db
}

// CreateUser inserts a user named name with a unique email
func CreateUser(t testing.TB, db *gorm.DB, name string) *models.User {
	t.Helper()
	user := &models.User{Name: name, Email: fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8])}
	require.NoError(t, db.Create(user).Error)
	return user
}

// CreateStore inserts a store owned by creator
func CreateStore(t testing.TB, db *gorm.DB, creator *models.User, name string) *models.Store {
	t.Helper()
	store := &models.Store{Name: name, Address: "1 Main St", CreatedByID: creator.ID}
	require.NoError(t, db.Create(store).Error)
	return store
}

// CreateReview inserts a review of store by author
func CreateReview(t testing.TB, db *gorm.DB, store *models.Store, author *models.User, rating int) *models.Review {
	t.Helper()
	review := &models.Review{StoreID: store.ID, UserID: author.ID, Rating: rating}
	require.NoError(t, db.Create(review).Error)
	return review
}
