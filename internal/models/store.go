package models

import (
	"time"

	"github.com/anonto42/review-site/backend/pkg/media"
)

// Store is a reviewable venue
type Store struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:100;not null"`
	Address     string    `json:"address" gorm:"size:200;not null"`
	Image       string    `json:"-" gorm:"type:text"` // base64 JPEG, see media.Normalize
	CreatedByID uint      `json:"created_by_id" gorm:"index;not null"`
	Comment     string    `json:"comment" gorm:"type:text"`
	Website     string    `json:"website,omitempty" gorm:"size:200"`
	Tags        []Tag     `json:"tags" gorm:"many2many:store_tags;"`
	CreatedAt   time.Time `json:"created_at" gorm:"index"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (s *Store) DataURL() string {
	return media.DataURL(s.Image)
}

// StoreRequest is the body for creating and updating a store
type StoreRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Address string `json:"address" validate:"required,max=200"`
	Comment string `json:"comment" validate:"max=2000"`
	Website string `json:"website,omitempty" validate:"omitempty,url,max=200"`
	TagIDs  []uint `json:"tag_ids,omitempty"`
}

// StoreFilter narrows the store list
type StoreFilter struct {
	TagID uint
	Query string
}
