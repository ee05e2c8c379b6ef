package models

import "time"

type ReactionKind string

const (
	ReactionGood     ReactionKind = "good"
	ReactionBad      ReactionKind = "bad"
	ReactionQuestion ReactionKind = "question"
)

func (k ReactionKind) Valid() bool {
	switch k {
	case ReactionGood, ReactionBad, ReactionQuestion:
		return true
	}
	return false
}

// Reaction is a single-valued sentiment of one user on one review
type Reaction struct {
	ID        uint         `json:"id" gorm:"primaryKey"`
	ReviewID  uint         `json:"review_id" gorm:"index;uniqueIndex:idx_review_user_reaction"`
	UserID    uint         `json:"user_id" gorm:"index;uniqueIndex:idx_review_user_reaction"`
	Kind      ReactionKind `json:"kind" gorm:"size:10;not null"`
	CreatedAt time.Time    `json:"created_at"`
	UpdatedAt time.Time    `json:"updated_at"`
}

type ReactionCounts struct {
	Good     int64 `json:"good"`
	Bad      int64 `json:"bad"`
	Question int64 `json:"question"`
}

func (c ReactionCounts) Total() int64 {
	return c.Good + c.Bad + c.Question
}

// Add increments the bucket for kind; unknown kinds are ignored.
func (c *ReactionCounts) Add(kind ReactionKind, n int64) {
	switch kind {
	case ReactionGood:
		c.Good += n
	case ReactionBad:
		c.Bad += n
	case ReactionQuestion:
		c.Question += n
	}
}

type ReactRequest struct {
	Kind string `json:"kind" form:"kind" validate:"required,oneof=good bad question"`
}
