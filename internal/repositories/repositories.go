package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Repositories bundles every repository over one database handle.
type Repositories struct {
	db *gorm.DB

	Users         UserRepository
	Stores        StoreRepository
	Tags          TagRepository
	Reviews       ReviewRepository
	Reactions     ReactionRepository
	Follows       FollowRepository
	Notifications NotificationRepository
	Conversations ConversationRepository
	Messages      MessageRepository

	externalMessages bool
}

// NewRepositories builds the gorm-backed repositories. Direct messages live in the
// relational store until WithMessageStore swaps them out.
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:            db,
		Users:         NewPostgresUserRepository(db),
		Stores:        NewPostgresStoreRepository(db),
		Tags:          NewPostgresTagRepository(db),
		Reviews:       NewPostgresReviewRepository(db),
		Reactions:     NewPostgresReactionRepository(db),
		Follows:       NewPostgresFollowRepository(db),
		Notifications: NewPostgresNotificationRepository(db),
		Conversations: NewPostgresConversationRepository(db),
		Messages:      NewPostgresMessageRepository(db),
	}
}

// WithMessageStore replaces the message repository, e.g. with the Mongo message log.
// Transactions keep using it as is since it cannot join a SQL transaction.
func (r *Repositories) WithMessageStore(messages MessageRepository) *Repositories {
	r.Messages = messages
	r.externalMessages = true
	return r
}

// Transaction runs fn with repositories bound to a single database transaction.
// Returning an error from fn rolls everything back.
func (r *Repositories) Transaction(ctx context.Context, fn func(tx *Repositories) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		scoped := NewRepositories(tx)
		if r.externalMessages {
			scoped.WithMessageStore(r.Messages)
		}
		return fn(scoped)
	})
}
