package services

import (
	"context"
	"testing"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewAndReactScenario(t *testing.T) {
	ctx := context.Background()
	env := newTestEnv(t)
	u1 := env.user(t, "u1")
	u2 := env.user(t, "u2")
	u3 := env.user(t, "u3")

	store, err := env.stores.Create(ctx, u1.ID, models.StoreRequest{Name: "S", Address: "Somewhere 1"})
	require.NoError(t, err)
	assert.Empty(t, store.DataURL())

	review, err := env.reviews.Create(ctx, store.ID, u2.ID, 5, "great")
	require.NoError(t, err)

	res, err := env.reactions.React(ctx, review.ID, u3.ID, models.ReactionGood)
	require.NoError(t, err)
	assert.Equal(t, ReactionAdded, res.Action)
	assert.Equal(t, models.ReactionCounts{Good: 1}, res.Counts)

	res, err = env.reactions.React(ctx, review.ID, u3.ID, models.ReactionGood)
	require.NoError(t, err)
	assert.Equal(t, ReactionRemoved, res.Action)
	assert.Equal(t, models.ReactionCounts{}, res.Counts)

	// u1 heard about the review, u2 about the reaction
	assert.Equal(t, int64(1), env.notificationCount(t, u1.ID))
	assert.Equal(t, int64(1), env.notificationCount(t, u2.ID))
}
