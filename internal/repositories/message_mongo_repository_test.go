package repositories_test

import (
	"context"
	"testing"
	"time"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/repositories"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/event"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

func startedCommand(mt *mtest.T, name string) *event.CommandStartedEvent {
	for evt := mt.GetStartedEvent(); evt != nil; evt = mt.GetStartedEvent() {
		if evt.CommandName == name {
			return evt
		}
	}
	return nil
}

func TestMongoMessageRepository(t *testing.T) {
	ctx := context.Background()
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))

	mt.Run("ensure indexes", func(mt *mtest.T) {
		repo := repositories.NewMongoMessageRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		require.NoError(mt, repo.EnsureIndexes(ctx))
		evt := startedCommand(mt, "createIndexes")
		require.NotNil(mt, evt)
		assert.Equal(mt, "dm_messages", evt.Command.Lookup("createIndexes").StringValue())
		assert.Equal(mt, "conversation_id", evt.Command.Lookup("indexes", "0", "key").Document().Index(0).Key())
	})

	mt.Run("append assigns id and millisecond timestamp", func(mt *mtest.T) {
		repo := repositories.NewMongoMessageRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		at := time.Date(2026, 3, 1, 12, 0, 0, 123456789, time.FixedZone("X", 3600))
		msg := &models.DirectMessage{ConversationID: 7, SenderID: 1, Content: "hi", CreatedAt: at}
		require.NoError(mt, repo.AppendMessage(ctx, msg))

		require.NotEmpty(mt, msg.ID)
		assert.Equal(mt, time.UTC, msg.CreatedAt.Location())
		assert.Equal(mt, 123000000, msg.CreatedAt.Nanosecond())
		assert.True(mt, msg.CreatedAt.Equal(at.Truncate(time.Millisecond)))

		evt := startedCommand(mt, "insert")
		require.NotNil(mt, evt)
		doc := evt.Command.Lookup("documents", "0").Document()
		assert.Equal(mt, msg.ID, doc.Lookup("_id").StringValue())
		assert.Equal(mt, int64(7), doc.Lookup("conversation_id").AsInt64())
		assert.False(mt, doc.Lookup("is_read").Boolean())
	})

	mt.Run("append surfaces write errors", func(mt *mtest.T) {
		repo := repositories.NewMongoMessageRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		err := repo.AppendMessage(ctx, &models.DirectMessage{ID: "fixed", ConversationID: 7, SenderID: 1, Content: "hi"})
		assert.Error(mt, err)
	})

	mt.Run("list sorts oldest first", func(mt *mtest.T) {
		repo := repositories.NewMongoMessageRepository(mt.DB)
		first := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
		ns := mt.DB.Name() + ".dm_messages"
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch,
			bson.D{
				{Key: "_id", Value: "a"}, {Key: "conversation_id", Value: int64(7)}, {Key: "sender_id", Value: int64(1)},
				{Key: "content", Value: "hi"}, {Key: "is_read", Value: true}, {Key: "created_at", Value: first},
			},
			bson.D{
				{Key: "_id", Value: "b"}, {Key: "conversation_id", Value: int64(7)}, {Key: "sender_id", Value: int64(2)},
				{Key: "content", Value: "hey"}, {Key: "is_read", Value: false}, {Key: "created_at", Value: first.Add(time.Second)},
			},
		))

		messages, err := repo.ListByConversation(ctx, 7)
		require.NoError(mt, err)
		require.Len(mt, messages, 2)
		assert.Equal(mt, "a", messages[0].ID)
		assert.Equal(mt, uint(2), messages[1].SenderID)
		assert.Equal(mt, "hey", messages[1].Content)
		assert.True(mt, messages[0].IsRead)
		assert.True(mt, messages[0].CreatedAt.Equal(first))

		evt := startedCommand(mt, "find")
		require.NotNil(mt, evt)
		assert.Equal(mt, int64(7), evt.Command.Lookup("filter", "conversation_id").AsInt64())
		sort := evt.Command.Lookup("sort").Document()
		assert.Equal(mt, "created_at", sort.Index(0).Key())
		assert.Equal(mt, "_id", sort.Index(1).Key())
	})

	mt.Run("list of an empty conversation is not nil", func(mt *mtest.T) {
		repo := repositories.NewMongoMessageRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".dm_messages", mtest.FirstBatch))

		messages, err := repo.ListByConversation(ctx, 9)
		require.NoError(mt, err)
		assert.NotNil(mt, messages)
		assert.Empty(mt, messages)
	})

	mt.Run("mark read skips own messages", func(mt *mtest.T) {
		repo := repositories.NewMongoMessageRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: int32(3)},
			bson.E{Key: "nModified", Value: int32(3)},
		))

		n, err := repo.MarkRead(ctx, 7, 2)
		require.NoError(mt, err)
		assert.Equal(mt, int64(3), n)

		evt := startedCommand(mt, "update")
		require.NotNil(mt, evt)
		q := evt.Command.Lookup("updates", "0", "q").Document()
		assert.Equal(mt, int64(7), q.Lookup("conversation_id").AsInt64())
		assert.Equal(mt, int64(2), q.Lookup("sender_id", "$ne").AsInt64())
		assert.False(mt, q.Lookup("is_read").Boolean())
		assert.True(mt, evt.Command.Lookup("updates", "0", "u", "$set", "is_read").Boolean())
	})

	mt.Run("count unread", func(mt *mtest.T) {
		repo := repositories.NewMongoMessageRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mt.DB.Name()+".dm_messages", mtest.FirstBatch,
			bson.D{{Key: "_id", Value: int32(1)}, {Key: "n", Value: int32(4)}},
		))

		n, err := repo.CountUnread(ctx, []uint{7, 8}, 2)
		require.NoError(mt, err)
		assert.Equal(mt, int64(4), n)

		evt := startedCommand(mt, "aggregate")
		require.NotNil(mt, evt)
		match := evt.Command.Lookup("pipeline", "0", "$match").Document()
		assert.Equal(mt, int64(2), match.Lookup("sender_id", "$ne").AsInt64())
		assert.Equal(mt, int64(8), match.Lookup("conversation_id", "$in", "1").AsInt64())
	})

	mt.Run("count unread without conversations sends nothing", func(mt *mtest.T) {
		repo := repositories.NewMongoMessageRepository(mt.DB)

		n, err := repo.CountUnread(ctx, nil, 2)
		require.NoError(mt, err)
		assert.Zero(mt, n)
		assert.Nil(mt, mt.GetStartedEvent())
	})
}
