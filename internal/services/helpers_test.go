package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/anonto42/review-site/backend/internal/repositories"
	"github.com/anonto42/review-site/backend/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingHub struct {
	mu     sync.Mutex
	events map[uint][]Event
}

func newRecordingHub() *recordingHub {
	return &recordingHub{events: make(map[uint][]Event)}
}

func (h *recordingHub) BroadcastToUser(userID uint, payload interface{}) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events[userID] = append(h.events[userID], payload.(Event))
}

func (h *recordingHub) For(userID uint) []Event {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]Event(nil), h.events[userID]...)
}

type pushed struct {
	token string
	body  string
}

type recordingPusher struct {
	mu   sync.Mutex
	sent []pushed
	err  error
}

func (p *recordingPusher) Send(_ context.Context, token, _, body string, _ map[string]string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, pushed{token: token, body: body})
	return p.err
}

type testEnv struct {
	db            *gorm.DB
	repos         *repositories.Repositories
	hub           *recordingHub
	pusher        *recordingPusher
	notifications *NotificationService
	graph         *SocialGraphService
	reactions     *ReactionService
	messaging     *MessagingService
	stores        *StoreService
	reviews       *ReviewService
	tags          *TagService
	profiles      *ProfileService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewDB(t)
	repos := repositories.NewRepositories(db)
	hub := newRecordingHub()
	pusher := &recordingPusher{}
	notifications := NewNotificationService(repos, hub, pusher, nil)
	graph := NewSocialGraphService(repos, notifications)
	stores := NewStoreService(repos)
	return &testEnv{
		db:            db,
		repos:         repos,
		hub:           hub,
		pusher:        pusher,
		notifications: notifications,
		graph:         graph,
		reactions:     NewReactionService(repos, notifications),
		messaging:     NewMessagingService(repos, hub),
		stores:        stores,
		reviews:       NewReviewService(repos, notifications),
		tags:          NewTagService(repos),
		profiles:      NewProfileService(repos, graph, stores),
	}
}

func (e *testEnv) user(t *testing.T, name string) *models.User {
	return testutil.CreateUser(t, e.db, name)
}

func (e *testEnv) notificationCount(t *testing.T, recipientID uint) int64 {
	t.Helper()
	var n int64
	require.NoError(t, e.db.Model(&models.Notification{}).Where("recipient_id = ?", recipientID).Count(&n).Error)
	return n
}

// injectDuplicates makes the next `times` inserts into table fail as if a concurrent
// writer had won the unique index. It returns a counter of insert attempts on table.
func injectDuplicates(t *testing.T, db *gorm.DB, table string, times int) *int {
	t.Helper()
	attempts := 0
	name := "test:duplicate_" + table + "_" + time.Now().Format("150405.000000000")
	err := db.Callback().Create().Before("gorm:create").Register(name, func(tx *gorm.DB) {
		if tx.Statement.Table != table {
			return
		}
		attempts++
		if attempts > times {
			return
		}
		_ = tx.AddError(gorm.ErrDuplicatedKey)
	})
	require.NoError(t, err)
	return &attempts
}
