package ws

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBroadcastToUser(t *testing.T) {
	hub := NewHub(nil)
	a1, a2, b := NewClient(1), NewClient(1), NewClient(2)
	for _, c := range []*Client{a1, a2, b} {
		hub.Register(c)
	}
	assert.Equal(t, 3, hub.ClientCount())

	hub.BroadcastToUser(1, map[string]string{"type": "ping"})
	for _, c := range []*Client{a1, a2} {
		select {
		case msg := <-c.Send:
			assert.JSONEq(t, `{"type":"ping"}`, string(msg))
		default:
			t.Fatal("expected a frame")
		}
	}
	assert.Empty(t, b.Send)
}

func TestClosedClientIsUnregistered(t *testing.T) {
	hub := NewHub(nil)
	c := NewClient(7)
	hub.Register(c)
	c.Close()
	c.Close()
	assert.Zero(t, hub.ClientCount())

	// broadcasting to a user without connections is a no-op
	hub.BroadcastToUser(7, "hello")
}

func TestSlowClientDropsFrames(t *testing.T) {
	hub := NewHub(nil)
	c := NewClient(1)
	hub.Register(c)
	for i := 0; i < sendBuffer+10; i++ {
		hub.BroadcastToUser(1, i)
	}
	assert.Len(t, c.Send, sendBuffer)
}

type staticResolver map[string]uint

func (r staticResolver) ResolveToken(_ context.Context, token string) (*models.JwtCustomClaims, error) {
	if id, ok := r[token]; ok {
		return &models.JwtCustomClaims{UserID: id}, nil
	}
	return nil, errors.New("unknown token")
}

func TestServeDeliversEvents(t *testing.T) {
	hub := NewHub(nil)
	e := echo.New()
	e.GET("/ws", NewHandler(hub, staticResolver{"good": 42}).Serve)
	srv := httptest.NewServer(e)
	defer srv.Close()
	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"

	_, resp, err := websocket.DefaultDialer.Dial(wsURL+"?token=bad", nil)
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?token=good", nil)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool { return hub.ClientCount() == 1 }, time.Second, 10*time.Millisecond)
	hub.BroadcastToUser(42, map[string]interface{}{"type": "message", "data": "hi"})

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, raw, err := conn.ReadMessage()
	require.NoError(t, err)
	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &got))
	assert.Equal(t, "message", got["type"])
}
