package ws

import (
	"context"
	"net/http"
	"time"

	"github.com/anonto42/review-site/backend/internal/models"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// TokenResolver turns the ?token= query value into the caller's claims.
type TokenResolver interface {
	ResolveToken(ctx context.Context, token string) (*models.JwtCustomClaims, error)
}

// Handler upgrades authenticated requests and registers them with the hub.
type Handler struct {
	hub      *Hub
	resolver TokenResolver
}

func NewHandler(hub *Hub, resolver TokenResolver) *Handler {
	return &Handler{hub: hub, resolver: resolver}
}

// Serve is the GET /ws endpoint. The token travels in the query string because
// browsers cannot set headers on websocket requests.
func (h *Handler) Serve(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "token required")
	}
	claims, err := h.resolver.ResolveToken(c.Request().Context(), token)
	if err != nil {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		// the upgrader already wrote the error response
		return nil
	}

	client := NewClient(claims.UserID)
	h.hub.Register(client)
	go writePump(client, conn)
	readPump(client, conn)
	return nil
}

// writePump copies frames from client.Send to the connection and keeps it alive with pings.
func writePump(c *Client, conn *websocket.Conn) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.Send:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards client frames and closes the client when the connection drops.
func readPump(c *Client, conn *websocket.Conn) {
	defer c.Close()
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}
