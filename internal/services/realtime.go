package services

import "context"

// Event is the envelope pushed to websocket clients.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

const (
	EventNotification = "notification"
	EventMessage      = "message"
)

// Broadcaster delivers an event to every live connection of a user.
type Broadcaster interface {
	BroadcastToUser(userID uint, payload interface{})
}

// Pusher sends a mobile push notification to a device token.
type Pusher interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}
