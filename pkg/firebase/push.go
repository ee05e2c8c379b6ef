package firebase

import (
	"context"

	"firebase.google.com/go/v4/messaging"
)

// Sender is the part of *messaging.Client the pusher needs.
type Sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// Pusher sends push notifications through Firebase Cloud Messaging.
type Pusher struct {
	client Sender
}

func NewPusher(client Sender) *Pusher {
	return &Pusher{client: client}
}

// Send pushes one notification to a device token. A nil Pusher or an empty token is a no-op.
func (p *Pusher) Send(ctx context.Context, token, title, body string, data map[string]string) error {
	if p == nil || p.client == nil || token == "" {
		return nil
	}
	_, err := p.client.Send(ctx, buildMessage(token, title, body, data))
	return err
}

func buildMessage(token, title, body string, data map[string]string) *messaging.Message {
	return &messaging.Message{
		Token: token,
		Data:  data,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound: "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{Sound: "default"},
			},
		},
	}
}
