package firebase

import (
	"context"
	"errors"
	"testing"

	"firebase.google.com/go/v4/messaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	sent []*messaging.Message
	err  error
}

func (f *fakeSender) Send(_ context.Context, m *messaging.Message) (string, error) {
	f.sent = append(f.sent, m)
	return "projects/x/messages/1", f.err
}

func TestPusherSend(t *testing.T) {
	sender := &fakeSender{}
	p := NewPusher(sender)

	err := p.Send(context.Background(), "device-1", "New follow", "alice started following you", map[string]string{"type": "follow"})
	require.NoError(t, err)
	require.Len(t, sender.sent, 1)
	msg := sender.sent[0]
	assert.Equal(t, "device-1", msg.Token)
	assert.Equal(t, "alice started following you", msg.Notification.Body)
	assert.Equal(t, "follow", msg.Data["type"])
	assert.Equal(t, "high", msg.Android.Priority)
}

func TestPusherSkipsEmptyTokenAndNil(t *testing.T) {
	sender := &fakeSender{}
	require.NoError(t, NewPusher(sender).Send(context.Background(), "", "t", "b", nil))
	assert.Empty(t, sender.sent)

	var p *Pusher
	assert.NoError(t, p.Send(context.Background(), "device", "t", "b", nil))
}

func TestPusherReturnsSendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("unregistered")}
	err := NewPusher(sender).Send(context.Background(), "device", "t", "b", nil)
	assert.EqualError(t, err, "unregistered")
}
