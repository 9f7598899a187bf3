package firebase

import (
	"context"

	"firebase.google.com/go/v4/messaging"

	"swapmarket/pkg/logger"
)

// PushSender delivers FCM pushes. Delivery is best effort; callers never
// treat a push failure as an operation failure.
type PushSender struct {
	client *messaging.Client
}

func NewPushSender(client *messaging.Client) *PushSender {
	return &PushSender{
		client: client,
	}
}

func (p *PushSender) Send(ctx context.Context, token, title, body string, data map[string]string) {
	if token == "" {
		return
	}

	message := &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
	}

	if _, err := p.client.Send(ctx, message); err != nil {
		logger.Warn("FCM push failed: %v", err)
	}
}
