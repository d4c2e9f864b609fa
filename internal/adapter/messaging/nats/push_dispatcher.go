package nats

import (
	"context"
	"errors"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/marketplace/domain"
)

// EventPublisher publishes a JSON event on a subject.
type EventPublisher interface {
	Publish(ctx context.Context, subject string, data interface{}) error
}

// PushDispatcher hands push notifications to the delivery worker over NATS.
type PushDispatcher struct {
	publisher EventPublisher
	subject   string
}

func NewPushDispatcher(publisher EventPublisher, subject string) *PushDispatcher {
	return &PushDispatcher{publisher: publisher, subject: subject}
}

func (d *PushDispatcher) Send(ctx context.Context, msg domain.PushMessage) error {
	if len(msg.Recipients) == 0 {
		return errors.New("push message has no recipients")
	}
	return d.publisher.Publish(ctx, d.subject, msg)
}
