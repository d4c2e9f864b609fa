package nats

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Abdurahmanit/GroupProject/marketplace-service/internal/platform/logger"
	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("marketplace-service/nats-publisher")

const (
	defaultAttempts = 3
	defaultBackoff  = 200 * time.Millisecond
)

// msgPublisher is the part of *nats.Conn the publisher needs.
type msgPublisher interface {
	PublishMsg(msg *nats.Msg) error
}

type Publisher struct {
	conn     *nats.Conn
	pub      msgPublisher
	attempts int
	backoff  time.Duration
	logger   *logger.Logger
}

func NewPublisher(url string, log *logger.Logger, appName string) (*Publisher, error) {
	log.Info("NATS Publisher: connecting...", zap.String("url", url))

	opts := []nats.Option{
		nats.Name(fmt.Sprintf("%s NATS Publisher", appName)),
		nats.Timeout(10 * time.Second),
		nats.MaxReconnects(-1),
		nats.ErrorHandler(func(nc *nats.Conn, sub *nats.Subscription, err error) {
			if sub != nil {
				log.Error("NATS error", zap.String("subject", sub.Subject), zap.Error(err))
				return
			}
			log.Error("NATS error", zap.Error(err))
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			log.Info("NATS connection closed")
		}),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			log.Warn("NATS disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("NATS reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		log.Error("NATS Publisher: failed to connect", zap.String("url", url), zap.Error(err))
		return nil, fmt.Errorf("failed to connect to NATS at %s: %w", url, err)
	}
	log.Info("NATS Publisher: successfully connected", zap.String("url", conn.ConnectedUrl()))

	p := newPublisher(conn, log)
	p.conn = conn
	return p, nil
}

func newPublisher(pub msgPublisher, log *logger.Logger) *Publisher {
	return &Publisher{
		pub:      pub,
		attempts: defaultAttempts,
		backoff:  defaultBackoff,
		logger:   log.Named("NATSPublisher"),
	}
}

// Publish sends data as JSON with the trace context in the headers.
// Failed sends are retried with exponential backoff until ctx is done.
func (p *Publisher) Publish(ctx context.Context, subject string, data interface{}) error {
	ctx, span := tracer.Start(ctx, fmt.Sprintf("NATS.Publish.%s", subject))
	defer span.End()

	jsonData, err := json.Marshal(data)
	if err != nil {
		p.logger.Error("NATS Publisher: failed to marshal data to JSON", zap.String("subject", subject), zap.Error(err))
		span.RecordError(err)
		return fmt.Errorf("failed to marshal data for subject %s: %w", subject, err)
	}

	msg := nats.NewMsg(subject)
	msg.Data = jsonData
	msg.Header = make(nats.Header)
	otel.GetTextMapPropagator().Inject(ctx, NATSHeaderCarrier(msg.Header))

	wait := p.backoff
	for attempt := 1; ; attempt++ {
		err = p.pub.PublishMsg(msg)
		if err == nil {
			p.logger.Debug("NATS Publisher: message published",
				zap.String("subject", subject),
				zap.Int("data_size_bytes", len(jsonData)),
				zap.Int("attempt", attempt),
			)
			return nil
		}
		if attempt >= p.attempts {
			break
		}
		p.logger.Warn("NATS Publisher: publish failed, retrying",
			zap.String("subject", subject), zap.Int("attempt", attempt), zap.Error(err))

		select {
		case <-ctx.Done():
			span.RecordError(ctx.Err())
			return fmt.Errorf("publish to %s abandoned: %w", subject, ctx.Err())
		case <-time.After(wait):
		}
		wait *= 2
	}

	p.logger.Error("NATS Publisher: failed to publish message", zap.String("subject", subject), zap.Error(err))
	span.RecordError(err)
	return fmt.Errorf("failed to publish message to subject %s: %w", subject, err)
}

type NATSHeaderCarrier nats.Header

func (c NATSHeaderCarrier) Get(key string) string {
	return nats.Header(c).Get(key)
}

func (c NATSHeaderCarrier) Set(key string, value string) {
	nats.Header(c).Set(key, value)
}

func (c NATSHeaderCarrier) Keys() []string {
	keys := make([]string, 0, len(c))
	for k := range c {
		keys = append(keys, k)
	}
	return keys
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.conn == nil || p.conn.IsClosed() {
		return
	}
	p.logger.Info("NATS Publisher: closing connection...")
	if err := p.conn.Drain(); err != nil {
		p.logger.Error("NATS Publisher: failed to drain connection", zap.Error(err))
	}
	p.conn.Close()
}
