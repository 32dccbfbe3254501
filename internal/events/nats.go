package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
)

// Connect dials NATS with reconnect logging.
func Connect(url, name string, log *zap.Logger) (*nats.Conn, error) {
	opts := []nats.Option{
		nats.Name(name),
		nats.Timeout(10 * time.Second),
		nats.MaxReconnects(-1),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			log.Warn("nats disconnected", zap.Error(err))
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			log.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
		nats.ClosedHandler(func(*nats.Conn) {
			log.Info("nats connection closed")
		}),
	}
	nc, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("connect nats %s: %w", url, err)
	}
	return nc, nil
}

// Subject returns the subject an event kind is published on.
func Subject(prefix string, kind model.NotificationKind) string {
	return prefix + "." + string(kind)
}

// msgPublisher is the part of *nats.Conn used for publishing.
type msgPublisher interface {
	Publish(subj string, data []byte) error
}

// NATSPublisher publishes events as JSON on <prefix>.<kind>.
type NATSPublisher struct {
	conn   msgPublisher
	prefix string
	log    *zap.Logger
}

// NewNATSPublisher wraps an established connection.
func NewNATSPublisher(nc *nats.Conn, prefix string, log *zap.Logger) *NATSPublisher {
	return newNATSPublisher(nc, prefix, log)
}

func newNATSPublisher(conn msgPublisher, prefix string, log *zap.Logger) *NATSPublisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &NATSPublisher{conn: conn, prefix: prefix, log: log.Named("nats_publisher")}
}

// Publish implements Publisher.
func (p *NATSPublisher) Publish(_ context.Context, ev model.Event) error {
	subject := Subject(p.prefix, ev.Kind)
	data, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event for %s: %w", subject, err)
	}
	if err := p.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("publish to %s: %w", subject, err)
	}
	p.log.Debug("event published", zap.String("subject", subject), zap.Int("bytes", len(data)))
	return nil
}

// Subscriber consumes events published by NATSPublisher.
type Subscriber struct {
	sub *nats.Subscription
	log *zap.Logger
}

// Subscribe registers handler for every event kind under prefix. Messages
// that fail to decode are logged and skipped.
func Subscribe(nc *nats.Conn, prefix string, handler Handler, log *zap.Logger) (*Subscriber, error) {
	if log == nil {
		log = zap.NewNop()
	}
	log = log.Named("nats_subscriber")
	sub, err := nc.Subscribe(prefix+".>", func(msg *nats.Msg) {
		handleMsg(msg.Subject, msg.Data, handler, log)
	})
	if err != nil {
		return nil, fmt.Errorf("subscribe %s.>: %w", prefix, err)
	}
	return &Subscriber{sub: sub, log: log}, nil
}

func handleMsg(subject string, data []byte, handler Handler, log *zap.Logger) {
	var ev model.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		log.Warn("malformed event", zap.String("subject", subject), zap.Error(err))
		return
	}
	if err := handler(context.Background(), ev); err != nil {
		log.Error("event handler failed", zap.String("subject", subject), zap.Error(err))
	}
}

// Close drains the subscription so in-flight messages finish.
func (s *Subscriber) Close() {
	if s == nil || s.sub == nil {
		return
	}
	if err := s.sub.Drain(); err != nil {
		s.log.Warn("drain subscription", zap.Error(err))
	}
}
