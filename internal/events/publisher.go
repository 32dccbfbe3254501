// Package events carries workflow events from the services that emit them to
// the deliverer that turns them into notifications.
package events

import (
	"context"
	"errors"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
)

// ErrBufferFull is returned by Bus.Publish when the queue has no room.
var ErrBufferFull = errors.New("event buffer full")

// Publisher hands an event to a transport. Implementations must not block on
// the consumer.
type Publisher interface {
	Publish(ctx context.Context, ev model.Event) error
}

// Handler consumes one event.
type Handler func(ctx context.Context, ev model.Event) error

// Nop discards every event.
type Nop struct{}

// Publish implements Publisher.
func (Nop) Publish(context.Context, model.Event) error { return nil }
