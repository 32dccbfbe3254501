package events

import (
	"context"

	"go.uber.org/zap"

	"github.com/omerkilincoglu/bitirme-backend-proje/internal/model"
)

// Bus is an in-process Publisher backed by a buffered channel. A single
// worker started with Run feeds queued events to the handler in order.
type Bus struct {
	ch      chan model.Event
	handler Handler
	log     *zap.Logger
}

// NewBus creates a bus with room for size queued events.
func NewBus(size int, handler Handler, log *zap.Logger) *Bus {
	if size <= 0 {
		size = 1
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Bus{ch: make(chan model.Event, size), handler: handler, log: log.Named("event_bus")}
}

// Publish enqueues ev without blocking. A full queue drops the event.
func (b *Bus) Publish(_ context.Context, ev model.Event) error {
	select {
	case b.ch <- ev:
		return nil
	default:
		b.log.Warn("dropping event, buffer full",
			zap.String("kind", string(ev.Kind)),
			zap.String("event_id", ev.ID.String()),
		)
		return ErrBufferFull
	}
}

// Run delivers events until ctx is cancelled, then flushes whatever is
// still queued. Handlers never see the cancellation of ctx.
func (b *Bus) Run(ctx context.Context) {
	deliverCtx := context.WithoutCancel(ctx)
	for {
		select {
		case ev := <-b.ch:
			b.deliver(deliverCtx, ev)
		case <-ctx.Done():
			b.flush()
			return
		}
	}
}

// Start runs the worker in the background, independent of any request or
// signal context. stop cancels it, waits for the queue to be flushed and
// must be called only after publishers are done.
func (b *Bus) Start() (stop func()) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		b.Run(ctx)
	}()
	return func() {
		cancel()
		<-done
	}
}

func (b *Bus) flush() {
	ctx := context.Background()
	for {
		select {
		case ev := <-b.ch:
			b.deliver(ctx, ev)
		default:
			return
		}
	}
}

func (b *Bus) deliver(ctx context.Context, ev model.Event) {
	if err := b.handler(ctx, ev); err != nil {
		b.log.Error("event handler failed", zap.String("kind", string(ev.Kind)), zap.Error(err))
	}
}

// Len reports the number of queued events.
func (b *Bus) Len() int { return len(b.ch) }
