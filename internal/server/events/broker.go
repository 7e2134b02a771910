package events

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const queueSize = 256

// Subscriber consumes broker events for one push transport. Send must not
// block the broker.
type Subscriber interface {
	Send(Event) error
	Close() error
}

// SubscriberFunc adapts a function to Subscriber. Close is a no-op.
type SubscriberFunc func(Event) error

// Send calls f.
func (f SubscriberFunc) Send(e Event) error { return f(e) }

// Close implements Subscriber.
func (f SubscriberFunc) Close() error { return nil }

// Broker fans published events out to its subscribers on a single
// goroutine started by Run.
type Broker struct {
	logger *zerolog.Logger
	now    func() time.Time
	queue  chan Event

	dropped atomic.Int64

	mu     sync.RWMutex
	nextID int
	subs   map[int]Subscriber
}

// NewBroker creates a broker. Events published before Run are queued.
func NewBroker(logger *zerolog.Logger) *Broker {
	return &Broker{
		logger: logger,
		now:    time.Now,
		queue:  make(chan Event, queueSize),
		subs:   make(map[int]Subscriber),
	}
}

// Subscribe adds sub and returns a function that removes and closes it.
func (b *Broker) Subscribe(sub Subscriber) (unsubscribe func()) {
	b.mu.Lock()
	id := b.nextID
	b.nextID++
	b.subs[id] = sub
	n := len(b.subs)
	b.mu.Unlock()

	b.logger.Debug().Int("total_subscribers", n).Msg("Subscriber registered")

	var once sync.Once
	return func() {
		once.Do(func() {
			b.mu.Lock()
			s, ok := b.subs[id]
			delete(b.subs, id)
			b.mu.Unlock()
			if ok {
				_ = s.Close()
			}
		})
	}
}

// Publish stamps and queues an event. When the queue is full the event is
// dropped rather than blocking the publisher.
func (b *Broker) Publish(eventType EventType, data any) {
	select {
	case b.queue <- Event{Type: eventType, Timestamp: b.now(), Data: data}:
	default:
		b.dropped.Add(1)
		b.logger.Warn().Str("event_type", string(eventType)).Msg("Event queue full, event dropped")
	}
}

// Run delivers queued events until ctx is canceled, then closes and
// removes every subscriber.
func (b *Broker) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			b.closeAll()
			b.logger.Info().Msg("Event broker shut down")
			return
		case e := <-b.queue:
			b.deliver(e)
		}
	}
}

func (b *Broker) deliver(e Event) {
	b.mu.RLock()
	subs := make([]Subscriber, 0, len(b.subs))
	for _, s := range b.subs {
		subs = append(subs, s)
	}
	b.mu.RUnlock()

	for _, s := range subs {
		if err := s.Send(e); err != nil {
			b.logger.Warn().Err(err).Str("event_type", string(e.Type)).Msg("Subscriber rejected event")
		}
	}
}

func (b *Broker) closeAll() {
	b.mu.Lock()
	subs := b.subs
	b.subs = make(map[int]Subscriber)
	b.mu.Unlock()

	for _, s := range subs {
		_ = s.Close()
	}
}

// SubscriberCount returns the number of subscribers.
func (b *Broker) SubscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subs)
}

// Dropped returns how many events were discarded on a full queue.
func (b *Broker) Dropped() int64 {
	return b.dropped.Load()
}
