// ABOUTME: Ordered, unbounded single-consumer event queue between components.
// ABOUTME: Carries scroll-to-top, database-seeded and record-deleted notifications.
package events

import (
	"context"
	"errors"
	"sync"
)

// Kind identifies an event.
type Kind int

const (
	// ScrollToTop asks the view to show the newest record, usually after a create.
	ScrollToTop Kind = iota + 1
	// DatabaseSeeded reports that default data was written and views should reload.
	DatabaseSeeded
	// RecordDeleted reports a delete that can still be undone.
	RecordDeleted
)

func (k Kind) String() string {
	switch k {
	case ScrollToTop:
		return "scroll_to_top"
	case DatabaseSeeded:
		return "database_seeded"
	case RecordDeleted:
		return "record_deleted"
	default:
		return "unknown"
	}
}

// Event is a notification with an optional record reference.
type Event struct {
	Kind     Kind
	RecordID int64
}

// ErrClosed is returned when publishing to a closed bus.
var ErrClosed = errors.New("event bus closed")

// DefaultBuffer is the initial queue capacity used by NewBus for sizes <= 0.
const DefaultBuffer = 16

// Bus delivers events in publish order to a single consumer. Publishing
// never blocks and never drops: events queue until the consumer reads them.
type Bus struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []Event
	gen    uint64
	closed bool
	out    chan Event
	kick   chan struct{}
}

// NewBus creates a bus whose queue starts with the given capacity.
func NewBus(buffer int) *Bus {
	if buffer <= 0 {
		buffer = DefaultBuffer
	}
	b := &Bus{
		queue: make([]Event, 0, buffer),
		out:   make(chan Event),
		kick:  make(chan struct{}, 1),
	}
	b.cond = sync.NewCond(&b.mu)
	go b.pump()
	return b
}

// pump forwards queued events to the consumer one at a time.
func (b *Bus) pump() {
	for {
		b.mu.Lock()
		for len(b.queue) == 0 && !b.closed {
			b.cond.Wait()
		}
		if len(b.queue) == 0 {
			b.mu.Unlock()
			close(b.out)
			return
		}
		e, gen := b.queue[0], b.gen
		b.mu.Unlock()

		select {
		case b.out <- e:
			b.mu.Lock()
			if b.gen == gen {
				b.queue = b.queue[1:]
			}
			b.mu.Unlock()
		case <-b.kick:
		}
	}
}

// Publish enqueues e. It fails only when ctx is done or the bus is closed.
func (b *Bus) Publish(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !b.TryPublish(e) {
		return ErrClosed
	}
	return nil
}

// TryPublish enqueues e and reports whether the bus was still open.
func (b *Bus) TryPublish(e Event) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return false
	}
	b.queue = append(b.queue, e)
	b.cond.Signal()
	return true
}

// Events returns the receive side. Only one consumer should read it.
func (b *Bus) Events() <-chan Event {
	return b.out
}

// Pending returns how many events wait for the consumer.
func (b *Bus) Pending() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

// Drain removes and returns every queued event. It is for callers that
// collect events themselves instead of reading Events.
func (b *Bus) Drain() []Event {
	b.mu.Lock()
	out := b.queue
	b.queue = nil
	b.gen++
	b.mu.Unlock()

	select {
	case b.kick <- struct{}{}:
	default:
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

// Close stops the bus; the consumer sees the channel close after
// receiving what was already published.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.cond.Broadcast()
}
