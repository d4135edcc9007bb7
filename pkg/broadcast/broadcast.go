package broadcast

import (
	"context"
	"sync"
)

// Subscriber receives values from a Broadcaster.
type Subscriber[T any] interface {
	// Receive returns the channel values are delivered on. It is closed when
	// the subscriber or the broadcaster is closed.
	Receive() <-chan T

	// Close releases the subscription. It is idempotent.
	Close() error
}

// Broadcaster fans values out to every active subscriber.
type Broadcaster[T any] interface {
	// Subscribe registers a subscriber whose lifetime is bound to ctx.
	Subscribe(ctx context.Context) Subscriber[T]

	// Broadcast delivers v to all subscribers without blocking.
	Broadcast(ctx context.Context, v T) error

	// Close closes all subscribers. Later subscriptions are returned closed.
	Close() error
}

type subscriber[T any] struct {
	ch     chan T
	closed bool
	mu     sync.Mutex
	onDone func()
}

func newSubscriber[T any](bufferSize int) *subscriber[T] {
	return &subscriber[T]{
		ch: make(chan T, bufferSize),
	}
}

func (s *subscriber[T]) Receive() <-chan T {
	return s.ch
}

func (s *subscriber[T]) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	close(s.ch)
	s.closed = true
	onDone := s.onDone
	s.mu.Unlock()

	if onDone != nil {
		onDone()
	}
	return nil
}

// send delivers v, evicting the oldest buffered value when the buffer is
// full. A slow reader therefore skips intermediate values but always ends
// up with the most recent one.
func (s *subscriber[T]) send(v T) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return false
	}

	for {
		select {
		case s.ch <- v:
			return true
		default:
		}
		select {
		case <-s.ch:
		default:
		}
	}
}
