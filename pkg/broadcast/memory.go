package broadcast

import (
	"context"
	"sync"
)

// MemoryBroadcaster is an in-process Broadcaster that remembers the last
// value and replays it to new subscribers. All methods are safe for
// concurrent use.
type MemoryBroadcaster[T any] struct {
	subscribers map[*subscriber[T]]struct{}
	bufferSize  int
	last        *T
	closed      bool
	mu          sync.RWMutex
	cleanupWg   sync.WaitGroup
}

var _ Broadcaster[int] = (*MemoryBroadcaster[int])(nil)

// NewMemoryBroadcaster creates a new in-memory broadcaster with the given
// per-subscriber buffer size (minimum 1).
func NewMemoryBroadcaster[T any](bufferSize int) *MemoryBroadcaster[T] {
	return &MemoryBroadcaster[T]{
		subscribers: make(map[*subscriber[T]]struct{}),
		bufferSize:  max(bufferSize, 1),
	}
}

// Subscribe creates a subscriber. If a value was broadcast before, it is
// delivered immediately. The subscription is removed when ctx is cancelled.
func (b *MemoryBroadcaster[T]) Subscribe(ctx context.Context) Subscriber[T] {
	b.mu.Lock()
	defer b.mu.Unlock()

	sub := newSubscriber[T](b.bufferSize)
	if b.closed {
		_ = sub.Close()
		return sub
	}

	b.subscribers[sub] = struct{}{}
	sub.onDone = func() { b.unsubscribe(sub) }
	if b.last != nil {
		sub.send(*b.last)
	}

	if ctx.Done() != nil {
		done := b.closedSignal(sub)
		b.cleanupWg.Add(1)
		go func() {
			defer b.cleanupWg.Done()
			select {
			case <-ctx.Done():
				_ = sub.Close()
			case <-done:
			}
		}()
	}

	return sub
}

// Broadcast records v as the latest value and delivers it to all subscribers.
func (b *MemoryBroadcaster[T]) Broadcast(ctx context.Context, v T) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return ErrClosed
	}

	b.last = &v
	for sub := range b.subscribers {
		sub.send(v)
	}
	return nil
}

// Close shuts down the broadcaster and closes all subscribers.
// It is safe to call Close multiple times.
func (b *MemoryBroadcaster[T]) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	subs := make([]*subscriber[T], 0, len(b.subscribers))
	for sub := range b.subscribers {
		subs = append(subs, sub)
	}
	clear(b.subscribers)
	b.mu.Unlock()

	for _, sub := range subs {
		_ = sub.Close()
	}

	b.cleanupWg.Wait()
	return nil
}

func (b *MemoryBroadcaster[T]) subscriberCount() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.subscribers)
}

func (b *MemoryBroadcaster[T]) unsubscribe(sub *subscriber[T]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers, sub)
}

// closedSignal returns a channel that is closed once sub is closed, so the
// context watcher goroutine exits with the subscription.
func (b *MemoryBroadcaster[T]) closedSignal(sub *subscriber[T]) <-chan struct{} {
	done := make(chan struct{})
	prev := sub.onDone
	sub.onDone = func() {
		if prev != nil {
			prev()
		}
		close(done)
	}
	return done
}
