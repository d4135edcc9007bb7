package broadcast

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func receiveWithin[T any](t *testing.T, sub Subscriber[T], d time.Duration) (T, bool) {
	t.Helper()
	select {
	case v, ok := <-sub.Receive():
		return v, ok
	case <-time.After(d):
		var zero T
		t.Fatalf("no value received within %s", d)
		return zero, false
	}
}

func TestMemoryBroadcaster_Subscribe(t *testing.T) {
	t.Run("subscribe creates active subscriber", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		defer b.Close()

		sub := b.Subscribe(context.Background())
		require.NotNil(t, sub)
		require.NotNil(t, sub.Receive())
		assert.Equal(t, 1, b.subscriberCount())
	})

	t.Run("subscribe after close returns closed subscriber", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		require.NoError(t, b.Close())

		sub := b.Subscribe(context.Background())
		_, ok := <-sub.Receive()
		assert.False(t, ok)
	})

	t.Run("new subscriber receives last value", func(t *testing.T) {
		b := NewMemoryBroadcaster[int](10)
		defer b.Close()

		require.NoError(t, b.Broadcast(context.Background(), 7))

		sub := b.Subscribe(context.Background())
		v, ok := receiveWithin(t, sub, time.Second)
		require.True(t, ok)
		assert.Equal(t, 7, v)
	})

	t.Run("context cancellation unsubscribes", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		defer b.Close()

		ctx, cancel := context.WithCancel(context.Background())
		sub := b.Subscribe(ctx)
		cancel()

		_, ok := receiveWithin(t, sub, time.Second)
		assert.False(t, ok)
		assert.Eventually(t, func() bool { return b.subscriberCount() == 0 }, time.Second, 10*time.Millisecond)
	})

	t.Run("closing subscriber unsubscribes", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](10)
		defer b.Close()

		sub := b.Subscribe(context.Background())
		require.NoError(t, sub.Close())
		require.NoError(t, sub.Close())
		assert.Equal(t, 0, b.subscriberCount())
	})
}

func TestMemoryBroadcaster_Broadcast(t *testing.T) {
	t.Run("broadcast to multiple subscribers", func(t *testing.T) {
		b := NewMemoryBroadcaster[int](10)
		defer b.Close()

		ctx := context.Background()
		subs := []Subscriber[int]{b.Subscribe(ctx), b.Subscribe(ctx), b.Subscribe(ctx)}

		require.NoError(t, b.Broadcast(ctx, 42))
		for _, sub := range subs {
			v, ok := receiveWithin(t, sub, time.Second)
			require.True(t, ok)
			assert.Equal(t, 42, v)
		}
	})

	t.Run("slow subscriber keeps latest value", func(t *testing.T) {
		b := NewMemoryBroadcaster[int](1)
		defer b.Close()

		ctx := context.Background()
		sub := b.Subscribe(ctx)
		for i := range 5 {
			require.NoError(t, b.Broadcast(ctx, i))
		}

		v, ok := receiveWithin(t, sub, time.Second)
		require.True(t, ok)
		assert.Equal(t, 4, v)
	})

	t.Run("broadcast after close fails", func(t *testing.T) {
		b := NewMemoryBroadcaster[int](1)
		require.NoError(t, b.Close())
		assert.ErrorIs(t, b.Broadcast(context.Background(), 1), ErrClosed)
	})

	t.Run("late subscriber gets only the latest value", func(t *testing.T) {
		b := NewMemoryBroadcaster[string](4)
		defer b.Close()

		require.NoError(t, b.Broadcast(context.Background(), "a"))
		require.NoError(t, b.Broadcast(context.Background(), "b"))

		sub := b.Subscribe(context.Background())
		v, ok := receiveWithin(t, sub, time.Second)
		require.True(t, ok)
		assert.Equal(t, "b", v)
		select {
		case extra := <-sub.Receive():
			t.Fatalf("unexpected extra value %q", extra)
		default:
		}
	})
}

func TestMemoryBroadcaster_Close(t *testing.T) {
	b := NewMemoryBroadcaster[int](4)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	sub := b.Subscribe(ctx)

	require.NoError(t, b.Close())
	require.NoError(t, b.Close())

	_, ok := <-sub.Receive()
	assert.False(t, ok)
}

func TestMemoryBroadcaster_Concurrent(t *testing.T) {
	b := NewMemoryBroadcaster[int](8)
	defer b.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var wg sync.WaitGroup
	for range 10 {
		wg.Add(2)
		go func() {
			defer wg.Done()
			sub := b.Subscribe(ctx)
			_ = sub.Close()
		}()
		go func() {
			defer wg.Done()
			_ = b.Broadcast(ctx, 1)
		}()
	}
	wg.Wait()
}
