// Package broadcast provides type-safe one-to-many delivery of values.
//
// MemoryBroadcaster keeps the latest value and replays it to every new
// subscriber, which makes it a good fit for publishing state snapshots:
//
//	b := broadcast.NewMemoryBroadcaster[Snapshot](4)
//	defer b.Close()
//
//	sub := b.Subscribe(ctx)
//	defer sub.Close()
//
//	_ = b.Broadcast(ctx, snap)
//	for s := range sub.Receive() {
//		render(s)
//	}
//
// Broadcast never blocks. When a subscriber's buffer is full the oldest
// buffered value is evicted, so slow readers skip intermediate values but
// always observe the latest one. Subscriptions end when their context is
// cancelled, when Close is called on them, or when the broadcaster closes.
package broadcast
