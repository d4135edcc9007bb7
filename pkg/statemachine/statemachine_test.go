package statemachine_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/streamauth/pkg/statemachine"
)

type state string

type event string

const (
	Draft     state = "draft"
	InReview  state = "in_review"
	Approved  state = "approved"
	Rejected  state = "rejected"
	Submit    event = "submit"
	Approve   event = "approve"
	Reject    event = "reject"
	Unrelated event = "unrelated"
)

type sm = statemachine.Machine[state, event]

func newMachine(opts ...statemachine.Option[state, event]) *sm {
	return statemachine.New[state, event](Draft, opts...)
}

func TestMachine_BasicTransitions(t *testing.T) {
	t.Parallel()

	m := newMachine(
		statemachine.WithTransition[state, event](Draft, InReview, Submit),
		statemachine.WithTransition[state, event](InReview, Approved, Approve),
	)
	ctx := context.Background()

	assert.Equal(t, Draft, m.Current())
	assert.True(t, m.CanFire(ctx, Submit))
	assert.False(t, m.CanFire(ctx, Approve))

	require.NoError(t, m.Fire(ctx, Submit))
	assert.Equal(t, InReview, m.Current())

	require.NoError(t, m.Fire(ctx, Approve))
	assert.Equal(t, Approved, m.Current())
}

func TestMachine_NoTransition(t *testing.T) {
	t.Parallel()

	m := newMachine(statemachine.WithTransition[state, event](Draft, InReview, Submit))

	err := m.Fire(context.Background(), Unrelated)
	require.Error(t, err)
	assert.True(t, statemachine.IsNoTransitionAvailableError(err))
	assert.Contains(t, err.Error(), "draft")
	assert.Contains(t, err.Error(), "unrelated")
	assert.Equal(t, Draft, m.Current())
}

func TestMachine_Guards(t *testing.T) {
	t.Parallel()

	t.Run("rejecting guard blocks transition", func(t *testing.T) {
		t.Parallel()

		m := newMachine(statemachine.WithTransition(Draft, InReview, Submit,
			statemachine.WithGuard(func(context.Context, state, event) bool { return false }),
		))

		err := m.Fire(context.Background(), Submit)
		require.Error(t, err)
		assert.True(t, statemachine.IsTransitionRejectedError(err))
		assert.False(t, m.CanFire(context.Background(), Submit))
		assert.Equal(t, Draft, m.Current())
	})

	t.Run("first passing transition wins", func(t *testing.T) {
		t.Parallel()

		m := newMachine(
			statemachine.WithTransition(Draft, Approved, Submit,
				statemachine.WithGuard(func(context.Context, state, event) bool { return false }),
			),
			statemachine.WithTransition(Draft, Rejected, Submit,
				statemachine.WithGuard(func(context.Context, state, event) bool { return true }),
			),
			statemachine.WithTransition[state, event](Draft, InReview, Submit),
		)

		require.NoError(t, m.Fire(context.Background(), Submit))
		assert.Equal(t, Rejected, m.Current())
	})
}

func TestMachine_Actions(t *testing.T) {
	t.Parallel()

	t.Run("actions run in order with transition details", func(t *testing.T) {
		t.Parallel()

		var calls []string
		m := newMachine(statemachine.WithTransition(Draft, InReview, Submit,
			statemachine.WithAction(func(_ context.Context, from, to state, ev event) error {
				calls = append(calls, string(from)+">"+string(to)+":"+string(ev))
				return nil
			}),
			statemachine.WithAction(func(context.Context, state, state, event) error {
				calls = append(calls, "second")
				return nil
			}),
		))

		require.NoError(t, m.Fire(context.Background(), Submit))
		assert.Equal(t, []string{"draft>in_review:submit", "second"}, calls)
	})

	t.Run("failing action aborts transition", func(t *testing.T) {
		t.Parallel()

		boom := errors.New("boom")
		m := newMachine(statemachine.WithTransition(Draft, InReview, Submit,
			statemachine.WithAction(func(context.Context, state, state, event) error { return boom }),
		))

		err := m.Fire(context.Background(), Submit)
		require.ErrorIs(t, err, boom)
		assert.Equal(t, Draft, m.Current())
	})
}

func TestMachine_Concurrent(t *testing.T) {
	t.Parallel()

	m := newMachine(
		statemachine.WithTransition[state, event](Draft, InReview, Submit),
		statemachine.WithTransition[state, event](InReview, Draft, Reject),
	)
	ctx := context.Background()

	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := m.Fire(ctx, Submit); err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, successes)
	assert.Equal(t, InReview, m.Current())
}
