// Package statemachine is a small generic finite state machine with guards
// and actions.
//
// States and events are any comparable types, usually string-based enums:
//
//	type Status string
//	type Event string
//
//	m := statemachine.New[Status, Event]("signed_out",
//	    statemachine.WithTransition[Status, Event]("signed_out", "signing_in", "begin_sign_in"),
//	    statemachine.WithTransition[Status, Event]("signing_in", "signed_in", "complete_sign_in"),
//	)
//	if err := m.Fire(ctx, "begin_sign_in"); err != nil {
//	    // statemachine.IsNoTransitionAvailableError(err)
//	}
//
// Several transitions may be registered for the same from/event pair; the
// first whose guards all pass is taken. Actions run before the state
// changes and abort the transition on error. All methods are safe for
// concurrent use.
package statemachine
