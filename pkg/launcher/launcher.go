package launcher

import (
	"context"
	"net/url"
)

// ResultType is the outcome class of an authorization round-trip.
type ResultType string

const (
	// ResultSuccess means the provider redirected back; Params hold the response.
	ResultSuccess ResultType = "success"
	// ResultCancel means the caller abandoned the flow.
	ResultCancel ResultType = "cancel"
	// ResultDismiss means the user closed the flow or it timed out.
	ResultDismiss ResultType = "dismiss"
	// ResultError means the flow could not be run; see Err.
	ResultError ResultType = "error"
)

// Result is what a Launcher reports back.
type Result struct {
	Type   ResultType
	Params url.Values
	Err    error
}

// Param returns the first value of the named response parameter.
func (r Result) Param(name string) string {
	return r.Params.Get(name)
}

// Success builds a success result from response parameters.
func Success(params url.Values) Result {
	return Result{Type: ResultSuccess, Params: params}
}

// Failure builds an error result.
func Failure(err error) Result {
	return Result{Type: ResultError, Err: err}
}

// Launcher sends the user to an authorization URL and waits for the
// provider to redirect back. Launch blocks until the round-trip ends.
type Launcher interface {
	Launch(ctx context.Context, authURL string) Result
}

// Func adapts a function to the Launcher interface.
type Func func(ctx context.Context, authURL string) Result

func (f Func) Launch(ctx context.Context, authURL string) Result {
	return f(ctx, authURL)
}

// fromContext maps a finished context to a result: deadline means the user
// never came back, anything else means the caller gave up.
func fromContext(ctx context.Context) Result {
	if ctx.Err() == context.DeadlineExceeded {
		return Result{Type: ResultDismiss, Err: ctx.Err()}
	}
	return Result{Type: ResultCancel, Err: ctx.Err()}
}
