package lookahead

import "github.com/pkg/errors"

// Error taxonomy (§7): Cancelled and OutOfMemory are recoverable resource
// errors raised only at checkpoints; Unsat is a normal terminal value, not an
// error, and is therefore not part of this taxonomy. Invariant violations are
// programmer errors and are raised as panics, not returned errors, since §7
// specifies they "abort the process." The one exception is a PopScope with
// no matching PushScope, which PopScope returns as an error wrapping
// errPopUnderflow.

// ErrCancelled is returned by Checkpoint (and, transitively, Solve) when the
// caller's cancellation token has fired.
var ErrCancelled = errors.New("lookahead: cancelled")

// ErrOutOfMemory is returned by Checkpoint when the configured memory
// ceiling has been exceeded.
var ErrOutOfMemory = errors.New("lookahead: out of memory")

// IsCancelled and IsOutOfMemory unwrap err (which may have been decorated
// with errors.Wrap as it propagated through the scope stack) and compare
// against the sentinel.
func IsCancelled(err error) bool  { return errors.Cause(err) == ErrCancelled }
func IsOutOfMemory(err error) bool { return errors.Cause(err) == ErrOutOfMemory }

// CancelToken is consulted by Checkpoint. A nil token never cancels.
type CancelToken interface {
	Cancelled() bool
}

// CancelFunc adapts a plain function to CancelToken.
type CancelFunc func() bool

func (f CancelFunc) Cancelled() bool { return f() }

// invariantViolation panics with a wrapped, stack-annotated error; callers
// are never expected to recover from this (§7: "invariant violations abort
// the process").
func invariantViolation(msg string) {
	panic(errors.WithStack(errors.New("lookahead: invariant violation: " + msg)))
}
