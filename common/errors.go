package common

import "github.com/pkg/errors"

// ErrBufferFull is returned by Pool.Fix when every resident frame is
// pinned and the pool is at capacity. Non-fatal: the caller may retry
// once another client unfixes a page.
var ErrBufferFull = errors.New("buffer is full")

// ErrProtocolMisuse names a client-visible contract violation: unfixing a
// frame this pool did not hand out, or double-unfixing one. No code in
// this module returns or panics with it; Pool.Unfix does not detect
// either misuse.
var ErrProtocolMisuse = errors.New("buffer pool protocol misuse")

// IoError wraps a failed segment-file read or write with a stack-annotated
// cause. It is returned by Frame.GetData (on load), by Pool.Fix (when a
// segment file cannot be opened) and by Pool.Destroy (on a failed flush),
// and is only logged when a flush fails during eviction.
type IoError struct {
	cause error
}

func NewIoError(op string, cause error) *IoError {
	return &IoError{cause: errors.Wrap(cause, op)}
}

func (e *IoError) Error() string {
	return e.cause.Error()
}

func (e *IoError) Unwrap() error {
	return e.cause
}
