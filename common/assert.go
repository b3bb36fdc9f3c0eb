package common

import "fmt"

// Assert panics with msg (formatted against args) when condition is false.
// Reserved for invariants that must never fire in correct code, not for
// recoverable runtime conditions like a full buffer.
func Assert(condition bool, msg string, args ...interface{}) {
	if !condition {
		panic(fmt.Sprintf(msg, args...))
	}
}
