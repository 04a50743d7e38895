package octetlock

import "fmt"

// InvariantViolation is the panic value raised whenever the protocol
// catches a caller or itself in a state that should be unreachable:
// handling requests on an already-blocked thread, a request counter
// overflowing past 2^31-2, or
// an assertion about ownership failing during a slow path transition.
// These are programmer errors; there is no recovery path.
type InvariantViolation struct {
	msg string
}

func (e *InvariantViolation) Error() string { return e.msg }

func panicInvariant(format string, args ...any) {
	panic(&InvariantViolation{msg: fmt.Sprintf(format, args...)})
}
