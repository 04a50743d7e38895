//go:build !octet_debug

package opt

// Debug_ mirrors the original's DEBUG compile-time switch. When false,
// Trace costs nothing: the call sites still exist, but the body is empty
// and the compiler inlines it away.
const Debug_ = false

// Trace is a no-op. Build with -tags octet_debug to get trace output.
func Trace(string, ...any) {}
