// Package octetlock implements a biased per-object lock inspired by the
// OCTET barriers of Bond et al. (OOPSLA 2013).
//
// The fast path — a thread re-accessing an object it already owns — costs a
// single relaxed load and a comparison, no atomic read-modify-write. Losing
// the fast path transfers ownership through a request/response handshake
// with the previous owner(s), coordinated by the per-thread counters in
// [Thread].
//
// Callers obtain a [Thread] once per OS thread (or long-lived goroutine)
// with [NewThread], use it to acquire [Lock] values embedded in their own
// data, and call [Thread.Shutdown] when that thread is done. There is no
// implicit thread-local state: every operation threads the [Thread] handle
// explicitly, the same way this package's contemporaries thread a
// context.Context.
package octetlock
