package octetlock

import (
	"sync"
	"sync/atomic"
)

// Lock is a biased per-object lock: a single pointer-sized atomic word
// whose value is the object's current ownership state (C1). Cheap to
// embed — zero value is not directly usable, use NewLock.
type Lock struct {
	_    noCopy
	word atomic.Uintptr
}

var (
	deadThreadOnce sync.Once
	deadThreadVal  *Thread
)

// deadThread is the process-wide singleton a fresh Lock is attributed to.
// It never becomes a live, registered thread, so any real thread's first
// access to a new lock always takes the slow path — which is simply the
// uniform correct behavior, since the dead thread will never respond.
func deadThread() *Thread {
	deadThreadOnce.Do(func() {
		deadThreadVal = &Thread{}
		deadThreadVal.requests.Store(1) // permanently blocked
	})
	return deadThreadVal
}

// NewLock returns a lock in the legal write-exclusive state owned by the
// dead-thread sentinel, so the first real acquirer always takes a slow
// path and finds no one to wait for.
func NewLock() *Lock {
	l := &Lock{}
	l.word.Store(writeExclusive(deadThread()))
	return l
}

// ForceUnlock is a best-effort testing hook (C4.6): if self currently
// owns l in either exclusive mode, it is handed back to the dead thread.
// Not required for correctness, and gives no guarantee if the lock has
// already been taken away by someone else.
func (self *Thread) ForceUnlock(l *Lock) {
	w := l.word.Load()
	if isOwnedBy(w, self) {
		l.word.CompareAndSwap(w, writeExclusive(deadThread()))
	}
}
