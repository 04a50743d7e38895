package octetlock

import "sync"

// allThreads keeps every Thread ever handed out reachable for the life of
// the process. Lock words store a Thread's address as a plain uintptr,
// which the garbage collector does not trace, so without this list a
// Thread could be reclaimed while a lock word still names it.
var (
	allThreadsMu sync.Mutex
	allThreads   []*Thread
)

// NewThread allocates a fresh thread-info block and, when read-sharing is
// compiled in, registers it so writers can find it to ping. Call once per
// goroutine that will participate in locking and keep the returned handle
// for every subsequent call the goroutine makes.
func NewThread() *Thread {
	t := &Thread{}
	allThreadsMu.Lock()
	allThreads = append(allThreads, t)
	allThreadsMu.Unlock()
	registerThread(t)
	return t
}

// Shutdown permanently relinquishes every lock t holds and removes it
// from the active-thread registry. t's storage is not freed — lock words
// may still reference it — so it remains dereferenceable after Shutdown
// returns; it simply never responds to anything again.
func (t *Thread) Shutdown() {
	t.handleRequests(true)
	deregisterThread(t)
}

// Yield is a politeness call: t grants every request pending against it
// without entering the blocked state. Call it from a loop that isn't
// otherwise touching the lock API to avoid starving peers waiting on t.
func (t *Thread) Yield() {
	t.handleRequests(false)
}
