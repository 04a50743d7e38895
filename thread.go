package octetlock

import (
	"sync/atomic"

	"github.com/hmc-csci/octetlock/internal/opt"
)

// Thread is a per-goroutine handle into the lock protocol: the request
// counter other goroutines bump to ask this one to give up its locks, and
// the response counter this goroutine alone advances to acknowledge them.
//
// The original ties this state to the OS thread via a thread-local
// pointer. Go goroutines have no stable identity to hang a TLS slot off
// of, and recovering one via the runtime (as a goroutine-ID hack) would
// be both unsupported and pointless here — so every operation in this
// package takes the caller's *Thread explicitly, the same way
// context.Context is threaded through blocking calls elsewhere. Callers
// obtain one from NewThread and pass it to every Lock call they make.
//
// A Thread's storage is intentionally never freed: lock words may keep
// referencing it long after the goroutine that owns it has exited.
type Thread struct {
	_ noCopy

	// requests packs a 31-bit count of acquire requests received from
	// other threads in the high bits, and a "blocked" flag in bit 0.
	requests atomic.Uint32

	_ [opt.CacheLineSize_ - 4]byte

	// responses is the count of requests this thread has acknowledged.
	// Only this Thread's own goroutine ever writes it.
	responses atomic.Uint32

	stats opt.StatCounters

	// registryNext links this Thread into the active-thread registry's
	// singly linked list. Untouched when read-sharing is compiled out.
	registryNext *Thread
}

// handleRequests grants every pending request: "I relinquish every lock I
// currently hold, and — if shouldBlock — I am now blocked." It panics if
// called while already blocked; a thread must unblock before handling
// requests again.
func (t *Thread) handleRequests(shouldBlock bool) uint32 {
	var setBit uint32
	if shouldBlock {
		setBit = 1
	}
	for {
		prev := t.requests.Load()
		if prev&1 != 0 {
			panicInvariant("handleRequests called on an already-blocked thread")
		}
		next := prev | setBit
		if t.requests.CompareAndSwap(prev, next) {
			t.responses.Store(prev >> 1)
			return prev
		}
	}
}

// unblock clears the blocked flag, acq-rel.
func (t *Thread) unblock() {
	for {
		prev := t.requests.Load()
		next := prev &^ 1
		if t.requests.CompareAndSwap(prev, next) {
			return
		}
	}
}

// ping increments t's request count by two (preserving the blocked bit,
// which occupies bit 0) and reports the response count the caller must
// now wait for, plus whether t was already blocked when pinged.
func (t *Thread) ping() (desiredCount uint32, wasBlocked bool) {
	next := t.requests.Add(2)
	if old := next - 2; next < old {
		panicInvariant("request counter overflow on thread %p", t)
	}
	return next >> 1, next&1 != 0
}

// awaitResponse blocks self until owner's response count reaches desired,
// cooperatively granting self's own pending requests while it waits so a
// cyclic wait can't deadlock.
func (self *Thread) awaitResponse(owner *Thread, desired uint32) {
	opt.Trace("thread %p waiting for response from %p", self, owner)
	var spins int
	for owner.responses.Load() < desired {
		delay(&spins)
		self.handleRequests(false)
	}
}

// notifyOne pings owner and, unless it was already blocked, waits for its
// acknowledgment.
func (self *Thread) notifyOne(owner *Thread) {
	opt.Trace("thread %p will notify %p", self, owner)
	desired, wasBlocked := owner.ping()
	if wasBlocked {
		opt.Trace("thread %p pinged %p (blocked)", self, owner)
		return
	}
	opt.Trace("thread %p pinged %p (not blocked)", self, owner)
	self.awaitResponse(owner, desired)
}

// Stats returns this thread's fast/slow path counters. Zero in every
// field unless built with the statistics switch enabled.
func (t *Thread) Stats() (writeBarriers, slowWrites, readBarriers, slowReads uint64) {
	return t.stats.Snapshot()
}
