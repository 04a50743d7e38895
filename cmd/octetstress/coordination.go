package main

import (
	"sync/atomic"

	"github.com/hmc-csci/octetlock"
	"github.com/hmc-csci/octetlock/internal/opt"
)

// cyclicBarrier is a reusable rendezvous for a dynamic set of worker
// goroutines: every registered party calls arrive once per phase, and
// none of them proceeds into the next phase until all of them have. This
// single primitive covers both places this harness needs that shape —
// waiting for every worker to finish spinning up before the timed region
// starts, and the periodic --checkpoint rendezvous mid-run — because both
// are the same "hold the whole party, then release together" operation;
// the only difference between the two call sites is whether a party ever
// leaves the barrier early (deregister), which the checkpoint rendezvous
// needs and the one-shot startup wait does not.
type cyclicBarrier struct {
	_       noCopy
	mu      octetlock.TicketLock
	phase   int
	parties int
	arrived int
	sema    [2]opt.Sema
}

// register adds a party to the barrier. Callers must register every
// party before any of them calls arrive for the phase being registered
// into.
func (b *cyclicBarrier) register() {
	b.mu.Lock()
	b.parties++
	b.mu.Unlock()
}

// arrive signals the calling party's arrival at the barrier's current
// phase and blocks until every registered party has also arrived, then
// returns the phase number the barrier just entered.
func (b *cyclicBarrier) arrive() int {
	b.mu.Lock()
	phase := b.phase
	b.arrived++
	if b.arrived < b.parties {
		b.mu.Unlock()
		b.sema[phase%2].Acquire()
		return phase + 1
	}
	waiters := b.arrived - 1
	b.arrived = 0
	b.phase = phase + 1
	b.mu.Unlock()

	semaPtr := &b.sema[phase%2]
	for i := 0; i < waiters; i++ {
		semaPtr.Release()
	}
	return phase + 1
}

// deregister removes a party that is exiting without a final arrive. If
// every remaining registered party was already waiting on this phase,
// deregistering the last holdout releases them, exactly as arrive would.
func (b *cyclicBarrier) deregister() {
	b.mu.Lock()
	b.parties--
	if b.parties <= 0 || b.arrived < b.parties {
		b.mu.Unlock()
		return
	}
	phase := b.phase
	waiters := b.arrived
	b.arrived = 0
	b.phase = phase + 1
	b.mu.Unlock()

	semaPtr := &b.sema[phase%2]
	for i := 0; i < waiters; i++ {
		semaPtr.Release()
	}
}

// stopSignal is a one-shot broadcast a background timer trips once a
// --duration budget elapses. Workers poll isTripped between iterations;
// nothing in this harness needs a blocking wait on it, so unlike
// cyclicBarrier this carries no semaphore, just the flag every worker
// already has to check anyway.
type stopSignal struct {
	_       noCopy
	tripped atomic.Bool
}

// trip sets the signal. Idempotent: tripping an already-tripped signal
// is a no-op.
func (s *stopSignal) trip() {
	s.tripped.Store(true)
}

// isTripped reports whether trip has been called.
func (s *stopSignal) isTripped() bool {
	return s.tripped.Load()
}
