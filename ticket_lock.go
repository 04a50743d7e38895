package octetlock

import (
	"sync/atomic"
)

// TicketLock is a fair, FIFO spin-lock used to guard the active-thread
// registry (C6). Unlike sync.Mutex, which allows barging, TicketLock
// guarantees waiters are granted the lock in the order they called Lock,
// which keeps registry scans from starving a long-waiting writer under
// heavy churn.
//
// It uses the classic ticket algorithm: Lock takes a ticket number and
// spins/sleeps until serving reaches it; Unlock advances serving so the
// next ticket holder proceeds.
type TicketLock struct {
	_       noCopy
	next    atomic.Uint32
	serving atomic.Uint32
}

// Lock acquires the lock, blocking until it is available.
func (m *TicketLock) Lock() {
	my := m.next.Add(1) - 1
	var spins int
	for {
		if m.serving.Load() == my {
			return
		}
		delay(&spins)
	}
}

// Unlock releases the lock.
func (m *TicketLock) Unlock() {
	m.serving.Add(1)
}
