package octetlock

import "github.com/hmc-csci/octetlock/internal/opt"

// lockIntermediate spin-CASes l's word from whatever non-intermediate
// value it currently holds to stateIntermediate, returning the value it
// replaced. While contended it yields to the scheduler and grants its own
// pending requests between attempts, so two threads each waiting on the
// other's locks can't deadlock.
func lockIntermediate(self *Thread, l *Lock) lockWord {
	var spins int
	for {
		w := l.word.Load()
		if w != stateIntermediate {
			opt.Trace("thread %p setting %p to intermediate", self, l)
			if l.word.CompareAndSwap(w, stateIntermediate) {
				opt.Trace("thread %p set %p to intermediate", self, l)
				return w
			}
		}
		delay(&spins)
		self.handleRequests(false)
	}
}

// writeSlowPath transitions l into self's write-exclusive possession,
// handshaking with whoever held it before. Returns whether self granted
// any of its own pending requests while waiting.
func (self *Thread) writeSlowPath(l *Lock) bool {
	before := self.responses.Load()

	prev := lockIntermediate(self, l)
	switch {
	case isReadShared(prev):
		if opt.ReadShared_ {
			opt.Trace("thread %p wants to write to RdSh data %p; notifying everyone", self, l)
			notifyAllReaders(self)
		}
	default:
		owner := ownerOf(prev)
		if owner != self {
			self.notifyOne(owner)
		} else if !isReadExclusive(prev) {
			panicInvariant("write slow path: self already write-exclusive owner reached slow path")
		}
	}
	l.word.Store(writeExclusive(self))

	opt.Trace("thread %p can now write to %p", self, l)
	after := self.responses.Load()
	return before != after
}

// readSlowPath transitions l into self's read possession: shared if
// another thread is already read-sharing it, otherwise read-exclusive
// after evicting the previous write-exclusive owner. Only called when
// read-sharing is compiled in; otherwise ReadLock aliases WriteLock.
func (self *Thread) readSlowPath(l *Lock) bool {
	before := self.responses.Load()

	prev := lockIntermediate(self, l)
	switch {
	case isReadShared(prev):
		l.word.Store(stateReadShared)
	case isReadExclusive(prev):
		l.word.Store(stateReadShared)
	default:
		owner := ownerOf(prev)
		if owner != self {
			self.notifyOne(owner)
		}
		l.word.Store(readExclusive(self))
	}

	opt.Trace("thread %p can now read %p", self, l)
	after := self.responses.Load()
	return before != after
}
