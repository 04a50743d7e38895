package octetlock

import "github.com/hmc-csci/octetlock/internal/opt"

// WriteLock is the write barrier (C3): the common case where self already
// owns l write-exclusively completes with a single relaxed load and
// comparison, performing no atomic read-modify-write on any thread-info
// block. Returns whether self granted any of its own pending requests
// while transitioning ownership (false on the fast path, always).
func (self *Thread) WriteLock(l *Lock) bool {
	self.stats.IncWriteBarrier()
	if l.word.Load() == writeExclusive(self) {
		return false
	}
	self.stats.IncSlowWrite()
	return self.writeSlowPath(l)
}

// ReadLock is the read barrier (C3). When read-sharing is not compiled
// in, every acquisition is exclusive, so this is WriteLock outright. When
// it is compiled in, the fast path additionally accepts RDSH — any other
// reader's published writes are visible by construction, since getting to
// RDSH at all required a handshake with the prior exclusive owner.
func (self *Thread) ReadLock(l *Lock) bool {
	if !opt.ReadShared_ {
		return self.WriteLock(l)
	}

	self.stats.IncReadBarrier()
	w := l.word.Load()
	if isOwnedBy(w, self) {
		return false
	}
	if isReadShared(w) {
		return false
	}
	self.stats.IncSlowRead()
	return self.readSlowPath(l)
}
