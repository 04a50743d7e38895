package octetlock

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewLockStartsWriteExclusiveToDeadThread(t *testing.T) {
	l := NewLock()
	w := l.word.Load()
	require.True(t, isWriteExclusive(w))
	require.Equal(t, deadThread(), ownerOf(w))
}

func TestWriteLockFastPathOnReentry(t *testing.T) {
	th := NewThread()
	defer th.Shutdown()
	l := NewLock()

	granted := th.WriteLock(l)
	require.False(t, granted, "first acquisition is a slow path, never grants requests while taking it from the dead thread")
	require.True(t, isOwnedBy(l.word.Load(), th))

	granted = th.WriteLock(l)
	require.False(t, granted, "fast path re-entry grants nothing")
	require.True(t, isOwnedBy(l.word.Load(), th))
}

// TestForceUnlockThenWriteLockRoundTrip is property R1: force_unlock then
// write_lock on the same lock by the same thread with no intervening
// contention leaves the lock in WREX(self).
func TestForceUnlockThenWriteLockRoundTrip(t *testing.T) {
	th := NewThread()
	defer th.Shutdown()
	l := NewLock()

	th.WriteLock(l)
	th.ForceUnlock(l)
	require.Equal(t, deadThread(), ownerOf(l.word.Load()))

	th.WriteLock(l)
	require.True(t, isOwnedBy(l.word.Load(), th))
	require.True(t, isWriteExclusive(l.word.Load()))
}

func TestForceUnlockIsNoOpWhenNotOwner(t *testing.T) {
	a := NewThread()
	b := NewThread()
	defer a.Shutdown()
	defer b.Shutdown()
	l := NewLock()

	a.WriteLock(l)
	b.ForceUnlock(l) // b does not own l; must be a no-op
	require.True(t, isOwnedBy(l.word.Load(), a))
}
