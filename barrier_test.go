package octetlock

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hmc-csci/octetlock/internal/opt"
)

// TestFastPathPurity is property P6: when WriteLock returns via the fast
// path (self already owns the lock), it performs no read-modify-write on
// self's own thread-info counters.
func TestFastPathPurity(t *testing.T) {
	th := NewThread()
	defer th.Shutdown()
	l := NewLock()

	th.WriteLock(l) // slow path: establishes ownership

	reqBefore := th.requests.Load()
	respBefore := th.responses.Load()

	granted := th.WriteLock(l) // fast path now
	require.False(t, granted)
	require.Equal(t, reqBefore, th.requests.Load())
	require.Equal(t, respBefore, th.responses.Load())
}

func TestReadLockAliasesWriteLockWithoutReadSharing(t *testing.T) {
	if opt.ReadShared_ {
		t.Skip("read-sharing compiled in: ReadLock is not WriteLock's alias in this build")
	}
	th := NewThread()
	defer th.Shutdown()
	l := NewLock()

	th.ReadLock(l)
	require.True(t, isWriteExclusive(l.word.Load()), "without read-sharing, ReadLock must take the lock write-exclusively")
	require.True(t, isOwnedBy(l.word.Load(), th))
}
