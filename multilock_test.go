package octetlock

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// TestAcquireCrossOrderNoDeadlock is the multi-lock acquisition's whole
// reason for existing: two threads requesting the same two locks in
// opposite order must not deadlock, because each one's slow path grants
// the other's pending requests while backing off.
func TestAcquireCrossOrderNoDeadlock(t *testing.T) {
	a := NewLock()
	b := NewLock()

	var wg sync.WaitGroup
	wg.Add(2)

	run := func(first, second *Lock) {
		defer wg.Done()
		th := NewThread()
		defer th.Shutdown()
		for i := 0; i < 200; i++ {
			Acquire(th,
				Request{L: first, Mode: WriteMode},
				Request{L: second, Mode: WriteMode},
			)
		}
	}

	go run(a, b)
	go run(b, a)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("Acquire deadlocked under cross-ordered contention")
	}
}

// TestExclusionUnderContention is property P1: at no point do two threads
// both believe they hold the same lock write-exclusively.
func TestExclusionUnderContention(t *testing.T) {
	l := NewLock()
	const workers = 8
	const itersPerWorker = 500

	var holders atomic.Int32
	var violations atomic.Int32
	var wg sync.WaitGroup
	wg.Add(workers)

	for range workers {
		go func() {
			defer wg.Done()
			th := NewThread()
			defer th.Shutdown()
			for i := 0; i < itersPerWorker; i++ {
				th.WriteLock(l)
				if holders.Add(1) != 1 {
					violations.Add(1)
				}
				holders.Add(-1)
				th.WriteLock(l) // fast-path re-entry
			}
		}()
	}

	wg.Wait()
	require.Zero(t, violations.Load())
}

// TestBalanceInvariant is property P2: a workload of paired
// increment/decrement transfers leaves the sum of all accounts at 0.
func TestBalanceInvariant(t *testing.T) {
	const numAccounts = 6
	const numThreads = 6
	const itersPerThread = 2000

	locks := make([]*Lock, numAccounts)
	balances := make([]int64, numAccounts)
	for i := range locks {
		locks[i] = NewLock()
	}

	var wg sync.WaitGroup
	wg.Add(numThreads)
	for w := 0; w < numThreads; w++ {
		w := w
		go func() {
			defer wg.Done()
			th := NewThread()
			defer th.Shutdown()
			for i := 0; i < itersPerThread; i++ {
				from := (w + i) % numAccounts
				to := (w + i + 1) % numAccounts
				if from == to {
					continue
				}
				Acquire(th,
					Request{L: locks[from], Mode: WriteMode},
					Request{L: locks[to], Mode: WriteMode},
				)
				balances[from]--
				balances[to]++
			}
		}()
	}
	wg.Wait()

	var sum int64
	for _, b := range balances {
		sum += b
	}
	require.Zero(t, sum)
}

func TestLockSetRejectsDuplicateLock(t *testing.T) {
	l := NewLock()
	require.Panics(t, func() {
		NewLockSet(
			Request{L: l, Mode: WriteMode},
			Request{L: l, Mode: ReadMode},
		)
	})
}

// TestLockSetRepeatedAcquire exercises the whole point of LockSet: the
// same group of locks acquired over and over across iterations, without
// rebuilding or re-validating the request list each time.
func TestLockSetRepeatedAcquire(t *testing.T) {
	a := NewLock()
	b := NewLock()
	c := NewLock()
	ls := NewLockSet(
		Request{L: a, Mode: WriteMode},
		Request{L: b, Mode: WriteMode},
		Request{L: c, Mode: WriteMode},
	)

	th := NewThread()
	defer th.Shutdown()

	for i := 0; i < 50; i++ {
		ls.Acquire(th)
		require.True(t, isOwnedBy(a.word.Load(), th))
		require.True(t, isOwnedBy(b.word.Load(), th))
		require.True(t, isOwnedBy(c.word.Load(), th))
		th.ForceUnlock(a)
		th.ForceUnlock(b)
		th.ForceUnlock(c)
	}
}

// TestLockSetCrossOrderNoDeadlock mirrors TestAcquireCrossOrderNoDeadlock
// but through the LockSet convenience, confirming it carries the same
// no-fixed-ordering guarantee.
func TestLockSetCrossOrderNoDeadlock(t *testing.T) {
	a := NewLock()
	b := NewLock()

	lsAB := NewLockSet(Request{L: a, Mode: WriteMode}, Request{L: b, Mode: WriteMode})
	lsBA := NewLockSet(Request{L: b, Mode: WriteMode}, Request{L: a, Mode: WriteMode})

	var wg sync.WaitGroup
	wg.Add(2)

	run := func(ls *LockSet) {
		defer wg.Done()
		th := NewThread()
		defer th.Shutdown()
		for i := 0; i < 200; i++ {
			ls.Acquire(th)
		}
	}

	go run(lsAB)
	go run(lsBA)

	done := make(chan struct{})
	go func() {
		wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(10 * time.Second):
		t.Fatal("LockSet.Acquire deadlocked under cross-ordered contention")
	}
}
