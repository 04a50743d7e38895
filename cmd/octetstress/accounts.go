package main

import (
	"math/rand"
	"runtime"

	"github.com/hmc-csci/octetlock"
	"github.com/hmc-csci/octetlock/internal/opt"
)

// account is the protected object the stress harness hammers: a balance
// guarded by a biased lock, plus an "extra" slot locked by every
// iteration regardless of build — write-exclusively by default, or
// shared 30% of the time when read-sharing is compiled in, to exercise
// that path too.
type account struct {
	lock  *octetlock.Lock
	extra *octetlock.Lock

	balance    int64
	extraValue int64
}

func newAccounts(n int) []*account {
	accounts := make([]*account, n)
	for i := range accounts {
		accounts[i] = &account{
			lock:  octetlock.NewLock(),
			extra: octetlock.NewLock(),
		}
	}
	return accounts
}

// sumBalances reports the current sum of every account's balance. It takes
// no locks itself: callers call it either at quiescence (the end-of-run
// check) or while holding every account's lock (the --checkpoint check).
func sumBalances(accounts []*account) int64 {
	var sum int64
	for _, a := range accounts {
		sum += a.balance
	}
	return sum
}

// pickPair chooses which two accounts worker threadIdx's next iteration
// touches. Under contention, the choice is uniformly random, so every
// worker can end up fighting over the same few accounts. Without it, each
// worker gets a private, non-overlapping triple of accounts
// (30*threadIdx, 30*threadIdx+1, 30*threadIdx+2) so the run measures
// throughput in the absence of lock handoffs.
func pickPair(rng *rand.Rand, n, threadIdx int, contention bool) (from, to int) {
	if contention {
		return rng.Intn(n), rng.Intn(n)
	}
	base := 30 * threadIdx
	return base, base + 1
}

// futz is one unit of work: move one unit of balance from one account to
// another and touch a third account's extra slot — write-exclusively,
// unless read-sharing is compiled in, where 30% of the time it's taken
// as a shared read instead, to exercise that path. Under --contention=false
// the extra slot is pinned to 30*threadIdx+2, completing the same fixed,
// non-overlapping triple pickPair fixes from/to into — matching
// stresstest.cpp:125-127, where CONTENTION=0 fixes all three of a
// thread's accounts, not just the first two. All three locks are
// taken through a single octetlock.Acquire call, matching
// original_source/stresstest.cpp:139-148's single
// octet::lock(from, true, to, true, extra, false) call: bundling every
// lock a critical section needs into one multi-lock acquisition is what
// gives the no-deadlock guarantee (spec.md §4.7) in the first place — a
// standalone WriteLock/ReadLock outside that call never enters the
// blocked state (apart from Shutdown, multilock.go's backoff is the only
// caller of handleRequests(true)), so it has no cooperative escape from a
// cycle. If
// cfg.forceUnlock is set, it releases all three locks again before
// returning, to accelerate churn.
func futz(t *octetlock.Thread, accounts []*account, rng *rand.Rand, threadIdx int, cfg runConfig) {
	n := len(accounts)
	from, to := pickPair(rng, n, threadIdx, cfg.contention)
	if from == to {
		// The caller (this function), not the lock, is responsible for
		// never acquiring the same lock twice in one Request list —
		// skip rather than alias.
		return
	}

	extraIdx := rng.Intn(n)
	if !cfg.contention {
		extraIdx = 30*threadIdx + 2
	}
	extraMode := octetlock.WriteMode
	if opt.ReadShared_ && rng.Intn(10) < 3 {
		extraMode = octetlock.ReadMode
	}

	octetlock.Acquire(t,
		octetlock.Request{L: accounts[from].lock, Mode: octetlock.WriteMode},
		octetlock.Request{L: accounts[to].lock, Mode: octetlock.WriteMode},
		octetlock.Request{L: accounts[extraIdx].extra, Mode: extraMode},
	)

	accounts[from].balance--
	accounts[to].balance++
	_ = accounts[extraIdx].extraValue

	if cfg.forceUnlock {
		t.ForceUnlock(accounts[from].lock)
		t.ForceUnlock(accounts[to].lock)
		t.ForceUnlock(accounts[extraIdx].extra)
	}

	if cfg.yield {
		t.Yield()
	}

	runtime.Gosched()
}
