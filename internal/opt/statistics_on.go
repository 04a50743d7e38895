//go:build octet_statistics

package opt

import "sync/atomic"

// Statistics_ mirrors the original's STATISTICS compile-time switch.
const Statistics_ = true

// StatCounters counts fast vs. slow barrier invocations per thread, the
// same four counters the original keeps as __thread size_t globals.
type StatCounters struct {
	writeBarriers atomic.Uint64
	slowWrites    atomic.Uint64
	readBarriers  atomic.Uint64
	slowReads     atomic.Uint64
}

func (c *StatCounters) IncWriteBarrier() { c.writeBarriers.Add(1) }
func (c *StatCounters) IncSlowWrite()    { c.slowWrites.Add(1) }
func (c *StatCounters) IncReadBarrier()  { c.readBarriers.Add(1) }
func (c *StatCounters) IncSlowRead()     { c.slowReads.Add(1) }

func (c *StatCounters) Snapshot() (writeBarriers, slowWrites, readBarriers, slowReads uint64) {
	return c.writeBarriers.Load(), c.slowWrites.Load(), c.readBarriers.Load(), c.slowReads.Load()
}
