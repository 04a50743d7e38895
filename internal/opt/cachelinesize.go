package opt

import (
	"unsafe"

	"golang.org/x/sys/cpu"
)

// CacheLineSize_ is used to pad Thread so its requests and responses
// counters land on separate cache lines, avoiding false sharing between
// a thread's own request count and the response count its owner writes.
const CacheLineSize_ = unsafe.Sizeof(cpu.CacheLinePad{})
