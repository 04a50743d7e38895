//go:build !octet_sequential

package opt

// Sequential_ is the default state of the SEQUENTIAL switch: off. See
// sequential_on.go — it is a no-op either way, since Go's atomics already
// give every operation the ordering SEQUENTIAL asks for in the original.
const Sequential_ = false
