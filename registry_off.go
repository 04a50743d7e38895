//go:build !octet_readshared

package octetlock

// The active-thread registry is compiled out entirely when read-sharing
// is disabled: RDSH is never written to a lock word, so there is never
// anyone to walk.
func registerThread(*Thread)   {}
func deregisterThread(*Thread) {}
func notifyAllReaders(*Thread) {}
