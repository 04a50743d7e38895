//go:build !octet_readshared

package opt

// ReadShared_ mirrors the original's READSHARED compile-time switch. When
// false, the root package's ReadLock is defined to be WriteLock (all
// ownership is exclusive) and the active-thread registry is compiled out
// entirely (see registry_off.go in the root package).
const ReadShared_ = false
