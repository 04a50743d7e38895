//go:build octet_readshared

package opt

// ReadShared_ mirrors the original's READSHARED compile-time switch.
const ReadShared_ = true
