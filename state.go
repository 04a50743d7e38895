package octetlock

import "unsafe"

// A lockWord is the single pointer-sized atomic word that encodes a lock's
// ownership state. Two sentinel values are reserved; every other value is
// a tagged pointer to a Thread, with the low bit distinguishing write
// exclusivity from read exclusivity.
type lockWord = uintptr

const (
	stateReadShared   lockWord = 0
	stateIntermediate lockWord = 1
)

func isReadShared(w lockWord) bool   { return w == 0 }
func isIntermediate(w lockWord) bool { return w == 1 }
func isWriteExclusive(w lockWord) bool {
	return w != 0 && w&1 == 0
}
func isReadExclusive(w lockWord) bool {
	return w != 1 && w&1 != 0
}

// tidOf masks off the tag bit, recovering the owning Thread's address.
// Only meaningful when w is neither stateReadShared nor stateIntermediate.
func tidOf(w lockWord) lockWord { return w &^ 1 }

func ptrOf(t *Thread) lockWord { return lockWord(uintptr(unsafe.Pointer(t))) }

// writeExclusive constructs the lock word for t holding the lock
// write-exclusively.
func writeExclusive(t *Thread) lockWord { return ptrOf(t) }

// readExclusive constructs the lock word for t holding the lock
// read-exclusively.
func readExclusive(t *Thread) lockWord { return ptrOf(t) | 1 }

// ownerOf recovers the Thread tagged into w. Callers must already know w
// is not one of the two sentinel states.
func ownerOf(w lockWord) *Thread {
	return (*Thread)(unsafe.Pointer(tidOf(w))) //nolint:govet
}

// isOwnedBy reports whether w tags t as owner, in either exclusive mode.
func isOwnedBy(w lockWord, t *Thread) bool {
	return w != stateReadShared && w != stateIntermediate && tidOf(w) == ptrOf(t)
}
