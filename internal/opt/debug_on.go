//go:build octet_debug

package opt

import (
	"fmt"
	"os"
	"sync"
)

// Debug_ mirrors the original's DEBUG compile-time switch.
const Debug_ = true

var traceMu sync.Mutex

// Trace prints a trace line to stderr, serialized so concurrent barrier
// operations don't interleave mid-line the way the original's plain
// vfprintf could (its own comment admits as much).
func Trace(format string, args ...any) {
	traceMu.Lock()
	defer traceMu.Unlock()
	fmt.Fprintf(os.Stderr, format+"\n", args...)
}
