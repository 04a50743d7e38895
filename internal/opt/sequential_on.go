//go:build octet_sequential

package opt

// Sequential_ mirrors the original's SEQUENTIAL compile-time switch, which
// in octet-core.hpp only changes which std::memory_order the same atomic
// operations are given — it never removes the fast-path comparison itself.
// Go's sync/atomic operations are already sequentially consistent, at least
// as strong as anything SEQUENTIAL falls back to, so there is no weaker
// ordering left to opt into: this switch is a true no-op here, kept only so
// -tags octet_sequential still builds and the flag shows up in run logs.
const Sequential_ = true
