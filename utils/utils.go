// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: utils.go — Conversions, loaders, mixers, and diagnostics
//
// Purpose:
//   - Shared helpers used by dedupe fingerprinting, debug diagnostics,
//     and the demo CLI's and pipeline's log messages.
//
// Notes:
//   - Avoids fmt.Sprintf on hot paths to minimize footprint and latency.
// ─────────────────────────────────────────────────────────────────────────────

package utils

import (
	"strconv"
	"unsafe"

	"golang.org/x/sys/unix"
)

///////////////////////////////////////////////////////////////////////////////
// Conversion Utilities — Zero-Alloc Casts
///////////////////////////////////////////////////////////////////////////////

// B2s converts a []byte to a string **without** allocation.
// Caller must ensure the input slice remains valid and unchanged.
//
//go:nosplit
//go:inline
func B2s(b []byte) string {
	if len(b) == 0 {
		return ""
	}
	return unsafe.String(&b[0], len(b))
}

// Itoa renders n as a decimal string. Thin wrapper kept alongside B2s so
// diagnostic call sites never reach for fmt.Sprintf on a hot path.
func Itoa(n int) string { return strconv.Itoa(n) }

///////////////////////////////////////////////////////////////////////////////
// Fast Loaders — Unaligned 64-Bit Reads
///////////////////////////////////////////////////////////////////////////////

// Load64 reads an unaligned, little-endian 64-bit word from a byte slice.
//
//go:nosplit
//go:inline
func Load64(b []byte) uint64 {
	return *(*uint64)(unsafe.Pointer(&b[0]))
}

// LoadBE64 performs a manual big-endian 64-bit read, for wire fields that
// arrive big-endian regardless of host byte order.
//
//go:nosplit
//go:inline
func LoadBE64(b []byte) uint64 {
	_ = b[7] // bounds check hint
	return uint64(b[0])<<56 | uint64(b[1])<<48 | uint64(b[2])<<40 |
		uint64(b[3])<<32 | uint64(b[4])<<24 | uint64(b[5])<<16 |
		uint64(b[6])<<8 | uint64(b[7])
}

///////////////////////////////////////////////////////////////////////////////
// Hash & Mixers
///////////////////////////////////////////////////////////////////////////////

// Mix64 applies a Murmur3-style avalanche to a 64-bit value. Exported for
// callers outside cmap (e.g. dedupe's ring-slot selection) that want
// the same mixing without pulling in the whole hasher machinery.
//
//go:nosplit
//go:inline
func Mix64(x uint64) uint64 {
	x ^= x >> 33
	x *= 0xff51afd7ed558ccd
	x ^= x >> 33
	x *= 0xc4ceb9fe1a85ec53
	x ^= x >> 33
	return x
}

///////////////////////////////////////////////////////////////////////////////
// Diagnostics
///////////////////////////////////////////////////////////////////////////////

// PrintWarning writes msg followed by a newline directly to stderr (fd 2),
// bypassing fmt. It allocates one byte slice for msg plus the newline.
// Used only in cold paths: decode errors, capture-open and read failures,
// replay flags.
//
//go:nosplit
//go:inline
func PrintWarning(msg string) {
	b := append([]byte(msg), '\n')
	_, _ = unix.Write(2, b)
}
