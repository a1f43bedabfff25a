// dedupe.go
//
// Deduper is a single-goroutine, lock-free ring buffer that recognizes
// repeat frames within a sliding replay window — the situation a mirrored
// SPAN/tap port produces when the same frame arrives twice. Each slot
// tracks the capture sequence number it was last written at and a 128-bit
// content fingerprint; a frame is a duplicate only if its fingerprint
// matches the slot's stored one AND the slot hasn't aged out of the replay
// window, so an old fingerprint colliding into the same slot as a much
// later, unrelated frame is never mistaken for a repeat.
//
// Not safe for concurrent use — callers feeding multiple worker goroutines
// must run one Deduper per goroutine or guard it externally.

package dedupe

import (
	"golang.org/x/crypto/sha3"

	"github.com/lukasjhan/pcap-stat/constants"
	"github.com/lukasjhan/pcap-stat/utils"
)

const ringSize = 1 << constants.DedupeRingBits

// slot holds one fingerprinted frame's identity.
//
//go:align 64
type slot struct {
	seq          uint64
	tagHi, tagLo uint64
	seen         bool
}

// Deduper tracks recently seen frame fingerprints in a fixed-size ring.
//
//go:align 64
type Deduper struct {
	buf [ringSize]slot
}

// New constructs an empty Deduper.
func New() *Deduper { return &Deduper{} }

// Fingerprint folds a SHA3-256 digest of frame into a 128-bit (hi, lo)
// pair — enough entropy to make an accidental collision between unrelated
// frames implausible without carrying the full 32-byte digest per slot.
func Fingerprint(frame []byte) (hi, lo uint64) {
	sum := sha3.Sum256(frame)
	return utils.LoadBE64(sum[0:8]), utils.LoadBE64(sum[8:16])
}

// Check reports whether the frame at capture sequence number seq is new
// within the replay window. If new (or if the prior occupant of its slot
// has aged out of the window), it records the fingerprint and returns
// true; otherwise it returns false without modifying the slot.
//
//go:nosplit
//go:inline
func (d *Deduper) Check(seq uint64, frame []byte) bool {
	hi, lo := Fingerprint(frame)
	idx := utils.Mix64(hi^lo) & (ringSize - 1)
	s := &d.buf[idx]

	stale := s.seen && seq > s.seq && seq-s.seq > constants.DedupeReplayWindow
	exactMatch := s.seen && s.tagHi == hi && s.tagLo == lo
	isDuplicate := exactMatch && !stale

	if !isDuplicate {
		*s = slot{seq: seq, tagHi: hi, tagLo: lo, seen: true}
	}
	return !isDuplicate
}
