package types

import "time"

// ============================================================================
// PACKET RECORD - PRODUCER-TO-WORKER PIPELINE ELEMENT
// ============================================================================

// PacketRecord is one captured frame as it travels from the demo CLI's
// round-robin producer to a worker over a channel. Data is this record's
// own backing array (copied out of the capture reader), so it remains
// valid for the record's whole lifetime regardless of how long it sits in
// a channel buffer before a worker receives it.
//
//go:align 64
type PacketRecord struct {
	// Timestamp is the capture-reported time this frame was recorded.
	Timestamp time.Time

	// CapturedLength is the number of bytes actually captured (may be
	// less than OriginalLength if the capture truncated the frame).
	CapturedLength uint32

	// OriginalLength is the frame's length on the wire.
	OriginalLength uint32

	// Data holds CapturedLength bytes starting at the Ethernet header.
	Data []byte
}
