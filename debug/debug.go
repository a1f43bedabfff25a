// ─────────────────────────────────────────────────────────────────────────────
// [Filename]: debug.go — pipeline diagnostics
//
// Purpose:
//   - Logs infrequent error paths with a few small allocations per message.
//   - Used only in cold paths: capture-open and table-construction
//     failures, capture read failures, dropped undecodable frames, and
//     frames flagged as probable replays.
//
// Notes:
//   - Avoids fmt.Sprintf to minimize footprint and latency.
//
// Never invoke in hot loops — use only in failure diagnostics.
// ─────────────────────────────────────────────────────────────────────────────

package debug

import "github.com/lukasjhan/pcap-stat/utils"

// DropError logs prefix and, if err is non-nil, err's message, writing
// directly to stderr without going through fmt. Building the message
// allocates.
//
//go:nosplit
//go:inline
func DropError(prefix string, err error) {
	if err != nil {
		utils.PrintWarning(prefix + ": " + err.Error())
	} else {
		utils.PrintWarning(prefix)
	}
}

// DropMessage logs a cold-path diagnostic message: the opened capture,
// a dropped undecodable frame, a frame flagged as a probable replay.
//
//go:nosplit
//go:inline
func DropMessage(prefix, message string) {
	utils.PrintWarning(prefix + ": " + message)
}
