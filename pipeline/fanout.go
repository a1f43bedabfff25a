// fanout.go
//
// Fanout is the demo pipeline's producer: it pulls PacketRecords off a
// pcapfile.Reader and round-robins them across a fixed set of worker
// channels, closing every channel once the capture is exhausted so each
// worker's range-over-All loop terminates on its own.
//
// Every captured frame is sent on, counted exactly once downstream — this
// tool reports what was captured, caplen and all, the same way the
// original stats tool does. dedupe.Deduper only flags frames that look
// like a replay (a retransmission, a mirrored tap repeating a frame) for
// the diagnostic log; it never removes a frame from the counted stream.

package pipeline

import (
	"errors"
	"io"

	"github.com/lukasjhan/pcap-stat/channel"
	"github.com/lukasjhan/pcap-stat/debug"
	"github.com/lukasjhan/pcap-stat/dedupe"
	"github.com/lukasjhan/pcap-stat/types"
	"github.com/lukasjhan/pcap-stat/utils"
)

// PacketSource is the minimal surface Fanout needs from a capture reader.
type PacketSource interface {
	Next() (types.PacketRecord, error)
}

// Fanout reads from src until it reports io.EOF, sending each record into
// the next channel in round-robin order, then closes every channel. It
// returns the first non-EOF read error encountered, if any.
func Fanout(src PacketSource, ins []*channel.In[types.PacketRecord]) error {
	defer func() {
		for _, in := range ins {
			in.Close()
		}
	}()

	if len(ins) == 0 {
		return errors.New("pipeline: no worker channels to fan out into")
	}

	dd := dedupe.New()
	for seq := uint64(0); ; seq++ {
		rec, err := src.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			debug.DropError("pipeline: capture read failed", err)
			return err
		}
		if !dd.Check(seq, rec.Data) {
			debug.DropMessage("pipeline: frame looks like a replay", "seq="+utils.Itoa(int(seq)))
		}
		ins[seq%uint64(len(ins))].Send(rec)
	}
}
