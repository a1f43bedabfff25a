// ════════════════════════════════════════════════════════════════════════════════════════════════
// Packet Capture Statistics — Main Entry Point
// ────────────────────────────────────────────────────────────────────────────────────────────────
// Component: Demo CLI & Pipeline Orchestration
//
// Description:
//   Reads a packet capture from the working directory, fans its frames out
//   across a fixed pool of worker goroutines, and prints per-MAC-pair,
//   per-IP-pair, and per-port-pair traffic tables once the capture drains.
//
// Architecture:
//   - Phase 1: Open the capture file
//   - Phase 2: Spin up worker goroutines and the round-robin producer
//   - Phase 3: Join workers, print aggregation tables
// ════════════════════════════════════════════════════════════════════════════════════════════════

package main

import (
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/lukasjhan/pcap-stat/channel"
	"github.com/lukasjhan/pcap-stat/constants"
	"github.com/lukasjhan/pcap-stat/control"
	"github.com/lukasjhan/pcap-stat/debug"
	"github.com/lukasjhan/pcap-stat/pcapfile"
	"github.com/lukasjhan/pcap-stat/pipeline"
	"github.com/lukasjhan/pcap-stat/types"
	"github.com/lukasjhan/pcap-stat/utils"
)

func main() {
	os.Exit(run())
}

// run executes the demo pipeline and returns the process exit code.
func run() int {
	// PHASE 1: Open the capture file.
	reader, err := pcapfile.Open(constants.DefaultCaptureFile)
	if err != nil {
		debug.DropError("capture open failed", err)
		return 1
	}
	defer reader.Close()

	debug.DropMessage("CAPTURE", "opened "+constants.DefaultCaptureFile+" (network="+utils.Itoa(int(reader.Network()))+")")

	tables, err := pipeline.NewTables()
	if err != nil {
		debug.DropError("table construction failed", err)
		return 1
	}

	// PHASE 2: Spin up workers, fan packets out to them.
	channels := make([]*channel.Channel[types.PacketRecord], constants.WorkerCount)
	ins := make([]*channel.In[types.PacketRecord], constants.WorkerCount)
	for i := range channels {
		channels[i] = channel.New[types.PacketRecord](constants.ChannelCapacity)
		ins[i] = channels[i].In()
	}

	var workers sync.WaitGroup
	for _, ch := range channels {
		workers.Add(1)
		go func(out *channel.Out[types.PacketRecord]) {
			defer workers.Done()
			pipeline.Run(out, tables)
		}(ch.Out())
	}

	if err := pipeline.Fanout(reader, ins); err != nil {
		debug.DropError("fanout failed", err)
		return 1
	}
	control.Shutdown()
	workers.Wait()

	// PHASE 3: Print aggregation tables.
	printMACTable(tables)
	printIPTable(tables)
	printPortTable(tables)

	return 0
}

func printMACTable(t *pipeline.Tables) {
	type row struct {
		pair pipeline.MACPair
		c    *pipeline.Counters
	}
	var rows []row
	for k, v := range t.MACPairs.All() {
		rows = append(rows, row{k, v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].pair.A.String() < rows[j].pair.A.String() })

	fmt.Println("MAC pairs:")
	fmt.Printf("%-18s %-18s %10s %12s %10s %12s\n", "A", "B", "A->B pkts", "A->B bytes", "B->A pkts", "B->A bytes")
	for _, r := range rows {
		fmt.Printf("%-18s %-18s %10d %12d %10d %12d\n",
			r.pair.A.String(), r.pair.B.String(),
			r.c.ABPackets.Load(), r.c.ABBytes.Load(),
			r.c.BAPackets.Load(), r.c.BABytes.Load())
	}
}

func printIPTable(t *pipeline.Tables) {
	type row struct {
		pair pipeline.IPPair
		c    *pipeline.Counters
	}
	var rows []row
	for k, v := range t.IPPairs.All() {
		rows = append(rows, row{k, v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].pair.A.String() < rows[j].pair.A.String() })

	fmt.Println("IP pairs:")
	fmt.Printf("%-16s %-16s %10s %12s %10s %12s\n", "A", "B", "A->B pkts", "A->B bytes", "B->A pkts", "B->A bytes")
	for _, r := range rows {
		fmt.Printf("%-16s %-16s %10d %12d %10d %12d\n",
			r.pair.A.String(), r.pair.B.String(),
			r.c.ABPackets.Load(), r.c.ABBytes.Load(),
			r.c.BAPackets.Load(), r.c.BABytes.Load())
	}
}

func printPortTable(t *pipeline.Tables) {
	type row struct {
		pair pipeline.PortPair
		c    *pipeline.Counters
	}
	var rows []row
	for k, v := range t.PortPairs.All() {
		rows = append(rows, row{k, v})
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].pair.A < rows[j].pair.A })

	fmt.Println("Port pairs:")
	fmt.Printf("%-8s %-8s %10s %12s %10s %12s\n", "A", "B", "A->B pkts", "A->B bytes", "B->A pkts", "B->A bytes")
	for _, r := range rows {
		fmt.Printf("%-8d %-8d %10d %12d %10d %12d\n",
			r.pair.A, r.pair.B,
			r.c.ABPackets.Load(), r.c.ABBytes.Load(),
			r.c.BAPackets.Load(), r.c.BABytes.Load())
	}
}
