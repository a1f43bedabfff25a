// worker.go
//
// A worker receives PacketRecords off its Out endpoint until the channel
// closes and drains, decoding each frame's Ethernet/IPv4/TCP headers and
// folding the result into the shared Tables. Decode failures (short
// slices, header lengths past the captured bytes) are dropped with a
// diagnostic rather than aborting the worker, matching the pipeline's role
// as an integration harness rather than a protocol validator. Non-IP and
// non-TCP frames are not failures: they are counted in the tables their
// headers reach.

package pipeline

import (
	"github.com/lukasjhan/pcap-stat/channel"
	"github.com/lukasjhan/pcap-stat/control"
	"github.com/lukasjhan/pcap-stat/debug"
	"github.com/lukasjhan/pcap-stat/headerview"
	"github.com/lukasjhan/pcap-stat/types"
)

// Run drains in, accumulating every decodable TCP/IPv4 frame into tables.
// It returns once in is closed and empty.
func Run(in *channel.Out[types.PacketRecord], tables *Tables) {
	for rec := range in.All() {
		if err := accumulate(rec, tables); err != nil {
			debug.DropMessage("pipeline: dropping frame", err.Error())
			continue
		}
		control.SignalActivity()
	}
}

// accumulate decodes one frame's headers and updates every table that
// applies to it. A non-IP or non-TCP frame is not an error: the MAC table
// still gets a row, but the IP and port tables only see TCP/IP traffic.
func accumulate(rec types.PacketRecord, tables *Tables) error {
	eth, err := headerview.NewEthernetView(rec.Data)
	if err != nil {
		return err
	}
	n := uint64(len(rec.Data))
	tables.recordMAC(eth.Source(), eth.Destination(), n)

	if eth.NextPacketType() != headerview.IP {
		return nil
	}

	ip, err := headerview.NewIPv4View(eth.Payload())
	if err != nil {
		return err
	}
	tables.recordIP(ip.Source(), ip.Destination(), n)

	if ip.NextPacketType() != headerview.TCP {
		return nil
	}

	ipPayload, err := ip.Payload()
	if err != nil {
		return err
	}

	tcp, err := headerview.NewTCPView(ipPayload)
	if err != nil {
		return err
	}
	tables.recordPort(tcp.SourcePort(), tcp.DestinationPort(), n)

	return nil
}
