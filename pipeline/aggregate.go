// aggregate.go
//
// Tables holds the three aggregation maps the demo pipeline's workers feed:
// per-MAC-pair, per-IP-pair, and per-port-pair packet/byte counters. Each
// key is canonicalized so that A<->B traffic lands in a single row
// regardless of which side happened to be the source; the row then carries
// two independent directional counters (A->B and B->A) that workers update
// with atomic adds, letting concurrent insert-or-accumulate calls race
// freely without a lock.

package pipeline

import (
	"bytes"
	"sync/atomic"

	"github.com/lukasjhan/pcap-stat/cmap"
	"github.com/lukasjhan/pcap-stat/constants"
	"github.com/lukasjhan/pcap-stat/headerview"
)

// Counters accumulates directional packet and byte totals for one
// aggregation row. Every field is updated with atomic.Uint64 adds so a row
// may be shared and incremented by every worker that observes its key.
type Counters struct {
	ABPackets atomic.Uint64
	ABBytes   atomic.Uint64
	BAPackets atomic.Uint64
	BABytes   atomic.Uint64
}

// Add records one frame of size n bytes traveling in the A->B direction if
// abDirection is true, B->A otherwise.
func (c *Counters) Add(abDirection bool, n uint64) {
	if abDirection {
		c.ABPackets.Add(1)
		c.ABBytes.Add(n)
		return
	}
	c.BAPackets.Add(1)
	c.BABytes.Add(n)
}

// MACPair is a canonicalized, order-independent pair of hardware addresses.
type MACPair struct {
	A, B headerview.MAC
}

func macPairBytes(p MACPair) []byte {
	b := make([]byte, 0, headerview.MACLen*2)
	b = append(b, p.A[:]...)
	return append(b, p.B[:]...)
}

// IPPair is a canonicalized, order-independent pair of IPv4 addresses.
type IPPair struct {
	A, B headerview.IPv4Addr
}

func ipPairBytes(p IPPair) []byte {
	b := make([]byte, 0, headerview.IPv4Len*2)
	b = append(b, p.A[:]...)
	return append(b, p.B[:]...)
}

// PortPair is a canonicalized, order-independent pair of TCP ports.
type PortPair struct {
	A, B uint16
}

func portPairBytes(p PortPair) []byte {
	return []byte{byte(p.A >> 8), byte(p.A), byte(p.B >> 8), byte(p.B)}
}

// canonicalMAC orders (src, dst) into a stable (A, B) pair and reports
// whether src maps to A (true) or B (false) in the result, so the caller
// knows which directional counters to advance.
func canonicalMAC(src, dst headerview.MAC) (MACPair, bool) {
	if bytes.Compare(src[:], dst[:]) <= 0 {
		return MACPair{A: src, B: dst}, true
	}
	return MACPair{A: dst, B: src}, false
}

func canonicalIP(src, dst headerview.IPv4Addr) (IPPair, bool) {
	if bytes.Compare(src[:], dst[:]) <= 0 {
		return IPPair{A: src, B: dst}, true
	}
	return IPPair{A: dst, B: src}, false
}

func canonicalPort(src, dst uint16) (PortPair, bool) {
	if src <= dst {
		return PortPair{A: src, B: dst}, true
	}
	return PortPair{A: dst, B: src}, false
}

// Tables bundles the three shared CMaps every worker inserts into.
type Tables struct {
	MACPairs  *cmap.CMap[MACPair, *Counters]
	IPPairs   *cmap.CMap[IPPair, *Counters]
	PortPairs *cmap.CMap[PortPair, *Counters]
}

// NewTables constructs the three aggregation maps with the capacity
// estimates the demo workload was sized for.
func NewTables() (*Tables, error) {
	macHasher := cmap.ArrayHasher(macPairBytes)
	ipHasher := cmap.ArrayHasher(ipPairBytes)
	portHasher := cmap.ArrayHasher(portPairBytes)

	macs, err := cmap.New[MACPair, *Counters](macHasher, constants.EstimatedMACPairs, constants.DefaultMaxLoadFactor, constants.DefaultMaxSubmaps)
	if err != nil {
		return nil, err
	}
	ips, err := cmap.New[IPPair, *Counters](ipHasher, constants.EstimatedIPPairs, constants.DefaultMaxLoadFactor, constants.DefaultMaxSubmaps)
	if err != nil {
		return nil, err
	}
	ports, err := cmap.New[PortPair, *Counters](portHasher, constants.EstimatedPortPairs, constants.DefaultMaxLoadFactor, constants.DefaultMaxSubmaps)
	if err != nil {
		return nil, err
	}

	return &Tables{MACPairs: macs, IPPairs: ips, PortPairs: ports}, nil
}

// rowFor looks up or inserts key, returning the one Counters instance every
// caller for that key converges on.
func rowFor[K comparable](m *cmap.CMap[K, *Counters], key K) *Counters {
	entry, inserted := m.Insert(key, &Counters{})
	_ = inserted
	return entry.Value
}

// recordMAC canonicalizes (src, dst) and advances the matching row's
// directional counters by n bytes.
func (t *Tables) recordMAC(src, dst headerview.MAC, n uint64) {
	pair, abDirection := canonicalMAC(src, dst)
	rowFor(t.MACPairs, pair).Add(abDirection, n)
}

func (t *Tables) recordIP(src, dst headerview.IPv4Addr, n uint64) {
	pair, abDirection := canonicalIP(src, dst)
	rowFor(t.IPPairs, pair).Add(abDirection, n)
}

func (t *Tables) recordPort(src, dst uint16, n uint64) {
	pair, abDirection := canonicalPort(src, dst)
	rowFor(t.PortPairs, pair).Add(abDirection, n)
}
