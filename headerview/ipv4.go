// ipv4.go
//
// IPv4View decodes a (variable-length, minimum 20 byte) IPv4 header. Every
// multi-byte field is read as a full big-endian integer at its documented
// offset — never truncated to a single byte, unlike the buggy source this
// was ported from.

package headerview

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

const ipv4HeaderLen = 20

const (
	ipProtoTCP = 6
	ipProtoUDP = 17
)

// IPv4Len is the byte length of an IPv4 address.
const IPv4Len = 4

// IPv4Addr is a 4-byte address in network (big-endian) byte order.
type IPv4Addr [IPv4Len]byte

// String renders the address as four decimal octets in network order,
// separated by ".".
func (a IPv4Addr) String() string {
	parts := make([]string, IPv4Len)
	for i, b := range a {
		parts[i] = strconv.Itoa(int(b))
	}
	return strings.Join(parts, ".")
}

func readIPv4Addr(data []byte) IPv4Addr {
	var a IPv4Addr
	copy(a[:], data[:IPv4Len])
	return a
}

// IPv4View is a zero-copy view over an IPv4 header.
type IPv4View struct {
	b []byte
}

// NewIPv4View wraps data as an IPv4 header. data must be at least
// ipv4HeaderLen bytes.
func NewIPv4View(data []byte) (IPv4View, error) {
	if len(data) < ipv4HeaderLen {
		return IPv4View{}, fmt.Errorf("%w: ipv4 header needs %d bytes, got %d", ErrShortSlice, ipv4HeaderLen, len(data))
	}
	return IPv4View{b: data}, nil
}

// Version returns the high nibble of byte 0.
func (v IPv4View) Version() uint8 { return v.b[0] >> 4 }

// HeaderLength returns the low nibble of byte 0, in 32-bit words.
func (v IPv4View) HeaderLength() uint8 { return v.b[0] & 0x0F }

// TypeOfService returns byte 1 unchanged.
func (v IPv4View) TypeOfService() uint8 { return v.b[1] }

// TotalLength returns the big-endian total length field at bytes 2-3.
func (v IPv4View) TotalLength() uint16 { return binary.BigEndian.Uint16(v.b[2:4]) }

// ID returns the big-endian identification field at bytes 4-5.
func (v IPv4View) ID() uint16 { return binary.BigEndian.Uint16(v.b[4:6]) }

func (v IPv4View) flagsAndOffset() uint16 { return binary.BigEndian.Uint16(v.b[6:8]) }

// Flags returns the high 3 bits of the bytes 6-7 field.
func (v IPv4View) Flags() uint8 { return uint8(v.flagsAndOffset() >> 13) }

// FragmentOffset returns the low 13 bits of the bytes 6-7 field.
func (v IPv4View) FragmentOffset() uint16 { return v.flagsAndOffset() & 0x1FFF }

// TTL returns byte 8 unchanged.
func (v IPv4View) TTL() uint8 { return v.b[8] }

// Protocol returns byte 9 unchanged.
func (v IPv4View) Protocol() uint8 { return v.b[9] }

// Checksum returns the big-endian checksum field at bytes 10-11.
func (v IPv4View) Checksum() uint16 { return binary.BigEndian.Uint16(v.b[10:12]) }

// Source returns the full 4-byte source address at bytes 12-15.
func (v IPv4View) Source() IPv4Addr { return readIPv4Addr(v.b[12:16]) }

// Destination returns the full 4-byte destination address at bytes 16-19.
func (v IPv4View) Destination() IPv4Addr { return readIPv4Addr(v.b[16:20]) }

// NextPacketType maps Protocol to the protocol of the datagram's payload.
func (v IPv4View) NextPacketType() PacketType {
	switch v.Protocol() {
	case ipProtoTCP:
		return TCP
	case ipProtoUDP:
		return UDP
	default:
		return Unknown
	}
}

// Payload returns the bytes following this header, using HeaderLength to
// locate the end of any options. Returns ErrShortSlice if HeaderLength
// claims more header than the captured slice actually holds.
func (v IPv4View) Payload() ([]byte, error) {
	off := int(v.HeaderLength()) * 4
	if off > len(v.b) {
		return nil, fmt.Errorf("%w: ipv4 header length %d exceeds captured slice of %d bytes", ErrShortSlice, off, len(v.b))
	}
	return v.b[off:], nil
}
