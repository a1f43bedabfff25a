// reader.go
//
// Reader parses the classic libpcap capture-file format: a 24-byte global
// header followed by a stream of (16-byte record header, captured bytes)
// pairs. Capture-file ingestion itself is out of the core design's scope —
// this is the minimal ambient plumbing the demo CLI needs to turn
// test.pcap into a stream of types.PacketRecord values for the producer to
// round-robin into the worker channels.

package pcapfile

import (
	"encoding/binary"
	"errors"
	"io"
	"os"
	"time"

	"github.com/lukasjhan/pcap-stat/types"
)

const (
	globalHeaderLen = 24
	recordHeaderLen = 16

	magicMicros        = 0xa1b2c3d4
	magicMicrosSwapped = 0xd4c3b2a1
	magicNanos         = 0xa1b23c4d
	magicNanosSwapped  = 0x4d3cb2a1
)

// ErrBadMagic is returned when a file's first four bytes don't match any
// known pcap magic number.
var ErrBadMagic = errors.New("pcapfile: not a pcap capture (bad magic number)")

// Reader reads successive packet records out of an open capture file.
type Reader struct {
	f         *os.File
	order     binary.ByteOrder
	nanos     bool
	snapLen   uint32
	network   uint32
	recordBuf [recordHeaderLen]byte
}

// Open opens path, validates its global header, and returns a Reader
// positioned at the first packet record.
func Open(path string) (*Reader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var hdr [globalHeaderLen]byte
	if _, err := io.ReadFull(f, hdr[:]); err != nil {
		f.Close()
		return nil, err
	}

	order, nanos, ok := detectMagic(hdr[0:4])
	if !ok {
		f.Close()
		return nil, ErrBadMagic
	}

	return &Reader{
		f:       f,
		order:   order,
		nanos:   nanos,
		snapLen: order.Uint32(hdr[16:20]),
		network: order.Uint32(hdr[20:24]),
	}, nil
}

func detectMagic(b []byte) (order binary.ByteOrder, nanos bool, ok bool) {
	le := binary.LittleEndian.Uint32(b)
	be := binary.BigEndian.Uint32(b)
	switch {
	case le == magicMicros:
		return binary.LittleEndian, false, true
	case be == magicMicros:
		return binary.BigEndian, false, true
	case le == magicNanos:
		return binary.LittleEndian, true, true
	case be == magicNanos:
		return binary.BigEndian, true, true
	default:
		return nil, false, false
	}
}

// SnapLen returns the capture's configured snapshot length.
func (r *Reader) SnapLen() uint32 { return r.snapLen }

// Network returns the capture's link-layer type (e.g. 1 for Ethernet).
func (r *Reader) Network() uint32 { return r.network }

// Next reads and returns the next packet record. It returns io.EOF once
// the capture is exhausted.
func (r *Reader) Next() (types.PacketRecord, error) {
	if _, err := io.ReadFull(r.f, r.recordBuf[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			err = io.EOF
		}
		return types.PacketRecord{}, err
	}

	tsSec := r.order.Uint32(r.recordBuf[0:4])
	tsFrac := r.order.Uint32(r.recordBuf[4:8])
	capturedLen := r.order.Uint32(r.recordBuf[8:12])
	originalLen := r.order.Uint32(r.recordBuf[12:16])

	data := make([]byte, capturedLen)
	if _, err := io.ReadFull(r.f, data); err != nil {
		return types.PacketRecord{}, err
	}

	nanosPart := tsFrac * 1000
	if r.nanos {
		nanosPart = tsFrac
	}

	return types.PacketRecord{
		Timestamp:      time.Unix(int64(tsSec), int64(nanosPart)).UTC(),
		CapturedLength: capturedLen,
		OriginalLength: originalLen,
		Data:           data,
	}, nil
}

// Close releases the underlying file handle.
func (r *Reader) Close() error { return r.f.Close() }
