package pcapfile

import (
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"testing"
)

func writeTestCapture(t *testing.T, packets [][]byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.pcap")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	global := make([]byte, globalHeaderLen)
	binary.LittleEndian.PutUint32(global[0:4], magicMicros)
	binary.LittleEndian.PutUint16(global[4:6], 2)
	binary.LittleEndian.PutUint16(global[6:8], 4)
	binary.LittleEndian.PutUint32(global[16:20], 65535)
	binary.LittleEndian.PutUint32(global[20:24], 1) // Ethernet
	if _, err := f.Write(global); err != nil {
		t.Fatal(err)
	}

	for i, p := range packets {
		rec := make([]byte, recordHeaderLen)
		binary.LittleEndian.PutUint32(rec[0:4], uint32(1700000000+i))
		binary.LittleEndian.PutUint32(rec[4:8], uint32(i*1000))
		binary.LittleEndian.PutUint32(rec[8:12], uint32(len(p)))
		binary.LittleEndian.PutUint32(rec[12:16], uint32(len(p)))
		if _, err := f.Write(rec); err != nil {
			t.Fatal(err)
		}
		if _, err := f.Write(p); err != nil {
			t.Fatal(err)
		}
	}
	return path
}

// TestReaderRoundTrip confirms packets written to a capture file are read
// back with matching lengths and payload bytes.
func TestReaderRoundTrip(t *testing.T) {
	packets := [][]byte{
		{1, 2, 3, 4},
		{5, 6, 7, 8, 9, 10},
		{0xff},
	}
	path := writeTestCapture(t, packets)

	r, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer r.Close()

	if r.Network() != 1 {
		t.Fatalf("network = %d; want 1", r.Network())
	}

	for i, want := range packets {
		rec, err := r.Next()
		if err != nil {
			t.Fatalf("packet %d: Next: %v", i, err)
		}
		if int(rec.CapturedLength) != len(want) {
			t.Fatalf("packet %d: captured length = %d; want %d", i, rec.CapturedLength, len(want))
		}
		if string(rec.Data) != string(want) {
			t.Fatalf("packet %d: data = %v; want %v", i, rec.Data, want)
		}
	}

	if _, err := r.Next(); err != io.EOF {
		t.Fatalf("expected io.EOF after last packet, got %v", err)
	}
}

// TestOpenRejectsBadMagic confirms a file without a valid pcap magic
// number is rejected rather than silently misparsed.
func TestOpenRejectsBadMagic(t *testing.T) {
	path := filepath.Join(t.TempDir(), "not-a-pcap")
	if err := os.WriteFile(path, make([]byte, globalHeaderLen), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err != ErrBadMagic {
		t.Fatalf("Open: got %v; want ErrBadMagic", err)
	}
}

// TestOpenMissingFile confirms a missing file surfaces the underlying OS
// error rather than panicking.
func TestOpenMissingFile(t *testing.T) {
	if _, err := Open(filepath.Join(t.TempDir(), "missing.pcap")); err == nil {
		t.Fatal("expected an error opening a missing file")
	}
}
