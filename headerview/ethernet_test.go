package headerview

import "testing"

func buildEthernetFrame(dst, src [6]byte, etherType uint16, payload []byte) []byte {
	b := make([]byte, ethernetHeaderLen+len(payload))
	copy(b[0:6], dst[:])
	copy(b[6:12], src[:])
	b[12] = byte(etherType >> 8)
	b[13] = byte(etherType)
	copy(b[14:], payload)
	return b
}

// TestEthernetViewDecodesFields confirms the header round-trip: known
// field values survive decode exactly.
func TestEthernetViewDecodesFields(t *testing.T) {
	dst := [6]byte{0x00, 0x11, 0x22, 0x33, 0x44, 0x55}
	src := [6]byte{0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF}
	frame := buildEthernetFrame(dst, src, etherTypeIP, []byte{1, 2, 3})

	v, err := NewEthernetView(frame)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Destination() != MAC(dst) {
		t.Fatalf("destination = %v; want %v", v.Destination(), MAC(dst))
	}
	if v.Source() != MAC(src) {
		t.Fatalf("source = %v; want %v", v.Source(), MAC(src))
	}
	if v.EtherType() != etherTypeIP {
		t.Fatalf("ether type = %#x; want %#x", v.EtherType(), etherTypeIP)
	}
	if v.NextPacketType() != IP {
		t.Fatalf("next packet type = %v; want IP", v.NextPacketType())
	}
	if got, want := string(v.Payload()), "\x01\x02\x03"; got != want {
		t.Fatalf("payload = %q; want %q", got, want)
	}
}

// TestEthernetViewNextPacketTypeMapping exercises every named mapping plus
// the unknown fallback.
func TestEthernetViewNextPacketTypeMapping(t *testing.T) {
	cases := []struct {
		etherType uint16
		want      PacketType
	}{
		{0x0800, IP},
		{0x0806, ARP},
		{0x8035, RARP},
		{0x9999, Unknown},
	}
	for _, c := range cases {
		frame := buildEthernetFrame([6]byte{}, [6]byte{}, c.etherType, nil)
		v, err := NewEthernetView(frame)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := v.NextPacketType(); got != c.want {
			t.Fatalf("etherType %#x: next packet type = %v; want %v", c.etherType, got, c.want)
		}
	}
}

// TestEthernetViewRejectsShortSlice confirms a too-short slice is a decode
// error, not a panic.
func TestEthernetViewRejectsShortSlice(t *testing.T) {
	if _, err := NewEthernetView(make([]byte, 13)); err == nil {
		t.Fatal("expected an error for a 13-byte slice")
	}
}

// TestMACFormat confirms the default delimiter and a custom one.
func TestMACFormat(t *testing.T) {
	m := MAC{0x00, 0x1a, 0x2b, 0x3c, 0x4d, 0xff}
	if got, want := m.String(), "00:1A:2B:3C:4D:FF"; got != want {
		t.Fatalf("String() = %q; want %q", got, want)
	}
	if got, want := m.Format("-"), "00-1A-2B-3C-4D-FF"; got != want {
		t.Fatalf("Format(\"-\") = %q; want %q", got, want)
	}
}
