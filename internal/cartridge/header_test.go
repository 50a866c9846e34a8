package cartridge

import "testing"

func TestParseHeaderRejectsBadSize(t *testing.T) {
	_, err := ParseHeader(make([]byte, 100))
	if err != ErrInvalidRomSize {
		t.Fatalf("err = %v, want ErrInvalidRomSize", err)
	}
}

func TestParseHeaderRejectsUnsupportedType(t *testing.T) {
	rom := make([]byte, 32*1024)
	rom[0x0147] = 0xFF // not in typeTable
	rom[0x0148] = 0
	_, err := ParseHeader(rom)
	if err != ErrUnsupportedCartridge {
		t.Fatalf("err = %v, want ErrUnsupportedCartridge", err)
	}
}

// Open Question (a): only 0x80/0xC0 at 0x0143 count as CGB-aware, not any
// non-zero byte.
func TestCGBFlagStrictness(t *testing.T) {
	rom := make([]byte, 32*1024)
	rom[0x0147] = 0x00
	rom[0x0148] = 0

	rom[0x0143] = 0x11 // non-zero, but not 0x80/0xC0
	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if h.CGBAware() {
		t.Fatal("0x11 at 0x0143 should not be treated as CGB-aware")
	}

	rom[0x0143] = 0x80
	h, err = ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if !h.CGBAware() {
		t.Fatal("0x80 at 0x0143 should be CGB-aware")
	}
}

// Open Question (b): 0x08 is ROM+RAM (no battery), 0x09 is
// ROM+RAM+BATTERY.
func TestROMRAMTypeDistinguishesBattery(t *testing.T) {
	rom := make([]byte, 32*1024)
	rom[0x0148] = 0

	rom[0x0147] = 0x08
	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if !h.HasRAM || h.HasBattery {
		t.Fatalf("type 0x08: HasRAM=%v HasBattery=%v, want true/false", h.HasRAM, h.HasBattery)
	}

	rom[0x0147] = 0x09
	h, err = ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	if !h.HasRAM || !h.HasBattery {
		t.Fatalf("type 0x09: HasRAM=%v HasBattery=%v, want true/true", h.HasRAM, h.HasBattery)
	}
}
