package cartridge

import "testing"

func buildMBC3ROM(t *testing.T) []byte {
	t.Helper()
	rom := make([]byte, 4*16384)
	rom[0x0147] = byte(TypeMBC3RAMBattery)
	rom[0x0148] = 1 // 2<<1 = 4 banks
	rom[0x0149] = 0x02 // 8 KiB RAM
	for bank := 0; bank < 4; bank++ {
		rom[bank*0x4000] = byte(bank)
	}
	return rom
}

// The RTC seconds register only updates its latched read-back copy on a
// 0x00-then-0x01 write sequence to 0x6000-0x7FFF; writing 0x01 without a
// preceding 0x00 must not latch.
func TestMBC3RTCLatchSequence(t *testing.T) {
	rom := buildMBC3ROM(t)
	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	m, err := NewMBC(rom, h)
	if err != nil {
		t.Fatalf("NewMBC: %v", err)
	}

	m.Write(0x0000, 0x0A)   // RAM/RTC enable
	m.Write(0x4000, 0x08)   // select RTC seconds register
	m.Write(0xA000, 42)     // write seconds=42 through the register window

	m.Write(0x6000, 0x01) // no preceding 0x00, must not latch
	if got := m.Read(0xA000); got == 42 {
		t.Fatal("RTC latched without a 0x00->0x01 sequence")
	}

	m.Write(0x6000, 0x00)
	m.Write(0x6000, 0x01)
	if got := m.Read(0xA000); got != 42 {
		t.Fatalf("latched seconds = %d, want 42", got)
	}
}

// The RAM-bank register doubles as the RTC register select: values
// 0x08-0x0C route through the clock instead of the RAM array.
func TestMBC3RAMBankVsRTCSelect(t *testing.T) {
	rom := buildMBC3ROM(t)
	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	m, err := NewMBC(rom, h)
	if err != nil {
		t.Fatalf("NewMBC: %v", err)
	}

	m.Write(0x0000, 0x0A)
	m.Write(0x4000, 0x00) // RAM bank 0
	m.Write(0xA000, 0x11)
	m.Write(0x4000, 0x0A) // RTC hours register
	m.Write(0xA000, 5)
	m.Write(0x4000, 0x00) // back to RAM bank 0
	if got := m.Read(0xA000); got != 0x11 {
		t.Fatalf("RAM bank 0 clobbered by RTC write: got 0x%02X, want 0x11", got)
	}
}

// The 7-bit ROM bank register remaps a written 0 to bank 1 (no 0x20/0x40/
// 0x60 quirk on MBC3, unlike MBC1).
func TestMBC3BankZeroRemap(t *testing.T) {
	rom := buildMBC3ROM(t)
	h, err := ParseHeader(rom)
	if err != nil {
		t.Fatalf("ParseHeader: %v", err)
	}
	m, err := NewMBC(rom, h)
	if err != nil {
		t.Fatalf("NewMBC: %v", err)
	}
	m.Write(0x2000, 0x00)
	if got := m.Read(0x4000); got != 0x01 {
		t.Fatalf("bank tag = 0x%02X, want 0x01", got)
	}
}
