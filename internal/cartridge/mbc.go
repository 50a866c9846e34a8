package cartridge

import "github.com/brackenmoor/gbcore/internal/types"

// MBC is the interface every memory bank controller implements. The
// cartridge window is [0x0000-0x7FFF] for ROM and [0xA000-0xBFFF] for
// external RAM/RTC; behavior outside that window is the caller's error.
type MBC interface {
	Read(address uint16) uint8
	Write(address uint16, value uint8)

	// RAM returns the external RAM backing store, for save-store
	// persistence. Battery backing is not consulted: the slice is
	// returned whenever RAM exists, and is empty (not nil) when the
	// header declares none (e.g. plain ROM, MBC3 with only an RTC).
	// MBC2 always returns its 512-byte built-in RAM.
	RAM() []byte
	// LoadRAM replaces the external RAM contents, e.g. from a prior
	// save-store entry keyed by (title, globalChecksum).
	LoadRAM(data []byte)
	// Dirty reports whether RAM has been written since the last
	// ClearDirty, driving the frame-boundary flush-to-save-store.
	Dirty() bool
	ClearDirty()

	types.Stater
}

// NewMBC constructs the MBC implementation matching the parsed header.
func NewMBC(rom []byte, h Header) (MBC, error) {
	switch h.Kind {
	case KindNone:
		return newNoneMBC(rom, h), nil
	case KindMBC1:
		return newMBC1(rom, h), nil
	case KindMBC2:
		return newMBC2(rom, h), nil
	case KindMBC3:
		return newMBC3(rom, h), nil
	case KindMBC5:
		return newMBC5(rom, h), nil
	}
	return nil, ErrUnsupportedCartridge
}

// romBankCount returns the number of 16 KiB banks present in rom; callers
// take a requested bank index modulo this count, matching hardware's
// behavior of mirroring bank-select registers that are wider than the
// physical ROM.
func romBankCount(rom []byte) int {
	return len(rom) / 0x4000
}
