package cartridge

import "github.com/brackenmoor/gbcore/internal/types"

// noneMBC is cartridgeType 0x00/0x08/0x09: no bank switching, reads of
// 0x0000-0x7FFF always hit the first two 16 KiB banks of rom directly. If
// the header declares RAM, it's a single flat 8 KiB (at most) buffer with
// no enable gate.
type noneMBC struct {
	rom   []byte
	ram   []byte
	dirty bool
}

func newNoneMBC(rom []byte, h Header) *noneMBC {
	return &noneMBC{rom: rom, ram: make([]byte, h.RAMSize)}
}

func (m *noneMBC) Read(address uint16) uint8 {
	switch {
	case address < 0x8000:
		return m.rom[address]
	case len(m.ram) == 0:
		return 0xFF
	default:
		addr := int(address - 0xA000)
		if addr >= len(m.ram) {
			return 0xFF
		}
		return m.ram[addr]
	}
}

func (m *noneMBC) Write(address uint16, value uint8) {
	if address < 0x8000 || len(m.ram) == 0 {
		return
	}
	addr := int(address - 0xA000)
	if addr >= len(m.ram) {
		return
	}
	m.ram[addr] = value
	m.dirty = true
}

func (m *noneMBC) RAM() []byte       { return m.ram }
func (m *noneMBC) LoadRAM(d []byte)  { copy(m.ram, d) }
func (m *noneMBC) Dirty() bool       { return m.dirty }
func (m *noneMBC) ClearDirty()       { m.dirty = false }

var _ MBC = (*noneMBC)(nil)

func (m *noneMBC) Save(s *types.State) {
	s.WriteData(m.ram)
}

func (m *noneMBC) Load(s *types.State) {
	s.ReadData(m.ram)
}
