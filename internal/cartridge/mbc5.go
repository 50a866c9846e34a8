package cartridge

import "github.com/brackenmoor/gbcore/internal/types"

// mbc5 implements cartridgeType 0x19-0x1E: a full 9-bit ROM bank (bank 0
// is selectable, unlike MBC1/3) split across two write windows, and a
// 4-bit RAM bank whose bit 3 drives the rumble motor on cartridges that
// have one.
type mbc5 struct {
	rom []byte
	ram []byte

	romBank   uint16 // 9 bits
	ramBank   uint8  // 4 bits
	ramEnable bool
	hasRumble bool

	dirty         bool
	rumbleEngaged bool
}

func newMBC5(rom []byte, h Header) *mbc5 {
	return &mbc5{rom: rom, ram: make([]byte, h.RAMSize), romBank: 1, hasRumble: h.HasRumble}
}

func (m *mbc5) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.rom[address]
	case address < 0x8000:
		bank := int(m.romBank) % romBankCount(m.rom)
		return m.rom[bank*0x4000+int(address-0x4000)]
	default: // 0xA000-0xBFFF
		if !m.ramEnable || len(m.ram) == 0 {
			return 0xFF
		}
		addr := (int(m.ramBank)*0x2000 + int(address-0xA000)) % len(m.ram)
		return m.ram[addr]
	}
}

func (m *mbc5) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnable = value&0x0F == 0x0A
	case address < 0x3000:
		m.romBank = m.romBank&0x100 | uint16(value)
	case address < 0x4000:
		m.romBank = m.romBank&0x0FF | uint16(value&0x01)<<8
	case address < 0x6000:
		bank := value & 0x0F
		m.ramBank = bank & 0x0F
		if m.hasRumble {
			m.rumbleEngaged = bank&0x08 != 0
			m.ramBank = bank & 0x07
		}
	case address < 0x8000:
		// 0x6000-0x7FFF is unused on MBC5
	default: // 0xA000-0xBFFF
		if !m.ramEnable || len(m.ram) == 0 {
			return
		}
		addr := (int(m.ramBank)*0x2000 + int(address-0xA000)) % len(m.ram)
		m.ram[addr] = value
		m.dirty = true
	}
}

func (m *mbc5) RAM() []byte      { return m.ram }
func (m *mbc5) LoadRAM(d []byte) { copy(m.ram, d) }
func (m *mbc5) Dirty() bool      { return m.dirty }
func (m *mbc5) ClearDirty()      { m.dirty = false }

// Rumbling reports whether the rumble motor is currently engaged. The
// core has no physical motor to drive; this is exposed so a host that
// does (e.g. a gamepad with haptics) can poll it.
func (m *mbc5) Rumbling() bool { return m.rumbleEngaged }

var _ MBC = (*mbc5)(nil)

func (m *mbc5) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnable)
	s.Write16(m.romBank)
	s.Write8(m.ramBank)
	s.WriteBool(m.rumbleEngaged)
}

func (m *mbc5) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramEnable = s.ReadBool()
	m.romBank = s.Read16()
	m.ramBank = s.Read8()
	m.rumbleEngaged = s.ReadBool()
}
