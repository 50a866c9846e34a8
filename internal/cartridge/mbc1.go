package cartridge

import "github.com/brackenmoor/gbcore/internal/types"

// mbc1 implements cartridgeType 0x01-0x03: up to 2 MiB ROM across a 5-bit
// low bank register and a 2-bit register that doubles as either ROM bank
// bits 5-6 or the RAM bank, selected by the mode flag (spec 4.1).
type mbc1 struct {
	rom []byte
	ram []byte

	ramEnable bool
	bank1     uint8 // low 5 bits of the ROM bank, 0x2000-0x3FFF
	bank2     uint8 // 2-bit upper register, 0x4000-0x5FFF
	ramMode   bool  // mode select, 0x6000-0x7FFF: false=ROM banking, true=RAM banking

	dirty bool
}

func newMBC1(rom []byte, h Header) *mbc1 {
	return &mbc1{rom: rom, ram: make([]byte, h.RAMSize), bank1: 1}
}

func (m *mbc1) zeroBank() uint8 {
	if !m.ramMode {
		return 0
	}
	return m.bank2 << 5
}

func (m *mbc1) highBank() uint8 {
	bank := m.bank1 | m.bank2<<5
	return bank % uint8(romBankCount(m.rom))
}

func (m *mbc1) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		bank := int(m.zeroBank()) % romBankCount(m.rom)
		return m.rom[bank*0x4000+int(address)]
	case address < 0x8000:
		bank := int(m.highBank())
		return m.rom[bank*0x4000+int(address-0x4000)]
	default: // 0xA000-0xBFFF
		if !m.ramEnable || len(m.ram) == 0 {
			return 0xFF
		}
		return m.ram[m.ramAddr(address)]
	}
}

func (m *mbc1) ramAddr(address uint16) int {
	bank := 0
	if m.ramMode {
		bank = int(m.bank2)
	}
	addr := bank*0x2000 + int(address-0xA000)
	return addr % len(m.ram)
}

func (m *mbc1) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnable = value&0x0F == 0x0A
	case address < 0x4000:
		value &= 0x1F
		if value == 0 {
			// hardware bumps a zero low-bank register to 1; combined with
			// bank2 this is what makes requested banks 0x20/0x40/0x60
			// actually select 0x21/0x41/0x61 (spec 8).
			value = 1
		}
		m.bank1 = value
	case address < 0x6000:
		m.bank2 = value & 0x03
	case address < 0x8000:
		m.ramMode = value&0x01 != 0
	default: // 0xA000-0xBFFF
		if !m.ramEnable || len(m.ram) == 0 {
			return
		}
		m.ram[m.ramAddr(address)] = value
		m.dirty = true
	}
}

func (m *mbc1) RAM() []byte      { return m.ram }
func (m *mbc1) LoadRAM(d []byte) { copy(m.ram, d) }
func (m *mbc1) Dirty() bool      { return m.dirty }
func (m *mbc1) ClearDirty()      { m.dirty = false }

var _ MBC = (*mbc1)(nil)

func (m *mbc1) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnable)
	s.Write8(m.bank1)
	s.Write8(m.bank2)
	s.WriteBool(m.ramMode)
}

func (m *mbc1) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramEnable = s.ReadBool()
	m.bank1 = s.Read8()
	m.bank2 = s.Read8()
	m.ramMode = s.ReadBool()
}
