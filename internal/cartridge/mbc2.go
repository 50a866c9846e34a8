package cartridge

import "github.com/brackenmoor/gbcore/internal/types"

// mbc2 implements cartridgeType 0x05/0x06: a 4-bit ROM bank register and
// 512x4-bit built-in RAM. Whether a given write configures RAM-enable or
// the ROM bank depends solely on address bit 8, not on the 0x2000/0x4000
// split used by the other controllers.
type mbc2 struct {
	rom []byte
	ram [512]byte // only the low nibble of each byte is meaningful

	romBank   uint8
	ramEnable bool
	dirty     bool
}

func newMBC2(rom []byte, h Header) *mbc2 {
	return &mbc2{rom: rom, romBank: 1}
}

func (m *mbc2) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.rom[address]
	case address < 0x8000:
		bank := int(m.romBank) % romBankCount(m.rom)
		return m.rom[bank*0x4000+int(address-0x4000)]
	default: // 0xA000-0xBFFF, mirrored across the window
		if !m.ramEnable {
			return 0xFF
		}
		return m.ram[address%0x200] | 0xF0
	}
}

func (m *mbc2) Write(address uint16, value uint8) {
	switch {
	case address < 0x4000:
		if address&0x100 != 0 {
			bank := value & 0x0F
			if bank == 0 {
				bank = 1
			}
			m.romBank = bank
		} else {
			m.ramEnable = value&0x0F == 0x0A
		}
	case address >= 0xA000 && address < 0xC000:
		if !m.ramEnable {
			return
		}
		m.ram[address%0x200] = value & 0x0F
		m.dirty = true
	}
}

func (m *mbc2) RAM() []byte      { return m.ram[:] }
func (m *mbc2) LoadRAM(d []byte) { copy(m.ram[:], d) }
func (m *mbc2) Dirty() bool      { return m.dirty }
func (m *mbc2) ClearDirty()      { m.dirty = false }

var _ MBC = (*mbc2)(nil)

func (m *mbc2) Save(s *types.State) {
	s.WriteData(m.ram[:])
	s.Write8(m.romBank)
	s.WriteBool(m.ramEnable)
}

func (m *mbc2) Load(s *types.State) {
	s.ReadData(m.ram[:])
	m.romBank = s.Read8()
	m.ramEnable = s.ReadBool()
}
