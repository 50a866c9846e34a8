package cartridge

import "github.com/brackenmoor/gbcore/internal/types"

// rtc holds the MBC3 real-time-clock registers. Real elapsed time isn't
// modeled (the core has no wall-clock dependency); the registers simply
// hold whatever was last latched or written, which is sufficient for
// games that only read back a previously-saved clock.
type rtc struct {
	seconds, minutes, hours uint8
	dayLow, dayHigh         uint8
	latched                 bool
	latchSeconds            uint8
	latchMinutes            uint8
	latchHours              uint8
	latchDayLow             uint8
	latchDayHigh            uint8
}

func (r *rtc) latch() {
	r.latchSeconds = r.seconds
	r.latchMinutes = r.minutes
	r.latchHours = r.hours
	r.latchDayLow = r.dayLow
	r.latchDayHigh = r.dayHigh
}

// mbc3 implements cartridgeType 0x0F-0x13: a 7-bit ROM bank (no 0->1
// remap beyond bank 0), a RAM bank register that doubles as an RTC
// register select when its value is 0x08-0x0C, and RTC latching via a
// 0x00->0x01 write sequence to 0x6000-0x7FFF.
type mbc3 struct {
	rom []byte
	ram []byte

	romBank   uint8
	ramBank   uint8 // also selects an RTC register when 0x08-0x0C
	ramEnable bool

	rtc          rtc
	latchPending bool

	dirty bool
}

func newMBC3(rom []byte, h Header) *mbc3 {
	return &mbc3{rom: rom, ram: make([]byte, h.RAMSize), romBank: 1}
}

func (m *mbc3) Read(address uint16) uint8 {
	switch {
	case address < 0x4000:
		return m.rom[address]
	case address < 0x8000:
		bank := int(m.romBank) % romBankCount(m.rom)
		return m.rom[bank*0x4000+int(address-0x4000)]
	default: // 0xA000-0xBFFF
		if !m.ramEnable {
			return 0xFF
		}
		if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			return m.readRTCRegister()
		}
		if len(m.ram) == 0 {
			return 0xFF
		}
		addr := (int(m.ramBank)*0x2000 + int(address-0xA000)) % len(m.ram)
		return m.ram[addr]
	}
}

func (m *mbc3) readRTCRegister() uint8 {
	switch m.ramBank {
	case 0x08:
		return m.rtc.latchSeconds
	case 0x09:
		return m.rtc.latchMinutes
	case 0x0A:
		return m.rtc.latchHours
	case 0x0B:
		return m.rtc.latchDayLow
	case 0x0C:
		return m.rtc.latchDayHigh
	}
	return 0xFF
}

func (m *mbc3) Write(address uint16, value uint8) {
	switch {
	case address < 0x2000:
		m.ramEnable = value&0x0F == 0x0A
	case address < 0x4000:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case address < 0x6000:
		m.ramBank = value
	case address < 0x8000:
		if m.latchPending && value == 0x01 {
			m.rtc.latch()
		}
		m.latchPending = value == 0x00
	default: // 0xA000-0xBFFF
		if !m.ramEnable {
			return
		}
		if m.ramBank >= 0x08 && m.ramBank <= 0x0C {
			m.writeRTCRegister(value)
			m.dirty = true
			return
		}
		if len(m.ram) == 0 {
			return
		}
		addr := (int(m.ramBank)*0x2000 + int(address-0xA000)) % len(m.ram)
		m.ram[addr] = value
		m.dirty = true
	}
}

func (m *mbc3) writeRTCRegister(value uint8) {
	switch m.ramBank {
	case 0x08:
		m.rtc.seconds = value
	case 0x09:
		m.rtc.minutes = value
	case 0x0A:
		m.rtc.hours = value
	case 0x0B:
		m.rtc.dayLow = value
	case 0x0C:
		m.rtc.dayHigh = value & 0xC1 // bit0=day high, bit6=halt, bit7=carry
	}
}

func (m *mbc3) RAM() []byte      { return m.ram }
func (m *mbc3) LoadRAM(d []byte) { copy(m.ram, d) }
func (m *mbc3) Dirty() bool      { return m.dirty }
func (m *mbc3) ClearDirty()      { m.dirty = false }

var _ MBC = (*mbc3)(nil)

func (m *mbc3) Save(s *types.State) {
	s.WriteData(m.ram)
	s.WriteBool(m.ramEnable)
	s.Write8(m.romBank)
	s.Write8(m.ramBank)
	s.Write8(m.rtc.seconds)
	s.Write8(m.rtc.minutes)
	s.Write8(m.rtc.hours)
	s.Write8(m.rtc.dayLow)
	s.Write8(m.rtc.dayHigh)
	s.Write8(m.rtc.latchSeconds)
	s.Write8(m.rtc.latchMinutes)
	s.Write8(m.rtc.latchHours)
	s.Write8(m.rtc.latchDayLow)
	s.Write8(m.rtc.latchDayHigh)
	s.WriteBool(m.latchPending)
}

func (m *mbc3) Load(s *types.State) {
	s.ReadData(m.ram)
	m.ramEnable = s.ReadBool()
	m.romBank = s.Read8()
	m.ramBank = s.Read8()
	m.rtc.seconds = s.Read8()
	m.rtc.minutes = s.Read8()
	m.rtc.hours = s.Read8()
	m.rtc.dayLow = s.Read8()
	m.rtc.dayHigh = s.Read8()
	m.rtc.latchSeconds = s.Read8()
	m.rtc.latchMinutes = s.Read8()
	m.rtc.latchHours = s.Read8()
	m.rtc.latchDayLow = s.Read8()
	m.rtc.latchDayHigh = s.Read8()
	m.latchPending = s.ReadBool()
}
