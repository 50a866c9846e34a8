// Package mmu implements the single address-space router: one read/write
// pair dispatching across ROM, VRAM, WRAM, OAM, I/O, HRAM and the
// cartridge, per the region table in spec 3.
package mmu

import (
	"github.com/brackenmoor/gbcore/internal/apu"
	"github.com/brackenmoor/gbcore/internal/cartridge"
	"github.com/brackenmoor/gbcore/internal/interrupts"
	"github.com/brackenmoor/gbcore/internal/joypad"
	"github.com/brackenmoor/gbcore/internal/ppu"
	"github.com/brackenmoor/gbcore/internal/ram"
	"github.com/brackenmoor/gbcore/internal/serial"
	"github.com/brackenmoor/gbcore/internal/timer"
	"github.com/brackenmoor/gbcore/internal/types"
)

// MMU owns every memory region that isn't the cartridge's own bank-switched
// space, and routes everything else (CPU fetches/accesses, OAM DMA, HDMA)
// to the right peripheral.
type MMU struct {
	Cart    *cartridge.Cartridge
	PPU     *ppu.PPU
	APU     *apu.APU
	Timer   *timer.Controller
	Serial  *serial.Controller
	Joypad  *joypad.State
	IRQ     *interrupts.Service

	isCGB bool

	// wram holds all 8 CGB work-RAM banks; DMG uses only banks 0-1.
	wram     [8]*ram.RAM
	wramBank uint8 // FF70 selection, 1-7 (writing 0 selects bank 1)
	hram     *ram.RAM

	bootDisabled uint8 // FF50 bit 0; this core has no boot ROM, so it is only a write-once latch that reads back

	// CGB double-speed state (FF4D).
	doubleSpeed    bool
	speedSwitchSet bool

	hdma hdmaState
}

// New returns an MMU with all peripherals wired in and WRAM/HRAM zeroed.
func New(cart *cartridge.Cartridge, p *ppu.PPU, a *apu.APU, t *timer.Controller, s *serial.Controller, j *joypad.State, irq *interrupts.Service, isCGB bool) *MMU {
	m := &MMU{
		Cart: cart, PPU: p, APU: a, Timer: t, Serial: s, Joypad: j, IRQ: irq,
		isCGB:    isCGB,
		wramBank: 1,
		hram:     ram.New(0x7F),
	}
	for i := range m.wram {
		m.wram[i] = ram.New(0x1000)
	}
	return m
}

// DoubleSpeed reports whether the CPU clock is currently running at 2x,
// for the frame driver's T-cycle budget (spec 4.7).
func (m *MMU) DoubleSpeed() bool { return m.doubleSpeed }

func (m *MMU) wramBankIndex() uint8 {
	b := m.wramBank & 0x07
	if b == 0 {
		b = 1
	}
	return b
}

// Read implements the region dispatch table from spec 3.
func (m *MMU) Read(address uint16) uint8 {
	switch {
	case address < 0x8000:
		return m.Cart.Read(address)
	case address < 0xA000:
		return m.PPU.Read(address)
	case address < 0xC000:
		return m.Cart.Read(address)
	case address < 0xD000:
		return m.wram[0].Read(address - 0xC000)
	case address < 0xE000:
		return m.wram[m.wramBankIndex()].Read(address - 0xD000)
	case address < 0xFE00:
		return m.Read(address - 0x2000) // echo RAM mirrors C000-DDFF
	case address < 0xFEA0:
		return m.PPU.Read(address)
	case address < 0xFF00:
		return 0xFF // unusable
	case address < 0xFF80:
		return m.readIO(address)
	case address < 0xFFFF:
		return m.hram.Read(address - 0xFF80)
	default:
		return m.IRQ.Read(address) // 0xFFFF
	}
}

// Write implements the region dispatch table from spec 3.
func (m *MMU) Write(address uint16, value uint8) {
	switch {
	case address < 0x8000:
		m.Cart.Write(address, value)
	case address < 0xA000:
		m.PPU.Write(address, value)
	case address < 0xC000:
		m.Cart.Write(address, value)
	case address < 0xD000:
		m.wram[0].Write(address-0xC000, value)
	case address < 0xE000:
		m.wram[m.wramBankIndex()].Write(address-0xD000, value)
	case address < 0xFE00:
		m.Write(address-0x2000, value) // echo RAM mirrors C000-DDFF
	case address < 0xFEA0:
		m.PPU.Write(address, value)
	case address < 0xFF00:
		// unusable, writes discarded
	case address < 0xFF80:
		m.writeIO(address, value)
	case address < 0xFFFF:
		m.hram.Write(address-0xFF80, value)
	default:
		m.IRQ.Write(address, value) // 0xFFFF
	}
}

// readIO subdispatches the I/O register page per spec 3's table.
func (m *MMU) readIO(address uint16) uint8 {
	switch {
	case address == 0xFF00:
		return m.Joypad.Read()
	case address == 0xFF01 || address == 0xFF02:
		return m.Serial.Read(address)
	case address >= 0xFF04 && address <= 0xFF07:
		return m.Timer.Read(address)
	case address == 0xFF0F:
		return m.IRQ.Read(address)
	case address >= 0xFF10 && address <= 0xFF3F:
		return m.APU.Read(address)
	case address >= 0xFF40 && address <= 0xFF4B:
		return m.PPU.Read(address)
	case address == 0xFF4D:
		return m.readSpeedSwitch()
	case address == 0xFF4F:
		return m.PPU.Read(address)
	case address == 0xFF50:
		return m.bootDisabled | 0xFE
	case address >= 0xFF51 && address <= 0xFF55:
		return m.readHDMA(address)
	case address >= 0xFF68 && address <= 0xFF6B:
		return m.PPU.Read(address)
	case address == 0xFF70:
		return m.wramBank | 0xF8
	}
	return 0xFF
}

func (m *MMU) writeIO(address uint16, value uint8) {
	switch {
	case address == 0xFF00:
		m.Joypad.Write(value)
	case address == 0xFF01 || address == 0xFF02:
		m.Serial.Write(address, value)
	case address >= 0xFF04 && address <= 0xFF07:
		m.Timer.Write(address, value)
	case address == 0xFF0F:
		m.IRQ.Write(address, value)
	case address == 0xFF46:
		m.oamDMA(value)
	case address >= 0xFF10 && address <= 0xFF3F:
		m.APU.Write(address, value)
	case address >= 0xFF40 && address <= 0xFF4B:
		m.PPU.Write(address, value)
	case address == 0xFF4D:
		m.writeSpeedSwitch(value)
	case address == 0xFF4F:
		m.PPU.Write(address, value)
	case address == 0xFF50:
		m.bootDisabled |= value & 0x01
	case address >= 0xFF51 && address <= 0xFF55:
		m.writeHDMA(address, value)
	case address >= 0xFF68 && address <= 0xFF6B:
		m.PPU.Write(address, value)
	case address == 0xFF70:
		if m.isCGB {
			m.wramBank = value & 0x07
		}
	}
}

// oamDMA copies 160 bytes from source*0x100 into OAM. Real hardware takes
// 160 M-cycles and locks out most bus access during the transfer; this
// core performs it instantaneously, which is observably equivalent for
// any ROM that (as documented practice requires) waits for the transfer
// before touching OAM again.
func (m *MMU) oamDMA(source uint8) {
	base := uint16(source) << 8
	for i := uint16(0); i < 0xA0; i++ {
		m.PPU.Write(0xFE00+i, m.Read(base+i))
	}
}

// readSpeedSwitch implements FF4D (CGB only): bit 7 reflects the current
// speed, bit 0 the pending-switch request armed by writing to it.
func (m *MMU) readSpeedSwitch() uint8 {
	if !m.isCGB {
		return 0xFF
	}
	v := uint8(0x7E)
	if m.doubleSpeed {
		v |= 0x80
	}
	if m.speedSwitchSet {
		v |= 0x01
	}
	return v
}

func (m *MMU) writeSpeedSwitch(value uint8) {
	if !m.isCGB {
		return
	}
	m.speedSwitchSet = value&0x01 != 0
}

// ApplySpeedSwitch is invoked by the frame driver when STOP is executed
// with a pending speed-switch request armed: it flips doubleSpeed and
// clears the request, per the CGB STOP-triggered handoff.
func (m *MMU) ApplySpeedSwitch() {
	if !m.speedSwitchSet {
		return
	}
	m.doubleSpeed = !m.doubleSpeed
	m.speedSwitchSet = false
}

var _ types.Stater = (*MMU)(nil)

func (m *MMU) Save(s *types.State) {
	for i := range m.wram {
		m.wram[i].Save(s)
	}
	s.Write8(m.wramBank)
	m.hram.Save(s)
	s.Write8(m.bootDisabled)
	s.WriteBool(m.doubleSpeed)
	s.WriteBool(m.speedSwitchSet)
	m.hdma.Save(s)
}

func (m *MMU) Load(s *types.State) {
	for i := range m.wram {
		m.wram[i].Load(s)
	}
	m.wramBank = s.Read8()
	m.hram.Load(s)
	m.bootDisabled = s.Read8()
	m.doubleSpeed = s.ReadBool()
	m.speedSwitchSet = s.ReadBool()
	m.hdma.Load(s)
}
