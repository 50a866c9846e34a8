package mmu

import (
	"github.com/brackenmoor/gbcore/internal/ppu"
	"github.com/brackenmoor/gbcore/internal/types"
)

// hdmaState implements the CGB VRAM DMA controller (FF51-FF55): either an
// immediate "general purpose" copy of up to 0x800 bytes, or an "HBlank"
// copy that moves one 16-byte block per HBlank period until the whole
// transfer completes.
type hdmaState struct {
	srcHi, srcLo uint8
	dstHi, dstLo uint8

	active      bool
	hblankMode  bool
	remaining   uint16 // bytes left to copy
	firedThisHB bool   // guards against copying more than once per HBlank
}

func (h *hdmaState) source() uint16 {
	return uint16(h.srcHi)<<8 | uint16(h.srcLo&0xF0)
}

func (h *hdmaState) dest() uint16 {
	return 0x8000 | uint16(h.dstHi&0x1F)<<8 | uint16(h.dstLo&0xF0)
}

func (m *MMU) readHDMA(address uint16) uint8 {
	if address != 0xFF55 {
		return 0xFF // FF51-54 are write-only
	}
	if !m.hdma.active {
		return 0xFF
	}
	return uint8(m.hdma.remaining/0x10 - 1)
}

func (m *MMU) writeHDMA(address uint16, value uint8) {
	switch address {
	case 0xFF51:
		m.hdma.srcHi = value
	case 0xFF52:
		m.hdma.srcLo = value
	case 0xFF53:
		m.hdma.dstHi = value
	case 0xFF54:
		m.hdma.dstLo = value
	case 0xFF55:
		m.startHDMA(value)
	}
}

func (m *MMU) startHDMA(value uint8) {
	if m.hdma.active && m.hdma.hblankMode && value&0x80 == 0 {
		m.hdma.active = false // writing 0 to bit 7 cancels an in-flight HBlank transfer
		return
	}
	m.hdma.remaining = (uint16(value&0x7F) + 1) * 0x10
	m.hdma.hblankMode = value&0x80 != 0
	m.hdma.active = true
	m.hdma.firedThisHB = false

	if !m.hdma.hblankMode {
		m.copyHDMABlock(m.hdma.remaining)
		m.hdma.active = false
		m.hdma.remaining = 0
	}
}

func (m *MMU) copyHDMABlock(n uint16) {
	src, dst := m.hdma.source(), m.hdma.dest()
	for i := uint16(0); i < n; i++ {
		m.PPU.Write(dst+i, m.Read(src+i))
	}
	m.hdma.srcHi, m.hdma.srcLo = uint8((src+n)>>8), uint8(src+n)
	m.hdma.dstHi, m.hdma.dstLo = uint8((dst+n)>>8), uint8(dst+n)
}

// StepHDMA is called once per CPU step by the frame driver; it copies one
// 16-byte block the instant the PPU enters HBlank, if an HBlank-mode
// transfer is in flight.
func (m *MMU) StepHDMA() {
	if !m.hdma.active || !m.hdma.hblankMode {
		return
	}
	if m.PPU.Mode() != ppu.ModeHBlank {
		m.hdma.firedThisHB = false
		return
	}
	if m.hdma.firedThisHB {
		return
	}
	m.hdma.firedThisHB = true

	n := uint16(0x10)
	if n > m.hdma.remaining {
		n = m.hdma.remaining
	}
	m.copyHDMABlock(n)
	m.hdma.remaining -= n
	if m.hdma.remaining == 0 {
		m.hdma.active = false
	}
}

var _ types.Stater = (*hdmaState)(nil)

func (h *hdmaState) Save(s *types.State) {
	s.Write8(h.srcHi)
	s.Write8(h.srcLo)
	s.Write8(h.dstHi)
	s.Write8(h.dstLo)
	s.WriteBool(h.active)
	s.WriteBool(h.hblankMode)
	s.Write16(h.remaining)
	s.WriteBool(h.firedThisHB)
}

func (h *hdmaState) Load(s *types.State) {
	h.srcHi = s.Read8()
	h.srcLo = s.Read8()
	h.dstHi = s.Read8()
	h.dstLo = s.Read8()
	h.active = s.ReadBool()
	h.hblankMode = s.ReadBool()
	h.remaining = s.Read16()
	h.firedThisHB = s.ReadBool()
}
