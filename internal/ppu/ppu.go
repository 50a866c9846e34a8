// Package ppu implements the pixel processing unit: the mode state
// machine driving 144 visible scanlines plus 10 VBlank lines, STAT/LYC
// interrupt generation, and background/window/sprite rendering into a
// 160x144 framebuffer.
package ppu

import (
	"github.com/brackenmoor/gbcore/internal/interrupts"
	"github.com/brackenmoor/gbcore/internal/types"
)

const (
	ScreenWidth  = 160
	ScreenHeight = 144

	dotsPerLine  = 456
	oamScanDots  = 80
	drawDots     = 172 // fixed; real hardware varies 172-289 with sprite/window penalties (spec 4.5)
	totalLines   = 154
	vblankStartY = 144
)

// Mode is one of the four PPU states exposed via STAT bits 0-1.
type Mode uint8

const (
	ModeHBlank Mode = 0
	ModeVBlank Mode = 1
	ModeOAM    Mode = 2
	ModeDraw   Mode = 3
)

// LCDC bit positions.
const (
	lcdcBGEnable       = 0
	lcdcOBJEnable      = 1
	lcdcOBJSize        = 2
	lcdcBGTileMap      = 3
	lcdcTileData       = 4
	lcdcWindowEnable   = 5
	lcdcWindowTileMap  = 6
	lcdcLCDEnable      = 7
)

// STAT bit positions.
const (
	statMode0IntEnable = 3
	statMode1IntEnable = 4
	statMode2IntEnable = 5
	statLYCIntEnable   = 6
)

// PPU holds all LCD registers, VRAM/OAM, and the rendered framebuffer.
type PPU struct {
	lcdc, stat             uint8
	scy, scx               uint8
	ly, lyc                uint8
	bgp, obp0, obp1        uint8
	wy, wx                 uint8

	mode    Mode
	dot     int
	isCGB   bool
	vramBank uint8
	vram    [2][0x2000]byte
	oam     [0xA0]byte

	// CGB palette RAM, indexed via BCPS/OCPS auto-increment registers.
	bgPalette, objPalette [64]byte
	bgPaletteIdx          uint8
	bgPaletteAutoInc      bool
	objPaletteIdx         uint8
	objPaletteAutoInc     bool

	framebuffer [ScreenWidth * ScreenHeight * 4]byte // RGBA
	// bgPixelMeta caches, per x in the scanline currently being rendered,
	// which CGB BG palette the pixel was drawn from (renderer.go).
	bgPixelMeta [ScreenWidth]uint8

	statLine bool // previous STAT-interrupt line level, for edge detection
	irq      *interrupts.Service
}

// New returns a PPU with the LCD off and LY at 0.
func New(irq *interrupts.Service, isCGB bool) *PPU {
	return &PPU{irq: irq, isCGB: isCGB, bgp: 0xFC}
}

func (p *PPU) lcdOn() bool { return p.lcdc&(1<<lcdcLCDEnable) != 0 }

// Tick advances the PPU by the given number of T-cycles, driving the mode
// state machine and firing STAT/VBlank interrupts as described in spec
// 4.5.
func (p *PPU) Tick(cycles uint16) {
	if !p.lcdOn() {
		return
	}
	remaining := int(cycles)
	for remaining > 0 {
		step := remaining
		if step > dotsPerLine-p.dot {
			step = dotsPerLine - p.dot
		}
		p.dot += step
		remaining -= step
		if p.dot >= dotsPerLine {
			p.dot -= dotsPerLine
			p.advanceLine()
		} else {
			p.advanceMode()
		}
	}
}

// advanceMode switches mode within the current line based on dot count,
// entering OAM->Draw->HBlank and firing entry interrupts.
func (p *PPU) advanceMode() {
	if p.ly >= vblankStartY {
		return // mode stays VBlank for the whole line
	}
	var next Mode
	switch {
	case p.dot < oamScanDots:
		next = ModeOAM
	case p.dot < oamScanDots+drawDots:
		next = ModeDraw
	default:
		next = ModeHBlank
	}
	if next == p.mode {
		return
	}
	if p.mode == ModeDraw && next == ModeHBlank {
		p.renderScanline()
	}
	p.mode = next
	p.updateStatLine()
}

// advanceLine is called when dot wraps past 456: LY increments (wrapping
// 153->0), and the mode is reset to the start-of-line state.
func (p *PPU) advanceLine() {
	if p.mode == ModeDraw {
		p.renderScanline()
	}
	p.ly++
	if p.ly >= totalLines {
		p.ly = 0
	}
	switch {
	case p.ly == vblankStartY:
		p.mode = ModeVBlank
		p.irq.Request(interrupts.VBlankFlag)
	case p.ly < vblankStartY:
		p.mode = ModeOAM
	}
	p.updateStatLine()
}

// updateStatLine recomputes the STAT interrupt line and requests an
// interrupt on a 0->1 transition (the real hardware ORs several
// conditions onto one line and is edge-triggered, which is why a
// condition that stays true doesn't keep re-firing).
func (p *PPU) updateStatLine() {
	lycMatch := p.ly == p.lyc
	line := false
	if lycMatch && p.stat&(1<<statLYCIntEnable) != 0 {
		line = true
	}
	switch p.mode {
	case ModeHBlank:
		line = line || p.stat&(1<<statMode0IntEnable) != 0
	case ModeVBlank:
		line = line || p.stat&(1<<statMode1IntEnable) != 0
	case ModeOAM:
		line = line || p.stat&(1<<statMode2IntEnable) != 0
	}
	if line && !p.statLine {
		p.irq.Request(interrupts.LCDFlag)
	}
	p.statLine = line
}

// Framebuffer returns the most recently rendered frame as packed RGBA.
func (p *PPU) Framebuffer() []byte {
	return p.framebuffer[:]
}

// Read implements MMU dispatch for VRAM (0x8000-9FFF), OAM (FE00-FE9F)
// and the PPU's I/O registers (FF40-FF4B, FF4F, FF68-FF6B).
func (p *PPU) Read(address uint16) uint8 {
	switch {
	case address >= 0x8000 && address < 0xA000:
		return p.vram[p.vramBank][address-0x8000]
	case address >= 0xFE00 && address < 0xFEA0:
		return p.oam[address-0xFE00]
	}
	switch address {
	case 0xFF40:
		return p.lcdc
	case 0xFF41:
		v := p.stat | 0x80
		if p.ly == p.lyc {
			v |= 0x04
		}
		return v | uint8(p.mode)
	case 0xFF42:
		return p.scy
	case 0xFF43:
		return p.scx
	case 0xFF44:
		return p.ly
	case 0xFF45:
		return p.lyc
	case 0xFF47:
		return p.bgp
	case 0xFF48:
		return p.obp0
	case 0xFF49:
		return p.obp1
	case 0xFF4A:
		return p.wy
	case 0xFF4B:
		return p.wx
	case 0xFF4F:
		return p.vramBank | 0xFE
	case 0xFF68:
		v := p.bgPaletteIdx
		if p.bgPaletteAutoInc {
			v |= 0x80
		}
		return v
	case 0xFF69:
		return p.bgPalette[p.bgPaletteIdx]
	case 0xFF6A:
		v := p.objPaletteIdx
		if p.objPaletteAutoInc {
			v |= 0x80
		}
		return v
	case 0xFF6B:
		return p.objPalette[p.objPaletteIdx]
	}
	return 0xFF
}

// Write implements MMU dispatch for the same ranges as Read.
func (p *PPU) Write(address uint16, value uint8) {
	switch {
	case address >= 0x8000 && address < 0xA000:
		p.vram[p.vramBank][address-0x8000] = value
		return
	case address >= 0xFE00 && address < 0xFEA0:
		p.oam[address-0xFE00] = value
		return
	}
	switch address {
	case 0xFF40:
		wasOn := p.lcdOn()
		p.lcdc = value
		if wasOn && !p.lcdOn() {
			p.ly = 0
			p.dot = 0
			p.mode = ModeHBlank
			p.statLine = false
		}
		if !wasOn && p.lcdOn() {
			p.mode = ModeOAM // line 0 restarts at dot 0, inside the OAM scan window
		}
	case 0xFF41:
		p.stat = value & 0x78
		p.updateStatLine()
	case 0xFF42:
		p.scy = value
	case 0xFF43:
		p.scx = value
	case 0xFF44:
		// LY is read-only on real hardware
	case 0xFF45:
		p.lyc = value
		p.updateStatLine()
	case 0xFF47:
		p.bgp = value
	case 0xFF48:
		p.obp0 = value
	case 0xFF49:
		p.obp1 = value
	case 0xFF4A:
		p.wy = value
	case 0xFF4B:
		p.wx = value
	case 0xFF4F:
		if p.isCGB {
			p.vramBank = value & 0x01
		}
	case 0xFF68:
		p.bgPaletteIdx = value & 0x3F
		p.bgPaletteAutoInc = value&0x80 != 0
	case 0xFF69:
		p.bgPalette[p.bgPaletteIdx] = value
		if p.bgPaletteAutoInc {
			p.bgPaletteIdx = (p.bgPaletteIdx + 1) & 0x3F
		}
	case 0xFF6A:
		p.objPaletteIdx = value & 0x3F
		p.objPaletteAutoInc = value&0x80 != 0
	case 0xFF6B:
		p.objPalette[p.objPaletteIdx] = value
		if p.objPaletteAutoInc {
			p.objPaletteIdx = (p.objPaletteIdx + 1) & 0x3F
		}
	}
}

// Mode reports the current PPU mode, for tests and debug tooling.
func (p *PPU) Mode() Mode { return p.mode }

// LY reports the current scanline.
func (p *PPU) LY() uint8 { return p.ly }

var _ types.Stater = (*PPU)(nil)

func (p *PPU) Save(s *types.State) {
	s.Write8(p.lcdc)
	s.Write8(p.stat)
	s.Write8(p.scy)
	s.Write8(p.scx)
	s.Write8(p.ly)
	s.Write8(p.lyc)
	s.Write8(p.bgp)
	s.Write8(p.obp0)
	s.Write8(p.obp1)
	s.Write8(p.wy)
	s.Write8(p.wx)
	s.Write8(uint8(p.mode))
	s.Write16(uint16(p.dot))
	s.Write8(p.vramBank)
	s.WriteData(p.vram[0][:])
	s.WriteData(p.vram[1][:])
	s.WriteData(p.oam[:])
	s.WriteData(p.bgPalette[:])
	s.WriteData(p.objPalette[:])
	s.Write8(p.bgPaletteIdx)
	s.WriteBool(p.bgPaletteAutoInc)
	s.Write8(p.objPaletteIdx)
	s.WriteBool(p.objPaletteAutoInc)
	s.WriteBool(p.statLine)
}

func (p *PPU) Load(s *types.State) {
	p.lcdc = s.Read8()
	p.stat = s.Read8()
	p.scy = s.Read8()
	p.scx = s.Read8()
	p.ly = s.Read8()
	p.lyc = s.Read8()
	p.bgp = s.Read8()
	p.obp0 = s.Read8()
	p.obp1 = s.Read8()
	p.wy = s.Read8()
	p.wx = s.Read8()
	p.mode = Mode(s.Read8())
	p.dot = int(s.Read16())
	p.vramBank = s.Read8()
	s.ReadData(p.vram[0][:])
	s.ReadData(p.vram[1][:])
	s.ReadData(p.oam[:])
	s.ReadData(p.bgPalette[:])
	s.ReadData(p.objPalette[:])
	p.bgPaletteIdx = s.Read8()
	p.bgPaletteAutoInc = s.ReadBool()
	p.objPaletteIdx = s.Read8()
	p.objPaletteAutoInc = s.ReadBool()
	p.statLine = s.ReadBool()
}
