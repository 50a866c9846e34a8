package ppu

import (
	"testing"

	"github.com/brackenmoor/gbcore/internal/interrupts"
)

func newTestPPU() (*PPU, *interrupts.Service) {
	irq := interrupts.NewService()
	p := New(irq, false)
	p.Write(0xFF40, 1<<lcdcLCDEnable) // turn the LCD on, everything else off
	return p, irq
}

// Entering line 144 must move to VBlank mode and request VBlankFlag exactly
// once (edge-triggered, not level-triggered).
func TestVBlankEntryRequestsInterrupt(t *testing.T) {
	p, irq := newTestPPU()

	for i := 0; i < vblankStartY; i++ {
		p.Tick(dotsPerLine) // advance through all 144 visible lines
	}
	if p.Mode() != ModeVBlank {
		t.Fatalf("mode = %v, want ModeVBlank", p.Mode())
	}
	if p.LY() != vblankStartY {
		t.Fatalf("LY = %d, want %d", p.LY(), vblankStartY)
	}
	if irq.Flag&(1<<interrupts.VBlankFlag) == 0 {
		t.Fatal("VBlank interrupt not requested on VBlank entry")
	}

	irq.Clear(interrupts.VBlankFlag)
	p.Tick(dotsPerLine) // one more full line, still inside VBlank
	if irq.Flag&(1<<interrupts.VBlankFlag) != 0 {
		t.Fatal("VBlank interrupt re-fired while mode stayed VBlank")
	}
}

// LY wraps 153 -> 0 after the full 154-line frame.
func TestLYWrapsAfterFullFrame(t *testing.T) {
	p, _ := newTestPPU()
	for i := 0; i < totalLines; i++ {
		p.Tick(dotsPerLine)
	}
	if p.LY() != 0 {
		t.Fatalf("LY after full frame = %d, want 0", p.LY())
	}
	if p.Mode() != ModeOAM {
		t.Fatalf("mode after wrap = %v, want ModeOAM", p.Mode())
	}
}

// The STAT interrupt line is level-OR'd across LYC and the enabled mode
// bits, and only fires on a 0->1 transition of that combined line.
func TestLYCSTATEdgeTriggered(t *testing.T) {
	p, irq := newTestPPU()
	p.Write(0xFF45, 10)          // LYC = 10
	p.Write(0xFF41, 1<<statLYCIntEnable)

	p.Tick(dotsPerLine * 10) // land exactly on line 10
	if p.LY() != 10 {
		t.Fatalf("LY = %d, want 10", p.LY())
	}
	if irq.Flag&(1<<interrupts.LCDFlag) == 0 {
		t.Fatal("LYC match did not raise the STAT interrupt")
	}

	irq.Clear(interrupts.LCDFlag)
	p.Tick(1) // still on line 10, line stays high, must not re-fire
	if irq.Flag&(1<<interrupts.LCDFlag) != 0 {
		t.Fatal("STAT interrupt re-fired while LYC match stayed true")
	}
}

// Within a visible line, the mode state machine runs OAM -> Draw -> HBlank
// in that order and at the documented dot boundaries.
func TestModeStateMachineOrder(t *testing.T) {
	p, _ := newTestPPU()
	if p.Mode() != ModeOAM {
		t.Fatalf("initial mode = %v, want ModeOAM", p.Mode())
	}
	p.Tick(oamScanDots - 1)
	if p.Mode() != ModeOAM {
		t.Fatalf("mode before OAM scan ends = %v, want ModeOAM", p.Mode())
	}
	p.Tick(1)
	if p.Mode() != ModeDraw {
		t.Fatalf("mode at start of draw window = %v, want ModeDraw", p.Mode())
	}
	p.Tick(drawDots)
	if p.Mode() != ModeHBlank {
		t.Fatalf("mode after draw window = %v, want ModeHBlank", p.Mode())
	}
}

// Disabling the LCD (LCDC.7) resets LY, dot and mode back to the
// start-of-frame state.
func TestLCDDisableResetsState(t *testing.T) {
	p, _ := newTestPPU()
	p.Tick(dotsPerLine*5 + 10)
	p.Write(0xFF40, 0) // turn LCD off
	if p.LY() != 0 || p.Mode() != ModeHBlank {
		t.Fatalf("after LCD disable: LY=%d mode=%v, want LY=0 mode=ModeHBlank", p.LY(), p.Mode())
	}
	for i := 0; i < 1000; i++ {
		p.Tick(dotsPerLine) // must not advance while the LCD is off
	}
	if p.LY() != 0 {
		t.Fatalf("LY advanced to %d while LCD disabled", p.LY())
	}
}

// An opaque sprite pixel must win over a transparent (index 0) background
// pixel: with BG disabled the pixel shows OBP0's shade for color index 1.
func TestSpriteOverBackgroundPriority(t *testing.T) {
	p, _ := newTestPPU()
	p.Write(0xFF40, (1<<lcdcLCDEnable)|(1<<lcdcOBJEnable)) // BG disabled, sprites on
	p.Write(0xFF48, 0xE4)                                  // OBP0 identity palette

	// tile 1, bank 0: every pixel's low bitplane bit set -> color index 1.
	tileAddr := uint16(0x8000) + 16
	for row := 0; row < 8; row++ {
		p.vram[0][tileAddr-0x8000+uint16(row)*2] = 0xFF
		p.vram[0][tileAddr-0x8000+uint16(row)*2+1] = 0x00
	}

	// OAM entry 0: Y=16 (screen row 0), X=8 (screen col 0), tile 1, no flags.
	p.oam[0] = 16
	p.oam[1] = 8
	p.oam[2] = 1
	p.oam[3] = 0

	p.renderScanline()

	fb := p.Framebuffer()
	r, g, b, a := fb[0], fb[1], fb[2], fb[3]
	want := dmgPaletteColor(0xE4, 1)
	if r != want[0] || g != want[1] || b != want[2] || a != want[3] {
		t.Fatal("sprite pixel did not render over transparent background")
	}
}
