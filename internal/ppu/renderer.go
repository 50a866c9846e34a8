package ppu

import "sort"

// sprite attribute byte bit positions.
const (
	attrPriority = 7
	attrYFlip    = 6
	attrXFlip    = 5
	attrDMGPal   = 4
	attrBank     = 3
	// bits 0-2 select the CGB object palette; used directly as attr&0x07.
)

// bg/window map attribute byte bit positions (CGB VRAM bank 1).
const (
	mapAttrPriority = 7
	mapAttrYFlip    = 6
	mapAttrXFlip    = 5
	mapAttrBank     = 3
	// bits 0-2 select the CGB background palette; used directly as attr&0x07.
)

// renderScanline fills framebuffer row p.ly with background, window and
// sprite pixels. Called once, when Draw mode for the line completes.
func (p *PPU) renderScanline() {
	if int(p.ly) >= ScreenHeight {
		return
	}

	var bgIndex [ScreenWidth]uint8   // raw 2-bit color index, pre-palette
	var bgPriority [ScreenWidth]bool // CGB: true if BG should win over OBJ

	if p.lcdc&(1<<lcdcBGEnable) != 0 || p.isCGB {
		p.renderBackground(&bgIndex, &bgPriority)
	}
	if p.lcdc&(1<<lcdcWindowEnable) != 0 && p.wy <= p.ly && p.wx < 167 {
		p.renderWindow(&bgIndex, &bgPriority)
	}

	var rgba [ScreenWidth][4]byte
	for x := 0; x < ScreenWidth; x++ {
		rgba[x] = p.bgPixelColor(x, bgIndex[x])
	}

	if p.lcdc&(1<<lcdcOBJEnable) != 0 {
		p.renderSprites(&rgba, &bgIndex, &bgPriority)
	}

	base := int(p.ly) * ScreenWidth * 4
	for x := 0; x < ScreenWidth; x++ {
		copy(p.framebuffer[base+x*4:base+x*4+4], rgba[x][:])
	}
}

// bgPixelColor resolves a background/window color index to RGBA, using
// the CGB per-tile palette captured during rendering, or the DMG BGP
// register otherwise.
func (p *PPU) bgPixelColor(x int, index uint8) [4]byte {
	if p.isCGB {
		return cgbPaletteColor(p.bgPalette[:], p.bgPixelMeta[x], index)
	}
	return dmgPaletteColor(p.bgp, index)
}

// renderBackground draws the 160-pixel visible window of the background
// layer for the current scanline, honoring SCX/SCY scrolling and the
// tile-map/tile-data bank selects in LCDC.
func (p *PPU) renderBackground(index *[ScreenWidth]uint8, bgPriority *[ScreenWidth]bool) {
	mapBase := uint16(0x9800)
	if p.lcdc&(1<<lcdcBGTileMap) != 0 {
		mapBase = 0x9C00
	}
	y := uint8(int(p.ly) + int(p.scy))
	tileRow := uint16(y/8) * 32
	for x := 0; x < ScreenWidth; x++ {
		scrolledX := uint8(x + int(p.scx))
		tileCol := uint16(scrolledX / 8)
		mapAddr := mapBase + tileRow + tileCol
		tileIdx := p.vram[0][mapAddr-0x8000]

		var attr uint8
		if p.isCGB {
			attr = p.vram[1][mapAddr-0x8000]
		}
		pal := attr & 0x07
		p.bgPixelMeta[x] = pal

		fineY := y % 8
		if p.isCGB && attr&(1<<mapAttrYFlip) != 0 {
			fineY = 7 - fineY
		}
		fineX := scrolledX % 8
		if p.isCGB && attr&(1<<mapAttrXFlip) != 0 {
			fineX = 7 - fineX
		}

		colorIdx := p.tilePixel(tileIdx, fineX, fineY, attr&(1<<mapAttrBank) != 0)
		index[x] = colorIdx
		bgPriority[x] = p.isCGB && attr&(1<<mapAttrPriority) != 0 && p.lcdc&(1<<lcdcBGEnable) != 0
	}
}

// renderWindow overlays the window layer from WX-7 rightward, once WY has
// been reached. Matches background tile-data select but uses its own
// tile-map select (LCDC.6); its row is windowLineFor(LY), i.e. LY - WY.
func (p *PPU) renderWindow(index *[ScreenWidth]uint8, bgPriority *[ScreenWidth]bool) {
	mapBase := uint16(0x9800)
	if p.lcdc&(1<<lcdcWindowTileMap) != 0 {
		mapBase = 0x9C00
	}
	winX := int(p.wx) - 7
	if winX >= ScreenWidth {
		return
	}
	windowLine := p.windowLineFor(p.ly)
	tileRow := uint16(windowLine/8) * 32
	for x := 0; x < ScreenWidth; x++ {
		if x < winX {
			continue
		}
		col := uint16((x - winX) / 8)
		mapAddr := mapBase + tileRow + col
		tileIdx := p.vram[0][mapAddr-0x8000]
		var attr uint8
		if p.isCGB {
			attr = p.vram[1][mapAddr-0x8000]
		}
		pal := attr & 0x07
		p.bgPixelMeta[x] = pal

		fineY := windowLine % 8
		if p.isCGB && attr&(1<<mapAttrYFlip) != 0 {
			fineY = 7 - fineY
		}
		fineX := uint8((x - winX) % 8)
		if p.isCGB && attr&(1<<mapAttrXFlip) != 0 {
			fineX = 7 - fineX
		}

		index[x] = p.tilePixel(tileIdx, fineX, fineY, attr&(1<<mapAttrBank) != 0)
		bgPriority[x] = p.isCGB && attr&(1<<mapAttrPriority) != 0
	}
}

// windowLineFor returns the window row for scanline ly, computed as
// ly - WY (0 above WY). No separate window line counter is kept, so lines
// on which the window was hidden (LCDC.5 clear or WX off-screen) still
// advance the row.
func (p *PPU) windowLineFor(ly uint8) uint8 {
	if ly < p.wy {
		return 0
	}
	return ly - p.wy
}

// tilePixel fetches the 2-bit color index for one pixel of a tile,
// honoring LCDC.4's signed/unsigned tile addressing mode.
func (p *PPU) tilePixel(tileIdx uint8, fineX, fineY uint8, bank bool) uint8 {
	var base uint16
	if p.lcdc&(1<<lcdcTileData) != 0 {
		base = 0x8000 + uint16(tileIdx)*16
	} else {
		base = 0x9000 + uint16(int16(int8(tileIdx)))*16
	}
	rowAddr := base + uint16(fineY)*2
	vramBank := 0
	if bank {
		vramBank = 1
	}
	lo := p.vram[vramBank][rowAddr-0x8000]
	hi := p.vram[vramBank][rowAddr-0x8000+1]
	bit := 7 - fineX
	lowBit := (lo >> bit) & 1
	highBit := (hi >> bit) & 1
	return highBit<<1 | lowBit
}

// spriteEntry is a decoded OAM record, kept only for sprites visible on
// the scanline being rendered.
type spriteEntry struct {
	oamIndex int
	y, x     int
	tile     uint8
	attr     uint8
}

// renderSprites overlays up to 10 OAM entries onto the scanline,
// respecting X/OAM-order priority (DMG) or OAM-order-only priority (CGB),
// height (8x8 or 8x16), flips and the BG-priority attribute bit.
func (p *PPU) renderSprites(rgba *[ScreenWidth][4]byte, bgIndex *[ScreenWidth]uint8, bgPriority *[ScreenWidth]bool) {
	height := 8
	if p.lcdc&(1<<lcdcOBJSize) != 0 {
		height = 16
	}

	var visible []spriteEntry
	for i := 0; i < 40 && len(visible) < 10; i++ {
		base := i * 4
		y := int(p.oam[base]) - 16
		if int(p.ly) < y || int(p.ly) >= y+height {
			continue
		}
		visible = append(visible, spriteEntry{
			oamIndex: i,
			y:        y,
			x:        int(p.oam[base+1]) - 8,
			tile:     p.oam[base+2],
			attr:     p.oam[base+3],
		})
	}

	sort.SliceStable(visible, func(a, b int) bool {
		if p.isCGB {
			return visible[a].oamIndex > visible[b].oamIndex // draw OAM-first-entry last (on top)
		}
		if visible[a].x != visible[b].x {
			return visible[a].x > visible[b].x // draw largest X first so smallest X (highest priority) lands last
		}
		return visible[a].oamIndex > visible[b].oamIndex
	})

	for _, sp := range visible {
		tile := sp.tile
		if height == 16 {
			tile &^= 0x01
		}
		fineY := int(p.ly) - sp.y
		if sp.attr&(1<<attrYFlip) != 0 {
			fineY = height - 1 - fineY
		}
		tileIdx := tile
		row := fineY
		if row >= 8 {
			tileIdx++
			row -= 8
		}
		bank := p.isCGB && sp.attr&(1<<attrBank) != 0
		// Sprites always use unsigned tile indexing from 0x8000, whatever
		// LCDC.4 selects for the background and window.
		vramBank := 0
		if bank {
			vramBank = 1
		}
		rowAddr := uint16(tileIdx)*16 + uint16(row)*2
		lo := p.vram[vramBank][rowAddr]
		hi := p.vram[vramBank][rowAddr+1]

		for col := 0; col < 8; col++ {
			screenX := sp.x + col
			if screenX < 0 || screenX >= ScreenWidth {
				continue
			}
			fineX := uint8(col)
			if sp.attr&(1<<attrXFlip) != 0 {
				fineX = 7 - fineX
			}
			bit := 7 - fineX
			colorIdx := ((hi>>bit)&1)<<1 | (lo>>bit)&1
			if colorIdx == 0 {
				continue // transparent
			}
			if bgPriority[screenX] && bgIndex[screenX] != 0 {
				continue // CGB master priority: BG tile wins
			}
			if sp.attr&(1<<attrPriority) != 0 && bgIndex[screenX] != 0 {
				continue // sprite behind non-zero BG colors
			}
			if p.isCGB {
				rgba[screenX] = cgbPaletteColor(p.objPalette[:], sp.attr&0x07, colorIdx)
			} else {
				palette := p.obp0
				if sp.attr&(1<<attrDMGPal) != 0 {
					palette = p.obp1
				}
				rgba[screenX] = dmgPaletteColor(palette, colorIdx)
			}
		}
	}
}
