package ppu

// dmgShades are the four classic green-grey shades assigned to color
// indices 0-3 on a DMG, used whenever the core isn't running in CGB mode.
var dmgShades = [4][4]byte{
	{0xE0, 0xF8, 0xD0, 0xFF},
	{0x88, 0xC0, 0x70, 0xFF},
	{0x34, 0x68, 0x56, 0xFF},
	{0x08, 0x18, 0x20, 0xFF},
}

// dmgPaletteColor resolves a 2-bit color index through a DMG palette
// register (BGP/OBP0/OBP1), each of which maps index->shade in 2-bit
// fields, then to an RGBA shade.
func dmgPaletteColor(register uint8, index uint8) [4]byte {
	shade := (register >> (index * 2)) & 0x03
	return dmgShades[shade]
}

// cgbPaletteColor resolves a 2-bit color index through one of the 8 CGB
// background or object palettes (64 bytes = 8 palettes x 4 colors x
// 2 bytes, RGB555 little-endian) to RGBA.
func cgbPaletteColor(palette []byte, paletteNum, index uint8) [4]byte {
	offset := int(paletteNum)*8 + int(index)*2
	lo := uint16(palette[offset])
	hi := uint16(palette[offset+1])
	raw := lo | hi<<8
	r := uint8(raw&0x1F) << 3
	g := uint8((raw>>5)&0x1F) << 3
	b := uint8((raw>>10)&0x1F) << 3
	return [4]byte{r, g, b, 0xFF}
}
