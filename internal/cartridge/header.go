package cartridge

import (
	"errors"
	"strings"
)

// ErrInvalidRomSize reports a ROM image that is not a multiple of 16 KiB,
// or shorter than the minimum 32 KiB a cartridge can be.
var ErrInvalidRomSize = errors.New("cartridge: rom length must be a multiple of 16384 bytes, minimum 32768")

// ErrUnsupportedCartridge reports a cartridgeType byte the MBC factory
// doesn't recognize.
var ErrUnsupportedCartridge = errors.New("cartridge: unsupported cartridge type")

// GBMode classifies how a cartridge declares CGB support. Hardware only
// treats 0x80/0xC0 at 0x0143 as CGB-aware; a looser "any non-zero byte"
// rule appears in some emulators but is rejected here per the spec's
// recommended resolution to the header Open Question (see DESIGN.md).
type GBMode uint8

const (
	ModeDMGOnly GBMode = iota
	ModeSupportsCGB
	ModeCGBOnly
)

// Type enumerates the cartridgeType byte at 0x0147, collapsed to the MBC
// kind plus feature flags the rest of the package cares about.
type Type uint8

const (
	TypeROM               Type = 0x00
	TypeMBC1              Type = 0x01
	TypeMBC1RAM           Type = 0x02
	TypeMBC1RAMBattery    Type = 0x03
	TypeMBC2              Type = 0x05
	TypeMBC2Battery       Type = 0x06
	TypeROMRAM            Type = 0x08
	TypeROMRAMBattery     Type = 0x09
	TypeMBC3TimerBattery  Type = 0x0F
	TypeMBC3TimerRAMBatt  Type = 0x10
	TypeMBC3              Type = 0x11
	TypeMBC3RAM           Type = 0x12
	TypeMBC3RAMBattery    Type = 0x13
	TypeMBC5              Type = 0x19
	TypeMBC5RAM           Type = 0x1A
	TypeMBC5RAMBattery    Type = 0x1B
	TypeMBC5Rumble        Type = 0x1C
	TypeMBC5RumbleRAM     Type = 0x1D
	TypeMBC5RumbleRAMBatt Type = 0x1E
)

// Kind is the MBC family a Type maps to.
type Kind uint8

const (
	KindNone Kind = iota
	KindMBC1
	KindMBC2
	KindMBC3
	KindMBC5
)

// features describes the hardware a cartridgeType implies beyond bank
// switching, per spec 4.1.
type features struct {
	kind    Kind
	ram     bool
	battery bool
	rtc     bool
	rumble  bool
}

// typeTable maps every recognized cartridgeType byte to its features.
// Per the spec's Open Question resolution: 0x08 is ROM+RAM (no battery)
// and 0x09 is ROM+RAM+BATTERY; the source's duplicate, unreachable 0x08
// battery branch is not reproduced.
var typeTable = map[Type]features{
	TypeROM:               {kind: KindNone},
	TypeMBC1:              {kind: KindMBC1},
	TypeMBC1RAM:           {kind: KindMBC1, ram: true},
	TypeMBC1RAMBattery:    {kind: KindMBC1, ram: true, battery: true},
	TypeMBC2:              {kind: KindMBC2},
	TypeMBC2Battery:       {kind: KindMBC2, battery: true},
	TypeROMRAM:            {kind: KindNone, ram: true},
	TypeROMRAMBattery:     {kind: KindNone, ram: true, battery: true},
	TypeMBC3TimerBattery:  {kind: KindMBC3, battery: true, rtc: true},
	TypeMBC3TimerRAMBatt:  {kind: KindMBC3, ram: true, battery: true, rtc: true},
	TypeMBC3:              {kind: KindMBC3},
	TypeMBC3RAM:           {kind: KindMBC3, ram: true},
	TypeMBC3RAMBattery:    {kind: KindMBC3, ram: true, battery: true},
	TypeMBC5:              {kind: KindMBC5},
	TypeMBC5RAM:           {kind: KindMBC5, ram: true},
	TypeMBC5RAMBattery:    {kind: KindMBC5, ram: true, battery: true},
	TypeMBC5Rumble:        {kind: KindMBC5, rumble: true},
	TypeMBC5RumbleRAM:     {kind: KindMBC5, ram: true, rumble: true},
	TypeMBC5RumbleRAMBatt: {kind: KindMBC5, ram: true, battery: true, rumble: true},
}

// ramSizeTable maps the RAM-size header code to a byte count.
var ramSizeTable = map[uint8]int{
	0x00: 0,
	0x01: 2 * 1024,
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

// romBankOverride covers the three ROM-size codes whose bank count isn't
// 32 KiB << code.
var romBankOverride = map[uint8]int{
	0x52: 72,
	0x53: 80,
	0x54: 96,
}

// Header is the parsed cartridge header, read from the fixed offsets at
// 0x0134-0x014F.
type Header struct {
	Title           string
	GBMode          GBMode
	SGB             bool
	Type            Type
	Kind            Kind
	HasRAM          bool
	HasBattery      bool
	HasRTC          bool
	HasRumble       bool
	ROMBanks        int
	RAMSize         int
	HeaderChecksum  uint8
	GlobalChecksum  uint16
}

// ParseHeader reads the header out of a full ROM image and validates its
// length against the header-declared ROM size.
func ParseHeader(rom []byte) (Header, error) {
	if len(rom) < 32*1024 || len(rom)%16384 != 0 {
		return Header{}, ErrInvalidRomSize
	}

	h := Header{}
	switch rom[0x0143] {
	case 0x80:
		h.GBMode = ModeSupportsCGB
	case 0xC0:
		h.GBMode = ModeCGBOnly
	default:
		h.GBMode = ModeDMGOnly
	}

	titleEnd := 0x0144
	if h.GBMode != ModeDMGOnly {
		titleEnd = 0x0143
	}
	h.Title = strings.TrimRight(string(rom[0x0134:titleEnd]), "\x00")

	h.SGB = rom[0x0146] == 0x03
	h.Type = Type(rom[0x0147])

	feat, ok := typeTable[h.Type]
	if !ok {
		return Header{}, ErrUnsupportedCartridge
	}
	h.Kind = feat.kind
	h.HasRAM = feat.ram
	h.HasBattery = feat.battery
	h.HasRTC = feat.rtc
	h.HasRumble = feat.rumble

	romCode := rom[0x0148]
	if override, ok := romBankOverride[romCode]; ok {
		h.ROMBanks = override
	} else {
		h.ROMBanks = 2 << romCode
	}
	if h.ROMBanks*16384 != len(rom) {
		return Header{}, ErrUnsupportedCartridge
	}

	h.RAMSize = ramSizeTable[rom[0x0149]]
	h.HeaderChecksum = rom[0x014D]
	h.GlobalChecksum = uint16(rom[0x014E])<<8 | uint16(rom[0x014F])

	return h, nil
}

// CGBAware reports whether the cartridge declares any Color support.
func (h Header) CGBAware() bool {
	return h.GBMode != ModeDMGOnly
}
