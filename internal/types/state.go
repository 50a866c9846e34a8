// Package types holds small value types and the save-state serialization
// helper shared across every component (cartridge, cpu, mmu, ppu, timer).
package types

import "encoding/binary"

// Stater is implemented by any component that can snapshot and restore its
// internal state. Save-states are distinct from battery-backed cartridge
// RAM: a Stater dump captures the whole machine (registers, VRAM, WRAM,
// OAM, peripheral registers) rather than just the cartridge's external RAM.
type Stater interface {
	Save(s *State)
	Load(s *State)
}

// State is an append-only byte buffer on save, and a cursor-based reader on
// load. Components write/read their fields in a fixed order; the order
// must match between Save and Load.
type State struct {
	buf []byte
	pos int
}

// NewState returns a State ready for writing.
func NewState() *State {
	return &State{buf: make([]byte, 0, 4096)}
}

// NewStateFromBytes returns a State ready for reading back a prior dump.
func NewStateFromBytes(b []byte) *State {
	return &State{buf: b}
}

// Bytes returns the accumulated buffer (valid after a sequence of writes).
func (s *State) Bytes() []byte {
	return s.buf
}

func (s *State) Write8(v uint8) {
	s.buf = append(s.buf, v)
}

func (s *State) Read8() uint8 {
	v := s.buf[s.pos]
	s.pos++
	return v
}

func (s *State) Write16(v uint16) {
	var tmp [2]byte
	binary.LittleEndian.PutUint16(tmp[:], v)
	s.buf = append(s.buf, tmp[:]...)
}

func (s *State) Read16() uint16 {
	v := binary.LittleEndian.Uint16(s.buf[s.pos:])
	s.pos += 2
	return v
}

func (s *State) WriteBool(v bool) {
	if v {
		s.Write8(1)
	} else {
		s.Write8(0)
	}
}

func (s *State) ReadBool() bool {
	return s.Read8() != 0
}

// WriteData writes a length-prefixed byte slice (VRAM banks, WRAM, OAM...).
func (s *State) WriteData(v []byte) {
	s.Write16(uint16(len(v)))
	s.buf = append(s.buf, v...)
}

// ReadData reads back a slice written by WriteData into dst, which must
// already be sized to match (components always restore into pre-allocated
// backing arrays rather than reallocating on load).
func (s *State) ReadData(dst []byte) {
	n := int(s.Read16())
	copy(dst, s.buf[s.pos:s.pos+n])
	s.pos += n
}
