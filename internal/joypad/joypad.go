// Package joypad models the Game Boy's button matrix register (FF00).
// Button state itself is injected by the host between steps; this package
// only tracks which half of the matrix the game has selected and raises
// the joypad interrupt on a falling edge.
package joypad

import "github.com/brackenmoor/gbcore/internal/types"

// Button identifies a physical button. The bit positions match hardware:
// the low nibble is the "direction" group, the high nibble the "action"
// group, mirroring the two halves of the P1 register.
type Button = uint8

const (
	ButtonRight  Button = 0x01
	ButtonLeft   Button = 0x02
	ButtonUp     Button = 0x04
	ButtonDown   Button = 0x08
	ButtonA      Button = 0x10
	ButtonB      Button = 0x20
	ButtonSelect Button = 0x40
	ButtonStart  Button = 0x80
)

// State is the joypad register and the set of currently pressed buttons.
type State struct {
	// register is the value last written to FF00; only bits 4-5 (the
	// select lines) are writable by the game.
	register uint8
	// pressed holds the live button mask, set by Press/Release.
	pressed uint8
}

// New returns a joypad with both select lines asserted (bits 4-5 clear,
// so both groups are selected) and every button released.
func New() *State {
	return &State{register: 0x0F}
}

// Read returns the current P1 value: bits 6-7 always read 1, and the
// low nibble reflects whichever group (direction/action) is selected,
// inverted (0 = pressed).
func (s *State) Read() uint8 {
	result := uint8(0xC0) | s.register&0x30
	lines := uint8(0x0F)
	if s.register&0x10 == 0 { // direction group selected
		lines &^= s.pressed & 0x0F
	}
	if s.register&0x20 == 0 { // action group selected
		lines &^= (s.pressed >> 4) & 0x0F
	}
	return result | lines
}

// Write updates the select lines (bits 4-5); the rest of P1 is read-only.
func (s *State) Write(value uint8) {
	s.register = (s.register & 0xCF) | (value & 0x30)
}

// Press marks a button pressed and reports whether a joypad interrupt
// should be requested: hardware fires on the 1->0 transition of a line
// that is currently selected.
func (s *State) Press(button Button) bool {
	wasReleased := s.pressed&button == 0
	s.pressed |= button
	if !wasReleased {
		return false
	}
	if button <= ButtonDown {
		return s.register&0x10 == 0
	}
	return s.register&0x20 == 0
}

// Release marks a button released. Releasing never raises an interrupt.
func (s *State) Release(button Button) {
	s.pressed &^= button
}

var _ types.Stater = (*State)(nil)

func (s *State) Save(st *types.State) {
	st.Write8(s.register)
	st.Write8(s.pressed)
}

func (s *State) Load(st *types.State) {
	s.register = st.Read8()
	s.pressed = st.Read8()
}
