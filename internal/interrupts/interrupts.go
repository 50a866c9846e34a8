// Package interrupts implements the Game Boy's interrupt controller: the
// IF/IE registers and the IME flag, and the priority arbitration between
// the five interrupt sources.
package interrupts

import "github.com/brackenmoor/gbcore/internal/types"

// Address is the vector jumped to when an interrupt is serviced.
type Address = uint16

const (
	VBlank Address = 0x0040
	LCD    Address = 0x0048
	Timer  Address = 0x0050
	Serial Address = 0x0058
	Joypad Address = 0x0060
)

// Flag identifies one of the five interrupt sources by bit position.
type Flag = uint8

const (
	VBlankFlag Flag = 0
	LCDFlag    Flag = 1
	TimerFlag  Flag = 2
	SerialFlag Flag = 3
	JoypadFlag Flag = 4
)

// vectors maps a Flag to its service Address, in priority order (index 0
// is highest priority).
var vectors = [5]Address{VBlank, LCD, Timer, Serial, Joypad}

const (
	// FlagRegister is IF (0xFF0F). Bits 5-7 always read back as 1.
	FlagRegister uint16 = 0xFF0F
	// EnableRegister is IE (0xFFFF).
	EnableRegister uint16 = 0xFFFF
)

// Service holds IF, IE and IME, and arbitrates which pending interrupt (if
// any) should be serviced next.
type Service struct {
	Flag   uint8
	Enable uint8
	IME    bool
}

// NewService returns an interrupt controller with IF/IE/IME all clear.
func NewService() *Service {
	return &Service{}
}

// Request sets the IF bit for the given source.
func (s *Service) Request(flag Flag) {
	s.Flag |= 1 << flag
}

// Clear clears the IF bit for the given source.
func (s *Service) Clear(flag Flag) {
	s.Flag &^= 1 << flag
}

// Pending reports whether any enabled interrupt is currently requested,
// independent of IME. The CPU uses this to wake from HALT even when IME
// is clear.
func (s *Service) Pending() bool {
	return s.Flag&s.Enable&0x1F != 0
}

// Serviceable reports whether the CPU should enter the interrupt service
// sequence on this step: IME set and at least one enabled source pending.
func (s *Service) Serviceable() bool {
	return s.IME && s.Pending()
}

// Next returns the highest-priority pending, enabled interrupt's flag and
// vector, and whether one exists.
func (s *Service) Next() (Flag, Address, bool) {
	pending := s.Flag & s.Enable & 0x1F
	for flag := Flag(0); flag < 5; flag++ {
		if pending&(1<<flag) != 0 {
			return flag, vectors[flag], true
		}
	}
	return 0, 0, false
}

// Read implements MMU register dispatch for FF0F/FFFF.
func (s *Service) Read(address uint16) uint8 {
	switch address {
	case FlagRegister:
		return s.Flag&0x1F | 0xE0
	case EnableRegister:
		return s.Enable
	}
	return 0xFF
}

// Write implements MMU register dispatch for FF0F/FFFF.
func (s *Service) Write(address uint16, value uint8) {
	switch address {
	case FlagRegister:
		s.Flag = value & 0x1F
	case EnableRegister:
		s.Enable = value
	}
}

var _ types.Stater = (*Service)(nil)

func (s *Service) Save(st *types.State) {
	st.Write8(s.Flag)
	st.Write8(s.Enable)
	st.WriteBool(s.IME)
}

func (s *Service) Load(st *types.State) {
	s.Flag = st.Read8()
	s.Enable = st.Read8()
	s.IME = st.ReadBool()
}
