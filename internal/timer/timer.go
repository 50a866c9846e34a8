// Package timer implements DIV/TIMA/TMA/TAC: the free-running 16-bit
// divider and the configurable TIMA counter that raises the Timer
// interrupt on overflow.
package timer

import (
	"github.com/brackenmoor/gbcore/internal/interrupts"
	"github.com/brackenmoor/gbcore/internal/types"
)

// tacRate maps TAC's two clock-select bits to the divider bit that, on a
// falling edge, increments TIMA (the real hardware derives TIMA's clock
// from a tap on the 16-bit divider rather than a free-running counter).
var tacRate = [4]uint{9, 3, 5, 7} // 4096, 262144, 65536, 16384 Hz

// Controller is the DIV/TIMA/TMA/TAC register block.
type Controller struct {
	div  uint16 // internal 16-bit counter; FF04 exposes the upper 8 bits
	tima uint8
	tma  uint8
	tac  uint8

	// overflowDelay models the 4-cycle delay between TIMA wrapping to 0 and
	// TMA actually being reloaded: reads of TIMA return 0 in between,
	// and a write to TIMA during the window cancels the reload.
	overflowDelay int

	irq *interrupts.Service
}

// NewController returns a timer with every register zeroed. Real hardware
// leaves DIV at a boot-ROM-dependent value; this core has no boot ROM
// stage, so DIV starts at 0 for deterministic, testable behavior.
func NewController(irq *interrupts.Service) *Controller {
	return &Controller{irq: irq}
}

// bit returns whether the divider bit that feeds TIMA is currently set.
func (c *Controller) bit() bool {
	return c.tac&0x04 != 0 && c.div&(1<<tacRate[c.tac&0x03]) != 0
}

// Tick advances the timer by the given number of T-cycles, one cycle at a
// time so the falling-edge detector on the divider tap sees every
// transition (TAC's rate changes mid-tick are rare but must still be
// observed correctly).
func (c *Controller) Tick(cycles uint16) {
	for i := uint16(0); i < cycles; i++ {
		if c.overflowDelay > 0 {
			c.overflowDelay--
			if c.overflowDelay == 0 {
				c.tima = c.tma
				c.irq.Request(interrupts.TimerFlag)
			}
		}

		before := c.bit()
		c.div++
		after := c.bit()
		if before && !after {
			c.incrementTIMA()
		}
	}
}

func (c *Controller) incrementTIMA() {
	c.tima++
	if c.tima == 0 {
		c.overflowDelay = 4
	}
}

// Read implements MMU dispatch for FF04-FF07.
func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case 0xFF04:
		return uint8(c.div >> 8)
	case 0xFF05:
		if c.overflowDelay > 0 {
			return 0
		}
		return c.tima
	case 0xFF06:
		return c.tma
	case 0xFF07:
		return c.tac | 0xF8
	}
	return 0xFF
}

// Write implements MMU dispatch for FF04-FF07.
func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case 0xFF04:
		before := c.bit()
		c.div = 0
		if before && c.tac&0x04 != 0 {
			c.incrementTIMA()
		}
	case 0xFF05:
		if c.overflowDelay > 0 {
			// a write during the reload window cancels it outright
			c.overflowDelay = 0
		}
		c.tima = value
	case 0xFF06:
		c.tma = value
	case 0xFF07:
		before := c.bit()
		c.tac = value & 0x07
		if before && !c.bit() {
			c.incrementTIMA()
		}
	}
}

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.Write16(c.div)
	s.Write8(c.tima)
	s.Write8(c.tma)
	s.Write8(c.tac)
	s.Write8(uint8(c.overflowDelay))
}

func (c *Controller) Load(s *types.State) {
	c.div = s.Read16()
	c.tima = s.Read8()
	c.tma = s.Read8()
	c.tac = s.Read8()
	c.overflowDelay = int(s.Read8())
}
