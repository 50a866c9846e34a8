// Package serial stubs the link-cable transfer registers (FF01-FF02).
// Multi-device link synchronization is out of scope for the core (see
// spec Non-goals); this controller only keeps the two registers
// addressable and completes transfers against a null peer, so that ROMs
// polling SC's transfer-start bit don't hang.
package serial

import "github.com/brackenmoor/gbcore/internal/types"

// Controller owns SB (FF01) and SC (FF02).
type Controller struct {
	data    uint8
	control uint8

	// cyclesLeft is not used: a transfer started by setting SC bit 7
	// completes inside Write, and with no peer attached every bit reads
	// back as 1 (open line), mirroring how hardware behaves with nothing
	// plugged in.
	cyclesLeft int
}

// NewController returns a serial controller with no peer attached.
func NewController() *Controller {
	return &Controller{}
}

// Read implements MMU dispatch for FF01-FF02.
func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case 0xFF01:
		return c.data
	case 0xFF02:
		return c.control | 0x7E
	}
	return 0xFF
}

// Write implements MMU dispatch for FF01-FF02.
func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case 0xFF01:
		c.data = value
	case 0xFF02:
		c.control = value
		if value&0x80 != 0 {
			// No peer: the transfer "completes" immediately with all
			// bits shifted in as 1, matching an unplugged cable.
			c.data = 0xFF
			c.control &^= 0x80
		}
	}
}

// Tick advances any in-flight transfer by the given number of T-cycles.
// Reserved for a future peer-aware implementation; with no peer attached
// transfers resolve synchronously in Write, so this is a no-op.
func (c *Controller) Tick(cycles uint16) {}

var _ types.Stater = (*Controller)(nil)

func (c *Controller) Save(s *types.State) {
	s.Write8(c.data)
	s.Write8(c.control)
}

func (c *Controller) Load(s *types.State) {
	c.data = s.Read8()
	c.control = s.Read8()
}
