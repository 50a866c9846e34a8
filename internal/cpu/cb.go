package cpu

// executeCB fetches and runs one CB-prefixed opcode. The table splits
// into four equal quarters by the top two bits: rotate/shift group (with
// the sub-op selected by y), then BIT/RES/SET, each taking r[z] and bit
// index y.
func (c *CPU) executeCB() uint8 {
	opcode := c.fetch8()
	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7

	v := c.regGet(z)
	switch x {
	case 0:
		c.regSet(z, c.rotateCB(v, c.shiftOp(y)))
	case 1:
		c.bit(v, y)
	case 2:
		c.regSet(z, resBit(v, y))
	case 3:
		c.regSet(z, setBit(v, y))
	}
	return regCycles(z, 8, 16)
}

func (c *CPU) shiftOp(y uint8) func(uint8) uint8 {
	switch y {
	case 0:
		return c.rlc
	case 1:
		return c.rrc
	case 2:
		return c.rl
	case 3:
		return c.rr
	case 4:
		return c.sla
	case 5:
		return c.sra
	case 6:
		return c.swap
	default: // 7
		return c.srl
	}
}
