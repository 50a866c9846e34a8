package cpu

// executeX0 handles the irregular top quarter of the table (opcode bits
// 7-6 == 00): NOP/stack-relative loads, JR family, 16-bit register-pair
// loads and arithmetic, the four (BC)/(DE)/(HLI)/(HLD) indirect
// accumulator loads, 8-bit/16-bit INC/DEC, immediate 8-bit loads, and the
// seven accumulator-only rotate/DAA/CPL/SCF/CCF opcodes.
func (c *CPU) executeX0(opcode uint8, y, z, p, q uint8) uint8 {
	switch z {
	case 0:
		switch {
		case y == 0:
			return 4 // NOP
		case y == 1:
			addr := c.fetch16()
			c.writeWord(addr, c.SP)
			return 20
		case y == 2:
			c.stopped = true
			c.fetch8() // STOP is followed by a padding byte on this CPU
			return 4
		case y == 3:
			return c.jr(true)
		default:
			return c.jr(c.condition(y - 4))
		}
	case 1:
		if q == 0 {
			c.pairSet(p, c.fetch16())
			return 12
		}
		c.SetHL(c.add16(c.HL(), c.pairGet(p)))
		return 8
	case 2:
		return c.indirectAccumulator(p, q)
	case 3:
		if q == 0 {
			c.pairSet(p, c.pairGet(p)+1)
		} else {
			c.pairSet(p, c.pairGet(p)-1)
		}
		return 8
	case 4:
		c.regSet(y, c.inc8(c.regGet(y)))
		return regCycles(y, 4, 12)
	case 5:
		c.regSet(y, c.dec8(c.regGet(y)))
		return regCycles(y, 4, 12)
	case 6:
		c.regSet(y, c.fetch8())
		return regCycles(y, 8, 12)
	case 7:
		return c.executeAccumulatorOp(y)
	}
	panic("unreachable")
}

// indirectAccumulator implements LD (BC/DE/HLI/HLD),A and its four
// LD A,(...) mirrors, selected by p and the q bit.
func (c *CPU) indirectAccumulator(p, q uint8) uint8 {
	var addr uint16
	switch p {
	case 0:
		addr = c.BC()
	case 1:
		addr = c.DE()
	case 2:
		addr = c.HL()
		defer c.SetHL(addr + 1)
	case 3:
		addr = c.HL()
		defer c.SetHL(addr - 1)
	}
	if q == 0 {
		c.bus.Write(addr, c.A)
	} else {
		c.A = c.bus.Read(addr)
	}
	return 8
}

func (c *CPU) executeAccumulatorOp(y uint8) uint8 {
	switch y {
	case 0:
		c.rotateAccumulator(c.rlc)
	case 1:
		c.rotateAccumulator(c.rrc)
	case 2:
		c.rotateAccumulator(c.rl)
	case 3:
		c.rotateAccumulator(c.rr)
	case 4:
		c.daa()
	case 5:
		c.cpl()
	case 6:
		c.scf()
	case 7:
		c.ccf()
	}
	return 4
}

// executeX1 is the LD r,r' grid (opcodes 0x40-0x7F), with the one
// exception that r=r'=(HL) (0x76) is HALT rather than LD (HL),(HL).
func (c *CPU) executeX1(y, z uint8) uint8 {
	if y == 6 && z == 6 {
		c.enterHalt()
		return 4
	}
	c.regSet(y, c.regGet(z))
	return regCycles(y, regCycles(z, 4, 8), 8)
}

// enterHalt reproduces the documented HALT bug: if IME is clear and an
// interrupt is already pending at the moment HALT executes, the CPU does
// not actually halt and instead the next instruction fetch fails to
// advance PC once.
func (c *CPU) enterHalt() {
	if !c.irq.IME && c.irq.Pending() {
		c.haltBug = true
		return
	}
	c.halted = true
}

// regCycles returns extraCost if idx addresses (HL), else baseCost.
func regCycles(idx uint8, baseCost, extraCost uint8) uint8 {
	if idx == 6 {
		return extraCost
	}
	return baseCost
}
