package cpu

// jr executes JR (with or without a condition): the displacement byte is
// always fetched so PC stays correct even when the branch isn't taken.
func (c *CPU) jr(take bool) uint8 {
	offset := int8(c.fetch8())
	if !take {
		return 8
	}
	c.PC = uint16(int32(c.PC) + int32(offset))
	return 12
}

func (c *CPU) jp(take bool) uint8 {
	addr := c.fetch16()
	if !take {
		return 12
	}
	c.PC = addr
	return 16
}

func (c *CPU) call(take bool) uint8 {
	addr := c.fetch16()
	if !take {
		return 12
	}
	c.push(c.PC)
	c.PC = addr
	return 24
}

func (c *CPU) ret(take bool) uint8 {
	if !take {
		return 8
	}
	c.PC = c.pop()
	return 20
}

func (c *CPU) rst(target uint8) uint8 {
	c.push(c.PC)
	c.PC = uint16(target)
	return 16
}

// executeX3 handles the bottom quarter of the table: conditional/
// unconditional RET/JP/CALL, PUSH/POP, the high-RAM (0xFF00+n8) and
// absolute accumulator loads, SP-relative arithmetic, DI/EI, the CB
// prefix, and RST.
func (c *CPU) executeX3(opcode, y, z, p, q uint8) uint8 {
	switch z {
	case 0:
		switch {
		case y <= 3:
			return c.ret(c.condition(y))
		case y == 4:
			c.bus.Write(0xFF00+uint16(c.fetch8()), c.A)
			return 12
		case y == 5:
			c.SP = c.addSPSigned(c.fetch8())
			return 16
		case y == 6:
			c.A = c.bus.Read(0xFF00 + uint16(c.fetch8()))
			return 12
		default: // y == 7
			c.SetHL(c.addSPSigned(c.fetch8()))
			return 12
		}
	case 1:
		if q == 0 {
			c.pairSet2(p, c.pop())
			return 12
		}
		switch p {
		case 0:
			c.PC = c.pop() // unconditional RET: 16 cycles, unlike a taken RET cc (20)
			return 16
		case 1:
			c.PC = c.pop()
			c.irq.IME = true
			return 16
		case 2:
			c.PC = c.HL()
			return 4
		default: // p == 3
			c.SP = c.HL()
			return 8
		}
	case 2:
		switch {
		case y <= 3:
			return c.jp(c.condition(y))
		case y == 4:
			c.bus.Write(0xFF00+uint16(c.C), c.A)
			return 8
		case y == 5:
			c.bus.Write(c.fetch16(), c.A)
			return 16
		case y == 6:
			c.A = c.bus.Read(0xFF00 + uint16(c.C))
			return 8
		default: // y == 7
			c.A = c.bus.Read(c.fetch16())
			return 16
		}
	case 3:
		switch y {
		case 0:
			return c.jp(true)
		case 1:
			return c.executeCB()
		case 6:
			c.irq.IME = false
			c.eiScheduled = false
			return 4
		case 7:
			c.eiScheduled = true
			return 4
		default:
			return c.undefinedOpcode(opcode)
		}
	case 4:
		if y <= 3 {
			return c.call(c.condition(y))
		}
		return c.undefinedOpcode(opcode)
	case 5:
		if q == 0 {
			c.push(c.pairGet2(p))
			return 16
		}
		if p == 0 {
			return c.call(true)
		}
		return c.undefinedOpcode(opcode)
	case 6:
		return c.executeAlu(y, c.fetch8()) + 4
	case 7:
		return c.rst(y * 8)
	}
	panic("unreachable")
}

// undefinedOpcode handles the 11 opcodes the LR35902 never assigned
// (0xD3/0xDB/0xDD/0xE3/0xE4/0xEB/0xEC/0xED/0xF4/0xFC/0xFD). Real hardware
// locks up the CPU; this core does not crash on them but sets the same
// stopped flag STOP sets. Step does not consult that flag and the frame
// driver clears it before the next step, so execution does not lock up:
// it continues with the following byte.
func (c *CPU) undefinedOpcode(opcode uint8) uint8 {
	c.stopped = true
	return 4
}
