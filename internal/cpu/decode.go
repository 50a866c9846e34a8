package cpu

// execute decodes and runs one primary opcode, returning the T-cycles it
// consumed. Opcodes are decomposed the standard way for this ISA family:
//
//	x = opcode>>6        (2 bits, coarse group)
//	y = (opcode>>3) & 7   (3 bits, mid-field: register or ALU op)
//	z = opcode & 7        (3 bits, low field)
//	p = y >> 1, q = y & 1 (register-pair fields)
//
// which turns the 256-entry table into a handful of regular blocks (LD
// r,r'; ALU A,r; INC/DEC r; 16-bit pair ops) plus a short list of
// irregular control-flow and misc opcodes handled explicitly.
func (c *CPU) execute(opcode uint8) uint8 {
	x := opcode >> 6
	y := (opcode >> 3) & 7
	z := opcode & 7
	p := y >> 1
	q := y & 1

	switch x {
	case 0:
		return c.executeX0(opcode, y, z, p, q)
	case 1:
		return c.executeX1(y, z)
	case 2:
		if z == 6 {
			return c.executeAlu(y, c.regGet(z)) + 4
		}
		return c.executeAlu(y, c.regGet(z))
	case 3:
		return c.executeX3(opcode, y, z, p, q)
	}
	panic("unreachable")
}

// regGet reads an 8-bit operand by its 3-bit register index: 0=B 1=C 2=D
// 3=E 4=H 5=L 6=(HL) 7=A.
func (c *CPU) regGet(idx uint8) uint8 {
	switch idx {
	case 0:
		return c.B
	case 1:
		return c.C
	case 2:
		return c.D
	case 3:
		return c.E
	case 4:
		return c.H
	case 5:
		return c.L
	case 6:
		return c.bus.Read(c.HL())
	case 7:
		return c.A
	}
	panic("unreachable")
}

func (c *CPU) regSet(idx uint8, v uint8) {
	switch idx {
	case 0:
		c.B = v
	case 1:
		c.C = v
	case 2:
		c.D = v
	case 3:
		c.E = v
	case 4:
		c.H = v
	case 5:
		c.L = v
	case 6:
		c.bus.Write(c.HL(), v)
	case 7:
		c.A = v
	}
}

// pairGet/pairSet address the four "rp" 16-bit pairs (BC, DE, HL, SP) by
// the 2-bit p field.
func (c *CPU) pairGet(p uint8) uint16 {
	switch p {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	case 3:
		return c.SP
	}
	panic("unreachable")
}

func (c *CPU) pairSet(p uint8, v uint16) {
	switch p {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	case 3:
		c.SP = v
	}
}

// pairGet2/pairSet2 address the "rp2" grouping used by PUSH/POP, which
// substitutes AF for SP.
func (c *CPU) pairGet2(p uint8) uint16 {
	if p == 3 {
		return c.AF()
	}
	return c.pairGet(p)
}

func (c *CPU) pairSet2(p uint8, v uint16) {
	if p == 3 {
		c.SetAF(v)
		return
	}
	c.pairSet(p, v)
}

// condition evaluates one of the four branch conditions selected by the
// 2-bit cc field: 0=NZ 1=Z 2=NC 3=C.
func (c *CPU) condition(cc uint8) bool {
	switch cc {
	case 0:
		return !c.Zero()
	case 1:
		return c.Zero()
	case 2:
		return !c.Carry()
	case 3:
		return c.Carry()
	}
	panic("unreachable")
}

// executeAlu runs one of the 8 accumulator ALU ops (ADD/ADC/SUB/SBC/AND/
// XOR/OR/CP) against operand v.
func (c *CPU) executeAlu(op uint8, v uint8) uint8 {
	switch op {
	case 0:
		c.A = c.add8(c.A, v, false)
	case 1:
		c.A = c.add8(c.A, v, c.Carry())
	case 2:
		c.A = c.sub8(c.A, v, false)
	case 3:
		c.A = c.sub8(c.A, v, c.Carry())
	case 4:
		c.A = c.and8(c.A, v)
	case 5:
		c.A = c.xor8(c.A, v)
	case 6:
		c.A = c.or8(c.A, v)
	case 7:
		c.cp8(c.A, v)
	}
	return 4
}
