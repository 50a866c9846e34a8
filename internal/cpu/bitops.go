package cpu

// bit tests bit n of v: Z=~bit, N=0, H=1, C preserved (spec 4.4).
func (c *CPU) bit(v uint8, n uint8) {
	c.setFlag(flagZ, v&(1<<n) == 0)
	c.setFlag(flagN, false)
	c.setFlag(flagH, true)
}

func setBit(v uint8, n uint8) uint8 {
	return v | 1<<n
}

func resBit(v uint8, n uint8) uint8 {
	return v &^ (1 << n)
}
