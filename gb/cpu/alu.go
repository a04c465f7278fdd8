package cpu

// ALU helpers implementing spec §4.4's flag semantics exactly.

func (c *CPU) add8(a, b uint8, carryIn bool) uint8 {
	var cin uint8
	if carryIn {
		cin = 1
	}
	sum := uint16(a) + uint16(b) + uint16(cin)
	res := uint8(sum)
	c.SetFlag(FlagZ, res == 0)
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, (a&0x0F)+(b&0x0F)+cin > 0x0F)
	c.SetFlag(FlagC, sum > 0xFF)
	return res
}

func (c *CPU) sub8(a, b uint8, carryIn bool) uint8 {
	var cin uint8
	if carryIn {
		cin = 1
	}
	res := a - b - cin
	c.SetFlag(FlagZ, res == 0)
	c.SetFlag(FlagN, true)
	c.SetFlag(FlagH, int(a&0x0F)-int(b&0x0F)-int(cin) < 0)
	c.SetFlag(FlagC, int(a)-int(b)-int(cin) < 0)
	return res
}

func (c *CPU) and8(a, b uint8) uint8 {
	res := a & b
	c.SetFlag(FlagZ, res == 0)
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, true)
	c.SetFlag(FlagC, false)
	return res
}

func (c *CPU) or8(a, b uint8) uint8 {
	res := a | b
	c.SetFlag(FlagZ, res == 0)
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, false)
	return res
}

func (c *CPU) xor8(a, b uint8) uint8 {
	res := a ^ b
	c.SetFlag(FlagZ, res == 0)
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, false)
	return res
}

func (c *CPU) cp8(a, b uint8) { c.sub8(a, b, false) }

func (c *CPU) inc8(v uint8) uint8 {
	res := v + 1
	c.SetFlag(FlagZ, res == 0)
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, v&0x0F == 0x0F)
	return res
}

func (c *CPU) dec8(v uint8) uint8 {
	res := v - 1
	c.SetFlag(FlagZ, res == 0)
	c.SetFlag(FlagN, true)
	c.SetFlag(FlagH, v&0x0F == 0x00)
	return res
}

func (c *CPU) addHL16(v uint16) {
	hl := c.HL()
	sum := uint32(hl) + uint32(v)
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, (hl&0x0FFF)+(v&0x0FFF) > 0x0FFF)
	c.SetFlag(FlagC, sum > 0xFFFF)
	c.SetHL(uint16(sum))
}

// addSPSigned implements SP+i8 / LD HL,SP+i8 shared flag computation
// (spec §4.4: half-carry computed on the low byte against the
// sign-extended magnitude).
func (c *CPU) addSPSigned(offset int8) uint16 {
	sp := c.SP
	o := uint16(int16(offset))
	res := sp + o
	c.SetFlag(FlagZ, false)
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, (sp&0x0F)+(o&0x0F) > 0x0F)
	c.SetFlag(FlagC, (sp&0xFF)+(o&0xFF) > 0xFF)
	return res
}

func (c *CPU) daa() {
	a := c.A
	carry := c.Flag(FlagC)
	if !c.Flag(FlagN) {
		// both adjustment conditions are evaluated against the
		// unmodified accumulator, then applied together.
		lowAdjust := c.Flag(FlagH) || a&0x0F > 0x09
		highAdjust := carry || a > 0x99
		if lowAdjust {
			a += 0x06
		}
		if highAdjust {
			a += 0x60
			carry = true
		}
	} else {
		if c.Flag(FlagH) {
			a -= 0x06
		}
		if carry {
			a -= 0x60
		}
	}
	c.SetFlag(FlagZ, a == 0)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, carry)
	c.A = a
}

// rlc/rrc/rl/rr: used by both the 0x07/0x0F/0x17/0x1F accumulator-only
// opcodes (which always clear Z) and the CB-prefixed r8 versions (which
// set Z normally); setZ lets the caller choose. sla/sra/srl/swap are
// CB-only and always set Z from the result.

func (c *CPU) rlc(v uint8, setZ bool) uint8 {
	carry := v&0x80 != 0
	res := v<<1 | boolBit(carry)
	c.setShiftFlags(res, carry, setZ)
	return res
}

func (c *CPU) rrc(v uint8, setZ bool) uint8 {
	carry := v&0x01 != 0
	res := v >> 1
	if carry {
		res |= 0x80
	}
	c.setShiftFlags(res, carry, setZ)
	return res
}

func (c *CPU) rl(v uint8, setZ bool) uint8 {
	carryIn := c.Flag(FlagC)
	carryOut := v&0x80 != 0
	res := v<<1 | boolBit(carryIn)
	c.setShiftFlags(res, carryOut, setZ)
	return res
}

func (c *CPU) rr(v uint8, setZ bool) uint8 {
	carryIn := c.Flag(FlagC)
	carryOut := v&0x01 != 0
	res := v >> 1
	if carryIn {
		res |= 0x80
	}
	c.setShiftFlags(res, carryOut, setZ)
	return res
}

func (c *CPU) sla(v uint8) uint8 {
	carry := v&0x80 != 0
	res := v << 1
	c.setShiftFlags(res, carry, true)
	return res
}

func (c *CPU) sra(v uint8) uint8 {
	carry := v&0x01 != 0
	res := v>>1 | v&0x80
	c.setShiftFlags(res, carry, true)
	return res
}

func (c *CPU) srl(v uint8) uint8 {
	carry := v&0x01 != 0
	res := v >> 1
	c.setShiftFlags(res, carry, true)
	return res
}

func (c *CPU) swap(v uint8) uint8 {
	res := v<<4 | v>>4
	c.SetFlag(FlagZ, res == 0)
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, false)
	return res
}

func (c *CPU) setShiftFlags(res uint8, carry, setZ bool) {
	if setZ {
		c.SetFlag(FlagZ, res == 0)
	} else {
		c.SetFlag(FlagZ, false)
	}
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, false)
	c.SetFlag(FlagC, carry)
}

func (c *CPU) bitTest(v uint8, index uint8) {
	c.SetFlag(FlagZ, v&(1<<index) == 0)
	c.SetFlag(FlagN, false)
	c.SetFlag(FlagH, true)
}

func boolBit(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
