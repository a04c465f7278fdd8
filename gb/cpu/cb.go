package cpu

// cbTable is the 256-entry dispatch table for CB-prefixed opcodes. Every
// entry follows the same r8-operand bitfield (spec §4.4), so the whole
// table is built by generator loops with no literal exceptions.
var cbTable [256]opcodeFunc

func init() {
	shiftOps := []func(c *CPU, v uint8) uint8{
		func(c *CPU, v uint8) uint8 { return c.rlc(v, true) },
		func(c *CPU, v uint8) uint8 { return c.rrc(v, true) },
		func(c *CPU, v uint8) uint8 { return c.rl(v, true) },
		func(c *CPU, v uint8) uint8 { return c.rr(v, true) },
		func(c *CPU, v uint8) uint8 { return c.sla(v) },
		func(c *CPU, v uint8) uint8 { return c.sra(v) },
		func(c *CPU, v uint8) uint8 { return c.swap(v) },
		func(c *CPU, v uint8) uint8 { return c.srl(v) },
	}

	for op := 0; op <= 0x3F; op++ {
		row := shiftOps[(op>>3)&0x07]
		r8 := uint8(op & 0x07)
		cbTable[op] = func(c *CPU) int {
			v := c.readR8(r8)
			c.writeR8(r8, row(c, v))
			if r8 == 6 {
				return 16
			}
			return 8
		}
	}

	for op := 0x40; op <= 0x7F; op++ {
		bitIdx := uint8((op >> 3) & 0x07)
		r8 := uint8(op & 0x07)
		cbTable[op] = func(c *CPU) int {
			c.bitTest(c.readR8(r8), bitIdx)
			if r8 == 6 {
				return 12
			}
			return 8
		}
	}

	for op := 0x80; op <= 0xBF; op++ {
		bitIdx := uint8((op >> 3) & 0x07)
		r8 := uint8(op & 0x07)
		cbTable[op] = func(c *CPU) int {
			v := c.readR8(r8) &^ (1 << bitIdx)
			c.writeR8(r8, v)
			if r8 == 6 {
				return 16
			}
			return 8
		}
	}

	for op := 0xC0; op <= 0xFF; op++ {
		bitIdx := uint8((op >> 3) & 0x07)
		r8 := uint8(op & 0x07)
		cbTable[op] = func(c *CPU) int {
			v := c.readR8(r8) | (1 << bitIdx)
			c.writeR8(r8, v)
			if r8 == 6 {
				return 16
			}
			return 8
		}
	}
}
