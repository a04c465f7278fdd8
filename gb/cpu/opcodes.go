package cpu

// opcodeTable is a flat array of 256 function pointers for the primary
// opcode set (spec C4 design note). It is populated partly by literal
// entries for the irregular low opcodes (0x00-0x3F) and control-flow
// instructions (0xC0-0xFF), and partly by generator loops over the
// regular r8/r8, ALU/r8, r16 and condition-code bitfield groups spec
// §4.4 describes — a direct transliteration of those operand-encoding
// bitfields rather than a shortcut.
var opcodeTable [256]opcodeFunc

// readR8/writeR8 decode the 3-bit r8 operand (spec §4.4): 0-5 -> B,C,D,
// E,H,L; 6 -> memory at HL; 7 -> A. Index 6 costs 4 extra ticks for a
// pure read and the caller adds another 4 for a write-back.
func (c *CPU) readR8(idx uint8) uint8 {
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
		return c.read(c.HL())
	default:
		return c.A
	}
}

func (c *CPU) writeR8(idx uint8, v uint8) {
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
		c.write(c.HL(), v)
	default:
		c.A = v
	}
}

// r16 operand (2 bits), the "general" group used by INC/DEC/ADD HL: 0-3
// -> BC,DE,HL,SP.
func (c *CPU) readR16Gen(idx uint8) uint16 {
	switch idx {
	case 0:
		return c.BC()
	case 1:
		return c.DE()
	case 2:
		return c.HL()
	default:
		return c.SP
	}
}

func (c *CPU) writeR16Gen(idx uint8, v uint16) {
	switch idx {
	case 0:
		c.SetBC(v)
	case 1:
		c.SetDE(v)
	case 2:
		c.SetHL(v)
	default:
		c.SP = v
	}
}

// r16 operand, the "stack" group used by PUSH/POP: 3 -> AF instead of SP.
func (c *CPU) readR16Stack(idx uint8) uint16 {
	if idx == 3 {
		return c.AF()
	}
	return c.readR16Gen(idx)
}

func (c *CPU) writeR16Stack(idx uint8, v uint16) {
	if idx == 3 {
		c.SetAF(v)
		return
	}
	c.writeR16Gen(idx, v)
}

// condition code (2 bits): NZ, Z, NC, C.
func (c *CPU) checkCond(idx uint8) bool {
	switch idx {
	case 0:
		return !c.Flag(FlagZ)
	case 1:
		return c.Flag(FlagZ)
	case 2:
		return !c.Flag(FlagC)
	default:
		return c.Flag(FlagC)
	}
}

func init() {
	installLiteralOpcodes()
	installLoadGroup()
	installALUGroup()
	installRowGroups()
	installControlFlowGroup()
}

// installLoadGroup fills 0x40-0x7F: LD r8,r8' (0x76 is HALT, installed
// literally and overwritten after this runs).
func installLoadGroup() {
	for opcode := 0x40; opcode <= 0x7F; opcode++ {
		dst := uint8((opcode >> 3) & 0x07)
		src := uint8(opcode & 0x07)
		opcodeTable[opcode] = func(c *CPU) int {
			v := c.readR8(src)
			c.writeR8(dst, v)
			if dst == 6 || src == 6 {
				return 8
			}
			return 4
		}
	}
	opcodeTable[0x76] = func(c *CPU) int { c.enterHalt(); return 4 }
}

// installALUGroup fills 0x80-0xBF: ALU A,r8 (add/adc/sub/sbc/and/xor/or/cp).
func installALUGroup() {
	ops := []func(c *CPU, v uint8){
		func(c *CPU, v uint8) { c.A = c.add8(c.A, v, false) },
		func(c *CPU, v uint8) { c.A = c.add8(c.A, v, c.Flag(FlagC)) },
		func(c *CPU, v uint8) { c.A = c.sub8(c.A, v, false) },
		func(c *CPU, v uint8) { c.A = c.sub8(c.A, v, c.Flag(FlagC)) },
		func(c *CPU, v uint8) { c.A = c.and8(c.A, v) },
		func(c *CPU, v uint8) { c.A = c.xor8(c.A, v) },
		func(c *CPU, v uint8) { c.A = c.or8(c.A, v) },
		func(c *CPU, v uint8) { c.cp8(c.A, v) },
	}
	for opcode := 0x80; opcode <= 0xBF; opcode++ {
		row := ops[(opcode>>3)&0x07]
		src := uint8(opcode & 0x07)
		opcodeTable[opcode] = func(c *CPU) int {
			v := c.readR8(src)
			row(c, v)
			if src == 6 {
				return 8
			}
			return 4
		}
	}
}

// installRowGroups fills the regular per-row patterns scattered across
// 0x00-0x3F and 0xC0-0xFF: INC/DEC r8, LD r8,d8, LD r16,d16, INC/DEC r16,
// ADD HL,r16, PUSH/POP r16, RST.
func installRowGroups() {
	for row := uint8(0); row < 8; row++ {
		r := row
		// INC r8 at column 4, DEC r8 at column 5, LD r8,d8 at column 6.
		opcodeTable[int(r)<<3|0x04] = func(c *CPU) int {
			v := c.readR8(r)
			c.writeR8(r, c.inc8(v))
			if r == 6 {
				return 12
			}
			return 4
		}
		opcodeTable[int(r)<<3|0x05] = func(c *CPU) int {
			v := c.readR8(r)
			c.writeR8(r, c.dec8(v))
			if r == 6 {
				return 12
			}
			return 4
		}
		opcodeTable[int(r)<<3|0x06] = func(c *CPU) int {
			v := c.fetch8()
			c.writeR8(r, v)
			if r == 6 {
				return 12
			}
			return 8
		}
	}

	for g := uint8(0); g < 4; g++ {
		grp := g
		opcodeTable[int(grp)<<4|0x01] = func(c *CPU) int {
			c.writeR16Gen(grp, c.fetch16())
			return 12
		}
		opcodeTable[int(grp)<<4|0x03] = func(c *CPU) int {
			c.writeR16Gen(grp, c.readR16Gen(grp)+1)
			return 8
		}
		opcodeTable[int(grp)<<4|0x0B] = func(c *CPU) int {
			c.writeR16Gen(grp, c.readR16Gen(grp)-1)
			return 8
		}
		opcodeTable[int(grp)<<4|0x09] = func(c *CPU) int {
			c.addHL16(c.readR16Gen(grp))
			return 8
		}
		opcodeTable[0xC1|int(grp)<<4] = func(c *CPU) int {
			c.writeR16Stack(grp, c.pop16())
			return 12
		}
		opcodeTable[0xC5|int(grp)<<4] = func(c *CPU) int {
			c.push16(c.readR16Stack(grp))
			return 16
		}
	}

	for n := uint8(0); n < 8; n++ {
		target := uint16(n) * 8
		opcodeTable[0xC7|int(n)<<3] = func(c *CPU) int {
			c.push16(c.PC)
			c.PC = target
			return 16
		}
	}
}

// installControlFlowGroup fills the conditional JR/JP/CALL/RET cc opcodes,
// scattered across 0x20-0x38 and 0xC0-0xDC; their unconditional
// counterparts are literal entries.
func installControlFlowGroup() {
	for cc := uint8(0); cc < 4; cc++ {
		cond := cc
		opcodeTable[0x20|int(cond)<<3] = func(c *CPU) int {
			off := int8(c.fetch8())
			if c.checkCond(cond) {
				c.PC = uint16(int32(c.PC) + int32(off))
				return 12
			}
			return 8
		}
		opcodeTable[0xC0|int(cond)<<3] = func(c *CPU) int {
			if c.checkCond(cond) {
				c.PC = c.pop16()
				return 20
			}
			return 8
		}
		opcodeTable[0xC2|int(cond)<<3] = func(c *CPU) int {
			target := c.fetch16()
			if c.checkCond(cond) {
				c.PC = target
				return 16
			}
			return 12
		}
		opcodeTable[0xC4|int(cond)<<3] = func(c *CPU) int {
			target := c.fetch16()
			if c.checkCond(cond) {
				c.push16(c.PC)
				c.PC = target
				return 24
			}
			return 12
		}
	}
}
