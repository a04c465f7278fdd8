package cpu

// installLiteralOpcodes fills every opcode whose behavior doesn't follow
// one of the regular bitfield-group patterns handled elsewhere in
// opcodes.go: the low block's miscellaneous loads/rotates, and the
// high block's immediate-operand ALU ops, indirect loads, and the
// handful of single-purpose control instructions.
func installLiteralOpcodes() {
	opcodeTable[0x00] = func(c *CPU) int { return 4 }

	opcodeTable[0x02] = func(c *CPU) int { c.write(c.BC(), c.A); return 8 }
	opcodeTable[0x12] = func(c *CPU) int { c.write(c.DE(), c.A); return 8 }
	opcodeTable[0x0A] = func(c *CPU) int { c.A = c.read(c.BC()); return 8 }
	opcodeTable[0x1A] = func(c *CPU) int { c.A = c.read(c.DE()); return 8 }

	opcodeTable[0x22] = func(c *CPU) int {
		c.write(c.HL(), c.A)
		c.SetHL(c.HL() + 1)
		return 8
	}
	opcodeTable[0x32] = func(c *CPU) int {
		c.write(c.HL(), c.A)
		c.SetHL(c.HL() - 1)
		return 8
	}
	opcodeTable[0x2A] = func(c *CPU) int {
		c.A = c.read(c.HL())
		c.SetHL(c.HL() + 1)
		return 8
	}
	opcodeTable[0x3A] = func(c *CPU) int {
		c.A = c.read(c.HL())
		c.SetHL(c.HL() - 1)
		return 8
	}

	opcodeTable[0x07] = func(c *CPU) int { c.A = c.rlc(c.A, false); return 4 }
	opcodeTable[0x0F] = func(c *CPU) int { c.A = c.rrc(c.A, false); return 4 }
	opcodeTable[0x17] = func(c *CPU) int { c.A = c.rl(c.A, false); return 4 }
	opcodeTable[0x1F] = func(c *CPU) int { c.A = c.rr(c.A, false); return 4 }

	opcodeTable[0x08] = func(c *CPU) int {
		target := c.fetch16()
		c.write(target, uint8(c.SP))
		c.write(target+1, uint8(c.SP>>8))
		return 20
	}

	opcodeTable[0x10] = func(c *CPU) int {
		c.fetch8() // STOP's second byte, conventionally 0x00
		if c.bus.IsSpeedSwitchArmed() {
			c.bus.CommitSpeedSwitch()
		}
		return 4
	}

	opcodeTable[0x18] = func(c *CPU) int {
		off := int8(c.fetch8())
		c.PC = uint16(int32(c.PC) + int32(off))
		return 12
	}

	opcodeTable[0x27] = func(c *CPU) int { c.daa(); return 4 }
	opcodeTable[0x2F] = func(c *CPU) int {
		c.A = ^c.A
		c.SetFlag(FlagN, true)
		c.SetFlag(FlagH, true)
		return 4
	}
	opcodeTable[0x37] = func(c *CPU) int {
		c.SetFlag(FlagN, false)
		c.SetFlag(FlagH, false)
		c.SetFlag(FlagC, true)
		return 4
	}
	opcodeTable[0x3F] = func(c *CPU) int {
		c.SetFlag(FlagN, false)
		c.SetFlag(FlagH, false)
		c.SetFlag(FlagC, !c.Flag(FlagC))
		return 4
	}

	opcodeTable[0xC3] = func(c *CPU) int { c.PC = c.fetch16(); return 16 }
	opcodeTable[0xC9] = func(c *CPU) int { c.PC = c.pop16(); return 16 }
	opcodeTable[0xD9] = func(c *CPU) int {
		c.PC = c.pop16()
		c.ime = true
		c.imeQueue = imeIdle
		return 16
	}
	opcodeTable[0xCD] = func(c *CPU) int {
		target := c.fetch16()
		c.push16(c.PC)
		c.PC = target
		return 24
	}
	opcodeTable[0xE9] = func(c *CPU) int { c.PC = c.HL(); return 4 }

	opcodeTable[0xC6] = func(c *CPU) int { c.A = c.add8(c.A, c.fetch8(), false); return 8 }
	opcodeTable[0xCE] = func(c *CPU) int { c.A = c.add8(c.A, c.fetch8(), c.Flag(FlagC)); return 8 }
	opcodeTable[0xD6] = func(c *CPU) int { c.A = c.sub8(c.A, c.fetch8(), false); return 8 }
	opcodeTable[0xDE] = func(c *CPU) int { c.A = c.sub8(c.A, c.fetch8(), c.Flag(FlagC)); return 8 }
	opcodeTable[0xE6] = func(c *CPU) int { c.A = c.and8(c.A, c.fetch8()); return 8 }
	opcodeTable[0xEE] = func(c *CPU) int { c.A = c.xor8(c.A, c.fetch8()); return 8 }
	opcodeTable[0xF6] = func(c *CPU) int { c.A = c.or8(c.A, c.fetch8()); return 8 }
	opcodeTable[0xFE] = func(c *CPU) int { c.cp8(c.A, c.fetch8()); return 8 }

	opcodeTable[0xE0] = func(c *CPU) int {
		off := c.fetch8()
		c.write(0xFF00+uint16(off), c.A)
		return 12
	}
	opcodeTable[0xF0] = func(c *CPU) int {
		off := c.fetch8()
		c.A = c.read(0xFF00 + uint16(off))
		return 12
	}
	opcodeTable[0xE2] = func(c *CPU) int { c.write(0xFF00+uint16(c.C), c.A); return 8 }
	opcodeTable[0xF2] = func(c *CPU) int { c.A = c.read(0xFF00 + uint16(c.C)); return 8 }
	opcodeTable[0xEA] = func(c *CPU) int { c.write(c.fetch16(), c.A); return 16 }
	opcodeTable[0xFA] = func(c *CPU) int { c.A = c.read(c.fetch16()); return 16 }

	opcodeTable[0xE8] = func(c *CPU) int {
		off := int8(c.fetch8())
		c.SP = c.addSPSigned(off)
		return 16
	}
	opcodeTable[0xF8] = func(c *CPU) int {
		off := int8(c.fetch8())
		c.SetHL(c.addSPSigned(off))
		return 12
	}
	opcodeTable[0xF9] = func(c *CPU) int { c.SP = c.HL(); return 8 }

	opcodeTable[0xF3] = func(c *CPU) int { c.disableInterrupts(); return 4 }
	opcodeTable[0xFB] = func(c *CPU) int { c.requestEnableInterrupts(); return 4 }

	opcodeTable[0xCB] = func(c *CPU) int {
		cb := c.fetch8()
		return cbTable[cb](c)
	}
}
