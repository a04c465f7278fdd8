package memory

import "github.com/kestrel-oss/pocketgb/gb/addr"

type ioReadFunc func(*Bus, uint16) uint8
type ioWriteFunc func(*Bus, uint16, uint8)

// ioReadHandlers and ioWriteHandlers are built once at init time, one
// entry per I/O register offset (spec C3): most registers are plain
// storage and get the default pass-through handler; the handful with
// side effects (joypad composition, DIV reset, DMA triggers, APU
// forwarding, CGB-only registers) get a dedicated handler installed over
// the default.
var ioReadHandlers [0x80]ioReadFunc
var ioWriteHandlers [0x80]ioWriteFunc

func off(a uint16) uint16 { return a - 0xFF00 }

func init() {
	for i := range ioReadHandlers {
		ioReadHandlers[i] = defaultIORead
		ioWriteHandlers[i] = defaultIOWrite
	}

	ioReadHandlers[off(addr.P1)] = readP1
	ioWriteHandlers[off(addr.P1)] = writeP1

	ioReadHandlers[off(addr.DIV)] = func(b *Bus, _ uint16) uint8 { return b.timer.ReadDIV() }
	ioWriteHandlers[off(addr.DIV)] = func(b *Bus, _ uint16, _ uint8) { b.timer.WriteDIV() }
	ioReadHandlers[off(addr.TIMA)] = func(b *Bus, _ uint16) uint8 { return b.timer.ReadTIMA() }
	ioWriteHandlers[off(addr.TIMA)] = func(b *Bus, _ uint16, v uint8) { b.timer.WriteTIMA(v) }
	ioReadHandlers[off(addr.TMA)] = func(b *Bus, _ uint16) uint8 { return b.timer.ReadTMA() }
	ioWriteHandlers[off(addr.TMA)] = func(b *Bus, _ uint16, v uint8) { b.timer.WriteTMA(v) }
	ioReadHandlers[off(addr.TAC)] = func(b *Bus, _ uint16) uint8 { return b.timer.ReadTAC() }
	ioWriteHandlers[off(addr.TAC)] = func(b *Bus, _ uint16, v uint8) { b.timer.WriteTAC(v) }

	ioReadHandlers[off(addr.IF)] = func(b *Bus, _ uint16) uint8 { return b.IF() | 0xE0 }
	ioWriteHandlers[off(addr.IF)] = func(b *Bus, _ uint16, v uint8) { b.ioRegs[off(addr.IF)] = v & 0x1F }

	ioReadHandlers[off(addr.LY)] = func(b *Bus, _ uint16) uint8 { return b.ly }
	ioWriteHandlers[off(addr.LY)] = func(b *Bus, _ uint16, _ uint8) {} // read-only
	ioWriteHandlers[off(addr.LYC)] = func(b *Bus, _ uint16, v uint8) {
		b.lyc = v
		b.lycEqual = b.ly == b.lyc
		b.recomposeSTAT()
	}
	ioWriteHandlers[off(addr.STAT)] = func(b *Bus, _ uint16, v uint8) {
		b.statIEMask = v & 0x78
		b.recomposeSTAT()
	}

	ioWriteHandlers[off(addr.DMA)] = func(b *Bus, _ uint16, v uint8) { b.TriggerOAMDMA(v) }

	ioWriteHandlers[off(addr.BootROMDisable)] = func(b *Bus, _ uint16, v uint8) {
		if v != 0 {
			b.bootROMDisabled = true
		}
	}

	ioWriteHandlers[off(addr.KEY1)] = func(b *Bus, _ uint16, v uint8) { b.keySwitchArmed = v&0x01 != 0 }
	ioReadHandlers[off(addr.KEY1)] = func(b *Bus, _ uint16) uint8 {
		v := uint8(0x7E)
		if b.doubleSpeed {
			v |= 0x80
		}
		if b.keySwitchArmed {
			v |= 0x01
		}
		return v
	}

	ioWriteHandlers[off(addr.VBK)] = func(b *Bus, _ uint16, v uint8) { b.vbk = v & 0x01 }
	ioReadHandlers[off(addr.VBK)] = func(b *Bus, _ uint16) uint8 { return b.vbk | 0xFE }

	ioWriteHandlers[off(addr.HDMA1)] = func(b *Bus, _ uint16, v uint8) { b.hdma1 = v }
	ioWriteHandlers[off(addr.HDMA2)] = func(b *Bus, _ uint16, v uint8) { b.hdma2 = v }
	ioWriteHandlers[off(addr.HDMA3)] = func(b *Bus, _ uint16, v uint8) { b.hdma3 = v }
	ioWriteHandlers[off(addr.HDMA4)] = func(b *Bus, _ uint16, v uint8) { b.hdma4 = v }
	ioWriteHandlers[off(addr.HDMA5)] = func(b *Bus, _ uint16, v uint8) { b.WriteHDMA5(v) }

	ioReadHandlers[off(addr.SB)] = serialRead
	ioWriteHandlers[off(addr.SB)] = serialWrite
	ioReadHandlers[off(addr.SC)] = serialRead
	ioWriteHandlers[off(addr.SC)] = serialWrite

	ioReadHandlers[off(addr.BCPS)] = func(b *Bus, _ uint16) uint8 { return b.ReadBCPS() }
	ioWriteHandlers[off(addr.BCPS)] = func(b *Bus, _ uint16, v uint8) { b.WriteBCPS(v) }
	ioReadHandlers[off(addr.BCPD)] = func(b *Bus, _ uint16) uint8 { return b.ReadBCPD() }
	ioWriteHandlers[off(addr.BCPD)] = func(b *Bus, _ uint16, v uint8) { b.WriteBCPD(v) }
	ioReadHandlers[off(addr.OCPS)] = func(b *Bus, _ uint16) uint8 { return b.ReadOCPS() }
	ioWriteHandlers[off(addr.OCPS)] = func(b *Bus, _ uint16, v uint8) { b.WriteOCPS(v) }
	ioReadHandlers[off(addr.OCPD)] = func(b *Bus, _ uint16) uint8 { return b.ReadOCPD() }
	ioWriteHandlers[off(addr.OCPD)] = func(b *Bus, _ uint16, v uint8) { b.WriteOCPD(v) }
	ioReadHandlers[off(addr.OPRI)] = func(b *Bus, _ uint16) uint8 { return b.ReadOPRI() }
	ioWriteHandlers[off(addr.OPRI)] = func(b *Bus, _ uint16, v uint8) { b.WriteOPRI(v) }

	registerAPUHandlers()
}

func defaultIORead(b *Bus, address uint16) uint8  { return b.ioRegs[off(address)] }
func defaultIOWrite(b *Bus, address uint16, v uint8) { b.ioRegs[off(address)] = v }

func readP1(b *Bus, _ uint16) uint8 {
	v := b.joypadSelect | 0xC0
	selectDpad := b.joypadSelect&0x10 == 0
	selectButtons := b.joypadSelect&0x20 == 0

	nibble := uint8(0x0F)
	if selectDpad {
		nibble &^= (b.pressedMask >> 4) & 0x0F
	}
	if selectButtons {
		nibble &^= b.pressedMask & 0x0F
	}
	return v | nibble
}

func writeP1(b *Bus, _ uint16, v uint8) {
	b.joypadSelect = v & 0x30
}

func serialRead(b *Bus, address uint16) uint8 {
	if b.serial != nil {
		return b.serial.Read(address)
	}
	return b.ioRegs[off(address)]
}

func serialWrite(b *Bus, address uint16, v uint8) {
	b.ioRegs[off(address)] = v
	if b.serial != nil {
		b.serial.Write(address, v)
	}
}

func (b *Bus) readIO(address uint16) uint8 {
	return ioReadHandlers[off(address)](b, address)
}

func (b *Bus) writeIO(address uint16, value uint8) {
	ioWriteHandlers[off(address)](b, address, value)
}

// defaultIORegisters returns the power-on backing values for the I/O
// register file: P1, TAC, STAT and NR52 get fixed non-zero values and all
// other registers start at 0. The values are the same for DMG and CGB;
// cgb is not consulted.
func defaultIORegisters(cgb bool) [0x80]uint8 {
	var regs [0x80]uint8
	regs[off(addr.P1)] = 0xCF
	regs[off(addr.TAC)] = 0xF8
	regs[off(addr.STAT)] = 0x85
	regs[off(addr.NR52)] = 0xF1
	return regs
}
