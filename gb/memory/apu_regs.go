package memory

import "github.com/kestrel-oss/pocketgb/gb/addr"

// registerAPUHandlers wires the NR10-NR52 register range and wave RAM
// through to the owned audio.APU, keeping the APU oblivious to where its
// registers live in the address space (spec C9/C3).
func registerAPUHandlers() {
	reg := func(a uint16, read ioReadFunc, write ioWriteFunc) {
		ioReadHandlers[off(a)] = read
		ioWriteHandlers[off(a)] = write
	}

	reg(addr.NR10, func(b *Bus, _ uint16) uint8 { return b.APU.ReadNR10() }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR10(v) })
	reg(addr.NR11, func(b *Bus, _ uint16) uint8 { return b.APU.ReadNR11() }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR11(v) })
	reg(addr.NR12, func(b *Bus, _ uint16) uint8 { return b.APU.ReadNR12() }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR12(v) })
	reg(addr.NR13, func(b *Bus, _ uint16) uint8 { return 0xFF }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR13(v) })
	reg(addr.NR14, func(b *Bus, _ uint16) uint8 { return b.APU.ReadNR14() }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR14(v) })

	reg(addr.NR21, func(b *Bus, _ uint16) uint8 { return b.APU.ReadNR21() }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR21(v) })
	reg(addr.NR22, func(b *Bus, _ uint16) uint8 { return b.APU.ReadNR22() }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR22(v) })
	reg(addr.NR23, func(b *Bus, _ uint16) uint8 { return 0xFF }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR23(v) })
	reg(addr.NR24, func(b *Bus, _ uint16) uint8 { return b.APU.ReadNR24() }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR24(v) })

	reg(addr.NR30, func(b *Bus, _ uint16) uint8 { return b.APU.ReadNR30() }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR30(v) })
	reg(addr.NR31, func(b *Bus, _ uint16) uint8 { return 0xFF }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR31(v) })
	reg(addr.NR32, func(b *Bus, _ uint16) uint8 { return b.APU.ReadNR32() }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR32(v) })
	reg(addr.NR33, func(b *Bus, _ uint16) uint8 { return 0xFF }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR33(v) })
	reg(addr.NR34, func(b *Bus, _ uint16) uint8 { return b.APU.ReadNR34() }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR34(v) })

	reg(addr.NR41, func(b *Bus, _ uint16) uint8 { return 0xFF }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR41(v) })
	reg(addr.NR42, func(b *Bus, _ uint16) uint8 { return b.APU.ReadNR42() }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR42(v) })
	reg(addr.NR43, func(b *Bus, _ uint16) uint8 { return b.APU.ReadNR43() }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR43(v) })
	reg(addr.NR44, func(b *Bus, _ uint16) uint8 { return b.APU.ReadNR44() }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR44(v) })

	reg(addr.NR50, func(b *Bus, _ uint16) uint8 { return b.APU.ReadNR50() }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR50(v) })
	reg(addr.NR51, func(b *Bus, _ uint16) uint8 { return b.APU.ReadNR51() }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR51(v) })
	reg(addr.NR52, func(b *Bus, _ uint16) uint8 { return b.APU.ReadNR52() }, func(b *Bus, _ uint16, v uint8) { b.APU.WriteNR52(v) })

	for a := addr.WaveRAMStart; a <= addr.WaveRAMEnd; a++ {
		reg(a, readWaveRAM, writeWaveRAM)
	}
}

func readWaveRAM(b *Bus, address uint16) uint8 {
	return b.APU.ReadWaveRAM(int(address - addr.WaveRAMStart))
}

func writeWaveRAM(b *Bus, address uint16, v uint8) {
	b.APU.WriteWaveRAM(int(address-addr.WaveRAMStart), v)
}
