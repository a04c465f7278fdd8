package memory

import "github.com/kestrel-oss/pocketgb/gb/addr"

// oamDMAState tracks the in-flight OAM DMA transfer. The 160-byte copy is
// performed up front when triggered; only the tick countdown is tracked
// afterward. CPU reads of OAM are not blocked during the countdown and
// see the already-copied bytes.
type oamDMAState struct {
	active         bool
	ticksRemaining int
}

const (
	oamDMATicksNormal = 640
	oamDMATicksDouble = 320
)

// TriggerOAMDMA begins an OAM DMA transfer from sourceHigh*0x100 (spec
// §4.7), called when the CPU writes to the DMA register.
func (b *Bus) TriggerOAMDMA(sourceHigh uint8) {
	src := uint16(sourceHigh) << 8
	for i := 0; i < 160; i++ {
		b.oam[i] = b.dmaRead(src + uint16(i))
	}
	ticks := oamDMATicksNormal
	if b.doubleSpeed {
		ticks = oamDMATicksDouble
	}
	b.oamDMA = oamDMAState{active: true, ticksRemaining: ticks}
}

// TickOAMDMA advances the OAM DMA tick countdown by one tick.
func (b *Bus) TickOAMDMA() {
	if !b.oamDMA.active {
		return
	}
	b.oamDMA.ticksRemaining--
	if b.oamDMA.ticksRemaining <= 0 {
		b.oamDMA.active = false
	}
}

// dmaRead reads a byte for a DMA source address, bypassing the ordinary
// CPU-visibility rules (Draw/OAMScan blanking, echo-RAM assertion): DMA
// engines are allowed to see everything the bus can address.
func (b *Bus) dmaRead(address uint16) uint8 {
	switch {
	case address <= 0x7FFF:
		return b.mbc.ReadROM(address)
	case address <= 0x9FFF:
		bank := 0
		if b.cgb {
			bank = int(b.vbk & 0x01)
		}
		return b.vram[bank][address-0x8000]
	case address <= 0xBFFF:
		return b.mbc.ReadRAM(address)
	case address <= 0xCFFF:
		return b.wram[0][address-0xC000]
	case address <= 0xDFFF:
		return b.wram[b.wramBank()][address-0xD000]
	case address <= 0xFDFF: // echo RAM, mirrors WRAM for DMA purposes
		return b.dmaRead(address - 0x2000)
	default:
		return 0xFF
	}
}

// vramDMAMode selects the CGB VRAM DMA engine's current behavior.
type vramDMAMode uint8

const (
	vramDMAIdle vramDMAMode = iota
	vramDMAHBlank
)

// vramDMAState tracks an in-flight HBlank-triggered VRAM DMA transfer
// (spec §4.7, "supplemented features" CGB note). General-purpose
// transfers are performed synchronously in WriteHDMA5 and never reach
// this state beyond the shared freeze countdown.
type vramDMAState struct {
	mode            vramDMAMode
	source          uint16
	dest            uint16 // VRAM-relative 0x8000-based address
	blocksRemaining int
}

const vramDMATicksPerBlock = 32

// WriteHDMA5 starts or terminates a VRAM DMA transfer (spec §4.7). Bit 7
// selects general-purpose (0, performed synchronously) or HBlank-gated
// (1, one 16-byte block per HBlank entry) mode; writing bit 7 = 0 while
// an HBlank transfer is active terminates it instead of starting a new
// one.
func (b *Bus) WriteHDMA5(value uint8) {
	blocks := int(value&0x7F) + 1
	source := (uint16(b.hdma1)<<8 | uint16(b.hdma2)) &^ 0x000F
	dest := (uint16(b.hdma3)<<8|uint16(b.hdma4))&0x1FF0 | 0x8000

	if value&0x80 == 0 {
		if b.vramDMA.mode == vramDMAHBlank {
			remaining := b.vramDMA.blocksRemaining
			b.vramDMA = vramDMAState{}
			b.setHDMA5(uint8(remaining-1) | 0x80)
			return
		}
		for i := 0; i < blocks*16; i++ {
			b.writeVRAMRaw(dest+uint16(i), b.dmaRead(source+uint16(i)))
		}
		b.hdmaFreezeTicks += blocks * vramDMATicksPerBlock
		b.setHDMA5(0xFF)
		return
	}

	b.vramDMA = vramDMAState{mode: vramDMAHBlank, source: source, dest: dest, blocksRemaining: blocks}
	b.setHDMA5(uint8(blocks-1) & 0x7F)
}

func (b *Bus) writeVRAMRaw(vramAddr uint16, value uint8) {
	bank := 0
	if b.cgb {
		bank = int(b.vbk & 0x01)
	}
	b.vram[bank][vramAddr-0x8000] = value
}

func (b *Bus) setHDMA5(v uint8) {
	b.ioRegs[addr.HDMA5-0xFF00] = v
}

// NotifyHBlankEntered copies one 16-byte block of an active HBlank VRAM
// DMA transfer; the PPU calls it exactly once per HBlank mode entry
// (spec §4.7). halted reports whether the CPU is
// currently halted; the transfer is paused in that case rather than
// continuing to steal HBlank windows a halted CPU never executes
// against.
func (b *Bus) NotifyHBlankEntered(halted bool) {
	if halted || b.vramDMA.mode != vramDMAHBlank || b.vramDMA.blocksRemaining <= 0 || b.hdmaFreezeTicks > 0 {
		return
	}
	for i := 0; i < 16; i++ {
		b.writeVRAMRaw(b.vramDMA.dest+uint16(i), b.dmaRead(b.vramDMA.source+uint16(i)))
	}
	b.vramDMA.source += 16
	b.vramDMA.dest += 16
	b.vramDMA.blocksRemaining--
	b.hdmaFreezeTicks = vramDMATicksPerBlock
	if b.vramDMA.blocksRemaining == 0 {
		b.vramDMA.mode = vramDMAIdle
		b.setHDMA5(0xFF)
	} else {
		b.setHDMA5(uint8(b.vramDMA.blocksRemaining-1) & 0x7F)
	}
}

// TickVRAMDMAFreeze advances the CPU-freeze countdown for an in-progress
// VRAM DMA block copy by one tick.
func (b *Bus) TickVRAMDMAFreeze() {
	if b.hdmaFreezeTicks > 0 {
		b.hdmaFreezeTicks--
	}
}

// IsFrozenForDMA reports whether the CPU must not execute this tick
// because a VRAM DMA block copy is in progress.
func (b *Bus) IsFrozenForDMA() bool {
	return b.hdmaFreezeTicks > 0
}
