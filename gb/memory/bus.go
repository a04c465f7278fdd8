// Package memory implements the address map (C1), the cartridge MBC
// abstraction (C2), the I/O register file (C3), the timer/divider (C6)
// and the DMA engines (C7). These are bundled into a single Bus type,
// mirroring the teacher's MMU: all of them are small, tightly-coupled
// pieces of the same "what does this address do" dispatch table, and
// splitting them into separate packages would only add import-cycle
// friction (the PPU and CPU both need direct, fast access to the same
// underlying arrays).
package memory

import (
	"fmt"
	"log/slog"

	"github.com/kestrel-oss/pocketgb/gb/addr"
	"github.com/kestrel-oss/pocketgb/gb/audio"
	"github.com/kestrel-oss/pocketgb/gb/gberr"
)

// PPUMode mirrors video.Mode without importing the video package (which
// imports memory); the PPU pushes its current mode in here each
// transition so the I/O register file can compose STAT/LY and decide
// VRAM/OAM read visibility during Draw (spec §4.1, §4.8, §7).
type PPUMode uint8

const (
	ModeHBlank PPUMode = iota
	ModeVBlank
	ModeOAMScan
	ModeDraw
)

// SerialPort is the minimal interface for whatever is listening on
// SB/SC. Serial-link communication itself is a spec Non-goal; this only
// keeps the registers addressable and observable.
type SerialPort interface {
	Write(addr uint16, value byte)
	Read(addr uint16) byte
}

// Bus is the Game Boy address space: ROM/MBC, VRAM, WRAM, OAM, HRAM, the
// I/O register file, and the owned Timer/DMA/interrupt state.
type Bus struct {
	cart *Cartridge
	mbc  Controller

	vram      [2][0x2000]uint8
	vbk       uint8
	wram      [8][0x1000]uint8
	wbk       uint8
	oam       [160]uint8
	unusedOAM [0x60]uint8 // 0xFEA0-0xFEFF scratch, always reads 0xFF
	hram      [0x7F]uint8
	ie        uint8

	ioRegs [0x80]uint8 // backing store for 0xFF00-0xFF7F

	APU *audio.APU

	timer   Timer
	oamDMA  oamDMAState
	vramDMA vramDMAState

	hdma1, hdma2, hdma3, hdma4 uint8
	hdmaFreezeTicks            int

	pressedMask  uint8 // packed per input.Key.Bit(), 1=pressed
	joypadSelect uint8 // P1 bits 4-5 as last written

	serial SerialPort

	cgb             bool
	doubleSpeed     bool
	keySwitchArmed  bool
	bootROMDisabled bool

	ppuMode    PPUMode
	ly         uint8
	lyc        uint8
	statIEMask uint8 // STAT bits 3-6 as last written
	lycEqual   bool

	divApuCount uint64

	bgPaletteRAM  [64]uint8
	objPaletteRAM [64]uint8
	bcpsIndex     uint8
	bcpsAutoInc   bool
	ocpsIndex     uint8
	ocpsAutoInc   bool
	opri          uint8
}

// New creates a bus with no cartridge loaded (an empty ROM-only image).
func New(cgb bool) *Bus {
	b := &Bus{cart: NewEmptyCartridge(), mbc: NewNoMBC(nil), cgb: cgb}
	b.APU = audio.New()
	b.ioRegs = defaultIORegisters(cgb)
	return b
}

// NewWithCartridge creates a bus with the given cartridge loaded and its
// MBC constructed from the header.
func NewWithCartridge(cart *Cartridge, cgb bool) (*Bus, error) {
	b := New(cgb)
	b.cart = cart

	switch cart.MBCType {
	case MBCNone:
		b.mbc = NewNoMBC(cart.ROM)
	case MBC1Type:
		b.mbc = NewMBC1(cart.ROM, cart.RAMBanks)
	case MBC3Type:
		b.mbc = NewMBC3(cart.ROM, cart.RAMBanks, cart.HasRTC)
	default:
		return nil, fmt.Errorf("bus: %w", gberr.ErrUnknownCartridgeType)
	}

	slog.Info("cartridge loaded", "title", cart.Title, "mbc", cart.MBCType, "ram_banks", cart.RAMBanks, "has_rtc", cart.HasRTC)
	return b, nil
}

// SetSerialPort installs the SB/SC observer.
func (b *Bus) SetSerialPort(s SerialPort) { b.serial = s }

// Read dispatches a CPU-visible memory read across the full address
// space (spec C1).
func (b *Bus) Read(address uint16) uint8 {
	switch {
	case address <= 0x7FFF:
		return b.mbc.ReadROM(address)
	case address <= 0x9FFF:
		if b.ppuMode == ModeDraw {
			return 0xFF
		}
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
	case address <= 0xFDFF: // echo RAM: programmer error per spec §7
		panic(fmt.Errorf("bus: read 0x%04X: %w", address, gberr.ErrEchoRAMAccess))
	case address <= 0xFE9F:
		if b.ppuMode == ModeDraw || b.ppuMode == ModeOAMScan {
			return 0xFF
		}
		return b.oam[address-0xFE00]
	case address <= 0xFEFF:
		return 0xFF
	case address <= 0xFF7F:
		return b.readIO(address)
	case address <= 0xFFFE:
		return b.hram[address-0xFF80]
	default: // 0xFFFF
		return b.ie
	}
}

// Write dispatches a CPU-visible memory write across the full address
// space (spec C1).
func (b *Bus) Write(address uint16, value uint8) {
	switch {
	case address <= 0x7FFF:
		b.mbc.WriteROM(address, value)
	case address <= 0x9FFF:
		if b.ppuMode == ModeDraw {
			return
		}
		bank := 0
		if b.cgb {
			bank = int(b.vbk & 0x01)
		}
		b.vram[bank][address-0x8000] = value
	case address <= 0xBFFF:
		b.mbc.WriteRAM(address, value)
	case address <= 0xCFFF:
		b.wram[0][address-0xC000] = value
	case address <= 0xDFFF:
		b.wram[b.wramBank()][address-0xD000] = value
	case address <= 0xFDFF:
		panic(fmt.Errorf("bus: write 0x%04X: %w", address, gberr.ErrEchoRAMAccess))
	case address <= 0xFE9F:
		if b.ppuMode == ModeDraw || b.ppuMode == ModeOAMScan {
			return
		}
		b.oam[address-0xFE00] = value
	case address <= 0xFEFF:
		// unusable range, writes swallowed
	case address <= 0xFF7F:
		b.writeIO(address, value)
	case address <= 0xFFFE:
		b.hram[address-0xFF80] = value
	default: // 0xFFFF
		b.ie = value & 0x1F
	}
}

func (b *Bus) wramBank() int {
	if !b.cgb {
		return 1
	}
	bank := b.wbk & 0x07
	if bank == 0 {
		bank = 1
	}
	return int(bank)
}

// ReadVRAMBank reads VRAM ignoring the current Draw-mode block, used by
// the PPU which is always allowed to see the data it is about to render.
func (b *Bus) ReadVRAMBank(bank int, offset uint16) uint8 {
	return b.vram[bank&1][offset]
}

// OAMEntry returns the 4 raw bytes of OAM entry i (0-39), bypassing the
// Draw/OAMScan visibility rule: the PPU is always allowed to see OAM.
func (b *Bus) OAMEntry(i int) [4]uint8 {
	o := i * 4
	return [4]uint8{b.oam[o], b.oam[o+1], b.oam[o+2], b.oam[o+3]}
}

// --- interrupt controller glue (C5): IE/IF live here since they are
// plain I/O-mapped registers; priority selection itself is the stateless
// gb/interrupt package, consulted by the CPU. ---

func (b *Bus) IE() uint8 { return b.ie }
func (b *Bus) IF() uint8 { return b.ioRegs[addr.IF-0xFF00] & 0x1F }

// RequestInterrupt sets the IF bit for the given interrupt source.
func (b *Bus) RequestInterrupt(i addr.Interrupt) {
	b.ioRegs[addr.IF-0xFF00] = b.IF() | uint8(i)
}

// ClearInterrupt clears the IF bit for the given interrupt source, called
// by the CPU when it enters that interrupt's handler.
func (b *Bus) ClearInterrupt(i addr.Interrupt) {
	b.ioRegs[addr.IF-0xFF00] = b.IF() &^ uint8(i)
}

// --- PPU glue: mode/LY/STAT composition lives here (C3) even though the
// PPU (C8) is what decides when transitions happen. ---

// SetPPUMode updates the current mode for Draw/OAMScan memory-visibility
// rules and recomposes STAT, raising LCDSTAT when the corresponding
// source is enabled (spec §4.5, §4.8).
func (b *Bus) SetPPUMode(mode PPUMode) {
	b.ppuMode = mode
	b.recomposeSTAT()

	fire := false
	switch mode {
	case ModeHBlank:
		fire = b.statIEMask&(1<<3) != 0
	case ModeVBlank:
		fire = b.statIEMask&(1<<4) != 0
		b.RequestInterrupt(addr.VBlank)
	case ModeOAMScan:
		fire = b.statIEMask&(1<<5) != 0
	}
	if fire {
		b.RequestInterrupt(addr.LCDSTAT)
	}
}

// SetLY updates the current scanline and its LYC coincidence, raising
// LCDSTAT when the coincidence source is enabled (spec §4.6 testable
// property "STAT-LYC").
func (b *Bus) SetLY(line uint8) {
	b.ly = line
	b.lycEqual = b.ly == b.lyc
	b.recomposeSTAT()
	if b.lycEqual && b.statIEMask&(1<<6) != 0 {
		b.RequestInterrupt(addr.LCDSTAT)
	}
}

func (b *Bus) recomposeSTAT() {
	v := uint8(b.ppuMode) & 0x03
	if b.lycEqual {
		v |= 0x04
	}
	v |= b.statIEMask
	v |= 0x80 // unused bit reads 1
	b.ioRegs[addr.STAT-0xFF00] = v
}

func (b *Bus) ReadLY() uint8 { return b.ly }

// TickSystem advances the timer/divider, the APU's tick-parity period
// counters and DIV-APU-driven timers, and the DMA engines, once per
// T-cycle (spec §4.10's run_tick orchestration, driven by gb/gameboy).
func (b *Bus) TickSystem() {
	overflowed, pulse := b.timer.Tick(b.doubleSpeed)
	if overflowed {
		b.RequestInterrupt(addr.Timer)
	}

	b.APU.Tick()
	if pulse {
		b.divApuCount++
		b.APU.OnDivApuPulse(b.divApuCount)
	}

	b.TickOAMDMA()
	b.TickVRAMDMAFreeze()
}

// BusState is a flattened, fully-exported snapshot of every piece of
// state Bus owns, used by the save subsystem's quick-save slots. Fields
// mirror Bus's own layout one for one; DMA in-flight countdowns are
// included so resuming mid-transfer is faithful, but the source
// cartridge ROM/MBC registers are snapshotted separately since MBC state
// is the controller's own concern.
type BusState struct {
	VRAM [2][0x2000]uint8
	VBK  uint8
	WRAM [8][0x1000]uint8
	WBK  uint8
	OAM  [160]uint8
	HRAM [0x7F]uint8
	IE   uint8

	IORegs [0x80]uint8

	Timer TimerState

	OAMDMAActive         bool
	OAMDMATicksRemaining int

	VRAMDMAMode            uint8
	VRAMDMASource          uint16
	VRAMDMADest            uint16
	VRAMDMABlocksRemaining int
	HDMAFreezeTicks        int
	HDMA1, HDMA2, HDMA3, HDMA4 uint8

	PressedMask  uint8
	JoypadSelect uint8

	DoubleSpeed     bool
	KeySwitchArmed  bool
	BootROMDisabled bool

	PPUMode    PPUMode
	LY, LYC    uint8
	StatIEMask uint8
	LYCEqual   bool

	DivApuCount uint64

	BGPaletteRAM, ObjPaletteRAM [64]uint8
	BCPSIndex, OCPSIndex        uint8
	BCPSAutoInc, OCPSAutoInc    bool
	OPRI                        uint8
}

// State captures a snapshot of the bus's own state. The cartridge (ROM
// image, MBC registers, external RAM) and the APU are not included;
// external RAM is available separately via BatteryRAM.
func (b *Bus) State() BusState {
	return BusState{
		VRAM: b.vram, VBK: b.vbk, WRAM: b.wram, WBK: b.wbk, OAM: b.oam, HRAM: b.hram, IE: b.ie,
		IORegs: b.ioRegs, Timer: b.timer.State(),
		OAMDMAActive: b.oamDMA.active, OAMDMATicksRemaining: b.oamDMA.ticksRemaining,
		VRAMDMAMode: uint8(b.vramDMA.mode), VRAMDMASource: b.vramDMA.source, VRAMDMADest: b.vramDMA.dest,
		VRAMDMABlocksRemaining: b.vramDMA.blocksRemaining, HDMAFreezeTicks: b.hdmaFreezeTicks,
		HDMA1: b.hdma1, HDMA2: b.hdma2, HDMA3: b.hdma3, HDMA4: b.hdma4,
		PressedMask: b.pressedMask, JoypadSelect: b.joypadSelect,
		DoubleSpeed: b.doubleSpeed, KeySwitchArmed: b.keySwitchArmed, BootROMDisabled: b.bootROMDisabled,
		PPUMode: b.ppuMode, LY: b.ly, LYC: b.lyc, StatIEMask: b.statIEMask, LYCEqual: b.lycEqual,
		DivApuCount: b.divApuCount,
		BGPaletteRAM: b.bgPaletteRAM, ObjPaletteRAM: b.objPaletteRAM,
		BCPSIndex: b.bcpsIndex, OCPSIndex: b.ocpsIndex, BCPSAutoInc: b.bcpsAutoInc, OCPSAutoInc: b.ocpsAutoInc,
		OPRI: b.opri,
	}
}

// Restore replaces the bus's state with a previously-captured snapshot.
func (b *Bus) Restore(s BusState) {
	b.vram, b.vbk, b.wram, b.wbk, b.oam, b.hram, b.ie = s.VRAM, s.VBK, s.WRAM, s.WBK, s.OAM, s.HRAM, s.IE
	b.ioRegs = s.IORegs
	b.timer.Restore(s.Timer)
	b.oamDMA = oamDMAState{active: s.OAMDMAActive, ticksRemaining: s.OAMDMATicksRemaining}
	b.vramDMA = vramDMAState{
		mode: vramDMAMode(s.VRAMDMAMode), source: s.VRAMDMASource, dest: s.VRAMDMADest,
		blocksRemaining: s.VRAMDMABlocksRemaining,
	}
	b.hdmaFreezeTicks = s.HDMAFreezeTicks
	b.hdma1, b.hdma2, b.hdma3, b.hdma4 = s.HDMA1, s.HDMA2, s.HDMA3, s.HDMA4
	b.pressedMask, b.joypadSelect = s.PressedMask, s.JoypadSelect
	b.doubleSpeed, b.keySwitchArmed, b.bootROMDisabled = s.DoubleSpeed, s.KeySwitchArmed, s.BootROMDisabled
	b.ppuMode, b.ly, b.lyc, b.statIEMask, b.lycEqual = s.PPUMode, s.LY, s.LYC, s.StatIEMask, s.LYCEqual
	b.divApuCount = s.DivApuCount
	b.bgPaletteRAM, b.objPaletteRAM = s.BGPaletteRAM, s.ObjPaletteRAM
	b.bcpsIndex, b.ocpsIndex, b.bcpsAutoInc, b.ocpsAutoInc = s.BCPSIndex, s.OCPSIndex, s.BCPSAutoInc, s.OCPSAutoInc
	b.opri = s.OPRI
}

// BatteryRAM returns the cartridge's external RAM for save-file
// persistence, and whether the loaded MBC has any (NoMBC doesn't).
func (b *Bus) BatteryRAM() ([]byte, bool) {
	p, ok := b.mbc.(RAMPersister)
	if !ok {
		return nil, false
	}
	return p.SaveRAM(), true
}

// LoadBatteryRAM restores previously-saved external RAM, a no-op if the
// loaded MBC has none.
func (b *Bus) LoadBatteryRAM(data []byte) {
	if p, ok := b.mbc.(RAMPersister); ok {
		p.LoadRAM(data)
	}
}

// CGB reports whether the bus was constructed in CGB mode.
func (b *Bus) CGB() bool { return b.cgb }

// DoubleSpeed reports whether the CGB double-speed mode is active.
func (b *Bus) DoubleSpeed() bool { return b.doubleSpeed }

// CommitSpeedSwitch completes the CGB KEY1 double-speed handshake: a KEY1
// write with bit 0 set arms the switch, and the CPU's STOP instruction
// commits it.
func (b *Bus) CommitSpeedSwitch() {
	if !b.keySwitchArmed {
		return
	}
	b.doubleSpeed = !b.doubleSpeed
	b.keySwitchArmed = false
}

func (b *Bus) IsSpeedSwitchArmed() bool { return b.keySwitchArmed }

// BootROMDisabled reports whether the boot ROM has been unmapped.
func (b *Bus) BootROMDisabled() bool { return b.bootROMDisabled }

// SeedDividerForModel initializes divider/timer state to the canonical
// post-boot-ROM value for the given model (spec §4.6 boot behavior).
func (b *Bus) SeedDividerForModel(seed uint16) { b.timer.SetDividerSeed(seed) }

// --- CGB palette RAM (BCPS/BCPD, OCPS/OCPD), spec §4.8 "supplemented
// features". Each is 64 bytes: 8 palettes x 4 colors x 2 bytes (RGB555). ---

func (b *Bus) WriteBCPS(v uint8) { b.bcpsIndex = v & 0x3F; b.bcpsAutoInc = v&0x80 != 0 }
func (b *Bus) ReadBCPS() uint8 {
	v := b.bcpsIndex
	if b.bcpsAutoInc {
		v |= 0x80
	}
	return v | 0x40
}

func (b *Bus) WriteBCPD(v uint8) {
	b.bgPaletteRAM[b.bcpsIndex] = v
	if b.bcpsAutoInc {
		b.bcpsIndex = (b.bcpsIndex + 1) & 0x3F
	}
}
func (b *Bus) ReadBCPD() uint8 { return b.bgPaletteRAM[b.bcpsIndex] }

func (b *Bus) WriteOCPS(v uint8) { b.ocpsIndex = v & 0x3F; b.ocpsAutoInc = v&0x80 != 0 }
func (b *Bus) ReadOCPS() uint8 {
	v := b.ocpsIndex
	if b.ocpsAutoInc {
		v |= 0x80
	}
	return v | 0x40
}

func (b *Bus) WriteOCPD(v uint8) {
	b.objPaletteRAM[b.ocpsIndex] = v
	if b.ocpsAutoInc {
		b.ocpsIndex = (b.ocpsIndex + 1) & 0x3F
	}
}
func (b *Bus) ReadOCPD() uint8 { return b.objPaletteRAM[b.ocpsIndex] }

// BGPaletteColor and ObjPaletteColor return the raw 15-bit RGB555 value
// for a CGB palette/color-index pair, read by the PPU.
func (b *Bus) BGPaletteColor(palette, color uint8) uint16 {
	o := int(palette)*8 + int(color)*2
	return uint16(b.bgPaletteRAM[o]) | uint16(b.bgPaletteRAM[o+1])<<8
}

func (b *Bus) ObjPaletteColor(palette, color uint8) uint16 {
	o := int(palette)*8 + int(color)*2
	return uint16(b.objPaletteRAM[o]) | uint16(b.objPaletteRAM[o+1])<<8
}

func (b *Bus) WriteOPRI(v uint8) { b.opri = v & 0x01 }
func (b *Bus) ReadOPRI() uint8   { return b.opri | 0xFE }
func (b *Bus) DMGSpritePriority() bool { return b.opri&0x01 != 0 }

// --- joypad glue ---

// SetPressedKeys replaces the full pressed-button state from a packed
// input.PackedButtons byte, as delivered by the UpdatePressedButtons host
// command (spec §6). Any newly-pressed key requests the Joypad
// interrupt, matching real hardware's P1 falling-edge behavior.
func (b *Bus) SetPressedKeys(packed uint8) {
	newlyPressed := packed &^ b.pressedMask
	b.pressedMask = packed
	if newlyPressed != 0 {
		b.RequestInterrupt(addr.Joypad)
	}
}
