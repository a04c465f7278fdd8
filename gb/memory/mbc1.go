package memory

// MBC1 implements the registers and banking semantics of spec §4.2:
// RAM_ENABLE, ROM_BANK_LO (5 bits, 0 forced to 1), RAM_BANK_OR_ROM_HI (2
// bits), and MODE (simple/advanced).
type MBC1 struct {
	rom []uint8
	ram []uint8

	ramEnable      bool
	romBankLo      uint8 // 5 bits, never stored as 0 (forced to 1)
	ramBankOrHiRom uint8 // 2 bits
	advancedMode   bool
}

func NewMBC1(rom []uint8, ramBanks int) *MBC1 {
	size := ramBanks * 0x2000
	if size == 0 {
		size = 1 // keep indexing harmless even with no RAM declared
	}
	return &MBC1{
		rom:       rom,
		ram:       make([]uint8, size),
		romBankLo: 1,
	}
}

func (m *MBC1) romBankNumber() uint16 {
	lo := m.romBankLo
	if lo == 0 {
		lo = 1
	}
	return uint16(m.ramBankOrHiRom)<<5 | uint16(lo)
}

func (m *MBC1) ReadROM(addr uint16) uint8 {
	var physBank uint16
	switch {
	case addr <= 0x3FFF:
		if m.advancedMode {
			physBank = uint16(m.ramBankOrHiRom) << 5
		} else {
			physBank = 0
		}
		offset := uint32(physBank)*0x4000 + uint32(addr)
		return m.readROMOffset(offset)
	default: // 0x4000-0x7FFF
		physBank = m.romBankNumber()
		offset := uint32(physBank)*0x4000 + uint32(addr-0x4000)
		return m.readROMOffset(offset)
	}
}

func (m *MBC1) readROMOffset(offset uint32) uint8 {
	if int(offset) >= len(m.rom) {
		if len(m.rom) == 0 {
			return 0xFF
		}
		offset %= uint32(len(m.rom))
	}
	return m.rom[offset]
}

func (m *MBC1) WriteROM(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramEnable = value&0x0F == 0x0A
	case addr <= 0x3FFF:
		bank := value & 0x1F
		if bank == 0 {
			bank = 1
		}
		m.romBankLo = bank
	case addr <= 0x5FFF:
		m.ramBankOrHiRom = value & 0x03
	case addr <= 0x7FFF:
		m.advancedMode = value&0x01 != 0
	}
}

func (m *MBC1) ReadRAM(addr uint16) uint8 {
	if !m.ramEnable {
		return 0xFF
	}
	bank := uint32(0)
	if m.advancedMode {
		bank = uint32(m.ramBankOrHiRom)
	}
	offset := bank*0x2000 + uint32(addr-0xA000)
	if int(offset) >= len(m.ram) {
		return 0xFF
	}
	return m.ram[offset]
}

func (m *MBC1) WriteRAM(addr uint16, value uint8) {
	if !m.ramEnable {
		return
	}
	bank := uint32(0)
	if m.advancedMode {
		bank = uint32(m.ramBankOrHiRom)
	}
	offset := bank*0x2000 + uint32(addr-0xA000)
	if int(offset) >= len(m.ram) {
		return
	}
	m.ram[offset] = value
}

// SaveRAM and LoadRAM implement RAMPersister for the save subsystem.
func (m *MBC1) SaveRAM() []byte { return m.ram }
func (m *MBC1) LoadRAM(data []byte) { copy(m.ram, data) }
