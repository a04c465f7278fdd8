package memory

import "time"

// rtcMapping selects what the 0xA000-0xBFFF window currently exposes.
type rtcMapping uint8

const (
	mapRAMBank rtcMapping = iota
	mapSeconds
	mapMinutes
	mapHours
	mapDayLow
	mapDayHigh
)

// MBC3 adds a real-time clock to the MBC1-style banking scheme (spec
// §4.2). The register at 0x4000-0x5FFF selects either a RAM bank (0-7) or
// one of the five RTC registers. Writing 0x00 then 0x01 to the latch
// register (0x6000-0x7FFF) snapshots the host wall clock; subsequent RTC
// register reads decompose that snapshot into seconds/minutes/hours/days.
type MBC3 struct {
	rom []uint8
	ram []uint8

	ramRTCEnable bool
	romBank      uint8 // 7 bits, 0 forced to 1
	ramBank      uint8 // 0-7 when mapping == mapRAMBank
	mapping      rtcMapping

	hasRTC bool

	latched     bool
	latchedTime time.Time
	lastLatchW  uint8 // last byte written to the latch register
	epoch       time.Time
}

func NewMBC3(rom []uint8, ramBanks int, hasRTC bool) *MBC3 {
	size := ramBanks * 0x2000
	if size == 0 {
		size = 1
	}
	return &MBC3{
		rom:     rom,
		ram:     make([]uint8, size),
		romBank: 1,
		hasRTC:  hasRTC,
		epoch:   time.Now(),
	}
}

func (m *MBC3) ReadROM(addr uint16) uint8 {
	if addr <= 0x3FFF {
		return m.readROMOffset(uint32(addr))
	}
	bank := m.romBank
	if bank == 0 {
		bank = 1
	}
	offset := uint32(bank)*0x4000 + uint32(addr-0x4000)
	return m.readROMOffset(offset)
}

func (m *MBC3) readROMOffset(offset uint32) uint8 {
	if int(offset) >= len(m.rom) {
		if len(m.rom) == 0 {
			return 0xFF
		}
		offset %= uint32(len(m.rom))
	}
	return m.rom[offset]
}

func (m *MBC3) WriteROM(addr uint16, value uint8) {
	switch {
	case addr <= 0x1FFF:
		m.ramRTCEnable = value&0x0F == 0x0A
	case addr <= 0x3FFF:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case addr <= 0x5FFF:
		switch {
		case value <= 0x07:
			m.mapping = mapRAMBank
			m.ramBank = value
		case value == 0x08:
			m.mapping = mapSeconds
		case value == 0x09:
			m.mapping = mapMinutes
		case value == 0x0A:
			m.mapping = mapHours
		case value == 0x0B:
			m.mapping = mapDayLow
		case value == 0x0C:
			m.mapping = mapDayHigh
		}
	case addr <= 0x7FFF:
		if m.lastLatchW == 0x00 && value == 0x01 {
			m.latchedTime = time.Now()
			m.latched = true
		}
		m.lastLatchW = value
	}
}

func (m *MBC3) currentSample() time.Time {
	if m.latched {
		return m.latchedTime
	}
	return time.Now()
}

func (m *MBC3) ReadRAM(addr uint16) uint8 {
	if !m.ramRTCEnable {
		return 0xFF
	}
	switch m.mapping {
	case mapRAMBank:
		offset := uint32(m.ramBank)*0x2000 + uint32(addr-0xA000)
		if int(offset) >= len(m.ram) {
			return 0xFF
		}
		return m.ram[offset]
	case mapSeconds, mapMinutes, mapHours, mapDayLow, mapDayHigh:
		if !m.hasRTC {
			return 0xFF
		}
		elapsed := m.currentSample().Sub(m.epoch)
		secs := int64(elapsed.Seconds())
		switch m.mapping {
		case mapSeconds:
			return uint8(secs % 60)
		case mapMinutes:
			return uint8((secs / 60) % 60)
		case mapHours:
			return uint8((secs / 3600) % 24)
		case mapDayLow:
			return uint8((secs / 86400) & 0xFF)
		case mapDayHigh:
			days := secs / 86400
			return uint8((days >> 8) & 0x01)
		}
	}
	return 0xFF
}

func (m *MBC3) WriteRAM(addr uint16, value uint8) {
	if !m.ramRTCEnable || m.mapping != mapRAMBank {
		return
	}
	offset := uint32(m.ramBank)*0x2000 + uint32(addr-0xA000)
	if int(offset) >= len(m.ram) {
		return
	}
	m.ram[offset] = value
}

// SaveRAM and LoadRAM implement RAMPersister for the save subsystem. The
// RTC registers are not persisted; only the clock's wall-time latch
// point would need to be, and the spec scopes RTC persistence out.
func (m *MBC3) SaveRAM() []byte     { return m.ram }
func (m *MBC3) LoadRAM(data []byte) { copy(m.ram, data) }
