package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func makeBankedROM(banks int) []uint8 {
	rom := make([]uint8, banks*0x4000)
	for b := 0; b < banks; b++ {
		for i := 0; i < 0x4000; i++ {
			rom[b*0x4000+i] = uint8(b)
		}
	}
	return rom
}

func TestMBC1BankZeroFixed(t *testing.T) {
	mbc := NewMBC1(makeBankedROM(4), 0)
	assert.Equal(t, uint8(0), mbc.ReadROM(0x0000))
}

func TestMBC1BankSwitching(t *testing.T) {
	mbc := NewMBC1(makeBankedROM(4), 0)

	mbc.WriteROM(0x2000, 2)
	assert.Equal(t, uint8(2), mbc.ReadROM(0x4000))

	mbc.WriteROM(0x2000, 3)
	assert.Equal(t, uint8(3), mbc.ReadROM(0x4000))
}

func TestMBC1BankZeroWriteForcedToOne(t *testing.T) {
	mbc := NewMBC1(makeBankedROM(4), 0)
	mbc.WriteROM(0x2000, 0) // writing 0 to ROM bank select forces bank 1
	assert.Equal(t, uint8(1), mbc.ReadROM(0x4000))
}

func TestMBC1RAMDisabledByDefault(t *testing.T) {
	mbc := NewMBC1(make([]uint8, 0x8000), 1)
	assert.Equal(t, uint8(0xFF), mbc.ReadRAM(0xA000))
}

func TestMBC1RAMEnableWriteRead(t *testing.T) {
	mbc := NewMBC1(make([]uint8, 0x8000), 1)

	mbc.WriteROM(0x0000, 0x0A) // enable RAM
	mbc.WriteRAM(0xA000, 0x42)
	assert.Equal(t, uint8(0x42), mbc.ReadRAM(0xA000))

	mbc.WriteROM(0x0000, 0x00) // disable RAM
	assert.Equal(t, uint8(0xFF), mbc.ReadRAM(0xA000))
}

func TestMBC1BankSelectWrapsPastROMSize(t *testing.T) {
	mbc := NewMBC1(makeBankedROM(4), 0) // only 4 banks, selecting bank 5 must wrap

	mbc.WriteROM(0x2000, 5)
	assert.Equal(t, uint8(1), mbc.ReadROM(0x4000), "bank 5 %% 4 banks")
}

func TestMBC1RAMPersisterRoundTrip(t *testing.T) {
	mbc := NewMBC1(make([]uint8, 0x8000), 1)
	mbc.WriteROM(0x0000, 0x0A)
	mbc.WriteRAM(0xA000, 0x99)

	saved := mbc.SaveRAM()

	other := NewMBC1(make([]uint8, 0x8000), 1)
	other.LoadRAM(saved)
	other.WriteROM(0x0000, 0x0A)
	assert.Equal(t, uint8(0x99), other.ReadRAM(0xA000))
}
