package memory

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrel-oss/pocketgb/gb/addr"
)

func TestBusWRAMReadWrite(t *testing.T) {
	b := New(false)
	b.Write(0xC010, 0x42)
	assert.Equal(t, uint8(0x42), b.Read(0xC010))
}

func TestBusHRAMReadWrite(t *testing.T) {
	b := New(false)
	b.Write(0xFF90, 0x7E)
	assert.Equal(t, uint8(0x7E), b.Read(0xFF90))
}

func TestBusVRAMHiddenDuringDraw(t *testing.T) {
	b := New(false)
	b.Write(0x8000, 0x11)
	assert.Equal(t, uint8(0x11), b.Read(0x8000))

	b.SetPPUMode(ModeDraw)
	assert.Equal(t, uint8(0xFF), b.Read(0x8000), "VRAM reads as 0xFF during Draw")
	b.Write(0x8000, 0x22) // should be swallowed

	b.SetPPUMode(ModeHBlank)
	assert.Equal(t, uint8(0x11), b.Read(0x8000), "write during Draw should have been swallowed")
}

func TestBusOAMHiddenDuringOAMScanAndDraw(t *testing.T) {
	b := New(false)
	b.SetPPUMode(ModeHBlank)
	b.Write(0xFE10, 0x55)
	assert.Equal(t, uint8(0x55), b.Read(0xFE10))

	b.SetPPUMode(ModeOAMScan)
	assert.Equal(t, uint8(0xFF), b.Read(0xFE10))

	b.SetPPUMode(ModeDraw)
	assert.Equal(t, uint8(0xFF), b.Read(0xFE10))
}

func TestBusUnusedRangeAlwaysReadsFF(t *testing.T) {
	b := New(false)
	assert.Equal(t, uint8(0xFF), b.Read(0xFEA0))
}

func TestBusEchoRAMPanics(t *testing.T) {
	b := New(false)
	defer func() {
		assert.NotNil(t, recover(), "expected Read(0xE000) to panic on echo RAM access")
	}()
	b.Read(0xE000)
}

func TestBusSTATLYCCoincidence(t *testing.T) {
	b := New(false)
	b.Write(addr.LYC, 42)
	b.SetLY(42)

	assert.NotZero(t, b.Read(addr.STAT)&0x04, "STAT coincidence bit should be set when LY == LYC")

	b.SetLY(43)
	assert.Zero(t, b.Read(addr.STAT)&0x04, "STAT coincidence bit should be clear when LY != LYC")
}

func TestBusSTATLYCRaisesLCDSTATWhenEnabled(t *testing.T) {
	b := New(false)
	b.Write(addr.STAT, 1<<6) // enable LYC interrupt source
	b.Write(addr.LYC, 10)

	b.SetLY(10)
	assert.NotZero(t, b.IF()&uint8(addr.LCDSTAT), "LCDSTAT should be requested on LYC coincidence with source enabled")
}

func TestBusOAMDMACopiesAndTicksDown(t *testing.T) {
	b := New(false)
	for i := 0; i < 160; i++ {
		b.wram[0][i] = uint8(i)
	}

	b.TriggerOAMDMA(0xC0)
	for i := 0; i < 160; i++ {
		got := b.OAMEntry(i / 4)
		assert.Equal(t, uint8(i), got[i%4], "OAM byte %d", i)
	}

	for i := 0; i < oamDMATicksNormal-1; i++ {
		b.TickOAMDMA()
	}
	assert.True(t, b.oamDMA.active, "expected OAM DMA still active one tick before completion")

	b.TickOAMDMA()
	assert.False(t, b.oamDMA.active, "expected OAM DMA to finish after its full tick budget")
}

func TestBusJoypadInterruptOnNewPress(t *testing.T) {
	b := New(false)
	b.SetPressedKeys(0x00)
	b.ClearInterrupt(addr.Joypad)

	b.SetPressedKeys(0x01)
	assert.NotZero(t, b.IF()&uint8(addr.Joypad), "expected Joypad interrupt on a newly-pressed key")
}

func TestBusNoJoypadInterruptWhenUnchanged(t *testing.T) {
	b := New(false)
	b.SetPressedKeys(0x01)
	b.ClearInterrupt(addr.Joypad)

	b.SetPressedKeys(0x01) // same mask, no new press
	assert.Zero(t, b.IF()&uint8(addr.Joypad))
}

func TestBusStateRestoreRoundTrip(t *testing.T) {
	b := New(false)
	b.Write(0xC000, 0x12)
	b.Write(0xFF90, 0x34)
	b.Write(addr.TIMA, 0x56)
	b.SetLY(5)

	saved := b.State()

	other := New(false)
	other.Restore(saved)

	assert.Equal(t, uint8(0x12), other.Read(0xC000))
	assert.Equal(t, uint8(0x34), other.Read(0xFF90))
	assert.Equal(t, uint8(0x56), other.Read(addr.TIMA))
	assert.Equal(t, uint8(5), other.ReadLY())
}

func TestBusBatteryRAMNoneForNoMBC(t *testing.T) {
	b := New(false)
	_, ok := b.BatteryRAM()
	assert.False(t, ok, "expected NoMBC to report no battery RAM")
}
