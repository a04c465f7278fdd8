package video

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrel-oss/pocketgb/gb/addr"
	"github.com/kestrel-oss/pocketgb/gb/display"
	"github.com/kestrel-oss/pocketgb/gb/memory"
)

func newTestPPU() (*PPU, *memory.Bus) {
	bus := memory.New(false)
	bus.Write(addr.LCDC, 0x80) // LCD on, everything else off
	fb := display.New()
	return New(bus, fb), bus
}

func TestPPUModeSequencePerLine(t *testing.T) {
	p, bus := newTestPPU()

	for i := 0; i < ticksOAMScan; i++ {
		p.Tick(false)
	}
	assert.Equal(t, Draw, p.mode)

	for i := 0; i < ticksDraw; i++ {
		p.Tick(false)
	}
	assert.Equal(t, HBlank, p.mode)

	for i := 0; i < ticksHBlank; i++ {
		p.Tick(false)
	}
	assert.Equal(t, OAMScan, p.mode, "next line")
	assert.Equal(t, uint8(1), bus.Read(addr.LY))
}

func TestPPUEntersVBlankAfterVisibleLines(t *testing.T) {
	p, bus := newTestPPU()

	for line := 0; line < visibleLines; line++ {
		for i := 0; i < ticksPerLine; i++ {
			p.Tick(false)
		}
	}

	assert.Equal(t, VBlank, p.mode)
	assert.Equal(t, uint8(visibleLines), bus.Read(addr.LY))
	assert.NotZero(t, bus.IF()&uint8(addr.VBlank), "expected VBlank interrupt requested on entering VBlank")
}

func TestPPUFrameWrapsLineCounter(t *testing.T) {
	p, bus := newTestPPU()

	for line := 0; line < totalLines; line++ {
		for i := 0; i < ticksPerLine; i++ {
			p.Tick(false)
		}
	}

	assert.Equal(t, OAMScan, p.mode)
	assert.Equal(t, uint8(0), bus.Read(addr.LY))
}

func TestPPUDisabledLCDNeverAdvances(t *testing.T) {
	bus := memory.New(false)
	bus.Write(addr.LCDC, 0x00) // LCD off
	fb := display.New()
	p := New(bus, fb)

	for i := 0; i < ticksPerLine*2; i++ {
		p.Tick(false)
	}
	assert.Zero(t, p.lineTick, "PPU frozen while LCD disabled")
}

func TestPPUOAMScanSelectsAtMostTenSprites(t *testing.T) {
	p, bus := newTestPPU()
	p.line = 50
	bus.SetPPUMode(memory.ModeHBlank) // OAM is write-protected during OAMScan/Draw

	for i := 0; i < 40; i++ {
		base := 0xFE00 + uint16(i*4)
		bus.Write(base, 66) // Y placed so screenY(50) falls within [top, top+8)
		bus.Write(base+1, uint8(8+i))
		bus.Write(base+2, 0)
		bus.Write(base+3, 0)
	}

	selected := p.scanOAM()
	assert.Len(t, selected, 10, "hardware's per-line cap")
}

func TestPPUOAMScanExcludesOutOfRangeSprites(t *testing.T) {
	p, bus := newTestPPU()
	p.line = 0
	bus.SetPPUMode(memory.ModeHBlank)

	bus.Write(0xFE00, 200) // top = 200-16 = 184, far off line 0
	bus.Write(0xFE01, 10)

	selected := p.scanOAM()
	assert.Empty(t, selected, "sprite y out of range for this line")
}

func TestPPUOAMScanSortsByAscendingXInDMGMode(t *testing.T) {
	p, bus := newTestPPU()
	p.line = 50
	bus.SetPPUMode(memory.ModeHBlank)

	bus.Write(0xFE00, 66)
	bus.Write(0xFE01, 100)
	bus.Write(0xFE04, 66)
	bus.Write(0xFE05, 20)

	selected := p.scanOAM()
	if assert.Len(t, selected, 2) {
		assert.Equal(t, uint8(20), selected[0].x)
		assert.Equal(t, uint8(100), selected[1].x)
	}
}
