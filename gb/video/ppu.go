// Package video implements the scanline renderer (spec C8): the mode
// state machine, OAM scan, background/window/sprite composition, and
// DMG/CGB palette application.
package video

import (
	"github.com/kestrel-oss/pocketgb/gb/addr"
	"github.com/kestrel-oss/pocketgb/gb/display"
	"github.com/kestrel-oss/pocketgb/gb/memory"
)

const (
	ticksOAMScan = 80
	ticksDraw    = 172
	ticksHBlank  = 204
	ticksPerLine = ticksOAMScan + ticksDraw + ticksHBlank // 456
	visibleLines = 144
	totalLines   = 154
)

// Mode is an alias of memory.PPUMode, so the PPU passes its mode to the
// bus without conversion; video imports memory, never the reverse.
type Mode = memory.PPUMode

const (
	HBlank  = memory.ModeHBlank
	VBlank  = memory.ModeVBlank
	OAMScan = memory.ModeOAMScan
	Draw    = memory.ModeDraw
)

type objEntry struct {
	y, x, tile, attr uint8
	oamIndex         int
}

// PPU is the pixel-processing unit: one scanline is rendered in full on
// entry to Draw mode (spec §4.8's stated simplification).
type PPU struct {
	bus *memory.Bus
	fb  *display.FrameBuffer

	mode     Mode
	lineTick int
	line     uint8

	windowLineCounter uint8
	windowWasDrawn    bool

	selectedObjects []objEntry
}

func New(bus *memory.Bus, fb *display.FrameBuffer) *PPU {
	p := &PPU{bus: bus, fb: fb, mode: OAMScan}
	bus.SetPPUMode(OAMScan)
	return p
}

// FrameBuffer returns the framebuffer this PPU renders into.
func (p *PPU) FrameBuffer() *display.FrameBuffer { return p.fb }

func (p *PPU) lcdc() uint8 { return p.bus.Read(addr.LCDC) }
func (p *PPU) lcdEnabled() bool { return p.lcdc()&0x80 != 0 }

// Tick advances the PPU by one T-cycle, driving the OAMScan -> Draw ->
// HBlank -> (next line) / VBlank mode state machine (spec §4.8). halted
// reports whether the CPU is currently halted, which pauses an
// in-progress HBlank-gated VRAM DMA transfer (spec §4.7) rather than
// letting it keep stealing HBlank windows the halted CPU never sees.
func (p *PPU) Tick(halted bool) {
	if !p.lcdEnabled() {
		return
	}

	p.lineTick++

	switch p.mode {
	case OAMScan:
		if p.lineTick == ticksOAMScan {
			p.selectedObjects = p.scanOAM()
			p.enterMode(Draw, halted)
		}
	case Draw:
		if p.lineTick == ticksOAMScan+1 {
			p.renderScanline()
		}
		if p.lineTick == ticksOAMScan+ticksDraw {
			p.enterMode(HBlank, halted)
		}
	case HBlank:
		if p.lineTick == ticksPerLine {
			p.advanceLine()
		}
	case VBlank:
		if p.lineTick == ticksPerLine {
			p.advanceLine()
		}
	}
}

func (p *PPU) enterMode(m Mode, halted bool) {
	p.mode = m
	p.bus.SetPPUMode(m)
	if m == HBlank {
		p.bus.NotifyHBlankEntered(halted)
	}
}

func (p *PPU) advanceLine() {
	p.lineTick = 0
	p.line++

	if p.line == visibleLines {
		p.enterMode(VBlank, false)
		p.bus.SetLY(p.line)
		return
	}
	if p.line == totalLines {
		p.line = 0
		p.windowLineCounter = 0
	}

	p.bus.SetLY(p.line)
	if p.line < visibleLines {
		p.enterMode(OAMScan, false)
	}
}

// scanOAM implements spec §4.8's object selection: height-aware y-range
// test, first 10 kept, DMG stably sorted by ascending x unless CGB
// OAM-order (or OPRI-forced DMG order) applies.
func (p *PPU) scanOAM() []objEntry {
	tall := p.lcdc()&0x04 != 0
	height := uint8(8)
	if tall {
		height = 16
	}
	screenY := p.line

	var selected []objEntry
	for i := 0; i < 40 && len(selected) < 10; i++ {
		raw := p.bus.OAMEntry(i)
		y := raw[0]
		top := int(y) - 16
		if int(screenY) < top || int(screenY) >= top+int(height) {
			continue
		}
		selected = append(selected, objEntry{y: y, x: raw[1], tile: raw[2], attr: raw[3], oamIndex: i})
	}

	useDMGOrder := !p.bus.CGB() || p.bus.DMGSpritePriority()
	if useDMGOrder {
		// stable sort by ascending x; insertion sort keeps it simple and
		// stable for the <=10 element case.
		for i := 1; i < len(selected); i++ {
			j := i
			for j > 0 && selected[j-1].x > selected[j].x {
				selected[j-1], selected[j] = selected[j], selected[j-1]
				j--
			}
		}
	}
	return selected
}

func (p *PPU) renderScanline() {
	if p.line >= visibleLines {
		return
	}

	lcdc := p.lcdc()
	bgWinEnabled := lcdc&0x01 != 0 || p.bus.CGB()
	objEnabled := lcdc&0x02 != 0

	windowEnabled := lcdc&0x20 != 0
	wx := int(p.bus.Read(addr.WX)) - 7
	wy := int(p.bus.Read(addr.WY))
	rowDrewWindow := false

	bgColorIdx := make([]uint8, display.Width)
	bgAttr := make([]uint8, display.Width)

	for x := 0; x < display.Width; x++ {
		if !bgWinEnabled {
			continue
		}

		inWindow := windowEnabled && int(p.line) >= wy && x >= wx && wx >= -7
		var idx, attr uint8
		if inWindow {
			idx, attr = p.bgWinPixel(lcdc, uint8(x-wx), p.windowLineCounter, true)
			rowDrewWindow = true
		} else {
			bx := uint8((int(p.bus.Read(addr.SCX)) + x) & 0xFF)
			by := uint8((int(p.bus.Read(addr.SCY)) + int(p.line)) & 0xFF)
			idx, attr = p.bgWinPixel(lcdc, bx, by, false)
		}
		bgColorIdx[x] = idx
		bgAttr[x] = attr
	}
	if rowDrewWindow {
		p.windowLineCounter++
	}

	for x := 0; x < display.Width; x++ {
		color := p.resolvePixel(lcdc, x, bgColorIdx[x], bgAttr[x], objEnabled)
		p.fb.Set(x, int(p.line), color)
	}
}

// bgWinPixel fetches one background/window color index + CGB attribute
// byte for the given tile-map coordinates (spec §4.8 steps 3-7).
func (p *PPU) bgWinPixel(lcdc uint8, mapX, mapY uint8, window bool) (idx, attr uint8) {
	tileMapBase := addr.TileMap0
	bit := uint8(3)
	if window {
		bit = 6
	}
	if lcdc&(1<<bit) != 0 {
		tileMapBase = addr.TileMap1
	}

	tileCol := mapX / 8
	tileRow := mapY / 8
	mapOffset := uint16(tileRow)*32 + uint16(tileCol)
	mapAddr := tileMapBase + mapOffset

	tileIndex := p.bus.ReadVRAMBank(0, mapAddr-0x8000)
	if p.bus.CGB() {
		attr = p.bus.ReadVRAMBank(1, mapAddr-0x8000)
	}

	xOff := mapX % 8
	yOff := mapY % 8
	if attr&0x20 != 0 { // H flip
		xOff = 7 - xOff
	}
	if attr&0x40 != 0 { // V flip
		yOff = 7 - yOff
	}

	tileAddr := tileDataAddr(lcdc, tileIndex)
	bank := 0
	if attr&0x08 != 0 {
		bank = 1
	}
	lo := p.bus.ReadVRAMBank(bank, tileAddr+uint16(yOff)*2-0x8000)
	hi := p.bus.ReadVRAMBank(bank, tileAddr+uint16(yOff)*2+1-0x8000)

	shift := 7 - xOff
	loBit := (lo >> shift) & 1
	hiBit := (hi >> shift) & 1
	idx = hiBit<<1 | loBit
	return idx, attr
}

// tileDataAddr resolves the addressing-mode-selected tile data base
// (spec §4.8 step 6).
func tileDataAddr(lcdc uint8, tileIndex uint8) uint16 {
	if lcdc&0x10 != 0 {
		return addr.TileData0 + uint16(tileIndex)*16
	}
	return uint16(int32(addr.TileData2) + int32(int8(tileIndex))*16)
}

func (p *PPU) resolvePixel(lcdc uint8, x int, bgIdx, bgAttr uint8, objEnabled bool) display.Color {
	var objIdx, objPalette uint8
	var objAttr uint8
	haveObj := false

	if objEnabled {
		tall := lcdc&0x04 != 0
		for _, o := range p.selectedObjects {
			left := int(o.x) - 8
			if x < left || x >= left+8 {
				continue
			}
			idx := p.spritePixel(o, x, tall)
			if idx == 0 {
				continue
			}
			objIdx = idx
			objAttr = o.attr
			objPalette = (o.attr >> 4) & 0x01
			haveObj = true
			break
		}
	}

	if !haveObj {
		return p.bgColor(lcdc, bgIdx, bgAttr)
	}

	spriteWins := true
	if p.bus.CGB() {
		bgMasterOn := lcdc&0x01 != 0
		fgAttrPriority := bgAttr&0x80 != 0
		objBehind := objAttr&0x80 != 0
		spriteWins = bgIdx == 0 || !bgMasterOn || (!objBehind && !fgAttrPriority)
	} else {
		objBehind := objAttr&0x80 != 0
		spriteWins = !(objBehind && bgIdx != 0)
	}

	if !spriteWins {
		return p.bgColor(lcdc, bgIdx, bgAttr)
	}
	return p.objColor(objIdx, objAttr, objPalette)
}

// spritePixel fetches one object's color index for an on-screen x,
// respecting flip and double-height tile selection (spec §4.8).
func (p *PPU) spritePixel(o objEntry, x int, tall bool) uint8 {
	left := int(o.x) - 8
	top := int(o.y) - 16
	xOff := uint8(x - left)
	yOff := uint8(int(p.line) - top)

	if o.attr&0x20 != 0 {
		xOff = 7 - xOff
	}
	height := uint8(8)
	if tall {
		height = 16
	}
	if o.attr&0x40 != 0 {
		yOff = height - 1 - yOff
	}

	tile := o.tile
	if tall {
		tile &^= 0x01
		if yOff >= 8 {
			tile |= 0x01
			yOff -= 8
		}
	}

	bank := 0
	if p.bus.CGB() && o.attr&0x08 != 0 {
		bank = 1
	}
	tileAddr := addr.TileData0 + uint16(tile)*16
	lo := p.bus.ReadVRAMBank(bank, tileAddr+uint16(yOff)*2-0x8000)
	hi := p.bus.ReadVRAMBank(bank, tileAddr+uint16(yOff)*2+1-0x8000)

	shift := 7 - xOff
	loBit := (lo >> shift) & 1
	hiBit := (hi >> shift) & 1
	return hiBit<<1 | loBit
}

func (p *PPU) bgColor(lcdc uint8, idx, attr uint8) display.Color {
	if lcdc&0x01 == 0 && !p.bus.CGB() {
		return display.DMGShade[0]
	}
	if p.bus.CGB() {
		palette := attr & 0x07
		return display.RGB555ToColor(p.bus.BGPaletteColor(palette, idx))
	}
	bgp := p.bus.Read(addr.BGP)
	shade := (bgp >> (idx * 2)) & 0x03
	return display.DMGShade[shade]
}

func (p *PPU) objColor(idx, attr, dmgPalette uint8) display.Color {
	if p.bus.CGB() {
		palette := attr & 0x07
		return display.RGB555ToColor(p.bus.ObjPaletteColor(palette, idx))
	}
	reg := addr.OBP0
	if dmgPalette == 1 {
		reg = addr.OBP1
	}
	obp := p.bus.Read(reg)
	shade := (obp >> (idx * 2)) & 0x03
	return display.DMGShade[shade]
}
