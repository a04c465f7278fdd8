package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCBBitTestSetsZWhenClear(t *testing.T) {
	c, bus := newTestCPU()
	c.B = 0x00
	load(bus, 0xC000, 0xCB, 0x40) // BIT 0,B
	assert.Equal(t, 8, c.Step())
	assert.True(t, c.Flag(FlagZ))
}

func TestCBBitTestMemoryOperandCosts12(t *testing.T) {
	c, bus := newTestCPU()
	c.SetHL(0xC010)
	bus.Write(0xC010, 0x01)
	load(bus, 0xC000, 0xCB, 0x46) // BIT 0,(HL)
	assert.Equal(t, 12, c.Step())
	assert.False(t, c.Flag(FlagZ))
}

func TestCBResClearsBit(t *testing.T) {
	c, bus := newTestCPU()
	c.B = 0xFF
	load(bus, 0xC000, 0xCB, 0x80) // RES 0,B
	c.Step()
	assert.Equal(t, uint8(0xFE), c.B)
}

func TestCBSetSetsBit(t *testing.T) {
	c, bus := newTestCPU()
	c.B = 0x00
	load(bus, 0xC000, 0xCB, 0xC0) // SET 0,B
	c.Step()
	assert.Equal(t, uint8(0x01), c.B)
}

func TestCBSwap(t *testing.T) {
	c, bus := newTestCPU()
	c.A = 0xAB
	load(bus, 0xC000, 0xCB, 0x37) // SWAP A
	c.Step()
	assert.Equal(t, uint8(0xBA), c.A)
}

func TestCBRLCSetsCarryFromBit7(t *testing.T) {
	c, bus := newTestCPU()
	c.B = 0x80
	load(bus, 0xC000, 0xCB, 0x00) // RLC B
	c.Step()
	assert.Equal(t, uint8(0x01), c.B)
	assert.True(t, c.Flag(FlagC), "expected carry set from bit 7")
}
