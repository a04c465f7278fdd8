package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIncR8MemoryOperandCostsExtra(t *testing.T) {
	c, bus := newTestCPU()
	c.SetHL(0xC010)
	bus.Write(0xC010, 0x05)
	load(bus, 0xC000, 0x34) // INC (HL)

	assert.Equal(t, 12, c.Step())
	assert.Equal(t, uint8(0x06), bus.Read(0xC010))
}

func TestIncR8RegisterCostsBase(t *testing.T) {
	c, bus := newTestCPU()
	load(bus, 0xC000, 0x04) // INC B
	assert.Equal(t, 4, c.Step())
	assert.Equal(t, uint8(1), c.B)
}

func TestLDMemoryD8Costs12(t *testing.T) {
	c, bus := newTestCPU()
	c.SetHL(0xC010)
	load(bus, 0xC000, 0x36, 0x99) // LD (HL),0x99
	assert.Equal(t, 12, c.Step())
	assert.Equal(t, uint8(0x99), bus.Read(0xC010))
}

func TestALUMemoryOperandCosts8(t *testing.T) {
	c, bus := newTestCPU()
	c.A = 0x10
	c.SetHL(0xC010)
	bus.Write(0xC010, 0x05)
	load(bus, 0xC000, 0x86) // ADD A,(HL)

	assert.Equal(t, 8, c.Step())
	assert.Equal(t, uint8(0x15), c.A)
}

func TestAddOverflowSetsCarryAndHalfCarry(t *testing.T) {
	var c CPU
	c.A = 0xFF
	c.A = c.add8(c.A, 0x01, false)
	assert.Equal(t, uint8(0x00), c.A)
	assert.True(t, c.Flag(FlagZ))
	assert.True(t, c.Flag(FlagH))
	assert.True(t, c.Flag(FlagC))
}

func TestSubBorrowSetsCarryAndHalfCarry(t *testing.T) {
	var c CPU
	c.A = 0x00
	c.A = c.sub8(c.A, 0x01, false)
	assert.Equal(t, uint8(0xFF), c.A)
	assert.True(t, c.Flag(FlagN))
	assert.True(t, c.Flag(FlagH))
	assert.True(t, c.Flag(FlagC))
}

func TestPushPopRoundTrip(t *testing.T) {
	c, bus := newTestCPU()
	c.SetBC(0xBEEF)
	load(bus, 0xC000, 0xC5, 0xD1) // PUSH BC, POP DE
	c.Step()
	c.Step()
	assert.Equal(t, uint16(0xBEEF), c.DE())
}

func TestRST(t *testing.T) {
	c, bus := newTestCPU()
	load(bus, 0xC000, 0xEF) // RST 0x28 (opcode 0xC7 | 5<<3 = 0xEF)
	assert.Equal(t, 16, c.Step())
	assert.Equal(t, uint16(0x28), c.PC)
}

func TestDAA(t *testing.T) {
	tests := []struct {
		name    string
		a       uint8
		n, h, c bool
		wantA   uint8
		wantC   bool
	}{
		{"post-add no adjustment needed", 0x09, false, false, false, 0x09, false},
		{"post-add low nibble overflow", 0x0A, false, false, false, 0x10, false},
		{"post-add low nibble forced by half-carry", 0x0A, false, true, false, 0x10, false},
		{"post-add high nibble overflow", 0x9A, false, false, false, 0x00, true},
		{"post-add both nibbles overflow", 0x9A, false, true, false, 0x00, true},
		{
			// A=0x94,H=1,C=0: the low-nibble fix (+0x06 -> 0x9A) must not
			// feed the high-nibble/carry check, which evaluates the
			// original 0x94 (<=0x99) and so must not add 0x60.
			"high-nibble check uses the pre-adjustment accumulator", 0x94, false, true, false, 0x9A, false,
		},
		{"post-add high nibble forced by carry-in", 0x00, false, false, true, 0x60, true},
		{"post-sub no adjustment needed", 0x09, true, false, false, 0x09, false},
		{"post-sub low nibble borrow", 0x0A, true, true, false, 0x04, false},
		{"post-sub high nibble borrow", 0xA0, true, false, true, 0x40, true},
		{"post-sub both nibbles borrow", 0x66, true, true, true, 0x00, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var c CPU
			c.A = tt.a
			c.SetFlag(FlagN, tt.n)
			c.SetFlag(FlagH, tt.h)
			c.SetFlag(FlagC, tt.c)

			c.daa()

			assert.Equal(t, tt.wantA, c.A)
			assert.Equal(t, tt.wantA == 0, c.Flag(FlagZ))
			assert.Equal(t, tt.n, c.Flag(FlagN), "N is preserved by DAA")
			assert.False(t, c.Flag(FlagH), "H is always cleared by DAA")
			assert.Equal(t, tt.wantC, c.Flag(FlagC))
		})
	}
}
