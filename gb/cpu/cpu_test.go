package cpu

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrel-oss/pocketgb/gb/addr"
	"github.com/kestrel-oss/pocketgb/gb/memory"
)

// newTestCPU builds a CPU wired to a fresh bus with PC parked in WRAM,
// which (unlike ROM) accepts ordinary writes, so tests can plant a small
// program without needing a cartridge.
func newTestCPU() (*CPU, *memory.Bus) {
	bus := memory.New(false)
	c := New(bus)
	c.PC = 0xC000
	c.SP = 0xDFF0
	return c, bus
}

func load(bus *memory.Bus, addr uint16, program ...uint8) {
	for i, b := range program {
		bus.Write(addr+uint16(i), b)
	}
}

func TestRegistersWideAccessors(t *testing.T) {
	var r Registers
	r.SetBC(0x1234)
	assert.Equal(t, uint8(0x12), r.B)
	assert.Equal(t, uint8(0x34), r.C)
	assert.Equal(t, uint16(0x1234), r.BC())
}

func TestRegistersSetFMasksLowNibble(t *testing.T) {
	var r Registers
	r.SetF(0xFF)
	assert.Equal(t, uint8(0xF0), r.F, "low nibble of F is always masked to 0")
}

func TestStepNOPCosts4Ticks(t *testing.T) {
	c, bus := newTestCPU()
	load(bus, 0xC000, 0x00)
	assert.Equal(t, 4, c.Step())
	assert.Equal(t, uint16(0xC001), c.PC)
}

func TestStepLDRD8(t *testing.T) {
	c, bus := newTestCPU()
	load(bus, 0xC000, 0x06, 0x42) // LD B,0x42
	assert.Equal(t, 8, c.Step())
	assert.Equal(t, uint8(0x42), c.B)
}

func TestJRConditionalTakenVsNotTaken(t *testing.T) {
	c, bus := newTestCPU()
	// JR NZ,+5 with Z flag clear: branch taken.
	load(bus, 0xC000, 0x20, 0x05)
	c.SetFlag(FlagZ, false)
	assert.Equal(t, 12, c.Step(), "taken JR NZ")
	assert.Equal(t, uint16(0xC007), c.PC)

	c, bus = newTestCPU()
	load(bus, 0xC000, 0x20, 0x05)
	c.SetFlag(FlagZ, true)
	assert.Equal(t, 8, c.Step(), "not-taken JR NZ")
	assert.Equal(t, uint16(0xC002), c.PC)
}

func TestCallAndRet(t *testing.T) {
	c, bus := newTestCPU()
	load(bus, 0xC000, 0xCD, 0x00, 0xD0) // CALL 0xD000
	assert.Equal(t, 24, c.Step())
	assert.Equal(t, uint16(0xD000), c.PC)
	assert.Equal(t, uint16(0xDFEE), c.SP)

	load(bus, 0xD000, 0xC9) // RET
	assert.Equal(t, 16, c.Step())
	assert.Equal(t, uint16(0xC003), c.PC, "return address")
	assert.Equal(t, uint16(0xDFF0), c.SP)
}

func TestDIClearsIMEImmediately(t *testing.T) {
	c, bus := newTestCPU()
	c.ime = true
	load(bus, 0xC000, 0xF3) // DI
	c.Step()
	assert.False(t, c.IME(), "expected DI to clear IME immediately")
}

func TestEIDelaysIMEByOneInstruction(t *testing.T) {
	c, bus := newTestCPU()
	load(bus, 0xC000, 0xFB, 0x00, 0x00) // EI, NOP, NOP
	c.Step()                            // EI: IME still false
	assert.False(t, c.IME(), "IME still false immediately after EI")
	c.Step() // first instruction after EI: IME still false during this step's dispatch
	assert.False(t, c.IME(), "IME still false after the single instruction following EI")
	c.Step() // the instruction after that sees IME enabled
	assert.True(t, c.IME(), "IME enabled two instructions after EI")
}

func TestHaltWakesOnPendingInterruptWithoutServicingWhenIMEOff(t *testing.T) {
	c, bus := newTestCPU()
	c.ime = false
	load(bus, 0xC000, 0x76, 0x00) // HALT, NOP
	c.Step()                      // enters halt
	assert.True(t, c.Halted())

	bus.Write(addr.IE, uint8(addr.Timer))
	bus.RequestInterrupt(addr.Timer)

	cost := c.Step() // should wake without servicing (IME is off) and execute the NOP
	assert.False(t, c.Halted(), "expected CPU to leave halt once an enabled interrupt is pending")
	assert.Equal(t, 4, cost, "cost of the NOP right after waking")
}

func TestInterruptServicedWhenIMEOn(t *testing.T) {
	c, bus := newTestCPU()
	c.ime = true
	load(bus, 0xC000, 0x00) // NOP, never reached: interrupt takes priority
	bus.Write(addr.IE, uint8(addr.VBlank))
	bus.RequestInterrupt(addr.VBlank)

	cost := c.Step()
	assert.Equal(t, 20, cost, "interrupt dispatch cost")
	assert.False(t, c.IME(), "IME cleared on interrupt entry")
	assert.Equal(t, addr.VBlank.HandlerAddress(), c.PC)
	assert.Equal(t, uint16(0xDFEE), c.SP, "return address pushed")
	assert.Zero(t, bus.IF()&uint8(addr.VBlank), "IF bit cleared on interrupt entry")
}

func TestTickBudgetDispatchesOncePerInstructionCost(t *testing.T) {
	c, bus := newTestCPU()
	load(bus, 0xC000, 0x00, 0x00) // two NOPs, 4 ticks each

	for i := 0; i < 4; i++ {
		c.Tick(false)
	}
	assert.Equal(t, uint16(0xC001), c.PC, "first NOP's 4 ticks spent, second not yet fetched")

	c.Tick(false)
	assert.Equal(t, uint16(0xC002), c.PC, "second NOP fetched")
}

func TestTickDoubleSpeedConsumesBudgetTwiceAsFast(t *testing.T) {
	c, bus := newTestCPU()
	load(bus, 0xC000, 0x00, 0x00)

	// the first NOP's 4-tick budget is spent in two double-speed ticks, so
	// the third fetches the second NOP
	c.Tick(true)
	c.Tick(true)
	c.Tick(true)
	assert.Equal(t, uint16(0xC002), c.PC)
}

func TestStateRestoreRoundTrip(t *testing.T) {
	c, _ := newTestCPU()
	c.SetAF(0x1234)
	c.SetBC(0x5678)
	c.ime = true

	saved := c.State()

	other, _ := newTestCPU()
	other.Restore(saved)

	assert.Equal(t, uint16(0x1230), other.AF(), "low nibble of F always masked to 0")
	assert.Equal(t, uint16(0x5678), other.BC())
	assert.True(t, other.IME())
}
