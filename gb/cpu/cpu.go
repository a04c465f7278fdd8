package cpu

import (
	"fmt"

	"github.com/kestrel-oss/pocketgb/gb/addr"
	"github.com/kestrel-oss/pocketgb/gb/gberr"
	"github.com/kestrel-oss/pocketgb/gb/interrupt"
	"github.com/kestrel-oss/pocketgb/gb/memory"
)

// imeState models the one-instruction delay of the EI instruction (spec
// §4.4, §9): EI queues AfterNext; once the *next* instruction completes,
// the queue advances to AfterCurrent, and IME is set at the start of the
// instruction after that. DI clears IME immediately, bypassing the queue.
type imeState uint8

const (
	imeIdle imeState = iota
	imeAfterNext
	imeAfterCurrent
)

type opcodeFunc func(c *CPU) int

// CPU is the register file plus fetch-decode-dispatch engine (spec C4).
type CPU struct {
	Registers

	bus *memory.Bus

	ime      bool
	imeQueue imeState
	halted   bool
	haltBug  bool // not set or read; Step does not reproduce the HALT bug's skipped PC increment

	ticksRemaining int
}

func New(bus *memory.Bus) *CPU {
	return &CPU{bus: bus}
}

// Reset sets the post-boot-ROM register state for the DMG model (spec
// §9 Open Question: boot ROM execution itself is out of scope; the core
// starts from the state the boot ROM would have left behind).
func (c *CPU) Reset() {
	c.SetAF(0x01B0)
	c.SetBC(0x0013)
	c.SetDE(0x00D8)
	c.SetHL(0x014D)
	c.SP = 0xFFFE
	c.PC = 0x0100
	c.ime = false
	c.imeQueue = imeIdle
	c.halted = false
}

func (c *CPU) read(a uint16) uint8     { return c.bus.Read(a) }
func (c *CPU) write(a uint16, v uint8) { c.bus.Write(a, v) }

func (c *CPU) fetch8() uint8 {
	v := c.read(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetch16() uint16 {
	lo := c.fetch8()
	hi := c.fetch8()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push16(v uint16) {
	c.SP -= 2
	c.write(c.SP, uint8(v))
	c.write(c.SP+1, uint8(v>>8))
}

func (c *CPU) pop16() uint16 {
	lo := c.read(c.SP)
	hi := c.read(c.SP + 1)
	c.SP += 2
	return uint16(hi)<<8 | uint16(lo)
}

// IME reports the current interrupt-master-enable state.
func (c *CPU) IME() bool { return c.ime }

// Halted reports whether the CPU is in the halt state.
func (c *CPU) Halted() bool { return c.halted }

// Step advances the IME-enable queue, services a pending interrupt if
// one applies, or decodes and executes exactly one instruction,
// returning the tick cost to charge (spec §4.4's schedule_next_instruction).
func (c *CPU) Step() int {
	pending, hasPending := interrupt.Pending(c.bus.IE(), c.bus.IF())

	if c.halted {
		if hasPending {
			c.halted = false
		} else {
			c.advanceIME()
			return 4
		}
	}

	if c.ime && hasPending {
		cost := c.serviceInterrupt(pending)
		c.advanceIME()
		return cost
	}

	c.advanceIME()

	opcode := c.fetch8()
	fn := opcodeTable[opcode]
	if fn == nil {
		panic(fmt.Errorf("cpu: opcode 0x%02X at 0x%04X: %w", opcode, c.PC-1, gberr.ErrInvalidOpcode))
	}
	return fn(c)
}

// advanceIME moves the delayed-enable queue forward by one instruction
// boundary (spec §4.4, §9).
func (c *CPU) advanceIME() {
	switch c.imeQueue {
	case imeAfterNext:
		c.imeQueue = imeAfterCurrent
	case imeAfterCurrent:
		c.ime = true
		c.imeQueue = imeIdle
	}
}

// serviceInterrupt performs the fixed 20-tick interrupt-entry sequence:
// clear IME, clear the IF bit, push PC, jump to the handler.
func (c *CPU) serviceInterrupt(i addr.Interrupt) int {
	c.ime = false
	c.bus.ClearInterrupt(i)
	c.push16(c.PC)
	c.PC = i.HandlerAddress()
	return 20
}

// requestEnableInterrupts is called by the EI opcode handler.
func (c *CPU) requestEnableInterrupts() {
	if c.imeQueue == imeIdle {
		c.imeQueue = imeAfterNext
	}
}

// disableInterrupts is called by the DI opcode handler.
func (c *CPU) disableInterrupts() {
	c.ime = false
	c.imeQueue = imeIdle
}

// enterHalt is called by the HALT opcode handler.
func (c *CPU) enterHalt() {
	c.halted = true
}

// Tick advances the CPU's instruction-tick budget by one system tick
// (spec §4.10's run_tick): when the budget has been spent, Step
// dispatches the next pending interrupt or instruction and reloads the
// budget with its tick cost; otherwise the budget is merely decremented
// by 1 (2 in CGB double-speed mode), saturating at zero. The caller
// (gb/gameboy's scheduler) must not call Tick at all while the bus
// reports IsFrozenForDMA: the CPU clock itself is stopped during an
// in-progress VRAM DMA block copy.
func (c *CPU) Tick(doubleSpeed bool) {
	if c.ticksRemaining <= 0 {
		c.ticksRemaining = c.Step()
	}
	dec := 1
	if doubleSpeed {
		dec = 2
	}
	c.ticksRemaining -= dec
	if c.ticksRemaining < 0 {
		c.ticksRemaining = 0
	}
}

// State is a fully-exported snapshot of the CPU, used by quick-save.
type State struct {
	Registers
	IME      bool
	IMEQueue uint8
	Halted   bool
}

func (c *CPU) State() State {
	return State{Registers: c.Registers, IME: c.ime, IMEQueue: uint8(c.imeQueue), Halted: c.halted}
}

func (c *CPU) Restore(s State) {
	c.Registers = s.Registers
	c.ime = s.IME
	c.imeQueue = imeState(s.IMEQueue)
	c.halted = s.Halted
}
