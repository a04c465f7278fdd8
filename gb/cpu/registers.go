// Package cpu implements the register file and fetch-decode-dispatch
// engine (spec C4): 256 primary opcodes plus 256 CB-prefixed opcodes,
// each a small function reading/writing registers and memory.
package cpu

import "github.com/kestrel-oss/pocketgb/gb/bit"

// Flag bit positions within F (spec §3): bits 0-3 are always zero.
const (
	FlagZ uint8 = 1 << 7
	FlagN uint8 = 1 << 6
	FlagH uint8 = 1 << 5
	FlagC uint8 = 1 << 4
)

// Registers holds the eight 8-bit registers plus SP/PC. F's low nibble
// is always masked to zero on write (spec §3 invariant).
type Registers struct {
	A, F uint8
	B, C uint8
	D, E uint8
	H, L uint8
	SP   uint16
	PC   uint16
}

func (r *Registers) SetF(v uint8) { r.F = v & 0xF0 }

func (r *Registers) AF() uint16 { return bit.Combine(r.A, r.F) }
func (r *Registers) BC() uint16 { return bit.Combine(r.B, r.C) }
func (r *Registers) DE() uint16 { return bit.Combine(r.D, r.E) }
func (r *Registers) HL() uint16 { return bit.Combine(r.H, r.L) }

func (r *Registers) SetAF(v uint16) { r.A = bit.High(v); r.SetF(bit.Low(v)) }
func (r *Registers) SetBC(v uint16) { r.B = bit.High(v); r.C = bit.Low(v) }
func (r *Registers) SetDE(v uint16) { r.D = bit.High(v); r.E = bit.Low(v) }
func (r *Registers) SetHL(v uint16) { r.H = bit.High(v); r.L = bit.Low(v) }

func (r *Registers) Flag(f uint8) bool { return r.F&f != 0 }

func (r *Registers) SetFlag(f uint8, on bool) {
	if on {
		r.F |= f
	} else {
		r.F &^= f
	}
	r.F &= 0xF0
}
