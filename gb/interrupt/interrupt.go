// Package interrupt implements the pure priority-selection and STAT
// source-aggregation logic of the interrupt controller (spec C5). It
// holds no state of its own: IE/IF live in the I/O register file
// (gb/memory) and IME plus the delayed-enable state machine live on the
// CPU, since both are driven directly by instruction dispatch.
package interrupt

import "github.com/kestrel-oss/pocketgb/gb/addr"

// Pending returns the highest-priority interrupt selected by ie & if_ & 0x1F,
// and whether any bit was set at all. Priority is fixed: VBlank > LCDSTAT
// > Timer > Serial > Joypad.
func Pending(ie, if_ uint8) (addr.Interrupt, bool) {
	bits := ie & if_ & uint8(addr.AllBits)
	if bits == 0 {
		return 0, false
	}
	for _, it := range addr.Priorities {
		if bits&uint8(it) != 0 {
			return it, true
		}
	}
	return 0, false
}

// StatSource identifies one of STAT's four interrupt sources.
type StatSource uint8

const (
	StatHBlank  StatSource = 3 // STAT bit 3
	StatVBlank  StatSource = 4 // STAT bit 4
	StatOAMScan StatSource = 5 // STAT bit 5
	StatLYC     StatSource = 6 // STAT bit 6
)

// StatEnabled reports whether the given STAT source is enabled for
// interrupt generation in the current STAT register value.
func StatEnabled(stat uint8, source StatSource) bool {
	return stat&(1<<uint8(source)) != 0
}
