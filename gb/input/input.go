// Package input defines the joypad key enum and the pressed-button byte
// packing used by the host command interface (spec §6).
package input

// Key identifies one of the eight Game Boy joypad buttons.
type Key uint8

const (
	Right Key = iota
	Left
	Up
	Down
	A
	B
	Select
	Start
)

// Bit is the single-bit mask of Key within the packed pressed-button byte
// used by the UpdatePressedButtons host command: Right=0x10, Left=0x20,
// Up=0x40, Down=0x80, A=0x01, B=0x02, Select=0x04, Start=0x08.
func (k Key) Bit() uint8 {
	switch k {
	case Right:
		return 0x10
	case Left:
		return 0x20
	case Up:
		return 0x40
	case Down:
		return 0x80
	case A:
		return 0x01
	case B:
		return 0x02
	case Select:
		return 0x04
	case Start:
		return 0x08
	default:
		return 0
	}
}

// IsDpad reports whether the key belongs to the directional pad row
// (as opposed to the action-button row).
func (k Key) IsDpad() bool {
	return k == Right || k == Left || k == Up || k == Down
}

// PackedButtons turns a set of currently-pressed keys into the byte format
// used by the Command.UpdatePressedButtons host command.
func PackedButtons(pressed map[Key]bool) uint8 {
	var b uint8
	for k, down := range pressed {
		if down {
			b |= k.Bit()
		}
	}
	return b
}
