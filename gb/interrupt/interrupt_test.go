package interrupt

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/kestrel-oss/pocketgb/gb/addr"
)

func TestPendingNoneSet(t *testing.T) {
	_, ok := Pending(0xFF, 0x00)
	assert.False(t, ok, "expected no pending interrupt when IF is clear")

	_, ok = Pending(0x00, 0xFF)
	assert.False(t, ok, "expected no pending interrupt when IE is clear")
}

func TestPendingPriorityOrder(t *testing.T) {
	tests := []struct {
		name    string
		ie, if_ uint8
		want    addr.Interrupt
	}{
		{"vblank wins over everything", 0x1F, 0x1F, addr.VBlank},
		{"lcdstat wins without vblank", 0x1F, 0x1E, addr.LCDSTAT},
		{"timer wins without vblank/lcdstat", 0x1F, 0x1C, addr.Timer},
		{"serial wins without higher bits", 0x1F, 0x18, addr.Serial},
		{"joypad is lowest priority", 0x1F, 0x10, addr.Joypad},
		{"IE masks out disabled sources", 0x04, 0x1F, addr.Timer},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Pending(tt.ie, tt.if_)
			if assert.True(t, ok, "expected a pending interrupt") {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestPendingIgnoresUpperBits(t *testing.T) {
	// Bits above 0x1F (e.g. unused IF/IE bits) must never produce a
	// selected interrupt on their own.
	_, ok := Pending(0xE0, 0xE0)
	assert.False(t, ok)
}

func TestStatEnabled(t *testing.T) {
	stat := uint8(1<<StatLYC | 1<<StatHBlank)
	assert.True(t, StatEnabled(stat, StatLYC))
	assert.True(t, StatEnabled(stat, StatHBlank))
	assert.False(t, StatEnabled(stat, StatVBlank))
	assert.False(t, StatEnabled(stat, StatOAMScan))
}
