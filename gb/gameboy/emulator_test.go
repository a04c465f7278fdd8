package gameboy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kestrel-oss/pocketgb/gb/addr"
	"github.com/kestrel-oss/pocketgb/gb/config"
	"github.com/kestrel-oss/pocketgb/gb/memory"
	"github.com/kestrel-oss/pocketgb/gb/timing"
)

func newTestEmulator(t *testing.T) *Emulator {
	t.Helper()
	cart := memory.NewEmptyCartridge()
	e, err := New(cart, config.Default(), DiscardingSampleSink{})
	require.NoError(t, err)
	return e
}

func TestNewWiresADiscardingSinkWhenNoneGiven(t *testing.T) {
	cart := memory.NewEmptyCartridge()
	e, err := New(cart, config.Default(), nil)
	require.NoError(t, err)

	_, ok := e.sink.(DiscardingSampleSink)
	assert.True(t, ok, "expected DiscardingSampleSink when none is supplied")
}

func TestUpdatePressedButtonsCommandReachesBus(t *testing.T) {
	e := newTestEmulator(t)
	e.commands.Push(UpdatePressedButtons(0x05))
	e.drainCommands()

	assert.NotZero(t, e.bus.IF()&uint8(addr.Joypad), "expected the newly-pressed keys to raise the Joypad interrupt on the bus")
}

func TestSetTurboModeCommandTogglesTurboFlag(t *testing.T) {
	e := newTestEmulator(t)
	require.False(t, e.turbo)

	e.commands.Push(SetTurboMode(true))
	e.drainCommands()
	assert.True(t, e.turbo)
}

func TestToggleMuteCommandSilencesThenRestoresVolume(t *testing.T) {
	e := newTestEmulator(t)
	e.commands.Push(ToggleMute())
	e.drainCommands()
	require.True(t, e.muted)

	e.commands.Push(ToggleMute())
	e.drainCommands()
	assert.False(t, e.muted)
}

func TestRunFrameAdvancesTickCountByOneFrame(t *testing.T) {
	e := newTestEmulator(t)
	e.cpu.Reset()

	before := e.tickCount
	e.runFrame()

	assert.Equal(t, uint64(timing.CyclesPerFrame), e.tickCount-before)
}
