package gameboy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUpdatePressedButtonsCommand(t *testing.T) {
	c := UpdatePressedButtons(0x0F)
	assert.Equal(t, CmdUpdatePressedButtons, c.Kind)
	assert.Equal(t, uint8(0x0F), c.Buttons)
}

func TestSaveCommand(t *testing.T) {
	assert.Equal(t, CmdSave, Save().Kind)
}

func TestQuickSaveCommandCarriesSlot(t *testing.T) {
	c := QuickSave(3)
	assert.Equal(t, CmdQuickSave, c.Kind)
	assert.Equal(t, 3, c.Slot)
}

func TestLoadQuickSaveCommandCarriesSlot(t *testing.T) {
	c := LoadQuickSave(7)
	assert.Equal(t, CmdLoadQuickSave, c.Kind)
	assert.Equal(t, 7, c.Slot)
}

func TestSetTurboModeCommandCarriesFlag(t *testing.T) {
	on := SetTurboMode(true)
	assert.Equal(t, CmdSetTurboMode, on.Kind)
	assert.True(t, on.Turbo)

	off := SetTurboMode(false)
	assert.False(t, off.Turbo)
}

func TestVolumeAndMuteCommands(t *testing.T) {
	assert.Equal(t, CmdVolumeUp, VolumeUp().Kind)
	assert.Equal(t, CmdVolumeDown, VolumeDown().Kind)
	assert.Equal(t, CmdToggleMute, ToggleMute().Kind)
}

func TestToggleAudioChannelCommandCarriesChannel(t *testing.T) {
	c := ToggleAudioChannel(2)
	assert.Equal(t, CmdToggleAudioChannel, c.Kind)
	assert.Equal(t, 2, c.Channel)
}
