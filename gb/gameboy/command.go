package gameboy

// CommandKind discriminates the host->emulator command queue entries
// (spec §5/§6). Exactly one of Command's payload fields is meaningful
// per kind.
type CommandKind uint8

const (
	CmdUpdatePressedButtons CommandKind = iota
	CmdSave
	CmdQuickSave
	CmdLoadQuickSave
	CmdSetTurboMode
	CmdVolumeUp
	CmdVolumeDown
	CmdToggleMute
	CmdToggleAudioChannel
)

// Command is the discriminated union the host enqueues for the emulator
// to drain at the top of every tick.
type Command struct {
	Kind    CommandKind
	Buttons uint8 // CmdUpdatePressedButtons: packed per input.Key.Bit()
	Slot    int   // CmdQuickSave / CmdLoadQuickSave
	Turbo   bool  // CmdSetTurboMode
	Channel int   // CmdToggleAudioChannel: 0-3
}

func UpdatePressedButtons(packed uint8) Command {
	return Command{Kind: CmdUpdatePressedButtons, Buttons: packed}
}

func Save() Command { return Command{Kind: CmdSave} }

func QuickSave(slot int) Command { return Command{Kind: CmdQuickSave, Slot: slot} }

func LoadQuickSave(slot int) Command { return Command{Kind: CmdLoadQuickSave, Slot: slot} }

func SetTurboMode(on bool) Command { return Command{Kind: CmdSetTurboMode, Turbo: on} }

func VolumeUp() Command { return Command{Kind: CmdVolumeUp} }

func VolumeDown() Command { return Command{Kind: CmdVolumeDown} }

func ToggleMute() Command { return Command{Kind: CmdToggleMute} }

func ToggleAudioChannel(n int) Command {
	return Command{Kind: CmdToggleAudioChannel, Channel: n}
}
