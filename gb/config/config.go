// Package config holds the small set of boot-time knobs for the core,
// following the plain-struct-with-defaults style used across the pack
// (e.g. FabianRolfMatthiasNoll-GameBoyEmulator's internal/emu/config.go).
package config

// Model selects which machine variant's default I/O register values and
// WRAM/VRAM bank counts are used at boot.
type Model uint8

const (
	DMG Model = iota
	CGB
)

// Config is the full set of boot-time options for a gameboy.Emulator.
type Config struct {
	// Model selects DMG or CGB default register values and bank counts.
	Model Model

	// TurboMultiplier is how many emulated frames are run per wall-clock
	// frame tick while turbo mode is active (spec §5, SetTurboMode command).
	TurboMultiplier int

	// InitialVolume is the system volume knob in [0,7] applied on top of
	// the APU's per-channel/per-side mix (spec §4.9).
	InitialVolume uint8

	// SaveDirectory is where save files and quick-save slots are written.
	// Empty means the current working directory.
	SaveDirectory string

	// DisableBootROM skips boot-ROM emulation and starts execution
	// directly at the cartridge entry point with post-boot register
	// values, matching how the teacher and most Go Game Boy emulators in
	// the pack operate (no boot ROM image is shipped).
	DisableBootROM bool
}

// Default returns the baseline DMG configuration.
func Default() Config {
	return Config{
		Model:           DMG,
		TurboMultiplier: 4,
		InitialVolume:   7,
		DisableBootROM:  true,
	}
}
