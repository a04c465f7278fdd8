// Package backend defines the host-platform contract: a Backend renders
// frames from an emulator's framebuffer, collects input, and plays back
// audio sample batches, leaving the core tick loop (gb/gameboy) entirely
// platform-agnostic.
package backend

import (
	"context"

	"github.com/kestrel-oss/pocketgb/gb/gameboy"
)

// Config holds the platform-facing presentation options. The core never
// reads these; they only affect how a Backend renders/collects input.
type Config struct {
	Title      string
	Scale      int
	Fullscreen bool
	ShowDebug  bool

	// SnapshotInterval, when > 0, saves a PNG frame snapshot every N
	// frames to SnapshotDirectory (headless backend).
	SnapshotInterval  int
	SnapshotDirectory string
}

// Backend is a complete host platform: rendering, input capture, and
// lifecycle management. Run blocks until the backend decides to stop
// (window closed, quit key, frame budget reached) or ctx is cancelled.
type Backend interface {
	// Run drives the backend's event/render loop against emu until ctx
	// is cancelled or the backend itself decides to stop.
	Run(ctx context.Context, emu *gameboy.Emulator) error

	// Cleanup releases platform resources (window, screen, audio device).
	Cleanup() error
}
