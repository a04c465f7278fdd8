// Package headless runs the emulator without any interactive platform,
// for batch processing and automated testing: run for a fixed number of
// frames, optionally dumping periodic PNG snapshots.
package headless

import (
	"fmt"
	"log/slog"
	"time"

	"context"

	"github.com/kestrel-oss/pocketgb/gb/backend"
	"github.com/kestrel-oss/pocketgb/gb/debug"
	"github.com/kestrel-oss/pocketgb/gb/display"
	"github.com/kestrel-oss/pocketgb/gb/gameboy"
)

// Backend drives the emulator for a fixed frame budget with no rendering
// or input, polling the framebuffer on a 60 Hz wall-clock tick rather
// than an explicit frame-completed signal (the scheduler exposes none).
type Backend struct {
	cfg       backend.Config
	maxFrames int
	romName   string

	frame int
}

func New(cfg backend.Config, maxFrames int, romName string) *Backend {
	return &Backend{cfg: cfg, maxFrames: maxFrames, romName: romName}
}

// Run polls the framebuffer roughly once per emulated frame period,
// saving snapshots on the configured interval, until maxFrames have
// elapsed or ctx is cancelled.
func (b *Backend) Run(ctx context.Context, emu *gameboy.Emulator) error {
	slog.Info("running headless", "frames", b.maxFrames, "snapshot_interval", b.cfg.SnapshotInterval)

	fb := emu.FrameBuffer()
	ticker := time.NewTicker(time.Second / 60)
	defer ticker.Stop()

	for b.frame < b.maxFrames {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			b.frame++
			if b.cfg.SnapshotInterval > 0 && b.frame%b.cfg.SnapshotInterval == 0 {
				b.saveSnapshot(fb)
			}
			if b.frame%60 == 0 {
				slog.Info("headless progress", "frame", b.frame, "total", b.maxFrames)
			}
		}
	}

	if b.cfg.SnapshotInterval > 0 && b.frame%b.cfg.SnapshotInterval != 0 {
		b.saveSnapshot(fb)
	}
	slog.Info("headless run complete", "frames", b.frame)
	return nil
}

func (b *Backend) saveSnapshot(fb *display.FrameBuffer) {
	name := fmt.Sprintf("%s_frame_%d", b.romName, b.frame)
	if err := debug.SaveFramePNG(fb, name, b.cfg.SnapshotDirectory); err != nil {
		slog.Error("snapshot save failed", "frame", b.frame, "error", err)
	}
}

func (b *Backend) Cleanup() error { return nil }
