//go:build !sdl2

// Package sdl2 stubs out the SDL2 backend for builds without CGo/the
// sdl2 tag: New always fails, directing the caller to another backend.
package sdl2

import (
	"context"
	"fmt"

	"github.com/kestrel-oss/pocketgb/gb/backend"
	"github.com/kestrel-oss/pocketgb/gb/gameboy"
)

type Backend struct{}

func New(cfg backend.Config) (*Backend, error) {
	return nil, fmt.Errorf("sdl2: not available, build with -tags sdl2")
}

func (b *Backend) Run(ctx context.Context, emu *gameboy.Emulator) error {
	return fmt.Errorf("sdl2: not available")
}

func (b *Backend) Cleanup() error { return nil }
