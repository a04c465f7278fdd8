//go:build sdl2

// Package sdl2 renders the emulator framebuffer to a real window and
// plays audio through SDL2's queued-audio device; requires a CGo build
// with the sdl2 build tag.
package sdl2

import (
	"context"
	"encoding/binary"
	"fmt"
	"log/slog"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/kestrel-oss/pocketgb/gb/backend"
	"github.com/kestrel-oss/pocketgb/gb/display"
	"github.com/kestrel-oss/pocketgb/gb/gameboy"
	"github.com/kestrel-oss/pocketgb/gb/input"
)

const sampleRate = 44100

// Backend implements backend.Backend using an SDL2 window, renderer and
// queued audio device.
type Backend struct {
	cfg  backend.Config
	wnd  *sdl.Window
	rend *sdl.Renderer
	tex  *sdl.Texture

	audioDevice sdl.AudioDeviceID

	pressed map[input.Key]bool
}

func New(cfg backend.Config) (*Backend, error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_EVENTS | sdl.INIT_AUDIO); err != nil {
		return nil, fmt.Errorf("sdl2: %w", err)
	}

	scale := cfg.Scale
	if scale <= 0 {
		scale = 3
	}

	flags := uint32(sdl.WINDOW_SHOWN)
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}

	title := cfg.Title
	if title == "" {
		title = "pocketgb"
	}

	wnd, err := sdl.CreateWindow(title, sdl.WINDOWPOS_CENTERED, sdl.WINDOWPOS_CENTERED,
		int32(display.Width*scale), int32(display.Height*scale), flags)
	if err != nil {
		sdl.Quit()
		return nil, fmt.Errorf("sdl2: %w", err)
	}

	rend, err := sdl.CreateRenderer(wnd, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		wnd.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdl2: %w", err)
	}

	tex, err := rend.CreateTexture(sdl.PIXELFORMAT_RGBA8888, sdl.TEXTUREACCESS_STREAMING,
		int32(display.Width), int32(display.Height))
	if err != nil {
		rend.Destroy()
		wnd.Destroy()
		sdl.Quit()
		return nil, fmt.Errorf("sdl2: %w", err)
	}

	spec := &sdl.AudioSpec{Freq: sampleRate, Format: sdl.AUDIO_S16LSB, Channels: 2, Samples: 1024}
	obtained := &sdl.AudioSpec{}
	dev, err := sdl.OpenAudioDevice("", false, spec, obtained, 0)
	if err != nil {
		slog.Warn("sdl2 audio device unavailable", "error", err)
	} else {
		sdl.PauseAudioDevice(dev, false)
	}

	return &Backend{
		cfg:         cfg,
		wnd:         wnd,
		rend:        rend,
		tex:         tex,
		audioDevice: dev,
		pressed:     make(map[input.Key]bool, 8),
	}, nil
}

var keyMapping = map[sdl.Keycode]input.Key{
	sdl.K_UP:     input.Up,
	sdl.K_DOWN:   input.Down,
	sdl.K_LEFT:   input.Left,
	sdl.K_RIGHT:  input.Right,
	sdl.K_z:      input.A,
	sdl.K_x:      input.B,
	sdl.K_RETURN: input.Start,
	sdl.K_RSHIFT: input.Select,
}

// PushSampleBatch implements gameboy.SampleSink, queuing 16-bit PCM onto
// the SDL audio device.
func (s *Backend) PushSampleBatch(batch []gameboy.Sample) {
	if s.audioDevice == 0 {
		return
	}
	buf := make([]int16, 0, len(batch)*2)
	for _, smp := range batch {
		buf = append(buf, int16(smp.Left*32767), int16(smp.Right*32767))
	}
	if err := sdl.QueueAudio(s.audioDevice, int16SliceToBytes(buf)); err != nil {
		slog.Warn("sdl2 audio queue failed", "error", err)
	}
}

// int16SliceToBytes encodes PCM samples as little-endian bytes for
// QueueAudio, matching the AUDIO_S16LSB format requested above.
func int16SliceToBytes(samples []int16) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(out[i*2:], uint16(s))
	}
	return out
}

func (s *Backend) Run(ctx context.Context, emu *gameboy.Emulator) error {
	fb := emu.FrameBuffer()
	cmds := emu.Commands()
	pixels := make([]byte, display.Width*display.Height*4)

	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}

		quit := s.pollEvents()
		cmds.Push(gameboy.UpdatePressedButtons(input.PackedButtons(s.pressed)))
		if quit {
			return nil
		}

		s.renderFrame(fb, pixels)
		sdl.Delay(1)
	}
}

func (s *Backend) pollEvents() (quit bool) {
	for event := sdl.PollEvent(); event != nil; event = sdl.PollEvent() {
		switch e := event.(type) {
		case *sdl.QuitEvent:
			quit = true
		case *sdl.KeyboardEvent:
			k, ok := keyMapping[e.Keysym.Sym]
			if !ok {
				if e.Keysym.Sym == sdl.K_ESCAPE && e.Type == sdl.KEYDOWN {
					quit = true
				}
				continue
			}
			s.pressed[k] = e.Type == sdl.KEYDOWN
		}
	}
	return quit
}

func (s *Backend) renderFrame(fb *display.FrameBuffer, pixels []byte) {
	snap := fb.Snapshot()
	for i, c := range snap {
		idx := i * 4
		pixels[idx] = byte(c >> 16)
		pixels[idx+1] = byte(c >> 8)
		pixels[idx+2] = byte(c)
		pixels[idx+3] = byte(c >> 24)
	}
	s.tex.Update(nil, pixels, display.Width*4)
	s.rend.Clear()
	s.rend.Copy(s.tex, nil, nil)
	s.rend.Present()
}

func (s *Backend) Cleanup() error {
	if s.audioDevice != 0 {
		sdl.CloseAudioDevice(s.audioDevice)
	}
	s.tex.Destroy()
	s.rend.Destroy()
	s.wnd.Destroy()
	sdl.Quit()
	return nil
}
