// Package terminal renders the emulator framebuffer into a tcell screen,
// two Game Boy pixel rows per terminal cell via half-block characters.
package terminal

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/kestrel-oss/pocketgb/gb/backend"
	"github.com/kestrel-oss/pocketgb/gb/display"
	"github.com/kestrel-oss/pocketgb/gb/gameboy"
	"github.com/kestrel-oss/pocketgb/gb/input"
)

const (
	minTermWidth  = display.Width
	minTermHeight = display.Height/2 + 2

	// keyTimeout is how long a key stays "pressed" after its last key
	// event, approximating a held button without relying on OS key-repeat
	// timing (which varies wildly across terminals).
	keyTimeout = 100 * time.Millisecond

	pollInterval = time.Second / 120
)

// Backend implements backend.Backend using tcell.
type Backend struct {
	screen tcell.Screen
	cfg    backend.Config

	lastPressed map[input.Key]time.Time
}

func New(cfg backend.Config) (*Backend, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("terminal: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()

	return &Backend{
		screen:      screen,
		cfg:         cfg,
		lastPressed: make(map[input.Key]time.Time),
	}, nil
}

var keyMapping = map[tcell.Key]input.Key{
	tcell.KeyUp:    input.Up,
	tcell.KeyDown:  input.Down,
	tcell.KeyLeft:  input.Left,
	tcell.KeyRight: input.Right,
	tcell.KeyEnter: input.Start,
}

var runeMapping = map[rune]input.Key{
	'z': input.A,
	'x': input.B,
	'a': input.Start,
	's': input.Select,
}

func (t *Backend) Run(ctx context.Context, emu *gameboy.Emulator) error {
	defer func() {
		slog.Info("terminal backend stopping")
	}()

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	fb := emu.FrameBuffer()
	cmds := emu.Commands()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := time.Now()
			quit := t.pollEvents(now)
			cmds.Push(gameboy.UpdatePressedButtons(t.packedButtons(now)))
			t.render(fb)
			t.screen.Show()
			if quit {
				return nil
			}
		}
	}
}

func (t *Backend) pollEvents(now time.Time) (quit bool) {
	for t.screen.HasPendingEvent() {
		switch ev := t.screen.PollEvent().(type) {
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC {
				quit = true
				continue
			}
			if k, ok := keyMapping[ev.Key()]; ok {
				t.lastPressed[k] = now
				continue
			}
			if ev.Key() == tcell.KeyRune {
				if k, ok := runeMapping[ev.Rune()]; ok {
					t.lastPressed[k] = now
				}
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
	return quit
}

func (t *Backend) packedButtons(now time.Time) uint8 {
	pressed := make(map[input.Key]bool, 8)
	for k, last := range t.lastPressed {
		if now.Sub(last) < keyTimeout {
			pressed[k] = true
		} else {
			delete(t.lastPressed, k)
		}
	}
	return input.PackedButtons(pressed)
}

func (t *Backend) render(fb *display.FrameBuffer) {
	termWidth, termHeight := t.screen.Size()
	if termWidth < minTermWidth || termHeight < minTermHeight {
		t.screen.Clear()
		msg := fmt.Sprintf("terminal too small, need at least %dx%d", minTermWidth, minTermHeight)
		style := tcell.StyleDefault.Foreground(tcell.ColorRed)
		for i, ch := range msg {
			t.screen.SetContent(i, termHeight/2, ch, nil, style)
		}
		return
	}

	for y := 0; y < display.Height; y += 2 {
		for x := 0; x < display.Width; x++ {
			top := fb.At(x, y)
			bottom := display.White
			if y+1 < display.Height {
				bottom = fb.At(x, y+1)
			}
			char, fg, bg := halfBlock(top, bottom)
			t.screen.SetContent(x, y/2, char, nil, tcell.StyleDefault.Foreground(fg).Background(bg))
		}
	}
}

func shadeColor(c display.Color) tcell.Color {
	switch c {
	case display.White:
		return tcell.ColorWhite
	case display.LightGray:
		return tcell.ColorSilver
	case display.DarkGray:
		return tcell.ColorGray
	case display.Black:
		return tcell.ColorBlack
	default:
		return tcell.ColorBlack
	}
}

func halfBlock(top, bottom display.Color) (rune, tcell.Color, tcell.Color) {
	fg, bg := shadeColor(top), shadeColor(bottom)
	if top == bottom {
		return '█', fg, tcell.ColorDefault
	}
	return '▀', fg, bg
}

func (t *Backend) Cleanup() error {
	t.screen.Fini()
	return nil
}
