// Package gameboy ties the CPU, bus, PPU and APU together into the
// single-threaded cooperative tick loop described in spec §4.10/§5: the
// frame scheduler, the host command queue, and the framebuffer/audio
// output handles.
package gameboy

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"time"

	"github.com/kestrel-oss/pocketgb/gb/config"
	"github.com/kestrel-oss/pocketgb/gb/cpu"
	"github.com/kestrel-oss/pocketgb/gb/display"
	"github.com/kestrel-oss/pocketgb/gb/gberr"
	"github.com/kestrel-oss/pocketgb/gb/memory"
	"github.com/kestrel-oss/pocketgb/gb/save"
	"github.com/kestrel-oss/pocketgb/gb/timing"
	"github.com/kestrel-oss/pocketgb/gb/video"
)

const sampleRateHz = 44100

// dmgDividerSeed matches the divider value the boot ROM leaves behind on
// original DMG hardware; no boot ROM image is shipped (config.Config's
// DisableBootROM is always effectively true), so this is seeded directly.
const dmgDividerSeed = 0xABCC

// Emulator is the root struct: the owned CPU/bus/PPU, the host-facing
// command queue and sample sink, and the frame scheduler's own pacing
// and bookkeeping state.
type Emulator struct {
	cpu *cpu.CPU
	bus *memory.Bus
	ppu *video.PPU

	cfg config.Config

	commands *CommandQueue
	sink     SampleSink
	saveFile *save.File

	limiter timing.Limiter
	turbo   bool
	muted   bool

	ticksPerSample int
	sampleBatch    []Sample

	tickCount  uint64
	frameCount uint64
}

// New constructs an emulator for the given cartridge and configuration.
// The bus/CPU/PPU are wired together but not yet reset; call Run to
// start the tick loop (Run performs the initial reset itself).
func New(cart *memory.Cartridge, cfg config.Config, sink SampleSink) (*Emulator, error) {
	cgb := cfg.Model == config.CGB
	bus, err := memory.NewWithCartridge(cart, cgb)
	if err != nil {
		return nil, fmt.Errorf("gameboy: %w", err)
	}

	fb := display.New()
	e := &Emulator{
		cpu:      cpu.New(bus),
		bus:      bus,
		ppu:      video.New(bus, fb),
		cfg:      cfg,
		commands: NewCommandQueue(),
		sink:     sink,
		limiter:  timing.NewAdaptiveLimiter(),
	}
	if e.sink == nil {
		e.sink = DiscardingSampleSink{}
	}
	e.bus.APU.SetVolume(float64(cfg.InitialVolume) / 7)
	e.ticksPerSample = int(math.Round(float64(timing.CPUFrequency) / sampleRateHz))

	if cfg.SaveDirectory != "" {
		path := filepath.Join(cfg.SaveDirectory, cart.Title+".sav")
		sf, err := save.Load(path)
		if err != nil {
			slog.Warn("save file load failed, starting fresh", "error", err)
			sf = save.New(path)
		}
		e.saveFile = sf
		if _, ok := bus.BatteryRAM(); ok && len(sf.CartRAM) > 0 {
			bus.LoadBatteryRAM(sf.CartRAM)
		}
	}

	return e, nil
}

// FrameBuffer returns the cross-thread framebuffer handle (spec §5).
func (e *Emulator) FrameBuffer() *display.FrameBuffer { return e.ppu.FrameBuffer() }

// Commands returns the host-facing command queue (spec §5).
func (e *Emulator) Commands() *CommandQueue { return e.commands }

// Run drives the tick loop until ctx is cancelled, recovering any
// programmer-error panic raised from the core (spec §7) and turning it
// into a returned error instead of propagating to the host.
func (e *Emulator) Run(ctx context.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if perr, ok := r.(error); ok {
				err = fmt.Errorf("gameboy: core assertion failed: %w", perr)
				return
			}
			err = fmt.Errorf("gameboy: core assertion failed: %v", r)
		}
	}()

	e.cpu.Reset()
	e.bus.SeedDividerForModel(dmgDividerSeed)

	flushTicker := time.NewTicker(save.AutoFlushInterval)
	defer flushTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			e.flushSave()
			return nil
		case <-flushTicker.C:
			if e.saveFile != nil {
				if err := e.saveFile.Flush(); err != nil {
					slog.Warn("periodic save flush failed", "error", gberr.ErrSaveFlushFailed, "cause", err)
				}
			}
		default:
			e.runFrame()
			if e.turbo {
				for i := 1; i < e.cfg.TurboMultiplier; i++ {
					e.runFrame()
				}
			}
			e.limiter.WaitForNextFrame()
		}
	}
}

// runFrame advances exactly one 70224-tick frame (spec §4.10 step 1-2),
// then swaps the accumulated sample batch out to the sink (step 3).
func (e *Emulator) runFrame() {
	for i := 0; i < timing.CyclesPerFrame; i++ {
		e.runTick()
	}
	e.frameCount++
	if len(e.sampleBatch) > 0 {
		e.sink.PushSampleBatch(e.sampleBatch)
		e.sampleBatch = nil
	}
}

// runTick performs exactly the sequence spec §4.10 prescribes for
// run_tick: drain commands, advance timer/APU/DMA, dispatch interrupt or
// execute one instruction once the instruction-tick budget is spent,
// sample the APU on the configured cadence, advance the tick counter.
func (e *Emulator) runTick() {
	e.drainCommands()

	e.bus.TickSystem()
	e.ppu.Tick(e.cpu.Halted())

	if !e.bus.IsFrozenForDMA() {
		e.cpu.Tick(e.bus.DoubleSpeed())
	}

	if e.ticksPerSample > 0 && int(e.tickCount)%e.ticksPerSample == 0 {
		l, r := e.bus.APU.Sample()
		e.sampleBatch = append(e.sampleBatch, Sample{Left: float32(l), Right: float32(r), Tick: uint32(e.tickCount)})
	}

	e.tickCount++
}

func (e *Emulator) drainCommands() {
	for _, c := range e.commands.Drain() {
		e.applyCommand(c)
	}
}

func (e *Emulator) applyCommand(c Command) {
	switch c.Kind {
	case CmdUpdatePressedButtons:
		e.bus.SetPressedKeys(c.Buttons)
	case CmdSave:
		e.handleSave()
	case CmdQuickSave:
		e.handleQuickSave(c.Slot)
	case CmdLoadQuickSave:
		e.handleLoadQuickSave(c.Slot)
	case CmdSetTurboMode:
		e.turbo = c.Turbo
	case CmdVolumeUp:
		e.adjustVolume(1)
	case CmdVolumeDown:
		e.adjustVolume(-1)
	case CmdToggleMute:
		e.toggleMute()
	case CmdToggleAudioChannel:
		e.bus.APU.ToggleChannel(c.Channel)
	}
}

func (e *Emulator) adjustVolume(delta int) {
	v := int(e.cfg.InitialVolume) + delta
	if v < 0 {
		v = 0
	}
	if v > 7 {
		v = 7
	}
	e.cfg.InitialVolume = uint8(v)
	if !e.muted {
		e.bus.APU.SetVolume(float64(v) / 7)
	}
}

func (e *Emulator) toggleMute() {
	e.muted = !e.muted
	if e.muted {
		e.bus.APU.SetVolume(0)
	} else {
		e.bus.APU.SetVolume(float64(e.cfg.InitialVolume) / 7)
	}
}

func (e *Emulator) flushSave() {
	if e.saveFile == nil {
		return
	}
	if err := e.saveFile.Flush(); err != nil {
		slog.Warn("save flush failed", "error", err)
	}
}

func (e *Emulator) handleSave() {
	if e.saveFile == nil {
		return
	}
	if ram, ok := e.bus.BatteryRAM(); ok {
		e.saveFile.UpdateCartridgeRAM(ram)
	}
	if err := e.saveFile.Flush(); err != nil {
		slog.Error("save command failed", "error", gberr.ErrSaveFlushFailed, "cause", err)
	}
}

func (e *Emulator) handleQuickSave(slot int) {
	if e.saveFile == nil {
		return
	}
	var ram []byte
	if r, ok := e.bus.BatteryRAM(); ok {
		ram = append([]byte(nil), r...)
	}
	e.saveFile.StoreQuickSave(slot, save.Snapshot{
		CPU:  e.cpu.State(),
		Bus:  e.bus.State(),
		Cart: ram,
	})
}

func (e *Emulator) handleLoadQuickSave(slot int) {
	if e.saveFile == nil {
		return
	}
	snap := e.saveFile.QuickSave(slot)
	if snap == nil {
		slog.Warn("quick-load requested on empty slot", "error", gberr.ErrSaveLoadFailed, "slot", slot)
		return
	}
	e.cpu.Restore(snap.CPU)
	e.bus.Restore(snap.Bus)
	if snap.Cart != nil {
		e.bus.LoadBatteryRAM(snap.Cart)
	}
}
