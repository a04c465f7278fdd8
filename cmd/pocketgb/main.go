package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/urfave/cli"

	"github.com/kestrel-oss/pocketgb/gb/backend"
	"github.com/kestrel-oss/pocketgb/gb/backend/headless"
	"github.com/kestrel-oss/pocketgb/gb/backend/sdl2"
	"github.com/kestrel-oss/pocketgb/gb/backend/terminal"
	"github.com/kestrel-oss/pocketgb/gb/config"
	"github.com/kestrel-oss/pocketgb/gb/gameboy"
	"github.com/kestrel-oss/pocketgb/gb/memory"
)

func main() {
	app := cli.NewApp()
	app.Name = "pocketgb"
	app.Description = "A Game Boy / Game Boy Color emulation core"
	app.Usage = "pocketgb [options] <ROM file>"
	app.Version = "0.1.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "rom", Usage: "path to the ROM file"},
		cli.StringFlag{Name: "backend", Value: "terminal", Usage: "terminal, sdl2, or headless"},
		cli.IntFlag{Name: "scale", Value: 3, Usage: "window scale factor (sdl2 backend only)"},
		cli.IntFlag{Name: "turbo", Value: 4, Usage: "frames run per wall-clock frame while turbo is active"},
		cli.StringFlag{Name: "save-dir", Usage: "directory for save files and quick-save slots"},
		cli.IntFlag{Name: "frames", Value: 0, Usage: "frame budget for the headless backend (0 or less = 3600)"},
		cli.IntFlag{Name: "snapshot-interval", Value: 0, Usage: "save a PNG snapshot every N frames (headless backend)"},
		cli.StringFlag{Name: "snapshot-dir", Usage: "directory for headless snapshots"},
	}
	app.Action = run

	if err := app.Run(os.Args); err != nil {
		slog.Error("pocketgb exited with error", "error", err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	romPath := c.String("rom")
	if romPath == "" {
		if c.NArg() > 0 {
			romPath = c.Args().Get(0)
		} else {
			cli.ShowAppHelp(c)
			return errors.New("no ROM path provided")
		}
	}

	data, err := os.ReadFile(romPath)
	if err != nil {
		return err
	}

	cart, err := memory.LoadCartridge(data)
	if err != nil {
		return err
	}

	cfg := config.Default()
	cfg.TurboMultiplier = c.Int("turbo")
	cfg.SaveDirectory = c.String("save-dir")

	bcfg := backend.Config{
		Title:             cart.Title,
		Scale:             c.Int("scale"),
		SnapshotInterval:  c.Int("snapshot-interval"),
		SnapshotDirectory: c.String("snapshot-dir"),
	}

	var be backend.Backend
	var sink gameboy.SampleSink

	switch strings.ToLower(c.String("backend")) {
	case "terminal":
		tb, err := terminal.New(bcfg)
		if err != nil {
			return err
		}
		be = tb
	case "sdl2":
		sb, err := sdl2.New(bcfg)
		if err != nil {
			return err
		}
		be = sb
		sink = sb
	case "headless":
		maxFrames := c.Int("frames")
		if maxFrames <= 0 {
			maxFrames = 3600
		}
		be = headless.New(bcfg, maxFrames, romBaseName(romPath))
	default:
		return errors.New("unknown backend: " + c.String("backend"))
	}
	defer be.Cleanup()

	emu, err := gameboy.New(cart, cfg, sink)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- emu.Run(ctx) }()

	if err := be.Run(ctx, emu); err != nil {
		stop()
		<-errCh
		return err
	}

	stop()
	return <-errCh
}

func romBaseName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
