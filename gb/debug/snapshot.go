// Package debug holds optional host-shell conveniences that sit outside
// the core tick loop: exporting a framebuffer snapshot to disk for bug
// reports and manual inspection.
package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/kestrel-oss/pocketgb/gb/display"
)

// SaveFramePNG writes fb as an RGBA PNG into directory (the current
// working directory if empty), named baseName plus a timestamp.
func SaveFramePNG(fb *display.FrameBuffer, baseName, directory string) error {
	if fb == nil {
		return fmt.Errorf("debug: no framebuffer to snapshot")
	}

	img := image.NewRGBA(image.Rect(0, 0, display.Width, display.Height))
	pixels := fb.Snapshot()
	for i, c := range pixels {
		idx := i * 4
		img.Pix[idx] = uint8(c >> 16)
		img.Pix[idx+1] = uint8(c >> 8)
		img.Pix[idx+2] = uint8(c)
		img.Pix[idx+3] = uint8(c >> 24)
	}

	outputDir := directory
	if outputDir == "" {
		cwd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("debug: %w", err)
		}
		outputDir = cwd
	}

	filename := fmt.Sprintf("%s_%s.png", baseName, time.Now().Format("20060102_150405"))
	path := filepath.Join(outputDir, filename)

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("debug: %w", err)
	}
	defer f.Close()

	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("debug: %w", err)
	}

	slog.Info("snapshot saved", "path", path, "size", fmt.Sprintf("%dx%d", display.Width, display.Height))
	return nil
}

// SaveFrameGrayPNG writes fb as a grayscale PNG, quantizing each pixel to
// the nearest DMG shade, for comparing rendered frames without depending
// on exact RGBA channel values.
func SaveFrameGrayPNG(fb *display.FrameBuffer, path string) error {
	img := image.NewGray(image.Rect(0, 0, display.Width, display.Height))

	pixels := fb.Snapshot()
	for y := 0; y < display.Height; y++ {
		for x := 0; x < display.Width; x++ {
			c := pixels[y*display.Width+x]
			var gray uint8
			switch c {
			case display.White:
				gray = 255
			case display.LightGray:
				gray = 170
			case display.DarkGray:
				gray = 85
			case display.Black:
				gray = 0
			default:
				gray = uint8(c >> 16)
			}
			img.SetGray(x, y, color.Gray{Y: gray})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("debug: %w", err)
	}
	defer f.Close()

	return png.Encode(f, img)
}
