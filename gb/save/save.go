// Package save implements the save-file container (spec §6): battery-
// backed cartridge RAM plus a fixed array of quick-save slots, flushed to
// disk on demand and on a periodic timer.
package save

import (
	"bytes"
	"encoding/gob"
	"os"
	"sync"
	"time"

	"github.com/kestrel-oss/pocketgb/gb/cpu"
	"github.com/kestrel-oss/pocketgb/gb/memory"
)

// NumQuickSaveSlots matches the original implementation's fixed slot
// count (original_source's save_file.rs NUM_QUICK_SAVE_SLOTS).
const NumQuickSaveSlots = 10

// Snapshot is a full, serializable point-in-time capture of emulator
// state: CPU registers/IME, the bus (memory map, timer, DMA, PPU mode/LY,
// CGB palettes), and cartridge RAM. APU channel state is not captured,
// and a quick-load does not touch the APU: the channels keep the state
// they had when the load was requested.
type Snapshot struct {
	CPU  cpu.State
	Bus  memory.BusState
	Cart []byte // battery RAM at the time of the snapshot
}

// File is the on-disk save container: the cartridge's persistent RAM and
// a fixed array of optional quick-save slots.
type File struct {
	mu sync.Mutex

	path       string
	CartRAM    []byte
	QuickSaves [NumQuickSaveSlots]*Snapshot

	dirty bool
}

// New creates an empty save file for a freshly-loaded cartridge, bound to
// path for future Flush calls.
func New(path string) *File {
	return &File{path: path}
}

// Load reads a save file from disk; a missing file is not an error (a
// fresh cartridge simply has no prior save).
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(path), nil
	}
	if err != nil {
		return nil, err
	}

	f := &File{path: path}
	dec := gob.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&f.CartRAM); err != nil {
		return nil, err
	}
	var slots map[int]*Snapshot
	if err := dec.Decode(&slots); err != nil {
		return nil, err
	}
	for i, s := range slots {
		if i >= 0 && i < NumQuickSaveSlots {
			f.QuickSaves[i] = s
		}
	}
	return f, nil
}

// UpdateCartridgeRAM copies the cartridge's current battery RAM into the
// save file and marks it dirty for the next flush.
func (f *File) UpdateCartridgeRAM(ram []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CartRAM = append([]byte(nil), ram...)
	f.dirty = true
}

// StoreQuickSave installs a snapshot into the given slot (0-based,
// matching the CmdQuickSave command's slot index).
func (f *File) StoreQuickSave(slot int, snap Snapshot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if slot < 0 || slot >= NumQuickSaveSlots {
		return
	}
	f.QuickSaves[slot] = &snap
	f.dirty = true
}

// QuickSave returns the snapshot stored in the given slot, or nil if
// empty or out of range.
func (f *File) QuickSave(slot int) *Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	if slot < 0 || slot >= NumQuickSaveSlots {
		return nil
	}
	return f.QuickSaves[slot]
}

// Flush writes the save file to disk and returns any encode or write error
// to its caller; after a failure the file stays dirty, so the next Flush
// retries. gameboy.Emulator logs a failed periodic flush (Warn) or a failed
// Save command (Error) and keeps running.
func (f *File) Flush() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.dirty {
		return nil
	}

	var buf bytes.Buffer
	enc := gob.NewEncoder(&buf)
	if err := enc.Encode(f.CartRAM); err != nil {
		return err
	}
	// gob rejects nil array elements, so only occupied slots are written,
	// keyed by slot index.
	slots := make(map[int]*Snapshot, NumQuickSaveSlots)
	for i, s := range f.QuickSaves {
		if s != nil {
			slots[i] = s
		}
	}
	if err := enc.Encode(slots); err != nil {
		return err
	}

	if err := os.WriteFile(f.path, buf.Bytes(), 0o600); err != nil {
		return err
	}
	f.dirty = false
	return nil
}

// AutoFlushInterval is the periodic flush cadence (spec §6).
const AutoFlushInterval = 5 * time.Second
