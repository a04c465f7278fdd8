package memory

// P1 composition (read/write handlers) lives in ioreg.go alongside the
// rest of the I/O register file; this file only holds the small pieces
// that don't belong there.

// ReadJoypad exposes the composed P1 byte for callers outside the normal
// CPU-facing Read path (debug tooling, tests).
func (b *Bus) ReadJoypad() uint8 { return readP1(b, 0) }
