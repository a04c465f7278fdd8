// Package timing provides wall-clock frame pacing for the scheduler in
// gb/gameboy, adapted from the teacher's own frame limiter.
package timing

import "time"

// CyclesPerFrame is the fixed number of T-cycles in one Game Boy frame
// (154 scanlines x 456 ticks).
const CyclesPerFrame = 70224

// CPUFrequency is the DMG/CGB (single-speed) clock rate in Hz.
const CPUFrequency = 4194304

// TargetFPS is the exact Game Boy frame rate implied by the two
// constants above (~59.7 Hz, not 60).
func TargetFPS() float64 {
	return float64(CPUFrequency) / float64(CyclesPerFrame)
}

// FrameDuration is the target wall-clock duration of a single frame.
func FrameDuration() time.Duration {
	return time.Duration(float64(time.Second) / TargetFPS())
}

// Limiter paces the emulator to wall-clock speed, one frame at a time.
type Limiter interface {
	// WaitForNextFrame blocks until it is time to start the next frame,
	// returning immediately if the deadline has already passed.
	WaitForNextFrame()
	// Reset clears accumulated drift, used after a pause or seek.
	Reset()
}

// NoOpLimiter never sleeps; used for turbo mode and headless/benchmark
// runs where the host wants the core to run as fast as possible.
type NoOpLimiter struct{}

func (NoOpLimiter) WaitForNextFrame() {}
func (NoOpLimiter) Reset()            {}
