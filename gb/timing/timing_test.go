package timing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTargetFPSMatchesGameBoyRate(t *testing.T) {
	fps := TargetFPS()
	assert.InDelta(t, 59.7, fps, 0.5)
}

func TestFrameDurationRoundTripsToTargetFPS(t *testing.T) {
	d := FrameDuration()
	gotFPS := float64(time.Second) / float64(d)
	assert.InDelta(t, TargetFPS(), gotFPS, 0.01)
}

func TestNoOpLimiterNeverBlocks(t *testing.T) {
	var l NoOpLimiter
	start := time.Now()
	l.WaitForNextFrame()
	l.Reset()
	assert.Less(t, time.Since(start), 5*time.Millisecond)
}

func TestAdaptiveLimiterFirstWaitReturnsWithinTwoFrames(t *testing.T) {
	l := NewAdaptiveLimiter()
	l.Reset()

	start := time.Now()
	l.WaitForNextFrame()
	elapsed := time.Since(start)

	assert.LessOrEqual(t, elapsed, 2*FrameDuration())
}

func TestAdaptiveLimiterResyncsAfterLargeStall(t *testing.T) {
	l := NewAdaptiveLimiter()
	l.Reset()
	l.nextFrame = time.Now().Add(-time.Second) // simulate a long debugger pause

	start := time.Now()
	l.WaitForNextFrame()
	elapsed := time.Since(start)

	assert.LessOrEqual(t, elapsed, 50*time.Millisecond, "expected a stalled limiter to resync quickly instead of burning through the backlog")
}
