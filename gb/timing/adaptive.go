package timing

import "time"

// AdaptiveLimiter sleeps for the bulk of a frame's slack and busy-waits
// the last couple of milliseconds for precision, correcting for
// accumulated scheduler drift every 60 frames.
type AdaptiveLimiter struct {
	frameDuration time.Duration
	nextFrame     time.Time
	frameCounter  int64
}

func NewAdaptiveLimiter() *AdaptiveLimiter {
	return &AdaptiveLimiter{
		frameDuration: FrameDuration(),
		nextFrame:     time.Now(),
	}
}

func (a *AdaptiveLimiter) WaitForNextFrame() {
	now := time.Now()
	sleepTime := a.nextFrame.Sub(now)

	switch {
	case sleepTime > 2*time.Millisecond:
		time.Sleep(sleepTime - time.Millisecond)
		for time.Now().Before(a.nextFrame) {
		}
	case sleepTime > 0:
		for time.Now().Before(a.nextFrame) {
		}
	case sleepTime < -5*time.Millisecond:
		// far behind schedule (e.g. after a debugger pause): resync
		// instead of trying to burn through the backlog.
		a.nextFrame = now
	}

	a.nextFrame = a.nextFrame.Add(a.frameDuration)
	a.frameCounter++

	if a.frameCounter%60 == 0 {
		drift := time.Now().Sub(a.nextFrame)
		if drift.Abs() > 10*time.Millisecond {
			a.nextFrame = a.nextFrame.Add(drift / 10)
		}
	}
}

func (a *AdaptiveLimiter) Reset() {
	a.nextFrame = time.Now()
	a.frameCounter = 0
}
