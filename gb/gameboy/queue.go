package gameboy

import "sync"

// CommandQueue is the single-producer (host)/single-consumer (emulator)
// queue described in spec §5: the host pushes commands from any thread,
// the emulator drains the whole backlog without blocking at the top of
// every tick. A mutex-guarded slice is enough here since pushes are rare
// (user input events, not per-tick traffic) next to the tick loop itself.
type CommandQueue struct {
	mu      sync.Mutex
	pending []Command
}

func NewCommandQueue() *CommandQueue {
	return &CommandQueue{}
}

// Push enqueues a command from the host side. Safe to call concurrently
// with Drain from any number of producer goroutines.
func (q *CommandQueue) Push(c Command) {
	q.mu.Lock()
	q.pending = append(q.pending, c)
	q.mu.Unlock()
}

// Drain removes and returns every currently-queued command, never
// blocking. Called once per tick by the emulator's own goroutine.
func (q *CommandQueue) Drain() []Command {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.pending) == 0 {
		return nil
	}
	out := q.pending
	q.pending = nil
	return out
}
