package gameboy

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDrainEmptyQueueReturnsNil(t *testing.T) {
	q := NewCommandQueue()
	assert.Nil(t, q.Drain())
}

func TestDrainReturnsPushedCommandsInOrder(t *testing.T) {
	q := NewCommandQueue()
	q.Push(VolumeUp())
	q.Push(VolumeDown())
	q.Push(ToggleMute())

	got := q.Drain()
	if assert.Len(t, got, 3) {
		want := []CommandKind{CmdVolumeUp, CmdVolumeDown, CmdToggleMute}
		for i, k := range want {
			assert.Equal(t, k, got[i].Kind)
		}
	}
}

func TestDrainClearsBacklog(t *testing.T) {
	q := NewCommandQueue()
	q.Push(Save())

	q.Drain()
	assert.Nil(t, q.Drain(), "backlog should be cleared after the first Drain")
}

func TestPushDrainConcurrentFromMultipleProducers(t *testing.T) {
	q := NewCommandQueue()
	const producers = 8
	const perProducer = 50

	var wg sync.WaitGroup
	wg.Add(producers)
	for i := 0; i < producers; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < perProducer; j++ {
				q.Push(VolumeUp())
			}
		}()
	}
	wg.Wait()

	assert.Len(t, q.Drain(), producers*perProducer)
}
