package gameboy

import "testing"

func TestDiscardingSampleSinkDropsBatch(t *testing.T) {
	var sink DiscardingSampleSink
	// Must not panic regardless of batch contents; there's nothing else
	// observable about a sink that discards everything.
	sink.PushSampleBatch([]Sample{{Left: 1, Right: -1, Tick: 42}})
	sink.PushSampleBatch(nil)
}

func TestDiscardingSampleSinkSatisfiesSampleSink(t *testing.T) {
	var _ SampleSink = DiscardingSampleSink{}
}
