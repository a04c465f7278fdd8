package gameboy

// Sample is one stereo audio sample, tagged with the tick it was taken
// on (spec §6's output interface).
type Sample struct {
	Left  float32
	Right float32
	Tick  uint32
}

// SampleSink receives one finished batch of samples per emulated frame,
// non-blocking from the emulator's point of view (spec §5): the sink is
// expected to keep a target two-frame buffer and catch up by dropping
// or resampling, never by blocking the producer.
type SampleSink interface {
	PushSampleBatch(batch []Sample)
}

// DiscardingSampleSink drops every batch; used when no audio sink is
// installed (e.g. headless/benchmark runs).
type DiscardingSampleSink struct{}

func (DiscardingSampleSink) PushSampleBatch([]Sample) {}
