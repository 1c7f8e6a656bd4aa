package myaudio

import (
	"github.com/valib-go/valib/internal/audiocore"
)

// CounterFilter is a transparent passthrough that tracks the running
// sample position of the stream (spec.md §4 "Counter", table row 14),
// for callers that need to correlate a later chunk's Time back to an
// absolute sample offset without decoding it themselves.
type CounterFilter struct {
	audiocore.BaseFilter

	pos int64
}

// NewCounter builds a passthrough position counter.
func NewCounter() *CounterFilter { return &CounterFilter{} }

func (f *CounterFilter) Name() string { return "counter" }

func (f *CounterFilter) CanOpen(spk audiocore.Speakers) bool { return true }

func (f *CounterFilter) IsOFDD() bool { return false }

func (f *CounterFilter) Open(spk audiocore.Speakers) error {
	f.pos = 0
	f.OpenAs(spk, spk)
	return nil
}

func (f *CounterFilter) Close() { f.CloseState() }

func (f *CounterFilter) Reset() {
	f.pos = 0
	f.ResetState(f.GetOutput())
}

// Position returns the number of samples seen so far.
func (f *CounterFilter) Position() int64 { return f.pos }

func (f *CounterFilter) Process(in audiocore.Chunk) (audiocore.Chunk, audiocore.Chunk, bool, error) {
	if in.IsDummy() {
		return in, audiocore.DummyChunk(), false, nil
	}
	f.Active()
	f.pos += int64(in.Samples)
	return in.Drop(in.Samples), in, true, nil
}

func (f *CounterFilter) Flush() (audiocore.Chunk, bool, error) {
	return audiocore.DummyChunk(), false, nil
}
