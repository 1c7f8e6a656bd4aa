// Package myaudio holds the small stateful filters and sample-level
// utilities of spec.md §4 that don't warrant their own internal/dsp
// package: slicing, format conversion, gain, delay, dither, counting,
// equalization, level metering and spectrum analysis.
package myaudio

import (
	"github.com/valib-go/valib/internal/audiocore"
)

// Unbounded marks an unset Start/End boundary: Slice passes through from
// the beginning, or through to the end, respectively (spec.md §4.11).
const Unbounded = -1

// SliceFilter passes through only the samples whose running position falls
// in [Start, End), dropping everything outside that window (spec.md
// §4.11). Position is a running counter across chunks, not reset by Open.
type SliceFilter struct {
	audiocore.BaseFilter

	Start int // sample index, Unbounded for "from the beginning"
	End   int // sample index, Unbounded for "through the end"

	pos  int64
	sh   *audiocore.SyncHelper
	rate int
}

// NewSliceFilter builds a SliceFilter over [start, end); pass Unbounded for
// either bound to leave it open.
func NewSliceFilter(start, end int) *SliceFilter {
	return &SliceFilter{Start: start, End: end}
}

func (f *SliceFilter) Name() string { return "slice" }

func (f *SliceFilter) CanOpen(spk audiocore.Speakers) bool { return true }

func (f *SliceFilter) IsOFDD() bool { return false }

func (f *SliceFilter) Open(spk audiocore.Speakers) error {
	f.rate = spk.Rate
	f.sh = audiocore.NewSyncHelper()
	f.OpenAs(spk, spk)
	return nil
}

func (f *SliceFilter) Close() { f.CloseState() }

// Reset rewinds the running position counter (a new stream starts the
// window over from sample 0).
func (f *SliceFilter) Reset() {
	f.pos = 0
	f.sh.Reset()
	f.ResetState(f.GetOutput())
}

func (f *SliceFilter) Process(in audiocore.Chunk) (audiocore.Chunk, audiocore.Chunk, bool, error) {
	if in.IsDummy() {
		return in, audiocore.DummyChunk(), false, nil
	}
	f.Active()
	f.sh.ReceiveSync(&in)
	f.sh.Put(in.Samples)

	start := int64(f.pos)
	end := start + int64(in.Samples)
	f.pos = end

	lo := int64(0)
	if f.Start != Unbounded && int64(f.Start) > start {
		lo = int64(f.Start) - start
	}
	hi := int64(in.Samples)
	if f.End != Unbounded && int64(f.End) < end {
		hi = int64(f.End) - start
	}
	if hi <= lo {
		f.sh.Drop(in.Samples)
		return in.Drop(in.Samples), audiocore.DummyChunk(), false, nil
	}

	out := in.Take(int(hi)).Drop(int(lo))
	if dropped := in.Samples - out.Samples; dropped > 0 {
		f.sh.Drop(dropped)
	}
	f.sh.SendSyncLinear(&out, f.rate)
	return in.Drop(in.Samples), out, true, nil
}

func (f *SliceFilter) Flush() (audiocore.Chunk, bool, error) {
	return audiocore.DummyChunk(), false, nil
}
