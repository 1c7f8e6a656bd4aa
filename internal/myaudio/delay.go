package myaudio

import (
	"github.com/valib-go/valib/internal/audiocore"
)

// SonicSpeed is the speed of sound in air used to convert a delay in
// meters to samples (spec.md REDESIGN FLAGS: "delay in meters using
// sonic_speed=330 m/s"). No temperature adjustment is applied — the spec
// leaves that question open and this implementation resolves it to the
// simplest reading, a fixed constant (see DESIGN.md).
const SonicSpeed = 330.0 // m/s

// DelayFilter holds back the newest Samples samples of every channel
// (spec.md §4 "Delay"). No silence is inserted: the output is the input
// sequence itself, each sample leaving once Samples newer ones have arrived
// behind it, and Flush releases the held-back tail.
type DelayFilter struct {
	audiocore.BaseFilter

	Samples int

	tail    [][]float64 // held-back samples, one slice per channel
	nch     int
	emitted int
	sh      *audiocore.SyncHelper
	rate    int
}

// NewDelay builds a delay filter of the given length in samples.
func NewDelay(samples int) *DelayFilter { return &DelayFilter{Samples: samples} }

// NewDelayMeters builds a delay filter for a distance in meters at the
// given sample rate, using SonicSpeed.
func NewDelayMeters(meters float64, rate int) *DelayFilter {
	return NewDelay(int(meters / SonicSpeed * float64(rate)))
}

func (f *DelayFilter) Name() string { return "delay" }

func (f *DelayFilter) CanOpen(spk audiocore.Speakers) bool {
	return spk.Format == audiocore.FormatLinear
}

func (f *DelayFilter) IsOFDD() bool { return false }

func (f *DelayFilter) Open(spk audiocore.Speakers) error {
	f.nch = spk.NumChannels()
	f.tail = make([][]float64, f.nch)
	for ch := range f.tail {
		f.tail[ch] = make([]float64, 0, f.Samples)
	}
	f.emitted = 0
	f.rate = spk.Rate
	f.sh = audiocore.NewSyncHelper()
	f.OpenAs(spk, spk)
	return nil
}

func (f *DelayFilter) Close() {
	f.CloseState()
	f.tail = nil
}

func (f *DelayFilter) Reset() {
	for ch := range f.tail {
		f.tail[ch] = f.tail[ch][:0]
	}
	f.emitted = 0
	f.sh.Reset()
	f.ResetState(f.GetOutput())
}

// Process appends the chunk to each channel's held-back tail and emits all
// but the newest Samples samples; it emits nothing until more than Samples
// samples have arrived.
func (f *DelayFilter) Process(in audiocore.Chunk) (audiocore.Chunk, audiocore.Chunk, bool, error) {
	if in.IsDummy() {
		return in, audiocore.DummyChunk(), false, nil
	}
	f.Active()
	f.sh.ReceiveSync(&in)
	f.sh.Put(in.Samples)

	if f.Samples == 0 {
		out := in.Drop(0)
		f.sh.SendSyncLinear(&out, f.rate)
		return in.Drop(in.Samples), out, true, nil
	}

	n := in.Samples
	out := make([][]float64, f.nch)
	for ch := 0; ch < f.nch && ch < len(in.Planar); ch++ {
		combined := append(f.tail[ch], in.Planar[ch]...)
		if len(combined) <= f.Samples {
			f.tail[ch] = combined
			out[ch] = nil
			continue
		}
		emit := combined[:len(combined)-f.Samples]
		row := make([]float64, len(emit))
		copy(row, emit)
		out[ch] = row
		rest := make([]float64, f.Samples)
		copy(rest, combined[len(combined)-f.Samples:])
		f.tail[ch] = rest
	}

	_ = n
	if out[0] == nil {
		return in.Drop(in.Samples), audiocore.DummyChunk(), false, nil
	}
	outChunk := audiocore.NewLinearChunk(out)
	f.sh.SendSyncLinear(&outChunk, f.rate)
	return in.Drop(in.Samples), outChunk, true, nil
}

// Flush drains the held-back tail as the final, silence-free-of-future
// output (spec.md §4.1 flush semantics).
func (f *DelayFilter) Flush() (audiocore.Chunk, bool, error) {
	if len(f.tail) == 0 || len(f.tail[0]) == 0 {
		return audiocore.DummyChunk(), false, nil
	}
	out := make([][]float64, f.nch)
	for ch := range f.tail {
		out[ch] = f.tail[ch]
		f.tail[ch] = nil
	}
	return audiocore.NewLinearChunk(out), false, nil
}
