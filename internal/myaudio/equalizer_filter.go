package myaudio

import (
	"github.com/valib-go/valib/internal/audiocore"
	"github.com/valib-go/valib/internal/myaudio/equalizer"
)

// BandSpec describes one biquad stage of an EqualizerFilter: a response
// shape plus its RBJ cookbook parameters (spec.md §4 "equalize").
type BandSpec struct {
	Name   equalizer.FilterName
	Freq   float64
	Q      float64
	GainDB float64 // ignored by LowPass/HighPass/BandPass
	Passes int     // cascade count, 1 if <= 0
}

// EqualizerFilter runs a chain of biquad bands over every channel of a
// linear stream, one independent equalizer.FilterChain per channel since
// each band's public constructors allocate single-channel state.
type EqualizerFilter struct {
	audiocore.BaseFilter

	Bands []BandSpec

	chains []*equalizer.FilterChain
}

// NewEqualizerFilter builds an equalizer node cascading bands, in order,
// over every channel.
func NewEqualizerFilter(bands []BandSpec) *EqualizerFilter {
	return &EqualizerFilter{Bands: bands}
}

func (f *EqualizerFilter) Name() string { return "equalizer" }

func (f *EqualizerFilter) CanOpen(spk audiocore.Speakers) bool {
	return spk.Format == audiocore.FormatLinear
}

func (f *EqualizerFilter) IsOFDD() bool { return false }

func (f *EqualizerFilter) Open(spk audiocore.Speakers) error {
	nch := spk.NumChannels()
	chains := make([]*equalizer.FilterChain, nch)
	for ch := range chains {
		fc := equalizer.NewFilterChain()
		for _, b := range f.Bands {
			band, err := newBand(float64(spk.Rate), b)
			if err != nil {
				return err
			}
			if err := fc.AddFilter(band); err != nil {
				return err
			}
		}
		chains[ch] = fc
	}
	f.chains = chains
	f.OpenAs(spk, spk)
	return nil
}

func (f *EqualizerFilter) Close() {
	f.CloseState()
	f.chains = nil
}

func (f *EqualizerFilter) Reset() {
	chains := make([]*equalizer.FilterChain, len(f.chains))
	for ch := range chains {
		fc := equalizer.NewFilterChain()
		for _, b := range f.Bands {
			band, err := newBand(float64(f.GetOutput().Rate), b)
			if err != nil {
				continue
			}
			_ = fc.AddFilter(band)
		}
		chains[ch] = fc
	}
	f.chains = chains
	f.ResetState(f.GetOutput())
}

func (f *EqualizerFilter) Process(in audiocore.Chunk) (audiocore.Chunk, audiocore.Chunk, bool, error) {
	if in.IsDummy() {
		return in, audiocore.DummyChunk(), false, nil
	}
	f.Active()

	out := make([][]float64, len(in.Planar))
	for ch, src := range in.Planar {
		row := make([]float64, len(src))
		copy(row, src)
		if ch < len(f.chains) {
			f.chains[ch].ApplyBatch(row)
		}
		out[ch] = row
	}
	outChunk := audiocore.NewLinearChunk(out)
	outChunk.Sync, outChunk.Time = in.Sync, in.Time
	return in.Drop(in.Samples), outChunk, true, nil
}

func (f *EqualizerFilter) Flush() (audiocore.Chunk, bool, error) {
	return audiocore.DummyChunk(), false, nil
}

func newBand(rate float64, b BandSpec) (*equalizer.Filter, error) {
	passes := b.Passes
	if passes < 1 {
		passes = 1
	}
	switch b.Name {
	case equalizer.LowPass:
		return equalizer.NewLowPass(rate, b.Freq, b.Q, passes)
	case equalizer.HighPass:
		return equalizer.NewHighPass(rate, b.Freq, b.Q, passes)
	case equalizer.BandPass:
		return equalizer.NewBandPass(rate, b.Freq, b.Q, passes)
	case equalizer.Peaking:
		return equalizer.NewPeaking(rate, b.Freq, b.Q, b.GainDB, passes)
	case equalizer.LowShelf:
		return equalizer.NewLowShelf(rate, b.Freq, b.Q, b.GainDB, passes)
	default: // HighShelf
		return equalizer.NewHighShelf(rate, b.Freq, b.Q, b.GainDB, passes)
	}
}
