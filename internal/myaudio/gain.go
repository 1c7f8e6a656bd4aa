package myaudio

import (
	"math"

	"github.com/valib-go/valib/internal/audiocore"
)

// GainFilter applies a constant linear scalar gain to every channel
// (spec.md §4 "Gain", table row 14).
type GainFilter struct {
	audiocore.BaseFilter

	Gain float64 // linear; 1.0 is unity
}

// NewGain builds a gain filter from a linear scalar.
func NewGain(gain float64) *GainFilter { return &GainFilter{Gain: gain} }

// NewGainDB builds a gain filter from a dB value.
func NewGainDB(db float64) *GainFilter { return &GainFilter{Gain: math.Pow(10, db/20)} }

func (f *GainFilter) Name() string { return "gain" }

func (f *GainFilter) CanOpen(spk audiocore.Speakers) bool {
	return spk.Format == audiocore.FormatLinear
}

func (f *GainFilter) IsOFDD() bool { return false }

func (f *GainFilter) Open(spk audiocore.Speakers) error {
	f.OpenAs(spk, spk)
	return nil
}

func (f *GainFilter) Close() { f.CloseState() }

func (f *GainFilter) Reset() { f.ResetState(f.GetOutput()) }

func (f *GainFilter) Process(in audiocore.Chunk) (audiocore.Chunk, audiocore.Chunk, bool, error) {
	if in.IsDummy() {
		return in, audiocore.DummyChunk(), false, nil
	}
	f.Active()

	if f.Gain == 1 {
		return in.Drop(in.Samples), in, true, nil
	}

	out := make([][]float64, len(in.Planar))
	for ch, src := range in.Planar {
		row := make([]float64, len(src))
		for i, v := range src {
			row[i] = v * f.Gain
		}
		out[ch] = row
	}
	return in.Drop(in.Samples), audiocore.NewLinearChunk(out), true, nil
}

func (f *GainFilter) Flush() (audiocore.Chunk, bool, error) {
	return audiocore.DummyChunk(), false, nil
}
