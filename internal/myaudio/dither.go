package myaudio

import (
	"math/rand/v2"

	"github.com/valib-go/valib/internal/audiocore"
)

// DitherFilter adds triangular-PDF dither ahead of requantization to a
// narrower bit depth, decorrelating quantization error from the signal
// (spec.md §4 "Dither", table row 14). Amplitude is one LSB of targetBits.
type DitherFilter struct {
	audiocore.BaseFilter

	TargetBits int // output bit depth the signal will be requantized to

	lsb float64
}

// NewDither builds a TPDF dither filter sized for targetBits.
func NewDither(targetBits int) *DitherFilter {
	return &DitherFilter{TargetBits: targetBits}
}

func (f *DitherFilter) Name() string { return "dither" }

func (f *DitherFilter) CanOpen(spk audiocore.Speakers) bool {
	return spk.Format == audiocore.FormatLinear
}

func (f *DitherFilter) IsOFDD() bool { return false }

func (f *DitherFilter) Open(spk audiocore.Speakers) error {
	bits := f.TargetBits
	if bits <= 0 {
		bits = 16
	}
	f.lsb = 2.0 / float64(int64(1)<<uint(bits))
	f.OpenAs(spk, spk)
	return nil
}

func (f *DitherFilter) Close() { f.CloseState() }

func (f *DitherFilter) Reset() { f.ResetState(f.GetOutput()) }

func (f *DitherFilter) Process(in audiocore.Chunk) (audiocore.Chunk, audiocore.Chunk, bool, error) {
	if in.IsDummy() {
		return in, audiocore.DummyChunk(), false, nil
	}
	f.Active()

	out := make([][]float64, len(in.Planar))
	for ch, src := range in.Planar {
		row := make([]float64, len(src))
		for i, v := range src {
			row[i] = v + triangularNoise(f.lsb)
		}
		out[ch] = row
	}
	return in.Drop(in.Samples), audiocore.NewLinearChunk(out), true, nil
}

func (f *DitherFilter) Flush() (audiocore.Chunk, bool, error) {
	return audiocore.DummyChunk(), false, nil
}

// triangularNoise returns TPDF noise in [-lsb, lsb]: the sum of two
// independent uniform [-lsb/2, lsb/2] variables.
func triangularNoise(lsb float64) float64 {
	a := rand.Float64()*lsb - lsb/2
	b := rand.Float64()*lsb - lsb/2
	return a + b
}
