package myaudio

import (
	"math"

	"github.com/valib-go/valib/internal/dsp/fft"
)

// Spectrum computes the single-sided magnitude spectrum of samples via a
// zero-padded FFT of size fft.NextPow2(len(samples)), one magnitude per
// bin from DC to Nyquist inclusive (spec.md §4 "Spectrum", table row 14).
func Spectrum(samples []float64) []float64 {
	if len(samples) == 0 {
		return nil
	}
	n := fft.NextPow2(len(samples))
	buf := fft.RealToComplex(samples, n)
	fft.Forward(buf)

	out := make([]float64, n/2+1)
	for i := range out {
		out[i] = cmplxAbs(buf[i]) / float64(n)
	}
	// Non-DC, non-Nyquist bins carry energy from both the positive and
	// mirrored negative frequency; fold it back in.
	for i := 1; i < len(out)-1; i++ {
		out[i] *= 2
	}
	return out
}

func cmplxAbs(c complex128) float64 {
	return math.Hypot(real(c), imag(c))
}

// SpectrumBinHz returns the center frequency of bin i of an n-point
// spectrum sampled at rate Hz.
func SpectrumBinHz(i, n, rate int) float64 {
	return float64(i) * float64(rate) / float64(n)
}
