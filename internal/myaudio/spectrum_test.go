package myaudio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valib-go/valib/internal/dsp/fft"
)

func TestSpectrumEmptyInput(t *testing.T) {
	assert.Nil(t, Spectrum(nil))
}

func TestSpectrumPeaksAtToneFrequency(t *testing.T) {
	const rate = 8000
	const freq = 1000.0
	samples := make([]float64, 1024)
	for i := range samples {
		samples[i] = math.Sin(2 * math.Pi * freq * float64(i) / rate)
	}

	mag := Spectrum(samples)
	n := fft.NextPow2(len(samples))

	peakBin := 0
	peakVal := 0.0
	for i, v := range mag {
		if v > peakVal {
			peakVal = v
			peakBin = i
		}
	}

	peakHz := SpectrumBinHz(peakBin, n, rate)
	require.InDelta(t, freq, peakHz, float64(rate)/float64(n)+1)
}
