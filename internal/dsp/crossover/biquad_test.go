package crossover

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rms(samples []float64) float64 {
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

func TestFilterIsZero(t *testing.T) {
	var f *Filter
	assert.True(t, f.IsZero())

	lp, err := NewLowPass(48000, 1000, 0.707, 1, 1)
	require.NoError(t, err)
	assert.False(t, lp.IsZero())
}

func TestLowPassDCPassesHighFreqAttenuated(t *testing.T) {
	f, err := NewLowPass(48000, 1000, 0.707, 2, 1)
	require.NoError(t, err)

	dc := make([]float64, 2000)
	for i := range dc {
		dc[i] = 0.5
	}
	f.ApplyBatch(dc)
	for i := 1800; i < 2000; i++ {
		assert.InDelta(t, 0.5, dc[i], 0.02)
	}

	f2, err := NewLowPass(48000, 1000, 0.707, 2, 1)
	require.NoError(t, err)
	const n = 48000
	tone := make([]float64, n)
	for i := range tone {
		tone[i] = math.Sin(2 * math.Pi * 10000 * float64(i) / 48000)
	}
	before := rms(tone)
	f2.ApplyBatch(tone)
	after := rms(tone[1000:])
	assert.Greater(t, before/after, 10.0)
}

func TestHighPassAttenuatesDC(t *testing.T) {
	f, err := NewHighPass(48000, 1000, 0.707, 2, 1)
	require.NoError(t, err)
	dc := make([]float64, 10000)
	for i := range dc {
		dc[i] = 0.5
	}
	f.ApplyBatch(dc)
	avg := 0.0
	for i := 9000; i < 10000; i++ {
		avg += math.Abs(dc[i])
	}
	avg /= 1000
	assert.Less(t, avg, 0.01)
}

func TestLR4CrossoverSumIsAllPass(t *testing.T) {
	// LR4 = two cascaded Butterworth biquads (passes=2, Q=0.707) on each leg.
	const sr, freq = 48000.0, 500.0
	lp, err := NewLowPass(sr, freq, 0.707, 2, 1)
	require.NoError(t, err)
	hp, err := NewHighPass(sr, freq, 0.707, 2, 1)
	require.NoError(t, err)

	const n = 8192
	impulse := make([]float64, n)
	impulse[0] = 1
	lowOut := append([]float64(nil), impulse...)
	highOut := append([]float64(nil), impulse...)
	lp.ApplyBatch(lowOut)
	hp.ApplyBatch(highOut)

	sum := make([]float64, n)
	for i := range sum {
		sum[i] = lowOut[i] + highOut[i]
	}
	// The LR4 sum's magnitude response is flat (all-pass), so by Parseval
	// the energy of its impulse response is 1.
	assert.InDelta(t, 1.0, rms(sum)*rms(sum)*n, 0.01)
}

func TestChainAddFilterRejectsZero(t *testing.T) {
	c := NewChain()
	assert.Error(t, c.AddFilter(&Filter{}))
	lp, err := NewLowPass(48000, 1000, 0.707, 1, 1)
	require.NoError(t, err)
	require.NoError(t, c.AddFilter(lp))
	assert.Equal(t, 1, c.Length())
}

func TestApplyPlanarPerChannelState(t *testing.T) {
	f, err := NewLowPass(48000, 1000, 0.707, 1, 2)
	require.NoError(t, err)
	planar := [][]float64{
		{1, 0, 0, 0},
		{0, 1, 0, 0},
	}
	f.ApplyPlanar(planar)
	assert.NotEqual(t, planar[0], planar[1], "channels keep independent filter state")
}
