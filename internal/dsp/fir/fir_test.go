package fir

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGainGeneratorVersionBumpsOnChange(t *testing.T) {
	g := NewGainGenerator(1.0)
	v1 := g.Version()
	inst, err := g.Make(48000)
	require.NoError(t, err)
	assert.Equal(t, Gain, inst.Kind)
	assert.Equal(t, 1.0, inst.Coeff)

	g.SetGain(1.0) // no change
	assert.Equal(t, v1, g.Version())

	g.SetGain(2.0)
	assert.Greater(t, g.Version(), v1)
	inst2, err := g.Make(48000)
	require.NoError(t, err)
	assert.Equal(t, 2.0, inst2.Coeff)
}

func TestParametricLowPassDegenerateCases(t *testing.T) {
	// f1 <= 0 -> zero
	g := NewParametricGenerator(ParametricParams{Type: LowPass, F1: 0, DF: 0.01, A: 60})
	inst, err := g.Make(48000)
	require.NoError(t, err)
	assert.Equal(t, Zero, inst.Kind)

	// f1 at Nyquist -> identity
	g2 := NewParametricGenerator(ParametricParams{Type: LowPass, F1: 0.5, DF: 0.01, A: 60, Norm: true})
	inst2, err := g2.Make(48000)
	require.NoError(t, err)
	assert.Equal(t, Identity, inst2.Kind)
}

func TestParametricLowPassOddLengthAndSymmetry(t *testing.T) {
	g := NewParametricGenerator(ParametricParams{Type: LowPass, F1: 12000, DF: 100, A: 80})
	inst, err := g.Make(48000)
	require.NoError(t, err)
	require.Equal(t, Custom, inst.Kind)
	assert.Equal(t, 1, inst.Length()%2, "linear-phase FIR has odd length")
	assert.Equal(t, inst.Length()/2, inst.Center)

	// Type-1 linear phase: taps are symmetric about the center.
	for i := 0; i < inst.Center; i++ {
		assert.InDelta(t, inst.Taps[i], inst.Taps[len(inst.Taps)-1-i], 1e-9)
	}
}

func TestParametricHighPassAttenuatesDC(t *testing.T) {
	g := NewParametricGenerator(ParametricParams{Type: HighPass, F1: 1000, DF: 100, A: 80})
	inst, err := g.Make(48000)
	require.NoError(t, err)
	sum := 0.0
	for _, t := range inst.Taps {
		sum += t
	}
	assert.InDelta(t, 0, sum, 1e-2, "highpass has near-zero DC gain (sum of taps)")
}

func TestParametricLowPassPassesDC(t *testing.T) {
	g := NewParametricGenerator(ParametricParams{Type: LowPass, F1: 1000, DF: 100, A: 80})
	inst, err := g.Make(48000)
	require.NoError(t, err)
	sum := 0.0
	for _, v := range inst.Taps {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 0.05, "lowpass passes DC (sum of taps ~= 1)")
}

func TestEqualizerZeroAndOneBand(t *testing.T) {
	g := NewEqualizerGenerator(0.5)
	inst, err := g.Make(48000)
	require.NoError(t, err)
	assert.Equal(t, Identity, inst.Kind)

	g2 := NewEqualizerGenerator(0.5, Band{Freq: 1000, GainDB: 6})
	inst2, err := g2.Make(48000)
	require.NoError(t, err)
	require.Equal(t, Gain, inst2.Kind)
	assert.InDelta(t, math.Pow(10, 6.0/20), inst2.Coeff, 1e-9)
}

func TestEqualizerMultiBandProducesCustomFIR(t *testing.T) {
	g := NewEqualizerGenerator(0.5,
		Band{Freq: 200, GainDB: 0},
		Band{Freq: 2000, GainDB: 6},
		Band{Freq: 8000, GainDB: -6},
	)
	inst, err := g.Make(48000)
	require.NoError(t, err)
	require.Equal(t, Custom, inst.Kind)
	assert.Equal(t, 1, inst.Length()%2)
	for _, v := range inst.Taps {
		assert.False(t, math.IsNaN(v))
	}
}

func TestCustomGeneratorBump(t *testing.T) {
	calls := 0
	g := NewCustomGenerator(func(rate int) (Instance, error) {
		calls++
		return NewGain(float64(calls)), nil
	})
	v1 := g.Version()
	g.Bump()
	assert.Greater(t, g.Version(), v1)
}
