package convolver

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valib-go/valib/internal/dsp/fir"
)

func TestIdentityGeneratorIsPassthroughNoAlloc(t *testing.T) {
	c := New(fir.IdentityGenerator{})
	require.NoError(t, c.Open(48000))
	assert.Equal(t, ModePassthrough, c.Mode())

	in := []float64{1, 2, 3}
	out := c.Process(in)
	assert.Equal(t, in, out)
}

func TestZeroGeneratorProducesZeros(t *testing.T) {
	c := New(fir.ZeroGenerator{})
	require.NoError(t, c.Open(48000))
	out := c.Process([]float64{1, 2, 3})
	assert.Equal(t, []float64{0, 0, 0}, out)
}

func TestGainGeneratorScales(t *testing.T) {
	c := New(fir.NewGainGenerator(2.0))
	require.NoError(t, c.Open(48000))
	out := c.Process([]float64{1, 2, 3})
	assert.Equal(t, []float64{2, 4, 6}, out)
}

func TestFilterModeLowPassAttenuatesHighFreq(t *testing.T) {
	g := fir.NewParametricGenerator(fir.ParametricParams{Type: fir.LowPass, F1: 2000, DF: 200, A: 60})
	c := New(g)
	require.NoError(t, c.Open(48000))
	require.Equal(t, ModeFilter, c.Mode())

	const n = 16384
	tone := make([]float64, n)
	for i := range tone {
		tone[i] = math.Sin(2 * math.Pi * 10000 * float64(i) / 48000)
	}
	var out []float64
	const chunk = 512
	for i := 0; i < n; i += chunk {
		out = append(out, c.Process(tone[i:i+chunk])...)
	}
	out = append(out, c.Flush()...)

	energy := 0.0
	for _, v := range out[len(out)-2000:] {
		energy += v * v
	}
	assert.Less(t, energy/2000, 0.05, "10kHz tone should be heavily attenuated by a 2kHz lowpass")
}

func TestWantReinitTracksGeneratorVersion(t *testing.T) {
	g := fir.NewGainGenerator(1.0)
	c := New(g)
	require.NoError(t, c.Open(48000))
	assert.False(t, c.WantReinit())

	g.SetGain(2.0)
	assert.True(t, c.WantReinit())
}
