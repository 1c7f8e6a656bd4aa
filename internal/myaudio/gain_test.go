package myaudio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valib-go/valib/internal/audiocore"
)

func TestGainUnityIsPassthrough(t *testing.T) {
	f := NewGain(1.0)
	require.NoError(t, f.Open(audiocore.NewLinear(audiocore.MaskMono, 48000)))

	_, out, ok, err := f.Process(audiocore.NewLinearChunk([][]float64{{1, 2, 3}}))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3}, out.Planar[0])
}

func TestGainScalesEveryChannel(t *testing.T) {
	f := NewGain(2.0)
	require.NoError(t, f.Open(audiocore.NewLinear(audiocore.MaskStereo, 48000)))

	_, out, ok, err := f.Process(audiocore.NewLinearChunk([][]float64{{1, 2}, {3, 4}}))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float64{2, 4}, out.Planar[0])
	assert.Equal(t, []float64{6, 8}, out.Planar[1])
}

func TestGainDBConvertsToLinear(t *testing.T) {
	f := NewGainDB(-6.0206)
	assert.InDelta(t, 0.5, f.Gain, 0.001)
}
