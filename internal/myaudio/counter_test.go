package myaudio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valib-go/valib/internal/audiocore"
)

func TestCounterTracksRunningPosition(t *testing.T) {
	f := NewCounter()
	require.NoError(t, f.Open(audiocore.NewLinear(audiocore.MaskMono, 48000)))

	_, _, _, err := f.Process(audiocore.NewLinearChunk([][]float64{{1, 2, 3}}))
	require.NoError(t, err)
	assert.Equal(t, int64(3), f.Position())

	_, _, _, err = f.Process(audiocore.NewLinearChunk([][]float64{{4, 5}}))
	require.NoError(t, err)
	assert.Equal(t, int64(5), f.Position())
}

func TestCounterResetRewindsPosition(t *testing.T) {
	f := NewCounter()
	require.NoError(t, f.Open(audiocore.NewLinear(audiocore.MaskMono, 48000)))
	_, _, _, _ = f.Process(audiocore.NewLinearChunk([][]float64{{1, 2, 3}}))
	f.Reset()
	assert.Equal(t, int64(0), f.Position())
}

func TestCounterIsPassthrough(t *testing.T) {
	f := NewCounter()
	require.NoError(t, f.Open(audiocore.NewLinear(audiocore.MaskMono, 48000)))
	_, out, ok, err := f.Process(audiocore.NewLinearChunk([][]float64{{1, 2, 3}}))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []float64{1, 2, 3}, out.Planar[0])
}
