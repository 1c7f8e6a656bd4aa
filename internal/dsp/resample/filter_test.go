package resample

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valib-go/valib/internal/audiocore"
)

func TestFilterOpenNegotiatesOutputRate(t *testing.T) {
	f := NewFilter(Params{Fs: 48000, Fd: 24000, A: 60, Q: 0.5})
	spk := audiocore.NewLinear(audiocore.MaskStereo, 48000)
	require.True(t, f.CanOpen(spk))
	require.NoError(t, f.Open(spk))
	assert.Equal(t, 24000, f.GetOutput().Rate)
	assert.False(t, f.CanOpen(audiocore.NewLinear(audiocore.MaskStereo, 44100)))
}

func TestFilterProcessDownsamplesBothChannels(t *testing.T) {
	f := NewFilter(Params{Fs: 48000, Fd: 24000, A: 60, Q: 0.5})
	spk := audiocore.NewLinear(audiocore.MaskStereo, 48000)
	require.NoError(t, f.Open(spk))

	const n = 8192
	l := make([]float64, n)
	r := make([]float64, n)
	for i := range l {
		l[i] = math.Sin(2 * math.Pi * 1000 * float64(i) / 48000)
		r[i] = l[i]
	}
	in := audiocore.NewLinearChunk([][]float64{l, r})
	in.Sync, in.Time = true, 0.0

	rest, out, ok, err := f.Process(in)
	require.NoError(t, err)
	require.True(t, ok)
	assert.True(t, rest.IsDummy())
	require.Len(t, out.Planar, 2)
	assert.InDelta(t, float64(n/2), float64(out.Samples), float64(n)*0.05)
	assert.True(t, out.Sync)
}
