package bassredirect

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valib-go/valib/internal/audiocore"
)

func TestInactiveWhenNoDestinationChannel(t *testing.T) {
	f := New(80, audiocore.MaskLFEOnly)
	out, err := openWith(f, audiocore.MaskStereo)
	require.NoError(t, err)
	assert.Equal(t, audiocore.MaskStereo, out.Mask)
	assert.False(t, f.active)
}

func TestInactiveWhenDisabled(t *testing.T) {
	f := New(80, audiocore.MaskLFEOnly)
	f.Enabled = false
	_, err := openWith(f, audiocore.Mask5_1)
	require.NoError(t, err)
	assert.False(t, f.active)
}

func TestActiveRoutesBassToLFE(t *testing.T) {
	f := New(80, audiocore.MaskLFEOnly)
	_, err := openWith(f, audiocore.Mask5_1)
	require.NoError(t, err)
	require.True(t, f.active)

	const n = 4096
	planar := make([][]float64, audiocore.Mask5_1.NumChannels())
	lIdx := audiocore.Mask5_1.Index(audiocore.ChannelL)
	lfeIdx := audiocore.Mask5_1.Index(audiocore.ChannelLFE)
	for i := range planar {
		planar[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		planar[lIdx][i] = math.Sin(2 * math.Pi * 40 * float64(i) / 48000)
	}

	chunk := audiocore.NewLinearChunk(planar)
	_, out, ok, err := f.Process(chunk)
	require.NoError(t, err)
	require.True(t, ok)

	lfeEnergy := 0.0
	for _, v := range out.Planar[lfeIdx][1000:] {
		lfeEnergy += v * v
	}
	assert.Greater(t, lfeEnergy, 0.0, "40Hz content from L should appear in LFE")

	inEnergy := 0.0
	for _, v := range planar[lIdx][1000:] {
		inEnergy += v * v
	}
	mainEnergy := 0.0
	for _, v := range out.Planar[lIdx][1000:] {
		mainEnergy += v * v
	}
	assert.Less(t, mainEnergy, 0.01*inEnergy, "40Hz is an octave below the 80Hz LR4 crossover; L keeps it about 24 dB down")
}

func TestResetClearsFilterState(t *testing.T) {
	f := New(80, audiocore.MaskLFEOnly)
	_, err := openWith(f, audiocore.Mask5_1)
	require.NoError(t, err)

	lIdx := audiocore.Mask5_1.Index(audiocore.ChannelL)
	planar := make([][]float64, audiocore.Mask5_1.NumChannels())
	for i := range planar {
		planar[i] = make([]float64, 256)
	}
	planar[lIdx][0] = 1.0
	_, _, _, err = f.Process(audiocore.NewLinearChunk(planar))
	require.NoError(t, err)

	f.Reset()
	assert.Equal(t, 0.0, f.hp.Apply(0, 0), "filter history cleared by Reset")
}

func openWith(f *Filter, mask audiocore.ChannelMask) (audiocore.Speakers, error) {
	spk := audiocore.NewLinear(mask, 48000)
	err := f.Open(spk)
	return f.GetOutput(), err
}
