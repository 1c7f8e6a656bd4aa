package myaudio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valib-go/valib/internal/audiocore"
)

func TestFormatFilterPCM16Roundtrip(t *testing.T) {
	f := NewFormatFilter(nil)
	spk := audiocore.NewPCM(audiocore.FormatPCM16LE, audiocore.MaskMono, 48000)
	require.NoError(t, f.Open(spk))

	planarIn := [][]float64{{0.5, -0.5, 0.25}}
	raw := EncodeLinear(planarIn, audiocore.FormatPCM16LE)

	_, out, ok, err := f.Process(audiocore.NewRawChunk(raw, 3))
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, out.Samples)
	assert.InDelta(t, 0.5, out.Planar[0][0], 0.001)
	assert.InDelta(t, -0.5, out.Planar[0][1], 0.001)
	assert.InDelta(t, 0.25, out.Planar[0][2], 0.001)
}

func TestFormatFilterBuffersPartial24BitFrame(t *testing.T) {
	f := NewFormatFilter(nil)
	spk := audiocore.NewPCM(audiocore.FormatPCM24LE, audiocore.MaskMono, 48000)
	require.NoError(t, f.Open(spk))

	raw := EncodeLinear([][]float64{{0.1, 0.2}}, audiocore.FormatPCM24LE)

	// Feed one byte at a time; only whole 3-byte frames should be emitted,
	// the rest held in `pending` until the next Process call.
	var got []float64
	for i := 0; i < len(raw); i++ {
		_, out, ok, err := f.Process(audiocore.NewRawChunk(raw[i:i+1], 1))
		require.NoError(t, err)
		if ok {
			got = append(got, out.Planar[0]...)
		}
	}
	require.Len(t, got, 2)
	assert.InDelta(t, 0.1, got[0], 0.001)
	assert.InDelta(t, 0.2, got[1], 0.001)
}

func TestFormatFilterChannelOrderPermutation(t *testing.T) {
	f := NewFormatFilter([]int{1, 0}) // swap L/R on the way in
	spk := audiocore.NewPCM(audiocore.FormatPCM16LE, audiocore.MaskStereo, 48000)
	require.NoError(t, f.Open(spk))

	planarIn := [][]float64{{0.5}, {-0.5}}
	raw := EncodeLinear(planarIn, audiocore.FormatPCM16LE)

	_, out, ok, err := f.Process(audiocore.NewRawChunk(raw, 1))
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, -0.5, out.Planar[0][0], 0.001)
	assert.InDelta(t, 0.5, out.Planar[1][0], 0.001)
}

func TestFormatFilterRejectsCompressedFormats(t *testing.T) {
	f := NewFormatFilter(nil)
	assert.False(t, f.CanOpen(audiocore.Speakers{Format: audiocore.FormatAC3}))
}
