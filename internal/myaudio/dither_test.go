package myaudio

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/valib-go/valib/internal/audiocore"
)

func TestDitherKeepsSamplesWithinOneLSBOfOriginal(t *testing.T) {
	f := NewDither(16)
	require.NoError(t, f.Open(audiocore.NewLinear(audiocore.MaskMono, 48000)))

	in := make([]float64, 1000)
	_, out, ok, err := f.Process(audiocore.NewLinearChunk([][]float64{in}))
	require.NoError(t, err)
	require.True(t, ok)

	lsb := 2.0 / float64(int64(1)<<16)
	for _, v := range out.Planar[0] {
		assert.Less(t, math.Abs(v), lsb)
	}
}

func TestDitherDefaultsTo16BitWhenUnset(t *testing.T) {
	f := NewDither(0)
	require.NoError(t, f.Open(audiocore.NewLinear(audiocore.MaskMono, 48000)))
	assert.InDelta(t, 2.0/65536.0, f.lsb, 1e-12)
}
