package resample

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestParamsValidateRejectsOutOfRange(t *testing.T) {
	assert.Error(t, Params{Fs: 48000, Fd: 48000, A: 60, Q: 0.5}.Validate(), "fs == fd must be rejected")
	assert.Error(t, Params{Fs: 48000, Fd: 44100, A: 1, Q: 0.5}.Validate(), "a below 6 must be rejected")
	assert.Error(t, Params{Fs: 48000, Fd: 44100, A: 60, Q: 0.05}.Validate(), "q below 0.1 must be rejected")
	assert.NoError(t, Params{Fs: 48000, Fd: 44100, A: 60, Q: 0.5}.Validate())
}

func TestCoreUpsampleDoublesLength(t *testing.T) {
	core, err := NewCore(Params{Fs: 24000, Fd: 48000, A: 60, Q: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 2, core.L)
	assert.Equal(t, 1, core.M)

	in := make([]float64, 2000)
	for i := range in {
		in[i] = math.Sin(2 * math.Pi * 1000 * float64(i) / 24000)
	}
	out := core.Convert(in)
	assert.InDelta(t, float64(len(in)*2), float64(len(out)), float64(len(in))*0.05)
}

func TestCoreDownsampleAttenuatesAboveNewNyquist(t *testing.T) {
	core, err := NewCore(Params{Fs: 48000, Fd: 24000, A: 80, Q: 0.5})
	require.NoError(t, err)
	assert.Equal(t, 1, core.L)
	assert.Equal(t, 2, core.M)

	const n = 8192
	tone := make([]float64, n)
	for i := range tone {
		tone[i] = math.Sin(2 * math.Pi * 11000 * float64(i) / 48000)
	}
	out := core.Convert(tone)
	require.NotEmpty(t, out)

	energy := 0.0
	for _, v := range out[len(out)/2:] {
		energy += v * v
	}
	assert.Less(t, energy/float64(len(out)/2), 0.1, "11kHz should be attenuated after downsampling to 24kHz (Nyquist 12kHz)")
}

func TestGetCoreCachesByToleranceKey(t *testing.T) {
	ResetCache()
	p := Params{Fs: 48000, Fd: 44100, A: 60, Q: 0.5}
	c1, err := GetCore(p)
	require.NoError(t, err)
	c2, err := GetCore(p)
	require.NoError(t, err)
	assert.Same(t, c1, c2, "identical params should share one cached Core")

	p2 := Params{Fs: 48000, Fd: 44100, A: 60.01, Q: 0.5}
	c3, err := GetCore(p2)
	require.NoError(t, err)
	assert.Same(t, c1, c3, "params within tolerance should share the cached Core")
}

func TestStreamFillProcessFlush(t *testing.T) {
	core, err := NewCore(Params{Fs: 48000, Fd: 44100, A: 60, Q: 0.5})
	require.NoError(t, err)
	s := NewStream(core)
	assert.False(t, s.CanProcess())

	s.Fill([]float64{1, 2, 3, 4, 5})
	assert.True(t, s.CanProcess())
	out := s.Process()
	assert.NotEmpty(t, out)
	assert.False(t, s.CanProcess())

	s.Fill([]float64{6, 7, 8})
	flushed := s.Flush()
	assert.NotEmpty(t, flushed)
}

// TestGetCoreConcurrentRequestsShareOneBuildNoLeak drives concurrent
// first-time GetCore requests for the same params through singleflight and
// checks no goroutine outlives the test.
func TestGetCoreConcurrentRequestsShareOneBuildNoLeak(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	params := Params{Fs: 96000, Fd: 11025, A: 80, Q: 0.3}

	var wg sync.WaitGroup
	cores := make([]*Core, 8)
	errs := make([]error, 8)
	for i := range cores {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cores[i], errs[i] = GetCore(params)
		}(i)
	}
	wg.Wait()

	for i := range cores {
		require.NoError(t, errs[i])
		assert.Same(t, cores[0], cores[i], "concurrent requests for the same key should share one Core")
	}
}
