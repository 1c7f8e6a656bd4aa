// Package crossover implements a cascadable biquad filter engine (RBJ
// Audio EQ Cookbook coefficients) used to build the LR4 Linkwitz-Riley
// crossover of internal/dsp/bassredirect (spec.md §4.9). Grounded on the
// teacher's equalizer filter: same Filter/FilterChain shape, same
// precomputed b/a-over-a0 coefficient layout and per-channel state arrays,
// generalized here to carry an explicit channel count rather than a
// package-global.
package crossover

import (
	"math"

	verrors "github.com/valib-go/valib/internal/errors"
)

// Kind names the biquad's response shape.
type Kind int

const (
	LowPass Kind = iota
	HighPass
	BandPass
	Peaking
	LowShelf
	HighShelf
	AllPass
)

// Filter is a single biquad section cascaded `passes` times, carrying one
// (in1,in2,out1,out2) state set per channel and pass so a multichannel
// stream can share one Filter value.
type Filter struct {
	kind Kind

	b0a0, b1a0, b2a0 float64
	a1a0, a2a0       float64
	passes           int

	in1, in2, out1, out2 []float64
}

// IsZero reports whether f is the unconfigured zero value.
func (f *Filter) IsZero() bool { return f == nil || f.passes == 0 }

// NewFilter builds a Filter directly from precomputed coefficients — the
// low-level constructor the New* helpers below call into, also useful for
// tests that want exact coefficients.
func NewFilter(kind Kind, a0, a1, a2, b0, b1, b2 float64, nch int) *Filter {
	return &Filter{
		kind: kind,
		b0a0: b0 / a0, b1a0: b1 / a0, b2a0: b2 / a0,
		a1a0: a1 / a0, a2a0: a2 / a0,
		passes: 1,
		in1:    make([]float64, nch), in2: make([]float64, nch),
		out1: make([]float64, nch), out2: make([]float64, nch),
	}
}

var errInvalidPasses = verrors.New(nil).
	Component("dsp.crossover").
	Category(verrors.CategoryValidation).
	Context("reason", "passes_must_be_positive").
	Build()

func rbjCoeffs(kind Kind, sampleRate, freq, q, gainDB float64) (a0, a1, a2, b0, b1, b2 float64) {
	w0 := 2 * math.Pi * freq / sampleRate
	cosW0, sinW0 := math.Cos(w0), math.Sin(w0)
	alpha := sinW0 / (2 * q)

	switch kind {
	case LowPass:
		b0 = (1 - cosW0) / 2
		b1 = 1 - cosW0
		b2 = (1 - cosW0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case HighPass:
		b0 = (1 + cosW0) / 2
		b1 = -(1 + cosW0)
		b2 = (1 + cosW0) / 2
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case BandPass:
		b0 = alpha
		b1 = 0
		b2 = -alpha
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case AllPass:
		b0 = 1 - alpha
		b1 = -2 * cosW0
		b2 = 1 + alpha
		a0 = 1 + alpha
		a1 = -2 * cosW0
		a2 = 1 - alpha
	case Peaking:
		A := math.Pow(10, gainDB/40)
		b0 = 1 + alpha*A
		b1 = -2 * cosW0
		b2 = 1 - alpha*A
		a0 = 1 + alpha/A
		a1 = -2 * cosW0
		a2 = 1 - alpha/A
	case LowShelf:
		A := math.Pow(10, gainDB/40)
		sq := 2 * math.Sqrt(A) * alpha
		b0 = A * ((A + 1) - (A-1)*cosW0 + sq)
		b1 = 2 * A * ((A - 1) - (A+1)*cosW0)
		b2 = A * ((A + 1) - (A-1)*cosW0 - sq)
		a0 = (A + 1) + (A-1)*cosW0 + sq
		a1 = -2 * ((A - 1) + (A+1)*cosW0)
		a2 = (A + 1) + (A-1)*cosW0 - sq
	case HighShelf:
		A := math.Pow(10, gainDB/40)
		sq := 2 * math.Sqrt(A) * alpha
		b0 = A * ((A + 1) + (A-1)*cosW0 + sq)
		b1 = -2 * A * ((A - 1) + (A+1)*cosW0)
		b2 = A * ((A + 1) + (A-1)*cosW0 - sq)
		a0 = (A + 1) - (A-1)*cosW0 + sq
		a1 = 2 * ((A - 1) - (A+1)*cosW0)
		a2 = (A + 1) - (A-1)*cosW0 - sq
	}
	return
}

func newBiquad(kind Kind, sampleRate, freq, q, gainDB float64, passes, nch int) (*Filter, error) {
	if passes < 1 {
		return nil, errInvalidPasses
	}
	a0, a1, a2, b0, b1, b2 := rbjCoeffs(kind, sampleRate, freq, q, gainDB)
	f := NewFilter(kind, a0, a1, a2, b0, b1, b2, nch*passes) // one state slot per channel and pass
	f.passes = passes
	return f, nil
}

// NewLowPass builds an nch-channel lowpass biquad, cascaded `passes` times
// (passes=2 gives the 24 dB/octave Linkwitz-Riley response bassredirect
// needs when both LP and HP legs use passes=2).
func NewLowPass(sampleRate, freq, q float64, passes, nch int) (*Filter, error) {
	return newBiquad(LowPass, sampleRate, freq, q, 0, passes, nch)
}

func NewHighPass(sampleRate, freq, q float64, passes, nch int) (*Filter, error) {
	return newBiquad(HighPass, sampleRate, freq, q, 0, passes, nch)
}

func NewBandPass(sampleRate, freq, q float64, passes, nch int) (*Filter, error) {
	return newBiquad(BandPass, sampleRate, freq, q, 0, passes, nch)
}

func NewPeaking(sampleRate, freq, q, gainDB float64, passes, nch int) (*Filter, error) {
	return newBiquad(Peaking, sampleRate, freq, q, gainDB, passes, nch)
}

func NewLowShelf(sampleRate, freq, q, gainDB float64, passes, nch int) (*Filter, error) {
	return newBiquad(LowShelf, sampleRate, freq, q, gainDB, passes, nch)
}

func NewHighShelf(sampleRate, freq, q, gainDB float64, passes, nch int) (*Filter, error) {
	return newBiquad(HighShelf, sampleRate, freq, q, gainDB, passes, nch)
}

// Apply runs one sample through the cascade for channel ch, in place.
func (f *Filter) Apply(ch int, x float64) float64 {
	for p := 0; p < f.passes; p++ {
		s := ch*f.passes + p
		y := f.b0a0*x + f.b1a0*f.in1[s] + f.b2a0*f.in2[s] - f.a1a0*f.out1[s] - f.a2a0*f.out2[s]
		f.in2[s] = f.in1[s]
		f.in1[s] = x
		f.out2[s] = f.out1[s]
		f.out1[s] = y
		x = y
	}
	return x
}

// ApplyBatch filters channel 0's state over samples in place — the
// single-channel convenience used by tests and by mono processing paths.
func (f *Filter) ApplyBatch(samples []float64) {
	for i, x := range samples {
		samples[i] = f.Apply(0, x)
	}
}

// ApplyPlanar filters every channel of a planar buffer in place.
func (f *Filter) ApplyPlanar(planar [][]float64) {
	for ch, samples := range planar {
		for i, x := range samples {
			samples[i] = f.Apply(ch, x)
		}
	}
}

// ResetState zeroes the filter's history for every channel (used on a new
// stream / Reset, so stale samples from a prior stream don't leak in).
func (f *Filter) ResetState() {
	for i := range f.in1 {
		f.in1[i], f.in2[i], f.out1[i], f.out2[i] = 0, 0, 0, 0
	}
}

// Chain cascades independent Filters in series over the same samples.
type Chain struct {
	filters []*Filter
}

func NewChain() *Chain { return &Chain{} }

var errNilOrZeroFilter = verrors.New(nil).
	Component("dsp.crossover").
	Category(verrors.CategoryValidation).
	Context("reason", "nil_or_unconfigured_filter").
	Build()

func (c *Chain) AddFilter(f *Filter) error {
	if f.IsZero() {
		return errNilOrZeroFilter
	}
	c.filters = append(c.filters, f)
	return nil
}

func (c *Chain) Length() int { return len(c.filters) }

func (c *Chain) ApplyBatch(samples []float64) {
	for _, f := range c.filters {
		f.ApplyBatch(samples)
	}
}
