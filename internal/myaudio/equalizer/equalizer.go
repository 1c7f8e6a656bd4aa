// Package equalizer implements the parametric biquad stages of spec.md
// §4 equalize: RBJ Audio-EQ-Cookbook low-pass, high-pass, band-pass,
// peaking and shelving filters, each optionally cascaded over several
// passes for a steeper slope, and a FilterChain that runs several bands
// back to back.
package equalizer

import (
	"math"

	verrors "github.com/valib-go/valib/internal/errors"
)

// FilterName identifies a biquad's response shape.
type FilterName int

const (
	LowPass FilterName = iota
	HighPass
	BandPass
	Peaking
	LowShelf
	HighShelf
)

func (n FilterName) String() string {
	switch n {
	case LowPass:
		return "lowpass"
	case HighPass:
		return "highpass"
	case BandPass:
		return "bandpass"
	case Peaking:
		return "peaking"
	case LowShelf:
		return "lowshelf"
	case HighShelf:
		return "highshelf"
	default:
		return "?"
	}
}

// Filter is a single direct-form-I biquad, optionally run several passes
// over a buffer for a steeper rolloff; each pass keeps its own history.
// State is kept per channel so one Filter can front several independent
// channels.
type Filter struct {
	name   FilterName
	passes int

	b0a0, b1a0, b2a0 float64
	a1a0, a2a0       float64

	in1, in2   []float64
	out1, out2 []float64
}

// NewFilter builds a Filter directly from its RBJ cookbook a/b
// coefficients, allocating per-channel state for `channels` channels.
func NewFilter(name FilterName, a0, a1, a2, b0, b1, b2 float64, channels int) *Filter {
	if channels < 1 {
		channels = 1
	}
	return &Filter{
		name: name,
		b0a0: b0 / a0, b1a0: b1 / a0, b2a0: b2 / a0,
		a1a0: a1 / a0, a2a0: a2 / a0,
		in1: make([]float64, channels), in2: make([]float64, channels),
		out1: make([]float64, channels), out2: make([]float64, channels),
	}
}

// IsZero reports whether f is the unconstructed zero value.
func (f *Filter) IsZero() bool { return f == nil || len(f.in1) == 0 }

var errInvalidPasses = verrors.New(nil).Component("equalizer").Category(verrors.CategoryValidation).
	Context("reason", "passes_must_be_positive").Build()

func biquad(name FilterName, a0, a1, a2, b0, b1, b2 float64, passes int) (*Filter, error) {
	if passes < 1 {
		return nil, errInvalidPasses
	}
	f := NewFilter(name, a0, a1, a2, b0, b1, b2, passes) // one state slot per pass
	f.passes = passes
	return f, nil
}

// NewLowPass builds an RBJ low-pass biquad, cascaded `passes` times.
func NewLowPass(sampleRate, cutoff, q float64, passes int) (*Filter, error) {
	w0, alpha, cosw0 := rbjParams(sampleRate, cutoff, q)
	b0 := (1 - cosw0) / 2
	b1 := 1 - cosw0
	b2 := (1 - cosw0) / 2
	a0 := 1 + alpha
	a1 := -2 * cosw0
	a2 := 1 - alpha
	_ = w0
	return biquad(LowPass, a0, a1, a2, b0, b1, b2, passes)
}

// NewHighPass builds an RBJ high-pass biquad, cascaded `passes` times.
func NewHighPass(sampleRate, cutoff, q float64, passes int) (*Filter, error) {
	_, alpha, cosw0 := rbjParams(sampleRate, cutoff, q)
	b0 := (1 + cosw0) / 2
	b1 := -(1 + cosw0)
	b2 := (1 + cosw0) / 2
	a0 := 1 + alpha
	a1 := -2 * cosw0
	a2 := 1 - alpha
	return biquad(HighPass, a0, a1, a2, b0, b1, b2, passes)
}

// NewBandPass builds an RBJ constant-skirt-gain band-pass biquad.
func NewBandPass(sampleRate, center, q float64, passes int) (*Filter, error) {
	_, alpha, cosw0 := rbjParams(sampleRate, center, q)
	b0 := alpha
	b1 := 0.0
	b2 := -alpha
	a0 := 1 + alpha
	a1 := -2 * cosw0
	a2 := 1 - alpha
	return biquad(BandPass, a0, a1, a2, b0, b1, b2, passes)
}

// NewPeaking builds an RBJ peaking-EQ biquad with gainDB boost/cut at center.
func NewPeaking(sampleRate, center, q, gainDB float64, passes int) (*Filter, error) {
	_, alpha, cosw0 := rbjParams(sampleRate, center, q)
	a := math.Pow(10, gainDB/40)
	b0 := 1 + alpha*a
	b1 := -2 * cosw0
	b2 := 1 - alpha*a
	a0 := 1 + alpha/a
	a1 := -2 * cosw0
	a2 := 1 - alpha/a
	return biquad(Peaking, a0, a1, a2, b0, b1, b2, passes)
}

// NewLowShelf builds an RBJ low-shelf biquad with gainDB at DC.
func NewLowShelf(sampleRate, freq, q, gainDB float64, passes int) (*Filter, error) {
	_, alpha, cosw0 := rbjParams(sampleRate, freq, q)
	a := math.Pow(10, gainDB/40)
	sq := 2 * math.Sqrt(a) * alpha

	b0 := a * ((a + 1) - (a-1)*cosw0 + sq)
	b1 := 2 * a * ((a - 1) - (a+1)*cosw0)
	b2 := a * ((a + 1) - (a-1)*cosw0 - sq)
	a0 := (a + 1) + (a-1)*cosw0 + sq
	a1 := -2 * ((a - 1) + (a+1)*cosw0)
	a2 := (a + 1) + (a-1)*cosw0 - sq
	return biquad(LowShelf, a0, a1, a2, b0, b1, b2, passes)
}

// NewHighShelf builds an RBJ high-shelf biquad with gainDB above freq.
func NewHighShelf(sampleRate, freq, q, gainDB float64, passes int) (*Filter, error) {
	_, alpha, cosw0 := rbjParams(sampleRate, freq, q)
	a := math.Pow(10, gainDB/40)
	sq := 2 * math.Sqrt(a) * alpha

	b0 := a * ((a + 1) + (a-1)*cosw0 + sq)
	b1 := -2 * a * ((a - 1) + (a+1)*cosw0)
	b2 := a * ((a + 1) + (a-1)*cosw0 - sq)
	a0 := (a + 1) - (a-1)*cosw0 + sq
	a1 := 2 * ((a - 1) - (a+1)*cosw0)
	a2 := (a + 1) - (a-1)*cosw0 - sq
	return biquad(HighShelf, a0, a1, a2, b0, b1, b2, passes)
}

func rbjParams(sampleRate, freq, q float64) (w0, alpha, cosw0 float64) {
	w0 = 2 * math.Pi * freq / sampleRate
	alpha = math.Sin(w0) / (2 * q)
	cosw0 = math.Cos(w0)
	return
}

// ApplyBatch filters samples in place on channel 0, run f.passes times.
func (f *Filter) ApplyBatch(samples []float64) { f.ApplyChannel(0, samples) }

// ApplyChannel filters samples in place using channel ch's state.
func (f *Filter) ApplyChannel(ch int, samples []float64) {
	if f.IsZero() {
		return
	}
	passes := f.passes
	if passes < 1 {
		passes = 1
	}
	if (ch+1)*passes > len(f.in1) {
		return
	}
	for p := 0; p < passes; p++ {
		s := ch*passes + p
		in1, in2, out1, out2 := f.in1[s], f.in2[s], f.out1[s], f.out2[s]
		for i, x := range samples {
			y := f.b0a0*x + f.b1a0*in1 + f.b2a0*in2 - f.a1a0*out1 - f.a2a0*out2
			in2, in1 = in1, x
			out2, out1 = out1, y
			samples[i] = y
		}
		f.in1[s], f.in2[s], f.out1[s], f.out2[s] = in1, in2, out1, out2
	}
}

// FilterChain runs a sequence of bands over a buffer in order.
type FilterChain struct {
	filters []*Filter
}

// NewFilterChain returns an empty chain.
func NewFilterChain() *FilterChain { return &FilterChain{} }

// Length returns the number of bands in the chain.
func (fc *FilterChain) Length() int { return len(fc.filters) }

var errNilFilter = verrors.New(nil).Component("equalizer").Category(verrors.CategoryValidation).
	Context("reason", "nil_or_zero_filter").Build()

// AddFilter appends a band; f must be non-nil and constructed.
func (fc *FilterChain) AddFilter(f *Filter) error {
	if f.IsZero() {
		return errNilFilter
	}
	fc.filters = append(fc.filters, f)
	return nil
}

// ApplyBatch runs every band in the chain over samples in place, in order.
func (fc *FilterChain) ApplyBatch(samples []float64) {
	for _, f := range fc.filters {
		f.ApplyBatch(samples)
	}
}
