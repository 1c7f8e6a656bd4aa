package fir

import (
	"math"

	"github.com/valib-go/valib/internal/dsp/fft"
	verrors "github.com/valib-go/valib/internal/errors"
)

// FilterType selects the parametric FIR's ideal response (spec.md §4.3).
type FilterType int

const (
	LowPass FilterType = iota
	HighPass
	BandPass
	BandStop
)

// ParametricParams mirrors spec.md §4.3's parametric FIR parameter set.
type ParametricParams struct {
	Type FilterType
	F1   float64 // cutoff (LP/HP) or lower edge (BP/BS)
	F2   float64 // upper edge, BP/BS only
	DF   float64 // transition width
	A    float64 // stopband attenuation, dB
	Norm bool    // frequencies already normalized (0, 0.5), skip /sampleRate
}

// ParametricGenerator synthesizes a Kaiser-windowed linear-phase FIR from
// ParametricParams (spec.md §4.3 step 1-4). Version bumps whenever Set
// changes the parameters.
type ParametricGenerator struct {
	params  ParametricParams
	version int
}

func NewParametricGenerator(p ParametricParams) *ParametricGenerator {
	return &ParametricGenerator{params: p}
}

func (g *ParametricGenerator) Version() int { return g.version }

// Set installs new parameters, bumping the version if they differ.
func (g *ParametricGenerator) Set(p ParametricParams) {
	if p == g.params {
		return
	}
	g.params = p
	g.version++
}

var errInvalidParametricParams = verrors.New(nil).
	Component("dsp.fir").
	Category(verrors.CategoryValidation).
	Context("reason", "invalid_parametric_fir_params").
	Build()

func (g *ParametricGenerator) Make(sampleRate int) (Instance, error) {
	p := g.params
	f1, f2, df := p.F1, p.F2, p.DF
	if !p.Norm {
		if sampleRate <= 0 {
			return Instance{}, errInvalidParametricParams
		}
		rate := float64(sampleRate)
		f1 /= rate
		f2 /= rate
		df /= rate
	}
	if f1 < 0 || f1 > 0.5 || df <= 0 {
		return Instance{}, errInvalidParametricParams
	}

	// Degenerate cases (spec.md §4.3 step 2).
	switch p.Type {
	case LowPass:
		if f1 <= 0 {
			return NewZero(), nil
		}
		if f1 >= 0.5-df {
			return NewIdentity(), nil
		}
	case HighPass:
		if f1 <= 0 {
			return NewIdentity(), nil
		}
		if f1 >= 0.5-df {
			return NewZero(), nil
		}
	case BandPass:
		if f2 <= f1 {
			return NewZero(), nil
		}
	case BandStop:
		if f2 <= f1 {
			return NewIdentity(), nil
		}
	}

	n := fft.MakeOdd(fft.KaiserN(p.A, df))
	c := n / 2
	alpha := fft.KaiserAlpha(p.A)
	w := fft.KaiserWindow(n, alpha)

	h := make([]float64, n)
	switch p.Type {
	case LowPass:
		for i := 0; i < n; i++ {
			h[i] = 2 * f1 * fft.Sinc(2*math.Pi*float64(i-c)*f1) * w[i]
		}
	case HighPass:
		for i := 0; i < n; i++ {
			if i == c {
				h[i] = (1 - 2*f1) * w[c]
				continue
			}
			h[i] = -2 * f1 * fft.Sinc(2*math.Pi*float64(i-c)*f1) * w[i]
		}
	case BandPass:
		for i := 0; i < n; i++ {
			h[i] = (2*f2*fft.Sinc(2*math.Pi*float64(i-c)*f2) - 2*f1*fft.Sinc(2*math.Pi*float64(i-c)*f1)) * w[i]
		}
	case BandStop:
		for i := 0; i < n; i++ {
			if i == c {
				h[i] = (2*f1 + 1 - 2*f2) * w[c]
				continue
			}
			h[i] = (2*f1*fft.Sinc(2*math.Pi*float64(i-c)*f1) - 2*f2*fft.Sinc(2*math.Pi*float64(i-c)*f2)) * w[i]
		}
	}

	return NewCustom(h, c), nil
}
