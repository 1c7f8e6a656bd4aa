// Package fir implements the FIR instance value type and the generator
// hierarchy that produces them: identity/zero/gain/custom, the
// Kaiser-windowed parametric low/high/band-pass/stop design, and the
// incremental equalizer construction (spec.md §3 "FIR instance", §4.3 "FIR
// generators").
package fir

import (
	verrors "github.com/valib-go/valib/internal/errors"
)

// Kind discriminates an Instance's representation (spec.md §3).
type Kind int

const (
	Identity Kind = iota
	Zero
	Gain
	Custom
)

// Instance is an immutable, sample-rate-bound FIR value (spec.md §3).
// Identity/Zero/Gain carry at most one coefficient; Custom carries `Taps`,
// always odd-length (linear-phase type-1), with Center typically
// len(Taps)/2.
type Instance struct {
	Kind   Kind
	Coeff  float64 // meaningful only for Kind == Gain
	Taps   []float64
	Center int
}

// Length returns the number of taps (1 for Identity/Zero/Gain).
func (in Instance) Length() int {
	if in.Kind == Custom {
		return len(in.Taps)
	}
	return 1
}

// NewIdentity returns the identity FIR (output = input).
func NewIdentity() Instance { return Instance{Kind: Identity} }

// NewZero returns the zero FIR (output = 0).
func NewZero() Instance { return Instance{Kind: Zero} }

// NewGain returns a scalar-gain FIR.
func NewGain(g float64) Instance { return Instance{Kind: Gain, Coeff: g} }

// NewCustom wraps taps as a Custom instance, forcing an odd length by
// appending a zero tap if necessary (spec.md §3 "always made odd").
func NewCustom(taps []float64, center int) Instance {
	if len(taps)%2 == 0 {
		taps = append(taps, 0)
	}
	if center < 0 {
		center = len(taps) / 2
	}
	return Instance{Kind: Custom, Taps: taps, Center: center}
}

// Generator is a mutable factory producing FIR instances (spec.md §4.3). A
// monotonically increasing Version lets a Convolver detect that a new
// instance must be made without the generator holding a back-reference to
// its consumers (spec.md §9).
type Generator interface {
	// Version returns an integer that changes iff the output of a
	// subsequent Make(rate) would differ behaviorally from the last.
	Version() int
	// Make synthesizes an instance tuned to sampleRate.
	Make(sampleRate int) (Instance, error)
}

// errGeneratorExhausted is returned by Make on resource exhaustion
// (spec.md §4.3 "return null on resource exhaustion").
var errGeneratorExhausted = verrors.New(nil).
	Component("dsp.fir").
	Category(verrors.CategoryResource).
	Context("reason", "fir_generator_exhausted").
	Build()

// IdentityGenerator always produces Identity; its version never changes.
type IdentityGenerator struct{}

func (IdentityGenerator) Version() int                      { return 0 }
func (IdentityGenerator) Make(int) (Instance, error)         { return NewIdentity(), nil }

// ZeroGenerator always produces Zero.
type ZeroGenerator struct{}

func (ZeroGenerator) Version() int              { return 0 }
func (ZeroGenerator) Make(int) (Instance, error) { return NewZero(), nil }

// GainGenerator produces a scalar gain FIR; SetGain bumps the version.
type GainGenerator struct {
	gain    float64
	version int
}

func NewGainGenerator(gain float64) *GainGenerator { return &GainGenerator{gain: gain} }

func (g *GainGenerator) Version() int { return g.version }

func (g *GainGenerator) Make(int) (Instance, error) { return NewGain(g.gain), nil }

// SetGain updates the gain and bumps the version so consumers rebuild.
func (g *GainGenerator) SetGain(gain float64) {
	if gain == g.gain {
		return
	}
	g.gain = gain
	g.version++
}

// CustomGenerator wraps a caller-supplied builder function; the caller is
// responsible for bumping Version when the builder's output would change.
type CustomGenerator struct {
	build   func(sampleRate int) (Instance, error)
	version int
}

func NewCustomGenerator(build func(sampleRate int) (Instance, error)) *CustomGenerator {
	return &CustomGenerator{build: build}
}

func (g *CustomGenerator) Version() int { return g.version }

func (g *CustomGenerator) Make(sampleRate int) (Instance, error) {
	if g.build == nil {
		return Instance{}, errGeneratorExhausted
	}
	return g.build(sampleRate)
}

// Bump increments the version, invalidating cached instances.
func (g *CustomGenerator) Bump() { g.version++ }
