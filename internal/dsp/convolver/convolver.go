// Package convolver implements the overlap-add block-FFT convolution engine
// of spec.md §4.4 (single channel) and §4.5 (multichannel), built on
// internal/dsp/fft and internal/dsp/fir.
package convolver

import (
	"github.com/valib-go/valib/internal/dsp/fft"
	"github.com/valib-go/valib/internal/dsp/fir"
)

// Mode names the fast paths a convolver may run in without doing any FFT
// work (spec.md §4.4 "Edge case modes").
type Mode int

const (
	ModePassthrough Mode = iota
	ModeZero
	ModeGain
	ModeFilter
)

// Convolver is a single-channel overlap-add FFT convolver driven by a FIR
// generator (spec.md §4.4). Reconfiguration is detected by comparing the
// generator's Version() against the version last observed at Open.
type Convolver struct {
	gen fir.Generator
	ver int

	mode Mode
	gain float64

	n int // FFT size (power of two >= fir length)
	c int // FIR center (pre-ring length)

	spectrum []complex128 // pre-transformed FIR spectrum, length 2n

	block   []float64 // accumulator for the current n-sample input block
	blockAt int
	overlap []float64 // saved second half of the previous block's output

	preRemaining  int // samples still to drop from the head of emitted output
	postRemaining int // samples of flush output still owed
	opened        bool
}

// New returns a convolver driven by gen. Call Open before Process.
func New(gen fir.Generator) *Convolver {
	return &Convolver{gen: gen}
}

// WantReinit reports whether the generator has produced a new FIR version
// since Open — the graph must flush and reopen this convolver when true
// (spec.md §4.4 "Reconfiguration").
func (c *Convolver) WantReinit() bool {
	return c.opened && c.gen.Version() != c.ver
}

// Open builds (or rebuilds) internal state from the generator's current FIR
// instance at sampleRate.
func (c *Convolver) Open(sampleRate int) error {
	inst, err := c.gen.Make(sampleRate)
	if err != nil {
		return err
	}
	c.ver = c.gen.Version()
	c.opened = true
	c.preRemaining = 0
	c.postRemaining = 0
	c.blockAt = 0

	switch inst.Kind {
	case fir.Identity:
		c.mode = ModePassthrough
	case fir.Zero:
		c.mode = ModeZero
	case fir.Gain:
		c.mode = ModeGain
		c.gain = inst.Coeff
	default:
		c.mode = ModeFilter
		c.c = inst.Center
		c.n = fft.NextPow2(inst.Length())
		c.block = make([]float64, c.n)
		c.overlap = make([]float64, c.n)
		c.preRemaining = c.c

		padded := make([]complex128, 2*c.n)
		for i, v := range inst.Taps {
			padded[i] = complex(v, 0)
		}
		fft.Forward(padded)
		c.spectrum = padded
	}
	return nil
}

// Length reports the FFT block size in filter mode (0 in the trivial
// modes).
func (c *Convolver) Length() int { return c.n }

// Mode reports the convolver's current fast-path classification.
func (c *Convolver) Mode() Mode { return c.mode }

// Process appends samples to the internal accumulator and emits whatever
// full blocks are ready. In the trivial modes it returns a transformed copy
// immediately with no buffering.
func (c *Convolver) Process(in []float64) []float64 {
	switch c.mode {
	case ModePassthrough:
		return in
	case ModeZero:
		return make([]float64, len(in))
	case ModeGain:
		out := make([]float64, len(in))
		for i, v := range in {
			out[i] = v * c.gain
		}
		return out
	}

	var out []float64
	for _, v := range in {
		c.block[c.blockAt] = v
		c.blockAt++
		if c.blockAt == c.n {
			out = append(out, c.runBlock()...)
			c.blockAt = 0
			c.postRemaining = c.c
		}
	}
	if c.preRemaining > 0 && len(out) > 0 {
		drop := c.preRemaining
		if drop > len(out) {
			drop = len(out)
		}
		out = out[drop:]
		c.preRemaining -= drop
	}
	return out
}

// runBlock performs one FFT/multiply/IFFT/overlap-add cycle over the
// accumulated block (spec.md §4.4 steps 2-5) and returns n emitted samples.
func (c *Convolver) runBlock() []float64 {
	padded := make([]complex128, 2*c.n)
	for i, v := range c.block {
		padded[i] = complex(v, 0)
	}
	fft.Forward(padded)
	for i := range padded {
		padded[i] *= c.spectrum[i]
	}
	fft.Inverse(padded)

	result := fft.Real(padded)
	out := make([]float64, c.n)
	for i := 0; i < c.n; i++ {
		out[i] = result[i] + c.overlap[i]
	}
	copy(c.overlap, result[c.n:2*c.n])
	return out
}

// Flush drains any partial block plus the filter's ring tail (spec.md §4.4
// "Flushing"): zero-pads the remaining block to n, runs one more FFT step,
// and emits pos+c samples where pos is the partial block's length.
func (c *Convolver) Flush() []float64 {
	if c.mode != ModeFilter || (c.blockAt == 0 && c.postRemaining == 0) {
		return nil
	}
	pos := c.blockAt
	for i := pos; i < c.n; i++ {
		c.block[i] = 0
	}
	out := c.runBlock()
	c.blockAt = 0
	c.postRemaining = 0

	want := pos + c.c
	if want > len(out) {
		want = len(out)
	}
	if c.preRemaining > 0 {
		drop := c.preRemaining
		if drop > want {
			drop = want
		}
		c.preRemaining -= drop
		return out[drop:want]
	}
	return out[:want]
}

// Reset clears buffered state without dropping the current FIR instance.
func (c *Convolver) Reset() {
	if c.mode != ModeFilter {
		return
	}
	c.blockAt = 0
	for i := range c.block {
		c.block[i] = 0
	}
	for i := range c.overlap {
		c.overlap[i] = 0
	}
	c.preRemaining = c.c
	c.postRemaining = 0
}
