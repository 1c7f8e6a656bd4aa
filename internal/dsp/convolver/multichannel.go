package convolver

import (
	"github.com/valib-go/valib/internal/audiocore"
	"github.com/valib-go/valib/internal/dsp/fir"
)

// MultiChannel holds a per-channel FIR generator (indexed by channel name,
// not position) and runs either a trivial scalar path or the block-FFT path
// of §4.4 depending on whether every resolved channel is identity/zero/gain
// (spec.md §4.5).
type MultiChannel struct {
	gens map[audiocore.Channel]fir.Generator

	channels []audiocore.Channel
	convs    []*Convolver // one per channel, always built; trivial ones never touch FFT state

	trivial bool
}

// NewMultiChannel returns a multichannel convolver looking up gens by
// channel name; a channel present in a stream with no matching generator
// uses fir.IdentityGenerator.
func NewMultiChannel(gens map[audiocore.Channel]fir.Generator) *MultiChannel {
	return &MultiChannel{gens: gens}
}

func (m *MultiChannel) generatorFor(ch audiocore.Channel) fir.Generator {
	if g, ok := m.gens[ch]; ok {
		return g
	}
	return fir.IdentityGenerator{}
}

// Open resolves the per-channel generators for mask's channels (in mask's
// canonical order) and builds each channel's Convolver.
func (m *MultiChannel) Open(mask audiocore.ChannelMask, sampleRate int) error {
	m.channels = mask.Channels()
	m.convs = make([]*Convolver, len(m.channels))
	m.trivial = true

	for i, ch := range m.channels {
		c := New(m.generatorFor(ch))
		if err := c.Open(sampleRate); err != nil {
			return err
		}
		m.convs[i] = c
		if c.Mode() == ModeFilter {
			m.trivial = false
		}
	}
	return nil
}

// IsTrivial reports whether every channel resolved to identity/zero/gain —
// the sample-by-sample, allocation-free fast path (spec.md §4.5).
func (m *MultiChannel) IsTrivial() bool { return m.trivial }

// WantReinit reports whether any channel's generator has advanced past the
// version observed at Open.
func (m *MultiChannel) WantReinit() bool {
	for _, c := range m.convs {
		if c.WantReinit() {
			return true
		}
	}
	return false
}

// Process runs planar (one slice per channel, in m.channels order) through
// each channel's convolver independently. In the non-trivial case, trivial
// channels are still processed through their own Convolver (identity/zero/
// gain paths have no latency, so no explicit delay line is needed here: the
// filtering channels' own pre-ring drop is what aligns the block boundary).
func (m *MultiChannel) Process(planar [][]float64) [][]float64 {
	out := make([][]float64, len(planar))
	for i, samples := range planar {
		if i >= len(m.convs) {
			out[i] = samples
			continue
		}
		out[i] = m.convs[i].Process(samples)
	}
	return out
}

// Flush drains every channel's convolver.
func (m *MultiChannel) Flush() [][]float64 {
	out := make([][]float64, len(m.convs))
	for i, c := range m.convs {
		out[i] = c.Flush()
	}
	return out
}

// Reset clears buffered state on every channel.
func (m *MultiChannel) Reset() {
	for _, c := range m.convs {
		c.Reset()
	}
}
