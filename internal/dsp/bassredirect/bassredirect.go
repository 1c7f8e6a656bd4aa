// Package bassredirect implements the LR4 (Linkwitz-Riley 4th order)
// crossover with destination-channel routing of spec.md §4.9. It composes
// internal/dsp/crossover's biquad cascade the way the teacher composes a
// wrapped filter for a derived behavior (spec.md §9 "prefer composition
// over inheritance").
package bassredirect

import (
	"github.com/valib-go/valib/internal/audiocore"
	"github.com/valib-go/valib/internal/dsp/crossover"
)

// DefaultFreq is the default LR4 crossover frequency (spec.md §4.9).
const DefaultFreq = 80.0

// Filter high-passes every "main" channel (outside DestMask) and routes a
// low-passed sum of those channels into DestMask's channels, summed with
// their own unfiltered content (spec.md §4.9). Active only when enabled and
// the input has at least one main channel and at least one destination
// channel; otherwise it is a passthrough.
type Filter struct {
	audiocore.BaseFilter

	Enabled  bool
	Freq     float64
	DestMask audiocore.ChannelMask

	lp      *crossover.Filter // mono, applied to the main-channel sum
	hp      *crossover.Filter // one state slot per main channel
	srcIdx  []int             // planar indices of main channels
	dstIdx  []int             // planar indices of destination channels
	active  bool
}

// New returns a bass-redirect filter routing to destMask (0 defaults to
// LFE-only) at freq Hz (0 defaults to DefaultFreq).
func New(freq float64, destMask audiocore.ChannelMask) *Filter {
	if freq <= 0 {
		freq = DefaultFreq
	}
	if destMask == 0 {
		destMask = audiocore.MaskLFEOnly
	}
	return &Filter{Enabled: true, Freq: freq, DestMask: destMask}
}

func (f *Filter) Name() string { return "bassredirect" }

func (f *Filter) CanOpen(spk audiocore.Speakers) bool {
	return spk.Format == audiocore.FormatLinear && spk.Rate > 0
}

func (f *Filter) IsOFDD() bool { return false }

func (f *Filter) Open(spk audiocore.Speakers) error {
	f.srcIdx = nil
	f.dstIdx = nil
	var nSrc int
	for _, ch := range spk.Mask.Channels() {
		if f.DestMask.Has(ch) {
			continue
		}
		f.srcIdx = append(f.srcIdx, spk.Mask.Index(ch))
		nSrc++
	}
	for _, ch := range f.DestMask.Channels() {
		if spk.Mask.Has(ch) {
			f.dstIdx = append(f.dstIdx, spk.Mask.Index(ch))
		}
	}
	f.active = f.Enabled && nSrc > 0 && len(f.dstIdx) > 0

	if f.active {
		lp, err := crossover.NewLowPass(float64(spk.Rate), f.Freq, 0.707, 2, 1)
		if err != nil {
			return err
		}
		hp, err := crossover.NewHighPass(float64(spk.Rate), f.Freq, 0.707, 2, nSrc)
		if err != nil {
			return err
		}
		f.lp, f.hp = lp, hp
	} else {
		f.lp, f.hp = nil, nil
	}

	f.OpenAs(spk, spk)
	return nil
}

func (f *Filter) Close() {
	f.CloseState()
	f.lp, f.hp = nil, nil
	f.srcIdx, f.dstIdx = nil, nil
	f.active = false
}

func (f *Filter) Reset() {
	if f.lp != nil {
		f.lp.ResetState()
	}
	if f.hp != nil {
		f.hp.ResetState()
	}
	f.ResetState(f.GetOutput())
}

func (f *Filter) Process(in audiocore.Chunk) (audiocore.Chunk, audiocore.Chunk, bool, error) {
	if in.IsDummy() {
		return in, audiocore.DummyChunk(), false, nil
	}
	f.Active()

	if !f.active {
		return audiocore.DummyChunk(), in, true, nil
	}

	n := in.Samples
	out := make([][]float64, len(in.Planar))
	for i, ch := range in.Planar {
		cp := make([]float64, len(ch))
		copy(cp, ch)
		out[i] = cp
	}

	for i := 0; i < n; i++ {
		sum := 0.0
		for k, idx := range f.srcIdx {
			x := in.Planar[idx][i]
			sum += x
			out[idx][i] = f.hp.Apply(k, x)
		}
		bass := f.lp.Apply(0, sum)
		for _, idx := range f.dstIdx {
			out[idx][i] = in.Planar[idx][i] + bass
		}
	}

	return audiocore.DummyChunk(), audiocore.NewLinearChunk(out), true, nil
}

func (f *Filter) Flush() (audiocore.Chunk, bool, error) {
	return audiocore.DummyChunk(), false, nil
}
