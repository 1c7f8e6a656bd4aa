// Package agc implements the look-ahead AGC/DRC filter of spec.md §4.8: two
// ping-pong N-sample blocks cross-faded with a Hann window so gain changes
// never produce a discontinuity at a block boundary.
package agc

import (
	"math"

	"github.com/valib-go/valib/internal/audiocore"
)

// Mode selects the loudness measure and gain-update rule (spec.md §4.8).
type Mode int

const (
	ModeAGC Mode = iota
	ModeDRC
)

// DefaultLoudnessInterval is the default block duration (spec.md §4.8).
const DefaultLoudnessInterval = 0.05 // seconds

// Params configures the AGC/DRC filter; zero values fall back to the
// documented defaults in Open.
type Params struct {
	Mode Mode

	LoudnessInterval float64 // seconds, default DefaultLoudnessInterval
	Master           float64 // target level (linear, relative to spk.level), default 1
	AttackDB         float64 // dB/s, default 50
	ReleaseDB        float64 // dB/s, default 10
	AutoGain         bool
	Normalize        bool

	DRCPower float64 // default 5 (dB compression ratio helper, spec.md "level^(-drc_power/50)")
	DRCLevel float64 // dB/s release for DRC, default ReleaseDB
}

func (p Params) withDefaults() Params {
	if p.LoudnessInterval <= 0 {
		p.LoudnessInterval = DefaultLoudnessInterval
	}
	if p.Master <= 0 {
		p.Master = 1
	}
	if p.AttackDB <= 0 {
		p.AttackDB = 50
	}
	if p.ReleaseDB <= 0 {
		p.ReleaseDB = 10
	}
	if p.DRCPower <= 0 {
		p.DRCPower = 5
	}
	if p.DRCLevel <= 0 {
		p.DRCLevel = p.ReleaseDB
	}
	return p
}

func db2value(db float64) float64 { return math.Pow(10, db/20) }

// Filter is the AGC/DRC streaming filter (spec.md §4.8).
type Filter struct {
	audiocore.BaseFilter

	Params Params

	n       int
	window0 []float64
	window1 []float64

	blocks   [2][][]float64 // blocks[slot][channel][sample]
	fillSlot int
	fillPos  int

	gain     float64
	oldGain  float64
	haveReady bool
	readySlot int

	refLevel float64
	nch      int
	rate     int
	sh       *audiocore.SyncHelper
}

func New(p Params) *Filter { return &Filter{Params: p.withDefaults()} }

func (f *Filter) Name() string { return "agc" }

func (f *Filter) CanOpen(spk audiocore.Speakers) bool {
	return spk.Format == audiocore.FormatLinear && spk.Rate > 0
}

func (f *Filter) IsOFDD() bool { return false }

func (f *Filter) Open(spk audiocore.Speakers) error {
	f.n = int(f.Params.LoudnessInterval * float64(spk.Rate))
	if f.n < 1 {
		f.n = 1
	}
	f.nch = spk.Mask.NumChannels()
	f.refLevel = spk.RefLevel
	if f.refLevel == 0 {
		f.refLevel = 1
	}

	f.window0 = make([]float64, f.n)
	f.window1 = make([]float64, f.n)
	for i := 0; i < f.n; i++ {
		f.window0[i] = 0.5 * (1 - math.Cos(float64(i)*math.Pi/float64(f.n)))
		f.window1[i] = 0.5 * (1 - math.Cos(float64(i+f.n)*math.Pi/float64(f.n)))
	}

	for slot := 0; slot < 2; slot++ {
		f.blocks[slot] = make([][]float64, f.nch)
		for ch := range f.blocks[slot] {
			f.blocks[slot][ch] = make([]float64, f.n)
		}
	}
	f.fillSlot, f.fillPos = 0, 0
	f.gain, f.oldGain = 1, 1
	f.haveReady = false
	f.rate = spk.Rate
	f.sh = audiocore.NewSyncHelper()

	f.OpenAs(spk, spk)
	return nil
}

func (f *Filter) Close() {
	f.CloseState()
	f.blocks = [2][][]float64{}
}

func (f *Filter) Reset() {
	f.fillPos = 0
	f.gain, f.oldGain = 1, 1
	f.haveReady = false
	f.sh.Reset()
	f.ResetState(f.GetOutput())
}

// measureLevel computes the block loudness: peak-of-peaks for AGC, mean RMS
// across channels for DRC (spec.md §4.8 step 2).
func (f *Filter) measureLevel(slot int) float64 {
	if f.Params.Mode == ModeDRC {
		sum := 0.0
		for _, ch := range f.blocks[slot] {
			rms := 0.0
			for _, v := range ch {
				rms += v * v
			}
			rms = math.Sqrt(rms / float64(len(ch)))
			sum += rms
		}
		return sum / float64(len(f.blocks[slot]))
	}

	peak := 0.0
	for _, ch := range f.blocks[slot] {
		for _, v := range ch {
			if a := math.Abs(v); a > peak {
				peak = a
			}
		}
	}
	return peak / f.refLevel
}

// Process ingests planar samples sample-by-sample into the fill block,
// emitting the previously cross-faded block's worth of output whenever a
// block fills (spec.md §4.8).
func (f *Filter) Process(in audiocore.Chunk) (audiocore.Chunk, audiocore.Chunk, bool, error) {
	if in.IsDummy() {
		return in, audiocore.DummyChunk(), false, nil
	}
	f.Active()
	f.sh.ReceiveSync(&in)
	f.sh.Put(in.Samples)

	var outPlanar [][]float64
	consumed := 0
	n := in.Samples

	for consumed < n {
		for ch := 0; ch < f.nch && ch < len(in.Planar); ch++ {
			f.blocks[f.fillSlot][ch][f.fillPos] = in.Planar[ch][consumed]
		}
		f.fillPos++
		consumed++

		if f.fillPos == f.n {
			emitted := f.finishBlock()
			if emitted != nil {
				outPlanar = appendPlanar(outPlanar, emitted)
			}
			f.fillSlot = 1 - f.fillSlot
			f.fillPos = 0
		}
	}

	if outPlanar == nil {
		return audiocore.DummyChunk(), audiocore.DummyChunk(), false, nil
	}
	out := audiocore.NewLinearChunk(outPlanar)
	f.sh.SendSyncLinear(&out, f.rate)
	return audiocore.DummyChunk(), out, true, nil
}

// finishBlock runs the gain update + cross-fade for the block that just
// filled, returning the previously ready block's cross-faded samples (or
// nil on the very first block, which has no previous to fade with).
func (f *Filter) finishBlock() [][]float64 {
	level := f.measureLevel(f.fillSlot)

	newGain := f.gain
	switch {
	case f.Params.AutoGain && math.Max(level, f.gainTrackedLevel())*f.gain > 1:
		attack := db2value(f.Params.AttackDB * float64(f.n) / f.sampleRateHint())
		divisor := math.Max(level, f.gainTrackedLevel()) * f.gain
		newGain = f.gain / math.Min(divisor, attack)
	case !f.Params.Normalize:
		release := db2value(f.Params.ReleaseDB * float64(f.n) / f.sampleRateHint())
		target := f.Params.Master
		if f.Params.Mode == ModeDRC {
			target = math.Pow(math.Max(level, 1e-9), -f.Params.DRCPower/50)
		}
		if target > f.gain {
			newGain = math.Min(target, f.gain*release)
		} else {
			newGain = math.Max(target, f.gain/release)
		}
	}

	changed := newGain != f.gain
	f.oldGain = f.gain
	f.gain = newGain

	if !f.haveReady {
		f.haveReady = true
		f.readySlot = f.fillSlot
		return nil
	}

	prevSlot := f.readySlot
	out := make([][]float64, f.nch)
	for ch := 0; ch < f.nch; ch++ {
		row := make([]float64, f.n)
		src := f.blocks[prevSlot][ch]
		if changed {
			for i := 0; i < f.n; i++ {
				g := f.oldGain*f.window1[i] + f.gain*f.window0[i]
				row[i] = clip(src[i]*g, f.refLevel)
			}
		} else {
			for i := 0; i < f.n; i++ {
				row[i] = clip(src[i]*f.gain, f.refLevel)
			}
		}
		out[ch] = row
	}
	f.readySlot = f.fillSlot
	return out
}

// gainTrackedLevel is a placeholder for the "old_level" term of spec.md
// §4.8's auto-gain rule; this implementation tracks only the current
// block's level, so old_level collapses to the current gain's own level.
func (f *Filter) gainTrackedLevel() float64 { return 1 / f.gain }

func (f *Filter) sampleRateHint() float64 {
	if f.GetOutput().Rate > 0 {
		return float64(f.GetOutput().Rate)
	}
	return float64(f.n) / f.Params.LoudnessInterval
}

func clip(v, refLevel float64) float64 {
	if v > refLevel {
		return refLevel
	}
	if v < -refLevel {
		return -refLevel
	}
	return v
}

func appendPlanar(dst, src [][]float64) [][]float64 {
	if dst == nil {
		return src
	}
	for ch := range dst {
		dst[ch] = append(dst[ch], src[ch]...)
	}
	return dst
}

// Flush zero-pads the current fill block to finish the cross-fade (spec.md
// §4.8 "Flushing"), then emits the samples the fill block held at the
// current gain, so every ingested sample leaves the filter.
func (f *Filter) Flush() (audiocore.Chunk, bool, error) {
	if f.fillPos == 0 && !f.haveReady {
		return audiocore.DummyChunk(), false, nil
	}
	pos := f.fillPos
	for ch := 0; ch < f.nch; ch++ {
		for i := f.fillPos; i < f.n; i++ {
			f.blocks[f.fillSlot][ch][i] = 0
		}
	}
	f.fillPos = f.n
	emitted := f.finishBlock()
	f.fillPos = 0
	if pos > 0 {
		tail := make([][]float64, f.nch)
		for ch := 0; ch < f.nch; ch++ {
			tail[ch] = make([]float64, pos)
			for i := 0; i < pos; i++ {
				tail[ch][i] = clip(f.blocks[f.readySlot][ch][i]*f.gain, f.refLevel)
			}
		}
		emitted = appendPlanar(emitted, tail)
		f.haveReady = false
	}
	if emitted == nil {
		return audiocore.DummyChunk(), false, nil
	}
	out := audiocore.NewLinearChunk(emitted)
	f.sh.SendSyncLinear(&out, f.rate)
	return out, false, nil
}
