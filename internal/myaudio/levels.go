package myaudio

import (
	"math"

	"github.com/valib-go/valib/internal/audiocore"
)

// CalculateRMS returns the root-mean-square of samples, 0 for an empty
// slice.
func CalculateRMS(samples []float64) float64 {
	if len(samples) == 0 {
		return 0
	}
	sum := 0.0
	for _, s := range samples {
		sum += s * s
	}
	return math.Sqrt(sum / float64(len(samples)))
}

// DefaultLevelsInterval is the default block length over which Levels
// reports a measurement (spec.md §4 "Levels", table row 14).
const DefaultLevelsInterval = 1.0 // seconds

// LevelsFilter is a transparent passthrough that periodically reports the
// per-channel RMS level and dBFS over a fixed block length.
type LevelsFilter struct {
	audiocore.BaseFilter

	Interval float64 // seconds, DefaultLevelsInterval if <= 0
	OnLevel  func(report LevelReport)

	n       int
	nch     int
	fillPos int
	block   [][]float64
	refLevel float64
}

// LevelReport is one measurement emitted by LevelsFilter.
type LevelReport struct {
	RMS  []float64 // linear, per channel
	DBFS []float64 // 20*log10(rms/refLevel), per channel
}

// NewLevels builds a levels meter reporting every Interval seconds via cb.
func NewLevels(interval float64, cb func(LevelReport)) *LevelsFilter {
	return &LevelsFilter{Interval: interval, OnLevel: cb}
}

func (f *LevelsFilter) Name() string { return "levels" }

func (f *LevelsFilter) CanOpen(spk audiocore.Speakers) bool {
	return spk.Format == audiocore.FormatLinear && spk.Rate > 0
}

func (f *LevelsFilter) IsOFDD() bool { return false }

func (f *LevelsFilter) Open(spk audiocore.Speakers) error {
	interval := f.Interval
	if interval <= 0 {
		interval = DefaultLevelsInterval
	}
	f.n = int(interval * float64(spk.Rate))
	if f.n < 1 {
		f.n = 1
	}
	f.nch = spk.NumChannels()
	f.refLevel = spk.RefLevel
	if f.refLevel == 0 {
		f.refLevel = 1
	}
	f.block = make([][]float64, f.nch)
	for ch := range f.block {
		f.block[ch] = make([]float64, f.n)
	}
	f.fillPos = 0
	f.OpenAs(spk, spk)
	return nil
}

func (f *LevelsFilter) Close() { f.CloseState() }

func (f *LevelsFilter) Reset() {
	f.fillPos = 0
	f.ResetState(f.GetOutput())
}

func (f *LevelsFilter) Process(in audiocore.Chunk) (audiocore.Chunk, audiocore.Chunk, bool, error) {
	if in.IsDummy() {
		return in, audiocore.DummyChunk(), false, nil
	}
	f.Active()

	for i := 0; i < in.Samples; i++ {
		for ch := 0; ch < f.nch && ch < len(in.Planar); ch++ {
			f.block[ch][f.fillPos] = in.Planar[ch][i]
		}
		f.fillPos++
		if f.fillPos == f.n {
			f.report()
			f.fillPos = 0
		}
	}
	return in.Drop(in.Samples), in, true, nil
}

func (f *LevelsFilter) report() {
	if f.OnLevel == nil {
		return
	}
	rms := make([]float64, f.nch)
	dbfs := make([]float64, f.nch)
	for ch := range f.block {
		r := CalculateRMS(f.block[ch][:f.fillPos])
		rms[ch] = r
		if r <= 0 {
			dbfs[ch] = math.Inf(-1)
		} else {
			dbfs[ch] = 20 * math.Log10(r/f.refLevel)
		}
	}
	f.OnLevel(LevelReport{RMS: rms, DBFS: dbfs})
}

func (f *LevelsFilter) Flush() (audiocore.Chunk, bool, error) {
	if f.fillPos > 0 {
		f.report()
		f.fillPos = 0
	}
	return audiocore.DummyChunk(), false, nil
}
