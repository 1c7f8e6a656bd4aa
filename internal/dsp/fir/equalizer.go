package fir

import (
	"math"
	"sort"

	"github.com/valib-go/valib/internal/dsp/fft"
)

// Band is one equalizer breakpoint: gain (dB) to apply from this frequency
// onward, until the next band's frequency.
type Band struct {
	Freq   float64 // Hz
	GainDB float64
}

// maxEqualizerTaps clamps a single segment's Kaiser length (spec.md §4.3
// "clamped to 64K - 1").
const maxEqualizerTaps = 64*1024 - 1

// EqualizerGenerator incrementally builds a single FIR approximating a
// piecewise-gain frequency response (spec.md §4.3 "Equalizer"). Changing
// one band only perturbs the segments touching it, which is why the
// algorithm accumulates per-segment contributions rather than designing
// the whole response from scratch — desirable for interactive EQ.
type EqualizerGenerator struct {
	bands    []Band
	rippleDB float64
	version  int
}

// NewEqualizerGenerator builds a generator from bands (any order) and a
// ripple tolerance in dB.
func NewEqualizerGenerator(rippleDB float64, bands ...Band) *EqualizerGenerator {
	eg := &EqualizerGenerator{rippleDB: rippleDB}
	eg.bands = append(eg.bands, bands...)
	return eg
}

func (g *EqualizerGenerator) Version() int { return g.version }

// SetBands replaces the band list, bumping the version.
func (g *EqualizerGenerator) SetBands(bands []Band) {
	g.bands = append([]Band(nil), bands...)
	g.version++
}

func (g *EqualizerGenerator) Make(sampleRate int) (Instance, error) {
	nyquist := float64(sampleRate) / 2

	bands := make([]Band, 0, len(g.bands))
	for _, b := range g.bands {
		if b.Freq < nyquist {
			bands = append(bands, b)
		}
	}
	if len(bands) == 0 {
		return NewIdentity(), nil
	}
	sort.Slice(bands, func(i, j int) bool { return bands[i].Freq < bands[j].Freq })
	if len(bands) == 1 {
		return NewGain(dbToLinear(bands[len(bands)-1].GainDB)), nil
	}

	q := math.Pow(10, g.rippleDB/20) - 1
	if q <= 0 {
		q = 1e-6
	}

	type segment struct {
		fCenter float64
		deltaG  float64
		n       int
		alpha   float64
	}
	segs := make([]segment, 0, len(bands)-1)
	maxN := 1
	for i := 0; i < len(bands)-1; i++ {
		g0 := dbToLinear(bands[i].GainDB)
		g1 := dbToLinear(bands[i+1].GainDB)
		deltaG := g0 - g1
		if deltaG == 0 {
			continue
		}
		aSeg := -20 * math.Log10(q/math.Abs(deltaG))
		if aSeg < 0 {
			aSeg = 0
		}
		df := (bands[i+1].Freq - bands[i].Freq) / float64(sampleRate)
		if df <= 0 {
			continue
		}
		n := fft.MakeOdd(fft.KaiserN(aSeg, df))
		if n > maxEqualizerTaps {
			n = maxEqualizerTaps
			if n%2 == 0 {
				n--
			}
		}
		if n > maxN {
			maxN = n
		}
		segs = append(segs, segment{
			fCenter: (bands[i].Freq + bands[i+1].Freq) / 2 / float64(sampleRate),
			deltaG:  deltaG,
			n:       n,
			alpha:   fft.KaiserAlpha(aSeg),
		})
	}

	n := fft.MakeOdd(maxN)
	c := n / 2
	h := make([]float64, n)
	h[c] = dbToLinear(bands[len(bands)-1].GainDB)

	for _, s := range segs {
		w := fft.KaiserWindow(s.n, s.alpha)
		segC := s.n / 2
		for j := -segC; j <= segC; j++ {
			idx := c + j
			if idx < 0 || idx >= n {
				continue
			}
			h[idx] += s.deltaG * lowpassTap(j, s.fCenter) * w[j+segC]
		}
	}

	return NewCustom(h, c), nil
}

// lowpassTap is the ideal low-pass impulse response sample at tap offset j
// (relative to center) for cutoff fCenter (normalized to sample rate).
func lowpassTap(j int, fCenter float64) float64 {
	if j == 0 {
		return 2 * fCenter
	}
	return 2 * fCenter * fft.Sinc(2*math.Pi*float64(j)*fCenter)
}

func dbToLinear(db float64) float64 { return math.Pow(10, db/20) }
