// Package mixer implements the channel-matrix mixer of spec.md §4.7: given
// an input and a desired output Speakers, it synthesizes an NCHANNELS ×
// NCHANNELS gain matrix (direct routes, downmix rules, stereo expansion)
// and applies it per-frame.
//
// Dolby Pro Logic / Pro Logic II matrix encoding and the "voice control"
// dematrixing path (spec.md §4.7) are intentionally not synthesized here —
// they need a joint L/R dematrix rather than a per-channel gain row, which
// doesn't fit this matrix representation without a second pass; documented
// as a scope simplification.
package mixer

import (
	"math"

	"github.com/valib-go/valib/internal/audiocore"
)

const nchannels = 11 // audiocore.ChannelBR + 1

// halfPower is the -3dB linear gain used for downmix splits (spec.md §4.7
// "center to L+R via -3dB each").
const halfPower = 0.70710678118 // 1/sqrt(2)

// Matrix is an NCHANNELS x NCHANNELS gain matrix: Matrix[out][in] is the
// contribution of input channel `in` to output channel `out`.
type Matrix [nchannels][nchannels]float64

// Options tunes matrix synthesis beyond the bare in/out channel masks.
type Options struct {
	InputGains  map[audiocore.Channel]float64
	OutputGains map[audiocore.Channel]float64
	Gain        float64 // global linear gain, 0 treated as 1
	Normalize   bool     // divide by max abs row sum so output never exceeds full scale
	ExpandStereo bool    // synthesize (L-R)/2 into missing surround channels
}

// Synthesize builds the gain matrix routing `in` to `out` (spec.md §4.7).
func Synthesize(in, out audiocore.Speakers, opts Options) Matrix {
	var m Matrix

	inSet := map[audiocore.Channel]bool{}
	for _, ch := range in.Mask.Channels() {
		inSet[ch] = true
	}
	outSet := map[audiocore.Channel]bool{}
	for _, ch := range out.Mask.Channels() {
		outSet[ch] = true
	}

	// Direct routes: channels present in both masks pass through unchanged.
	for ch := range inSet {
		if outSet[ch] {
			m[ch][ch] = 1
		}
	}

	// Center downmix: if input has C but output doesn't, split to L/R.
	if inSet[audiocore.ChannelC] && !outSet[audiocore.ChannelC] {
		if outSet[audiocore.ChannelL] {
			m[audiocore.ChannelL][audiocore.ChannelC] += halfPower
		}
		if outSet[audiocore.ChannelR] {
			m[audiocore.ChannelR][audiocore.ChannelC] += halfPower
		}
	}

	// LFE downmix: if input has LFE but output doesn't, split to L/R.
	if inSet[audiocore.ChannelLFE] && !outSet[audiocore.ChannelLFE] {
		if outSet[audiocore.ChannelL] {
			m[audiocore.ChannelL][audiocore.ChannelLFE] += halfPower
		}
		if outSet[audiocore.ChannelR] {
			m[audiocore.ChannelR][audiocore.ChannelLFE] += halfPower
		}
	}

	// Surround downmix: side surrounds route to back surrounds if that's
	// all the output has, else fold into L/R at full weight (spec.md §4.7's
	// default surround level is unity, unlike the -3dB center/LFE downmix).
	routeSurround := func(src audiocore.Channel, mainOut audiocore.Channel, backOut audiocore.Channel) {
		if !inSet[src] || outSet[src] {
			return
		}
		switch {
		case outSet[backOut]:
			m[backOut][src] += 1
		case outSet[mainOut]:
			m[mainOut][src] += 1
		}
	}
	routeSurround(audiocore.ChannelSL, audiocore.ChannelL, audiocore.ChannelBL)
	routeSurround(audiocore.ChannelSR, audiocore.ChannelR, audiocore.ChannelBR)
	routeSurround(audiocore.ChannelBL, audiocore.ChannelL, audiocore.ChannelSL)
	routeSurround(audiocore.ChannelBR, audiocore.ChannelR, audiocore.ChannelSR)

	// Expand stereo: input has no surround but output wants it — synthesize
	// a matrix difference signal (L-R)/2.
	if opts.ExpandStereo && inSet[audiocore.ChannelL] && inSet[audiocore.ChannelR] {
		for _, surr := range []audiocore.Channel{audiocore.ChannelSL, audiocore.ChannelBL} {
			if outSet[surr] && !inSet[surr] {
				m[surr][audiocore.ChannelL] += 0.5
				m[surr][audiocore.ChannelR] -= 0.5
			}
		}
		for _, surr := range []audiocore.Channel{audiocore.ChannelSR, audiocore.ChannelBR} {
			if outSet[surr] && !inSet[surr] {
				m[surr][audiocore.ChannelL] -= 0.5
				m[surr][audiocore.ChannelR] += 0.5
			}
		}
	}

	levelGain := out.RefLevel / safeNonZero(in.RefLevel)
	globalGain := opts.Gain
	if globalGain == 0 {
		globalGain = 1
	}

	for o := 0; o < nchannels; o++ {
		og := gainFor(opts.OutputGains, audiocore.Channel(o))
		for i := 0; i < nchannels; i++ {
			if m[o][i] == 0 {
				continue
			}
			ig := gainFor(opts.InputGains, audiocore.Channel(i))
			m[o][i] *= og * ig * globalGain * levelGain
		}
	}

	if opts.Normalize {
		normalize(&m)
	}
	return m
}

func gainFor(gains map[audiocore.Channel]float64, ch audiocore.Channel) float64 {
	if gains == nil {
		return 1
	}
	if g, ok := gains[ch]; ok {
		return g
	}
	return 1
}

func safeNonZero(v float64) float64 {
	if v == 0 {
		return 1
	}
	return v
}

func normalize(m *Matrix) {
	maxAbsSum := 0.0
	for o := 0; o < nchannels; o++ {
		sum := 0.0
		for i := 0; i < nchannels; i++ {
			sum += math.Abs(m[o][i])
		}
		if sum > maxAbsSum {
			maxAbsSum = sum
		}
	}
	if maxAbsSum <= 1 {
		return
	}
	for o := 0; o < nchannels; o++ {
		for i := 0; i < nchannels; i++ {
			m[o][i] /= maxAbsSum
		}
	}
}

// Apply runs the matrix over planar input keyed by full-channel index
// (0..nchannels-1, audiocore.Channel values), producing planar output for
// out.Mask's channels in canonical order.
func Apply(m Matrix, inMask, outMask audiocore.ChannelMask, inPlanar [][]float64) [][]float64 {
	n := 0
	if len(inPlanar) > 0 {
		n = len(inPlanar[0])
	}
	outChannels := outMask.Channels()
	out := make([][]float64, len(outChannels))

	full := make([][]float64, nchannels)
	for _, ch := range inMask.Channels() {
		full[ch] = inPlanar[inMask.Index(ch)]
	}

	for oi, och := range outChannels {
		row := make([]float64, n)
		for ich := audiocore.Channel(0); ich < nchannels; ich++ {
			g := m[och][ich]
			if g == 0 || full[ich] == nil {
				continue
			}
			src := full[ich]
			for i := 0; i < n; i++ {
				row[i] += g * src[i]
			}
		}
		out[oi] = row
	}
	return out
}
