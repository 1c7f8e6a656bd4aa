package mixer

import (
	"github.com/valib-go/valib/internal/audiocore"
)

// Filter drives Synthesize/Apply as a streaming audiocore.Filter node
// (spec.md §4.1/§4.7): the matrix is built once at Open against the
// negotiated input Speakers and the configured output mask, then Apply runs
// per chunk. Remixing never buffers, so rest is always fully consumed.
type Filter struct {
	audiocore.BaseFilter

	OutMask audiocore.ChannelMask
	Opts    Options

	m Matrix
}

// NewFilter builds a mixer node remixing to outMask using opts.
func NewFilter(outMask audiocore.ChannelMask, opts Options) *Filter {
	return &Filter{OutMask: outMask, Opts: opts}
}

func (f *Filter) Name() string { return "mixer" }

func (f *Filter) CanOpen(spk audiocore.Speakers) bool { return spk.Format == audiocore.FormatLinear }

func (f *Filter) IsOFDD() bool { return false }

func (f *Filter) Open(spk audiocore.Speakers) error {
	out := audiocore.NewLinear(f.OutMask, spk.Rate)
	f.m = Synthesize(spk, out, f.Opts)
	f.OpenAs(spk, out)
	return nil
}

func (f *Filter) Close() { f.CloseState() }

func (f *Filter) Reset() { f.ResetState(f.GetOutput()) }

func (f *Filter) Process(in audiocore.Chunk) (audiocore.Chunk, audiocore.Chunk, bool, error) {
	if in.IsDummy() {
		return in, audiocore.DummyChunk(), false, nil
	}
	f.Active()

	out := Apply(f.m, f.GetInput().Mask, f.OutMask, in.Planar)
	outChunk := audiocore.NewLinearChunk(out)
	outChunk.Sync, outChunk.Time = in.Sync, in.Time
	return in.Drop(in.Samples), outChunk, true, nil
}

func (f *Filter) Flush() (audiocore.Chunk, bool, error) {
	return audiocore.DummyChunk(), false, nil
}
