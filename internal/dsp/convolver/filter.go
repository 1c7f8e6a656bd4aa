package convolver

import (
	"github.com/valib-go/valib/internal/audiocore"
	"github.com/valib-go/valib/internal/dsp/fir"
)

// Filter drives a MultiChannel convolver as a streaming audiocore.Filter
// node (spec.md §4.1/§4.4/§4.5). MultiChannel buffers full FFT blocks
// internally, so Process always consumes its whole input chunk; output is
// dummy on calls that don't complete a block.
type Filter struct {
	audiocore.BaseFilter

	Gens map[audiocore.Channel]fir.Generator

	mc   *MultiChannel
	sh   *audiocore.SyncHelper
	rate int
}

// NewFilter builds a multichannel convolver node from per-channel FIR
// generators.
func NewFilter(gens map[audiocore.Channel]fir.Generator) *Filter {
	return &Filter{Gens: gens}
}

func (f *Filter) Name() string { return "convolver" }

func (f *Filter) CanOpen(spk audiocore.Speakers) bool { return spk.Format == audiocore.FormatLinear }

func (f *Filter) IsOFDD() bool { return false }

func (f *Filter) Open(spk audiocore.Speakers) error {
	f.mc = NewMultiChannel(f.Gens)
	if err := f.mc.Open(spk.Mask, spk.Rate); err != nil {
		return err
	}
	f.rate = spk.Rate
	f.sh = audiocore.NewSyncHelper()
	f.OpenAs(spk, spk)
	return nil
}

func (f *Filter) Close() {
	f.CloseState()
	f.mc = nil
}

func (f *Filter) Reset() {
	f.mc.Reset()
	f.sh.Reset()
	f.ResetState(f.GetOutput())
}

// WantReinit reports whether any channel's generator has produced a new FIR
// version since Open — a host should Flush, Close and reopen this node.
func (f *Filter) WantReinit() bool { return f.mc.WantReinit() }

func (f *Filter) Process(in audiocore.Chunk) (audiocore.Chunk, audiocore.Chunk, bool, error) {
	if in.IsDummy() {
		return in, audiocore.DummyChunk(), false, nil
	}
	f.Active()
	f.sh.ReceiveSync(&in)
	f.sh.Put(in.Samples)

	out := f.mc.Process(in.Planar)
	if len(out) == 0 || len(out[0]) == 0 {
		return in.Drop(in.Samples), audiocore.DummyChunk(), false, nil
	}
	outChunk := audiocore.NewLinearChunk(out)
	f.sh.SendSyncLinear(&outChunk, f.rate)
	return in.Drop(in.Samples), outChunk, true, nil
}

func (f *Filter) Flush() (audiocore.Chunk, bool, error) {
	out := f.mc.Flush()
	if len(out) == 0 || len(out[0]) == 0 {
		return audiocore.DummyChunk(), false, nil
	}
	outChunk := audiocore.NewLinearChunk(out)
	f.sh.SendSyncLinear(&outChunk, f.rate)
	return outChunk, false, nil
}
