package resample

import (
	"github.com/valib-go/valib/internal/audiocore"
)

// Filter is the streaming multi-channel resampler node of spec.md §4.6,
// composed from one Stream per channel sharing a single process-wide Core
// fetched from GetCore. A Core's polyphase bank is read-only after
// construction, so sharing one across channels is safe.
type Filter struct {
	audiocore.BaseFilter

	Params Params

	streams []*Stream
	sh      *audiocore.SyncHelper
}

// NewFilter builds a resampler node converting from params.Fs to params.Fd.
func NewFilter(params Params) *Filter { return &Filter{Params: params} }

func (f *Filter) Name() string { return "resample" }

func (f *Filter) CanOpen(spk audiocore.Speakers) bool {
	return spk.Format == audiocore.FormatLinear && spk.Rate == f.Params.Fs
}

func (f *Filter) IsOFDD() bool { return false }

func (f *Filter) Open(spk audiocore.Speakers) error {
	core, err := GetCore(f.Params)
	if err != nil {
		return err
	}
	f.streams = make([]*Stream, spk.NumChannels())
	for i := range f.streams {
		f.streams[i] = NewStream(core)
	}
	f.sh = audiocore.NewSyncHelper()
	f.OpenAs(spk, audiocore.NewLinear(spk.Mask, f.Params.Fd))
	return nil
}

func (f *Filter) Close() {
	f.CloseState()
	f.streams = nil
}

func (f *Filter) Reset() {
	for _, s := range f.streams {
		s.Reset()
	}
	f.sh.Reset()
	f.ResetState(f.GetOutput())
}

func (f *Filter) Process(in audiocore.Chunk) (audiocore.Chunk, audiocore.Chunk, bool, error) {
	if in.IsDummy() {
		return in, audiocore.DummyChunk(), false, nil
	}
	f.Active()
	f.sh.ReceiveSync(&in)
	f.sh.Put(in.Samples)

	out := make([][]float64, len(f.streams))
	any := false
	for ch := range f.streams {
		if ch < len(in.Planar) {
			f.streams[ch].Fill(in.Planar[ch])
		}
		out[ch] = f.streams[ch].Process()
		if len(out[ch]) > 0 {
			any = true
		}
	}
	if !any {
		return in.Drop(in.Samples), audiocore.DummyChunk(), false, nil
	}
	outChunk := audiocore.NewLinearChunk(out)
	f.sh.SendSyncLinear(&outChunk, f.Params.Fd)
	return in.Drop(in.Samples), outChunk, true, nil
}

func (f *Filter) Flush() (audiocore.Chunk, bool, error) {
	out := make([][]float64, len(f.streams))
	any := false
	for ch := range f.streams {
		out[ch] = f.streams[ch].Flush()
		if len(out[ch]) > 0 {
			any = true
		}
	}
	if !any {
		return audiocore.DummyChunk(), false, nil
	}
	outChunk := audiocore.NewLinearChunk(out)
	f.sh.SendSyncLinear(&outChunk, f.Params.Fd)
	return outChunk, false, nil
}
