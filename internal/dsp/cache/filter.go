package cache

import (
	"github.com/valib-go/valib/internal/audiocore"
)

// Filter runs Cache as a zero-latency tap node in a Graph (spec.md §4.1/
// §4.10): every chunk that passes through is recorded into the ring and
// forwarded downstream unchanged, so a host holding the node can later call
// Cache() to GetSamples a trailing window.
type Filter struct {
	audiocore.BaseFilter

	SizeSeconds float64

	cache *Cache
	sh    *audiocore.SyncHelper
	rate  int
}

// NewFilter builds a cache tap holding sizeSeconds of history per channel
// (DefaultSizeSeconds if <= 0).
func NewFilter(sizeSeconds float64) *Filter { return &Filter{SizeSeconds: sizeSeconds} }

func (f *Filter) Name() string { return "cache" }

func (f *Filter) CanOpen(spk audiocore.Speakers) bool { return spk.Format == audiocore.FormatLinear }

func (f *Filter) IsOFDD() bool { return false }

func (f *Filter) Open(spk audiocore.Speakers) error {
	f.cache = New(spk.NumChannels(), spk.Rate, f.SizeSeconds)
	f.rate = spk.Rate
	f.sh = audiocore.NewSyncHelper()
	f.OpenAs(spk, spk)
	return nil
}

func (f *Filter) Close() {
	f.CloseState()
	f.cache = nil
}

func (f *Filter) Reset() {
	f.cache.Reset()
	f.sh.Reset()
	f.ResetState(f.GetOutput())
}

// Cache returns the underlying ring buffer for GetSamples queries.
func (f *Filter) Cache() *Cache { return f.cache }

func (f *Filter) Process(in audiocore.Chunk) (audiocore.Chunk, audiocore.Chunk, bool, error) {
	if in.IsDummy() {
		return in, audiocore.DummyChunk(), false, nil
	}
	f.Active()
	f.sh.ReceiveSync(&in)
	f.sh.Put(in.Samples)
	f.cache.Process(in.Planar)

	out := audiocore.NewLinearChunk(in.Planar)
	f.sh.SendSyncLinear(&out, f.rate)
	return in.Drop(in.Samples), out, true, nil
}

func (f *Filter) Flush() (audiocore.Chunk, bool, error) {
	return audiocore.DummyChunk(), false, nil
}
