package audiocore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// passthroughFilter is a minimal Filter used to exercise Graph without
// pulling in any internal/dsp package (would be an import cycle anyway).
type passthroughFilter struct {
	BaseFilter
	gain float64
}

func newPassthroughFilter(gain float64) *passthroughFilter { return &passthroughFilter{gain: gain} }

func (f *passthroughFilter) Name() string { return "passthrough" }
func (f *passthroughFilter) CanOpen(spk Speakers) bool { return spk.Format == FormatLinear }
func (f *passthroughFilter) Open(spk Speakers) error {
	f.OpenAs(spk, spk)
	return nil
}
func (f *passthroughFilter) Close() { f.CloseState() }
func (f *passthroughFilter) Reset() { f.ResetState(f.output) }
func (f *passthroughFilter) IsOFDD() bool { return false }

func (f *passthroughFilter) Process(in Chunk) (Chunk, Chunk, bool, error) {
	if in.IsDummy() {
		return in, DummyChunk(), false, nil
	}
	f.Active()
	out := make([][]float64, len(in.Planar))
	for i, ch := range in.Planar {
		scaled := make([]float64, len(ch))
		for j, v := range ch {
			scaled[j] = v * f.gain
		}
		out[i] = scaled
	}
	return DummyChunk(), NewLinearChunk(out), true, nil
}

func (f *passthroughFilter) Flush() (Chunk, bool, error) { return DummyChunk(), false, nil }

func TestGraphOpenChainPropagatesFormat(t *testing.T) {
	g := NewGraph()
	g.Append(newPassthroughFilter(1.0))
	g.Append(newPassthroughFilter(0.5))

	in := NewLinear(MaskStereo, 48000)
	out, err := g.Open(in)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestGraphProcessAppliesEveryNode(t *testing.T) {
	g := NewGraph()
	g.Append(newPassthroughFilter(2.0))
	g.Append(newPassthroughFilter(0.5))

	in := NewLinear(MaskStereo, 48000)
	_, err := g.Open(in)
	require.NoError(t, err)

	chunk := NewLinearChunk([][]float64{{1, 2, 3}, {4, 5, 6}})
	outs, err := g.Process(chunk)
	require.NoError(t, err)
	require.Len(t, outs, 1)
	// 2.0 * 0.5 == 1.0, net passthrough.
	assert.Equal(t, []float64{1, 2, 3}, outs[0].Planar[0])
}

func TestGraphOpenRejectsUnsupportedFormat(t *testing.T) {
	g := NewGraph()
	g.Append(newPassthroughFilter(1.0))

	_, err := g.Open(Speakers{Format: FormatPCM16LE, Mask: MaskStereo, Rate: 48000})
	assert.Error(t, err)
}

func TestGraphHandleStableAcrossLookup(t *testing.T) {
	g := NewGraph()
	id := g.Append(newPassthroughFilter(1.0))
	h1, err := g.Handle(id)
	require.NoError(t, err)
	h2, err := g.Handle(id)
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

// chunkingFilter emits at most chunkSize samples per Process call, returning
// the remainder as a non-dummy rest — a minimal stand-in for a genuinely
// partial-consuming node (e.g. a block-buffering convolver) to exercise
// Graph.Process's re-feed loop.
type chunkingFilter struct {
	BaseFilter
	chunkSize int
	calls     int
}

func newChunkingFilter(chunkSize int) *chunkingFilter { return &chunkingFilter{chunkSize: chunkSize} }

func (f *chunkingFilter) Name() string                { return "chunking" }
func (f *chunkingFilter) CanOpen(spk Speakers) bool    { return spk.Format == FormatLinear }
func (f *chunkingFilter) IsOFDD() bool                 { return false }
func (f *chunkingFilter) Close()                       { f.CloseState() }
func (f *chunkingFilter) Reset()                       { f.ResetState(f.output) }
func (f *chunkingFilter) Flush() (Chunk, bool, error)  { return DummyChunk(), false, nil }

func (f *chunkingFilter) Open(spk Speakers) error {
	f.OpenAs(spk, spk)
	return nil
}

func (f *chunkingFilter) Process(in Chunk) (Chunk, Chunk, bool, error) {
	if in.IsDummy() {
		return in, DummyChunk(), false, nil
	}
	f.Active()
	f.calls++
	n := f.chunkSize
	if n > in.Samples {
		n = in.Samples
	}
	out := in.Take(n)
	rest := in.Drop(n)
	return rest, out, true, nil
}

// TestGraphProcessRefeedsUnconsumedRest pins down that a node returning a
// genuine partial rest gets re-fed until it's exhausted, instead of that
// tail being silently dropped after the node's first Process call.
func TestGraphProcessRefeedsUnconsumedRest(t *testing.T) {
	g := NewGraph()
	g.Append(newChunkingFilter(2))

	in := NewLinear(MaskMono, 48000)
	_, err := g.Open(in)
	require.NoError(t, err)

	chunk := NewLinearChunk([][]float64{{1, 2, 3, 4, 5}})
	outs, err := g.Process(chunk)
	require.NoError(t, err)

	var got []float64
	for _, c := range outs {
		got = append(got, c.Planar[0]...)
	}
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, got)
	assert.Equal(t, 3, g.nodes[0].filter.(*chunkingFilter).calls) // 2 + 2 + 1 samples across three re-feeds
}

// TestGraphProcessFansOneInputIntoMultipleDownstreamChunks verifies each
// chunk a node emits flows all the way to the tail before the node is
// re-fed, rather than batching every node-local output into one call.
func TestGraphProcessFansOneInputIntoMultipleDownstreamChunks(t *testing.T) {
	g := NewGraph()
	g.Append(newChunkingFilter(2))
	g.Append(newPassthroughFilter(1.0))

	in := NewLinear(MaskMono, 48000)
	_, err := g.Open(in)
	require.NoError(t, err)

	outs, err := g.Process(NewLinearChunk([][]float64{{1, 2, 3, 4, 5}}))
	require.NoError(t, err)
	require.Len(t, outs, 3)
	assert.Equal(t, []float64{1, 2}, outs[0].Planar[0])
	assert.Equal(t, []float64{3, 4}, outs[1].Planar[0])
	assert.Equal(t, []float64{5}, outs[2].Planar[0])
}
