package audiocore

// ChunkKind discriminates the three Chunk shapes of spec.md §3.
type ChunkKind int

const (
	// ChunkDummy carries nothing: size 0, no sync.
	ChunkDummy ChunkKind = iota
	// ChunkLinear carries per-channel planar float64 slices.
	ChunkLinear
	// ChunkRaw carries a single interleaved byte slice.
	ChunkRaw
)

// Chunk is a borrowed view into sample data plus timestamp metadata
// (spec.md §3). It is valid only while the underlying storage (Planar or
// Raw) is live; a filter may hand the caller a pointer into its own
// internal buffer or into the caller's input buffer ("in-place").
//
// Planar holds one slice per channel, ordered per Speakers.Mask.Channels().
// Raw holds interleaved bytes for PCM/compressed formats. Samples is the
// frame count (not byte count) represented by this chunk.
type Chunk struct {
	Kind    ChunkKind
	Planar  [][]float64
	Raw     []byte
	Samples int

	Sync bool
	Time float64 // seconds, monotonic within a stream
}

// DummyChunk returns the canonical empty chunk.
func DummyChunk() Chunk { return Chunk{Kind: ChunkDummy} }

// NewLinearChunk wraps planar per-channel float64 slices. All channels must
// be the same length; that length becomes Samples.
func NewLinearChunk(planar [][]float64) Chunk {
	n := 0
	if len(planar) > 0 {
		n = len(planar[0])
	}
	return Chunk{Kind: ChunkLinear, Planar: planar, Samples: n}
}

// NewRawChunk wraps an interleaved byte buffer; samples is the frame count
// it represents (raw is sized samples * nch * bytesPerSample by the caller).
func NewRawChunk(raw []byte, samples int) Chunk {
	return Chunk{Kind: ChunkRaw, Raw: raw, Samples: samples}
}

// IsDummy reports whether this chunk carries no data.
func (c Chunk) IsDummy() bool { return c.Kind == ChunkDummy || c.Samples == 0 }

// Drop removes the first n samples from the chunk's head, returning the
// remainder. Used by filters that consume `in` partially (spec.md §4.1
// process()'s "in points at the unconsumed tail").
func (c Chunk) Drop(n int) Chunk {
	if n <= 0 {
		return c
	}
	if n >= c.Samples {
		return DummyChunk()
	}
	switch c.Kind {
	case ChunkLinear:
		planar := make([][]float64, len(c.Planar))
		for i, ch := range c.Planar {
			planar[i] = ch[n:]
		}
		return Chunk{Kind: ChunkLinear, Planar: planar, Samples: c.Samples - n, Sync: c.Sync, Time: c.Time}
	case ChunkRaw:
		bps := len(c.Raw) / c.Samples
		return Chunk{Kind: ChunkRaw, Raw: c.Raw[n*bps:], Samples: c.Samples - n, Sync: c.Sync, Time: c.Time}
	default:
		return DummyChunk()
	}
}

// Take returns the first n samples of the chunk (n <= c.Samples).
func (c Chunk) Take(n int) Chunk {
	if n >= c.Samples {
		return c
	}
	switch c.Kind {
	case ChunkLinear:
		planar := make([][]float64, len(c.Planar))
		for i, ch := range c.Planar {
			planar[i] = ch[:n]
		}
		return Chunk{Kind: ChunkLinear, Planar: planar, Samples: n, Sync: c.Sync, Time: c.Time}
	case ChunkRaw:
		bps := len(c.Raw) / c.Samples
		return Chunk{Kind: ChunkRaw, Raw: c.Raw[:n*bps], Samples: n, Sync: c.Sync, Time: c.Time}
	default:
		return DummyChunk()
	}
}
