// Package audiocore implements the Filter contract and FilterGraph runtime
// (spec.md §4.1/§4.4) plus the value types every filter trades in: Speakers
// (speakers.go), Chunk (chunk.go), and SyncHelper (sync_helper.go). Concrete
// DSP filters live in internal/dsp/*; this package is the mechanism, not the
// policy (spec.md §1 "application-level policy ... is external").
package audiocore

// AudioBuffer is a reusable, reference-counted byte buffer handed out by a
// BufferPool. Chunk's raw-byte path and the convolver's FFT scratch space
// do not use it; they allocate plain slices.
type AudioBuffer interface {
	Data() []byte
	Len() int
	Cap() int
	Reset()
	Resize(newSize int) error
	Slice(start, end int) ([]byte, error)
	Acquire()
	Release()
}

// BufferPool manages reusable AudioBuffers tiered by size, avoiding
// allocation on the audio thread once a graph is open (spec.md §5 "no
// background allocation after open").
type BufferPool interface {
	Get(size int) AudioBuffer
	Put(buffer AudioBuffer)
	Stats() BufferPoolStats
}

// BufferPoolStats reports pool usage for observability/metrics.
type BufferPoolStats struct {
	TotalBuffers   int
	ActiveBuffers  int
	TotalAllocated int64
	HitRate        float64
}

// BufferPoolConfig sizes the pool's small/medium/large tiers.
type BufferPoolConfig struct {
	SmallBufferSize   int
	MediumBufferSize  int
	LargeBufferSize   int
	MaxBuffersPerSize int
	EnableMetrics     bool
}
