// Package cache implements the Cache filter of spec.md §4.10: a circular
// per-channel buffer sized size_seconds*sample_rate, fed by Process and
// read back by windowed copy via GetSamples. Built on
// github.com/smallnest/ringbuffer's byte ring, with samples serialized as
// little-endian float64s.
package cache

import (
	"encoding/binary"
	"math"

	"github.com/smallnest/ringbuffer"
)

// DefaultSizeSeconds is the default per-channel buffer depth.
const DefaultSizeSeconds = 5.0

const bytesPerSample = 8

// Cache owns one ring buffer per channel; readers get copies (spec.md §4.10
// "Ownership: the cache owns its buffer; readers get values by copy").
type Cache struct {
	rate        int
	sizeSeconds float64
	capSamples  int
	rings       []*ringbuffer.RingBuffer
	writePos    int64 // total samples ever written, per channel (all channels advance together)
}

// New allocates a Cache for nch channels at rate Hz, each holding
// sizeSeconds (DefaultSizeSeconds if <= 0) worth of samples.
func New(nch, rate int, sizeSeconds float64) *Cache {
	if sizeSeconds <= 0 {
		sizeSeconds = DefaultSizeSeconds
	}
	capSamples := int(sizeSeconds * float64(rate))
	if capSamples < 1 {
		capSamples = 1
	}
	rings := make([]*ringbuffer.RingBuffer, nch)
	for i := range rings {
		rings[i] = ringbuffer.New(capSamples * bytesPerSample)
	}
	return &Cache{rate: rate, sizeSeconds: sizeSeconds, capSamples: capSamples, rings: rings}
}

// GetTime returns the total number of samples written so far (the "now"
// position windowed reads are anchored to).
func (c *Cache) GetTime() int64 { return c.writePos }

// Process copies incoming per-channel samples into the ring at the write
// head, evicting the oldest samples first if the ring is full.
func (c *Cache) Process(planar [][]float64) {
	if len(planar) == 0 {
		return
	}
	n := len(planar[0])
	for ch, samples := range planar {
		if ch >= len(c.rings) {
			break
		}
		r := c.rings[ch]
		buf := make([]byte, len(samples)*bytesPerSample)
		for i, v := range samples {
			binary.LittleEndian.PutUint64(buf[i*bytesPerSample:], math.Float64bits(v))
		}
		if limit := c.capSamples * bytesPerSample; len(buf) > limit {
			buf = buf[len(buf)-limit:]
		}

		if needed := len(buf); needed > r.Free() {
			discard := needed - r.Free()
			if discard > r.Length() {
				discard = r.Length()
			}
			if discard > 0 {
				tmp := make([]byte, discard)
				_, _ = r.Read(tmp)
			}
		}
		_, _ = r.Write(buf)
	}
	c.writePos += int64(n)
}

// GetSamples copies a window of up to len(dst) samples from channel ch into
// the head of dst, oldest first, ending at GetTime(): the last copied sample
// is the newest one written. A window ending before GetTime() cannot be
// requested. Returns the number of samples actually copied (clamped to
// available data).
func (c *Cache) GetSamples(ch int, dst []float64) int {
	if ch < 0 || ch >= len(c.rings) {
		return 0
	}
	data := c.rings[ch].Bytes() // oldest-to-newest snapshot, non-destructive
	avail := len(data) / bytesPerSample

	n := len(dst)
	if n > avail {
		n = avail
	}
	offset := (avail - n) * bytesPerSample
	for i := 0; i < n; i++ {
		bits := binary.LittleEndian.Uint64(data[offset+i*bytesPerSample:])
		dst[i] = math.Float64frombits(bits)
	}
	return n
}

// Reset discards all buffered data without changing capacity.
func (c *Cache) Reset() {
	for _, r := range c.rings {
		r.Reset()
	}
	c.writePos = 0
}

// Capacity returns the per-channel capacity in samples.
func (c *Cache) Capacity() int { return c.capSamples }
