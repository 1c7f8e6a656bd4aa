package audiocore

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSyncHelperLinearPropagation(t *testing.T) {
	h := NewSyncHelper()

	// Original annotation: time=1.0 at the point 100 samples are already
	// buffered ahead of this sync point.
	h.Put(100)
	c := Chunk{Sync: true, Time: 1.0}
	h.ReceiveSync(&c)
	assert.False(t, c.Sync, "ReceiveSync clears the input chunk's flag")

	// Drain in two steps of 60 samples (rate=1 for simplicity).
	h.Drop(60)
	out := Chunk{Samples: 60}
	h.SendSyncLinear(&out, 1)
	assert.False(t, out.Sync, "position still > 0, nothing to emit yet")

	out2 := Chunk{Samples: 60}
	h.SendSyncLinear(&out2, 1)
	assert.True(t, out2.Sync)
	// pos at send time was 100-60-60=-20 (the explicit Drop plus the first
	// SendSyncLinear's Drop), so time = 1.0 - (-20)*(1/1) = 21.
	assert.InDelta(t, 1.0+20, out2.Time, 1e-9)
}

func TestSyncHelperQueueCollapsesToOneNonPositiveEntry(t *testing.T) {
	h := NewSyncHelper()
	h.Put(10)
	c1 := Chunk{Sync: true, Time: 1.0}
	h.ReceiveSync(&c1)
	h.Put(10)
	c2 := Chunk{Sync: true, Time: 2.0}
	h.ReceiveSync(&c2)

	h.Drop(25) // both entries now <= 0
	assert.Len(t, h.queue, 1, "only the most recent non-positive entry survives")
	assert.Equal(t, 2.0, h.queue[0].time)
}

func TestSyncHelperReset(t *testing.T) {
	h := NewSyncHelper()
	h.Put(5)
	c := Chunk{Sync: true, Time: 1.0}
	h.ReceiveSync(&c)
	h.Reset()
	assert.Empty(t, h.queue)
	assert.Equal(t, 0, h.bufSize)
}
