package resample

// Stream is the streaming wrapper of spec.md §4.6 ("fill/can-process/
// process/need-flushing/flush"). It buffers pushed samples and defers the
// actual polyphase convolution to Flush/Process — a latency/throughput
// trade accepted as part of collapsing the two-stage design to one
// polyphase pass (see package doc).
type Stream struct {
	core *Core
	pend []float64
	done bool
}

// NewStream wraps core in a streaming pull/push adapter.
func NewStream(core *Core) *Stream { return &Stream{core: core} }

// Fill appends samples to the pending input.
func (s *Stream) Fill(samples []float64) {
	s.pend = append(s.pend, samples...)
	s.done = false
}

// CanProcess reports whether there is buffered input to convert.
func (s *Stream) CanProcess() bool { return len(s.pend) > 0 }

// Process converts and clears the buffered input accumulated since the last
// Process/Flush call.
func (s *Stream) Process() []float64 {
	if len(s.pend) == 0 {
		return nil
	}
	out := s.core.Convert(s.pend)
	s.pend = s.pend[:0]
	return out
}

// NeedFlushing reports whether Flush would still produce output (always
// false once Flush has been called without an intervening Fill, since this
// wrapper carries no residual filter-ring state across Flush).
func (s *Stream) NeedFlushing() bool { return len(s.pend) > 0 && !s.done }

// Flush finalizes the stream, converting any remaining buffered input.
func (s *Stream) Flush() []float64 {
	out := s.Process()
	s.done = true
	return out
}

// Reset clears buffered state for a new stream on the same Core.
func (s *Stream) Reset() {
	s.pend = s.pend[:0]
	s.done = false
}

// Convert is the one-shot buffer form of spec.md §4.6: build or fetch a
// cached Core for params and resample the whole input in one call.
func Convert(params Params, in []float64) ([]float64, error) {
	core, err := GetCore(params)
	if err != nil {
		return nil, err
	}
	return core.Convert(in), nil
}
