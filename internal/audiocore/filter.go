package audiocore

// FilterState is the node state machine of spec.md §3/§4.1.
type FilterState int

const (
	StateClosed FilterState = iota
	StateOpenEmpty
	StateOpenActive
	StateNeedsReset // entered after process/flush returns an error (spec.md §7)
)

func (s FilterState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpenEmpty:
		return "open-empty"
	case StateOpenActive:
		return "open-active"
	case StateNeedsReset:
		return "needs-reset"
	default:
		return "?"
	}
}

// Filter is the streaming state machine every processing node obeys
// (spec.md §4.1). Implementations must not allocate in CanOpen, must be
// idempotent in Close, and must leave state at StateNeedsReset (surfaced
// via a non-nil error from Process/Flush) after a processing error — the
// only legal subsequent calls are Reset or Close.
type Filter interface {
	// CanOpen is a pure predicate: does this filter accept spk given its
	// current parameters? Must not allocate or error.
	CanOpen(spk Speakers) bool

	// Open acquires resources for spk. Legal on an already-open filter as a
	// reconfiguration. Returns an open-failure error (spec.md §7) on
	// rejection; otherwise IsOpen() becomes true.
	Open(spk Speakers) error

	// Close releases resources. Idempotent.
	Close()

	// Reset prepares for a new stream with the same input format: clears
	// internal buffers and sync state without freeing resources.
	Reset()

	// Process attempts to emit one output chunk. `in` is consumed partially
	// or wholly; the returned Chunk is the unconsumed tail. `out` is the
	// produced chunk (IsDummy() if the filter needs more input) and `ok`
	// mirrors spec.md's "true if out is non-dummy and should be delivered
	// downstream". A non-nil error is a processing-error (spec.md §7); the
	// filter transitions to StateNeedsReset and only Reset/Close remain legal.
	Process(in Chunk) (rest Chunk, out Chunk, ok bool, err error)

	// Flush drains buffered data. Returns true while more output remains.
	Flush() (out Chunk, more bool, err error)

	// NewStream is a sticky-per-chunk flag set by the Process/Flush call
	// that begins a stream whose output Speakers differs from the previous
	// chunk's (or that requires a downstream re-open). Cleared by the next
	// Process/Flush call.
	NewStream() bool

	// IsOFDD reports whether GetOutput() may return Unknown after a
	// successful Open (output-format-data-driven).
	IsOFDD() bool

	GetInput() Speakers
	GetOutput() Speakers
	IsOpen() bool

	// Name identifies the filter kind for error context and graph debugging.
	Name() string
}

// BaseFilter implements the bookkeeping shared by nearly every concrete
// filter (open/input/output/state tracking, new-stream latch) so that
// filters compose it rather than reimplement the state machine — mirrors
// the teacher's FilterWrapper/SamplesFilter composition-over-inheritance
// pattern called out in spec.md §9.
type BaseFilter struct {
	state     FilterState
	input     Speakers
	output    Speakers
	newStream bool
}

func (b *BaseFilter) IsOpen() bool { return b.state == StateOpenEmpty || b.state == StateOpenActive }

func (b *BaseFilter) GetInput() Speakers  { return b.input }
func (b *BaseFilter) GetOutput() Speakers { return b.output }

func (b *BaseFilter) NewStream() bool {
	v := b.newStream
	b.newStream = false
	return v
}

// MarkNewStream is called by a concrete filter when its output Speakers
// changes mid-stream or a downstream re-open is required.
func (b *BaseFilter) MarkNewStream() { b.newStream = true }

// OpenAs records a successful open with known output format.
func (b *BaseFilter) OpenAs(in, out Speakers) {
	b.input = in
	b.output = out
	b.state = StateOpenEmpty
}

func (b *BaseFilter) CloseState() {
	b.state = StateClosed
	b.input = Unknown
	b.output = Unknown
	b.newStream = false
}

func (b *BaseFilter) ResetState(out Speakers) {
	if b.state != StateClosed {
		b.state = StateOpenEmpty
	}
	b.output = out
	b.newStream = false
}

func (b *BaseFilter) Active()       { b.state = StateOpenActive }
func (b *BaseFilter) NeedsReset()   { b.state = StateNeedsReset }
func (b *BaseFilter) IsNeedsReset() bool { return b.state == StateNeedsReset }
