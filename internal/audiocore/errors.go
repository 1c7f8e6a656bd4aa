package audiocore

import (
	"github.com/valib-go/valib/internal/errors"
)

// ComponentAudioCore identifies this package to the errors registry.
const ComponentAudioCore = "audiocore"

// Sentinel errors for the three categories of spec.md §7: open-failure,
// processing-error and invalid-argument. Filters wrap these with Context
// (filter name, offending value) rather than minting new categories.
var (
	// ErrUnsupportedInput is returned by open() when can-open(spk) is false.
	ErrUnsupportedInput = errors.New(nil).
				Component(ComponentAudioCore).
				Category(errors.CategoryOpen).
				Context("reason", "unsupported_input_format").
				Build()

	// ErrDegenerateGraph is returned when a parameter combination yields a
	// graph with no valid route from source to sink.
	ErrDegenerateGraph = errors.New(nil).
				Component(ComponentAudioCore).
				Category(errors.CategoryOpen).
				Context("reason", "degenerate_graph").
				Build()

	// ErrAllocationFailed covers open-time and mid-stream allocation failure.
	ErrAllocationFailed = errors.New(nil).
				Component(ComponentAudioCore).
				Category(errors.CategoryResource).
				Context("reason", "allocation_failed").
				Build()

	// ErrNotOpen is returned when process/flush/reset is called on a closed filter.
	ErrNotOpen = errors.New(nil).
			Component(ComponentAudioCore).
			Category(errors.CategoryState).
			Context("reason", "filter_not_open").
			Build()

	// ErrNeedsReset is returned by any call after a failed process/flush,
	// until reset() or close() is called (spec.md §7 "needs-reset" state).
	ErrNeedsReset = errors.New(nil).
			Component(ComponentAudioCore).
			Category(errors.CategoryState).
			Context("reason", "needs_reset").
			Build()

	// ErrInvalidArgument is returned by setters given out-of-range parameters.
	ErrInvalidArgument = errors.New(nil).
				Component(ComponentAudioCore).
				Category(errors.CategoryValidation).
				Context("reason", "invalid_argument").
				Build()

	// ErrGraphCycle reports a cycle in a filter graph. Graph is a linear
	// chain built by Append, so nothing in this package returns it.
	ErrGraphCycle = errors.New(nil).
			Component(ComponentAudioCore).
			Category(errors.CategoryValidation).
			Context("reason", "graph_cycle").
			Build()

	// ErrNodeNotFound is returned for unknown node handles.
	ErrNodeNotFound = errors.New(nil).
				Component(ComponentAudioCore).
				Category(errors.CategoryNotFound).
				Context("resource", "graph_node").
				Build()
)
