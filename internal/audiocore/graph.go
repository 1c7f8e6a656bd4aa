package audiocore

import (
	"time"

	"github.com/google/uuid"

	"github.com/valib-go/valib/internal/errors"
)

// NodeID is a small-integer index into Graph's node arena. External code
// never holds a raw pointer to a node — only this ID (or the node's Handle
// UUID, for host-observable identity that survives a rebuild) — avoiding
// the cyclic filter<->graph ownership the original design used raw
// pointers for (spec.md §9).
type NodeID int

const invalidNodeID NodeID = -1

// rebuildState tracks a node's position in the dynamic-rebuild sub-state
// machine of spec.md §9: when an upstream NewStream() fires with a changed
// output Speakers, the node (and everything downstream of it) must flush,
// close, and reopen against the new format before normal processing
// resumes.
type rebuildState int

const (
	rebuildNone rebuildState = iota
	rebuildFlushing
	rebuildReopening
)

// node is one arena slot. The graph owns the Filter; node records never
// reference each other by pointer, only by NodeID through node.next.
type node struct {
	handle  uuid.UUID
	filter  Filter
	next    NodeID // linear successor; invalidNodeID for the terminal node
	rebuild rebuildState
}

// Graph is a dynamically-rebuildable DAG of Filter nodes (spec.md §4's
// FilterGraph runtime). This implementation targets the common case named
// throughout spec.md's data-flow description — a linear chain,
// decode -> remix -> resample -> equalize -> bass-redirect -> AGC/DRC ->
// delay -> dither -> encode — represented as a vector of node records
// linked by NodeID rather than a general adjacency table; branching graphs
// can be built by composing multiple Graphs at the host level.
type Graph struct {
	nodes []*node
	head  NodeID // first node, invalidNodeID if empty
	tail  NodeID // last node, for Append
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{head: invalidNodeID, tail: invalidNodeID}
}

// Append adds filter as the new tail of the chain and returns its handle.
func (g *Graph) Append(filter Filter) NodeID {
	id := NodeID(len(g.nodes))
	g.nodes = append(g.nodes, &node{handle: uuid.New(), filter: filter, next: invalidNodeID})
	if g.head == invalidNodeID {
		g.head = id
	} else {
		g.nodes[g.tail].next = id
	}
	g.tail = id
	return id
}

// Handle returns the stable external UUID for a node, surviving rebuilds.
func (g *Graph) Handle(id NodeID) (uuid.UUID, error) {
	if int(id) < 0 || int(id) >= len(g.nodes) {
		return uuid.UUID{}, errors.Wrap(ErrNodeNotFound).Build()
	}
	return g.nodes[id].handle, nil
}

// Filter returns the filter installed at id.
func (g *Graph) Filter(id NodeID) Filter {
	if int(id) < 0 || int(id) >= len(g.nodes) {
		return nil
	}
	return g.nodes[id].filter
}

// Open opens every node in chain order, feeding each node's output Speakers
// as the next node's input. Returns the final (possibly Unknown, if OFDD)
// output Speakers.
func (g *Graph) Open(in Speakers) (Speakers, error) {
	spk := in
	for id := g.head; id != invalidNodeID; id = g.nodes[id].next {
		n := g.nodes[id]
		if !n.filter.CanOpen(spk) {
			return Unknown, errors.Wrap(ErrUnsupportedInput).
				Component(ComponentAudioCore).
				Context("node", n.filter.Name()).
				Build()
		}
		if err := n.filter.Open(spk); err != nil {
			return Unknown, err
		}
		spk = n.filter.GetOutput()
		n.rebuild = rebuildNone
	}
	return spk, nil
}

// Close closes every node, tail-to-head order is immaterial since nodes
// share no state.
func (g *Graph) Close() {
	for _, n := range g.nodes {
		n.filter.Close()
	}
}

// Reset resets every node for a new stream with the same formats.
func (g *Graph) Reset() {
	for _, n := range g.nodes {
		n.filter.Reset()
		n.rebuild = rebuildNone
	}
}

// Process drives `in` through the full chain, pulling more output from each
// node until it reports "need more input", and handling format changes
// (NewStream()) by reopening the remainder of the chain in place — the
// "flush-aware rebuild" of spec.md §4/§9. It returns every output chunk
// produced by the tail node for this call (zero or more, per spec.md §5's
// "at most one output chunk per process call" applying per node, not per
// graph call, since a chain can fan one input chunk into several tail
// chunks as buffered stages drain).
func (g *Graph) Process(in Chunk) ([]Chunk, error) {
	return g.pushChunk(g.head, in)
}

// pushChunk feeds chunk into node id and, for every chunk that node
// produces, recursively pushes it into id's successor — this is the single
// drive primitive used by both Process (entry at g.head) and Flush/rebuild
// (entry at an interior node). Per spec.md §4.1, a node's Process return is
// (rest, out, ok, err), where rest is the *unconsumed tail* of chunk: as
// long as rest is non-dummy, the node hasn't finished with this input and
// must be re-fed with it before pushChunk moves on, regardless of whether
// this call also produced output (ok).
func (g *Graph) pushChunk(id NodeID, chunk Chunk) ([]Chunk, error) {
	if id == invalidNodeID {
		if chunk.IsDummy() {
			return nil, nil
		}
		return []Chunk{chunk}, nil
	}
	var outs []Chunk
	n := g.nodes[id]
	cur := chunk
	for {
		start := time.Now()
		rest, out, ok, err := n.filter.Process(cur)
		RecordProcess(n.filter.Name(), start, err)
		if err != nil {
			n.rebuild = rebuildNone
			return outs, err
		}
		if n.filter.NewStream() {
			drained, err := g.rebuildFrom(n.next, n.filter.GetOutput())
			outs = append(outs, drained...)
			if err != nil {
				return outs, err
			}
		}
		if ok {
			downOuts, err := g.pushChunk(n.next, out)
			if err != nil {
				return outs, err
			}
			outs = append(outs, downOuts...)
		}
		if rest.IsDummy() {
			return outs, nil
		}
		cur = rest
	}
}

// Flush drains every node tail-first isn't meaningful for a linear chain
// (each stage must fully drain before the next can be flushed); Flush
// drives the whole chain until the tail node reports no more output.
func (g *Graph) Flush() ([]Chunk, error) {
	var outs []Chunk
	for id := g.head; id != invalidNodeID; {
		n := g.nodes[id]
		for {
			out, more, err := n.filter.Flush()
			if err != nil {
				return outs, err
			}
			if !out.IsDummy() {
				downOuts, err := g.pushChunk(n.next, out)
				if err != nil {
					return outs, err
				}
				outs = append(outs, downOuts...)
			}
			if !more {
				break
			}
		}
		id = n.next
	}
	return outs, nil
}

// rebuildFrom flushes and reopens every node from id onward against a new
// upstream Speakers, preserving already-buffered data by draining it first
// (spec.md §9 "flush-aware rebuild"): each node's flushed output is pushed
// into its successor before that successor is flushed and reopened in turn.
// It returns the chunks that drained out of the tail.
func (g *Graph) rebuildFrom(id NodeID, spk Speakers) ([]Chunk, error) {
	var outs []Chunk
	for id != invalidNodeID {
		n := g.nodes[id]
		n.rebuild = rebuildFlushing
		for {
			out, more, err := n.filter.Flush()
			if err != nil {
				return outs, err
			}
			if !out.IsDummy() {
				downOuts, err := g.pushChunk(n.next, out)
				if err != nil {
					return outs, err
				}
				outs = append(outs, downOuts...)
			}
			if !more {
				break
			}
		}
		n.rebuild = rebuildReopening
		n.filter.Close()
		if !n.filter.CanOpen(spk) {
			return outs, errors.Wrap(ErrUnsupportedInput).
				Component(ComponentAudioCore).
				Context("node", n.filter.Name()).
				Build()
		}
		if err := n.filter.Open(spk); err != nil {
			return outs, err
		}
		spk = n.filter.GetOutput()
		n.rebuild = rebuildNone
		id = n.next
	}
	return outs, nil
}

// Len returns the number of nodes in the chain.
func (g *Graph) Len() int { return len(g.nodes) }
