package arena

// NodeID indexes a node record in its graph's arena. IDs are only
// meaningful within the graph that issued them.
type NodeID int

// Kind discriminates the three node roles in the dependency graph.
type Kind uint8

const (
	KindSignal Kind = iota
	KindComputed
	KindSink
)

func (k Kind) String() string {
	switch k {
	case KindSignal:
		return "signal"
	case KindComputed:
		return "computed"
	case KindSink:
		return "sink"
	}
	return "unknown"
}

// depEdge records one dependency together with the generation observed
// when the edge was last refreshed. The cached value upstream is valid
// for this edge as long as the dependency's generation still matches.
type depEdge struct {
	id  NodeID
	gen uint64
}

type node struct {
	id   NodeID
	kind Kind
	name string

	value any

	// gen increments whenever the node's value observably changes:
	// on every effective signal write, and on a computed recompute
	// whose result differs under the equality policy.
	gen uint64

	dirty bool

	// initialized is false until the first evaluation (computed) or
	// first render (sink) has happened.
	initialized bool

	equals func(a, b any) bool

	// deps is replaced wholesale on every evaluation pass (computed)
	// or fixed at declaration (sink).
	deps []depEdge
	subs []NodeID

	compute func() any
	render  func()

	// renderedGens mirrors deps for sinks: the dependency generations
	// observed at the last invoked render. Nil before the first render.
	renderedGens []uint64
}

func (n *node) hasSub(id NodeID) bool {
	for _, s := range n.subs {
		if s == id {
			return true
		}
	}
	return false
}

func (n *node) addSub(id NodeID) {
	if !n.hasSub(id) {
		n.subs = append(n.subs, id)
	}
}

func (n *node) removeSub(id NodeID) {
	for i, s := range n.subs {
		if s == id {
			n.subs = append(n.subs[:i], n.subs[i+1:]...)
			return
		}
	}
}
