// Package arena implements the reactive dependency graph as an arena of
// node records addressed by index. Signals are mutable leaves, computed
// nodes are lazily recomputed cached derivations, and sinks are terminal
// consumers flushed in declaration order. Dependency edges are discovered
// during evaluation and stored as index sets, so the graph owns its whole
// topology explicitly; there is no hidden global tracking state.
//
// A graph is confined to the goroutine that created it. Access within a
// session is strictly sequential, so the graph takes no locks; isolation
// across sessions comes from never sharing a graph or a NodeID between
// goroutines, which the confinement check enforces.
package arena

import (
	"fmt"

	"github.com/petermattis/goid"
)

// Config carries per-node construction options.
type Config struct {
	// Name labels the node in error paths. Auto-generated when empty.
	Name string

	// Equals decides whether a newly produced value counts as a change.
	// Defaults to structural equality.
	Equals func(a, b any) bool
}

// Graph is one session's private dependency graph.
type Graph struct {
	owner int64

	nodes []*node
	sinks []NodeID

	// evalStack holds the nodes whose evaluation passes are currently
	// active, outermost first. Used for dependency tracking and for
	// cycle detection.
	evalStack []NodeID
	frames    []*frame

	batchDepth int
	closed     bool
	closeFns   []func()
}

// frame records the dependency set discovered during one evaluation pass.
type frame struct {
	deps []depEdge
	seen map[NodeID]struct{}
}

func (f *frame) track(id NodeID, gen uint64) {
	if _, ok := f.seen[id]; ok {
		return
	}
	f.seen[id] = struct{}{}
	f.deps = append(f.deps, depEdge{id: id, gen: gen})
}

// New creates an empty graph owned by the calling goroutine.
func New() *Graph {
	return &Graph{owner: goid.Get()}
}

func (g *Graph) check() {
	if g.closed {
		panic("arena: use of closed graph")
	}
	if gid := goid.Get(); gid != g.owner {
		panic(fmt.Sprintf("arena: graph owned by goroutine %d used from goroutine %d", g.owner, gid))
	}
}

func (g *Graph) alloc(kind Kind, cfg Config) *node {
	n := &node{
		id:     NodeID(len(g.nodes)),
		kind:   kind,
		name:   cfg.Name,
		equals: cfg.Equals,
	}
	if n.name == "" {
		n.name = fmt.Sprintf("%s#%d", kind, n.id)
	}
	if n.equals == nil {
		n.equals = structuralEqual
	}
	g.nodes = append(g.nodes, n)
	return n
}

// NewSignal allocates a mutable leaf holding initial.
func (g *Graph) NewSignal(initial any, cfg Config) NodeID {
	g.check()
	n := g.alloc(KindSignal, cfg)
	n.value = initial
	n.initialized = true
	return n.id
}

// NewComputed allocates a derived node. compute runs lazily on the first
// read and again only after an upstream change.
func (g *Graph) NewComputed(compute func() any, cfg Config) NodeID {
	g.check()
	n := g.alloc(KindComputed, cfg)
	n.compute = compute
	n.dirty = true
	return n.id
}

// NewSink allocates a terminal consumer over the declared dependencies.
// Dependencies are fixed here, before the first flush; render runs during
// Flush whenever one of them has changed.
func (g *Graph) NewSink(render func(), deps []NodeID, cfg Config) NodeID {
	g.check()
	n := g.alloc(KindSink, cfg)
	n.render = render
	n.dirty = true
	n.deps = make([]depEdge, len(deps))
	for i, dep := range deps {
		n.deps[i] = depEdge{id: dep}
		g.nodes[dep].addSub(n.id)
	}
	g.sinks = append(g.sinks, n.id)
	return n.id
}

// Read returns the node's current value, evaluating a stale computed
// first. Inside an active evaluation pass it also registers a dependency
// edge from the running node to id, exactly once per pass.
func (g *Graph) Read(id NodeID) (any, error) {
	g.check()
	n := g.nodes[id]

	var v any
	switch n.kind {
	case KindSignal:
		v = n.value
	case KindComputed:
		var err error
		v, err = g.evaluate(id)
		if err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("arena: cannot read %s", n.name)
	}

	if len(g.frames) > 0 {
		g.frames[len(g.frames)-1].track(id, n.gen)
	}
	return v, nil
}

// Write replaces a signal's value. Writing a value equal under the
// node's equality policy is a no-op: no generation bump, no dirtying.
func (g *Graph) Write(id NodeID, v any) {
	g.check()
	n := g.nodes[id]
	if n.kind != KindSignal {
		panic(fmt.Sprintf("arena: write to non-signal %s", n.name))
	}
	if n.equals(n.value, v) {
		return
	}
	n.value = v
	n.gen++
	for _, sub := range n.subs {
		g.markDirty(sub)
	}
}

// markDirty propagates staleness to id and its transitive dependents.
// Recursion stops at already-dirty nodes, so diamond-shaped graphs are
// traversed once.
func (g *Graph) markDirty(id NodeID) {
	n := g.nodes[id]
	if n.dirty {
		return
	}
	n.dirty = true
	for _, sub := range n.subs {
		g.markDirty(sub)
	}
}

// Batch runs fn and flushes once when the outermost batch completes.
// Writes inside the batch coalesce into that single flush.
func (g *Graph) Batch(fn func()) error {
	g.check()
	g.batchDepth++
	defer func() { g.batchDepth-- }()

	fn()

	if g.batchDepth == 1 {
		return g.Flush()
	}
	return nil
}

// OnClose registers fn to run once when the graph is closed.
func (g *Graph) OnClose(fn func()) {
	g.check()
	g.closeFns = append(g.closeFns, fn)
}

// Close tears the graph down. All node handles become invalid; any
// further use panics. A closed graph is never resurrected.
func (g *Graph) Close() {
	if g.closed {
		return
	}
	g.check()
	g.closed = true
	for i := len(g.closeFns) - 1; i >= 0; i-- {
		g.closeFns[i]()
	}
	g.closeFns = nil
	g.nodes = nil
	g.sinks = nil
}

// Name reports the node's label, for diagnostics.
func (g *Graph) Name(id NodeID) string {
	g.check()
	return g.nodes[id].name
}
