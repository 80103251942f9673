package reactive

import "github.com/vitalstat/lifelens/internal/arena"

// Sink wraps an external render action (a plot, a table) supplied by
// the display collaborator. Dependencies are declared explicitly at
// construction, before the first flush; there is no implicit binding.
//
// The render function reads its declared dependencies for their latest
// values and must not write to any signal the sink itself depends on;
// doing so is reported as a CycleError on that flush.
type Sink struct {
	g  *arena.Graph
	nd arena.NodeID
}

// NewSink declares a sink over deps. All deps must belong to g; a node
// from another session's graph panics immediately rather than leaking
// state across sessions. The sink renders on the first flush and then
// whenever a declared dependency has changed, at most once per flush.
func NewSink(g *Graph, name string, deps []Dep, render func()) *Sink {
	cfg := arena.Config{Name: name}
	return &Sink{
		g:  g.g,
		nd: g.g.NewSink(render, nodeIDs(g, deps), cfg),
	}
}
