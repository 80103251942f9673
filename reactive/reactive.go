// Package reactive is the typed facade over the session-private
// dependency graph. A Graph owns signals (mutable inputs), computed
// nodes (cached lazy derivations), and sinks (terminal render
// consumers); writes coalesce until Flush propagates them to the sinks.
//
// A graph belongs to the goroutine that created it and must never be
// shared: each user session builds its own graph and tears it down
// with the session.
package reactive

import (
	"errors"

	"github.com/vitalstat/lifelens/internal/arena"
)

// Error types surfaced by evaluation and flush.
type (
	CycleError = arena.CycleError
	FlushError = arena.FlushError
	SinkError  = arena.SinkError
)

func as[T any](v any) T {
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// Option tunes a single node at construction time.
type Option func(*arena.Config)

// WithName labels the node in error messages and cycle paths.
func WithName(name string) Option {
	return func(cfg *arena.Config) { cfg.Name = name }
}

// WithEquals overrides the node's equality policy. The default is
// structural equality; a write or recompute producing an equal value
// is a no-op and propagates nothing downstream.
func WithEquals(eq func(a, b any) bool) Option {
	return func(cfg *arena.Config) { cfg.Equals = eq }
}

func newConfig(opts []Option) arena.Config {
	var cfg arena.Config
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// Graph is one session's reactive dependency graph.
type Graph struct {
	g *arena.Graph
}

// New creates an empty graph owned by the calling goroutine.
func New() *Graph {
	return &Graph{g: arena.New()}
}

// Flush runs one propagation cycle: every sink whose inputs changed
// since the last flush renders exactly once, in declaration order.
// Per-sink failures are collected into a FlushError; the other sinks
// still render.
func (g *Graph) Flush() error {
	return g.g.Flush()
}

// Batch groups several writes into a single flush. Nested batches
// flush once, when the outermost completes.
func (g *Graph) Batch(fn func()) error {
	return g.g.Batch(fn)
}

// OnClose registers fn to run when the graph is torn down.
func (g *Graph) OnClose(fn func()) {
	g.g.OnClose(fn)
}

// Close tears the graph down with its session. Closed graphs are dead:
// any further node access panics, and nothing is ever resurrected.
func (g *Graph) Close() {
	g.g.Close()
}

// Dep is any readable node usable as a declared sink dependency.
type Dep interface {
	id() arena.NodeID
	owner() *arena.Graph
}

func nodeIDs(g *Graph, deps []Dep) []arena.NodeID {
	ids := make([]arena.NodeID, len(deps))
	for i, dep := range deps {
		if dep.owner() != g.g {
			panic("reactive: dependency belongs to a different graph")
		}
		ids[i] = dep.id()
	}
	return ids
}

// raise converts an evaluation error into a panic carrying the typed
// cycle value, so the engine can catch it again at the nearest compute
// or render boundary and report it per consumer.
func raise(err error) {
	var ce *CycleError
	if errors.As(err, &ce) {
		panic(ce)
	}
	panic(err)
}
