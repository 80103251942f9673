package reactive

import "github.com/vitalstat/lifelens/internal/arena"

// Computed is a cached derived value. The compute function must be
// pure over the values it reads; its dependency set is rediscovered on
// every run, so conditional reads behave correctly.
//
// Recomputation is strictly lazy: being marked stale by a write does
// nothing until the next Read (directly, or forced by a flushing
// sink). A derivation nothing currently displays is never computed.
type Computed[T any] struct {
	g  *arena.Graph
	nd arena.NodeID
}

// NewComputed creates a computed node. compute does not run here; the
// first Read evaluates it.
func NewComputed[T any](g *Graph, compute func() T, opts ...Option) *Computed[T] {
	cfg := newConfig(opts)
	return &Computed[T]{
		g:  g.g,
		nd: g.g.NewComputed(func() any { return compute() }, cfg),
	}
}

// Read returns the value, recomputing first only if a dependency
// actually changed since the cached run. A cyclic graph panics with a
// *CycleError; inside a flush the engine converts that into the
// offending sink's error instead of unwinding the cycle forever.
func (c *Computed[T]) Read() T {
	v, err := c.g.Read(c.nd)
	if err != nil {
		raise(err)
	}
	return as[T](v)
}

func (c *Computed[T]) id() arena.NodeID    { return c.nd }
func (c *Computed[T]) owner() *arena.Graph { return c.g }
