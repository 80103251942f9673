package reactive

import "github.com/vitalstat/lifelens/internal/arena"

// Signal is a mutable observable leaf value.
type Signal[T any] struct {
	g  *arena.Graph
	nd arena.NodeID
}

// NewSignal creates a signal holding initial.
func NewSignal[T any](g *Graph, initial T, opts ...Option) *Signal[T] {
	cfg := newConfig(opts)
	return &Signal[T]{
		g:  g.g,
		nd: g.g.NewSignal(initial, cfg),
	}
}

// Read returns the current value. Inside a computed or render function
// it also registers the dependency, exactly once per evaluation pass.
func (s *Signal[T]) Read() T {
	v, err := s.g.Read(s.nd)
	if err != nil {
		raise(err)
	}
	return as[T](v)
}

// Write replaces the value and marks every transitive dependent stale.
// Writing an equal value (under the signal's equality policy) is a
// no-op: no dirtying, no recomputation on the next flush.
//
// Only the input-owning collaborator calls Write; the graph itself
// never validates input ranges.
func (s *Signal[T]) Write(v T) {
	s.g.Write(s.nd, v)
}

func (s *Signal[T]) id() arena.NodeID    { return s.nd }
func (s *Signal[T]) owner() *arena.Graph { return s.g }
