package arena

import "fmt"

// Flush brings every sink up to date, visiting them in declaration
// order. Each dirty sink first forces evaluation of its declared
// dependencies, which transitively recomputes any dirty computed nodes
// upstream; a computed shared by several sinks recomputes at most once
// per flush because the first evaluation refills its cache.
//
// Per-sink failures are collected into the returned FlushError; one
// sink failing never prevents independent sinks from rendering.
func (g *Graph) Flush() error {
	g.check()

	var failed []*SinkError
	for _, id := range g.sinks {
		n := g.nodes[id]
		if !n.dirty {
			continue
		}
		n.dirty = false
		if err := g.flushSink(n); err != nil {
			n.dirty = false
			failed = append(failed, &SinkError{Sink: n.name, Err: err})
		}
	}

	if len(failed) > 0 {
		return &FlushError{Sinks: failed}
	}
	return nil
}

func (g *Graph) flushSink(n *node) error {
	for _, dep := range n.deps {
		if g.nodes[dep.id].kind != KindComputed {
			continue
		}
		if _, err := g.evaluate(dep.id); err != nil {
			return err
		}
	}

	// When every dependency still carries the generation seen at the
	// last render, equality cut-offs upstream absorbed the writes and
	// there is nothing new to show.
	if n.renderedGens != nil {
		same := true
		for i, dep := range n.deps {
			if g.nodes[dep.id].gen != n.renderedGens[i] {
				same = false
				break
			}
		}
		if same {
			return nil
		}
	}

	if err := g.runRender(n); err != nil {
		return err
	}

	gens := make([]uint64, len(n.deps))
	for i, dep := range n.deps {
		gens[i] = g.nodes[dep.id].gen
	}
	n.renderedGens = gens
	n.initialized = true

	// The render re-dirtied its own sink, meaning it wrote to a signal
	// the sink depends on. Rendering again would loop forever.
	if n.dirty {
		return &CycleError{Path: []string{n.name, n.name}}
	}
	return nil
}

// runRender invokes the sink's render function, converting panics into
// errors and preserving a typed cycle failure raised by a read inside
// the render.
func (g *Graph) runRender(n *node) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*CycleError); ok {
				err = ce
				return
			}
			err = fmt.Errorf("arena: rendering %s: %v", n.name, r)
		}
	}()
	n.render()
	return nil
}
