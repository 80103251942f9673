package arena

import "fmt"

// evaluate brings a computed node up to date and returns its value.
//
// The cached result is returned untouched when the node is clean. A
// dirty node first revalidates its generation snapshot: if every
// dependency, once itself brought up to date, still carries the
// generation recorded at the last pass, an upstream equality cut-off
// absorbed the change and the cache stands without recomputation.
// Otherwise a fresh evaluation pass runs, discovering the dependency
// set anew (conditional reads may change it between runs).
func (g *Graph) evaluate(id NodeID) (any, error) {
	n := g.nodes[id]

	if n.initialized && !n.dirty {
		return n.value, nil
	}

	for _, active := range g.evalStack {
		if active == id {
			return nil, g.cycleError(id)
		}
	}
	g.evalStack = append(g.evalStack, id)
	defer func() { g.evalStack = g.evalStack[:len(g.evalStack)-1] }()

	if n.initialized {
		fresh := true
		for i := range n.deps {
			dep := g.nodes[n.deps[i].id]
			if dep.kind == KindComputed {
				if _, err := g.evaluate(dep.id); err != nil {
					return nil, err
				}
			}
			if dep.gen != n.deps[i].gen {
				fresh = false
			}
		}
		if fresh {
			n.dirty = false
			return n.value, nil
		}
	}

	g.frames = append(g.frames, &frame{seen: make(map[NodeID]struct{})})
	result, err := g.runCompute(n)
	fr := g.frames[len(g.frames)-1]
	g.frames = g.frames[:len(g.frames)-1]
	if err != nil {
		return nil, err
	}

	g.retarget(n, fr.deps)

	if !n.initialized || !n.equals(n.value, result) {
		n.value = result
		n.gen++
	}
	n.initialized = true
	n.dirty = false
	return n.value, nil
}

// runCompute executes the node's pure function, converting panics into
// errors so a failing derivation is reported per consumer instead of
// unwinding the whole flush.
func (g *Graph) runCompute(n *node) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			if ce, ok := r.(*CycleError); ok {
				err = ce
				return
			}
			err = fmt.Errorf("arena: computing %s: %v", n.name, r)
		}
	}()
	return n.compute(), nil
}

// retarget replaces n's dependency set with the one discovered during
// the pass that just finished, fixing up subscriber sets on both sides.
func (g *Graph) retarget(n *node, deps []depEdge) {
	for _, old := range n.deps {
		g.nodes[old.id].removeSub(n.id)
	}
	n.deps = deps
	for _, dep := range n.deps {
		g.nodes[dep.id].addSub(n.id)
	}
}

func (g *Graph) cycleError(id NodeID) *CycleError {
	path := make([]string, 0, len(g.evalStack)+1)
	for _, active := range g.evalStack {
		if active == id || len(path) > 0 {
			path = append(path, g.nodes[active].name)
		}
	}
	path = append(path, g.nodes[id].name)
	return &CycleError{Path: path}
}
