package cfg

import "iter"

// successorGraph is the view of a graph Tarjan's algorithm walks.
type successorGraph[N comparable] interface {
	Nodes() iter.Seq[N]
	Neighbors(node N) iter.Seq[N]
}

// tarjan holds the state of Tarjan's strongly connected components
// algorithm.
type tarjan[N comparable] struct {
	graph    successorGraph[N]
	index    int
	stack    []N
	onStack  map[N]bool
	indexMap map[N]int
	lowLink  map[N]int
	sccs     [][]N
}

// stronglyConnected returns the strongly connected components of graph in
// reverse topological order. Members of a component are listed in the order
// they left the stack.
func stronglyConnected[N comparable](graph successorGraph[N]) [][]N {
	t := &tarjan[N]{
		graph:    graph,
		onStack:  make(map[N]bool),
		indexMap: make(map[N]int),
		lowLink:  make(map[N]int),
	}
	for node := range t.graph.Nodes() {
		if _, exists := t.indexMap[node]; !exists {
			t.strongConnect(node)
		}
	}
	return t.sccs
}

func (t *tarjan[N]) strongConnect(node N) {
	t.indexMap[node] = t.index
	t.lowLink[node] = t.index
	t.index++
	t.stack = append(t.stack, node)
	t.onStack[node] = true

	for next := range t.graph.Neighbors(node) {
		if _, exists := t.indexMap[next]; !exists {
			t.strongConnect(next)
			t.lowLink[node] = min(t.lowLink[node], t.lowLink[next])
		} else if t.onStack[next] {
			t.lowLink[node] = min(t.lowLink[node], t.indexMap[next])
		}
	}

	// node is the root of a component: pop it.
	if t.lowLink[node] == t.indexMap[node] {
		var scc []N
		for {
			top := t.stack[len(t.stack)-1]
			t.stack = t.stack[:len(t.stack)-1]
			t.onStack[top] = false
			scc = append(scc, top)
			if top == node {
				break
			}
		}
		t.sccs = append(t.sccs, scc)
	}
}
