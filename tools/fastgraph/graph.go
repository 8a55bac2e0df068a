// Package fastgraph is a small directed graph with weighted edges. Nodes
// iterate in insertion order so that graph algorithms built on it are
// deterministic.
package fastgraph

import (
	"iter"
)

// Direction represents the direction of an edge.
type Direction int

const (
	Incoming Direction = iota
	Outgoing
)

// Edge represents a directed edge with a target node and a direction.
type Edge[N comparable] struct {
	To        N
	Direction Direction
}

// EdgeKey represents a key for uniquely identifying an edge in the graph.
type EdgeKey[N comparable] struct {
	From N
	To   N
}

// DirectedGraph represents a directed graph with generic node and edge weights.
type DirectedGraph[N comparable, E any] struct {
	order []N
	nodes map[N][]Edge[N]
	edges map[EdgeKey[N]]E
}

// New creates a new DirectedGraph instance.
func New[N comparable, E any]() DirectedGraph[N, E] {
	return DirectedGraph[N, E]{
		nodes: make(map[N][]Edge[N]),
		edges: make(map[EdgeKey[N]]E),
	}
}

// AddNode adds a node to the graph.
func (g *DirectedGraph[N, E]) AddNode(node N) {
	if _, exists := g.nodes[node]; !exists {
		g.nodes[node] = []Edge[N]{}
		g.order = append(g.order, node)
	}
}

// AddEdge adds an edge connecting two nodes, adding the nodes as needed. An
// existing edge keeps its position and takes the new weight.
func (g *DirectedGraph[N, E]) AddEdge(from, to N, weight E) {
	g.AddNode(from)
	g.AddNode(to)
	if _, exists := g.edges[EdgeKey[N]{From: from, To: to}]; !exists {
		g.nodes[from] = append(g.nodes[from], Edge[N]{To: to, Direction: Outgoing})
		if from != to {
			g.nodes[to] = append(g.nodes[to], Edge[N]{To: from, Direction: Incoming})
		}
	}
	g.edges[EdgeKey[N]{From: from, To: to}] = weight
}

// Len returns the number of nodes.
func (g *DirectedGraph[N, E]) Len() int {
	return len(g.order)
}

// NumEdges returns the number of edges.
func (g *DirectedGraph[N, E]) NumEdges() int {
	return len(g.edges)
}

// Nodes iterates over the nodes in the order they were added.
func (g *DirectedGraph[N, E]) Nodes() iter.Seq[N] {
	return func(yield func(N) bool) {
		for _, n := range g.order {
			if !yield(n) {
				return
			}
		}
	}
}

// Neighbors returns an iterator over the neighbors of a node in the specified
// direction. A self loop is reported in both directions.
func (g *DirectedGraph[N, E]) Neighbors(node N, direction Direction) iter.Seq[N] {
	return func(yield func(N) bool) {
		for _, edge := range g.nodes[node] {
			if edge.Direction == direction || edge.To == node {
				if !yield(edge.To) {
					return
				}
			}
		}
	}
}

// Edges iterates over the neighbors of node in the given direction together
// with the weight of the connecting edge.
func (g *DirectedGraph[N, E]) Edges(node N, direction Direction) iter.Seq2[N, E] {
	return func(yield func(N, E) bool) {
		for other := range g.Neighbors(node, direction) {
			key := EdgeKey[N]{From: node, To: other}
			if direction == Incoming {
				key = EdgeKey[N]{From: other, To: node}
			}
			if !yield(other, g.edges[key]) {
				return
			}
		}
	}
}

// EdgeWeight returns the weight of an edge between two nodes.
func (g *DirectedGraph[N, E]) EdgeWeight(from, to N) (E, bool) {
	weight, exists := g.edges[EdgeKey[N]{From: from, To: to}]
	return weight, exists
}
