// Package cfg lowers function and program bodies into basic block graphs.
// The graphs model control-flow topology only; no values are tracked.
package cfg

import (
	"iter"
	"slices"
	"strings"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/tools/fastgraph"
)

// BlockID indexes the blocks of one graph. NoBlock is never a real block.
type BlockID uint32

const NoBlock BlockID = 0

// EdgeKind classifies an edge. Two blocks joined by several paths carry the
// union of their kinds.
type EdgeKind uint16

const (
	EdgeNormal EdgeKind = 1 << iota
	EdgeTrue
	EdgeFalse
	EdgeException
	EdgeLoopBack
	EdgeBreak
	EdgeContinue
	EdgeFinally
)

var edgeNames = [...]string{"normal", "true", "false", "exception", "loop-back", "break", "continue", "finally"}

func (k EdgeKind) String() string {
	var parts []string
	for i, name := range edgeNames {
		if k&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

// Terminal tags a block that ends its body.
type Terminal uint8

const (
	TermNone Terminal = iota
	TermExit
	TermReturn
	TermThrow
)

func (t Terminal) String() string {
	switch t {
	case TermExit:
		return "exit"
	case TermReturn:
		return "return"
	case TermThrow:
		return "throw"
	}
	return ""
}

// Block is a straight-line run of nodes. Nodes holds the statements and the
// split-off expression parts evaluated in the block, in evaluation order.
type Block struct {
	Nodes    []ast.NodeID
	Terminal Terminal
}

// Graph is the control-flow graph of one body.
type Graph struct {
	// Owner is the Program, function, arrow or static block the graph
	// belongs to.
	Owner ast.NodeID
	Entry BlockID
	Exit  BlockID

	a         *ast.Arena
	blocks    ast.IndexVec[BlockID, Block]
	edges     fastgraph.DirectedGraph[BlockID, EdgeKind]
	nodeBlock map[ast.NodeID]BlockID
	reachable []bool
}

func newGraph(a *ast.Arena, owner ast.NodeID) *Graph {
	g := &Graph{
		Owner:     owner,
		a:         a,
		edges:     fastgraph.New[BlockID, EdgeKind](),
		nodeBlock: make(map[ast.NodeID]BlockID),
	}
	g.blocks.Push(Block{})
	return g
}

func (g *Graph) newBlock() BlockID {
	id := g.blocks.Push(Block{})
	g.edges.AddNode(id)
	return id
}

func (g *Graph) addEdge(from, to BlockID, kind EdgeKind) {
	prev, _ := g.edges.EdgeWeight(from, to)
	g.edges.AddEdge(from, to, prev|kind)
}

// record places node in block. A node lives in the block where its
// evaluation starts, so later calls for the same node are ignored.
func (g *Graph) record(block BlockID, node ast.NodeID) {
	if _, ok := g.nodeBlock[node]; ok {
		return
	}
	b := g.blocks.At(block)
	b.Nodes = append(b.Nodes, node)
	g.nodeBlock[node] = block
}

// finish computes reachability from the entry block. The graph is read-only
// afterwards.
func (g *Graph) finish() {
	g.reachable = make([]bool, g.blocks.Len())
	work := []BlockID{g.Entry}
	g.reachable[g.Entry] = true
	for len(work) > 0 {
		id := work[len(work)-1]
		work = work[:len(work)-1]
		for next := range g.edges.Neighbors(id, fastgraph.Outgoing) {
			if !g.reachable[next] {
				g.reachable[next] = true
				work = append(work, next)
			}
		}
	}
}

// Len returns the number of blocks.
func (g *Graph) Len() int { return g.blocks.Len() - 1 }

// Block returns the block with the given id.
func (g *Graph) Block(id BlockID) *Block { return g.blocks.At(id) }

// Blocks iterates over the blocks in creation order.
func (g *Graph) Blocks() iter.Seq2[BlockID, *Block] {
	return func(yield func(BlockID, *Block) bool) {
		for id, b := range g.blocks.All() {
			if id != NoBlock && !yield(id, b) {
				return
			}
		}
	}
}

// Successors iterates over the blocks control may flow to from id.
func (g *Graph) Successors(id BlockID) iter.Seq2[BlockID, EdgeKind] {
	return g.edges.Edges(id, fastgraph.Outgoing)
}

// Predecessors iterates over the blocks control may flow from into id.
func (g *Graph) Predecessors(id BlockID) iter.Seq2[BlockID, EdgeKind] {
	return g.edges.Edges(id, fastgraph.Incoming)
}

// Edge returns the kinds of the edge from one block to another.
func (g *Graph) Edge(from, to BlockID) (EdgeKind, bool) {
	return g.edges.EdgeWeight(from, to)
}

// Reachable reports whether some path leads from the entry block to id.
func (g *Graph) Reachable(id BlockID) bool {
	return int(id) < len(g.reachable) && g.reachable[id]
}

// BlockOf returns the block a node is evaluated in. Nodes that were not
// recorded themselves take the block of their nearest recorded ancestor
// within the graph.
func (g *Graph) BlockOf(node ast.NodeID) (BlockID, bool) {
	if b, ok := g.nodeBlock[node]; ok {
		return b, true
	}
	for anc := range g.a.Ancestors(node) {
		if b, ok := g.nodeBlock[anc]; ok {
			return b, true
		}
		if anc == g.Owner {
			break
		}
	}
	return NoBlock, false
}

// NodeReachable reports whether the block evaluating node is reachable.
func (g *Graph) NodeReachable(node ast.NodeID) bool {
	b, ok := g.BlockOf(node)
	if !ok {
		return g.Reachable(g.Entry)
	}
	return g.Reachable(b)
}

// UnreachableNodes returns the nodes recorded in unreachable blocks.
func (g *Graph) UnreachableNodes() []ast.NodeID {
	var out []ast.NodeID
	for id, b := range g.Blocks() {
		if !g.Reachable(id) {
			out = append(out, b.Nodes...)
		}
	}
	slices.SortFunc(out, func(x, y ast.NodeID) int {
		return int(g.a.Node(x).Span.Start - g.a.Node(y).Span.Start)
	})
	return out
}

// Loops returns the cycles of the graph: the strongly connected components
// with more than one block, and single blocks with an edge to themselves.
// Each loop lists its blocks in ascending order.
func (g *Graph) Loops() [][]BlockID {
	var loops [][]BlockID
	for _, scc := range stronglyConnected[BlockID](successors{g}) {
		if len(scc) == 1 {
			if _, self := g.Edge(scc[0], scc[0]); !self {
				continue
			}
		}
		slices.Sort(scc)
		loops = append(loops, scc)
	}
	slices.SortFunc(loops, func(x, y []BlockID) int { return int(x[0]) - int(y[0]) })
	return loops
}

type successors struct{ g *Graph }

func (s successors) Nodes() iter.Seq[BlockID] { return s.g.edges.Nodes() }

func (s successors) Neighbors(id BlockID) iter.Seq[BlockID] {
	return s.g.edges.Neighbors(id, fastgraph.Outgoing)
}

// Set holds the graphs of one program, keyed by owning node.
type Set struct {
	Program *ast.Program

	graphs map[ast.NodeID]*Graph
	order  []ast.NodeID
}

// Root returns the graph of the program body.
func (s *Set) Root() *Graph { return s.graphs[s.Program.Root] }

// Of returns the graph owned by a Program, function, arrow or static block
// node.
func (s *Set) Of(owner ast.NodeID) (*Graph, bool) {
	g, ok := s.graphs[owner]
	return g, ok
}

// Len returns the number of graphs.
func (s *Set) Len() int { return len(s.order) }

// All iterates over the graphs in the order their owners appear in the
// source.
func (s *Set) All() iter.Seq2[ast.NodeID, *Graph] {
	return func(yield func(ast.NodeID, *Graph) bool) {
		for _, owner := range s.order {
			if !yield(owner, s.graphs[owner]) {
				return
			}
		}
	}
}

// Enclosing returns the graph that evaluates node: the graph of the
// innermost function-like body around it, or the program graph.
func (s *Set) Enclosing(node ast.NodeID) *Graph {
	for anc := range s.Program.Arena.Ancestors(node) {
		if g, ok := s.graphs[anc]; ok {
			return g
		}
	}
	return s.Root()
}

// NodeReachable reports whether node is reachable within its graph.
func (s *Set) NodeReachable(node ast.NodeID) bool {
	return s.Enclosing(node).NodeReachable(node)
}

// UnreachableNodes returns the unreachable nodes of every graph in source
// order.
func (s *Set) UnreachableNodes() []ast.NodeID {
	var out []ast.NodeID
	for _, g := range s.All() {
		out = append(out, g.UnreachableNodes()...)
	}
	a := s.Program.Arena
	slices.SortStableFunc(out, func(x, y ast.NodeID) int {
		return int(a.Node(x).Span.Start - a.Node(y).Span.Start)
	})
	return out
}
