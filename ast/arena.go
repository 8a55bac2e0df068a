package ast

import (
	"fmt"
	"iter"
	"sync/atomic"

	"github.com/pkg/errors"
	"golang.org/x/exp/constraints"
)

const (
	chunkShift = 10
	chunkSize  = 1 << chunkShift
	chunkMask  = chunkSize - 1
)

// IndexVec is an append-only vector addressed by a typed index. Elements live
// in fixed-size chunks, so growing never moves existing elements and pointers
// returned by At stay valid until the vector is truncated below them.
type IndexVec[I constraints.Unsigned, T any] struct {
	chunks [][]T
	n      int
}

// Push appends x and returns its index.
func (v *IndexVec[I, T]) Push(x T) I {
	c := v.n >> chunkShift
	if c == len(v.chunks) {
		v.chunks = append(v.chunks, make([]T, chunkSize))
	}
	v.chunks[c][v.n&chunkMask] = x
	i := I(v.n)
	v.n++
	return i
}

// At returns a pointer to the element at index i.
func (v *IndexVec[I, T]) At(i I) *T {
	return &v.chunks[int(i)>>chunkShift][int(i)&chunkMask]
}

// Len returns the number of elements pushed so far.
func (v *IndexVec[I, T]) Len() int {
	return v.n
}

// Truncate drops every element at index n and above.
func (v *IndexVec[I, T]) Truncate(n int) {
	var zero T
	for i := n; i < v.n; i++ {
		v.chunks[i>>chunkShift][i&chunkMask] = zero
	}
	v.n = n
}

// All iterates over every index and element in order.
func (v *IndexVec[I, T]) All() iter.Seq2[I, *T] {
	return func(yield func(I, *T) bool) {
		for i := 0; i < v.n; i++ {
			if !yield(I(i), &v.chunks[i>>chunkShift][i&chunkMask]) {
				return
			}
		}
	}
}

var unitCounter atomic.Uint32

// NextUnit returns a process-unique parse unit number. Units are never
// reused, so ids from two units can always be told apart.
func NextUnit() uint32 {
	return unitCounter.Add(1)
}

// Arena owns every node of one parse unit. It is read-only once returned by
// Builder.Finish.
type Arena struct {
	unit    uint32
	nodes   IndexVec[NodeID, Node]
	lists   []NodeID
	parents []NodeID
}

// Unit returns the parse unit number of the arena.
func (a *Arena) Unit() uint32 {
	return a.unit
}

// Len returns the number of node slots, including the NoNode sentinel.
func (a *Arena) Len() int {
	return a.nodes.Len()
}

// Node returns the node with the given id. The returned node must not be
// modified.
func (a *Arena) Node(id NodeID) *Node {
	if int(id) >= a.nodes.Len() {
		panic(Invariantf("node %d out of range in unit %d (len %d)", id, a.unit, a.nodes.Len()))
	}
	return a.nodes.At(id)
}

// Kind returns the kind of the node, or KindInvalid for NoNode.
func (a *Arena) Kind(id NodeID) Kind {
	if id == NoNode {
		return KindInvalid
	}
	return a.Node(id).Kind
}

// List returns the ids referenced by ref.
func (a *Arena) List(ref ListRef) []NodeID {
	return a.lists[ref.Off : ref.Off+ref.Len : ref.Off+ref.Len]
}

// Parent returns the parent of id, or NoNode for the root.
func (a *Arena) Parent(id NodeID) NodeID {
	return a.parents[id]
}

// Ancestors iterates from the parent of id up to the root.
func (a *Arena) Ancestors(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		for p := a.parents[id]; p != NoNode; p = a.parents[p] {
			if !yield(p) {
				return
			}
		}
	}
}

// All iterates over every node in creation order, skipping the sentinel.
func (a *Arena) All() iter.Seq2[NodeID, *Node] {
	return func(yield func(NodeID, *Node) bool) {
		for id, n := range a.nodes.All() {
			if id == NoNode {
				continue
			}
			if !yield(id, n) {
				return
			}
		}
	}
}

// Builder is the mutable view of an arena used while parsing.
type Builder struct {
	arena *Arena
}

// NewBuilder starts a new parse unit.
func NewBuilder() *Builder {
	a := &Arena{unit: NextUnit()}
	a.nodes.Push(Node{})
	return &Builder{arena: a}
}

// Add stores n and returns its id.
func (b *Builder) Add(n Node) NodeID {
	return b.arena.nodes.Push(n)
}

// Node returns a mutable pointer to a node created by this builder.
func (b *Builder) Node(id NodeID) *Node {
	return b.arena.nodes.At(id)
}

// List copies ids into the list pool.
func (b *Builder) List(ids []NodeID) ListRef {
	if len(ids) == 0 {
		return ListRef{}
	}
	off := len(b.arena.lists)
	b.arena.lists = append(b.arena.lists, ids...)
	return ListRef{Off: uint32(off), Len: uint32(len(ids))}
}

// ListOf returns the ids referenced by ref.
func (b *Builder) ListOf(ref ListRef) []NodeID {
	return b.arena.List(ref)
}

// Size is a snapshot of the builder used for backtracking.
type Size struct {
	nodes, lists int
}

// Size returns the current size of the builder.
func (b *Builder) Size() Size {
	return Size{nodes: b.arena.nodes.Len(), lists: len(b.arena.lists)}
}

// Truncate discards every node and list entry created after s.
func (b *Builder) Truncate(s Size) {
	b.arena.nodes.Truncate(s.nodes)
	b.arena.lists = b.arena.lists[:s.lists]
}

// Finish freezes the arena, computes parent links for every node reachable
// from root and returns it. Nodes abandoned while parsing stay in the arena
// without a parent.
func (b *Builder) Finish(root NodeID) *Arena {
	a := b.arena
	b.arena = nil
	a.parents = make([]NodeID, a.nodes.Len())
	if root == NoNode {
		return a
	}
	stack := []NodeID{root}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for c := range a.Children(id) {
			if c == root || a.parents[c] != NoNode {
				panic(Invariantf("node %d (%s) has two parents: %d and %d",
					c, a.Kind(c), a.parents[c], id))
			}
			a.parents[c] = id
			stack = append(stack, c)
		}
	}
	return a
}

// InvariantError reports a broken internal invariant. It is the only fatal
// error class of the front end.
type InvariantError struct {
	err error
}

func (e *InvariantError) Error() string {
	return "internal invariant violated: " + e.err.Error()
}

func (e *InvariantError) Unwrap() error {
	return e.err
}

// Format prints the captured stack with %+v.
func (e *InvariantError) Format(s fmt.State, verb rune) {
	if verb == 'v' && s.Flag('+') {
		fmt.Fprintf(s, "internal invariant violated: %+v", e.err)
		return
	}
	fmt.Fprint(s, e.Error())
}

// Invariantf builds an InvariantError carrying the current stack.
func Invariantf(format string, args ...any) *InvariantError {
	return &InvariantError{err: errors.Errorf(format, args...)}
}
