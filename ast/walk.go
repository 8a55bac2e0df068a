package ast

import "iter"

// Children iterates over the direct children of id in source order.
func (a *Arena) Children(id NodeID) iter.Seq[NodeID] {
	return func(yield func(NodeID) bool) {
		n := a.Node(id)
		slots := [5]NodeID{n.A, n.B, n.C, n.D, n.E}
		list := a.List(n.List)

		emit := func(ids []NodeID) bool {
			for _, c := range ids {
				if c != NoNode && !yield(c) {
					return false
				}
			}
			return true
		}

		switch kindListPosition[n.Kind] {
		case listFirst:
			_ = emit(list) && emit(slots[:])
		case listAfterA:
			_ = emit(slots[:1]) && emit(list) && emit(slots[1:])
		case listAfterB:
			_ = emit(slots[:2]) && emit(list) && emit(slots[2:])
		default:
			_ = emit(slots[:]) && emit(list)
		}
	}
}

// ChildList returns the children of id as a slice.
func (a *Arena) ChildList(id NodeID) []NodeID {
	var out []NodeID
	for c := range a.Children(id) {
		out = append(out, c)
	}
	return out
}

// Visitor is called by Walk for every node. Enter returns false to skip the
// children of the node; Leave is still called.
type Visitor interface {
	Enter(id NodeID, n *Node) bool
	Leave(id NodeID, n *Node)
}

// Walk traverses the tree rooted at id depth first in source order.
func Walk(a *Arena, id NodeID, v Visitor) {
	if id == NoNode {
		return
	}
	n := a.Node(id)
	if v.Enter(id, n) {
		for c := range a.Children(id) {
			Walk(a, c, v)
		}
	}
	v.Leave(id, n)
}

type inspector func(NodeID, *Node) bool

func (f inspector) Enter(id NodeID, n *Node) bool { return f(id, n) }
func (f inspector) Leave(NodeID, *Node)           {}

// Inspect calls f for every node in the tree rooted at id in pre-order. If f
// returns false the children of that node are skipped.
func Inspect(a *Arena, id NodeID, f func(NodeID, *Node) bool) {
	Walk(a, id, inspector(f))
}

// Unparen strips ParenthesizedExpression and TS wrapper expressions that do not
// change the referenced value.
func (a *Arena) Unparen(id NodeID) NodeID {
	for id != NoNode {
		switch n := a.Node(id); n.Kind {
		case KindParenthesizedExpression, KindTSNonNullExpression:
			id = n.A
		case KindTSAsExpression, KindTSSatisfiesExpression:
			id = n.A
		case KindTSTypeAssertion:
			id = n.B
		default:
			return id
		}
	}
	return id
}
