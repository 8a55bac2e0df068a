package cfg

import (
	"fmt"
	"strings"
)

// Dot renders the graph in Graphviz syntax. Unreachable blocks are drawn
// dashed.
func (g *Graph) Dot() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "digraph %q {\n", g.a.Kind(g.Owner).String())
	sb.WriteString("\tnode [shape=box fontname=monospace];\n")
	for id, b := range g.Blocks() {
		var label strings.Builder
		fmt.Fprintf(&label, "b%d", id)
		if id == g.Entry {
			label.WriteString(" entry")
		}
		if b.Terminal != TermNone {
			label.WriteString(" " + b.Terminal.String())
		}
		for _, n := range b.Nodes {
			node := g.a.Node(n)
			fmt.Fprintf(&label, "\\l%s [%d,%d)", node.Kind, node.Span.Start, node.Span.End)
		}
		label.WriteString("\\l")
		style := ""
		if !g.Reachable(id) {
			style = " style=dashed"
		}
		fmt.Fprintf(&sb, "\tb%d [label=\"%s\"%s];\n", id, label.String(), style)
	}
	for id := range g.Blocks() {
		for next, kind := range g.Successors(id) {
			fmt.Fprintf(&sb, "\tb%d -> b%d [label=%q];\n", id, next, kind.String())
		}
	}
	sb.WriteString("}\n")
	return sb.String()
}
