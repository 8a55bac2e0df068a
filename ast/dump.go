package ast

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Tree is a nested, pointer-based copy of a subtree meant for debug printers.
type Tree struct {
	Kind     string
	Span     Span
	Op       string  `json:",omitempty"`
	Text     string  `json:",omitempty"`
	Num      float64 `json:",omitempty"`
	Flags    Flags   `json:",omitempty"`
	Children []*Tree `json:",omitempty"`
}

// TreeOf copies the subtree rooted at id.
func TreeOf(a *Arena, id NodeID) *Tree {
	if id == NoNode {
		return nil
	}
	n := a.Node(id)
	t := &Tree{
		Kind:  n.Kind.String(),
		Span:  n.Span,
		Text:  n.Text,
		Num:   n.Num,
		Flags: n.Flags,
	}
	if n.Op != 0 {
		t.Op = n.Op.String()
	}
	for c := range a.Children(id) {
		t.Children = append(t.Children, TreeOf(a, c))
	}
	return t
}

// Dump writes one line per node with its kind, byte range and payload,
// indented by depth.
func Dump(w io.Writer, p *Program, indent string) error {
	var err error
	depth := 0
	Walk(p.Arena, p.Root, &dumper{
		enter: func(id NodeID, n *Node) {
			if err != nil {
				return
			}
			var sb strings.Builder
			sb.WriteString(strings.Repeat(indent, depth))
			sb.WriteString(n.Kind.String())
			fmt.Fprintf(&sb, " [%d,%d)", n.Span.Start, n.Span.End)
			if n.Op != 0 {
				sb.WriteString(" " + n.Op.String())
			}
			switch n.Kind {
			case KindNumericLiteral:
				sb.WriteString(" " + strconv.FormatFloat(n.Num, 'g', -1, 64))
			case KindBooleanLiteral:
				sb.WriteString(" " + strconv.FormatBool(n.Variant == 1))
			default:
				if n.Text != "" {
					sb.WriteString(" " + strconv.Quote(n.Text))
				}
			}
			sb.WriteByte('\n')
			_, err = io.WriteString(w, sb.String())
			depth++
		},
		leave: func() { depth-- },
	})
	return err
}

type dumper struct {
	enter func(NodeID, *Node)
	leave func()
}

func (d *dumper) Enter(id NodeID, n *Node) bool {
	d.enter(id, n)
	return true
}

func (d *dumper) Leave(NodeID, *Node) {
	d.leave()
}
