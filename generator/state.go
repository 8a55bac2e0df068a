package generator

import (
	"strings"

	"github.com/t14raptor/fastfront/ast"
)

type state struct {
	out    *strings.Builder
	prog   *ast.Program
	id     ast.NodeID
	parent *state
	indent int
	// ambient is set inside declare blocks, where nested declarations
	// carry the declare flag without spelling it.
	ambient bool
}

func (s *state) wrap(id ast.NodeID) *state {
	return &state{
		out:     s.out,
		prog:    s.prog,
		id:      id,
		parent:  s,
		indent:  s.indent,
		ambient: s.ambient,
	}
}

func (s *state) node() *ast.Node {
	return s.prog.Arena.Node(s.id)
}

func (s *state) list(ref ast.ListRef) []ast.NodeID {
	return s.prog.Arena.List(ref)
}

func (s *state) kind(id ast.NodeID) ast.Kind {
	return s.prog.Arena.Kind(id)
}

func (s *state) raw(id ast.NodeID) string {
	return s.prog.Text(s.prog.Arena.Node(id).Span)
}

func (s *state) write(parts ...string) {
	for _, p := range parts {
		s.out.WriteString(p)
	}
}

func (s *state) line() {
	s.out.WriteString("\n")
}

func (s *state) lineAndPad() {
	s.line()
	s.out.WriteString(strings.Repeat("    ", s.indent))
}
