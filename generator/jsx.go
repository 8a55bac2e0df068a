package generator

import "github.com/t14raptor/fastfront/ast"

// genJSX prints JSX nodes. No whitespace is added between children since
// JSX text is significant.
func genJSX(s *state, n *ast.Node) {
	switch n.Kind {
	case ast.KindJSXElement:
		s.gen(n.A)
		for _, id := range s.list(n.List) {
			s.gen(id)
		}
		s.gen(n.B)
	case ast.KindJSXOpeningElement:
		s.write("<")
		s.gen(n.A)
		s.gen(n.B)
		for _, id := range s.list(n.List) {
			s.write(" ")
			s.gen(id)
		}
		if n.Has(ast.FlagSelfClosing) {
			s.write(" />")
		} else {
			s.write(">")
		}
	case ast.KindJSXClosingElement:
		s.write("</")
		s.gen(n.A)
		s.write(">")
	case ast.KindJSXFragment:
		s.write("<>")
		for _, id := range s.list(n.List) {
			s.gen(id)
		}
		s.write("</>")
	case ast.KindJSXIdentifier, ast.KindJSXText:
		s.write(n.Text)
	case ast.KindJSXNamespacedName:
		s.gen(n.A)
		s.write(":")
		s.gen(n.B)
	case ast.KindJSXMemberExpression:
		s.gen(n.A)
		s.write(".")
		s.gen(n.B)
	case ast.KindJSXAttribute:
		s.gen(n.A)
		if n.B != ast.NoNode {
			s.write("=")
			s.gen(n.B)
		}
	case ast.KindJSXSpreadAttribute, ast.KindJSXSpreadChild:
		s.write("{...")
		s.gen(n.A)
		s.write("}")
	case ast.KindJSXExpressionContainer:
		s.write("{")
		s.gen(n.A)
		s.write("}")
	case ast.KindJSXEmptyExpression:
	}
}
