package generator

import "github.com/t14raptor/fastfront/ast"

func genModule(s *state, n *ast.Node) {
	switch n.Kind {
	case ast.KindImportDeclaration:
		s.write("import ")
		if n.Has(ast.FlagTypeOnly) {
			s.write("type ")
		}
		if specs := s.list(n.List); len(specs) > 0 {
			s.importSpecifiers(specs)
			s.write(" from ")
		}
		s.gen(n.A)
		s.attributes(n.B)
		s.write(";")
	case ast.KindImportSpecifier:
		if n.Has(ast.FlagTypeOnly) {
			s.write("type ")
		}
		if n.A != ast.NoNode {
			s.gen(n.A)
			s.write(" as ")
		}
		s.gen(n.B)
	case ast.KindImportDefaultSpecifier:
		s.gen(n.A)
	case ast.KindImportNamespaceSpecifier:
		s.write("* as ")
		s.gen(n.A)

	case ast.KindExportNamedDeclaration:
		s.write("export ")
		if n.A != ast.NoNode {
			s.gen(n.A)
			return
		}
		if n.Has(ast.FlagTypeOnly) {
			s.write("type ")
		}
		s.write("{")
		s.join(s.list(n.List), ", ")
		s.write("}")
		if n.B != ast.NoNode {
			s.write(" from ")
			s.gen(n.B)
			s.attributes(n.C)
		}
		s.write(";")
	case ast.KindExportSpecifier:
		if n.Has(ast.FlagTypeOnly) {
			s.write("type ")
		}
		s.gen(n.A)
		if n.B != ast.NoNode {
			s.write(" as ")
			s.gen(n.B)
		}
	case ast.KindExportDefaultDeclaration:
		s.write("export default ")
		s.gen(n.A)
		switch s.kind(n.A) {
		case ast.KindFunctionDeclaration, ast.KindClassDeclaration, ast.KindTSInterfaceDeclaration,
			ast.KindTSEnumDeclaration, ast.KindTSModuleDeclaration, ast.KindTSTypeAliasDeclaration:
		default:
			s.write(";")
		}
	case ast.KindExportAllDeclaration:
		s.write("export ")
		if n.Has(ast.FlagTypeOnly) {
			s.write("type ")
		}
		s.write("*")
		if n.A != ast.NoNode {
			s.write(" as ")
			s.gen(n.A)
		}
		s.write(" from ")
		s.gen(n.B)
		s.attributes(n.C)
		s.write(";")

	case ast.KindTSExportAssignment:
		s.write("export = ")
		s.gen(n.A)
		s.write(";")
	case ast.KindTSImportEqualsDeclaration:
		s.write("import ")
		if n.Has(ast.FlagTypeOnly) {
			s.write("type ")
		}
		s.gen(n.A)
		s.write(" = ")
		s.gen(n.B)
		s.write(";")
	case ast.KindTSExternalModuleReference:
		s.write("require(")
		s.gen(n.A)
		s.write(")")
	}
}

// importSpecifiers prints the clause between 'import' and 'from': a default
// binding first, then a namespace binding or a braced list.
func (s *state) importSpecifiers(specs []ast.NodeID) {
	braced := false
	for i, id := range specs {
		if s.kind(id) != ast.KindImportSpecifier {
			if i > 0 {
				s.write(", ")
			}
			s.gen(id)
			continue
		}
		switch {
		case !braced && i > 0:
			s.write(", {")
		case !braced:
			s.write("{")
		default:
			s.write(", ")
		}
		braced = true
		s.gen(id)
	}
	if braced {
		s.write("}")
	}
}

func (s *state) attributes(id ast.NodeID) {
	if id == ast.NoNode {
		return
	}
	s.write(" with ")
	s.gen(id)
}
