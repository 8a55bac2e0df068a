package generator

import "github.com/t14raptor/fastfront/ast"

func genTS(s *state, n *ast.Node) {
	switch n.Kind {
	case ast.KindTSAsExpression:
		s.gen(n.A)
		s.write(" as ")
		s.gen(n.B)
	case ast.KindTSSatisfiesExpression:
		s.gen(n.A)
		s.write(" satisfies ")
		s.gen(n.B)
	case ast.KindTSNonNullExpression:
		s.gen(n.A)
		s.write("!")
	case ast.KindTSTypeAssertion:
		s.write("<")
		s.gen(n.A)
		s.write(">")
		s.gen(n.B)
	case ast.KindTSInstantiationExpression, ast.KindTSExpressionWithTypeArgs, ast.KindTSTypeReference:
		s.gen(n.A)
		s.gen(n.B)

	case ast.KindTSTypeAliasDeclaration:
		s.declare(n)
		s.write("type ")
		s.gen(n.A)
		s.gen(n.B)
		s.write(" = ")
		s.gen(n.C)
		s.write(";")
	case ast.KindTSInterfaceDeclaration:
		s.declare(n)
		s.write("interface ")
		s.gen(n.A)
		s.gen(n.B)
		if n.C != ast.NoNode {
			s.write(" extends ")
			s.gen(n.C)
		}
		s.write(" ")
		s.gen(n.D)
	case ast.KindTSInterfaceHeritage, ast.KindTSClassImplements:
		s.join(s.list(n.List), ", ")
	case ast.KindTSInterfaceBody:
		s.block(s.list(n.List), func(ast.NodeID) { s.write(";") })
	case ast.KindTSEnumDeclaration:
		s.declare(n)
		if n.Has(ast.FlagConst) {
			s.write("const ")
		}
		s.write("enum ")
		s.gen(n.A)
		s.write(" ")
		s.block(s.list(n.List), func(ast.NodeID) { s.write(",") })
	case ast.KindTSEnumMember:
		s.gen(n.A)
		if n.B != ast.NoNode {
			s.write(" = ")
			s.gen(n.B)
		}
	case ast.KindTSModuleDeclaration:
		s.declare(n)
		switch n.Variant {
		case ast.ModuleNamespace:
			s.write("namespace ")
		case ast.ModuleModule:
			s.write("module ")
		}
		s.gen(n.A)
		if n.B == ast.NoNode {
			s.write(";")
			return
		}
		s.write(" ")
		body := s.wrap(n.B)
		body.ambient = s.ambient || n.Has(ast.FlagDeclare)
		gen(body)
	case ast.KindTSModuleBlock:
		s.block(s.list(n.List), nil)

	case ast.KindTSTypeAnnotation, ast.KindTSLiteralType:
		s.gen(n.A)
	case ast.KindTSKeywordType:
		s.write(n.Text)
	case ast.KindTSThisType:
		s.write("this")
	case ast.KindTSQualifiedName:
		s.gen(n.A)
		s.write(".")
		s.gen(n.B)
	case ast.KindTSTypeParameterDecl, ast.KindTSTypeParameterInst:
		s.write("<")
		s.join(s.list(n.List), ", ")
		s.write(">")
	case ast.KindTSTypeParameter:
		if n.Has(ast.FlagConst) {
			s.write("const ")
		}
		if n.Has(ast.FlagIn) {
			s.write("in ")
		}
		if n.Has(ast.FlagOut) {
			s.write("out ")
		}
		s.gen(n.A)
		if n.B != ast.NoNode {
			s.write(" extends ")
			s.gen(n.B)
		}
		if n.C != ast.NoNode {
			s.write(" = ")
			s.gen(n.C)
		}
	case ast.KindTSUnionType:
		s.join(s.list(n.List), " | ")
	case ast.KindTSIntersectionType:
		s.join(s.list(n.List), " & ")
	case ast.KindTSArrayType:
		s.gen(n.A)
		s.write("[]")
	case ast.KindTSTupleType:
		s.write("[")
		s.join(s.list(n.List), ", ")
		s.write("]")
	case ast.KindTSNamedTupleMember:
		s.gen(n.A)
		if n.Has(ast.FlagOptional) {
			s.write("?")
		}
		s.write(": ")
		s.gen(n.B)
	case ast.KindTSOptionalType:
		s.gen(n.A)
		s.write("?")
	case ast.KindTSRestType:
		s.write("...")
		s.gen(n.A)
	case ast.KindTSFunctionType, ast.KindTSConstructorType:
		if n.Kind == ast.KindTSConstructorType {
			if n.Has(ast.FlagAbstract) {
				s.write("abstract ")
			}
			s.write("new ")
		}
		s.gen(n.A)
		s.gen(n.B)
		s.write(" => ")
		s.gen(n.C)
	case ast.KindTSTypeLiteral:
		members := s.list(n.List)
		if len(members) == 0 {
			s.write("{}")
			return
		}
		s.write("{ ")
		for _, id := range members {
			s.gen(id)
			s.write("; ")
		}
		s.write("}")
	case ast.KindTSPropertySignature:
		if n.Has(ast.FlagReadonly) {
			s.write("readonly ")
		}
		s.key(n.A, n.Has(ast.FlagComputed))
		if n.Has(ast.FlagOptional) {
			s.write("?")
		}
		s.annotation(n.B)
	case ast.KindTSMethodSignature:
		switch n.Variant {
		case ast.MethodGet:
			s.write("get ")
		case ast.MethodSet:
			s.write("set ")
		}
		s.key(n.A, n.Has(ast.FlagComputed))
		if n.Has(ast.FlagOptional) {
			s.write("?")
		}
		s.gen(n.B)
		s.gen(n.C)
		s.annotation(n.D)
	case ast.KindTSCallSignature, ast.KindTSConstructSignature:
		if n.Kind == ast.KindTSConstructSignature {
			s.write("new ")
		}
		s.gen(n.A)
		s.gen(n.B)
		s.annotation(n.C)
	case ast.KindTSTypeQuery:
		s.write("typeof ")
		s.gen(n.A)
		s.gen(n.B)
	case ast.KindTSTypeOperator:
		s.write(n.Text, " ")
		s.gen(n.A)
	case ast.KindTSIndexedAccessType:
		s.gen(n.A)
		s.write("[")
		s.gen(n.B)
		s.write("]")
	case ast.KindTSConditionalType:
		s.gen(n.A)
		s.write(" extends ")
		s.gen(n.B)
		s.write(" ? ")
		s.gen(n.C)
		s.write(" : ")
		s.gen(n.D)
	case ast.KindTSInferType:
		s.write("infer ")
		s.gen(n.A)
	case ast.KindTSParenthesizedType:
		s.write("(")
		s.gen(n.A)
		s.write(")")
	case ast.KindTSMappedType:
		s.mappedType(n)
	case ast.KindTSTemplateLiteralType:
		s.template(n.List)
	case ast.KindTSTypePredicate:
		if n.Has(ast.FlagAsserts) {
			s.write("asserts ")
		}
		s.gen(n.A)
		if n.B != ast.NoNode {
			s.write(" is ")
			s.gen(n.B)
		}
	case ast.KindTSImportType:
		s.write("import(")
		s.gen(n.A)
		s.write(")")
		if n.B != ast.NoNode {
			s.write(".")
			s.gen(n.B)
		}
		s.gen(n.C)
	}
}

func (s *state) mappedType(n *ast.Node) {
	s.write("{ ")
	switch {
	case n.Variant&ast.MappedReadonly != 0:
		s.write("readonly ")
	case n.Variant&ast.MappedReadonlyMinus != 0:
		s.write("-readonly ")
	}
	param := s.prog.Node(n.A)
	s.write("[")
	s.gen(param.A)
	s.write(" in ")
	s.gen(param.B)
	if n.B != ast.NoNode {
		s.write(" as ")
		s.gen(n.B)
	}
	s.write("]")
	switch {
	case n.Variant&ast.MappedOptional != 0:
		s.write("?")
	case n.Variant&ast.MappedOptionalMinus != 0:
		s.write("-?")
	}
	if n.C != ast.NoNode {
		s.write(": ")
		s.gen(n.C)
	}
	s.write(" }")
}
