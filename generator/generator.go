// Package generator prints a syntax tree back to source text. Literals,
// template pieces and JSX text are copied from the original source, and
// parentheses are only printed where the tree has a parenthesized node, so
// reparsing the output yields the same tree. Comments are not preserved.
package generator

import (
	"strings"

	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/token"
)

// Generate prints a whole program.
func Generate(prog *ast.Program) string {
	s := &state{
		out:    &strings.Builder{},
		prog:   prog,
		id:     prog.Root,
		parent: &state{},
	}
	if prog.Hashbang != "" {
		s.write(prog.Hashbang)
		s.line()
	}
	gen(s)
	return s.out.String()
}

// GenerateNode prints the subtree rooted at id.
func GenerateNode(prog *ast.Program, id ast.NodeID) string {
	s := &state{
		out:    &strings.Builder{},
		prog:   prog,
		id:     id,
		parent: &state{},
	}
	gen(s)
	return s.out.String()
}

func (s *state) gen(id ast.NodeID) {
	gen(s.wrap(id))
}

func (s *state) join(ids []ast.NodeID, sep string) {
	for i, id := range ids {
		if i > 0 {
			s.write(sep)
		}
		s.gen(id)
	}
}

// block prints a braced statement or member list, one entry per line.
func (s *state) block(ids []ast.NodeID, after func(ast.NodeID)) {
	if len(ids) == 0 {
		s.write("{}")
		return
	}
	s.write("{")
	s.indent++
	for _, id := range ids {
		s.lineAndPad()
		s.gen(id)
		if after != nil {
			after(id)
		}
	}
	s.indent--
	s.lineAndPad()
	s.write("}")
}

func gen(s *state) {
	if s.id == ast.NoNode {
		return
	}
	n := s.node()
	switch {
	case n.Kind >= ast.KindJSXElement && n.Kind <= ast.KindJSXSpreadChild:
		genJSX(s, n)
		return
	case n.Kind >= ast.KindTSAsExpression:
		genTS(s, n)
		return
	}

	switch n.Kind {
	case ast.KindProgram:
		for i, id := range s.list(n.List) {
			if i > 0 {
				s.line()
			}
			s.gen(id)
		}
	case ast.KindError, ast.KindElision, ast.KindInvalid:

	case ast.KindIdentifierReference, ast.KindIdentifierName, ast.KindLabelIdentifier:
		s.write(n.Text)
	case ast.KindBindingIdentifier:
		s.write(n.Text)
		if n.Has(ast.FlagOptional) {
			s.write("?")
		}
		s.annotation(n.A)
	case ast.KindPrivateIdentifier:
		s.write("#", n.Text)

	case ast.KindNullLiteral:
		s.write("null")
	case ast.KindBooleanLiteral:
		if n.Variant == 1 {
			s.write("true")
		} else {
			s.write("false")
		}
	case ast.KindNumericLiteral, ast.KindBigIntLiteral, ast.KindStringLiteral, ast.KindRegExpLiteral,
		ast.KindTemplateElement:
		s.write(s.raw(s.id))
	case ast.KindTemplateLiteral:
		s.template(n.List)

	case ast.KindThisExpression:
		s.write("this")
	case ast.KindSuper:
		s.write("super")
	case ast.KindArrayExpression, ast.KindArrayPattern:
		s.write("[")
		items := s.list(n.List)
		for i, id := range items {
			// A hole is its own comma.
			if s.kind(id) == ast.KindElision {
				s.write(",")
				continue
			}
			s.gen(id)
			if i < len(items)-1 {
				s.write(", ")
			}
		}
		s.write("]")
		if n.Kind == ast.KindArrayPattern {
			s.annotation(n.A)
		}
	case ast.KindObjectExpression, ast.KindObjectPattern:
		s.write("{")
		s.join(s.list(n.List), ", ")
		s.write("}")
		if n.Kind == ast.KindObjectPattern {
			s.annotation(n.A)
		}
	case ast.KindProperty:
		s.property(n)
	case ast.KindSpreadElement:
		s.write("...")
		s.gen(n.A)
	case ast.KindFunctionExpression, ast.KindFunctionDeclaration:
		s.declare(n)
		if n.Has(ast.FlagAsync) {
			s.write("async ")
		}
		s.write("function")
		if n.Has(ast.FlagGenerator) {
			s.write("*")
		}
		if n.A != ast.NoNode {
			s.write(" ")
			s.gen(n.A)
		}
		s.functionRest(n)
	case ast.KindArrowFunctionExpression:
		if n.Has(ast.FlagAsync) {
			s.write("async ")
		}
		s.gen(n.A)
		s.gen(n.B)
		s.annotation(n.C)
		s.write(" => ")
		s.gen(n.D)
	case ast.KindClassExpression, ast.KindClassDeclaration:
		s.class(n)
	case ast.KindTaggedTemplateExpression:
		s.gen(n.A)
		s.gen(n.B)
		s.gen(n.C)
	case ast.KindMemberExpression:
		s.gen(n.A)
		switch {
		case n.Has(ast.FlagOptional):
			s.write("?.")
		case s.integerLiteral(n.A):
			s.write(" .")
		default:
			s.write(".")
		}
		s.gen(n.B)
	case ast.KindComputedMemberExpression:
		s.gen(n.A)
		if n.Has(ast.FlagOptional) {
			s.write("?.")
		}
		s.write("[")
		s.gen(n.B)
		s.write("]")
	case ast.KindCallExpression:
		s.gen(n.A)
		if n.Has(ast.FlagOptional) {
			s.write("?.")
		}
		s.gen(n.B)
		s.arguments(n.List)
	case ast.KindNewExpression:
		s.write("new ")
		s.gen(n.A)
		s.gen(n.B)
		s.arguments(n.List)
	case ast.KindChainExpression:
		s.gen(n.A)
	case ast.KindMetaProperty:
		s.gen(n.A)
		s.write(".")
		s.gen(n.B)
	case ast.KindImportExpression:
		s.write("import(")
		s.gen(n.A)
		if n.B != ast.NoNode {
			s.write(", ")
			s.gen(n.B)
		}
		s.write(")")
	case ast.KindUpdateExpression:
		if n.Has(ast.FlagPrefix) {
			s.write(n.Op.String())
			s.gen(n.A)
		} else {
			s.gen(n.A)
			s.write(n.Op.String())
		}
	case ast.KindUnaryExpression:
		s.write(n.Op.String())
		if s.unarySpace(n) {
			s.write(" ")
		}
		s.gen(n.A)
	case ast.KindBinaryExpression, ast.KindLogicalExpression, ast.KindAssignmentExpression:
		s.gen(n.A)
		s.write(" ", n.Op.String(), " ")
		s.gen(n.B)
	case ast.KindConditionalExpression:
		s.gen(n.A)
		s.write(" ? ")
		s.gen(n.B)
		s.write(" : ")
		s.gen(n.C)
	case ast.KindSequenceExpression:
		s.join(s.list(n.List), ", ")
	case ast.KindParenthesizedExpression:
		s.write("(")
		s.gen(n.A)
		s.write(")")
	case ast.KindYieldExpression:
		s.write("yield")
		if n.Has(ast.FlagDelegate) {
			s.write("*")
		}
		if n.A != ast.NoNode {
			s.write(" ")
			s.gen(n.A)
		}
	case ast.KindAwaitExpression:
		s.write("await ")
		s.gen(n.A)
	case ast.KindAssignmentPattern:
		s.gen(n.A)
		s.write(" = ")
		s.gen(n.B)
	case ast.KindRestElement:
		s.write("...")
		s.gen(n.A)
		s.annotation(n.B)

	case ast.KindFormalParameters:
		s.write("(")
		s.join(s.list(n.List), ", ")
		s.write(")")
	case ast.KindFormalParameter:
		s.decorators(n.List)
		s.modifiers(n.Flags)
		s.gen(n.A)
	case ast.KindFunctionBody, ast.KindBlockStatement:
		s.block(s.list(n.List), nil)
	case ast.KindClassBody:
		s.block(s.list(n.List), func(id ast.NodeID) {
			if s.kind(id) == ast.KindTSIndexSignature {
				s.write(";")
			}
		})
	case ast.KindMethodDefinition:
		s.decorators(n.List)
		s.modifiers(n.Flags)
		fn := s.prog.Node(n.B)
		s.methodHead(fn, n.Variant)
		s.key(n.A, n.Has(ast.FlagComputed))
		if n.Has(ast.FlagOptional) {
			s.write("?")
		}
		s.functionRest(fn)
	case ast.KindPropertyDefinition:
		s.decorators(n.List)
		s.modifiers(n.Flags)
		s.key(n.A, n.Has(ast.FlagComputed))
		switch {
		case n.Has(ast.FlagOptional):
			s.write("?")
		case n.Has(ast.FlagDefinite):
			s.write("!")
		}
		s.annotation(n.B)
		if n.C != ast.NoNode {
			s.write(" = ")
			s.gen(n.C)
		}
		s.write(";")
	case ast.KindStaticBlock:
		s.write("static ")
		s.block(s.list(n.List), nil)
	case ast.KindDecorator:
		s.write("@")
		s.gen(n.A)
	case ast.KindTSIndexSignature:
		s.modifiers(n.Flags)
		s.write("[")
		s.join(s.list(n.List), ", ")
		s.write("]")
		s.annotation(n.A)

	case ast.KindExpressionStatement:
		s.gen(n.A)
		s.write(";")
	case ast.KindEmptyStatement:
		s.write(";")
	case ast.KindDebuggerStatement:
		s.write("debugger;")
	case ast.KindVariableDeclaration:
		s.declare(n)
		s.write(n.Op.String(), " ")
		s.join(s.list(n.List), ", ")
		if !s.inForHead() {
			s.write(";")
		}
	case ast.KindVariableDeclarator:
		if target := s.prog.Node(n.A); n.Has(ast.FlagDefinite) && target.Kind == ast.KindBindingIdentifier {
			s.write(target.Text, "!")
			s.annotation(target.A)
		} else {
			s.gen(n.A)
		}
		if n.B != ast.NoNode {
			s.write(" = ")
			s.gen(n.B)
		}
	case ast.KindIfStatement:
		s.write("if (")
		s.gen(n.A)
		s.write(") ")
		s.gen(n.B)
		if n.C != ast.NoNode {
			s.write(" else ")
			s.gen(n.C)
		}
	case ast.KindForStatement:
		s.write("for (")
		s.gen(n.A)
		s.write(";")
		if n.B != ast.NoNode {
			s.write(" ")
			s.gen(n.B)
		}
		s.write(";")
		if n.C != ast.NoNode {
			s.write(" ")
			s.gen(n.C)
		}
		s.write(") ")
		s.gen(n.D)
	case ast.KindForInStatement, ast.KindForOfStatement:
		s.write("for ")
		if n.Has(ast.FlagAwait) {
			s.write("await ")
		}
		s.write("(")
		s.gen(n.A)
		if n.Kind == ast.KindForInStatement {
			s.write(" in ")
		} else {
			s.write(" of ")
		}
		s.gen(n.B)
		s.write(") ")
		s.gen(n.C)
	case ast.KindWhileStatement:
		s.write("while (")
		s.gen(n.A)
		s.write(") ")
		s.gen(n.B)
	case ast.KindDoWhileStatement:
		s.write("do ")
		s.gen(n.A)
		s.write(" while (")
		s.gen(n.B)
		s.write(");")
	case ast.KindContinueStatement, ast.KindBreakStatement:
		if n.Kind == ast.KindBreakStatement {
			s.write("break")
		} else {
			s.write("continue")
		}
		if n.A != ast.NoNode {
			s.write(" ")
			s.gen(n.A)
		}
		s.write(";")
	case ast.KindReturnStatement:
		s.write("return")
		if n.A != ast.NoNode {
			s.write(" ")
			s.gen(n.A)
		}
		s.write(";")
	case ast.KindThrowStatement:
		s.write("throw ")
		s.gen(n.A)
		s.write(";")
	case ast.KindWithStatement:
		s.write("with (")
		s.gen(n.A)
		s.write(") ")
		s.gen(n.B)
	case ast.KindSwitchStatement:
		s.write("switch (")
		s.gen(n.A)
		s.write(") ")
		s.block(s.list(n.List), nil)
	case ast.KindSwitchCase:
		if n.A != ast.NoNode {
			s.write("case ")
			s.gen(n.A)
			s.write(":")
		} else {
			s.write("default:")
		}
		s.indent++
		for _, id := range s.list(n.List) {
			s.lineAndPad()
			s.gen(id)
		}
		s.indent--
	case ast.KindLabeledStatement:
		s.gen(n.A)
		s.write(": ")
		s.gen(n.B)
	case ast.KindTryStatement:
		s.write("try ")
		s.gen(n.A)
		if n.B != ast.NoNode {
			s.write(" ")
			s.gen(n.B)
		}
		if n.C != ast.NoNode {
			s.write(" finally ")
			s.gen(n.C)
		}
	case ast.KindCatchClause:
		s.write("catch ")
		if n.A != ast.NoNode {
			s.write("(")
			s.gen(n.A)
			s.write(") ")
		}
		s.gen(n.B)

	default:
		genModule(s, n)
	}
}

// functionRest prints everything after the name of a function or method.
// Overloads and ambient functions end in a semicolon.
func (s *state) functionRest(fn *ast.Node) {
	s.gen(fn.B)
	s.gen(fn.C)
	s.annotation(fn.D)
	if fn.E == ast.NoNode {
		s.write(";")
		return
	}
	s.write(" ")
	s.gen(fn.E)
}

// methodHead prints the async, generator and accessor markers of a method.
// Property and method variants share their get and set values.
func (s *state) methodHead(fn *ast.Node, variant uint8) {
	if fn.Has(ast.FlagAsync) {
		s.write("async ")
	}
	if fn.Has(ast.FlagGenerator) {
		s.write("*")
	}
	switch variant {
	case ast.MethodGet:
		s.write("get ")
	case ast.MethodSet:
		s.write("set ")
	}
}

func (s *state) key(id ast.NodeID, computed bool) {
	if computed {
		s.write("[")
		s.gen(id)
		s.write("]")
		return
	}
	s.gen(id)
}

func (s *state) property(n *ast.Node) {
	if n.Has(ast.FlagShorthand) {
		if v := s.prog.Node(n.B); v.Kind == ast.KindAssignmentExpression || v.Kind == ast.KindAssignmentPattern {
			s.gen(v.A)
			s.write(" = ")
			s.gen(v.B)
			return
		}
		s.gen(n.B)
		return
	}
	if n.Variant != ast.PropInit || n.Has(ast.FlagMethod) {
		fn := s.prog.Node(n.B)
		s.methodHead(fn, n.Variant)
		s.key(n.A, n.Has(ast.FlagComputed))
		s.functionRest(fn)
		return
	}
	s.key(n.A, n.Has(ast.FlagComputed))
	s.write(": ")
	s.gen(n.B)
}

func (s *state) class(n *ast.Node) {
	s.decorators(n.List)
	s.declare(n)
	if n.Has(ast.FlagAbstract) {
		s.write("abstract ")
	}
	s.write("class")
	if n.A != ast.NoNode {
		s.write(" ")
		s.gen(n.A)
	}
	s.gen(n.B)
	if n.C != ast.NoNode {
		s.write(" extends ")
		s.gen(n.C)
	}
	if n.D != ast.NoNode {
		s.write(" implements ")
		s.gen(n.D)
	}
	s.write(" ")
	s.gen(n.E)
}

func (s *state) decorators(list ast.ListRef) {
	for _, id := range s.list(list) {
		s.gen(id)
		s.write(" ")
	}
}

// modifiers prints member and parameter modifiers in canonical order.
func (s *state) modifiers(flags ast.Flags) {
	switch {
	case flags&ast.FlagPublic != 0:
		s.write("public ")
	case flags&ast.FlagPrivate != 0:
		s.write("private ")
	case flags&ast.FlagProtected != 0:
		s.write("protected ")
	}
	for _, m := range []struct {
		flag ast.Flags
		word string
	}{
		{ast.FlagStatic, "static "},
		{ast.FlagAbstract, "abstract "},
		{ast.FlagOverride, "override "},
		{ast.FlagReadonly, "readonly "},
		{ast.FlagDeclare, "declare "},
		{ast.FlagAccessor, "accessor "},
	} {
		if flags&m.flag != 0 {
			s.write(m.word)
		}
	}
}

// declare prints the declare keyword unless an enclosing declaration
// already made the context ambient.
func (s *state) declare(n *ast.Node) {
	if n.Has(ast.FlagDeclare) && !s.ambient {
		s.write("declare ")
	}
}

func (s *state) annotation(id ast.NodeID) {
	if id == ast.NoNode {
		return
	}
	s.write(": ")
	s.gen(id)
}

func (s *state) arguments(list ast.ListRef) {
	s.write("(")
	s.join(s.list(list), ", ")
	s.write(")")
}

// template prints the alternating pieces and substitutions of a template
// literal or template literal type.
func (s *state) template(list ast.ListRef) {
	s.write("`")
	for i, id := range s.list(list) {
		if i%2 == 0 {
			s.write(s.raw(id))
			continue
		}
		s.write("${")
		s.gen(id)
		s.write("}")
	}
	s.write("`")
}

// inForHead reports whether the current node is the left part of a for
// statement head, where declarations are not terminated.
func (s *state) inForHead() bool {
	if s.parent.prog == nil || s.parent.id == ast.NoNode {
		return false
	}
	p := s.parent.node()
	switch p.Kind {
	case ast.KindForStatement, ast.KindForInStatement, ast.KindForOfStatement:
		return p.A == s.id
	}
	return false
}

// integerLiteral reports whether id is a decimal literal without a point,
// where a following '.' would be read as part of the number.
func (s *state) integerLiteral(id ast.NodeID) bool {
	if s.kind(id) != ast.KindNumericLiteral {
		return false
	}
	return strings.IndexFunc(s.raw(id), func(r rune) bool {
		return (r < '0' || r > '9') && r != '_'
	}) < 0
}

// unarySpace reports whether a space must separate a unary operator from its
// argument.
func (s *state) unarySpace(n *ast.Node) bool {
	switch n.Op {
	case token.Typeof, token.Void, token.Delete:
		return true
	case token.Plus, token.Minus:
		arg := s.prog.Node(n.A)
		switch arg.Kind {
		case ast.KindUnaryExpression:
			return arg.Op == token.Plus || arg.Op == token.Minus
		case ast.KindUpdateExpression:
			return arg.Has(ast.FlagPrefix)
		}
	}
	return false
}
