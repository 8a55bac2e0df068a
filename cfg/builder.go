package cfg

import (
	"github.com/t14raptor/fastfront/ast"
	"github.com/t14raptor/fastfront/token"
)

// Build lowers the program body and every function-like body in prog.
func Build(prog *ast.Program) *Set {
	s := &Set{
		Program: prog,
		graphs:  make(map[ast.NodeID]*Graph),
	}
	s.build(prog.Root)
	return s
}

// build creates the graph owned by owner and, through the builder, the
// graphs of the bodies nested in it.
func (s *Set) build(owner ast.NodeID) {
	a := s.Program.Arena
	g := newGraph(a, owner)
	s.graphs[owner] = g
	s.order = append(s.order, owner)

	b := &builder{set: s, a: a, g: g}
	g.Entry = g.newBlock()
	g.Exit = g.newBlock()
	g.Block(g.Exit).Terminal = TermExit
	b.cur = g.Entry

	n := a.Node(owner)
	switch n.Kind {
	case ast.KindProgram, ast.KindStaticBlock:
		b.statements(n.List)
	case ast.KindArrowFunctionExpression:
		b.expr(n.B)
		if a.Kind(n.D) == ast.KindFunctionBody {
			b.statements(a.Node(n.D).List)
		} else {
			b.expr(n.D)
		}
	default:
		b.expr(n.C)
		b.statements(a.Node(n.E).List)
	}
	b.edge(g.Exit, EdgeNormal)
	g.finish()
}

// jumpTarget is a statement that break or continue may leave or repeat.
type jumpTarget struct {
	labels []string
	// breakable targets take an unlabeled break: loops and switches.
	breakable  bool
	loop       bool
	breakTo    BlockID
	continueTo BlockID
	// tries is the number of try statements enclosing the target.
	tries int
}

// tryContext tracks one try statement while its blocks are built.
type tryContext struct {
	// handler receives the exception edges of blocks created while the
	// context is innermost. NoBlock defers to the enclosing context.
	handler BlockID
	finally BlockID
	pending []pendingJump
}

// pendingJump is an abrupt completion routed through a finally block. It is
// resumed from the end of the finally block.
type pendingJump struct {
	kind   EdgeKind
	target BlockID
	tries  int
}

type builder struct {
	set *Set
	a   *ast.Arena
	g   *Graph

	cur     BlockID
	jumps   []jumpTarget
	tries   []*tryContext
	pending []string // labels waiting for the statement they name
}

// newBlock creates a block. Inside a protected region the block gets an
// exception edge to the active handler.
func (b *builder) newBlock() BlockID {
	id := b.g.newBlock()
	if h := b.handler(len(b.tries)); h != NoBlock {
		b.g.addEdge(id, h, EdgeException)
	}
	return id
}

// handler returns the exception target seen by code inside the innermost
// depth try statements.
func (b *builder) handler(depth int) BlockID {
	for i := depth - 1; i >= 0; i-- {
		if h := b.tries[i].handler; h != NoBlock {
			return h
		}
	}
	return NoBlock
}

// edge links the current block to to.
func (b *builder) edge(to BlockID, kind EdgeKind) {
	b.g.addEdge(b.cur, to, kind)
}

// open reports whether the current block can be entered at all. Code after
// an abrupt completion starts in a block with no predecessors.
func (b *builder) open() bool {
	if b.cur == b.g.Entry {
		return true
	}
	for range b.g.Predecessors(b.cur) {
		return true
	}
	return false
}

// follow starts a new block entered from the current one.
func (b *builder) follow(kind EdgeKind) BlockID {
	next := b.newBlock()
	b.edge(next, kind)
	b.cur = next
	return next
}

// abrupt continues in a fresh block that nothing flows into.
func (b *builder) abrupt() {
	b.cur = b.newBlock()
}

// jump transfers control to target, which sits outside the innermost tries
// try statements. Crossing a try with a finally block enters the finally
// block first.
func (b *builder) jump(kind EdgeKind, target BlockID, tries int) {
	for i := len(b.tries) - 1; i >= tries; i-- {
		ctx := b.tries[i]
		if ctx.finally != NoBlock {
			b.edge(ctx.finally, EdgeFinally)
			ctx.pending = append(ctx.pending, pendingJump{kind: kind, target: target, tries: tries})
			return
		}
	}
	b.edge(target, kind)
}

func (b *builder) statements(list ast.ListRef) {
	for _, id := range b.a.List(list) {
		b.statement(id)
	}
}

func (b *builder) statement(id ast.NodeID) {
	if id == ast.NoNode {
		return
	}
	n := b.a.Node(id)
	labels := b.pending
	b.pending = nil
	b.g.record(b.cur, id)

	switch n.Kind {
	case ast.KindBlockStatement:
		if len(labels) > 0 {
			b.labeled(labels, func() { b.statements(n.List) })
			return
		}
		b.statements(n.List)

	case ast.KindExpressionStatement:
		b.expr(n.A)

	case ast.KindVariableDeclaration:
		for _, decl := range b.a.List(n.List) {
			d := b.a.Node(decl)
			b.expr(d.A)
			b.expr(d.B)
		}

	case ast.KindFunctionDeclaration:
		b.function(id)
	case ast.KindClassDeclaration:
		b.class(id)

	case ast.KindIfStatement:
		b.ifStatement(n)

	case ast.KindWhileStatement:
		b.whileStatement(n, labels)
	case ast.KindDoWhileStatement:
		b.doWhileStatement(n, labels)
	case ast.KindForStatement:
		b.forStatement(n, labels)
	case ast.KindForInStatement, ast.KindForOfStatement:
		b.forInStatement(n, labels)

	case ast.KindLabeledStatement:
		labels = append(labels, b.a.Node(n.A).Text)
		switch body := b.a.Kind(n.B); {
		case body.IsLoop(), body == ast.KindBlockStatement, body == ast.KindLabeledStatement, body == ast.KindSwitchStatement:
			b.pending = labels
			b.statement(n.B)
		default:
			b.labeled(labels, func() { b.statement(n.B) })
		}

	case ast.KindBreakStatement:
		b.breakStatement(n)
	case ast.KindContinueStatement:
		b.continueStatement(n)

	case ast.KindReturnStatement:
		b.expr(n.A)
		b.g.Block(b.cur).Terminal = TermReturn
		b.jump(EdgeNormal, b.g.Exit, 0)
		b.abrupt()

	case ast.KindThrowStatement:
		b.expr(n.A)
		b.throw()

	case ast.KindSwitchStatement:
		b.switchStatement(n, labels)

	case ast.KindTryStatement:
		b.tryStatement(n)

	case ast.KindWithStatement:
		b.expr(n.A)
		b.statement(n.B)

	case ast.KindExportNamedDeclaration:
		b.statement(n.A)
	case ast.KindExportDefaultDeclaration:
		if k := b.a.Kind(n.A); k == ast.KindFunctionDeclaration || k == ast.KindClassDeclaration {
			b.statement(n.A)
		} else {
			b.expr(n.A)
		}
	case ast.KindTSExportAssignment:
		b.expr(n.A)

	case ast.KindTSModuleDeclaration:
		// A namespace body runs in place when the declaration is reached.
		if body := n.B; b.a.Kind(body) == ast.KindTSModuleBlock {
			b.statements(b.a.Node(body).List)
		}
	case ast.KindTSEnumDeclaration:
		for _, m := range b.a.List(n.List) {
			b.expr(b.a.Node(m).B)
		}
	}
}

// labeled runs body as a labeled non-loop statement: break with one of
// labels leaves it.
func (b *builder) labeled(labels []string, body func()) {
	after := b.g.newBlock()
	b.jumps = append(b.jumps, jumpTarget{labels: labels, breakTo: after, tries: len(b.tries)})
	body()
	b.jumps = b.jumps[:len(b.jumps)-1]
	b.edge(after, EdgeNormal)
	b.cur = after
	b.adopt(after)
}

// adopt gives a block created ahead of time the exception edge it would
// have had if it was created now.
func (b *builder) adopt(id BlockID) {
	if h := b.handler(len(b.tries)); h != NoBlock {
		b.g.addEdge(id, h, EdgeException)
	}
}

func (b *builder) throw() {
	b.g.Block(b.cur).Terminal = TermThrow
	target := b.handler(len(b.tries))
	if target == NoBlock {
		target = b.g.Exit
	}
	b.edge(target, EdgeException)
	b.abrupt()
}

// constantTrue reports whether a loop test is the literal true. Loops
// without a test are handled by their callers.
func (b *builder) constantTrue(test ast.NodeID) bool {
	n := b.a.Node(b.a.Unparen(test))
	return n.Kind == ast.KindBooleanLiteral && n.Variant == 1
}

func (b *builder) ifStatement(n *ast.Node) {
	b.expr(n.A)
	cond := b.cur
	after := b.g.newBlock()

	b.cur = cond
	b.follow(EdgeTrue)
	b.statement(n.B)
	b.edge(after, EdgeNormal)

	if n.C != ast.NoNode {
		b.cur = cond
		b.follow(EdgeFalse)
		b.statement(n.C)
		b.edge(after, EdgeNormal)
	} else {
		b.g.addEdge(cond, after, EdgeFalse)
	}
	b.cur = after
	b.adopt(after)
}

func (b *builder) loop(labels []string, breakTo, continueTo BlockID, body ast.NodeID) {
	b.jumps = append(b.jumps, jumpTarget{
		labels:     labels,
		breakable:  true,
		loop:       true,
		breakTo:    breakTo,
		continueTo: continueTo,
		tries:      len(b.tries),
	})
	b.statement(body)
	b.jumps = b.jumps[:len(b.jumps)-1]
}

func (b *builder) whileStatement(n *ast.Node, labels []string) {
	header := b.follow(EdgeNormal)
	b.g.record(header, n.A)
	b.expr(n.A)
	test := b.cur
	after := b.newBlock()
	if !b.constantTrue(n.A) {
		b.g.addEdge(test, after, EdgeFalse)
	}
	b.follow(EdgeTrue)
	b.loop(labels, after, header, n.B)
	b.edge(header, EdgeLoopBack)
	b.cur = after
}

func (b *builder) doWhileStatement(n *ast.Node, labels []string) {
	body := b.follow(EdgeNormal)
	test := b.newBlock()
	after := b.newBlock()
	b.cur = body
	b.loop(labels, after, test, n.A)
	b.edge(test, EdgeNormal)

	b.cur = test
	b.g.record(test, n.B)
	b.expr(n.B)
	b.edge(body, EdgeLoopBack|EdgeTrue)
	if !b.constantTrue(n.B) {
		b.edge(after, EdgeFalse)
	}
	b.cur = after
}

func (b *builder) forStatement(n *ast.Node, labels []string) {
	if b.a.Kind(n.A) == ast.KindVariableDeclaration {
		b.statement(n.A)
	} else {
		b.expr(n.A)
	}
	header := b.follow(EdgeNormal)
	infinite := n.B == ast.NoNode || b.constantTrue(n.B)
	if n.B != ast.NoNode {
		b.g.record(header, n.B)
		b.expr(n.B)
	}
	test := b.cur
	after := b.newBlock()
	update := b.newBlock()
	if !infinite {
		b.g.addEdge(test, after, EdgeFalse)
	}
	if n.B == ast.NoNode {
		b.follow(EdgeNormal)
	} else {
		b.follow(EdgeTrue)
	}
	b.loop(labels, after, update, n.D)
	b.edge(update, EdgeNormal)

	b.cur = update
	if n.C != ast.NoNode {
		b.g.record(update, n.C)
		b.expr(n.C)
	}
	b.edge(header, EdgeLoopBack)
	b.cur = after
}

// forInStatement lowers for-in and for-of. The header block takes the next
// key or value; exhausting it leaves the loop.
func (b *builder) forInStatement(n *ast.Node, labels []string) {
	b.expr(n.B)
	header := b.follow(EdgeNormal)
	b.g.record(header, n.A)
	if b.a.Kind(n.A) == ast.KindVariableDeclaration {
		b.statement(n.A)
	} else {
		b.expr(n.A)
	}
	after := b.newBlock()
	b.g.addEdge(header, after, EdgeFalse)
	b.follow(EdgeTrue)
	b.loop(labels, after, header, n.C)
	b.edge(header, EdgeLoopBack)
	b.cur = after
}

func (b *builder) breakStatement(n *ast.Node) {
	label := ""
	if n.A != ast.NoNode {
		label = b.a.Node(n.A).Text
	}
	for i := len(b.jumps) - 1; i >= 0; i-- {
		t := b.jumps[i]
		if (label == "" && t.breakable) || hasLabel(t.labels, label) {
			b.jump(EdgeBreak, t.breakTo, t.tries)
			break
		}
	}
	b.abrupt()
}

func (b *builder) continueStatement(n *ast.Node) {
	label := ""
	if n.A != ast.NoNode {
		label = b.a.Node(n.A).Text
	}
	for i := len(b.jumps) - 1; i >= 0; i-- {
		t := b.jumps[i]
		if t.loop && (label == "" || hasLabel(t.labels, label)) {
			b.jump(EdgeContinue, t.continueTo, t.tries)
			break
		}
	}
	b.abrupt()
}

func hasLabel(labels []string, label string) bool {
	if label == "" {
		return false
	}
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// switchStatement tests the cases in order. A matching test enters its
// consequent, a failing one moves on to the next test; after the last test
// control goes to the default clause, or past the statement. Consequents
// fall through into the next one.
func (b *builder) switchStatement(n *ast.Node, labels []string) {
	b.expr(n.A)
	cases := b.a.List(n.List)
	after := b.g.newBlock()
	bodies := make([]BlockID, len(cases))
	for i := range cases {
		bodies[i] = b.newBlock()
	}

	deflt := after
	kind := EdgeNormal
	for i, c := range cases {
		cn := b.a.Node(c)
		if cn.A == ast.NoNode {
			deflt = bodies[i]
			continue
		}
		b.follow(kind)
		b.g.record(b.cur, cn.A)
		b.expr(cn.A)
		b.edge(bodies[i], EdgeTrue)
		kind = EdgeFalse
	}
	b.edge(deflt, kind)

	// A switch is a break target with no continue; labels on it apply too.
	b.jumps = append(b.jumps, jumpTarget{labels: labels, breakable: true, breakTo: after, tries: len(b.tries)})
	for i, c := range cases {
		if i > 0 {
			b.edge(bodies[i], EdgeNormal)
		}
		b.cur = bodies[i]
		b.g.record(bodies[i], c)
		b.statements(b.a.Node(c).List)
	}
	b.jumps = b.jumps[:len(b.jumps)-1]
	b.edge(after, EdgeNormal)
	b.cur = after
	b.adopt(after)
}

func (b *builder) tryStatement(n *ast.Node) {
	hasCatch, hasFinally := n.B != ast.NoNode, n.C != ast.NoNode

	finEntry := NoBlock
	if hasFinally {
		finEntry = b.newBlock()
	}
	ctx := &tryContext{handler: finEntry, finally: finEntry}
	b.tries = append(b.tries, ctx)

	catchEntry := NoBlock
	if hasCatch {
		catchEntry = b.newBlock()
		ctx.handler = catchEntry
	}

	b.follow(EdgeNormal)
	b.g.record(b.cur, n.A)
	b.statement(n.A)
	tryEnd, tryOpen := b.cur, b.open()

	ctx.handler = finEntry
	catchEnd, catchOpen := NoBlock, false
	if hasCatch {
		b.cur = catchEntry
		b.g.record(catchEntry, n.B)
		cn := b.a.Node(n.B)
		b.expr(cn.A)
		b.statement(cn.B)
		catchEnd, catchOpen = b.cur, b.open()
	}
	b.tries = b.tries[:len(b.tries)-1]

	after := b.newBlock()
	if !hasFinally {
		if tryOpen {
			b.g.addEdge(tryEnd, after, EdgeNormal)
		}
		if catchOpen {
			b.g.addEdge(catchEnd, after, EdgeNormal)
		}
		b.cur = after
		return
	}

	if tryOpen {
		b.g.addEdge(tryEnd, finEntry, EdgeFinally)
	}
	if catchOpen {
		b.g.addEdge(catchEnd, finEntry, EdgeFinally)
	}
	b.cur = finEntry
	b.g.record(finEntry, n.C)
	b.statement(n.C)
	finEnd := b.cur
	if tryOpen || catchOpen {
		b.edge(after, EdgeNormal)
	}
	// An exception that entered the finally block propagates after it.
	rethrow := b.handler(len(b.tries))
	if rethrow == NoBlock {
		rethrow = b.g.Exit
	}
	b.edge(rethrow, EdgeException)
	for _, p := range ctx.pending {
		b.cur = finEnd
		b.jump(p.kind, p.target, p.tries)
	}
	b.cur = after
}

// expr walks an expression in evaluation order. Short-circuiting operators
// split the current block; nested functions and classes get graphs of their
// own.
func (b *builder) expr(id ast.NodeID) {
	if id == ast.NoNode {
		return
	}
	n := b.a.Node(id)
	if n.Kind.IsTSType() {
		return
	}
	switch n.Kind {
	case ast.KindFunctionExpression, ast.KindArrowFunctionExpression, ast.KindFunctionDeclaration:
		b.function(id)

	case ast.KindClassExpression, ast.KindClassDeclaration:
		b.class(id)

	case ast.KindLogicalExpression:
		b.expr(n.A)
		b.shortCircuit(n.Op, n.B)

	case ast.KindAssignmentExpression:
		b.expr(n.A)
		switch n.Op {
		case token.LogicalAndAssign, token.LogicalOrAssign, token.CoalesceAssign:
			b.shortCircuit(n.Op, n.B)
		default:
			b.expr(n.B)
		}

	case ast.KindConditionalExpression:
		b.expr(n.A)
		cond := b.cur
		after := b.g.newBlock()
		b.follow(EdgeTrue)
		b.g.record(b.cur, n.B)
		b.expr(n.B)
		b.edge(after, EdgeNormal)
		b.cur = cond
		b.follow(EdgeFalse)
		b.g.record(b.cur, n.C)
		b.expr(n.C)
		b.edge(after, EdgeNormal)
		b.cur = after
		b.adopt(after)

	case ast.KindChainExpression:
		after := b.g.newBlock()
		b.chain(n.A, after)
		b.edge(after, EdgeNormal)
		b.cur = after
		b.adopt(after)

	case ast.KindMemberExpression:
		b.expr(n.A)

	case ast.KindTSAsExpression, ast.KindTSSatisfiesExpression, ast.KindTSNonNullExpression,
		ast.KindTSInstantiationExpression:
		b.expr(n.A)
	case ast.KindTSTypeAssertion:
		b.expr(n.B)

	default:
		for c := range b.a.Children(id) {
			b.expr(c)
		}
	}
}

// shortCircuit splits off the right operand of a logical operator. &&
// continues when the left side is truthy; || and ?? when it is falsy or
// nullish.
func (b *builder) shortCircuit(op token.Token, right ast.NodeID) {
	cont, skip := EdgeTrue, EdgeFalse
	if op == token.LogicalOr || op == token.LogicalOrAssign {
		cont, skip = EdgeFalse, EdgeTrue
	}
	after := b.g.newBlock()
	b.edge(after, skip)
	b.follow(cont)
	b.g.record(b.cur, right)
	b.expr(right)
	b.edge(after, EdgeNormal)
	b.cur = after
	b.adopt(after)
}

// chain walks an optional chain. Each ?. link tests its object: a nullish
// object short-circuits the rest of the chain to after.
func (b *builder) chain(id ast.NodeID, after BlockID) {
	n := b.a.Node(id)
	switch n.Kind {
	case ast.KindMemberExpression, ast.KindComputedMemberExpression, ast.KindCallExpression:
	default:
		b.expr(id)
		return
	}
	b.chain(n.A, after)
	if n.Has(ast.FlagOptional) {
		b.g.addEdge(b.cur, after, EdgeFalse)
		b.follow(EdgeTrue)
		b.g.record(b.cur, id)
	}
	switch n.Kind {
	case ast.KindComputedMemberExpression:
		b.expr(n.B)
	case ast.KindCallExpression:
		for _, arg := range b.a.List(n.List) {
			b.expr(arg)
		}
	}
}

// function builds the graph of a function body. Overloads and ambient
// declarations have no body and no graph.
func (b *builder) function(id ast.NodeID) {
	n := b.a.Node(id)
	if n.Kind != ast.KindArrowFunctionExpression && n.E == ast.NoNode {
		return
	}
	b.set.build(id)
}

// class evaluates the parts of a class that run where it is defined and
// builds graphs for its methods and static blocks. Field initializers are
// walked for nested functions only.
func (b *builder) class(id ast.NodeID) {
	n := b.a.Node(id)
	for _, d := range b.a.List(n.List) {
		b.expr(d)
	}
	b.expr(n.C)
	if n.E == ast.NoNode {
		return
	}
	for _, m := range b.a.List(b.a.Node(n.E).List) {
		mn := b.a.Node(m)
		switch mn.Kind {
		case ast.KindStaticBlock:
			b.set.build(m)
		case ast.KindMethodDefinition:
			for _, d := range b.a.List(mn.List) {
				b.expr(d)
			}
			if mn.Has(ast.FlagComputed) {
				b.expr(mn.A)
			}
			b.function(mn.B)
		case ast.KindPropertyDefinition:
			for _, d := range b.a.List(mn.List) {
				b.expr(d)
			}
			if mn.Has(ast.FlagComputed) {
				b.expr(mn.A)
			}
			b.nested(mn.C)
		}
	}
}

// nested builds graphs for the functions inside id without lowering id
// itself into the current graph.
func (b *builder) nested(id ast.NodeID) {
	if id == ast.NoNode {
		return
	}
	ast.Inspect(b.a, id, func(c ast.NodeID, n *ast.Node) bool {
		switch {
		case n.Kind.IsFunction():
			b.function(c)
			return false
		case n.Kind == ast.KindStaticBlock:
			b.set.build(c)
			return false
		}
		return true
	})
}
