package parser

// scope tracks the grammar context of the code being parsed. It is not the
// lexical scope of bindings; that is built later by the semantic package.
type scope struct {
	outer          *scope
	allowIn        bool
	allowLet       bool
	inIteration    bool
	inSwitch       bool
	inFuncParams   bool
	inFunction     bool
	inClass        bool
	inStaticInit   bool
	allowAwait     bool
	allowYield     bool
	allowSuper     bool
	allowSuperCall bool
	allowNewTarget bool
	strict         bool
	inDeclare      bool
	// inNamespace is set directly inside a TS namespace body, where export
	// is allowed in scripts too.
	inNamespace bool

	labels []label
}

type label struct {
	name string
	loop bool
}

// openScope starts a nested context that keeps the function level settings
// of the enclosing one.
func (p *parser) openScope() {
	outer := p.scope
	p.scope = &scope{
		outer:   outer,
		allowIn: true,
	}
	if outer != nil {
		p.scope.strict = outer.strict
		p.scope.inClass = outer.inClass
		p.scope.inDeclare = outer.inDeclare
		p.scope.allowAwait = outer.allowAwait
		p.scope.allowYield = outer.allowYield
		p.scope.allowSuper = outer.allowSuper
		p.scope.allowSuperCall = outer.allowSuperCall
		p.scope.allowNewTarget = outer.allowNewTarget
		p.scope.inStaticInit = outer.inStaticInit
	}
}

// openFunctionScope starts the context of a function body or parameter list.
func (p *parser) openFunctionScope(async, generator bool) {
	p.openScope()
	p.scope.inFunction = true
	p.scope.allowAwait = async
	p.scope.allowYield = generator
	p.scope.allowSuper = false
	p.scope.allowSuperCall = false
	p.scope.allowNewTarget = true
	p.scope.inStaticInit = false
}

// openArrowScope is like openFunctionScope but keeps this, super and
// new.target of the enclosing function.
func (p *parser) openArrowScope(async bool) {
	p.openScope()
	p.scope.inFunction = true
	p.scope.allowAwait = async
	p.scope.allowYield = false
}

func (p *parser) closeScope() {
	p.scope = p.scope.outer
}

// findLabel looks for a label in the current function or static block.
func (s *scope) findLabel(name string) (label, bool) {
	for i := len(s.labels) - 1; i >= 0; i-- {
		if s.labels[i].name == name {
			return s.labels[i], true
		}
	}
	if s.outer != nil && !s.inFunction && !s.inStaticInit {
		return s.outer.findLabel(name)
	}
	return label{}, false
}
