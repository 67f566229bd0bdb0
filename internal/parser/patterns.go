package parser

import (
	"github.com/funvibe/esdown/internal/ast"
	"github.com/funvibe/esdown/internal/diagnostics"
	"github.com/funvibe/esdown/internal/token"
)

// parseBindingTarget parses an unambiguous binding position: a variable
// declarator's name, a for-in/for-of left-hand side, a catch parameter.
// There is no cover-grammar ambiguity here since `{`/`[` can only start a
// pattern in these positions.
func (p *Parser) parseBindingTarget() ast.Pattern {
	switch p.curToken.Type {
	case token.LBRACE:
		return p.parseObjectPattern()
	case token.LBRACKET:
		return p.parseArrayPattern()
	default:
		id := &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value, Context: ast.CtxDeclaration}
		p.checkBindingIdent(id)
		return id
	}
}

// parseBindingTargetMaybe is parseBindingTarget's speculative counterpart
// for the arrow-function parameter cover grammar: it returns nil instead
// of recording an error on failure, letting tryParseArrow abandon cleanly.
func (p *Parser) parseBindingTargetMaybe() ast.Pattern {
	switch p.curToken.Type {
	case token.LBRACE, token.LBRACKET, token.IDENTIFIER, token.LET, token.STATIC, token.ASYNC:
		return p.parseBindingTarget()
	default:
		return nil
	}
}

func (p *Parser) parseObjectPattern() ast.Pattern {
	start := p.curToken.Start
	var props []ast.Node
	if p.peekIs(token.RBRACE) {
		p.nextToken()
		return &ast.ObjectPattern{Base: base(start, p.curToken.End)}
	}
	p.nextToken()
	for {
		if p.curIs(token.ELLIPSIS) {
			rstart := p.curToken.Start
			p.nextToken()
			arg := p.parseBindingTarget()
			_, rend := span(arg)
			props = append(props, &ast.PatternRestElement{Base: base(rstart, rend), Argument: arg})
		} else {
			props = append(props, p.parsePatternProperty())
		}
		if p.peekIs(token.COMMA) {
			p.nextToken()
			if p.peekIs(token.RBRACE) {
				p.nextToken()
				break
			}
			p.nextToken()
			continue
		}
		p.expect(token.RBRACE)
		break
	}
	return &ast.ObjectPattern{Base: base(start, p.curToken.End), Properties: props}
}

func (p *Parser) parsePatternProperty() ast.Node {
	start := p.curToken.Start
	key, computed := p.parsePropertyKey()

	var target ast.Pattern
	if p.peekIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		target = p.parseBindingTarget()
	} else {
		id, ok := key.(*ast.Identifier)
		if !ok {
			p.errorf(diagnostics.ErrInvalidPattern, p.curToken, "invalid pattern property")
			return &ast.PatternProperty{Base: base(start, p.curToken.End)}
		}
		id.Context = ast.CtxDeclaration
		p.checkBindingIdent(id)
		target = id
	}

	var def ast.Expression
	if p.peekIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		def = p.parseAssignExpr()
	}
	_, end := span(target)
	if def != nil {
		_, end = span(def)
	}
	elem := &ast.PatternElement{Base: base(start, end), Target: target, Default: def}
	return &ast.PatternProperty{Base: base(start, end), Key: key, Computed: computed, Value: elem}
}

func (p *Parser) parseArrayPattern() ast.Pattern {
	start := p.curToken.Start
	var elems []ast.Node
	if p.peekIs(token.RBRACKET) {
		p.nextToken()
		return &ast.ArrayPattern{Base: base(start, p.curToken.End)}
	}
	p.nextToken()
	for {
		if p.curIs(token.COMMA) {
			elems = append(elems, nil)
			p.nextToken()
			continue
		}
		if p.curIs(token.ELLIPSIS) {
			rstart := p.curToken.Start
			p.nextToken()
			arg := p.parseBindingTarget()
			_, rend := span(arg)
			elems = append(elems, &ast.PatternRestElement{Base: base(rstart, rend), Argument: arg})
			break
		}
		estart := p.curToken.Start
		target := p.parseBindingTarget()
		var def ast.Expression
		if p.peekIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			def = p.parseAssignExpr()
		}
		_, eend := span(target)
		if def != nil {
			_, eend = span(def)
		}
		elems = append(elems, &ast.PatternElement{Base: base(estart, eend), Target: target, Default: def})
		if p.peekIs(token.COMMA) {
			p.nextToken()
			if p.peekIs(token.RBRACKET) {
				p.nextToken()
				break
			}
			p.nextToken()
			continue
		}
		break
	}
	p.expect(token.RBRACKET)
	return &ast.ArrayPattern{Base: base(start, p.curToken.End), Elements: elems}
}

// reinterpretAsPattern converts a just-parsed expression into a
// destructuring-assignment target: object/array literals parsed as
// expressions get reinterpreted the moment an `=` reveals they were
// actually a pattern. Anything else is returned unchanged and validated
// as a normal target.
func (p *Parser) reinterpretAsPattern(expr ast.Expression) ast.Expression {
	switch e := expr.(type) {
	case *ast.ObjectExpression:
		return p.objectExprToPattern(e)
	case *ast.ArrayExpression:
		return p.arrayExprToPattern(e)
	default:
		p.checkAssignTarget(expr)
		return expr
	}
}

func (p *Parser) objectExprToPattern(e *ast.ObjectExpression) ast.Expression {
	props := make([]ast.Node, len(e.Properties))
	for i, prop := range e.Properties {
		switch pr := prop.(type) {
		case *ast.CoveredPatternProperty:
			pr.Key.Context = ast.CtxDeclaration
			elem := &ast.PatternElement{Base: pr.Base, Target: pr.Key, Default: pr.Default}
			props[i] = &ast.PatternProperty{Base: pr.Base, Key: pr.Key, Value: elem}
		case *ast.PropertyDefinition:
			target := p.reinterpretAsPattern(pr.Value)
			pat, ok := target.(ast.Pattern)
			if !ok {
				p.errorf(diagnostics.ErrInvalidPattern, p.curToken, "invalid destructuring target")
				pat = &ast.Identifier{Base: pr.Base}
			}
			elem := &ast.PatternElement{Base: pr.Base, Target: pat}
			props[i] = &ast.PatternProperty{Base: pr.Base, Key: pr.Key, Computed: pr.Computed, Value: elem}
		default:
			p.errorf(diagnostics.ErrInvalidPattern, p.curToken, "invalid destructuring property")
		}
	}
	return &ast.ObjectPattern{Base: e.Base, Properties: props}
}

func (p *Parser) arrayExprToPattern(e *ast.ArrayExpression) ast.Expression {
	elems := make([]ast.Node, len(e.Elements))
	for i, el := range e.Elements {
		if el == nil {
			continue
		}
		if spread, ok := el.(*ast.SpreadExpression); ok {
			target := p.reinterpretAsPattern(spread.Argument)
			pat, ok := target.(ast.Pattern)
			if !ok {
				p.errorf(diagnostics.ErrInvalidPattern, p.curToken, "invalid rest target")
				continue
			}
			elems[i] = &ast.PatternRestElement{Base: spread.Base, Argument: pat}
			continue
		}
		var def ast.Expression
		target := el
		if assign, ok := el.(*ast.AssignmentExpression); ok && assign.Operator == token.ASSIGN {
			target = assign.Left
			def = assign.Right
		}
		pat := p.reinterpretAsPattern(target)
		asPat, ok := pat.(ast.Pattern)
		if !ok {
			p.errorf(diagnostics.ErrInvalidPattern, p.curToken, "invalid destructuring element")
			continue
		}
		estart, eend := span(el)
		elems[i] = &ast.PatternElement{Base: base(estart, eend), Target: asPat, Default: def}
	}
	return &ast.ArrayPattern{Base: e.Base, Elements: elems}
}

// ---------------------------------------------------------------- validator

// checkBindingIdent rejects binding a reserved word, or `eval`/`arguments`
// in strict mode.
func (p *Parser) checkBindingIdent(target ast.Pattern) {
	id, ok := target.(*ast.Identifier)
	if !ok {
		return
	}
	if p.scope().Strict && (id.Name == "eval" || id.Name == "arguments") {
		p.errorf(diagnostics.ErrStrictViolation, p.curToken, "cannot bind %q in strict mode", id.Name)
	}
}

// checkAssignTarget rejects assigning to anything but an Identifier or
// MemberExpression.
func (p *Parser) checkAssignTarget(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if p.scope().Strict && (e.Name == "eval" || e.Name == "arguments") {
			p.errorf(diagnostics.ErrStrictViolation, p.curToken, "cannot assign to %q in strict mode", e.Name)
		}
	case *ast.MemberExpression:
		// always valid
	default:
		p.errorf(diagnostics.ErrInvalidPattern, p.curToken, "invalid assignment target")
	}
}

// checkParameters rejects duplicate parameter names, required in strict
// mode and for any non-simple parameter list.
func (p *Parser) checkParameters(params []ast.Node) {
	seen := map[string]bool{}
	simple := true
	for _, param := range params {
		var pat ast.Pattern
		switch pr := param.(type) {
		case *ast.FormalParameter:
			pat = pr.Pattern
			if pr.Default != nil {
				simple = false
			}
		case *ast.RestParameter:
			pat = pr.Argument
			simple = false
		}
		if _, ok := pat.(*ast.Identifier); !ok {
			simple = false
		}
		collectBoundNames(pat, func(name string) {
			if seen[name] && (p.scope().Strict || !simple) {
				p.errorf(diagnostics.ErrDuplicateName, p.curToken, "duplicate parameter name %q", name)
			}
			seen[name] = true
		})
	}
}

func collectBoundNames(pat ast.Node, fn func(string)) {
	switch n := pat.(type) {
	case *ast.Identifier:
		fn(n.Name)
	case *ast.ArrayPattern:
		for _, el := range n.Elements {
			collectBoundNames(el, fn)
		}
	case *ast.ObjectPattern:
		for _, prop := range n.Properties {
			collectBoundNames(prop, fn)
		}
	case *ast.PatternElement:
		collectBoundNames(n.Target, fn)
	case *ast.PatternProperty:
		if n.Value != nil {
			collectBoundNames(n.Value, fn)
		}
	case *ast.PatternRestElement:
		collectBoundNames(n.Argument, fn)
	}
}

// checkForInit rejects a destructuring pattern with no initializer in a
// plain (non-for-in/for-of) for-statement head, and rejects any
// initializer at all on a for-in/for-of left-hand declaration
// (diagnostics.ErrConstMissingInit / ErrInvalidDestructuringInitFor).
func (p *Parser) checkForInit(decl *ast.VariableDeclaration, isForInOf bool) {
	for _, d := range decl.Declarations {
		_, isIdent := d.ID.(*ast.Identifier)
		isPattern := !isIdent
		if isForInOf {
			if d.Init != nil {
				p.errorf(diagnostics.ErrInvalidDestructuringInitFor, p.curToken, "for-in/for-of variable declaration may not have an initializer")
			}
			continue
		}
		if isPattern && d.Init == nil {
			p.errorf(diagnostics.ErrInvalidPattern, p.curToken, "destructuring declaration requires an initializer")
		}
		if decl.Keyword == token.CONST && d.Init == nil {
			p.errorf(diagnostics.ErrConstMissingInit, p.curToken, "const declaration requires an initializer")
		}
	}
}
