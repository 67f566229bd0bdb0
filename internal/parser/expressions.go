package parser

import (
	"strconv"

	"github.com/funvibe/esdown/internal/ast"
	"github.com/funvibe/esdown/internal/diagnostics"
	"github.com/funvibe/esdown/internal/token"
)

func span(n ast.Node) (int, int) {
	if n == nil {
		return 0, 0
	}
	return n.Span()
}

func base(start, end int) ast.Base { return ast.Base{Start: start, End: end} }

// parseExpression is the Pratt core: parse one prefix, then fold in
// infixes whose precedence exceeds the caller's floor.
func (p *Parser) parseExpression(precedence int) ast.Expression {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.errorf(diagnostics.ErrUnexpectedToken, p.curToken, "unexpected token %s in expression", p.curToken.Type)
		return nil
	}
	left := prefix()

	for precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return left
		}
		p.nextToken()
		left = infix(left)
	}
	return left
}

// parseAssignExpr parses a single assignment-level expression (no comma).
func (p *Parser) parseAssignExpr() ast.Expression {
	return p.parseExpression(COMMA)
}

// parseCommaExpr parses a full comma-separated expression, producing a
// SequenceExpression when more than one element is present.
func (p *Parser) parseCommaExpr() ast.Expression {
	start := p.curToken.Start
	first := p.parseAssignExpr()
	if !p.peekIs(token.COMMA) {
		return first
	}
	exprs := []ast.Expression{first}
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		exprs = append(exprs, p.parseAssignExpr())
	}
	_, end := span(exprs[len(exprs)-1])
	return &ast.SequenceExpression{Base: base(start, end), Expressions: exprs}
}

func (p *Parser) parseIdentifierExpression() ast.Expression {
	if p.peekIs(token.ARROW) && !p.peekToken.NewlineBefore {
		return p.parseArrowFromHead(p.curToken.Start, false)
	}
	return &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value, Context: ast.CtxVariable}
}

func (p *Parser) parseNumberLiteral() ast.Expression {
	return &ast.NumberLiteral{Base: base(p.curToken.Start, p.curToken.End), Value: p.curToken.Number, Raw: p.stream.Raw(p.curToken)}
}

func (p *Parser) parseStringLiteral() ast.Expression {
	return &ast.StringLiteral{Base: base(p.curToken.Start, p.curToken.End), Value: p.curToken.Value, Raw: p.stream.Raw(p.curToken)}
}

func (p *Parser) parseRegexLiteral() ast.Expression {
	return &ast.RegularExpression{Base: base(p.curToken.Start, p.curToken.End), Pattern: p.curToken.Value, Flags: p.curToken.RegExpFlags}
}

func (p *Parser) parseNullLiteral() ast.Expression {
	return &ast.Null{Base: base(p.curToken.Start, p.curToken.End)}
}

func (p *Parser) parseBooleanLiteral() ast.Expression {
	return &ast.Boolean{Base: base(p.curToken.Start, p.curToken.End), Value: p.curToken.Type == token.TRUE}
}

func (p *Parser) parseThisExpression() ast.Expression {
	return &ast.ThisExpression{Base: base(p.curToken.Start, p.curToken.End)}
}

func (p *Parser) parseSuperExpression() ast.Expression {
	return &ast.SuperExpression{Base: base(p.curToken.Start, p.curToken.End)}
}

// parseTemplateLiteral handles the head piece and repeatedly resumes
// scanning through the stream's template-continuation mode, which
// nextToken() drives once templateStack records that this `${` is open.
func (p *Parser) parseTemplateLiteral() ast.Expression {
	start := p.curToken.Start
	te := &ast.TemplateExpression{}
	te.Start = start

	for {
		quasi := &ast.Template{
			Base:   base(p.curToken.Start, p.curToken.End),
			Cooked: p.curToken.Value,
			Raw:    p.stream.Raw(p.curToken),
			Tail:   p.curToken.TemplateEnd,
		}
		te.Quasis = append(te.Quasis, quasi)
		if p.curToken.TemplateEnd {
			te.End = p.curToken.End
			break
		}
		// This piece ends in `${`; open a substitution and parse it as a
		// full expression up to the matching `}`.
		p.templateStack = append(p.templateStack, p.braceDepth)
		p.nextToken()
		expr := p.parseCommaExpr()
		te.Expressions = append(te.Expressions, expr)
		if !p.expect(token.RBRACE) {
			break
		}
		// nextToken(), invoked by expect() above via the parser main loop on
		// the caller side, already resumed template scanning for us because
		// curToken lands on RBRACE with templateStack primed; the token now
		// sitting in curToken is the next Template piece.
	}
	return te
}

// parseTaggedTemplate handles `` tag`...` ``: curToken is already the
// template's opening piece when this infix fires, since TEMPLATE is
// registered at MEMBER precedence with no intervening operator token.
func (p *Parser) parseTaggedTemplate(left ast.Expression) ast.Expression {
	start, _ := span(left)
	tmpl := p.parseTemplateLiteral().(*ast.TemplateExpression)
	_, end := span(tmpl)
	return &ast.TaggedTemplateExpression{Base: base(start, end), Tag: left, Template: tmpl}
}

func (p *Parser) parseYieldExpression() ast.Expression {
	start := p.curToken.Start
	delegate := false
	if p.peekIs(token.STAR) {
		p.nextToken()
		delegate = true
	}
	var arg ast.Expression
	if !p.curToken.NewlineBefore && !p.peekTerminatesExpression() {
		p.nextToken()
		arg = p.parseAssignExpr()
	}
	end := p.curToken.End
	if arg != nil {
		_, end = span(arg)
	}
	return &ast.YieldExpression{Base: base(start, end), Argument: arg, Delegate: delegate}
}

// peekTerminatesExpression reports whether the token after the current one
// cannot start an expression, used by yield/return/break/continue to decide
// whether an operand follows on the same line.
func (p *Parser) peekTerminatesExpression() bool {
	switch p.peekToken.Type {
	case token.SEMICOLON, token.RBRACE, token.RPAREN, token.RBRACKET, token.COMMA, token.COLON, token.EOF:
		return true
	}
	return p.peekToken.NewlineBefore
}

func (p *Parser) parseAwaitExpression() ast.Expression {
	start := p.curToken.Start
	p.nextToken()
	arg := p.parseExpression(UNARY)
	_, end := span(arg)
	return &ast.UnaryExpression{Base: base(start, end), Operator: token.AWAIT, Argument: arg}
}

func (p *Parser) parseUnaryExpression() ast.Expression {
	op := p.curToken.Type
	start := p.curToken.Start
	p.nextToken()
	arg := p.parseExpression(UNARY)
	_, end := span(arg)
	return &ast.UnaryExpression{Base: base(start, end), Operator: op, Argument: arg}
}

func (p *Parser) parseUpdateExpressionPrefix() ast.Expression {
	op := p.curToken.Type
	start := p.curToken.Start
	p.nextToken()
	arg := p.parseExpression(UNARY)
	_, end := span(arg)
	p.checkAssignTarget(arg)
	return &ast.UpdateExpression{Base: base(start, end), Operator: op, Argument: arg, Prefix: true}
}

func (p *Parser) parseUpdateExpressionPostfix(left ast.Expression) ast.Expression {
	p.checkAssignTarget(left)
	start, _ := span(left)
	return &ast.UpdateExpression{Base: base(start, p.curToken.End), Operator: p.curToken.Type, Argument: left, Prefix: false}
}

func (p *Parser) parseSpreadExpression() ast.Expression {
	start := p.curToken.Start
	p.nextToken()
	arg := p.parseAssignExpr()
	_, end := span(arg)
	return &ast.SpreadExpression{Base: base(start, end), Argument: arg}
}

func (p *Parser) parseBinaryExpression(left ast.Expression) ast.Expression {
	op := p.curToken.Type
	precedence := p.curPrecedence()
	start, _ := span(left)
	p.nextToken()
	right := p.parseExpression(precedence)
	_, end := span(right)
	return &ast.BinaryExpression{Base: base(start, end), Operator: op, Left: left, Right: right}
}

func (p *Parser) parseConditionalExpression(test ast.Expression) ast.Expression {
	start, _ := span(test)
	p.nextToken()
	consequent := p.parseAssignExpr()
	if !p.expect(token.COLON) {
		return consequent
	}
	p.nextToken()
	alternate := p.parseAssignExpr()
	_, end := span(alternate)
	return &ast.ConditionalExpression{Base: base(start, end), Test: test, Consequent: consequent, Alternate: alternate}
}

func (p *Parser) parseAssignmentExpression(left ast.Expression) ast.Expression {
	op := p.curToken.Type
	start, _ := span(left)

	if op == token.ASSIGN {
		left = p.reinterpretAsPattern(left)
	} else {
		p.checkAssignTarget(left)
	}

	p.nextToken()
	right := p.parseAssignExpr()
	_, end := span(right)
	return &ast.AssignmentExpression{Base: base(start, end), Operator: op, Left: left, Right: right}
}

func (p *Parser) parseMemberExpression(left ast.Expression) ast.Expression {
	start, _ := span(left)
	if !p.expect(token.IDENTIFIER) {
		// Allow any reserved word as a property name (`a.class` is valid).
		p.nextToken()
	}
	prop := &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value}
	_, superLookup := left.(*ast.SuperExpression)
	return &ast.MemberExpression{Base: base(start, p.curToken.End), Object: left, Property: prop, IsSuperLookup: superLookup}
}

func (p *Parser) parseComputedMemberExpression(left ast.Expression) ast.Expression {
	start, _ := span(left)
	p.nextToken()
	prop := p.parseCommaExpr()
	if !p.expect(token.RBRACKET) {
		return left
	}
	_, superLookup := left.(*ast.SuperExpression)
	return &ast.MemberExpression{Base: base(start, p.curToken.End), Object: left, Property: prop, Computed: true, IsSuperLookup: superLookup}
}

func (p *Parser) parseArguments() ([]ast.Expression, bool) {
	var args []ast.Expression
	hasSpread := false
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return args, hasSpread
	}
	p.nextToken()
	for {
		if p.curIs(token.ELLIPSIS) {
			hasSpread = true
			args = append(args, p.parseSpreadExpression())
		} else {
			args = append(args, p.parseAssignExpr())
		}
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	return args, hasSpread
}

func (p *Parser) parseCallExpression(left ast.Expression) ast.Expression {
	start, _ := span(left)
	args, hasSpread := p.parseArguments()
	_, isSuper := left.(*ast.SuperExpression)
	return &ast.CallExpression{Base: base(start, p.curToken.End), Callee: left, Arguments: args, HasSpreadArg: hasSpread, IsSuperCall: isSuper}
}

func (p *Parser) parseNewExpression() ast.Expression {
	start := p.curToken.Start
	p.nextToken()
	if p.curIs(token.DOT) {
		// `new.target`: treated as a plain member access on a synthetic
		// identifier; the replacer leaves it untouched since the target
		// dialect supports it natively.
		p.nextToken()
		p.nextToken()
		return &ast.MemberExpression{Base: base(start, p.curToken.End),
			Object:   &ast.Identifier{Base: base(start, start), Name: "new"},
			Property: &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value}}
	}
	callee := p.parseExpression(CALL)
	var args []ast.Expression
	hasSpread := false
	if p.peekIs(token.LPAREN) {
		p.nextToken()
		args, hasSpread = p.parseArguments()
	}
	return &ast.NewExpression{Base: base(start, p.curToken.End), Callee: callee, Arguments: args, HasSpreadArg: hasSpread}
}

func (p *Parser) parseAsyncExpression() ast.Expression {
	// `async` is contextual (token.ASYNC never reserved by the scanner
	// outside this recognition point): `async function`, `async (...) =>`,
	// `async ident =>`, or plain identifier use.
	start := p.curToken.Start
	if p.peekIs(token.FUNCTION) && !p.peekToken.NewlineBefore {
		p.nextToken()
		return p.parseFunctionExpressionAsync(start)
	}
	if !p.peekToken.NewlineBefore {
		if p.peekIs(token.LPAREN) && p.arrowAheadFrom(0) {
			p.nextToken()
			return p.parseArrowFromHead(start, true)
		}
		if p.peekIs(token.IDENTIFIER) {
			next := p.tokenAt(1)
			if next.Type == token.ARROW && !next.NewlineBefore {
				p.nextToken()
				return p.parseArrowFromHead(start, true)
			}
		}
	}
	return &ast.Identifier{Base: base(start, p.curToken.End), Name: "async", Context: ast.CtxVariable}
}

func (p *Parser) parseFunctionExpression() ast.Expression {
	return p.parseFunctionExpressionAsync(p.curToken.Start)
}

func (p *Parser) parseArrayLiteralOrComprehension() ast.Expression {
	start := p.curToken.Start
	if p.peekIs(token.RBRACKET) {
		p.nextToken()
		return &ast.ArrayExpression{Base: base(start, p.curToken.End)}
	}

	p.nextToken()
	first := p.parseAssignExprOrElision()

	if p.curIs(token.FOR) {
		return p.parseComprehensionTail(start, first, false)
	}

	elems := []ast.Expression{first}
	for p.peekIs(token.COMMA) {
		p.nextToken()
		if p.peekIs(token.RBRACKET) {
			elems = append(elems, nil)
			break
		}
		p.nextToken()
		elems = append(elems, p.parseAssignExprOrElision())
	}
	p.expect(token.RBRACKET)
	return &ast.ArrayExpression{Base: base(start, p.curToken.End), Elements: elems}
}

// parseAssignExprOrElision parses one array element, which may be a bare
// elision (two adjacent commas / a trailing comma) represented as nil, or
// a leading spread element.
func (p *Parser) parseAssignExprOrElision() ast.Expression {
	if p.curIs(token.COMMA) || p.curIs(token.RBRACKET) {
		return nil
	}
	if p.curIs(token.ELLIPSIS) {
		return p.parseSpreadExpression()
	}
	return p.parseAssignExpr()
}

func (p *Parser) parseComprehensionTail(start int, body ast.Expression, generator bool) ast.Expression {
	var blocks []ast.Node
	for p.curIs(token.FOR) || p.curIs(token.IF) {
		if p.curIs(token.FOR) {
			bstart := p.curToken.Start
			p.nextToken()
			left := p.parseBindingTarget()
			if !p.expect(token.OF) {
				break
			}
			p.nextToken()
			right := p.parseAssignExpr()
			blocks = append(blocks, &ast.ComprehensionFor{Base: base(bstart, p.curToken.End), Left: left, Right: right})
		} else {
			bstart := p.curToken.Start
			p.nextToken()
			p.expect(token.LPAREN)
			p.nextToken()
			test := p.parseAssignExpr()
			p.expect(token.RPAREN)
			blocks = append(blocks, &ast.ComprehensionIf{Base: base(bstart, p.curToken.End), Test: test})
		}
		p.nextToken()
	}
	end := p.curToken.End
	if generator {
		p.expect(token.RPAREN)
		return &ast.GeneratorComprehension{Base: base(start, end), Body: body, Blocks: blocks}
	}
	p.expect(token.RBRACKET)
	return &ast.ArrayComprehension{Base: base(start, end), Body: body, Blocks: blocks}
}

func (p *Parser) parseObjectLiteral() ast.Expression {
	start := p.curToken.Start
	var props []ast.Node
	if p.peekIs(token.RBRACE) {
		p.nextToken()
		return &ast.ObjectExpression{Base: base(start, p.curToken.End)}
	}
	p.nextToken()
	for {
		props = append(props, p.parseObjectMember())
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
	return &ast.ObjectExpression{Base: base(start, p.curToken.End), Properties: props}
}

func (p *Parser) parseObjectMember() ast.Node {
	start := p.curToken.Start

	if p.curIs(token.ELLIPSIS) {
		// Object spread, covered in the object-literal grammar directly
		// (desugared by the replacer into Object.assign-style copying).
		p.nextToken()
		arg := p.parseAssignExpr()
		return &ast.PropertyDefinition{Base: base(start, p.curToken.End), Value: &ast.SpreadExpression{Base: base(start, p.curToken.End), Argument: arg}}
	}

	kind := ""
	async := false
	generator := false
	if (p.curToken.Type == token.GET || p.curToken.Type == token.SET) && !p.peekIs(token.COLON) && !p.peekIs(token.LPAREN) && !p.peekIs(token.COMMA) && !p.peekIs(token.RBRACE) {
		kind = p.curToken.Value
		p.nextToken()
	} else if p.curToken.Type == token.ASYNC && !p.peekIs(token.COLON) && !p.peekIs(token.LPAREN) && !p.peekIs(token.COMMA) && !p.peekIs(token.RBRACE) && !p.peekToken.NewlineBefore {
		async = true
		p.nextToken()
	}
	if p.curIs(token.STAR) {
		generator = true
		p.nextToken()
	}

	key, computed := p.parsePropertyKey()

	if p.curIs(token.LPAREN) {
		fn := p.parseFunctionRest(start, generator, async)
		if kind == "" {
			kind = "method"
		}
		return &ast.MethodDefinition{Base: base(start, p.curToken.End), Key: key, Computed: computed, Kind: kind, Function: fn}
	}

	if p.peekIs(token.COLON) {
		p.nextToken()
		p.nextToken()
		val := p.parseAssignExpr()
		_, end := span(val)
		return &ast.PropertyDefinition{Base: base(start, end), Key: key, Value: val, Computed: computed}
	}

	// Shorthand: `{a}` or `{a = dflt}` (the latter only valid once
	// reinterpreted as a destructuring pattern by reinterpretAsPattern).
	id, ok := key.(*ast.Identifier)
	if !ok {
		p.errorf(diagnostics.ErrInvalidPattern, p.curToken, "invalid shorthand property")
		return &ast.PropertyDefinition{Base: base(start, p.curToken.End)}
	}
	if p.peekIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		def := p.parseAssignExpr()
		_, end := span(def)
		return &ast.CoveredPatternProperty{Base: base(start, end), Key: id, Default: def}
	}
	return &ast.PropertyDefinition{Base: base(start, p.curToken.End), Key: id, Value: id, Shorthand: true}
}

func (p *Parser) parsePropertyKey() (ast.Expression, bool) {
	if p.curIs(token.LBRACKET) {
		start := p.curToken.Start
		p.nextToken()
		expr := p.parseAssignExpr()
		p.expect(token.RBRACKET)
		return &ast.ComputedPropertyName{Base: base(start, p.curToken.End), Expression: expr}, true
	}
	if p.curIs(token.STRING) {
		return &ast.StringLiteral{Base: base(p.curToken.Start, p.curToken.End), Value: p.curToken.Value, Raw: p.stream.Raw(p.curToken)}, false
	}
	if p.curIs(token.NUMBER) {
		return &ast.NumberLiteral{Base: base(p.curToken.Start, p.curToken.End), Value: p.curToken.Number, Raw: p.stream.Raw(p.curToken)}, false
	}
	return &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value}, false
}

// parseParenOrArrow disambiguates a parenthesized expression from an
// arrow-function parameter list using unbounded, non-destructive
// lookahead (tokenAt/arrowAheadFrom) so the fallback parenthesized-
// expression parse never has to undo anything.
func (p *Parser) parseParenOrArrow() ast.Expression {
	start := p.curToken.Start
	if p.arrowAheadFrom(-1) {
		return p.parseArrowFromHead(start, false)
	}

	p.nextToken()
	expr := p.parseCommaExpr()
	p.expect(token.RPAREN)
	return &ast.ParenExpression{Base: base(start, p.curToken.End), Expression: expr}
}

// tokenAt returns the token i positions ahead of curToken (i == -1 is
// curToken itself, i == 0 is peekToken), consulting the stream's
// lookahead buffer for i > 0 without consuming anything.
func (p *Parser) tokenAt(i int) token.Token {
	switch {
	case i == -1:
		return p.curToken
	case i == 0:
		return p.peekToken
	default:
		peeked := p.stream.Peek(i)
		if i-1 < len(peeked) {
			return peeked[i-1]
		}
		return token.Token{Type: token.EOF}
	}
}

// arrowAheadFrom reports whether the balanced '(' at virtual index openIdx
// is immediately followed by '=>', by walking forward counting nested
// parens until they close.
func (p *Parser) arrowAheadFrom(openIdx int) bool {
	depth := 1
	i := openIdx + 1
	for depth > 0 {
		t := p.tokenAt(i)
		if t.Type == token.EOF {
			return false
		}
		switch t.Type {
		case token.LPAREN:
			depth++
		case token.RPAREN:
			depth--
		}
		i++
	}
	next := p.tokenAt(i)
	return next.Type == token.ARROW && !next.NewlineBefore
}

// parseArrowFromHead commits to parsing an arrow function once the lookahead
// helpers above have confirmed one is present; curToken is either the
// opening '(' of a parameter list or a single bare identifier parameter.
func (p *Parser) parseArrowFromHead(start int, async bool) ast.Expression {
	var params []ast.Node
	if p.curIs(token.LPAREN) {
		ps, ok := p.parseParenParamList()
		if !ok {
			p.errorf(diagnostics.ErrInvalidPattern, p.curToken, "invalid arrow function parameter list")
		}
		params = ps
		if !p.expect(token.ARROW) {
			return nil
		}
	} else {
		id := &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value, Context: ast.CtxDeclaration}
		params = []ast.Node{&ast.FormalParameter{Base: id.Base, Pattern: id}}
		p.nextToken() // curToken -> '=>'
	}
	p.nextToken() // curToken -> first token of the body

	p.pushScope(&Scope{Strict: p.scope().Strict, InFunction: true, InAsync: async})
	defer p.popScope()
	p.checkParameters(params)
	for _, param := range params {
		if fp, ok := param.(*ast.FormalParameter); ok {
			p.checkBindingIdent(fp.Pattern)
		}
	}

	if p.curIs(token.LBRACE) {
		body := p.parseFunctionBody()
		return &ast.ArrowFunction{Base: base(start, p.curToken.Start), Params: params, Body: body, Async: async}
	}
	body := p.parseAssignExpr()
	_, end := span(body)
	return &ast.ArrowFunction{Base: base(start, end), Params: params, Body: body, ExpressionBody: true, Async: async}
}

// parseParenParamList speculatively parses `(...)` as an arrow parameter
// list. It returns ok=false (without consuming past the matching `)`'s
// position semantics) when the contents can't form a parameter list.
func (p *Parser) parseParenParamList() ([]ast.Node, bool) {
	var params []ast.Node
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		return params, true
	}
	p.nextToken()
	for {
		if p.curIs(token.ELLIPSIS) {
			start := p.curToken.Start
			p.nextToken()
			target := p.parseBindingTarget()
			if target == nil {
				return nil, false
			}
			_, end := span(target)
			params = append(params, &ast.RestParameter{Base: base(start, end), Argument: target})
			if !p.peekIs(token.RPAREN) {
				return nil, false
			}
			p.nextToken()
			break
		}
		pstart := p.curToken.Start
		target := p.parseBindingTargetMaybe()
		if target == nil {
			return nil, false
		}
		var def ast.Expression
		if p.peekIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			def = p.parseAssignExpr()
		}
		_, pend := span(target)
		if def != nil {
			_, pend = span(def)
		}
		params = append(params, &ast.FormalParameter{Base: base(pstart, pend), Pattern: target, Default: def})
		if p.peekIs(token.COMMA) {
			p.nextToken()
			if p.peekIs(token.RPAREN) {
				p.nextToken()
				break
			}
			p.nextToken()
			continue
		}
		if !p.peekIs(token.RPAREN) {
			return nil, false
		}
		p.nextToken()
		break
	}
	return params, true
}

// parseNumberFromRaw is used when the replacer needs to recompute a
// numeric literal's text form (e.g. when synthesizing AST nodes during
// desugaring) rather than trusting the scanner's Raw slice.
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
