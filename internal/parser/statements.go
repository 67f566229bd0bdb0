package parser

import (
	"github.com/funvibe/esdown/internal/ast"
	"github.com/funvibe/esdown/internal/diagnostics"
	"github.com/funvibe/esdown/internal/token"
)

func (p *Parser) parseStatement() ast.Statement {
	switch p.curToken.Type {
	case token.LBRACE:
		return p.parseBlock()
	case token.VAR, token.LET, token.CONST:
		return p.parseVariableStatement(false)
	case token.IF:
		return p.parseIfStatement()
	case token.FOR:
		return p.parseForStatement()
	case token.WHILE:
		return p.parseWhileStatement()
	case token.DO:
		return p.parseDoWhileStatement()
	case token.RETURN:
		return p.parseReturnStatement()
	case token.BREAK:
		return p.parseBreakStatement()
	case token.CONTINUE:
		return p.parseContinueStatement()
	case token.THROW:
		return p.parseThrowStatement()
	case token.TRY:
		return p.parseTryStatement()
	case token.SWITCH:
		return p.parseSwitchStatement()
	case token.WITH:
		return p.parseWithStatement()
	case token.DEBUGGER:
		return p.parseDebuggerStatement()
	case token.FUNCTION:
		return p.parseFunctionDeclaration(false)
	case token.CLASS:
		return p.parseClassDeclaration()
	case token.SEMICOLON:
		s := &ast.EmptyStatement{Base: base(p.curToken.Start, p.curToken.End)}
		p.nextToken()
		return s
	case token.IMPORT:
		return p.parseImportDeclaration()
	case token.EXPORT:
		return p.parseExportDeclaration()
	case token.MODULE:
		return p.parseModuleDeclaration()
	case token.ASYNC:
		if p.peekIs(token.FUNCTION) && !p.peekToken.NewlineBefore {
			start := p.curToken.Start
			p.nextToken()
			return p.parseFunctionDeclarationAsync(start, true)
		}
		return p.parseExpressionOrLabelledStatement()
	default:
		return p.parseExpressionOrLabelledStatement()
	}
}

func (p *Parser) parseBlock() *ast.Block {
	start := p.curToken.Start
	p.nextToken()
	body := p.parseStatementList(token.RBRACE)
	end := p.curToken.End
	p.nextToken()
	return &ast.Block{Base: base(start, end), Body: body}
}

func (p *Parser) parseExpressionOrLabelledStatement() ast.Statement {
	start := p.curToken.Start
	if p.curIs(token.IDENTIFIER) && p.peekIs(token.COLON) {
		label := &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value}
		p.nextToken()
		p.nextToken()
		p.scope().Labels[label.Name] = true
		body := p.parseStatement()
		delete(p.scope().Labels, label.Name)
		_, end := span(body)
		return &ast.LabelledStatement{Base: base(start, end), Label: label, Body: body}
	}

	directive := ""
	if p.curIs(token.STRING) {
		directive = p.curToken.Value
	}
	expr := p.parseCommaExpr()
	end := p.curToken.End
	if expr != nil {
		_, end = span(expr)
	}
	p.nextToken()
	p.consumeSemicolon()
	return &ast.ExpressionStatement{Base: base(start, end), Expression: expr, Directive: directive}
}

func (p *Parser) parseVariableStatement(noIn bool) *ast.VariableDeclaration {
	start := p.curToken.Start
	keyword := p.curToken.Type
	decl := p.parseVariableDeclarationList(keyword, start, noIn)
	if !noIn {
		p.nextToken()
		p.consumeSemicolon()
	}
	return decl
}

func (p *Parser) parseVariableDeclarationList(keyword token.Type, start int, noIn bool) *ast.VariableDeclaration {
	var decls []*ast.VariableDeclarator
	for {
		p.nextToken()
		dstart := p.curToken.Start
		target := p.parseBindingTarget()
		var init ast.Expression
		if p.peekIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			if noIn {
				p.scope().NoIn = true
			}
			init = p.parseAssignExpr()
			p.scope().NoIn = false
		}
		_, dend := span(target)
		if init != nil {
			_, dend = span(init)
		}
		decls = append(decls, &ast.VariableDeclarator{Base: base(dstart, dend), ID: target, Init: init})
		if p.peekIs(token.COMMA) {
			p.nextToken()
			continue
		}
		break
	}
	end := p.curToken.End
	decl := &ast.VariableDeclaration{Base: base(start, end), Keyword: keyword, Declarations: decls}
	p.checkForInit(decl, noIn)
	return decl
}

func (p *Parser) parseIfStatement() ast.Statement {
	start := p.curToken.Start
	p.expect(token.LPAREN)
	p.nextToken()
	test := p.parseCommaExpr()
	p.expect(token.RPAREN)
	p.nextToken()
	consequent := p.parseStatement()
	var alternate ast.Statement
	if p.curIs(token.ELSE) {
		p.nextToken()
		alternate = p.parseStatement()
	}
	end := p.curToken.Start
	if alternate != nil {
		_, end = span(alternate)
	} else {
		_, end = span(consequent)
	}
	return &ast.IfStatement{Base: base(start, end), Test: test, Consequent: consequent, Alternate: alternate}
}

func (p *Parser) parseWhileStatement() ast.Statement {
	start := p.curToken.Start
	p.expect(token.LPAREN)
	p.nextToken()
	test := p.parseCommaExpr()
	p.expect(token.RPAREN)
	p.nextToken()
	p.scope().InLoop = true
	body := p.parseStatement()
	_, end := span(body)
	return &ast.WhileStatement{Base: base(start, end), Test: test, Body: body}
}

func (p *Parser) parseDoWhileStatement() ast.Statement {
	start := p.curToken.Start
	p.nextToken()
	p.scope().InLoop = true
	body := p.parseStatement()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	p.nextToken()
	test := p.parseCommaExpr()
	p.expect(token.RPAREN)
	end := p.curToken.End
	p.nextToken()
	p.consumeSemicolon()
	return &ast.DoWhileStatement{Base: base(start, end), Body: body, Test: test}
}

// parseForStatement disambiguates plain for(;;), for-in and for-of by
// speculatively parsing the init clause.
func (p *Parser) parseForStatement() ast.Statement {
	start := p.curToken.Start
	p.expect(token.LPAREN)

	if p.peekIs(token.SEMICOLON) {
		p.nextToken()
		return p.finishPlainFor(start, nil)
	}

	if p.peekIs(token.VAR) || p.peekIs(token.LET) || p.peekIs(token.CONST) {
		p.nextToken()
		keyword := p.curToken.Type
		dstart := p.curToken.Start
		p.nextToken()
		target := p.parseBindingTarget()

		if p.curIs(token.IN) || p.curIs(token.OF) {
			isOf := p.curIs(token.OF)
			_, tend := span(target)
			decl := &ast.VariableDeclaration{Base: base(dstart, tend), Keyword: keyword,
				Declarations: []*ast.VariableDeclarator{{Base: base(dstart, tend), ID: target}}}
			return p.finishForInOf(start, decl, isOf)
		}

		// Plain for with a declaration init; continue parsing the rest of
		// the declarator list in NoIn mode, then reuse the standard tail.
		decl := p.parseRestOfDeclaratorList(keyword, dstart, target)
		p.expect(token.SEMICOLON)
		return p.finishPlainFor(start, decl)
	}

	p.nextToken()
	p.scope().NoIn = true
	left := p.parseCommaExpr()
	p.scope().NoIn = false

	if p.curIs(token.IN) || p.curIs(token.OF) {
		isOf := p.curIs(token.OF)
		pat := p.reinterpretAsPattern(left)
		asPat, ok := pat.(ast.Pattern)
		if !ok {
			p.checkAssignTarget(left)
			return p.finishForInOf(start, left, isOf)
		}
		return p.finishForInOf(start, asPat, isOf)
	}

	p.expect(token.SEMICOLON)
	return p.finishPlainFor(start, left)
}

func (p *Parser) parseRestOfDeclaratorList(keyword token.Type, dstart int, firstTarget ast.Pattern) *ast.VariableDeclaration {
	var init ast.Expression
	if p.peekIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		p.scope().NoIn = true
		init = p.parseAssignExpr()
		p.scope().NoIn = false
	}
	_, dend := span(firstTarget)
	if init != nil {
		_, dend = span(init)
	}
	decls := []*ast.VariableDeclarator{{Base: base(dstart, dend), ID: firstTarget, Init: init}}
	for p.peekIs(token.COMMA) {
		p.nextToken()
		p.nextToken()
		dstart2 := p.curToken.Start
		target := p.parseBindingTarget()
		var init2 ast.Expression
		if p.peekIs(token.ASSIGN) {
			p.nextToken()
			p.nextToken()
			init2 = p.parseAssignExpr()
		}
		_, dend2 := span(target)
		if init2 != nil {
			_, dend2 = span(init2)
		}
		decls = append(decls, &ast.VariableDeclarator{Base: base(dstart2, dend2), ID: target, Init: init2})
	}
	end := p.curToken.End
	decl := &ast.VariableDeclaration{Base: base(dstart, end), Keyword: keyword, Declarations: decls}
	p.checkForInit(decl, false)
	return decl
}

func (p *Parser) finishPlainFor(start int, init ast.Node) ast.Statement {
	p.nextToken()
	var test ast.Expression
	if !p.curIs(token.SEMICOLON) {
		test = p.parseCommaExpr()
		p.nextToken()
	}
	p.expect(token.SEMICOLON)
	p.nextToken()
	var update ast.Expression
	if !p.curIs(token.RPAREN) {
		update = p.parseCommaExpr()
		p.nextToken()
	}
	p.expect(token.RPAREN)
	p.nextToken()
	p.scope().InLoop = true
	body := p.parseStatement()
	_, end := span(body)
	return &ast.ForStatement{Base: base(start, end), Init: init, Test: test, Update: update, Body: body}
}

func (p *Parser) finishForInOf(start int, left ast.Node, isOf bool) ast.Statement {
	p.nextToken()
	p.nextToken()
	right := p.parseAssignExpr()
	p.expect(token.RPAREN)
	p.nextToken()
	p.scope().InLoop = true
	body := p.parseStatement()
	_, end := span(body)
	if isOf {
		return &ast.ForOfStatement{Base: base(start, end), Left: left, Right: right, Body: body,
			IterTemp: p.newTemp(), ResultTemp: p.newTemp()}
	}
	return &ast.ForInStatement{Base: base(start, end), Left: left, Right: right, Body: body}
}

func (p *Parser) parseReturnStatement() ast.Statement {
	start := p.curToken.Start
	if !p.scope().InFunction {
		p.errorf(diagnostics.ErrInvalidReturn, p.curToken, "return outside a function")
	}
	var arg ast.Expression
	if !p.peekTerminatesExpression() {
		p.nextToken()
		arg = p.parseCommaExpr()
	}
	end := p.curToken.End
	if arg != nil {
		_, end = span(arg)
	}
	p.nextToken()
	p.consumeSemicolon()
	return &ast.ReturnStatement{Base: base(start, end), Argument: arg}
}

func (p *Parser) parseBreakStatement() ast.Statement {
	start := p.curToken.Start
	var label *ast.Identifier
	if p.peekIs(token.IDENTIFIER) && !p.peekToken.NewlineBefore {
		p.nextToken()
		label = &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value}
		if !p.scope().Labels[label.Name] {
			p.errorf(diagnostics.ErrLabelUndefined, p.curToken, "undefined label %q", label.Name)
		}
	} else if !p.scope().InLoop && !p.scope().InSwitch {
		p.errorf(diagnostics.ErrInvalidBreak, p.curToken, "break outside a loop or switch")
	}
	end := p.curToken.End
	p.nextToken()
	p.consumeSemicolon()
	return &ast.BreakStatement{Base: base(start, end), Label: label}
}

func (p *Parser) parseContinueStatement() ast.Statement {
	start := p.curToken.Start
	var label *ast.Identifier
	if p.peekIs(token.IDENTIFIER) && !p.peekToken.NewlineBefore {
		p.nextToken()
		label = &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value}
		if !p.scope().Labels[label.Name] {
			p.errorf(diagnostics.ErrLabelUndefined, p.curToken, "undefined label %q", label.Name)
		}
	} else if !p.scope().InLoop {
		p.errorf(diagnostics.ErrInvalidContinue, p.curToken, "continue outside a loop")
	}
	end := p.curToken.End
	p.nextToken()
	p.consumeSemicolon()
	return &ast.ContinueStatement{Base: base(start, end), Label: label}
}

func (p *Parser) parseThrowStatement() ast.Statement {
	start := p.curToken.Start
	p.nextToken()
	arg := p.parseCommaExpr()
	_, end := span(arg)
	p.nextToken()
	p.consumeSemicolon()
	return &ast.ThrowStatement{Base: base(start, end), Argument: arg}
}

func (p *Parser) parseDebuggerStatement() ast.Statement {
	s := &ast.DebuggerStatement{Base: base(p.curToken.Start, p.curToken.End)}
	p.nextToken()
	p.consumeSemicolon()
	return s
}

func (p *Parser) parseWithStatement() ast.Statement {
	start := p.curToken.Start
	p.expect(token.LPAREN)
	p.nextToken()
	obj := p.parseCommaExpr()
	p.expect(token.RPAREN)
	p.nextToken()
	body := p.parseStatement()
	_, end := span(body)
	return &ast.WithStatement{Base: base(start, end), Object: obj, Body: body}
}

func (p *Parser) parseSwitchStatement() ast.Statement {
	start := p.curToken.Start
	p.expect(token.LPAREN)
	p.nextToken()
	disc := p.parseCommaExpr()
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)
	p.nextToken()

	p.scope().InSwitch = true
	var cases []*ast.SwitchCase
	seenDefault := false
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		cstart := p.curToken.Start
		var test ast.Expression
		if p.curIs(token.CASE) {
			p.nextToken()
			test = p.parseCommaExpr()
			p.nextToken()
		} else {
			p.expect(token.DEFAULT)
			if seenDefault {
				p.errorf(diagnostics.ErrDuplicateName, p.curToken, "more than one default clause in switch")
			}
			seenDefault = true
			p.nextToken()
		}
		p.expect(token.COLON)
		p.nextToken()
		var body []ast.Statement
		for !p.curIs(token.CASE) && !p.curIs(token.DEFAULT) && !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
			stmt := p.parseStatement()
			if stmt != nil {
				body = append(body, stmt)
			}
		}
		cases = append(cases, &ast.SwitchCase{Base: base(cstart, p.curToken.Start), Test: test, Consequent: body})
	}
	end := p.curToken.End
	p.nextToken()
	return &ast.SwitchStatement{Base: base(start, end), Discriminant: disc, Cases: cases}
}

func (p *Parser) parseTryStatement() ast.Statement {
	start := p.curToken.Start
	p.nextToken()
	block := p.parseBlock()
	var handler *ast.CatchClause
	var finalizer *ast.Block
	if p.curIs(token.CATCH) {
		cstart := p.curToken.Start
		p.nextToken()
		var param ast.Pattern
		if p.curIs(token.LPAREN) {
			p.nextToken()
			param = p.parseBindingTarget()
			p.expect(token.RPAREN)
			p.nextToken()
		}
		body := p.parseBlock()
		handler = &ast.CatchClause{Base: base(cstart, p.curToken.Start), Param: param, Body: body}
	}
	if p.curIs(token.FINALLY) {
		p.nextToken()
		finalizer = p.parseBlock()
	}
	end := p.curToken.Start
	return &ast.TryStatement{Base: base(start, end), Block: block, Handler: handler, Finalizer: finalizer}
}

// ---------------------------------------------------------------- functions

func (p *Parser) parseFunctionDeclaration(async bool) ast.Statement {
	return p.parseFunctionDeclarationAsync(p.curToken.Start, async)
}

func (p *Parser) parseFunctionDeclarationAsync(start int, async bool) ast.Statement {
	p.nextToken() // consume 'function'
	generator := false
	if p.curIs(token.STAR) {
		generator = true
		p.nextToken()
	}
	id := &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value, Context: ast.CtxDeclaration}
	p.checkBindingIdent(id)
	p.nextToken()

	p.pushScope(&Scope{Strict: p.scope().Strict, InFunction: true, InGenerator: generator, InAsync: async})
	params := p.parseParams()
	p.checkParameters(params)
	body := p.parseFunctionBody()
	p.popScope()

	fd := &ast.FunctionDeclaration{Base: base(start, p.curToken.Start), ID: id, Params: params, Body: body, Generator: generator, Async: async}
	return fd
}

// parseFunctionExpressionAsync parses `function`/`function*` expressions,
// with the leading `async` keyword (if any) already consumed by the
// caller's start offset.
func (p *Parser) parseFunctionExpressionAsync(start int) ast.Expression {
	async := p.curToken.Type == token.ASYNC
	if async {
		p.nextToken()
	}
	p.nextToken() // consume 'function'
	generator := false
	if p.curIs(token.STAR) {
		generator = true
		p.nextToken()
	}
	var id *ast.Identifier
	if p.curIs(token.IDENTIFIER) {
		id = &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value, Context: ast.CtxDeclaration}
		p.nextToken()
	}

	p.pushScope(&Scope{Strict: p.scope().Strict, InFunction: true, InGenerator: generator, InAsync: async})
	params := p.parseParams()
	p.checkParameters(params)
	body := p.parseFunctionBody()
	p.popScope()

	return &ast.FunctionExpression{Base: base(start, p.curToken.Start), ID: id, Params: params, Body: body, Generator: generator, Async: async}
}

// parseFunctionRest parses `(params) { body }` for a method definition,
// whose `function`/name/`*`/`async` prefix has already been consumed by
// the object-literal or class-body caller.
func (p *Parser) parseFunctionRest(start int, generator, async bool) *ast.FunctionExpression {
	p.pushScope(&Scope{Strict: p.scope().Strict, InFunction: true, InGenerator: generator, InAsync: async})
	params := p.parseParams()
	p.checkParameters(params)
	body := p.parseFunctionBody()
	p.popScope()
	return &ast.FunctionExpression{Base: base(start, p.curToken.Start), Params: params, Body: body, Generator: generator, Async: async}
}

func (p *Parser) parseParams() []ast.Node {
	p.expect(token.LPAREN)
	var params []ast.Node
	if p.peekIs(token.RPAREN) {
		p.nextToken()
		p.nextToken()
		return params
	}
	p.nextToken()
	for {
		if p.curIs(token.ELLIPSIS) {
			rstart := p.curToken.Start
			p.nextToken()
			target := p.parseBindingTarget()
			p.checkBindingIdent(target)
			_, rend := span(target)
			params = append(params, &ast.RestParameter{Base: base(rstart, rend), Argument: target})
			break
		}
		pstart := p.curToken.Start
		target := p.parseBindingTarget()
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
			p.nextToken()
			continue
		}
		break
	}
	p.expect(token.RPAREN)
	p.nextToken()
	return params
}

func (p *Parser) parseFunctionBody() *ast.FunctionBody {
	start := p.curToken.Start
	p.expect(token.LBRACE)
	p.nextToken()
	body := p.parseStatementList(token.RBRACE)
	end := p.curToken.End
	return &ast.FunctionBody{Base: base(start, end), Body: body}
}

// ---------------------------------------------------------------- classes

func (p *Parser) parseClassDeclaration() ast.Statement {
	start := p.curToken.Start
	p.nextToken()
	id := &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value, Context: ast.CtxDeclaration}
	p.nextToken()
	super, body := p.parseClassTail()
	return &ast.ClassDeclaration{Base: base(start, p.curToken.Start), ID: id, SuperClass: super, Body: body}
}

func (p *Parser) parseClassExpression() ast.Expression {
	start := p.curToken.Start
	p.nextToken()
	var id *ast.Identifier
	if p.curIs(token.IDENTIFIER) {
		id = &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value, Context: ast.CtxDeclaration}
		p.nextToken()
	}
	super, body := p.parseClassTail()
	return &ast.ClassExpression{Base: base(start, p.curToken.Start), ID: id, SuperClass: super, Body: body}
}

func (p *Parser) parseClassTail() (ast.Expression, *ast.ClassBody) {
	var super ast.Expression
	if p.curIs(token.EXTENDS) {
		p.nextToken()
		super = p.parseExpression(CALL)
		p.nextToken()
	}
	bodyStart := p.curToken.Start
	p.expect(token.LBRACE)
	p.nextToken()

	oldStrict := p.scope().Strict
	p.scope().Strict = true

	var elements []*ast.ClassElement
	staticComputed := 0
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if p.curIs(token.SEMICOLON) {
			p.nextToken()
			continue
		}
		estart := p.curToken.Start
		static := false
		if p.curIs(token.STATIC) && !p.peekIs(token.LPAREN) && !p.peekIs(token.ASSIGN) {
			static = true
			p.nextToken()
		}
		kind := ""
		async := false
		generator := false
		if (p.curToken.Type == token.GET || p.curToken.Type == token.SET) && !p.peekIs(token.LPAREN) {
			kind = p.curToken.Value
			p.nextToken()
		} else if p.curToken.Type == token.ASYNC && !p.peekIs(token.LPAREN) && !p.peekToken.NewlineBefore {
			async = true
			p.nextToken()
		}
		if p.curIs(token.STAR) {
			generator = true
			p.nextToken()
		}
		key, computed := p.parsePropertyKey()
		if computed && static {
			staticComputed++
		}
		fn := p.parseFunctionRest(estart, generator, async)
		if kind == "" {
			kind = "method"
		}
		if id, ok := key.(*ast.Identifier); ok && id.Name == "constructor" && !static {
			kind = ""
		}
		method := &ast.MethodDefinition{Base: base(estart, p.curToken.Start), Key: key, Computed: computed, Kind: kind, Static: static, Function: fn}
		elements = append(elements, &ast.ClassElement{Base: method.Base, Method: method, StaticComputedIndex: staticComputed})
	}
	p.scope().Strict = oldStrict

	bodyEnd := p.curToken.End
	p.nextToken()
	return super, &ast.ClassBody{Base: base(bodyStart, bodyEnd), Elements: elements}
}

// ---------------------------------------------------------------- modules

func (p *Parser) parseImportDeclaration() ast.Statement {
	start := p.curToken.Start
	p.nextToken()

	if p.curIs(token.IDENTIFIER) && !p.peekIs(token.COMMA) && !p.peekIs(token.LBRACE) {
		local := &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value, Context: ast.CtxDeclaration}
		p.expect(token.IDENTIFIER) // `from`, recognized positionally like the contextual keywords
		p.nextToken()
		src := p.parseStringLiteral().(*ast.StringLiteral)
		end := p.curToken.End
		p.nextToken()
		p.consumeSemicolon()
		return &ast.ModuleImport{Base: base(start, end), Local: local, Source: src}
	}

	p.expect(token.LBRACE)
	p.nextToken()
	var specs []*ast.ImportSpecifier
	for !p.curIs(token.RBRACE) {
		sstart := p.curToken.Start
		imported := &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value}
		local := imported
		if p.peekIs(token.IDENTIFIER) && p.peekToken.Value == "as" {
			p.nextToken()
			p.nextToken()
			local = &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value, Context: ast.CtxDeclaration}
		}
		specs = append(specs, &ast.ImportSpecifier{Base: base(sstart, p.curToken.End), Imported: imported, Local: local})
		if p.peekIs(token.COMMA) {
			p.nextToken()
			p.nextToken()
			continue
		}
		p.nextToken()
		break
	}
	p.expect(token.IDENTIFIER) // `from`
	p.nextToken()
	src := p.parseStringLiteral().(*ast.StringLiteral)
	end := p.curToken.End
	p.nextToken()
	p.consumeSemicolon()
	return &ast.ImportDeclaration{Base: base(start, end), Specifiers: specs, Source: src}
}

func (p *Parser) parseExportDeclaration() ast.Statement {
	start := p.curToken.Start
	p.nextToken()

	if p.curIs(token.STAR) {
		p.nextToken()
		p.expect(token.IDENTIFIER) // `from`
		p.nextToken()
		src := p.parseStringLiteral().(*ast.StringLiteral)
		end := p.curToken.End
		p.nextToken()
		p.consumeSemicolon()
		return &ast.ExportDeclaration{Base: base(start, end), All: true, Source: src}
	}

	if p.curIs(token.LBRACE) {
		p.nextToken()
		var specs []*ast.ExportSpecifier
		for !p.curIs(token.RBRACE) {
			sstart := p.curToken.Start
			local := &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value}
			exported := local
			if p.peekIs(token.IDENTIFIER) && p.peekToken.Value == "as" {
				p.nextToken()
				p.nextToken()
				exported = &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value}
			}
			specs = append(specs, &ast.ExportSpecifier{Base: base(sstart, p.curToken.End), Local: local, Exported: exported})
			if p.peekIs(token.COMMA) {
				p.nextToken()
				p.nextToken()
				continue
			}
			p.nextToken()
			break
		}
		specSet := &ast.ExportSpecifierSet{Specifiers: specs}
		var src *ast.StringLiteral
		if p.peekIs(token.IDENTIFIER) && p.peekToken.Value == "from" {
			p.nextToken()
			p.nextToken()
			src = p.parseStringLiteral().(*ast.StringLiteral)
		}
		end := p.curToken.End
		p.nextToken()
		p.consumeSemicolon()
		return &ast.ExportDeclaration{Base: base(start, end), Specifiers: specSet, Source: src}
	}

	if p.curIs(token.DEFAULT) {
		p.nextToken()
		var decl ast.Statement
		switch p.curToken.Type {
		case token.FUNCTION:
			decl = p.parseFunctionDeclaration(false)
		case token.CLASS:
			decl = p.parseClassDeclaration()
		default:
			estart := p.curToken.Start
			expr := p.parseAssignExpr()
			_, eend := span(expr)
			p.nextToken()
			p.consumeSemicolon()
			decl = &ast.ExpressionStatement{Base: base(estart, eend), Expression: expr}
		}
		_, end := span(decl)
		return &ast.ExportDeclaration{Base: base(start, end), Declaration: decl}
	}

	var decl ast.Statement
	switch p.curToken.Type {
	case token.VAR, token.LET, token.CONST:
		decl = p.parseVariableStatement(false)
	case token.FUNCTION:
		decl = p.parseFunctionDeclaration(false)
	case token.CLASS:
		decl = p.parseClassDeclaration()
	case token.MODULE:
		decl = p.parseModuleDeclaration()
	case token.ASYNC:
		fstart := p.curToken.Start
		p.nextToken()
		decl = p.parseFunctionDeclarationAsync(fstart, true)
	default:
		p.errorf(diagnostics.ErrUnexpectedToken, p.curToken, "invalid export")
	}
	_, end := span(decl)
	return &ast.ExportDeclaration{Base: base(start, end), Declaration: decl}
}

func (p *Parser) parseModuleDeclaration() ast.Statement {
	start := p.curToken.Start
	p.nextToken()

	if p.curIs(token.STRING) {
		name := p.parseStringLiteral().(*ast.StringLiteral)
		p.nextToken()
		p.expect(token.LBRACE)
		p.nextToken()
		body := p.parseStatementList(token.RBRACE)
		end := p.curToken.End
		p.nextToken()
		return &ast.ModuleDeclaration{Base: base(start, end), Name: name, Body: body}
	}

	id := &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value, Context: ast.CtxDeclaration}

	if p.peekIs(token.IDENTIFIER) && p.peekToken.Value == "from" {
		p.nextToken()
		p.nextToken()
		path := p.parseStringLiteral().(*ast.StringLiteral)
		end := p.curToken.End
		p.nextToken()
		p.consumeSemicolon()
		return &ast.ModuleRegistration{Base: base(start, end), ID: id, Path: path}
	}

	if p.peekIs(token.ASSIGN) {
		p.nextToken()
		p.nextToken()
		pstart := p.curToken.Start
		parts := []*ast.Identifier{{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value}}
		for p.peekIs(token.DOT) {
			p.nextToken()
			p.nextToken()
			parts = append(parts, &ast.Identifier{Base: base(p.curToken.Start, p.curToken.End), Name: p.curToken.Value})
		}
		path := &ast.ModulePath{Base: base(pstart, p.curToken.End), Parts: parts}
		end := p.curToken.End
		p.nextToken()
		p.consumeSemicolon()
		return &ast.ModuleAlias{Base: base(start, end), ID: id, Path: path}
	}

	p.nextToken()
	p.expect(token.LBRACE)
	p.nextToken()
	body := p.parseStatementList(token.RBRACE)
	end := p.curToken.End
	p.nextToken()
	return &ast.ModuleDeclaration{Base: base(start, end), ID: id, Body: body}
}
