// Package parser turns a token stream into an AST.
//
// A Pratt/precedence-climbing core (prefixParseFns/infixParseFns maps,
// curToken/peekToken, a precedences table) plus a scope stack tracking
// strict mode, labels, and the function/loop/switch context a
// return/break/continue must validate against.
package parser

import (
	"github.com/funvibe/esdown/internal/ast"
	"github.com/funvibe/esdown/internal/diagnostics"
	"github.com/funvibe/esdown/internal/pipeline"
	"github.com/funvibe/esdown/internal/token"
)

type (
	prefixParseFn func() ast.Expression
	infixParseFn  func(ast.Expression) ast.Expression
)

// Precedence levels, lowest to highest.
const (
	LOWEST = iota
	COMMA
	ASSIGN
	CONDITIONAL
	LOGICAL_OR
	LOGICAL_AND
	BIT_OR
	BIT_XOR
	BIT_AND
	EQUALITY
	RELATIONAL
	SHIFT
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	POSTFIX
	CALL   // f(...)
	MEMBER // a.b, a[b]
)

var precedences = map[token.Type]int{
	token.ASSIGN: ASSIGN, token.PLUS_ASSIGN: ASSIGN, token.MINUS_ASSIGN: ASSIGN,
	token.TIMES_ASSIGN: ASSIGN, token.DIV_ASSIGN: ASSIGN, token.MOD_ASSIGN: ASSIGN,
	token.SHL_ASSIGN: ASSIGN, token.SHR_ASSIGN: ASSIGN, token.USHR_ASSIGN: ASSIGN,
	token.AND_ASSIGN: ASSIGN, token.OR_ASSIGN: ASSIGN, token.XOR_ASSIGN: ASSIGN,

	token.QUESTION: CONDITIONAL,

	token.LOGICAL_OR:  LOGICAL_OR,
	token.LOGICAL_AND: LOGICAL_AND,

	token.BIT_OR:  BIT_OR,
	token.BIT_XOR: BIT_XOR,
	token.BIT_AND: BIT_AND,

	token.EQ: EQUALITY, token.NOT_EQ: EQUALITY, token.STRICT_EQ: EQUALITY, token.STRICT_NOT_EQ: EQUALITY,

	token.LT: RELATIONAL, token.GT: RELATIONAL, token.LTE: RELATIONAL, token.GTE: RELATIONAL,
	token.INSTANCEOF: RELATIONAL, token.IN: RELATIONAL,

	token.SHL: SHIFT, token.SHR: SHIFT, token.USHR: SHIFT,

	token.PLUS: ADDITIVE, token.MINUS: ADDITIVE,

	token.STAR: MULTIPLICATIVE, token.SLASH: MULTIPLICATIVE, token.PERCENT: MULTIPLICATIVE,

	token.LPAREN: CALL, token.DOT: MEMBER, token.LBRACKET: MEMBER,

	// A template literal directly following an expression is a tagged
	// template (`` tag`...` ``); binds as tightly as a call.
	token.TEMPLATE: MEMBER,
}

// Scope is one entry of the parser's context stack: strict mode, whether
// we're directly inside a function, the active label set,
// whether we're inside a loop/switch (for break/continue validation), and
// deferred cover-grammar failures that only matter if reinterpreted as an
// arrow parameter list.
type Scope struct {
	Strict      bool
	InFunction  bool
	InLoop      bool
	InSwitch    bool
	InGenerator bool
	InAsync     bool
	Labels      map[string]bool
	NoIn        bool // true while parsing a for-statement's init clause
}

// Parser holds parser state.
type Parser struct {
	stream    *Stream
	curToken  token.Token
	peekToken token.Token
	ctx       *pipeline.PipelineContext

	prefixParseFns map[token.Type]prefixParseFn
	infixParseFns  map[token.Type]infixParseFn

	scopes []*Scope

	braceDepth    int
	templateStack []int // brace depths at which an open `${` substitution began

	tempCounter int
}

func New(stream *Stream, ctx *pipeline.PipelineContext) *Parser {
	p := &Parser{
		stream: stream,
		ctx:    ctx,
		scopes: []*Scope{{Labels: map[string]bool{}}},
	}

	p.prefixParseFns = make(map[token.Type]prefixParseFn)
	p.registerPrefix(token.IDENTIFIER, p.parseIdentifierExpression)
	p.registerPrefix(token.LET, p.parseIdentifierExpression)
	p.registerPrefix(token.STATIC, p.parseIdentifierExpression)
	p.registerPrefix(token.YIELD, p.parseYieldExpression)
	p.registerPrefix(token.NUMBER, p.parseNumberLiteral)
	p.registerPrefix(token.STRING, p.parseStringLiteral)
	p.registerPrefix(token.TEMPLATE, p.parseTemplateLiteral)
	p.registerPrefix(token.REGEX, p.parseRegexLiteral)
	p.registerPrefix(token.NULL, p.parseNullLiteral)
	p.registerPrefix(token.TRUE, p.parseBooleanLiteral)
	p.registerPrefix(token.FALSE, p.parseBooleanLiteral)
	p.registerPrefix(token.THIS, p.parseThisExpression)
	p.registerPrefix(token.SUPER, p.parseSuperExpression)
	p.registerPrefix(token.LPAREN, p.parseParenOrArrow)
	p.registerPrefix(token.LBRACKET, p.parseArrayLiteralOrComprehension)
	p.registerPrefix(token.LBRACE, p.parseObjectLiteral)
	p.registerPrefix(token.FUNCTION, p.parseFunctionExpression)
	p.registerPrefix(token.CLASS, p.parseClassExpression)
	p.registerPrefix(token.NEW, p.parseNewExpression)
	p.registerPrefix(token.MINUS, p.parseUnaryExpression)
	p.registerPrefix(token.PLUS, p.parseUnaryExpression)
	p.registerPrefix(token.LOGICAL_NOT, p.parseUnaryExpression)
	p.registerPrefix(token.BIT_NOT, p.parseUnaryExpression)
	p.registerPrefix(token.TYPEOF, p.parseUnaryExpression)
	p.registerPrefix(token.VOID, p.parseUnaryExpression)
	p.registerPrefix(token.DELETE, p.parseUnaryExpression)
	p.registerPrefix(token.AWAIT, p.parseAwaitExpression)
	p.registerPrefix(token.INCR, p.parseUpdateExpressionPrefix)
	p.registerPrefix(token.DECR, p.parseUpdateExpressionPrefix)
	p.registerPrefix(token.ELLIPSIS, p.parseSpreadExpression)
	p.registerPrefix(token.ASYNC, p.parseAsyncExpression)

	p.infixParseFns = make(map[token.Type]infixParseFn)
	for _, t := range []token.Type{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.EQ, token.NOT_EQ, token.STRICT_EQ, token.STRICT_NOT_EQ,
		token.LT, token.GT, token.LTE, token.GTE, token.INSTANCEOF, token.IN,
		token.SHL, token.SHR, token.USHR,
		token.BIT_OR, token.BIT_XOR, token.BIT_AND,
		token.LOGICAL_OR, token.LOGICAL_AND,
	} {
		p.registerInfix(t, p.parseBinaryExpression)
	}
	p.registerInfix(token.QUESTION, p.parseConditionalExpression)
	for _, t := range []token.Type{
		token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.TIMES_ASSIGN,
		token.DIV_ASSIGN, token.MOD_ASSIGN, token.SHL_ASSIGN, token.SHR_ASSIGN,
		token.USHR_ASSIGN, token.AND_ASSIGN, token.OR_ASSIGN, token.XOR_ASSIGN,
	} {
		p.registerInfix(t, p.parseAssignmentExpression)
	}
	p.registerInfix(token.LPAREN, p.parseCallExpression)
	p.registerInfix(token.DOT, p.parseMemberExpression)
	p.registerInfix(token.LBRACKET, p.parseComputedMemberExpression)
	p.registerInfix(token.INCR, p.parseUpdateExpressionPostfix)
	p.registerInfix(token.DECR, p.parseUpdateExpressionPostfix)
	p.registerInfix(token.TEMPLATE, p.parseTaggedTemplate)

	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) registerPrefix(t token.Type, fn prefixParseFn) { p.prefixParseFns[t] = fn }
func (p *Parser) registerInfix(t token.Type, fn infixParseFn)   { p.infixParseFns[t] = fn }

func (p *Parser) scope() *Scope { return p.scopes[len(p.scopes)-1] }

func (p *Parser) pushScope(s *Scope) {
	if s.Labels == nil {
		s.Labels = map[string]bool{}
	}
	p.scopes = append(p.scopes, s)
}

func (p *Parser) popScope() { p.scopes = p.scopes[:len(p.scopes)-1] }

// nextToken advances curToken/peekToken, keeping braceDepth and the
// template-substitution stack in sync so a later '}' can be told apart
// from the end of a `${...}` hole.
func (p *Parser) nextToken() {
	if p.curToken.Type == token.RBRACE && len(p.templateStack) > 0 &&
		p.braceDepth == p.templateStack[len(p.templateStack)-1] {
		p.templateStack = p.templateStack[:len(p.templateStack)-1]
		p.curToken = p.peekToken
		p.peekToken = p.stream.ResumeTemplate()
		return
	}

	switch p.curToken.Type {
	case token.LBRACE:
		p.braceDepth++
	case token.RBRACE:
		p.braceDepth--
	}

	p.curToken = p.peekToken
	peeked := p.stream.Peek(1)
	if len(peeked) > 0 {
		p.peekToken = peeked[0]
	} else {
		p.peekToken = token.Token{Type: token.EOF}
	}
	p.stream.Next()
}

func (p *Parser) curIs(t token.Type) bool  { return p.curToken.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peekToken.Type == t }

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.curToken.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) expect(t token.Type) bool {
	if p.peekIs(t) {
		p.nextToken()
		return true
	}
	p.errorf(diagnostics.ErrUnexpectedToken, p.peekToken, "expected %s, got %s", t, p.peekToken.Type)
	return false
}

// consumeSemicolon implements automatic semicolon insertion: an explicit
// ';', a '}', EOF, or a newline before the next token all terminate a
// statement.
func (p *Parser) consumeSemicolon() {
	if p.curIs(token.SEMICOLON) {
		p.nextToken()
		return
	}
	if p.curIs(token.RBRACE) || p.curIs(token.EOF) {
		return
	}
	if p.curToken.NewlineBefore {
		return
	}
	p.errorf(diagnostics.ErrUnexpectedToken, p.curToken, "expected ';'")
}

func (p *Parser) errorf(code diagnostics.Code, tok token.Token, format string, args ...interface{}) {
	pos := p.stream.Position(tok.Start, tok.End)
	p.ctx.Errors = append(p.ctx.Errors, diagnostics.Newf(diagnostics.PhaseParser, code, pos, format, args...))
}

// newTemp allocates the next hygienic temporary name in the `__$n` scheme
// shared with the replacer's own synthesized temporaries.
func (p *Parser) newTemp() string {
	n := p.tempCounter
	p.tempCounter++
	name := "__$" + itoa(n)
	return name
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := [20]byte{}
	i := len(digits)
	for n > 0 {
		i--
		digits[i] = byte('0' + n%10)
		n /= 10
	}
	return string(digits[i:])
}

// Parse parses a complete program: a Script unless ctx.Module is set, in
// which case a Module.
func (p *Parser) Parse() ast.Node {
	start := p.curToken.Start
	body := p.parseStatementList(token.EOF)
	end := p.curToken.Start
	p.ctx.TempCounter = p.tempCounter

	if p.ctx.Module {
		return &ast.Module{Base: ast.Base{Start: start, End: end}, Body: body}
	}
	return &ast.Script{Base: ast.Base{Start: start, End: end}, Body: body}
}

func (p *Parser) parseStatementList(until token.Type) []ast.Statement {
	var body []ast.Statement
	checkingDirectives := true
	for !p.curIs(until) && !p.curIs(token.EOF) {
		stmt := p.parseStatement()
		if stmt == nil {
			p.nextToken()
			continue
		}
		if checkingDirectives {
			if es, ok := stmt.(*ast.ExpressionStatement); ok {
				if _, isStr := es.Expression.(*ast.StringLiteral); isStr && es.Directive != "" {
					if es.Directive == "use strict" {
						p.scope().Strict = true
					}
					body = append(body, stmt)
					continue
				}
			}
			checkingDirectives = false
		}
		body = append(body, stmt)
	}
	return body
}
