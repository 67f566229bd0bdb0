package parser

import (
	"github.com/funvibe/esdown/internal/scanner"
	"github.com/funvibe/esdown/internal/token"
)

// Stream adapts a *scanner.Scanner to the pipeline.TokenStream contract,
// owning the regex-vs-division disambiguation: a one-token lookback, the
// same heuristic acorn/esprima-style hand-written scanners use — a '/'
// reads as division only right after something that can end an
// expression.
type Stream struct {
	sc   *scanner.Scanner
	buf  []token.Token
	last token.Type
}

func NewStream(sc *scanner.Scanner) *Stream {
	return &Stream{sc: sc, last: token.ILLEGAL}
}

// Position exposes the underlying scanner's line table to callers that
// need to attach a diagnostics.Error to a byte span.
func (s *Stream) Position(start, end int) scanner.Position {
	return s.sc.Position(start, end)
}

func endsExpression(t token.Type) bool {
	switch t {
	case token.IDENTIFIER, token.NUMBER, token.STRING, token.TEMPLATE, token.REGEX,
		token.RPAREN, token.RBRACKET, token.THIS, token.SUPER, token.INCR, token.DECR,
		token.NULL, token.TRUE, token.FALSE:
		return true
	}
	return false
}

func (s *Stream) context() token.Context {
	if endsExpression(s.last) {
		return token.Div
	}
	return token.Default
}

func (s *Stream) scanOne() token.Token {
	ctx := s.context()
	s.sc.Advance(ctx)
	tok := s.sc.Token()
	s.last = tok.Type
	return tok
}

func (s *Stream) fill(n int) {
	for len(s.buf) < n {
		s.buf = append(s.buf, s.scanOne())
	}
}

// Next consumes and returns the next token from the stream.
func (s *Stream) Next() token.Token {
	s.fill(1)
	t := s.buf[0]
	s.buf = s.buf[1:]
	return t
}

// Peek returns the next n tokens without consuming them.
func (s *Stream) Peek(n int) []token.Token {
	s.fill(n)
	if n > len(s.buf) {
		n = len(s.buf)
	}
	out := make([]token.Token, n)
	copy(out, s.buf[:n])
	return out
}

// ResumeTemplate re-enters the scanner in TemplateCont mode to scan the
// next quasi of a template literal, starting at the '}' that the parser
// has already identified (via its own brace-depth bookkeeping) as closing
// the current `${...}` substitution. Any buffered lookahead scanned under
// ordinary context is stale at that point and is discarded; callers must
// only invoke this with curToken positioned exactly on that '}', before
// requesting further lookahead past it.
func (s *Stream) ResumeTemplate() token.Token {
	s.buf = s.buf[:0]
	s.sc.Advance(token.TemplateCont)
	tok := s.sc.Token()
	s.last = tok.Type
	return tok
}

// Raw returns the exact source slice a token spans, used when the replacer
// needs to re-emit a token verbatim instead of its decoded Value.
func (s *Stream) Raw(tok token.Token) string {
	return s.sc.Raw(tok)
}
