// Package scanner implements a context-sensitive lexical scanner that turns
// raw source bytes into a stream of token.Token values.
//
// A hand-rolled rune-at-a-time scanner keeping line/column counters as it
// reads, with byte-offset spans so random-access line lookup and
// regex/template/div disambiguation both work directly off the Scanner's
// own state.
package scanner

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/funvibe/esdown/internal/token"
)

// Scanner turns source text into tokens one at a time via Advance.
type Scanner struct {
	src string

	ch       rune
	chWidth  int
	offset   int // byte offset of ch
	rdOffset int // byte offset of the rune after ch

	lt     *lineTable
	strict bool

	// Current token, populated by Advance.
	Type          token.Type
	Start, End    int
	Value         string
	Number        float64
	RegExpFlags   string
	HasRegExpFlag bool
	TemplateEnd   bool
	NewlineBefore bool
	Error         string
}

// New creates a Scanner over src. Callers are expected to have already
// stripped a leading BOM and "#!" shebang line; see StripPrologue.
func New(src string) *Scanner {
	s := &Scanner{src: src, lt: newLineTable()}
	s.next()
	return s
}

// StripPrologue removes an optional leading UTF-8 BOM and an optional "#!"
// shebang line. It returns the remainder unchanged
// (including its own leading newline, so line numbering of the rest of the
// file does not shift by a partial line).
func StripPrologue(src string) string {
	src = strings.TrimPrefix(src, "﻿")
	if strings.HasPrefix(src, "#!") {
		if i := strings.IndexByte(src, '\n'); i >= 0 {
			return src[i:]
		}
		return ""
	}
	return src
}

// SetStrict toggles strict-mode scanning rules (octal literal rejection,
// strict-reserved identifier classification).
func (s *Scanner) SetStrict(strict bool) { s.strict = strict }

func (s *Scanner) Strict() bool { return s.strict }

// Raw returns the source slice covered by tok's span.
func (s *Scanner) Raw(tok token.Token) string { return s.src[tok.Start:tok.End] }

// Position derives line/column information for offset from the line table.
func (s *Scanner) Position(offset int) Position { return s.lt.position(offset, offset) }

// Line returns the 1-based line number containing offset.
func (s *Scanner) Line(offset int) int { return s.lt.line(offset) }

func (s *Scanner) next() {
	if isLineTerminator(s.ch) {
		s.lt.markLineStart(s.rdOffset)
	}
	if s.rdOffset >= len(s.src) {
		s.offset = len(s.src)
		s.ch = 0
		s.chWidth = 0
		return
	}
	r, w := utf8.DecodeRuneInString(s.src[s.rdOffset:])
	if r == utf8.RuneError && w == 1 {
		r = rune(s.src[s.rdOffset])
	}
	s.offset = s.rdOffset
	s.ch = r
	s.chWidth = w
	s.rdOffset += w
}

func (s *Scanner) peek() rune {
	if s.rdOffset >= len(s.src) {
		return 0
	}
	r, _ := utf8.DecodeRuneInString(s.src[s.rdOffset:])
	return r
}

func (s *Scanner) peekAt(skip int) rune {
	off := s.rdOffset
	var r rune
	for i := 0; i <= skip; i++ {
		if off >= len(s.src) {
			return 0
		}
		var w int
		r, w = utf8.DecodeRuneInString(s.src[off:])
		off += w
	}
	return r
}

func (s *Scanner) reset() {
	s.Value = ""
	s.Number = 0
	s.RegExpFlags = ""
	s.HasRegExpFlag = false
	s.TemplateEnd = false
	s.Error = ""
}

// Advance consumes and returns the next token, classified according to ctx.
// See the Context constants below for what each disambiguation mode does.
func (s *Scanner) Advance(ctx token.Context) token.Type {
	s.reset()

	if ctx == token.TemplateCont {
		return s.scanTemplateContinuation()
	}

	newlineBefore := s.skipTrivia()

	s.Start = s.offset
	s.NewlineBefore = newlineBefore

	if s.ch == 0 {
		s.Type = token.EOF
		s.End = s.offset
		return s.Type
	}

	switch {
	case s.ch == '`':
		return s.scanTemplateHead()
	case s.ch == '"' || s.ch == '\'':
		return s.scanString()
	case s.ch == '/' && ctx != token.Div:
		return s.scanRegex()
	case isIdentStart(s.ch) || s.ch == '\\':
		return s.scanIdentifierOrKeyword(ctx)
	case isDigit(s.ch):
		return s.scanNumber()
	case s.ch == '.' && isDigit(s.peek()):
		return s.scanNumber()
	default:
		return s.scanPunctuator(ctx)
	}
}

// skipTrivia skips whitespace and comments, returning true if at least one
// line terminator was crossed (the NewlineBefore flag).
func (s *Scanner) skipTrivia() bool {
	newline := false
	for {
		switch {
		case s.ch == ' ' || s.ch == '\t' || s.ch == '\v' || s.ch == '\f' || s.ch == 0xA0:
			s.next()
		case isLineTerminator(s.ch):
			newline = true
			s.next()
		case s.ch == '/' && s.peek() == '/':
			for s.ch != 0 && !isLineTerminator(s.ch) {
				s.next()
			}
		case s.ch == '/' && s.peek() == '*':
			s.next()
			s.next()
			for {
				if s.ch == 0 {
					break
				}
				if isLineTerminator(s.ch) {
					newline = true
				}
				if s.ch == '*' && s.peek() == '/' {
					s.next()
					s.next()
					break
				}
				s.next()
			}
		default:
			return newline
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return r == '$' || r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) ||
		unicode.Is(unicode.Mn, r) || unicode.Is(unicode.Mc, r) || unicode.Is(unicode.Pc, r)
}

func isDigit(r rune) bool { return r >= '0' && r <= '9' }

func isHexDigit(r rune) bool {
	return isDigit(r) || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}

func isOctalDigit(r rune) bool { return r >= '0' && r <= '7' }

func isBinaryDigit(r rune) bool { return r == '0' || r == '1' }

// ---- identifiers & keywords ----

func (s *Scanner) scanIdentifierOrKeyword(ctx token.Context) token.Type {
	var b strings.Builder
	hasEscape := false
	for isIdentPart(s.ch) || s.ch == '\\' {
		if s.ch == '\\' {
			hasEscape = true
			r, ok := s.scanUnicodeEscape()
			if !ok {
				s.Type = token.ILLEGAL
				s.Error = "invalid unicode escape in identifier"
				s.End = s.offset
				return s.Type
			}
			b.WriteRune(r)
			continue
		}
		b.WriteRune(s.ch)
		s.next()
	}
	s.End = s.offset
	name := b.String()
	s.Value = name

	if ctx == token.Name {
		s.Type = token.IDENTIFIER
		return s.Type
	}
	if hasEscape {
		// An escape-bearing sequence that spells a reserved word is still an
		// error per the strict-mode-adjacent rule that reserved words may
		// not be written with Unicode escapes; treated here as a plain
		// identifier (never reserved) to keep the scanner permissive and
		// let the parser reject it if the position demands a keyword.
		s.Type = token.IDENTIFIER
		return s.Type
	}
	s.Type = token.LookupIdent(name, s.strict)
	return s.Type
}

// scanUnicodeEscape consumes a "\uXXXX" or "\u{X...}" escape starting at the
// backslash and returns the decoded rune.
func (s *Scanner) scanUnicodeEscape() (rune, bool) {
	if s.ch != '\\' {
		return 0, false
	}
	s.next()
	if s.ch != 'u' {
		return 0, false
	}
	s.next()
	return s.scanUnicodeEscapeBody()
}

// scanUnicodeEscapeBody decodes the "XXXX" or "{X...}" portion of a unicode
// escape; the cursor must already be positioned just past the "\u".
func (s *Scanner) scanUnicodeEscapeBody() (rune, bool) {
	if s.ch == '{' {
		s.next()
		start := s.offset
		for s.ch != '}' && s.ch != 0 {
			s.next()
		}
		hex := s.src[start:s.offset]
		if s.ch != '}' {
			return 0, false
		}
		s.next()
		v, err := strconv.ParseInt(hex, 16, 32)
		if err != nil {
			return 0, false
		}
		return rune(v), true
	}
	start := s.offset
	for i := 0; i < 4; i++ {
		if !isHexDigit(s.ch) {
			return 0, false
		}
		s.next()
	}
	v, err := strconv.ParseInt(s.src[start:s.offset], 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}

// ---- numbers ----

func (s *Scanner) scanNumber() token.Type {
	start := s.offset

	if s.ch == '0' && (s.peek() == 'x' || s.peek() == 'X') {
		s.next()
		s.next()
		digitsStart := s.offset
		for isHexDigit(s.ch) {
			s.next()
		}
		return s.finishNumber(start, digitsStart, 16, false)
	}
	if s.ch == '0' && (s.peek() == 'b' || s.peek() == 'B') {
		s.next()
		s.next()
		digitsStart := s.offset
		for isBinaryDigit(s.ch) {
			s.next()
		}
		return s.finishNumber(start, digitsStart, 2, false)
	}
	if s.ch == '0' && (s.peek() == 'o' || s.peek() == 'O') {
		s.next()
		s.next()
		digitsStart := s.offset
		for isOctalDigit(s.ch) {
			s.next()
		}
		return s.finishNumber(start, digitsStart, 8, false)
	}

	// Legacy octal: leading 0 followed by octal digits, e.g. 0755.
	if s.ch == '0' && isOctalDigit(s.peek()) {
		legacyStart := s.offset
		s.next()
		allOctal := true
		for isDigit(s.ch) {
			if !isOctalDigit(s.ch) {
				allOctal = false
			}
			s.next()
		}
		if allOctal {
			if s.strict {
				s.End = s.offset
				s.Type = token.ILLEGAL
				s.Error = "octal literals are not allowed in strict mode"
				return s.Type
			}
			lexeme := s.src[legacyStart:s.offset]
			v, err := strconv.ParseInt(lexeme, 8, 64)
			if err == nil {
				return s.finishNumberLiteral(start, float64(v))
			}
		}
		// Falls through as a decimal literal with a leading zero (e.g. 089).
	}

	for isDigit(s.ch) {
		s.next()
	}
	if s.ch == '.' {
		s.next()
		for isDigit(s.ch) {
			s.next()
		}
	}
	if s.ch == 'e' || s.ch == 'E' {
		save := s.offset
		s.next()
		if s.ch == '+' || s.ch == '-' {
			s.next()
		}
		if !isDigit(s.ch) {
			// Not actually an exponent; roll back isn't supported without a
			// cursor stack, so treat as malformed number instead.
			_ = save
			s.End = s.offset
			s.Type = token.ILLEGAL
			s.Error = "malformed number"
			return s.Type
		}
		for isDigit(s.ch) {
			s.next()
		}
	}

	if isIdentStart(s.ch) {
		s.End = s.offset
		s.Type = token.ILLEGAL
		s.Error = "identifier starts immediately after numeric literal"
		return s.Type
	}

	lexeme := s.src[start:s.offset]
	v, err := strconv.ParseFloat(lexeme, 64)
	if err != nil {
		s.End = s.offset
		s.Type = token.ILLEGAL
		s.Error = "malformed number"
		return s.Type
	}
	return s.finishNumberLiteral(start, v)
}

func (s *Scanner) finishNumber(start, digitsStart, base int, _ bool) token.Type {
	if s.offset == digitsStart {
		s.End = s.offset
		s.Type = token.ILLEGAL
		s.Error = "missing digits in numeric literal"
		return s.Type
	}
	if isIdentStart(s.ch) {
		s.End = s.offset
		s.Type = token.ILLEGAL
		s.Error = "identifier starts immediately after numeric literal"
		return s.Type
	}
	digits := s.src[digitsStart:s.offset]
	v, err := strconv.ParseInt(digits, base, 64)
	if err != nil {
		s.End = s.offset
		s.Type = token.ILLEGAL
		s.Error = "malformed number"
		return s.Type
	}
	return s.finishNumberLiteral(start, float64(v))
}

func (s *Scanner) finishNumberLiteral(start int, v float64) token.Type {
	s.End = s.offset
	s.Value = s.src[start:s.offset]
	s.Number = v
	s.Type = token.NUMBER
	return s.Type
}

// ---- strings ----

func (s *Scanner) scanString() token.Type {
	quote := s.ch
	s.next()
	var b strings.Builder
	for s.ch != quote {
		if s.ch == 0 || isLineTerminator(s.ch) {
			s.End = s.offset
			s.Type = token.ILLEGAL
			s.Error = "unterminated string literal"
			return s.Type
		}
		if s.ch == '\\' {
			r, ok, isLineCont := s.scanEscapeSequence()
			if !ok {
				s.End = s.offset
				s.Type = token.ILLEGAL
				s.Error = "invalid escape sequence"
				return s.Type
			}
			if !isLineCont {
				b.WriteRune(r)
			}
			continue
		}
		b.WriteRune(s.ch)
		s.next()
	}
	s.next() // closing quote
	s.End = s.offset
	s.Value = b.String()
	s.Type = token.STRING
	return s.Type
}

// scanEscapeSequence consumes a backslash-led escape (the scanner's cursor
// is positioned at the backslash). It returns the decoded rune, whether the
// escape was valid, and whether it was a line-continuation (backslash
// immediately followed by a line terminator, which contributes no value).
func (s *Scanner) scanEscapeSequence() (rune, bool, bool) {
	s.next() // consume backslash
	switch s.ch {
	case 't':
		s.next()
		return '\t', true, false
	case 'b':
		s.next()
		return '\b', true, false
	case 'v':
		s.next()
		return '\v', true, false
	case 'f':
		s.next()
		return '\f', true, false
	case 'r':
		s.next()
		return '\r', true, false
	case 'n':
		s.next()
		return '\n', true, false
	case '0':
		if !isDigit(s.peek()) {
			s.next()
			return 0, true, false
		}
		fallthrough
	case '1', '2', '3', '4', '5', '6', '7':
		if s.strict {
			return 0, false, false
		}
		start := s.offset
		for i := 0; i < 3 && isOctalDigit(s.ch); i++ {
			s.next()
		}
		v, _ := strconv.ParseInt(s.src[start:s.offset], 8, 32)
		return rune(v), true, false
	case 'x':
		s.next()
		start := s.offset
		for i := 0; i < 2; i++ {
			if !isHexDigit(s.ch) {
				return 0, false, false
			}
			s.next()
		}
		v, err := strconv.ParseInt(s.src[start:s.offset], 16, 32)
		if err != nil {
			return 0, false, false
		}
		return rune(v), true, false
	case 'u':
		s.next() // consume 'u'
		r, ok := s.scanUnicodeEscapeBody()
		return r, ok, false
	case '\r':
		s.next()
		if s.ch == '\n' {
			s.next()
		}
		return 0, true, true
	case '\n':
		s.next()
		return 0, true, true
	default:
		if isLineTerminator(s.ch) {
			s.next()
			return 0, true, true
		}
		if s.ch == 0 {
			return 0, false, false
		}
		r := s.ch
		s.next()
		return r, true, false
	}
}

// ---- template literals ----

func (s *Scanner) scanTemplateHead() token.Type {
	s.next() // consume opening backtick
	return s.scanTemplatePiece()
}

// scanTemplateContinuation is entered with s.ch positioned at the '}' that
// closes a template interpolation; it consumes that brace and scans the
// next raw piece of the template literal.
func (s *Scanner) scanTemplateContinuation() token.Type {
	s.Start = s.offset
	s.next() // consume '}'
	return s.scanTemplatePiece()
}

func (s *Scanner) scanTemplatePiece() token.Type {
	var b strings.Builder
	for {
		if s.ch == 0 {
			s.End = s.offset
			s.Type = token.ILLEGAL
			s.Error = "unterminated template literal"
			return s.Type
		}
		if s.ch == '`' {
			s.next()
			s.End = s.offset
			s.Value = b.String()
			s.TemplateEnd = true
			s.Type = token.TEMPLATE
			return s.Type
		}
		if s.ch == '$' && s.peek() == '{' {
			s.next()
			s.next()
			s.End = s.offset
			s.Value = b.String()
			s.TemplateEnd = false
			s.Type = token.TEMPLATE
			return s.Type
		}
		if s.ch == '\\' {
			r, ok, isLineCont := s.scanEscapeSequence()
			if !ok {
				s.End = s.offset
				s.Type = token.ILLEGAL
				s.Error = "invalid escape sequence in template literal"
				return s.Type
			}
			if !isLineCont {
				b.WriteRune(r)
			}
			continue
		}
		if s.ch == '\r' {
			b.WriteByte('\n')
			s.next()
			if s.ch == '\n' {
				s.next()
			}
			continue
		}
		b.WriteRune(s.ch)
		s.next()
	}
}

// ---- regular expressions ----

func (s *Scanner) scanRegex() token.Type {
	start := s.offset
	s.next() // consume opening '/'
	inClass := false
	for {
		if s.ch == 0 || isLineTerminator(s.ch) {
			s.End = s.offset
			s.Type = token.ILLEGAL
			s.Error = "unterminated regular expression literal"
			return s.Type
		}
		if s.ch == '\\' {
			s.next()
			if s.ch == 0 || isLineTerminator(s.ch) {
				s.End = s.offset
				s.Type = token.ILLEGAL
				s.Error = "unterminated regular expression literal"
				return s.Type
			}
			s.next()
			continue
		}
		if s.ch == '[' {
			inClass = true
			s.next()
			continue
		}
		if s.ch == ']' {
			inClass = false
			s.next()
			continue
		}
		if s.ch == '/' && !inClass {
			break
		}
		s.next()
	}
	bodyEnd := s.offset
	s.next() // consume closing '/'
	flagsStart := s.offset
	for isIdentPart(s.ch) {
		s.next()
	}
	s.End = s.offset
	s.Value = s.src[start+1 : bodyEnd]
	s.RegExpFlags = s.src[flagsStart:s.offset]
	s.HasRegExpFlag = true
	s.Type = token.REGEX
	return s.Type
}

// ---- punctuators ----

func (s *Scanner) scanPunctuator(ctx token.Context) token.Type {
	start := s.offset
	ch := s.ch
	two := func(next rune) bool { return s.peek() == next }

	emit := func(t token.Type, width int) token.Type {
		for i := 0; i < width; i++ {
			s.next()
		}
		s.End = s.offset
		s.Value = s.src[start:s.offset]
		s.Type = t
		return t
	}

	switch ch {
	case '{':
		return emit(token.LBRACE, 1)
	case '}':
		return emit(token.RBRACE, 1)
	case '(':
		return emit(token.LPAREN, 1)
	case ')':
		return emit(token.RPAREN, 1)
	case '[':
		return emit(token.LBRACKET, 1)
	case ']':
		return emit(token.RBRACKET, 1)
	case ';':
		return emit(token.SEMICOLON, 1)
	case ',':
		return emit(token.COMMA, 1)
	case ':':
		return emit(token.COLON, 1)
	case '?':
		return emit(token.QUESTION, 1)
	case '~':
		return emit(token.BIT_NOT, 1)
	case '.':
		if two('.') && s.peekAt(1) == '.' {
			return emit(token.ELLIPSIS, 3)
		}
		return emit(token.DOT, 1)
	case '<':
		if two('<') {
			if s.peekAt(1) == '=' {
				return emit(token.SHL_ASSIGN, 3)
			}
			return emit(token.SHL, 2)
		}
		if two('=') {
			return emit(token.LTE, 2)
		}
		return emit(token.LT, 1)
	case '>':
		if two('>') {
			if s.peekAt(1) == '>' {
				if s.peekAt(2) == '=' {
					return emit(token.USHR_ASSIGN, 4)
				}
				return emit(token.USHR, 3)
			}
			if s.peekAt(1) == '=' {
				return emit(token.SHR_ASSIGN, 3)
			}
			return emit(token.SHR, 2)
		}
		if two('=') {
			return emit(token.GTE, 2)
		}
		return emit(token.GT, 1)
	case '=':
		if two('=') {
			if s.peekAt(1) == '=' {
				return emit(token.STRICT_EQ, 3)
			}
			return emit(token.EQ, 2)
		}
		if two('>') {
			return emit(token.ARROW, 2)
		}
		return emit(token.ASSIGN, 1)
	case '!':
		if two('=') {
			if s.peekAt(1) == '=' {
				return emit(token.STRICT_NOT_EQ, 3)
			}
			return emit(token.NOT_EQ, 2)
		}
		return emit(token.LOGICAL_NOT, 1)
	case '+':
		if two('+') {
			return emit(token.INCR, 2)
		}
		if two('=') {
			return emit(token.PLUS_ASSIGN, 2)
		}
		return emit(token.PLUS, 1)
	case '-':
		if two('-') {
			return emit(token.DECR, 2)
		}
		if two('=') {
			return emit(token.MINUS_ASSIGN, 2)
		}
		return emit(token.MINUS, 1)
	case '*':
		if two('=') {
			return emit(token.TIMES_ASSIGN, 2)
		}
		return emit(token.STAR, 1)
	case '/':
		if two('=') {
			return emit(token.DIV_ASSIGN, 2)
		}
		return emit(token.SLASH, 1)
	case '%':
		if two('=') {
			return emit(token.MOD_ASSIGN, 2)
		}
		return emit(token.PERCENT, 1)
	case '&':
		if two('&') {
			return emit(token.LOGICAL_AND, 2)
		}
		if two('=') {
			return emit(token.AND_ASSIGN, 2)
		}
		return emit(token.BIT_AND, 1)
	case '|':
		if two('|') {
			return emit(token.LOGICAL_OR, 2)
		}
		if two('=') {
			return emit(token.OR_ASSIGN, 2)
		}
		return emit(token.BIT_OR, 1)
	case '^':
		if two('=') {
			return emit(token.XOR_ASSIGN, 2)
		}
		return emit(token.BIT_XOR, 1)
	}

	s.next()
	s.End = s.offset
	s.Value = s.src[start:s.offset]
	s.Type = token.ILLEGAL
	s.Error = "unexpected character"
	return s.Type
}

// Token packages the scanner's current fields into a token.Token value.
func (s *Scanner) Token() token.Token {
	return token.Token{
		Type:          s.Type,
		Start:         s.Start,
		End:           s.End,
		Value:         s.Value,
		Number:        s.Number,
		RegExpFlags:   s.RegExpFlags,
		HasRegExpFlag: s.HasRegExpFlag,
		TemplateEnd:   s.TemplateEnd,
		NewlineBefore: s.NewlineBefore,
		Error:         s.Error,
	}
}
