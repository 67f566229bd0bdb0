// Package token defines the closed set of lexical token types produced by
// the scanner and consumed by the parser.
package token

import "fmt"

// Type tags a Token: identifiers, literals, punctuators, reserved words,
// plus the three special markers EOF, ILLEGAL and COMMENT.
type Type int

const (
	ILLEGAL Type = iota
	EOF
	COMMENT

	IDENTIFIER
	NUMBER
	STRING
	TEMPLATE
	REGEX

	// Punctuators
	LBRACE    // {
	RBRACE    // }
	LPAREN    // (
	RPAREN    // )
	LBRACKET  // [
	RBRACKET  // ]
	SEMICOLON // ;
	COMMA     // ,
	DOT       // .
	ELLIPSIS  // ...
	COLON     // :
	ARROW     // =>
	QUESTION  // ?

	ASSIGN       // =
	PLUS_ASSIGN  // +=
	MINUS_ASSIGN // -=
	TIMES_ASSIGN // *=
	DIV_ASSIGN   // /=
	MOD_ASSIGN   // %=
	SHL_ASSIGN   // <<=
	SHR_ASSIGN   // >>=
	USHR_ASSIGN  // >>>=
	AND_ASSIGN   // &=
	OR_ASSIGN    // |=
	XOR_ASSIGN   // ^=

	PLUS    // +
	MINUS   // -
	STAR    // *
	SLASH   // /
	PERCENT // %
	INCR    // ++
	DECR    // --

	EQ            // ==
	NOT_EQ        // !=
	STRICT_EQ     // ===
	STRICT_NOT_EQ // !==
	LT            // <
	GT            // >
	LTE           // <=
	GTE           // >=

	LOGICAL_AND // &&
	LOGICAL_OR  // ||
	LOGICAL_NOT // !

	BIT_AND // &
	BIT_OR  // |
	BIT_XOR // ^
	BIT_NOT // ~
	SHL     // <<
	SHR     // >>
	USHR    // >>>

	// Reserved words (always reserved)
	BREAK
	CASE
	CATCH
	CLASS
	CONST
	CONTINUE
	DEBUGGER
	DEFAULT
	DELETE
	DO
	ELSE
	EXPORT
	EXTENDS
	FINALLY
	FOR
	FUNCTION
	IF
	IMPORT
	IN
	INSTANCEOF
	NEW
	RETURN
	SUPER
	SWITCH
	THIS
	THROW
	TRY
	TYPEOF
	VAR
	VOID
	WHILE
	WITH
	NULL
	TRUE
	FALSE

	// Contextual / strict-mode-reserved keywords
	LET
	STATIC
	YIELD
	ASYNC
	AWAIT
	OF
	MODULE
	GET
	SET
)

var names = map[Type]string{
	ILLEGAL: "ILLEGAL", EOF: "EOF", COMMENT: "COMMENT",
	IDENTIFIER: "IDENTIFIER", NUMBER: "NUMBER", STRING: "STRING",
	TEMPLATE: "TEMPLATE", REGEX: "REGEX",
	LBRACE: "{", RBRACE: "}", LPAREN: "(", RPAREN: ")", LBRACKET: "[", RBRACKET: "]",
	SEMICOLON: ";", COMMA: ",", DOT: ".", ELLIPSIS: "...", COLON: ":", ARROW: "=>", QUESTION: "?",
	ASSIGN: "=", PLUS_ASSIGN: "+=", MINUS_ASSIGN: "-=", TIMES_ASSIGN: "*=", DIV_ASSIGN: "/=",
	MOD_ASSIGN: "%=", SHL_ASSIGN: "<<=", SHR_ASSIGN: ">>=", USHR_ASSIGN: ">>>=",
	AND_ASSIGN: "&=", OR_ASSIGN: "|=", XOR_ASSIGN: "^=",
	PLUS: "+", MINUS: "-", STAR: "*", SLASH: "/", PERCENT: "%", INCR: "++", DECR: "--",
	EQ: "==", NOT_EQ: "!=", STRICT_EQ: "===", STRICT_NOT_EQ: "!==",
	LT: "<", GT: ">", LTE: "<=", GTE: ">=",
	LOGICAL_AND: "&&", LOGICAL_OR: "||", LOGICAL_NOT: "!",
	BIT_AND: "&", BIT_OR: "|", BIT_XOR: "^", BIT_NOT: "~", SHL: "<<", SHR: ">>", USHR: ">>>",
	BREAK: "break", CASE: "case", CATCH: "catch", CLASS: "class", CONST: "const",
	CONTINUE: "continue", DEBUGGER: "debugger", DEFAULT: "default", DELETE: "delete",
	DO: "do", ELSE: "else", EXPORT: "export", EXTENDS: "extends", FINALLY: "finally",
	FOR: "for", FUNCTION: "function", IF: "if", IMPORT: "import", IN: "in",
	INSTANCEOF: "instanceof", NEW: "new", RETURN: "return", SUPER: "super",
	SWITCH: "switch", THIS: "this", THROW: "throw", TRY: "try", TYPEOF: "typeof",
	VAR: "var", VOID: "void", WHILE: "while", WITH: "with",
	NULL: "null", TRUE: "true", FALSE: "false",
	LET: "let", STATIC: "static", YIELD: "yield", ASYNC: "async", AWAIT: "await",
	OF: "of", MODULE: "module", GET: "get", SET: "set",
}

func (t Type) String() string {
	if s, ok := names[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// keywords are always reserved, regardless of strict mode.
var keywords = map[string]Type{
	"break": BREAK, "case": CASE, "catch": CATCH, "class": CLASS, "const": CONST,
	"continue": CONTINUE, "debugger": DEBUGGER, "default": DEFAULT, "delete": DELETE,
	"do": DO, "else": ELSE, "export": EXPORT, "extends": EXTENDS, "finally": FINALLY,
	"for": FOR, "function": FUNCTION, "if": IF, "import": IMPORT, "in": IN,
	"instanceof": INSTANCEOF, "new": NEW, "return": RETURN, "super": SUPER,
	"switch": SWITCH, "this": THIS, "throw": THROW, "try": TRY, "typeof": TYPEOF,
	"var": VAR, "void": VOID, "while": WHILE, "with": WITH,
	"null": NULL, "true": TRUE, "false": FALSE,
}

// strictKeywords are reserved only inside strict-mode code.
var strictKeywords = map[string]Type{
	"let": LET, "static": STATIC, "yield": YIELD,
}

// contextualKeywords are never scanned as reserved-word tokens; the parser
// recognizes them positionally (e.g. "async function", "of" in for-of,
// "module" at the top of a module declaration, "get"/"set" before a method
// name). LookupIdent never returns these.
var contextualKeywords = map[string]bool{
	"async": true, "await": true, "of": true, "module": true, "get": true, "set": true,
}

// LookupIdent classifies a scanned identifier-shaped word. Context-sensitive
// keywords are reported as IDENTIFIER; the parser re-interprets them
// positionally.
func LookupIdent(ident string, strict bool) Type {
	if tok, ok := keywords[ident]; ok {
		return tok
	}
	if strict {
		if tok, ok := strictKeywords[ident]; ok {
			return tok
		}
	}
	return IDENTIFIER
}

// IsContextualKeyword reports whether ident is one of the words the parser
// treats specially by position without the scanner ever reserving it.
func IsContextualKeyword(ident string) bool {
	return contextualKeywords[ident]
}

// Token is a single lexical unit, spanning [Start, End) bytes of the input.
type Token struct {
	Type          Type
	Start, End    int
	Value         string  // decoded value for IDENTIFIER/STRING/TEMPLATE/REGEX/COMMENT
	Number        float64 // decoded numeric value for NUMBER
	RegExpFlags   string  // set only for REGEX
	HasRegExpFlag bool
	TemplateEnd   bool // this TEMPLATE piece ends the template literal
	NewlineBefore bool
	Error         string
}

func (t Token) String() string {
	return fmt.Sprintf("%s[%d:%d)=%q", t.Type, t.Start, t.End, t.Value)
}

// Context selects scanner disambiguation mode for the next call to Advance.
type Context int

const (
	Default Context = iota
	Div                 // a '/' must be the division operator, not a regex literal
	Name                // relax identifier classification: reserved words read back as IDENTIFIER-shaped
	TemplateCont        // a '}' starts a template continuation, not a punctuator
)
