// Package ast defines the closed set of AST node kinds produced by the
// parser and consumed by the replacer.
//
// Every node is a distinct Go type implementing a common Node interface;
// dispatch happens by type-switching on the concrete type, and per-node
// transient state (Parent, Text) lives as plain mutable fields rather than
// a side table.
package ast

import "github.com/funvibe/esdown/internal/token"

// Node is the base capability every AST node has: a byte span, a settable
// parent link (populated during traversal) and a settable rewritten-text
// slot (populated by the replacer's post-hooks).
type Node interface {
	Span() (start, end int)
	SetParent(Node)
	Parent() Node
	SetText(string)
	Text() string
	HasText() bool
}

// Base is embedded by every concrete node type to satisfy Node.
type Base struct {
	Start, End int
	ParentNode Node
	TextVal    string
	hasText    bool
}

func (b *Base) Span() (int, int) { return b.Start, b.End }
func (b *Base) SetParent(p Node) { b.ParentNode = p }
func (b *Base) Parent() Node     { return b.ParentNode }
func (b *Base) SetText(t string) { b.TextVal = t; b.hasText = true }
func (b *Base) Text() string     { return b.TextVal }
func (b *Base) HasText() bool    { return b.hasText }

// Statement and Expression are marker refinements of Node, mirroring the
// teacher's statementNode()/expressionNode() marker-method pattern.
type Statement interface {
	Node
	statementNode()
}

type Expression interface {
	Node
	expressionNode()
}

// Pattern is any node that can appear as a binding target: an Identifier,
// ArrayPattern, ObjectPattern, or a nested pattern element/property.
type Pattern interface {
	Node
	patternNode()
}

// IdentifierContext classifies how an Identifier is used, set by the
// parser's checkBindingIdent/checkAssignTarget hooks.
type IdentifierContext string

const (
	CtxNone        IdentifierContext = ""
	CtxVariable    IdentifierContext = "variable"
	CtxDeclaration IdentifierContext = "declaration"
)

// ============================================================ Programs

type Script struct {
	Base
	Body []Statement
}

type Module struct {
	Base
	Body []Statement
}

// ============================================================ Atoms

type Identifier struct {
	Base
	Name    string
	Context IdentifierContext
}

func (n *Identifier) expressionNode() {}
func (n *Identifier) patternNode()    {}

type NumberLiteral struct {
	Base
	Value float64
	Raw   string
}

func (n *NumberLiteral) expressionNode() {}

type StringLiteral struct {
	Base
	Value string
	Raw   string
}

func (n *StringLiteral) expressionNode() {}

type RegularExpression struct {
	Base
	Pattern string
	Flags   string
}

func (n *RegularExpression) expressionNode() {}

type Null struct{ Base }

func (n *Null) expressionNode() {}

type Boolean struct {
	Base
	Value bool
}

func (n *Boolean) expressionNode() {}

type ThisExpression struct{ Base }

func (n *ThisExpression) expressionNode() {}

type SuperExpression struct{ Base }

func (n *SuperExpression) expressionNode() {}

// Template is one cooked/raw text piece of a template literal (the parts
// between ${...}s); tagged templates need both forms, see
// TaggedTemplateExpression.
type Template struct {
	Base
	Cooked string
	Raw    string
	Tail   bool
}

func (n *Template) expressionNode() {}

// TemplateExpression is `a${b}c`: an interleaving of Template pieces and
// substitution Expressions, Quasis having one more element than Expressions.
type TemplateExpression struct {
	Base
	Quasis      []*Template
	Expressions []Expression
}

func (n *TemplateExpression) expressionNode() {}

type TaggedTemplateExpression struct {
	Base
	Tag      Expression
	Template *TemplateExpression
}

func (n *TaggedTemplateExpression) expressionNode() {}

// ============================================================ Operators

type SequenceExpression struct {
	Base
	Expressions []Expression
}

func (n *SequenceExpression) expressionNode() {}

type AssignmentExpression struct {
	Base
	Operator token.Type // ASSIGN, PLUS_ASSIGN, ...
	Left     Expression // may be a cover-grammar pattern before transform
	Right    Expression
}

func (n *AssignmentExpression) expressionNode() {}

type SpreadExpression struct {
	Base
	Argument Expression
}

func (n *SpreadExpression) expressionNode() {}

type YieldExpression struct {
	Base
	Argument Expression // nil for bare `yield`
	Delegate bool       // yield* form
}

func (n *YieldExpression) expressionNode() {}

type ConditionalExpression struct {
	Base
	Test       Expression
	Consequent Expression
	Alternate  Expression
}

func (n *ConditionalExpression) expressionNode() {}

type BinaryExpression struct {
	Base
	Operator token.Type
	Left     Expression
	Right    Expression
}

func (n *BinaryExpression) expressionNode() {}

type UpdateExpression struct {
	Base
	Operator token.Type // INCR or DECR
	Argument Expression
	Prefix   bool
}

func (n *UpdateExpression) expressionNode() {}

type UnaryExpression struct {
	Base
	Operator token.Type // MINUS, PLUS, LOGICAL_NOT, BIT_NOT, TYPEOF, VOID, DELETE, AWAIT
	Argument Expression
}

func (n *UnaryExpression) expressionNode() {}

type MemberExpression struct {
	Base
	Object        Expression
	Property      Expression // Identifier when !Computed, else an arbitrary Expression
	Computed      bool
	Optional      bool // a?.b / a?.[b]
	IsSuperLookup bool
}

func (n *MemberExpression) expressionNode() {}

type CallExpression struct {
	Base
	Callee       Expression
	Arguments    []Expression
	Optional     bool
	IsSuperCall  bool
	HasSpreadArg bool
}

func (n *CallExpression) expressionNode() {}

type NewExpression struct {
	Base
	Callee       Expression
	Arguments    []Expression
	HasSpreadArg bool
}

func (n *NewExpression) expressionNode() {}

type ParenExpression struct {
	Base
	Expression Expression
}

func (n *ParenExpression) expressionNode() {}

// ============================================================ Object/array

type ObjectExpression struct {
	Base
	Properties []Node // *PropertyDefinition, *MethodDefinition, or *CoveredPatternProperty
}

func (n *ObjectExpression) expressionNode() {}

type PropertyDefinition struct {
	Base
	Key       Expression // Identifier, StringLiteral, NumberLiteral, or ComputedPropertyName
	Value     Expression
	Computed  bool
	Shorthand bool
}

// CoveredPatternProperty is `{a}` or `{a = 1}` parsed as an object literal
// property that is only valid once the cover grammar is reinterpreted as a
// destructuring pattern.
type CoveredPatternProperty struct {
	Base
	Key     *Identifier
	Default Expression // nil unless `{a = init}`
}

type MethodDefinition struct {
	Base
	Key      Expression
	Computed bool
	Kind     string // "", "get", "set", "async", "generator"
	Static   bool   // meaningful only inside a ClassBody
	Function *FunctionExpression
}

// ArrayExpression's Elements may contain nil entries for elisions (`[, 1]`).
type ArrayExpression struct {
	Base
	Elements []Expression
}

func (n *ArrayExpression) expressionNode() {}

type ComprehensionFor struct {
	Base
	Left  Pattern
	Right Expression
}

type ComprehensionIf struct {
	Base
	Test Expression
}

type ArrayComprehension struct {
	Base
	Body   Expression
	Blocks []Node // *ComprehensionFor / *ComprehensionIf, source order
}

func (n *ArrayComprehension) expressionNode() {}

type GeneratorComprehension struct {
	Base
	Body   Expression
	Blocks []Node
}

func (n *GeneratorComprehension) expressionNode() {}

type ComputedPropertyName struct {
	Base
	Expression Expression
}

func (n *ComputedPropertyName) expressionNode() {}

// ============================================================ Statements

type Block struct {
	Base
	Body []Statement
}

func (n *Block) statementNode() {}

type LabelledStatement struct {
	Base
	Label *Identifier
	Body  Statement
}

func (n *LabelledStatement) statementNode() {}

type ExpressionStatement struct {
	Base
	Expression Expression
	// Directive holds the exact string-literal text when this statement is
	// part of a directive prologue candidate; empty otherwise.
	Directive string
}

func (n *ExpressionStatement) statementNode() {}

type EmptyStatement struct{ Base }

func (n *EmptyStatement) statementNode() {}

type VariableDeclarator struct {
	Base
	ID   Pattern
	Init Expression
}

type VariableDeclaration struct {
	Base
	Keyword      token.Type // VAR, LET, CONST
	Declarations []*VariableDeclarator
}

func (n *VariableDeclaration) statementNode() {}

type ReturnStatement struct {
	Base
	Argument Expression
}

func (n *ReturnStatement) statementNode() {}

type BreakStatement struct {
	Base
	Label *Identifier
}

func (n *BreakStatement) statementNode() {}

type ContinueStatement struct {
	Base
	Label *Identifier
}

func (n *ContinueStatement) statementNode() {}

type ThrowStatement struct {
	Base
	Argument Expression
}

func (n *ThrowStatement) statementNode() {}

type DebuggerStatement struct{ Base }

func (n *DebuggerStatement) statementNode() {}

type IfStatement struct {
	Base
	Test       Expression
	Consequent Statement
	Alternate  Statement
}

func (n *IfStatement) statementNode() {}

type DoWhileStatement struct {
	Base
	Body Statement
	Test Expression
}

func (n *DoWhileStatement) statementNode() {}

type WhileStatement struct {
	Base
	Test Expression
	Body Statement
}

func (n *WhileStatement) statementNode() {}

type ForStatement struct {
	Base
	Init   Node // *VariableDeclaration or Expression or nil
	Test   Expression
	Update Expression
	Body   Statement
}

func (n *ForStatement) statementNode() {}

type ForInStatement struct {
	Base
	Left  Node // *VariableDeclaration or Pattern
	Right Expression
	Body  Statement
}

func (n *ForInStatement) statementNode() {}

// ForOfStatement carries the replacer's synthesized temporaries once
// desugared: IterTemp and ResultTemp name the hygienic `__$n` bindings used
// in the emitted `for(;;)` loop.
type ForOfStatement struct {
	Base
	Left  Node // *VariableDeclaration or Pattern
	Right Expression
	Body  Statement

	IterTemp   string
	ResultTemp string
}

func (n *ForOfStatement) statementNode() {}

type WithStatement struct {
	Base
	Object Expression
	Body   Statement
}

func (n *WithStatement) statementNode() {}

type SwitchCase struct {
	Base
	Test       Expression // nil for `default`
	Consequent []Statement
}

type SwitchStatement struct {
	Base
	Discriminant Expression
	Cases        []*SwitchCase
}

func (n *SwitchStatement) statementNode() {}

type CatchClause struct {
	Base
	Param Pattern // nil for parameter-less catch
	Body  *Block
}

type TryStatement struct {
	Base
	Block     *Block
	Handler   *CatchClause
	Finalizer *Block
}

func (n *TryStatement) statementNode() {}

// ============================================================ Functions

type FormalParameter struct {
	Base
	Pattern Pattern
	Default Expression // non-nil for `(a = init)`
}

type RestParameter struct {
	Base
	Argument Pattern
}

type FunctionBody struct {
	Base
	Body []Statement
}

type FunctionDeclaration struct {
	Base
	ID        *Identifier // nil only for an exported default anonymous function
	Params    []Node      // *FormalParameter / *RestParameter, in source order
	Body      *FunctionBody
	Generator bool
	Async     bool
}

func (n *FunctionDeclaration) statementNode() {}

type FunctionExpression struct {
	Base
	ID        *Identifier // optional
	Params    []Node
	Body      *FunctionBody
	Generator bool
	Async     bool
}

func (n *FunctionExpression) expressionNode() {}

type ArrowFunction struct {
	Base
	Params         []Node
	Body           Node // *FunctionBody (block form) or Expression (expression form)
	ExpressionBody bool
	Async          bool
}

func (n *ArrowFunction) expressionNode() {}

// ============================================================ Patterns

type ArrayPattern struct {
	Base
	Elements []Node // *PatternElement, *PatternRestElement, or nil for elisions
}

func (n *ArrayPattern) patternNode() {}

// ArrayPattern also satisfies Expression: `[a, b] = x` parses as an array
// literal first and is only reinterpreted as a pattern once the `=` is
// seen, by which point it is already stored as an AssignmentExpression's
// Left of static type Expression.
func (n *ArrayPattern) expressionNode() {}

type PatternElement struct {
	Base
	Target  Pattern
	Default Expression
}

type ObjectPattern struct {
	Base
	Properties []Node // *PatternProperty / *PatternRestElement
}

func (n *ObjectPattern) patternNode() {}

// ObjectPattern satisfies Expression for the same cover-grammar reason as
// ArrayPattern above.
func (n *ObjectPattern) expressionNode() {}

type PatternProperty struct {
	Base
	Key      Expression
	Computed bool
	Value    *PatternElement
}

type PatternRestElement struct {
	Base
	Argument Pattern
}

// ============================================================ Classes

type ClassElement struct {
	Base
	Method *MethodDefinition
	// StaticComputedIndex numbers computed static-field placeholders
	// (`__static_<n>`), assigned by the parser; see DESIGN.md's resolution
	// of the computed-class-member Open Question.
	StaticComputedIndex int
}

type ClassBody struct {
	Base
	Elements []*ClassElement
}

type ClassDeclaration struct {
	Base
	ID         *Identifier
	SuperClass Expression
	Body       *ClassBody
}

func (n *ClassDeclaration) statementNode() {}

type ClassExpression struct {
	Base
	ID         *Identifier
	SuperClass Expression
	Body       *ClassBody
}

func (n *ClassExpression) expressionNode() {}

// ============================================================ Modules / import / export

// ModuleDeclaration is `module Ident { ... }` or `module "name" { ... }`,
// a nested named sub-scope desugared to its own IIFE.
type ModuleDeclaration struct {
	Base
	ID   *Identifier    // set for `module Ident { ... }`
	Name *StringLiteral // set for `module "name" { ... }`
	Body []Statement
}

func (n *ModuleDeclaration) statementNode() {}

// ModuleRegistration is `module ident from "url";`.
type ModuleRegistration struct {
	Base
	ID   *Identifier
	Path *StringLiteral
}

func (n *ModuleRegistration) statementNode() {}

// ModuleAlias is `module ident = a.b.c;`.
type ModuleAlias struct {
	Base
	ID   *Identifier
	Path *ModulePath
}

func (n *ModuleAlias) statementNode() {}

// ModulePath is a dotted path `a.b.c` used on the right of a ModuleAlias.
type ModulePath struct {
	Base
	Parts []*Identifier
}

func (n *ModulePath) expressionNode() {}

type ImportSpecifier struct {
	Base
	Imported *Identifier
	Local    *Identifier // == Imported when no `as`
}

type ImportDeclaration struct {
	Base
	Specifiers []*ImportSpecifier
	Source     *StringLiteral
}

func (n *ImportDeclaration) statementNode() {}

type ImportDefaultDeclaration struct {
	Base
	Local  *Identifier
	Source *StringLiteral
}

func (n *ImportDefaultDeclaration) statementNode() {}

// ModuleImport is `import ident from "url";`, the non-destructured default
// form; kept as its own kind, distinct from ImportDefaultDeclaration, even
// though the replacer desugars both the same way.
type ModuleImport struct {
	Base
	Local  *Identifier
	Source *StringLiteral
}

func (n *ModuleImport) statementNode() {}

type ExportSpecifier struct {
	Base
	Local    *Identifier
	Exported *Identifier // == Local when no `as`
}

type ExportSpecifierSet struct {
	Base
	Specifiers []*ExportSpecifier
}

type ExportDeclaration struct {
	Base
	// Exactly one of the following is set.
	Specifiers  *ExportSpecifierSet // export { a, b as c } [from "m"]
	Source      *StringLiteral      // set alongside Specifiers, or alone for `export * from "m"`
	All         bool                // export * from "m"
	Declaration Statement           // export var/function/class/module X ...
}

func (n *ExportDeclaration) statementNode() {}
