package replacer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/esdown/internal/ast"
	"github.com/funvibe/esdown/internal/config"
	"github.com/funvibe/esdown/internal/token"
)

var binaryOpText = map[token.Type]string{
	token.PLUS: "+", token.MINUS: "-", token.STAR: "*", token.SLASH: "/", token.PERCENT: "%",
	token.EQ: "==", token.NOT_EQ: "!=", token.STRICT_EQ: "===", token.STRICT_NOT_EQ: "!==",
	token.LT: "<", token.GT: ">", token.LTE: "<=", token.GTE: ">=",
	token.LOGICAL_AND: "&&", token.LOGICAL_OR: "||",
	token.BIT_AND: "&", token.BIT_OR: "|", token.BIT_XOR: "^", token.SHL: "<<", token.SHR: ">>", token.USHR: ">>>",
	token.INSTANCEOF: "instanceof", token.IN: "in",
}

var unaryOpText = map[token.Type]string{
	token.MINUS: "-", token.PLUS: "+", token.LOGICAL_NOT: "!", token.BIT_NOT: "~",
	token.TYPEOF: "typeof ", token.VOID: "void ", token.DELETE: "delete ",
}

var assignOpText = map[token.Type]string{
	token.ASSIGN: "=", token.PLUS_ASSIGN: "+=", token.MINUS_ASSIGN: "-=", token.TIMES_ASSIGN: "*=",
	token.DIV_ASSIGN: "/=", token.MOD_ASSIGN: "%=", token.SHL_ASSIGN: "<<=", token.SHR_ASSIGN: ">>=",
	token.USHR_ASSIGN: ">>>=", token.AND_ASSIGN: "&=", token.OR_ASSIGN: "|=", token.XOR_ASSIGN: "^=",
}

// emitExpr renders one expression node as output text. Unlike statements,
// expressions are never individually line-synced: they're always embedded
// inside a statement whose own emission pads the trailing newline count.
func (s *state) emitExpr(e ast.Expression) string {
	if e == nil {
		return ""
	}
	switch n := e.(type) {
	case *ast.Identifier:
		return n.Name
	case *ast.NumberLiteral:
		return n.Raw
	case *ast.StringLiteral:
		return n.Raw
	case *ast.RegularExpression:
		return "/" + n.Pattern + "/" + n.Flags
	case *ast.Null:
		return "null"
	case *ast.Boolean:
		if n.Value {
			return "true"
		}
		return "false"
	case *ast.ThisExpression:
		return s.thisRef()
	case *ast.SuperExpression:
		return "__super"
	case *ast.TemplateExpression:
		return s.emitTemplate(n)
	case *ast.TaggedTemplateExpression:
		return s.emitTaggedTemplate(n)
	case *ast.SequenceExpression:
		parts := make([]string, len(n.Expressions))
		for i, x := range n.Expressions {
			parts[i] = s.emitExpr(x)
		}
		return strings.Join(parts, ", ")
	case *ast.AssignmentExpression:
		return s.emitAssignment(n)
	case *ast.SpreadExpression:
		return "/* ...spread handled by caller */ " + s.emitExpr(n.Argument)
	case *ast.YieldExpression:
		kw := "yield"
		if n.Delegate {
			kw = "yield*"
		}
		if n.Argument == nil {
			return kw
		}
		return kw + " " + s.emitExpr(n.Argument)
	case *ast.ConditionalExpression:
		return s.emitExpr(n.Test) + " ? " + s.emitExpr(n.Consequent) + " : " + s.emitExpr(n.Alternate)
	case *ast.BinaryExpression:
		op, ok := binaryOpText[n.Operator]
		if !ok {
			op = n.Operator.String()
		}
		return "(" + s.emitExpr(n.Left) + " " + op + " " + s.emitExpr(n.Right) + ")"
	case *ast.UpdateExpression:
		op := "++"
		if n.Operator == token.DECR {
			op = "--"
		}
		if n.Prefix {
			return op + s.emitExpr(n.Argument)
		}
		return s.emitExpr(n.Argument) + op
	case *ast.UnaryExpression:
		if n.Operator == token.AWAIT {
			return "(yield " + s.emitExpr(n.Argument) + ")"
		}
		op := unaryOpText[n.Operator]
		return "(" + op + s.emitExpr(n.Argument) + ")"
	case *ast.MemberExpression:
		return s.emitMember(n)
	case *ast.CallExpression:
		return s.emitCall(n)
	case *ast.NewExpression:
		return s.emitNew(n)
	case *ast.ParenExpression:
		return "(" + s.emitExpr(n.Expression) + ")"
	case *ast.ObjectExpression:
		return s.emitObject(n)
	case *ast.ArrayExpression:
		return s.emitArray(n)
	case *ast.ArrayComprehension:
		return s.emitArrayComprehension(n)
	case *ast.GeneratorComprehension:
		return s.emitGeneratorComprehension(n)
	case *ast.FunctionExpression:
		return s.emitFunctionLike(n.Params, n.Body, n.Async, n.Generator)
	case *ast.ArrowFunction:
		return s.emitArrow(n)
	case *ast.ClassExpression:
		return s.emitClass(n.ID, n.SuperClass, n.Body)
	case *ast.ModulePath:
		parts := make([]string, len(n.Parts))
		for i, p := range n.Parts {
			parts[i] = p.Name
		}
		return strings.Join(parts, ".")
	// Cover-grammar leftovers: a pattern reached in plain expression
	// position means the input never hit an `=` to trigger
	// reinterpretation (e.g. a bare `{a, b}` used as a value); the
	// replacer trusts a well-formed AST, so this only renders the shape
	// back out as an object/array literal.
	case *ast.ObjectPattern:
		return s.emitObjectPatternAsLiteral(n)
	case *ast.ArrayPattern:
		return s.emitArrayPatternAsLiteral(n)
	default:
		return fmt.Sprintf("/* unsupported expression %T */", e)
	}
}

func (s *state) emitAssignment(n *ast.AssignmentExpression) string {
	if n.Operator == token.ASSIGN {
		switch left := n.Left.(type) {
		case *ast.ObjectPattern, *ast.ArrayPattern:
			rhs := s.emitExpr(n.Right)
			parts := s.flattenPattern(left, rhs, true)
			tmp := strings.SplitN(parts[0], " = ", 2)[0]
			return "(" + strings.Join(parts, ", ") + ", " + tmp + ")"
		}
	}
	op := assignOpText[n.Operator]
	return s.emitExpr(n.Left) + " " + op + " " + s.emitExpr(n.Right)
}

func (s *state) emitTemplate(n *ast.TemplateExpression) string {
	var parts []string
	hasStringLiteral := false
	for i, q := range n.Quasis {
		if q.Cooked != "" {
			parts = append(parts, strconv.Quote(q.Cooked))
			hasStringLiteral = true
		}
		if i < len(n.Expressions) {
			parts = append(parts, "("+s.emitExpr(n.Expressions[i])+")")
		}
	}
	if len(parts) == 0 {
		return `""`
	}
	if !hasStringLiteral {
		// No quasi contributed a quoted literal (e.g. `${a}${b}`), so plain
		// `+` between the interpolations would do numeric addition instead
		// of the ToString-then-concatenate a template always performs.
		parts = append([]string{`""`}, parts...)
	}
	return strings.Join(parts, " + ")
}

func (s *state) emitTaggedTemplate(n *ast.TaggedTemplateExpression) string {
	cooked := make([]string, len(n.Template.Quasis))
	raw := make([]string, len(n.Template.Quasis))
	for i, q := range n.Template.Quasis {
		cooked[i] = strconv.Quote(q.Cooked)
		raw[i] = strconv.Quote(q.Raw)
	}
	args := make([]string, len(n.Template.Expressions))
	for i, e := range n.Template.Expressions {
		args[i] = s.emitExpr(e)
	}
	site := fmt.Sprintf("%s([%s], [%s])", s.runtimeCall(config.RuntimeTemplateSite), strings.Join(cooked, ", "), strings.Join(raw, ", "))
	return fmt.Sprintf("%s(%s)(%s)", site, s.emitExpr(n.Tag), strings.Join(args, ", "))
}

func (s *state) emitMember(n *ast.MemberExpression) string {
	if n.IsSuperLookup {
		if n.Computed {
			return "__super[" + s.emitExpr(n.Property) + "]"
		}
		return "__super." + n.Property.(*ast.Identifier).Name
	}
	obj := s.emitExpr(n.Object)
	if n.Computed {
		return obj + "[" + s.emitExpr(n.Property) + "]"
	}
	return obj + "." + n.Property.(*ast.Identifier).Name
}

// emitCall handles ordinary calls plus the spread-argument and super-call
// forms: a spread argument forces an apply() rewrite, and a direct
// `super(...)` call is recognized (IsSuperCall) rather than treated as an
// ordinary call through a SuperExpression callee.
func (s *state) emitCall(n *ast.CallExpression) string {
	if n.IsSuperCall {
		return s.emitSuperCall(n)
	}

	if !n.HasSpreadArg {
		args := make([]string, len(n.Arguments))
		for i, a := range n.Arguments {
			args[i] = s.emitExpr(a)
		}
		return s.emitExpr(n.Callee) + "(" + strings.Join(args, ", ") + ")"
	}

	// Spread in call: callee.apply(thisArg, [fixed].concat(spread)).
	thisArg := "void 0"
	calleeText := s.emitExpr(n.Callee)
	if member, ok := n.Callee.(*ast.MemberExpression); ok {
		objTmp := s.newTemp()
		s.hoistTemp(objTmp)
		objText := s.emitExpr(member.Object)
		var propText string
		if member.Computed {
			propText = objTmp + "[" + s.emitExpr(member.Property) + "]"
		} else {
			propText = objTmp + "." + member.Property.(*ast.Identifier).Name
		}
		thisArg = objTmp
		calleeText = "(" + objTmp + " = " + objText + ", " + propText + ")"
	}
	return fmt.Sprintf("%s.apply(%s, %s)", calleeText, thisArg, s.spreadArrayText(n.Arguments))
}

func (s *state) emitSuperCall(n *ast.CallExpression) string {
	var argsText string
	if n.HasSpreadArg {
		argsText = s.spreadArrayText(n.Arguments)
		return "__super.constructor.apply(this, " + argsText + ")"
	}
	args := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = s.emitExpr(a)
	}
	return "__super.constructor.call(this" + prependComma(args) + ")"
}

func prependComma(parts []string) string {
	if len(parts) == 0 {
		return ""
	}
	return ", " + strings.Join(parts, ", ")
}

// spreadArrayText renders a call-argument list that contains at least one
// spread element as `[fixed, args].concat(spreadExpr1, spreadExpr2, ...)`,
// grouping consecutive fixed arguments together.
func (s *state) spreadArrayText(args []ast.Expression) string {
	var fixed []string
	var concatParts []string
	flushFixed := func() {
		if len(fixed) > 0 {
			concatParts = append(concatParts, "["+strings.Join(fixed, ", ")+"]")
			fixed = nil
		}
	}
	for _, a := range args {
		if sp, ok := a.(*ast.SpreadExpression); ok {
			flushFixed()
			concatParts = append(concatParts, s.emitExpr(sp.Argument))
			continue
		}
		fixed = append(fixed, s.emitExpr(a))
	}
	flushFixed()
	if len(concatParts) == 0 {
		return "[]"
	}
	return concatParts[0] + ".concat(" + strings.Join(concatParts[1:], ", ") + ")"
}

func (s *state) emitNew(n *ast.NewExpression) string {
	args := make([]string, len(n.Arguments))
	for i, a := range n.Arguments {
		args[i] = s.emitExpr(a)
	}
	if !n.HasSpreadArg {
		return "new " + s.emitExpr(n.Callee) + "(" + strings.Join(args, ", ") + ")"
	}
	// No native spread-new in the target dialect: build the instance via
	// the runtime's apply-style construction helper.
	return fmt.Sprintf("(function(C, a){ function F(){ return C.apply(this, a); } F.prototype = C.prototype; return new F(); })(%s, %s)",
		s.emitExpr(n.Callee), s.spreadArrayText(n.Arguments))
}

func (s *state) emitObject(n *ast.ObjectExpression) string {
	var plain []string
	var spreadSources []string
	var computed []string // "key", "valueExpr" pairs text, in order
	idx := 0
	for _, p := range n.Properties {
		switch prop := p.(type) {
		case *ast.MethodDefinition:
			plain = append(plain, s.emitMethodAsProperty(prop))
		case *ast.PropertyDefinition:
			if sp, ok := prop.Value.(*ast.SpreadExpression); ok && prop.Key == nil {
				spreadSources = append(spreadSources, s.emitExpr(sp.Argument))
				continue
			}
			if prop.Computed {
				placeholder := fmt.Sprintf("__static_%d", idx)
				idx++
				keyText := s.emitExpr(prop.Key)
				computed = append(computed, strconv.Quote(placeholder), keyText, s.emitExpr(prop.Value))
				plain = append(plain, strconv.Quote(placeholder)+": void 0")
				continue
			}
			plain = append(plain, s.objectKeyText(prop.Key)+": "+s.emitExpr(prop.Value))
		case *ast.CoveredPatternProperty:
			plain = append(plain, prop.Key.Name+": "+prop.Key.Name)
		}
	}
	lit := "{" + strings.Join(plain, ", ") + "}"
	if len(spreadSources) > 0 {
		lit = fmt.Sprintf("Object.assign(%s)", strings.Join(append([]string{lit}, spreadSources...), ", "))
	}
	if len(computed) > 0 {
		args := append([]string{lit}, computed...)
		lit = fmt.Sprintf("%s(%s)", s.runtimeCall(config.RuntimeComputed), strings.Join(args, ", "))
	}
	return lit
}

func (s *state) objectKeyText(key ast.Expression) string {
	switch k := key.(type) {
	case *ast.Identifier:
		return k.Name
	case *ast.StringLiteral:
		return k.Raw
	case *ast.NumberLiteral:
		return k.Raw
	}
	return s.emitExpr(key)
}

func (s *state) emitMethodAsProperty(m *ast.MethodDefinition) string {
	fn := s.emitFunctionLike(m.Function.Params, m.Function.Body, m.Function.Async, m.Function.Generator)
	keyText := s.objectKeyText(m.Key)
	switch m.Kind {
	case "get":
		return "get " + keyText + "(" + fn[len("function("):]
	case "set":
		return "set " + keyText + "(" + fn[len("function("):]
	default:
		return keyText + ": " + fn
	}
}

func (s *state) emitArray(n *ast.ArrayExpression) string {
	hasSpread := false
	for _, e := range n.Elements {
		if _, ok := e.(*ast.SpreadExpression); ok {
			hasSpread = true
			break
		}
	}
	if !hasSpread {
		parts := make([]string, len(n.Elements))
		for i, e := range n.Elements {
			if e == nil {
				parts[i] = ""
				continue
			}
			parts[i] = s.emitExpr(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	}
	return s.spreadArrayText(n.Elements)
}

func (s *state) emitArrayComprehension(n *ast.ArrayComprehension) string {
	accum := s.newTemp()
	inner := s.emitComprehensionBody(n.Blocks, accum+".push("+s.emitExpr(n.Body)+");")
	return fmt.Sprintf("(function(){ var %s=[]; %s return %s; }).call(%s)", accum, inner, accum, s.thisRef())
}

func (s *state) emitGeneratorComprehension(n *ast.GeneratorComprehension) string {
	inner := s.emitComprehensionBody(n.Blocks, "yield ("+s.emitExpr(n.Body)+");")
	return fmt.Sprintf("(function*(){ %s }).call(%s)", inner, s.thisRef())
}

// emitComprehensionBody nests for-of/if blocks in source order around a
// leaf action. Each ComprehensionFor is lowered inline through the same
// iterator-protocol expansion emitForOfStatement uses, so the result never
// contains a raw for-of loop the target dialect can't run.
func (s *state) emitComprehensionBody(blocks []ast.Node, leaf string) string {
	body := leaf
	for i := len(blocks) - 1; i >= 0; i-- {
		switch b := blocks[i].(type) {
		case *ast.ComprehensionFor:
			iterTemp := s.newTemp()
			resultTemp := s.newTemp()
			iterCall := s.runtimeCall(config.RuntimeIterator) + "(" + s.emitExpr(b.Right) + ")"
			decl := &ast.VariableDeclaration{
				Keyword:      token.VAR,
				Declarations: []*ast.VariableDeclarator{{ID: b.Left}},
			}
			assign := s.forOfAssignText(decl, resultTemp+".value")
			body = fmt.Sprintf("var %s = %s;\nfor (var %s; !(%s = %s.next()).done;) { %s%s }",
				iterTemp, iterCall, resultTemp, resultTemp, iterTemp, assign, body)
		case *ast.ComprehensionIf:
			body = fmt.Sprintf("if (%s) %s", s.emitExpr(b.Test), body)
		}
	}
	return body
}

func (s *state) emitObjectPatternAsLiteral(n *ast.ObjectPattern) string {
	var parts []string
	for _, p := range n.Properties {
		if pp, ok := p.(*ast.PatternProperty); ok {
			parts = append(parts, s.objectKeyText(pp.Key)+": "+s.emitExpr(exprFromPattern(pp.Value.Target)))
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

func (s *state) emitArrayPatternAsLiteral(n *ast.ArrayPattern) string {
	var parts []string
	for _, e := range n.Elements {
		if pe, ok := e.(*ast.PatternElement); ok {
			parts = append(parts, s.emitExpr(exprFromPattern(pe.Target)))
		}
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func exprFromPattern(p ast.Pattern) ast.Expression {
	if e, ok := p.(ast.Expression); ok {
		return e
	}
	return nil
}
