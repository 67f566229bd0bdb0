package replacer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/esdown/internal/ast"
	"github.com/funvibe/esdown/internal/config"
	"github.com/funvibe/esdown/internal/token"
)

// emitStatements renders a statement list, syncing each statement's trailing
// newlines to its original source span so line numbers downstream of a
// condensed rewrite stay put.
func (s *state) emitStatements(stmts []ast.Statement) string {
	var b strings.Builder
	for _, st := range stmts {
		start, end := st.Span()
		text := s.emitStatement(st)
		b.WriteString(s.syncNewlines(start, end, text))
	}
	return b.String()
}

func (s *state) emitStatement(st ast.Statement) string {
	switch n := st.(type) {
	case *ast.Block:
		return "{" + s.emitStatements(n.Body) + "}"
	case *ast.LabelledStatement:
		return n.Label.Name + ": " + s.emitStatement(n.Body)
	case *ast.ExpressionStatement:
		if n.Directive != "" {
			return n.Directive + ";\n"
		}
		return s.emitExpr(n.Expression) + ";\n"
	case *ast.EmptyStatement:
		return ";\n"
	case *ast.VariableDeclaration:
		return s.emitVariableDeclaration(n) + "\n"
	case *ast.ReturnStatement:
		if n.Argument == nil {
			return "return;\n"
		}
		return "return " + s.emitExpr(n.Argument) + ";\n"
	case *ast.BreakStatement:
		if n.Label != nil {
			return "break " + n.Label.Name + ";\n"
		}
		return "break;\n"
	case *ast.ContinueStatement:
		if n.Label != nil {
			return "continue " + n.Label.Name + ";\n"
		}
		return "continue;\n"
	case *ast.ThrowStatement:
		return "throw " + s.emitExpr(n.Argument) + ";\n"
	case *ast.DebuggerStatement:
		return "debugger;\n"
	case *ast.IfStatement:
		text := "if (" + s.emitExpr(n.Test) + ") " + s.emitStatement(n.Consequent)
		if n.Alternate != nil {
			text += "else " + s.emitStatement(n.Alternate)
		}
		return text
	case *ast.DoWhileStatement:
		return "do " + s.emitStatement(n.Body) + " while (" + s.emitExpr(n.Test) + ");\n"
	case *ast.WhileStatement:
		return "while (" + s.emitExpr(n.Test) + ") " + s.emitStatement(n.Body)
	case *ast.ForStatement:
		return s.emitForStatement(n)
	case *ast.ForInStatement:
		return s.emitForInStatement(n)
	case *ast.ForOfStatement:
		return s.emitForOfStatement(n)
	case *ast.WithStatement:
		return "with (" + s.emitExpr(n.Object) + ") " + s.emitStatement(n.Body)
	case *ast.SwitchStatement:
		return s.emitSwitch(n)
	case *ast.TryStatement:
		return s.emitTry(n)
	case *ast.FunctionDeclaration:
		name := ""
		if n.ID != nil {
			name = n.ID.Name
		}
		return "function " + name + s.emitFunctionLikeBody(n.Params, n.Body, n.Async, n.Generator) + "\n"
	case *ast.ClassDeclaration:
		return "var " + n.ID.Name + " = " + s.emitClass(n.ID, n.SuperClass, n.Body) + ";\n"
	case *ast.ModuleDeclaration:
		return s.emitModuleDeclaration(n)
	case *ast.ModuleRegistration:
		id := s.curDeps().register(n.Path.Value)
		return "var " + n.ID.Name + " = " + id + ";\n"
	case *ast.ModuleAlias:
		return "var " + n.ID.Name + " = " + s.emitExpr(n.Path) + ";\n"
	case *ast.ModuleImport:
		id := s.curDeps().register(n.Source.Value)
		return "var " + n.Local.Name + " = " + id + "[\"default\"];\n"
	case *ast.ImportDeclaration:
		return s.emitImportDeclaration(n)
	case *ast.ImportDefaultDeclaration:
		id := s.curDeps().register(n.Source.Value)
		return "var " + n.Local.Name + " = " + id + "[\"default\"];\n"
	case *ast.ExportDeclaration:
		return s.emitExportDeclaration(n)
	default:
		return fmt.Sprintf("/* unsupported statement %T */\n", st)
	}
}

func (s *state) emitForStatement(n *ast.ForStatement) string {
	var init string
	if n.Init != nil {
		if decl, ok := n.Init.(*ast.VariableDeclaration); ok {
			init = s.emitVariableDeclaration(decl)
		} else if e, ok := n.Init.(ast.Expression); ok {
			init = s.emitExpr(e)
		}
	}
	test, update := "", ""
	if n.Test != nil {
		test = s.emitExpr(n.Test)
	}
	if n.Update != nil {
		update = s.emitExpr(n.Update)
	}
	return "for (" + init + "; " + test + "; " + update + ") " + s.emitStatement(n.Body)
}

func (s *state) emitForInStatement(n *ast.ForInStatement) string {
	left := s.forHeadText(n.Left)
	return "for (" + left + " in " + s.emitExpr(n.Right) + ") " + s.emitStatement(n.Body)
}

// emitForOfStatement lowers `for (x of iter) body` to the iterator-protocol
// loop the target dialect can express natively, using the parser-allocated
// IterTemp/ResultTemp names so the same hygienic temp always names the same
// binding across the whole loop.
func (s *state) emitForOfStatement(n *ast.ForOfStatement) string {
	iterCall := s.runtimeCall(config.RuntimeIterator) + "(" + s.emitExpr(n.Right) + ")"
	assign := s.forOfAssignText(n.Left, n.ResultTemp+".value")
	header := fmt.Sprintf("var %s = %s;\nfor (var %s; !(%s = %s.next()).done;) { %s",
		n.IterTemp, iterCall, n.ResultTemp, n.ResultTemp, n.IterTemp, assign)
	return header + s.emitStatement(n.Body) + " }\n"
}

// forOfAssignText renders the per-iteration binding as a plain assignment
// (for an existing-variable for-of target) or a `var`-declared destructuring
// unroll (for a declaration target), returning the text that belongs just
// before the result/done check in the loop header.
func (s *state) forOfAssignText(left ast.Node, valueExpr string) string {
	switch l := left.(type) {
	case *ast.VariableDeclaration:
		d := l.Declarations[0]
		if id, ok := d.ID.(*ast.Identifier); ok {
			return "var " + id.Name + " = " + valueExpr + "; "
		}
		parts := s.flattenPattern(d.ID, valueExpr, false)
		return "var " + strings.Join(parts, ", ") + "; "
	case ast.Pattern:
		if id, ok := l.(*ast.Identifier); ok {
			return id.Name + " = " + valueExpr + "; "
		}
		parts := s.flattenPattern(l, valueExpr, true)
		return strings.Join(parts, ", ") + "; "
	}
	return ""
}

func (s *state) forHeadText(left ast.Node) string {
	if decl, ok := left.(*ast.VariableDeclaration); ok {
		return s.emitVariableDeclaration(decl)
	}
	if e, ok := left.(ast.Expression); ok {
		return s.emitExpr(e)
	}
	return ""
}

func (s *state) emitSwitch(n *ast.SwitchStatement) string {
	var b strings.Builder
	b.WriteString("switch (" + s.emitExpr(n.Discriminant) + ") {\n")
	for _, c := range n.Cases {
		if c.Test != nil {
			b.WriteString("case " + s.emitExpr(c.Test) + ":\n")
		} else {
			b.WriteString("default:\n")
		}
		b.WriteString(s.emitStatements(c.Consequent))
	}
	b.WriteString("}\n")
	return b.String()
}

func (s *state) emitTry(n *ast.TryStatement) string {
	text := "try " + s.emitStatement(n.Block)
	if n.Handler != nil {
		if n.Handler.Param != nil {
			if id, ok := n.Handler.Param.(*ast.Identifier); ok {
				text += " catch (" + id.Name + ") " + s.emitStatement(n.Handler.Body)
			} else {
				tmp := s.newTemp()
				parts := s.flattenPattern(n.Handler.Param, tmp, false)
				text += " catch (" + tmp + ") { var " + strings.Join(parts, ", ") + ";" + s.emitStatements(n.Handler.Body.Body) + "}"
			}
		} else {
			text += " catch (" + s.newTemp() + ") " + s.emitStatement(n.Handler.Body)
		}
	}
	if n.Finalizer != nil {
		text += " finally " + s.emitStatement(n.Finalizer)
	}
	return text + "\n"
}

// emitVariableDeclaration unrolls every declarator's pattern in place and
// joins the results as a single `var` statement (let/const collapse to var,
// spec contract: the desugared dialect has no block scoping of its own).
func (s *state) emitVariableDeclaration(n *ast.VariableDeclaration) string {
	var parts []string
	for _, d := range n.Declarations {
		if id, ok := d.ID.(*ast.Identifier); ok {
			if d.Init != nil {
				parts = append(parts, id.Name+" = "+s.emitExpr(d.Init))
			} else {
				parts = append(parts, id.Name)
			}
			continue
		}
		srcText := s.newTemp()
		parts = append(parts, srcText+" = "+s.emitExpr(d.Init))
		parts = append(parts, s.flattenPattern(d.ID, srcText, false)...)
	}
	return "var " + strings.Join(parts, ", ") + ";"
}

// flattenPattern recursively unrolls a binding/assignment target against an
// already-evaluated source expression text, returning a flat list of
// "name = expr" strings in evaluation order. hoist controls whether any
// synthesized temporary's own declaration is lifted to the enclosing
// function (assignment-expression context, where no `var` can appear
// inline) or left for the caller to wrap in one shared `var` statement
// (declaration/parameter context).
func (s *state) flattenPattern(target ast.Node, srcExpr string, hoist bool) []string {
	switch t := target.(type) {
	case *ast.Identifier:
		return []string{t.Name + " = " + srcExpr}

	case *ast.MemberExpression:
		return []string{s.emitExpr(t) + " = " + srcExpr}

	case *ast.ArrayPattern:
		var out []string
		omitted := 0
		for i, el := range t.Elements {
			switch e := el.(type) {
			case nil:
				omitted++
			case *ast.PatternRestElement:
				restSrc := fmt.Sprintf("%s(%s, %d)", s.runtimeCall(config.RuntimeRest), srcExpr, i)
				out = append(out, s.flattenPattern(e.Argument, restSrc, hoist)...)
			case *ast.PatternElement:
				elemSrc := fmt.Sprintf("%s[%d]", srcExpr, i)
				if e.Default != nil {
					tmp := s.tempFor(hoist)
					out = append(out, tmp+" = "+elemSrc)
					elemSrc = fmt.Sprintf("(%s === void 0 ? %s : %s)", tmp, s.emitExpr(e.Default), tmp)
				}
				out = append(out, s.flattenPattern(e.Target, elemSrc, hoist)...)
			}
		}
		_ = omitted
		return out

	case *ast.ObjectPattern:
		var out []string
		var seenKeys []string
		for _, p := range t.Properties {
			switch prop := p.(type) {
			case *ast.PatternRestElement:
				omit := make([]string, len(seenKeys))
				copy(omit, seenKeys)
				restSrc := fmt.Sprintf("%s(%s, [%s])", s.runtimeCall(config.RuntimeObjD), srcExpr, strings.Join(omit, ", "))
				out = append(out, s.flattenPattern(prop.Argument, restSrc, hoist)...)
			case *ast.PatternProperty:
				keyText := s.propAccessText(srcExpr, prop.Key, prop.Computed)
				seenKeys = append(seenKeys, s.propKeyLiteralText(prop.Key))
				valueSrc := keyText
				if prop.Value.Default != nil {
					tmp := s.tempFor(hoist)
					out = append(out, tmp+" = "+keyText)
					valueSrc = fmt.Sprintf("(%s === void 0 ? %s : %s)", tmp, s.emitExpr(prop.Value.Default), tmp)
				}
				out = append(out, s.flattenPattern(prop.Value.Target, valueSrc, hoist)...)
			}
		}
		return out

	default:
		return []string{fmt.Sprintf("/* unsupported pattern %T */", target)}
	}
}

func (s *state) tempFor(hoist bool) string {
	tmp := s.newTemp()
	if hoist {
		s.hoistTemp(tmp)
	}
	return tmp
}

func (s *state) propAccessText(objExpr string, key ast.Expression, computed bool) string {
	if computed {
		return objExpr + "[" + s.emitExpr(key) + "]"
	}
	switch k := key.(type) {
	case *ast.Identifier:
		return objExpr + "." + k.Name
	case *ast.StringLiteral:
		return objExpr + "[" + k.Raw + "]"
	case *ast.NumberLiteral:
		return objExpr + "[" + k.Raw + "]"
	}
	return objExpr + "[" + s.emitExpr(key) + "]"
}

func (s *state) propKeyLiteralText(key ast.Expression) string {
	switch k := key.(type) {
	case *ast.Identifier:
		return strconv.Quote(k.Name)
	case *ast.StringLiteral:
		return strconv.Quote(k.Value)
	case *ast.NumberLiteral:
		return strconv.Quote(k.Raw)
	}
	return strconv.Quote("")
}

// emitFunctionLike renders a complete function expression text (used for
// FunctionExpression, methods, and as the generator-function innards of an
// async wrapper).
func (s *state) emitFunctionLike(params []ast.Node, body *ast.FunctionBody, async, generator bool) string {
	return "function" + s.emitFunctionLikeBody(params, body, async, generator)
}

// emitFunctionLikeBody assembles everything after the `function` keyword
// (and after an optional name, appended by the caller): `(params) { ...
// prologue ... body }`, with async functions wrapped per the runtime's
// generator-driving contract.
func (s *state) emitFunctionLikeBody(params []ast.Node, body *ast.FunctionBody, async, generator bool) string {
	fr := s.pushFunc(false)
	paramList, prologue := s.emitParams(params, fr)

	bodyText := s.emitStatements(body.Body)

	if fr.createRest {
		bodyText = fmt.Sprintf("var %s = %s(arguments, %d);\n", fr.restName, s.runtimeCall(config.RuntimeRest), fr.restPos) + bodyText
	}

	if len(fr.tempVars) > 0 {
		bodyText = "var " + strings.Join(fr.tempVars, ", ") + ";\n" + bodyText
	}

	if async && !generator {
		inner := "(function*() {\n" + bodyText + "}).apply(" + s.thisRef() + ", arguments)"
		bodyText = "try { return " + s.runtimeCall(config.RuntimeAsync) + "(" + inner + "); } catch ($e) { return Promise.reject($e); }\n"
	} else if async && generator {
		inner := "(function*() {\n" + bodyText + "}).apply(" + s.thisRef() + ", arguments)"
		bodyText = "return " + s.runtimeCall(config.RuntimeAsyncGen) + "(" + inner + ");\n"
	}

	if fr.createThis {
		bodyText = "var __this = this;\n" + bodyText
	}

	star := ""
	if generator && !async {
		star = "*"
	}

	s.popFunc()
	return star + "(" + paramList + ") {\n" + prologue + bodyText + "}"
}

// emitParams builds the formal parameter list and the prologue statements
// that implement default values, destructured parameters and the rest
// parameter's capture (the rest parameter itself is erased from the
// parameter list; its owning function is flagged instead so
// emitFunctionLikeBody can emit the capture after the body is known).
func (s *state) emitParams(params []ast.Node, fr *annotations) (string, string) {
	var names []string
	var prologue strings.Builder
	for i, p := range params {
		switch param := p.(type) {
		case *ast.RestParameter:
			fr.createRest = true
			fr.restPos = i
			if id, ok := param.Argument.(*ast.Identifier); ok {
				fr.restName = id.Name
			} else {
				fr.restName = s.newTemp()
				parts := s.flattenPattern(param.Argument, fr.restName, false)
				prologue.WriteString("var " + strings.Join(parts, ", ") + ";\n")
			}
		case *ast.FormalParameter:
			if id, ok := param.Pattern.(*ast.Identifier); ok {
				names = append(names, id.Name)
				if param.Default != nil {
					prologue.WriteString(fmt.Sprintf("if (%s === void 0) %s = %s;\n", id.Name, id.Name, s.emitExpr(param.Default)))
				}
				continue
			}
			placeholder := s.newTemp()
			names = append(names, placeholder)
			src := placeholder
			if param.Default != nil {
				src = fmt.Sprintf("(%s === void 0 ? %s : %s)", placeholder, s.emitExpr(param.Default), placeholder)
			}
			parts := s.flattenPattern(param.Pattern, src, false)
			prologue.WriteString("var " + strings.Join(parts, ", ") + ";\n")
		}
	}
	return strings.Join(names, ", "), prologue.String()
}

func (s *state) emitArrow(n *ast.ArrowFunction) string {
	fr := s.pushFunc(true)
	paramList, prologue := s.emitParams(n.Params, fr)

	var bodyText string
	if n.ExpressionBody {
		bodyText = "return " + s.emitExpr(n.Body.(ast.Expression)) + ";\n"
	} else {
		bodyText = s.emitStatements(n.Body.(*ast.FunctionBody).Body)
	}

	if fr.createRest {
		bodyText = fmt.Sprintf("var %s = %s(arguments, %d);\n", fr.restName, s.runtimeCall(config.RuntimeRest), fr.restPos) + bodyText
	}
	if len(fr.tempVars) > 0 {
		bodyText = "var " + strings.Join(fr.tempVars, ", ") + ";\n" + bodyText
	}
	if n.Async {
		inner := "(function*() {\n" + bodyText + "}).apply(" + s.thisRef() + ", arguments)"
		bodyText = "try { return " + s.runtimeCall(config.RuntimeAsync) + "(" + inner + "); } catch ($e) { return Promise.reject($e); }\n"
	}

	s.popFunc()
	return "function(" + paramList + ") {\n" + prologue + bodyText + "}"
}

// emitClass lowers a class to the runtime's class-builder contract: a
// single call carrying an optional base-class expression and a definition
// function that returns {constructor, instance methods/accessors, static
// methods/accessors}.
func (s *state) emitClass(id *ast.Identifier, superClass ast.Expression, body *ast.ClassBody) string {
	var ctor *ast.MethodDefinition
	var instance []string
	var static []string

	for _, el := range body.Elements {
		m := el.Method
		if m.Key != nil {
			if k, ok := m.Key.(*ast.Identifier); ok && k.Name == "constructor" && !m.Static {
				ctor = m
				continue
			}
		}
		entry := s.emitMethodAsProperty(m)
		if m.Static {
			static = append(static, entry)
		} else {
			instance = append(instance, entry)
		}
	}

	fr := s.pushFunc(false)
	var ctorText string
	if ctor != nil {
		paramList, ctorPrologue := s.emitParams(ctor.Function.Params, fr)
		ctorBody := s.emitStatements(ctor.Function.Body.Body)
		if superClass != nil && !containsSuperCall(ctor.Function.Body.Body) {
			ctorBody = "__super.constructor.apply(this, arguments);\n" + ctorBody
		}
		if fr.createRest {
			ctorBody = fmt.Sprintf("var %s = %s(arguments, %d);\n", fr.restName, s.runtimeCall(config.RuntimeRest), fr.restPos) + ctorBody
		}
		if len(fr.tempVars) > 0 {
			ctorBody = "var " + strings.Join(fr.tempVars, ", ") + ";\n" + ctorBody
		}
		if fr.createThis {
			ctorBody = "var __this = this;\n" + ctorBody
		}
		ctorText = "function(" + paramList + ") {\n" + ctorPrologue + ctorBody + "}"
	} else if superClass != nil {
		ctorText = "function() {\n__super.constructor.apply(this, arguments);\n}"
	} else {
		ctorText = "function() {}"
	}
	s.popFunc()

	def := fmt.Sprintf("function(__super) {\nreturn {\nconstructor: %s", ctorText)
	if len(instance) > 0 {
		def += ",\n" + strings.Join(instance, ",\n")
	}
	if len(static) > 0 {
		def += ",\nstatics: {\n" + strings.Join(static, ",\n") + "\n}"
	}
	def += "\n};\n}"

	base := ""
	if superClass != nil {
		base = s.emitExpr(superClass) + ", "
	}
	return fmt.Sprintf("%s(%s%s)", s.runtimeCall(config.RuntimeClass), base, def)
}

func containsSuperCall(stmts []ast.Statement) bool {
	for _, st := range stmts {
		if es, ok := st.(*ast.ExpressionStatement); ok {
			if call, ok := es.Expression.(*ast.CallExpression); ok && call.IsSuperCall {
				return true
			}
		}
	}
	return false
}

// emitModuleDeclaration desugars `module M { ... }` into the IIFE-with-
// exports-object form: a fresh dependency/export scope is pushed so nested
// import/export statements populate this module's own table rather than the
// enclosing one's.
func (s *state) emitModuleDeclaration(n *ast.ModuleDeclaration) string {
	s.pushDeps()
	bodyText := s.emitStatements(n.Body)
	d := s.popDeps()

	header := s.importHeaderText(d)
	trailer := s.exportTrailerText(d)

	name := ""
	if n.ID != nil {
		name = n.ID.Name
	}
	return fmt.Sprintf("var %s = (function(exports) {\n\"use strict\";\n%s%s%sreturn exports;\n}).call(this, {});\n", name, header, bodyText, trailer)
}

func (s *state) emitImportDeclaration(n *ast.ImportDeclaration) string {
	id := s.curDeps().register(n.Source.Value)
	var b strings.Builder
	for _, spec := range n.Specifiers {
		b.WriteString("var " + spec.Local.Name + " = " + id + "." + spec.Imported.Name + ";\n")
	}
	return b.String()
}

func (s *state) emitExportDeclaration(n *ast.ExportDeclaration) string {
	d := s.curDeps()
	switch {
	case n.All:
		id := d.register(n.Source.Value)
		return fmt.Sprintf("Object.keys(%s).forEach(function(k) { exports[k] = %s[k]; });\n", id, id)
	case n.Specifiers != nil && n.Source != nil:
		id := d.register(n.Source.Value)
		for _, spec := range n.Specifiers.Specifiers {
			d.export(spec.Exported.Name, id+"."+spec.Local.Name)
		}
		return ""
	case n.Specifiers != nil:
		for _, spec := range n.Specifiers.Specifiers {
			d.export(spec.Exported.Name, spec.Local.Name)
		}
		return ""
	case n.Declaration != nil:
		return s.emitExportedDeclaration(n.Declaration, d)
	}
	return ""
}

func (s *state) emitExportedDeclaration(decl ast.Statement, d *depTable) string {
	switch dd := decl.(type) {
	case *ast.VariableDeclaration:
		for _, v := range dd.Declarations {
			if id, ok := v.ID.(*ast.Identifier); ok {
				d.export(id.Name, id.Name)
			}
		}
		return s.emitStatement(dd)
	case *ast.FunctionDeclaration:
		if dd.ID != nil {
			d.export(dd.ID.Name, dd.ID.Name)
		} else {
			d.export("default", "")
		}
		return s.emitStatement(dd)
	case *ast.ClassDeclaration:
		d.export(dd.ID.Name, dd.ID.Name)
		return s.emitStatement(dd)
	case *ast.ModuleDeclaration:
		name := ""
		if dd.ID != nil {
			name = dd.ID.Name
		}
		d.export(name, name)
		return s.emitStatement(dd)
	default:
		d.export("default", "")
		if es, ok := decl.(*ast.ExpressionStatement); ok {
			return "exports[\"default\"] = " + s.emitExpr(es.Expression) + ";\n"
		}
		return s.emitStatement(decl)
	}
}

// importHeaderText builds the `var _M0 = loader("..."), ...;` header line
// over a dependency table's registered paths, in first-use order.
func (s *state) importHeaderText(d *depTable) string {
	if len(d.order) == 0 {
		return ""
	}
	var parts []string
	for i, path := range d.order {
		parts = append(parts, fmt.Sprintf("_M%d = loader(%s)", i, strconv.Quote(path)))
	}
	return "var " + strings.Join(parts, ", ") + ";\n"
}

// exportTrailerText builds the `exports.name = expr;` lines for every
// outermost export-map entry, bracket-indexing names that collide with
// reserved words.
func (s *state) exportTrailerText(d *depTable) string {
	var b strings.Builder
	for _, e := range d.exports {
		if e.expr == "" {
			continue
		}
		b.WriteString("exports" + exportKeyText(e.name) + " = " + e.expr + ";\n")
	}
	return b.String()
}

func exportKeyText(name string) string {
	if token.LookupIdent(name, true) != token.IDENTIFIER {
		return "[" + strconv.Quote(name) + "]"
	}
	return "." + name
}
