package parser_test

import (
	"testing"

	"github.com/funvibe/esdown/internal/ast"
	"github.com/funvibe/esdown/internal/parser"
	"github.com/funvibe/esdown/internal/pipeline"
	"github.com/funvibe/esdown/internal/scanner"
)

func parseProgram(t *testing.T, src string, module bool) (ast.Node, *pipeline.PipelineContext) {
	t.Helper()
	ctx := pipeline.NewPipelineContext(src)
	ctx.Module = module
	stream := parser.NewStream(scanner.New(src))
	p := parser.New(stream, ctx)
	root := p.Parse()
	return root, ctx
}

func requireNoErrors(t *testing.T, ctx *pipeline.PipelineContext) {
	t.Helper()
	if ctx.Failed() {
		t.Fatalf("unexpected parse errors: %v", ctx.Errors)
	}
}

func TestParseVariableDeclaration(t *testing.T) {
	root, ctx := parseProgram(t, "let [a, b = 1, ...rest] = x;", false)
	requireNoErrors(t, ctx)
	script := root.(*ast.Script)
	if len(script.Body) != 1 {
		t.Fatalf("got %d statements, want 1", len(script.Body))
	}
	decl, ok := script.Body[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("got %T, want *ast.VariableDeclaration", script.Body[0])
	}
	if _, ok := decl.Declarations[0].ID.(*ast.ArrayPattern); !ok {
		t.Fatalf("declarator ID is %T, want *ast.ArrayPattern", decl.Declarations[0].ID)
	}
}

func TestParseArrowFunction(t *testing.T) {
	root, ctx := parseProgram(t, "var f = (a, b) => a + b;", false)
	requireNoErrors(t, ctx)
	script := root.(*ast.Script)
	decl := script.Body[0].(*ast.VariableDeclaration)
	arrow, ok := decl.Declarations[0].Init.(*ast.ArrowFunction)
	if !ok {
		t.Fatalf("init is %T, want *ast.ArrowFunction", decl.Declarations[0].Init)
	}
	if !arrow.ExpressionBody {
		t.Errorf("expected expression-bodied arrow")
	}
	if len(arrow.Params) != 2 {
		t.Errorf("got %d params, want 2", len(arrow.Params))
	}
}

func TestParseClassWithSuper(t *testing.T) {
	root, ctx := parseProgram(t, `
		class Dog extends Animal {
			constructor(name) {
				super(name);
			}
			bark() {
				return super.speak() + "!";
			}
		}
	`, false)
	requireNoErrors(t, ctx)
	script := root.(*ast.Script)
	cls, ok := script.Body[0].(*ast.ClassDeclaration)
	if !ok {
		t.Fatalf("got %T, want *ast.ClassDeclaration", script.Body[0])
	}
	if cls.SuperClass == nil {
		t.Fatalf("expected a SuperClass expression")
	}
	if len(cls.Body.Elements) != 2 {
		t.Fatalf("got %d class elements, want 2", len(cls.Body.Elements))
	}
}

func TestParseForOf(t *testing.T) {
	root, ctx := parseProgram(t, "for (var x of items) { sum += x; }", false)
	requireNoErrors(t, ctx)
	script := root.(*ast.Script)
	forOf, ok := script.Body[0].(*ast.ForOfStatement)
	if !ok {
		t.Fatalf("got %T, want *ast.ForOfStatement", script.Body[0])
	}
	if forOf.IterTemp == "" || forOf.ResultTemp == "" || forOf.IterTemp == forOf.ResultTemp {
		t.Errorf("expected distinct non-empty IterTemp/ResultTemp, got %q/%q", forOf.IterTemp, forOf.ResultTemp)
	}
}

func TestParseTemplateAndTaggedTemplate(t *testing.T) {
	root, ctx := parseProgram(t, "var s = tag`a${b}c`;", false)
	requireNoErrors(t, ctx)
	script := root.(*ast.Script)
	decl := script.Body[0].(*ast.VariableDeclaration)
	tagged, ok := decl.Declarations[0].Init.(*ast.TaggedTemplateExpression)
	if !ok {
		t.Fatalf("init is %T, want *ast.TaggedTemplateExpression", decl.Declarations[0].Init)
	}
	if len(tagged.Template.Quasis) != 2 || len(tagged.Template.Expressions) != 1 {
		t.Errorf("got %d quasis / %d expressions, want 2/1", len(tagged.Template.Quasis), len(tagged.Template.Expressions))
	}
}

func TestParseAsyncArrowAwait(t *testing.T) {
	root, ctx := parseProgram(t, "var f = async (x) => await x;", false)
	requireNoErrors(t, ctx)
	script := root.(*ast.Script)
	decl := script.Body[0].(*ast.VariableDeclaration)
	arrow, ok := decl.Declarations[0].Init.(*ast.ArrowFunction)
	if !ok {
		t.Fatalf("init is %T, want *ast.ArrowFunction", decl.Declarations[0].Init)
	}
	if !arrow.Async {
		t.Errorf("expected an async arrow function")
	}
}

func TestConstWithoutInitializerIsAnError(t *testing.T) {
	_, ctx := parseProgram(t, "const x;", false)
	if !ctx.Failed() {
		t.Fatalf("expected a parse error for const without an initializer")
	}
}

func TestModuleImportExport(t *testing.T) {
	root, ctx := parseProgram(t, `
		import {a as b} from "mod";
		export var x = 1;
	`, true)
	requireNoErrors(t, ctx)
	mod := root.(*ast.Module)
	if len(mod.Body) != 2 {
		t.Fatalf("got %d statements, want 2", len(mod.Body))
	}
	imp, ok := mod.Body[0].(*ast.ImportDeclaration)
	if !ok {
		t.Fatalf("got %T, want *ast.ImportDeclaration", mod.Body[0])
	}
	if imp.Specifiers[0].Local.Name != "b" || imp.Specifiers[0].Imported.Name != "a" {
		t.Errorf("got local=%s imported=%s, want local=b imported=a", imp.Specifiers[0].Local.Name, imp.Specifiers[0].Imported.Name)
	}
	if _, ok := mod.Body[1].(*ast.ExportDeclaration); !ok {
		t.Fatalf("got %T, want *ast.ExportDeclaration", mod.Body[1])
	}
}
