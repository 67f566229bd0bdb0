package replacer

import (
	"strings"
	"testing"

	"github.com/funvibe/esdown/internal/ast"
	"github.com/funvibe/esdown/internal/pipeline"
)

// Generator comprehensions have no surface syntax the parser currently
// reaches (parseParenOrArrow never calls into the comprehension tail with
// generator=true), so this exercises the node directly the way the parser
// would construct it, rather than round-tripping through esdown.Translate.
func TestGeneratorComprehensionLowersToIteratorProtocol(t *testing.T) {
	comprehension := &ast.GeneratorComprehension{
		Body: &ast.Identifier{Name: "x"},
		Blocks: []ast.Node{
			&ast.ComprehensionFor{
				Left:  &ast.Identifier{Name: "x"},
				Right: &ast.Identifier{Name: "items"},
			},
		},
	}
	ctx := pipeline.NewPipelineContext("")
	ctx.AstRoot = &ast.Script{Body: []ast.Statement{
		&ast.ExpressionStatement{Expression: comprehension},
	}}
	Replace(ctx)

	if strings.Contains(ctx.Output, "of items") {
		t.Errorf("got %q, want no raw for-of left in the output", ctx.Output)
	}
	if !strings.Contains(ctx.Output, "_runtime.iterator(items)") {
		t.Errorf("got %q, want a _runtime.iterator(items) call", ctx.Output)
	}
	if !strings.Contains(ctx.Output, ".next()") || !strings.Contains(ctx.Output, ".done") {
		t.Errorf("got %q, want the iterator-protocol loop shape", ctx.Output)
	}
	if !strings.Contains(ctx.Output, "yield (x)") {
		t.Errorf("got %q, want the comprehension body yielded", ctx.Output)
	}
}

func TestArrayComprehensionLowersToIteratorProtocol(t *testing.T) {
	comprehension := &ast.ArrayComprehension{
		Body: &ast.Identifier{Name: "x"},
		Blocks: []ast.Node{
			&ast.ComprehensionFor{
				Left:  &ast.Identifier{Name: "x"},
				Right: &ast.Identifier{Name: "items"},
			},
		},
	}
	ctx := pipeline.NewPipelineContext("")
	ctx.AstRoot = &ast.Script{Body: []ast.Statement{
		&ast.ExpressionStatement{Expression: comprehension},
	}}
	Replace(ctx)

	if strings.Contains(ctx.Output, "of items") {
		t.Errorf("got %q, want no raw for-of left in the output", ctx.Output)
	}
	if !strings.Contains(ctx.Output, "_runtime.iterator(items)") {
		t.Errorf("got %q, want a _runtime.iterator(items) call", ctx.Output)
	}
	if !strings.Contains(ctx.Output, ".push(x)") {
		t.Errorf("got %q, want the comprehension body pushed onto the accumulator", ctx.Output)
	}
}
