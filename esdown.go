// Package esdown translates a next-generation JavaScript dialect (classes,
// destructuring, arrow functions, template strings, generators, for-of,
// async/await, comprehensions, modules) down to a widely-supported older
// dialect through a scan -> parse -> replace pipeline.
//
// Runs as a Pipeline of Processor stages threaded through one
// PipelineContext, each stage populating the next stage's inputs and able
// to halt the whole run by recording an error.
package esdown

import (
	"github.com/funvibe/esdown/internal/ast"
	"github.com/funvibe/esdown/internal/config"
	"github.com/funvibe/esdown/internal/parser"
	"github.com/funvibe/esdown/internal/pipeline"
	"github.com/funvibe/esdown/internal/replacer"
	"github.com/funvibe/esdown/internal/scanner"
)

// ParseOptions controls how Parse treats the input.
type ParseOptions struct {
	Module          bool
	FunctionContext bool
}

// TranslateOptions is re-exported so callers never need to import the
// internal config package directly.
type TranslateOptions = config.TranslateOptions

type scanStage struct{}

func (scanStage) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	sc := scanner.New(ctx.SourceCode)
	ctx.TokenStream = parser.NewStream(sc)
	return ctx
}

type parseStage struct{}

func (parseStage) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	stream := ctx.TokenStream.(*parser.Stream)
	p := parser.New(stream, ctx)
	ctx.AstRoot = p.Parse()
	return ctx
}

type replaceStage struct{}

// Process runs the desugaring pass. Replace has no failure mode of its
// own: every error worth reporting is caught earlier, by the parser's
// validators, so there is nothing here to add to ctx.Errors.
func (replaceStage) Process(ctx *pipeline.PipelineContext) *pipeline.PipelineContext {
	replacer.Replace(ctx)
	return ctx
}

// Parse parses input into an AST root (a *ast.Script, or a *ast.Module when
// opts.Module is set) without running the replacer stage.
func Parse(input string, opts ParseOptions) (ast.Node, error) {
	ctx := pipeline.NewPipelineContext(input)
	ctx.Module = opts.Module

	pl := pipeline.New(scanStage{}, parseStage{})
	ctx = pl.Run(ctx)
	if ctx.Failed() {
		return nil, ctx.Errors[0]
	}
	return ctx.AstRoot, nil
}

// Translate runs the full scan -> parse -> replace pipeline and returns the
// rewritten, older-dialect source text.
func Translate(input string, opts TranslateOptions) (string, error) {
	ctx := pipeline.NewPipelineContext(input)
	ctx.Module = opts.Module
	ctx.Runtime = opts.Runtime
	ctx.Options = opts

	pl := pipeline.New(scanStage{}, parseStage{}, replaceStage{})
	ctx = pl.Run(ctx)
	if ctx.Failed() {
		return "", ctx.Errors[0]
	}
	return ctx.Output, nil
}

// IsWrapped reports whether text was produced by Translate with Wrap set.
func IsWrapped(text string) bool {
	return replacer.IsWrapped(text)
}
