package pipeline

import (
	"github.com/funvibe/esdown/internal/ast"
	"github.com/funvibe/esdown/internal/config"
	"github.com/funvibe/esdown/internal/diagnostics"
)

// PipelineContext holds all the data passed between pipeline stages:
// scan+parse populate TokenStream/AstRoot, replace populates Output. This
// core has no semantic analysis or evaluator, only source-to-source
// desugaring, so the context carries just what that two-stage pipeline
// needs.
type PipelineContext struct {
	SourceCode  string
	FilePath    string
	Strict      bool
	Module      bool // true when the input is parsed as a module, not a script
	Runtime     bool // whether the `_runtime` contract is assumed to be in scope

	TokenStream TokenStream
	AstRoot     ast.Node

	// TempCounter carries forward the parser's hygienic-temporary counter
	// (IterTemp/ResultTemp use the same __$n scheme) so the replacer's own
	// synthesized temporaries continue the sequence instead of colliding
	// with names the parser already handed out.
	TempCounter int

	// Options carries the translate(input, options) bag through to the
	// replacer stage.
	Options config.TranslateOptions

	Output string

	Errors []*diagnostics.Error
}

// NewPipelineContext creates and initializes a new PipelineContext.
func NewPipelineContext(source string) *PipelineContext {
	return &PipelineContext{
		SourceCode: source,
		Errors:     []*diagnostics.Error{},
	}
}

// Failed reports whether any stage has recorded an error.
func (c *PipelineContext) Failed() bool {
	return len(c.Errors) > 0
}
