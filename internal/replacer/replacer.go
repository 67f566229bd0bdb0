package replacer

import (
	"strings"

	"github.com/funvibe/esdown/internal/ast"
	"github.com/funvibe/esdown/internal/config"
	"github.com/funvibe/esdown/internal/pipeline"
)

// Replace runs the desugaring stage: it walks ctx.AstRoot and writes the
// rewritten, older-dialect text to ctx.Output. The state value threaded
// through the walk is throwaway scratch space since there is nothing to
// return but text.
func Replace(ctx *pipeline.PipelineContext) {
	s := newState(ctx)
	s.pushStrict(ctx.Strict)
	s.pushDeps()

	var body string
	switch root := ctx.AstRoot.(type) {
	case *ast.Script:
		body = s.emitStatements(root.Body)
	case *ast.Module:
		s.pushStrict(true)
		body = s.emitStatements(root.Body)
		s.popStrict()
	}

	d := s.popDeps()
	s.popStrict()

	header := s.importHeaderText(d)
	trailer := s.exportTrailerText(d)
	output := header + body + trailer

	if ctx.Options.Wrap {
		output = wrapOutput(output, ctx.Options)
	}

	ctx.Output = output
}

// wrapOutput encloses the translated body in the loader shim translate()
// can recognize on a later pass (IsWrapped checks for WrapSignature as the
// very first bytes of the text).
func wrapOutput(body string, opts config.TranslateOptions) string {
	global := opts.Global
	if global == "" {
		global = "this"
	}
	var b strings.Builder
	b.WriteString(config.WrapSignature)
	b.WriteString("\n(function(loader, global) {\n")
	b.WriteString(body)
	b.WriteString("\n}).call(" + global + ", " + loaderExprText(opts) + ", " + global + ");\n")
	return b.String()
}

// loaderExprText renders the module-loader argument passed into the wrap
// shim: a global-scope lookup function when runtimeImports is disabled, or
// a reference to the caller-supplied runtime/require hookup otherwise.
func loaderExprText(opts config.TranslateOptions) string {
	if opts.RuntimeImports {
		return "require"
	}
	return "function(name) { return global[name]; }"
}

// IsWrapped reports whether text begins with the wrap signature a prior
// translate(..., {wrap: true}) call would have produced.
func IsWrapped(text string) bool {
	return strings.HasPrefix(text, config.WrapSignature)
}
