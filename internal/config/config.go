// Package config is the single source of truth for the fixed tables this
// transpiler needs at every layer: the runtime helper contract's method
// names, the recognized source extension, and the CLI's option defaults.
package config

// SourceFileExtension is the extension collaborators use to recognize a
// file this transpiler accepts — an ambient convention carried from the
// teacher's own single-extension-table shape.
const SourceFileExtension = ".esnext"

// RuntimeName is the identifier the replacer assumes is in scope wherever
// it emits a call into the runtime helper contract.
const RuntimeName = "_runtime"

// Runtime method names. Every entry here is a property of the `_runtime`
// value the generated code expects to find in scope; the replacer never
// invents a helper name outside this table.
const (
	RuntimeClass       = "class"
	RuntimeIterator    = "iterator"
	RuntimeRest        = "rest"
	RuntimeComputed    = "computed"
	RuntimeSpread      = "spread"
	RuntimeAsync       = "async"
	RuntimeAsyncGen    = "asyncGen"
	RuntimeAsyncIter   = "asyncIter"
	RuntimeTemplateSite = "templateSite"
	RuntimeObj         = "obj"
	RuntimeObjD        = "objd"
	RuntimeArrayD      = "arrayd"
)

// TranslateOptions is the translate(input, options) bag threaded through
// the pipeline context.
type TranslateOptions struct {
	Module          bool
	FunctionContext bool
	Wrap            bool
	Global          string
	Runtime         bool
	Polyfill        bool
	RuntimeImports  bool
}

// WrapSignature is the fixed marker string IsWrapped looks for at the
// start of already-wrapped output.
const WrapSignature = "/*=esdown=*/"

// CLI defaults, read by cmd/esdown when no flag overrides them.
const (
	DefaultCacheFileName = "esdown-cache.sqlite"
	DefaultOutputIsStdout = true
)
