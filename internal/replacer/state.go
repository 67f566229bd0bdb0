// Package replacer turns a parsed AST back into older-dialect JavaScript
// text: the desugaring stage of the scan -> parse -> replace pipeline.
//
// Walks the AST with a big type-switch over ast.Node, the same shape a
// tree-walking evaluator would use to produce runtime values, except this
// one produces output text instead. The per-invocation mutable scratch
// state (temp counter, import table, export map, strict stack) is one
// struct threaded through the traversal, never a package global.
package replacer

import (
	"fmt"

	"github.com/funvibe/esdown/internal/config"
	"github.com/funvibe/esdown/internal/pipeline"
)

// state is the replacer's transient, per-invocation scratch space.
type state struct {
	ctx *pipeline.PipelineContext

	tempN int

	// deps/exports is a stack so that Module/ModuleDeclaration bodies get
	// their own dependency table and export map; the outermost entry
	// backs the top-level import header and export trailer (§4.3.2).
	deps []*depTable

	strict []bool

	// funcs is the enclosing-function stack used to resolve `this`
	// capture and to know which node to flag when a rest parameter or a
	// super call needs a synthesized binding on its owner.
	funcs []*funcFrame
}

// funcFrame tracks one function-like (or top-level) scope the replacer is
// currently emitting. isArrow frames pass `this` lookups through to the
// nearest non-arrow ancestor instead of owning a binding themselves.
type funcFrame struct {
	ann    *annotations
	isArrow bool
}

// annotations is the per-function-frame desugaring state the replacer
// accumulates while emitting a function-like or class body: lifted
// temporaries, and flags raised by nested constructs (an inner `this`, an
// inner rest parameter) that the frame's own prologue must satisfy once the
// body is fully emitted.
type annotations struct {
	createThis bool
	createRest bool
	restName   string
	restPos    int
	tempVars   []string // "name = initText" or bare "name"
}

// hoistTemp lifts a synthesized temporary's declaration to the top of the
// nearest enclosing function, used when a destructuring unrolling happens
// inside an expression position (an assignment expression) rather than a
// statement, where a bare `var` cannot be written inline.
func (s *state) hoistTemp(name string) {
	if len(s.funcs) == 0 {
		return
	}
	f := s.funcs[len(s.funcs)-1]
	f.ann.tempVars = append(f.ann.tempVars, name)
}

type depTable struct {
	order   []string
	ids     map[string]string
	exports []exportEntry
}

type exportEntry struct{ name, expr string }

func newState(ctx *pipeline.PipelineContext) *state {
	return &state{ctx: ctx, tempN: ctx.TempCounter}
}

func (s *state) newTemp() string {
	s.tempN++
	return fmt.Sprintf("__$%d", s.tempN)
}

func (s *state) isStrict() bool {
	if len(s.strict) == 0 {
		return s.ctx.Strict
	}
	return s.strict[len(s.strict)-1]
}

func (s *state) pushStrict(v bool) { s.strict = append(s.strict, v || s.isStrict()) }
func (s *state) popStrict()        { s.strict = s.strict[:len(s.strict)-1] }

func (s *state) pushDeps() *depTable {
	d := &depTable{ids: map[string]string{}}
	s.deps = append(s.deps, d)
	return d
}

func (s *state) popDeps() *depTable {
	d := s.deps[len(s.deps)-1]
	s.deps = s.deps[:len(s.deps)-1]
	return d
}

func (s *state) curDeps() *depTable { return s.deps[len(s.deps)-1] }

func (d *depTable) register(path string) string {
	if id, ok := d.ids[path]; ok {
		return id
	}
	id := fmt.Sprintf("_M%d", len(d.order))
	d.ids[path] = id
	d.order = append(d.order, path)
	return id
}

func (d *depTable) export(name, expr string) {
	d.exports = append(d.exports, exportEntry{name, expr})
}

func (s *state) pushFunc(isArrow bool) *annotations {
	ann := &annotations{}
	s.funcs = append(s.funcs, &funcFrame{ann: ann, isArrow: isArrow})
	return ann
}

func (s *state) popFunc() { s.funcs = s.funcs[:len(s.funcs)-1] }

// thisRef resolves a `this` reference seen during emission: if every frame
// between here and the nearest non-arrow owner is an arrow, that owner is
// flagged createThis and the reference becomes __this; otherwise `this`
// is used unchanged.
func (s *state) thisRef() string {
	crossedArrow := false
	for i := len(s.funcs) - 1; i >= 0; i-- {
		f := s.funcs[i]
		if !f.isArrow {
			if crossedArrow {
				f.ann.createThis = true
				return "__this"
			}
			return "this"
		}
		crossedArrow = true
	}
	return "this"
}

func (s *state) runtimeCall(method string) string {
	return config.RuntimeName + "." + method
}
