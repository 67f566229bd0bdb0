package esdown

import (
	"strings"
	"testing"
)

func translateOK(t *testing.T, src string, opts TranslateOptions) string {
	t.Helper()
	out, err := Translate(src, opts)
	if err != nil {
		t.Fatalf("translate(%q) failed: %v", src, err)
	}
	return out
}

func TestTranslateLetBecomesVar(t *testing.T) {
	out := translateOK(t, "let x = 1;", TranslateOptions{})
	if !strings.Contains(out, "var x = 1") {
		t.Errorf("got %q, want it to contain 'var x = 1'", out)
	}
	if strings.Contains(out, "let ") {
		t.Errorf("got %q, want no 'let' keyword in output", out)
	}
}

func TestTranslateArrowFunctionPreservesThis(t *testing.T) {
	out := translateOK(t, "function outer() { var f = () => this.x; return f; }", TranslateOptions{})
	if !strings.Contains(out, "var __this = this;") {
		t.Errorf("got %q, want a __this capture prologue", out)
	}
	if !strings.Contains(out, "__this.x") {
		t.Errorf("got %q, want the arrow body to reference __this", out)
	}
}

func TestTranslateRestParameter(t *testing.T) {
	out := translateOK(t, "function f(a, ...rest) { return rest; }", TranslateOptions{})
	if !strings.Contains(out, "_runtime.rest(arguments, 1)") {
		t.Errorf("got %q, want a _runtime.rest(arguments, 1) capture", out)
	}
}

func TestTranslateDefaultParameter(t *testing.T) {
	out := translateOK(t, "function f(a = 1) { return a; }", TranslateOptions{})
	if !strings.Contains(out, "if (a === void 0) a = 1;") {
		t.Errorf("got %q, want a default-value prologue line", out)
	}
}

func TestTranslateArrayDestructuringDeclaration(t *testing.T) {
	out := translateOK(t, "var [a, b] = pair;", TranslateOptions{})
	if !strings.Contains(out, "a = __$1[0]") || !strings.Contains(out, "b = __$1[1]") {
		t.Errorf("got %q, want unrolled array destructuring assignments", out)
	}
}

func TestTranslateObjectDestructuringDeclaration(t *testing.T) {
	out := translateOK(t, "var {x, y} = point;", TranslateOptions{})
	if !strings.Contains(out, "x = __$1.x") || !strings.Contains(out, "y = __$1.y") {
		t.Errorf("got %q, want unrolled object destructuring assignments", out)
	}
}

func TestTranslateForOfLoop(t *testing.T) {
	out := translateOK(t, "for (var x of items) { total += x; }", TranslateOptions{})
	if !strings.Contains(out, "_runtime.iterator(items)") {
		t.Errorf("got %q, want a _runtime.iterator call", out)
	}
	if !strings.Contains(out, ".next()") || !strings.Contains(out, ".done") {
		t.Errorf("got %q, want the iterator-protocol loop shape", out)
	}
}

func TestTranslateClassWithSuperCall(t *testing.T) {
	out := translateOK(t, `
		class Animal {
			speak() { return "..."; }
		}
		class Dog extends Animal {
			constructor(name) {
				super();
				this.name = name;
			}
			speak() {
				return super.speak() + "!";
			}
		}
	`, TranslateOptions{})
	if !strings.Contains(out, "_runtime.class(") {
		t.Errorf("got %q, want a _runtime.class(...) call", out)
	}
	if !strings.Contains(out, "__super.constructor") {
		t.Errorf("got %q, want a __super.constructor call", out)
	}
	if !strings.Contains(out, "__super.speak") {
		t.Errorf("got %q, want a __super.speak member rewrite", out)
	}
}

func TestTranslateTemplateLiteral(t *testing.T) {
	out := translateOK(t, `var s = "x is " + x + "!";`, TranslateOptions{})
	if !strings.Contains(out, `"x is "`) {
		t.Errorf("got %q", out)
	}

	out = translateOK(t, "var s = `x is ${x}!`;", TranslateOptions{})
	if !strings.Contains(out, "+ (x) +") {
		t.Errorf("got %q, want string-concatenation form of the template", out)
	}
}

func TestTranslateTemplateWithOnlyInterpolationsForcesStringCoercion(t *testing.T) {
	out := translateOK(t, "var s = `${a}${b}`;", TranslateOptions{})
	if !strings.HasPrefix(strings.TrimPrefix(out, "var s = "), `"" + (a) + (b)`) {
		t.Errorf("got %q, want a leading \"\" so + coerces to string concatenation instead of numeric addition", out)
	}
}

func TestTranslateAsyncFunctionWrapsInRuntime(t *testing.T) {
	out := translateOK(t, "async function f() { var v = await g(); return v; }", TranslateOptions{})
	if !strings.Contains(out, "_runtime.async(") {
		t.Errorf("got %q, want a _runtime.async(...) wrapper", out)
	}
	if !strings.Contains(out, "(yield g())") {
		t.Errorf("got %q, want await rewritten to yield", out)
	}
}

func TestTranslateSpreadInCall(t *testing.T) {
	out := translateOK(t, "f(1, ...args, 2);", TranslateOptions{})
	if !strings.Contains(out, ".apply(") || !strings.Contains(out, ".concat(") {
		t.Errorf("got %q, want an apply/concat spread rewrite", out)
	}
}

func TestTranslateModuleExport(t *testing.T) {
	out := translateOK(t, "export var x = 1;", TranslateOptions{Module: true})
	if !strings.Contains(out, "exports.x = x;") {
		t.Errorf("got %q, want an exports.x = x trailer", out)
	}
}

func TestTranslateWrapSignature(t *testing.T) {
	out := translateOK(t, "var x = 1;", TranslateOptions{Wrap: true})
	if !IsWrapped(out) {
		t.Errorf("wrapped output should satisfy IsWrapped: %q", out)
	}
	if !strings.HasPrefix(out, "/*=esdown=*/") {
		t.Errorf("got %q, want the wrap signature as a prefix", out)
	}
}

func TestParseReportsErrorsWithoutRunningReplacer(t *testing.T) {
	_, err := Parse("const x;", ParseOptions{})
	if err == nil {
		t.Fatalf("expected an error for const without an initializer")
	}
}
