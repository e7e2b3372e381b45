// resolver_test.go
package typhoon

import (
	"strings"
	"testing"
)

func resolveSrc(t *testing.T, src string) (map[Expr]int, []error) {
	t.Helper()
	stmts, err := ParseSource(src)
	if err != nil {
		t.Fatalf("parse error for %q: %v", src, err)
	}
	return NewResolver().Resolve(stmts)
}

func wantResolveErr(t *testing.T, src, substr string) {
	t.Helper()
	_, errs := resolveSrc(t, src)
	if len(errs) == 0 {
		t.Fatalf("want resolve error containing %q, got none", substr)
	}
	for _, e := range errs {
		if strings.Contains(e.Error(), substr) {
			return
		}
	}
	t.Fatalf("no error contains %q: %v", substr, errs)
}

func wantNoResolveErr(t *testing.T, src string) {
	t.Helper()
	_, errs := resolveSrc(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected resolve errors: %v", errs)
	}
}

func Test_Resolver_Self_Referential_Initializer(t *testing.T) {
	wantResolveErr(t, "{ var a = a; }", "cannot read local variable in its own initializer")
}

func Test_Resolver_Self_Reference_At_Top_Level_Is_Fine(t *testing.T) {
	// Globals resolve by name at run time; the static check only covers
	// lexical scopes.
	wantNoResolveErr(t, "var a = a;")
}

func Test_Resolver_Shadowing_Outer_Is_Fine(t *testing.T) {
	wantNoResolveErr(t, "var a = 1; { var a = a; }")
}

func Test_Resolver_Redeclaration_In_Same_Scope(t *testing.T) {
	wantResolveErr(t, "{ var a = 1; var a = 2; }", `"a" already exists in this scope`)
}

func Test_Resolver_Redeclaration_At_Top_Level_Is_Fine(t *testing.T) {
	wantNoResolveErr(t, "var a = 1; var a = 2;")
}

func Test_Resolver_Return_Value_In_Initializer(t *testing.T) {
	wantResolveErr(t, `class C { init() { return 1; } }`, "cannot return a value from an initializer")
	// A bare return is the early-exit form and stays legal.
	wantNoResolveErr(t, `class C { init() { return; } }`)
}

func Test_Resolver_Top_Level_Return_Passes(t *testing.T) {
	// Deferred to run time
	wantNoResolveErr(t, "return 1;")
}

func Test_Resolver_This_Outside_Class(t *testing.T) {
	wantResolveErr(t, "print this;", "'this' outside a class")
	wantResolveErr(t, "fun f() { return this; }", "'this' outside a class")
}

func Test_Resolver_This_In_Static_Method(t *testing.T) {
	wantResolveErr(t, `class C { class s() { return this; } }`, "'this' inside a static method")
}

func Test_Resolver_Super_Violations(t *testing.T) {
	wantResolveErr(t, "print super.m;", "'super' outside a class")
	wantResolveErr(t, `class C { m() { return super.m(); } }`, "'super' in a class with no superclass")
	wantResolveErr(t, `class B < A { class s() { return super.s(); } }`, "'super' inside a static method")
}

func Test_Resolver_Class_Inheriting_From_Itself(t *testing.T) {
	wantResolveErr(t, "class C < C {}", "cannot inherit from itself")
}

func Test_Resolver_Break_Continue_Outside_Loop(t *testing.T) {
	wantResolveErr(t, "break;", "'break' outside a loop")
	wantResolveErr(t, "continue;", "'continue' outside a loop")
	wantResolveErr(t, "fun f() { break; }", "'break' outside a loop")
	wantResolveErr(t, "while (true) { fun f() { break; } }", "'break' outside a loop")
	wantNoResolveErr(t, "while (true) { break; }")
	wantNoResolveErr(t, "while (true) { continue; }")
}

func Test_Resolver_Distance_Table(t *testing.T) {
	// inner reads a from one frame out, b from its own frame, g not at all
	src := `
var g = 0;
{
  var a = 1;
  {
    var b = 2;
    print a;
    print b;
    print g;
  }
}`
	locals, errs := resolveSrc(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	byName := map[string]int{}
	for e, d := range locals {
		if v, ok := e.(*VariableExpr); ok {
			byName[v.Name.Lexeme] = d
		}
	}
	if byName["a"] != 1 {
		t.Errorf("a: want distance 1, got %d", byName["a"])
	}
	if byName["b"] != 0 {
		t.Errorf("b: want distance 0, got %d", byName["b"])
	}
	if _, ok := byName["g"]; ok {
		t.Errorf("g is a global and must have no table entry")
	}
}

func Test_Resolver_Closure_Distance(t *testing.T) {
	src := `
fun make() {
  var n = 0;
  fun bump() { n = n + 1; return n; }
  return bump;
}`
	locals, errs := resolveSrc(t, src)
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	// Both the assignment and the read of n inside bump sit one frame out.
	found := 0
	for e, d := range locals {
		switch n := e.(type) {
		case *AssignExpr:
			if n.Name.Lexeme == "n" {
				found++
				if d != 1 {
					t.Errorf("assign n: want distance 1, got %d", d)
				}
			}
		case *VariableExpr:
			if n.Name.Lexeme == "n" {
				found++
				if d != 1 {
					t.Errorf("read n: want distance 1, got %d", d)
				}
			}
		}
	}
	if found == 0 {
		t.Fatalf("no entries for n in the distance table")
	}
}
