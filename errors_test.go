// errors_test.go
package typhoon

import (
	"strings"
	"testing"
)

func Test_WrapError_Parse_Snippet(t *testing.T) {
	src := "var x = 1;\nvar = 2;\nprint x;"
	_, err := ParseSource(src)
	if err == nil {
		t.Fatal("want parse error")
	}
	out := WrapErrorWithSource(err, src).Error()

	if !strings.Contains(out, "PARSE ERROR at 2:5: expected variable name") {
		t.Errorf("missing header, got:\n%s", out)
	}
	// context lines with the gutter
	for _, want := range []string{
		"   1 | var x = 1;",
		"   2 | var = 2;",
		"   3 | print x;",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q, got:\n%s", want, out)
		}
	}
	// caret under column 5
	if !strings.Contains(out, "     |     ^") {
		t.Errorf("caret misplaced, got:\n%s", out)
	}
}

func Test_WrapError_Runtime_Snippet(t *testing.T) {
	src := `1 / 0;`
	_, err := NewInterpreter().EvalSource(src)
	if err == nil {
		t.Fatal("want runtime error")
	}
	out := WrapErrorWithName(err, "script.ty", src).Error()
	if !strings.Contains(out, "RUNTIME ERROR in script.ty at 1:3: divide by zero") {
		t.Errorf("bad header, got:\n%s", out)
	}
	if !strings.Contains(out, "   1 | 1 / 0;") {
		t.Errorf("missing source line, got:\n%s", out)
	}
}

func Test_WrapError_Lex_Snippet(t *testing.T) {
	src := `var s = "open`
	_, errs := NewLexer(src).Scan()
	if len(errs) != 1 {
		t.Fatalf("want one lex error, got %v", errs)
	}
	out := WrapErrorWithSource(errs[0], src).Error()
	if !strings.Contains(out, "LEXICAL ERROR at 1:9:") {
		t.Errorf("bad header, got:\n%s", out)
	}
}

func Test_WrapError_Static_List_Wraps_Each_Entry(t *testing.T) {
	src := "var = 1;\nvar x 2;"
	_, err := ParseSource(src)
	out := WrapErrorWithSource(err, src).Error()
	if strings.Count(out, "PARSE ERROR") != 2 {
		t.Errorf("want both entries wrapped, got:\n%s", out)
	}
}

func Test_WrapError_Unknown_Kind_Passes_Through(t *testing.T) {
	err := WrapErrorWithSource(errFixed("boom"), "src")
	if err.Error() != "boom" {
		t.Errorf("got %q", err.Error())
	}
}

type errFixed string

func (e errFixed) Error() string { return string(e) }
