// printer_test.go
package typhoon

import "testing"

func Test_FormatValue_Display_Forms(t *testing.T) {
	cases := []struct {
		v    Value
		want string
	}{
		{Nil, "nil"},
		{Bool(true), "true"},
		{Bool(false), "false"},
		{Num(3), "3"},
		{Num(-0.5), "-0.5"},
		{Num(1e21), "1e+21"},
		{Str("plain text"), "plain text"},
		{FunVal(&Fun{Name: "f"}), "<fun f>"},
		{FunVal(&Fun{}), "<fun>"},
		{FunVal(&Fun{NativeName: "clock"}), "<native fun clock>"},
		{ClassVal(&Class{Name: "C"}), "<class C>"},
		{InstanceVal(NewInstance(&Class{Name: "C"})), "<instance of C>"},
	}
	for _, c := range cases {
		if got := FormatValue(c.v); got != c.want {
			t.Errorf("FormatValue(%#v) = %q, want %q", c.v, got, c.want)
		}
	}
}

func Test_FormatValue_Integral_Numbers_Drop_Fraction(t *testing.T) {
	if got := FormatValue(evalSrc(t, "4 / 2;")); got != "2" {
		t.Errorf("got %q, want 2", got)
	}
	if got := FormatValue(evalSrc(t, "5 / 2;")); got != "2.5" {
		t.Errorf("got %q, want 2.5", got)
	}
}

func Test_FormatTokens_Joins_Lexemes(t *testing.T) {
	toks, errs := NewLexer("var x=1+2;").Scan()
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	if got := FormatTokens(toks); got != "var x = 1 + 2 ;" {
		t.Errorf("got %q", got)
	}
}

func Test_FormatTokens_Round_Trip(t *testing.T) {
	// Rescanning the formatted stream yields the same tokens.
	src := `fun f ( a ) { return a . b == "s" ; }`
	first, errs := NewLexer(src).Scan()
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors: %v", errs)
	}
	second, errs := NewLexer(FormatTokens(first)).Scan()
	if len(errs) != 0 {
		t.Fatalf("unexpected lex errors on rescan: %v", errs)
	}
	if len(first) != len(second) {
		t.Fatalf("token count changed: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i].Type != second[i].Type || first[i].Lexeme != second[i].Lexeme {
			t.Fatalf("token %d changed: %v %q vs %v %q",
				i, first[i].Type, first[i].Lexeme, second[i].Type, second[i].Lexeme)
		}
	}
}
