// builtin_strings_test.go
package typhoon

import "testing"

func Test_Builtin_Len_Counts_Runes(t *testing.T) {
	wantNum(t, evalSrc(t, `len("hello");`), 5)
	wantNum(t, evalSrc(t, `len("");`), 0)
	wantNum(t, evalSrc(t, `len("héllo");`), 5)
}

func Test_Builtin_Substr(t *testing.T) {
	wantStr(t, evalSrc(t, `substr("typhoon", 0, 3);`), "typ")
	wantStr(t, evalSrc(t, `substr("typhoon", 3, 100);`), "hoon")
	wantStr(t, evalSrc(t, `substr("typhoon", 5, 2);`), "")
	wantStr(t, evalSrc(t, `substr("héllo", 1, 2);`), "é")
}

func Test_Builtin_Case_And_Trim(t *testing.T) {
	wantStr(t, evalSrc(t, `lower("MiXeD");`), "mixed")
	wantStr(t, evalSrc(t, `upper("MiXeD");`), "MIXED")
	wantStr(t, evalSrc(t, `trim("  padded  ");`), "padded")
}

func Test_Builtin_Contains_And_IndexOf(t *testing.T) {
	wantBool(t, evalSrc(t, `contains("haystack", "stack");`), true)
	wantBool(t, evalSrc(t, `contains("haystack", "needle");`), false)
	wantNum(t, evalSrc(t, `indexOf("haystack", "stack");`), 3)
	wantNum(t, evalSrc(t, `indexOf("haystack", "zz");`), -1)
	wantNum(t, evalSrc(t, `indexOf("héllo", "llo");`), 2)
}

func Test_Builtin_Replace(t *testing.T) {
	wantStr(t, evalSrc(t, `replace("a-b-c", "-", "+");`), "a+b+c")
}

func Test_Builtin_ParseNumber(t *testing.T) {
	wantNum(t, evalSrc(t, `parseNumber("12.5");`), 12.5)
	wantNum(t, evalSrc(t, `parseNumber(" -3 ");`), -3)
	wantNil(t, evalSrc(t, `parseNumber("not a number");`))
}

func Test_Builtin_Argument_Type_Checks(t *testing.T) {
	wantRuntimeErr(t, `len(42);`, "len: argument 1 must be a string")
	wantRuntimeErr(t, `substr("s", "a", 2);`, "substr: argument 2 must be a number")
}
