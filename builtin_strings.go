// builtin_strings.go — string natives installed into Core.
package typhoon

import (
	"strconv"
	"strings"
)

// nativeFail raises a runtime error from inside a native. Natives have no
// source token, so the error carries the native's name instead of a column.
func nativeFail(name, msg string) {
	panic(&RuntimeError{Line: 1, Col: 1, Msg: name + ": " + msg})
}

func argStr(name string, args []Value, i int) string {
	if args[i].Tag != VTStr {
		nativeFail(name, "argument "+strconv.Itoa(i+1)+" must be a string")
	}
	return args[i].Data.(string)
}

func argNum(name string, args []Value, i int) float64 {
	if args[i].Tag != VTNum {
		nativeFail(name, "argument "+strconv.Itoa(i+1)+" must be a number")
	}
	return args[i].Data.(float64)
}

func registerStringBuiltins(ip *Interpreter) {
	// Rune count, not byte length.
	ip.RegisterNative("len", 1, func(_ *Interpreter, args []Value) Value {
		return Num(float64(len([]rune(argStr("len", args, 0)))))
	})

	// Unicode-safe substring over the half-open rune range [i, j),
	// clamped to bounds.
	ip.RegisterNative("substr", 3, func(_ *Interpreter, args []Value) Value {
		s := []rune(argStr("substr", args, 0))
		i := int(argNum("substr", args, 1))
		j := int(argNum("substr", args, 2))
		if i < 0 {
			i = 0
		}
		if j < i {
			j = i
		}
		if i > len(s) {
			i = len(s)
		}
		if j > len(s) {
			j = len(s)
		}
		return Str(string(s[i:j]))
	})

	ip.RegisterNative("lower", 1, func(_ *Interpreter, args []Value) Value {
		return Str(strings.ToLower(argStr("lower", args, 0)))
	})

	ip.RegisterNative("upper", 1, func(_ *Interpreter, args []Value) Value {
		return Str(strings.ToUpper(argStr("upper", args, 0)))
	})

	ip.RegisterNative("trim", 1, func(_ *Interpreter, args []Value) Value {
		return Str(strings.TrimSpace(argStr("trim", args, 0)))
	})

	ip.RegisterNative("contains", 2, func(_ *Interpreter, args []Value) Value {
		return Bool(strings.Contains(argStr("contains", args, 0), argStr("contains", args, 1)))
	})

	// Rune index of the first occurrence, or -1.
	ip.RegisterNative("indexOf", 2, func(_ *Interpreter, args []Value) Value {
		s := argStr("indexOf", args, 0)
		byteIdx := strings.Index(s, argStr("indexOf", args, 1))
		if byteIdx < 0 {
			return Num(-1)
		}
		return Num(float64(len([]rune(s[:byteIdx]))))
	})

	ip.RegisterNative("replace", 3, func(_ *Interpreter, args []Value) Value {
		return Str(strings.ReplaceAll(
			argStr("replace", args, 0),
			argStr("replace", args, 1),
			argStr("replace", args, 2)))
	})

	// parseNumber returns nil when s is not a number, so scripts can probe
	// without a runtime error.
	ip.RegisterNative("parseNumber", 1, func(_ *Interpreter, args []Value) Value {
		f, err := strconv.ParseFloat(strings.TrimSpace(argStr("parseNumber", args, 0)), 64)
		if err != nil {
			return Nil
		}
		return Num(f)
	})
}
