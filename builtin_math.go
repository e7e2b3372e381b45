// builtin_math.go — numeric natives installed into Core.
package typhoon

import (
	"math"
	"math/rand"
)

func registerMathBuiltins(ip *Interpreter) {
	ip.RegisterNative("floor", 1, func(_ *Interpreter, args []Value) Value {
		return Num(math.Floor(argNum("floor", args, 0)))
	})

	ip.RegisterNative("ceil", 1, func(_ *Interpreter, args []Value) Value {
		return Num(math.Ceil(argNum("ceil", args, 0)))
	})

	ip.RegisterNative("abs", 1, func(_ *Interpreter, args []Value) Value {
		return Num(math.Abs(argNum("abs", args, 0)))
	})

	ip.RegisterNative("sqrt", 1, func(_ *Interpreter, args []Value) Value {
		f := argNum("sqrt", args, 0)
		if f < 0 {
			nativeFail("sqrt", "argument must not be negative")
		}
		return Num(math.Sqrt(f))
	})

	// Uniform float in [0, 1).
	ip.RegisterNative("rand", 0, func(_ *Interpreter, _ []Value) Value {
		return Num(rand.Float64())
	})

	// Uniform integer in [0, n).
	ip.RegisterNative("randInt", 1, func(_ *Interpreter, args []Value) Value {
		n := int64(argNum("randInt", args, 0))
		if n <= 0 {
			nativeFail("randInt", "bound must be positive")
		}
		return Num(float64(rand.Int63n(n)))
	})
}
