// builtin_core.go — natives installed into Core at construction.
package typhoon

import "time"

func registerStandardBuiltins(ip *Interpreter) {
	// Seconds since the Unix epoch, for timing scripts.
	ip.RegisterNative("clock", 0, func(_ *Interpreter, _ []Value) Value {
		return Num(float64(time.Now().UnixNano()) / 1e9)
	})

	// Display form of any value, as print would write it.
	ip.RegisterNative("str", 1, func(_ *Interpreter, args []Value) Value {
		return Str(FormatValue(args[0]))
	})

	registerStringBuiltins(ip)
	registerMathBuiltins(ip)
}
