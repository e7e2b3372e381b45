// interpreter_ops.go — private operator semantics.
//
// Truthiness: only nil and false are falsy. Equality: nil equals only nil,
// primitives compare by value, functions/classes/instances by identity.
// '+' adds numbers or concatenates strings; every other arithmetic or
// comparison operator requires two numbers. Division by zero is a runtime
// error.
package typhoon

// isTruthy maps a value to its conditional meaning.
func isTruthy(v Value) bool {
	switch v.Tag {
	case VTNil:
		return false
	case VTBool:
		return v.Data.(bool)
	default:
		return true
	}
}

// valuesEqual implements '=='.
func valuesEqual(a, b Value) bool {
	if a.Tag != b.Tag {
		return false
	}
	switch a.Tag {
	case VTNil:
		return true
	case VTBool:
		return a.Data.(bool) == b.Data.(bool)
	case VTNum:
		return a.Data.(float64) == b.Data.(float64)
	case VTStr:
		return a.Data.(string) == b.Data.(string)
	case VTFun:
		return a.Data.(*Fun) == b.Data.(*Fun)
	case VTClass:
		return a.Data.(*Class) == b.Data.(*Class)
	case VTInstance:
		return a.Data.(*Instance) == b.Data.(*Instance)
	default:
		return false
	}
}

func (ip *Interpreter) evalUnary(e *UnaryExpr, env *Env) Value {
	right := ip.evaluate(e.Right, env)
	switch e.Op.Type {
	case MINUS:
		if right.Tag != VTNum {
			failAt(e.Op, "operand must be a number")
		}
		return Num(-right.Data.(float64))
	case BANG:
		return Bool(!isTruthy(right))
	default:
		failAt(e.Op, "unknown unary operator %q", e.Op.Lexeme)
		return Nil
	}
}

func (ip *Interpreter) evalBinary(e *BinaryExpr, env *Env) Value {
	left := ip.evaluate(e.Left, env)
	right := ip.evaluate(e.Right, env)

	switch e.Op.Type {
	case PLUS:
		if left.Tag == VTNum && right.Tag == VTNum {
			return Num(left.Data.(float64) + right.Data.(float64))
		}
		if left.Tag == VTStr && right.Tag == VTStr {
			return Str(left.Data.(string) + right.Data.(string))
		}
		failAt(e.Op, "operands must be two numbers or two strings")
	case MINUS:
		l, r := ip.numOperands(e.Op, left, right)
		return Num(l - r)
	case MULT:
		l, r := ip.numOperands(e.Op, left, right)
		return Num(l * r)
	case DIV:
		l, r := ip.numOperands(e.Op, left, right)
		if r == 0 {
			failAt(e.Op, "divide by zero")
		}
		return Num(l / r)
	case GREATER:
		l, r := ip.numOperands(e.Op, left, right)
		return Bool(l > r)
	case GREATER_EQ:
		l, r := ip.numOperands(e.Op, left, right)
		return Bool(l >= r)
	case LESS:
		l, r := ip.numOperands(e.Op, left, right)
		return Bool(l < r)
	case LESS_EQ:
		l, r := ip.numOperands(e.Op, left, right)
		return Bool(l <= r)
	case EQ:
		return Bool(valuesEqual(left, right))
	case NEQ:
		return Bool(!valuesEqual(left, right))
	default:
		failAt(e.Op, "unknown binary operator %q", e.Op.Lexeme)
	}
	return Nil
}

func (ip *Interpreter) numOperands(op Token, left, right Value) (float64, float64) {
	if left.Tag != VTNum || right.Tag != VTNum {
		failAt(op, "operands must be numbers")
	}
	return left.Data.(float64), right.Data.(float64)
}
