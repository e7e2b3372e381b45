// interpreter_exec.go — private execution engine.
//
// Statements execute for effect, expressions evaluate to Values. Non-local
// control flow (return, break, continue) and runtime errors share one
// unwind mechanism: a panic carrying either a control signal struct or a
// *RuntimeError. Control signals are consumed at exactly their handler
// (call boundary for return, loop head for break/continue) and are never
// observable above it; runtime errors travel to the single recover point
// in runTop.
package typhoon

import "fmt"

// control signals

type returnSignal struct {
	value   Value
	keyword Token
}

type breakSignal struct{}

type continueSignal struct{}

// failAt raises a runtime error positioned at tok.
func failAt(tok Token, format string, args ...interface{}) {
	panic(&RuntimeError{Line: tok.Line, Col: tok.Col + 1, Msg: fmt.Sprintf(format, args...)})
}

// runTop executes a resolved program against the run-top environment and
// is the sole recover point for runtime errors. The returned Value is the
// result of the last top-level expression statement.
func (ip *Interpreter) runTop(stmts []Stmt, env *Env) (out Value, err error) {
	ip.globals = env

	defer func() {
		if r := recover(); r != nil {
			switch sig := r.(type) {
			case *RuntimeError:
				out, err = Nil, sig
			case returnSignal:
				out, err = Nil, &RuntimeError{
					Line: sig.keyword.Line,
					Col:  sig.keyword.Col + 1,
					Msg:  "cannot return from top-level code",
				}
			default:
				panic(r)
			}
		}
	}()

	out = Nil
	for _, s := range stmts {
		if es, ok := s.(*ExprStmt); ok {
			out = ip.evaluate(es.Expr, env)
			continue
		}
		ip.execute(s, env)
		out = Nil
	}
	return out, nil
}

// ----- statements -----

func (ip *Interpreter) execute(stmt Stmt, env *Env) {
	switch s := stmt.(type) {
	case *ExprStmt:
		ip.evaluate(s.Expr, env)
	case *PrintStmt:
		v := ip.evaluate(s.Expr, env)
		fmt.Fprintln(ip.out, FormatValue(v))
	case *VarStmt:
		v := Nil
		if s.Init != nil {
			v = ip.evaluate(s.Init, env)
		}
		env.Define(s.Name.Lexeme, v)
	case *BlockStmt:
		ip.executeBlock(s.Stmts, NewEnv(env))
	case *IfStmt:
		if isTruthy(ip.evaluate(s.Cond, env)) {
			ip.execute(s.Then, env)
		} else if s.Else != nil {
			ip.execute(s.Else, env)
		}
	case *WhileStmt:
		for isTruthy(ip.evaluate(s.Cond, env)) {
			if ip.runLoopBody(s.Body, env) {
				break
			}
		}
	case *FunStmt:
		fn := &Fun{Name: s.Name.Lexeme, Params: s.Params, Body: s.Body, Env: env}
		env.Define(s.Name.Lexeme, FunVal(fn))
	case *ReturnStmt:
		v := Nil
		if s.Value != nil {
			v = ip.evaluate(s.Value, env)
		}
		panic(returnSignal{value: v, keyword: s.Keyword})
	case *BreakStmt:
		panic(breakSignal{})
	case *ContinueStmt:
		panic(continueSignal{})
	case *ClassStmt:
		ip.executeClass(s, env)
	default:
		panic(fmt.Sprintf("interpreter: unknown statement %T", stmt))
	}
}

func (ip *Interpreter) executeBlock(stmts []Stmt, env *Env) {
	for _, s := range stmts {
		ip.execute(s, env)
	}
}

// runLoopBody executes one loop iteration, consuming break/continue
// signals. Returns true when the loop should stop.
func (ip *Interpreter) runLoopBody(body Stmt, env *Env) (stop bool) {
	defer func() {
		if r := recover(); r != nil {
			switch r.(type) {
			case breakSignal:
				stop = true
			case continueSignal:
				stop = false
			default:
				panic(r)
			}
		}
	}()
	ip.execute(body, env)
	return false
}

func (ip *Interpreter) executeClass(s *ClassStmt, env *Env) {
	var superclass *Class
	if s.Superclass != nil {
		sv := ip.evaluate(s.Superclass, env)
		if sv.Tag != VTClass {
			failAt(s.Superclass.Name, "superclass must be a class")
		}
		superclass = sv.Data.(*Class)
	}

	env.Define(s.Name.Lexeme, Nil)

	methodEnv := env
	if superclass != nil {
		methodEnv = NewEnv(env)
		methodEnv.Define("super", ClassVal(superclass))
	}

	methods := make(map[string]*Fun, len(s.Methods))
	for _, m := range s.Methods {
		methods[m.Name.Lexeme] = &Fun{
			Name:   m.Name.Lexeme,
			Params: m.Params,
			Body:   m.Body,
			Env:    methodEnv,
			IsInit: m.Name.Lexeme == "init",
		}
	}

	statics := make(map[string]Value, len(s.Statics))
	for _, m := range s.Statics {
		statics[m.Name.Lexeme] = FunVal(&Fun{
			Name:   m.Name.Lexeme,
			Params: m.Params,
			Body:   m.Body,
			Env:    env,
		})
	}

	class := &Class{
		Name:       s.Name.Lexeme,
		Superclass: superclass,
		Methods:    methods,
		Statics:    statics,
	}
	if err := env.Set(s.Name.Lexeme, ClassVal(class)); err != nil {
		failAt(s.Name, "%s", err.Error())
	}
}

// ----- expressions -----

func (ip *Interpreter) evaluate(expr Expr, env *Env) Value {
	switch e := expr.(type) {
	case *LiteralExpr:
		return literalValue(e.Value)
	case *VariableExpr:
		return ip.lookupVariable(e, e.Name, env)
	case *AssignExpr:
		v := ip.evaluate(e.Value, env)
		ip.assignVariable(e, e.Name, v, env)
		return v
	case *UnaryExpr:
		return ip.evalUnary(e, env)
	case *BinaryExpr:
		return ip.evalBinary(e, env)
	case *LogicalExpr:
		left := ip.evaluate(e.Left, env)
		if e.Op.Type == OR {
			if isTruthy(left) {
				return left
			}
		} else if !isTruthy(left) {
			return left
		}
		return ip.evaluate(e.Right, env)
	case *TernaryExpr:
		if isTruthy(ip.evaluate(e.Cond, env)) {
			return ip.evaluate(e.Then, env)
		}
		return ip.evaluate(e.Else, env)
	case *CommaExpr:
		ip.evaluate(e.Left, env)
		return ip.evaluate(e.Right, env)
	case *CallExpr:
		callee := ip.evaluate(e.Callee, env)
		args := make([]Value, 0, len(e.Args))
		for _, a := range e.Args {
			args = append(args, ip.evaluate(a, env))
		}
		return ip.callValue(callee, args, e.Paren)
	case *GetExpr:
		return ip.evalGet(e, env)
	case *SetExpr:
		return ip.evalSet(e, env)
	case *ThisExpr:
		return ip.lookupVariable(e, e.Keyword, env)
	case *SuperExpr:
		return ip.evalSuper(e, env)
	case *GroupingExpr:
		return ip.evaluate(e.Inner, env)
	case *LambdaExpr:
		return FunVal(&Fun{Params: e.Params, Body: e.Body, Env: env})
	default:
		panic(fmt.Sprintf("interpreter: unknown expression %T", expr))
	}
}

func literalValue(lit interface{}) Value {
	switch v := lit.(type) {
	case nil:
		return Nil
	case bool:
		return Bool(v)
	case float64:
		return Num(v)
	case string:
		return Str(v)
	default:
		panic(fmt.Sprintf("interpreter: unknown literal %T", lit))
	}
}

// lookupVariable reads a reference through its resolved distance, or by
// name from the run-top frame when the resolver left it global.
func (ip *Interpreter) lookupVariable(node Expr, name Token, env *Env) Value {
	if dist, ok := ip.locals[node]; ok {
		v, err := env.GetAt(dist, name.Lexeme)
		if err != nil {
			failAt(name, "%s", err.Error())
		}
		return v
	}
	v, err := ip.globals.Get(name.Lexeme)
	if err != nil {
		failAt(name, "%s", err.Error())
	}
	return v
}

func (ip *Interpreter) assignVariable(node Expr, name Token, v Value, env *Env) {
	if dist, ok := ip.locals[node]; ok {
		if err := env.SetAt(dist, name.Lexeme, v); err != nil {
			failAt(name, "%s", err.Error())
		}
		return
	}
	if err := ip.globals.Set(name.Lexeme, v); err != nil {
		failAt(name, "%s", err.Error())
	}
}

// ----- calls -----

// callValue invokes a function or class value. paren positions errors.
func (ip *Interpreter) callValue(callee Value, args []Value, paren Token) Value {
	switch callee.Tag {
	case VTFun:
		f := callee.Data.(*Fun)
		if len(args) != f.Arity() {
			failAt(paren, "expected %d arguments but got %d", f.Arity(), len(args))
		}
		return ip.callFun(f, args)
	case VTClass:
		c := callee.Data.(*Class)
		if len(args) != c.Arity() {
			failAt(paren, "expected %d arguments but got %d", c.Arity(), len(args))
		}
		inst := NewInstance(c)
		if init := c.FindMethod("init"); init != nil {
			ip.callFun(init.Bind(inst), args)
		}
		return InstanceVal(inst)
	default:
		failAt(paren, "can only call functions and classes")
		return Nil
	}
}

// callFun runs a function body in a fresh frame chained to the closure
// environment (not the caller's), which is what makes scoping lexical.
func (ip *Interpreter) callFun(f *Fun, args []Value) Value {
	if f.NativeName != "" {
		impl, ok := ip.native[f.NativeName]
		if !ok {
			panic(&RuntimeError{Line: 0, Col: 0, Msg: "unregistered native: " + f.NativeName})
		}
		return impl(ip, args)
	}

	env := NewEnv(f.Env)
	for i, p := range f.Params {
		env.Define(p.Lexeme, args[i])
	}

	ret := ip.runBody(f.Body, env)
	if f.IsInit {
		// init always yields the instance, even on a bare return.
		this, _ := f.Env.Get("this")
		return this
	}
	return ret
}

// runBody executes a function body, consuming the return signal at this
// call boundary.
func (ip *Interpreter) runBody(body []Stmt, env *Env) (ret Value) {
	defer func() {
		if r := recover(); r != nil {
			if sig, ok := r.(returnSignal); ok {
				ret = sig.value
				return
			}
			panic(r)
		}
	}()
	ip.executeBlock(body, env)
	return Nil
}

// ----- properties -----

func (ip *Interpreter) evalGet(e *GetExpr, env *Env) Value {
	obj := ip.evaluate(e.Object, env)
	switch obj.Tag {
	case VTInstance:
		inst := obj.Data.(*Instance)
		if v, ok := inst.Fields[e.Name.Lexeme]; ok {
			return v
		}
		if m := inst.Class.FindMethod(e.Name.Lexeme); m != nil {
			return FunVal(m.Bind(inst))
		}
		failAt(e.Name, "undefined property %q", e.Name.Lexeme)
	case VTClass:
		c := obj.Data.(*Class)
		if v, ok := c.Statics[e.Name.Lexeme]; ok {
			return v
		}
		failAt(e.Name, "undefined property %q on class %s", e.Name.Lexeme, c.Name)
	default:
		failAt(e.Name, "only instances have properties")
	}
	return Nil
}

func (ip *Interpreter) evalSet(e *SetExpr, env *Env) Value {
	obj := ip.evaluate(e.Object, env)
	switch obj.Tag {
	case VTInstance:
		v := ip.evaluate(e.Value, env)
		obj.Data.(*Instance).Fields[e.Name.Lexeme] = v
		return v
	case VTClass:
		v := ip.evaluate(e.Value, env)
		obj.Data.(*Class).Statics[e.Name.Lexeme] = v
		return v
	default:
		failAt(e.Name, "only instances have fields")
		return Nil
	}
}

// evalSuper resolves the method one level above the class that lexically
// contains the calling method, and binds it to the current instance.
func (ip *Interpreter) evalSuper(e *SuperExpr, env *Env) Value {
	dist, ok := ip.locals[e]
	if !ok {
		failAt(e.Keyword, "'super' used outside a subclass method")
	}
	superVal, err := env.GetAt(dist, "super")
	if err != nil {
		failAt(e.Keyword, "%s", err.Error())
	}
	thisVal, err := env.GetAt(dist-1, "this")
	if err != nil {
		failAt(e.Keyword, "%s", err.Error())
	}

	superclass := superVal.Data.(*Class)
	method := superclass.FindMethod(e.Method.Lexeme)
	if method == nil {
		failAt(e.Method, "undefined property %q", e.Method.Lexeme)
	}
	return FunVal(method.Bind(thisVal.Data.(*Instance)))
}
