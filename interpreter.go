// interpreter.go — public surface of the Typhoon runtime.
//
// This file holds the exported types and thin methods a host needs to embed
// the interpreter: the runtime value model (Value and its constructors),
// functions/classes/instances, lexical environments (Env), and the
// Interpreter with its canonical entry points. The evaluation engine lives
// in interpreter_exec.go and the operator semantics in interpreter_ops.go.
//
// EXECUTION & SCOPING
// -------------------
// Code evaluates in environments (*Env) forming a lexical chain via parent.
// The Interpreter exposes two well-known frames:
//   - Core: built-ins and registered natives (read-only to user code).
//   - Global: persistent program state (REPL globals), child of Core.
//
// Entry points differ only in which environment they target:
//   - EvalSource runs in a fresh child of Global: a standalone script gets
//     a clean global scope every run.
//   - EvalPersistentSource runs in Global itself, so declarations remain
//     visible across calls within a REPL session.
//
// Both entry points run the full pipeline: lex, parse, resolve, execute.
// Static errors (lexical, syntax, scope) abort before any statement runs
// and come back as a StaticErrors list; the first runtime error aborts the
// run and comes back as a *RuntimeError. The returned Value is the result
// of the last top-level expression statement (nil otherwise), which is
// what a REPL wants to echo.
package typhoon

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
)

// Version of the Typhoon runtime.
const Version = "0.3.0"

////////////////////////////////////////////////////////////////////////////////
//                              VALUE MODEL
////////////////////////////////////////////////////////////////////////////////

// ValueTag enumerates all runtime kinds a Value may hold.
type ValueTag int

const (
	VTNil      ValueTag = iota // nil (no payload)
	VTBool                     // bool
	VTNum                      // float64; the single number type
	VTStr                      // string
	VTFun                      // *Fun (closure; native or user-defined)
	VTClass                    // *Class
	VTInstance                 // *Instance
)

// Value is the universal runtime carrier used by the interpreter.
// Tag is the discriminant; Data holds the Go value appropriate for Tag.
type Value struct {
	Tag  ValueTag
	Data interface{}
}

// Nil is the singleton nil Value.
var Nil = Value{Tag: VTNil}

// Primitive constructors.
func Bool(b bool) Value           { return Value{Tag: VTBool, Data: b} }
func Num(f float64) Value         { return Value{Tag: VTNum, Data: f} }
func Str(s string) Value          { return Value{Tag: VTStr, Data: s} }
func FunVal(f *Fun) Value         { return Value{Tag: VTFun, Data: f} }
func ClassVal(c *Class) Value     { return Value{Tag: VTClass, Data: c} }
func InstanceVal(i *Instance) Value { return Value{Tag: VTInstance, Data: i} }

// String renders the display form: nil, true/false, numbers without a
// trailing fractional part when integral, strings raw, and stable tags for
// functions, classes and instances.
func (v Value) String() string {
	switch v.Tag {
	case VTNil:
		return "nil"
	case VTBool:
		if v.Data.(bool) {
			return "true"
		}
		return "false"
	case VTNum:
		return formatNum(v.Data.(float64))
	case VTStr:
		return v.Data.(string)
	case VTFun:
		f := v.Data.(*Fun)
		if f.NativeName != "" {
			return "<native fun " + f.NativeName + ">"
		}
		if f.Name == "" {
			return "<fun>"
		}
		return "<fun " + f.Name + ">"
	case VTClass:
		return "<class " + v.Data.(*Class).Name + ">"
	case VTInstance:
		return "<instance of " + v.Data.(*Instance).Class.Name + ">"
	default:
		return "<unknown>"
	}
}

func formatNum(f float64) string {
	if f == math.Trunc(f) && !math.IsInf(f, 0) && math.Abs(f) < 1e17 {
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// Fun represents a function/closure. Functions are first-class Values.
//
// Fields:
//   - Name       — declared name; empty for lambdas.
//   - Params     — parameter tokens in order.
//   - Body       — statements executed per call.
//   - Env        — closure environment captured at definition time.
//   - IsInit     — true for class initializers ("init" methods); calls
//     always yield the instance regardless of return.
//   - NativeName — non-empty iff implemented by a registered native; then
//     NativeArity is the arity and Params/Body are unused.
type Fun struct {
	Name   string
	Params []Token
	Body   []Stmt
	Env    *Env
	IsInit bool

	NativeName  string
	NativeArity int
}

// Arity returns the number of arguments the function expects.
func (f *Fun) Arity() int {
	if f.NativeName != "" {
		return f.NativeArity
	}
	return len(f.Params)
}

// Bind returns a copy of the method whose closure has this bound to the
// given instance. Binding is per call, so this always refers to the exact
// instance the method was invoked on.
func (f *Fun) Bind(inst *Instance) *Fun {
	env := NewEnv(f.Env)
	env.Define("this", InstanceVal(inst))
	bound := *f
	bound.Env = env
	return &bound
}

// Class is a runtime class value. Methods are captured at class-definition
// time; Superclass is a shared, non-owning reference. Statics holds static
// methods declared in the body plus any fields assigned on the class value
// afterwards.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Fun
	Statics    map[string]Value
}

// FindMethod looks name up the inheritance chain, nearest class first.
func (c *Class) FindMethod(name string) *Fun {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Arity of a class is the arity of its init method, if any.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Instance is a runtime object: a class back-reference (never reassigned
// after construction) and an open field map.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// NewInstance creates an empty instance of class.
func NewInstance(class *Class) *Instance {
	return &Instance{Class: class, Fields: map[string]Value{}}
}

////////////////////////////////////////////////////////////////////////////////
//                              ENVIRONMENTS
////////////////////////////////////////////////////////////////////////////////

// Env is a lexical environment frame with a parent link. Frames are shared
// by reference between the scope that created them and every closure
// captured under them; the garbage collector keeps a frame alive as long
// as any holder remains.
type Env struct {
	parent           *Env
	table            map[string]Value
	sealParentWrites bool
}

// NewEnv creates a new lexical frame with the given parent (which may be nil).
func NewEnv(parent *Env) *Env { return &Env{parent: parent, table: make(map[string]Value)} }

// SealParentWrites stops Set from climbing past this frame, so builtins in
// ancestor frames cannot be reassigned from user code.
func (e *Env) SealParentWrites() { e.sealParentWrites = true }

// Define binds name to v in the current frame, shadowing any outer binding.
func (e *Env) Define(name string, v Value) {
	e.table[name] = v
}

// Get retrieves the nearest visible binding for name or returns an error.
func (e *Env) Get(name string) (Value, error) {
	if v, ok := e.table[name]; ok {
		return v, nil
	}
	if e.parent != nil {
		return e.parent.Get(name)
	}
	return Value{}, fmt.Errorf("undefined variable: %s", name)
}

// Set updates the nearest existing binding of name to v. If no binding
// exists in any visible frame, Set returns an error; it never implicitly
// defines.
func (e *Env) Set(name string, v Value) error {
	if _, ok := e.table[name]; ok {
		e.table[name] = v
		return nil
	}
	if e.sealParentWrites {
		for p := e.parent; p != nil; p = p.parent {
			if _, ok := p.table[name]; ok {
				return fmt.Errorf("cannot assign to builtin: %s", name)
			}
		}
		return fmt.Errorf("undefined variable: %s", name)
	}
	if e.parent != nil {
		return e.parent.Set(name, v)
	}
	return fmt.Errorf("undefined variable: %s", name)
}

// ancestor walks exactly dist frames outward.
func (e *Env) ancestor(dist int) *Env {
	env := e
	for i := 0; i < dist; i++ {
		env = env.parent
	}
	return env
}

// GetAt reads name from the frame exactly dist hops outward. The resolver
// guarantees the binding exists; a miss is a defect, not user error.
func (e *Env) GetAt(dist int, name string) (Value, error) {
	env := e.ancestor(dist)
	if v, ok := env.table[name]; ok {
		return v, nil
	}
	return Value{}, fmt.Errorf("internal: resolved variable %s missing at distance %d", name, dist)
}

// SetAt writes name in the frame exactly dist hops outward.
func (e *Env) SetAt(dist int, name string, v Value) error {
	env := e.ancestor(dist)
	if _, ok := env.table[name]; !ok {
		return fmt.Errorf("internal: resolved variable %s missing at distance %d", name, dist)
	}
	env.table[name] = v
	return nil
}

////////////////////////////////////////////////////////////////////////////////
//                              ERRORS
////////////////////////////////////////////////////////////////////////////////

// RuntimeError represents an execution-time failure with a source location.
// Line and Col are 1-based.
type RuntimeError struct {
	Line int
	Col  int
	Msg  string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("RUNTIME ERROR at %d:%d: %s", e.Line, e.Col, e.Msg)
}

// StaticErrors aggregates the lexical, syntax and scope errors of one pass.
// Execution is never attempted when the list is non-empty.
type StaticErrors []error

func (es StaticErrors) Error() string {
	msgs := make([]string, len(es))
	for i, e := range es {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "\n")
}

////////////////////////////////////////////////////////////////////////////////
//                              INTERPRETER
////////////////////////////////////////////////////////////////////////////////

// NativeImpl is the implementation signature for registered host functions.
// Arguments arrive arity-checked.
type NativeImpl func(ip *Interpreter, args []Value) Value

// Interpreter is the entry point for evaluating Typhoon programs.
type Interpreter struct {
	Global *Env // program-global environment (persistent across EvalPersistentSource)
	Core   *Env // built-ins; parent of Global

	native  map[string]NativeImpl
	locals  map[Expr]int // resolver side table, accumulated across runs
	globals *Env         // run-top frame for by-name resolution
	out     io.Writer
}

// NewInterpreter constructs an engine with core natives and an empty
// Global (child of Core). Print output defaults to stdout.
func NewInterpreter() *Interpreter {
	ip := &Interpreter{
		native: map[string]NativeImpl{},
		locals: map[Expr]int{},
		out:    os.Stdout,
	}
	ip.Core = NewEnv(nil)
	ip.Global = NewEnv(ip.Core)
	ip.Global.SealParentWrites()
	registerStandardBuiltins(ip)
	return ip
}

// SetOutput redirects print statements to w.
func (ip *Interpreter) SetOutput(w io.Writer) { ip.out = w }

// RegisterNative installs a host function into Core under name.
func (ip *Interpreter) RegisterNative(name string, arity int, impl NativeImpl) {
	ip.native[name] = impl
	ip.Core.Define(name, FunVal(&Fun{
		Name:        name,
		NativeName:  name,
		NativeArity: arity,
	}))
}

// EvalSource runs one script unit in a fresh child of Global. Global is
// unchanged afterwards; standalone scripts therefore see a clean global
// scope on every run.
func (ip *Interpreter) EvalSource(src string) (Value, error) {
	env := NewEnv(ip.Global)
	env.SealParentWrites()
	return ip.run(src, env)
}

// EvalPersistentSource runs one input unit in Global itself (REPL-style):
// declarations remain visible to later calls.
func (ip *Interpreter) EvalPersistentSource(src string) (Value, error) {
	return ip.run(src, ip.Global)
}

// run is the full pipeline against a chosen run-top environment.
func (ip *Interpreter) run(src string, env *Env) (Value, error) {
	stmts, err := ParseSource(src)
	if err != nil {
		return Nil, err
	}

	locals, resolveErrs := NewResolver().Resolve(stmts)
	if len(resolveErrs) > 0 {
		return Nil, StaticErrors(resolveErrs)
	}
	for node, dist := range locals {
		ip.locals[node] = dist
	}

	return ip.runTop(stmts, env)
}
