// resolver.go
//
// Static scope resolution. The resolver mirrors, at parse time, the exact
// chain of environment frames the interpreter will create at run time, and
// records for every local variable reference how many frames separate the
// reference from its binding. References it cannot find in any lexical
// scope are globals, resolved by name when the program runs.
//
// The pass never touches values. It also rejects, before execution:
//
//	var a = a;              // self-referential initializer (same scope)
//	var a = 1; var a = 2;   // redeclaration in the same local scope
//	return "x"; inside init // initializers always yield the instance
//	this / super            // outside a method / subclass method
//	break / continue        // outside a loop
package typhoon

import "fmt"

// ResolveError is a scope error found before execution.
type ResolveError struct {
	Line int
	Col  int
	Msg  string
}

func (e *ResolveError) Error() string {
	return fmt.Sprintf("RESOLVE ERROR at %d:%d: %s", e.Line, e.Col+1, e.Msg)
}

type funContext int

const (
	fcNone funContext = iota
	fcFunction
	fcInitializer
	fcMethod
	fcStatic
)

type classContext int

const (
	ccNone classContext = iota
	ccClass
	ccSubclass
)

// Resolver computes the scope-distance side table, keyed by node identity.
type Resolver struct {
	scopes    []map[string]bool // name -> initializer finished
	locals    map[Expr]int
	errs      []error
	curFun    funContext
	curClass  classContext
	loopDepth int
}

// NewResolver creates an empty resolver.
func NewResolver() *Resolver {
	return &Resolver{locals: map[Expr]int{}}
}

// Resolve walks the program and returns the distance table plus every
// static scope error found.
func (r *Resolver) Resolve(stmts []Stmt) (map[Expr]int, []error) {
	for _, s := range stmts {
		r.resolveStmt(s)
	}
	return r.locals, r.errs
}

func (r *Resolver) err(tok Token, msg string) {
	r.errs = append(r.errs, &ResolveError{Line: tok.Line, Col: tok.Col, Msg: msg})
}

// ----- scope bookkeeping -----

func (r *Resolver) beginScope() {
	r.scopes = append(r.scopes, map[string]bool{})
}

func (r *Resolver) endScope() {
	r.scopes = r.scopes[:len(r.scopes)-1]
}

// declare marks name as existing but not yet usable in the innermost scope.
func (r *Resolver) declare(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	scope := r.scopes[len(r.scopes)-1]
	if _, ok := scope[name.Lexeme]; ok {
		r.err(name, fmt.Sprintf("a variable named %q already exists in this scope", name.Lexeme))
	}
	scope[name.Lexeme] = false
}

// define marks a declared name as fully initialized.
func (r *Resolver) define(name Token) {
	if len(r.scopes) == 0 {
		return
	}
	r.scopes[len(r.scopes)-1][name.Lexeme] = true
}

// resolveLocal records the frame distance for a reference, innermost out.
// Not found means global; globals get no table entry.
func (r *Resolver) resolveLocal(node Expr, name Token) {
	for i := len(r.scopes) - 1; i >= 0; i-- {
		if _, ok := r.scopes[i][name.Lexeme]; ok {
			r.locals[node] = len(r.scopes) - 1 - i
			return
		}
	}
}

func (r *Resolver) resolveFunction(params []Token, body []Stmt, ctx funContext) {
	prev := r.curFun
	r.curFun = ctx
	prevLoop := r.loopDepth
	r.loopDepth = 0 // break/continue cannot cross a function boundary
	r.beginScope()
	for _, param := range params {
		r.declare(param)
		r.define(param)
	}
	for _, s := range body {
		r.resolveStmt(s)
	}
	r.endScope()
	r.loopDepth = prevLoop
	r.curFun = prev
}

// ----- statements -----

func (r *Resolver) resolveStmt(stmt Stmt) {
	switch s := stmt.(type) {
	case *ExprStmt:
		r.resolveExpr(s.Expr)
	case *PrintStmt:
		r.resolveExpr(s.Expr)
	case *VarStmt:
		r.declare(s.Name)
		if s.Init != nil {
			r.resolveExpr(s.Init)
		}
		r.define(s.Name)
	case *BlockStmt:
		r.beginScope()
		for _, inner := range s.Stmts {
			r.resolveStmt(inner)
		}
		r.endScope()
	case *IfStmt:
		r.resolveExpr(s.Cond)
		r.resolveStmt(s.Then)
		if s.Else != nil {
			r.resolveStmt(s.Else)
		}
	case *WhileStmt:
		r.resolveExpr(s.Cond)
		r.loopDepth++
		r.resolveStmt(s.Body)
		r.loopDepth--
	case *FunStmt:
		r.declare(s.Name)
		r.define(s.Name)
		r.resolveFunction(s.Params, s.Body, fcFunction)
	case *ReturnStmt:
		// A top-level return is legal here; the runtime reports it when
		// the statement actually executes.
		if s.Value != nil {
			if r.curFun == fcInitializer {
				r.err(s.Keyword, "cannot return a value from an initializer")
			}
			r.resolveExpr(s.Value)
		}
	case *BreakStmt:
		if r.loopDepth == 0 {
			r.err(s.Keyword, "'break' outside a loop")
		}
	case *ContinueStmt:
		if r.loopDepth == 0 {
			r.err(s.Keyword, "'continue' outside a loop")
		}
	case *ClassStmt:
		r.resolveClass(s)
	default:
		panic(fmt.Sprintf("resolver: unknown statement %T", stmt))
	}
}

func (r *Resolver) resolveClass(s *ClassStmt) {
	prevClass := r.curClass
	r.curClass = ccClass

	r.declare(s.Name)
	r.define(s.Name)

	if s.Superclass != nil {
		if s.Superclass.Name.Lexeme == s.Name.Lexeme {
			r.err(s.Superclass.Name, "a class cannot inherit from itself")
		}
		r.curClass = ccSubclass
		r.resolveExpr(s.Superclass)
	}

	if s.Superclass != nil {
		r.beginScope()
		r.scopes[len(r.scopes)-1]["super"] = true
	}

	r.beginScope()
	r.scopes[len(r.scopes)-1]["this"] = true
	for _, m := range s.Methods {
		ctx := fcMethod
		if m.Name.Lexeme == "init" {
			ctx = fcInitializer
		}
		r.resolveFunction(m.Params, m.Body, ctx)
	}
	r.endScope()

	if s.Superclass != nil {
		r.endScope()
	}

	// Statics resolve outside the this/super scopes: they have no instance.
	for _, m := range s.Statics {
		r.resolveFunction(m.Params, m.Body, fcStatic)
	}

	r.curClass = prevClass
}

// ----- expressions -----

func (r *Resolver) resolveExpr(expr Expr) {
	switch e := expr.(type) {
	case *LiteralExpr:
		// nothing to resolve
	case *VariableExpr:
		if len(r.scopes) > 0 {
			if defined, ok := r.scopes[len(r.scopes)-1][e.Name.Lexeme]; ok && !defined {
				r.err(e.Name, "cannot read local variable in its own initializer")
			}
		}
		r.resolveLocal(e, e.Name)
	case *AssignExpr:
		r.resolveExpr(e.Value)
		r.resolveLocal(e, e.Name)
	case *UnaryExpr:
		r.resolveExpr(e.Right)
	case *BinaryExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *LogicalExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *TernaryExpr:
		r.resolveExpr(e.Cond)
		r.resolveExpr(e.Then)
		r.resolveExpr(e.Else)
	case *CommaExpr:
		r.resolveExpr(e.Left)
		r.resolveExpr(e.Right)
	case *CallExpr:
		r.resolveExpr(e.Callee)
		for _, a := range e.Args {
			r.resolveExpr(a)
		}
	case *GetExpr:
		r.resolveExpr(e.Object)
	case *SetExpr:
		r.resolveExpr(e.Object)
		r.resolveExpr(e.Value)
	case *ThisExpr:
		if r.curClass == ccNone {
			r.err(e.Keyword, "'this' outside a class")
			return
		}
		if r.curFun == fcStatic {
			r.err(e.Keyword, "'this' inside a static method")
			return
		}
		r.resolveLocal(e, e.Keyword)
	case *SuperExpr:
		switch {
		case r.curClass == ccNone:
			r.err(e.Keyword, "'super' outside a class")
		case r.curClass != ccSubclass:
			r.err(e.Keyword, "'super' in a class with no superclass")
		case r.curFun == fcStatic:
			r.err(e.Keyword, "'super' inside a static method")
		default:
			r.resolveLocal(e, e.Keyword)
		}
	case *GroupingExpr:
		r.resolveExpr(e.Inner)
	case *LambdaExpr:
		r.resolveFunction(e.Params, e.Body, fcFunction)
	default:
		panic(fmt.Sprintf("resolver: unknown expression %T", expr))
	}
}
