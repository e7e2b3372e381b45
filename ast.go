// ast.go
//
// Syntax tree produced by the parser. Expression and statement kinds are
// closed unions: every node is a pointer struct implementing the Expr or
// Stmt marker, and every consumer dispatches with an exhaustive type
// switch. Node pointers double as identity keys for the resolver's
// scope-distance side table.
package typhoon

// Expr is the expression union marker.
type Expr interface {
	exprNode()
}

// Stmt is the statement union marker.
type Stmt interface {
	stmtNode()
}

// ----- expressions -----

// LiteralExpr holds a nil/bool/number/string literal value.
type LiteralExpr struct {
	Value interface{}
}

// VariableExpr is a variable reference.
type VariableExpr struct {
	Name Token
}

// AssignExpr assigns to a variable.
type AssignExpr struct {
	Name  Token
	Value Expr
}

// UnaryExpr is "!x" or "-x".
type UnaryExpr struct {
	Op    Token
	Right Expr
}

// BinaryExpr covers arithmetic, comparison and equality operators.
type BinaryExpr struct {
	Left  Expr
	Op    Token
	Right Expr
}

// LogicalExpr is "and"/"or" with short-circuit evaluation.
type LogicalExpr struct {
	Left  Expr
	Op    Token
	Right Expr
}

// TernaryExpr is "cond ? then : else".
type TernaryExpr struct {
	Cond Expr
	Then Expr
	Else Expr
}

// CommaExpr evaluates Left for effect and yields Right.
type CommaExpr struct {
	Left  Expr
	Right Expr
}

// CallExpr invokes a callee. Paren is the closing ")" used for error
// positions.
type CallExpr struct {
	Callee Expr
	Paren  Token
	Args   []Expr
}

// GetExpr is property access "obj.name".
type GetExpr struct {
	Object Expr
	Name   Token
}

// SetExpr is property assignment "obj.name = value".
type SetExpr struct {
	Object Expr
	Name   Token
	Value  Expr
}

// ThisExpr is the "this" keyword.
type ThisExpr struct {
	Keyword Token
}

// SuperExpr is "super.method".
type SuperExpr struct {
	Keyword Token
	Method  Token
}

// GroupingExpr is a parenthesized expression.
type GroupingExpr struct {
	Inner Expr
}

// LambdaExpr is an anonymous function literal "fun (params) { body }".
type LambdaExpr struct {
	Fun    Token // the "fun" keyword, for error positions
	Params []Token
	Body   []Stmt
}

func (*LiteralExpr) exprNode()  {}
func (*VariableExpr) exprNode() {}
func (*AssignExpr) exprNode()   {}
func (*UnaryExpr) exprNode()    {}
func (*BinaryExpr) exprNode()   {}
func (*LogicalExpr) exprNode()  {}
func (*TernaryExpr) exprNode()  {}
func (*CommaExpr) exprNode()    {}
func (*CallExpr) exprNode()     {}
func (*GetExpr) exprNode()      {}
func (*SetExpr) exprNode()      {}
func (*ThisExpr) exprNode()     {}
func (*SuperExpr) exprNode()    {}
func (*GroupingExpr) exprNode() {}
func (*LambdaExpr) exprNode()   {}

// ----- statements -----

// ExprStmt evaluates an expression for its effect.
type ExprStmt struct {
	Expr Expr
}

// PrintStmt writes the display form of its expression to the output sink.
type PrintStmt struct {
	Expr Expr
}

// VarStmt declares a variable; Init may be nil (defaults to nil at run time).
type VarStmt struct {
	Name Token
	Init Expr
}

// BlockStmt introduces a new lexical scope.
type BlockStmt struct {
	Stmts []Stmt
}

// IfStmt; Else may be nil.
type IfStmt struct {
	Cond Expr
	Then Stmt
	Else Stmt
}

// WhileStmt re-evaluates Cond before each iteration.
type WhileStmt struct {
	Cond Expr
	Body Stmt
}

// FunStmt declares a named function.
type FunStmt struct {
	Name   Token
	Params []Token
	Body   []Stmt
}

// ReturnStmt; Value may be nil.
type ReturnStmt struct {
	Keyword Token
	Value   Expr
}

// BreakStmt exits the nearest enclosing loop.
type BreakStmt struct {
	Keyword Token
}

// ContinueStmt jumps to the next iteration of the nearest enclosing loop.
type ContinueStmt struct {
	Keyword Token
}

// ClassStmt declares a class. Superclass may be nil. Statics are methods
// declared with a leading "class" keyword; they live on the class value.
type ClassStmt struct {
	Name       Token
	Superclass *VariableExpr
	Methods    []*FunStmt
	Statics    []*FunStmt
}

func (*ExprStmt) stmtNode()     {}
func (*PrintStmt) stmtNode()    {}
func (*VarStmt) stmtNode()      {}
func (*BlockStmt) stmtNode()    {}
func (*IfStmt) stmtNode()       {}
func (*WhileStmt) stmtNode()    {}
func (*FunStmt) stmtNode()      {}
func (*ReturnStmt) stmtNode()   {}
func (*BreakStmt) stmtNode()    {}
func (*ContinueStmt) stmtNode() {}
func (*ClassStmt) stmtNode()    {}
