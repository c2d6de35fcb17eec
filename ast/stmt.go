package ast

import "github.com/havrydotdev/golox/token"

type Stmt interface {
	stmtNode()
}

type (
	Block struct {
		Stmts []Stmt
	}

	// Class.Superclass is nil when the class has no superclass.
	Class struct {
		Name       *token.Token
		Superclass *Variable
		Methods    []*Function
	}

	Expression struct {
		Expr Expr
	}

	Function struct {
		Name   *token.Token
		Params []*token.Token
		Body   []Stmt
	}

	If struct {
		Cond Expr
		Then Stmt
		Else Stmt
	}

	Print struct {
		Expr Expr
	}

	Return struct {
		Keyword *token.Token
		Value   Expr
	}

	Var struct {
		Name *token.Token
		Init Expr
	}

	While struct {
		Cond Expr
		Body Stmt
	}
)

func (*Block) stmtNode()      {}
func (*Class) stmtNode()      {}
func (*Expression) stmtNode() {}
func (*Function) stmtNode()   {}
func (*If) stmtNode()         {}
func (*Print) stmtNode()      {}
func (*Return) stmtNode()     {}
func (*Var) stmtNode()        {}
func (*While) stmtNode()      {}
