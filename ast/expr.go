// Package ast defines the syntax tree produced by the parser.
//
// Expr and Stmt are closed unions: only the node types declared here
// implement them, so passes can switch over every case exhaustively.
// Nodes are always handled through pointers, which makes each node's
// identity usable as a map key.
package ast

import "github.com/havrydotdev/golox/token"

type Expr interface {
	exprNode()
}

type (
	Assign struct {
		Name  *token.Token
		Value Expr
	}

	Binary struct {
		Left  Expr
		Op    *token.Token
		Right Expr
	}

	// Call keeps the closing paren to locate runtime errors.
	Call struct {
		Callee Expr
		Paren  *token.Token
		Args   []Expr
	}

	Get struct {
		Object Expr
		Name   *token.Token
	}

	Grouping struct {
		Expr Expr
	}

	Literal struct {
		Value any
	}

	Logical struct {
		Left  Expr
		Op    *token.Token
		Right Expr
	}

	Set struct {
		Object Expr
		Name   *token.Token
		Value  Expr
	}

	Super struct {
		Keyword *token.Token
		Method  *token.Token
	}

	This struct {
		Keyword *token.Token
	}

	Unary struct {
		Op    *token.Token
		Right Expr
	}

	Variable struct {
		Name *token.Token
	}
)

func (*Assign) exprNode()   {}
func (*Binary) exprNode()   {}
func (*Call) exprNode()     {}
func (*Get) exprNode()      {}
func (*Grouping) exprNode() {}
func (*Literal) exprNode()  {}
func (*Logical) exprNode()  {}
func (*Set) exprNode()      {}
func (*Super) exprNode()    {}
func (*This) exprNode()     {}
func (*Unary) exprNode()    {}
func (*Variable) exprNode() {}
