package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// Printer renders nodes as parenthesized prefix expressions,
// e.g. `(* (- 123) (group 45.67))`.
type Printer struct{}

func (p Printer) Expr(expr Expr) string {
	switch e := expr.(type) {
	case *Assign:
		return p.parenthesize("assign "+e.Name.Lexeme, e.Value)
	case *Binary:
		return p.parenthesize(e.Op.Lexeme, e.Left, e.Right)
	case *Call:
		return p.parenthesize("call", append([]any{e.Callee}, exprsToAny(e.Args)...)...)
	case *Get:
		return p.parenthesize("."+e.Name.Lexeme, e.Object)
	case *Grouping:
		return p.parenthesize("group", e.Expr)
	case *Literal:
		return literal(e.Value)
	case *Logical:
		return p.parenthesize(e.Op.Lexeme, e.Left, e.Right)
	case *Set:
		return p.parenthesize("set ."+e.Name.Lexeme, e.Object, e.Value)
	case *Super:
		return "super." + e.Method.Lexeme
	case *This:
		return "this"
	case *Unary:
		return p.parenthesize(e.Op.Lexeme, e.Right)
	case *Variable:
		return e.Name.Lexeme
	}

	panic(fmt.Sprintf("ast: unknown expression %T", expr))
}

func (p Printer) Stmt(stmt Stmt) string {
	switch s := stmt.(type) {
	case *Block:
		return p.parenthesize("block", stmtsToAny(s.Stmts)...)
	case *Class:
		name := "class " + s.Name.Lexeme
		if s.Superclass != nil {
			name += " < " + s.Superclass.Name.Lexeme
		}

		methods := make([]any, 0, len(s.Methods))
		for _, m := range s.Methods {
			methods = append(methods, m)
		}

		return p.parenthesize(name, methods...)
	case *Expression:
		return p.parenthesize(";", s.Expr)
	case *Function:
		params := make([]string, len(s.Params))
		for i, param := range s.Params {
			params[i] = param.Lexeme
		}

		name := fmt.Sprintf("fun %s(%s)", s.Name.Lexeme, strings.Join(params, " "))
		return p.parenthesize(name, stmtsToAny(s.Body)...)
	case *If:
		if s.Else == nil {
			return p.parenthesize("if", s.Cond, s.Then)
		}

		return p.parenthesize("if-else", s.Cond, s.Then, s.Else)
	case *Print:
		return p.parenthesize("print", s.Expr)
	case *Return:
		if s.Value == nil {
			return "(return)"
		}

		return p.parenthesize("return", s.Value)
	case *Var:
		if s.Init == nil {
			return "(var " + s.Name.Lexeme + ")"
		}

		return p.parenthesize("var "+s.Name.Lexeme, s.Init)
	case *While:
		return p.parenthesize("while", s.Cond, s.Body)
	}

	panic(fmt.Sprintf("ast: unknown statement %T", stmt))
}

func (p Printer) parenthesize(name string, nodes ...any) string {
	b := strings.Builder{}

	b.WriteByte('(')
	b.WriteString(name)
	for _, node := range nodes {
		b.WriteByte(' ')
		switch n := node.(type) {
		case Expr:
			b.WriteString(p.Expr(n))
		case Stmt:
			b.WriteString(p.Stmt(n))
		}
	}

	b.WriteByte(')')

	return b.String()
}

func literal(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case string:
		return strconv.Quote(v)
	}

	return fmt.Sprintf("%v", value)
}

func exprsToAny(exprs []Expr) []any {
	out := make([]any, len(exprs))
	for i, e := range exprs {
		out[i] = e
	}

	return out
}

func stmtsToAny(stmts []Stmt) []any {
	out := make([]any, len(stmts))
	for i, s := range stmts {
		out[i] = s
	}

	return out
}
