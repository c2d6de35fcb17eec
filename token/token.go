package token

import "fmt"

type Token struct {
	Kind    Kind
	Lexeme  string
	Literal any
	Line    int
}

func New(kind Kind, lexeme string, literal any, line int) *Token {
	return &Token{kind, lexeme, literal, line}
}

func (t *Token) String() string {
	return fmt.Sprintf("{Kind(%v), Literal(%v), Lexeme(%s), Line(%d)}", t.Kind, t.Literal, t.Lexeme, t.Line)
}
