// Package report formats the static diagnostics produced by the scanner,
// parser and resolver.
package report

import (
	"fmt"

	"github.com/havrydotdev/golox/token"
)

// Error is a diagnostic tied to a source line.
type Error struct {
	Line    int
	Where   string
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("[line %d] Error%s: %s", e.Line, e.Where, e.Message)
}

// AtLine creates an error with no token context.
func AtLine(line int, message string) *Error {
	return &Error{Line: line, Message: message}
}

// At creates an error located at the given token.
func At(tok *token.Token, message string) *Error {
	where := fmt.Sprintf(" at '%s'", tok.Lexeme)
	if tok.Kind == token.Eof {
		where = " at end"
	}

	return &Error{Line: tok.Line, Where: where, Message: message}
}
