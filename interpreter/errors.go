package interp

import (
	"errors"
	"fmt"

	env "github.com/havrydotdev/golox/environment"
	"github.com/havrydotdev/golox/token"
)

// RuntimeError aborts the current run. It carries the token whose
// evaluation failed so the error can be reported with its line.
type RuntimeError struct {
	Token   *token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

func newRuntimeError(tok *token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}

// asRuntimeError converts environment lookup failures into runtime errors.
func asRuntimeError(err error) error {
	var undef *env.UndefinedError
	if errors.As(err, &undef) {
		return &RuntimeError{Token: undef.Name, Message: undef.Error()}
	}

	return err
}
