package interp

import (
	"time"

	env "github.com/havrydotdev/golox/environment"
)

// newClock returns the current wall time in seconds.
func newClock() Callable {
	return NewNativeFunction(0, func(in *Interpreter, args []any) (any, error) {
		return float64(time.Now().UnixMilli()) / 1000, nil
	})
}

func newGlobals() *env.Env {
	global := env.New()
	global.Define("clock", newClock())

	return global
}
