package interp

import (
	"fmt"
	"math"
	"strconv"

	"github.com/havrydotdev/golox/token"
)

func isTruthy(value any) bool {
	if value == nil {
		return false
	}

	val, ok := value.(bool)
	if ok {
		return val
	}

	return true
}

// isEqual never fails: values of different types are simply unequal.
// Every runtime value is either a primitive or a pointer, so == is safe.
func isEqual(left, right any) bool {
	return left == right
}

func checkNum(op *token.Token, operand any) (float64, error) {
	num, ok := operand.(float64)
	if !ok {
		return 0, newRuntimeError(op, "Operand must be a number.")
	}

	return num, nil
}

func checkNums(op *token.Token, left, right any) (float64, float64, error) {
	l, okl := left.(float64)
	r, okr := right.(float64)
	if !okl || !okr {
		return 0, 0, newRuntimeError(op, "Operand must be a number.")
	}

	return l, r, nil
}

// Stringify renders a value the way print shows it.
func Stringify(value any) string {
	switch v := value.(type) {
	case nil:
		return "nil"
	case float64:
		return formatNumber(v)
	case bool:
		return strconv.FormatBool(v)
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	}

	return fmt.Sprintf("%v", value)
}

// formatNumber drops the fractional part of integral values.
func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}

	return strconv.FormatFloat(n, 'f', -1, 64)
}
