// Package evaluator implements the tree-walking evaluator.
package evaluator

import (
	"math"
	"strconv"
	"strings"
)

// Value is the interface for all runtime values.
// The sealed marker method restricts implementations to this package.
type Value interface {
	value() // sealed marker
	String() string
}

// Int is an integer value. Number literals evaluate to Int.
type Int struct {
	Value int64
}

func (Int) value() {}

func (v Int) String() string {
	return strconv.FormatInt(v.Value, 10)
}

// Float is a floating-point value. Division always produces a Float.
type Float struct {
	Value float64
}

func (Float) value() {}

// String renders the shortest representation that round-trips, always with
// a fractional part or an exponent so floats stay distinguishable from
// integers: 2.0, 0.5, 1e+16.
func (v Float) String() string {
	f := v.Value
	switch {
	case math.IsNaN(f):
		return "nan"
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-4 || abs >= 1e16) {
		return strconv.FormatFloat(f, 'e', -1, 64)
	}
	s := strconv.FormatFloat(f, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// Bool is the result of a comparison.
type Bool struct {
	Value bool
}

func (Bool) value() {}

func (v Bool) String() string {
	if v.Value {
		return "True"
	}
	return "False"
}

// NewInt creates an integer value.
func NewInt(n int64) Value {
	return Int{Value: n}
}

// NewFloat creates a floating-point value.
func NewFloat(f float64) Value {
	return Float{Value: f}
}

// NewBool creates a boolean value.
func NewBool(b bool) Value {
	return Bool{Value: b}
}

// Truthiness returns the branch interpretation of a value:
// zero and False are falsy, everything else is truthy.
func Truthiness(v Value) bool {
	switch val := v.(type) {
	case Int:
		return val.Value != 0
	case Float:
		return val.Value != 0
	case Bool:
		return val.Value
	default:
		return false
	}
}

// asInt reports the integer view of v. Bools count as 0 and 1.
func asInt(v Value) (int64, bool) {
	switch val := v.(type) {
	case Int:
		return val.Value, true
	case Bool:
		if val.Value {
			return 1, true
		}
		return 0, true
	}
	return 0, false
}

// asFloat converts any numeric value to float64.
func asFloat(v Value) float64 {
	if f, ok := v.(Float); ok {
		return f.Value
	}
	n, _ := asInt(v)
	return float64(n)
}

// isZero reports whether v is numerically zero.
func isZero(v Value) bool {
	return !Truthiness(v)
}
