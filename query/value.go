package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pimeo/iopole-search-params-builder/fault"
)

// Value is the closed set of scalar types a condition can carry.
// The private marker keeps the set closed, so formatting is an
// exhaustive switch with no runtime "unsupported type" branch.
type Value interface {
	value()
}

type String string

type Int int64

type Float float64

type Bool bool

func (String) value() {}
func (Int) value()    {}
func (Float) value()  {}
func (Bool) value()   {}

// toValue narrows an arbitrary Go scalar into the Value sum. Anything
// outside string, bool and the numeric kinds is an unsupported value.
func toValue(v any) (Value, error) {
	switch t := v.(type) {
	case Value:
		return t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Int(t), nil
	case int8:
		return Int(t), nil
	case int16:
		return Int(t), nil
	case int32:
		return Int(t), nil
	case int64:
		return Int(t), nil
	case uint:
		return Int(t), nil
	case uint8:
		return Int(t), nil
	case uint16:
		return Int(t), nil
	case uint32:
		return Int(t), nil
	case uint64:
		return Int(t), nil
	case float32:
		return Float(t), nil
	case float64:
		return Float(t), nil
	default:
		return nil, fault.New(fault.UnsupportedValueCode, fmt.Sprintf("unsupported value type: %T", v))
	}
}

// formatValue renders a value for embedding in a query token. Numbers
// and booleans keep their natural form, unquoted. Strings are wrapped
// in double quotes unless the caller pre-quoted them; pre-quoted input
// passes through verbatim, never re-escaped.
func formatValue(v Value) string {
	switch t := v.(type) {
	case String:
		s := string(t)
		if strings.HasPrefix(s, `"`) {
			return s
		}
		return `"` + s + `"`
	case Int:
		return strconv.FormatInt(int64(t), 10)
	case Float:
		return strconv.FormatFloat(float64(t), 'f', -1, 64)
	case Bool:
		return strconv.FormatBool(bool(t))
	}

	// Unreachable while the Value sum stays closed.
	return ""
}
