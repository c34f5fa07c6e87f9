package query

import (
	"fmt"
	"strings"

	"github.com/pimeo/iopole-search-params-builder/fault"
)

// Operator is the comparison token placed between a field name and its
// formatted value. Range operators carry their opening bracket; the
// matching closing bracket is appended by the renderer.
type Operator string

const (
	OpEq          Operator = ":"
	OpStrictEq    Operator = ":="
	OpGt          Operator = ":>"
	OpGte         Operator = ":>="
	OpLt          Operator = ":<"
	OpLte         Operator = ":<="
	OpRange       Operator = ":["
	OpStrictRange Operator = ":{"
)

// Logic joins the children of a group. It is never used on a leaf.
type Logic string

const (
	LogicAnd    Logic = "AND"
	LogicOr     Logic = "OR"
	LogicAndNot Logic = "AND NOT"
	LogicOrNot  Logic = "OR NOT"
)

// OperatorFromName maps the external spelling used by manifests and
// scripts to a comparison operator token.
func OperatorFromName(name string) (Operator, error) {
	switch name {
	case "eq":
		return OpEq, nil
	case "strict-eq", "is":
		return OpStrictEq, nil
	case "gt":
		return OpGt, nil
	case "gte":
		return OpGte, nil
	case "lt":
		return OpLt, nil
	case "lte":
		return OpLte, nil
	default:
		return "", fault.New(fault.BadInputCode, fmt.Sprintf("unknown operator: %s", name))
	}
}

// LogicFromName maps the external spelling of a logic connector to its
// join token. The empty string defaults to AND.
func LogicFromName(name string) (Logic, error) {
	switch strings.ToUpper(name) {
	case "", "AND":
		return LogicAnd, nil
	case "OR":
		return LogicOr, nil
	case "AND NOT":
		return LogicAndNot, nil
	case "OR NOT":
		return LogicOrNot, nil
	default:
		return "", fault.New(fault.BadInputCode, fmt.Sprintf("unknown logic connector: %s", name))
	}
}
