package query

import "strings"

// Node is the interface all nodes in the expression tree implement.
// It uses a private marker method so only types defined in this
// package can be tree nodes, keeping the variant set closed and the
// renderer's switch exhaustive.
type Node interface {
	node()
}

// Condition is a leaf comparing one field against one value.
// It renders as field<operator><formatted value>.
type Condition struct {
	Field string
	Op    Operator
	Value Value
}

func (Condition) node() {}

// RangeCondition is a leaf constraining one field to a bounded
// interval. Op must be OpRange or OpStrictRange; the closing bracket
// is derived from it so the bracket kinds always match.
type RangeCondition struct {
	Field string
	Op    Operator
	From  Value
	To    Value
}

func (RangeCondition) node() {}

// Group joins child nodes with a logic connector. Children keep their
// append order in the output; the list only ever grows.
type Group struct {
	Logic    Logic
	Children []Node
}

func (*Group) node() {}

func (g *Group) append(n Node) {
	g.Children = append(g.Children, n)
}

// renderParts renders each child, skipping the ones that render to an
// empty string so an empty sub-group never leaves a dangling connector
// in the parent's join.
func (g *Group) renderParts() []string {
	parts := make([]string, 0, len(g.Children))
	for _, child := range g.Children {
		if s := render(child); s != "" {
			parts = append(parts, s)
		}
	}
	return parts
}

// render serializes a node. A group with no renderable children is the
// empty string, a single child is emitted unwrapped, and two or more
// children are joined with the group's logic token and parenthesized.
func render(n Node) string {
	switch t := n.(type) {
	case Condition:
		return t.Field + string(t.Op) + formatValue(t.Value)

	case RangeCondition:
		closer := "]"
		if t.Op == OpStrictRange {
			closer = "}"
		}
		return t.Field + string(t.Op) + formatValue(t.From) + " TO " + formatValue(t.To) + closer

	case *Group:
		parts := t.renderParts()
		switch len(parts) {
		case 0:
			return ""
		case 1:
			return parts[0]
		default:
			return "(" + strings.Join(parts, " "+string(t.Logic)+" ") + ")"
		}
	}

	// Unreachable while the Node sum stays closed.
	return ""
}
