package query

import "strings"

// Builder accumulates conditions into an implicit top-level AND group
// and renders them with Build. Every method returns the receiver so
// calls chain. A Builder is not safe for concurrent use.
//
// None of the construction methods validate field names or that a
// value's type suits its operator; the remote search service is the
// sole judge of the produced string. The only construction-time
// failure is an unsupported value type, which is remembered and
// reported by Build.
type Builder struct {
	root *Group
	err  error
}

// New returns a builder whose top-level group joins with AND.
func New() *Builder {
	return newScoped(LogicAnd)
}

func newScoped(logic Logic) *Builder {
	return &Builder{root: &Group{Logic: logic}}
}

// Where appends a condition with an explicit comparison operator.
func (b *Builder) Where(field string, op Operator, value any) *Builder {
	v, err := toValue(value)
	if err != nil {
		return b.fail(err)
	}

	b.root.append(Condition{Field: field, Op: op, Value: v})
	return b
}

// Matches appends an equality condition, picking the strict token for
// numeric and boolean values. The target syntax requires a distinct
// equality token for typed values; this hides that asymmetry.
func (b *Builder) Matches(field string, value any) *Builder {
	v, err := toValue(value)
	if err != nil {
		return b.fail(err)
	}

	op := OpEq
	switch v.(type) {
	case Int, Float, Bool:
		op = OpStrictEq
	}

	b.root.append(Condition{Field: field, Op: op, Value: v})
	return b
}

// Is appends a strict-equality condition regardless of value type.
func (b *Builder) Is(field string, value any) *Builder {
	return b.Where(field, OpStrictEq, value)
}

// Between appends an inclusive range condition, closed with "]".
func (b *Builder) Between(field string, from, to any) *Builder {
	return b.appendRange(field, OpRange, from, to)
}

// StrictBetween appends an exclusive range condition, closed with "}".
func (b *Builder) StrictBetween(field string, from, to any) *Builder {
	return b.appendRange(field, OpStrictRange, from, to)
}

func (b *Builder) appendRange(field string, op Operator, from, to any) *Builder {
	f, err := toValue(from)
	if err != nil {
		return b.fail(err)
	}

	t, err := toValue(to)
	if err != nil {
		return b.fail(err)
	}

	b.root.append(RangeCondition{Field: field, Op: op, From: f, To: t})
	return b
}

// Group hands a fresh builder rooted at a group of the given logic to
// fn, then absorbs the finished sub-tree as one child of the current
// group. The parent keeps exclusive ownership afterwards; fn may nest
// further groups, so depth is unbounded.
func (b *Builder) Group(logic Logic, fn func(*Builder)) *Builder {
	sub := newScoped(logic)
	fn(sub)

	if sub.err != nil {
		return b.fail(sub.err)
	}

	b.root.append(sub.root)
	return b
}

// And opens a nested group joined with AND.
func (b *Builder) And(fn func(*Builder)) *Builder {
	return b.Group(LogicAnd, fn)
}

// AndNot opens a nested group joined with AND NOT.
func (b *Builder) AndNot(fn func(*Builder)) *Builder {
	return b.Group(LogicAndNot, fn)
}

// Or opens a nested group joined with OR.
func (b *Builder) Or(fn func(*Builder)) *Builder {
	return b.Group(LogicOr, fn)
}

// OrNot opens a nested group joined with OR NOT.
func (b *Builder) OrNot(fn func(*Builder)) *Builder {
	return b.Group(LogicOrNot, fn)
}

// Build renders the accumulated tree. The wrapping parentheses the
// top-level group would contribute are stripped; parentheses belonging
// to a nested group are kept, so a lone nested group stays bracketed.
// Build never mutates the tree and may be called repeatedly. An empty
// tree renders to the empty string, not an error.
func (b *Builder) Build() (string, error) {
	if b.err != nil {
		return "", b.err
	}

	parts := b.root.renderParts()
	if len(parts) == 0 {
		return "", nil
	}

	return strings.Join(parts, " "+string(b.root.Logic)+" "), nil
}

// fail remembers the first error for Build to report. The offending
// condition is not appended; later calls keep chaining normally.
func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}
