package conditions

import (
	"fmt"

	"github.com/structql/structql/model"
	"github.com/structql/structql/query/plan"
	"github.com/structql/structql/value"
)

// FieldRef is a field addressed through a relation path. It is the
// user-facing handle comparisons and orderings hang off.
type FieldRef struct {
	Field *model.Field
	Path  plan.Path
}

// Ref resolves a field by name on the model a path points to.
// Unknown names are descriptor bugs and panic.
func Ref(p plan.Path, name string) FieldRef {
	f, ok := p.Meta().Field(name)
	if !ok {
		panic(fmt.Sprintf("conditions: model %s has no field %q", p.Meta().Table, name))
	}
	return FieldRef{Field: f, Path: p}
}

// Step extends the reference's path through a relation field and
// re-anchors on a field of the target model.
func (r FieldRef) Step(name string) FieldRef {
	return Ref(plan.Step(r.Path, r.Field), name)
}

func (r FieldRef) column() Column {
	return Column{Path: r.Path, Field: r.Field}
}

// Equals compares the field against a value.
func (r FieldRef) Equals(v value.Value) plan.Condition {
	return Binary{Operator: plan.Equals, Lhs: r.column(), Rhs: Value{Value: v}}
}

// NotEquals compares the field against a value.
func (r FieldRef) NotEquals(v value.Value) plan.Condition {
	return Binary{Operator: plan.NotEquals, Lhs: r.column(), Rhs: Value{Value: v}}
}

// Greater compares the field against a value.
func (r FieldRef) Greater(v value.Value) plan.Condition {
	return Binary{Operator: plan.Greater, Lhs: r.column(), Rhs: Value{Value: v}}
}

// GreaterOrEquals compares the field against a value.
func (r FieldRef) GreaterOrEquals(v value.Value) plan.Condition {
	return Binary{Operator: plan.GreaterOrEquals, Lhs: r.column(), Rhs: Value{Value: v}}
}

// Less compares the field against a value.
func (r FieldRef) Less(v value.Value) plan.Condition {
	return Binary{Operator: plan.Less, Lhs: r.column(), Rhs: Value{Value: v}}
}

// LessOrEquals compares the field against a value.
func (r FieldRef) LessOrEquals(v value.Value) plan.Condition {
	return Binary{Operator: plan.LessOrEquals, Lhs: r.column(), Rhs: Value{Value: v}}
}

// Like matches the field against a pattern.
func (r FieldRef) Like(pattern string) plan.Condition {
	return Binary{Operator: plan.Like, Lhs: r.column(), Rhs: Value{Value: value.String(pattern)}}
}

// Between checks lower <= field <= upper.
func (r FieldRef) Between(lower, upper value.Value) plan.Condition {
	return Ternary{Operator: plan.Between, Fst: r.column(), Snd: Value{Value: lower}, Trd: Value{Value: upper}}
}

// NotBetween checks the field lies outside [lower, upper].
func (r FieldRef) NotBetween(lower, upper value.Value) plan.Condition {
	return Ternary{Operator: plan.NotBetween, Fst: r.column(), Snd: Value{Value: lower}, Trd: Value{Value: upper}}
}

// IsNull checks the field for NULL.
func (r FieldRef) IsNull() plan.Condition {
	return Unary{Operator: plan.IsNull, Arg: r.column()}
}

// IsNotNull checks the field for NOT NULL.
func (r FieldRef) IsNotNull() plan.Condition {
	return Unary{Operator: plan.IsNotNull, Arg: r.column()}
}

// In checks the field against a list of values.
func (r FieldRef) In(values ...value.Value) plan.Condition {
	return r.inList(In, values)
}

// NotIn checks the field against the complement of a list of values.
func (r FieldRef) NotIn(values ...value.Value) plan.Condition {
	return r.inList(NotIn, values)
}

func (r FieldRef) inList(op InOperator, values []value.Value) plan.Condition {
	rhs := make([]plan.Condition, len(values))
	for i, v := range values {
		rhs[i] = Value{Value: v}
	}
	return InList{Operator: op, Lhs: r.column(), Rhs: rhs}
}
