package conditions

import (
	"github.com/structql/structql/query/plan"
	"github.com/structql/structql/value"
)

// InOperator selects between IN and NOT IN semantics.
type InOperator string

const (
	In    InOperator = "in"
	NotIn InOperator = "not_in"
)

// InList compares one operand against a list of values.
//
// It flattens into a collection of per-element comparisons: IN becomes an
// OR of equalities, NOT IN an AND of inequalities. The empty list degrades
// to the SQL truth value of the degenerate form: "x IN ()" is always false
// and "x NOT IN ()" always true.
type InList struct {
	Operator InOperator
	Lhs      plan.Condition
	Rhs      []plan.Condition
}

// Build implements plan.Condition.
func (in InList) Build(c *plan.Context) {
	if len(in.Rhs) == 0 {
		Value{Value: value.Bool(in.Operator == NotIn)}.Build(c)
		return
	}
	collection, comparison := plan.Or, plan.Equals
	if in.Operator == NotIn {
		collection, comparison = plan.And, plan.NotEquals
	}
	c.PushStartCollection(collection)
	for _, rhs := range in.Rhs {
		c.PushBinary(comparison)
		in.Lhs.Build(c)
		rhs.Build(c)
	}
	c.PushEndCollection()
}
