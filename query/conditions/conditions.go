// Package conditions provides the composable condition tree callers build
// filters from. Every node flattens itself into a plan.Context.
package conditions

import (
	"github.com/structql/structql/model"
	"github.com/structql/structql/query/plan"
	"github.com/structql/structql/value"
)

// Value is a literal condition operand.
type Value struct {
	Value value.Value
}

// Build implements plan.Condition.
func (v Value) Build(c *plan.Context) {
	c.PushValue(v.Value)
}

// Column is a column operand addressed through a relation path.
type Column struct {
	Path  plan.Path
	Field *model.Field
}

// Build implements plan.Condition.
func (col Column) Build(c *plan.Context) {
	c.PushColumn(col.Path, col.Field.Column())
}

// Binary is a two-operand comparison.
type Binary struct {
	Operator plan.BinaryOperator
	Lhs, Rhs plan.Condition
}

// Build implements plan.Condition.
func (b Binary) Build(c *plan.Context) {
	c.PushBinary(b.Operator)
	b.Lhs.Build(c)
	b.Rhs.Build(c)
}

// Ternary is a three-operand comparison such as BETWEEN.
type Ternary struct {
	Operator      plan.TernaryOperator
	Fst, Snd, Trd plan.Condition
}

// Build implements plan.Condition.
func (t Ternary) Build(c *plan.Context) {
	c.PushTernary(t.Operator)
	t.Fst.Build(c)
	t.Snd.Build(c)
	t.Trd.Build(c)
}

// Unary is a single-operand condition such as IS NULL or NOT.
type Unary struct {
	Operator plan.UnaryOperator
	Arg      plan.Condition
}

// Build implements plan.Condition.
func (u Unary) Build(c *plan.Context) {
	c.PushUnary(u.Operator)
	u.Arg.Build(c)
}
