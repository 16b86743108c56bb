package conditions

import "github.com/structql/structql/query/plan"

// Collection joins several conditions with AND or OR.
type Collection struct {
	Operator plan.CollectionOperator
	Items    []plan.Condition
}

// Build implements plan.Condition.
func (col Collection) Build(c *plan.Context) {
	c.PushStartCollection(col.Operator)
	for _, item := range col.Items {
		item.Build(c)
	}
	c.PushEndCollection()
}

// And joins conditions with AND. At least one operand is required.
func And(items ...plan.Condition) Collection {
	if len(items) == 0 {
		panic("conditions: And requires at least one operand")
	}
	return Collection{Operator: plan.And, Items: items}
}

// Or joins conditions with OR. At least one operand is required.
func Or(items ...plan.Condition) Collection {
	if len(items) == 0 {
		panic("conditions: Or requires at least one operand")
	}
	return Collection{Operator: plan.Or, Items: items}
}
