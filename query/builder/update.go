package builder

import (
	"context"
	"fmt"

	"github.com/structql/structql/model"
	"github.com/structql/structql/query/executor"
	"github.com/structql/structql/query/plan"
	"github.com/structql/structql/query/sqlgen"
	"github.com/structql/structql/value"
)

// UpdateBuilder is an UPDATE with no columns set yet. It cannot execute;
// Set moves it to the executable UpdateBuilderSet state. Callers which
// only know at runtime whether any column will be set use BeginDynSet.
type UpdateBuilder struct {
	exec executor.Executor
	meta *model.Meta
}

// Update starts an UPDATE of a model's table.
func Update(exec executor.Executor, meta *model.Meta) *UpdateBuilder {
	return &UpdateBuilder{exec: exec, meta: meta}
}

// Set assigns a value to a field and yields the executable builder state.
func (b *UpdateBuilder) Set(field string, v value.Value) *UpdateBuilderSet {
	set := &UpdateBuilderSet{exec: b.exec, meta: b.meta, origin: plan.Origin(b.meta)}
	return set.Set(field, v)
}

// BeginDynSet enters the dynamic-set escape hatch.
func (b *UpdateBuilder) BeginDynSet() *DynSetUpdateBuilder {
	return &DynSetUpdateBuilder{
		inner: &UpdateBuilderSet{exec: b.exec, meta: b.meta, origin: plan.Origin(b.meta)},
	}
}

// DynSetUpdateBuilder collects zero or more sets before FinishDynSet
// reports whether the update became executable.
type DynSetUpdateBuilder struct {
	inner *UpdateBuilderSet
}

// Set assigns a value to a field.
func (b *DynSetUpdateBuilder) Set(field string, v value.Value) *DynSetUpdateBuilder {
	b.inner.Set(field, v)
	return b
}

// FinishDynSet leaves the escape hatch. ok is false when no column was
// set, letting the caller handle the zero-set case explicitly instead of
// issuing a no-op statement.
func (b *DynSetUpdateBuilder) FinishDynSet() (set *UpdateBuilderSet, ok bool) {
	if len(b.inner.sets) == 0 {
		return nil, false
	}
	return b.inner, true
}

// UpdateBuilderSet is an UPDATE with at least one column set.
type UpdateBuilderSet struct {
	exec   executor.Executor
	meta   *model.Meta
	origin plan.Path

	sets []sqlgen.ColumnValue
	cond plan.Condition
}

// Set assigns a value to a further field.
func (b *UpdateBuilderSet) Set(field string, v value.Value) *UpdateBuilderSet {
	f, ok := b.meta.Field(field)
	if !ok {
		panic(fmt.Sprintf("builder: model %s has no field %q", b.meta.Table, field))
	}
	b.sets = append(b.sets, sqlgen.ColumnValue{Column: f.Column(), Value: v})
	return b
}

// Origin returns the builder's origin path for building conditions.
func (b *UpdateBuilderSet) Origin() plan.Path {
	return b.origin
}

// Condition restricts which rows are updated. The condition must stay on
// the origin model; UPDATE renders no JOIN clauses.
func (b *UpdateBuilderSet) Condition(cond plan.Condition) *UpdateBuilderSet {
	if b.cond != nil {
		panic("builder: condition already set")
	}
	b.cond = cond
	return b
}

// Exec runs the update with the previously given condition.
func (b *UpdateBuilderSet) Exec(ctx context.Context) (int64, error) {
	if b.cond == nil {
		return 0, ErrNoCondition
	}
	return b.run(ctx, b.cond)
}

// Single updates the single row identified by a patch's primary key.
func (b *UpdateBuilderSet) Single(ctx context.Context, patch map[string]value.Value) (int64, error) {
	cond, err := patchCondition(b.meta, b.origin, patch)
	if err != nil {
		return 0, err
	}
	return b.run(ctx, cond)
}

// Bulk updates the rows identified by several patches' primary keys.
func (b *UpdateBuilderSet) Bulk(ctx context.Context, patches []map[string]value.Value) (int64, error) {
	cond, err := patchesCondition(b.meta, b.origin, patches)
	if err != nil {
		return 0, err
	}
	return b.run(ctx, cond)
}

// All updates every row of the table.
func (b *UpdateBuilderSet) All(ctx context.Context) (int64, error) {
	return b.run(ctx, nil)
}

func (b *UpdateBuilderSet) run(ctx context.Context, cond plan.Condition) (int64, error) {
	if len(b.sets) == 0 {
		return 0, ErrNoColumnsSet
	}
	var where sqlgen.Condition
	if cond != nil {
		qctx := plan.NewContext()
		qctx.RegisterPath(b.origin)
		handle := qctx.AddCondition(cond)
		if len(qctx.Joins()) > 0 {
			return 0, ErrRelationCondition
		}
		where = qctx.GetCondition(handle)
	}
	q := b.exec.Generator().GenerateUpdate(b.meta.Table, b.sets, where)
	return b.exec.Exec(ctx, q)
}
