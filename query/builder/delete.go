package builder

import (
	"context"

	"github.com/structql/structql/model"
	"github.com/structql/structql/query/executor"
	"github.com/structql/structql/query/plan"
	"github.com/structql/structql/query/sqlgen"
	"github.com/structql/structql/value"
)

// DeleteBuilder assembles and runs a DELETE. Each method is terminal.
type DeleteBuilder struct {
	exec   executor.Executor
	meta   *model.Meta
	origin plan.Path
}

// Delete starts a DELETE from a model's table.
func Delete(exec executor.Executor, meta *model.Meta) *DeleteBuilder {
	return &DeleteBuilder{exec: exec, meta: meta, origin: plan.Origin(meta)}
}

// Origin returns the builder's origin path for building conditions.
func (b *DeleteBuilder) Origin() plan.Path {
	return b.origin
}

// Single deletes the row identified by a patch's primary key.
func (b *DeleteBuilder) Single(ctx context.Context, patch map[string]value.Value) (int64, error) {
	cond, err := patchCondition(b.meta, b.origin, patch)
	if err != nil {
		return 0, err
	}
	return b.Condition(ctx, cond)
}

// Bulk deletes the rows identified by several patches' primary keys.
func (b *DeleteBuilder) Bulk(ctx context.Context, patches []map[string]value.Value) (int64, error) {
	cond, err := patchesCondition(b.meta, b.origin, patches)
	if err != nil {
		return 0, err
	}
	return b.Condition(ctx, cond)
}

// Condition deletes the rows matching a condition. The condition must stay
// on the origin model; DELETE renders no JOIN clauses.
func (b *DeleteBuilder) Condition(ctx context.Context, cond plan.Condition) (int64, error) {
	qctx := plan.NewContext()
	qctx.RegisterPath(b.origin)
	handle := qctx.AddCondition(cond)
	if len(qctx.Joins()) > 0 {
		return 0, ErrRelationCondition
	}
	where := qctx.GetCondition(handle)
	q := b.exec.Generator().GenerateDelete(b.meta.Table, where, false)
	return b.exec.Exec(ctx, q)
}

// All deletes every row of the table.
func (b *DeleteBuilder) All(ctx context.Context) (int64, error) {
	var where sqlgen.Condition
	q := b.exec.Generator().GenerateDelete(b.meta.Table, where, true)
	return b.exec.Exec(ctx, q)
}
