package builder

import (
	"context"
	"fmt"
	"strings"

	"github.com/structql/structql/model"
	"github.com/structql/structql/query/conditions"
	"github.com/structql/structql/query/executor"
	"github.com/structql/structql/query/plan"
	"github.com/structql/structql/query/sqlgen"
)

// AggregateBuilder assembles and runs an aggregation SELECT.
type AggregateBuilder struct {
	exec   executor.Executor
	meta   *model.Meta
	origin plan.Path

	aggs []aggRef
	cond plan.Condition
}

type aggRef struct {
	fn  plan.Aggregation
	ref conditions.FieldRef
}

// Aggregate starts an aggregation over a model.
func Aggregate(exec executor.Executor, meta *model.Meta) *AggregateBuilder {
	return &AggregateBuilder{exec: exec, meta: meta, origin: plan.Origin(meta)}
}

// Origin returns the builder's origin path for building conditions.
func (b *AggregateBuilder) Origin() plan.Path {
	return b.origin
}

// Count adds COUNT(field).
func (b *AggregateBuilder) Count(ref conditions.FieldRef) *AggregateBuilder {
	return b.add(plan.Count, ref)
}

// Sum adds SUM(field).
func (b *AggregateBuilder) Sum(ref conditions.FieldRef) *AggregateBuilder {
	return b.add(plan.Sum, ref)
}

// Avg adds AVG(field).
func (b *AggregateBuilder) Avg(ref conditions.FieldRef) *AggregateBuilder {
	return b.add(plan.Avg, ref)
}

// Min adds MIN(field).
func (b *AggregateBuilder) Min(ref conditions.FieldRef) *AggregateBuilder {
	return b.add(plan.Min, ref)
}

// Max adds MAX(field).
func (b *AggregateBuilder) Max(ref conditions.FieldRef) *AggregateBuilder {
	return b.add(plan.Max, ref)
}

func (b *AggregateBuilder) add(fn plan.Aggregation, ref conditions.FieldRef) *AggregateBuilder {
	b.aggs = append(b.aggs, aggRef{fn: fn, ref: ref})
	return b
}

// Condition sets the WHERE condition.
func (b *AggregateBuilder) Condition(cond plan.Condition) *AggregateBuilder {
	if b.cond != nil {
		panic("builder: condition already set")
	}
	b.cond = cond
	return b
}

// One runs the aggregation and returns the single result row keyed by
// "<fn>_<field>", e.g. "count_id".
func (b *AggregateBuilder) One(ctx context.Context) (Row, error) {
	if len(b.aggs) == 0 {
		return nil, fmt.Errorf("builder: aggregation over %s selects nothing", b.meta.Table)
	}
	qctx := plan.NewContext()
	for _, agg := range b.aggs {
		qctx.SelectAggregation(agg.fn, agg.ref.Field, agg.ref.Path)
	}
	var where sqlgen.Condition
	if b.cond != nil {
		where = qctx.GetCondition(qctx.AddCondition(b.cond))
	}

	q := b.exec.Generator().GenerateSelect(b.meta.Table, qctx.Selects(), qctx.Joins(), where, nil, nil)
	rows, err := b.exec.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	raws, err := executor.ScanAll(rows)
	if err != nil {
		return nil, err
	}
	if len(raws) == 0 {
		return nil, ErrNotFound
	}
	row := make(Row, len(b.aggs))
	for i, agg := range b.aggs {
		key := fmt.Sprintf("%s_%s", strings.ToLower(string(agg.fn)), agg.ref.Field.Name)
		row[key] = raws[0][i]
	}
	return row, nil
}
