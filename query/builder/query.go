package builder

import (
	"context"

	"github.com/structql/structql/model"
	"github.com/structql/structql/query/conditions"
	"github.com/structql/structql/query/executor"
	"github.com/structql/structql/query/plan"
	"github.com/structql/structql/query/sqlgen"
)

// QueryBuilder assembles and runs a SELECT.
//
// Call order is condition (zero or one), limit/offset/range (zero or one),
// order-by (any number), then exactly one terminal: All, One, Optional
// or Stream.
type QueryBuilder struct {
	exec   executor.Executor
	meta   *model.Meta
	origin plan.Path
	refs   []conditions.FieldRef

	cond    plan.Condition
	limit   *sqlgen.Limit
	orderBy []orderRef
}

type orderRef struct {
	ref  conditions.FieldRef
	desc bool
}

// Query starts a SELECT over all physical fields of a model.
func Query(exec executor.Executor, meta *model.Meta) *QueryBuilder {
	origin := plan.Origin(meta)
	var refs []conditions.FieldRef
	for _, f := range meta.Fields {
		if len(f.Columns) == 0 {
			continue // back references carry no columns
		}
		refs = append(refs, conditions.FieldRef{Field: f, Path: origin})
	}
	return &QueryBuilder{exec: exec, meta: meta, origin: origin, refs: refs}
}

// QueryFields starts a SELECT over an explicit set of field references,
// possibly reaching through relation paths.
func QueryFields(exec executor.Executor, meta *model.Meta, refs ...conditions.FieldRef) *QueryBuilder {
	return &QueryBuilder{exec: exec, meta: meta, origin: plan.Origin(meta), refs: refs}
}

// Origin returns the builder's origin path for building conditions.
func (b *QueryBuilder) Origin() plan.Path {
	return b.origin
}

// Condition sets the WHERE condition. At most one condition is allowed;
// combine several with conditions.And/Or first.
func (b *QueryBuilder) Condition(cond plan.Condition) *QueryBuilder {
	if b.cond != nil {
		panic("builder: condition already set")
	}
	b.cond = cond
	return b
}

// Limit restricts the number of returned rows.
func (b *QueryBuilder) Limit(limit uint64) *QueryBuilder {
	if b.limit != nil {
		panic("builder: limit already set")
	}
	b.limit = &sqlgen.Limit{Limit: limit}
	return b
}

// Offset skips the first rows without capping how many are returned.
// Use Range to combine a limit with an offset.
func (b *QueryBuilder) Offset(offset uint64) *QueryBuilder {
	if b.limit != nil {
		panic("builder: limit already set")
	}
	b.limit = &sqlgen.Limit{NoCap: true, Offset: offset}
	return b
}

// Range selects the half-open row interval [start, end).
func (b *QueryBuilder) Range(start, end uint64) *QueryBuilder {
	if b.limit != nil {
		panic("builder: limit already set")
	}
	b.limit = &sqlgen.Limit{Limit: end - start, Offset: start}
	return b
}

// OrderBy appends an ordering; earlier calls are more significant.
func (b *QueryBuilder) OrderBy(ref conditions.FieldRef, desc bool) *QueryBuilder {
	b.orderBy = append(b.orderBy, orderRef{ref: ref, desc: desc})
	return b
}

// assemble drives a fresh plan context in deterministic order and renders
// the statement.
func (b *QueryBuilder) assemble() (*sqlgen.Query, []fieldSel) {
	qctx := plan.NewContext()

	sels := make([]fieldSel, len(b.refs))
	for i, ref := range b.refs {
		index, _ := qctx.SelectField(ref.Field, ref.Path)
		sels[i] = fieldSel{ref: ref, start: index}
	}

	var where sqlgen.Condition
	if b.cond != nil {
		handle := qctx.AddCondition(b.cond)
		where = qctx.GetCondition(handle)
	}

	for _, ob := range b.orderBy {
		qctx.OrderByField(ob.ref.Field, ob.ref.Path, ob.desc)
	}

	gen := b.exec.Generator()
	q := gen.GenerateSelect(b.meta.Table, qctx.Selects(), qctx.Joins(), where, qctx.OrderBys(), b.limit)
	return q, sels
}

// All runs the query and returns every matching row.
func (b *QueryBuilder) All(ctx context.Context) ([]Row, error) {
	q, sels := b.assemble()
	rows, err := b.exec.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	raws, err := executor.ScanAll(rows)
	if err != nil {
		return nil, err
	}
	out := make([]Row, 0, len(raws))
	for _, raw := range raws {
		row, err := decodeRow(raw, sels)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	return out, nil
}

// One runs the query and returns exactly one row,
// failing with ErrNotFound when nothing matched.
func (b *QueryBuilder) One(ctx context.Context) (Row, error) {
	rows, err := b.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ErrNotFound
	}
	return rows[0], nil
}

// Optional runs the query and returns the first row or nil.
func (b *QueryBuilder) Optional(ctx context.Context) (Row, error) {
	rows, err := b.All(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

// Stream runs the query and returns a lazily decoded row stream.
// The stream owns everything it needs to decode; close it when done.
func (b *QueryBuilder) Stream(ctx context.Context) (*Stream, error) {
	q, sels := b.assemble()
	rows, err := b.exec.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}
	return &Stream{rows: rows, sels: sels, width: len(columns)}, nil
}

// Stream iterates decoded rows one at a time.
type Stream struct {
	rows    executor.Rows
	sels    []fieldSel
	width   int
	current Row
	err     error
}

// Next advances to the next row, reporting whether one is available.
func (s *Stream) Next() bool {
	if s.err != nil || !s.rows.Next() {
		if s.err == nil {
			s.err = s.rows.Err()
		}
		return false
	}
	raw := make([]any, s.width)
	ptrs := make([]any, s.width)
	for i := range raw {
		ptrs[i] = &raw[i]
	}
	if err := s.rows.Scan(ptrs...); err != nil {
		s.err = err
		return false
	}
	row, err := decodeRow(raw, s.sels)
	if err != nil {
		s.err = err
		return false
	}
	s.current = row
	return true
}

// Row returns the row Next advanced to.
func (s *Stream) Row() Row {
	return s.current
}

// Err returns the first error hit while streaming.
func (s *Stream) Err() error {
	return s.err
}

// Close releases the underlying rows.
func (s *Stream) Close() error {
	return s.rows.Close()
}
