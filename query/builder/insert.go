package builder

import (
	"context"
	"fmt"

	"github.com/structql/structql/model"
	"github.com/structql/structql/query/conditions"
	"github.com/structql/structql/query/executor"
	"github.com/structql/structql/query/plan"
	"github.com/structql/structql/query/sqlgen"
	"github.com/structql/structql/value"
)

// InsertBuilder assembles and runs an INSERT over one or more patches.
// A patch maps field names to tagged values.
type InsertBuilder struct {
	exec    executor.Executor
	meta    *model.Meta
	patches []map[string]value.Value
}

// Insert starts an INSERT into a model's table.
func Insert(exec executor.Executor, meta *model.Meta) *InsertBuilder {
	return &InsertBuilder{exec: exec, meta: meta}
}

// Values appends a single patch to insert.
func (b *InsertBuilder) Values(patch map[string]value.Value) *InsertBuilder {
	b.patches = append(b.patches, patch)
	return b
}

// Bulk appends several patches to insert in one statement.
func (b *InsertBuilder) Bulk(patches []map[string]value.Value) *InsertBuilder {
	b.patches = append(b.patches, patches...)
	return b
}

// assemble resolves patch field names to columns. The first patch fixes
// the column list; every patch must provide the same fields.
func (b *InsertBuilder) assemble() ([]string, [][]sqlgen.ColumnValue, error) {
	if len(b.patches) == 0 {
		return nil, nil, fmt.Errorf("builder: insert into %s with zero patches", b.meta.Table)
	}

	var fields []*model.Field
	for _, f := range b.meta.Fields {
		if _, ok := b.patches[0][f.Name]; ok {
			fields = append(fields, f)
		}
	}
	if len(fields) != len(b.patches[0]) {
		return nil, nil, fmt.Errorf("builder: insert patch for %s names unknown fields", b.meta.Table)
	}

	var columns []string
	for _, f := range fields {
		columns = append(columns, f.Columns...)
	}

	rows := make([][]sqlgen.ColumnValue, len(b.patches))
	for i, patch := range b.patches {
		if len(patch) != len(fields) {
			return nil, nil, fmt.Errorf("builder: insert patch %d for %s differs from the first patch's fields", i, b.meta.Table)
		}
		var row []sqlgen.ColumnValue
		for _, f := range fields {
			v, ok := patch[f.Name]
			if !ok {
				return nil, nil, fmt.Errorf("builder: insert patch %d for %s is missing field %q", i, b.meta.Table, f.Name)
			}
			// Multi-column fields would need one value per column; the
			// patch surface only carries single-column fields today.
			row = append(row, sqlgen.ColumnValue{Column: f.Column(), Value: v})
		}
		rows[i] = row
	}
	return columns, rows, nil
}

// Exec runs the insert and returns the number of inserted rows.
func (b *InsertBuilder) Exec(ctx context.Context) (int64, error) {
	columns, rows, err := b.assemble()
	if err != nil {
		return 0, err
	}
	q := b.exec.Generator().GenerateInsert(b.meta.Table, columns, rows, nil)
	return b.exec.Exec(ctx, q)
}

// ExecReturning runs the insert asking the database to echo the model's
// fields back, decoded like a query result.
func (b *InsertBuilder) ExecReturning(ctx context.Context) ([]Row, error) {
	columns, rows, err := b.assemble()
	if err != nil {
		return nil, err
	}

	// Selecting the fields through a context validates the returning
	// column list the same way a query would.
	qctx := plan.NewContext()
	origin := plan.Origin(b.meta)
	var sels []fieldSel
	for _, f := range b.meta.Fields {
		if len(f.Columns) == 0 {
			continue
		}
		index, _ := qctx.SelectField(f, origin)
		sels = append(sels, fieldSel{ref: conditions.FieldRef{Field: f, Path: origin}, start: index})
	}
	returning := qctx.Returning()
	if returning == nil {
		return nil, fmt.Errorf("builder: insert into %s cannot return columns", b.meta.Table)
	}

	q := b.exec.Generator().GenerateInsert(b.meta.Table, columns, rows, returning)
	res, err := b.exec.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	raws, err := executor.ScanAll(res)
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
