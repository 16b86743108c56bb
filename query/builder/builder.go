// Package builder provides the CRUD builders users drive queries with.
// All relational bookkeeping is delegated to plan.Context; the network
// call goes through an executor.Executor.
package builder

import (
	"errors"
	"fmt"

	"github.com/structql/structql/model"
	"github.com/structql/structql/query/conditions"
	"github.com/structql/structql/query/plan"
	"github.com/structql/structql/value"
)

// ErrNotFound is returned by One when no row matched.
var ErrNotFound = errors.New("builder: no rows matched")

// ErrNoColumnsSet is returned when an update executes with zero set columns.
var ErrNoColumnsSet = errors.New("builder: no columns set")

// ErrNoCondition is returned when an update executes without a condition
// and without explicitly choosing All.
var ErrNoCondition = errors.New("builder: no condition given")

// ErrRelationCondition is returned when an update or delete condition steps
// through a relation; those statements render no JOIN clauses, so only
// origin fields can be referenced.
var ErrRelationCondition = errors.New("builder: condition reaches through a relation")

// Row is one decoded result row, keyed by field name.
type Row map[string]any

// fieldSel tracks where a selected field's raw columns start in the
// select list.
type fieldSel struct {
	ref   conditions.FieldRef
	start int
}

// decodeRow converts one raw scanned row into field values using each
// field's decoder.
func decodeRow(raw []any, sels []fieldSel) (Row, error) {
	row := make(Row, len(sels))
	for _, sel := range sels {
		f := sel.ref.Field
		n := len(f.Columns)
		if sel.start+n > len(raw) {
			return nil, fmt.Errorf("builder: row too short for field %s.%s", f.Model, f.Name)
		}
		src := raw[sel.start : sel.start+n]
		if f.Decode == nil {
			if n == 1 {
				row[f.Name] = src[0]
			} else {
				row[f.Name] = src
			}
			continue
		}
		v, err := f.Decode(src)
		if err != nil {
			return nil, fmt.Errorf("builder: decode %s.%s: %w", f.Model, f.Name, err)
		}
		row[f.Name] = v
	}
	return row, nil
}

// patchCondition builds the primary key identity condition for one patch.
func patchCondition(meta *model.Meta, origin plan.Path, patch map[string]value.Value) (plan.Condition, error) {
	pk := meta.PrimaryKey
	v, ok := patch[pk.Name]
	if !ok {
		return nil, fmt.Errorf("builder: patch for %s is missing primary key %q", meta.Table, pk.Name)
	}
	return conditions.FieldRef{Field: pk, Path: origin}.Equals(v), nil
}

// patchesCondition OR-combines the identity conditions of several patches.
func patchesCondition(meta *model.Meta, origin plan.Path, patches []map[string]value.Value) (plan.Condition, error) {
	items := make([]plan.Condition, 0, len(patches))
	for _, patch := range patches {
		cond, err := patchCondition(meta, origin, patch)
		if err != nil {
			return nil, err
		}
		items = append(items, cond)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("builder: bulk operation on %s with zero patches", meta.Table)
	}
	return conditions.Or(items...), nil
}
