package executor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRows struct {
	columns []string
	rows    [][]any
	pos     int
	closed  bool
	err     error
}

func (r *stubRows) Columns() ([]string, error) { return r.columns, nil }

func (r *stubRows) Next() bool {
	if r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *stubRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	for i, d := range dest {
		*(d.(*any)) = row[i]
	}
	return nil
}

func (r *stubRows) Err() error { return r.err }

func (r *stubRows) Close() error {
	r.closed = true
	return nil
}

func TestOpenRejectsUnknownProvider(t *testing.T) {
	_, err := Open("oracle", "dsn")
	assert.Error(t, err)
}

func TestScanAll(t *testing.T) {
	rows := &stubRows{
		columns: []string{"a", "b"},
		rows: [][]any{
			{int64(1), "x"},
			{int64(2), "y"},
		},
	}

	out, err := ScanAll(rows)
	require.NoError(t, err)
	assert.Equal(t, [][]any{{int64(1), "x"}, {int64(2), "y"}}, out)
	assert.True(t, rows.closed)
}

func TestScanAllPropagatesRowError(t *testing.T) {
	rows := &stubRows{columns: []string{"a"}, err: errors.New("boom")}
	_, err := ScanAll(rows)
	assert.Error(t, err)
	assert.True(t, rows.closed)
}
