package builder

import (
	"context"
	"sync"

	"github.com/structql/structql/model"
	"github.com/structql/structql/query/executor"
	"github.com/structql/structql/query/sqlgen"
	"github.com/structql/structql/value"
)

var (
	fixturesOnce sync.Once
	userMeta     *model.Meta
	postMeta     *model.Meta
)

func fixtures() (user, post *model.Meta) {
	fixturesOnce.Do(func() {
		userID := &model.Field{
			Model: "user", Name: "id", Index: 0, Kind: value.KindI64,
			Columns:              []string{"id"},
			EffectiveAnnotations: [][]model.Annotation{{model.AnnPrimaryKey, model.AnnNotNull}},
		}
		userMeta = model.MustRegister(&model.Meta{
			Table: "user",
			Fields: []*model.Field{
				userID,
				{
					Model: "user", Name: "name", Index: 1, Kind: value.KindString,
					Columns:              []string{"name"},
					EffectiveAnnotations: [][]model.Annotation{{model.AnnMaxLength}},
				},
				{
					Model: "user", Name: "age", Index: 2, Kind: value.KindI64,
					Columns:              []string{"age"},
					EffectiveAnnotations: [][]model.Annotation{{model.AnnNotNull}},
				},
				{
					Model: "user", Name: "posts", Index: 3,
					Columns:              []string{},
					EffectiveAnnotations: [][]model.Annotation{},
					Relation:             &model.Relation{Kind: model.BackRef, TargetModel: "post", TargetField: "author"},
				},
			},
			PrimaryKey: userID,
		})

		postID := &model.Field{
			Model: "post", Name: "id", Index: 0, Kind: value.KindI64,
			Columns:              []string{"id"},
			EffectiveAnnotations: [][]model.Annotation{{model.AnnPrimaryKey, model.AnnNotNull}},
		}
		postMeta = model.MustRegister(&model.Meta{
			Table: "post",
			Fields: []*model.Field{
				postID,
				{
					Model: "post", Name: "title", Index: 1, Kind: value.KindString,
					Columns:              []string{"title"},
					EffectiveAnnotations: [][]model.Annotation{{model.AnnMaxLength}},
				},
				{
					Model: "post", Name: "author", Index: 2, Kind: value.KindI64,
					Columns:              []string{"author"},
					EffectiveAnnotations: [][]model.Annotation{{model.AnnForeignKey, model.AnnNotNull}},
					Relation:             &model.Relation{Kind: model.ForeignModel, TargetModel: "user", TargetField: "id"},
				},
			},
			PrimaryKey: postID,
		})
	})
	return userMeta, postMeta
}

// fakeRows replays fixed rows through the executor.Rows interface.
type fakeRows struct {
	columns []string
	rows    [][]any
	pos     int
	closed  bool
	err     error
}

func (r *fakeRows) Columns() ([]string, error) { return r.columns, nil }

func (r *fakeRows) Next() bool {
	if r.err != nil || r.pos >= len(r.rows) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	row := r.rows[r.pos-1]
	for i, d := range dest {
		*(d.(*any)) = row[i]
	}
	return nil
}

func (r *fakeRows) Err() error { return r.err }

func (r *fakeRows) Close() error {
	r.closed = true
	return nil
}

// fakeExec captures rendered statements and replays canned results.
type fakeExec struct {
	gen      sqlgen.Generator
	rows     *fakeRows
	affected int64

	queried  []*sqlgen.Query
	executed []*sqlgen.Query
}

func newFakeExec() *fakeExec {
	return &fakeExec{gen: sqlgen.NewGenerator("postgresql"), rows: &fakeRows{}}
}

func (e *fakeExec) Generator() sqlgen.Generator { return e.gen }

func (e *fakeExec) Query(_ context.Context, q *sqlgen.Query) (executor.Rows, error) {
	e.queried = append(e.queried, q)
	return e.rows, nil
}

func (e *fakeExec) Exec(_ context.Context, q *sqlgen.Query) (int64, error) {
	e.executed = append(e.executed, q)
	return e.affected, nil
}
