package sqlgen

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/structql/structql/value"
)

func TestGenerateSelectPostgres(t *testing.T) {
	g := NewGenerator("postgresql")

	query := g.GenerateSelect(
		"user",
		[]ColumnSelector{
			{Table: "user", Column: "id", Alias: "a"},
			{Table: "user", Column: "name", Alias: "b"},
		},
		nil,
		BinaryCondition{
			Op:  OpEquals,
			Lhs: ColumnRef{Table: "user", Column: "name"},
			Rhs: Literal{Value: value.String("alice")},
		},
		[]OrderByEntry{{Table: "user", Column: "id", Desc: true}},
		&Limit{Limit: 10, Offset: 20},
	)

	assert.Equal(t,
		`SELECT "user"."id" AS "a", "user"."name" AS "b" FROM "user" WHERE ("user"."name" = $1) ORDER BY "user"."id" DESC LIMIT $2 OFFSET $3`,
		query.SQL)
	assert.Equal(t, []interface{}{"alice", uint64(10), uint64(20)}, query.Args)
}

func TestGenerateSelectMySQL(t *testing.T) {
	g := NewGenerator("mysql")

	query := g.GenerateSelect(
		"user",
		[]ColumnSelector{{Table: "user", Column: "id", Alias: "a"}},
		nil,
		BinaryCondition{
			Op:  OpGreater,
			Lhs: ColumnRef{Table: "user", Column: "age"},
			Rhs: Literal{Value: value.I64(18)},
		},
		nil,
		nil,
	)

	assert.Equal(t,
		"SELECT `user`.`id` AS `a` FROM `user` WHERE (`user`.`age` > ?)",
		query.SQL)
	assert.Equal(t, []interface{}{int64(18)}, query.Args)
}

func TestGenerateSelectWithJoin(t *testing.T) {
	g := NewGenerator("postgresql")

	query := g.GenerateSelect(
		"post",
		[]ColumnSelector{{Table: "post", Column: "id", Alias: "a"}},
		[]JoinEntry{{
			Table: "user",
			Alias: "a",
			On: BinaryCondition{
				Op:  OpEquals,
				Lhs: ColumnRef{Table: "a", Column: "id"},
				Rhs: ColumnRef{Table: "post", Column: "author"},
			},
		}},
		nil,
		nil,
		nil,
	)

	assert.Equal(t,
		`SELECT "post"."id" AS "a" FROM "post" JOIN "user" AS "a" ON ("a"."id" = "post"."author")`,
		query.SQL)
	assert.Empty(t, query.Args)
}

func TestGenerateSelectStar(t *testing.T) {
	g := NewGenerator("postgresql")
	query := g.GenerateSelect("user", nil, nil, nil, nil, nil)
	assert.Equal(t, `SELECT * FROM "user"`, query.SQL)
}

func TestGenerateSelectAggregation(t *testing.T) {
	g := NewGenerator("postgresql")

	query := g.GenerateSelect(
		"user",
		[]ColumnSelector{{Table: "user", Column: "id", Alias: "a", Aggregation: "COUNT"}},
		nil, nil, nil, nil,
	)

	assert.Equal(t, `SELECT COUNT("user"."id") AS "a" FROM "user"`, query.SQL)
}

func TestRenderConditionShapes(t *testing.T) {
	col := ColumnRef{Table: "t", Column: "c"}
	lit := Literal{Value: value.I64(1)}

	tests := []struct {
		name  string
		cond  Condition
		where string
	}{
		{"is null", UnaryCondition{Op: OpIsNull, Arg: col}, `("t"."c" IS NULL)`},
		{"not", UnaryCondition{Op: OpNot, Arg: BinaryCondition{Op: OpEquals, Lhs: col, Rhs: lit}}, `(NOT ("t"."c" = $1))`},
		{"between", TernaryCondition{Op: OpBetween, Fst: col, Snd: lit, Trd: Literal{Value: value.I64(2)}}, `("t"."c" BETWEEN $1 AND $2)`},
		{"not between", TernaryCondition{Op: OpNotBetween, Fst: col, Snd: lit, Trd: Literal{Value: value.I64(2)}}, `("t"."c" NOT BETWEEN $1 AND $2)`},
		{"empty conjunction", Conjunction(nil), `(1=1)`},
		{"empty disjunction", Disjunction(nil), `(1=0)`},
		{"mixed collection", Conjunction{
			BinaryCondition{Op: OpEquals, Lhs: col, Rhs: lit},
			Disjunction{UnaryCondition{Op: OpIsNotNull, Arg: col}},
		}, `(("t"."c" = $1) AND (("t"."c" IS NOT NULL)))`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewGenerator("postgresql")
			query := g.GenerateSelect("t", nil, nil, tt.cond, nil, nil)
			assert.Equal(t, `SELECT * FROM "t" WHERE `+tt.where, query.SQL)
		})
	}
}

func TestGenerateSelectOffsetWithoutLimit(t *testing.T) {
	limit := &Limit{NoCap: true, Offset: 20}

	t.Run("postgres omits limit", func(t *testing.T) {
		g := NewGenerator("postgresql")
		query := g.GenerateSelect("user", nil, nil, nil, nil, limit)
		assert.Equal(t, `SELECT * FROM "user" OFFSET $1`, query.SQL)
		assert.Equal(t, []interface{}{uint64(20)}, query.Args)
	})

	t.Run("sqlite omits limit", func(t *testing.T) {
		g := NewGenerator("sqlite")
		query := g.GenerateSelect("user", nil, nil, nil, nil, limit)
		assert.Equal(t, `SELECT * FROM "user" OFFSET ?`, query.SQL)
		assert.Equal(t, []interface{}{uint64(20)}, query.Args)
	})

	t.Run("mysql needs a limit literal", func(t *testing.T) {
		g := NewGenerator("mysql")
		query := g.GenerateSelect("user", nil, nil, nil, nil, limit)
		assert.Equal(t, "SELECT * FROM `user` LIMIT 18446744073709551615 OFFSET ?", query.SQL)
		assert.Equal(t, []interface{}{uint64(20)}, query.Args)
	})

	t.Run("zero offset renders nothing", func(t *testing.T) {
		g := NewGenerator("postgresql")
		query := g.GenerateSelect("user", nil, nil, nil, nil, &Limit{NoCap: true})
		assert.Equal(t, `SELECT * FROM "user"`, query.SQL)
		assert.Empty(t, query.Args)
	})
}

func TestPlaceholderNumbering(t *testing.T) {
	g := NewGenerator("postgresql")

	query := g.GenerateSelect(
		"t",
		nil,
		nil,
		Conjunction{
			BinaryCondition{Op: OpEquals, Lhs: ColumnRef{Table: "t", Column: "a"}, Rhs: Literal{Value: value.I64(1)}},
			BinaryCondition{Op: OpEquals, Lhs: ColumnRef{Table: "t", Column: "b"}, Rhs: Literal{Value: value.I64(2)}},
		},
		nil,
		&Limit{Limit: 5},
	)

	assert.Equal(t,
		`SELECT * FROM "t" WHERE (("t"."a" = $1) AND ("t"."b" = $2)) LIMIT $3`,
		query.SQL)
	assert.Equal(t, []interface{}{int64(1), int64(2), uint64(5)}, query.Args)
}

func TestGenerateInsert(t *testing.T) {
	rows := [][]ColumnValue{
		{{Column: "name", Value: value.String("alice")}, {Column: "age", Value: value.I64(30)}},
		{{Column: "name", Value: value.String("bob")}, {Column: "age", Value: value.I64(25)}},
	}

	t.Run("postgres with returning", func(t *testing.T) {
		g := NewGenerator("postgresql")
		query := g.GenerateInsert("user", []string{"name", "age"}, rows, []string{"id", "name", "age"})
		assert.Equal(t,
			`INSERT INTO "user" ("name", "age") VALUES ($1, $2), ($3, $4) RETURNING "id", "name", "age"`,
			query.SQL)
		assert.Equal(t, []interface{}{"alice", int64(30), "bob", int64(25)}, query.Args)
	})

	t.Run("mysql drops returning", func(t *testing.T) {
		g := NewGenerator("mysql")
		query := g.GenerateInsert("user", []string{"name", "age"}, rows, []string{"id"})
		assert.Equal(t,
			"INSERT INTO `user` (`name`, `age`) VALUES (?, ?), (?, ?)",
			query.SQL)
	})

	t.Run("sqlite keeps returning", func(t *testing.T) {
		g := NewGenerator("sqlite")
		query := g.GenerateInsert("user", []string{"name"}, [][]ColumnValue{{{Column: "name", Value: value.String("alice")}}}, []string{"id"})
		assert.Equal(t, `INSERT INTO "user" ("name") VALUES (?) RETURNING "id"`, query.SQL)
	})
}

func TestGenerateInsertNullArg(t *testing.T) {
	g := NewGenerator("postgresql")
	query := g.GenerateInsert("user", []string{"name"},
		[][]ColumnValue{{{Column: "name", Value: value.Null(value.KindString)}}}, nil)
	assert.Equal(t, []interface{}{nil}, query.Args)
}

func TestGenerateUpdate(t *testing.T) {
	g := NewGenerator("postgresql")

	query := g.GenerateUpdate(
		"user",
		[]ColumnValue{{Column: "name", Value: value.String("carol")}},
		BinaryCondition{
			Op:  OpEquals,
			Lhs: ColumnRef{Table: "user", Column: "id"},
			Rhs: Literal{Value: value.I64(7)},
		},
	)

	assert.Equal(t, `UPDATE "user" SET "name" = $1 WHERE ("user"."id" = $2)`, query.SQL)
	assert.Equal(t, []interface{}{"carol", int64(7)}, query.Args)
}

func TestGenerateDelete(t *testing.T) {
	where := BinaryCondition{
		Op:  OpEquals,
		Lhs: ColumnRef{Table: "user", Column: "id"},
		Rhs: Literal{Value: value.I64(7)},
	}

	t.Run("with condition", func(t *testing.T) {
		g := NewGenerator("postgresql")
		query := g.GenerateDelete("user", where, false)
		assert.Equal(t, `DELETE FROM "user" WHERE ("user"."id" = $1)`, query.SQL)
		assert.Equal(t, []interface{}{int64(7)}, query.Args)
	})

	t.Run("guards against accidental full delete", func(t *testing.T) {
		g := NewGenerator("postgresql")
		query := g.GenerateDelete("user", nil, false)
		assert.Equal(t, `DELETE FROM "user" WHERE 1=0`, query.SQL)
	})

	t.Run("unrestricted deletes everything", func(t *testing.T) {
		g := NewGenerator("postgresql")
		query := g.GenerateDelete("user", nil, true)
		assert.Equal(t, `DELETE FROM "user"`, query.SQL)
	})
}
