package plan

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/structql/structql/query/sqlgen"
)

func TestPathIdentityStability(t *testing.T) {
	user, post, comment := fixtures()

	t.Run("origins", func(t *testing.T) {
		assert.Equal(t, Origin(user).ID(), Origin(user).ID())
		assert.NotEqual(t, Origin(user).ID(), Origin(post).ID())
	})

	t.Run("steps", func(t *testing.T) {
		p1 := Step(Origin(post), field(post, "author"))
		p2 := Step(Origin(post), field(post, "author"))
		assert.Equal(t, p1.ID(), p2.ID())
		assert.NotEqual(t, p1.ID(), Origin(post).ID())
		assert.NotEqual(t, p1.ID(), Origin(user).ID())
	})

	t.Run("two hops", func(t *testing.T) {
		p1 := Step(Step(Origin(comment), field(comment, "post")), field(post, "author"))
		p2 := Step(Step(Origin(comment), field(comment, "post")), field(post, "author"))
		assert.Equal(t, p1.ID(), p2.ID())
		assert.NotEqual(t, p1.ID(), Step(Origin(post), field(post, "author")).ID())
	})
}

func TestStepCurrentModel(t *testing.T) {
	user, post, comment := fixtures()

	assert.Equal(t, user, Step(Origin(post), field(post, "author")).Meta())
	assert.Equal(t, post, Step(Origin(comment), field(comment, "post")).Meta())
	// A back reference points at the model holding the foreign key.
	assert.Equal(t, post, Step(Origin(user), field(user, "posts")).Meta())
}

func TestStepValidation(t *testing.T) {
	user, post, _ := fixtures()

	assert.Panics(t, func() {
		Step(Origin(user), field(user, "name"))
	})
	assert.Panics(t, func() {
		// author is declared on post, not on user.
		Step(Origin(user), field(post, "author"))
	})
}

func TestJoinDedup(t *testing.T) {
	_, post, _ := fixtures()

	c := NewContext()
	p1 := Step(Origin(post), field(post, "author"))
	p2 := Step(Origin(post), field(post, "author"))

	alias1 := c.RegisterPath(p1)
	alias2 := c.RegisterPath(p2)

	assert.Equal(t, alias1, alias2)
	assert.Len(t, c.joins, 1)
}

func TestBackRefJoinColumns(t *testing.T) {
	user, _, _ := fixtures()

	c := NewContext()
	c.RegisterPath(Step(Origin(user), field(user, "posts")))

	require.Len(t, c.joins, 1)
	join := c.joins[0]
	assert.Equal(t, "post", join.table)

	// The foreign key lives on the joined (child) side.
	assertBinaryColumns(t, join.on, "a", "author", "user", "id")
}

func TestForeignModelJoinColumns(t *testing.T) {
	_, post, _ := fixtures()

	c := NewContext()
	c.RegisterPath(Step(Origin(post), field(post, "author")))

	require.Len(t, c.joins, 1)
	join := c.joins[0]
	assert.Equal(t, "user", join.table)

	assertBinaryColumns(t, join.on, "a", "id", "post", "author")
}

func TestTwoHopJoinOrdering(t *testing.T) {
	_, post, comment := fixtures()

	c := NewContext()
	deep := Step(Step(Origin(comment), field(comment, "post")), field(post, "author"))
	c.RegisterPath(deep)

	// The parent hop must be registered before the hop referencing it.
	require.Len(t, c.joins, 2)
	assert.Equal(t, "post", c.joins[0].table)
	assert.Equal(t, "user", c.joins[1].table)
	assert.Equal(t, "a", c.joinAliases[c.joins[0].pathID])
	assert.Equal(t, "b", c.joinAliases[c.joins[1].pathID])
}

func TestJoinAliasSequence(t *testing.T) {
	for _, tt := range []struct {
		n    int
		want string
	}{
		{0, "a"}, {1, "b"}, {25, "z"}, {26, "aa"}, {27, "ab"}, {51, "az"}, {52, "ba"}, {702, "aaa"},
	} {
		assert.Equal(t, tt.want, joinAlias(tt.n), "alias %d", tt.n)
	}
}

func TestBasePathScoping(t *testing.T) {
	_, post, _ := fixtures()

	c := NewContext()
	base := Step(Origin(post), field(post, "author"))
	baseAlias := c.RegisterPath(base)

	restore := c.ScopeBasePath(base)
	// While scoped, an origin resolves to the base path's alias.
	got := c.RegisterPath(Origin(userMeta))
	restore()

	assert.Equal(t, baseAlias, got)
	assert.Len(t, c.joins, 1)

	// After restore, fresh origins resolve to their own table again.
	c2 := NewContext()
	restore2 := c2.ScopeBasePath(base)
	inner := c2.ScopeBasePath(base)
	inner()
	restore2()
	assert.Equal(t, "post", c2.RegisterPath(Origin(post)))
}

// assertBinaryColumns checks an ON-condition of the shape
// child.childCol = parent.parentCol.
func assertBinaryColumns(t *testing.T, cond sqlgen.Condition, childTable, childCol, parentTable, parentCol string) {
	t.Helper()
	bin, ok := cond.(sqlgen.BinaryCondition)
	require.True(t, ok, "expected a binary condition, got %T", cond)
	assert.Equal(t, sqlgen.OpEquals, bin.Op)
	assert.Equal(t, sqlgen.ColumnRef{Table: childTable, Column: childCol}, bin.Lhs)
	assert.Equal(t, sqlgen.ColumnRef{Table: parentTable, Column: parentCol}, bin.Rhs)
}
