package plan

import (
	"fmt"

	"github.com/structql/structql/model"
	"github.com/structql/structql/query/sqlgen"
	"github.com/structql/structql/value"
)

// Aggregation is an aggregate function applied to a selected column.
type Aggregation string

const (
	Count Aggregation = "COUNT"
	Sum   Aggregation = "SUM"
	Avg   Aggregation = "AVG"
	Min   Aggregation = "MIN"
	Max   Aggregation = "MAX"
)

type selectEntry struct {
	pathID      PathID
	column      string
	alias       string
	aggregation Aggregation // "" when plain
}

type joinEntry struct {
	table  string
	pathID PathID
	on     sqlgen.Condition
}

type orderByEntry struct {
	pathID PathID
	column string
	desc   bool
}

// Context is the mutable assembly buffer for one query, update or delete.
//
// It accumulates selected columns, deduplicated joins, orderings, a flat
// condition sequence and the value pool the sequence references. A context
// is created empty per operation, mutated monotonically (nothing is ever
// removed) and consumed once. It must not be shared between goroutines.
type Context struct {
	basePath    Path
	joinAliases map[PathID]string
	selects     []selectEntry
	joins       []joinEntry
	orderBys    []orderByEntry
	tokens      []token
	values      []value.Value
}

// NewContext creates an empty context.
func NewContext() *Context {
	return &Context{joinAliases: make(map[PathID]string)}
}

// registerOrigin maps an origin path to its alias, inserting it on first use.
//
// While a base path is scoped, origin registrations resolve to the base
// path's alias instead of the origin's own table.
func (c *Context) registerOrigin(p *originPath) string {
	if alias, ok := c.joinAliases[p.id]; ok {
		return alias
	}
	alias := p.meta.Table
	if c.basePath != nil && c.basePath.ID() != p.id {
		alias = c.basePath.addToContext(c)
	}
	c.joinAliases[p.id] = alias
	return alias
}

// registerStep adds the joins required by a step path, reusing any join
// already registered for the same path identity.
func (c *Context) registerStep(p *stepPath) string {
	if alias, ok := c.joinAliases[p.id]; ok {
		return alias
	}
	// The parent must hold an alias before the ON-condition references it.
	parentAlias := p.parent.addToContext(c)

	alias := joinAlias(len(c.joins))
	c.joinAliases[p.id] = alias
	childColumn, parentColumn := p.onColumns()
	// The ON-condition is built here rather than flattened into the token
	// sequence: registration may happen mid-condition, and aliases are
	// final once assigned.
	c.joins = append(c.joins, joinEntry{
		table:  p.meta.Table,
		pathID: p.id,
		on: sqlgen.BinaryCondition{
			Op:  sqlgen.OpEquals,
			Lhs: sqlgen.ColumnRef{Table: alias, Column: childColumn},
			Rhs: sqlgen.ColumnRef{Table: parentAlias, Column: parentColumn},
		},
	})
	return alias
}

// ScopeBasePath makes origin registrations resolve to p's alias until the
// returned restore function runs. Scopes nest and must be released in LIFO
// order within a single goroutine.
func (c *Context) ScopeBasePath(p Path) (restore func()) {
	prev := c.basePath
	c.basePath = p
	return func() { c.basePath = prev }
}

// RegisterPath adds all joins a path requires and returns its alias.
func (c *Context) RegisterPath(p Path) string {
	return p.addToContext(c)
}

// SelectField adds one select entry per physical column of the field and
// returns the first entry's index and alias.
//
// Selecting the same field twice yields two distinct entries which share
// the underlying join and alias from path registration.
func (c *Context) SelectField(f *model.Field, p Path) (int, string) {
	p.addToContext(c)
	index := len(c.selects)
	for _, column := range f.Columns {
		c.selects = append(c.selects, selectEntry{
			pathID: p.ID(),
			column: column,
			alias:  selectAlias(len(c.selects)),
		})
	}
	if len(f.Columns) == 0 {
		// A zero-column field selects nothing.
		return index, ""
	}
	return index, c.selects[index].alias
}

// SelectAggregation adds a select entry applying fn to the field's single
// column and returns the entry's index and alias.
func (c *Context) SelectAggregation(fn Aggregation, f *model.Field, p Path) (int, string) {
	p.addToContext(c)
	index := len(c.selects)
	alias := selectAlias(index)
	c.selects = append(c.selects, selectEntry{
		pathID:      p.ID(),
		column:      f.Column(),
		alias:       alias,
		aggregation: fn,
	})
	return index, alias
}

// AddCondition flattens a condition into the context and returns a handle
// for later reconstruction. Handles stay valid because the token sequence
// is append-only.
func (c *Context) AddCondition(cond Condition) int {
	index := len(c.tokens)
	cond.Build(c)
	return index
}

// OrderByField registers the path and appends an order-by entry.
// Call order is significance order.
func (c *Context) OrderByField(f *model.Field, p Path, desc bool) {
	p.addToContext(c)
	c.orderBys = append(c.orderBys, orderByEntry{
		pathID: p.ID(),
		column: f.Column(),
		desc:   desc,
	})
}

// PushStartCollection appends a collection start token.
func (c *Context) PushStartCollection(op CollectionOperator) {
	c.tokens = append(c.tokens, token{kind: tokStartCollection, collection: op})
}

// PushEndCollection appends a collection end token.
func (c *Context) PushEndCollection() {
	c.tokens = append(c.tokens, token{kind: tokEndCollection})
}

// PushUnary appends a unary operator token.
func (c *Context) PushUnary(op UnaryOperator) {
	c.tokens = append(c.tokens, token{kind: tokUnary, unary: op})
}

// PushBinary appends a binary operator token.
func (c *Context) PushBinary(op BinaryOperator) {
	c.tokens = append(c.tokens, token{kind: tokBinary, binary: op})
}

// PushTernary appends a ternary operator token.
func (c *Context) PushTernary(op TernaryOperator) {
	c.tokens = append(c.tokens, token{kind: tokTernary, ternary: op})
}

// PushValue appends v to the value pool and a token referencing it.
func (c *Context) PushValue(v value.Value) {
	index := len(c.values)
	c.values = append(c.values, v)
	c.tokens = append(c.tokens, token{kind: tokValue, valueIndex: index})
}

// PushColumn registers the column's path and appends a column token.
func (c *Context) PushColumn(p Path, column string) {
	p.addToContext(c)
	c.tokens = append(c.tokens, token{kind: tokColumn, pathID: p.ID(), column: column})
}

// TryGetCondition reconstructs the condition starting at a handle returned
// by AddCondition.
//
// It fails if the handle wasn't produced by this context or a Condition
// implementation left the token sequence unparseable; both are programmer
// errors. GetCondition is the panicking twin for call sites which hold a
// handle that is valid by construction.
func (c *Context) TryGetCondition(handle int) (sqlgen.Condition, error) {
	if handle < 0 || handle >= len(c.tokens) {
		return nil, &ReconstructionError{Reason: MissingNodes, Index: handle}
	}
	pos := handle
	return c.reconstruct(&pos)
}

// GetCondition reconstructs the condition at handle, panicking on failure.
func (c *Context) GetCondition(handle int) sqlgen.Condition {
	cond, err := c.TryGetCondition(handle)
	if err != nil {
		panic(fmt.Sprintf("plan: invalid condition handle %d: %v", handle, err))
	}
	return cond
}

func (c *Context) reconstruct(pos *int) (sqlgen.Condition, error) {
	if *pos >= len(c.tokens) {
		return nil, &ReconstructionError{Reason: MissingNodes, Index: *pos}
	}
	at := *pos
	t := c.tokens[at]
	*pos++

	switch t.kind {
	case tokStartCollection:
		var items []sqlgen.Condition
		for {
			if *pos >= len(c.tokens) {
				return nil, &ReconstructionError{Reason: MissingNodes, Index: *pos}
			}
			if c.tokens[*pos].kind == tokEndCollection {
				*pos++
				break
			}
			item, err := c.reconstruct(pos)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		if t.collection == Or {
			return sqlgen.Disjunction(items), nil
		}
		return sqlgen.Conjunction(items), nil

	case tokEndCollection:
		return nil, &ReconstructionError{Reason: UnmatchedCollectionEnd, Index: at}

	case tokUnary:
		arg, err := c.reconstruct(pos)
		if err != nil {
			return nil, err
		}
		return sqlgen.UnaryCondition{Op: unaryOps[t.unary], Arg: arg}, nil

	case tokBinary:
		lhs, err := c.reconstruct(pos)
		if err != nil {
			return nil, err
		}
		rhs, err := c.reconstruct(pos)
		if err != nil {
			return nil, err
		}
		return sqlgen.BinaryCondition{Op: binaryOps[t.binary], Lhs: lhs, Rhs: rhs}, nil

	case tokTernary:
		fst, err := c.reconstruct(pos)
		if err != nil {
			return nil, err
		}
		snd, err := c.reconstruct(pos)
		if err != nil {
			return nil, err
		}
		trd, err := c.reconstruct(pos)
		if err != nil {
			return nil, err
		}
		return sqlgen.TernaryCondition{Op: ternaryOps[t.ternary], Fst: fst, Snd: snd, Trd: trd}, nil

	case tokValue:
		if t.valueIndex < 0 || t.valueIndex >= len(c.values) {
			return nil, &ReconstructionError{Reason: UnknownValueIndex, Index: at}
		}
		return sqlgen.Literal{Value: c.values[t.valueIndex]}, nil

	case tokColumn:
		alias, ok := c.joinAliases[t.pathID]
		if !ok {
			return nil, &ReconstructionError{Reason: UnknownPathAlias, Index: at}
		}
		return sqlgen.ColumnRef{Table: alias, Column: t.column}, nil

	default:
		return nil, &ReconstructionError{Reason: MissingNodes, Index: at}
	}
}

var unaryOps = map[UnaryOperator]sqlgen.UnaryOp{
	IsNull:    sqlgen.OpIsNull,
	IsNotNull: sqlgen.OpIsNotNull,
	Exists:    sqlgen.OpExists,
	NotExists: sqlgen.OpNotExists,
	Not:       sqlgen.OpNot,
}

var binaryOps = map[BinaryOperator]sqlgen.BinaryOp{
	Equals:          sqlgen.OpEquals,
	NotEquals:       sqlgen.OpNotEquals,
	Greater:         sqlgen.OpGreater,
	GreaterOrEquals: sqlgen.OpGreaterOrEquals,
	Less:            sqlgen.OpLess,
	LessOrEquals:    sqlgen.OpLessOrEquals,
	Like:            sqlgen.OpLike,
	NotLike:         sqlgen.OpNotLike,
	Regexp:          sqlgen.OpRegexp,
	NotRegexp:       sqlgen.OpNotRegexp,
}

var ternaryOps = map[TernaryOperator]sqlgen.TernaryOp{
	Between:    sqlgen.OpBetween,
	NotBetween: sqlgen.OpNotBetween,
}

// Selects returns the select entries in backend form.
func (c *Context) Selects() []sqlgen.ColumnSelector {
	out := make([]sqlgen.ColumnSelector, len(c.selects))
	for i, sel := range c.selects {
		out[i] = sqlgen.ColumnSelector{
			Table:       c.alias(sel.pathID),
			Column:      sel.column,
			Alias:       sel.alias,
			Aggregation: string(sel.aggregation),
		}
	}
	return out
}

// Joins returns the join entries in backend form.
func (c *Context) Joins() []sqlgen.JoinEntry {
	out := make([]sqlgen.JoinEntry, len(c.joins))
	for i, join := range c.joins {
		out[i] = sqlgen.JoinEntry{
			Table: join.table,
			Alias: c.alias(join.pathID),
			On:    join.on,
		}
	}
	return out
}

// OrderBys returns the order-by entries in backend form.
func (c *Context) OrderBys() []sqlgen.OrderByEntry {
	out := make([]sqlgen.OrderByEntry, len(c.orderBys))
	for i, ob := range c.orderBys {
		out[i] = sqlgen.OrderByEntry{
			Table:  c.alias(ob.pathID),
			Column: ob.column,
			Desc:   ob.desc,
		}
	}
	return out
}

// Returning returns the select entries' column names for INSERT ... RETURNING,
// or nil if the context cannot produce a valid returning list: any join,
// any aggregated select, or selects spanning more than one path.
func (c *Context) Returning() []string {
	if len(c.joins) > 0 || len(c.selects) == 0 {
		return nil
	}
	pathID := c.selects[0].pathID
	out := make([]string, 0, len(c.selects))
	for _, sel := range c.selects {
		if sel.aggregation != "" {
			return nil
		}
		if sel.pathID != pathID {
			return nil
		}
		out = append(out, sel.column)
	}
	return out
}

// alias resolves a registered path id; registration order guarantees presence.
func (c *Context) alias(id PathID) string {
	alias, ok := c.joinAliases[id]
	if !ok {
		panic(fmt.Sprintf("plan: path %d has no alias", id))
	}
	return alias
}

// selectAlias generates the n-th select alias using the same short letter
// sequence as join aliases; the two live in separate SQL namespaces.
func selectAlias(n int) string {
	return joinAlias(n)
}
