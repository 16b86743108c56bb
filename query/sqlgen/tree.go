// Package sqlgen renders assembled query plans as SQL for different
// database providers.
package sqlgen

import "github.com/structql/structql/value"

// Condition is a node in a fully resolved condition tree.
//
// Unlike the planner's internal flat token stream, this tree carries
// resolved table aliases and is ready to be rendered.
type Condition interface {
	isCondition()
}

// Conjunction joins its children with AND.
type Conjunction []Condition

// Disjunction joins its children with OR.
type Disjunction []Condition

// UnaryCondition applies a unary SQL operator to one operand.
type UnaryCondition struct {
	Op  UnaryOp
	Arg Condition
}

// BinaryCondition applies a binary SQL operator to two operands.
type BinaryCondition struct {
	Op       BinaryOp
	Lhs, Rhs Condition
}

// TernaryCondition applies a ternary SQL operator to three operands.
type TernaryCondition struct {
	Op            TernaryOp
	Fst, Snd, Trd Condition
}

// ColumnRef is a column operand qualified by its table alias.
type ColumnRef struct {
	Table  string
	Column string
}

// Literal is a tagged value operand.
type Literal struct {
	Value value.Value
}

func (Conjunction) isCondition()      {}
func (Disjunction) isCondition()      {}
func (UnaryCondition) isCondition()   {}
func (BinaryCondition) isCondition()  {}
func (TernaryCondition) isCondition() {}
func (ColumnRef) isCondition()        {}
func (Literal) isCondition()          {}

// UnaryOp is a unary SQL operator.
type UnaryOp string

const (
	OpIsNull    UnaryOp = "IS NULL"
	OpIsNotNull UnaryOp = "IS NOT NULL"
	OpExists    UnaryOp = "EXISTS"
	OpNotExists UnaryOp = "NOT EXISTS"
	OpNot       UnaryOp = "NOT"
)

// BinaryOp is a binary SQL operator.
type BinaryOp string

const (
	OpEquals          BinaryOp = "="
	OpNotEquals       BinaryOp = "<>"
	OpGreater         BinaryOp = ">"
	OpGreaterOrEquals BinaryOp = ">="
	OpLess            BinaryOp = "<"
	OpLessOrEquals    BinaryOp = "<="
	OpLike            BinaryOp = "LIKE"
	OpNotLike         BinaryOp = "NOT LIKE"
	OpRegexp          BinaryOp = "REGEXP"
	OpNotRegexp       BinaryOp = "NOT REGEXP"
)

// TernaryOp is a ternary SQL operator.
type TernaryOp string

const (
	OpBetween    TernaryOp = "BETWEEN"
	OpNotBetween TernaryOp = "NOT BETWEEN"
)

// ColumnSelector is one entry of a SELECT column list.
type ColumnSelector struct {
	Table       string // table alias the column is addressed through
	Column      string
	Alias       string // output column alias
	Aggregation string // "" or an aggregate function name (COUNT, SUM, ...)
}

// JoinEntry is one JOIN of a SELECT statement.
type JoinEntry struct {
	Table string // target table name
	Alias string // generated join alias
	On    Condition
}

// OrderByEntry is one entry of an ORDER BY list.
type OrderByEntry struct {
	Table  string
	Column string
	Desc   bool
}

// Limit is an optional LIMIT/OFFSET pair. NoCap leaves the row count
// unbounded; only the offset applies then.
type Limit struct {
	Limit  uint64
	NoCap  bool
	Offset uint64
}

// ColumnValue pairs a column name with the value written to it.
type ColumnValue struct {
	Column string
	Value  value.Value
}
