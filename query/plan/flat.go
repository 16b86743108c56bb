package plan

import "fmt"

// Condition is a node of a high-level condition tree.
//
// Build must leave the context's flat token sequence in a state that parses
// back into exactly one tree rooted at the position it started from.
type Condition interface {
	Build(c *Context)
}

// CollectionOperator joins a collection's conditions.
type CollectionOperator string

const (
	And CollectionOperator = "AND"
	Or  CollectionOperator = "OR"
)

// BinaryOperator is a binary comparison.
type BinaryOperator string

const (
	Equals          BinaryOperator = "equals"
	NotEquals       BinaryOperator = "not_equals"
	Greater         BinaryOperator = "greater"
	GreaterOrEquals BinaryOperator = "greater_or_equals"
	Less            BinaryOperator = "less"
	LessOrEquals    BinaryOperator = "less_or_equals"
	Like            BinaryOperator = "like"
	NotLike         BinaryOperator = "not_like"
	Regexp          BinaryOperator = "regexp"
	NotRegexp       BinaryOperator = "not_regexp"
)

// TernaryOperator is a three-operand comparison.
type TernaryOperator string

const (
	Between    TernaryOperator = "between"
	NotBetween TernaryOperator = "not_between"
)

// UnaryOperator is a single-operand condition.
type UnaryOperator string

const (
	IsNull    UnaryOperator = "is_null"
	IsNotNull UnaryOperator = "is_not_null"
	Exists    UnaryOperator = "exists"
	NotExists UnaryOperator = "not_exists"
	Not       UnaryOperator = "not"
)

type tokenKind uint8

const (
	tokStartCollection tokenKind = iota
	tokEndCollection
	tokUnary
	tokBinary
	tokTernary
	tokValue
	tokColumn
)

// token is one element of the flat, append-only condition sequence.
type token struct {
	kind tokenKind

	collection CollectionOperator
	unary      UnaryOperator
	binary     BinaryOperator
	ternary    TernaryOperator

	valueIndex int // index into the context's value pool
	pathID     PathID
	column     string
}

// ReconstructionReason classifies reconstruction failures.
type ReconstructionReason string

const (
	// MissingNodes means the token stream was exhausted mid-expression.
	MissingNodes ReconstructionReason = "missing nodes"
	// UnmatchedCollectionEnd means an end token had no matching start.
	UnmatchedCollectionEnd ReconstructionReason = "unmatched collection end"
	// UnknownValueIndex means a value token pointed outside the pool.
	UnknownValueIndex ReconstructionReason = "unknown value index"
	// UnknownPathAlias means a column token's path had no registered alias.
	UnknownPathAlias ReconstructionReason = "unknown path alias"
)

// ReconstructionError reports a failure to parse the flat condition
// sequence back into a tree.
//
// Every cause is a programmer error: either a condition handle from a
// different context or a broken Condition implementation.
type ReconstructionError struct {
	Reason ReconstructionReason
	Index  int // token position the failure was detected at
}

func (e *ReconstructionError) Error() string {
	return fmt.Sprintf("plan: condition reconstruction failed at token %d: %s", e.Index, e.Reason)
}
