package sqlgen

import (
	"fmt"
	"strings"
)

// Query is a rendered SQL statement with its arguments.
type Query struct {
	SQL  string
	Args []interface{}
}

// Generator renders query plans for a specific provider.
type Generator interface {
	GenerateSelect(table string, selects []ColumnSelector, joins []JoinEntry, where Condition, orderBy []OrderByEntry, limit *Limit) *Query
	GenerateInsert(table string, columns []string, rows [][]ColumnValue, returning []string) *Query
	GenerateUpdate(table string, set []ColumnValue, where Condition) *Query
	GenerateDelete(table string, where Condition, unrestricted bool) *Query
}

// NewGenerator creates a SQL generator for the given provider.
func NewGenerator(provider string) Generator {
	switch provider {
	case "mysql":
		return &generator{placeholder: questionPlaceholder, quote: quoteBacktick, returning: false, offsetNeedsLimit: true}
	case "sqlite":
		return &generator{placeholder: questionPlaceholder, quote: quoteDouble, returning: true}
	default: // "postgresql", "postgres"
		return &generator{placeholder: dollarPlaceholder, quote: quoteDouble, returning: true}
	}
}

type generator struct {
	placeholder      func(int) string
	quote            func(string) string
	returning        bool
	offsetNeedsLimit bool // MySQL cannot express OFFSET without LIMIT
}

func dollarPlaceholder(i int) string { return fmt.Sprintf("$%d", i) }

func questionPlaceholder(int) string { return "?" }

func quoteDouble(name string) string { return fmt.Sprintf(`"%s"`, name) }

func quoteBacktick(name string) string { return fmt.Sprintf("`%s`", name) }

func (g *generator) GenerateSelect(table string, selects []ColumnSelector, joins []JoinEntry, where Condition, orderBy []OrderByEntry, limit *Limit) *Query {
	var parts []string
	var args []interface{}
	argIndex := 1

	// SELECT columns
	if len(selects) == 0 {
		parts = append(parts, "SELECT *")
	} else {
		cols := make([]string, len(selects))
		for i, sel := range selects {
			expr := fmt.Sprintf("%s.%s", g.quote(sel.Table), g.quote(sel.Column))
			if sel.Aggregation != "" {
				expr = fmt.Sprintf("%s(%s)", sel.Aggregation, expr)
			}
			cols[i] = fmt.Sprintf("%s AS %s", expr, g.quote(sel.Alias))
		}
		parts = append(parts, "SELECT "+strings.Join(cols, ", "))
	}

	// FROM table
	parts = append(parts, "FROM "+g.quote(table))

	// JOIN clauses
	for _, join := range joins {
		onSQL, onArgs := g.renderCondition(join.On, &argIndex)
		parts = append(parts, fmt.Sprintf("JOIN %s AS %s ON %s", g.quote(join.Table), g.quote(join.Alias), onSQL))
		args = append(args, onArgs...)
	}

	// WHERE clause
	if where != nil {
		whereSQL, whereArgs := g.renderCondition(where, &argIndex)
		parts = append(parts, "WHERE "+whereSQL)
		args = append(args, whereArgs...)
	}

	// ORDER BY
	if len(orderBy) > 0 {
		orderParts := make([]string, len(orderBy))
		for i, ob := range orderBy {
			direction := "ASC"
			if ob.Desc {
				direction = "DESC"
			}
			orderParts[i] = fmt.Sprintf("%s.%s %s", g.quote(ob.Table), g.quote(ob.Column), direction)
		}
		parts = append(parts, "ORDER BY "+strings.Join(orderParts, ", "))
	}

	// LIMIT / OFFSET
	if limit != nil {
		if !limit.NoCap {
			parts = append(parts, fmt.Sprintf("LIMIT %s", g.placeholder(argIndex)))
			args = append(args, limit.Limit)
			argIndex++
		} else if limit.Offset > 0 && g.offsetNeedsLimit {
			// Documented MySQL idiom for "no limit".
			parts = append(parts, "LIMIT 18446744073709551615")
		}
		if limit.Offset > 0 {
			parts = append(parts, fmt.Sprintf("OFFSET %s", g.placeholder(argIndex)))
			args = append(args, limit.Offset)
			argIndex++
		}
	}

	return &Query{SQL: strings.Join(parts, " "), Args: args}
}

func (g *generator) GenerateInsert(table string, columns []string, rows [][]ColumnValue, returning []string) *Query {
	var parts []string
	var args []interface{}
	argIndex := 1

	parts = append(parts, "INSERT INTO "+g.quote(table))

	if len(columns) > 0 {
		quoted := make([]string, len(columns))
		for i, col := range columns {
			quoted[i] = g.quote(col)
		}
		parts = append(parts, fmt.Sprintf("(%s)", strings.Join(quoted, ", ")))
	}

	rowParts := make([]string, len(rows))
	for i, row := range rows {
		placeholders := make([]string, len(row))
		for j, cv := range row {
			placeholders[j] = g.placeholder(argIndex)
			args = append(args, cv.Value.Arg())
			argIndex++
		}
		rowParts[i] = fmt.Sprintf("(%s)", strings.Join(placeholders, ", "))
	}
	parts = append(parts, "VALUES "+strings.Join(rowParts, ", "))

	if len(returning) > 0 && g.returning {
		quoted := make([]string, len(returning))
		for i, col := range returning {
			quoted[i] = g.quote(col)
		}
		parts = append(parts, "RETURNING "+strings.Join(quoted, ", "))
	}

	return &Query{SQL: strings.Join(parts, " "), Args: args}
}

func (g *generator) GenerateUpdate(table string, set []ColumnValue, where Condition) *Query {
	var parts []string
	var args []interface{}
	argIndex := 1

	parts = append(parts, "UPDATE "+g.quote(table))

	setParts := make([]string, len(set))
	for i, cv := range set {
		setParts[i] = fmt.Sprintf("%s = %s", g.quote(cv.Column), g.placeholder(argIndex))
		args = append(args, cv.Value.Arg())
		argIndex++
	}
	parts = append(parts, "SET "+strings.Join(setParts, ", "))

	if where != nil {
		whereSQL, whereArgs := g.renderCondition(where, &argIndex)
		parts = append(parts, "WHERE "+whereSQL)
		args = append(args, whereArgs...)
	}

	return &Query{SQL: strings.Join(parts, " "), Args: args}
}

func (g *generator) GenerateDelete(table string, where Condition, unrestricted bool) *Query {
	var parts []string
	var args []interface{}
	argIndex := 1

	parts = append(parts, "DELETE FROM "+g.quote(table))

	if where != nil {
		whereSQL, whereArgs := g.renderCondition(where, &argIndex)
		parts = append(parts, "WHERE "+whereSQL)
		args = append(args, whereArgs...)
	} else if !unrestricted {
		// Refuse to delete every row unless the caller asked for it explicitly.
		parts = append(parts, "WHERE 1=0")
	}

	return &Query{SQL: strings.Join(parts, " "), Args: args}
}

// renderCondition renders a condition tree into SQL, collecting arguments.
func (g *generator) renderCondition(cond Condition, argIndex *int) (string, []interface{}) {
	var args []interface{}
	switch c := cond.(type) {
	case Conjunction:
		return g.renderCollection(c, "AND", argIndex)
	case Disjunction:
		return g.renderCollection(c, "OR", argIndex)
	case UnaryCondition:
		argSQL, argArgs := g.renderCondition(c.Arg, argIndex)
		args = append(args, argArgs...)
		switch c.Op {
		case OpIsNull, OpIsNotNull:
			return fmt.Sprintf("(%s %s)", argSQL, c.Op), args
		default: // NOT, EXISTS, NOT EXISTS are prefix operators
			return fmt.Sprintf("(%s %s)", c.Op, argSQL), args
		}
	case BinaryCondition:
		lhsSQL, lhsArgs := g.renderCondition(c.Lhs, argIndex)
		args = append(args, lhsArgs...)
		rhsSQL, rhsArgs := g.renderCondition(c.Rhs, argIndex)
		args = append(args, rhsArgs...)
		return fmt.Sprintf("(%s %s %s)", lhsSQL, c.Op, rhsSQL), args
	case TernaryCondition:
		fstSQL, fstArgs := g.renderCondition(c.Fst, argIndex)
		args = append(args, fstArgs...)
		sndSQL, sndArgs := g.renderCondition(c.Snd, argIndex)
		args = append(args, sndArgs...)
		trdSQL, trdArgs := g.renderCondition(c.Trd, argIndex)
		args = append(args, trdArgs...)
		return fmt.Sprintf("(%s %s %s AND %s)", fstSQL, c.Op, sndSQL, trdSQL), args
	case ColumnRef:
		return fmt.Sprintf("%s.%s", g.quote(c.Table), g.quote(c.Column)), nil
	case Literal:
		sql := g.placeholder(*argIndex)
		(*argIndex)++
		return sql, []interface{}{c.Value.Arg()}
	default:
		return "", nil
	}
}

func (g *generator) renderCollection(items []Condition, op string, argIndex *int) (string, []interface{}) {
	if len(items) == 0 {
		// The AND of the empty set is true, the OR false.
		if op == "AND" {
			return "(1=1)", nil
		}
		return "(1=0)", nil
	}
	var args []interface{}
	parts := make([]string, len(items))
	for i, item := range items {
		itemSQL, itemArgs := g.renderCondition(item, argIndex)
		parts[i] = itemSQL
		args = append(args, itemArgs...)
	}
	return fmt.Sprintf("(%s)", strings.Join(parts, " "+op+" ")), args
}
