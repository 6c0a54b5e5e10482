package repository

import (
	"fmt"
	"strings"

	"marketplace_backend/internal/listings/query"
	"marketplace_backend/platform/sanitize"

	"github.com/jackc/pgx/v5"
)

// buildWhere renders predicates as a WHERE clause with $n placeholders
// starting at $1. It returns an empty clause for no predicates.
func buildWhere(preds []query.Predicate) (string, []any) {
	if len(preds) == 0 {
		return "", nil
	}

	whereClauses := make([]string, 0, len(preds))
	args := make([]any, 0, len(preds))
	argIdx := 1

	for _, p := range preds {
		switch p := p.(type) {
		case query.Eq:
			whereClauses = append(whereClauses, fmt.Sprintf("%s = $%d", ident(p.Column), argIdx))
			args = append(args, p.Value)
			argIdx++
		case query.Ne:
			whereClauses = append(whereClauses, fmt.Sprintf("%s <> $%d", ident(p.Column), argIdx))
			args = append(args, p.Value)
			argIdx++
		case query.Range:
			expr := ident(p.Column)
			if p.IntegerText {
				expr = fmt.Sprintf("(CASE WHEN %s ~ '^[0-9]+$' THEN %s::numeric END)", expr, expr)
			}
			if p.Min != nil {
				whereClauses = append(whereClauses, fmt.Sprintf("%s >= $%d", expr, argIdx))
				args = append(args, *p.Min)
				argIdx++
			}
			if p.Max != nil {
				whereClauses = append(whereClauses, fmt.Sprintf("%s <= $%d", expr, argIdx))
				args = append(args, *p.Max)
				argIdx++
			}
		case query.TextOr:
			if len(p.Columns) == 0 {
				continue
			}
			alternatives := make([]string, len(p.Columns))
			for i, col := range p.Columns {
				alternatives[i] = fmt.Sprintf("%s ILIKE $%d", ident(col), argIdx)
			}
			whereClauses = append(whereClauses, "("+strings.Join(alternatives, " OR ")+")")
			args = append(args, sanitize.ContainsPattern(p.Text))
			argIdx++
		}
	}

	if len(whereClauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(whereClauses, " AND "), args
}

// buildOrderBy renders ordering terms. Nulls always sort last.
func buildOrderBy(order []query.Order) string {
	if len(order) == 0 {
		return ""
	}

	terms := make([]string, len(order))
	for i, o := range order {
		direction := "DESC"
		if o.Ascending {
			direction = "ASC"
		}
		terms[i] = fmt.Sprintf("%s %s NULLS LAST", ident(o.Column), direction)
	}
	return " ORDER BY " + strings.Join(terms, ", ")
}

func ident(column string) string {
	return pgx.Identifier{column}.Sanitize()
}
