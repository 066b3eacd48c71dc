package repository

import (
	"database/sql"
	"fmt"
	"strings"
)

func placeholders(n int) string {
	return placeholdersFrom(1, n)
}

func placeholdersFrom(start, n int) string {
	parts := make([]string, n)
	for i := 0; i < n; i++ {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}

// pageBounds normalises page/size inputs into LIMIT/OFFSET values.
func pageBounds(page, size, fallback, max int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > max {
		size = fallback
	}
	return page, size, (page - 1) * size
}

func expectAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// predicates accumulates AND-ed WHERE clauses with positional arguments.
type predicates struct {
	clauses []string
	args    []interface{}
}

// add binds value to the next parameter and substitutes it for every "?" in clause.
func (p *predicates) add(clause string, value interface{}) {
	p.args = append(p.args, value)
	p.clauses = append(p.clauses, strings.ReplaceAll(clause, "?", fmt.Sprintf("$%d", len(p.args))))
}

func (p *predicates) where() string {
	if len(p.clauses) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(p.clauses, " AND ")
}
