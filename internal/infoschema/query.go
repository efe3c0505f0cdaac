package infoschema

import (
	"context"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"

	"fedcat/internal/domain"
)

// Query is a parsed SELECT against one information_schema table.
type Query struct {
	Table string
	Where *pg_query.Node
}

// ParseQuery parses a single SELECT statement reading from exactly one
// information_schema table. Unqualified table names are accepted.
func ParseQuery(sql string) (*Query, error) {
	result, err := pg_query.Parse(sql)
	if err != nil {
		return nil, domain.ErrValidation("parse SQL: %v", err)
	}
	if len(result.Stmts) != 1 {
		return nil, domain.ErrValidation("expected exactly one statement, got %d", len(result.Stmts))
	}

	sel := result.Stmts[0].Stmt.GetSelectStmt()
	if sel == nil {
		return nil, domain.ErrValidation("only SELECT statements are supported")
	}
	if sel.Larg != nil || sel.Rarg != nil {
		return nil, domain.ErrValidation("set operations are not supported")
	}
	if len(sel.FromClause) != 1 {
		return nil, domain.ErrValidation("query must read from exactly one %s table", SchemaName)
	}

	rv := sel.FromClause[0].GetRangeVar()
	if rv == nil {
		return nil, domain.ErrValidation("query must read from a %s table", SchemaName)
	}
	if rv.Catalogname != "" || (rv.Schemaname != "" && !strings.EqualFold(rv.Schemaname, SchemaName)) {
		return nil, domain.ErrValidation("table %q is not in %s", qualifiedName(rv), SchemaName)
	}

	return &Query{Table: strings.ToUpper(rv.Relname), Where: sel.WhereClause}, nil
}

// ParseWhere parses a bare boolean expression such as
// "table_schema = 'files'". An empty expression yields nil.
func ParseWhere(expr string) (*pg_query.Node, error) {
	if strings.TrimSpace(expr) == "" {
		return nil, nil
	}
	result, err := pg_query.Parse("SELECT 1 WHERE " + expr)
	if err != nil {
		return nil, domain.ErrValidation("parse WHERE clause: %v", err)
	}
	if len(result.Stmts) != 1 {
		return nil, domain.ErrValidation("WHERE clause must be a single expression")
	}
	sel := result.Stmts[0].Stmt.GetSelectStmt()
	if sel == nil || sel.Larg != nil {
		return nil, domain.ErrValidation("WHERE clause must be a single expression")
	}
	return sel.WhereClause, nil
}

func qualifiedName(rv *pg_query.RangeVar) string {
	parts := make([]string, 0, 3)
	for _, p := range []string{rv.Catalogname, rv.Schemaname, rv.Relname} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ".")
}

// Execute parses sql and materializes the table it reads from. The result is
// the full snapshot pruned by the pushed-down scope; projection and residual
// filtering are left to the caller.
func (s *Schema) Execute(ctx context.Context, sql string) (*ResultSet, error) {
	q, err := ParseQuery(sql)
	if err != nil {
		return nil, err
	}
	return s.Query(ctx, q.Table, q.Where)
}
