package infoschema

import (
	"strconv"
	"strings"

	pg_query "github.com/pganalyze/pg_query_go/v6"
)

// Column names recognized for predicate pushdown.
const (
	scopeSchemaColumn = "table_schema"
	scopeTableColumn  = "table_name"
)

// Scope restricts which schemas and tables a virtual table visits.
// A nil slice means that side is unfiltered.
type Scope struct {
	Schemas []string
	Tables  []string
}

// HasSchema reports whether name passes the schema filter. Schema names are
// case-insensitive throughout the catalog.
func (s Scope) HasSchema(name string) bool {
	return s.Schemas == nil || containsFold(s.Schemas, name)
}

// HasTable reports whether name passes the table filter. Datasource table
// names match exactly.
func (s Scope) HasTable(name string) bool {
	return s.Tables == nil || containsString(s.Tables, name)
}

// HasSystemTable is HasTable for information_schema's own tables, whose
// names match case-insensitively as in MySQL.
func (s Scope) HasSystemTable(name string) bool {
	return s.Tables == nil || containsFold(s.Tables, name)
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func containsString(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// condition is one decomposed "column <op> constant(s)" comparison.
type condition struct {
	op     string // "=", "in", "not in", or the raw operator
	column string
	values []string
}

// ExtractScope pulls table_schema / table_name equality and IN filters out
// of a WHERE clause. When several conditions constrain the same column the
// last one wins. Shapes that cannot be decomposed (OR, NOT, non-constant
// operands) produce an empty Scope instead of an error.
func ExtractScope(where *pg_query.Node) Scope {
	conds, ok := collectConditions(where, nil)
	if !ok {
		return Scope{}
	}

	var scope Scope
	for _, c := range conds {
		var values []string
		switch c.op {
		case "=", "in":
			values = c.values
		default:
			continue
		}
		switch strings.ToLower(c.column) {
		case scopeSchemaColumn:
			scope.Schemas = values
		case scopeTableColumn:
			scope.Tables = values
		}
	}
	return scope
}

// collectConditions walks AND conjunctions in order. It returns false when
// the tree contains a comparison structure it cannot decompose.
func collectConditions(node *pg_query.Node, acc []condition) ([]condition, bool) {
	if node == nil {
		return acc, true
	}

	switch n := node.Node.(type) {
	case *pg_query.Node_BoolExpr:
		if n.BoolExpr.Boolop != pg_query.BoolExprType_AND_EXPR {
			return nil, false
		}
		for _, arg := range n.BoolExpr.Args {
			var ok bool
			acc, ok = collectConditions(arg, acc)
			if !ok {
				return nil, false
			}
		}
		return acc, true

	case *pg_query.Node_AExpr:
		c, ok, supported := decomposeAExpr(n.AExpr)
		if !supported {
			// LIKE, BETWEEN, DISTINCT FROM and friends carry no scope.
			return acc, true
		}
		if !ok {
			return nil, false
		}
		return append(acc, c), true

	default:
		// NULL tests, function calls, sub-selects: nothing to push down.
		return acc, true
	}
}

// decomposeAExpr splits a binary comparison. supported is false for A_Expr
// kinds that are never pushed down; ok is false when a supported kind has
// operands that are not a column and constants.
func decomposeAExpr(e *pg_query.A_Expr) (c condition, ok, supported bool) {
	switch e.Kind {
	case pg_query.A_Expr_Kind_AEXPR_OP, pg_query.A_Expr_Kind_AEXPR_IN:
	default:
		return condition{}, false, false
	}

	column, ok := columnName(e.Lexpr)
	if !ok {
		return condition{}, false, true
	}

	op := operatorName(e.Name)
	if e.Kind == pg_query.A_Expr_Kind_AEXPR_IN {
		items := e.Rexpr.GetList().GetItems()
		if items == nil {
			return condition{}, false, true
		}
		values := make([]string, 0, len(items))
		for _, item := range items {
			v, ok := constantValue(item)
			if !ok {
				return condition{}, false, true
			}
			values = append(values, v)
		}
		if op == "=" {
			op = "in"
		} else {
			op = "not in"
		}
		return condition{op: op, column: column, values: values}, true, true
	}

	v, ok := constantValue(e.Rexpr)
	if !ok {
		return condition{}, false, true
	}
	return condition{op: op, column: column, values: []string{v}}, true, true
}

// columnName returns the last field of a column reference.
func columnName(node *pg_query.Node) (string, bool) {
	ref := node.GetColumnRef()
	if ref == nil || len(ref.Fields) == 0 {
		return "", false
	}
	last := ref.Fields[len(ref.Fields)-1].GetString_()
	if last == nil {
		return "", false
	}
	return last.Sval, true
}

func operatorName(name []*pg_query.Node) string {
	if len(name) == 0 {
		return ""
	}
	return name[len(name)-1].GetString_().GetSval()
}

// constantValue renders a literal as the string it compares against.
// Casts such as 'x'::text are unwrapped.
func constantValue(node *pg_query.Node) (string, bool) {
	if tc := node.GetTypeCast(); tc != nil {
		return constantValue(tc.Arg)
	}
	c := node.GetAConst()
	if c == nil || c.Isnull {
		return "", false
	}
	switch {
	case c.GetSval() != nil:
		return c.GetSval().Sval, true
	case c.GetIval() != nil:
		return strconv.FormatInt(int64(c.GetIval().Ival), 10), true
	case c.GetFval() != nil:
		return c.GetFval().Fval, true
	case c.GetBoolval() != nil:
		return strconv.FormatBool(c.GetBoolval().Boolval), true
	}
	// An A_Const with no value set is integer zero.
	return "0", true
}
