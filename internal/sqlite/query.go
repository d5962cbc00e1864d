package sqlite

import (
	"fmt"
	"strings"

	"github.com/mesh-intelligence/farmbook/pkg/types"
)

// columnExpr returns the SQL expression for a store column. The identity
// lives in record_id; every other column is read from the JSON fields.
func columnExpr(column string) (string, []any) {
	if column == types.IDField {
		return "record_id", nil
	}
	return "json_extract(fields, ?)", []any{jsonPath(column)}
}

func jsonPath(column string) string {
	return `$."` + strings.ReplaceAll(column, `"`, `\"`) + `"`
}

// whereClause renders conditions over one table. A condition matches when
// the column equals (or compares against) any of its values; NotEqualTo
// matches when it equals none of them.
func whereClause(tableName string, where []types.Condition) (string, []any, error) {
	clauses := []string{"table_name = ?"}
	args := []any{tableName}

	for _, c := range where {
		if len(c.Values) == 0 {
			continue
		}
		expr, exprArgs := columnExpr(c.FieldName)
		var alts []string
		var condArgs []any
		for _, v := range c.Values {
			v = bindValue(v)
			switch c.Operator {
			case types.OpEqualTo, types.OpNotEqualTo, "":
				alts = append(alts, expr+" = ?")
			case types.OpContains:
				alts = append(alts, "LOWER(CAST("+expr+" AS TEXT)) LIKE ? ESCAPE '\\'")
				v = "%" + escapeLike(strings.ToLower(fmt.Sprint(v))) + "%"
			case types.OpGreaterThan:
				alts = append(alts, expr+" > ?")
			case types.OpLessThan:
				alts = append(alts, expr+" < ?")
			default:
				return "", nil, fmt.Errorf("unsupported operator %q", c.Operator)
			}
			condArgs = append(condArgs, exprArgs...)
			condArgs = append(condArgs, v)
		}
		group := "(" + strings.Join(alts, " OR ") + ")"
		if c.Operator == types.OpNotEqualTo {
			group = "(" + expr + " IS NULL OR NOT " + group + ")"
			args = append(args, exprArgs...)
		}
		clauses = append(clauses, group)
		args = append(args, condArgs...)
	}
	return strings.Join(clauses, " AND "), args, nil
}

// orderClause sorts by each key, then by id so results are stable. SQLite
// puts NULLs first ascending and last descending.
func orderClause(order []types.OrderBy) (string, []any) {
	var parts []string
	var args []any
	for _, o := range order {
		expr, exprArgs := columnExpr(o.FieldName)
		dir := "ASC"
		if strings.EqualFold(o.SortType, types.SortDesc) {
			dir = "DESC"
		}
		parts = append(parts, expr+" "+dir)
		args = append(args, exprArgs...)
	}
	parts = append(parts, "record_id ASC")
	return " ORDER BY " + strings.Join(parts, ", "), args
}

func limitClause(p types.Paging) (string, []any) {
	if p.Limit <= 0 && p.Offset <= 0 {
		return "", nil
	}
	limit := p.Limit
	if limit <= 0 {
		limit = -1
	}
	return " LIMIT ? OFFSET ?", []any{limit, max(p.Offset, 0)}
}

// bindValue maps values json_extract would return as integers.
func bindValue(v any) any {
	if b, ok := v.(bool); ok {
		if b {
			return 1
		}
		return 0
	}
	return v
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// project keeps Id and the requested columns. An empty list keeps all.
func project(rec types.Record, fields []string) types.Record {
	if len(fields) == 0 {
		return rec
	}
	out := make(types.Record, len(fields)+1)
	out[types.IDField] = rec[types.IDField]
	for _, f := range fields {
		if v, ok := rec[f]; ok {
			out[f] = v
		}
	}
	return out
}
