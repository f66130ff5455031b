package repositories

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/guironm/crew-center/internal/domain"
	"github.com/guironm/crew-center/internal/utils"

	"github.com/google/uuid"
)

// column describes how a record field maps onto SQL.
type column struct {
	expr string
	text bool
	uuid bool
}

// sqlSchema is the translation table for one record kind.
type sqlSchema struct {
	resource string
	selects  string
	from     string
	columns  map[domain.Field]column
	tieBreak string
}

// translated holds the WHERE and ORDER BY fragments for a query. Placeholders
// are '?' and must be rebound for the active driver.
type translated struct {
	where   string
	args    []any
	orderBy string
}

// likeEscaper makes a user string safe inside LIKE ... ESCAPE '!'.
var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// translate renders params as SQL. Fields the schema does not know yield a
// condition that matches nothing, mirroring the in-memory engine.
func (s sqlSchema) translate(ctx context.Context, d dialect, params domain.QueryParams) translated {
	var (
		conds []string
		args  []any
	)

	if ts := params.TextSearch; ts != nil {
		pattern := "%" + likeEscaper.Replace(strings.ToLower(ts.Query)) + "%"
		var ors []string
		for _, f := range ts.Fields {
			col, ok := s.columns[f]
			if !ok || !col.text {
				continue
			}
			ors = append(ors, d.lower(col.expr)+" LIKE ? ESCAPE '!'")
			args = append(args, pattern)
		}
		if len(ors) == 0 {
			conds = append(conds, "1 = 0")
		} else {
			conds = append(conds, "("+strings.Join(ors, " OR ")+")")
		}
	}

	fields := make([]domain.Field, 0, len(params.Filters))
	for f := range params.Filters {
		fields = append(fields, f)
	}
	slices.Sort(fields)
	for _, f := range fields {
		value := params.Filters[f]
		col, ok := s.columns[f]
		if !ok {
			conds = append(conds, "1 = 0")
			continue
		}
		if value == nil {
			conds = append(conds, col.expr+" IS NULL")
			continue
		}
		str, isString := value.(string)
		if col.uuid {
			// no stored id equals a malformed one
			if !isString || uuid.Validate(str) != nil {
				utils.LogEvent(utils.RequestIDFrom(ctx), s.resource, "malformed_filter",
					fmt.Sprintf("field=%s value=%v not a uuid", f, value))
				conds = append(conds, "1 = 0")
				continue
			}
			conds = append(conds, col.expr+" = ?")
			args = append(args, strings.ToLower(str))
			continue
		}
		if isString && col.text {
			conds = append(conds, d.equalFold(col.expr))
			args = append(args, str)
			continue
		}
		conds = append(conds, col.expr+" = ?")
		args = append(args, value)
	}

	out := translated{args: args, orderBy: s.tieBreak}
	if len(conds) > 0 {
		out.where = " WHERE " + strings.Join(conds, " AND ")
	}

	if srt := params.Sort; srt != nil {
		if col, ok := s.columns[srt.Field]; ok {
			dir := "ASC"
			if srt.Order == domain.SortDesc {
				dir = "DESC"
			}
			expr := col.expr
			if col.text {
				expr = d.textOrder(col.expr)
			}
			out.orderBy = fmt.Sprintf("CASE WHEN %s IS NULL THEN 0 ELSE 1 END %s, %s %s, %s",
				col.expr, dir, expr, dir, s.tieBreak)
		}
	}
	return out
}

// selectSQL renders the row query, optionally paged.
func (s sqlSchema) selectSQL(t translated, page *domain.Pagination) (string, []any) {
	q := "SELECT " + s.selects + " FROM " + s.from + t.where + " ORDER BY " + t.orderBy
	args := slices.Clone(t.args)
	if page != nil {
		q += " LIMIT ? OFFSET ?"
		args = append(args, page.Limit, page.Offset())
	}
	return q, args
}

func (s sqlSchema) countSQL(t translated) (string, []any) {
	return "SELECT COUNT(*) FROM " + s.from + t.where, slices.Clone(t.args)
}
