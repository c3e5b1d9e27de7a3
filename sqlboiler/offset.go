package sqlboiler

import (
	"maps"
	"slices"
	"strings"

	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/aarondl/strmangle"

	"github.com/nrfta/listview-go"
)

// DefaultQueryFilter is the free-text filter name used when Mapping.QueryFilter is empty.
const DefaultQueryFilter = "q"

// RequestToQueryMods converts a ListRequest into SQLBoiler query mods.
//
// The conversion follows these rules:
//   - active filters → qm.Where("col" ILIKE ?) (see FilterMods)
//   - VoidColumn → qm.Where("col" IS NULL)
//   - OrderBy → qm.OrderBy("col1 DESC, col2")
//   - Offset → qm.Offset(n), skipped when 0
//   - Limit → qm.Limit(n)
func RequestToQueryMods(req listview.ListRequest, mapping Mapping) []qm.QueryMod {
	mods := FilterMods(req.Filters, mapping)

	if len(mapping.OrderBy) > 0 {
		mods = append(mods, qm.OrderBy(buildOrderByClause(mapping.OrderBy)))
	}

	if offset := req.EffectiveOffset(); offset > 0 {
		mods = append(mods, qm.Offset(offset))
	}

	if req.Limit != nil && *req.Limit > 0 {
		mods = append(mods, qm.Limit(*req.Limit))
	}

	return mods
}

// FilterMods returns the WHERE mods selecting the rows of a filtered list:
// one ILIKE per active filter with a column, one OR-ed ILIKE group for the
// free-text filter, and the void exclusion. Mods are ordered by filter name.
func FilterMods(filters listview.Filters, mapping Mapping) []qm.QueryMod {
	mods := []qm.QueryMod{}
	active := filters.Active()
	queryFilter := mapping.QueryFilter
	if queryFilter == "" {
		queryFilter = DefaultQueryFilter
	}

	for _, name := range slices.Sorted(maps.Keys(active)) {
		pattern := containsPattern(active[name])

		if name == queryFilter {
			if len(mapping.SearchColumns) == 0 {
				continue
			}
			clauses := make([]string, len(mapping.SearchColumns))
			args := make([]any, len(mapping.SearchColumns))
			for i, col := range mapping.SearchColumns {
				clauses[i] = quote(col) + " ILIKE ?"
				args[i] = pattern
			}
			mods = append(mods, qm.Where("("+strings.Join(clauses, " OR ")+")", args...))
			continue
		}

		col, ok := mapping.FilterColumns[name]
		if !ok {
			continue
		}
		mods = append(mods, qm.Where(quote(col)+" ILIKE ?", pattern))
	}

	if mapping.VoidColumn != "" {
		mods = append(mods, qm.Where(quote(mapping.VoidColumn)+" IS NULL"))
	}

	return mods
}

// buildOrderByClause constructs an ORDER BY clause from OrderBy directives.
// Assumes len(orderBy) > 0 (caller must verify).
//
// Example:
//
//	[]OrderBy{
//	    {Column: "created_at", Desc: true},
//	    {Column: "id", Desc: false},
//	}
//	→ `"created_at" DESC, "id"`
func buildOrderByClause(orderBy []listview.OrderBy) string {
	parts := make([]string, len(orderBy))
	for i, o := range orderBy {
		if o.Desc {
			parts[i] = quote(o.Column) + " DESC"
		} else {
			parts[i] = quote(o.Column)
		}
	}
	return strings.Join(parts, ", ")
}

func quote(col string) string {
	return strmangle.IdentQuote('"', '"', col)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching values containing s.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
