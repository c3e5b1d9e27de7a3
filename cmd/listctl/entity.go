package main

import (
	"slices"
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/cast"

	"github.com/nrfta/listview-go"
	"github.com/nrfta/listview-go/internal/config"
	"github.com/nrfta/listview-go/restclient"
	"github.com/nrfta/listview-go/source"
)

// Row is one decoded list row. Entity field sets come from configuration, so
// rows stay generic.
type Row map[string]any

// Field returns the named field as a string.
func (r Row) Field(name string) string {
	return cast.ToString(r[name])
}

// Time returns the named field as a time, or the zero time.
func (r Row) Time(name string) time.Time {
	t, err := cast.ToTimeE(r[name])
	if err != nil {
		return time.Time{}
	}
	return t
}

// entitySources builds the paginated and search sources of an entity.
func entitySources(client *restclient.Client, entity config.Entity) (listview.Source[Row], listview.Source[Row]) {
	opts := rowOptions(entity)

	list := restclient.NewFetchFunc[Row](client, restclient.Endpoint{
		Path:     entity.ListPath,
		Shape:    entity.ListShape(),
		ItemsKey: entity.ItemsKey,
	})
	paginated := source.NewPaginated(list, opts...)

	if entity.ClientSideSearch() {
		return paginated, source.NewClientSearch(list, rowMatcher(entity), opts...)
	}

	search := restclient.NewFetchFunc[Row](client, restclient.Endpoint{
		Path:               entity.SearchPath,
		Shape:              entity.SearchResponseShape(),
		ItemsKey:           entity.ItemsKey,
		UnsupportedFilters: entity.UnsupportedFilters,
	})
	return paginated, source.NewSearch(search, opts...)
}

// rowOptions returns the exclusion and ordering shared by both sources.
func rowOptions(entity config.Entity) []source.Option[Row] {
	var opts []source.Option[Row]

	if entity.VoidField != "" {
		opts = append(opts, source.WithExclude(voidPredicate(entity)))
	}
	if entity.Sorted() {
		opts = append(opts, source.WithOrder(source.ByTimeDesc(func(r Row) time.Time {
			return r.Time(entity.CreatedAtField)
		})))
	}

	return opts
}

func voidPredicate(entity config.Entity) listview.Predicate[Row] {
	return func(r Row) bool {
		value := strings.TrimSpace(r.Field(entity.VoidField))
		if len(entity.VoidValues) == 0 {
			return value != ""
		}
		return lo.ContainsBy(entity.VoidValues, func(v string) bool {
			return strings.EqualFold(v, value)
		})
	}
}

// rowMatcher matches filters against the entity's search fields, or against
// every configured column when none are declared.
func rowMatcher(entity config.Entity) source.Matcher[Row] {
	names := entity.SearchFields
	if len(names) == 0 {
		names = entity.Columns
	}

	fields := lo.SliceToMap(names, func(name string) (string, func(Row) string) {
		return name, func(r Row) string { return r.Field(name) }
	})

	matchFields := source.FieldMatcher(fields)
	return func(r Row, filters listview.Filters) bool {
		if len(fields) > 0 {
			return matchFields(r, filters)
		}
		// No declared fields: match every field present on the row.
		all := lo.MapValues(r, func(_ any, name string) func(Row) string {
			return func(row Row) string { return row.Field(name) }
		})
		return source.FieldMatcher(all)(r, filters)
	}
}

// columns returns the configured columns, or the sorted fields of the first row.
func columns(entity config.Entity, rows []Row) []string {
	if len(entity.Columns) > 0 {
		return entity.Columns
	}
	if len(rows) == 0 {
		return nil
	}
	keys := lo.Keys(rows[0])
	slices.Sort(keys)
	return keys
}
