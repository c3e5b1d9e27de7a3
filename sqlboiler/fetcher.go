// Package sqlboiler provides a list collaborator backed by SQLBoiler queries.
//
// NewFetchFunc turns a SQLBoiler model query and count into a
// listview.FetchFunc: the ListRequest becomes query mods (filters, soft-delete
// exclusion, ordering, limit, offset) and the result is an enveloped response
// carrying the counted total.
//
// Example usage:
//
//	fetch := sqlboiler.NewFetchFunc(
//	    func(ctx context.Context, mods ...qm.QueryMod) ([]*models.Purchase, error) {
//	        return models.Purchases(mods...).All(ctx, db)
//	    },
//	    func(ctx context.Context, mods ...qm.QueryMod) (int64, error) {
//	        return models.Purchases(mods...).Count(ctx, db)
//	    },
//	    sqlboiler.Mapping{
//	        FilterColumns: map[string]string{"status": "status", "plate": "vehicle_plate"},
//	        SearchColumns: []string{"customer_name", "vehicle_plate"},
//	        VoidColumn:    "voided_at",
//	        OrderBy:       []listview.OrderBy{{Column: "created_at", Desc: true}},
//	    },
//	)
//
//	paginated := source.NewPaginated(fetch)
//	search := source.NewSearch(fetch)
package sqlboiler

import (
	"context"

	"github.com/aarondl/sqlboiler/v4/queries/qm"
	"github.com/friendsofgo/errors"

	"github.com/nrfta/listview-go"
)

// QueryFunc executes a SQLBoiler query and returns results.
//
// Type parameter T is the SQLBoiler model type (e.g., *models.Purchase).
type QueryFunc[T any] func(ctx context.Context, mods ...qm.QueryMod) ([]T, error)

// CountFunc executes a SQLBoiler count query.
type CountFunc func(ctx context.Context, mods ...qm.QueryMod) (int64, error)

// Mapping maps list requests onto one table.
type Mapping struct {
	// FilterColumns maps filter names to columns. Each active filter becomes a
	// case-insensitive substring match. Filters without a column are ignored.
	FilterColumns map[string]string

	// SearchColumns are matched by the free-text filter (QueryFilter): a row
	// matches when any of them contains the value.
	SearchColumns []string

	// QueryFilter is the free-text filter name. Defaults to "q".
	QueryFilter string

	// VoidColumn, when set, excludes rows where it is not NULL
	// (soft-deleted or voided rows).
	VoidColumn string

	// OrderBy is the deterministic sort applied before limit and offset.
	OrderBy []listview.OrderBy
}

// NewFetchFunc creates a list collaborator over a SQLBoiler model.
//
// The row query receives filter, void, order, limit and offset mods; the count
// receives only filter and void mods, so the total matches the filtered set.
func NewFetchFunc[T any](query QueryFunc[T], count CountFunc, mapping Mapping) listview.FetchFunc[T] {
	return func(ctx context.Context, req listview.ListRequest) (listview.Response[T], error) {
		items, err := query(ctx, RequestToQueryMods(req, mapping)...)
		if err != nil {
			return listview.Response[T]{}, errors.Wrap(err, "list query")
		}

		total, err := count(ctx, FilterMods(req.Filters, mapping)...)
		if err != nil {
			return listview.Response[T]{}, errors.Wrap(err, "list count")
		}

		if items == nil {
			items = []T{}
		}
		totalCount := int(total)
		offset := req.EffectiveOffset()

		return listview.Enveloped(listview.Envelope[T]{
			Items:  items,
			Total:  &totalCount,
			Limit:  req.Limit,
			Offset: &offset,
		}), nil
	}
}
