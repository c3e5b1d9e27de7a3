// Package source provides the interchangeable list data sources of a view.
//
// Every entity has two sources, never both active at once:
//   - Paginated: the plain list endpoint, called with limit and offset only.
//   - Search: the filtered endpoint, called with limit, offset and the active
//     filters. Entities without a server-side search use ClientSearch, which
//     fetches the candidate set and filters it locally.
//
// All sources share the same row pipeline so that the total reported by one is
// consistent with the other: soft-deleted or voided rows are excluded before
// normalization and a deterministic order is applied when configured.
//
// Example usage:
//
//	voided := func(p Purchase) bool { return p.Status == "cancelled" }
//	newest := source.ByTimeDesc(func(p Purchase) time.Time { return p.CreatedAt })
//
//	paginated := source.NewPaginated(listPurchases, source.WithExclude(voided), source.WithOrder(newest))
//	search := source.NewSearch(searchPurchases, source.WithExclude(voided), source.WithOrder(newest))
//
//	src := source.Select(state.Filters, paginated, search)
//	page, err := src.List(ctx, state.Request())
package source

import (
	"context"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/nrfta/listview-go"
)

// Source names reported in Metadata.Source.
const (
	NamePaginated    = "paginated"
	NameSearch       = "search"
	NameClientSearch = "client_search"
)

// Option configures a source.
type Option[T any] func(*config[T])

// config holds the row pipeline shared by every source.
type config[T any] struct {
	name    string
	exclude []listview.Predicate[T]
	order   func(a, b T) int
}

// WithName overrides the source name used in metadata and cache keys.
func WithName[T any](name string) Option[T] {
	return func(c *config[T]) {
		if name != "" {
			c.name = name
		}
	}
}

// WithExclude removes rows matching pred before normalization.
// Use it for soft-deleted or voided rows when the backend does not filter
// them itself. Multiple predicates are OR-ed.
func WithExclude[T any](pred listview.Predicate[T]) Option[T] {
	return func(c *config[T]) {
		if pred != nil {
			c.exclude = append(c.exclude, pred)
		}
	}
}

// WithOrder sorts rows with cmp before normalization. The sort is stable:
// ties keep the order in which the backend returned them.
func WithOrder[T any](cmp func(a, b T) int) Option[T] {
	return func(c *config[T]) {
		c.order = cmp
	}
}

// ByTimeDesc orders rows newest first by the given timestamp.
func ByTimeDesc[T any](at func(T) time.Time) func(a, b T) int {
	return func(a, b T) int {
		return at(b).Compare(at(a))
	}
}

// ByTimeAsc orders rows oldest first by the given timestamp.
func ByTimeAsc[T any](at func(T) time.Time) func(a, b T) int {
	return func(a, b T) int {
		return at(a).Compare(at(b))
	}
}

func newConfig[T any](name string, opts []Option[T]) *config[T] {
	cfg := &config[T]{name: name}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

func (c *config[T]) excluded(item T) bool {
	for _, pred := range c.exclude {
		if pred(item) {
			return true
		}
	}
	return false
}

// prepare applies exclusion and ordering to a raw response, keeping its shape.
// It returns the number of rows excluded.
func (c *config[T]) prepare(raw listview.Response[T]) (listview.Response[T], int) {
	if raw.IsMalformed() {
		return raw, 0
	}
	rows, excluded := c.rows(raw.Items())
	return raw.WithItems(rows), excluded
}

// rows returns a filtered, ordered copy of items.
func (c *config[T]) rows(items []T) ([]T, int) {
	kept := lo.Reject(items, func(item T, _ int) bool {
		return c.excluded(item)
	})
	if c.order != nil {
		slices.SortStableFunc(kept, c.order)
	}
	return kept, len(items) - len(kept)
}

// resolve runs the collaborator and turns its response into a canonical page.
func (c *config[T]) resolve(
	ctx context.Context,
	fetch listview.FetchFunc[T],
	fetchReq listview.ListRequest,
	req listview.ListRequest,
) (*listview.Page[T], error) {
	start := time.Now()

	raw, err := fetch(ctx, fetchReq)
	if err != nil {
		return nil, err
	}

	examined := len(raw.Items())
	prepared, excluded := c.prepare(raw)

	page := listview.Resolve(prepared, req)
	page.Metadata.Source = c.name
	page.Metadata.QueryTimeMs = time.Since(start).Milliseconds()
	page.Metadata.ItemsExamined = examined
	page.Metadata.ItemsExcluded = excluded
	return page, nil
}

// Select returns the source serving filters: search when any filter value is
// non-empty after trimming, paginated otherwise.
func Select[T any](filters listview.Filters, paginated, search listview.Source[T]) listview.Source[T] {
	if filters.HasActive() {
		return search
	}
	return paginated
}
