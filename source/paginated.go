package source

import (
	"context"

	"github.com/nrfta/listview-go"
)

// Paginated serves unfiltered views from the entity's plain list endpoint.
type Paginated[T any] struct {
	fetch listview.FetchFunc[T]
	cfg   *config[T]
}

// NewPaginated creates a source that calls fetch with limit and offset only.
// Filters present on the request are never forwarded.
func NewPaginated[T any](fetch listview.FetchFunc[T], opts ...Option[T]) *Paginated[T] {
	return &Paginated[T]{
		fetch: fetch,
		cfg:   newConfig(NamePaginated, opts),
	}
}

// Name implements listview.Source.
func (p *Paginated[T]) Name() string {
	return p.cfg.name
}

// List implements listview.Source.
func (p *Paginated[T]) List(ctx context.Context, req listview.ListRequest) (*listview.Page[T], error) {
	req = req.WithoutFilters()
	return p.cfg.resolve(ctx, p.fetch, req, req)
}
