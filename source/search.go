package source

import (
	"context"
	"strings"

	"github.com/samber/lo"

	"github.com/nrfta/listview-go"
)

// QueryFilter is the filter name of the free-text search box.
// FieldMatcher matches it against every field.
const QueryFilter = "q"

// Search serves filtered views from the entity's server-side search endpoint.
type Search[T any] struct {
	fetch listview.FetchFunc[T]
	cfg   *config[T]
}

// NewSearch creates a source that calls fetch with limit, offset and every
// active filter. Blank filter values are dropped before the call.
func NewSearch[T any](fetch listview.FetchFunc[T], opts ...Option[T]) *Search[T] {
	return &Search[T]{
		fetch: fetch,
		cfg:   newConfig(NameSearch, opts),
	}
}

// Name implements listview.Source.
func (s *Search[T]) Name() string {
	return s.cfg.name
}

// List implements listview.Source.
func (s *Search[T]) List(ctx context.Context, req listview.ListRequest) (*listview.Page[T], error) {
	req = listview.ListRequest{
		Limit:   req.Limit,
		Offset:  req.Offset,
		Filters: req.Filters.Active(),
	}
	return s.cfg.resolve(ctx, s.fetch, req, req)
}

// Matcher reports whether a row satisfies every active filter.
type Matcher[T any] func(item T, filters listview.Filters) bool

// ClientSearch filters locally for entities that have no search endpoint.
// It fetches the whole candidate set, applies the matcher, orders and windows
// the matches, and reports the exact number of matches as the total.
type ClientSearch[T any] struct {
	fetch   listview.FetchFunc[T]
	matcher Matcher[T]
	cfg     *config[T]
}

// NewClientSearch creates a client-side search source.
// fetch is called without limit, offset or filters.
func NewClientSearch[T any](fetch listview.FetchFunc[T], matcher Matcher[T], opts ...Option[T]) *ClientSearch[T] {
	return &ClientSearch[T]{
		fetch:   fetch,
		matcher: matcher,
		cfg:     newConfig(NameClientSearch, opts),
	}
}

// Name implements listview.Source.
func (s *ClientSearch[T]) Name() string {
	return s.cfg.name
}

// List implements listview.Source.
func (s *ClientSearch[T]) List(ctx context.Context, req listview.ListRequest) (*listview.Page[T], error) {
	filters := req.Filters.Active()
	req = listview.ListRequest{Limit: req.Limit, Offset: req.Offset, Filters: filters}

	examined := 0
	matched := func(ctx context.Context, _ listview.ListRequest) (listview.Response[T], error) {
		raw, err := s.fetch(ctx, listview.ListRequest{})
		if err != nil || raw.IsMalformed() {
			return raw, err
		}

		candidates := raw.Items()
		examined = len(candidates)
		if s.matcher != nil {
			candidates = lo.Filter(candidates, func(item T, _ int) bool {
				return s.matcher(item, filters)
			})
		}
		return listview.Bare(candidates), nil
	}

	page, err := s.cfg.resolve(ctx, matched, req.Unpaginated(), listview.ListRequest{Filters: filters})
	if err != nil {
		return nil, err
	}

	// page now holds every match, in order. Cut the requested window and pin
	// the exact total so nothing downstream re-estimates it.
	total := len(page.Items)
	offset := req.EffectiveOffset()
	windowed := listview.Normalize(listview.Enveloped(listview.Envelope[T]{
		Items:  cut(page.Items, offset, req.Limit),
		Total:  &total,
		Limit:  req.Limit,
		Offset: &offset,
	}), req)
	windowed.Metadata = page.Metadata
	windowed.Metadata.ItemsExamined = examined
	windowed.Metadata.TotalExact = true
	windowed.Metadata.TotalEstimated = false
	return windowed, nil
}

// FieldMatcher builds a Matcher from named string accessors.
// Each active filter must be contained, case-insensitively, in the field of
// the same name. The QueryFilter matches when any field contains it.
// Filters with no accessor are ignored.
func FieldMatcher[T any](fields map[string]func(T) string) Matcher[T] {
	return func(item T, filters listview.Filters) bool {
		for name, value := range filters {
			needle := strings.ToLower(strings.TrimSpace(value))
			if needle == "" {
				continue
			}

			if name == QueryFilter {
				hit := lo.SomeBy(lo.Values(fields), func(get func(T) string) bool {
					return strings.Contains(strings.ToLower(get(item)), needle)
				})
				if !hit {
					return false
				}
				continue
			}

			get, ok := fields[name]
			if !ok {
				continue
			}
			if !strings.Contains(strings.ToLower(get(item)), needle) {
				return false
			}
		}
		return true
	}
}

func cut[T any](items []T, offset int, limit *int) []T {
	start := min(offset, len(items))
	end := len(items)
	if limit != nil && *limit >= 0 {
		end = min(start+*limit, len(items))
	}
	return items[start:end]
}
