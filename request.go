package listview

import (
	"maps"
	"net/url"
	"slices"
	"strconv"
	"strings"
)

const (
	// LimitParam and OffsetParam are the query parameter names used when a
	// ListRequest is flattened into a query string.
	LimitParam  = "limit"
	OffsetParam = "offset"
)

// Filters maps filter names to the raw values typed by the user.
type Filters map[string]string

// Active returns the filters whose value is non-empty after trimming.
// Returned values are trimmed.
func (f Filters) Active() Filters {
	active := Filters{}
	for k, v := range f {
		if v = strings.TrimSpace(v); v != "" {
			active[k] = v
		}
	}
	return active
}

// HasActive reports whether any filter value is non-empty after trimming.
func (f Filters) HasActive() bool {
	for _, v := range f {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

// Clone returns a copy of the filters. A nil map clones to an empty one.
func (f Filters) Clone() Filters {
	out := make(Filters, len(f))
	maps.Copy(out, f)
	return out
}

// Equal reports whether both filter sets hold the same names and values.
func (f Filters) Equal(other Filters) bool {
	return maps.Equal(f, other)
}

// ListRequest describes one window of rows to fetch.
type ListRequest struct {
	Limit   *int    `json:"limit,omitempty"`
	Offset  *int    `json:"offset,omitempty"`
	Filters Filters `json:"filters,omitempty"`
}

// NewListRequest builds a request with explicit limit and offset.
func NewListRequest(limit, offset int, filters Filters) ListRequest {
	return ListRequest{
		Limit:   &limit,
		Offset:  &offset,
		Filters: filters.Clone(),
	}
}

// EffectiveOffset returns the requested offset, defaulting to 0.
func (r ListRequest) EffectiveOffset() int {
	if r.Offset == nil || *r.Offset < 0 {
		return 0
	}
	return *r.Offset
}

// Equal reports whether two requests are equivalent for caching purposes:
// limit, offset and every filter value must compare equal.
func (r ListRequest) Equal(other ListRequest) bool {
	return intPtrEqual(r.Limit, other.Limit) &&
		intPtrEqual(r.Offset, other.Offset) &&
		r.Filters.Equal(other.Filters)
}

// Key returns a canonical string for the request. Two requests have the same
// key if and only if they are Equal.
func (r ListRequest) Key() string {
	var b strings.Builder
	b.WriteString("l=")
	writeIntPtr(&b, r.Limit)
	b.WriteString("&o=")
	writeIntPtr(&b, r.Offset)

	for _, k := range slices.Sorted(maps.Keys(r.Filters)) {
		b.WriteString("&f.")
		b.WriteString(url.QueryEscape(k))
		b.WriteByte('=')
		b.WriteString(url.QueryEscape(r.Filters[k]))
	}
	return b.String()
}

// Query flattens the request into query parameters: limit, offset and every
// active filter.
func (r ListRequest) Query() url.Values {
	values := url.Values{}
	if r.Limit != nil {
		values.Set(LimitParam, strconv.Itoa(*r.Limit))
	}
	if r.Offset != nil {
		values.Set(OffsetParam, strconv.Itoa(*r.Offset))
	}
	for k, v := range r.Filters.Active() {
		values.Set(k, v)
	}
	return values
}

// WithoutFilters returns a copy of the request carrying only limit and offset.
func (r ListRequest) WithoutFilters() ListRequest {
	return ListRequest{Limit: r.Limit, Offset: r.Offset, Filters: Filters{}}
}

// Without returns a copy of the request with the named filters removed.
func (r ListRequest) Without(fields ...string) ListRequest {
	filters := r.Filters.Clone()
	for _, f := range fields {
		delete(filters, f)
	}
	return ListRequest{Limit: r.Limit, Offset: r.Offset, Filters: filters}
}

// Unpaginated returns a copy of the request without limit and offset.
func (r ListRequest) Unpaginated() ListRequest {
	return ListRequest{Filters: r.Filters.Clone()}
}

func intPtrEqual(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func writeIntPtr(b *strings.Builder, v *int) {
	if v == nil {
		b.WriteByte('-')
		return
	}
	b.WriteString(strconv.Itoa(*v))
}
