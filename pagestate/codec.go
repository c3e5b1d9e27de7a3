package pagestate

import (
	"net/url"
	"strconv"

	"github.com/spf13/cast"

	"github.com/nrfta/listview-go"
)

const (
	// DefaultPageParam is the query parameter holding the 1-based page number.
	DefaultPageParam = "page"

	// DefaultPageSizeParam is the query parameter holding the page size.
	DefaultPageSizeParam = "pageSize"
)

// Codec maps a State to and from URL query parameters.
//
// Page 1 and the default page size are implicit: they are omitted when
// encoding and assumed when the parameter is missing. Every other parameter is
// a filter; empty filters are omitted.
type Codec struct {
	PageParam     string
	PageSizeParam string
	Config        *listview.PageConfig
}

// NewCodec returns a codec using the default parameter names.
func NewCodec(config *listview.PageConfig) Codec {
	return Codec{
		PageParam:     DefaultPageParam,
		PageSizeParam: DefaultPageSizeParam,
		Config:        config,
	}
}

// Decode reads a State from query parameters.
// Missing, malformed or non-positive numbers fall back to page 1 and the
// default page size. Page sizes above the configured maximum are capped.
func (c Codec) Decode(values url.Values) State {
	state := State{
		Page:     1,
		PageSize: c.Config.Default(),
		Filters:  listview.Filters{},
	}

	if page, ok := positiveInt(values.Get(c.pageParam())); ok {
		state.Page = page
	}
	if size, ok := positiveInt(values.Get(c.pageSizeParam())); ok {
		state.PageSize = c.Config.EffectiveLimit(size)
	}

	for name, vals := range values {
		if name == c.pageParam() || name == c.pageSizeParam() || len(vals) == 0 {
			continue
		}
		state.Filters[name] = vals[0]
	}

	return state
}

// Encode writes a State as query parameters.
func (c Codec) Encode(state State) url.Values {
	values := url.Values{}
	if state.Page > 1 {
		values.Set(c.pageParam(), strconv.Itoa(state.Page))
	}
	if state.PageSize > 0 && state.PageSize != c.Config.Default() {
		values.Set(c.pageSizeParam(), strconv.Itoa(state.PageSize))
	}
	for name, value := range state.Filters {
		if value == "" {
			continue
		}
		values.Set(name, value)
	}
	return values
}

func (c Codec) pageParam() string {
	if c.PageParam == "" {
		return DefaultPageParam
	}
	return c.PageParam
}

func (c Codec) pageSizeParam() string {
	if c.PageSizeParam == "" {
		return DefaultPageSizeParam
	}
	return c.PageSizeParam
}

func positiveInt(raw string) (int, bool) {
	if raw == "" {
		return 0, false
	}
	v, err := cast.ToIntE(raw)
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}
