package listview

import "context"

// Source is the core interface for every list data source.
// Implementations include the plain paginated source, the server-side search
// source and the client-side search fallback (see package source).
//
// Type parameter T is the row type being listed (e.g., Purchase, Appointment, Client).
type Source[T any] interface {
	// Name identifies the source in metadata, logs and cache keys.
	Name() string

	// List fetches one window of rows described by the ListRequest and returns
	// it in canonical form. Decode failures never surface here; they degrade to
	// an empty page. Transport failures and rejected requests are returned as errors.
	List(ctx context.Context, req ListRequest) (*Page[T], error)
}

// FetchFunc is the per-entity collaborator injected into a Source.
// It performs the actual request (HTTP GET, SQL query, ...) and reports which
// response shape it produced. The URL, headers and auth of the request are the
// collaborator's concern.
//
// Example:
//
//	fetch := func(ctx context.Context, req listview.ListRequest) (listview.Response[Purchase], error) {
//	    body, err := api.Get(ctx, "/purchases", req.Query())
//	    if err != nil {
//	        return listview.Response[Purchase]{}, err
//	    }
//	    return listview.DecodeEnveloped[Purchase](body, "items"), nil
//	}
type FetchFunc[T any] func(ctx context.Context, req ListRequest) (Response[T], error)

// Page represents a single window of a list in canonical form.
//
// Invariants:
//   - len(Items) <= *Limit when Limit is not nil
//   - Total >= Offset + len(Items)
type Page[T any] struct {
	// Items contains the rows for this window, in source order.
	Items []T

	// Total is the best-effort row count across all pages.
	Total int

	// Limit is the page size actually used. Nil means unpaginated.
	Limit *int

	// Offset is the zero-based position of Items[0] in the full collection.
	Offset int

	// DeclaredTotal is the total reported by the response, if any.
	DeclaredTotal *int

	// Metadata provides observability and debugging information.
	Metadata Metadata
}

// Coverage returns Offset + len(Items), the highest row position known to
// exist from this page.
func (p *Page[T]) Coverage() int {
	return p.Offset + len(p.Items)
}

// Metadata provides observability and debugging information about a list fetch.
type Metadata struct {
	// Source identifies which source served the page.
	// Values: "paginated", "search", "client_search" or a custom name.
	Source string

	// QueryTimeMs is the time spent in the fetch collaborator.
	QueryTimeMs int64

	// ItemsExamined is the number of raw rows received before exclusion and slicing.
	ItemsExamined int

	// ItemsExcluded is the number of soft-deleted or voided rows removed.
	ItemsExcluded int

	// TotalEstimated reports whether Total came from the full-page heuristic
	// rather than a declared or exact count.
	TotalEstimated bool

	// TotalExact reports that DeclaredTotal counts the complete collection,
	// e.g. a bare response that was windowed locally.
	TotalExact bool

	// DecodeFailed reports that the response could not be decoded and the page
	// was degraded to empty.
	DecodeFailed bool
}

// Predicate reports whether a row matches some condition.
// Sources use it to exclude soft-deleted or voided rows:
//
//	voided := func(p Purchase) bool { return p.Status == "cancelled" }
//	src := source.NewPaginated(fetch, source.WithExclude(voided))
type Predicate[T any] func(item T) bool
