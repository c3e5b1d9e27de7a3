package listview

// EstimateTotal derives a best-effort total row count for a normalized page.
//
// A declared total larger than the page coverage (Offset + len(Items)) is
// trusted as-is. Otherwise the declared total is missing or stale and the
// total is estimated (unless Metadata.TotalExact marks the declared total as
// an exact count of the complete collection):
//   - a page that came back exactly full may be followed by more rows, so one
//     more full page is assumed: coverage + limit
//   - a short page (or an unpaginated one) is the last page: coverage
//
// The result is never below the declared total nor below the coverage.
//
// The full-page assumption can be off by up to one page until the real last
// page is fetched. This is accepted; fixing it needs a backend count.
func EstimateTotal[T any](page *Page[T], req ListRequest) int {
	total, _ := estimate(page, req)
	return total
}

// estimate returns the total and whether the heuristic decided it.
func estimate[T any](page *Page[T], req ListRequest) (int, bool) {
	coverage := page.Coverage()

	declared := 0
	if page.DeclaredTotal != nil {
		declared = *page.DeclaredTotal
		if declared > coverage || page.Metadata.TotalExact {
			return max(declared, coverage), false
		}
	}

	limit := page.Limit
	if limit == nil {
		limit = req.Limit
	}

	estimated := coverage
	if limit != nil && *limit > 0 && len(page.Items) == *limit {
		estimated = coverage + *limit
	}

	return max(declared, estimated), estimated > declared && estimated != coverage
}

// Resolve normalizes a raw response and fills in the best-effort total.
// It is the canonical path from a collaborator response to a renderable page.
func Resolve[T any](raw Response[T], req ListRequest) *Page[T] {
	page := Normalize(raw, req)
	page.Total, page.Metadata.TotalEstimated = estimate(page, req)
	return page
}

// EnvelopeOf wraps a canonical page back into the enveloped raw shape.
// Normalizing the result with a compatible request yields the same page.
func EnvelopeOf[T any](page *Page[T]) Response[T] {
	total := page.Total
	offset := page.Offset
	return Enveloped(Envelope[T]{
		Items:  page.Items,
		Total:  &total,
		Limit:  page.Limit,
		Offset: &offset,
	})
}
