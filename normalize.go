package listview

// Normalize converts a raw list response into a canonical Page.
// Total is set to the declared total (or 0); use Resolve or EstimateTotal to
// derive the best-effort total.
//
// Shape rules:
//   - Malformed: empty page, Metadata.DecodeFailed set. Never an error.
//   - Enveloped: items as given; limit and offset from the envelope, falling back
//     to the request. Rows beyond the limit are dropped.
//   - Bare without a requested limit: the complete collection, windowed from the
//     requested offset.
//   - Bare with a requested limit: if the backend returned at most limit rows it
//     already applied pagination and raw is the window; otherwise raw is the
//     untruncated collection and the window raw[offset:offset+limit] is cut
//     locally. Rows removed by Response.WithItems still count as returned.
//
// Whenever the complete collection is observed, its length becomes the
// declared total and Metadata.TotalExact is set.
func Normalize[T any](raw Response[T], req ListRequest) *Page[T] {
	offset := req.EffectiveOffset()

	switch {
	case raw.IsEnveloped():
		env, _ := raw.Envelope()
		return normalizeEnvelope(env, req, offset)
	case raw.IsBare():
		return normalizeBare(raw.Items(), raw.received, req, offset)
	default:
		return &Page[T]{
			Items:    []T{},
			Limit:    req.Limit,
			Metadata: Metadata{DecodeFailed: true},
		}
	}
}

func normalizeEnvelope[T any](env Envelope[T], req ListRequest, offset int) *Page[T] {
	limit := req.Limit
	if env.Limit != nil && *env.Limit > 0 {
		limit = env.Limit
	}
	if env.Offset != nil && *env.Offset >= 0 {
		offset = *env.Offset
	}

	items := env.Items
	if items == nil {
		items = []T{}
	}
	examined := len(items)
	if limit != nil && *limit >= 0 && len(items) > *limit {
		items = items[:*limit]
	}

	page := &Page[T]{
		Items:         items,
		Limit:         limit,
		Offset:        offset,
		DeclaredTotal: nonNegative(env.Total),
		Metadata:      Metadata{ItemsExamined: examined},
	}
	clampEmptyWindow(page)
	if page.DeclaredTotal != nil {
		page.Total = *page.DeclaredTotal
	}
	return page
}

func normalizeBare[T any](raw []T, received int, req ListRequest, offset int) *Page[T] {
	received = max(received, len(raw))
	page := &Page[T]{
		Limit:    req.Limit,
		Offset:   offset,
		Metadata: Metadata{ItemsExamined: received},
	}

	serverApplied := req.Limit != nil && received <= *req.Limit
	if serverApplied {
		page.Items = raw
	} else {
		total := len(raw)
		page.DeclaredTotal = &total
		page.Metadata.TotalExact = true
		page.Items = window(raw, offset, req.Limit)
	}

	if page.Items == nil {
		page.Items = []T{}
	}
	clampEmptyWindow(page)
	if page.DeclaredTotal != nil {
		page.Total = *page.DeclaredTotal
	}
	return page
}

// window returns raw[offset:offset+limit], clamped to the bounds of raw.
func window[T any](raw []T, offset int, limit *int) []T {
	start := min(offset, len(raw))
	end := len(raw)
	if limit != nil && *limit >= 0 {
		end = min(start+*limit, len(raw))
	}
	return raw[start:end]
}

// clampEmptyWindow pulls the offset of an empty window back to the end of the
// known collection. An empty window past the end carries no evidence that rows
// exist up to the requested offset.
func clampEmptyWindow[T any](page *Page[T]) {
	if len(page.Items) > 0 || page.Offset == 0 {
		return
	}
	known := 0
	if page.DeclaredTotal != nil {
		known = *page.DeclaredTotal
	}
	page.Offset = min(page.Offset, known)
}

func nonNegative(v *int) *int {
	if v == nil || *v < 0 {
		return nil
	}
	out := *v
	return &out
}
