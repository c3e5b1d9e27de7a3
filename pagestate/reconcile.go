package pagestate

import (
	"github.com/nrfta/listview-go"
)

// Status classifies a requested page against the resolved total.
type Status int

const (
	// Valid means the page exists, or the list is empty and the page is 1.
	Valid Status = iota
	// Overshot means the page lies beyond the last page.
	Overshot
)

// String implements fmt.Stringer.
func (s Status) String() string {
	if s == Overshot {
		return "overshot"
	}
	return "valid"
}

// PageCount returns the number of pages holding total rows.
func PageCount(total, pageSize int) int {
	return listview.PageCount(total, pageSize)
}

// Classify reports whether page exists for total rows split into pageSize pages.
// An empty list has a single empty page 1.
func Classify(page, total, pageSize int) Status {
	if page <= 1 {
		return Valid
	}
	if page > max(PageCount(total, pageSize), 1) {
		return Overshot
	}
	return Valid
}

// Reconcile returns the corrected state after the total for state was resolved,
// and whether a correction is needed.
//
// Nothing changes while a load is in flight: the total still describes the
// previous request. An empty list moves to page 1; an overshot page moves to
// the last page. Corrections should be applied as a Replace navigation.
func Reconcile(state State, total int, isLoading bool) (State, bool) {
	if isLoading {
		return state, false
	}

	target := state.Page
	switch {
	case total <= 0, state.Page < 1:
		target = 1
	case Classify(state.Page, total, state.PageSize) == Overshot:
		target = max(1, PageCount(total, state.PageSize))
	}

	if target == state.Page {
		return state, false
	}
	return state.WithPage(target), true
}
