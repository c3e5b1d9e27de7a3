// Package pagestate holds the URL-backed page state of a list view and keeps it
// consistent with the list it describes.
//
// A State is the page number, page size and filter values of one view. The
// Store makes it observable; SyncURL mirrors it into the address bar through a
// Codec; Reconcile corrects it when the resolved total shows the current page
// no longer exists.
package pagestate

import (
	"github.com/nrfta/listview-go"
)

// State is the page state of one list view. Page is 1-based.
type State struct {
	Page     int
	PageSize int
	Filters  listview.Filters
}

// New returns the state of a fresh view: page 1 with the given page size.
func New(pageSize int) State {
	return State{Page: 1, PageSize: pageSize, Filters: listview.Filters{}}
}

// Offset returns the zero-based offset of the first row on the page.
func (s State) Offset() int {
	if s.Page <= 1 || s.PageSize <= 0 {
		return 0
	}
	return (s.Page - 1) * s.PageSize
}

// Request converts the state into a list request.
func (s State) Request() listview.ListRequest {
	return listview.NewListRequest(s.PageSize, s.Offset(), s.Filters)
}

// HasActiveFilter reports whether any filter value is non-empty after trimming.
func (s State) HasActiveFilter() bool {
	return s.Filters.HasActive()
}

// Equal reports whether both states describe the same view.
func (s State) Equal(other State) bool {
	return s.Page == other.Page &&
		s.PageSize == other.PageSize &&
		s.Filters.Equal(other.Filters)
}

func (s State) clone() State {
	s.Filters = s.Filters.Clone()
	return s
}

// WithPage returns a copy of the state showing page. Pages below 1 become 1.
func (s State) WithPage(page int) State {
	s.Filters = s.Filters.Clone()
	s.Page = max(page, 1)
	return s
}

// WithPageSize returns a copy of the state with a new page size.
// Changing the size moves back to page 1.
func (s State) WithPageSize(size int) State {
	s.Filters = s.Filters.Clone()
	if size != s.PageSize {
		s.PageSize = size
		s.Page = 1
	}
	return s
}

// WithFilter returns a copy of the state with one filter value set.
// Changing a value moves back to page 1.
func (s State) WithFilter(name, value string) State {
	return s.WithFilters(listview.Filters{name: value})
}

// WithFilters returns a copy of the state with the given filter values set.
// Changing any value moves back to page 1.
func (s State) WithFilters(filters listview.Filters) State {
	next := s.Filters.Clone()
	changed := false
	for name, value := range filters {
		if next[name] == value {
			continue
		}
		next[name] = value
		changed = true
	}

	s.Filters = next
	if changed {
		s.Page = 1
	}
	return s
}
