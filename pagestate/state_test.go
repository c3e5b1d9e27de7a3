package pagestate_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/listview-go"
	"github.com/nrfta/listview-go/pagestate"
)

var _ = Describe("State", func() {
	It("derives the offset from page and page size", func() {
		Expect(pagestate.State{Page: 1, PageSize: 10}.Offset()).To(Equal(0))
		Expect(pagestate.State{Page: 3, PageSize: 10}.Offset()).To(Equal(20))
		Expect(pagestate.State{Page: 0, PageSize: 10}.Offset()).To(Equal(0))
	})

	It("converts to a list request", func() {
		state := pagestate.State{Page: 2, PageSize: 25, Filters: listview.Filters{"q": "brake"}}

		req := state.Request()

		Expect(*req.Limit).To(Equal(25))
		Expect(*req.Offset).To(Equal(25))
		Expect(req.Filters).To(Equal(listview.Filters{"q": "brake"}))
	})

	It("does not share filters with the request", func() {
		state := pagestate.State{Page: 1, PageSize: 10, Filters: listview.Filters{"q": "a"}}

		req := state.Request()
		req.Filters["q"] = "b"

		Expect(state.Filters["q"]).To(Equal("a"))
	})

	Describe("transitions", func() {
		var state pagestate.State

		BeforeEach(func() {
			state = pagestate.State{Page: 4, PageSize: 10, Filters: listview.Filters{"status": "open"}}
		})

		It("clamps pages below 1", func() {
			Expect(state.WithPage(-3).Page).To(Equal(1))
		})

		It("returns to page 1 when the page size changes", func() {
			next := state.WithPageSize(50)
			Expect(next.Page).To(Equal(1))
			Expect(next.PageSize).To(Equal(50))
		})

		It("keeps the page when the page size is unchanged", func() {
			Expect(state.WithPageSize(10).Page).To(Equal(4))
		})

		It("returns to page 1 when a filter value changes", func() {
			next := state.WithFilter("status", "closed")
			Expect(next.Page).To(Equal(1))
			Expect(next.Filters).To(Equal(listview.Filters{"status": "closed"}))
		})

		It("keeps the page when a filter is set to its current value", func() {
			Expect(state.WithFilter("status", "open").Page).To(Equal(4))
		})

		It("treats a missing filter as empty", func() {
			Expect(state.WithFilter("plate", "").Page).To(Equal(4))
		})

		It("never mutates the receiver", func() {
			_ = state.WithFilter("status", "closed")
			Expect(state.Filters["status"]).To(Equal("open"))
			Expect(state.Page).To(Equal(4))
		})
	})

	It("compares filter values in Equal", func() {
		a := pagestate.State{Page: 1, PageSize: 10, Filters: listview.Filters{"q": "x"}}
		b := pagestate.State{Page: 1, PageSize: 10, Filters: listview.Filters{"q": "y"}}

		Expect(a.Equal(a.WithPage(1))).To(BeTrue())
		Expect(a.Equal(b)).To(BeFalse())
	})
})
