package pagestate_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/listview-go"
	"github.com/nrfta/listview-go/pagestate"
)

var _ = Describe("Store", func() {
	var (
		store   *pagestate.Store
		changes []pagestate.Change
	)

	BeforeEach(func() {
		changes = nil
		store = pagestate.NewStore(pagestate.New(10))
		store.Subscribe(func(c pagestate.Change) {
			changes = append(changes, c)
		})
	})

	It("notifies subscribers with push navigation on Set", func() {
		Expect(store.SetPage(3)).To(BeTrue())

		Expect(changes).To(HaveLen(1))
		Expect(changes[0].Previous.Page).To(Equal(1))
		Expect(changes[0].Current.Page).To(Equal(3))
		Expect(changes[0].Navigation).To(Equal(pagestate.Push))
	})

	It("notifies subscribers with replace navigation on Replace", func() {
		Expect(store.Replace(store.State().WithPage(2))).To(BeTrue())

		Expect(changes).To(HaveLen(1))
		Expect(changes[0].Navigation).To(Equal(pagestate.Replace))
	})

	It("does not notify when nothing changes", func() {
		Expect(store.SetPage(1)).To(BeFalse())
		Expect(changes).To(BeEmpty())
	})

	It("returns to page 1 on filter change", func() {
		store.SetPage(5)
		store.SetFilter("q", "civic")

		Expect(store.State().Page).To(Equal(1))
		Expect(store.State().Filters).To(Equal(listview.Filters{"q": "civic"}))
	})

	It("returns to page 1 on page size change", func() {
		store.SetPage(5)
		store.SetPageSize(20)

		Expect(store.State().Page).To(Equal(1))
		Expect(store.State().PageSize).To(Equal(20))
	})

	It("stops notifying after unsubscribe", func() {
		var late []pagestate.Change
		unsubscribe := store.Subscribe(func(c pagestate.Change) {
			late = append(late, c)
		})

		store.SetPage(2)
		unsubscribe()
		store.SetPage(3)

		Expect(late).To(HaveLen(1))
		Expect(changes).To(HaveLen(2))
	})

	It("hands out copies of the state", func() {
		store.SetFilter("q", "a")

		state := store.State()
		state.Filters["q"] = "b"

		Expect(store.State().Filters["q"]).To(Equal("a"))
	})
})
