package coordinator_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/nrfta/listview-go/coordinator"
)

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate() { c.calls++ }

var _ = Describe("Registry", func() {
	var (
		registry      *coordinator.Registry
		purchasesView *countingInvalidator
		clientsView   *countingInvalidator
	)

	BeforeEach(func() {
		registry = coordinator.NewRegistry(nil)
		purchasesView = &countingInvalidator{}
		clientsView = &countingInvalidator{}
		registry.Register("purchases", purchasesView)
		registry.Register("clients", clientsView)
	})

	It("invalidates only the views of the mutated entity", func() {
		Expect(registry.Invalidate("purchases")).To(Equal(1))

		Expect(purchasesView.calls).To(Equal(1))
		Expect(clientsView.calls).To(BeZero())
	})

	It("reaches every view registered under an entity", func() {
		second := &countingInvalidator{}
		registry.Register("purchases", second)

		Expect(registry.Invalidate("purchases")).To(Equal(2))
		Expect(second.calls).To(Equal(1))
	})

	It("ignores unknown entities", func() {
		Expect(registry.Invalidate("proformas")).To(BeZero())
	})

	It("stops invalidating after unregister", func() {
		extra := &countingInvalidator{}
		unregister := registry.Register("clients", extra)
		unregister()

		registry.Invalidate("clients")

		Expect(extra.calls).To(BeZero())
		Expect(clientsView.calls).To(Equal(1))
	})
})
