package sim

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Registry", func() {
	var (
		reg *Registry
		tl  *Timeline
	)

	BeforeEach(func() {
		reg = NewRegistry()
		tl = NewTimeline()
	})

	It("should allocate ascending ids starting at one", func() {
		Expect(reg.Allocate()).To(Equal(NodeID(1)))
		Expect(reg.Allocate()).To(Equal(NodeID(2)))
		Expect(reg.Allocate()).To(Equal(NodeID(3)))
	})

	It("should register a component's nodes", func() {
		c := newPassthrough(reg, tl, "c")

		Expect(reg.NodeCount()).To(Equal(2))
		Expect(reg.Lookup(c.Inputs()[0].ID())).To(
			BeIdenticalTo(c.Inputs()[0]))
		Expect(reg.Lookup(c.Outputs()[0].ID())).To(
			BeIdenticalTo(c.Outputs()[0]))
	})

	It("should return nil for an unknown id", func() {
		Expect(reg.Lookup(42)).To(BeNil())
	})

	It("should rebind a node to a persisted id", func() {
		c := newPassthrough(reg, tl, "c")
		in := c.Inputs()[0]

		Expect(reg.Rebind(in, 17)).To(Succeed())
		Expect(in.ID()).To(Equal(NodeID(17)))
		Expect(reg.Lookup(17)).To(BeIdenticalTo(in))

		// The old id is free again.
		Expect(reg.Reserve(1)).To(Succeed())
	})

	It("should refuse to rebind onto an id held by another node", func() {
		c := newPassthrough(reg, tl, "c")
		in, out := c.Inputs()[0], c.Outputs()[0]

		err := reg.Rebind(in, out.ID())
		var mapErr *MappingError
		Expect(err).To(BeAssignableToTypeOf(mapErr))
		Expect(reg.Lookup(in.ID())).To(BeIdenticalTo(in))
	})

	It("should refuse to reserve a taken id", func() {
		newPassthrough(reg, tl, "c")

		err := reg.Reserve(1)
		var mapErr *MappingError
		Expect(err).To(BeAssignableToTypeOf(mapErr))
	})

	It("should allocate past reserved ids", func() {
		Expect(reg.Reserve(5)).To(Succeed())
		Expect(reg.Allocate()).To(Equal(NodeID(6)))
	})

	It("should forget destroyed nodes", func() {
		c := newPassthrough(reg, tl, "c")
		id := c.Inputs()[0].ID()

		c.Destroy()

		Expect(reg.Lookup(id)).To(BeNil())
		Expect(reg.NodeCount()).To(BeZero())
	})

	It("should reset fully on clear", func() {
		newPassthrough(reg, tl, "c")
		reg.Clear()

		Expect(reg.NodeCount()).To(BeZero())
		Expect(reg.Allocate()).To(Equal(NodeID(1)))
	})
})
