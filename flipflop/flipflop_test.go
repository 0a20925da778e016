package flipflop

import (
	"github.com/gridlab/relay/logic"
	"github.com/gridlab/relay/sim"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

type srcComp struct {
	*sim.ComponentBase
	v logic.Value
}

func (s *srcComp) Recalc() sim.State {
	return sim.State{s.v}
}

func (s *srcComp) Set(v logic.Value) {
	s.v = v
	s.Update()
}

func newSrc(reg *sim.Registry, tl *sim.Timeline, name string) *srcComp {
	s := &srcComp{v: logic.Low}
	s.ComponentBase = sim.NewComponentBase(reg, tl, name, s)
	s.AddOutput("out")
	s.Update()
	return s
}

var _ = Describe("Flip-flop", func() {
	var (
		reg *sim.Registry
		tl  *sim.Timeline
		ff  *Comp

		data, clock, clear *srcComp
	)

	build := func(trigger sim.EdgeTrigger) {
		ff = MakeBuilder().
			WithRegistry(reg).
			WithTimeline(tl).
			WithTrigger(trigger).
			Build("ff")

		data = newSrc(reg, tl, "d")
		clock = newSrc(reg, tl, "clk")
		clear = newSrc(reg, tl, "clr")

		for i, s := range []*srcComp{data, clock, clear} {
			_, err := sim.Connect(tl, s.Outputs()[0], ff.Inputs()[i], 0)
			Expect(err).ToNot(HaveOccurred())
		}
	}

	settle := func() {
		Expect(tl.Drain()).To(Succeed())
	}

	q := func() logic.Value { return ff.Outputs()[OutQ].Visible() }
	qn := func() logic.Value { return ff.Outputs()[OutQn].Visible() }

	BeforeEach(func() {
		reg = sim.NewRegistry()
		tl = sim.NewTimeline()
	})

	Context("with a rising-edge trigger", func() {
		BeforeEach(func() {
			build(sim.RisingEdge)
		})

		It("should start cleared", func() {
			Expect(q()).To(Equal(logic.Low))
			Expect(qn()).To(Equal(logic.High))
		})

		It("should latch the data bit on the rising edge", func() {
			data.Set(logic.High)
			settle()
			Expect(q()).To(Equal(logic.Low), "no edge yet")

			clock.Set(logic.High)
			settle()
			Expect(q()).To(Equal(logic.High))
			Expect(qn()).To(Equal(logic.Low))
		})

		It("should hold through data changes between edges", func() {
			data.Set(logic.High)
			clock.Set(logic.High)
			settle()

			data.Set(logic.Low)
			settle()
			Expect(q()).To(Equal(logic.High))

			clock.Set(logic.Low)
			settle()
			Expect(q()).To(Equal(logic.High), "falling edge must not latch")

			clock.Set(logic.High)
			settle()
			Expect(q()).To(Equal(logic.Low))
		})

		It("should latch an indeterminate data bit as unknown", func() {
			data.Set(logic.HiZ)
			clock.Set(logic.High)
			settle()

			Expect(q()).To(Equal(logic.Unknown))
			Expect(qn()).To(Equal(logic.Unknown))
		})

		It("should keep the stored bit on an indeterminate clock", func() {
			data.Set(logic.High)
			clock.Set(logic.High)
			settle()
			Expect(q()).To(Equal(logic.High))

			data.Set(logic.Low)
			clock.Set(logic.Unknown)
			settle()
			Expect(q()).To(Equal(logic.High),
				"an unknowable edge never commits new memory")

			clock.Set(logic.Low)
			settle()
			Expect(q()).To(Equal(logic.High),
				"unknown to low is not a rising edge")
		})

		It("should clear regardless of the clock", func() {
			data.Set(logic.High)
			clock.Set(logic.High)
			settle()
			Expect(q()).To(Equal(logic.High))

			clear.Set(logic.High)
			settle()
			Expect(q()).To(Equal(logic.Low))
			Expect(qn()).To(Equal(logic.High))
			Expect(ff.Stored()).To(Equal(logic.Low))
		})

		It("should dominate a simultaneous latch with clear", func() {
			data.Set(logic.High)
			clear.Set(logic.High)
			clock.Set(logic.High)
			settle()

			Expect(q()).To(Equal(logic.Low))
		})
	})

	Context("with a falling-edge trigger", func() {
		BeforeEach(func() {
			build(sim.FallingEdge)
		})

		It("should latch on high-to-low only", func() {
			data.Set(logic.High)
			clock.Set(logic.High)
			settle()
			Expect(q()).To(Equal(logic.Low), "rising edge must not latch")

			clock.Set(logic.Low)
			settle()
			Expect(q()).To(Equal(logic.High))
		})
	})
})
