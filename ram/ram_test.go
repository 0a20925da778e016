package ram

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

var _ = Describe("RAM", func() {
	var (
		reg *sim.Registry
		tl  *sim.Timeline
		ram *Comp

		srcs [InClear + 1]*srcComp
	)

	build := func(trigger sim.EdgeTrigger) {
		ram = MakeBuilder().
			WithRegistry(reg).
			WithTimeline(tl).
			WithTrigger(trigger).
			Build("ram")

		for i := range srcs {
			s := &srcComp{v: logic.Low}
			s.ComponentBase = sim.NewComponentBase(reg, tl, "src", s)
			s.AddOutput("out")
			s.Update()
			srcs[i] = s

			_, err := sim.Connect(tl, s.Outputs()[0], ram.Inputs()[i], 0)
			Expect(err).ToNot(HaveOccurred())
		}
	}

	settle := func() {
		Expect(tl.Drain()).To(Succeed())
	}

	setWord := func(lsb int, w logic.Word) {
		for i, v := range w {
			srcs[lsb+i].Set(v)
		}
	}

	setAddr := func(addr uint8) {
		setWord(InA0, logic.WordFromUint(addr))
	}

	setData := func(data uint8) {
		setWord(InD0, logic.WordFromUint(data))
	}

	out := func() logic.Word {
		var w logic.Word
		for i := range w {
			w[i] = ram.Outputs()[OutO0+i].Visible()
		}
		return w
	}

	clockPulse := func() {
		srcs[InClock].Set(logic.High)
		settle()
		srcs[InClock].Set(logic.Low)
		settle()
	}

	write := func(addr, data uint8) {
		setAddr(addr)
		setData(data)
		srcs[InWriteEnable].Set(logic.High)
		settle()
		clockPulse()
		srcs[InWriteEnable].Set(logic.Low)
		settle()
	}

	BeforeEach(func() {
		reg = sim.NewRegistry()
		tl = sim.NewTimeline()
		build(sim.RisingEdge)
	})

	It("should start zeroed", func() {
		Expect(out()).To(Equal(logic.WordFromUint(0)))
		for addr := uint8(0); addr < Words; addr++ {
			Expect(ram.Word(addr)).To(Equal(logic.WordFromUint(0)))
		}
	})

	It("should write on the rising edge and read back", func() {
		write(3, 0b1010)

		Expect(ram.Word(3)).To(Equal(logic.WordFromUint(0b1010)))
		Expect(out()).To(Equal(logic.WordFromUint(0b1010)))

		setAddr(0)
		settle()
		Expect(out()).To(Equal(logic.WordFromUint(0)))

		setAddr(3)
		settle()
		Expect(out()).To(Equal(logic.WordFromUint(0b1010)))
	})

	It("should not write while write-enable is low", func() {
		setAddr(5)
		setData(0b1111)
		settle()
		clockPulse()

		Expect(ram.Word(5)).To(Equal(logic.WordFromUint(0)))
	})

	It("should not write without a clock edge", func() {
		setAddr(5)
		srcs[InWriteEnable].Set(logic.High)
		settle()

		setData(0b1111)
		settle()

		Expect(ram.Word(5)).To(Equal(logic.WordFromUint(0)))
	})

	It("should not write on an indeterminate clock", func() {
		setAddr(5)
		setData(0b1111)
		srcs[InWriteEnable].Set(logic.High)
		settle()

		srcs[InClock].Set(logic.Unknown)
		settle()
		srcs[InClock].Set(logic.Low)
		settle()

		Expect(ram.Word(5)).To(Equal(logic.WordFromUint(0)))
	})

	It("should store indeterminate data bits as unknown", func() {
		setAddr(2)
		srcs[InD0].Set(logic.HiZ)
		srcs[InD1].Set(logic.High)
		srcs[InWriteEnable].Set(logic.High)
		settle()
		clockPulse()

		Expect(ram.Word(2)).To(Equal(logic.Word{
			logic.Unknown, logic.High, logic.Low, logic.Low,
		}))
	})

	It("should output unknown for an indeterminate address", func() {
		srcs[InA2].Set(logic.Unknown)
		settle()

		Expect(out()).To(Equal(logic.UnknownWord()))

		srcs[InA2].Set(logic.Low)
		settle()
		Expect(out()).To(Equal(logic.WordFromUint(0)))
	})

	It("should leave memory untouched on a write to an indeterminate address",
		func() {
			write(1, 0b0110)

			srcs[InA0].Set(logic.Unknown)
			srcs[InWriteEnable].Set(logic.High)
			setData(0b1111)
			settle()
			clockPulse()

			srcs[InA0].Set(logic.High)
			srcs[InWriteEnable].Set(logic.Low)
			settle()
			Expect(ram.Word(1)).To(Equal(logic.WordFromUint(0b0110)))
		})

	It("should zero everything on clear", func() {
		write(0, 0b0001)
		write(7, 0b1110)

		srcs[InClear].Set(logic.High)
		settle()

		Expect(out()).To(Equal(logic.WordFromUint(0)))
		for addr := uint8(0); addr < Words; addr++ {
			Expect(ram.Word(addr)).To(Equal(logic.WordFromUint(0)))
		}
	})

	Context("with a falling-edge trigger", func() {
		BeforeEach(func() {
			reg = sim.NewRegistry()
			tl = sim.NewTimeline()
			build(sim.FallingEdge)
		})

		It("should write on high-to-low only", func() {
			setAddr(4)
			setData(0b1001)
			srcs[InWriteEnable].Set(logic.High)
			settle()

			srcs[InClock].Set(logic.High)
			settle()
			Expect(ram.Word(4)).To(Equal(logic.WordFromUint(0)))

			srcs[InClock].Set(logic.Low)
			settle()
			Expect(ram.Word(4)).To(Equal(logic.WordFromUint(0b1001)))
		})
	})

	Describe("memory image", func() {
		It("should trim trailing zero words", func() {
			write(0, 0b0001)
			write(2, 0b1000)

			Expect(ram.MemoryImage()).To(Equal([]string{
				"0001", "0000", "1000",
			}))
		})

		It("should be empty for a zeroed memory", func() {
			Expect(ram.MemoryImage()).To(BeEmpty())
		})

		It("should round trip through load", func() {
			image := []string{"0001", "0000", "1x1z"}

			Expect(ram.LoadMemoryImage(image)).To(Succeed())
			Expect(ram.Word(0)).To(Equal(logic.WordFromUint(1)))
			Expect(ram.Word(2)).To(Equal(logic.Word{
				logic.HiZ, logic.High, logic.Unknown, logic.High,
			}))
			Expect(ram.MemoryImage()).To(Equal(image))
		})

		It("should refresh the output after load", func() {
			setAddr(1)
			settle()

			Expect(ram.LoadMemoryImage([]string{"0000", "0111"})).
				To(Succeed())
			Expect(out()).To(Equal(logic.WordFromUint(0b0111)))
		})

		It("should reject an oversized image", func() {
			image := make([]string, Words+1)
			for i := range image {
				image[i] = "0000"
			}

			var mapErr *sim.MappingError
			Expect(ram.LoadMemoryImage(image)).To(
				BeAssignableToTypeOf(mapErr))
		})

		It("should reject a malformed word", func() {
			err := ram.LoadMemoryImage([]string{"01a0"})
			var mapErr *sim.MappingError
			Expect(err).To(BeAssignableToTypeOf(mapErr))
		})
	})
})
