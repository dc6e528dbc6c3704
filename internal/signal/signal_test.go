package signal_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/studio/internal/signal"
)

var _ = Describe("Signal", func() {
	var rt *signal.Runtime

	BeforeEach(func() {
		rt = signal.NewRuntime()
	})

	It("holds its initial value", func() {
		s := signal.New(rt, 42)
		Expect(s.Get()).To(Equal(42))
		Expect(s.Peek()).To(Equal(42))
	})

	It("exposes a getter accessor", func() {
		s := signal.New(rt, "a")
		get := signal.Getter(s)
		s.Set("b")
		Expect(get()).To(Equal("b"))
	})

	It("applies updates to the current value", func() {
		s := signal.New(rt, 2)
		s.Update(func(v int) int { return v * 3 })
		Expect(s.Get()).To(Equal(6))
	})

	It("does not notify when the value is unchanged", func() {
		s := signal.New(rt, 1)
		e := signal.NewEffect(rt, func() { s.Get() })
		s.Set(1)
		Expect(e.Runs()).To(Equal(1))
		s.Set(2)
		Expect(e.Runs()).To(Equal(2))
	})
})

var _ = Describe("Memo", func() {
	var (
		rt   *signal.Runtime
		a, b *signal.Signal[int]
		sum  *signal.Memo[int]
	)

	BeforeEach(func() {
		rt = signal.NewRuntime()
		a = signal.New(rt, 1)
		b = signal.New(rt, 2)
		sum = signal.NewMemo(rt, func() int { return a.Get() + b.Get() })
	})

	It("is lazy", func() {
		Expect(sum.Recomputes()).To(Equal(0))
		Expect(sum.Get()).To(Equal(3))
		Expect(sum.Recomputes()).To(Equal(1))
	})

	It("caches until a dependency changes", func() {
		sum.Get()
		sum.Get()
		Expect(sum.Recomputes()).To(Equal(1))

		a.Set(10)
		Expect(sum.Recomputes()).To(Equal(1))
		Expect(sum.Get()).To(Equal(12))
		Expect(sum.Recomputes()).To(Equal(2))
	})

	It("recomputes once for several writes", func() {
		sum.Get()
		a.Set(5)
		b.Set(6)
		Expect(sum.Get()).To(Equal(11))
		Expect(sum.Recomputes()).To(Equal(2))
	})

	It("stops notifying downstream when its value is unchanged", func() {
		parity := signal.NewMemo(rt, func() bool { return sum.Get()%2 == 0 })
		e := signal.NewEffect(rt, func() { parity.Get() })
		Expect(e.Runs()).To(Equal(1))

		rt.Batch(func() {
			a.Set(3)
			b.Set(0)
		})
		Expect(sum.Recomputes()).To(Equal(2))
		Expect(e.Runs()).To(Equal(1))

		a.Set(4)
		Expect(e.Runs()).To(Equal(2))
	})

	It("drops dependencies that were not read in the last run", func() {
		flag := signal.New(rt, true)
		pick := signal.NewMemo(rt, func() int {
			if flag.Get() {
				return a.Get()
			}
			return b.Get()
		})
		Expect(pick.Get()).To(Equal(1))

		flag.Set(false)
		Expect(pick.Get()).To(Equal(2))
		n := pick.Recomputes()

		a.Set(100)
		Expect(pick.Get()).To(Equal(2))
		Expect(pick.Recomputes()).To(Equal(n))
	})
})

var _ = Describe("Effect", func() {
	var rt *signal.Runtime

	BeforeEach(func() {
		rt = signal.NewRuntime()
	})

	It("runs immediately", func() {
		var seen []int
		s := signal.New(rt, 7)
		signal.NewEffect(rt, func() { seen = append(seen, s.Get()) })
		Expect(seen).To(Equal([]int{7}))
	})

	It("runs once per batch and sees only settled values", func() {
		x, y := signal.New(rt, 0), signal.New(rt, 0)
		var seen [][2]int
		signal.NewEffect(rt, func() { seen = append(seen, [2]int{x.Get(), y.Get()}) })

		rt.Batch(func() {
			x.Set(1)
			y.Set(1)
			rt.Batch(func() {
				x.Set(2)
			})
			y.Set(2)
		})

		Expect(seen).To(Equal([][2]int{{0, 0}, {2, 2}}))
	})

	It("sees memo values consistent with the batch", func() {
		x, y := signal.New(rt, 1), signal.New(rt, 1)
		product := signal.NewMemo(rt, func() int { return x.Get() * y.Get() })
		var seen []int
		signal.NewEffect(rt, func() { seen = append(seen, product.Get()) })

		rt.Batch(func() {
			x.Set(3)
			y.Set(4)
		})

		Expect(seen).To(Equal([]int{1, 12}))
		Expect(product.Recomputes()).To(Equal(2))
	})

	It("propagates writes made by other effects", func() {
		src := signal.New(rt, 1)
		double := signal.New(rt, 0)
		signal.NewEffect(rt, func() { double.Set(src.Get() * 2) })

		var last int
		signal.NewEffect(rt, func() { last = double.Get() })
		Expect(last).To(Equal(2))

		src.Set(5)
		Expect(last).To(Equal(10))
	})

	It("stops after dispose", func() {
		s := signal.New(rt, 0)
		e := signal.NewEffect(rt, func() { s.Get() })
		e.Dispose()
		s.Set(1)
		Expect(e.Runs()).To(Equal(1))
	})

	It("does not track reads inside Untrack", func() {
		tracked, ignored := signal.New(rt, 0), signal.New(rt, 0)
		e := signal.NewEffect(rt, func() {
			tracked.Get()
			rt.Untrack(func() { ignored.Get() })
		})

		ignored.Set(1)
		Expect(e.Runs()).To(Equal(1))
		tracked.Set(1)
		Expect(e.Runs()).To(Equal(2))
	})

	It("restores batching state after a panic", func() {
		Expect(func() {
			rt.Batch(func() { panic("boom") })
		}).To(Panic())

		s := signal.New(rt, 0)
		e := signal.NewEffect(rt, func() { s.Get() })
		s.Set(1)
		Expect(e.Runs()).To(Equal(2))
	})

	It("re-runs when it writes a dependency it read", func() {
		s := signal.New(rt, 0)
		m := signal.NewMemo(rt, func() int { return s.Get() * 10 })
		var seen []int
		signal.NewEffect(rt, func() {
			seen = append(seen, m.Get())
			s.Set(1)
		})
		Expect(seen).To(Equal([]int{0, 10}))
		Expect(m.Peek()).To(Equal(10))
	})

	It("re-runs after a later effect writes its dependency", func() {
		s := signal.New(rt, 0)
		m := signal.NewMemo(rt, func() int { return s.Get() + 1 })
		var seen []int
		signal.NewEffect(rt, func() { seen = append(seen, m.Get()) })
		signal.NewEffect(rt, func() {
			if s.Get() == 1 {
				s.Set(2)
			}
		})

		s.Set(1)
		Expect(seen).To(Equal([]int{1, 2, 3}))
	})
})
