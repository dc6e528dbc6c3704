package renderstate_test

import (
	"encoding/json"
	"math"

	"cogentcore.org/core/math32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/studio/internal/renderstate"
	"github.com/san-kum/studio/internal/signal"
)

func sample() renderstate.ViewState {
	return renderstate.ViewState{
		Time:              12.5,
		IsVisible:         true,
		RenderType:        renderstate.Convergence,
		Rotation:          math32.Vec2(0.25, -0.5),
		Origin:            math32.Vec3(1, 2, 3),
		Origin2D:          math32.Vec2(-4, 8),
		Zoom:              1.5,
		PrefersFreeCamera: false,
		QuadView:          true,
		QuadSplitPoint:    math32.Vec2(0.3, 0.7),
		Resolution:        renderstate.Resolution{Width: 640, Height: 480},
	}
}

var _ = Describe("ViewState registry", func() {
	var (
		rt   *signal.Runtime
		sigs renderstate.Signals
		acc  renderstate.Accessors
		snap *signal.Memo[renderstate.ViewState]
	)

	BeforeEach(func() {
		rt = signal.NewRuntime()
		sigs = renderstate.DefaultSignals(rt)
		acc = renderstate.GetAll(sigs)
		snap = renderstate.AccessAll(rt, acc)
	})

	It("reads the documented defaults", func() {
		v := snap.Get()
		Expect(v.Time).To(BeZero())
		Expect(v.IsVisible).To(BeFalse())
		Expect(v.RenderType).To(Equal(renderstate.Normal))
		Expect(v.Rotation).To(Equal(math32.Vec2(0, 0)))
		Expect(v.Origin).To(Equal(math32.Vec3(0, 0, 0)))
		Expect(v.Origin2D).To(Equal(math32.Vec2(0, 0)))
		Expect(v.Zoom).To(BeZero())
		Expect(v.PrefersFreeCamera).To(BeTrue())
		Expect(v.QuadView).To(BeFalse())
		Expect(v.QuadSplitPoint).To(Equal(math32.Vec2(0.5, 0.5)))
		Expect(v.Resolution).To(Equal(renderstate.Resolution{}))
		Expect(v).To(Equal(renderstate.Defaults()))
	})

	It("round-trips SetAll through the memo", func() {
		renderstate.SetAll(sigs, sample())
		Expect(snap.Get()).To(Equal(sample()))
	})

	It("recomputes the snapshot once per SetAll", func() {
		var seen []renderstate.ViewState
		signal.NewEffect(rt, func() { seen = append(seen, snap.Get()) })
		Expect(snap.Recomputes()).To(Equal(1))

		renderstate.SetAll(sigs, sample())

		Expect(snap.Recomputes()).To(Equal(2))
		Expect(seen).To(HaveLen(2))
		Expect(seen[1]).To(Equal(sample()))
	})

	It("never exposes a partially written snapshot", func() {
		var seen []renderstate.ViewState
		signal.NewEffect(rt, func() { seen = append(seen, snap.Get()) })

		renderstate.SetAll(sigs, sample())
		next := sample()
		next.Zoom = -2
		next.Origin = math32.Vec3(9, 9, 9)
		renderstate.SetAll(sigs, next)

		Expect(seen).To(Equal([]renderstate.ViewState{renderstate.Defaults(), sample(), next}))
	})

	It("does not notify when SetAll writes the current state", func() {
		e := signal.NewEffect(rt, func() { snap.Get() })
		renderstate.SetAll(sigs, renderstate.Defaults())
		Expect(e.Runs()).To(Equal(1))
	})

	It("keeps accessors independent of other fields", func() {
		zoomReads := 0
		signal.NewEffect(rt, func() {
			acc.Zoom()
			zoomReads++
		})

		sigs.Origin.Set(math32.Vec3(1, 1, 1))
		sigs.Time.Set(3)
		Expect(zoomReads).To(Equal(1))
		Expect(acc.Zoom()).To(BeZero())
		Expect(acc.Time()).To(Equal(renderstate.Seconds(3)))

		sigs.Zoom.Set(2)
		Expect(zoomReads).To(Equal(2))
		Expect(acc.Zoom()).To(Equal(2.0))
	})

	It("reflects single-cell writes in the snapshot", func() {
		sigs.RenderType.Set(renderstate.Distance)
		Expect(snap.Get().RenderType).To(Equal(renderstate.Distance))
		Expect(snap.Get().Zoom).To(BeZero())
	})
})

var _ = Describe("Registry", func() {
	It("resets everything but the host surface fields", func() {
		reg := renderstate.NewRegistryFrom(signal.NewRuntime(), sample())
		reg.Reset()

		want := renderstate.Defaults()
		want.IsVisible = true
		want.Resolution = sample().Resolution
		Expect(reg.Snapshot()).To(Equal(want))
	})

	It("updates through one batch", func() {
		reg := renderstate.NewRegistry(signal.NewRuntime())
		reg.Snapshot()
		reg.Update(func(v renderstate.ViewState) renderstate.ViewState {
			v.Zoom = 1
			v.QuadView = true
			return v
		})
		Expect(reg.Snapshot().QuadView).To(BeTrue())
		Expect(reg.Memo().Recomputes()).To(Equal(2))
	})
})

var _ = Describe("RenderType", func() {
	DescribeTable("parsing",
		func(in string, want renderstate.RenderType) {
			got, err := renderstate.ParseRenderType(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(got).To(Equal(want))
		},
		Entry("normal", "normal", renderstate.Normal),
		Entry("mixed case", "Surfaceless", renderstate.Surfaceless),
		Entry("padded", " convergence ", renderstate.Convergence),
		Entry("distance", "distance", renderstate.Distance),
	)

	It("rejects unknown names", func() {
		_, err := renderstate.ParseRenderType("wireframe")
		Expect(err).To(MatchError(renderstate.ErrUnknownRenderType))
	})

	It("cycles", func() {
		Expect(renderstate.Distance.Next()).To(Equal(renderstate.Normal))
		Expect(renderstate.Normal.Next()).To(Equal(renderstate.Surfaceless))
	})

	It("encodes by name", func() {
		out, err := yaml.Marshal(sample())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).To(ContainSubstring("render_type: convergence"))

		var back renderstate.ViewState
		Expect(yaml.Unmarshal(out, &back)).To(Succeed())
		Expect(back).To(Equal(sample()))

		js, err := json.Marshal(sample())
		Expect(err).NotTo(HaveOccurred())
		Expect(string(js)).To(ContainSubstring(`"renderType":"convergence"`))
	})
})

var _ = Describe("Validate", func() {
	It("accepts the defaults", func() {
		Expect(renderstate.Defaults().Validate()).To(Succeed())
	})

	DescribeTable("rejects",
		func(mutate func(*renderstate.ViewState), want error) {
			v := sample()
			mutate(&v)
			Expect(v.Validate()).To(MatchError(want))
		},
		Entry("negative time", func(v *renderstate.ViewState) { v.Time = -1 }, renderstate.ErrNegativeTime),
		Entry("negative width", func(v *renderstate.ViewState) { v.Resolution.Width = -1 }, renderstate.ErrNegativeResolution),
		Entry("bad render type", func(v *renderstate.ViewState) { v.RenderType = 9 }, renderstate.ErrUnknownRenderType),
		Entry("NaN zoom", func(v *renderstate.ViewState) { v.Zoom = math.NaN() }, renderstate.ErrNonFinite),
		Entry("infinite origin", func(v *renderstate.ViewState) { v.Origin.X = float32(math.Inf(1)) }, renderstate.ErrNonFinite),
	)
})
