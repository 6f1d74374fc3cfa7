package scene_test

import (
	"context"
	"errors"

	"github.com/google/go-cmp/cmp"
	"github.com/lucasb-eyer/go-colorful"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/sphfluid/internal/fluid"
	"github.com/san-kum/sphfluid/internal/scene"
)

var _ = Describe("Parse", func() {
	It("reads a single particle block", func() {
		sc, err := scene.Parse("NEW_P POS 1 2 M 5 END_P", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.Particles).To(HaveLen(1))
		Expect(sc.Particles[0]).To(Equal(fluid.Particle{Pos: r2.Vec{X: 1, Y: 2}, Mass: 5}))
	})

	It("reads every particle field", func() {
		sc, err := scene.Parse(`NEW_P
			POS 1 2 V 3 4 M 5 D 6 P 7 F 8 9 RGB 0.1 0.2 0.3
		END_P`, 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.Particles).To(ConsistOf(fluid.Particle{
			Pos:      r2.Vec{X: 1, Y: 2},
			Vel:      r2.Vec{X: 3, Y: 4},
			Mass:     5,
			Density:  6,
			Pressure: 7,
			Force:    r2.Vec{X: 8, Y: 9},
			Color:    colorful.Color{R: 0.1, G: 0.2, B: 0.3},
		}))
	})

	It("reads scalar commands", func() {
		sc, err := scene.Parse("TIME 5.0 SMOOTHING_DISTANCE 8 GRAVITY -9.8 SCENARIO", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.Time).To(Equal(5.0))
		Expect(sc.Radius).To(HaveValue(Equal(8.0)))
		Expect(sc.Gravity).To(HaveValue(Equal(-9.8)))
		Expect(sc.Particles).To(BeEmpty())
	})

	It("leaves radius and gravity unset when absent", func() {
		sc, err := scene.Parse("NEW_P M 1 END_P", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.Radius).To(BeNil())
		Expect(sc.Gravity).To(BeNil())
	})

	It("skips unknown top-level tokens", func() {
		sc, err := scene.Parse("HELLO 42 NEW_P M 1 END_P WORLD", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.Particles).To(HaveLen(1))
	})

	DescribeTable("rejects malformed input",
		func(text string, pos int) {
			_, err := scene.Parse(text, 1)
			Expect(err).To(MatchError(scene.ErrMalformedScene))

			var pe *scene.ParseError
			Expect(errors.As(err, &pe)).To(BeTrue())
			Expect(pe.Pos).To(Equal(pos))
		},
		Entry("missing coordinate", "NEW_P POS 1 END_P", 3),
		Entry("missing END_P", "NEW_P POS 1 2", 4),
		Entry("unknown particle field", "NEW_P FOO 1 END_P", 1),
		Entry("nested block", "NEW_P NEW_P END_P END_P", 1),
		Entry("non-numeric mass", "NEW_P M heavy END_P", 2),
		Entry("truncated TIME", "TIME", 1),
		Entry("non-finite gravity", "GRAVITY NaN", 1),
		Entry("truncated RECT_FILL", "RECT_FILL 0 0 10", 4),
		Entry("fractional RECT_FILL", "RECT_FILL 0 0 1.5 10 1", 3),
		Entry("oversized RECT_FILL", "RECT_FILL 0 0 100000 100000 1", 5),
	)
})

var _ = Describe("RECT_FILL", func() {
	It("is deterministic for a seed", func() {
		a, err := scene.Parse("RECT_FILL 0 0 10 10 42", 1)
		Expect(err).NotTo(HaveOccurred())
		b, err := scene.Parse("RECT_FILL 0 0 10 10 42", 1)
		Expect(err).NotTo(HaveOccurred())

		Expect(a.Particles).To(HaveLen(100))
		Expect(cmp.Diff(a.Particles, b.Particles)).To(BeEmpty())
	})

	It("differs across seeds", func() {
		a, _ := scene.Parse("RECT_FILL 0 0 10 10 1", 1)
		b, _ := scene.Parse("RECT_FILL 0 0 10 10 2", 1)
		Expect(cmp.Diff(a.Particles, b.Particles)).NotTo(BeEmpty())
	})

	It("treats DAMBREAK as an alias", func() {
		a, _ := scene.Parse("DAMBREAK 5 5 20 20 7", 4)
		b, _ := scene.Parse("RECT_FILL 5 5 20 20 7", 4)
		Expect(cmp.Diff(a.Particles, b.Particles)).To(BeEmpty())
	})

	It("draws particles within the documented ranges", func() {
		sc, err := scene.Parse("RECT_FILL 10 20 30 40 9", 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.Particles).To(HaveLen(15 * 20))

		for _, p := range sc.Particles {
			Expect(p.Pos.X).To(BeNumerically(">=", 10-scene.FillJitter))
			Expect(p.Pos.X).To(BeNumerically("<", 40+scene.FillJitter))
			Expect(p.Pos.Y).To(BeNumerically(">=", 20-scene.FillJitter))
			Expect(p.Pos.Y).To(BeNumerically("<", 60+scene.FillJitter))
			Expect(p.Vel.X).To(BeNumerically(">=", -1))
			Expect(p.Vel.X).To(BeNumerically("<", 1))
			Expect(p.Vel.Y).To(BeNumerically(">=", -1))
			Expect(p.Vel.Y).To(BeNumerically("<", 0.5))
			Expect(p.Mass).To(Equal(scene.FillMass))
			Expect(p.Color).To(Equal(scene.Water))
		}
	})

	It("sizes the grid from the radius in effect at that point", func() {
		sc, err := scene.Parse("RECT_FILL 0 0 8 8 1 SMOOTHING_DISTANCE 8 RECT_FILL 0 0 8 8 1", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.Particles).To(HaveLen(64 + 4))
	})

	It("produces nothing for an empty rectangle", func() {
		sc, err := scene.Parse("RECT_FILL 0 0 0 10 1 RECT_FILL 0 0 -5 10 1", 1)
		Expect(err).NotTo(HaveOccurred())
		Expect(sc.Particles).To(BeEmpty())
	})
})

var _ = Describe("Load", func() {
	var sim *fluid.Simulation

	BeforeEach(func() {
		var err error
		sim, err = scene.Construct(4, "TIME 2 NEW_P POS 100 100 M 10 END_P", fluid.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
	})

	It("constructs from the initial scene", func() {
		Expect(sim.Len()).To(Equal(1))
		Expect(sim.Time()).To(Equal(2.0))
		Expect(sim.SmoothingRadius()).To(Equal(4.0))
	})

	It("constructs an empty simulation from blank text", func() {
		s, err := scene.Construct(4, "  \n", fluid.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(s.Len()).To(BeZero())
	})

	It("replaces particles and resets time", func() {
		Expect(scene.Load(sim, "NEW_P POS 1 1 M 1 END_P NEW_P POS 2 2 M 1 END_P")).To(Succeed())
		Expect(sim.Len()).To(Equal(2))
		Expect(sim.Time()).To(BeZero())
		Expect(sim.Particle(0).Pos).To(Equal(r2.Vec{X: 1, Y: 1}))
	})

	It("sets time exactly from TIME", func() {
		_, err := sim.AdvanceBy(context.Background(), 0.05)
		Expect(err).NotTo(HaveOccurred())
		Expect(scene.Load(sim, "TIME 5.0")).To(Succeed())
		Expect(sim.Time()).To(Equal(5.0))
	})

	It("updates radius and gravity", func() {
		Expect(scene.Load(sim, "SMOOTHING_DISTANCE 16 GRAVITY 3")).To(Succeed())
		Expect(sim.SmoothingRadius()).To(Equal(16.0))
		Expect(sim.Gravity()).To(Equal(3.0))
	})

	DescribeTable("leaves the simulation untouched on failure",
		func(text string, target error) {
			before := sim.Particles()
			Expect(scene.Load(sim, text)).To(MatchError(target))
			Expect(sim.Particles()).To(Equal(before))
			Expect(sim.Time()).To(Equal(2.0))
			Expect(sim.SmoothingRadius()).To(Equal(4.0))
		},
		Entry("malformed", "TIME 9 SMOOTHING_DISTANCE 8 NEW_P POS 1 END_P", scene.ErrMalformedScene),
		Entry("missing mass", "TIME 9 NEW_P POS 1 1 END_P", fluid.ErrInvalidParameter),
		Entry("negative mass", "NEW_P M -1 END_P", fluid.ErrInvalidParameter),
		Entry("zero radius", "SMOOTHING_DISTANCE 0", fluid.ErrInvalidParameter),
	)
})

var _ = Describe("Export", func() {
	It("reloads to the same state", func() {
		opts := fluid.DefaultOptions()
		opts.Gravity = 2
		src, err := scene.Construct(6, "RECT_FILL 50 50 30 30 3 NEW_P POS 200 200 M 7 RGB 0.5 0.25 1 END_P", opts)
		Expect(err).NotTo(HaveOccurred())
		_, err = src.AdvanceBy(context.Background(), 0.02)
		Expect(err).NotTo(HaveOccurred())

		dst, err := scene.Construct(1, scene.Export(src), fluid.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())

		Expect(cmp.Diff(src.Particles(), dst.Particles())).To(BeEmpty())
		Expect(dst.Time()).To(Equal(src.Time()))
		Expect(dst.SmoothingRadius()).To(Equal(6.0))
		Expect(dst.Gravity()).To(Equal(2.0))
	})

	It("writes the scalar header for an empty simulation", func() {
		sim, err := fluid.New(3, fluid.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(scene.Export(sim)).To(Equal("TIME 0\nSMOOTHING_DISTANCE 3\nGRAVITY 0\n"))
	})
})
