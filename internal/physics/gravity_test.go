package physics_test

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/planetsim/internal/physics"
)

const (
	sunMass   = 332946.0
	earthDist = 150.0
	earthVel  = 29.78
)

func mustBody(mass float64, pos, vel mgl64.Vec3, prec physics.Precision) *physics.Body {
	b, err := physics.NewBody(mass, pos, vel, prec)
	Expect(err).NotTo(HaveOccurred())
	return b
}

func earthSun(prec physics.Precision) (sun, earth *physics.Body, p physics.Params) {
	p = physics.DefaultParams()
	p.Precision = prec
	p.G = physics.CircularOrbitG(sunMass, earthDist, earthVel)
	sun = mustBody(sunMass, mgl64.Vec3{}, mgl64.Vec3{}, prec)
	earth = mustBody(1, mgl64.Vec3{earthDist, 0, 0}, mgl64.Vec3{0, earthVel, 0}, prec)
	return sun, earth, p
}

func isFinite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}

var _ = Describe("Step", func() {
	var (
		sun, earth *physics.Body
		p          physics.Params
	)

	BeforeEach(func() {
		sun, earth, p = earthSun(physics.Single)
	})

	It("leaves the state unchanged when dt is zero", func() {
		pos, vel := earth.Position(), earth.Velocity()
		physics.Step(0, sun, earth, p)
		Expect(earth.Position()).To(Equal(pos))
		Expect(earth.Velocity()).To(Equal(vel))
	})

	It("ignores negative and NaN timesteps", func() {
		pos, vel := earth.Position(), earth.Velocity()
		physics.Step(-1, sun, earth, p)
		physics.Step(math.NaN(), sun, earth, p)
		Expect(earth.Position()).To(Equal(pos))
		Expect(earth.Velocity()).To(Equal(vel))
	})

	DescribeTable("ignores non-finite timesteps",
		func(dt float64, prec physics.Precision) {
			sun, earth, p = earthSun(prec)
			pos, vel := earth.Position(), earth.Velocity()
			physics.Step(dt, sun, earth, p)
			Expect(earth.Position()).To(Equal(pos))
			Expect(earth.Velocity()).To(Equal(vel))
			Expect(earth.IsValid()).To(BeTrue())
		},
		Entry("+Inf single", math.Inf(1), physics.Single),
		Entry("+Inf double", math.Inf(1), physics.Double),
		Entry("above float32 range", 1e39, physics.Single),
	)

	It("ignores an infinite timestep in a mutual step", func() {
		posA, posB := sun.Position(), earth.Position()
		physics.StepMutual(math.Inf(1), sun, earth, p)
		physics.StepMutual(1e39, sun, earth, p)
		Expect(sun.Position()).To(Equal(posA))
		Expect(earth.Position()).To(Equal(posB))
	})

	It("never moves the attractor", func() {
		before := sun.Position()
		for i := 0; i < 100; i++ {
			physics.Step(0.01, sun, earth, p)
		}
		Expect(sun.Position()).To(Equal(before))
		Expect(sun.Velocity()).To(Equal(mgl64.Vec3{}))
	})

	It("applies velocity before position", func() {
		p.G = 1
		attractor := mustBody(100, mgl64.Vec3{}, mgl64.Vec3{}, physics.Single)
		b := mustBody(1, mgl64.Vec3{10, 0, 0}, mgl64.Vec3{}, physics.Single)

		physics.Step(0.1, attractor, b, p)

		Expect(b.Velocity()[0]).To(BeNumerically("~", -0.1, 1e-6))
		Expect(b.Position()[0]).To(BeNumerically("~", 9.99, 1e-5))
		Expect(b.Position()[1]).To(BeZero())
	})

	It("keeps single precision state representable in float32", func() {
		for i := 0; i < 50; i++ {
			physics.Step(0.016, sun, earth, p)
		}
		for _, c := range earth.Position() {
			Expect(float64(float32(c))).To(Equal(c))
		}
		for _, c := range earth.Velocity() {
			Expect(float64(float32(c))).To(Equal(c))
		}
	})

	It("is deterministic", func() {
		_, other, _ := earthSun(physics.Single)
		for i := 0; i < 500; i++ {
			physics.Step(0.01, sun, earth, p)
			physics.Step(0.01, sun, other, p)
		}
		Expect(other.Position()).To(Equal(earth.Position()))
		Expect(other.Velocity()).To(Equal(earth.Velocity()))
	})

	DescribeTable("is a no-op below the minimum separation",
		func(offset, dt, mass float64) {
			attractor := mustBody(mass, mgl64.Vec3{}, mgl64.Vec3{}, physics.Single)
			b := mustBody(1, mgl64.Vec3{offset, 0, 0}, mgl64.Vec3{1, 2, 3}, physics.Single)
			pos, vel := b.Position(), b.Velocity()

			physics.Step(dt, attractor, b, p)

			Expect(b.Position()).To(Equal(pos))
			Expect(b.Velocity()).To(Equal(vel))
		},
		Entry("coincident", 0.0, 1.0, 1.0),
		Entry("tiny offset, large dt", 1e-3, 1000.0, 1.0),
		Entry("tiny offset, huge mass", 1e-3, 0.01, 1e30),
	)

	DescribeTable("produces a finite state",
		func(dt, mass float64, prec physics.Precision) {
			p.Precision = prec
			p.G = physics.G
			attractor := mustBody(mass, mgl64.Vec3{}, mgl64.Vec3{}, prec)
			b := mustBody(1, mgl64.Vec3{150, 0, 0}, mgl64.Vec3{0, 29.78, 0}, prec)

			physics.Step(dt, attractor, b, p)

			Expect(b.IsValid()).To(BeTrue())
			Expect(isFinite(b.Position())).To(BeTrue())
			Expect(isFinite(b.Velocity())).To(BeTrue())
		},
		Entry("frame dt, earth masses", 0.016, sunMass, physics.Single),
		Entry("large dt", 10.0, sunMass, physics.Single),
		Entry("tiny mass", 0.016, 1e-9, physics.Single),
		Entry("heavy attractor", 0.016, 1e20, physics.Single),
		Entry("double precision", 0.016, sunMass, physics.Double),
	)

	Context("on a circular orbit", func() {
		It("keeps the radius near the analytic value", func() {
			const dt = 0.005
			for i := 0; i < 6000; i++ {
				physics.Step(dt, sun, earth, p)
				Expect(physics.Separation(sun, earth)).To(BeNumerically("~", earthDist, 0.01*earthDist))
			}
		})

		It("returns near its starting point after one period", func() {
			const dt = 0.005
			start := earth.Position()
			period := physics.OrbitalPeriod(p.G, sunMass, earthDist)
			steps := int(math.Round(period / dt))

			for i := 0; i < steps; i++ {
				physics.Step(dt, sun, earth, p)
			}

			Expect(earth.Position().Sub(start).Len()).To(BeNumerically("<", 0.01*earthDist))
		})

		It("conserves energy more tightly in double precision", func() {
			dsun, dearth, dp := earthSun(physics.Double)
			e0 := physics.OrbitalEnergy(dsun, dearth, dp.G)
			for i := 0; i < 6000; i++ {
				physics.Step(0.005, dsun, dearth, dp)
			}
			drift := math.Abs(physics.OrbitalEnergy(dsun, dearth, dp.G)-e0) / math.Abs(e0)
			Expect(drift).To(BeNumerically("<", 0.01))
		})
	})
})

var _ = Describe("StepMutual", func() {
	It("does not depend on argument order", func() {
		p := physics.DefaultParams()
		p.G = 1
		a1 := mustBody(5, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, -0.5, 0}, physics.Single)
		b1 := mustBody(3, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0.5, 0}, physics.Single)
		a2 := mustBody(5, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, -0.5, 0}, physics.Single)
		b2 := mustBody(3, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0.5, 0}, physics.Single)

		for i := 0; i < 100; i++ {
			physics.StepMutual(0.01, a1, b1, p)
			physics.StepMutual(0.01, b2, a2, p)
		}

		Expect(a2.Position()).To(Equal(a1.Position()))
		Expect(b2.Position()).To(Equal(b1.Position()))
	})

	It("conserves linear momentum", func() {
		p := physics.DefaultParams()
		p.G = 1
		p.Precision = physics.Double
		a := mustBody(2, mgl64.Vec3{-1, 0, 0}, mgl64.Vec3{0, -0.25, 0}, physics.Double)
		b := mustBody(2, mgl64.Vec3{1, 0, 0}, mgl64.Vec3{0, 0.25, 0}, physics.Double)

		for i := 0; i < 1000; i++ {
			physics.StepMutual(0.001, a, b, p)
		}

		total := a.Velocity().Mul(a.Mass()).Add(b.Velocity().Mul(b.Mass()))
		Expect(total.Len()).To(BeNumerically("<", 1e-9))
	})
})
