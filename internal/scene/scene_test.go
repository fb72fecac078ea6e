package scene_test

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/planetsim/internal/config"
	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/render"
	"github.com/san-kum/planetsim/internal/render/rendertest"
	"github.com/san-kum/planetsim/internal/scene"
)

const sphereVertices = 19 * 37

func circular() *config.Config {
	cfg, err := config.GetPreset("circular")
	Expect(err).NotTo(HaveOccurred())
	return cfg
}

var _ = Describe("Scene", func() {
	var (
		dev *rendertest.Device
		cfg *config.Config
		s   *scene.Scene
	)

	BeforeEach(func() {
		dev = rendertest.New()
		cfg = circular()
	})

	AfterEach(func() {
		if s != nil {
			s.Close()
			s = nil
		}
	})

	Describe("New", func() {
		It("creates one program and a mesh per planet", func() {
			var err error
			s, err = scene.New(dev, cfg)
			Expect(err).NotTo(HaveOccurred())

			Expect(dev.Programs).To(HaveLen(1))
			Expect(dev.Meshes).To(HaveLen(2))
			for _, verts := range dev.Meshes {
				Expect(verts).To(HaveLen(3 * sphereVertices))
			}
			Expect(s.Attractor().Name()).To(Equal("sun"))
			Expect(s.Orbiter().Name()).To(Equal("earth"))
			Expect(s.Orbiter().VertexCount()).To(Equal(sphereVertices))
		})

		It("rejects an invalid configuration", func() {
			cfg.Bodies.Orbiter.Mass = 0
			_, err := scene.New(dev, cfg)
			Expect(errors.Is(err, config.ErrInvalidConfig)).To(BeTrue())
			Expect(dev.Calls).To(BeEmpty())
		})

		It("returns shader errors without creating meshes", func() {
			dev.FailCompile = true
			_, err := scene.New(dev, cfg)

			var serr *render.ShaderError
			Expect(errors.As(err, &serr)).To(BeTrue())
			Expect(serr.Stage).To(Equal("vertex"))
			Expect(dev.Meshes).To(BeEmpty())
		})

		It("releases the program when a mesh upload fails", func() {
			dev.FailUpload = true
			_, err := scene.New(dev, cfg)

			Expect(err).To(HaveOccurred())
			Expect(dev.Programs).To(BeEmpty())
		})

		It("reports zero handles as an allocation failure", func() {
			dev.ZeroHandles = true
			_, err := scene.New(dev, cfg)
			Expect(errors.Is(err, render.ErrResourceAllocation)).To(BeTrue())
		})
	})

	Describe("Render", func() {
		BeforeEach(func() {
			var err error
			s, err = scene.New(dev, cfg)
			Expect(err).NotTo(HaveOccurred())
			dev.Reset()
		})

		It("clears, binds, then draws attractor before orbiter", func() {
			frame := cfg.Frame(800, 600)
			Expect(s.Render(frame)).To(Succeed())

			Expect(dev.Ops()).To(Equal([]string{
				"Clear", "SetPointSize", "UseProgram",
				"SetMat4", "DrawPoints",
				"SetMat4", "DrawPoints",
			}))
			Expect(dev.Calls[0].Color).To(Equal(frame.ClearColor))
			Expect(dev.Calls[1].Size).To(Equal(frame.PointSize))
			Expect(dev.Calls[4].Count).To(Equal(int32(sphereVertices)))
			Expect(s.Frames()).To(Equal(1))
		})

		It("sets MVP from the current body positions", func() {
			s.Update(0.5)
			dev.Reset()

			frame := cfg.Frame(800, 600)
			Expect(s.Render(frame)).To(Succeed())

			Expect(dev.Calls[3].Name).To(Equal(render.MVPUniform))
			Expect(dev.Calls[3].Mat).To(Equal(frame.MVP(s.Attractor().Body().Position32())))
			Expect(dev.Calls[5].Mat).To(Equal(frame.MVP(s.Orbiter().Body().Position32())))
		})

		It("skips the point size call when unset", func() {
			frame := cfg.Frame(800, 600)
			frame.PointSize = 0
			Expect(s.Render(frame)).To(Succeed())
			Expect(dev.Ops()).NotTo(ContainElement("SetPointSize"))
		})

		It("fails after Close", func() {
			s.Close()
			Expect(s.Render(cfg.Frame(800, 600))).To(MatchError(scene.ErrClosed))
		})
	})

	Describe("hidden planets", func() {
		It("are stepped but not drawn", func() {
			cfg.Bodies.Attractor.Hidden = true
			var err error
			s, err = scene.New(dev, cfg)
			Expect(err).NotTo(HaveOccurred())
			dev.Reset()

			Expect(s.Render(cfg.Frame(800, 600))).To(Succeed())
			Expect(dev.Ops()).To(Equal([]string{"Clear", "SetPointSize", "UseProgram", "SetMat4", "DrawPoints"}))
		})
	})

	Describe("Update", func() {
		BeforeEach(func() {
			var err error
			s, err = scene.New(dev, cfg)
			Expect(err).NotTo(HaveOccurred())
		})

		It("moves only the orbiter", func() {
			sun := s.Attractor().Body().Position()
			earth := s.Orbiter().Body().Position()

			s.Update(1.0 / 60)

			Expect(s.Attractor().Body().Position()).To(Equal(sun))
			Expect(s.Orbiter().Body().Position()).NotTo(Equal(earth))
			Expect(s.Time()).To(BeNumerically("~", 1.0/60, 1e-12))
		})

		DescribeTable("ignores non-positive dt",
			func(dt float64) {
				earth := s.Orbiter().Body().Position()
				s.Update(dt)
				Expect(s.Orbiter().Body().Position()).To(Equal(earth))
				Expect(s.Time()).To(BeZero())
			},
			Entry("zero", 0.0),
			Entry("negative", -0.1),
			Entry("NaN", math.NaN()),
		)

		It("does nothing after Close", func() {
			s.Close()
			earth := s.Orbiter().Body().Position()
			s.Update(0.1)
			Expect(s.Orbiter().Body().Position()).To(Equal(earth))
		})

		It("returns the orbiter near its start after one period", func() {
			start := s.Orbiter().Body().Position()
			period := physics.OrbitalPeriod(cfg.Physics.G, cfg.Bodies.Attractor.Mass, 150)
			const steps = 2000
			for i := 0; i < steps; i++ {
				s.Update(period / steps)
			}

			end := s.Orbiter().Body().Position()
			Expect(end.Sub(start).Len()).To(BeNumerically("<", 1.5))
			Expect(physics.Separation(s.Attractor().Body(), s.Orbiter().Body())).To(BeNumerically("~", 150, 1.5))
		})
	})

	Describe("mutual gravity", func() {
		It("moves the attractor toward the orbiter", func() {
			cfg.Physics.Mutual = true
			var err error
			s, err = scene.New(dev, cfg)
			Expect(err).NotTo(HaveOccurred())

			s.Update(1)
			sun := s.Attractor().Body().Position()
			Expect(sun.X()).To(BeNumerically(">", 0))
			Expect(sun.Len()).To(BeNumerically("<", 1e-3))
		})
	})

	Describe("Close", func() {
		It("releases everything once", func() {
			var err error
			s, err = scene.New(dev, cfg)
			Expect(err).NotTo(HaveOccurred())

			s.Close()
			s.Close()
			Expect(dev.Programs).To(BeEmpty())
			Expect(dev.Meshes).To(BeEmpty())
			Expect(dev.Ops()).To(HaveLen(3 + 3)) // create + delete for program and two meshes
		})
	})
})

var _ = Describe("Planet", func() {
	It("requires a body", func() {
		_, err := scene.NewPlanet(rendertest.New(), scene.PlanetSpec{Name: "x", Stacks: 1, Slices: 1})
		Expect(errors.Is(err, physics.ErrInvalidState)).To(BeTrue())
	})

	It("rejects invalid tessellation", func() {
		body, err := physics.NewBody(1, mgl64.Vec3{}, mgl64.Vec3{}, physics.Single)
		Expect(err).NotTo(HaveOccurred())

		_, err = scene.NewPlanet(rendertest.New(), scene.PlanetSpec{Name: "x", Body: body})
		Expect(err).To(HaveOccurred())
	})

	It("draws at the body position and releases its mesh", func() {
		dev := rendertest.New()
		body, _ := physics.NewBody(1, mgl64.Vec3{3, 4, 5}, mgl64.Vec3{}, physics.Single)
		p, err := scene.NewPlanet(dev, scene.PlanetSpec{Name: "moon", Body: body, Stacks: 2, Slices: 4})
		Expect(err).NotTo(HaveOccurred())
		Expect(p.VertexCount()).To(Equal(15))

		prog, err := render.NewProgram(dev, render.DefaultPointColor)
		Expect(err).NotTo(HaveOccurred())
		Expect(prog.Use()).To(Succeed())

		frame := config.DefaultConfig().Frame(800, 600)
		Expect(p.Draw(prog, frame)).To(Succeed())
		last := dev.Calls[len(dev.Calls)-1]
		Expect(last.Op).To(Equal("DrawPoints"))
		Expect(last.Count).To(Equal(int32(15)))

		p.Release()
		p.Release()
		Expect(dev.Meshes).To(BeEmpty())
		Expect(p.Draw(prog, frame)).To(MatchError(render.ErrReleased))
	})
})
