// Package scene ties bodies, meshes and the shared program into the object
// the frame loop drives: Update once per frame, then Render.
package scene

import (
	"errors"
	"fmt"

	"github.com/san-kum/planetsim/internal/config"
	"github.com/san-kum/planetsim/internal/logging"
	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/render"
)

var ErrClosed = errors.New("scene: closed")

type Scene struct {
	dev       render.Device
	prog      *render.Program
	params    physics.Params
	mutual    bool
	attractor *Planet
	orbiter   *Planet

	time   float64
	frames int
	closed bool
}

// New builds the program and both planets from cfg. Anything created before
// a failure is released before returning.
func New(dev render.Device, cfg *config.Config) (*Scene, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	params, err := cfg.PhysicsParams()
	if err != nil {
		return nil, err
	}

	sunBody, err := cfg.Bodies.Attractor.NewBody(params.Precision)
	if err != nil {
		return nil, err
	}
	earthBody, err := cfg.Bodies.Orbiter.NewBody(params.Precision)
	if err != nil {
		return nil, err
	}

	prog, err := render.NewProgram(dev, cfg.PointColor())
	if err != nil {
		return nil, err
	}

	s := &Scene{dev: dev, prog: prog, params: params, mutual: cfg.Physics.Mutual}
	s.attractor, err = NewPlanet(dev, PlanetSpec{
		Name:   cfg.Bodies.Attractor.Name,
		Body:   sunBody,
		Stacks: cfg.Render.Stacks,
		Slices: cfg.Render.Slices,
		Hidden: cfg.Bodies.Attractor.Hidden,
	})
	if err != nil {
		s.Close()
		return nil, err
	}
	s.orbiter, err = NewPlanet(dev, PlanetSpec{
		Name:   cfg.Bodies.Orbiter.Name,
		Body:   earthBody,
		Stacks: cfg.Render.Stacks,
		Slices: cfg.Render.Slices,
		Hidden: cfg.Bodies.Orbiter.Hidden,
	})
	if err != nil {
		s.Close()
		return nil, err
	}

	logging.Logger().Info("scene ready",
		"attractor", s.attractor.Name(),
		"orbiter", s.orbiter.Name(),
		"vertices", s.orbiter.VertexCount(),
		"precision", params.Precision)
	return s, nil
}

func (s *Scene) Attractor() *Planet     { return s.attractor }
func (s *Scene) Orbiter() *Planet       { return s.orbiter }
func (s *Scene) Params() physics.Params { return s.params }

// Time is the accumulated simulated time.
func (s *Scene) Time() float64 { return s.time }

// Frames counts Render calls that reached the device.
func (s *Scene) Frames() int { return s.frames }

// Update advances the orbiter by dt against the attractor. Non-positive dt
// leaves the scene unchanged.
func (s *Scene) Update(dt float64) {
	if s.closed || !(dt > 0) {
		return
	}
	if s.mutual {
		physics.StepMutual(dt, s.attractor.body, s.orbiter.body, s.params)
	} else {
		physics.Step(dt, s.attractor.body, s.orbiter.body, s.params)
	}
	s.time += dt
}

// Render clears the frame, binds the program and draws the attractor then
// the orbiter.
func (s *Scene) Render(f render.Frame) error {
	if s.closed {
		return ErrClosed
	}
	s.dev.Clear(f.ClearColor)
	if f.PointSize > 0 {
		s.dev.SetPointSize(f.PointSize)
	}
	if err := s.prog.Use(); err != nil {
		return err
	}
	for _, p := range []*Planet{s.attractor, s.orbiter} {
		if err := p.Draw(s.prog, f); err != nil {
			return err
		}
	}
	s.frames++
	return nil
}

// Close releases every GPU resource the scene owns. It is safe to call more
// than once.
func (s *Scene) Close() {
	if s.closed {
		return
	}
	s.closed = true
	if s.orbiter != nil {
		s.orbiter.Release()
	}
	if s.attractor != nil {
		s.attractor.Release()
	}
	s.prog.Release()
	logging.Logger().Debug("scene closed", "frames", s.frames, "time", fmt.Sprintf("%.3f", s.time))
}
