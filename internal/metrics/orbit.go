package metrics

import (
	"math"

	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/sim"
)

// RadiusDrift is the largest relative departure of the separation from its
// first observed value. For a circular orbit it measures integration error.
type RadiusDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewRadiusDrift() *RadiusDrift { return &RadiusDrift{} }

func (r *RadiusDrift) Name() string { return "radius_drift" }

func (r *RadiusDrift) Observe(s *sim.Sample) {
	d := s.Separation()
	if r.samples == 0 {
		r.initial = d
	}
	r.samples++
	if r.initial > 0 {
		r.maxDrift = math.Max(r.maxDrift, math.Abs(d-r.initial)/r.initial)
	}
}

func (r *RadiusDrift) Value() float64 { return r.maxDrift }

func (r *RadiusDrift) Reset() { *r = RadiusDrift{} }

// AngularMomentumDrift tracks the relative change of the specific angular
// momentum, which gravity alone conserves.
type AngularMomentumDrift struct {
	initial  float64
	maxDrift float64
	samples  int
}

func NewAngularMomentumDrift() *AngularMomentumDrift { return &AngularMomentumDrift{} }

func (a *AngularMomentumDrift) Name() string { return "angular_momentum_drift" }

func (a *AngularMomentumDrift) Observe(s *sim.Sample) {
	h := physics.AngularMomentum(&s.Attractor, &s.Orbiter)
	if a.samples == 0 {
		a.initial = h
	}
	a.samples++
	if a.initial != 0 {
		a.maxDrift = math.Max(a.maxDrift, math.Abs(h-a.initial)/math.Abs(a.initial))
	}
}

func (a *AngularMomentumDrift) Value() float64 { return a.maxDrift }

func (a *AngularMomentumDrift) Reset() { *a = AngularMomentumDrift{} }

// Periapsis is the closest observed approach.
type Periapsis struct {
	min float64
}

func NewPeriapsis() *Periapsis { return &Periapsis{min: math.Inf(1)} }

func (p *Periapsis) Name() string { return "periapsis" }

func (p *Periapsis) Observe(s *sim.Sample) { p.min = math.Min(p.min, s.Separation()) }

func (p *Periapsis) Value() float64 {
	if math.IsInf(p.min, 1) {
		return 0
	}
	return p.min
}

func (p *Periapsis) Reset() { p.min = math.Inf(1) }

// Apoapsis is the farthest observed separation.
type Apoapsis struct {
	max float64
}

func NewApoapsis() *Apoapsis { return &Apoapsis{} }

func (a *Apoapsis) Name() string { return "apoapsis" }

func (a *Apoapsis) Observe(s *sim.Sample) { a.max = math.Max(a.max, s.Separation()) }

func (a *Apoapsis) Value() float64 { return a.max }

func (a *Apoapsis) Reset() { a.max = 0 }
