package metrics

import "github.com/san-kum/planetsim/internal/sim"

// Standard returns one fresh instance of every orbit metric for a run with
// gravitational constant g.
func Standard(g float64) []sim.Metric {
	return []sim.Metric{
		NewEnergy(g),
		NewEnergyDrift(g),
		NewRadiusDrift(),
		NewAngularMomentumDrift(),
		NewPeriapsis(),
		NewApoapsis(),
		NewBound(g),
	}
}
