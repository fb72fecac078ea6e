package physics

import "math"

// Separation is the distance between the centres of a and b.
func Separation(a, b *Body) float64 {
	return b.pos.Sub(a.pos).Len()
}

func KineticEnergy(b *Body) float64 {
	return 0.5 * b.mass * b.vel.Dot(b.vel)
}

// PotentialEnergy of the pair; zero when the bodies coincide.
func PotentialEnergy(a, b *Body, g float64) float64 {
	r := Separation(a, b)
	if r == 0 {
		return 0
	}
	return -g * a.mass * b.mass / r
}

// OrbitalEnergy is the specific orbital energy of orbiter relative to a
// fixed attractor: v²/2 - GM/r.
func OrbitalEnergy(attractor, orbiter *Body, g float64) float64 {
	r := Separation(attractor, orbiter)
	v2 := orbiter.vel.Sub(attractor.vel).Dot(orbiter.vel.Sub(attractor.vel))
	if r == 0 {
		return 0.5 * v2
	}
	return 0.5*v2 - g*attractor.mass/r
}

// AngularMomentum is the magnitude of the specific angular momentum of
// orbiter about attractor.
func AngularMomentum(attractor, orbiter *Body) float64 {
	r := orbiter.pos.Sub(attractor.pos)
	v := orbiter.vel.Sub(attractor.vel)
	return r.Cross(v).Len()
}

// CircularSpeed is the speed of a circular orbit of radius r about mass m.
func CircularSpeed(g, m, r float64) float64 {
	if r <= 0 || g*m <= 0 {
		return 0
	}
	return math.Sqrt(g * m / r)
}

// OrbitalPeriod is the period of a circular orbit of radius r about mass m.
func OrbitalPeriod(g, m, r float64) float64 {
	v := CircularSpeed(g, m, r)
	if v == 0 {
		return math.Inf(1)
	}
	return 2 * math.Pi * r / v
}

// CircularOrbitG returns the gravitational constant that makes speed v a
// circular orbit of radius r about mass m. Scenes authored in arbitrary
// units use it to pick a G that keeps the orbiter bound.
func CircularOrbitG(m, r, v float64) float64 {
	if m <= 0 {
		return 0
	}
	return v * v * r / m
}
