package physics

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

const (
	// G is the gravitational constant in SI units.
	G = 6.67430e-11

	// DefaultMinDistSq is the squared separation below which a step is skipped.
	DefaultMinDistSq = 1e-5
)

// Params holds the process-wide integration constants.
type Params struct {
	G         float64
	MinDistSq float64
	Precision Precision
}

func DefaultParams() Params {
	return Params{
		G:         G,
		MinDistSq: DefaultMinDistSq,
		Precision: Single,
	}
}

// Step advances self by dt under the pull of attractor. The attractor is
// read only. A step with a non-positive or non-finite dt, a non-positive
// attractor mass, or a separation whose square is below p.MinDistSq leaves self untouched.
func Step(dt float64, attractor, self *Body, p Params) {
	if !validStep(dt, p.Precision) || !(attractor.mass > 0) {
		return
	}

	if p.Precision == Double {
		acc, ok := accel64(self.pos, attractor.pos, attractor.mass, p.G, p.MinDistSq)
		if !ok {
			return
		}
		self.vel = self.vel.Add(acc.Mul(dt))
		self.pos = self.pos.Add(self.vel.Mul(dt))
		return
	}

	h := float32(dt)
	acc, ok := accel32(narrow(self.pos), narrow(attractor.pos), float32(attractor.mass), float32(p.G), float32(p.MinDistSq))
	if !ok {
		return
	}
	vel := narrow(self.vel).Add(acc.Mul(h))
	pos := narrow(self.pos).Add(vel.Mul(h))
	self.vel = widen(vel)
	self.pos = widen(pos)
}

// StepMutual advances a and b by dt under their mutual attraction. Both
// accelerations are taken from the state before either body moves, so the
// result does not depend on argument order.
func StepMutual(dt float64, a, b *Body, p Params) {
	if !validStep(dt, p.Precision) {
		return
	}

	if p.Precision == Double {
		accA, okA := accel64(a.pos, b.pos, b.mass, p.G, p.MinDistSq)
		accB, okB := accel64(b.pos, a.pos, a.mass, p.G, p.MinDistSq)
		if !okA || !okB {
			return
		}
		a.vel = a.vel.Add(accA.Mul(dt))
		b.vel = b.vel.Add(accB.Mul(dt))
		a.pos = a.pos.Add(a.vel.Mul(dt))
		b.pos = b.pos.Add(b.vel.Mul(dt))
		return
	}

	h := float32(dt)
	g, eps := float32(p.G), float32(p.MinDistSq)
	posA, posB := narrow(a.pos), narrow(b.pos)
	accA, okA := accel32(posA, posB, float32(b.mass), g, eps)
	accB, okB := accel32(posB, posA, float32(a.mass), g, eps)
	if !okA || !okB {
		return
	}
	velA := narrow(a.vel).Add(accA.Mul(h))
	velB := narrow(b.vel).Add(accB.Mul(h))
	a.vel, a.pos = widen(velA), widen(posA.Add(velA.Mul(h)))
	b.vel, b.pos = widen(velB), widen(posB.Add(velB.Mul(h)))
}

// validStep reports whether dt is positive and finite at precision prec.
func validStep(dt float64, prec Precision) bool {
	if !(dt > 0) || math.IsInf(dt, 0) {
		return false
	}
	return prec == Double || !math.IsInf(float64(float32(dt)), 0)
}

// accel32 returns the acceleration at from toward a mass at to. ok is false
// when the squared separation is below minDistSq or not a number.
func accel32(from, to mgl32.Vec3, mass, g, minDistSq float32) (acc mgl32.Vec3, ok bool) {
	if !(mass > 0) {
		return mgl32.Vec3{}, true
	}
	r := to.Sub(from)
	d2 := r.Dot(r)
	if !(d2 >= minDistSq) {
		return mgl32.Vec3{}, false
	}
	f := g * mass / d2
	return r.Normalize().Mul(f), true
}

func accel64(from, to mgl64.Vec3, mass, g, minDistSq float64) (acc mgl64.Vec3, ok bool) {
	if !(mass > 0) {
		return mgl64.Vec3{}, true
	}
	r := to.Sub(from)
	d2 := r.Dot(r)
	if !(d2 >= minDistSq) {
		return mgl64.Vec3{}, false
	}
	f := g * mass / d2
	return r.Normalize().Mul(f), true
}
