package physics

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Body is a point mass. Mass is fixed at construction; position and
// velocity change only through Step and StepMutual.
//
// State is held in float64. Under the Single policy every component is
// rounded to float32 on construction and stays exactly representable in
// float32 afterwards, so the stored values match a pure float32 run.
type Body struct {
	mass float64
	pos  mgl64.Vec3
	vel  mgl64.Vec3
}

// NewBody validates the initial state and returns a body rounded to prec.
func NewBody(mass float64, pos, vel mgl64.Vec3, prec Precision) (*Body, error) {
	if !(mass > 0) || math.IsInf(mass, 0) {
		return nil, fmt.Errorf("%w: got %g", ErrInvalidMass, mass)
	}
	if !finite(pos) {
		return nil, fmt.Errorf("%w: position %v", ErrInvalidState, pos)
	}
	if !finite(vel) {
		return nil, fmt.Errorf("%w: velocity %v", ErrInvalidState, vel)
	}

	b := &Body{mass: mass, pos: pos, vel: vel}
	if prec == Single {
		b.mass = float64(float32(mass))
		b.pos = widen(narrow(pos))
		b.vel = widen(narrow(vel))
		if !(b.mass > 0) || math.IsInf(b.mass, 0) {
			return nil, fmt.Errorf("%w: %g out of float32 range", ErrInvalidMass, mass)
		}
		if !b.IsValid() {
			return nil, fmt.Errorf("%w: %v, %v out of float32 range", ErrInvalidState, pos, vel)
		}
	}
	return b, nil
}

func (b *Body) Mass() float64          { return b.mass }
func (b *Body) Position() mgl64.Vec3   { return b.pos }
func (b *Body) Velocity() mgl64.Vec3   { return b.vel }
func (b *Body) Position32() mgl32.Vec3 { return narrow(b.pos) }

// Clone returns an independent copy of b.
func (b *Body) Clone() *Body {
	c := *b
	return &c
}

// IsValid reports whether position and velocity are finite.
func (b *Body) IsValid() bool {
	return finite(b.pos) && finite(b.vel)
}

func (b *Body) String() string {
	return fmt.Sprintf("body{m=%g pos=%v vel=%v}", b.mass, b.pos, b.vel)
}

func narrow(v mgl64.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{float32(v[0]), float32(v[1]), float32(v[2])}
}

func widen(v mgl32.Vec3) mgl64.Vec3 {
	return mgl64.Vec3{float64(v[0]), float64(v[1]), float64(v[2])}
}

func finite(v mgl64.Vec3) bool {
	for _, c := range v {
		if math.IsNaN(c) || math.IsInf(c, 0) {
			return false
		}
	}
	return true
}
