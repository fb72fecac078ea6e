// Package physics integrates a body against the gravity of an attractor.
//
// The integrator is a semi-implicit (symplectic) Euler step: velocity is
// updated from the gravitational acceleration first, then position is
// advanced with the new velocity.
//
//   - [Body]: mass, position and velocity of one gravitating body
//   - [Step]: one-directional pull of an attractor on a body
//   - [StepMutual]: symmetric pull between two bodies
//   - [Params]: gravitational constant, minimum separation and precision
//
// # Precision
//
// Arithmetic runs in float32 by default ([Single]). [Double] runs the same
// step in float64 for long-duration stability:
//
//	p := physics.DefaultParams()
//	p.Precision = physics.Double
//	physics.Step(dt, sun, earth, p)
package physics
