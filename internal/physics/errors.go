package physics

import "errors"

var (
	// ErrInvalidMass indicates a non-positive or non-finite mass.
	ErrInvalidMass = errors.New("physics: mass must be positive and finite")

	// ErrInvalidState indicates a position or velocity with NaN or Inf components.
	ErrInvalidState = errors.New("physics: invalid state (NaN or Inf detected)")

	// ErrUnknownPrecision indicates an unrecognised precision policy name.
	ErrUnknownPrecision = errors.New("physics: unknown precision")
)
