package sim

import (
	"errors"
	"fmt"

	"github.com/san-kum/planetsim/internal/physics"
)

// Sample is a snapshot of both bodies at one instant.
type Sample struct {
	Time      float64
	Step      int
	Attractor physics.Body
	Orbiter   physics.Body
}

// Separation is the distance between the two bodies.
func (s *Sample) Separation() float64 {
	return physics.Separation(&s.Attractor, &s.Orbiter)
}

type Metric interface {
	Name() string
	Observe(s *Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s *Sample)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(s *Sample)

func (f ObserverFunc) OnStep(s *Sample) { f(s) }

type Config struct {
	Dt       float64
	Duration float64
	// SampleEvery records every n-th step; zero or one records all.
	SampleEvery int
	Mutual      bool
	Params      physics.Params
}

type Result struct {
	Samples     []Sample
	Metrics     map[string]float64
	EnergyDrift float64
	StepsTaken  int
	Errors      []error
}

// Final returns the last recorded sample.
func (r *Result) Final() *Sample {
	if len(r.Samples) == 0 {
		return nil
	}
	return &r.Samples[len(r.Samples)-1]
}

var (
	// ErrUnstable indicates the orbiter state became NaN or Inf.
	ErrUnstable = errors.New("sim: simulation unstable (state diverged)")

	ErrInvalidConfig = errors.New("sim: invalid run configuration")
)

// SimError marks the step at which a run became unusable.
type SimError struct {
	Time    float64
	Step    int
	Message string
	Err     error
}

func (e SimError) Unwrap() error { return e.Err }

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
