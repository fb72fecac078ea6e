package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/planetsim/internal/logging"
	"github.com/san-kum/planetsim/internal/physics"
)

// Simulator runs the two-body integration headless with a fixed step. The
// bodies passed to New are the initial state and are never mutated.
type Simulator struct {
	attractor *physics.Body
	orbiter   *physics.Body
	metrics   []Metric
	observers []Observer
}

func New(attractor, orbiter *physics.Body) *Simulator {
	return &Simulator{
		attractor: attractor,
		orbiter:   orbiter,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
	}
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Run integrates for cfg.Duration. Metrics and observers see every step;
// only every cfg.SampleEvery-th step (plus the last) is kept in the result.
// On cancellation the partial result is returned with ctx.Err().
func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}

	steps := int(cfg.Duration / cfg.Dt)
	stride := cfg.SampleEvery
	if stride < 1 {
		stride = 1
	}

	result := &Result{
		Samples: make([]Sample, 0, steps/stride+2),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	sun := s.attractor.Clone()
	earth := s.orbiter.Clone()
	g := cfg.Params.G

	cur := Sample{Attractor: *sun, Orbiter: *earth}
	result.Samples = append(result.Samples, cur)
	s.observe(&cur)

	initialEnergy := physics.OrbitalEnergy(sun, earth, g)
	log := logging.Logger()
	log.Debug("run started", "steps", steps, "dt", cfg.Dt, "stride", stride, "mutual", cfg.Mutual)

	for i := 1; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		if cfg.Mutual {
			physics.StepMutual(cfg.Dt, sun, earth, cfg.Params)
		} else {
			physics.Step(cfg.Dt, sun, earth, cfg.Params)
		}
		t := float64(i) * cfg.Dt

		if !earth.IsValid() || !sun.IsValid() {
			err := SimError{Time: t, Step: i, Message: "invalid state (NaN/Inf)", Err: ErrUnstable}
			result.Errors = append(result.Errors, err)
			log.Warn("run aborted", "err", err)
			break
		}

		result.StepsTaken = i
		cur = Sample{Time: t, Step: i, Attractor: *sun, Orbiter: *earth}
		s.observe(&cur)
		if i%stride == 0 || i == steps {
			result.Samples = append(result.Samples, cur)
		}
	}

	finalEnergy := physics.OrbitalEnergy(sun, earth, g)
	if initialEnergy != 0 {
		result.EnergyDrift = math.Abs(finalEnergy-initialEnergy) / math.Abs(initialEnergy)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	log.Debug("run finished", "steps", result.StepsTaken, "samples", len(result.Samples), "energy_drift", result.EnergyDrift)
	return result, nil
}

func (s *Simulator) observe(cur *Sample) {
	for _, m := range s.metrics {
		m.Observe(cur)
	}
	for _, obs := range s.observers {
		obs.OnStep(cur)
	}
}

// RunWithCallback steps until the callback returns false, the duration is
// reached, or ctx is done. Nothing is recorded.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(*Sample) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}

	sun := s.attractor.Clone()
	earth := s.orbiter.Clone()
	steps := int(cfg.Duration / cfg.Dt)

	for i := 0; i <= steps; i++ {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		cur := Sample{Time: float64(i) * cfg.Dt, Step: i, Attractor: *sun, Orbiter: *earth}
		if !callback(&cur) || i == steps {
			return nil
		}

		if cfg.Mutual {
			physics.StepMutual(cfg.Dt, sun, earth, cfg.Params)
		} else {
			physics.Step(cfg.Dt, sun, earth, cfg.Params)
		}
		if !earth.IsValid() {
			return SimError{Time: cur.Time + cfg.Dt, Step: i + 1, Message: "invalid state (NaN/Inf)", Err: ErrUnstable}
		}
	}
	return nil
}

func validateConfig(cfg Config) error {
	if !(cfg.Dt > 0) || math.IsInf(cfg.Dt, 0) {
		return fmt.Errorf("%w: dt must be positive, got %f", ErrInvalidConfig, cfg.Dt)
	}
	if !(cfg.Duration > 0) || math.IsInf(cfg.Duration, 0) {
		return fmt.Errorf("%w: duration must be positive, got %f", ErrInvalidConfig, cfg.Duration)
	}
	if cfg.Duration/cfg.Dt > maxSteps {
		return fmt.Errorf("%w: %g steps exceeds the limit of %d", ErrInvalidConfig, cfg.Duration/cfg.Dt, maxSteps)
	}
	if !(cfg.Params.G > 0) {
		return fmt.Errorf("%w: G must be positive, got %g", ErrInvalidConfig, cfg.Params.G)
	}
	return nil
}

const maxSteps = 50_000_000
