package sim

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Sweep runs the same initial state once per step size, concurrently. It is
// used to compare integration error against dt.
type Sweep struct {
	base    *Simulator
	dts     []float64
	workers int
}

func NewSweep(s *Simulator, dts []float64, workers int) *Sweep {
	if workers < 1 {
		workers = 1
	}
	return &Sweep{base: s, dts: dts, workers: workers}
}

// Run returns one result per dt, in the order given. Each run gets fresh
// metric instances from newMetrics, which may be nil.
func (e *Sweep) Run(ctx context.Context, cfg Config, newMetrics func() []Metric) ([]*Result, error) {
	results := make([]*Result, len(e.dts))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, dt := range e.dts {
		i, dt := i, dt
		g.Go(func() error {
			cfgCopy := cfg
			cfgCopy.Dt = dt

			sim := New(e.base.attractor, e.base.orbiter)
			if newMetrics != nil {
				for _, m := range newMetrics() {
					sim.AddMetric(m)
				}
			}

			res, err := sim.Run(ctx, cfgCopy)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
