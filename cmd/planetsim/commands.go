package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"os"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/planetsim/internal/analysis"
	"github.com/san-kum/planetsim/internal/config"
	"github.com/san-kum/planetsim/internal/export"
	"github.com/san-kum/planetsim/internal/metrics"
	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/sim"
	"github.com/san-kum/planetsim/internal/storage"
	"github.com/spf13/cobra"
)

// newSimulator builds the headless simulator and its run settings for cfg.
func newSimulator(cfg *config.Config, withMetrics bool) (*sim.Simulator, sim.Config, error) {
	params, err := cfg.PhysicsParams()
	if err != nil {
		return nil, sim.Config{}, err
	}
	a, err := cfg.Bodies.Attractor.NewBody(params.Precision)
	if err != nil {
		return nil, sim.Config{}, fmt.Errorf("attractor: %w", err)
	}
	o, err := cfg.Bodies.Orbiter.NewBody(params.Precision)
	if err != nil {
		return nil, sim.Config{}, fmt.Errorf("orbiter: %w", err)
	}

	s := sim.New(a, o)
	if withMetrics {
		for _, m := range metrics.Standard(params.G) {
			s.AddMetric(m)
		}
	}
	return s, sim.Config{
		Dt:          cfg.Sim.Dt,
		Duration:    cfg.Sim.Duration,
		SampleEvery: cfg.Sim.SampleEvery,
		Mutual:      cfg.Physics.Mutual,
		Params:      params,
	}, nil
}

func simulate(ctx context.Context, cfg *config.Config) (*sim.Result, error) {
	s, simCfg, err := newSimulator(cfg, true)
	if err != nil {
		return nil, err
	}
	result, err := s.Run(ctx, simCfg)
	if err != nil {
		return nil, err
	}
	for _, e := range result.Errors {
		fmt.Fprintf(os.Stderr, "warning: %v\n", e)
	}
	return result, nil
}

func runMetadata(cfg *config.Config, name string) storage.RunMetadata {
	return storage.RunMetadata{
		Preset:    name,
		Dt:        cfg.Sim.Dt,
		Duration:  cfg.Sim.Duration,
		G:         cfg.Physics.G,
		Precision: cfg.Physics.Precision,
		Mutual:    cfg.Physics.Mutual,
		Attractor: storage.BodyMetadata{Name: cfg.Bodies.Attractor.Name, Mass: cfg.Bodies.Attractor.Mass},
		Orbiter:   storage.BodyMetadata{Name: cfg.Bodies.Orbiter.Name, Mass: cfg.Bodies.Orbiter.Mass},
	}
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	if err := st.Init(); err != nil {
		return err
	}

	fmt.Printf("running %s simulation...\n", name)
	start := time.Now()

	result, err := simulate(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	elapsed := time.Since(start)

	runID, err := st.Save(name, runMetadata(cfg, name), result)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", elapsed)
	fmt.Printf("run id: %s\n", runID)
	fmt.Printf("steps: %d\n", result.StepsTaken)
	fmt.Printf("samples: %d\n", len(result.Samples))
	fmt.Printf("energy drift: %.3e\n", result.EnergyDrift)
	fmt.Println("\nmetrics:")
	names := make([]string, 0, len(result.Metrics))
	for n := range result.Metrics {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		fmt.Printf("  %s: %.6g\n", n, result.Metrics[n])
	}

	return nil
}

func listRuns(cmd *cobra.Command, args []string) error {
	st := storage.New(dataDir)
	runs, err := st.List()
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		fmt.Println("no runs found")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tPRESET\tTIME\tDURATION\tDT\tPRECISION\tDRIFT")

	for _, run := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%.2f\t%.4f\t%s\t%.2e\n",
			run.ID,
			run.Preset,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			run.Duration,
			run.Dt,
			run.Precision,
			run.EnergyDrift,
		)
	}

	return w.Flush()
}

func parsePlane(s string) (analysis.Plane, error) {
	switch s {
	case "xy", "":
		return analysis.PlaneXY, nil
	case "xz":
		return analysis.PlaneXZ, nil
	case "yz":
		return analysis.PlaneYZ, nil
	}
	return 0, fmt.Errorf("unknown plane %q (want xy, xz or yz)", s)
}

func plotRun(cmd *cobra.Command, args []string) error {
	runID := args[0]
	p, err := parsePlane(plane)
	if err != nil {
		return err
	}

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	records, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}

	if len(records) == 0 {
		return fmt.Errorf("no data to plot")
	}

	fmt.Printf("run: %s\n", meta.ID)
	fmt.Printf("preset: %s\n", meta.Preset)
	fmt.Printf("samples: %d\n\n", len(records))

	radius := make([]float64, len(records))
	speed := make([]float64, len(records))
	for i, r := range records {
		radius[i] = r.Separation()
		speed[i] = r.OrbiterVel.Sub(r.AttractorVel).Len()
	}

	for _, series := range []struct {
		data    []float64
		caption string
	}{
		{radius, "separation vs time"},
		{speed, "relative speed vs time"},
	} {
		graph := asciigraph.Plot(series.data,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(series.caption),
		)
		fmt.Println(graph)
		fmt.Println()
	}

	fmt.Printf("orbit (%s plane)\n", plane)
	fmt.Println(analysis.OrbitToASCII(records, p, 61, 25))

	if svgFile == "" {
		return nil
	}
	f, err := os.Create(svgFile)
	if err != nil {
		return err
	}
	opts := export.DefaultOptions()
	opts.Plane = p
	if err := export.WriteOrbitSVG(f, records, opts); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", svgFile)
	return nil
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	records, err := st.LoadRecords(runID)
	if err != nil {
		return err
	}

	sum, err := analysis.Summarize(records)
	if err != nil {
		return err
	}

	fmt.Printf("orbit analysis: %s\n", meta.ID)
	fmt.Printf("preset: %s\n\n", meta.Preset)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "samples\t%d\n", sum.Samples)
	fmt.Fprintf(w, "duration\t%.4f\n", sum.Duration)
	fmt.Fprintf(w, "periapsis\t%.4f\n", sum.Periapsis)
	fmt.Fprintf(w, "apoapsis\t%.4f\n", sum.Apoapsis)
	fmt.Fprintf(w, "mean radius\t%.4f\n", sum.MeanRadius)
	fmt.Fprintf(w, "eccentricity\t%.5f\n", sum.Eccentricity)
	fmt.Fprintf(w, "period (fft)\t%s\n", formatPeriod(sum.FFTPeriod))
	fmt.Fprintf(w, "period (crossing)\t%s\n", formatPeriod(sum.CrossingPeriod))
	if meta.G > 0 && sum.MeanRadius > 0 {
		fmt.Fprintf(w, "period (circular)\t%s\n", formatPeriod(physics.OrbitalPeriod(meta.G, meta.Attractor.Mass, sum.MeanRadius)))
	}
	return w.Flush()
}

func formatPeriod(p float64) string {
	if p == 0 || math.IsInf(p, 0) {
		return "n/a"
	}
	return fmt.Sprintf("%.4f", p)
}

func exportRun(cmd *cobra.Command, args []string) error {
	runID := args[0]

	st := storage.New(dataDir)
	meta, err := st.Load(runID)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(meta)
}

// output opens outFile, or stdout when it is empty.
func output() (io.WriteCloser, error) {
	if outFile == "" {
		return nopCloser{os.Stdout}, nil
	}
	return os.Create(outFile)
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

func exportCSV(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	result, err := simulate(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	out, err := output()
	if err != nil {
		return err
	}
	if err := storage.WriteCSV(out, result); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if outFile != "" {
		fmt.Fprintf(os.Stderr, "exported %d samples to %s\n", len(result.Samples), outFile)
	}
	return nil
}

func exportJSON(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	result, err := simulate(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	meta := runMetadata(cfg, name)
	meta.Timestamp = time.Now()

	out, err := output()
	if err != nil {
		return err
	}
	if err := storage.ExportJSON(out, meta, result); err != nil {
		out.Close()
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}
	if outFile != "" {
		fmt.Fprintf(os.Stderr, "exported %d samples to %s\n", len(result.Samples), outFile)
	}
	return nil
}

func runConvergence(cmd *cobra.Command, args []string) error {
	cfg, name, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if len(dts) == 0 {
		return fmt.Errorf("no step sizes given")
	}

	s, simCfg, err := newSimulator(cfg, false)
	if err != nil {
		return err
	}

	start := time.Now()
	results, err := sim.NewSweep(s, dts, workers).Run(cmd.Context(), simCfg, func() []sim.Metric {
		return []sim.Metric{metrics.NewRadiusDrift(), metrics.NewAngularMomentumDrift()}
	})
	if err != nil {
		return err
	}

	// the smallest step is the reference solution
	ref := 0
	for i, d := range dts {
		if d < dts[ref] {
			ref = i
		}
	}
	refFinal := results[ref].Final()

	fmt.Printf("convergence: %s (%d runs in %v)\n\n", name, len(dts), time.Since(start).Round(time.Millisecond))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "DT\tSTEPS\tENERGY DRIFT\tRADIUS DRIFT\tL DRIFT\tFINAL ERROR")
	for i, res := range results {
		final := res.Final()
		errNorm := final.Orbiter.Position().Sub(refFinal.Orbiter.Position()).Len()
		fmt.Fprintf(w, "%g\t%d\t%.3e\t%.3e\t%.3e\t%.3e\n",
			dts[i],
			res.StepsTaken,
			res.EnergyDrift,
			res.Metrics["radius_drift"],
			res.Metrics["angular_momentum_drift"],
			errNorm,
		)
	}
	return w.Flush()
}

func showConfig(cmd *cobra.Command, args []string) error {
	cfg, _, err := resolveConfig(cmd)
	if err != nil {
		return err
	}
	if outFile != "" {
		if err := config.Save(outFile, cfg); err != nil {
			return err
		}
		fmt.Printf("saved config to %s\n", outFile)
		return nil
	}
	enc := yaml.NewEncoder(os.Stdout)
	enc.SetIndent(2)
	defer enc.Close()
	return enc.Encode(cfg)
}
