package analysis

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/sim"
	"github.com/san-kum/planetsim/internal/storage"
)

func orbitRecords(t *testing.T, speedScale, periods float64, tilt float64) ([]storage.Record, float64) {
	t.Helper()
	const m, r, v = 100.0, 10.0, 1.0
	g := physics.CircularOrbitG(m, r, v)
	vel := mgl64.Vec3{0, v * speedScale * math.Cos(tilt), v * speedScale * math.Sin(tilt)}

	sun, _ := physics.NewBody(m, mgl64.Vec3{}, mgl64.Vec3{}, physics.Double)
	orb, _ := physics.NewBody(1, mgl64.Vec3{r, 0, 0}, vel, physics.Double)
	period := physics.OrbitalPeriod(g, m, r)

	result, err := sim.New(sun, orb).Run(context.Background(), sim.Config{
		Dt:          period / 2000,
		Duration:    periods * period,
		SampleEvery: 8,
		Params:      physics.Params{G: g, MinDistSq: physics.DefaultMinDistSq, Precision: physics.Double},
	})
	if err != nil {
		t.Fatal(err)
	}
	return storage.Records(result), period
}

func TestDominantPeriod_Sine(t *testing.T) {
	n, dt := 256, 0.1
	times := make([]float64, n)
	values := make([]float64, n)
	for i := range values {
		times[i] = float64(i) * dt
		values[i] = 3 + math.Cos(2*math.Pi*times[i]/6.4)
	}

	p, err := DominantPeriod(times, values)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p-6.4) > 1e-6 {
		t.Errorf("expected period 6.4, got %f", p)
	}
}

func TestDominantPeriod_Errors(t *testing.T) {
	tests := []struct {
		name   string
		times  []float64
		values []float64
		want   error
	}{
		{"too short", []float64{0, 1}, []float64{1, 2}, ErrTooFewSamples},
		{"length mismatch", []float64{0, 1, 2, 3}, []float64{1, 2, 3}, ErrTooFewSamples},
		{"non uniform", []float64{0, 1, 2, 4}, []float64{1, 2, 1, 2}, ErrNonUniform},
		{"not increasing", []float64{0, 0, 0, 0}, []float64{1, 2, 1, 2}, ErrNonUniform},
		{"constant", []float64{0, 1, 2, 3, 4, 5}, []float64{7, 7, 7, 7, 7, 7}, ErrNoPeriod},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := DominantPeriod(tt.times, tt.values); !errors.Is(err, tt.want) {
				t.Errorf("expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestPowerSpectrum(t *testing.T) {
	if PowerSpectrum(nil) != nil {
		t.Error("expected nil spectrum for no data")
	}
	ps := PowerSpectrum([]float64{1, -1, 1, -1, 1, -1, 1, -1})
	if len(ps) != 5 {
		t.Fatalf("expected 5 bins, got %d", len(ps))
	}
	if math.Abs(ps[4]-8) > 1e-9 || ps[0] > 1e-9 {
		t.Errorf("unexpected spectrum %v", ps)
	}
}

func TestCrossingPeriod(t *testing.T) {
	records, period := orbitRecords(t, 1, 3.2, 0)

	p, err := CrossingPeriod(records)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p-period)/period > 0.01 {
		t.Errorf("expected period %f, got %f", period, p)
	}
}

func TestCrossingPeriod_Inclined(t *testing.T) {
	records, period := orbitRecords(t, 1, 1.5, math.Pi/3)

	p, err := CrossingPeriod(records)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(p-period)/period > 0.01 {
		t.Errorf("expected period %f, got %f", period, p)
	}
}

func TestCrossingPeriod_Incomplete(t *testing.T) {
	records, _ := orbitRecords(t, 1, 0.6, 0)
	if _, err := CrossingPeriod(records); !errors.Is(err, ErrNoPeriod) {
		t.Errorf("expected ErrNoPeriod, got %v", err)
	}
	if _, err := CrossingPeriod(records[:2]); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("expected ErrTooFewSamples, got %v", err)
	}
}

func TestSummarize_Circular(t *testing.T) {
	records, period := orbitRecords(t, 1, 3, 0)

	s, err := Summarize(records)
	if err != nil {
		t.Fatal(err)
	}
	if s.Eccentricity > 0.01 {
		t.Errorf("circular orbit eccentricity %f", s.Eccentricity)
	}
	if math.Abs(s.MeanRadius-10) > 0.1 {
		t.Errorf("mean radius %f", s.MeanRadius)
	}
	if math.Abs(s.FFTPeriod-period)/period > 0.03 {
		t.Errorf("fft period %f, want about %f", s.FFTPeriod, period)
	}
	if math.Abs(s.CrossingPeriod-period)/period > 0.01 {
		t.Errorf("crossing period %f, want about %f", s.CrossingPeriod, period)
	}
}

func TestSummarize_Elliptical(t *testing.T) {
	records, _ := orbitRecords(t, 0.8, 3, 0)

	s, err := Summarize(records)
	if err != nil {
		t.Fatal(err)
	}
	// Launched at apoapsis with 0.8 of circular speed: e = 1 - 0.8².
	if math.Abs(s.Eccentricity-0.36) > 0.02 {
		t.Errorf("expected eccentricity about 0.36, got %f", s.Eccentricity)
	}
	if math.Abs(s.Apoapsis-10) > 0.05 {
		t.Errorf("expected apoapsis 10, got %f", s.Apoapsis)
	}
	if s.CrossingPeriod == 0 {
		t.Error("expected a crossing period")
	}
}

func TestSummarize_Empty(t *testing.T) {
	if _, err := Summarize(nil); !errors.Is(err, ErrTooFewSamples) {
		t.Errorf("expected ErrTooFewSamples, got %v", err)
	}
}

func TestOrbitToASCII(t *testing.T) {
	records, _ := orbitRecords(t, 1, 1, 0)

	out := OrbitToASCII(records, PlaneXY, 41, 21)
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) != 21 {
		t.Fatalf("expected 21 lines, got %d", len(lines))
	}
	if !strings.Contains(lines[10], "@") {
		t.Errorf("attractor not at the centre row: %q", lines[10])
	}
	if strings.Count(out, "•") < 20 {
		t.Error("expected orbit points to be plotted")
	}

	if OrbitToASCII(nil, PlaneXY, 40, 20) != "" {
		t.Error("expected empty output for no records")
	}
	flat := OrbitToASCII(records, PlaneYZ, 41, 21)
	if strings.Count(flat, "•") >= strings.Count(out, "•") {
		t.Error("edge-on projection should cover fewer cells")
	}
}
