package config

import (
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/go-cmp/cmp"

	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/render"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
	if cfg.Physics.G != physics.G {
		t.Errorf("expected G %g, got %g", physics.G, cfg.Physics.G)
	}
	if cfg.Render.Stacks != 18 || cfg.Render.Slices != 36 {
		t.Errorf("expected 18x36 tessellation, got %dx%d", cfg.Render.Stacks, cfg.Render.Slices)
	}
	if cfg.Window.Width != 800 || cfg.Window.Height != 600 {
		t.Errorf("expected 800x600 window, got %dx%d", cfg.Window.Width, cfg.Window.Height)
	}
	if cfg.Bodies.Attractor.Mass != 332946 {
		t.Errorf("expected sun mass 332946, got %g", cfg.Bodies.Attractor.Mass)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "planetsim.yaml")
	want, err := GetPreset("elliptical")
	if err != nil {
		t.Fatal(err)
	}

	if err := Save(path, want); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_PartialOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	data := "physics:\n  precision: double\nbodies:\n  orbiter:\n    velocity: [0, 20, 0]\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	want := DefaultConfig()
	want.Physics.Precision = "double"
	want.Bodies.Orbiter.Velocity = []float64{0, 20, 0}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("unexpected config (-want +got):\n%s", diff)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := Load(filepath.Join(dir, "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(dir, "bad.yaml")
	os.WriteFile(bad, []byte("physics: [unclosed"), 0644)
	if _, err := Load(bad); err == nil {
		t.Error("expected parse error")
	}

	invalid := filepath.Join(dir, "invalid.yaml")
	os.WriteFile(invalid, []byte("render:\n  stacks: 0\n"), 0644)
	_, err := Load(invalid)
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"zero g", func(c *Config) { c.Physics.G = 0 }, "physics.g"},
		{"nan min dist", func(c *Config) { c.Physics.MinDistSq = math.NaN() }, "physics.min_dist_sq"},
		{"bad precision", func(c *Config) { c.Physics.Precision = "half" }, "physics.precision"},
		{"zero attractor mass", func(c *Config) { c.Bodies.Attractor.Mass = 0 }, "bodies.attractor.mass"},
		{"negative orbiter mass", func(c *Config) { c.Bodies.Orbiter.Mass = -1 }, "bodies.orbiter.mass"},
		{"short position", func(c *Config) { c.Bodies.Orbiter.Position = []float64{1, 2} }, "bodies.orbiter.position"},
		{"missing velocity", func(c *Config) { c.Bodies.Attractor.Velocity = nil }, "bodies.attractor.velocity"},
		{"zero stacks", func(c *Config) { c.Render.Stacks = 0 }, "render.stacks"},
		{"negative point size", func(c *Config) { c.Render.PointSize = -1 }, "render.point_size"},
		{"short color", func(c *Config) { c.Render.ClearColor = []float32{1} }, "render.clear_color"},
		{"nan point color", func(c *Config) { c.Render.PointColor[1] = float32(math.NaN()) }, "render.point_color[1]"},
		{"inf clear color", func(c *Config) { c.Render.ClearColor[0] = float32(math.Inf(1)) }, "render.clear_color[0]"},
		{"short eye", func(c *Config) { c.Camera.Eye = []float32{0, 0} }, "camera.eye"},
		{"eye on target", func(c *Config) { c.Camera.Target = []float32{0, 0, 300} }, "camera.eye and camera.target"},
		{"up along view", func(c *Config) { c.Camera.Up = []float32{0, 0, -2} }, "camera.up"},
		{"fov too wide", func(c *Config) { c.Camera.FovY = 180 }, "camera.fov_y"},
		{"negative aspect", func(c *Config) { c.Camera.Aspect = -1 }, "camera.aspect"},
		{"far before near", func(c *Config) { c.Camera.Far = 0.05 }, "camera planes"},
		{"zero width", func(c *Config) { c.Window.Width = 0 }, "window size"},
		{"zero dt", func(c *Config) { c.Sim.Dt = 0 }, "sim.dt"},
		{"zero duration", func(c *Config) { c.Sim.Duration = 0 }, "sim.duration"},
		{"negative stride", func(c *Config) { c.Sim.SampleEvery = -1 }, "sim.sample_every"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
			if !strings.Contains(err.Error(), tt.field) {
				t.Errorf("error %q does not mention %s", err, tt.field)
			}
		})
	}
}

func TestValidate_ReportsAll(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Physics.G = -1
	cfg.Render.Slices = 0
	cfg.Sim.Dt = 0

	err := cfg.Validate()
	for _, field := range []string{"physics.g", "render.stacks", "sim.dt"} {
		if !strings.Contains(err.Error(), field) {
			t.Errorf("expected %s in %q", field, err)
		}
	}
}

func TestGetPreset(t *testing.T) {
	for _, name := range ListPresets() {
		cfg, err := GetPreset(name)
		if err != nil {
			t.Errorf("preset %s: %v", name, err)
			continue
		}
		if cfg.Physics.G <= 0 {
			t.Errorf("preset %s: non-positive G", name)
		}
	}

	cfg, _ := GetPreset("circular")
	want := 29.78 * 29.78 * 150 / 332946
	if math.Abs(cfg.Physics.G-want) > 1e-12 {
		t.Errorf("circular G = %g, want %g", cfg.Physics.G, want)
	}
	if math.Abs(cfg.Sim.Duration-2*math.Pi*150/29.78) > 1e-9 {
		t.Errorf("circular duration = %g, want one period", cfg.Sim.Duration)
	}
}

func TestGetPreset_NotFound(t *testing.T) {
	if _, err := GetPreset("nonexistent"); err == nil {
		t.Error("expected error for nonexistent preset")
	}
}

func TestGetPreset_Independent(t *testing.T) {
	a, _ := GetPreset("reference")
	a.Bodies.Orbiter.Position[0] = 999

	b, _ := GetPreset("reference")
	if b.Bodies.Orbiter.Position[0] != 150 {
		t.Error("presets share state between calls")
	}
}

func TestListPresets(t *testing.T) {
	names := ListPresets()
	if len(names) != len(Presets) {
		t.Fatalf("expected %d presets, got %d", len(Presets), len(names))
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] > names[i] {
			t.Errorf("presets not sorted: %v", names)
		}
	}
}

func TestClone(t *testing.T) {
	a := DefaultConfig()
	b := a.Clone()
	b.Camera.Eye[2] = 1
	b.Render.PointColor[0] = 0
	b.Bodies.Attractor.Velocity[1] = 5

	if diff := cmp.Diff(DefaultConfig(), a); diff != "" {
		t.Errorf("clone aliases original (-want +got):\n%s", diff)
	}
}

func TestPhysicsParams(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Physics.Precision = "f64"

	p, err := cfg.PhysicsParams()
	if err != nil {
		t.Fatal(err)
	}
	want := physics.Params{G: physics.G, MinDistSq: 1e-5, Precision: physics.Double}
	if p != want {
		t.Errorf("got %+v, want %+v", p, want)
	}

	cfg.Physics.Precision = "quad"
	if _, err := cfg.PhysicsParams(); err == nil {
		t.Error("expected error for unknown precision")
	}
}

func TestBodyConfig_NewBody(t *testing.T) {
	cfg := DefaultConfig()
	earth, err := cfg.Bodies.Orbiter.NewBody(physics.Single)
	if err != nil {
		t.Fatal(err)
	}
	if earth.Mass() != 1 || earth.Position()[0] != 150 {
		t.Errorf("unexpected body %v", earth)
	}

	bad := cfg.Bodies.Orbiter
	bad.Mass = 0
	if _, err := bad.NewBody(physics.Single); !errors.Is(err, physics.ErrInvalidMass) {
		t.Errorf("expected ErrInvalidMass, got %v", err)
	}

	bad = cfg.Bodies.Orbiter
	bad.Position = nil
	if _, err := bad.NewBody(physics.Single); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestFrame(t *testing.T) {
	cfg := DefaultConfig()
	f := cfg.Frame(800, 600)

	want := render.Frame{
		Camera: render.Camera{
			Eye:    mgl32.Vec3{0, 0, 300},
			Target: mgl32.Vec3{0, 0, 0},
			Up:     mgl32.Vec3{0, 1, 0},
		},
		Projection: render.Projection{
			FovY:   mgl32.DegToRad(45),
			Aspect: float32(800) / float32(600),
			Near:   0.1,
			Far:    1000,
		},
		ClearColor: render.Color{R: 0.1, G: 0.1, B: 0.2, A: 1},
		PointSize:  2,
	}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("frame mismatch (-want +got):\n%s", diff)
	}

	cfg.Camera.Aspect = 2
	if got := cfg.Frame(800, 600).Projection.Aspect; got != 2 {
		t.Errorf("fixed aspect ignored, got %g", got)
	}
	cfg.Camera.Aspect = 0
	if got := cfg.Frame(0, 0).Projection.Aspect; got != 1 {
		t.Errorf("zero framebuffer aspect = %g, want 1", got)
	}
}

func TestPointColor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Render.PointColor = []float32{1, 0.5, 0}
	got := cfg.PointColor()
	want := render.Color{R: 1, G: 0.5, B: 0, A: 1}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}
