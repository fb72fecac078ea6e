package config

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/render"
)

const (
	DefaultStacks    = 18
	DefaultSlices    = 36
	DefaultWidth     = 800
	DefaultHeight    = 600
	DefaultFovY      = 45.0
	DefaultNear      = 0.1
	DefaultFar       = 1000.0
	DefaultPointSize = 2.0
	DefaultDt        = 0.01
	DefaultDuration  = 100.0
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Physics PhysicsConfig `yaml:"physics"`
	Bodies  BodiesConfig  `yaml:"bodies"`
	Render  RenderConfig  `yaml:"render"`
	Camera  CameraConfig  `yaml:"camera"`
	Window  WindowConfig  `yaml:"window"`
	Sim     SimConfig     `yaml:"sim"`
}

type PhysicsConfig struct {
	G         float64 `yaml:"g"`
	MinDistSq float64 `yaml:"min_dist_sq"`
	Precision string  `yaml:"precision"`
	// Mutual pulls the attractor toward the orbiter as well.
	Mutual bool `yaml:"mutual"`
}

type BodiesConfig struct {
	Attractor BodyConfig `yaml:"attractor"`
	Orbiter   BodyConfig `yaml:"orbiter"`
}

type BodyConfig struct {
	Name     string    `yaml:"name"`
	Mass     float64   `yaml:"mass"`
	Position []float64 `yaml:"position"`
	Velocity []float64 `yaml:"velocity"`
	Hidden   bool      `yaml:"hidden,omitempty"`
}

type RenderConfig struct {
	Stacks     int       `yaml:"stacks"`
	Slices     int       `yaml:"slices"`
	PointSize  float32   `yaml:"point_size"`
	PointColor []float32 `yaml:"point_color"`
	ClearColor []float32 `yaml:"clear_color"`
}

type CameraConfig struct {
	Eye    []float32 `yaml:"eye"`
	Target []float32 `yaml:"target"`
	Up     []float32 `yaml:"up"`
	FovY   float32   `yaml:"fov_y"`
	// Aspect of zero follows the framebuffer.
	Aspect float32 `yaml:"aspect"`
	Near   float32 `yaml:"near"`
	Far    float32 `yaml:"far"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
	VSync  bool   `yaml:"vsync"`
}

// SimConfig drives headless runs; the windowed loop uses wall-clock dt.
type SimConfig struct {
	Dt          float64 `yaml:"dt"`
	Duration    float64 `yaml:"duration"`
	SampleEvery int     `yaml:"sample_every"`
}

// DefaultConfig reproduces the reference scene: SI gravitational constant,
// an Earth-mass body 150 units from a Sun-mass attractor, and the fixed
// camera and projection of the original renderer.
func DefaultConfig() *Config {
	return &Config{
		Physics: PhysicsConfig{
			G:         physics.G,
			MinDistSq: physics.DefaultMinDistSq,
			Precision: physics.Single.String(),
		},
		Bodies: BodiesConfig{
			Attractor: BodyConfig{
				Name:     "sun",
				Mass:     332946,
				Position: []float64{0, 0, 0},
				Velocity: []float64{0, 0, 0},
			},
			Orbiter: BodyConfig{
				Name:     "earth",
				Mass:     1,
				Position: []float64{150, 0, 0},
				Velocity: []float64{0, 29.78, 0},
			},
		},
		Render: RenderConfig{
			Stacks:     DefaultStacks,
			Slices:     DefaultSlices,
			PointSize:  DefaultPointSize,
			PointColor: []float32{0.2, 0.5, 1.0, 1.0},
			ClearColor: []float32{0.1, 0.1, 0.2, 1.0},
		},
		Camera: CameraConfig{
			Eye:    []float32{0, 0, 300},
			Target: []float32{0, 0, 0},
			Up:     []float32{0, 1, 0},
			FovY:   DefaultFovY,
			Near:   DefaultNear,
			Far:    DefaultFar,
		},
		Window: WindowConfig{
			Width:  DefaultWidth,
			Height: DefaultHeight,
			Title:  "Planet Simulation",
			VSync:  true,
		},
		Sim: SimConfig{
			Dt:          DefaultDt,
			Duration:    DefaultDuration,
			SampleEvery: 1,
		},
	}
}

// Load reads a YAML file over the defaults and validates the result.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Clone returns a deep copy so presets are never mutated by callers.
func (c *Config) Clone() *Config {
	out := *c
	out.Bodies.Attractor = c.Bodies.Attractor.clone()
	out.Bodies.Orbiter = c.Bodies.Orbiter.clone()
	out.Render.PointColor = append([]float32(nil), c.Render.PointColor...)
	out.Render.ClearColor = append([]float32(nil), c.Render.ClearColor...)
	out.Camera.Eye = append([]float32(nil), c.Camera.Eye...)
	out.Camera.Target = append([]float32(nil), c.Camera.Target...)
	out.Camera.Up = append([]float32(nil), c.Camera.Up...)
	return &out
}

func (b BodyConfig) clone() BodyConfig {
	b.Position = append([]float64(nil), b.Position...)
	b.Velocity = append([]float64(nil), b.Velocity...)
	return b
}

// Validate reports every problem found, joined, each wrapping ErrInvalidConfig.
func (c *Config) Validate() error {
	var errs []error
	bad := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalidConfig}, args...)...))
	}

	if !(c.Physics.G > 0) || math.IsInf(c.Physics.G, 0) {
		bad("physics.g must be positive, got %g", c.Physics.G)
	}
	if !(c.Physics.MinDistSq > 0) {
		bad("physics.min_dist_sq must be positive, got %g", c.Physics.MinDistSq)
	}
	if _, err := physics.ParsePrecision(c.Physics.Precision); err != nil {
		bad("physics.precision: %v", err)
	}

	for _, b := range []struct {
		key string
		cfg BodyConfig
	}{{"bodies.attractor", c.Bodies.Attractor}, {"bodies.orbiter", c.Bodies.Orbiter}} {
		if !(b.cfg.Mass > 0) || math.IsInf(b.cfg.Mass, 0) {
			bad("%s.mass must be positive, got %g", b.key, b.cfg.Mass)
		}
		if len(b.cfg.Position) != 3 {
			bad("%s.position needs 3 components, got %d", b.key, len(b.cfg.Position))
		}
		if len(b.cfg.Velocity) != 3 {
			bad("%s.velocity needs 3 components, got %d", b.key, len(b.cfg.Velocity))
		}
	}

	if c.Render.Stacks <= 0 || c.Render.Slices <= 0 {
		bad("render.stacks and render.slices must be positive, got %d and %d", c.Render.Stacks, c.Render.Slices)
	}
	if c.Render.PointSize < 0 {
		bad("render.point_size must not be negative, got %g", c.Render.PointSize)
	}
	for key, col := range map[string][]float32{"render.point_color": c.Render.PointColor, "render.clear_color": c.Render.ClearColor} {
		if len(col) != 3 && len(col) != 4 {
			bad("%s needs 3 or 4 components, got %d", key, len(col))
		}
		for i, x := range col {
			if f := float64(x); math.IsNaN(f) || math.IsInf(f, 0) {
				bad("%s[%d] must be finite, got %g", key, i, f)
			}
		}
	}

	for key, v := range map[string][]float32{"camera.eye": c.Camera.Eye, "camera.target": c.Camera.Target, "camera.up": c.Camera.Up} {
		if len(v) != 3 {
			bad("%s needs 3 components, got %d", key, len(v))
		}
	}
	if len(c.Camera.Eye) == 3 && len(c.Camera.Target) == 3 && len(c.Camera.Up) == 3 {
		dir := vec3f(c.Camera.Target).Sub(vec3f(c.Camera.Eye))
		switch {
		case dir.Len() == 0:
			bad("camera.eye and camera.target must differ, both are %v", c.Camera.Eye)
		case dir.Cross(vec3f(c.Camera.Up)).Len() == 0:
			bad("camera.up must not be parallel to the view direction, got %v", c.Camera.Up)
		}
	}
	if !(c.Camera.FovY > 0 && c.Camera.FovY < 180) {
		bad("camera.fov_y must be in (0, 180) degrees, got %g", c.Camera.FovY)
	}
	if c.Camera.Aspect < 0 {
		bad("camera.aspect must not be negative, got %g", c.Camera.Aspect)
	}
	if !(c.Camera.Near > 0) || !(c.Camera.Far > c.Camera.Near) {
		bad("camera planes need 0 < near < far, got near=%g far=%g", c.Camera.Near, c.Camera.Far)
	}

	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		bad("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}

	if !(c.Sim.Dt > 0) {
		bad("sim.dt must be positive, got %g", c.Sim.Dt)
	}
	if !(c.Sim.Duration > 0) {
		bad("sim.duration must be positive, got %g", c.Sim.Duration)
	}
	if c.Sim.SampleEvery < 0 {
		bad("sim.sample_every must not be negative, got %d", c.Sim.SampleEvery)
	}

	return errors.Join(errs...)
}

// PhysicsParams converts the physics section.
func (c *Config) PhysicsParams() (physics.Params, error) {
	prec, err := physics.ParsePrecision(c.Physics.Precision)
	if err != nil {
		return physics.Params{}, err
	}
	return physics.Params{G: c.Physics.G, MinDistSq: c.Physics.MinDistSq, Precision: prec}, nil
}

// NewBody builds the physics body described by b.
func (b BodyConfig) NewBody(prec physics.Precision) (*physics.Body, error) {
	if len(b.Position) != 3 || len(b.Velocity) != 3 {
		return nil, fmt.Errorf("%w: body %q needs 3-component position and velocity", ErrInvalidConfig, b.Name)
	}
	pos := mgl64.Vec3{b.Position[0], b.Position[1], b.Position[2]}
	vel := mgl64.Vec3{b.Velocity[0], b.Velocity[1], b.Velocity[2]}
	body, err := physics.NewBody(b.Mass, pos, vel, prec)
	if err != nil {
		return nil, fmt.Errorf("body %q: %w", b.Name, err)
	}
	return body, nil
}

// Frame builds the per-frame render context for a framebuffer of the given
// size. A zero camera.aspect follows width/height.
func (c *Config) Frame(width, height int) render.Frame {
	aspect := c.Camera.Aspect
	if aspect == 0 && height > 0 {
		aspect = float32(width) / float32(height)
	}
	if aspect == 0 {
		aspect = 1
	}
	return render.Frame{
		Camera: render.Camera{
			Eye:    vec3f(c.Camera.Eye),
			Target: vec3f(c.Camera.Target),
			Up:     vec3f(c.Camera.Up),
		},
		Projection: render.Projection{
			FovY:   mgl32.DegToRad(c.Camera.FovY),
			Aspect: aspect,
			Near:   c.Camera.Near,
			Far:    c.Camera.Far,
		},
		ClearColor: color(c.Render.ClearColor),
		PointSize:  c.Render.PointSize,
	}
}

// PointColor returns the fragment color for body samples.
func (c *Config) PointColor() render.Color {
	return color(c.Render.PointColor)
}

func vec3f(s []float32) mgl32.Vec3 {
	var v mgl32.Vec3
	copy(v[:], s)
	return v
}

func color(s []float32) render.Color {
	c := render.Color{A: 1}
	if len(s) > 0 {
		c.R = s[0]
	}
	if len(s) > 1 {
		c.G = s[1]
	}
	if len(s) > 2 {
		c.B = s[2]
	}
	if len(s) > 3 {
		c.A = s[3]
	}
	return c
}
