package config

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/planetsim/internal/physics"
)

const (
	sunMass     = 332946.0
	earthRadius = 150.0
	earthSpeed  = 29.78
)

// ScaledG is the gravitational constant that makes the reference Earth
// velocity exactly circular at the reference separation.
var ScaledG = physics.CircularOrbitG(sunMass, earthRadius, earthSpeed)

// Presets are named variations of DefaultConfig. Each entry mutates a fresh
// default copy.
var Presets = map[string]func(*Config){
	"reference": func(c *Config) {},
	"circular": func(c *Config) {
		c.Physics.G = ScaledG
		c.Sim.Duration = oneYear()
	},
	"circular_double": func(c *Config) {
		c.Physics.G = ScaledG
		c.Physics.Precision = physics.Double.String()
		c.Sim.Duration = oneYear()
	},
	"elliptical": func(c *Config) {
		c.Physics.G = ScaledG
		c.Bodies.Orbiter.Velocity = []float64{0, 0.8 * earthSpeed, 0}
		c.Sim.Duration = 2 * oneYear()
	},
	"escape": func(c *Config) {
		c.Physics.G = ScaledG
		c.Bodies.Orbiter.Velocity = []float64{0, math.Sqrt2 * earthSpeed * 1.05, 0}
		c.Sim.Duration = 2 * oneYear()
	},
	"inclined": func(c *Config) {
		c.Physics.G = ScaledG
		tilt := 30 * math.Pi / 180
		c.Bodies.Orbiter.Velocity = []float64{0, earthSpeed * math.Cos(tilt), earthSpeed * math.Sin(tilt)}
		c.Camera.Eye = []float32{0, 150, 300}
		c.Sim.Duration = oneYear()
	},
}

func oneYear() float64 {
	return physics.OrbitalPeriod(ScaledG, sunMass, earthRadius)
}

// GetPreset returns a validated copy of the named preset.
func GetPreset(name string) (*Config, error) {
	apply, ok := Presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown preset: %s", name)
	}
	cfg := DefaultConfig()
	apply(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("preset %s: %w", name, err)
	}
	return cfg, nil
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
