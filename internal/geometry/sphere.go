// Package geometry generates the sample points drawn for each body.
package geometry

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrInvalidTessellation indicates a non-positive stack or slice count.
var ErrInvalidTessellation = errors.New("geometry: stacks and slices must be positive")

// SampleCount is the number of points SphereSamples returns.
func SampleCount(stacks, slices int) int {
	return (stacks + 1) * (slices + 1)
}

// SphereSamples samples the unit sphere on a uniform latitude/longitude
// grid. Latitude runs from -π/2 to π/2 over stacks+1 rows; each row holds
// slices+1 points with longitude from 0 to 2π, so the seam is sampled twice.
// Points are ordered by latitude, then longitude.
func SphereSamples(stacks, slices int) ([]mgl32.Vec3, error) {
	if stacks <= 0 || slices <= 0 {
		return nil, fmt.Errorf("%w: stacks=%d slices=%d", ErrInvalidTessellation, stacks, slices)
	}

	const pi = float32(math.Pi)
	points := make([]mgl32.Vec3, 0, SampleCount(stacks, slices))
	for i := 0; i <= stacks; i++ {
		v := float32(i) / float32(stacks)
		phi := pi*v - pi/2
		sinPhi, cosPhi := sincos(phi)
		for j := 0; j <= slices; j++ {
			u := float32(j) / float32(slices)
			theta := 2 * pi * u
			sinTheta, cosTheta := sincos(theta)
			points = append(points, mgl32.Vec3{cosPhi * cosTheta, sinPhi, cosPhi * sinTheta})
		}
	}
	return points, nil
}

// Flatten packs points as consecutive x, y, z floats for a vertex buffer.
func Flatten(points []mgl32.Vec3) []float32 {
	out := make([]float32, 0, len(points)*3)
	for _, p := range points {
		out = append(out, p[0], p[1], p[2])
	}
	return out
}

func sincos(a float32) (float32, float32) {
	s, c := math.Sincos(float64(a))
	return float32(s), float32(c)
}
