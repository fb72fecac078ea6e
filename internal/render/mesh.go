package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/planetsim/internal/geometry"
)

// Mesh is a GPU-resident point set owned by exactly one body.
type Mesh struct {
	dev   Device
	vao   uint32
	vbo   uint32
	count int32
}

// NewMesh uploads points to dev. The vertex count is fixed from here on.
func NewMesh(dev Device, points []mgl32.Vec3) (*Mesh, error) {
	if len(points) == 0 {
		return nil, fmt.Errorf("upload mesh: no vertices")
	}
	vao, vbo, err := dev.UploadMesh(geometry.Flatten(points))
	if err != nil {
		return nil, fmt.Errorf("upload mesh: %w", err)
	}
	if vao == 0 || vbo == 0 {
		dev.DeleteMesh(vao, vbo)
		return nil, fmt.Errorf("upload mesh: %w", ErrResourceAllocation)
	}
	return &Mesh{dev: dev, vao: vao, vbo: vbo, count: int32(len(points))}, nil
}

// NewSphereMesh samples the unit sphere and uploads it.
func NewSphereMesh(dev Device, stacks, slices int) (*Mesh, error) {
	points, err := geometry.SphereSamples(stacks, slices)
	if err != nil {
		return nil, err
	}
	return NewMesh(dev, points)
}

func (m *Mesh) VertexCount() int { return int(m.count) }

// Draw sets the MVP uniform on prog for a mesh at position and issues a
// point draw. prog must already be in use.
func (m *Mesh) Draw(prog *Program, f Frame, position mgl32.Vec3) error {
	if m.vao == 0 || prog == nil || prog.id == 0 {
		return ErrReleased
	}
	prog.setMVP(f.MVP(position))
	m.dev.DrawPoints(m.vao, m.count)
	return nil
}

// Release frees the vertex array and buffer. Later calls are no-ops.
func (m *Mesh) Release() {
	if m.vao == 0 {
		return
	}
	m.dev.DeleteMesh(m.vao, m.vbo)
	m.vao, m.vbo = 0, 0
}
