package scene

import (
	"fmt"

	"github.com/san-kum/planetsim/internal/physics"
	"github.com/san-kum/planetsim/internal/render"
)

// noCopy makes go vet's copylocks check flag Planet copies.
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// PlanetSpec describes a planet to build.
type PlanetSpec struct {
	Name   string
	Body   *physics.Body
	Stacks int
	Slices int
	Hidden bool
}

// Planet is a body together with the sphere mesh that draws it. The mesh is
// owned by exactly one planet; handle planets by pointer.
type Planet struct {
	_ noCopy

	name   string
	body   *physics.Body
	mesh   *render.Mesh
	hidden bool
}

// NewPlanet uploads a sphere mesh for spec.Body.
func NewPlanet(dev render.Device, spec PlanetSpec) (*Planet, error) {
	if spec.Body == nil {
		return nil, fmt.Errorf("planet %q: %w", spec.Name, physics.ErrInvalidState)
	}
	mesh, err := render.NewSphereMesh(dev, spec.Stacks, spec.Slices)
	if err != nil {
		return nil, fmt.Errorf("planet %q: %w", spec.Name, err)
	}
	return &Planet{name: spec.Name, body: spec.Body, mesh: mesh, hidden: spec.Hidden}, nil
}

func (p *Planet) Name() string        { return p.name }
func (p *Planet) Body() *physics.Body { return p.body }
func (p *Planet) Hidden() bool        { return p.hidden }
func (p *Planet) VertexCount() int    { return p.mesh.VertexCount() }

// Draw renders the planet at its current position. prog must be in use.
func (p *Planet) Draw(prog *render.Program, f render.Frame) error {
	if p.hidden {
		return nil
	}
	if err := p.mesh.Draw(prog, f, p.body.Position32()); err != nil {
		return fmt.Errorf("draw %s: %w", p.name, err)
	}
	return nil
}

// Release frees the planet's mesh. Later calls are no-ops.
func (p *Planet) Release() {
	p.mesh.Release()
}
