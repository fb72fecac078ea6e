package render

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/planetsim/internal/logging"
)

// Program is the shared point shader. It is created once before the frame
// loop, passed to every draw, and released once at teardown.
type Program struct {
	dev Device
	id  uint32
}

// NewProgram compiles the point shader with a solid fragment color. On
// failure the diagnostic is logged and returned; no program is created.
func NewProgram(dev Device, color Color) (*Program, error) {
	id, err := dev.CompileProgram(VertexShader(), FragmentShader(color))
	if err != nil {
		logging.Logger().Error("shader program creation failed", "err", err)
		return nil, fmt.Errorf("create point program: %w", err)
	}
	if id == 0 {
		return nil, fmt.Errorf("create point program: %w", ErrResourceAllocation)
	}
	logging.Logger().Debug("shader program created", "program", id)
	return &Program{dev: dev, id: id}, nil
}

func (p *Program) ID() uint32 { return p.id }

// Use binds the program for subsequent draws.
func (p *Program) Use() error {
	if p.id == 0 {
		return ErrReleased
	}
	p.dev.UseProgram(p.id)
	return nil
}

func (p *Program) setMVP(m mgl32.Mat4) {
	p.dev.SetMat4(p.id, MVPUniform, m)
}

// Release deletes the program. Later calls are no-ops.
func (p *Program) Release() {
	if p.id == 0 {
		return
	}
	p.dev.DeleteProgram(p.id)
	p.id = 0
}
