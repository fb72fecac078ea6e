// Package rendertest provides a render.Device that records calls instead of
// touching a GPU.
package rendertest

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/planetsim/internal/render"
)

// Call is one recorded device call.
type Call struct {
	Op    string
	ID    uint32
	Count int32
	Name  string
	Mat   mgl32.Mat4
	Color render.Color
	Size  float32
}

// Device records every call. Set the Fail* fields to simulate driver
// failures.
type Device struct {
	Calls []Call

	FailCompile bool
	FailLink    bool
	FailUpload  bool
	ZeroHandles bool

	Programs map[uint32]bool
	Meshes   map[uint32][]float32

	next uint32
}

func New() *Device {
	return &Device{
		Programs: make(map[uint32]bool),
		Meshes:   make(map[uint32][]float32),
	}
}

func (d *Device) handle() uint32 {
	if d.ZeroHandles {
		return 0
	}
	d.next++
	return d.next
}

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	if d.FailCompile {
		return 0, &render.ShaderError{Stage: "vertex", Log: "0:1(1): error: syntax error"}
	}
	if d.FailLink {
		return 0, &render.ShaderError{Stage: "link", Log: "unresolved MVP"}
	}
	id := d.handle()
	if id != 0 {
		d.Programs[id] = true
	}
	d.Calls = append(d.Calls, Call{Op: "CompileProgram", ID: id})
	return id, nil
}

func (d *Device) DeleteProgram(program uint32) {
	delete(d.Programs, program)
	d.Calls = append(d.Calls, Call{Op: "DeleteProgram", ID: program})
}

func (d *Device) UploadMesh(vertices []float32) (uint32, uint32, error) {
	if d.FailUpload {
		return 0, 0, fmt.Errorf("rendertest: out of memory")
	}
	vao, vbo := d.handle(), d.handle()
	if vao != 0 {
		d.Meshes[vao] = append([]float32(nil), vertices...)
	}
	d.Calls = append(d.Calls, Call{Op: "UploadMesh", ID: vao, Count: int32(len(vertices) / 3)})
	return vao, vbo, nil
}

func (d *Device) DeleteMesh(vao, vbo uint32) {
	delete(d.Meshes, vao)
	d.Calls = append(d.Calls, Call{Op: "DeleteMesh", ID: vao})
}

func (d *Device) Clear(c render.Color) {
	d.Calls = append(d.Calls, Call{Op: "Clear", Color: c})
}

func (d *Device) UseProgram(program uint32) {
	d.Calls = append(d.Calls, Call{Op: "UseProgram", ID: program})
}

func (d *Device) SetPointSize(size float32) {
	d.Calls = append(d.Calls, Call{Op: "SetPointSize", Size: size})
}

func (d *Device) SetMat4(program uint32, name string, m mgl32.Mat4) {
	d.Calls = append(d.Calls, Call{Op: "SetMat4", ID: program, Name: name, Mat: m})
}

func (d *Device) DrawPoints(vao uint32, count int32) {
	d.Calls = append(d.Calls, Call{Op: "DrawPoints", ID: vao, Count: count})
}

// Ops returns the recorded operation names in order.
func (d *Device) Ops() []string {
	ops := make([]string, len(d.Calls))
	for i, c := range d.Calls {
		ops[i] = c.Op
	}
	return ops
}

// Reset forgets recorded calls but keeps live resources.
func (d *Device) Reset() {
	d.Calls = d.Calls[:0]
}

var _ render.Device = (*Device)(nil)
