package render

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// ErrResourceAllocation indicates the device returned no handle for a
// buffer, vertex array or program.
var ErrResourceAllocation = errors.New("render: gpu resource allocation failed")

// ErrReleased indicates use of a program or mesh after Release.
var ErrReleased = errors.New("render: resource already released")

// Color is a linear RGBA color.
type Color struct {
	R, G, B, A float32
}

// Device is the imperative graphics boundary. Implementations map each
// call onto the underlying API without caching state.
type Device interface {
	// CompileProgram compiles and links a vertex/fragment pair. A compile
	// or link failure is returned as a *ShaderError.
	CompileProgram(vertexSrc, fragmentSrc string) (uint32, error)
	DeleteProgram(program uint32)

	// UploadMesh creates a vertex array and a static vertex buffer holding
	// tightly packed vec3 positions bound to attribute 0.
	UploadMesh(vertices []float32) (vao, vbo uint32, err error)
	DeleteMesh(vao, vbo uint32)

	Clear(c Color)
	UseProgram(program uint32)
	SetPointSize(size float32)
	SetMat4(program uint32, name string, m mgl32.Mat4)
	DrawPoints(vao uint32, count int32)
}

// ShaderError is returned when a shader stage fails to compile or the
// program fails to link. Log carries the driver's info log.
type ShaderError struct {
	Stage string
	Log   string
}

func (e *ShaderError) Error() string {
	if e.Log == "" {
		return fmt.Sprintf("render: %s shader failed", e.Stage)
	}
	return fmt.Sprintf("render: %s shader failed: %s", e.Stage, e.Log)
}
