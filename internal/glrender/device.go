// Package glrender implements render.Device on an OpenGL 3.3+ core context.
//
// Init must be called once on the thread that owns the current context
// before any other call.
package glrender

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.3-core/gl"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/san-kum/planetsim/internal/logging"
	"github.com/san-kum/planetsim/internal/render"
)

type Device struct {
	uniforms map[uniformKey]int32
}

type uniformKey struct {
	program uint32
	name    string
}

// Init loads the GL function pointers for the current context and sets the
// fixed pipeline state used by the point renderer.
func Init() (*Device, error) {
	if err := gl.Init(); err != nil {
		return nil, fmt.Errorf("failed to init opengl: %w", err)
	}
	logging.Logger().Info("opengl initialized",
		"version", gl.GoStr(gl.GetString(gl.VERSION)),
		"renderer", gl.GoStr(gl.GetString(gl.RENDERER)))

	gl.Enable(gl.DEPTH_TEST)
	return &Device{uniforms: make(map[uniformKey]int32)}, nil
}

// Viewport resizes the drawable region.
func (d *Device) Viewport(width, height int) {
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (d *Device) CompileProgram(vertexSrc, fragmentSrc string) (uint32, error) {
	vs, err := compileShader(gl.VERTEX_SHADER, "vertex", vertexSrc)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(vs)

	fs, err := compileShader(gl.FRAGMENT_SHADER, "fragment", fragmentSrc)
	if err != nil {
		return 0, err
	}
	defer gl.DeleteShader(fs)

	program := gl.CreateProgram()
	if program == 0 {
		return 0, render.ErrResourceAllocation
	}
	gl.AttachShader(program, vs)
	gl.AttachShader(program, fs)
	gl.LinkProgram(program)

	var status int32
	gl.GetProgramiv(program, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(program, logLength, nil, gl.Str(log))
		gl.DeleteProgram(program)
		return 0, &render.ShaderError{Stage: "link", Log: trimLog(log)}
	}

	gl.DetachShader(program, vs)
	gl.DetachShader(program, fs)
	return program, nil
}

func compileShader(kind uint32, stage, source string) (uint32, error) {
	shader := gl.CreateShader(kind)
	if shader == 0 {
		return 0, render.ErrResourceAllocation
	}
	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csources, nil)
	free()
	gl.CompileShader(shader)

	var status int32
	gl.GetShaderiv(shader, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(shader, logLength, nil, gl.Str(log))
		gl.DeleteShader(shader)
		return 0, &render.ShaderError{Stage: stage, Log: trimLog(log)}
	}
	return shader, nil
}

func (d *Device) DeleteProgram(program uint32) {
	for k := range d.uniforms {
		if k.program == program {
			delete(d.uniforms, k)
		}
	}
	gl.DeleteProgram(program)
}

func (d *Device) UploadMesh(vertices []float32) (uint32, uint32, error) {
	if len(vertices) == 0 || len(vertices)%3 != 0 {
		return 0, 0, fmt.Errorf("glrender: vertex data length %d is not a multiple of 3", len(vertices))
	}

	var vao, vbo uint32
	gl.GenVertexArrays(1, &vao)
	gl.BindVertexArray(vao)

	gl.GenBuffers(1, &vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(vertices)*4, gl.Ptr(vertices), gl.STATIC_DRAW)

	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 3, gl.FLOAT, false, 3*4, gl.PtrOffset(0))

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)

	if code := gl.GetError(); code != gl.NO_ERROR {
		d.DeleteMesh(vao, vbo)
		return 0, 0, fmt.Errorf("%w: gl error 0x%x", render.ErrResourceAllocation, code)
	}
	return vao, vbo, nil
}

func (d *Device) DeleteMesh(vao, vbo uint32) {
	if vbo != 0 {
		gl.DeleteBuffers(1, &vbo)
	}
	if vao != 0 {
		gl.DeleteVertexArrays(1, &vao)
	}
}

func (d *Device) Clear(c render.Color) {
	gl.ClearColor(c.R, c.G, c.B, c.A)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
}

func (d *Device) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *Device) SetPointSize(size float32) {
	if size > 0 {
		gl.PointSize(size)
	}
}

func (d *Device) SetMat4(program uint32, name string, m mgl32.Mat4) {
	key := uniformKey{program: program, name: name}
	loc, ok := d.uniforms[key]
	if !ok {
		loc = gl.GetUniformLocation(program, gl.Str(name+"\x00"))
		if loc < 0 {
			logging.Logger().Warn("uniform not found", "program", program, "name", name)
		}
		d.uniforms[key] = loc
	}
	gl.UniformMatrix4fv(loc, 1, false, &m[0])
}

func (d *Device) DrawPoints(vao uint32, count int32) {
	gl.BindVertexArray(vao)
	gl.DrawArrays(gl.POINTS, 0, count)
	gl.BindVertexArray(0)
}

func trimLog(s string) string {
	return strings.TrimSpace(strings.TrimRight(s, "\x00"))
}

var _ render.Device = (*Device)(nil)
