package render

import "github.com/go-gl/mathgl/mgl32"

// Camera places the viewer.
type Camera struct {
	Eye    mgl32.Vec3
	Target mgl32.Vec3
	Up     mgl32.Vec3
}

func (c Camera) View() mgl32.Mat4 {
	return mgl32.LookAtV(c.Eye, c.Target, c.Up)
}

// Projection is a perspective frustum. FovY is in radians.
type Projection struct {
	FovY   float32
	Aspect float32
	Near   float32
	Far    float32
}

func (p Projection) Matrix() mgl32.Mat4 {
	return mgl32.Perspective(p.FovY, p.Aspect, p.Near, p.Far)
}

// Frame is the per-frame render context handed to every draw call.
type Frame struct {
	Camera     Camera
	Projection Projection
	ClearColor Color
	PointSize  float32
}

// ViewProjection returns Projection * View.
func (f Frame) ViewProjection() mgl32.Mat4 {
	return f.Projection.Matrix().Mul4(f.Camera.View())
}

// MVP returns the full transform for a body at position.
func (f Frame) MVP(position mgl32.Vec3) mgl32.Mat4 {
	return f.ViewProjection().Mul4(mgl32.Translate3D(position[0], position[1], position[2]))
}

// ComputeMVP composes Projection * View * Model where the model matrix is a
// pure translation. Bodies are drawn at unit radius regardless of mass.
func ComputeMVP(model, eye, target, up mgl32.Vec3, fovY, aspect, near, far float32) mgl32.Mat4 {
	f := Frame{
		Camera:     Camera{Eye: eye, Target: target, Up: up},
		Projection: Projection{FovY: fovY, Aspect: aspect, Near: near, Far: far},
	}
	return f.MVP(model)
}
