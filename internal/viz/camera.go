package viz

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Camera is a turntable view for the terminal canvas. Points are expected
// in normalized units where the view extent is 1.
type Camera struct {
	RotX, RotY, RotZ float64
	Zoom             float64
	Distance         float64
}

func NewCamera() *Camera {
	return &Camera{Zoom: 1, Distance: 4}
}

func (c *Camera) RotateX(a float64) { c.RotX += a }
func (c *Camera) RotateY(a float64) { c.RotY += a }
func (c *Camera) RotateZ(a float64) { c.RotZ += a }
func (c *Camera) ZoomIn()           { c.Zoom = math.Min(10, c.Zoom*1.2) }
func (c *Camera) ZoomOut()          { c.Zoom = math.Max(0.1, c.Zoom/1.2) }

// RotatePoint rotates p about the X, then Y, then Z axis.
func (c *Camera) RotatePoint(p mgl64.Vec3) mgl64.Vec3 {
	return mgl64.Rotate3DZ(c.RotZ).Mul3(mgl64.Rotate3DY(c.RotY)).Mul3(mgl64.Rotate3DX(c.RotX)).Mul3x1(p)
}

// Project maps p onto a sw x sh pixel surface with a mild perspective.
// ok is false for points behind the eye or off the surface.
func (c *Camera) Project(p mgl64.Vec3, sw, sh int) (x, y int, depth float64, ok bool) {
	rot := c.RotatePoint(p).Mul(c.Zoom)
	if rot.Z() >= c.Distance-0.1 {
		return 0, 0, 0, false
	}
	scale := c.Distance / (c.Distance - rot.Z())
	half := float64(min(sw, sh)) / 2
	x = int(math.Round(rot.X()*scale*half)) + sw/2
	y = int(math.Round(-rot.Y()*scale*half)) + sh/2
	return x, y, rot.Z(), x >= 0 && x < sw && y >= 0 && y < sh
}
