// Package render holds the device-independent half of the draw path:
// transform composition, the shared shader program, and per-body meshes.
//
// GPU work goes through the [Device] interface. The OpenGL implementation
// lives in package glrender; rendertest provides a recording fake.
//
// All methods must be called from the goroutine that owns the graphics
// context.
package render
