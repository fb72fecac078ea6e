// Package viz provides a terminal view of the two-body simulation.
//
// The package implements a TUI using the Bubble Tea framework:
//
//   - [Model]: live orbit view that steps the same physics as the window
//   - [Picker]: preset menu that launches a [Model]
//   - [Canvas]: Braille-based pixel canvas
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	W/S   - Speed up / slow down (steps per frame)
//	[]/   - Time travel (rewind/forward)
//	X/Y/Z - Rotate view (shift reverses)
//	+/-   - Zoom
//	C     - Clear trail
//	T     - Cycle color themes
//	?     - Show help overlay
package viz
