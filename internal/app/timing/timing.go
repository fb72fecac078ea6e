// Package timing converts wall-clock timestamps into frame deltas and frame
// rates. It has no GL or window dependencies.
package timing

import "fmt"

// Clock turns wall-clock timestamps into per-frame dt. A paused clock
// yields zero so the scene holds still while rendering continues.
type Clock struct {
	last   float64
	Paused bool
}

func (c *Clock) Reset(now float64) { c.last = now }

// Tick returns the time since the previous call, or zero while paused or
// when time runs backwards.
func (c *Clock) Tick(now float64) float64 {
	dt := now - c.last
	c.last = now
	if c.Paused || dt < 0 {
		return 0
	}
	return dt
}

// FPSCounter reports the frame rate about once per second.
type FPSCounter struct {
	start  float64
	frames int
}

func (f *FPSCounter) Frame(now float64) (float64, bool) {
	if f.frames == 0 && f.start == 0 {
		f.start = now
	}
	f.frames++
	elapsed := now - f.start
	if elapsed < 1 {
		return 0, false
	}
	fps := float64(f.frames) / elapsed
	f.start, f.frames = now, 0
	return fps, true
}

// Title decorates a window title with the frame rate.
func Title(base string, fps float64, paused bool) string {
	if paused {
		return fmt.Sprintf("%s - %.0f fps (paused)", base, fps)
	}
	return fmt.Sprintf("%s - %.0f fps", base, fps)
}
