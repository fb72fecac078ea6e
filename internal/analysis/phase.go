package analysis

import (
	"math"
	"strings"

	"github.com/san-kum/planetsim/internal/storage"
)

// Plane selects the two world axes an orbit is projected onto.
type Plane int

const (
	PlaneXY Plane = iota
	PlaneXZ
	PlaneYZ
)

func (p Plane) Axes() (int, int) {
	switch p {
	case PlaneXZ:
		return 0, 2
	case PlaneYZ:
		return 1, 2
	default:
		return 0, 1
	}
}

// OrbitToASCII draws the orbiter path relative to the attractor, which is
// marked with '@' at the origin. Axes are scaled equally.
func OrbitToASCII(records []storage.Record, plane Plane, width, height int) string {
	if len(records) == 0 || width < 3 || height < 3 {
		return ""
	}
	ia, ib := plane.Axes()

	// Find bounds
	extent := 0.0
	for _, rec := range records {
		r := relPos(rec)
		extent = max(extent, math.Abs(r[ia]), math.Abs(r[ib]))
	}
	if extent == 0 {
		extent = 1
	}
	// Add padding
	extent *= 1.1

	canvas := make([][]rune, height)
	for i := range canvas {
		canvas[i] = make([]rune, width)
		for j := range canvas[i] {
			canvas[i][j] = ' '
		}
	}

	toCell := func(a, b float64) (int, int) {
		col := int((a + extent) / (2 * extent) * float64(width-1))
		row := height - 1 - int((b+extent)/(2*extent)*float64(height-1))
		return row, col
	}

	// Draw axes
	r0, c0 := toCell(0, 0)
	for col := 0; col < width; col++ {
		canvas[r0][col] = '─'
	}
	for row := 0; row < height; row++ {
		canvas[row][c0] = '│'
	}

	for _, rec := range records {
		r := relPos(rec)
		row, col := toCell(r[ia], r[ib])
		if row >= 0 && row < height && col >= 0 && col < width {
			canvas[row][col] = '•'
		}
	}
	canvas[r0][c0] = '@'

	var sb strings.Builder
	for _, row := range canvas {
		sb.WriteString(strings.TrimRight(string(row), " "))
		sb.WriteRune('\n')
	}
	return sb.String()
}
