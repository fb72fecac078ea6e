package export

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/planetsim/internal/analysis"
	"github.com/san-kum/planetsim/internal/storage"
)

func circle(n int, r float64) []storage.Record {
	recs := make([]storage.Record, n)
	for i := range recs {
		th := 2 * math.Pi * float64(i) / float64(n)
		recs[i] = storage.Record{
			Time:       float64(i),
			Step:       i,
			OrbiterPos: mgl64.Vec3{r * math.Cos(th), r * math.Sin(th), 0},
		}
	}
	return recs
}

func TestOrbitToSVG(t *testing.T) {
	svg := OrbitToSVG(circle(8, 150), DefaultOptions())
	if !strings.HasPrefix(svg, "<?xml") || !strings.HasSuffix(svg, "</svg>\n") {
		t.Fatalf("not an svg document:\n%s", svg)
	}
	if got := strings.Count(svg, " L"); got != 7 {
		t.Errorf("path has %d segments, want 7", got)
	}
	// attractor sits at the centre of a 600x600 view
	if !strings.Contains(svg, `class="attractor" cx="300.0" cy="300.0"`) {
		t.Error("attractor not centred")
	}
	// first point (r, 0) maps to 300 + 300/1.1
	if !strings.Contains(svg, `d="M572.7,300.0`) {
		t.Errorf("unexpected first point in\n%s", svg)
	}
}

func TestOrbitToSVGPlane(t *testing.T) {
	recs := circle(4, 1)
	opts := DefaultOptions()
	opts.Plane = analysis.PlaneXZ
	svg := OrbitToSVG(recs, opts)
	// y motion is invisible in the xz plane, so every point has cy = 300
	if strings.Contains(svg, ",27.3") || strings.Contains(svg, ",572.7") {
		t.Errorf("xz projection leaked y:\n%s", svg)
	}
}

func TestWriteOrbitSVGTooShort(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteOrbitSVG(&buf, circle(1, 1), DefaultOptions()); err == nil {
		t.Error("expected error for a single sample")
	}
	if err := WriteOrbitSVG(&buf, circle(3, 1), DefaultOptions()); err != nil || buf.Len() == 0 {
		t.Errorf("write failed: %v", err)
	}
}
