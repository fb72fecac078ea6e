package analysis

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/planetsim/internal/storage"
)

// CrossingPeriod measures the revolution period from the angle swept in
// the initial orbital plane. It needs at least one full revolution and
// averages over all complete ones.
func CrossingPeriod(records []storage.Record) (float64, error) {
	if len(records) < 3 {
		return 0, ErrTooFewSamples
	}

	r0 := relPos(records[0])
	h := r0.Cross(relVel(records[0]))
	if r0.Len() == 0 || h.Len() == 0 {
		return 0, ErrNoPeriod
	}
	e1 := r0.Normalize()
	e2 := h.Normalize().Cross(e1)

	swept := 0.0
	prev := 0.0
	revs := 0
	lastCross := records[0].Time
	for i := 1; i < len(records); i++ {
		r := relPos(records[i])
		angle := math.Atan2(r.Dot(e2), r.Dot(e1))
		delta := angle - prev
		for delta > math.Pi {
			delta -= 2 * math.Pi
		}
		for delta < -math.Pi {
			delta += 2 * math.Pi
		}
		prev = angle

		before := swept
		swept += delta
		target := 2 * math.Pi * float64(revs+1)
		if swept >= target && before < target {
			frac := (target - before) / (swept - before)
			lastCross = records[i-1].Time + frac*(records[i].Time-records[i-1].Time)
			revs++
		}
	}

	if revs == 0 {
		return 0, ErrNoPeriod
	}
	return (lastCross - records[0].Time) / float64(revs), nil
}

// Summary describes a recorded orbit.
type Summary struct {
	Samples        int
	Duration       float64
	Periapsis      float64
	Apoapsis       float64
	MeanRadius     float64
	Eccentricity   float64
	FFTPeriod      float64
	CrossingPeriod float64
}

// Summarize computes the orbit summary. Period fields are zero when they
// cannot be determined; only an empty input is an error.
func Summarize(records []storage.Record) (*Summary, error) {
	if len(records) == 0 {
		return nil, ErrTooFewSamples
	}

	s := &Summary{
		Samples:   len(records),
		Duration:  records[len(records)-1].Time - records[0].Time,
		Periapsis: math.Inf(1),
	}

	axis := relPos(records[0])
	if axis.Len() == 0 {
		axis = mgl64.Vec3{1, 0, 0}
	}
	axis = axis.Normalize()

	times := make([]float64, len(records))
	xs := make([]float64, len(records))
	sum := 0.0
	for i, rec := range records {
		d := rec.Separation()
		sum += d
		s.Periapsis = math.Min(s.Periapsis, d)
		s.Apoapsis = math.Max(s.Apoapsis, d)
		times[i] = rec.Time
		xs[i] = relPos(rec).Dot(axis)
	}
	s.MeanRadius = sum / float64(len(records))
	if s.Apoapsis+s.Periapsis > 0 {
		s.Eccentricity = (s.Apoapsis - s.Periapsis) / (s.Apoapsis + s.Periapsis)
	}

	n := uniformLen(times)
	if p, err := DominantPeriod(times[:n], xs[:n]); err == nil {
		s.FFTPeriod = p
	}
	if p, err := CrossingPeriod(records); err == nil {
		s.CrossingPeriod = p
	}
	return s, nil
}

func relPos(r storage.Record) mgl64.Vec3 { return r.OrbiterPos.Sub(r.AttractorPos) }
func relVel(r storage.Record) mgl64.Vec3 { return r.OrbiterVel.Sub(r.AttractorVel) }
