package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var (
	ErrTooFewSamples = errors.New("analysis: not enough samples")
	ErrNonUniform    = errors.New("analysis: samples are not uniformly spaced")
	ErrNoPeriod      = errors.New("analysis: no periodic component found")
)

// PowerSpectrum returns the magnitude of the first half of the spectrum of
// data after removing its mean.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	centered := make([]float64, len(data))
	for i, v := range data {
		centered[i] = v - mean
	}

	spectrum := fft.FFTReal(centered)
	ps := make([]float64, len(spectrum)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantPeriod estimates the period of the strongest non-constant
// component of values sampled at times. The peak bin is refined by
// parabolic interpolation.
func DominantPeriod(times, values []float64) (float64, error) {
	n := len(values)
	if n < 4 || len(times) != n {
		return 0, ErrTooFewSamples
	}
	dt, err := uniformStep(times)
	if err != nil {
		return 0, err
	}

	scale := 0.0
	for _, v := range values {
		scale += math.Abs(v)
	}

	ps := PowerSpectrum(values)
	peak := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[peak] {
			peak = k
		}
	}
	if !(ps[peak] > 1e-9*scale) {
		return 0, ErrNoPeriod
	}

	bin := float64(peak)
	if peak < len(ps)-1 {
		a, b, c := ps[peak-1], ps[peak], ps[peak+1]
		if den := a - 2*b + c; den != 0 {
			bin += 0.5 * (a - c) / den
		}
	}
	return float64(n) * dt / bin, nil
}

func uniformStep(times []float64) (float64, error) {
	dt := times[1] - times[0]
	if !(dt > 0) {
		return 0, ErrNonUniform
	}
	for i := 2; i < len(times); i++ {
		if math.Abs((times[i]-times[i-1])-dt) > 1e-6*dt {
			return 0, ErrNonUniform
		}
	}
	return dt, nil
}

// uniformLen is the length of the longest uniformly spaced prefix. A sample
// stride leaves the final step off the grid when it does not divide the run.
func uniformLen(times []float64) int {
	if len(times) < 3 {
		return len(times)
	}
	dt := times[1] - times[0]
	for i := 2; i < len(times); i++ {
		if math.Abs((times[i]-times[i-1])-dt) > 1e-6*dt {
			return i
		}
	}
	return len(times)
}
