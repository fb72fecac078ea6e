// Package analysis extracts orbital properties from recorded runs.
//
//   - [DominantPeriod]: strongest periodic component of a uniformly sampled
//     series, via FFT
//   - [CrossingPeriod]: revolution period from the unwrapped in-plane angle
//   - [Summarize]: apsides, eccentricity and both period estimates
//   - [OrbitToASCII]: projection of the orbit onto a plane as text
//
// Periods are measured in simulation time units:
//
//	s, err := analysis.Summarize(records)
//	if err == nil {
//	    fmt.Printf("period %.3f (fft %.3f)\n", s.CrossingPeriod, s.FFTPeriod)
//	}
package analysis
