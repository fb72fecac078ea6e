package physics

import (
	"fmt"
	"strings"
)

// Precision selects the floating point width used by the integrator.
type Precision int

const (
	Single Precision = iota
	Double
)

func (p Precision) String() string {
	switch p {
	case Single:
		return "single"
	case Double:
		return "double"
	default:
		return fmt.Sprintf("precision(%d)", int(p))
	}
}

// ParsePrecision maps "single"/"float32" and "double"/"float64" to a policy.
// The empty string selects Single.
func ParsePrecision(s string) (Precision, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single", "float32", "f32":
		return Single, nil
	case "double", "float64", "f64":
		return Double, nil
	default:
		return Single, fmt.Errorf("%w: %q", ErrUnknownPrecision, s)
	}
}
