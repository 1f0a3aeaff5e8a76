package strength

import (
	"fmt"
	"math"
)

// Classification is the ordinal strength tier of a password. Exposed is terminal and sits
// outside the entropy ordering.
type Classification int

const (
	VeryWeak Classification = iota
	Weak
	Moderate
	Strong
	VeryStrong
	Exposed
)

// Upper bounds (exclusive) of each entropy tier, in bits.
var thresholds = []struct {
	below float64
	class Classification
}{
	{40, VeryWeak},
	{60, Weak},
	{80, Moderate},
	{100, Strong},
}

func (c Classification) String() string {
	switch c {
	case VeryWeak:
		return "Very Weak"
	case Weak:
		return "Weak"
	case Moderate:
		return "Moderate"
	case Strong:
		return "Strong"
	case VeryStrong:
		return "Very Strong"
	case Exposed:
		return "Compromised"
	default:
		return fmt.Sprintf("Classification(%d)", int(c))
	}
}

func (c Classification) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// Classify maps entropy bits to a tier using half-open intervals.
func Classify(entropyBits float64) Classification {
	if math.IsNaN(entropyBits) {
		return VeryWeak
	}
	for _, t := range thresholds {
		if entropyBits < t.below {
			return t.class
		}
	}
	return VeryStrong
}

// ClassifyExposed is Classify with the breach override: an exposed password is Exposed no
// matter its entropy.
func ClassifyExposed(entropyBits float64, exposed bool) Classification {
	if exposed {
		return Exposed
	}
	return Classify(entropyBits)
}
