package interval

import (
	"fmt"

	"github.com/pkg/errors"
)

// BlendType shapes the progress curve of a Lerp.
type BlendType int

const (
	NoBlend BlendType = iota
	EaseIn
	EaseOut
	EaseInOut
)

func (b BlendType) String() string {
	switch b {
	case NoBlend:
		return "noBlend"
	case EaseIn:
		return "easeIn"
	case EaseOut:
		return "easeOut"
	case EaseInOut:
		return "easeInOut"
	default:
		return fmt.Sprintf("BlendType(%d)", int(b))
	}
}

// ParseBlendType converts a name as printed by String back into a BlendType.
func ParseBlendType(s string) (BlendType, error) {
	switch s {
	case "", "noBlend":
		return NoBlend, nil
	case "easeIn":
		return EaseIn, nil
	case "easeOut":
		return EaseOut, nil
	case "easeInOut":
		return EaseInOut, nil
	default:
		return NoBlend, errors.Errorf("unknown blend type %q", s)
	}
}

// Apply maps linear progress t in [0, 1] onto the blend curve. Every curve
// maps 0 to 0 and 1 to 1.
func (b BlendType) Apply(t float64) float64 {
	switch b {
	case EaseIn:
		t2 := t * t
		return (3*t2 - t2*t) * 0.5
	case EaseOut:
		t2 := t * t
		return (3*t - t2*t) * 0.5
	case EaseInOut:
		t2 := t * t
		return 3*t2 - 2*t*t2
	default:
		return t
	}
}
