package timing

import "fmt"

// Time is a simulation timestep.
type Time uint32

// OrderPolicy decides what the elapsed time is when a spike is delivered with
// a time earlier than the last recorded spike.
type OrderPolicy int

const (
	// WrapElapsed computes the interval with unsigned wraparound. The huge
	// interval saturates every table to its last entry. This matches deployed
	// binaries bit for bit.
	WrapElapsed OrderPolicy = iota

	// ClampElapsed treats an out-of-order spike as coincident with the last
	// one, so it decays nothing and contributes no weight update.
	ClampElapsed

	// PanicOnReorder panics.
	PanicOnReorder
)

func (p OrderPolicy) String() string {
	switch p {
	case WrapElapsed:
		return "wrap"
	case ClampElapsed:
		return "clamp"
	case PanicOnReorder:
		return "panic"
	default:
		return fmt.Sprintf("OrderPolicy(%d)", int(p))
	}
}

// ParseOrderPolicy parses the names returned by OrderPolicy.String.
func ParseOrderPolicy(s string) (OrderPolicy, error) {
	switch s {
	case "", "wrap":
		return WrapElapsed, nil
	case "clamp":
		return ClampElapsed, nil
	case "panic":
		return PanicOnReorder, nil
	default:
		return WrapElapsed, fmt.Errorf("timing: unknown order policy %q", s)
	}
}

// Elapsed returns time - last according to the policy.
func (p OrderPolicy) Elapsed(time, last Time) uint32 {
	if time >= last {
		return uint32(time - last)
	}

	switch p {
	case ClampElapsed:
		return 0
	case PanicOnReorder:
		panic(fmt.Sprintf(
			"timing: spike at %d precedes last spike at %d", time, last))
	default:
		return uint32(time - last)
	}
}
