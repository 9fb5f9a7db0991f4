// Package lut holds the exponential decay lookup tables used by the STDP
// traces.
//
// A table answers "by how much has a trace decayed after t timesteps" with a
// single shifted index. Tables are built once from a configuration region and
// are read-only afterwards, so any number of trace computations may share
// them without synchronization.
package lut

import (
	"errors"
	"fmt"

	"github.com/sarchlab/stdp/fixed"
)

// ErrTruncatedBlob is returned when the configuration ends before every
// declared table has been read.
var ErrTruncatedBlob = errors.New("lut: configuration blob too short")

// Spec declares the shape of one table inside a configuration blob.
type Spec struct {
	// Name identifies the time constant, e.g. "tau_x".
	Name string

	// Size is the number of entries.
	Size int

	// Shift is applied to the elapsed time before indexing.
	Shift uint
}

// DefaultSize and DefaultShift are the table shape used when a rule does not
// override it.
const (
	DefaultSize  = 256
	DefaultShift = 0
)

// DefaultSpec returns a table spec with the default shape.
func DefaultSpec(name string) Spec {
	return Spec{Name: name, Size: DefaultSize, Shift: DefaultShift}
}

// SizeBytes returns the number of bytes the table occupies in a blob.
func (s Spec) SizeBytes() uint64 {
	return uint64(s.Size) * 2
}

// ParamsSizeBytes returns the total blob length of the given tables.
func ParamsSizeBytes(specs ...Spec) uint64 {
	total := uint64(0)
	for _, s := range specs {
		total += s.SizeBytes()
	}

	return total
}

// A DecayLUT maps elapsed time to a fixed-point decay factor.
type DecayLUT struct {
	spec   Spec
	values []int16
	last   uint32
}

// New creates a table from precomputed values. The values are copied.
func New(name string, shift uint, values []int16) *DecayLUT {
	if len(values) == 0 {
		panic("lut: table must have at least one entry")
	}

	v := make([]int16, len(values))
	copy(v, values)

	return &DecayLUT{
		spec:   Spec{Name: name, Size: len(v), Shift: shift},
		values: v,
		last:   uint32(len(v) - 1),
	}
}

// Spec returns the shape of the table.
func (l *DecayLUT) Spec() Spec {
	return l.spec
}

// Name returns the name of the time constant.
func (l *DecayLUT) Name() string {
	return l.spec.Name
}

// Lookup returns the decay factor after elapsed timesteps.
//
// Elapsed times past the end of the table saturate to the last entry, so a
// very long silence decays to the table's minimum rather than to zero.
func (l *DecayLUT) Lookup(elapsed uint32) int32 {
	index := elapsed >> l.spec.Shift
	if index > l.last {
		index = l.last
	}

	return int32(l.values[index])
}

// Values returns a copy of the table entries.
func (l *DecayLUT) Values() []int16 {
	v := make([]int16, len(l.values))
	copy(v, l.values)

	return v
}

// Validate checks that the table looks like a decay curve: it starts at one,
// never increases and stays within [0, one].
func (l *DecayLUT) Validate() error {
	if int32(l.values[0]) != fixed.One {
		return fmt.Errorf("lut %s: entry 0 is %d, want %d",
			l.spec.Name, l.values[0], fixed.One)
	}

	for i, v := range l.values {
		if v < 0 || int32(v) > fixed.One {
			return fmt.Errorf("lut %s: entry %d (%d) out of [0, %d]",
				l.spec.Name, i, v, fixed.One)
		}

		if i > 0 && v > l.values[i-1] {
			return fmt.Errorf("lut %s: entry %d (%d) larger than entry %d (%d)",
				l.spec.Name, i, v, i-1, l.values[i-1])
		}
	}

	return nil
}
