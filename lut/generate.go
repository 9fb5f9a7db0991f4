package lut

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"

	"github.com/sarchlab/stdp/fixed"
	"github.com/sarchlab/stdp/region"
)

// ErrUnsupportedTimestep is returned when tables are requested for a machine
// timestep other than 1 ms.
var ErrUnsupportedTimestep = errors.New(
	"lut: generation only supports 1ms timesteps")

// SupportedTimestepUS is the only machine timestep, in microseconds, that
// table generation accepts.
const SupportedTimestepUS = 1000

// Generate computes the decay table exp(-t/tau) for a time constant tau in
// milliseconds. Entry i covers elapsed time i << spec.Shift.
func Generate(spec Spec, tau float64, timestepUS int) (*DecayLUT, error) {
	if timestepUS != SupportedTimestepUS {
		return nil, fmt.Errorf("%w: got %dus", ErrUnsupportedTimestep, timestepUS)
	}

	if tau <= 0 {
		return nil, fmt.Errorf("lut %s: time constant must be positive, got %g",
			spec.Name, tau)
	}

	if spec.Size <= 0 {
		return nil, fmt.Errorf("lut %s: invalid size %d", spec.Name, spec.Size)
	}

	reciprocal := 1.0 / tau
	values := make([]int16, spec.Size)

	for i := range values {
		t := float64(uint64(i) << spec.Shift)
		values[i] = int16(fixed.FromFloat(math.Exp(-t * reciprocal)))
	}

	return &DecayLUT{
		spec:   spec,
		values: values,
		last:   uint32(spec.Size - 1),
	}, nil
}

// Encode serializes tables, in order, into a configuration blob.
func Encode(tables ...*DecayLUT) []byte {
	blob := make([]byte, 0)

	for _, t := range tables {
		for _, v := range t.values {
			blob = binary.LittleEndian.AppendUint16(blob, uint16(v))
		}
	}

	return blob
}

// WriteTo writes tables, in order, into a region starting at addr and returns
// the address after the last written entry.
func WriteTo(s *region.Storage, addr uint64, tables ...*DecayLUT) (uint64, error) {
	w := region.NewWriter(s, addr)

	for _, t := range tables {
		if err := w.WriteInt16s(t.values); err != nil {
			return addr, fmt.Errorf("lut %s: %w", t.spec.Name, err)
		}
	}

	return w.Addr(), nil
}
