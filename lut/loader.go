package lut

import (
	"fmt"

	"github.com/sarchlab/stdp/region"
)

// A Source is a byte-addressed configuration region.
type Source = region.Source

// Initialise reads one table per spec, in order, starting at addr. It returns
// the tables and the address immediately after the last consumed entry, so
// the caller can continue reading unrelated parameters from the same region.
func Initialise(src Source, addr uint64, specs ...Spec) ([]*DecayLUT, uint64, error) {
	tables := make([]*DecayLUT, 0, len(specs))
	r := region.NewReader(src, addr)

	for _, spec := range specs {
		if spec.Size <= 0 {
			return nil, addr, fmt.Errorf("lut %s: invalid size %d",
				spec.Name, spec.Size)
		}

		values, err := r.ReadInt16s(spec.Size)
		if err != nil {
			return nil, addr, fmt.Errorf("%w: table %s at 0x%x: %w",
				ErrTruncatedBlob, spec.Name, r.Addr(), err)
		}

		tables = append(tables, &DecayLUT{
			spec:   spec,
			values: values,
			last:   uint32(spec.Size - 1),
		})
	}

	return tables, r.Addr(), nil
}

// FromBytes reads tables from the start of blob and returns them with the
// byte offset right after the last consumed entry.
func FromBytes(blob []byte, specs ...Spec) ([]*DecayLUT, int, error) {
	tables, next, err := Initialise(byteSource(blob), 0, specs...)
	return tables, int(next), err
}

type byteSource []byte

func (b byteSource) Read(addr, n uint64) ([]byte, error) {
	if addr+n > uint64(len(b)) {
		return nil, fmt.Errorf("read [%d, %d) of %d bytes", addr, addr+n, len(b))
	}

	return b[addr : addr+n], nil
}
