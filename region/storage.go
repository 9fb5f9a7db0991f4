// Package region models the configuration memory that the host writes
// plasticity parameters into before a simulation starts.
//
// A region is addressed in bytes. Loaders read a sequence of parameter blocks
// from it and hand back the address right after the last byte they consumed,
// so several loaders can be chained over one contiguous region.
package region

import (
	"errors"
	"fmt"
)

// ErrOutOfCapacity is returned when an access touches bytes beyond the
// capacity of the storage.
var ErrOutOfCapacity = errors.New("region: access beyond storage capacity")

// A Storage keeps the bytes of a configuration region.
//
// Storage is allocated in pages. Pages that are never touched by Read or Write
// are never allocated, so large sparse regions stay cheap.
type Storage struct {
	pageSize uint64
	capacity uint64
	pages    map[uint64][]byte
}

// NewStorage creates a storage of the given capacity in bytes.
func NewStorage(capacity uint64) *Storage {
	return &Storage{
		pageSize: 4096,
		capacity: capacity,
		pages:    make(map[uint64][]byte),
	}
}

// NewStorageFromBytes creates a storage that holds a copy of data starting at
// address 0. The capacity equals the length of data.
func NewStorageFromBytes(data []byte) *Storage {
	s := NewStorage(uint64(len(data)))

	err := s.Write(0, data)
	if err != nil {
		panic(err)
	}

	return s
}

// Capacity returns the number of addressable bytes.
func (s *Storage) Capacity() uint64 {
	return s.capacity
}

func (s *Storage) checkRange(addr, n uint64) error {
	if addr+n > s.capacity || addr+n < addr {
		return fmt.Errorf("%w: [0x%x, 0x%x) capacity 0x%x",
			ErrOutOfCapacity, addr, addr+n, s.capacity)
	}

	return nil
}

func (s *Storage) page(addr uint64) []byte {
	base := addr - addr%s.pageSize

	p, ok := s.pages[base]
	if !ok {
		p = make([]byte, s.pageSize)
		s.pages[base] = p
	}

	return p
}

// Read returns n bytes starting at addr.
func (s *Storage) Read(addr, n uint64) ([]byte, error) {
	if err := s.checkRange(addr, n); err != nil {
		return nil, err
	}

	res := make([]byte, n)
	done := uint64(0)

	for done < n {
		curr := addr + done
		offset := curr % s.pageSize
		chunk := min(n-done, s.pageSize-offset)

		copy(res[done:done+chunk], s.page(curr)[offset:offset+chunk])
		done += chunk
	}

	return res, nil
}

// Write stores data starting at addr.
func (s *Storage) Write(addr uint64, data []byte) error {
	n := uint64(len(data))
	if err := s.checkRange(addr, n); err != nil {
		return err
	}

	done := uint64(0)

	for done < n {
		curr := addr + done
		offset := curr % s.pageSize
		chunk := min(n-done, s.pageSize-offset)

		copy(s.page(curr)[offset:offset+chunk], data[done:done+chunk])
		done += chunk
	}

	return nil
}
