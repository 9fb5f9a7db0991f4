package region

import "encoding/binary"

// A Source is anything byte-addressed a Reader can consume, such as a
// Storage.
type Source interface {
	Read(addr, n uint64) ([]byte, error)
}

var _ Source = (*Storage)(nil)

// A Reader consumes little-endian values from a Source, advancing its
// address after every read.
type Reader struct {
	storage Source
	addr    uint64
}

// NewReader creates a reader positioned at addr.
func NewReader(s Source, addr uint64) *Reader {
	return &Reader{storage: s, addr: addr}
}

// Addr returns the address immediately after the last consumed byte.
func (r *Reader) Addr() uint64 {
	return r.addr
}

// ReadInt16s consumes n 16-bit signed values.
func (r *Reader) ReadInt16s(n int) ([]int16, error) {
	buf, err := r.storage.Read(r.addr, uint64(n)*2)
	if err != nil {
		return nil, err
	}

	values := make([]int16, n)
	for i := range values {
		values[i] = int16(binary.LittleEndian.Uint16(buf[2*i:]))
	}

	r.addr += uint64(n) * 2

	return values, nil
}

// ReadUint32 consumes one 32-bit word.
func (r *Reader) ReadUint32() (uint32, error) {
	buf, err := r.storage.Read(r.addr, 4)
	if err != nil {
		return 0, err
	}

	r.addr += 4

	return binary.LittleEndian.Uint32(buf), nil
}

// A Writer appends little-endian values to a Storage.
type Writer struct {
	storage *Storage
	addr    uint64
}

// NewWriter creates a writer positioned at addr.
func NewWriter(s *Storage, addr uint64) *Writer {
	return &Writer{storage: s, addr: addr}
}

// Addr returns the address the next value will be written to.
func (w *Writer) Addr() uint64 {
	return w.addr
}

// WriteInt16s appends values.
func (w *Writer) WriteInt16s(values []int16) error {
	buf := make([]byte, 2*len(values))
	for i, v := range values {
		binary.LittleEndian.PutUint16(buf[2*i:], uint16(v))
	}

	if err := w.storage.Write(w.addr, buf); err != nil {
		return err
	}

	w.addr += uint64(len(buf))

	return nil
}

// WriteUint32 appends one 32-bit word.
func (w *Writer) WriteUint32(v uint32) error {
	buf := binary.LittleEndian.AppendUint32(nil, v)

	if err := w.storage.Write(w.addr, buf); err != nil {
		return err
	}

	w.addr += 4

	return nil
}
