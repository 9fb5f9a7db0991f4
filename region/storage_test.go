package region_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/stdp/region"
)

var _ = Describe("Storage", func() {
	It("should read and write in single page", func() {
		storage := region.NewStorage(4096)
		Expect(storage.Write(0, []byte{1, 2, 3, 4})).To(Succeed())

		res, err := storage.Read(0, 2)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal([]byte{1, 2}))

		res, _ = storage.Read(1, 2)
		Expect(res).To(Equal([]byte{2, 3}))
	})

	It("should read and write across pages", func() {
		storage := region.NewStorage(8192)
		Expect(storage.Write(4094, []byte{1, 2, 3, 4})).To(Succeed())

		res, err := storage.Read(4094, 4)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal([]byte{1, 2, 3, 4}))
	})

	It("should read zeros from untouched bytes", func() {
		storage := region.NewStorage(8192)

		res, err := storage.Read(5000, 3)
		Expect(err).NotTo(HaveOccurred())
		Expect(res).To(Equal([]byte{0, 0, 0}))
	})

	It("should return error if accessing over the capacity", func() {
		storage := region.NewStorage(4096)

		err := storage.Write(4095, []byte{1, 2})
		Expect(err).To(MatchError(region.ErrOutOfCapacity))

		_, err = storage.Read(4097, 1)
		Expect(err).To(MatchError(region.ErrOutOfCapacity))
	})

	It("should copy bytes on construction", func() {
		data := []byte{9, 8, 7}
		storage := region.NewStorageFromBytes(data)
		data[0] = 0

		Expect(storage.Capacity()).To(Equal(uint64(3)))
		res, _ := storage.Read(0, 3)
		Expect(res).To(Equal([]byte{9, 8, 7}))
	})
})

var _ = Describe("Cursor", func() {
	It("should round trip int16 values and advance", func() {
		storage := region.NewStorage(64)

		w := region.NewWriter(storage, 4)
		Expect(w.WriteInt16s([]int16{2048, -1, 300})).To(Succeed())
		Expect(w.WriteUint32(0xdeadbeef)).To(Succeed())
		Expect(w.Addr()).To(Equal(uint64(14)))

		r := region.NewReader(storage, 4)
		values, err := r.ReadInt16s(3)
		Expect(err).NotTo(HaveOccurred())
		Expect(values).To(Equal([]int16{2048, -1, 300}))
		Expect(r.Addr()).To(Equal(uint64(10)))

		word, err := r.ReadUint32()
		Expect(err).NotTo(HaveOccurred())
		Expect(word).To(Equal(uint32(0xdeadbeef)))
		Expect(r.Addr()).To(Equal(uint64(14)))
	})

	It("should store values little endian", func() {
		storage := region.NewStorage(2)
		Expect(region.NewWriter(storage, 0).WriteInt16s([]int16{0x0102})).
			To(Succeed())

		res, _ := storage.Read(0, 2)
		Expect(res).To(Equal([]byte{0x02, 0x01}))
	})

	It("should not advance on a failed read", func() {
		storage := region.NewStorage(4)
		r := region.NewReader(storage, 2)

		_, err := r.ReadInt16s(2)
		Expect(err).To(MatchError(region.ErrOutOfCapacity))
		Expect(r.Addr()).To(Equal(uint64(2)))
	})
})
