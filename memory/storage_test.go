package memory

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Storage", func() {
	var s *Storage

	BeforeEach(func() {
		s = NewStorageAt(0x4000_0000, 64*KB)
	})

	It("should read untouched memory as zero", func() {
		data, err := s.Read(0x4000_0100, 8)

		Expect(err).NotTo(HaveOccurred())
		Expect(data).To(Equal(make([]byte, 8)))
	})

	It("should read back data written across units", func() {
		data := make([]byte, 6000)
		for i := range data {
			data[i] = byte(i)
		}

		Expect(s.Write(0x4000_0ff0, data)).To(Succeed())

		got, err := s.Read(0x4000_0ff0, 6000)
		Expect(err).NotTo(HaveOccurred())
		Expect(got).To(Equal(data))
	})

	It("should store little-endian words", func() {
		Expect(s.Write32(0x4000_0004, 0x1122_3344)).To(Succeed())

		b, _ := s.Read(0x4000_0004, 4)
		Expect(b).To(Equal([]byte{0x44, 0x33, 0x22, 0x11}))

		v, err := s.Read32(0x4000_0004)
		Expect(err).NotTo(HaveOccurred())
		Expect(v).To(Equal(uint32(0x1122_3344)))
	})

	It("should reject accesses outside the range", func() {
		_, err := s.Read(0x3fff_fffc, 4)
		Expect(err).To(MatchError(ErrOutOfRange))

		err = s.Write32(0x4000_0000+64*KB-2, 1)
		Expect(err).To(MatchError(ErrOutOfRange))
	})

	It("should report base and capacity", func() {
		Expect(s.Base()).To(Equal(uint64(0x4000_0000)))
		Expect(s.Capacity()).To(Equal(64 * KB))
	})
})
