package integrity

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dramctl/memory"
)

var _ = Describe("Checker", func() {
	var (
		storage *memory.Storage
		checker *Checker
	)

	BeforeEach(func() {
		storage = memory.NewStorageAt(0x4000_0000, 256*memory.KB)
		checker = NewChecker(storage, Window{Base: 0x4000_0000, Size: 256 * memory.KB})
	})

	It("should sum words with wrap-around", func() {
		Expect(storage.Write32(0x4000_0000, 0xffff_ffff)).To(Succeed())
		Expect(storage.Write32(0x4000_0004, 2)).To(Succeed())
		Expect(storage.Write32(0x4003_fffc, 5)).To(Succeed())

		sum, err := checker.Sum()

		Expect(err).NotTo(HaveOccurred())
		Expect(sum).To(Equal(uint32(6)))
	})

	It("should report a match when memory is unchanged", func() {
		Expect(storage.Write32(0x4000_1000, 0xdead_beef)).To(Succeed())
		_, err := checker.Baseline()
		Expect(err).NotTo(HaveOccurred())

		res, err := checker.Verify()

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Match).To(BeTrue())
		Expect(res.String()).To(ContainSubstring("ok"))
	})

	It("should report a mismatch after corruption", func() {
		base, _ := checker.Baseline()
		Expect(storage.Write32(0x4002_0000, 1)).To(Succeed())

		res, err := checker.Verify()

		Expect(err).NotTo(HaveOccurred())
		Expect(res.Match).To(BeFalse())
		Expect(res.Baseline).To(Equal(base))
		Expect(res.Current).To(Equal(base + 1))
		Expect(res.String()).To(ContainSubstring("mismatch"))
	})

	It("should refuse to verify without a baseline", func() {
		_, err := checker.Verify()

		Expect(err).To(MatchError(ErrNoBaseline))
	})

	It("should fail outside the memory", func() {
		checker = NewChecker(storage, Window{Base: 0x3000_0000, Size: 16})

		_, err := checker.Sum()

		Expect(err).To(MatchError(memory.ErrOutOfRange))
	})

	It("should reject empty windows", func() {
		checker = NewChecker(storage, Window{Base: 0x4000_0000, Size: 3})

		_, err := checker.Sum()

		Expect(err).To(MatchError(ErrEmptyWindow))
		Expect(checker.Window().String()).To(Equal("[0x40000000, 0x40000003)"))
	})
})
