package hostport

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dramctl/regbank"
	"github.com/sarchlab/dramctl/regs"
)

var _ = Describe("Gate", func() {
	var (
		bank *regbank.Bank
		gate *Gate
	)

	BeforeEach(func() {
		bank = regbank.NewBank("Bank", regs.SDRBase, 0x1000)
		gate = NewGate(bank)
	})

	It("should read back the enable state of every port", func() {
		for p := 0; p < regs.NumHostPorts; p++ {
			for _, on := range []bool{true, false, true} {
				Expect(gate.SetEnabled(p, on)).To(Succeed())

				st, err := gate.Read(p)
				Expect(err).NotTo(HaveOccurred())
				Expect(st.Enabled).To(Equal(on))
			}
		}
	})

	It("should keep other fields when toggling enable", func() {
		bank.Poke(regs.HPCR(5), 0xabcd_1230)

		Expect(gate.SetEnabled(5, true)).To(Succeed())
		Expect(bank.Peek(regs.HPCR(5))).To(Equal(uint32(0xabcd_1231)))

		Expect(gate.SetEnabled(5, false)).To(Succeed())
		Expect(bank.Peek(regs.HPCR(5))).To(Equal(uint32(0xabcd_1230)))
	})

	It("should reject invalid ports without touching registers", func() {
		recorder := regbank.NewRecorder(bank)

		for _, p := range []int{-1, 32, 100} {
			Expect(gate.SetEnabled(p, true)).To(MatchError(ErrInvalidPort))
			Expect(gate.Configure(p, Config{})).To(MatchError(ErrInvalidPort))

			_, err := gate.FIFOEmpty(p)
			Expect(err).To(MatchError(ErrInvalidPort))
		}

		Expect(recorder.Accesses()).To(BeEmpty())
	})

	DescribeTable("configure round-trips regardless of prior bits",
		func(prior uint32, cfg Config) {
			bank.Poke(regs.HPCR(18), prior)

			Expect(gate.Configure(18, cfg)).To(Succeed())

			st, err := gate.Read(18)
			Expect(err).NotTo(HaveOccurred())
			Expect(st.Config).To(Equal(cfg))
			Expect(st.Enabled).To(Equal(regs.HPCREnable.IsSet(prior)))
			Expect(st.Raw &^ 0xfffc).To(Equal(prior &^ 0xfffc))
		},
		Entry("clear register", uint32(0), Config{1, 2, 3}),
		Entry("enabled register", uint32(1), Config{3, 15, 0}),
		Entry("all ones", uint32(0xffff_ffff), Config{0, 0, 0}),
		Entry("unrelated high bits", uint32(0x5a5a_0002), Config{2, 7, 1}),
	)

	It("should reject out-of-range configuration", func() {
		Expect(gate.Configure(0, Config{Priority: 4})).To(MatchError(ErrInvalidConfig))
		Expect(gate.Configure(0, Config{WaitCycles: 16})).To(MatchError(ErrInvalidConfig))
		Expect(gate.Configure(0, Config{CmdCount: 4})).To(MatchError(ErrInvalidConfig))
	})

	It("should report FIFO status per port", func() {
		bank.Poke(regs.CFSR, 0x8000_0005)

		for p, want := range map[int]bool{0: true, 1: false, 2: true, 31: true, 30: false} {
			empty, err := gate.FIFOEmpty(p)
			Expect(err).NotTo(HaveOccurred())
			Expect(empty).To(Equal(want))
		}
	})

	It("should capture and restore bit-exact", func() {
		ports := PortIndexSet[:]
		for i, p := range ports {
			bank.Poke(regs.HPCR(p), uint32(0x1000+i))
		}

		words, err := gate.Capture(ports)
		Expect(err).NotTo(HaveOccurred())
		Expect(gate.Zero(ports)).To(Succeed())
		Expect(bank.Peek(regs.HPCR(16))).To(BeZero())

		Expect(gate.Restore(ports, words)).To(Succeed())
		for i, p := range ports {
			Expect(bank.Peek(regs.HPCR(p))).To(Equal(uint32(0x1000 + i)))
		}
	})

	It("should reject mismatched restore", func() {
		Expect(gate.Restore([]int{0, 1}, []uint32{0})).To(MatchError(ErrInvalidConfig))
	})

	It("should disable a set and enable a range", func() {
		Expect(gate.EnableRange(RestoreRange[0], RestoreRange[1])).To(Succeed())
		Expect(gate.DisableSet(PortIndexSet[:])).To(Succeed())

		Expect(bank.Peek(regs.HPCR(8))).To(Equal(uint32(1)))
		Expect(bank.Peek(regs.HPCR(7))).To(BeZero())
		Expect(bank.Peek(regs.HPCR(30))).To(Equal(uint32(1)))
		Expect(bank.Peek(regs.HPCR(31))).To(BeZero())
	})

	It("should apply and capture the retained table", func() {
		gate.ApplyTable(DefaultTable)

		Expect(gate.CaptureTable()).To(Equal(DefaultTable))
		Expect(bank.Peek(regs.HPCR(18))).To(Equal(uint32(0x735)))
	})

	It("should keep the two port sets distinct", func() {
		Expect(PortIndexSet).To(HaveLen(22))
		Expect(PortIndexSet).To(ContainElement(31))
		Expect(PortIndexSet).NotTo(ContainElement(8))
		Expect(RestoreRange).To(Equal([2]int{0, 30}))
	})
})
