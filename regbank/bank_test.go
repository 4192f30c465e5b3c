package regbank

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dramctl/regs"
)

var _ = Describe("Bank", func() {
	var (
		bank     *Bank
		recorder *Recorder
	)

	BeforeEach(func() {
		bank = NewBank("Bank", regs.SDRBase, 0x1000)
		recorder = NewRecorder(bank)
	})

	It("should read back written values", func() {
		bank.Write(regs.TPR0, 0x1234)

		Expect(bank.Read(regs.TPR0)).To(Equal(uint32(0x1234)))
		Expect(bank.NumAccesses()).To(Equal(uint64(2)))
	})

	It("should record accesses in order", func() {
		bank.Write(regs.DCR, 1)
		bank.Read(regs.DRR)

		accesses := recorder.Accesses()
		Expect(accesses).To(HaveLen(2))
		Expect(accesses[0].Kind).To(Equal(AccessWrite))
		Expect(accesses[0].Addr).To(Equal(regs.DCR))
		Expect(accesses[0].ID).NotTo(BeEmpty())
		Expect(accesses[1].Kind).To(Equal(AccessRead))
		Expect(accesses[1].Seq).To(Equal(uint64(2)))
		Expect(accesses[0].String()).To(Equal("#1 W SDR_DCR 0x00000001"))
	})

	It("should not record peeks and pokes", func() {
		bank.Poke(regs.MR, 7)

		Expect(bank.Peek(regs.MR)).To(Equal(uint32(7)))
		Expect(recorder.Accesses()).To(BeEmpty())
	})

	It("should panic outside its range", func() {
		Expect(func() { bank.Read(regs.CCMSDRAMGate) }).To(Panic())
	})

	It("should snapshot registers", func() {
		bank.Poke(regs.TPR1, 3)

		snap := bank.Snapshot([]regs.Addr{regs.TPR1, regs.TPR2})

		Expect(snap).To(Equal(map[regs.Addr]uint32{regs.TPR1: 3, regs.TPR2: 0}))
	})

	It("should find accesses", func() {
		bank.Write(regs.DCR, 5)
		bank.Write(regs.DCR, 6)
		bank.Read(regs.DCR)

		is6 := func(v uint32) bool { return v == 6 }
		Expect(recorder.Find(0, IsWriteOf(regs.DCR, is6))).To(Equal(1))
		Expect(recorder.Find(2, IsWriteOf(regs.DCR, is6))).To(Equal(-1))
		Expect(recorder.Find(0, IsReadOf(regs.DCR, is6))).To(Equal(2))
		Expect(recorder.WritesTo(regs.DCR)).To(Equal([]uint32{5, 6}))

		recorder.Reset()
		Expect(recorder.Accesses()).To(BeEmpty())
	})
})

var _ = Describe("Behaviors", func() {
	var bank *Bank

	BeforeEach(func() {
		bank = NewBank("Bank", regs.SDRBase, 0x1000)
	})

	It("should clear a busy bit after the configured reads", func() {
		bank.AddBehavior(regs.DCR, &SelfClearing{Mask: regs.DCRBusy.Mask(), After: 2})

		bank.Write(regs.DCR, 0x9000_0000)

		Expect(bank.Read(regs.DCR)).To(Equal(uint32(0x9000_0000)))
		Expect(bank.Read(regs.DCR)).To(Equal(uint32(0x9000_0000)))
		Expect(bank.Read(regs.DCR)).To(Equal(uint32(0x1000_0000)))
	})

	It("should clear immediately with no delay", func() {
		bank.AddBehavior(regs.CCR, &SelfClearing{Mask: regs.CCRInit.Mask()})

		bank.Write(regs.CCR, 0x8000_0001)

		Expect(bank.Peek(regs.CCR)).To(Equal(uint32(1)))
	})

	It("should acknowledge a handshake after the configured reads", func() {
		bank.AddBehavior(regs.PPWRSCTL, &Handshake{
			Ack:          regs.PadAck,
			SetPattern:   regs.PadHoldPattern,
			ClearPattern: regs.PadReleasePattern,
			After:        1,
		})

		bank.Write(regs.PPWRSCTL, regs.PadHoldPattern)
		Expect(regs.PadAck.IsSet(bank.Read(regs.PPWRSCTL))).To(BeFalse())
		Expect(regs.PadAck.IsSet(bank.Read(regs.PPWRSCTL))).To(BeTrue())

		bank.Write(regs.PPWRSCTL, regs.PadReleasePattern)
		Expect(regs.PadAck.IsSet(bank.Read(regs.PPWRSCTL))).To(BeTrue())
		Expect(regs.PadAck.IsSet(bank.Read(regs.PPWRSCTL))).To(BeFalse())
	})

	It("should keep stuck bits", func() {
		bank.AddBehavior(regs.DCR, &Stuck{Mask: regs.DCRBusy.Mask(), Value: regs.DCRBusy.Mask()})

		bank.Write(regs.DCR, 0)

		Expect(regs.DCRBusy.IsSet(bank.Read(regs.DCR))).To(BeTrue())
	})
})
