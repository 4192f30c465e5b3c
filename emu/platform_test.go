package emu

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/sarchlab/dramctl/hostport"
	"github.com/sarchlab/dramctl/memory"
	"github.com/sarchlab/dramctl/regs"
)

var _ = Describe("Platform", func() {
	It("should boot with the retained port table and open DLLs", func() {
		p := MakeBuilder().Build("Board")

		Expect(p.Name()).To(Equal("Board"))
		Expect(p.Bank.Peek(regs.HPCR(18))).To(Equal(hostport.DefaultTable[18]))
		Expect(regs.DLLOpen.IsSet(p.Bank.Peek(regs.DLLCR(0)))).To(BeTrue())
		Expect(regs.DLLDelayCode.Get(p.Bank.Peek(regs.DLLCR(2)))).To(Equal(uint32(7)))
		Expect(p.Bank.Peek(regs.CCMSDRAMGate)).To(Equal(uint32(0x3ff)))
	})

	It("should clear the DCR busy bit after the configured polls", func() {
		p := MakeBuilder().WithBusyPolls(1).Build("Board")

		p.Bank.Write(regs.DCR, regs.DCRCommand.MustSet(0, 0x15))

		Expect(regs.DCRBusy.IsSet(p.Bank.Read(regs.DCR))).To(BeTrue())
		Expect(regs.DCRBusy.IsSet(p.Bank.Read(regs.DCR))).To(BeFalse())
	})

	It("should keep a stuck busy bit", func() {
		p := MakeBuilder().WithStuckBusy().Build("Board")

		for i := 0; i < 10; i++ {
			Expect(regs.DCRBusy.IsSet(p.Bank.Read(regs.DCR))).To(BeTrue())
		}
	})

	It("should follow the scan script", func() {
		p := MakeBuilder().WithFailingScans(2).Build("Board")

		for _, want := range []bool{false, false, true, true} {
			ok, err := p.Scanner.Scan()
			Expect(err).NotTo(HaveOccurred())
			Expect(ok).To(Equal(want))
		}

		Expect(p.Scanner.Calls()).To(Equal(4))
	})

	It("should fill and corrupt DRAM", func() {
		p := MakeBuilder().WithDRAM(0x4000_0000, 64*memory.KB).Build("Board")

		Expect(p.FillDRAM(1, 4*memory.KB)).To(Succeed())
		before, _ := p.DRAM.Read32(0x4000_0010)

		Expect(p.CorruptDRAM(0x4000_0010)).To(Succeed())

		after, _ := p.DRAM.Read32(0x4000_0010)
		Expect(after).To(Equal(^before))
	})
})
