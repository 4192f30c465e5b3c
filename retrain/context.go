package retrain

import (
	"github.com/sarchlab/dramctl/regs"
)

// Context is the controller configuration rewritten on every attempt.
type Context struct {
	CCR   uint32
	DCR   uint32
	DRR   uint32
	IOCR  uint32
	TPR0  uint32
	TPR1  uint32
	TPR2  uint32
	MR    uint32
	EMR   uint32
	EMR2  uint32
	EMR3  uint32
	ZQCR0 uint32
	ZQSR  uint32

	// DLLCodes packs the slave DLL delay codes, channel 1 in the low nibble.
	DLLCodes uint32
}

// Capture reads the configuration from the controller registers.
func Capture(bus regs.Bus) Context {
	ctx := Context{
		DCR:   bus.Read(regs.DCR),
		DRR:   bus.Read(regs.DRR),
		TPR0:  bus.Read(regs.TPR0),
		TPR1:  bus.Read(regs.TPR1),
		TPR2:  bus.Read(regs.TPR2),
		MR:    bus.Read(regs.MR),
		EMR:   bus.Read(regs.EMR),
		EMR2:  bus.Read(regs.EMR2),
		EMR3:  bus.Read(regs.EMR3),
		ZQCR0: bus.Read(regs.ZQCR0),
		IOCR:  bus.Read(regs.IOCR),
	}

	for n := 1; n <= regs.NumSlaveDLLs; n++ {
		code := regs.DLLDelayCode.Get(bus.Read(regs.DLLCR(n)))
		ctx.DLLCodes |= code << (4 * uint(n-1))
	}

	ctx.CCR = bus.Read(regs.CCR)
	ctx.ZQSR = bus.Read(regs.ZQSR)

	return ctx
}

// ZQControl combines the calibration result with the saved divider and the
// fixed enable flags.
func (c Context) ZQControl() uint32 {
	v := regs.ZQCR0Calib.Get(c.ZQSR) << regs.ZQCR0Calib.Shift
	v = regs.ZQCR0Force.Set(v)
	v = regs.ZQCR0Enable.Set(v)
	v |= c.ZQCR0 & regs.ZQCR0Divide.Mask()
	v |= c.ZQCR0 & regs.ZQCR0Extra.Mask()

	return v
}

type regWrite struct {
	addr  regs.Addr
	value uint32
}

// timingWrites lists the registers restored after the slave DLLs, in order.
func (c Context) timingWrites() []regWrite {
	return []regWrite{
		{regs.IOCR, c.IOCR},
		{regs.DRR, c.DRR},
		{regs.TPR0, c.TPR0},
		{regs.TPR1, c.TPR1},
		{regs.TPR2, c.TPR2},
		{regs.MR, c.MR},
		{regs.EMR, c.EMR},
		{regs.EMR2, c.EMR2},
		{regs.EMR3, c.EMR3},
	}
}
