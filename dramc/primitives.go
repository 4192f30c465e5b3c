package dramc

import (
	"github.com/sarchlab/dramctl/regs"
)

// SetClockSelect switches the mode-select field to its self-refresh value.
func (c *Controller) SetClockSelect() {
	c.step("select self-refresh clock")
	regs.Modify(c.bus, regs.MCR, func(v uint32) uint32 {
		return regs.MCRModeSelect.MustSet(v, regs.MCRModeSelfRefresh)
	})
}

// ClearClockSelect removes the self-refresh clock-select override.
func (c *Controller) ClearClockSelect() {
	c.step("clear clock select")
	regs.ClearBits(c.bus, regs.MCR, regs.MCRModeSelect.Mask())
}

// SetSystemClock turns the controller system clock (and DRAM clock output)
// on or off.
func (c *Controller) SetSystemClock(on bool) {
	if on {
		c.step("system clock on")
	} else {
		c.step("system clock off")
	}

	regs.Modify(c.bus, regs.MCR, func(v uint32) uint32 {
		return regs.MCRSysClock.Assign(v, on)
	})
}

// HoldPads freezes the ODT pad state and waits for the acknowledge.
func (c *Controller) HoldPads() error {
	c.step("hold ODT pads")
	c.bus.Write(regs.PPWRSCTL, regs.PadHoldPattern)

	return c.WaitUntil("pad hold acknowledge", func() bool {
		return regs.PadAck.IsSet(c.bus.Read(regs.PPWRSCTL))
	})
}

// ReleasePads releases the ODT pad hold, settles for settle loops and waits
// for the acknowledge bit to drop.
func (c *Controller) ReleasePads(settle uint32) error {
	c.step("release ODT pads")
	c.bus.Write(regs.PPWRSCTL, regs.PadReleasePattern)

	if settle > 0 {
		c.delayer.Delay(settle)
	}

	return c.WaitUntil("pad release acknowledge", func() bool {
		return !regs.PadAck.IsSet(c.bus.Read(regs.PPWRSCTL))
	})
}

// DisableTrainingMonitor turns the training monitor off and drops any
// pending init request.
func (c *Controller) DisableTrainingMonitor() {
	c.step("training monitor off")
	regs.Modify(c.bus, regs.CCR, func(v uint32) uint32 {
		return regs.CCRInit.Clear(regs.CCRITMDisable.Set(v))
	})
}

// EnableTrainingMonitor turns the training monitor back on.
func (c *Controller) EnableTrainingMonitor() {
	c.step("training monitor on")
	regs.ClearBits(c.bus, regs.CCR, regs.CCRITMDisable.Mask())
}

// Initialize triggers controller initialization and waits until hardware
// reports it done.
func (c *Controller) Initialize() error {
	c.step("initialize controller")
	regs.SetBits(c.bus, regs.CCR, regs.CCRInit.Mask())

	return c.WaitInitDone()
}

// WaitInitDone waits for the init-in-progress bit to clear.
func (c *Controller) WaitInitDone() error {
	return c.WaitUntil("init done", func() bool {
		return !regs.CCRInit.IsSet(c.bus.Read(regs.CCR))
	})
}

// EnableMasterDLL brings the master DLL out of reset and lets it settle.
func (c *Controller) EnableMasterDLL() {
	c.step("enable master DLL")
	c.dllSequence(regs.DLLCR(0))
}

// EnableSlaveDLLs programs the byte-lane delay codes and brings the slave
// DLLs out of reset. codes packs one 4-bit code per channel, channel 1 in
// the low nibble.
func (c *Controller) EnableSlaveDLLs(codes uint32) {
	c.step("enable slave DLLs")

	addrs := make([]regs.Addr, 0, regs.NumSlaveDLLs)
	for n := 1; n <= regs.NumSlaveDLLs; n++ {
		addr := regs.DLLCR(n)
		code := (codes >> (4 * uint(n-1))) & 0xf

		regs.Modify(c.bus, addr, func(v uint32) uint32 {
			return regs.DLLDelayCode.MustSet(v, code)
		})

		addrs = append(addrs, addr)
	}

	c.dllSequence(addrs...)
}

// dllSequence walks DLL channels through reset, release and open.
func (c *Controller) dllSequence(addrs ...regs.Addr) {
	for _, a := range addrs {
		regs.Modify(c.bus, a, func(v uint32) uint32 {
			return regs.DLLReset.Set(regs.DLLOpen.Clear(v))
		})
	}

	c.delayer.Delay(ShortLoops)

	for _, a := range addrs {
		regs.ClearBits(c.bus, a, regs.DLLReset.Mask()|regs.DLLOpen.Mask())
	}

	c.delayer.Delay(SettleLoops)

	for _, a := range addrs {
		regs.Modify(c.bus, a, func(v uint32) uint32 {
			return regs.DLLOpen.Set(regs.DLLReset.Clear(v))
		})
	}

	c.delayer.Delay(SettleLoops)
}

// SlaveDelayCodes reads the packed delay codes of the slave DLLs.
func (c *Controller) SlaveDelayCodes() uint32 {
	var codes uint32

	for n := 1; n <= regs.NumSlaveDLLs; n++ {
		code := regs.DLLDelayCode.Get(c.bus.Read(regs.DLLCR(n)))
		codes |= code << (4 * uint(n-1))
	}

	return codes
}

// DisableDLLs closes and resets the master and every slave DLL channel.
func (c *Controller) DisableDLLs() {
	c.step("disable DLLs")

	for n := 0; n <= regs.NumSlaveDLLs; n++ {
		regs.Modify(c.bus, regs.DLLCR(n), func(v uint32) uint32 {
			return regs.DLLReset.Set(regs.DLLOpen.Clear(v))
		})
	}
}

// ResetBusClock pulses the controller's AHB clock gate.
func (c *Controller) ResetBusClock() {
	c.step("reset bus clock")
	regs.ClearBits(c.bus, regs.CCMAHBGate0, regs.CCMAHBSDRAMGate.Mask())
	c.delayer.Delay(ShortLoops)
	regs.SetBits(c.bus, regs.CCMAHBGate0, regs.CCMAHBSDRAMGate.Mask())
}

// SetDrive configures the pad drive strength and leaves the mode select in
// its normal value.
func (c *Controller) SetDrive() {
	c.step("set drive")
	regs.Modify(c.bus, regs.MCR, func(v uint32) uint32 {
		v = regs.MCRModeNormal.MustSet(v, 0)
		v = regs.MCRModeSelect.MustSet(v, 0)
		v = regs.MCRModeEnable.MustSet(v, regs.MCRModeEnable.Max())
		v = regs.MCRDrive.MustSet(v, regs.MCRDrive.Max())

		return v
	})
}

// SetMaxCKEDelay programs the longest CKE delay after reset.
func (c *Controller) SetMaxCKEDelay() {
	c.step("max CKE delay")
	regs.SetBits(c.bus, regs.IDCR, regs.IDCRCKEDelay.Mask())
}

// PulseDDR3Reset asserts and releases the DRAM reset line.
func (c *Controller) PulseDDR3Reset() {
	c.step("pulse DDR3 reset")
	regs.SetBits(c.bus, regs.MCR, regs.MCRDDR3Reset.Mask())
	c.delayer.Delay(ShortLoops)
	regs.ClearBits(c.bus, regs.MCR, regs.MCRDDR3Reset.Mask())
}
