// Package dramc implements the register-level protocol of the DRAM
// controller: commands, self-refresh and power-down transitions, and the
// pad, DLL and clock primitives the suspend and retraining sequencers
// compose.
package dramc

import (
	"errors"
	"fmt"

	"github.com/sarchlab/dramctl/hooking"
	"github.com/sarchlab/dramctl/hostport"
	"github.com/sarchlab/dramctl/regs"
	"github.com/sarchlab/dramctl/timing"
)

// Delay loop counts.
const (
	SettleLoops     uint32 = 0x100
	ShortLoops      uint32 = 0x10
	PadReleaseLoops uint32 = 0x10000
)

// ErrIllegalTransition is returned when an operation is not allowed in the
// current power state.
var ErrIllegalTransition = errors.New("illegal power state transition")

// Hook positions of a Controller.
var (
	HookPosCommand     = &hooking.HookPos{Name: "Command"}
	HookPosStep        = &hooking.HookPos{Name: "Step"}
	HookPosStateChange = &hooking.HookPos{Name: "StateChange"}
)

// RefreshController enters and exits self-refresh.
type RefreshController interface {
	EnterSelfRefresh() error
	ExitSelfRefresh() error
}

// PowerDownController enters and exits power-down.
type PowerDownController interface {
	EnterPowerDown() error
	ExitPowerDown() error
}

// Controller drives the DRAM controller registers.
type Controller struct {
	hooking.HookableBase

	name    string
	bus     regs.Bus
	delayer timing.Delayer
	poller  *timing.Poller
	gate    *hostport.Gate
	state   State
}

// Name returns the name of the controller.
func (c *Controller) Name() string {
	return c.name
}

// State returns the tracked power state.
func (c *Controller) State() State {
	return c.state
}

// Bus returns the register bus.
func (c *Controller) Bus() regs.Bus {
	return c.bus
}

// Gate returns the host port gate on the same bus.
func (c *Controller) Gate() *hostport.Gate {
	return c.gate
}

// Delay busy-waits for loops delay loops.
func (c *Controller) Delay(loops uint32) {
	c.delayer.Delay(loops)
}

// WaitUntil polls cond within the controller's poll budget.
func (c *Controller) WaitUntil(what string, cond func() bool) error {
	return c.poller.WaitUntil(what, cond)
}

// Recover marks the controller normal again after the configuration was
// rebuilt from scratch.
func (c *Controller) Recover() {
	c.setState(StateNormal)
}

func (c *Controller) setState(s State) {
	if c.state == s {
		return
	}

	prev := c.state
	c.state = s

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    HookPosStateChange,
		Item:   s,
		Detail: prev,
	})
}

func (c *Controller) step(name string) {
	c.InvokeHook(hooking.HookCtx{Domain: c, Pos: HookPosStep, Item: name})
}

func (c *Controller) fail(err error) error {
	c.setState(StateFault)
	return err
}

func (c *Controller) expect(op string, allowed ...State) error {
	for _, s := range allowed {
		if c.state == s {
			return nil
		}
	}

	return fmt.Errorf("%w: %s in state %s", ErrIllegalTransition, op, c.state)
}

// Issue writes a command into DCR, waits for hardware to clear the busy bit
// and settles. In self-refresh or power-down only mode-exit is accepted.
func (c *Controller) Issue(cmd CommandCode) error {
	if c.state.lowPower() && cmd != CmdModeExit {
		return fmt.Errorf("%w: %s in state %s", ErrIllegalTransition, cmd,
			c.state)
	}

	regs.Modify(c.bus, regs.DCR, func(v uint32) uint32 {
		return regs.DCRCommand.MustSet(v, uint32(cmd))
	})

	c.InvokeHook(hooking.HookCtx{
		Domain: c,
		Pos:    HookPosCommand,
		Item:   cmd,
		Detail: c.state,
	})

	err := c.WaitUntil(cmd.String()+" busy clear", func() bool {
		return !regs.DCRBusy.IsSet(c.bus.Read(regs.DCR))
	})
	if err != nil {
		return err
	}

	c.delayer.Delay(SettleLoops)

	return nil
}

// EnterSelfRefresh gates the self-refresh port set, precharges all banks,
// puts the DRAM into self-refresh, selects the self-refresh clock and holds
// the ODT pads.
func (c *Controller) EnterSelfRefresh() error {
	if err := c.expect("enter self-refresh", StateNormal); err != nil {
		return err
	}

	c.setState(StateEntering)

	c.step("gate self-refresh ports")
	if err := c.gate.DisableSet(hostport.PortIndexSet[:]); err != nil {
		return c.fail(err)
	}

	if err := c.Issue(CmdPrechargeAll); err != nil {
		return c.fail(err)
	}

	if err := c.Issue(CmdSelfRefreshEnter); err != nil {
		return c.fail(err)
	}

	c.setState(StateSelfRefresh)
	c.SetClockSelect()

	if err := c.HoldPads(); err != nil {
		return c.fail(err)
	}

	return nil
}

// ExitSelfRefresh leaves self-refresh through mode-exit, issues a refresh,
// re-enables auto-refresh and opens the restore port range.
func (c *Controller) ExitSelfRefresh() error {
	if err := c.expect("exit self-refresh", StateSelfRefresh); err != nil {
		return err
	}

	if err := c.modeExit(); err != nil {
		return c.fail(err)
	}

	if err := c.Issue(CmdRefresh); err != nil {
		return c.fail(err)
	}

	c.step("enable auto-refresh")
	regs.ClearBits(c.bus, regs.DRR, regs.DRRAutoRefreshDisable.Mask())

	c.step("open restore port range")
	err := c.gate.EnableRange(hostport.RestoreRange[0], hostport.RestoreRange[1])
	if err != nil {
		return c.fail(err)
	}

	c.setState(StateNormal)

	return nil
}

// EnterPowerDown puts the DRAM into power-down.
func (c *Controller) EnterPowerDown() error {
	if err := c.expect("enter power-down", StateNormal); err != nil {
		return err
	}

	if err := c.Issue(CmdPowerDown); err != nil {
		return c.fail(err)
	}

	c.setState(StatePowerDown)

	return nil
}

// ExitPowerDown leaves power-down through mode-exit.
func (c *Controller) ExitPowerDown() error {
	if err := c.expect("exit power-down", StatePowerDown); err != nil {
		return err
	}

	if err := c.modeExit(); err != nil {
		return c.fail(err)
	}

	c.setState(StateNormal)

	return nil
}

// modeExit is the generic exit step from any low-power state.
func (c *Controller) modeExit() error {
	c.setState(StateExiting)

	return c.Issue(CmdModeExit)
}
