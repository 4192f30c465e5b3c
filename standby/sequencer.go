// Package standby takes the DRAM in and out of self-refresh around a system
// suspend, saving and restoring the clock and host port configuration.
package standby

import (
	"fmt"

	"github.com/sarchlab/dramctl/dramc"
	"github.com/sarchlab/dramctl/hooking"
	"github.com/sarchlab/dramctl/hostport"
	"github.com/sarchlab/dramctl/integrity"
	"github.com/sarchlab/dramctl/regs"
)

// Hook positions of a Sequencer.
var (
	HookPosSuspend   = &hooking.HookPos{Name: "Suspend"}
	HookPosResume    = &hooking.HookPos{Name: "Resume"}
	HookPosIntegrity = &hooking.HookPos{Name: "Integrity"}
)

// Sequencer runs the suspend and resume sequences.
type Sequencer struct {
	hooking.HookableBase

	name        string
	ctrl        *dramc.Controller
	checker     *integrity.Checker
	outstanding *SavedState
	last        *integrity.Result
}

// Name returns the name of the sequencer.
func (s *Sequencer) Name() string {
	return s.name
}

// Controller returns the controller the sequencer drives.
func (s *Sequencer) Controller() *dramc.Controller {
	return s.ctrl
}

// LastIntegrity returns the result of the most recent checksum comparison,
// or nil if none ran.
func (s *Sequencer) LastIntegrity() *integrity.Result {
	return s.last
}

// Outstanding returns the saved state waiting for Resume, if any.
func (s *Sequencer) Outstanding() *SavedState {
	return s.outstanding
}

func (s *Sequencer) phase(pos *hooking.HookPos, what string) {
	s.InvokeHook(hooking.HookCtx{Domain: s, Pos: pos, Item: what})
}

// Suspend saves the clock and host port configuration, puts the DRAM into
// self-refresh and shuts its clocks and DLLs down. If entering self-refresh
// fails, the saved configuration is written back before the error returns.
func (s *Sequencer) Suspend() (*SavedState, error) {
	if s.outstanding != nil {
		return nil, ErrSnapshotOutstanding
	}

	state := &SavedState{}
	bus := s.ctrl.Bus()
	gate := s.ctrl.Gate()

	s.phase(HookPosSuspend, "start")
	s.takeBaseline(state)

	state.ClockGating = bus.Read(regs.CCMSDRAMGate)
	bus.Write(regs.CCMSDRAMGate, 0)

	words, err := gate.Capture(hostport.PortIndexSet[:])
	if err != nil {
		bus.Write(regs.CCMSDRAMGate, state.ClockGating)
		return nil, fmt.Errorf("suspend: %w", err)
	}

	copy(state.PortWords[:], words)

	if err := gate.Zero(hostport.PortIndexSet[:]); err != nil {
		return nil, s.rollback(state, err)
	}

	if err := s.ctrl.EnterSelfRefresh(); err != nil {
		return nil, s.rollback(state, err)
	}

	s.ctrl.DisableTrainingMonitor()
	s.ctrl.SetSystemClock(false)
	s.ctrl.DisableDLLs()

	s.outstanding = state
	s.phase(HookPosSuspend, "done")

	return state, nil
}

// rollback puts the configuration taken by a failed Suspend back.
func (s *Sequencer) rollback(state *SavedState, cause error) error {
	s.phase(HookPosSuspend, "rollback")

	if err := s.restore(state); err != nil {
		return fmt.Errorf("suspend: %w (rollback: %v)", cause, err)
	}

	return fmt.Errorf("suspend: %w", cause)
}

func (s *Sequencer) restore(state *SavedState) error {
	err := s.ctrl.Gate().Restore(hostport.PortIndexSet[:], state.PortWords[:])
	if err != nil {
		return err
	}

	s.ctrl.Bus().Write(regs.CCMSDRAMGate, state.ClockGating)

	return nil
}

func (s *Sequencer) takeBaseline(state *SavedState) {
	if s.checker == nil {
		return
	}

	sum, err := s.checker.Baseline()
	if err != nil {
		s.InvokeHook(hooking.HookCtx{
			Domain: s,
			Pos:    HookPosIntegrity,
			Item:   "baseline failed",
			Detail: err,
		})

		return
	}

	state.baseline = sum
	state.hasBaseline = true
}

// Resume brings the DLLs and clocks back, leaves self-refresh and restores
// the configuration held by state. The slave DLLs come back with the delay
// codes they latched before suspend rather than with code zero.
//
// A state is consumed only when Resume succeeds. After a failure the same
// state can be resumed again. If the controller is already back in normal
// operation by then, as after a retraining run, only the saved configuration
// is restored.
func (s *Sequencer) Resume(state *SavedState) error {
	switch {
	case state == nil:
		return ErrNoSavedState
	case state.consumed:
		return ErrStateConsumed
	case state != s.outstanding:
		return ErrForeignState
	}

	s.phase(HookPosResume, "start")

	if s.ctrl.State() != dramc.StateNormal {
		if err := s.wake(); err != nil {
			return fmt.Errorf("resume: %w", err)
		}
	}

	if err := s.restore(state); err != nil {
		return fmt.Errorf("resume: %w", err)
	}

	state.consumed = true
	s.outstanding = nil

	s.checkIntegrity(state)
	s.phase(HookPosResume, "done")

	return nil
}

func (s *Sequencer) wake() error {
	s.ctrl.EnableMasterDLL()
	s.ctrl.EnableSlaveDLLs(s.ctrl.SlaveDelayCodes())
	s.ctrl.SetSystemClock(true)
	s.ctrl.EnableTrainingMonitor()
	s.ctrl.ClearClockSelect()

	if err := s.ctrl.ReleasePads(0); err != nil {
		return err
	}

	return s.ctrl.ExitSelfRefresh()
}

// checkIntegrity compares DRAM against the suspend baseline. The outcome is
// only reported.
func (s *Sequencer) checkIntegrity(state *SavedState) {
	if s.checker == nil || !state.hasBaseline {
		return
	}

	res, err := s.checker.Verify()
	if err != nil {
		s.InvokeHook(hooking.HookCtx{
			Domain: s,
			Pos:    HookPosIntegrity,
			Item:   "verify failed",
			Detail: err,
		})

		return
	}

	s.last = &res
	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    HookPosIntegrity,
		Item:   res,
	})
}
