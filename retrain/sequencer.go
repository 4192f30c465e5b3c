// Package retrain rebuilds the DRAM controller configuration after a power
// loss and retrains the read pipe until the calibration scan passes.
package retrain

import (
	"fmt"

	"github.com/sarchlab/dramctl/dramc"
	"github.com/sarchlab/dramctl/hooking"
	"github.com/sarchlab/dramctl/hostport"
	"github.com/sarchlab/dramctl/regs"
	"github.com/sarchlab/dramctl/timing"
)

// Hook positions of a Sequencer.
var (
	HookPosAttempt       = &hooking.HookPos{Name: "Attempt"}
	HookPosScan          = &hooking.HookPos{Name: "Scan"}
	HookPosRetrainFailed = &hooking.HookPos{Name: "RetrainFailed"}
)

// ReadPipeScanner runs the read-pipe delay calibration and tells if it
// found a working setting.
type ReadPipeScanner interface {
	Scan() (bool, error)
}

// Result summarizes a successful run.
type Result struct {
	Attempts int
	Context  Context
}

// Sequencer runs the retraining loop.
type Sequencer struct {
	hooking.HookableBase

	name     string
	ctrl     *dramc.Controller
	scanner  ReadPipeScanner
	policy   Policy
	table    hostport.Table
	loopFreq timing.Freq
}

// Name returns the name of the sequencer.
func (s *Sequencer) Name() string {
	return s.name
}

// Policy returns the retry policy.
func (s *Sequencer) Policy() Policy {
	return s.policy
}

// Run captures the configuration once and replays it until the read-pipe
// scan passes or the policy runs out of attempts.
func (s *Sequencer) Run() (Result, error) {
	ctx := Capture(s.ctrl.Bus())
	limit := s.policy.attempts()

	s.policy.reset()

	var lastErr error

	for attempt := 1; attempt <= limit; attempt++ {
		s.InvokeHook(hooking.HookCtx{
			Domain: s,
			Pos:    HookPosAttempt,
			Item:   attempt,
		})

		passed, err := s.attempt(ctx)

		s.InvokeHook(hooking.HookCtx{
			Domain: s,
			Pos:    HookPosScan,
			Item:   passed,
			Detail: err,
		})

		if err == nil && passed {
			s.ctrl.Recover()
			return Result{Attempts: attempt, Context: ctx}, nil
		}

		lastErr = err

		if attempt < limit {
			s.ctrl.Delay(s.loopFreq.Loops(s.policy.next()))
		}
	}

	exhausted := &ExhaustedError{Attempts: limit, LastErr: lastErr}
	s.InvokeHook(hooking.HookCtx{
		Domain: s,
		Pos:    HookPosRetrainFailed,
		Item:   exhausted,
	})

	return Result{Attempts: limit, Context: ctx}, exhausted
}

// attempt runs one reset-and-reconfigure cycle followed by the scan.
func (s *Sequencer) attempt(ctx Context) (bool, error) {
	c := s.ctrl
	bus := c.Bus()

	c.ResetBusClock()
	c.SetDrive()
	c.DisableTrainingMonitor()
	c.EnableMasterDLL()

	bus.Write(regs.CCR, ctx.CCR)
	bus.Write(regs.DCR, ctx.DCR)
	bus.Write(regs.ZQCR0, ctx.ZQControl())

	c.SetMaxCKEDelay()
	c.SetSystemClock(true)
	c.PulseDDR3Reset()
	c.Delay(dramc.ShortLoops)

	if err := c.WaitInitDone(); err != nil {
		return false, fmt.Errorf("reset: %w", err)
	}

	c.EnableSlaveDLLs(ctx.DLLCodes)

	for _, w := range ctx.timingWrites() {
		bus.Write(w.addr, w.value)
	}

	if err := c.Initialize(); err != nil {
		return false, fmt.Errorf("init: %w", err)
	}

	if err := c.ReleasePads(dramc.PadReleaseLoops); err != nil {
		return false, fmt.Errorf("pad release: %w", err)
	}

	c.EnableTrainingMonitor()

	passed, err := s.scanner.Scan()
	if err != nil {
		err = fmt.Errorf("read-pipe scan: %w", err)
	}

	c.Gate().ApplyTable(s.table)

	return passed, err
}
